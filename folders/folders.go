package folders

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/meteocima/virtual-server/vpath"

	"github.com/meteocima/parflow-runner/conf"
)

var Root vpath.VirtualPath
var Cfg conf.FoldersConf

// ArgumentsFile is the periods file read
// when no dates are given on command line.
const ArgumentsFile = "inputs/arguments.txt"

func WorkdirForDate(startDate time.Time) vpath.VirtualPath {
	return Root.Join(startDate.Format("2006010215"))
}

// RunDir is the directory where the solver
// runs scenario `sc` for the period starting
// at `startDate`.
func RunDir(startDate time.Time, sc conf.Scenario) vpath.VirtualPath {
	return WorkdirForDate(startDate).Join(sc.String())
}

// ForcingDir is where CLM runs read their
// meteorological forcing: a sibling of the
// run directory.
func ForcingDir(startDate time.Time) vpath.VirtualPath {
	return WorkdirForDate(startDate).Join("forcing")
}

// InputsDir contains the static inputs
// of scenario `sc`.
func InputsDir(sc conf.Scenario) vpath.VirtualPath {
	return Cfg.InputsDir.Join(sc.String())
}

func ForcingSource(file string) vpath.VirtualPath {
	return Cfg.ForcingDir.Join(file)
}

func ParflowExe(host string) vpath.VirtualPath {
	return vpath.New(host, Cfg.ParflowDir.Join("bin/parflow").Path)
}

// OutputFile returns the name of the file saved by
// the solver for `field` at dump `index`.
func OutputFile(run, field string, index int, ext string) string {
	return fmt.Sprintf("%s.out.%s.%05d.%s", run, field, index, ext)
}

// OutputFiles returns the local paths of `n` consecutive
// output files in `dir`, starting at dump `first`.
func OutputFiles(dir, run, field string, first, n int, ext string) []string {
	res := make([]string, n)
	for i := range res {
		res[i] = filepath.Join(dir, OutputFile(run, field, first+i, ext))
	}
	return res
}

func LogFile(dir vpath.VirtualPath, run string) vpath.VirtualPath {
	return dir.Join("%s.out.log", run)
}

func SummaryFile(dir vpath.VirtualPath, run string) vpath.VirtualPath {
	return dir.Join("%s.out.txt", run)
}

func DatabaseFile(dir vpath.VirtualPath, run string) vpath.VirtualPath {
	return dir.Join("%s.pfidb", run)
}
