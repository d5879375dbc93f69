package runner

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/meteocima/namelist-prepare/namelist"
	"github.com/meteocima/virtual-server/connection"
	"github.com/meteocima/virtual-server/ctx"
	"github.com/meteocima/virtual-server/vpath"

	"github.com/meteocima/parflow-runner/conf"
	"github.com/meteocima/parflow-runner/folders"
	"github.com/meteocima/parflow-runner/pfidb"
	"github.com/meteocima/parflow-runner/scenario"
)

// solvedMark is written by the solver to
// its summary file on success.
const solvedMark = "Problem solved"

// BuildRunDir ...
func BuildRunDir(vs *ctx.Context, run *scenario.Run, dir vpath.VirtualPath, start, end time.Time) {
	if vs.Err != nil {
		return
	}

	if vs.Exists(dir) {
		vs.Err = fmt.Errorf("run directory `%s` already exists", dir.String())
		return
	}

	vs.LogInfo("build run dir for %s on `%s`", run.Name, dir.String())
	vs.MkDir(dir)

	for _, in := range run.GeomInputs {
		if in.InputType != "SolidFile" {
			continue
		}
		solid := vpath.New(dir.Host, folders.Cfg.SolidFile.Path)
		vs.LogInfo("Copy solid file %s", solid.String())
		vs.Copy(solid, dir.Join(in.FileName))
	}

	if run.CLM == nil {
		return
	}

	vs.MkDir(dir.Join(run.CLM.FileDir))

	for _, input := range run.CLM.Inputs {
		copyInput(vs, conf.CLM, input, dir, start, end)
	}

	forcingDir := folders.ForcingDir(start)
	forcingDir.Host = dir.Host
	vs.MkDir(forcingDir)

	forcing := folders.ForcingSource(run.CLM.MetFileName)
	forcing.Host = dir.Host
	vs.LogInfo("Copy forcing %s", forcing.String())
	vs.Copy(forcing, forcingDir.Join(run.CLM.MetFileName))
	vs.LogInfo("Copy done")
}

// copyInput copies static input `name` of scenario `sc`
// into `dir`. When a `<name>.tmpl` template exists in the
// templates directory it is rendered with the period dates
// instead.
func copyInput(vs *ctx.Context, sc conf.Scenario, name string, dir vpath.VirtualPath, start, end time.Time) {
	if vs.Err != nil {
		return
	}

	if conf.Config.Folders.TemplatesDir.Path != "" {
		tmpl := conf.TemplateFile(name + ".tmpl")
		tmpl.Host = dir.Host
		if vs.Exists(tmpl) {
			vs.LogInfo("Render %s", tmpl.String())
			conf.RenderTemplate(vs, tmpl, dir.Join(name), namelist.Args{
				Start: start,
				End:   end,
			})
			return
		}
	}

	src := folders.InputsDir(sc).Join(name)
	src.Host = dir.Host
	vs.Copy(src, dir.Join(name))
}

// WriteDatabase ...
func WriteDatabase(vs *ctx.Context, db *pfidb.Database, target vpath.VirtualPath) {
	if vs.Err != nil {
		return
	}
	vs.LogInfo("write %d keys to %s", db.Len(), target.String())
	vs.WriteString(target, db.String())
}

// RunParflow ...
func RunParflow(vs *ctx.Context, dir vpath.VirtualPath, run *scenario.Run) {
	if vs.Err != nil {
		return
	}

	procs := run.Topology.Procs()
	vs.LogInfo("parflow %s on %d processes", run.Name, procs)

	logFile := folders.LogFile(dir, run.Name)
	env := append(
		conf.Config.Env.ToSlice(),
		"PARFLOW_DIR="+conf.Config.Folders.ParflowDir.Path,
	)
	vs.Exec(
		vpath.New(dir.Host, "mpirun"),
		conf.MkMPIOptions("-n", strconv.Itoa(procs), folders.ParflowExe(dir.Host).Path, run.Name),
		&connection.RunOptions{
			OutFromLog: &logFile,
			Cwd:        dir,
			Env:        env,
		},
	)
}

// CheckSolved fails when the summary written by the
// solver does not report a solved problem.
func CheckSolved(vs *ctx.Context, dir vpath.VirtualPath, run string) {
	if vs.Err != nil {
		return
	}

	summaryFile := folders.SummaryFile(dir, run)
	if !vs.Exists(summaryFile) {
		vs.Err = fmt.Errorf("solver summary `%s` not found", summaryFile.String())
		return
	}
	summary := vs.ReadString(summaryFile)
	if vs.Err != nil {
		return
	}
	if !Solved(summary) {
		vs.Err = fmt.Errorf("parflow run %s failed: see `%s`", run, folders.LogFile(dir, run).String())
	}
}

// Solved reports whether solver summary
// `summary` describes a successful run.
func Solved(summary string) bool {
	return strings.Contains(summary, solvedMark)
}
