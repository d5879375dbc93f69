package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/meteocima/virtual-server/vpath"
	"github.com/parro-it/fileargs"
	"gonum.org/v1/gonum/floats"

	"github.com/meteocima/parflow-runner/conf"
	"github.com/meteocima/parflow-runner/folders"
	"github.com/meteocima/parflow-runner/frames"
	"github.com/meteocima/parflow-runner/fsutil"
	"github.com/meteocima/parflow-runner/pfb"
	"github.com/meteocima/parflow-runner/pfidb"
	"github.com/meteocima/parflow-runner/postpro"
	"github.com/meteocima/parflow-runner/render"
	"github.com/meteocima/parflow-runner/runner"
	"github.com/meteocima/parflow-runner/scenario"
)

// Version of the command
var Version string = "development"

const usage = `
Usage: parflow-runner [-v] <command> [options] <arguments>

run [-s overland|clm] [-f] <workdir> [startdate enddate]
	build the run directory of the scenario and execute ParFlow on it, once
	for each period. To choose which dates to elaborate you can use startdate
	and enddate arguments if you need a single date. Otherwise, you omit this
	two arguments, and an inputs/arguments.txt will be read that contains the
	path of the configuration file followed by all the dates to run.
	Format for dates is YYYYMMDDHH. workdir must be set to the path of a
	directory containing a prepared environment.
	-f remove the run directory if it already exists.

keys [-s overland|clm] [-c <cfgfile>] [-hours N] [-o <file>] [-diff <file.pfidb>]
	write the run database of the scenario without running it. With -diff,
	print the keys that differ from the database saved in file.pfidb
	instead, exiting with status 1 when there are any.

animate [-s overland|clm] [-c <cfgfile>] [-field satur] [-first 0] [-n 100]
        [-y 0] [-frame i] [-png <dir>] [-o <file>] <rundir>
	render the fields saved in rundir as a fixed scale heatmap animation
	(an AVI file), optionally saving each frame as png. With -frame, only
	the frame of the selected dump is saved as png. Captions and png
	names carry the dump index of the frame. Relative output paths are
	resolved against rundir.

plot [-first 1] [-n 8759] [-o <file>] <rundir>
	plot latent heat, SWE and runoff of a CLM run. A relative output
	path is resolved against rundir.

inspect [-header] [-cell x,y,z] <file.pfb>
	print header and value range of a pfb file. -header reads the header
	only, -cell prints the value of a cell too.

-v show version of the executable
`

const defaultCfgFile = "parflow-runner.cfg"

func failed(err error) {
	log.Fatalf("%s\n\n%s\n", err, usage)
}

func syntaxInvalid() {
	failed(errors.New("Invalid arguments provided"))
}

func main() {
	showver := flag.Bool("v", false, "")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if showver != nil && *showver {
		fmt.Printf("parflow-runner ver. %s\n", Version)
		return
	}

	args := flag.Args()
	if len(args) < 1 {
		syntaxInvalid()
	}

	command, args := args[0], args[1:]
	switch command {
	case "run":
		runCmd(args)
	case "keys":
		keysCmd(args)
	case "animate":
		animateCmd(args)
	case "plot":
		plotCmd(args)
	case "inspect":
		inspectCmd(args)
	default:
		failed(fmt.Errorf("Unknown command `%s`", command))
	}
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	return fs
}

func parseScenario(name string) conf.Scenario {
	var sc conf.Scenario
	if err := sc.FromString(name); err != nil {
		failed(err)
	}
	return sc
}

// initConf reads the configuration file when given,
// otherwise default render options are used.
func initConf(cfgFile string) {
	conf.Config.Render = conf.DefaultRender
	if cfgFile == "" {
		return
	}
	absCfg, err := filepath.Abs(cfgFile)
	if err != nil {
		log.Fatal(err.Error())
	}
	if err := conf.Init(vpath.Local(absCfg)); err != nil {
		log.Fatal(err.Error())
	}
}

func runCmd(cmdArgs []string) {
	fs := newFlagSet("run")
	scenarioF := fs.String("s", "overland", "")
	forceF := fs.Bool("f", false, "")
	fs.Parse(cmdArgs)

	sc := parseScenario(*scenarioF)

	args := fs.Args()
	if len(args) != 1 && len(args) != 3 {
		syntaxInvalid()
	}

	absWd, err := filepath.Abs(args[0])
	if err != nil {
		log.Fatal(err.Error())
	}
	wd := vpath.Local(absWd)

	var dates *fileargs.FileArguments
	if len(args) == 1 {
		dates = readInputArgs(wd)
	} else {
		dates = datesFromArgs(args, wd)
	}

	cfgFile := vpath.Local(dates.CfgPath)

	err = runner.Init(cfgFile, wd)
	if err != nil {
		log.Fatal(err.Error())
	}

	err = runner.Run(dates.Periods,
		wd, sc, *forceF, os.Stdout, os.Stderr,
	)

	if err != nil {
		log.Fatal(err.Error())
	}
}

func datesFromArgs(args []string, wd vpath.VirtualPath) *fileargs.FileArguments {
	dates := &fileargs.FileArguments{
		Periods: []*fileargs.Period{},
		CfgPath: "",
	}
	startDate, err := time.Parse("2006010215", args[1])
	if err != nil {
		log.Fatal(usage + err.Error() + "\n")
	}
	endDate, err := time.Parse("2006010215", args[2])
	if err != nil {
		log.Fatal(usage + err.Error() + "\n")
	}
	if !endDate.After(startDate) {
		failed(fmt.Errorf("enddate %s must follow startdate %s", args[2], args[1]))
	}

	dates.Periods = append(dates.Periods, &fileargs.Period{
		Start:    startDate,
		Duration: endDate.Sub(startDate),
	})

	dates.CfgPath = wd.Join(defaultCfgFile).Path
	return dates
}

func readInputArgs(wd vpath.VirtualPath) *fileargs.FileArguments {
	dates, err := runner.ReadTimes(wd.Path, folders.ArgumentsFile)
	if err != nil {
		log.Fatal(err.Error() + "\n")
	}
	if !filepath.IsAbs(dates.CfgPath) {
		dates.CfgPath = wd.Join(dates.CfgPath).Path
	}
	return dates
}

func keysCmd(cmdArgs []string) {
	fs := newFlagSet("keys")
	scenarioF := fs.String("s", "overland", "")
	cfgF := fs.String("c", "", "")
	hoursF := fs.Int("hours", 0, "")
	outF := fs.String("o", "", "")
	diffF := fs.String("diff", "", "")
	fs.Parse(cmdArgs)

	if fs.NArg() != 0 || *hoursF < 0 {
		syntaxInvalid()
	}
	sc := parseScenario(*scenarioF)
	initConf(*cfgF)

	_, db, err := runner.Database(sc, time.Duration(*hoursF)*time.Hour)
	if err != nil {
		log.Fatal(err.Error())
	}

	if *diffF != "" {
		saved, err := readDatabase(*diffF)
		if err != nil {
			log.Fatal(err.Error())
		}
		if printDiff(os.Stdout, db, saved) > 0 {
			os.Exit(1)
		}
		return
	}

	if *outF == "" {
		if _, err := db.WriteTo(os.Stdout); err != nil {
			log.Fatal(err.Error())
		}
		return
	}

	tr := fsutil.Transaction{}
	tr.Save(fsutil.Path(*outF), []byte(db.String()))
	if tr.Err != nil {
		log.Fatal(tr.Err.Error())
	}
}

func readDatabase(file string) (*pfidb.Database, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	db, err := pfidb.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("cannot read `%s`: %w", file, err)
	}
	return db, nil
}

// printDiff writes the keys whose value differs between
// `db` and `saved`, and returns how many they are.
func printDiff(w io.Writer, db, saved *pfidb.Database) int {
	value := func(db *pfidb.Database, key string) string {
		if v, ok := db.Get(key); ok {
			return fmt.Sprintf("`%s`", v)
		}
		return "unset"
	}
	keys := db.Diff(saved)
	for _, key := range keys {
		fmt.Fprintf(w, "%s: %s, saved %s\n", key, value(db, key), value(saved, key))
	}
	return len(keys)
}

func animateCmd(cmdArgs []string) {
	fs := newFlagSet("animate")
	scenarioF := fs.String("s", "overland", "")
	cfgF := fs.String("c", "", "")
	fieldF := fs.String("field", string(conf.Saturation), "")
	firstF := fs.Int("first", 0, "")
	countF := fs.Int("n", 100, "")
	rowF := fs.Int("y", 0, "")
	frameF := fs.Int("frame", -1, "")
	pngF := fs.String("png", "", "")
	outF := fs.String("o", "", "")
	fs.Parse(cmdArgs)

	if fs.NArg() != 1 || *countF < 1 || *firstF < 0 {
		syntaxInvalid()
	}
	sc := parseScenario(*scenarioF)
	var field conf.Field
	if err := field.FromString(*fieldF); err != nil {
		failed(err)
	}
	initConf(*cfgF)
	rundir := fs.Arg(0)
	run := runner.RunName(sc)
	root := fsutil.Path(rundir)

	files := folders.OutputFiles(rundir, run, string(field), *firstF, *countF, "pfb")
	stack, err := frames.Load(files, frames.YSlice(*rowF))
	if err != nil {
		log.Fatal(err.Error())
	}
	lo, hi := stack.Range()
	fsutil.Logf("loaded %d frames of %s, values in [%g, %g]\n", len(stack), field, lo, hi)

	rc := conf.Config.Render
	cm, err := render.ColormapByName(rc.Colormap)
	if err != nil {
		failed(err)
	}
	anim := render.Animation{
		Painter: render.Heatmap{Colormap: cm, CellSize: rc.Scale},
		Scale:   render.Scale{Min: rc.Vmin, Max: rc.Vmax},
		FPS:     rc.FPS,
		First:   *firstF,
	}

	if *frameF >= 0 {
		out := *outF
		if out == "" {
			out = fmt.Sprintf("%s.%s.%05d.png", run, field, *frameF)
		}
		img, err := anim.Frame(stack, *frameF-*firstF)
		if err != nil {
			failed(err)
		}
		content, err := render.EncodePNG(img)
		if err != nil {
			log.Fatal(err.Error())
		}
		tr := fsutil.Transaction{Root: root}
		tr.Save(fsutil.Path(out), content)
		if tr.Err != nil {
			log.Fatal(tr.Err.Error())
		}
		return
	}

	out := *outF
	if out == "" {
		out = fmt.Sprintf("%s.%s.avi", run, field)
	}
	video := root.JoinP(fsutil.Path(out))
	if err := anim.WriteAVI(video.String(), stack); err != nil {
		log.Fatal(err.Error())
	}
	fsutil.Logf("animation saved to %s\n", video)

	if *pngF != "" {
		if err := anim.WritePNGs(root.JoinP(fsutil.Path(*pngF)), fmt.Sprintf("%s.%s", run, field), stack); err != nil {
			log.Fatal(err.Error())
		}
	}
}

func plotCmd(cmdArgs []string) {
	fs := newFlagSet("plot")
	firstF := fs.Int("first", 1, "")
	countF := fs.Int("n", scenario.CLMHours-1, "")
	outF := fs.String("o", "", "")
	fs.Parse(cmdArgs)

	if fs.NArg() != 1 || *countF < 2 || *firstF < 0 {
		syntaxInvalid()
	}

	run, err := runner.NewScenario(conf.CLM)
	if err != nil {
		log.Fatal(err.Error())
	}
	series, err := postpro.LoadCLM(fs.Arg(0), run, *firstF, *countF)
	if err != nil {
		log.Fatal(err.Error())
	}

	out := *outF
	if out == "" {
		out = run.Name + ".png"
	}
	tr := fsutil.Transaction{Root: fsutil.Path(fs.Arg(0))}
	f := tr.Create(fsutil.Path(out))
	if tr.Err != nil {
		log.Fatal(tr.Err.Error())
	}
	defer f.Close()

	if err := series.Plot().Render(f); err != nil {
		log.Fatal(err.Error())
	}
	if err := f.Close(); err != nil {
		log.Fatal(err.Error())
	}
	fsutil.Logf("plot saved to %s\n", tr.Root.JoinP(fsutil.Path(out)))
}

func inspectCmd(cmdArgs []string) {
	fs := newFlagSet("inspect")
	headerF := fs.Bool("header", false, "")
	cellF := fs.String("cell", "", "")
	fs.Parse(cmdArgs)

	if fs.NArg() != 1 {
		syntaxInvalid()
	}
	if err := inspect(os.Stdout, fs.Arg(0), *headerF, *cellF); err != nil {
		log.Fatal(err.Error())
	}
}

func inspect(w io.Writer, file string, headerOnly bool, cell string) error {
	h, err := pfb.ReadHeader(file)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "file:     %s\n", file)
	fmt.Fprintf(w, "origin:   %g %g %g\n", h.X, h.Y, h.Z)
	fmt.Fprintf(w, "size:     %d x %d x %d\n", h.NX, h.NY, h.NZ)
	fmt.Fprintf(w, "spacing:  %g %g %g\n", h.DX, h.DY, h.DZ)
	fmt.Fprintf(w, "subgrids: %d\n", h.NumSubgrids)
	if headerOnly {
		return nil
	}

	var x, y, z int
	if cell != "" {
		if _, err := fmt.Sscanf(cell, "%d,%d,%d", &x, &y, &z); err != nil {
			return fmt.Errorf("invalid cell `%s`: expecting x,y,z", cell)
		}
		if x < 0 || x >= h.NX || y < 0 || y >= h.NY || z < 0 || z >= h.NZ {
			return fmt.Errorf("cell (%d,%d,%d) outside %dx%dx%d grid", x, y, z, h.NX, h.NY, h.NZ)
		}
	}

	pf, err := pfb.Open(file)
	if err != nil {
		return err
	}
	defer pf.Close()
	if err := pf.LoadHeader(); err != nil {
		return err
	}
	if err := pf.LoadData(); err != nil {
		return err
	}

	values := make([]float64, 0, h.Cells())
	for k := 0; k < h.NZ; k++ {
		for j := 0; j < h.NY; j++ {
			for i := 0; i < h.NX; i++ {
				values = append(values, pf.At(i, j, k))
			}
		}
	}

	fmt.Fprintf(w, "min:      %g\n", floats.Min(values))
	fmt.Fprintf(w, "max:      %g\n", floats.Max(values))
	fmt.Fprintf(w, "mean:     %g\n", floats.Sum(values)/float64(len(values)))
	if cell != "" {
		fmt.Fprintf(w, "cell:     (%d,%d,%d) = %g\n", x, y, z, pf.At(x, y, z))
	}
	return pf.Close()
}
