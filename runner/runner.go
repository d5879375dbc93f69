package runner

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	vsConfig "github.com/meteocima/virtual-server/config"
	"github.com/meteocima/virtual-server/ctx"
	"github.com/meteocima/virtual-server/vpath"
	"github.com/parro-it/fileargs"

	"github.com/meteocima/parflow-runner/conf"
	"github.com/meteocima/parflow-runner/folders"
	"github.com/meteocima/parflow-runner/pfidb"
	"github.com/meteocima/parflow-runner/scenario"
)

// Init ...
func Init(cfgFile, workdir vpath.VirtualPath) error {
	folders.Root = workdir

	err := vsConfig.Init(cfgFile.Path)
	if err != nil {
		return err
	}

	err = conf.Init(cfgFile)
	if err != nil {
		return err
	}

	folders.Cfg = conf.Config.Folders
	return nil
}

// RunName returns the name given to the solver
// run of scenario `sc`: every output file name
// starts with it.
func RunName(sc conf.Scenario) string {
	switch sc {
	case conf.Overland:
		return "Dunne"
	case conf.CLM:
		return "PFCLM_SC"
	}
	return ""
}

// NewScenario returns the run for scenario `sc`.
func NewScenario(sc conf.Scenario) (*scenario.Run, error) {
	switch sc {
	case conf.Overland:
		return scenario.Overland(RunName(sc)), nil
	case conf.CLM:
		return scenario.CLM(RunName(sc)), nil
	}
	return nil, fmt.Errorf("unknown scenario `%s`", sc)
}

// Database builds the key database of scenario `sc`
// for a period lasting `duration`. The process topology
// and the keys from configuration file override the
// scenario values. The database is validated and frozen.
func Database(sc conf.Scenario, duration time.Duration) (*scenario.Run, *pfidb.Database, error) {
	run, err := NewScenario(sc)
	if err != nil {
		return nil, nil, err
	}

	run.SetPeriod(duration)
	if p := conf.Config.Procs; p.Count() > 0 {
		run.Topology = scenario.Topology{P: p.P, Q: p.Q, R: p.R}
	}

	db := run.Database()

	overrides := make([]string, 0, len(conf.Config.Keys))
	for key := range conf.Config.Keys {
		overrides = append(overrides, key)
	}
	sort.Strings(overrides)
	for _, key := range overrides {
		db.Set(key, conf.Config.Keys[key])
	}

	if err := db.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid run database for scenario %s: %w", sc, err)
	}
	db.Freeze()
	return run, db, nil
}

// RemoveRunFolder ...
func RemoveRunFolder(vs *ctx.Context, dir vpath.VirtualPath) {
	if vs.Err != nil {
		return
	}

	if vs.Exists(dir) {
		vs.LogInfo("Remove run folder %s", dir.String())
		vs.RmDir(dir)
	}
}

// Run executes scenario `sc` once for each period,
// sequentially. The first failure stops the run
// and is returned.
func Run(periods []*fileargs.Period, workdir vpath.VirtualPath, sc conf.Scenario, force bool,
	logWriter io.Writer, detailLogWriter io.Writer,
) error {
	vs := ctx.New(os.Stdin, logWriter, detailLogWriter)

	exists := vs.Exists(workdir)
	if vs.Err != nil {
		return vs.Err
	}
	if !exists {
		return fmt.Errorf("directory not found: %s", workdir.String())
	}

	for _, period := range periods {
		start := period.Start
		duration := period.Duration
		vs.LogInfo("STARTING %s RUN FOR DATE %s, with a duration of %d", sc, start.Format("2006010215"), int(duration.Hours()))

		run, db, err := Database(sc, duration)
		if err != nil {
			vs.Err = err
			break
		}

		dir := folders.RunDir(start, sc)
		if force {
			RemoveRunFolder(vs, dir)
		}
		BuildRunDir(vs, run, dir, start, start.Add(duration))
		WriteDatabase(vs, db, folders.DatabaseFile(dir, run.Name))
		RunParflow(vs, dir, run)
		CheckSolved(vs, dir, run.Name)

		if vs.Err != nil {
			break
		}
		vs.LogInfo("%s RUN FOR DATE %s COMPLETED", sc, start.Format("2006010215"))
	}

	return vs.Err
}
