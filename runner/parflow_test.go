package runner

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/meteocima/virtual-server/ctx"
	"github.com/meteocima/virtual-server/vpath"
	"github.com/parro-it/fileargs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meteocima/parflow-runner/conf"
	"github.com/meteocima/parflow-runner/folders"
	"github.com/meteocima/parflow-runner/scenario"
)

const localCfg = `
[hosts.localhost]
type = 0

[Folders]
ParflowDir = "parflow"
InputsDir = "inputs"
ForcingDir = "forcing-src"
SolidFile = "inputs/overland/tuff.pfsol"
TemplatesDir = "templates"
`

var runStart = time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)

func writeFile(t *testing.T, file, content string) {
	require.NoError(t, os.MkdirAll(filepath.Dir(file), 0775))
	require.NoError(t, os.WriteFile(file, []byte(content), 0664))
}

func readFile(t *testing.T, file string) string {
	content, err := os.ReadFile(file)
	require.NoError(t, err)
	return string(content)
}

// localWorkdir prepares a workdir with a configuration
// file, the static inputs of both scenarios and the
// forcing, and initializes the runner on it.
func localWorkdir(t *testing.T) (*ctx.Context, string) {
	savedRoot, savedCfg, savedConf := folders.Root, folders.Cfg, conf.Config
	t.Cleanup(func() {
		folders.Root, folders.Cfg, conf.Config = savedRoot, savedCfg, savedConf
	})

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "parflow-runner.cfg"), localCfg)
	writeFile(t, filepath.Join(root, "inputs/overland/tuff.pfsol"), "solid")
	writeFile(t, filepath.Join(root, "inputs/clm/drv_clmin.dat"), "clmin")
	writeFile(t, filepath.Join(root, "inputs/clm/drv_vegm.dat"), "vegm")
	writeFile(t, filepath.Join(root, "inputs/clm/drv_vegp.dat"), "vegp")
	writeFile(t, filepath.Join(root, "forcing-src/narr_1hr.txt"), "forcing")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "templates"), 0775))

	err := Init(vpath.Local(filepath.Join(root, "parflow-runner.cfg")), vpath.Local(root))
	require.NoError(t, err)

	return ctx.New(os.Stdin, io.Discard, io.Discard), root
}

func TestBuildRunDirOverland(t *testing.T) {
	vs, root := localWorkdir(t)
	run := scenario.Overland("Dunne")
	dir := folders.RunDir(runStart, conf.Overland)

	BuildRunDir(vs, run, dir, runStart, runStart.Add(5*time.Hour))
	require.NoError(t, vs.Err)

	assert.DirExists(t, filepath.Join(root, "2020010200/overland"))
	assert.Equal(t, "solid", readFile(t, filepath.Join(root, "2020010200/tuff.pfsol")))
	assert.NoDirExists(t, filepath.Join(root, "2020010200/forcing"))
}

func TestBuildRunDirCLM(t *testing.T) {
	vs, root := localWorkdir(t)
	run := scenario.CLM("PFCLM_SC")
	dir := folders.RunDir(runStart, conf.CLM)

	BuildRunDir(vs, run, dir, runStart, runStart.Add(48*time.Hour))
	require.NoError(t, vs.Err)

	runDir := filepath.Join(root, "2020010200/clm")
	assert.DirExists(t, filepath.Join(runDir, "output"))
	assert.Equal(t, "clmin", readFile(t, filepath.Join(runDir, "drv_clmin.dat")))
	assert.Equal(t, "vegm", readFile(t, filepath.Join(runDir, "drv_vegm.dat")))
	assert.Equal(t, "vegp", readFile(t, filepath.Join(runDir, "drv_vegp.dat")))
	assert.Equal(t, "forcing", readFile(t, filepath.Join(root, "2020010200/forcing/narr_1hr.txt")))
}

func TestBuildRunDirRendersTemplates(t *testing.T) {
	vs, root := localWorkdir(t)
	writeFile(t, filepath.Join(root, "templates/drv_clmin.dat.tmpl"),
		"start {{.Start.Year}} {{.Start.Month}} {{.Start.Day}}\nhours {{.Hours}}",
	)
	run := scenario.CLM("PFCLM_SC")

	BuildRunDir(vs, run, folders.RunDir(runStart, conf.CLM), runStart, runStart.Add(48*time.Hour))
	require.NoError(t, vs.Err)

	runDir := filepath.Join(root, "2020010200/clm")
	assert.Equal(t, "start 2020 1 2\nhours 48\n", readFile(t, filepath.Join(runDir, "drv_clmin.dat")))
	assert.Equal(t, "vegm", readFile(t, filepath.Join(runDir, "drv_vegm.dat")))
}

func TestBuildRunDirFailsWhenDirExists(t *testing.T) {
	vs, root := localWorkdir(t)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "2020010200/overland"), 0775))

	BuildRunDir(vs, scenario.Overland("Dunne"), folders.RunDir(runStart, conf.Overland), runStart, runStart)
	require.Error(t, vs.Err)
	assert.Contains(t, vs.Err.Error(), "already exists")
	assert.NoFileExists(t, filepath.Join(root, "2020010200/tuff.pfsol"))
}

func TestRemoveRunFolder(t *testing.T) {
	vs, root := localWorkdir(t)
	dir := folders.RunDir(runStart, conf.Overland)
	writeFile(t, filepath.Join(root, "2020010200/overland/Dunne.out.txt"), "old run")

	RemoveRunFolder(vs, dir)
	require.NoError(t, vs.Err)
	assert.NoDirExists(t, filepath.Join(root, "2020010200/overland"))

	// a missing folder is not an error
	RemoveRunFolder(vs, dir)
	assert.NoError(t, vs.Err)

	BuildRunDir(vs, scenario.Overland("Dunne"), dir, runStart, runStart)
	assert.NoError(t, vs.Err)
}

func TestWriteDatabase(t *testing.T) {
	vs, root := localWorkdir(t)
	_, db, err := Database(conf.Overland, 0)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "2020010200/overland"), 0775))

	WriteDatabase(vs, db, folders.DatabaseFile(folders.RunDir(runStart, conf.Overland), "Dunne"))
	require.NoError(t, vs.Err)
	assert.Equal(t, db.String(), readFile(t, filepath.Join(root, "2020010200/overland/Dunne.pfidb")))
}

func TestCheckSolved(t *testing.T) {
	vs, root := localWorkdir(t)
	dir := vpath.Local(root)

	writeFile(t, filepath.Join(root, "Dunne.out.txt"), "Total Run Time: 1.2\nProblem solved \n")
	CheckSolved(vs, dir, "Dunne")
	assert.NoError(t, vs.Err)

	writeFile(t, filepath.Join(root, "Dunne.out.txt"), "Solver failed at step 3\n")
	CheckSolved(vs, dir, "Dunne")
	require.Error(t, vs.Err)
	assert.Contains(t, vs.Err.Error(), "Dunne.out.log")

	vs.Err = nil
	CheckSolved(vs, dir, "PFCLM_SC")
	require.Error(t, vs.Err)
	assert.Contains(t, vs.Err.Error(), "not found")
}

func TestRunMissingWorkdir(t *testing.T) {
	_, root := localWorkdir(t)

	err := Run(nil, vpath.Local(filepath.Join(root, "missing")), conf.Overland, false, io.Discard, io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "directory not found")
}

func TestRunUnknownHost(t *testing.T) {
	localWorkdir(t)

	err := Run(nil, vpath.New("nowhere", "/tmp"), conf.Overland, false, io.Discard, io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown host `nowhere`")
	assert.NotContains(t, err.Error(), "directory not found")
}

func TestRunStopsWhenRunDirExists(t *testing.T) {
	_, root := localWorkdir(t)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "2020010200/overland"), 0775))

	periods := []*fileargs.Period{{Start: runStart, Duration: 5 * time.Hour}}
	err := Run(periods, vpath.Local(root), conf.Overland, false, io.Discard, io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestInitWithFixtureConfig(t *testing.T) {
	savedRoot, savedCfg, savedConf := folders.Root, folders.Cfg, conf.Config
	t.Cleanup(func() {
		folders.Root, folders.Cfg, conf.Config = savedRoot, savedCfg, savedConf
	})

	root := t.TempDir()
	err := Init(vpath.Local(fixture("parflow-runner.cfg")), vpath.Local(root))
	require.NoError(t, err)
	assert.Equal(t, fixture("inputs/overland/tuff.pfsol"), folders.Cfg.SolidFile.Path)

	vs := ctx.New(os.Stdin, io.Discard, io.Discard)
	assert.True(t, vs.Exists(folders.Root))
	assert.NoError(t, vs.Err)
}
