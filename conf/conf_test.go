package conf

import (
	"path"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/meteocima/virtual-server/vpath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture(filePath string) string {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		panic("cannot retrieve the source file path")
	} else {
		file = filepath.Dir(filepath.Dir(file))
	}

	return path.Join(file, "fixtures", filePath)
}

func TestInit(t *testing.T) {
	err := Init(vpath.Local(fixture("parflow-runner.cfg")))
	require.NoError(t, err)

	assert.Equal(t, "/opt/parflow", Config.Folders.ParflowDir.Path)
	assert.Equal(t, fixture("inputs"), Config.Folders.InputsDir.Path)
	assert.Equal(t, fixture("inputs/forcing"), Config.Folders.ForcingDir.Path)
	assert.Equal(t, fixture("inputs/overland/tuff.pfsol"), Config.Folders.SolidFile.Path)
	assert.Equal(t, fixture("templates/drv_clmin.dat.tmpl"), TemplateFile("drv_clmin.dat.tmpl").Path)

	assert.Equal(t, 2, Config.Procs.Count())
	assert.Equal(t, []string{"--oversubscribe", "-n", "2"}, MkMPIOptions("-n", "2"))
	assert.Equal(t, []string{"HDF5_USE_FILE_LOCKING=FALSE", "OMP_NUM_THREADS=1"}, Config.Env.ToSlice())

	assert.Equal(t, int64(3000), Config.Keys["Solver.MaxIter"])
	assert.Equal(t, 1e-7, Config.Keys["Solver.Nonlinear.ResidualTol"])
	assert.Equal(t, true, Config.Keys["Solver.PrintSaturation"])

	assert.Equal(t, 0.1, Config.Render.Vmin)
	assert.Equal(t, 1.0, Config.Render.Vmax)
	assert.Equal(t, "viridis_r", Config.Render.Colormap)
	assert.Equal(t, 3, Config.Render.Scale)
	assert.Equal(t, 12, Config.Render.FPS)
}

func TestInitRejectsInvalidScale(t *testing.T) {
	err := Init(vpath.Local(fixture("bad-render.cfg")))
	assert.Error(t, err)
}

func TestInitMissingFile(t *testing.T) {
	err := Init(vpath.Local(fixture("missing.cfg")))
	assert.Error(t, err)
}

func TestScenarioFromString(t *testing.T) {
	var sc Scenario
	require.NoError(t, sc.FromString("clm"))
	assert.Equal(t, CLM, sc)
	require.NoError(t, sc.FromString("OVERLAND"))
	assert.Equal(t, Overland, sc)
	assert.Equal(t, "overland", sc.String())
	assert.Error(t, sc.FromString("wrf"))
	assert.Equal(t, "unspecified", Unspecified.String())
}

func TestFieldFromString(t *testing.T) {
	var f Field
	require.NoError(t, f.FromString("satur"))
	assert.Equal(t, Saturation, f)
	assert.Error(t, f.FromString("temperature"))
}
