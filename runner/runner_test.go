package runner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meteocima/parflow-runner/conf"
)

func withConfig(t *testing.T, cfg conf.Configuration) {
	saved := conf.Config
	conf.Config = cfg
	t.Cleanup(func() { conf.Config = saved })
}

func TestDatabaseCLMStopTimeFollowsPeriod(t *testing.T) {
	withConfig(t, conf.Configuration{})

	run, db, err := Database(conf.CLM, 48*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "PFCLM_SC", run.Name)
	assert.True(t, db.Frozen())

	v, _ := db.Get("TimingInfo.StopTime")
	assert.Equal(t, "48", v)
}

func TestDatabaseOverlandIgnoresPeriod(t *testing.T) {
	withConfig(t, conf.Configuration{})

	_, db, err := Database(conf.Overland, 48*time.Hour)
	require.NoError(t, err)
	v, _ := db.Get("TimingInfo.StopTime")
	assert.Equal(t, "5", v)
}

func TestDatabaseOverrides(t *testing.T) {
	withConfig(t, conf.Configuration{
		Procs: conf.ProcsConf{P: 2, Q: 1, R: 1},
		Keys: map[string]interface{}{
			"Solver.MaxIter":         int64(3000),
			"Solver.PrintSaturation": true,
			"Solver.Linear.Drop":     1e-18,
		},
	})

	run, db, err := Database(conf.Overland, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, run.Topology.Procs())

	v, _ := db.Get("Process.Topology.P")
	assert.Equal(t, "2", v)
	v, _ = db.Get("Solver.MaxIter")
	assert.Equal(t, "3000", v)
	v, _ = db.Get("Solver.PrintSaturation")
	assert.Equal(t, "True", v)

	keys := db.Keys()
	assert.Equal(t, "Solver.PrintSaturation", keys[len(keys)-1])
}

func TestDatabaseOverrideCanBreakValidation(t *testing.T) {
	withConfig(t, conf.Configuration{
		Keys: map[string]interface{}{
			"Cycle.Names": "constant rainrec storm",
		},
	})

	_, _, err := Database(conf.Overland, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storm")
}

func TestDatabaseUnknownScenario(t *testing.T) {
	_, _, err := Database(conf.Unspecified, 0)
	assert.Error(t, err)
}

func TestSolved(t *testing.T) {
	assert.True(t, Solved("...\nProblem solved \n"))
	assert.False(t, Solved(""))
	assert.False(t, Solved("Problem not solved yet"))
}
