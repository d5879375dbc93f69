package scenario

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meteocima/parflow-runner/pfidb"
)

func value(t *testing.T, db *pfidb.Database, key string) string {
	v, ok := db.Get(key)
	require.True(t, ok, "key %s not set", key)
	return v
}

func TestOverlandDatabaseIsValid(t *testing.T) {
	db := Overland("Dunne").Database()
	require.NoError(t, db.Validate())

	for _, key := range pfidb.RequiredKeys {
		assert.True(t, db.Has(key), key)
	}
}

func TestOverlandValues(t *testing.T) {
	db := Overland("Dunne").Database()

	assert.Equal(t, "20", value(t, db, "ComputationalGrid.NX"))
	assert.Equal(t, "300", value(t, db, "ComputationalGrid.NZ"))
	assert.Equal(t, "0.05", value(t, db, "ComputationalGrid.DZ"))
	assert.Equal(t, "SolidFile", value(t, db, "GeomInput.solidinput1.InputType"))
	assert.Equal(t, "../tuff.pfsol", value(t, db, "GeomInput.solidinput1.FileName"))
	assert.Equal(t, "domain", value(t, db, "GeomInput.solidinput1.GeomNames"))
	assert.Equal(t, "z_upper x_lower y_lower x_upper y_upper z_lower", value(t, db, "Geom.domain.Patches"))
	assert.Equal(t, "constant rainrec", value(t, db, "Cycle.Names"))
	assert.Equal(t, "rain rec", value(t, db, "Cycle.rainrec.Names"))
	assert.Equal(t, "60", value(t, db, "Cycle.rainrec.rain.Length"))
	assert.Equal(t, "100", value(t, db, "Cycle.rainrec.rec.Length"))
	assert.Equal(t, "OverlandFlow", value(t, db, "Patch.z_upper.BCPressure.Type"))
	assert.Equal(t, "-0.07", value(t, db, "Patch.z_upper.BCPressure.rain.Value"))
	assert.Equal(t, "0", value(t, db, "Patch.z_upper.BCPressure.rec.Value"))
	assert.Equal(t, "0.15", value(t, db, "TopoSlopesX.Geom.domain.Value"))
	assert.Equal(t, "2e-06", value(t, db, "Mannings.Geom.domain.Value"))
	assert.Equal(t, "True", value(t, db, "Solver.Nonlinear.UseJacobian"))
	assert.Equal(t, "False", value(t, db, "Solver.WriteSiloPressure"))
	assert.Equal(t, "4.5", value(t, db, "Geom.domain.ICPressure.Value"))
	assert.Equal(t, "z_lower", value(t, db, "Geom.domain.ICPressure.RefPatch"))
	assert.Equal(t, "5", value(t, db, "TimingInfo.StopTime"))

	assert.False(t, db.Has("Solver.LSM"))
	assert.False(t, db.Has("Solver.Nonlinear.VariableDz"))
}

func TestCLMDatabaseIsValid(t *testing.T) {
	db := CLM("PFCLM_SC").Database()
	require.NoError(t, db.Validate())

	for _, key := range append(pfidb.RequiredKeys, pfidb.CLMKeys...) {
		assert.True(t, db.Has(key), key)
	}
}

func TestCLMValues(t *testing.T) {
	db := CLM("PFCLM_SC").Database()

	assert.Equal(t, "CLM", value(t, db, "Solver.LSM"))
	assert.Equal(t, "narr_1hr.txt", value(t, db, "Solver.CLM.MetFileName"))
	assert.Equal(t, "../forcing", value(t, db, "Solver.CLM.MetFilePath"))
	assert.Equal(t, "19", value(t, db, "Solver.CLM.RootZoneNZ"))
	assert.Equal(t, "Box", value(t, db, "GeomInput.domain_input.InputType"))
	assert.Equal(t, "domain", value(t, db, "GeomInput.domain_input.GeomName"))
	assert.Equal(t, "2", value(t, db, "Geom.domain.Upper.Z"))
	assert.Equal(t, "True", value(t, db, "Solver.Nonlinear.VariableDz"))
	assert.Equal(t, "20", value(t, db, "dzScale.nzListNumber"))
	assert.Equal(t, "10", value(t, db, "Cell.0.dzScale.Value"))
	assert.Equal(t, "0.1", value(t, db, "Cell.19.dzScale.Value"))
	assert.Equal(t, "DirEquilRefPatch", value(t, db, "Patch.z_lower.BCPressure.Type"))
	assert.Equal(t, "z_lower", value(t, db, "Patch.z_lower.BCPressure.RefPatch"))
	assert.Equal(t, "8760", value(t, db, "TimingInfo.StopTime"))
	assert.Equal(t, "1", value(t, db, "Phase.water.Mobility.Value"))
	assert.Equal(t, "True", value(t, db, "Solver.PrintCLM"))
	assert.Equal(t, "False", value(t, db, "Solver.WriteCLMBinary"))
	assert.Equal(t, "-1", value(t, db, "Geom.domain.ICPressure.Value"))
}

func TestLayerScalesMatchGrid(t *testing.T) {
	r := CLM("PFCLM_SC")
	assert.Len(t, r.VariableDz.Scales, r.Grid.NZ)
	assert.Greater(t, r.Grid.NZ, r.CLM.RootZoneNZ)
}

func TestSetPeriod(t *testing.T) {
	clm := CLM("PFCLM_SC")
	clm.SetPeriod(48 * time.Hour)
	assert.Equal(t, 48.0, clm.Timing.StopTime)

	clm.SetPeriod(0)
	assert.Equal(t, 48.0, clm.Timing.StopTime)

	overland := Overland("Dunne")
	overland.SetPeriod(48 * time.Hour)
	assert.Equal(t, 5.0, overland.Timing.StopTime)
}

func TestDatabaseIsDeterministic(t *testing.T) {
	first := Overland("Dunne").Database().String()
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Overland("Dunne").Database().String())
	}
	assert.True(t, strings.HasSuffix(first, "z_lower\n"))
}

func TestDanglingPatchCycleIsReported(t *testing.T) {
	r := Overland("Dunne")
	r.Patches[5].Cycle = "storm"
	err := r.Database().Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown cycle `storm`")
}
