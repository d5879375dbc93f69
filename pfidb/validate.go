package pfidb

import (
	"fmt"
	"strings"
)

// RequiredKeys are the grid, timing and solver
// keys every run needs before the solver is
// started.
var RequiredKeys = []string{
	"FileVersion",
	"Process.Topology.P",
	"Process.Topology.Q",
	"Process.Topology.R",
	"ComputationalGrid.Lower.X",
	"ComputationalGrid.Lower.Y",
	"ComputationalGrid.Lower.Z",
	"ComputationalGrid.NX",
	"ComputationalGrid.NY",
	"ComputationalGrid.NZ",
	"ComputationalGrid.DX",
	"ComputationalGrid.DY",
	"ComputationalGrid.DZ",
	"GeomInput.Names",
	"Domain.GeomName",
	"Phase.Names",
	"Gravity",
	"TimingInfo.BaseUnit",
	"TimingInfo.StartCount",
	"TimingInfo.StartTime",
	"TimingInfo.StopTime",
	"TimingInfo.DumpInterval",
	"TimeStep.Type",
	"TimeStep.Value",
	"Cycle.Names",
	"BCPressure.PatchNames",
	"ICPressure.Type",
	"ICPressure.GeomNames",
	"KnownSolution",
	"Solver",
	"Solver.MaxIter",
	"Solver.Nonlinear.MaxIter",
	"Solver.Nonlinear.ResidualTol",
	"Solver.Linear.KrylovDimension",
	"Solver.Linear.Preconditioner",
}

// CLMKeys are required when the land surface
// model is enabled.
var CLMKeys = []string{
	"Solver.CLM.MetForcing",
	"Solver.CLM.MetFileName",
	"Solver.CLM.MetFilePath",
	"Solver.CLM.RootZoneNZ",
	"Solver.CLM.SoiLayer",
}

// ValidationError lists every problem found
// in a database.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid run database:\n\t%s", strings.Join(e.Problems, "\n\t"))
}

// Validate checks that all required keys are
// set and that every name referenced by a name
// list key has its own definition.
func (db *Database) Validate() error {
	var problems []string
	missing := func(key string) {
		problems = append(problems, fmt.Sprintf("missing key `%s`", key))
	}
	require := func(key string) {
		if !db.Has(key) {
			missing(key)
		}
	}

	for _, key := range RequiredKeys {
		require(key)
	}

	if v, _ := db.Get("Solver.LSM"); v == "CLM" {
		for _, key := range CLMKeys {
			require(key)
		}
	}

	for _, name := range db.Names("GeomInput.Names") {
		require(fmt.Sprintf("GeomInput.%s.InputType", name))
	}

	intervals := map[string][]string{}
	for _, cycle := range db.Names("Cycle.Names") {
		require(fmt.Sprintf("Cycle.%s.Names", cycle))
		require(fmt.Sprintf("Cycle.%s.Repeat", cycle))
		names := db.Names(fmt.Sprintf("Cycle.%s.Names", cycle))
		for _, interval := range names {
			require(fmt.Sprintf("Cycle.%s.%s.Length", cycle, interval))
		}
		intervals[cycle] = names
	}

	for _, patch := range db.Names("BCPressure.PatchNames") {
		prefix := fmt.Sprintf("Patch.%s.BCPressure", patch)
		require(prefix + ".Type")

		cycle, ok := db.Get(prefix + ".Cycle")
		if !ok {
			missing(prefix + ".Cycle")
			continue
		}
		names, known := intervals[cycle]
		if !known {
			problems = append(problems, fmt.Sprintf("`%s.Cycle` refers to unknown cycle `%s`", prefix, cycle))
			continue
		}
		if db.Has(prefix + ".RefPatch") {
			continue
		}
		for _, interval := range names {
			require(fmt.Sprintf("%s.%s.Value", prefix, interval))
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
