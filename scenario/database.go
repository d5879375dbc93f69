package scenario

import (
	"github.com/meteocima/parflow-runner/pfidb"
)

// Database flattens the run into the key
// database read by the solver.
func (r *Run) Database() *pfidb.Database {
	db := pfidb.New()

	db.Set("FileVersion", r.FileVersion)

	db.Set("Process.Topology.P", r.Topology.P)
	db.Set("Process.Topology.Q", r.Topology.Q)
	db.Set("Process.Topology.R", r.Topology.R)

	r.setGrid(db)
	r.setGeometry(db)
	r.setSubsurface(db)
	r.setPhases(db)
	r.setTiming(db)
	r.setCycles(db)
	r.setPatches(db)
	r.setSurface(db)
	r.setSolver(db)
	r.setCLM(db)
	r.setIC(db)

	return db
}

func (r *Run) setGrid(db *pfidb.Database) {
	g := r.Grid
	db.Set("ComputationalGrid.Lower.X", g.Lower.X)
	db.Set("ComputationalGrid.Lower.Y", g.Lower.Y)
	db.Set("ComputationalGrid.Lower.Z", g.Lower.Z)

	db.Set("ComputationalGrid.NX", g.NX)
	db.Set("ComputationalGrid.NY", g.NY)
	db.Set("ComputationalGrid.NZ", g.NZ)

	db.Set("ComputationalGrid.DX", g.DX)
	db.Set("ComputationalGrid.DY", g.DY)
	db.Set("ComputationalGrid.DZ", g.DZ)
}

func (r *Run) setGeometry(db *pfidb.Database) {
	names := make([]string, len(r.GeomInputs))
	for i, in := range r.GeomInputs {
		names[i] = in.Name
	}
	db.Set("GeomInput.Names", names)

	for _, in := range r.GeomInputs {
		db.Setf(in.InputType, "GeomInput.%s.InputType", in.Name)
		switch in.InputType {
		case "SolidFile":
			db.Setf(in.GeomName, "GeomInput.%s.GeomNames", in.Name)
			db.Setf(in.FileName, "GeomInput.%s.FileName", in.Name)
		default:
			db.Setf(in.GeomName, "GeomInput.%s.GeomName", in.Name)
		}
	}

	d := r.Domain
	if d.Lower != nil {
		db.Setf(d.Lower.X, "Geom.%s.Lower.X", d.Name)
		db.Setf(d.Lower.Y, "Geom.%s.Lower.Y", d.Name)
		db.Setf(d.Lower.Z, "Geom.%s.Lower.Z", d.Name)
	}
	if d.Upper != nil {
		db.Setf(d.Upper.X, "Geom.%s.Upper.X", d.Name)
		db.Setf(d.Upper.Y, "Geom.%s.Upper.Y", d.Name)
		db.Setf(d.Upper.Z, "Geom.%s.Upper.Z", d.Name)
	}
	db.Setf(d.Patches, "Geom.%s.Patches", d.Name)
	db.Set("Domain.GeomName", d.Name)

	if r.VariableDz != nil {
		db.Set("Solver.Nonlinear.VariableDz", true)
		db.Set("dzScale.GeomNames", d.Name)
		db.Set("dzScale.Type", "nzList")
		db.Set("dzScale.nzListNumber", len(r.VariableDz.Scales))
		for i, scale := range r.VariableDz.Scales {
			db.Setf(scale, "Cell.%d.dzScale.Value", i)
		}
	}
}

func (r *Run) setSubsurface(db *pfidb.Database) {
	geom := r.Domain.Name
	s := r.Subsurface

	db.Set("Geom.Perm.Names", geom)
	db.Setf("Constant", "Geom.%s.Perm.Type", geom)
	db.Setf(s.Perm, "Geom.%s.Perm.Value", geom)
	db.Set("Perm.TensorType", "TensorByGeom")
	db.Set("Geom.Perm.TensorByGeom.Names", geom)
	db.Setf(s.PermTensor.X, "Geom.%s.Perm.TensorValX", geom)
	db.Setf(s.PermTensor.Y, "Geom.%s.Perm.TensorValY", geom)
	db.Setf(s.PermTensor.Z, "Geom.%s.Perm.TensorValZ", geom)

	db.Set("SpecificStorage.Type", "Constant")
	db.Set("SpecificStorage.GeomNames", geom)
	db.Setf(s.SpecificStorage, "Geom.%s.SpecificStorage.Value", geom)

	db.Set("Geom.Porosity.GeomNames", geom)
	db.Setf("Constant", "Geom.%s.Porosity.Type", geom)
	db.Setf(s.Porosity, "Geom.%s.Porosity.Value", geom)

	db.Set("Phase.RelPerm.Type", "VanGenuchten")
	db.Set("Phase.RelPerm.GeomNames", geom)
	db.Setf(s.RelPerm.Alpha, "Geom.%s.RelPerm.Alpha", geom)
	db.Setf(s.RelPerm.N, "Geom.%s.RelPerm.N", geom)

	db.Set("Phase.Saturation.Type", "VanGenuchten")
	db.Set("Phase.Saturation.GeomNames", geom)
	db.Setf(s.Saturation.Alpha, "Geom.%s.Saturation.Alpha", geom)
	db.Setf(s.Saturation.N, "Geom.%s.Saturation.N", geom)
	db.Setf(s.Saturation.SRes, "Geom.%s.Saturation.SRes", geom)
	db.Setf(s.Saturation.SSat, "Geom.%s.Saturation.SSat", geom)
}

func (r *Run) setPhases(db *pfidb.Database) {
	phase := r.Phase
	db.Set("Phase.Names", phase)

	db.Setf("Constant", "Phase.%s.Density.Type", phase)
	db.Setf(1.0, "Phase.%s.Density.Value", phase)
	db.Setf("Constant", "Phase.%s.Viscosity.Type", phase)
	db.Setf(1.0, "Phase.%s.Viscosity.Value", phase)
	if r.Subsurface.Mobility != 0 {
		db.Setf("Constant", "Phase.%s.Mobility.Type", phase)
		db.Setf(r.Subsurface.Mobility, "Phase.%s.Mobility.Value", phase)
	}

	db.Set("Contaminants.Names", "")
	db.Set("Geom.Retardation.GeomNames", "")
	db.Set("Wells.Names", "")
	db.Set("Gravity", r.Gravity)

	db.Setf("Constant", "PhaseSources.%s.Type", phase)
	db.Setf(r.Domain.Name, "PhaseSources.%s.GeomNames", phase)
	db.Setf(0.0, "PhaseSources.%s.Geom.%s.Value", phase, r.Domain.Name)

	db.Set("KnownSolution", "NoKnownSolution")
}

func (r *Run) setTiming(db *pfidb.Database) {
	t := r.Timing
	db.Set("TimingInfo.BaseUnit", t.BaseUnit)
	db.Set("TimingInfo.StartCount", t.StartCount)
	db.Set("TimingInfo.StartTime", t.StartTime)
	db.Set("TimingInfo.StopTime", t.StopTime)
	db.Set("TimingInfo.DumpInterval", t.DumpInterval)
	db.Set("TimeStep.Type", "Constant")
	db.Set("TimeStep.Value", t.TimeStep)
}

func (r *Run) setCycles(db *pfidb.Database) {
	names := make([]string, len(r.Cycles))
	for i, c := range r.Cycles {
		names[i] = c.Name
	}
	db.Set("Cycle.Names", names)

	for _, c := range r.Cycles {
		intervals := make([]string, len(c.Intervals))
		for i, in := range c.Intervals {
			intervals[i] = in.Name
		}
		db.Setf(intervals, "Cycle.%s.Names", c.Name)
		for _, in := range c.Intervals {
			db.Setf(in.Length, "Cycle.%s.%s.Length", c.Name, in.Name)
		}
		db.Setf(c.Repeat, "Cycle.%s.Repeat", c.Name)
	}
}

func (r *Run) cycle(name string) (Cycle, bool) {
	for _, c := range r.Cycles {
		if c.Name == name {
			return c, true
		}
	}
	return Cycle{}, false
}

func (r *Run) setPatches(db *pfidb.Database) {
	names := make([]string, len(r.Patches))
	for i, p := range r.Patches {
		names[i] = p.Name
	}
	db.Set("BCPressure.PatchNames", names)

	for _, p := range r.Patches {
		db.Setf(p.Type, "Patch.%s.BCPressure.Type", p.Name)
		if p.RefGeom != "" {
			db.Setf(p.RefGeom, "Patch.%s.BCPressure.RefGeom", p.Name)
			db.Setf(p.RefPatch, "Patch.%s.BCPressure.RefPatch", p.Name)
		}
		db.Setf(p.Cycle, "Patch.%s.BCPressure.Cycle", p.Name)

		// values are emitted in cycle order; intervals
		// without a value are left to validation.
		c, ok := r.cycle(p.Cycle)
		if !ok {
			continue
		}
		for _, in := range c.Intervals {
			if v, ok := p.Values[in.Name]; ok {
				db.Setf(v, "Patch.%s.BCPressure.%s.Value", p.Name, in.Name)
			}
		}
	}
}

func (r *Run) setSurface(db *pfidb.Database) {
	geom := r.Domain.Name
	s := r.Surface

	db.Set("TopoSlopesX.Type", "Constant")
	db.Set("TopoSlopesX.GeomNames", geom)
	db.Setf(s.SlopeX, "TopoSlopesX.Geom.%s.Value", geom)

	db.Set("TopoSlopesY.Type", "Constant")
	db.Set("TopoSlopesY.GeomNames", geom)
	db.Setf(s.SlopeY, "TopoSlopesY.Geom.%s.Value", geom)

	db.Set("Mannings.Type", "Constant")
	db.Set("Mannings.GeomNames", geom)
	db.Setf(s.Mannings, "Mannings.Geom.%s.Value", geom)
}

func (r *Run) setSolver(db *pfidb.Database) {
	s := r.Solver
	db.Set("Solver", s.Name)
	db.Set("Solver.MaxIter", s.MaxIter)

	db.Set("Solver.Nonlinear.MaxIter", s.NonlinearMaxIter)
	db.Set("Solver.Nonlinear.ResidualTol", s.ResidualTol)
	db.Set("Solver.Nonlinear.EtaChoice", s.EtaChoice)
	db.Set("Solver.Nonlinear.EtaValue", s.EtaValue)
	db.Set("Solver.Nonlinear.UseJacobian", s.UseJacobian)
	db.Set("Solver.Nonlinear.DerivativeEpsilon", s.DerivativeEpsilon)
	db.Set("Solver.Nonlinear.StepTol", s.StepTol)
	db.Set("Solver.Nonlinear.Globalization", s.Globalization)
	db.Set("Solver.Linear.KrylovDimension", s.KrylovDimension)
	db.Set("Solver.Linear.MaxRestarts", s.MaxRestarts)
	db.Set("Solver.Linear.Preconditioner", s.Preconditioner)
	db.Set("Solver.PrintSubsurf", s.PrintSubsurf)
	db.Set("Solver.Drop", s.Drop)
	db.Set("Solver.AbsTol", s.AbsTol)

	for _, f := range s.Output {
		db.Set("Solver."+f.Key, f.On)
	}
}

func (r *Run) setCLM(db *pfidb.Database) {
	c := r.CLM
	if c == nil {
		return
	}

	db.Set("Solver.LSM", "CLM")
	db.Set("Solver.CLM.MetForcing", c.MetForcing)
	db.Set("Solver.CLM.MetFileName", c.MetFileName)
	db.Set("Solver.CLM.MetFilePath", c.MetFilePath)

	db.Set("Solver.CLM.EvapBeta", c.EvapBeta)
	db.Set("Solver.CLM.VegWaterStress", c.VegWaterStress)
	db.Set("Solver.CLM.ResSat", c.ResSat)
	db.Set("Solver.CLM.WiltingPoint", c.WiltingPoint)
	db.Set("Solver.CLM.FieldCapacity", c.FieldCapacity)
	db.Set("Solver.CLM.IrrigationType", c.IrrigationType)
	db.Set("Solver.CLM.RootZoneNZ", c.RootZoneNZ)
	db.Set("Solver.CLM.SoiLayer", c.SoiLayer)

	db.Set("Solver.CLM.CLMDumpInterval", c.DumpInterval)
	db.Set("Solver.CLM.CLMFileDir", c.FileDir)
	db.Set("Solver.CLM.BinaryOutDir", c.BinaryOutDir)
	db.Set("Solver.CLM.IstepStart", c.IstepStart)
	db.Set("Solver.CLM.WriteLogs", c.WriteLogs)
	db.Set("Solver.CLM.WriteLastRST", c.WriteLastRST)
	db.Set("Solver.CLM.DailyRST", c.DailyRST)
	db.Set("Solver.CLM.SingleFile", c.SingleFile)

	for _, f := range c.Output {
		db.Set("Solver."+f.Key, f.On)
	}
}

func (r *Run) setIC(db *pfidb.Database) {
	geom := r.Domain.Name
	ic := r.IC

	db.Set("ICPressure.Type", ic.Type)
	db.Set("ICPressure.GeomNames", geom)
	db.Setf(ic.Value, "Geom.%s.ICPressure.Value", geom)
	db.Setf(ic.RefGeom, "Geom.%s.ICPressure.RefGeom", geom)
	db.Setf(ic.RefPatch, "Geom.%s.ICPressure.RefPatch", geom)
}
