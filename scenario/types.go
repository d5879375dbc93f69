package scenario

// This module contains the typed description
// of a ParFlow run. A Run is flattened to the
// key database read by the solver by Database().

import "time"

// Point is a position in domain coordinates.
type Point struct {
	X, Y, Z float64
}

// Topology is the process grid the run is
// distributed on.
type Topology struct {
	P, Q, R int
}

// Procs returns the number of processes.
func (t Topology) Procs() int {
	return t.P * t.Q * t.R
}

// ComputationalGrid describes the solver grid.
type ComputationalGrid struct {
	Lower      Point
	NX, NY, NZ int
	DX, DY, DZ float64
}

// GeomInput is a source of geometries: either
// a Box or a SolidFile.
type GeomInput struct {
	Name      string
	InputType string
	GeomName  string
	FileName  string
}

// Domain is the geometry the problem is solved on.
type Domain struct {
	Name    string
	Lower   *Point
	Upper   *Point
	Patches []string
}

// VariableDz scales the thickness of each layer,
// from the bottom cell up.
type VariableDz struct {
	Scales []float64
}

// VanGenuchten parameters for relative
// permeability and saturation curves.
type VanGenuchten struct {
	Alpha float64
	N     float64
	SRes  float64
	SSat  float64
}

// Subsurface holds constant properties of the
// domain geometry.
type Subsurface struct {
	Perm            float64
	PermTensor      Point
	SpecificStorage float64
	Porosity        float64
	RelPerm         VanGenuchten
	Saturation      VanGenuchten
	Mobility        float64
}

// Timing describes simulated time. All values
// are expressed in hours.
type Timing struct {
	BaseUnit     float64
	StartCount   int
	StartTime    float64
	StopTime     float64
	DumpInterval float64
	TimeStep     float64
}

// Interval is a named part of a time cycle,
// its length a multiple of Timing.BaseUnit.
type Interval struct {
	Name   string
	Length int
}

// Cycle is a repeating sequence of intervals.
type Cycle struct {
	Name      string
	Intervals []Interval
	Repeat    int
}

// Patch is a pressure boundary condition applied
// to a named surface of the domain. Values maps
// each interval of the cycle to the patch value.
type Patch struct {
	Name     string
	Type     string
	Cycle    string
	RefGeom  string
	RefPatch string
	Values   map[string]float64
}

// Surface holds the overland flow properties.
type Surface struct {
	SlopeX   float64
	SlopeY   float64
	Mannings float64
}

// Solver contains the nonlinear and linear solver
// options.
type Solver struct {
	Name              string
	MaxIter           int
	NonlinearMaxIter  int
	ResidualTol       float64
	EtaChoice         string
	EtaValue          float64
	UseJacobian       bool
	DerivativeEpsilon float64
	StepTol           float64
	Globalization     string
	KrylovDimension   int
	MaxRestarts       int
	Preconditioner    string
	PrintSubsurf      bool
	Drop              float64
	AbsTol            float64
	Output            []Flag
}

// Flag is a boolean solver option, used for the
// many Print* and WriteSilo* output switches.
type Flag struct {
	Key string
	On  bool
}

// ICPressure is the initial pressure condition.
type ICPressure struct {
	Type     string
	Value    float64
	RefGeom  string
	RefPatch string
}

// CLMOptions contains the land surface model options.
type CLMOptions struct {
	MetForcing     string
	MetFileName    string
	MetFilePath    string
	EvapBeta       string
	VegWaterStress string
	ResSat         float64
	WiltingPoint   float64
	FieldCapacity  float64
	IrrigationType string
	RootZoneNZ     int
	SoiLayer       int
	DumpInterval   int
	FileDir        string
	BinaryOutDir   bool
	IstepStart     int
	WriteLogs      bool
	WriteLastRST   bool
	DailyRST       bool
	SingleFile     bool
	Output         []Flag

	// Inputs are the driver files copied into
	// the run directory before the run.
	Inputs []string
}

// Run is the complete description of a solver run.
type Run struct {
	Name        string
	FileVersion int
	Topology    Topology
	Grid        ComputationalGrid
	GeomInputs  []GeomInput
	Domain      Domain
	VariableDz  *VariableDz
	Subsurface  Subsurface
	Phase       string
	Gravity     float64
	Timing      Timing
	Cycles      []Cycle
	Patches     []Patch
	Surface     Surface
	Solver      Solver
	IC          ICPressure
	CLM         *CLMOptions

	// PeriodDriven runs take their stop time
	// from the period they are run for.
	PeriodDriven bool
}

// SetPeriod adapts a period driven run to last
// `duration`. Other runs are left untouched.
func (r *Run) SetPeriod(duration time.Duration) {
	if !r.PeriodDriven || duration <= 0 {
		return
	}
	r.Timing.StopTime = duration.Hours()
}
