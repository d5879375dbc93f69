package scenario

// CLMHours is the length of the single column
// run: one year of hourly forcing.
const CLMHours = 8760

// CLM returns the single column ParFlow-CLM run:
// a 20 layers, 3.21 m deep soil column coupled to
// the land surface model and driven by hourly
// 1-D meteorological forcing.
func CLM(name string) *Run {
	return &Run{
		Name:         name,
		FileVersion:  4,
		PeriodDriven: true,
		Topology:     Topology{P: 1, Q: 1, R: 1},
		Grid: ComputationalGrid{
			NX: 1, NY: 1, NZ: 20,
			DX: 2.0, DY: 2.0, DZ: 0.1,
		},
		GeomInputs: []GeomInput{{
			Name:      "domain_input",
			InputType: "Box",
			GeomName:  "domain",
		}},
		Domain: Domain{
			Name:    "domain",
			Lower:   &Point{X: 0.0, Y: 0.0, Z: 0.0},
			Upper:   &Point{X: 2.0, Y: 2.0, Z: 2.0},
			Patches: []string{"x_lower", "x_upper", "y_lower", "y_upper", "z_lower", "z_upper"},
		},
		// cells from the bottom up: 1 m, 50 cm, 17 cells
		// of 10 cm and a 1 cm top layer. The root zone
		// is the top 19 cells, 2.21 m.
		VariableDz: &VariableDz{
			Scales: []float64{
				10.0, 5.0,
				1.0, 1.0, 1.0, 1.0, 1.0, 1.0, 1.0, 1.0, 1.0,
				1.0, 1.0, 1.0, 1.0, 1.0, 1.0, 1.0, 1.0,
				0.1,
			},
		},
		Subsurface: Subsurface{
			Perm:            0.001465,
			PermTensor:      Point{X: 1.0, Y: 1.0, Z: 1.0},
			SpecificStorage: 1.0e-4,
			Porosity:        0.3,
			RelPerm:         VanGenuchten{Alpha: 2.0, N: 2.0},
			Saturation:      VanGenuchten{Alpha: 2.0, N: 3.0, SRes: 0.2, SSat: 1.0},
			Mobility:        1.0,
		},
		Phase:   "water",
		Gravity: 1.0,
		Timing: Timing{
			BaseUnit:     1.0,
			StartCount:   0,
			StartTime:    0.0,
			StopTime:     CLMHours,
			DumpInterval: 1.0,
			TimeStep:     1.0,
		},
		Cycles: []Cycle{{
			Name:      "constant",
			Intervals: []Interval{{Name: "alltime", Length: 1}},
			Repeat:    -1,
		}},
		Patches: []Patch{
			noFlow("x_lower"),
			noFlow("y_lower"),
			{
				Name:     "z_lower",
				Type:     "DirEquilRefPatch",
				RefGeom:  "domain",
				RefPatch: "z_lower",
				Cycle:    "constant",
				Values:   map[string]float64{"alltime": 0.0},
			},
			noFlow("x_upper"),
			noFlow("y_upper"),
			{
				Name:   "z_upper",
				Type:   "OverlandFlow",
				Cycle:  "constant",
				Values: map[string]float64{"alltime": 0.0},
			},
		},
		Surface: Surface{
			SlopeX:   0.05,
			SlopeY:   0.0,
			Mannings: 2.e-6,
		},
		Solver: Solver{
			Name:              "Richards",
			MaxIter:           9000,
			NonlinearMaxIter:  100,
			ResidualTol:       1e-5,
			EtaChoice:         "Walker1",
			EtaValue:          0.01,
			UseJacobian:       false,
			DerivativeEpsilon: 1e-12,
			StepTol:           1e-30,
			Globalization:     "LineSearch",
			KrylovDimension:   100,
			MaxRestarts:       5,
			Preconditioner:    "PFMG",
			PrintSubsurf:      false,
			Drop:              1e-20,
			AbsTol:            1e-9,
			// pfb only, no silo
			Output: []Flag{
				{Key: "PrintSubsurfData", On: true},
				{Key: "PrintPressure", On: true},
				{Key: "PrintSaturation", On: true},
				{Key: "PrintCLM", On: true},
				{Key: "PrintMask", On: true},
				{Key: "PrintSpecificStorage", On: true},
				{Key: "WriteSiloMannings", On: false},
				{Key: "WriteSiloMask", On: false},
				{Key: "WriteSiloSlopes", On: false},
				{Key: "WriteSiloSaturation", On: false},
			},
		},
		CLM: &CLMOptions{
			MetForcing:     "1D",
			MetFileName:    "narr_1hr.txt",
			MetFilePath:    "../forcing",
			EvapBeta:       "Linear",
			VegWaterStress: "Saturation",
			ResSat:         0.2,
			WiltingPoint:   0.2,
			FieldCapacity:  1.00,
			IrrigationType: "none",
			RootZoneNZ:     19,
			SoiLayer:       15,
			DumpInterval:   1,
			FileDir:        "output/",
			BinaryOutDir:   false,
			IstepStart:     1,
			WriteLogs:      false,
			WriteLastRST:   true,
			DailyRST:       false,
			SingleFile:     true,
			// pfb only, no silo and no native CLM logs
			Output: []Flag{
				{Key: "PrintLSMSink", On: false},
				{Key: "WriteCLMBinary", On: false},
				{Key: "WriteSiloCLM", On: false},
			},
			Inputs: []string{"drv_clmin.dat", "drv_vegm.dat", "drv_vegp.dat"},
		},
		IC: ICPressure{
			Type:     "HydroStaticPatch",
			Value:    -1.0,
			RefGeom:  "domain",
			RefPatch: "z_upper",
		},
	}
}
