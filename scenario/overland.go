package scenario

// Overland returns the Dunne overland flow run:
// a 100 m hillslope, 15 m deep, with heavy rain
// for 3 hours followed by 2 hours of recession.
// Saturation excess runoff is generated once the
// water table reaches the surface.
func Overland(name string) *Run {
	return &Run{
		Name:        name,
		FileVersion: 4,
		Topology:    Topology{P: 1, Q: 1, R: 1},
		Grid: ComputationalGrid{
			NX: 20, NY: 1, NZ: 300,
			DX: 5.0, DY: 1.0, DZ: 0.05,
		},
		GeomInputs: []GeomInput{{
			Name:      "solidinput1",
			InputType: "SolidFile",
			GeomName:  "domain",
			FileName:  "../tuff.pfsol",
		}},
		Domain: Domain{
			Name:    "domain",
			Patches: []string{"z_upper", "x_lower", "y_lower", "x_upper", "y_upper", "z_lower"},
		},
		// values in m/hour
		Subsurface: Subsurface{
			Perm:            1.0,
			PermTensor:      Point{X: 1.0, Y: 1.0, Z: 1.0},
			SpecificStorage: 1.0e-5,
			Porosity:        0.1,
			RelPerm:         VanGenuchten{Alpha: 6.0, N: 2.0},
			Saturation:      VanGenuchten{Alpha: 6.0, N: 2.0, SRes: 0.2, SSat: 1.0},
		},
		Phase:   "water",
		Gravity: 1.0,
		// 3 minutes time steps
		Timing: Timing{
			BaseUnit:     0.05,
			StartCount:   0,
			StartTime:    0.0,
			StopTime:     5.0,
			DumpInterval: -1,
			TimeStep:     0.05,
		},
		Cycles: []Cycle{
			{
				Name:      "constant",
				Intervals: []Interval{{Name: "alltime", Length: 1}},
				Repeat:    -1,
			},
			{
				Name: "rainrec",
				Intervals: []Interval{
					{Name: "rain", Length: 60},
					{Name: "rec", Length: 100},
				},
				Repeat: -1,
			},
		},
		Patches: []Patch{
			noFlow("x_lower"),
			noFlow("y_lower"),
			noFlow("z_lower"),
			noFlow("x_upper"),
			noFlow("y_upper"),
			{
				Name:   "z_upper",
				Type:   "OverlandFlow",
				Cycle:  "rainrec",
				Values: map[string]float64{"rain": -0.07, "rec": 0.0},
			},
		},
		Surface: Surface{
			SlopeX:   0.15,
			SlopeY:   0.0,
			Mannings: 2.e-6,
		},
		Solver: Solver{
			Name:              "Richards",
			MaxIter:           2500,
			NonlinearMaxIter:  300,
			ResidualTol:       1e-6,
			EtaChoice:         "Walker1",
			EtaValue:          0.001,
			UseJacobian:       true,
			DerivativeEpsilon: 1e-16,
			StepTol:           1e-20,
			Globalization:     "LineSearch",
			KrylovDimension:   20,
			MaxRestarts:       2,
			Preconditioner:    "PFMG",
			PrintSubsurf:      false,
			Drop:              1e-20,
			AbsTol:            1e-12,
			Output: []Flag{
				{Key: "WriteSiloSubsurfData", On: false},
				{Key: "WriteSiloPressure", On: false},
				{Key: "WriteSiloSaturation", On: false},
				{Key: "WriteSiloSlopes", On: false},
				{Key: "WriteSiloMask", On: false},
				{Key: "WriteSiloEvapTrans", On: false},
				{Key: "WriteSiloEvapTransSum", On: false},
				{Key: "WriteSiloOverlandSum", On: false},
				{Key: "WriteSiloMannings", On: false},
				{Key: "WriteSiloSpecificStorage", On: false},
			},
		},
		// water table level with the outlet of the domain
		IC: ICPressure{
			Type:     "HydroStaticPatch",
			Value:    4.5,
			RefGeom:  "domain",
			RefPatch: "z_lower",
		},
	}
}

func noFlow(patch string) Patch {
	return Patch{
		Name:   patch,
		Type:   "FluxConst",
		Cycle:  "constant",
		Values: map[string]float64{"alltime": 0.0},
	}
}
