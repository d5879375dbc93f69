package postpro

// This module extracts the time series plotted
// for single column CLM runs.

import (
	"fmt"
	"math"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/meteocima/parflow-runner/conf"
	"github.com/meteocima/parflow-runner/folders"
	"github.com/meteocima/parflow-runner/frames"
	"github.com/meteocima/parflow-runner/render"
	"github.com/meteocima/parflow-runner/scenario"
)

// Layers of the CLM output files.
const (
	// LayerLatentHeat is the net latent heat flux (W/m2)
	LayerLatentHeat = 0
	// LayerET is evaporation plus transpiration (mm/s)
	LayerET = 4
	// LayerSWE is the snow water equivalent (mm)
	LayerSWE = 10
)

// Runoff returns the overland flow (m/h) leaving a cell
// with surface pressure head `pressure`, computed with
// Manning's equation. Negative pressures give no flow.
func Runoff(pressure, slope, mannings float64) float64 {
	return math.Sqrt(slope) / mannings * math.Pow(math.Max(pressure, 0), 5.0/3.0)
}

// CLMSeries contains one value per hour for each channel,
// starting from dump First.
type CLMSeries struct {
	First      int
	LatentHeat []float64
	ET         []float64
	SWE        []float64
	Runoff     []float64
}

// LoadCLM reads `n` hourly dumps of run `run` from `dir`,
// starting from dump `first`. CLM channels come from the
// column cell of the CLM output files, runoff from the
// pressure of the top cell of the pressure files.
func LoadCLM(dir string, run *scenario.Run, first, n int) (*CLMSeries, error) {
	if run.CLM == nil {
		return nil, fmt.Errorf("run %s is not coupled with CLM", run.Name)
	}
	if n < 1 {
		return nil, fmt.Errorf("invalid number of dumps %d", n)
	}

	clmFiles := folders.OutputFiles(dir, run.Name, string(conf.CLMOutput), first, n, "C.pfb")
	clm, err := frames.Series(clmFiles,
		frames.Cell(0, 0, LayerLatentHeat),
		frames.Cell(0, 0, LayerET),
		frames.Cell(0, 0, LayerSWE),
	)
	if err != nil {
		return nil, err
	}

	pressFiles := folders.OutputFiles(dir, run.Name, string(conf.Pressure), first, n, "pfb")
	press, err := frames.Series(pressFiles, frames.Cell(0, 0, run.Grid.NZ-1))
	if err != nil {
		return nil, err
	}

	runoff := make([]float64, n)
	for i, p := range press[0] {
		runoff[i] = Runoff(p, run.Surface.SlopeX, run.Surface.Mannings)
	}

	return &CLMSeries{
		First:      first,
		LatentHeat: clm[0],
		ET:         clm[1],
		SWE:        clm[2],
		Runoff:     runoff,
	}, nil
}

// Plot returns the dual axis plot of the series:
// latent heat and SWE on the left, runoff on the right.
func (s *CLMSeries) Plot() render.DualAxis {
	return render.DualAxis{
		XName:     "Time, WY [hr]",
		First:     s.First,
		LeftName:  "LH Flux, SWE",
		RightName: "Runoff [m/h]",
		Left: []render.Channel{
			{Name: "LH Flux", Color: chart.ColorGreen, Values: s.LatentHeat},
			{Name: "SWE", Color: chart.ColorBlue, Values: s.SWE},
		},
		Right: []render.Channel{
			{Name: "Runoff", Color: chart.ColorRed, Values: s.Runoff},
		},
		Width:  1200,
		Height: 600,
	}
}
