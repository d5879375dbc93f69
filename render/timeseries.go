package render

import (
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Channel is a named series of values, one per timestep.
type Channel struct {
	Name   string
	Color  drawing.Color
	Values []float64
}

// DualAxis is a line plot of channels over time,
// with a second y axis on the right side. The
// chart primary axis is the right one.
// First is the x value of the first sample.
type DualAxis struct {
	Title     string
	XName     string
	First     int
	LeftName  string
	RightName string
	Left      []Channel
	Right     []Channel
	Width     int
	Height    int
}

func (p DualAxis) series(channels []Channel, axis chart.YAxisType) ([]chart.Series, error) {
	var res []chart.Series
	for _, ch := range channels {
		if len(ch.Values) < 2 {
			return nil, fmt.Errorf("channel `%s` has %d values, at least 2 needed", ch.Name, len(ch.Values))
		}
		xs := make([]float64, len(ch.Values))
		for i := range xs {
			xs[i] = float64(p.First + i)
		}
		res = append(res, chart.ContinuousSeries{
			Name:    ch.Name,
			XValues: xs,
			YValues: ch.Values,
			YAxis:   axis,
			Style:   chart.Style{StrokeColor: ch.Color, StrokeWidth: 1.5},
		})
	}
	return res, nil
}

// Render draws the plot as png to `w`.
func (p DualAxis) Render(w io.Writer) error {
	left, err := p.series(p.Left, chart.YAxisSecondary)
	if err != nil {
		return err
	}
	right, err := p.series(p.Right, chart.YAxisPrimary)
	if err != nil {
		return err
	}

	graph := chart.Chart{
		Title:  p.Title,
		Width:  p.Width,
		Height: p.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			Name: p.XName,
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%d", int(v.(float64)))
			},
		},
		YAxis: chart.YAxis{
			Name: p.RightName,
		},
		YAxisSecondary: chart.YAxis{
			Name: p.LeftName,
		},
		Series: append(left, right...),
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("cannot render plot: %w", err)
	}
	return nil
}
