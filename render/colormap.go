package render

import (
	"fmt"
	"image/color"
	"math"
	"sort"
	"strings"

	"github.com/mazznoer/colorgrad"
)

// Scale maps data values to [0, 1]. Values
// outside [Min, Max] are clamped to the bounds.
type Scale struct {
	Min, Max float64
}

// Normalize returns the position of `v` in the scale.
func (s Scale) Normalize(v float64) float64 {
	if math.IsNaN(v) || v <= s.Min {
		return 0
	}
	if v >= s.Max {
		return 1
	}
	return (v - s.Min) / (s.Max - s.Min)
}

// Valid reports whether the scale has a
// positive, finite width.
func (s Scale) Valid() bool {
	w := s.Max - s.Min
	return w > 0 && !math.IsInf(w, 0) && !math.IsNaN(w)
}

// Colormap maps positions in [0, 1] to colors
// along a gradient.
type Colormap struct {
	grad     colorgrad.Gradient
	reversed bool
}

// At returns the color at position `t` of the map.
// Positions outside [0, 1] are clamped to the bounds.
func (cm Colormap) At(t float64) color.RGBA {
	switch {
	case math.IsNaN(t) || t < 0:
		t = 0
	case t > 1:
		t = 1
	}
	if cm.reversed {
		t = 1 - t
	}
	r, g, b := cm.grad.At(t).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// Reversed returns the map with colors in reverse order.
func (cm Colormap) Reversed() Colormap {
	return Colormap{grad: cm.grad, reversed: !cm.reversed}
}

// Blues goes from white to dark blue.
var Blues = Colormap{grad: colorgrad.Blues()}

// Viridis goes from dark purple to yellow.
var Viridis = Colormap{grad: colorgrad.Viridis()}

var colormaps = map[string]Colormap{
	"blues":     Blues,
	"blues_r":   Blues.Reversed(),
	"viridis":   Viridis,
	"viridis_r": Viridis.Reversed(),
}

// ColormapByName returns one of the known colormaps.
func ColormapByName(name string) (Colormap, error) {
	cm, ok := colormaps[strings.ToLower(name)]
	if !ok {
		names := make([]string, 0, len(colormaps))
		for n := range colormaps {
			names = append(names, n)
		}
		sort.Strings(names)
		return Colormap{}, fmt.Errorf("unknown colormap `%s`: expecting one of %s", name, strings.Join(names, ", "))
	}
	return cm, nil
}
