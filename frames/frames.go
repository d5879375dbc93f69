package frames

// This module builds time ordered stacks of 2-D
// slices out of the 3-D arrays saved by the solver
// at every dump.

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/meteocima/parflow-runner/pfb"
)

// Slicer extracts a 2-D frame from a 3-D array
// indexed by layer, row and column.
type Slicer func(arr [][][]float64) (*mat.Dense, error)

// YSlice returns a vertical section at row `j`:
// frame rows are layers, columns are x cells.
func YSlice(j int) Slicer {
	return func(arr [][][]float64) (*mat.Dense, error) {
		nz := len(arr)
		if nz == 0 || j < 0 || j >= len(arr[0]) {
			return nil, fmt.Errorf("row %d outside array", j)
		}
		nx := len(arr[0][j])
		m := mat.NewDense(nz, nx, nil)
		for k := 0; k < nz; k++ {
			m.SetRow(k, arr[k][j])
		}
		return m, nil
	}
}

// ZSlice returns the horizontal plane at layer `k`.
func ZSlice(k int) Slicer {
	return func(arr [][][]float64) (*mat.Dense, error) {
		if k < 0 || k >= len(arr) || len(arr[k]) == 0 {
			return nil, fmt.Errorf("layer %d outside array", k)
		}
		ny, nx := len(arr[k]), len(arr[k][0])
		m := mat.NewDense(ny, nx, nil)
		for j := 0; j < ny; j++ {
			m.SetRow(j, arr[k][j])
		}
		return m, nil
	}
}

// Clamp replaces in place every value less than
// or equal to zero with zero and returns `m`.
// Positive values are left unchanged.
func Clamp(m *mat.Dense) *mat.Dense {
	m.Apply(func(i, j int, v float64) float64 {
		if v <= 0 {
			return 0
		}
		return v
	}, m)
	return m
}

// Stack is a time ordered sequence of frames:
// Stack[i] comes from the i-th file loaded.
type Stack []*mat.Dense

// Dims returns rows and columns of the frames.
func (s Stack) Dims() (rows, cols int) {
	if len(s) == 0 {
		return 0, 0
	}
	return s[0].Dims()
}

// Load reads `files` in order, one open file at
// a time, extracts a frame from each with `slice`
// and clamps it. The first missing or malformed
// file stops the load.
func Load(files []string, slice Slicer) (Stack, error) {
	stack := make(Stack, 0, len(files))
	for i, file := range files {
		arr, err := readArray(file)
		if err != nil {
			return nil, fmt.Errorf("load frame %d: %w", i, err)
		}
		m, err := slice(arr)
		if err != nil {
			return nil, fmt.Errorf("load frame %d from `%s`: %w", i, file, err)
		}
		if len(stack) > 0 {
			r0, c0 := stack.Dims()
			if r, c := m.Dims(); r != r0 || c != c0 {
				return nil, fmt.Errorf("load frame %d from `%s`: size %dx%d differs from %dx%d", i, file, r, c, r0, c0)
			}
		}
		stack = append(stack, Clamp(m))
	}
	return stack, nil
}

func readArray(file string) ([][][]float64, error) {
	_, arr, err := pfb.ReadFile(file)
	return arr, err
}

// Sampler extracts a single value from a 3-D array.
type Sampler func(arr [][][]float64) (float64, error)

// Cell returns a sampler reading the value at
// column `x`, row `y` and layer `z`.
func Cell(x, y, z int) Sampler {
	return func(arr [][][]float64) (float64, error) {
		if z < 0 || z >= len(arr) || y < 0 || y >= len(arr[z]) || x < 0 || x >= len(arr[z][y]) {
			return 0, fmt.Errorf("cell (%d,%d,%d) outside array", x, y, z)
		}
		return arr[z][y][x], nil
	}
}

// Series reads `files` in order and returns one
// channel per sampler: Series(...)[p][i] is the
// value read by samplers[p] from files[i]. Values
// are not clamped.
func Series(files []string, samplers ...Sampler) ([][]float64, error) {
	channels := make([][]float64, len(samplers))
	for p := range channels {
		channels[p] = make([]float64, 0, len(files))
	}
	for i, file := range files {
		arr, err := readArray(file)
		if err != nil {
			return nil, fmt.Errorf("load series step %d: %w", i, err)
		}
		for p, sample := range samplers {
			v, err := sample(arr)
			if err != nil {
				return nil, fmt.Errorf("load series step %d from `%s`: %w", i, file, err)
			}
			channels[p] = append(channels[p], v)
		}
	}
	return channels, nil
}

// Range returns the smallest and the largest
// value found in the frames of the stack.
func (s Stack) Range() (lo, hi float64) {
	for i, m := range s {
		data := mat.DenseCopyOf(m).RawMatrix().Data
		mlo, mhi := floats.Min(data), floats.Max(data)
		if i == 0 || mlo < lo {
			lo = mlo
		}
		if i == 0 || mhi > hi {
			hi = mhi
		}
	}
	return lo, hi
}
