package pfb

// This module reads and writes ParFlow binary
// (.pfb) files: a big-endian header describing
// the grid followed by one or more subgrids of
// float64 values, x varying fastest.

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
)

// ErrMalformedHeader is returned when the header
// of a file does not describe a usable grid.
var ErrMalformedHeader = errors.New("malformed pfb header")

// maxCells bounds the allocation done for a
// single file. A corrupt header must not make
// us allocate gigabytes.
const maxCells = 1 << 28

// Header describes the grid stored in a file.
type Header struct {
	X, Y, Z     float64
	NX, NY, NZ  int
	DX, DY, DZ  float64
	NumSubgrids int
}

// Cells returns the number of values of the grid.
func (h Header) Cells() int {
	return h.NX * h.NY * h.NZ
}

func (h Header) validate() error {
	if h.NX <= 0 || h.NY <= 0 || h.NZ <= 0 {
		return fmt.Errorf("%w: grid size %dx%dx%d", ErrMalformedHeader, h.NX, h.NY, h.NZ)
	}
	if h.Cells() > maxCells {
		return fmt.Errorf("%w: grid size %dx%dx%d too large", ErrMalformedHeader, h.NX, h.NY, h.NZ)
	}
	if h.NumSubgrids <= 0 || h.NumSubgrids > h.Cells() {
		return fmt.Errorf("%w: %d subgrids", ErrMalformedHeader, h.NumSubgrids)
	}
	return nil
}

// Subgrid is the portion of the grid written
// by a single solver process.
type Subgrid struct {
	IX, IY, IZ int
	NX, NY, NZ int
	RX, RY, RZ int
}

type rawHeader struct {
	X, Y, Z     float64
	NX, NY, NZ  int32
	DX, DY, DZ  float64
	NumSubgrids int32
}

type rawSubgrid struct {
	IX, IY, IZ int32
	NX, NY, NZ int32
	RX, RY, RZ int32
}

// File is an open pfb file. Call LoadHeader,
// then LoadData, then Array to get its content.
type File struct {
	Path   string
	Header Header

	f            *os.File
	r            *bufio.Reader
	data         []float64
	headerLoaded bool
	dataLoaded   bool
}

// Open opens the file at `path`. Nothing is
// read until LoadHeader is called.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pfb `%s`: %w", path, err)
	}
	return &File{
		Path: path,
		f:    f,
		r:    bufio.NewReader(f),
	}, nil
}

// LoadHeader reads and checks the file header.
func (pf *File) LoadHeader() error {
	if pf.headerLoaded {
		return nil
	}
	if pf.r == nil {
		return fmt.Errorf("load header of `%s`: file is closed", pf.Path)
	}

	var raw rawHeader
	if err := binary.Read(pf.r, binary.BigEndian, &raw); err != nil {
		return fmt.Errorf("load header of `%s`: %w: %s", pf.Path, ErrMalformedHeader, err)
	}

	h := Header{
		X: raw.X, Y: raw.Y, Z: raw.Z,
		NX: int(raw.NX), NY: int(raw.NY), NZ: int(raw.NZ),
		DX: raw.DX, DY: raw.DY, DZ: raw.DZ,
		NumSubgrids: int(raw.NumSubgrids),
	}
	if err := h.validate(); err != nil {
		return fmt.Errorf("load header of `%s`: %w", pf.Path, err)
	}

	pf.Header = h
	pf.headerLoaded = true
	return nil
}

// LoadData reads all subgrids of the file.
// LoadHeader must be called first.
func (pf *File) LoadData() error {
	if pf.dataLoaded {
		return nil
	}
	if !pf.headerLoaded {
		return fmt.Errorf("load data of `%s`: header not loaded", pf.Path)
	}
	if pf.r == nil {
		return fmt.Errorf("load data of `%s`: file is closed", pf.Path)
	}

	h := pf.Header
	data := make([]float64, h.Cells())

	for s := 0; s < h.NumSubgrids; s++ {
		var raw rawSubgrid
		if err := binary.Read(pf.r, binary.BigEndian, &raw); err != nil {
			return fmt.Errorf("load data of `%s`: subgrid %d header: %w", pf.Path, s, err)
		}
		sg := Subgrid{
			IX: int(raw.IX), IY: int(raw.IY), IZ: int(raw.IZ),
			NX: int(raw.NX), NY: int(raw.NY), NZ: int(raw.NZ),
			RX: int(raw.RX), RY: int(raw.RY), RZ: int(raw.RZ),
		}
		if sg.IX < 0 || sg.IY < 0 || sg.IZ < 0 ||
			sg.NX < 0 || sg.NY < 0 || sg.NZ < 0 ||
			sg.IX+sg.NX > h.NX || sg.IY+sg.NY > h.NY || sg.IZ+sg.NZ > h.NZ {
			return fmt.Errorf(
				"load data of `%s`: %w: subgrid %d at (%d,%d,%d) size %dx%dx%d outside grid",
				pf.Path, ErrMalformedHeader, s, sg.IX, sg.IY, sg.IZ, sg.NX, sg.NY, sg.NZ,
			)
		}

		row := make([]float64, sg.NX)
		for k := 0; k < sg.NZ; k++ {
			for j := 0; j < sg.NY; j++ {
				if err := binary.Read(pf.r, binary.BigEndian, row); err != nil {
					return fmt.Errorf("load data of `%s`: subgrid %d values: %w", pf.Path, s, err)
				}
				start := ((sg.IZ+k)*h.NY+sg.IY+j)*h.NX + sg.IX
				copy(data[start:start+sg.NX], row)
			}
		}
	}

	pf.data = data
	pf.dataLoaded = true
	return nil
}

// At returns the value of cell (x, y, z).
// LoadData must have been called.
func (pf *File) At(x, y, z int) float64 {
	h := pf.Header
	return pf.data[(z*h.NY+y)*h.NX+x]
}

// Array materializes the data as a 3-D array
// indexed by layer (z), row (y) and column (x).
// It returns nil if data has not been loaded.
func (pf *File) Array() [][][]float64 {
	if !pf.dataLoaded {
		return nil
	}
	h := pf.Header
	res := make([][][]float64, h.NZ)
	for k := range res {
		res[k] = make([][]float64, h.NY)
		for j := range res[k] {
			start := (k*h.NY + j) * h.NX
			row := make([]float64, h.NX)
			copy(row, pf.data[start:start+h.NX])
			res[k][j] = row
		}
	}
	return res
}

// Close releases the underlying file handle.
func (pf *File) Close() error {
	if pf.f == nil {
		return nil
	}
	err := pf.f.Close()
	pf.f = nil
	pf.r = nil
	if err != nil {
		return fmt.Errorf("close pfb `%s`: %w", pf.Path, err)
	}
	return nil
}

// ReadFile opens, loads and closes the file
// at `path`, returning its header and content.
func ReadFile(path string) (Header, [][][]float64, error) {
	pf, err := Open(path)
	if err != nil {
		return Header{}, nil, err
	}
	defer pf.Close()

	if err := pf.LoadHeader(); err != nil {
		return Header{}, nil, err
	}
	if err := pf.LoadData(); err != nil {
		return Header{}, nil, err
	}
	arr := pf.Array()

	return pf.Header, arr, pf.Close()
}

// ReadHeader opens the file at `path` and
// returns its header only.
func ReadHeader(path string) (Header, error) {
	pf, err := Open(path)
	if err != nil {
		return Header{}, err
	}
	defer pf.Close()

	if err := pf.LoadHeader(); err != nil {
		return Header{}, err
	}
	return pf.Header, nil
}
