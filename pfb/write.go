package pfb

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// split returns start and size of block `i`
// when `n` cells are distributed over `p` blocks,
// giving the remainder to the first blocks as
// the solver does.
func split(n, p, i int) (start, size int) {
	size = n / p
	rem := n % p
	if i < rem {
		size++
		return i * size, size
	}
	return rem*(size+1) + (i-rem)*size, size
}

// Write encodes `data` (indexed layer, row, column)
// to `w` as a single subgrid file described by `h`.
func Write(w io.Writer, h Header, data [][][]float64) error {
	return WriteSubgrids(w, h, data, 1, 1, 1)
}

// WriteSubgrids encodes `data` splitting the grid
// in p x q x r subgrids, as a run distributed on
// a P, Q, R process topology would do.
func WriteSubgrids(w io.Writer, h Header, data [][][]float64, p, q, r int) error {
	if p <= 0 || q <= 0 || r <= 0 {
		return fmt.Errorf("write pfb: invalid topology %dx%dx%d", p, q, r)
	}
	if len(data) != h.NZ {
		return fmt.Errorf("write pfb: expected %d layers, got %d", h.NZ, len(data))
	}
	for k := range data {
		if len(data[k]) != h.NY {
			return fmt.Errorf("write pfb: layer %d: expected %d rows, got %d", k, h.NY, len(data[k]))
		}
		for j := range data[k] {
			if len(data[k][j]) != h.NX {
				return fmt.Errorf("write pfb: layer %d row %d: expected %d columns, got %d", k, j, h.NX, len(data[k][j]))
			}
		}
	}
	if p > h.NX || q > h.NY || r > h.NZ {
		return fmt.Errorf("write pfb: topology %dx%dx%d larger than grid %dx%dx%d", p, q, r, h.NX, h.NY, h.NZ)
	}

	h.NumSubgrids = p * q * r
	if err := h.validate(); err != nil {
		return fmt.Errorf("write pfb: %w", err)
	}

	bw := bufio.NewWriter(w)
	raw := rawHeader{
		X: h.X, Y: h.Y, Z: h.Z,
		NX: int32(h.NX), NY: int32(h.NY), NZ: int32(h.NZ),
		DX: h.DX, DY: h.DY, DZ: h.DZ,
		NumSubgrids: int32(h.NumSubgrids),
	}
	if err := binary.Write(bw, binary.BigEndian, raw); err != nil {
		return fmt.Errorf("write pfb header: %w", err)
	}

	for sk := 0; sk < r; sk++ {
		iz, nz := split(h.NZ, r, sk)
		for sj := 0; sj < q; sj++ {
			iy, ny := split(h.NY, q, sj)
			for si := 0; si < p; si++ {
				ix, nx := split(h.NX, p, si)
				sg := rawSubgrid{
					IX: int32(ix), IY: int32(iy), IZ: int32(iz),
					NX: int32(nx), NY: int32(ny), NZ: int32(nz),
				}
				if err := binary.Write(bw, binary.BigEndian, sg); err != nil {
					return fmt.Errorf("write pfb subgrid header: %w", err)
				}
				for k := iz; k < iz+nz; k++ {
					for j := iy; j < iy+ny; j++ {
						if err := binary.Write(bw, binary.BigEndian, data[k][j][ix:ix+nx]); err != nil {
							return fmt.Errorf("write pfb values: %w", err)
						}
					}
				}
			}
		}
	}

	return bw.Flush()
}

// WriteFile writes `data` to a new file at `path`.
func WriteFile(path string, h Header, data [][][]float64) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(0644))
	if err != nil {
		return fmt.Errorf("write pfb `%s`: %w", path, err)
	}
	defer f.Close()

	if err := Write(f, h, data); err != nil {
		return fmt.Errorf("write pfb `%s`: %w", path, err)
	}
	return f.Close()
}
