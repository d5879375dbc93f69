package main

import (
	"bytes"
	"path"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/meteocima/virtual-server/vpath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meteocima/parflow-runner/pfb"
	"github.com/meteocima/parflow-runner/pfidb"
)

func fixtures() string {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		panic("cannot retrieve the source file path")
	} else {
		file = filepath.Dir(file)
	}

	return path.Join(file, "fixtures")
}

func TestDatesFromArgs(t *testing.T) {
	wd := vpath.Local("/data/runs")
	dates := datesFromArgs([]string{"/data/runs", "2020112600", "2020112800"}, wd)

	require.Len(t, dates.Periods, 1)
	assert.Equal(t, "2020112600", dates.Periods[0].Start.Format("2006010215"))
	assert.Equal(t, 48*time.Hour, dates.Periods[0].Duration)
	assert.Equal(t, "/data/runs/parflow-runner.cfg", dates.CfgPath)
}

func TestReadInputArgs(t *testing.T) {
	wd := vpath.Local(fixtures())
	dates := readInputArgs(wd)

	require.Len(t, dates.Periods, 1)
	assert.Equal(t, "2021100100", dates.Periods[0].Start.Format("2006010215"))
	assert.Equal(t, 8760*time.Hour, dates.Periods[0].Duration)
	assert.Equal(t, path.Join(fixtures(), "parflow-runner.cfg"), dates.CfgPath)
}

func writeGrid(t *testing.T) string {
	file := filepath.Join(t.TempDir(), "Dunne.out.satur.00003.pfb")
	h := pfb.Header{NX: 3, NY: 2, NZ: 2, DX: 1, DY: 1, DZ: 0.5}
	data := [][][]float64{
		{{0.1, 0.2, 0.3}, {0.4, 0.5, 0.6}},
		{{0.7, 0.8, 0.9}, {1.0, 1.1, 1.2}},
	}
	require.NoError(t, pfb.WriteFile(file, h, data))
	return file
}

func TestInspect(t *testing.T) {
	file := writeGrid(t)

	var out bytes.Buffer
	require.NoError(t, inspect(&out, file, false, "2,0,1"))
	assert.Contains(t, out.String(), "size:     3 x 2 x 2\n")
	assert.Contains(t, out.String(), "min:      0.1\n")
	assert.Contains(t, out.String(), "max:      1.2\n")
	assert.Contains(t, out.String(), "cell:     (2,0,1) = 0.9\n")
}

func TestInspectHeaderOnly(t *testing.T) {
	file := writeGrid(t)

	var out bytes.Buffer
	require.NoError(t, inspect(&out, file, true, ""))
	assert.Contains(t, out.String(), "spacing:  1 1 0.5\n")
	assert.NotContains(t, out.String(), "min:")
}

func TestInspectBadCell(t *testing.T) {
	file := writeGrid(t)

	assert.Error(t, inspect(&bytes.Buffer{}, file, false, "3,0,0"))
	assert.Error(t, inspect(&bytes.Buffer{}, file, false, "first"))
	assert.Error(t, inspect(&bytes.Buffer{}, filepath.Join(t.TempDir(), "missing.pfb"), false, ""))
}

func TestPrintDiff(t *testing.T) {
	db := pfidb.New()
	db.Set("Solver.MaxIter", 3000)
	db.Set("Solver.Drop", 1e-20)

	saved := pfidb.New()
	saved.Set("Solver.MaxIter", 2500)
	saved.Set("Solver.Drop", 1e-20)
	saved.Set("Wells.Names", "")

	var out bytes.Buffer
	assert.Equal(t, 2, printDiff(&out, db, saved))
	assert.Equal(t,
		"Solver.MaxIter: `3000`, saved `2500`\n"+
			"Wells.Names: unset, saved ``\n",
		out.String(),
	)

	out.Reset()
	assert.Equal(t, 0, printDiff(&out, db, db))
	assert.Empty(t, out.String())
}
