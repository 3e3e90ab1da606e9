package marthe

import (
	"fmt"
	"math"

	"github.com/maseology/goMarthe/grid"
)

// Field is a distributed model property: the full stack of property grids
// (all layers and nested grids) read from one Marthe_Grid file.
type Field struct {
	Name string
	FP   string // source property file
	Gs   []grid.Grid
}

// LoadField reads a property file into a Field.
func LoadField(name, fp string) (*Field, error) {
	gs, err := grid.Read(fp)
	if err != nil {
		return nil, fmt.Errorf("LoadField %s: %v", name, err)
	}
	return &Field{Name: name, FP: fp, Gs: gs}, nil
}

// WriteData writes the field back to its source property file.
func (f *Field) WriteData() error {
	if f.FP == "" {
		return fmt.Errorf("Field.WriteData %s: no source file", f.Name)
	}
	return f.Write(f.FP)
}

func (f *Field) MaxLayer() int {
	n := 0
	for _, g := range f.Gs {
		if g.Layer+1 > n {
			n = g.Layer + 1
		}
	}
	return n
}

func (f *Field) MaxNest() int {
	n := 0
	for _, g := range f.Gs {
		if g.Inest > n {
			n = g.Inest
		}
	}
	return n
}

// Get subsets grids by layer and/or nest; -1 selects all.
func (f *Field) Get(layer, inest int) []grid.Grid {
	o := []grid.Grid{}
	for _, g := range f.Gs {
		if layer >= 0 && g.Layer != layer {
			continue
		}
		if inest >= 0 && g.Inest != inest {
			continue
		}
		o = append(o, g)
	}
	return o
}

// Records flattens the field to cell records.
func (f *Field) Records() []grid.Cell {
	cs := []grid.Cell{}
	for i := range f.Gs {
		cs = append(cs, f.Gs[i].Records(0)...)
	}
	return cs
}

// Set assigns a single value to every cell of the selected grids; -1 selects
// all layers/nests.
func (f *Field) Set(v float64, layer, inest int) {
	for k := range f.Gs {
		g := &f.Gs[k]
		if layer >= 0 && g.Layer != layer {
			continue
		}
		if inest >= 0 && g.Inest != inest {
			continue
		}
		for i := range g.A {
			for j := range g.A[i] {
				g.A[i][j] = v
			}
		}
	}
}

// SetRecords writes cell-wise values into the field, matching each record to
// its grid by (layer, inest, i, j). Works on nested models.
func (f *Field) SetRecords(cs []grid.Cell) error {
	for _, c := range cs {
		hit := false
		for k := range f.Gs {
			g := &f.Gs[k]
			if g.Layer != c.Layer || g.Inest != c.Inest {
				continue
			}
			if c.I < 0 || c.I >= g.Nrow || c.J < 0 || c.J >= g.Ncol {
				return fmt.Errorf("Field.SetRecords %s: cell (%d,%d) outside grid (layer %d, nest %d)", f.Name, c.I, c.J, c.Layer, c.Inest)
			}
			g.A[c.I][c.J] = c.Value
			hit = true
		}
		if !hit {
			return fmt.Errorf("Field.SetRecords %s: no grid for layer %d, nest %d", f.Name, c.Layer, c.Inest)
		}
	}
	return nil
}

// Array3 returns main-grid values as [layer][row][col]; nested models refuse.
func (f *Field) Array3() ([][][]float64, error) {
	if f.MaxNest() > 0 {
		return nil, fmt.Errorf("Field.Array3 %s: model contains nested grids", f.Name)
	}
	a := make([][][]float64, f.MaxLayer())
	for _, g := range f.Get(-1, 0) {
		a[g.Layer] = g.A
	}
	return a, nil
}

// SetArray3 overwrites main-grid values from a [layer][row][col] array.
func (f *Field) SetArray3(a [][][]float64) error {
	if f.MaxNest() > 0 {
		return fmt.Errorf("Field.SetArray3 %s: model contains nested grids", f.Name)
	}
	if len(a) != f.MaxLayer() {
		return fmt.Errorf("Field.SetArray3 %s: need %d layers, given %d", f.Name, f.MaxLayer(), len(a))
	}
	for k := range f.Gs {
		g := &f.Gs[k]
		if len(a[g.Layer]) != g.Nrow || len(a[g.Layer][0]) != g.Ncol {
			return fmt.Errorf("Field.SetArray3 %s: layer %d shape mismatch", f.Name, g.Layer)
		}
		for i := range g.A {
			copy(g.A[i], a[g.Layer][i])
		}
	}
	return nil
}

// Sample returns the field value at point (x,y) on a given layer, preferring
// the finest nested grid covering the point.
func (f *Field) Sample(x, y float64, layer int) (float64, bool) {
	v, found, nest := 0., false, -1
	for _, g := range f.Get(layer, -1) {
		if i, j, ok := g.Sample(x, y); ok && g.Inest > nest {
			v, found, nest = g.A[i][j], true, g.Inest
		}
	}
	return v, found
}

// Write saves the field back to the Marthe_Grid format.
func (f *Field) Write(fp string) error {
	return grid.Write(fp, f.Gs, f.MaxLayer(), f.MaxNest())
}

// asMask returns a copy with binary data: 0 inactive, 1 active.
func (f *Field) asMask() *Field {
	gs := make([]grid.Grid, len(f.Gs))
	for k, g := range f.Gs {
		a := make([][]float64, g.Nrow)
		for i := range a {
			a[i] = make([]float64, g.Ncol)
			for j := range a[i] {
				if g.A[i][j] != 0. {
					a[i][j] = 1.
				}
			}
		}
		g.A = a
		g.Field = "IMASK"
		gs[k] = g
	}
	return &Field{Name: "imask", Gs: gs}
}

// Minmax reports the active-cell value range (zeroes and no-data excluded).
func (f *Field) Minmax() (float64, float64) {
	mn, mx := math.MaxFloat64, -math.MaxFloat64
	for _, g := range f.Gs {
		for i := range g.A {
			for _, v := range g.A[i] {
				if v == 0. || v == nodata {
					continue
				}
				if v < mn {
					mn = v
				}
				if v > mx {
					mx = v
				}
			}
		}
	}
	return mn, mx
}
