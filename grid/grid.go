package grid

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/maseology/mmio"
)

// Grid holds one (layer, nested-grid) slab of a MARTHE property file.
// Inest=0 is the main grid; Ycc descends (grid files are written north-down).
type Grid struct {
	Dx, Dy, Xcc, Ycc []float64
	A                [][]float64 // [Nrow][Ncol]
	Field            string
	Layer, Inest     int
	Nrow, Ncol       int
	Xl, Yl           float64 // lower-left corner
}

// Cell is a flattened grid cell record.
type Cell struct {
	Layer, Inest, I, J int
	X, Y, Value        float64
}

func (g *Grid) IsNested() bool { return g.Inest != 0 }

func (g *Grid) IsRegular() bool {
	u := func(a []float64) bool {
		for _, v := range a[1:] {
			if v != a[0] {
				return false
			}
		}
		return true
	}
	return u(g.Dx) && u(g.Dy)
}

func (g *Grid) IsUniform() bool {
	for _, r := range g.A {
		for _, v := range r {
			if v != g.A[0][0] {
				return false
			}
		}
	}
	return true
}

// Records flattens grid values to cell records, row-major. base offsets i,j
// indexing (0 or 1).
func (g *Grid) Records(base int) []Cell {
	cs := make([]Cell, 0, g.Nrow*g.Ncol)
	for i := 0; i < g.Nrow; i++ {
		for j := 0; j < g.Ncol; j++ {
			cs = append(cs, Cell{g.Layer, g.Inest, i + base, j + base, g.Xcc[j], g.Ycc[i], g.A[i][j]})
		}
	}
	return cs
}

// Sample locates the cell containing point (x,y); ok=false when outside.
func (g *Grid) Sample(x, y float64) (i, j int, ok bool) {
	if x < g.Xl || y < g.Yl {
		return -1, -1, false
	}
	xr := g.Xl
	j = -1
	for jj, d := range g.Dx {
		xr += d
		if x <= xr {
			j = jj
			break
		}
	}
	yr := g.Ycc[0] + g.Dy[0]/2. // top edge
	i = -1
	for ii, d := range g.Dy {
		yr -= d
		if y >= yr {
			i = ii
			break
		}
	}
	if i < 0 || j < 0 {
		return -1, -1, false
	}
	return i, j, true
}

// Read imports a MARTHE property file: a sequence of Marthe_Grid blocks,
// one per layer (and nested grid), each closed by [End_Grid].
func Read(fp string) ([]Grid, error) {
	a, err := mmio.ReadTextLines(fp)
	if err != nil {
		return nil, fmt.Errorf("grid.Read %s: %v", fp, err)
	}
	gs, ln := []Grid{}, 0
	for ln < len(a) {
		if !strings.HasPrefix(strings.TrimSpace(a[ln]), "Marthe_Grid") {
			ln++
			continue
		}
		g, nln, err := parseBlock(a, ln)
		if err != nil {
			return nil, fmt.Errorf("grid.Read %s: %v", fp, err)
		}
		gs = append(gs, g)
		ln = nln
	}
	if len(gs) == 0 {
		return nil, fmt.Errorf("grid.Read %s: no Marthe_Grid block found", fp)
	}
	return gs, nil
}

func parseBlock(a []string, ln int) (Grid, int, error) {
	var g Grid
	g.Layer, g.Inest = 0, 0
	uniform, uval := false, 0.
	stErr := make([]string, 0)
	errfunc := func(v string, err error) {
		stErr = append(stErr, fmt.Sprintf("     failed to read '%v': %v", v, err))
	}
	keyval := func(s string) string {
		i := strings.Index(s, "=")
		if i < 0 {
			return ""
		}
		return strings.TrimSpace(s[i+1:])
	}
	atof := func(nm, s string) float64 {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			errfunc(nm, err)
		}
		return v
	}
	atoi := func(nm, s string) int {
		v, err := strconv.Atoi(s)
		if err != nil {
			errfunc(nm, err)
		}
		return v
	}
	fields := func(s string) []float64 {
		ss := strings.Fields(s)
		o := make([]float64, len(ss))
		for i, x := range ss {
			o[i] = atof("data row", x)
		}
		return o
	}

	for ; ln < len(a); ln++ {
		s := strings.TrimSpace(a[ln])
		switch {
		case s == "[End_Grid]":
			if len(stErr) > 0 {
				return g, ln + 1, fmt.Errorf("parse error(s):\n%s", strings.Join(stErr, "\n"))
			}
			if g.Nrow == 0 || g.Ncol == 0 {
				return g, ln + 1, fmt.Errorf("missing [Structure] Nrows/Ncolumn")
			}
			if uniform {
				g.A = make([][]float64, g.Nrow)
				for i := range g.A {
					g.A[i] = make([]float64, g.Ncol)
					for j := range g.A[i] {
						g.A[i][j] = uval
					}
				}
			}
			if len(g.Xcc) != g.Ncol || len(g.Ycc) != g.Nrow {
				return g, ln + 1, fmt.Errorf("cell-centre count mismatch: %d/%d cols, %d/%d rows", len(g.Xcc), g.Ncol, len(g.Ycc), g.Nrow)
			}
			return g, ln + 1, nil
		case strings.HasPrefix(s, "Field="):
			g.Field = keyval(s)
		case strings.HasPrefix(s, "Layer="):
			if i := atoi("Layer", keyval(s)); i > 0 {
				g.Layer = i - 1 // one-based in file
			}
		case strings.HasPrefix(s, "Nest_grid="):
			g.Inest = atoi("Nest_grid", keyval(s))
		case strings.HasPrefix(s, "X_Left_Corner="):
			g.Xl = atof("X_Left_Corner", keyval(s))
		case strings.HasPrefix(s, "Y_Lower_Corner="):
			g.Yl = atof("Y_Lower_Corner", keyval(s))
		case strings.HasPrefix(s, "Ncolumn="):
			g.Ncol = atoi("Ncolumn", keyval(s))
		case strings.HasPrefix(s, "Nrows="):
			g.Nrow = atoi("Nrows", keyval(s))
		case s == "[Data]":
			var err error
			ln, err = parseData(&g, a, ln+1, fields)
			if err != nil {
				return g, ln, err
			}
		case s == "[Constant_Data]":
			uniform = true
		case strings.HasPrefix(s, "Uniform_Value="):
			uval = atof("Uniform_Value", keyval(s))
		case s == "[Columns_x_and_dx]":
			g.Xcc, g.Dx = fields(a[ln+2]), fields(a[ln+3])
			ln += 3
		case s == "[Columns_y_and_dy]":
			g.Ycc, g.Dy = fields(a[ln+2]), fields(a[ln+3])
			ln += 3
		}
	}
	return g, ln, fmt.Errorf("unterminated grid block (no [End_Grid])")
}

// parseData reads the non-uniform block: column ids; x centres; Nrow rows of
// {row id, y centre, values..., dy}; trailing dx line.
func parseData(g *Grid, a []string, ln int, fields func(string) []float64) (int, error) {
	if g.Nrow == 0 || g.Ncol == 0 {
		return ln, fmt.Errorf("[Data] before [Structure]")
	}
	xrow := fields(a[ln+1]) // line ln holds column numbering
	if len(xrow) < g.Ncol+2 {
		return ln, fmt.Errorf("short x-centre line: %d fields", len(xrow))
	}
	g.Xcc = xrow[2 : g.Ncol+2]
	g.A = make([][]float64, g.Nrow)
	g.Ycc = make([]float64, g.Nrow)
	g.Dy = make([]float64, g.Nrow)
	ln += 2
	for i := 0; i < g.Nrow; i++ {
		r := fields(a[ln+i])
		if len(r) < g.Ncol+3 {
			return ln, fmt.Errorf("short data row %d: %d fields", i+1, len(r))
		}
		g.Ycc[i] = r[1]
		g.A[i] = r[2 : g.Ncol+2]
		g.Dy[i] = r[g.Ncol+2]
	}
	ln += g.Nrow
	dxrow := fields(a[ln])
	if len(dxrow) < g.Ncol+2 {
		return ln, fmt.Errorf("short dx line: %d fields", len(dxrow))
	}
	g.Dx = dxrow[2 : g.Ncol+2]
	return ln, nil
}
