package grid

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

func ftoa(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }

func joinFloats(fs []float64) string {
	ss := make([]string, len(fs))
	for i, f := range fs {
		ss[i] = ftoa(f)
	}
	return strings.Join(ss, "\t")
}

func joinSeq(n int) string {
	ss := make([]string, n)
	for i := range ss {
		ss[i] = strconv.Itoa(i + 1)
	}
	return strings.Join(ss, "\t")
}

// String emits the grid in the Marthe_Grid text format, uniform block when the
// data are uniform.
func (g *Grid) String(maxlayer, maxnest int) string {
	inest := " "
	if g.Inest > 0 {
		inest = strconv.Itoa(g.Inest)
	}
	lines := []string{"Marthe_Grid Version=9.0"}
	lines = append(lines,
		fmt.Sprintf("Title=Travail%s%s %s%s%d", strings.Repeat(" ", 62), inest, g.Field, strings.Repeat(" ", 12), g.Layer+1),
		"[Infos]",
		"Field="+g.Field,
		"Type=",
		"Elem_Number=0",
		"Name=",
		"Time_Step=-9999",
		"Time=0",
		fmt.Sprintf("Layer=%d", g.Layer+1),
		fmt.Sprintf("Max_Layer=%d", maxlayer),
		fmt.Sprintf("Nest_grid=%d", g.Inest),
		fmt.Sprintf("Max_NestG=%d", maxnest),
		"[Structure]",
		"X_Left_Corner="+ftoa(g.Xl),
		"Y_Lower_Corner="+ftoa(g.Yl),
		fmt.Sprintf("Ncolumn=%d", g.Ncol),
		fmt.Sprintf("Nrows=%d", g.Nrow),
		"[Data_Descript]",
		"! Line 1       :   0   ,     0          , <   1 , 2 , 3 , Ncolumn   >",
		"! Line 2       :   0   ,     0          , < X_Center_of_all_Columns >",
		"! Line 2+1     :   1   , Y_of_Row_1     , < Field_Values_of_all_Columns > , Dy_of_Row_1",
		"! Line 2+2     :   2   , Y_of_Row_2     , < Field_Values_of_all_Columns > , Dy_of_Row_2",
		"! Line 2+Nrows : Nrows , Y_of_Row_Nrows , < Field_Values_of_all_Columns > , Dy_of_Row_2",
		"! Line 3+Nrows :   0   ,     0          , <     Dx_of_all_Columns   >",
	)
	if g.IsUniform() {
		lines = append(lines,
			"[Constant_Data]",
			"Uniform_Value="+ftoa(g.A[0][0]),
			"[Columns_x_and_dx]",
			joinSeq(g.Ncol),
			joinFloats(g.Xcc),
			joinFloats(g.Dx),
			"[Columns_y_and_dy]",
			joinSeq(g.Nrow),
			joinFloats(g.Ycc),
			joinFloats(g.Dy),
		)
	} else {
		lines = append(lines,
			"[Data]",
			"0\t0\t"+joinSeq(g.Ncol),
			"0\t0\t"+joinFloats(g.Xcc),
		)
		for i := 0; i < g.Nrow; i++ {
			lines = append(lines, fmt.Sprintf("%d\t%s\t%s\t%s", i+1, ftoa(g.Ycc[i]), joinFloats(g.A[i]), ftoa(g.Dy[i])))
		}
		lines = append(lines, "0\t0\t"+joinFloats(g.Dx))
	}
	lines = append(lines, "[End_Grid]")
	return strings.Join(lines, "\n") + "\n"
}

// Write writes a set of grids to a MARTHE property file.
func Write(fp string, gs []Grid, maxlayer, maxnest int) error {
	if len(gs) == 0 {
		return fmt.Errorf("grid.Write %s: nothing to write", fp)
	}
	b := strings.Builder{}
	for i := range gs {
		b.WriteString(gs[i].String(maxlayer, maxnest))
	}
	if err := os.WriteFile(fp, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("grid.Write %s: %v", fp, err)
	}
	return nil
}
