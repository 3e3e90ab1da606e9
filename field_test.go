package marthe

import (
	"testing"

	"github.com/maseology/goMarthe/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testNestedField() *Field {
	mk := func(inest, nrow, ncol int, xl, yl, d, v float64) grid.Grid {
		a := make([][]float64, nrow)
		dx, dy := make([]float64, ncol), make([]float64, nrow)
		xcc, ycc := make([]float64, ncol), make([]float64, nrow)
		for j := 0; j < ncol; j++ {
			dx[j] = d
			xcc[j] = xl + (float64(j)+.5)*d
		}
		for i := 0; i < nrow; i++ {
			dy[i] = d
			ycc[i] = yl + (float64(nrow-i)-.5)*d
			a[i] = make([]float64, ncol)
			for j := range a[i] {
				a[i][j] = v
			}
		}
		return grid.Grid{
			Field: "PERMEAB", Inest: inest,
			Nrow: nrow, Ncol: ncol, Xl: xl, Yl: yl,
			Dx: dx, Dy: dy, Xcc: xcc, Ycc: ycc, A: a,
		}
	}
	return &Field{Name: "permh", Gs: []grid.Grid{
		mk(0, 3, 4, 300., 600., 100., 1e-5),
		mk(1, 4, 4, 400., 700., 25., 3e-5), // refinement inside the main grid
	}}
}

func TestSetRecords(t *testing.T) {
	f := testNestedField()
	require.NoError(t, f.SetRecords([]grid.Cell{
		{Layer: 0, Inest: 0, I: 1, J: 2, Value: 7e-5},
		{Layer: 0, Inest: 1, I: 3, J: 0, Value: 9e-5},
	}))
	assert.Equal(t, 7e-5, f.Gs[0].A[1][2])
	assert.Equal(t, 1e-5, f.Gs[0].A[0][0]) // untouched
	assert.Equal(t, 9e-5, f.Gs[1].A[3][0])
	assert.Equal(t, 3e-5, f.Gs[1].A[0][0])
}

func TestSetRecordsRoundTrip(t *testing.T) {
	f := testNestedField()
	cs := f.Records()
	for i := range cs {
		cs[i].Value *= 2.
	}
	require.NoError(t, f.SetRecords(cs))
	assert.Equal(t, 2e-5, f.Gs[0].A[2][3])
	assert.Equal(t, 6e-5, f.Gs[1].A[1][1])
}

func TestSetRecordsErrors(t *testing.T) {
	f := testNestedField()
	err := f.SetRecords([]grid.Cell{{Layer: 2, Inest: 0, I: 0, J: 0, Value: 1.}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no grid")
	err = f.SetRecords([]grid.Cell{{Layer: 0, Inest: 0, I: 9, J: 0, Value: 1.}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outside")
}
