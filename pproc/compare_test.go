package pproc

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComparePerfect(t *testing.T) {
	dt := []time.Time{d(2020, 1, 1), d(2020, 1, 6), d(2020, 1, 11), d(2020, 1, 16), d(2020, 1, 21)}
	obs := []float64{1., 3., 2., 5., 4.}

	// identical records score a perfect fit
	f, err := Compare("P1", dt, obs, dt, obs)
	require.NoError(t, err)
	assert.Equal(t, "P1", f.Locnme)
	assert.Equal(t, 5, f.N)
	assert.InDelta(t, 1., f.KGE, 1e-9)
	assert.InDelta(t, 1., f.NSE, 1e-9)
	assert.InDelta(t, 0., f.RMSE, 1e-9)
}

func TestCompareBiased(t *testing.T) {
	dt := []time.Time{d(2020, 1, 1), d(2020, 1, 6), d(2020, 1, 11), d(2020, 1, 16)}
	obs := []float64{1., 3., 2., 5.}
	sim := []float64{2., 4., 3., 6.} // obs + 1

	f, err := Compare("P1", dt, obs, dt, sim)
	require.NoError(t, err)
	assert.InDelta(t, 1., f.RMSE, 1e-9)
	assert.Less(t, f.NSE, 1.)
}

func TestWriteFits(t *testing.T) {
	fp := filepath.Join(t.TempDir(), "fits.csv")
	require.NoError(t, WriteFits(fp, []*Fit{
		{Locnme: "P1", KGE: .9, NSE: .8, RMSE: .1, Bias: .01, N: 12},
	}))
	b, err := os.ReadFile(fp)
	require.NoError(t, err)
	lns := strings.Split(strings.TrimRight(string(b), "\n"), "\n")
	require.Len(t, lns, 2)
	assert.Equal(t, "loc,n,kge,nse,rmse,bias", lns[0])
	assert.Equal(t, "P1,12,0.9000,0.8000,0.1000,0.0100", lns[1])
}
