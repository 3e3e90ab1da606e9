package marthe

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tprn = ` Fichier Historique
 Version 9.0

Date	P1	P2
31/01/2020	10.500000	3.200000
29/02/2020	11.500000	****
31/03/2020	12.500000	3.600000
`

func testPrn(t *testing.T) string {
	fp := filepath.Join(t.TempDir(), "historiq.prn")
	require.NoError(t, os.WriteFile(fp, []byte(tprn), 0644))
	return fp
}

func TestReadPrn(t *testing.T) {
	p, err := ReadPrn(testPrn(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"P1", "P2"}, p.Locs)
	require.Len(t, p.Dates, 3)
	assert.Equal(t, time.Date(2020, 1, 31, 0, 0, 0, 0, time.UTC), p.Dates[0])
	assert.Equal(t, []float64{10.5, 11.5, 12.5}, p.V["P1"])
	assert.Equal(t, nodata, p.V["P2"][1]) // unparseable value
	assert.Equal(t, 3.6, p.V["P2"][2])
}

func TestPrnFluct(t *testing.T) {
	p, err := ReadPrn(testPrn(t))
	require.NoError(t, err)
	f, err := p.Fluct("P1")
	require.NoError(t, err)
	assert.InDelta(t, -1., f[0], 1e-9)
	assert.InDelta(t, 0., f[1], 1e-9)
	assert.InDelta(t, 1., f[2], 1e-9)

	f, err = p.Fluct("P2")
	require.NoError(t, err)
	assert.InDelta(t, -.2, f[0], 1e-9)
	assert.Equal(t, nodata, f[1]) // sentinel preserved
	assert.InDelta(t, .2, f[2], 1e-9)

	_, err = p.Fluct("P9")
	assert.Error(t, err)
}

func TestPrnMinmax(t *testing.T) {
	p, err := ReadPrn(testPrn(t))
	require.NoError(t, err)
	mn, mx, err := p.Minmax("P2")
	require.NoError(t, err)
	assert.Equal(t, 3.2, mn)
	assert.Equal(t, 3.6, mx)
}

func TestExtractPrn(t *testing.T) {
	fp := testPrn(t)
	outdir := filepath.Join(filepath.Dir(fp), "ext")
	require.NoError(t, ExtractPrn(fp, outdir, []string{"P1"}, true))

	b, err := os.ReadFile(filepath.Join(outdir, "P1_abs.dat"))
	require.NoError(t, err)
	assert.Equal(t, "date\tvalue\n2020-01-31\t10.500000\n2020-02-29\t11.500000\n2020-03-31\t12.500000\n", string(b))

	_, err = os.Stat(filepath.Join(outdir, "P1_fluct.dat"))
	assert.NoError(t, err)

	assert.Error(t, ExtractPrn(fp, outdir, []string{"P9"}, false))
}
