package pest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKmi() Kmi {
	return Kmi{
		Keys: []string{"boundname", "layer", "istep"},
		Tuples: [][]string{
			{"well1", "1", "0"},
			{"well1", "1", "1"},
			{"well2", "2", "0"},
		},
	}
}

func TestParNames(t *testing.T) {
	k := testKmi()
	assert.Equal(t, []string{"well1__1__0", "well1__1__1", "well2__2__0"}, k.ParNames())
	require.NoError(t, k.Check())

	k.Tuples = append(k.Tuples, []string{"short"})
	assert.Error(t, k.Check())
	assert.Error(t, (&Kmi{}).Check())
}

func TestNewListParam(t *testing.T) {
	p, err := NewListParam("aq", "aqpump", testKmi(), []float64{100., 200., 300.}, TransLog10)
	require.NoError(t, err)
	assert.InDelta(t, 2., p.Values[0], 1e-12) // held transformed
	assert.Equal(t, "factor", p.Parchglim)
	assert.Equal(t, 1e-10, p.Parlbnd)
	assert.Equal(t, 1e+10, p.Parubnd)
	assert.Equal(t, "aq", p.Pargp)
	assert.Equal(t, TransLog10, p.Btrans)

	_, err = NewListParam("aq", "aqpump", testKmi(), []float64{1., 2.}, TransNone)
	assert.Error(t, err) // value count mismatch
	_, err = NewListParam("aq", "aqpump", testKmi(), []float64{-1., 2., 3.}, TransLog10)
	assert.Error(t, err) // log of non-positive
}

func TestParfileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	p, err := NewListParam("aq", "aqpump", testKmi(), []float64{100., 200., 300.}, TransLog10)
	require.NoError(t, err)

	fp := filepath.Join(dir, p.ParfileName())
	require.NoError(t, p.WriteParfile(fp))

	vals, err := ReadParfile(fp, p.Btrans)
	require.NoError(t, err)
	require.Len(t, vals, 3)
	assert.InDelta(t, 100., vals["well1__1__0"], 1e-6)
	assert.InDelta(t, 200., vals["well1__1__1"], 1e-6)
	assert.InDelta(t, 300., vals["well2__2__0"], 1e-6)

	_, err = ReadParfile(filepath.Join(dir, "missing.par"), TransNone)
	assert.Error(t, err)
}

func TestWriteTpl(t *testing.T) {
	dir := t.TempDir()
	p, err := NewListParam("aq", "aqpump", testKmi(), []float64{1., 2., 3.}, TransNone)
	require.NoError(t, err)

	fp := filepath.Join(dir, p.TplName())
	require.NoError(t, p.WriteTpl(fp))
	b, err := os.ReadFile(fp)
	require.NoError(t, err)
	lns := strings.Split(strings.TrimRight(string(b), "\n"), "\n")
	require.Len(t, lns, 4)
	assert.Equal(t, "ptf ~", lns[0])
	assert.True(t, strings.HasPrefix(lns[1], "well1__1__0"))
	assert.Contains(t, lns[1], "~")
	assert.Contains(t, lns[3], "well2__2__0~")
}

func TestTrans(t *testing.T) {
	for _, tr := range []Trans{TransNone, TransLog, TransLog10} {
		u, err := tr.Apply(42.)
		require.NoError(t, err)
		v, err := tr.Back(u)
		require.NoError(t, err)
		assert.InDelta(t, 42., v, 1e-9, string(tr))
	}
	u, err := TransNegLog10.Apply(-0.01)
	require.NoError(t, err)
	assert.InDelta(t, -2., u, 1e-12)
	v, err := TransNegLog10.Back(u)
	require.NoError(t, err)
	assert.InDelta(t, -0.01, v, 1e-12)

	_, err = TransLog.Apply(0.)
	assert.Error(t, err)
	_, err = TransNegLog10.Apply(1.)
	assert.Error(t, err)
	assert.Error(t, Trans("sqrt").Check())
	assert.NoError(t, Trans("").Check())
}
