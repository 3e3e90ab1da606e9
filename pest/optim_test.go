package pest

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptim(t *testing.T) *Optim {
	dir := t.TempDir()
	o := NewOptim("mona", dir, []string{"P1", "P2"})
	fp := filepath.Join(dir, "P1.dat")
	require.NoError(t, os.WriteFile(fp, []byte(tobs), 0644))
	_, err := o.AddObs(fp, "P1", "")
	require.NoError(t, err)
	p, err := NewListParam("aq", "aqpump", testKmi(), []float64{100., 200., 300.}, TransLog10)
	require.NoError(t, err)
	require.NoError(t, o.AddParam(p))
	return o
}

func TestAddObs(t *testing.T) {
	o := testOptim(t)
	assert.Equal(t, []string{"P1", "P2"}, o.AvailableLocs())
	assert.Equal(t, 1, o.Nlocs())
	assert.Equal(t, 3, o.Nobs())
	assert.Equal(t, 1, o.Ndatatypes())

	fp := filepath.Join(o.Dir, "P1.dat")
	_, err := o.AddObs(fp, "P1", "") // duplicate
	assert.Error(t, err)
	_, err = o.AddObs(fp, "P9", "") // not reported by the model
	assert.Error(t, err)
}

func TestAddObsDuplicateLocation(t *testing.T) {
	dir := t.TempDir()
	fp := filepath.Join(dir, "P1.dat")
	require.NoError(t, os.WriteFile(fp, []byte(tobs), 0644))

	// a twice-declared location leaves its simulated column ambiguous
	o := NewOptim("mona", dir, []string{"P1", "P1", "P2"})
	_, err := o.AddObs(fp, "P1", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ambiguous")
	assert.Equal(t, 0, o.Nlocs())

	// the unambiguous location still registers
	_, err = o.AddObs(fp, "P2", "")
	require.NoError(t, err)
	assert.Equal(t, 1, o.Nlocs())
}

func TestRemoveObs(t *testing.T) {
	o := testOptim(t)
	_, err := o.AddFluc("P1", "")
	require.NoError(t, err)
	require.Equal(t, 2, o.Nlocs())

	require.NoError(t, o.RemoveObs("P1"))
	assert.Equal(t, 0, o.Nlocs()) // derived fluctuation dropped with it
	assert.Nil(t, o.GetObs("P1"))
	assert.Nil(t, o.GetObs("P1_fluc"))

	assert.Error(t, o.RemoveObs("P1"))
}

func TestAddFluc(t *testing.T) {
	o := testOptim(t)
	f, err := o.AddFluc("P1", "")
	require.NoError(t, err)
	assert.Equal(t, "P1_fluc", f.Locnme)
	assert.Equal(t, 2, o.Nlocs())
	assert.Equal(t, 2, o.Ndatatypes())
	_, err = o.AddFluc("P1", "")
	assert.Error(t, err) // already attached
	_, err = o.AddFluc("P9", "")
	assert.Error(t, err)
}

func TestComputeWeights(t *testing.T) {
	o := testOptim(t)
	_, err := o.AddFluc("P1", "")
	require.NoError(t, err)
	ob := o.GetObs("P1")
	ob.Sigma, ob.Lambda = 0.5, 1.
	fl := o.GetObs("P1_fluc")
	fl.Sigma, fl.Lambda = 0.1, 3.

	require.NoError(t, o.ComputeWeights())

	// head: lambda 1 of 4 total, 1 loc, 3 obs
	w := math.Sqrt(1./(4.*1.*3.)) / 0.5
	assert.InDelta(t, w, ob.Weights[0], 1e-12)
	// fluctuations: lambda 3 of 4 total
	w = math.Sqrt(3./(4.*1.*3.)) / 0.1
	assert.InDelta(t, w, fl.Weights[2], 1e-12)

	ob.Sigma = 0.
	assert.Error(t, o.ComputeWeights())
}

func TestValidate(t *testing.T) {
	o := testOptim(t)
	require.NoError(t, o.Validate())

	o.Params[0].Parlbnd, o.Params[0].Parubnd = 1., 1.
	err := o.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lower bound")

	empty := NewOptim("x", t.TempDir(), nil)
	assert.Error(t, empty.Validate())
}

func TestWriteArtifacts(t *testing.T) {
	o := testOptim(t)
	require.NoError(t, o.WriteParfiles())
	require.NoError(t, o.WriteTpl())
	require.NoError(t, o.WriteIns())
	for _, fn := range []string{"aq.par", "aq.tpl", "P1.ins"} {
		_, err := os.Stat(filepath.Join(o.Dir, fn))
		assert.NoError(t, err, fn)
	}
}

func TestConfigRoundTrip(t *testing.T) {
	o := testOptim(t)
	fp := filepath.Join(o.Dir, "mona.config")
	require.NoError(t, o.WriteConfig(fp))

	c, err := ReadConfig(fp)
	require.NoError(t, err)
	assert.Equal(t, "mona", c.Name)
	require.Len(t, c.Params, 1)
	p := c.Params[0]
	assert.Equal(t, "aq", p.Name)
	assert.Equal(t, "aqpump", p.Prop)
	assert.Equal(t, []string{"boundname", "layer", "istep"}, p.Keys)
	assert.Equal(t, filepath.Join(o.Dir, "aq.par"), p.Parfile)
	assert.Equal(t, TransLog10, p.Btrans)
	require.Len(t, c.Obs, 1)
	assert.Equal(t, "P1", c.Obs[0].Locnme)
	assert.Equal(t, 3, c.Obs[0].Nobs)

	// parameter values survive the full write/read cycle
	require.NoError(t, o.WriteParfiles())
	vals, err := ReadParfile(p.Parfile, p.Btrans)
	require.NoError(t, err)
	assert.InDelta(t, 100., vals["well1__1__0"], 1e-6)
}

func TestReadConfigMalformed(t *testing.T) {
	dir := t.TempDir()
	w := func(s string) string {
		fp := filepath.Join(dir, "bad.config")
		require.NoError(t, os.WriteFile(fp, []byte(s), 0644))
		return fp
	}
	_, err := ReadConfig(w("[START_PARAM]\nparname= x\n"))
	assert.Error(t, err) // unterminated
	_, err = ReadConfig(w("[START_PARAM]\nparname= x\n[END_PARAM]\n"))
	assert.Error(t, err) // missing prop and parfile
	_, err = ReadConfig(w("[START_PARAM]\nno equals sign\n[END_PARAM]\n"))
	assert.Error(t, err)
	_, err = ReadConfig(filepath.Join(dir, "missing.config"))
	assert.Error(t, err)
}
