package marthe

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromConfig(t *testing.T) {
	mm := testModel(t)
	dir := mm.Dir

	parfp := filepath.Join(dir, "aq.par")
	require.NoError(t, os.WriteFile(parfp, []byte(
		"aquifer_2_1_1__1__0  -6.0000000000E+02\n"), 0644))
	soilparfp := filepath.Join(dir, "soil.par")
	require.NoError(t, os.WriteFile(soilparfp, []byte(
		"cap_sol_progr__1     2.0000000000E+00\n"), 0644)) // log10 space

	cfgfp := filepath.Join(dir, "mona.config")
	require.NoError(t, os.WriteFile(cfgfp, []byte(`[START_HEADER]
name= mona
[END_HEADER]
[START_PARAM]
parname= aq
prop= aqpump
keys= boundname,layer,istep
parfile= `+parfp+`
trans= none
btrans= none
[END_PARAM]
[START_PARAM]
parname= soil
prop= soil
keys= soilprop,zone
parfile= `+soilparfp+`
trans= log10
btrans= log10
[END_PARAM]
[START_OBS]
locnme= P1
datatype= head
[END_OBS]
`), 0644))

	mm2, cfg, err := FromConfig(mm.Files["rma"], cfgfp)
	require.NoError(t, err)
	require.Len(t, cfg.Params, 2)
	require.Len(t, cfg.Obs, 1)
	assert.Equal(t, "P1", cfg.Obs[0].Locnme)

	// values landed in the model files
	mp := mm2.Prop["aqpump"].(*Pump)
	assert.Equal(t, -600., mp.Recs[0].V)
	s := mm2.Prop["soil"].(*Soil)
	assert.InDelta(t, 100., s.GetData("cap_sol_progr", 1)[0].V, 1e-9) // 10^2

	mm3, err := Load(mm.Files["rma"])
	require.NoError(t, err)
	require.NoError(t, mm3.LoadProp("aqpump"))
	assert.Equal(t, -600., mm3.Prop["aqpump"].(*Pump).Recs[0].V)
}

func TestApplyConfigUnmatched(t *testing.T) {
	mm := testModel(t)
	dir := mm.Dir
	parfp := filepath.Join(dir, "aq.par")
	require.NoError(t, os.WriteFile(parfp, []byte("nomatch__9__9  1.0E+00\n"), 0644))
	cfgfp := filepath.Join(dir, "mona.config")
	require.NoError(t, os.WriteFile(cfgfp, []byte(`[START_PARAM]
parname= aq
prop= aqpump
keys= boundname,layer,istep
parfile= `+parfp+`
btrans= none
[END_PARAM]
`), 0644))
	_, _, err := FromConfig(mm.Files["rma"], cfgfp)
	assert.Error(t, err)
}
