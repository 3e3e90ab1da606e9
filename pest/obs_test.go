package pest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tobs = `date	value
2020-01-31	10.5
2020-02-29	-9999.000000
2020-03-31	12.5
2020-04-30	11.5
`

func testObsFile(t *testing.T) string {
	fp := filepath.Join(t.TempDir(), "P1.dat")
	require.NoError(t, os.WriteFile(fp, []byte(tobs), 0644))
	return fp
}

func TestReadObsFile(t *testing.T) {
	ob, err := ReadObsFile(testObsFile(t), "P1")
	require.NoError(t, err)
	assert.Equal(t, "P1", ob.Locnme)
	assert.Equal(t, "head", ob.Datatype)
	assert.Equal(t, 3, ob.Nobs()) // nodata row dropped
	assert.Equal(t, []float64{10.5, 12.5, 11.5}, ob.Values)
	assert.Equal(t, "p1n0001", ob.Obsnmes[0])
	assert.Equal(t, "p1n0003", ob.Obsnmes[2])

	_, err = ReadObsFile(filepath.Join(t.TempDir(), "none.dat"), "x")
	assert.Error(t, err)
}

func TestObsFluc(t *testing.T) {
	ob, err := ReadObsFile(testObsFile(t), "P1")
	require.NoError(t, err)
	f := ob.Fluc("")
	assert.Equal(t, "P1_fluc", f.Locnme)
	assert.Equal(t, "head_fluc", f.Datatype)
	require.Equal(t, 3, f.Nobs())
	mean := (10.5 + 12.5 + 11.5) / 3.
	assert.InDelta(t, 10.5-mean, f.Values[0], 1e-9)
	assert.InDelta(t, 12.5-mean, f.Values[1], 1e-9)
	assert.Equal(t, "p1_flucn0001", f.Obsnmes[0])
}

func TestWriteIns(t *testing.T) {
	ob, err := ReadObsFile(testObsFile(t), "P1")
	require.NoError(t, err)
	fp := filepath.Join(t.TempDir(), ob.InsName())
	require.NoError(t, ob.WriteIns(fp))
	b, err := os.ReadFile(fp)
	require.NoError(t, err)
	lns := strings.Split(strings.TrimRight(string(b), "\n"), "\n")
	require.Len(t, lns, 5)
	assert.Equal(t, "pif #", lns[0])
	assert.Equal(t, "l1", lns[1])
	assert.Equal(t, "l1 (p1n0001)12:21", lns[2])
	assert.Equal(t, "l1 (p1n0003)12:21", lns[4])
}
