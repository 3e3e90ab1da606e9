package pproc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(y, m, dd int) time.Time { return time.Date(y, time.Month(m), dd, 0, 0, 0, 0, time.UTC) }

func TestInterpolate(t *testing.T) {
	dt := []time.Time{d(2020, 1, 1), d(2020, 1, 11), d(2020, 1, 21)}
	v := []float64{0., 10., 30.}

	o, err := Interpolate(dt, v, []time.Time{
		d(2020, 1, 1),  // on a node
		d(2020, 1, 6),  // halfway
		d(2020, 1, 16), // halfway on the second leg
		d(2020, 1, 21),
		d(2019, 12, 31), // before range
		d(2020, 2, 1),   // after range
	})
	require.NoError(t, err)
	assert.InDelta(t, 0., o[0], 1e-9)
	assert.InDelta(t, 5., o[1], 1e-9)
	assert.InDelta(t, 20., o[2], 1e-9)
	assert.InDelta(t, 30., o[3], 1e-9)
	assert.Equal(t, -9999., o[4])
	assert.Equal(t, -9999., o[5])
}

func TestInterpolateErrors(t *testing.T) {
	_, err := Interpolate([]time.Time{d(2020, 1, 1)}, []float64{1., 2.}, nil)
	assert.Error(t, err)
	_, err = Interpolate(nil, nil, nil)
	assert.Error(t, err)
	_, err = Interpolate([]time.Time{d(2020, 1, 2), d(2020, 1, 1)}, []float64{1., 2.}, nil)
	assert.Error(t, err)
}

func TestAlign(t *testing.T) {
	odt := []time.Time{d(2020, 1, 6), d(2020, 1, 11), d(2020, 1, 16), d(2020, 3, 1)}
	obs := []float64{5.2, -9999., 19.7, 40.}
	sdt := []time.Time{d(2020, 1, 1), d(2020, 1, 11), d(2020, 1, 21)}
	sim := []float64{0., 10., 30.}

	dt, o, s, err := Align(odt, obs, sdt, sim)
	require.NoError(t, err)
	// nodata obs and out-of-range date dropped
	require.Len(t, dt, 2)
	assert.Equal(t, []float64{5.2, 19.7}, o)
	assert.InDelta(t, 5., s[0], 1e-9)
	assert.InDelta(t, 20., s[1], 1e-9)

	_, _, _, err = Align(odt[3:], obs[3:], sdt, sim)
	assert.Error(t, err) // no overlap
}
