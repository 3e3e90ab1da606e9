// Package pproc post-processes forward-run output: aligning simulated records
// to observation dates, scoring fit and exporting monitoring wells.
package pproc

import (
	"fmt"
	"time"
)

// Interpolate linearly samples the series (dt,v) at the dates in at. Dates
// outside the series range return the nodata sentinel -9999.
func Interpolate(dt []time.Time, v []float64, at []time.Time) ([]float64, error) {
	if len(dt) != len(v) {
		return nil, fmt.Errorf("Interpolate: %d dates for %d values", len(dt), len(v))
	}
	if len(dt) == 0 {
		return nil, fmt.Errorf("Interpolate: empty series")
	}
	for i := 1; i < len(dt); i++ {
		if !dt[i].After(dt[i-1]) {
			return nil, fmt.Errorf("Interpolate: dates not strictly increasing at %s", dt[i].Format("2006-01-02"))
		}
	}
	o := make([]float64, len(at))
	for i, t := range at {
		o[i] = -9999.
		if t.Before(dt[0]) || t.After(dt[len(dt)-1]) {
			continue
		}
		for j := 1; j < len(dt); j++ {
			if t.After(dt[j]) {
				continue
			}
			if t.Equal(dt[j]) {
				o[i] = v[j]
				break
			}
			if t.Equal(dt[j-1]) {
				o[i] = v[j-1]
				break
			}
			f := t.Sub(dt[j-1]).Seconds() / dt[j].Sub(dt[j-1]).Seconds()
			o[i] = v[j-1] + f*(v[j]-v[j-1])
			break
		}
	}
	return o, nil
}

// Align pairs an observed and a simulated series on the observation dates,
// dropping pairs where either side carries a nodata sentinel.
func Align(odt []time.Time, obs []float64, sdt []time.Time, sim []float64) (dt []time.Time, o, s []float64, err error) {
	si, err := Interpolate(sdt, sim, odt)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("Align: %v", err)
	}
	for i, t := range odt {
		if obs[i] < -8887. || si[i] < -8887. {
			continue
		}
		dt = append(dt, t)
		o = append(o, obs[i])
		s = append(s, si[i])
	}
	if len(dt) == 0 {
		return nil, nil, nil, fmt.Errorf("Align: no overlapping valid observations")
	}
	return dt, o, s, nil
}
