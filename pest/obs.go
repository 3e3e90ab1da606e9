package pest

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/maseology/mmio"
)

// Obs holds the observation record of one monitoring location.
type Obs struct {
	Locnme   string
	Datatype string
	Obsnmes  []string
	Dates    []time.Time
	Values   []float64
	Weights  []float64
	Sigma    float64 // measurement error standard deviation
	Lambda   float64 // tuning factor in the weight balance
}

// ReadObsFile reads a whitespace-delimited observation file: one header line
// then "date value [weight]" rows, ISO dates. Rows carrying the nodata
// sentinel are dropped.
func ReadObsFile(fp, locnme string) (*Obs, error) {
	if _, ok := mmio.FileExists(fp); !ok {
		return nil, fmt.Errorf("ReadObsFile: file not found: %s", fp)
	}
	a, err := mmio.ReadTextLines(fp)
	if err != nil {
		return nil, fmt.Errorf("ReadObsFile %s: %v", fp, err)
	}
	if len(a) < 2 {
		return nil, fmt.Errorf("ReadObsFile %s: no data rows", fp)
	}
	o := &Obs{Locnme: locnme, Datatype: "head", Sigma: 1., Lambda: 1.}
	for i, ln := range a[1:] {
		f := strings.Fields(ln)
		if len(f) == 0 {
			continue
		}
		if len(f) < 2 {
			return nil, fmt.Errorf("ReadObsFile %s row %d: need 'date value'", fp, i+2)
		}
		t, err := time.Parse("2006-01-02", f[0])
		if err != nil {
			return nil, fmt.Errorf("ReadObsFile %s row %d: %v", fp, i+2, err)
		}
		v, err := atof(f[1])
		if err != nil {
			return nil, fmt.Errorf("ReadObsFile %s row %d: %v", fp, i+2, err)
		}
		if v < -9998. { // nodata sentinels
			continue
		}
		w := 1.
		if len(f) > 2 {
			if w, err = atof(f[2]); err != nil {
				return nil, fmt.Errorf("ReadObsFile %s row %d: %v", fp, i+2, err)
			}
		}
		o.Dates = append(o.Dates, t)
		o.Values = append(o.Values, v)
		o.Weights = append(o.Weights, w)
	}
	if len(o.Dates) == 0 {
		return nil, fmt.Errorf("ReadObsFile %s: no valid observations", fp)
	}
	o.Obsnmes = make([]string, len(o.Dates))
	for i := range o.Obsnmes {
		o.Obsnmes[i] = obsName(strings.ToLower(locnme), i+1)
	}
	return o, nil
}

// Nobs is the number of observations at this location.
func (o *Obs) Nobs() int { return len(o.Dates) }

// Fluc returns a new Obs holding the record's fluctuations about its mean,
// location suffixed so the two records coexist.
func (o *Obs) Fluc(suffix string) *Obs {
	if suffix == "" {
		suffix = "_fluc"
	}
	s, n := 0., 0
	for _, v := range o.Values {
		s += v
		n++
	}
	mean := s / float64(n)
	f := &Obs{
		Locnme:   o.Locnme + suffix,
		Datatype: o.Datatype + suffix,
		Dates:    append([]time.Time{}, o.Dates...),
		Values:   make([]float64, len(o.Values)),
		Weights:  append([]float64{}, o.Weights...),
		Sigma:    o.Sigma,
		Lambda:   o.Lambda,
	}
	for i, v := range o.Values {
		f.Values[i] = v - mean
	}
	f.Obsnmes = make([]string, len(f.Dates))
	for i := range f.Obsnmes {
		f.Obsnmes[i] = obsName(strings.ToLower(f.Locnme), i+1)
	}
	return f
}

// InsName returns the conventional instruction file name.
func (o *Obs) InsName() string { return o.Locnme + ".ins" }

// WriteIns writes the PEST instruction file reading this location's extracted
// simulated record.
func (o *Obs) WriteIns(fp string) error {
	sb := strings.Builder{}
	sb.WriteString("pif #\n")
	sb.WriteString("l1\n") // header line of the record file
	for _, nm := range o.Obsnmes {
		sb.WriteString(fmt.Sprintf("l1 (%s)%d:%d\n", nm, valStart, valEnd))
	}
	if err := os.WriteFile(fp, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("WriteIns %s: %v", o.Locnme, err)
	}
	return nil
}
