package marthe

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/maseology/mmio"
)

// Prn holds the simulated series exported by MARTHE (historiq.prn): one
// column of values per observation point, one row per output date.
type Prn struct {
	Locs  []string
	Dates []time.Time
	V     map[string][]float64
}

// ReadPrn parses a historiq.prn file: three free header lines, a tab-separated
// header row ("Date" then location ids), then dd/mm/yyyy rows of values.
func ReadPrn(fp string) (*Prn, error) {
	a, err := mmio.ReadTextLines(fp)
	if err != nil {
		return nil, fmt.Errorf("ReadPrn %s: %v", fp, err)
	}
	if len(a) < 5 {
		return nil, fmt.Errorf("ReadPrn %s: truncated file", fp)
	}
	hdr := strings.Split(a[3], "\t")
	if len(hdr) < 2 {
		return nil, fmt.Errorf("ReadPrn %s: no location column", fp)
	}
	p := &Prn{V: map[string][]float64{}}
	for _, h := range hdr[1:] {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		p.Locs = append(p.Locs, h)
		p.V[h] = []float64{}
	}
	for _, ln := range a[4:] {
		f := strings.Split(ln, "\t")
		if len(f) < len(p.Locs)+1 {
			continue // trailing summary lines
		}
		t, err := time.Parse("02/01/2006", strings.TrimSpace(f[0]))
		if err != nil {
			continue
		}
		p.Dates = append(p.Dates, t)
		for i, loc := range p.Locs {
			v, err := strconv.ParseFloat(strings.TrimSpace(f[i+1]), 64)
			if err != nil {
				v = nodata
			}
			p.V[loc] = append(p.V[loc], v)
		}
	}
	if len(p.Dates) == 0 {
		return nil, fmt.Errorf("ReadPrn %s: no dated row found", fp)
	}
	return p, nil
}

// Fluct returns the series of loc less its mean (no-data excluded).
func (p *Prn) Fluct(loc string) ([]float64, error) {
	v, ok := p.V[loc]
	if !ok {
		return nil, fmt.Errorf("Prn.Fluct: unknown location '%s'", loc)
	}
	s, n := 0., 0
	for _, x := range v {
		if x == nodata || x == nodata2 {
			continue
		}
		s += x
		n++
	}
	if n == 0 {
		return nil, fmt.Errorf("Prn.Fluct: location '%s' holds no data", loc)
	}
	mu := s / float64(n)
	o := make([]float64, len(v))
	for i, x := range v {
		if x == nodata || x == nodata2 {
			o[i] = x
		} else {
			o[i] = x - mu
		}
	}
	return o, nil
}

// ExtractPrn writes per-location two-column (date, value) .dat files to
// outdir; fluc also writes the mean-removed series as <loc>_fluct.dat. Dates
// are written ISO so the files read back as observation files.
func ExtractPrn(prnfp, outdir string, locs []string, fluc bool) error {
	p, err := ReadPrn(prnfp)
	if err != nil {
		return fmt.Errorf("ExtractPrn: %v", err)
	}
	if locs == nil {
		locs = p.Locs
	}
	mmio.MakeDir(outdir)
	wrt := func(fp string, v []float64) error {
		sb := strings.Builder{}
		sb.WriteString("date\tvalue\n")
		for i, t := range p.Dates {
			sb.WriteString(fmt.Sprintf("%s\t%.6f\n", t.Format("2006-01-02"), v[i]))
		}
		return os.WriteFile(fp, []byte(sb.String()), 0644)
	}
	for _, loc := range locs {
		v, ok := p.V[loc]
		if !ok {
			return fmt.Errorf("ExtractPrn: location '%s' not in %s", loc, prnfp)
		}
		if err := wrt(filepath.Join(outdir, loc+"_abs.dat"), v); err != nil {
			return fmt.Errorf("ExtractPrn: %v", err)
		}
		if fluc {
			fv, err := p.Fluct(loc)
			if err != nil {
				return fmt.Errorf("ExtractPrn: %v", err)
			}
			if err := wrt(filepath.Join(outdir, loc+"_fluct.dat"), fv); err != nil {
				return fmt.Errorf("ExtractPrn: %v", err)
			}
		}
	}
	return nil
}

// Minmax reports the value range of one simulated series, no-data excluded.
func (p *Prn) Minmax(loc string) (float64, float64, error) {
	v, ok := p.V[loc]
	if !ok {
		return 0, 0, fmt.Errorf("Prn.Minmax: unknown location '%s'", loc)
	}
	mn, mx := math.MaxFloat64, -math.MaxFloat64
	for _, x := range v {
		if x == nodata || x == nodata2 {
			continue
		}
		if x < mn {
			mn = x
		}
		if x > mx {
			mx = x
		}
	}
	return mn, mx, nil
}
