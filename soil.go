package marthe

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/maseology/mmio"
)

// soil property keywords recognized in /PROP/ZONE_SOL lines
var soilprops = []string{"cap_sol_progr", "aqui_ruis_perc", "t_demi_percol", "ru_max", "defic_sol"}

// SoilRecord is one zone-valued soil property. line indexes the record's
// source line in the .mart file.
type SoilRecord struct {
	Prop string
	Zone int
	V    float64
	line int
}

// Soil handles the zone-based soil properties of the unsaturated-zone scheme.
type Soil struct {
	mm    *Model
	fp    string
	lines []string
	Recs  []SoilRecord
}

var rezone = regexp.MustCompile(`Z=\s*(\d+)\s*V=\s*([^;]+);`)

func loadSoil(mm *Model) (*Soil, error) {
	fp, ok := mm.Files["mart"]
	if !ok {
		return nil, fmt.Errorf("loadSoil: model has no .mart file")
	}
	if _, ok := mmio.FileExists(fp); !ok {
		return nil, fmt.Errorf("loadSoil: file not found: %s", fp)
	}
	lns, err := mmio.ReadTextLines(fp)
	if err != nil {
		return nil, fmt.Errorf("loadSoil %s: %v", fp, err)
	}
	s := &Soil{mm: mm, fp: fp, lines: lns}
	for i, ln := range s.lines {
		if !strings.Contains(ln, "ZONE_SOL") {
			continue
		}
		low := strings.ToLower(ln)
		prop := ""
		for _, p := range soilprops {
			if strings.Contains(low, p) {
				prop = p
				break
			}
		}
		if prop == "" {
			continue
		}
		m := rezone.FindStringSubmatch(ln)
		if m == nil {
			return nil, fmt.Errorf("loadSoil: malformed zone line %d: %s", i+1, strings.TrimSpace(ln))
		}
		z, _ := strconv.Atoi(m[1])
		v, err := strconv.ParseFloat(strings.TrimSpace(m[2]), 64)
		if err != nil {
			return nil, fmt.Errorf("loadSoil: line %d: %v", i+1, err)
		}
		s.Recs = append(s.Recs, SoilRecord{Prop: prop, Zone: z, V: v, line: i})
	}
	if len(s.Recs) == 0 {
		return nil, fmt.Errorf("loadSoil: no soil zone properties found in %s", fp)
	}
	return s, nil
}

// Zones lists distinct soil zone ids in file order.
func (s *Soil) Zones() []int {
	seen, o := map[int]bool{}, []int{}
	for _, r := range s.Recs {
		if !seen[r.Zone] {
			seen[r.Zone] = true
			o = append(o, r.Zone)
		}
	}
	return o
}

// GetData returns records for a property ("" for all), zone<0 for all zones.
func (s *Soil) GetData(prop string, zone int) []SoilRecord {
	o := []SoilRecord{}
	for _, r := range s.Recs {
		if prop != "" && r.Prop != prop {
			continue
		}
		if zone >= 0 && r.Zone != zone {
			continue
		}
		o = append(o, r)
	}
	return o
}

// SetData assigns v to every record matching prop and zone (zone<0 for all
// zones); returns the number of records touched.
func (s *Soil) SetData(v float64, prop string, zone int) int {
	n := 0
	for i, r := range s.Recs {
		if r.Prop != prop {
			continue
		}
		if zone >= 0 && r.Zone != zone {
			continue
		}
		s.Recs[i].V = v
		n++
	}
	return n
}

// WriteData substitutes current values back into the .mart file in place.
func (s *Soil) WriteData() error {
	a := make([]string, len(s.lines))
	copy(a, s.lines)
	for _, r := range s.Recs {
		ln := a[r.line]
		iv, ic := strings.Index(ln, "V="), strings.Index(ln, ";")
		if iv < 0 || ic < iv {
			return fmt.Errorf("Soil.WriteData: malformed line %d: %s", r.line+1, strings.TrimSpace(ln))
		}
		a[r.line] = ln[:iv] + fmt.Sprintf("V=%10s", strconv.FormatFloat(r.V, 'g', -1, 64)) + ln[ic:]
	}
	if err := os.WriteFile(s.fp, []byte(strings.Join(a, "\n")+"\n"), 0644); err != nil {
		return fmt.Errorf("Soil.WriteData: %v", err)
	}
	s.lines = a
	return nil
}

// keyval returns a record's parameter-key value for a given key name.
func (r *SoilRecord) keyval(key string) (string, error) {
	switch key {
	case "soilprop":
		return r.Prop, nil
	case "zone":
		return strconv.Itoa(r.Zone), nil
	default:
		return "", fmt.Errorf("soil: unsupported parameter key '%s'", key)
	}
}

// SetKeyed assigns values keyed by '__'-joined key tuples; returns the number
// of records touched.
func (s *Soil) SetKeyed(keys []string, vals map[string]float64) (int, error) {
	n := 0
	for i := range s.Recs {
		parts := make([]string, len(keys))
		for k, key := range keys {
			sv, err := s.Recs[i].keyval(key)
			if err != nil {
				return n, err
			}
			parts[k] = sv
		}
		if v, ok := vals[strings.Join(parts, "__")]; ok {
			s.Recs[i].V = v
			n++
		}
	}
	return n, nil
}
