package marthe

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/maseology/mmio"
)

// PumpMode selects which withdrawals a Pump handles.
type PumpMode int

const (
	ModeAquifer PumpMode = iota
	ModeRiver
)

func (m PumpMode) keyword() string {
	if m == ModeRiver {
		return "/DEBIT_RIVI/"
	}
	return "/DEBIT/"
}

func (m PumpMode) String() string {
	if m == ModeRiver {
		return "river"
	}
	return "aquifer"
}

// PumpRecord is one pumping condition: value v at cell (c,l,p) during one
// timestep. Qtype is 'mail' (inline value), 'record' (value read from a
// per-step column file) or 'listm' (row of an external cell-list file).
type PumpRecord struct {
	Boundname string
	Qtype     string
	Qfilename string
	V         float64
	Istep     int
	C, L, P   int // one-based column, line, layer as in the .pastp file
}

// Pump handles the pumping conditions of one mode, parsed out of the model's
// .pastp timestep blocks.
type Pump struct {
	mm   *Model
	p    *Pastp
	Mode PumpMode
	Recs []PumpRecord
}

var (
	remail = regexp.MustCompile(`C=\s*(\d+)\s*L=\s*(\d+)\s*P=\s*(\d+)\s*V=\s*([^;]+);`)
	relist = regexp.MustCompile(`LIST_MAIL\s*N:\s*(\S+)`)
)

func loadPump(mm *Model, pastpfp string, mode PumpMode) (*Pump, error) {
	p := mm.Pastp
	if pastpfp != "" {
		var err error
		if p, err = readPastp(pastpfp); err != nil {
			return nil, fmt.Errorf("loadPump: %v", err)
		}
	}
	if p == nil {
		return nil, fmt.Errorf("loadPump: model has no .pastp file")
	}
	mp := &Pump{mm: mm, p: p, Mode: mode}
	for istep, blk := range p.Blocks {
		for _, ln := range blk {
			if !strings.Contains(ln, mode.keyword()) {
				continue
			}
			switch {
			case strings.Contains(ln, "MAILLE"):
				m := remail.FindStringSubmatch(ln)
				if m == nil {
					return nil, fmt.Errorf("loadPump: malformed cell condition (step %d): %s", istep, strings.TrimSpace(ln))
				}
				c, _ := strconv.Atoi(m[1])
				l, _ := strconv.Atoi(m[2])
				pl, _ := strconv.Atoi(m[3])
				vs := strings.TrimSpace(m[4])
				if v, err := strconv.ParseFloat(vs, 64); err == nil {
					mp.Recs = append(mp.Recs, PumpRecord{
						Boundname: fmt.Sprintf("%s_%d_%d_%d", mode, c, l, pl),
						Qtype:     "mail",
						V:         v, Istep: istep, C: c, L: l, P: pl,
					})
				} else { // V= names a per-step record file
					qfp := mp.resolve(vs)
					v, err := readRecordValue(qfp, istep)
					if err != nil {
						return nil, fmt.Errorf("loadPump: %v", err)
					}
					mp.Recs = append(mp.Recs, PumpRecord{
						Boundname: strings.TrimSuffix(filepath.Base(qfp), filepath.Ext(qfp)),
						Qtype:     "record",
						Qfilename: qfp,
						V:         v, Istep: istep, C: c, L: l, P: pl,
					})
				}
			case strings.Contains(ln, "LIST_MAIL"):
				m := relist.FindStringSubmatch(ln)
				if m == nil {
					return nil, fmt.Errorf("loadPump: malformed cell-list condition (step %d): %s", istep, strings.TrimSpace(ln))
				}
				qfp := mp.resolve(m[1])
				rs, err := readListm(qfp, istep)
				if err != nil {
					return nil, fmt.Errorf("loadPump: %v", err)
				}
				mp.Recs = append(mp.Recs, rs...)
			}
		}
	}
	return mp, nil
}

func (mp *Pump) resolve(fp string) string {
	if filepath.IsAbs(fp) || mp.mm == nil {
		return fp
	}
	return filepath.Join(mp.mm.Dir, fp)
}

// readRecordValue reads row istep of a single-column record file (header is
// the boundname).
func readRecordValue(fp string, istep int) (float64, error) {
	a, err := mmio.ReadTextLines(fp)
	if err != nil {
		return 0, fmt.Errorf("record file %s: %v", fp, err)
	}
	if len(a) < istep+2 {
		return 0, fmt.Errorf("record file %s: no row for step %d", fp, istep)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(a[istep+1]), 64)
	if err != nil {
		return 0, fmt.Errorf("record file %s row %d: %v", fp, istep+1, err)
	}
	return v, nil
}

// readListm reads an external cell-list file: one "v c l p" row per cell.
func readListm(fp string, istep int) ([]PumpRecord, error) {
	a, err := mmio.ReadTextLines(fp)
	if err != nil {
		return nil, fmt.Errorf("readListm %s: %v", fp, err)
	}
	bn := strings.TrimSuffix(filepath.Base(fp), filepath.Ext(fp))
	rs := []PumpRecord{}
	for i, ln := range a {
		f := strings.Fields(ln)
		if len(f) == 0 {
			continue
		}
		if len(f) < 4 {
			return nil, fmt.Errorf("listm file %s row %d: need 'v c l p'", fp, i+1)
		}
		v, err := strconv.ParseFloat(f[0], 64)
		if err != nil {
			return nil, fmt.Errorf("listm file %s row %d: %v", fp, i+1, err)
		}
		c, _ := strconv.Atoi(f[1])
		l, _ := strconv.Atoi(f[2])
		p, _ := strconv.Atoi(f[3])
		rs = append(rs, PumpRecord{
			Boundname: bn,
			Qtype:     "listm",
			Qfilename: fp,
			V:         v, Istep: istep, C: c, L: l, P: p,
		})
	}
	return rs, nil
}

// GetData returns pumping records, all steps when istep<0.
func (mp *Pump) GetData(istep int) []PumpRecord {
	if istep < 0 {
		return mp.Recs
	}
	o := []PumpRecord{}
	for _, r := range mp.Recs {
		if r.Istep == istep {
			o = append(o, r)
		}
	}
	return o
}

// Boundnames lists distinct boundnames in file order.
func (mp *Pump) Boundnames() []string {
	seen, o := map[string]bool{}, []string{}
	for _, r := range mp.Recs {
		if !seen[r.Boundname] {
			seen[r.Boundname] = true
			o = append(o, r.Boundname)
		}
	}
	return o
}

// SwitchBoundnames renames boundnames in place.
func (mp *Pump) SwitchBoundnames(sw map[string]string) {
	for i, r := range mp.Recs {
		if nn, ok := sw[r.Boundname]; ok {
			mp.Recs[i].Boundname = nn
		}
	}
}

// SetData assigns value v to every record matching boundname (and istep when
// istep>=0). Returns the number of records touched.
func (mp *Pump) SetData(v float64, boundname string, istep int) int {
	n := 0
	for i, r := range mp.Recs {
		if r.Boundname != boundname {
			continue
		}
		if istep >= 0 && r.Istep != istep {
			continue
		}
		mp.Recs[i].V = v
		n++
	}
	return n
}

// WriteData writes pumping data back in place: inline values substituted in
// the .pastp file, record and listm files regenerated.
func (mp *Pump) WriteData() error {
	// inline 'mail' values
	mail := map[string]float64{}
	for _, r := range mp.Recs {
		if r.Qtype == "mail" {
			mail[fmt.Sprintf("%d_%d_%d_%d", r.Istep, r.C, r.L, r.P)] = r.V
		}
	}
	if len(mail) > 0 {
		istep := -1
		a := make([]string, len(mp.p.Lines))
		copy(a, mp.p.Lines)
		for i, ln := range a {
			if strings.Contains(ln, "***") && strings.Contains(ln, "but de la simulation") {
				istep = 0
				continue
			}
			if strings.Contains(ln, "***") && strings.Contains(ln, "Le pas") {
				istep++
				continue
			}
			if istep < 0 || !strings.Contains(ln, mp.Mode.keyword()) || !strings.Contains(ln, "MAILLE") {
				continue
			}
			m := remail.FindStringSubmatch(ln)
			if m == nil {
				continue
			}
			v, ok := mail[fmt.Sprintf("%d_%s_%s_%s", istep, m[1], m[2], m[3])]
			if !ok {
				continue
			}
			iv := strings.Index(ln, "V=")
			if iv < 0 {
				continue
			}
			ic := strings.Index(ln[iv:], ";")
			if ic < 0 {
				continue
			}
			a[i] = ln[:iv] + fmt.Sprintf("V=%10s", strconv.FormatFloat(v, 'g', -1, 64)) + ln[iv+ic:]
		}
		if err := os.WriteFile(mp.p.fp, []byte(strings.Join(a, "\n")+"\n"), 0644); err != nil {
			return fmt.Errorf("Pump.WriteData: %v", err)
		}
		mp.p.Lines = a
	}

	// external record files: header + one value per step
	recfps := map[string][]PumpRecord{}
	for _, r := range mp.Recs {
		if r.Qtype == "record" {
			recfps[r.Qfilename] = append(recfps[r.Qfilename], r)
		}
	}
	for fp, rs := range recfps {
		sb := strings.Builder{}
		sb.WriteString(rs[0].Boundname + "\n")
		for _, r := range rs { // loaded in step order
			sb.WriteString(strconv.FormatFloat(r.V, 'g', -1, 64) + "\n")
		}
		if err := os.WriteFile(fp, []byte(sb.String()), 0644); err != nil {
			return fmt.Errorf("Pump.WriteData: %v", err)
		}
	}

	// external cell-list files: v c l p rows
	lstfps := map[string][]PumpRecord{}
	for _, r := range mp.Recs {
		if r.Qtype == "listm" {
			lstfps[r.Qfilename] = append(lstfps[r.Qfilename], r)
		}
	}
	for fp, rs := range lstfps {
		sb := strings.Builder{}
		for _, r := range rs {
			sb.WriteString(fmt.Sprintf("%s\t%d\t%d\t%d\n", strconv.FormatFloat(r.V, 'g', -1, 64), r.C, r.L, r.P))
		}
		if err := os.WriteFile(fp, []byte(sb.String()), 0644); err != nil {
			return fmt.Errorf("Pump.WriteData: %v", err)
		}
	}
	return nil
}

// keyval returns a record's parameter-key value for a given key name.
func (r *PumpRecord) keyval(key string) (string, error) {
	switch key {
	case "boundname":
		return r.Boundname, nil
	case "layer":
		return strconv.Itoa(r.P), nil
	case "istep":
		return strconv.Itoa(r.Istep), nil
	default:
		return "", fmt.Errorf("pump: unsupported parameter key '%s'", key)
	}
}

// SetKeyed assigns values keyed by '__'-joined key tuples (the PEST parameter
// naming); returns the number of records touched.
func (mp *Pump) SetKeyed(keys []string, vals map[string]float64) (int, error) {
	n := 0
	for i := range mp.Recs {
		parts := make([]string, len(keys))
		for k, key := range keys {
			s, err := mp.Recs[i].keyval(key)
			if err != nil {
				return n, err
			}
			parts[k] = s
		}
		if v, ok := vals[strings.Join(parts, "__")]; ok {
			mp.Recs[i].V = v
			n++
		}
	}
	return n, nil
}
