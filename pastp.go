package marthe

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/maseology/mmio"
)

// Pastp holds the raw .pastp file split by timestep. Blocks[i] holds the lines
// of timestep i (bounded by its opening and closing markers); Dates[i] is the
// end date of timestep i.
type Pastp struct {
	fp     string
	Lines  []string
	Blocks [][]string
	Dates  []time.Time
	Start  time.Time
}

var redate = regexp.MustCompile(`(\d{2}/\d{2}/\d{4})`)

// readPastp splits the .pastp content on its timestep markers. The opening
// marker ("*** Début de la simulation à la date : dd/mm/yyyy") dates the start
// of the simulation; every "*** Le pas n: se termine à la date : dd/mm/yyyy"
// marker closes one timestep block.
func readPastp(fp string) (*Pastp, error) {
	if _, ok := mmio.FileExists(fp); !ok {
		return nil, fmt.Errorf("readPastp: file not found: %s", fp)
	}
	lns, err := mmio.ReadTextLines(fp)
	if err != nil {
		return nil, fmt.Errorf("readPastp %s: %v", fp, err)
	}
	p := &Pastp{fp: fp, Lines: lns}
	started := false
	cur := []string{}
	markerDate := func(ln string) (time.Time, error) {
		m := redate.FindStringSubmatch(ln)
		if m == nil {
			return time.Time{}, fmt.Errorf("readPastp %s: undated timestep marker: %s", fp, strings.TrimSpace(ln))
		}
		return time.Parse("02/01/2006", m[1])
	}
	for _, ln := range p.Lines {
		switch {
		case strings.Contains(ln, "***") && strings.Contains(ln, "but de la simulation"): // Début
			t, err := markerDate(ln)
			if err != nil {
				return nil, err
			}
			p.Start, started, cur = t, true, []string{}
		case strings.Contains(ln, "***") && strings.Contains(ln, "Le pas"):
			t, err := markerDate(ln)
			if err != nil {
				return nil, err
			}
			p.Blocks = append(p.Blocks, cur)
			p.Dates = append(p.Dates, t)
			cur = []string{}
		case started:
			cur = append(cur, ln)
		}
	}
	if len(p.Dates) == 0 {
		return nil, fmt.Errorf("readPastp %s: no timestep marker found", fp)
	}
	return p, nil
}

// Nstep is the number of simulated timesteps.
func (p *Pastp) Nstep() int { return len(p.Dates) }
