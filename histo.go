package marthe

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/maseology/mmio"
)

// Well is one observation point declared in the .histo file.
type Well struct {
	ID, Label string
	X, Y      float64
	Layer     int
}

// ReadHisto parses the .histo observation-point file. Data lines carry
// "X= .. Y= .. P= ..;" followed by the point id and an optional free label.
// Order is preserved (it matches the column order of historiq.prn).
func ReadHisto(fp string) ([]Well, error) {
	if _, ok := mmio.FileExists(fp); !ok {
		return nil, fmt.Errorf("ReadHisto: file not found: %s", fp)
	}
	ws := []Well{}
	lns, err := mmio.ReadTextLines(fp)
	if err != nil {
		return nil, fmt.Errorf("ReadHisto %s: %v", fp, err)
	}
	for _, ln := range lns {
		s := strings.TrimSpace(ln)
		if len(s) == 0 || s[0] != '/' {
			continue
		}
		xp, yp, pp := strings.Index(ln, "X="), strings.Index(ln, "Y="), strings.Index(ln, "P=")
		if xp < 0 || yp < 0 || pp < 0 || xp >= yp || yp >= pp {
			continue
		}
		sc := strings.Index(ln[pp:], ";")
		if sc < 0 {
			continue
		}
		sc += pp
		x, err := strconv.ParseFloat(strings.TrimSpace(ln[xp+2:yp]), 64)
		if err != nil {
			return nil, fmt.Errorf("ReadHisto %s: bad X: %v", fp, err)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(ln[yp+2:pp]), 64)
		if err != nil {
			return nil, fmt.Errorf("ReadHisto %s: bad Y: %v", fp, err)
		}
		p, err := strconv.Atoi(strings.TrimSpace(ln[pp+2 : sc]))
		if err != nil {
			return nil, fmt.Errorf("ReadHisto %s: bad P: %v", fp, err)
		}
		id := strings.Fields(ln[sc+1:])
		if len(id) == 0 {
			return nil, fmt.Errorf("ReadHisto %s: unnamed observation point", fp)
		}
		ws = append(ws, Well{
			ID:    id[0],
			Label: strings.Join(id[1:], " "),
			X:     x,
			Y:     y,
			Layer: p,
		})
	}
	if len(ws) == 0 {
		return nil, fmt.Errorf("ReadHisto %s: no observation point found", fp)
	}
	return ws, nil
}

// Wells reads the model's .histo registry.
func (mm *Model) Wells() ([]Well, error) {
	fp, ok := mm.Files["histo"]
	if !ok {
		return nil, fmt.Errorf("Model.Wells: model has no .histo file")
	}
	return ReadHisto(fp)
}
