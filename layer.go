package marthe

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/maseology/mmio"
)

// LayerInfo describes one model layer as declared in the .layer file.
type LayerInfo struct {
	Name      string
	Layer     int // zero-based
	Thickness float64
	Epon      bool // superior hanging wall
}

var (
	relayn = regexp.MustCompile(`Couche\s*=?\s*(\d+)`)
	relayt = regexp.MustCompile(`Epais\w*\s*=\s*([0-9.eE+-]+)`)
	relnam = regexp.MustCompile(`Nom\s*=\s*([^;]+)`)
	relnst = regexp.MustCompile(`Gigogne\w*\s*=?\s*(\d+)`)
)

// readLayers parses the .layer file: one keyed line per layer
// ("Couche= n ; Epaisseur= t ; Nom= name"), plus optional nested-grid
// declarations ("Gigogne= n"). Returns layer info and the nested-grid count.
func readLayers(layfp string) ([]LayerInfo, int, error) {
	if _, ok := mmio.FileExists(layfp); !ok {
		return nil, 0, fmt.Errorf("readLayers: file not found: %s", layfp)
	}
	lis, nnest := []LayerInfo{}, 0
	lns, err := mmio.ReadTextLines(layfp)
	if err != nil {
		return nil, 0, fmt.Errorf("readLayers %s: %v", layfp, err)
	}
	for _, ln := range lns {
		if m := relnst.FindStringSubmatch(ln); m != nil && !strings.Contains(ln, "Couche") {
			if n, err := strconv.Atoi(m[1]); err == nil && n > nnest {
				nnest = n
			}
			continue
		}
		m := relayn.FindStringSubmatch(ln)
		if m == nil {
			continue
		}
		il, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		li := LayerInfo{Layer: il - 1} // one-based in file
		if mt := relayt.FindStringSubmatch(ln); mt != nil {
			li.Thickness, _ = strconv.ParseFloat(mt[1], 64)
		}
		if mn := relnam.FindStringSubmatch(ln); mn != nil {
			li.Name = strings.TrimSpace(mn[1])
		}
		li.Epon = strings.Contains(strings.ToLower(ln), "epon")
		lis = append(lis, li)
	}
	if len(lis) == 0 {
		return nil, 0, fmt.Errorf("readLayers: no layer line found in %s", layfp)
	}
	return lis, nnest, nil
}
