package marthe

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/maseology/mmio"
)

// model-file extensions recognized from the .rma listing. Geometry and
// property grids share the Marthe_Grid format; the rest are keyed text files.
var mlexts = map[string]bool{
	"mart": true, "pastp": true, "layer": true, "histo": true, "prn": true,
	"permh": true, "emmca": true, "emmli": true, "kepon": true,
	"topog": true, "sepon": true, "hsubs": true, "charg": true, "debit": true,
}

var refile = regexp.MustCompile(`^[\w.-]+\.(\w+)$`)

// readRMA collects the model file set referenced by a .rma file, keyed by
// extension. Files named but absent on disk are kept; MARTHE creates some on
// first run.
func readRMA(rmafp string) (map[string]string, error) {
	if _, ok := mmio.FileExists(rmafp); !ok {
		return nil, fmt.Errorf("readRMA: file not found: %s", rmafp)
	}
	dir := filepath.Dir(rmafp)
	fs := map[string]string{"rma": rmafp}
	lns, err := mmio.ReadTextLines(rmafp)
	if err != nil {
		return nil, fmt.Errorf("readRMA %s: %v", rmafp, err)
	}
	for _, ln := range lns {
		for _, tok := range strings.Fields(ln) {
			m := refile.FindStringSubmatch(tok)
			if m == nil {
				continue
			}
			ext := strings.ToLower(m[1])
			if !mlexts[ext] {
				continue
			}
			if _, ok := fs[ext]; !ok {
				fs[ext] = filepath.Join(dir, tok)
			}
		}
	}

	// fall back on conventionally named siblings not listed in the .rma
	prfx := mmio.RemoveExtension(rmafp)
	for ext := range mlexts {
		if _, ok := fs[ext]; ok {
			continue
		}
		if _, ok := mmio.FileExists(prfx + "." + ext); ok {
			fs[ext] = prfx + "." + ext
		}
	}
	return fs, nil
}
