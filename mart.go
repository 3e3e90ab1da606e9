package marthe

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/maseology/mmio"
)

// .mart files carry keyed "value=label" lines (Latin-1). Labels are matched on
// their accent-free substrings so the byte encoding never matters.

func readUnits(martfp string) (map[string]float64, error) {
	if _, ok := mmio.FileExists(martfp); !ok {
		return nil, fmt.Errorf("readUnits: file not found: %s", martfp)
	}
	u := map[string]float64{}
	lns, err := mmio.ReadTextLines(martfp)
	if err != nil {
		return nil, fmt.Errorf("readUnits %s: %v", martfp, err)
	}
	for _, ln := range lns {
		i := strings.Index(ln, "=")
		if i < 0 {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(ln[:i]), 64)
		if err != nil {
			continue // not a unit line
		}
		lbl := strings.ToLower(ln[i+1:])
		switch {
		case !strings.Contains(lbl, "unit"):
		case strings.Contains(lbl, "perm"):
			u["permh"] = v
		case strings.Contains(lbl, "emmag") && strings.Contains(lbl, "captif"):
			u["emmca"] = v
		case strings.Contains(lbl, "emmag") && strings.Contains(lbl, "libre"):
			u["emmli"] = v
		case strings.Contains(lbl, "bit"): // débit
			u["flow"] = v
		case strings.Contains(lbl, "charge"):
			u["head"] = v
		}
	}
	return u, nil
}

// setMartValue rewrites, in place, the value of the first .mart line whose
// label contains sub.
func setMartValue(martfp, sub, v string) error {
	a, err := mmio.ReadTextLines(martfp)
	if err != nil {
		return fmt.Errorf("setMartValue %s: %v", martfp, err)
	}
	hit := false
	for i, ln := range a {
		j := strings.Index(ln, "=")
		if j < 0 {
			continue
		}
		if strings.Contains(strings.ToLower(ln[j+1:]), strings.ToLower(sub)) {
			a[i] = fmt.Sprintf("%s=%s", v, ln[j+1:])
			hit = true
			break
		}
	}
	if !hit {
		return fmt.Errorf("setMartValue: no line matching '%s' in %s", sub, martfp)
	}
	return os.WriteFile(martfp, []byte(strings.Join(a, "\n")+"\n"), 0644)
}

// MakeSilent turns off MARTHE screen reporting during runs.
func (mm *Model) MakeSilent() error {
	return setMartValue(mm.Files["mart"], "cran", "0") // écran
}

// RemoveAutocal disables MARTHE's built-in calibration so runs stay pure
// forward simulations (required when PEST drives the model).
func (mm *Model) RemoveAutocal() error {
	return setMartValue(mm.Files["mart"], "optimisation", "0")
}
