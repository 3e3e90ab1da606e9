package marthe

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/maseology/mmio"
)

// Checkandprint writes binary check rasters of the model structure to chkdir:
// the active-cell mask per layer (.indx), the outcrop layer grid (.indx) and
// every loaded property's main-grid slabs (.real). Row-major float32/int32,
// little-endian.
func (mm *Model) Checkandprint(chkdir string) error {
	mmio.MakeDir(chkdir)

	for _, g := range mm.Imask.Get(-1, 0) {
		a := make([]int32, g.Nrow*g.Ncol)
		for i := range g.A {
			for j, v := range g.A[i] {
				a[i*g.Ncol+j] = int32(v)
			}
		}
		if err := writeInts(filepath.Join(chkdir, fmt.Sprintf("imask.l%d.indx", g.Layer)), a); err != nil {
			return fmt.Errorf("Model.Checkandprint: %v", err)
		}
	}

	if mm.Nnest == 0 {
		oc, err := mm.Outcrop()
		if err != nil {
			return fmt.Errorf("Model.Checkandprint: %v", err)
		}
		a := make([]int32, oc.Nrow*oc.Ncol)
		for i := range oc.A {
			for j, v := range oc.A[i] {
				a[i*oc.Ncol+j] = int32(v)
			}
		}
		if err := writeInts(filepath.Join(chkdir, "outcrop.indx"), a); err != nil {
			return fmt.Errorf("Model.Checkandprint: %v", err)
		}
	}

	for p, v := range mm.Prop {
		f, ok := v.(*Field)
		if !ok {
			continue
		}
		for _, g := range f.Get(-1, 0) {
			a := make([]float64, 0, g.Nrow*g.Ncol)
			for i := range g.A {
				a = append(a, g.A[i]...)
			}
			if err := writeFloats(filepath.Join(chkdir, fmt.Sprintf("%s.l%d.real", p, g.Layer)), a); err != nil {
				return fmt.Errorf("Model.Checkandprint: %v", err)
			}
		}
		mn, mx := f.Minmax()
		log.Printf(" %s: [%g, %g]\n", p, mn, mx)
	}
	return nil
}
