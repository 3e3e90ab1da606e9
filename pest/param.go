package pest

import (
	"fmt"
	"os"
	"strings"

	"github.com/maseology/mmio"
)

// Kmi is a keyed multi-index: the set of model-record coordinates (boundname,
// layer, timestep, soil zone, ...) a parameter group spans. One parameter per
// tuple, named by joining the tuple with '__'.
type Kmi struct {
	Keys   []string
	Tuples [][]string
}

// ParNames returns the '__'-joined parameter names, one per tuple.
func (k *Kmi) ParNames() []string {
	o := make([]string, len(k.Tuples))
	for i, t := range k.Tuples {
		o[i] = strings.Join(t, "__")
	}
	return o
}

// Check validates tuple arity against the key set.
func (k *Kmi) Check() error {
	if len(k.Keys) == 0 {
		return fmt.Errorf("keyed index: no keys")
	}
	for i, t := range k.Tuples {
		if len(t) != len(k.Keys) {
			return fmt.Errorf("keyed index: tuple %d has %d fields, want %d", i, len(t), len(k.Keys))
		}
	}
	return nil
}

// ListParam is one adjustable parameter group over list-like model data
// (pumping records, soil zones). Values are held in transformed space.
type ListParam struct {
	Name         string // group name, also the par/tpl file stem
	Prop         string // model property the group targets (aqpump, rivpump, soil)
	Index        Kmi
	Values       []float64 // transformed, one per tuple
	Trans        Trans     // applied writing values out to the optimizer
	Btrans       Trans     // applied reading optimizer values back
	Parchglim    string
	Defaultvalue float64
	Parlbnd      float64
	Parubnd      float64
	Pargp        string
	Scale        float64
	Offset       float64
	Dercom       int
}

// NewListParam builds a parameter group with the conventional PEST defaults.
func NewListParam(name, prop string, index Kmi, vals []float64, trans Trans) (*ListParam, error) {
	if err := index.Check(); err != nil {
		return nil, fmt.Errorf("NewListParam %s: %v", name, err)
	}
	if len(vals) != len(index.Tuples) {
		return nil, fmt.Errorf("NewListParam %s: %d values for %d tuples", name, len(vals), len(index.Tuples))
	}
	if err := trans.Check(); err != nil {
		return nil, fmt.Errorf("NewListParam %s: %v", name, err)
	}
	tv := make([]float64, len(vals))
	for i, v := range vals {
		u, err := trans.Apply(v)
		if err != nil {
			return nil, fmt.Errorf("NewListParam %s: %v", name, err)
		}
		tv[i] = u
	}
	return &ListParam{
		Name:   name,
		Prop:   prop,
		Index:  index,
		Values: tv,
		Trans:  trans,
		Btrans: inverseOf(trans),

		Parchglim:    "factor",
		Defaultvalue: 1.,
		Parlbnd:      1e-10,
		Parubnd:      1e+10,
		Pargp:        name,
		Scale:        1.,
		Offset:       0.,
		Dercom:       1,
	}, nil
}

func inverseOf(t Trans) Trans {
	if t == TransNone || t == "" {
		return TransNone
	}
	return t // Back of the same transform inverts Apply
}

// ParNames returns the group's parameter names.
func (p *ListParam) ParNames() []string { return p.Index.ParNames() }

// ParfileName returns the conventional parameter file name.
func (p *ListParam) ParfileName() string { return p.Name + ".par" }

// TplName returns the conventional template file name.
func (p *ListParam) TplName() string { return p.Name + ".tpl" }

// WriteParfile writes the group's current transformed values.
func (p *ListParam) WriteParfile(fp string) error {
	sb := strings.Builder{}
	for i, nm := range p.ParNames() {
		sb.WriteString(fstr(nm) + ffloat(p.Values[i]) + "\n")
	}
	if err := os.WriteFile(fp, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("WriteParfile %s: %v", p.Name, err)
	}
	return nil
}

// WriteTpl writes the PEST template mirroring the parameter file.
func (p *ListParam) WriteTpl(fp string) error {
	sb := strings.Builder{}
	sb.WriteString("ptf ~\n")
	for _, nm := range p.ParNames() {
		sb.WriteString(fstr(nm) + fmt.Sprintf("~%19s~", nm) + "\n")
	}
	if err := os.WriteFile(fp, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("WriteTpl %s: %v", p.Name, err)
	}
	return nil
}

// ReadParfile reads an optimizer-written parameter file, returning
// back-transformed physical values keyed by parameter name.
func ReadParfile(fp string, btrans Trans) (map[string]float64, error) {
	if _, ok := mmio.FileExists(fp); !ok {
		return nil, fmt.Errorf("ReadParfile: file not found: %s", fp)
	}
	o := map[string]float64{}
	lns, err := mmio.ReadTextLines(fp)
	if err != nil {
		return nil, fmt.Errorf("ReadParfile %s: %v", fp, err)
	}
	for i, ln := range lns {
		f := strings.Fields(ln)
		if len(f) == 0 {
			continue
		}
		if len(f) < 2 {
			return nil, fmt.Errorf("ReadParfile %s line %d: need 'name value'", fp, i+1)
		}
		v, err := atof(f[1])
		if err != nil {
			return nil, fmt.Errorf("ReadParfile %s line %d: %v", fp, i+1, err)
		}
		if v, err = btrans.Back(v); err != nil {
			return nil, fmt.Errorf("ReadParfile %s line %d: %v", fp, i+1, err)
		}
		o[f[0]] = v
	}
	if len(o) == 0 {
		return nil, fmt.Errorf("ReadParfile %s: empty file", fp)
	}
	return o, nil
}
