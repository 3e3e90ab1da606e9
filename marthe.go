package marthe

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/maseology/goMarthe/grid"
)

// Model wraps one MARTHE model: its file set, structure and lazily loaded
// properties. All numerical modelling is delegated to the external MARTHE
// executable; Model only marshals the model's files.
type Model struct {
	Prop     map[string]Prop
	Geometry map[string]*Field
	Files    map[string]string // model files keyed by extension
	Units    map[string]float64
	Layers   []LayerInfo
	Imask    *Field
	Pastp    *Pastp
	Dir      string
	Name     string
	Nnest    int
	Nlay     int
}

// Prop is a loaded model property (field, pumping or soil) that knows how to
// write itself back to the model files.
type Prop interface {
	WriteData() error
}

// Load builds a Model from a .rma file path.
func Load(rmaPath string) (*Model, error) {
	fs, err := readRMA(rmaPath)
	if err != nil {
		return nil, fmt.Errorf("marthe.Load: %v", err)
	}
	mm := &Model{
		Files:    fs,
		Dir:      filepath.Dir(rmaPath),
		Name:     strings.TrimSuffix(filepath.Base(rmaPath), filepath.Ext(rmaPath)),
		Prop:     map[string]Prop{},
		Geometry: map[string]*Field{},
	}

	if fp, ok := fs["mart"]; ok {
		if mm.Units, err = readUnits(fp); err != nil {
			return nil, fmt.Errorf("marthe.Load: %v", err)
		}
	}
	if fp, ok := fs["pastp"]; ok {
		if mm.Pastp, err = readPastp(fp); err != nil {
			return nil, fmt.Errorf("marthe.Load: %v", err)
		}
	}
	if fp, ok := fs["layer"]; ok {
		if mm.Layers, mm.Nnest, err = readLayers(fp); err != nil {
			return nil, fmt.Errorf("marthe.Load: %v", err)
		}
	}

	// permh doubles as the structural reference: imask and layer count
	if err := mm.LoadProp("permh"); err != nil {
		return nil, fmt.Errorf("marthe.Load: %v", err)
	}
	permh := mm.Prop["permh"].(*Field)
	mm.Imask = permh.asMask()
	mm.Nlay = permh.MaxLayer()
	if n := permh.MaxNest(); n > mm.Nnest {
		mm.Nnest = n
	}
	return mm, nil
}

// Nstep is the number of simulated timesteps.
func (mm *Model) Nstep() int {
	if mm.Pastp == nil {
		return 0
	}
	return mm.Pastp.Nstep()
}

// Dates are the timestep end dates.
func (mm *Model) Dates() []time.Time {
	if mm.Pastp == nil {
		return nil
	}
	return mm.Pastp.Dates
}

// LoadProp loads a model property by name: a gridded field (permh, emmca,
// emmli, kepon, ...), pumping ('aqpump', 'rivpump') or zonal soil ('soil').
func (mm *Model) LoadProp(prop string) error {
	if _, ok := mm.Prop[prop]; ok {
		return nil
	}
	switch prop {
	case "aqpump":
		p, err := loadPump(mm, "", ModeAquifer)
		if err != nil {
			return err
		}
		mm.Prop[prop] = p
	case "rivpump":
		p, err := loadPump(mm, "", ModeRiver)
		if err != nil {
			return err
		}
		mm.Prop[prop] = p
	case "soil":
		s, err := loadSoil(mm)
		if err != nil {
			return err
		}
		mm.Prop[prop] = s
	default:
		fp, ok := mm.Files[prop]
		if !ok {
			return fmt.Errorf("Model.LoadProp: property '%s' not supported (no model file)", prop)
		}
		f, err := LoadField(prop, fp)
		if err != nil {
			return err
		}
		mm.Prop[prop] = f
	}
	return nil
}

// WriteProp writes loaded properties back to the model files; empty prop
// writes everything loaded.
func (mm *Model) WriteProp(prop string) error {
	if prop == "" {
		for p, v := range mm.Prop {
			if err := v.WriteData(); err != nil {
				return fmt.Errorf("Model.WriteProp %s: %v", p, err)
			}
		}
		return nil
	}
	v, ok := mm.Prop[prop]
	if !ok {
		return fmt.Errorf("Model.WriteProp: property '%s' not loaded", prop)
	}
	return v.WriteData()
}

// LoadGeometry loads a geometry grid file (topog, sepon, hsubs); empty g loads
// whatever geometry files the model declares.
func (mm *Model) LoadGeometry(g string) error {
	gs := []string{g}
	if g == "" {
		gs = gs[:0]
		for _, x := range []string{"topog", "sepon", "hsubs"} {
			if _, ok := mm.Files[x]; ok {
				gs = append(gs, x)
			}
		}
	}
	for _, x := range gs {
		fp, ok := mm.Files[x]
		if !ok {
			return fmt.Errorf("Model.LoadGeometry: '%s' is not a geometry grid file of this model", x)
		}
		f, err := LoadField(x, fp)
		if err != nil {
			return err
		}
		mm.Geometry[x] = f
	}
	return nil
}

// Outcrop returns the uppermost active layer id per main-grid cell, inactive
// cells set to -9999. Structured models only.
func (mm *Model) Outcrop() (*grid.Grid, error) {
	if mm.Nnest > 0 {
		return nil, fmt.Errorf("Model.Outcrop: cannot build outcrop grid for nested model")
	}
	gs := mm.Imask.Get(-1, 0)
	if len(gs) == 0 {
		return nil, fmt.Errorf("Model.Outcrop: no main grid")
	}
	o := gs[0] // copy of layer 0 slab
	a := make([][]float64, o.Nrow)
	for i := range a {
		a[i] = make([]float64, o.Ncol)
		for j := range a[i] {
			a[i][j] = nodata
			for _, g := range gs {
				if g.A[i][j] != 0. {
					a[i][j] = float64(g.Layer)
					break
				}
			}
		}
	}
	o.A, o.Layer, o.Field = a, 0, "OUTCROP"
	return &o, nil
}

// GetIJ locates the main-grid cell containing point (x,y).
func (mm *Model) GetIJ(x, y float64) (i, j int, ok bool) {
	for _, g := range mm.Imask.Get(0, 0) {
		return g.Sample(x, y)
	}
	return -1, -1, false
}

// GetXY returns main-grid cell-centre coordinates.
func (mm *Model) GetXY(i, j int) (x, y float64, err error) {
	for _, g := range mm.Imask.Get(0, 0) {
		if i < 0 || i >= g.Nrow || j < 0 || j >= g.Ncol {
			return 0, 0, fmt.Errorf("Model.GetXY: cell (%d,%d) outside main grid (%d,%d)", i, j, g.Nrow, g.Ncol)
		}
		return g.Xcc[j], g.Ycc[i], nil
	}
	return 0, 0, fmt.Errorf("Model.GetXY: no main grid")
}

// GetLayerFromDepth infers the layer id at depth below ground surface at
// point (x,y), from the topog geometry and declared layer thicknesses.
func (mm *Model) GetLayerFromDepth(x, y, depth float64) (int, error) {
	if _, ok := mm.Geometry["topog"]; !ok {
		if err := mm.LoadGeometry("topog"); err != nil {
			return -1, fmt.Errorf("Model.GetLayerFromDepth: %v", err)
		}
	}
	if _, ok := mm.Geometry["topog"].Sample(x, y, 0); !ok {
		return -1, fmt.Errorf("Model.GetLayerFromDepth: point (%g,%g) outside model", x, y)
	}
	cum := 0.
	for _, li := range mm.Layers {
		cum += li.Thickness
		if cum > depth {
			return li.Layer, nil
		}
	}
	return -1, fmt.Errorf("Model.GetLayerFromDepth: depth %g below model base", depth)
}

// PropFile returns the conventional path of a property file.
func (mm *Model) PropFile(prop string) string {
	if fp, ok := mm.Files[prop]; ok {
		return fp
	}
	return filepath.Join(mm.Dir, mm.Name+"."+prop)
}
