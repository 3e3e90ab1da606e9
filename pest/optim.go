package pest

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// Optim assembles the parameter groups and observation records of one
// parameter estimation run and writes its PEST artifacts.
type Optim struct {
	Name   string
	Dir    string   // directory the artifacts are written to
	Locs   []string // locations the model can report (empty: no restriction)
	Obs    []*Obs
	Params []*ListParam
}

// NewOptim builds an empty estimation setup writing into dir.
func NewOptim(name, dir string, availableLocs []string) *Optim {
	return &Optim{Name: name, Dir: dir, Locs: availableLocs}
}

// AvailableLocs lists the locations observations may be attached to.
func (o *Optim) AvailableLocs() []string { return o.Locs }

func (o *Optim) countLoc(locnme string) int {
	if len(o.Locs) == 0 {
		return 1
	}
	n := 0
	for _, l := range o.Locs {
		if l == locnme {
			n++
		}
	}
	return n
}

// GetObs returns the record attached at a location, nil when absent.
func (o *Optim) GetObs(locnme string) *Obs {
	for _, ob := range o.Obs {
		if ob.Locnme == locnme {
			return ob
		}
	}
	return nil
}

// AddObs attaches an observation record read from file. The location must be
// one the model reports, declared once, and not yet attached.
func (o *Optim) AddObs(fp, locnme, datatype string) (*Obs, error) {
	switch n := o.countLoc(locnme); {
	case n == 0:
		return nil, fmt.Errorf("Optim.AddObs: location '%s' not reported by the model", locnme)
	case n > 1:
		return nil, fmt.Errorf("Optim.AddObs: location '%s' declared %d times; simulated column is ambiguous", locnme, n)
	}
	if o.GetObs(locnme) != nil {
		return nil, fmt.Errorf("Optim.AddObs: location '%s' already attached", locnme)
	}
	ob, err := ReadObsFile(fp, locnme)
	if err != nil {
		return nil, fmt.Errorf("Optim.AddObs: %v", err)
	}
	if datatype != "" {
		ob.Datatype = datatype
	}
	o.Obs = append(o.Obs, ob)
	return ob, nil
}

// AddFluc derives a fluctuation record from an attached location.
func (o *Optim) AddFluc(locnme, suffix string) (*Obs, error) {
	ob := o.GetObs(locnme)
	if ob == nil {
		return nil, fmt.Errorf("Optim.AddFluc: location '%s' not attached", locnme)
	}
	f := ob.Fluc(suffix)
	if o.GetObs(f.Locnme) != nil {
		return nil, fmt.Errorf("Optim.AddFluc: location '%s' already attached", f.Locnme)
	}
	o.Obs = append(o.Obs, f)
	return f, nil
}

// RemoveObs detaches a location along with any record derived from it
// (fluctuations carry the location name plus an underscored suffix).
func (o *Optim) RemoveObs(locnme string) error {
	if o.GetObs(locnme) == nil {
		return fmt.Errorf("Optim.RemoveObs: location '%s' not attached", locnme)
	}
	kept := []*Obs{}
	for _, ob := range o.Obs {
		if ob.Locnme == locnme || strings.HasPrefix(ob.Locnme, locnme+"_") {
			continue
		}
		kept = append(kept, ob)
	}
	o.Obs = kept
	return nil
}

// AddParam registers a parameter group.
func (o *Optim) AddParam(p *ListParam) error {
	for _, q := range o.Params {
		if q.Name == p.Name {
			return fmt.Errorf("Optim.AddParam: group '%s' already registered", p.Name)
		}
	}
	o.Params = append(o.Params, p)
	return nil
}

// Nobs is the total observation count.
func (o *Optim) Nobs() int {
	n := 0
	for _, ob := range o.Obs {
		n += ob.Nobs()
	}
	return n
}

// Nlocs is the number of attached locations.
func (o *Optim) Nlocs() int { return len(o.Obs) }

// Ndatatypes is the number of distinct observation data types.
func (o *Optim) Ndatatypes() int {
	seen := map[string]bool{}
	for _, ob := range o.Obs {
		seen[ob.Datatype] = true
	}
	return len(seen)
}

// ComputeWeights balances observation weights across data types and
// locations: for an observation of data type dt at a location reporting n
// values, with m locations of that type,
//
//	w = sqrt(lambda_dt/(lambda_tot*m*n))/sigma_dt
//
// so every data type contributes to the objective in proportion to its
// tuning factor lambda.
func (o *Optim) ComputeWeights() error {
	if len(o.Obs) == 0 {
		return fmt.Errorf("Optim.ComputeWeights: no observations attached")
	}
	ltot, m := 0., map[string]int{}
	lam := map[string]float64{}
	for _, ob := range o.Obs {
		if _, ok := lam[ob.Datatype]; !ok {
			if ob.Lambda <= 0. {
				return fmt.Errorf("Optim.ComputeWeights: non-positive lambda at '%s'", ob.Locnme)
			}
			lam[ob.Datatype] = ob.Lambda
			ltot += ob.Lambda
		}
		m[ob.Datatype]++
	}
	for _, ob := range o.Obs {
		if ob.Sigma <= 0. {
			return fmt.Errorf("Optim.ComputeWeights: non-positive sigma at '%s'", ob.Locnme)
		}
		w := math.Sqrt(lam[ob.Datatype]/(ltot*float64(m[ob.Datatype])*float64(ob.Nobs()))) / ob.Sigma
		for i := range ob.Weights {
			ob.Weights[i] = w
		}
	}
	return nil
}

// Validate collects every inconsistency in the setup.
func (o *Optim) Validate() error {
	var res *multierror.Error
	if len(o.Params) == 0 {
		res = multierror.Append(res, fmt.Errorf("no parameter groups registered"))
	}
	if len(o.Obs) == 0 {
		res = multierror.Append(res, fmt.Errorf("no observations attached"))
	}
	seen := map[string]bool{}
	for _, p := range o.Params {
		if err := p.Trans.Check(); err != nil {
			res = multierror.Append(res, fmt.Errorf("group '%s': %v", p.Name, err))
		}
		if err := p.Index.Check(); err != nil {
			res = multierror.Append(res, fmt.Errorf("group '%s': %v", p.Name, err))
		}
		if p.Parlbnd >= p.Parubnd {
			res = multierror.Append(res, fmt.Errorf("group '%s': lower bound %g not below upper bound %g", p.Name, p.Parlbnd, p.Parubnd))
		}
		for _, nm := range p.ParNames() {
			if seen[nm] {
				res = multierror.Append(res, fmt.Errorf("duplicate parameter name '%s'", nm))
			}
			seen[nm] = true
		}
	}
	for _, ob := range o.Obs {
		if ob.Nobs() == 0 {
			res = multierror.Append(res, fmt.Errorf("location '%s': empty record", ob.Locnme))
		}
	}
	return res.ErrorOrNil()
}

// WriteParfiles writes every group's parameter file into Dir.
func (o *Optim) WriteParfiles() error {
	for _, p := range o.Params {
		if err := p.WriteParfile(filepath.Join(o.Dir, p.ParfileName())); err != nil {
			return err
		}
	}
	return nil
}

// WriteTpl writes every group's template file into Dir.
func (o *Optim) WriteTpl() error {
	for _, p := range o.Params {
		if err := p.WriteTpl(filepath.Join(o.Dir, p.TplName())); err != nil {
			return err
		}
	}
	return nil
}

// WriteIns writes every location's instruction file into Dir.
func (o *Optim) WriteIns() error {
	for _, ob := range o.Obs {
		if err := ob.WriteIns(filepath.Join(o.Dir, ob.InsName())); err != nil {
			return err
		}
	}
	return nil
}
