// Package opt drives parameter sampling and calibration of a MARTHE model
// through its PEST parameter groups.
package opt

import (
	"fmt"

	"github.com/maseology/goMarthe/pest"
	"github.com/maseology/mmaths"
)

// Sampler maps unit-hypercube coordinates onto the physical ranges of a set
// of parameter groups, one dimension per parameter.
type Sampler struct {
	Params []*pest.ListParam
	ndim   int
}

func NewSampler(ps []*pest.ListParam) (*Sampler, error) {
	n := 0
	for _, p := range ps {
		if p.Parlbnd >= p.Parubnd {
			return nil, fmt.Errorf("NewSampler: group '%s': lower bound %g not below upper bound %g", p.Name, p.Parlbnd, p.Parubnd)
		}
		n += len(p.ParNames())
	}
	if n == 0 {
		return nil, fmt.Errorf("NewSampler: no parameters")
	}
	return &Sampler{Params: ps, ndim: n}, nil
}

// Ndim is the sample space dimension.
func (s *Sampler) Ndim() int { return s.ndim }

func par(p *pest.ListParam, u float64) float64 {
	switch p.Trans {
	case pest.TransLog, pest.TransLog10:
		return mmaths.LogLinearTransform(p.Parlbnd, p.Parubnd, u)
	default:
		return mmaths.LinearTransform(p.Parlbnd, p.Parubnd, u)
	}
}

// Sample maps u onto physical parameter values keyed by parameter name.
func (s *Sampler) Sample(u []float64) (map[string]float64, error) {
	if len(u) != s.ndim {
		return nil, fmt.Errorf("Sampler.Sample: %d coordinates for %d dimensions", len(u), s.ndim)
	}
	o, k := map[string]float64{}, 0
	for _, p := range s.Params {
		for _, nm := range p.ParNames() {
			o[nm] = par(p, u[k])
			k++
		}
	}
	return o, nil
}

// Apply pushes the sample into the groups' transformed value stores and
// writes their parameter files into dir, readying a forward run.
func (s *Sampler) Apply(u []float64, dir string) error {
	if len(u) != s.ndim {
		return fmt.Errorf("Sampler.Apply: %d coordinates for %d dimensions", len(u), s.ndim)
	}
	k := 0
	for _, p := range s.Params {
		for i := range p.ParNames() {
			t, err := p.Trans.Apply(par(p, u[k]))
			if err != nil {
				return fmt.Errorf("Sampler.Apply: group '%s': %v", p.Name, err)
			}
			p.Values[i] = t
			k++
		}
		if err := p.WriteParfile(dir + "/" + p.ParfileName()); err != nil {
			return fmt.Errorf("Sampler.Apply: %v", err)
		}
	}
	return nil
}
