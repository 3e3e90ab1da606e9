package marthe

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/maseology/goMarthe/pest"
)

// FromConfig loads a model and applies the parameter values of an
// estimation run configuration, readying the model files for a forward run.
func FromConfig(rmafp, cfgfp string) (*Model, *pest.Config, error) {
	mm, err := Load(rmafp)
	if err != nil {
		return nil, nil, fmt.Errorf("marthe.FromConfig: %v", err)
	}
	c, err := pest.ReadConfig(cfgfp)
	if err != nil {
		return nil, nil, fmt.Errorf("marthe.FromConfig: %v", err)
	}
	if err := mm.ApplyConfig(c); err != nil {
		return nil, nil, fmt.Errorf("marthe.FromConfig: %v", err)
	}
	return mm, c, nil
}

// ApplyConfig reads every parameter block's optimizer-written values,
// back-transforms them and pushes them into the model files.
func (mm *Model) ApplyConfig(c *pest.Config) error {
	var res *multierror.Error
	for _, p := range c.Params {
		vals, err := pest.ReadParfile(p.Parfile, p.Btrans)
		if err != nil {
			res = multierror.Append(res, fmt.Errorf("group '%s': %v", p.Name, err))
			continue
		}
		if err := mm.LoadProp(p.Prop); err != nil {
			res = multierror.Append(res, fmt.Errorf("group '%s': %v", p.Name, err))
			continue
		}
		n := 0
		switch v := mm.Prop[p.Prop].(type) {
		case *Pump:
			if n, err = v.SetKeyed(p.Keys, vals); err != nil {
				res = multierror.Append(res, fmt.Errorf("group '%s': %v", p.Name, err))
				continue
			}
		case *Soil:
			if n, err = v.SetKeyed(p.Keys, vals); err != nil {
				res = multierror.Append(res, fmt.Errorf("group '%s': %v", p.Name, err))
				continue
			}
		default:
			res = multierror.Append(res, fmt.Errorf("group '%s': property '%s' does not take keyed parameters", p.Name, p.Prop))
			continue
		}
		if n == 0 {
			res = multierror.Append(res, fmt.Errorf("group '%s': no model record matched", p.Name))
			continue
		}
		if err := mm.WriteProp(p.Prop); err != nil {
			res = multierror.Append(res, fmt.Errorf("group '%s': %v", p.Name, err))
		}
	}
	return res.ErrorOrNil()
}
