package pest

import (
	"fmt"
	"math"
)

// Trans is a parameter or observation value transformation. Parameters are
// exposed to the optimizer in transformed space and transformed back before
// being written to the model files.
type Trans string

const (
	TransNone     Trans = "none"
	TransLog      Trans = "log"
	TransLog10    Trans = "log10"
	TransNegLog10 Trans = "neglog10"
)

// Check validates the transform name.
func (t Trans) Check() error {
	switch t {
	case TransNone, TransLog, TransLog10, TransNegLog10, "":
		return nil
	}
	return fmt.Errorf("invalid transform '%s'", t)
}

// Apply maps a physical value into transformed space.
func (t Trans) Apply(v float64) (float64, error) {
	switch t {
	case TransNone, "":
		return v, nil
	case TransLog:
		if v <= 0. {
			return 0, fmt.Errorf("transform %s: non-positive value %g", t, v)
		}
		return math.Log(v), nil
	case TransLog10:
		if v <= 0. {
			return 0, fmt.Errorf("transform %s: non-positive value %g", t, v)
		}
		return math.Log10(v), nil
	case TransNegLog10:
		if v >= 0. {
			return 0, fmt.Errorf("transform %s: non-negative value %g", t, v)
		}
		return math.Log10(-v), nil
	}
	return 0, fmt.Errorf("invalid transform '%s'", t)
}

// Back maps a transformed value back to physical space.
func (t Trans) Back(v float64) (float64, error) {
	switch t {
	case TransNone, "":
		return v, nil
	case TransLog:
		return math.Exp(v), nil
	case TransLog10:
		return math.Pow(10., v), nil
	case TransNegLog10:
		return -math.Pow(10., v), nil
	}
	return 0, fmt.Errorf("invalid transform '%s'", t)
}
