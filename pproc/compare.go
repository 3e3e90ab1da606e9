package pproc

import (
	"fmt"
	"time"

	"github.com/maseology/mmio"
	"github.com/maseology/objfunc"
)

// Fit summarizes model performance at one location.
type Fit struct {
	Locnme               string
	KGE, NSE, RMSE, Bias float64
	N                    int
}

// Compare scores a simulated record against observations at one location,
// aligning the series first.
func Compare(locnme string, odt []time.Time, obs []float64, sdt []time.Time, sim []float64) (*Fit, error) {
	_, o, s, err := Align(odt, obs, sdt, sim)
	if err != nil {
		return nil, fmt.Errorf("Compare %s: %v", locnme, err)
	}
	return &Fit{
		Locnme: locnme,
		KGE:    objfunc.KGE(o, s),
		NSE:    objfunc.NSE(o, s),
		RMSE:   objfunc.RMSE(o, s),
		Bias:   objfunc.Bias(o, s),
		N:      len(o),
	}, nil
}

// WriteFits writes fit summaries to csv.
func WriteFits(fp string, fits []*Fit) error {
	lns := make([]string, 0, len(fits)+1)
	lns = append(lns, "loc,n,kge,nse,rmse,bias")
	for _, f := range fits {
		lns = append(lns, fmt.Sprintf("%s,%d,%.4f,%.4f,%.4f,%.4f", f.Locnme, f.N, f.KGE, f.NSE, f.RMSE, f.Bias))
	}
	return mmio.WriteStrings(fp, lns)
}
