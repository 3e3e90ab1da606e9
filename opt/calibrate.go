package opt

import (
	"fmt"
	"math/rand"
	"runtime"
	"time"

	"github.com/maseology/glbopt"
	mrg63k3a "github.com/maseology/goRNG/MRG63k3a"
)

// Calibrate minimizes eval over the sampler's parameter space with the
// shuffled complex evolution solver, returning the best physical parameter
// set. eval runs the model for one candidate and scores it (lower is better).
func Calibrate(s *Sampler, eval func(pars map[string]float64) float64) (map[string]float64, float64, error) {
	rng := rand.New(mrg63k3a.New())
	rng.Seed(time.Now().UnixNano())

	gen := func(u []float64) float64 {
		pars, err := s.Sample(u)
		if err != nil {
			panic(fmt.Sprintf("Calibrate: %v", err))
		}
		return eval(pars)
	}

	fmt.Println(" optimizing..")
	uFinal, yFinal := glbopt.SCE(runtime.GOMAXPROCS(0), s.Ndim(), rng, gen, true)

	pars, err := s.Sample(uFinal)
	if err != nil {
		return nil, 0, fmt.Errorf("Calibrate: %v", err)
	}
	return pars, yFinal, nil
}
