package opt

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/gosuri/uiprogress"
	"github.com/maseology/mmio"
	"github.com/maseology/montecarlo/smpln"
	mrg63k3a "github.com/maseology/goRNG/MRG63k3a"
)

// GenerateSamples draws n Latin hypercube samples over the sampler's
// parameter space and evaluates each with run, nwrkrs at a time. The sample
// space is saved beside the batch outputs; batch number = date.
func GenerateSamples(s *Sampler, run func(k int, pars map[string]float64) error, n, nwrkrs int, outdir string) (string, error) {
	p := s.Ndim()
	rng := rand.New(mrg63k3a.New())
	rng.Seed(time.Now().UnixNano())
	sp := smpln.NewLHC(rng, n, p, false)

	outdirbatch := outdir + time.Now().Format("060102150405")
	func() { // save sample space
		lns := make([]string, n)
		for k := 0; k < n; k++ {
			lns[k] = fmt.Sprint(k)
			for j := 0; j < p; j++ {
				lns[k] += fmt.Sprintf(",%f", sp.U[j][k])
			}
		}
		mmio.WriteLines(outdirbatch+".samplespace.csv", lns)
	}()

	uiprogress.Start()
	bar := uiprogress.AddBar(n).AppendCompleted().PrependElapsed()

	jobs := make(chan int, nwrkrs)
	errs := make(chan error, n)
	for w := 0; w < nwrkrs; w++ {
		go func() {
			for k := range jobs {
				ut := make([]float64, p)
				for j := 0; j < p; j++ {
					ut[j] = sp.U[j][k]
				}
				pars, err := s.Sample(ut)
				if err == nil {
					err = run(k, pars)
				}
				if err != nil {
					errs <- fmt.Errorf("sample %d: %v", k, err)
				} else {
					errs <- nil
				}
				bar.Incr()
			}
		}()
	}
	for k := 0; k < n; k++ {
		jobs <- k
	}
	close(jobs)

	var ferr error
	for k := 0; k < n; k++ {
		if err := <-errs; err != nil && ferr == nil {
			ferr = err
		}
	}
	uiprogress.Stop()
	return outdirbatch, ferr
}
