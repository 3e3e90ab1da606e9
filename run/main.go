package main

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"runtime"
	"strings"

	marthe "github.com/maseology/goMarthe"
	"github.com/maseology/mmio"
)

// forward run: apply the current optimizer parameter set to the model files,
// call the MARTHE executable and extract the simulated records the
// instruction files read.
func main() {

	const (
		rmafp = "M:/liasson/mona.rma"
		cfgfp = "M:/liasson/pest/mona.config"
		exe   = "marthe"
	)

	fmt.Println("")
	tt := mmio.NewTimer()
	defer tt.Lap(fmt.Sprintf("\nRun complete. n processes: %v", runtime.GOMAXPROCS(0)))

	// load model, push parameter values into the model files
	mm, cfg, err := marthe.FromConfig(rmafp, cfgfp)
	if err != nil {
		log.Fatalf(" forward run: %v\n", err)
	}
	tt.Print("Model load complete\n")

	// call the simulator
	ok, buff, err := mm.Run(context.Background(), exe, true, false)
	if err != nil {
		log.Fatalf(" forward run: %v\n", err)
	}
	if !ok {
		for _, ln := range buff {
			fmt.Println(ln)
		}
		log.Fatalf(" forward run: abnormal termination\n")
	}
	tt.Print("Simulation complete\n")

	// extract simulated records at the configured locations
	locs, fluc, seen := []string{}, false, map[string]bool{}
	for _, ob := range cfg.Obs {
		l := ob.Locnme
		if strings.HasSuffix(l, "_fluc") {
			l, fluc = strings.TrimSuffix(l, "_fluc"), true
		}
		if !seen[l] {
			seen[l] = true
			locs = append(locs, l)
		}
	}
	outdir := filepath.Dir(cfgfp)
	if err := marthe.ExtractPrn(filepath.Join(mm.Dir, "historiq.prn"), outdir, locs, fluc); err != nil {
		log.Fatalf(" forward run: %v\n", err)
	}
}
