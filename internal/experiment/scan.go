package experiment

import (
	"context"
	"sync"

	"github.com/san-kum/mctrans/internal/config"
	"github.com/san-kum/mctrans/internal/transport"
)

// ScanPoint is one run of an energy scan.
type ScanPoint struct {
	Energy float64 // MeV
	Result *transport.Result
}

// Scan runs the configuration once per primary energy, concurrently, each
// run with its own registry and bank. Results come back in the order of
// energies.
func Scan(ctx context.Context, name string, cfg *config.Config, energies []float64) ([]ScanPoint, error) {
	points := make([]ScanPoint, len(energies))
	errs := make([]error, len(energies))

	var wg sync.WaitGroup
	for i, energy := range energies {
		wg.Add(1)
		go func(idx int, energy float64) {
			defer wg.Done()

			c := *cfg
			c.Primary.Energy = energy
			exp := New(name, &c)
			if errs[idx] = exp.Setup(); errs[idx] != nil {
				return
			}
			defer exp.Close()

			points[idx].Energy = energy
			points[idx].Result, errs[idx] = exp.Run(ctx)
		}(i, energy)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return points, nil
}
