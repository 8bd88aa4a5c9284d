package hedging

import (
	"fmt"
	"io"
	"runtime"
	"sync"

	"github.com/bcdannyboy/dhedge/models"
	"github.com/bcdannyboy/dhedge/pricing"
	"github.com/shirou/gopsutil/cpu"
	mpb "github.com/vbauerster/mpb/v7"
	"github.com/vbauerster/mpb/v7/decor"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"
)

type StudyConfig struct {
	NSims    int       // Paths per frequency
	Seed     uint64    // Base seed; frequency index k hedges with Seed+k
	Progress io.Writer // Progress bar destination, nil for silent
}

type FrequencyResult struct {
	NHedges int
	Premium float64
	Mean    float64
	StdErr  float64
	StdDev  float64
}

// FrequencyStudy reruns the self-financing European hedge at every rebalance
// count in freqs, charging the Black-Scholes premium, and reports how the
// P&L distribution tightens as hedging gets more frequent. Each frequency
// gets its own generator derived from cfg.Seed, so results are reproducible
// and independent of worker scheduling.
func FrequencyStudy(g *models.GBM, opt models.Option, t float64, freqs []int, cfg StudyConfig) ([]FrequencyResult, error) {
	if err := opt.Validate(); err != nil {
		return nil, err
	}
	if len(freqs) == 0 {
		return nil, fmt.Errorf("%w: no hedge frequencies given", models.ErrInvalidParameter)
	}
	for _, n := range freqs {
		if n < 1 {
			return nil, fmt.Errorf("%w: hedge frequency must be at least 1, got %d", models.ErrInvalidParameter, n)
		}
	}
	if cfg.NSims < 1 {
		return nil, fmt.Errorf("%w: number of simulations must be at least 1, got %d", models.ErrInvalidParameter, cfg.NSims)
	}

	premium, err := pricing.Price(g.S0, opt.Strike, g.Sigma, t, g.R, opt.Type)
	if err != nil {
		return nil, err
	}

	var progress *mpb.Progress
	var bar *mpb.Bar
	if cfg.Progress != nil {
		progress = mpb.New(mpb.WithOutput(cfg.Progress), mpb.WithWidth(64))
		bar = progress.AddBar(int64(len(freqs)),
			mpb.PrependDecorators(
				decor.Name("Hedging"),
				decor.Percentage(decor.WCSyncSpace),
			),
			mpb.AppendDecorators(
				decor.CountersNoUnit("(%d / %d)", decor.WCSyncSpace),
				decor.Any(cpuLoad, decor.WCSyncSpace),
			),
		)
	}

	type job struct {
		index   int
		nHedges int
	}
	jobs := make(chan job, len(freqs))
	results := make([]FrequencyResult, len(freqs))

	numWorkers := runtime.NumCPU()
	if numWorkers > len(freqs) {
		numWorkers = len(freqs)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				rng := rand.New(rand.NewSource(cfg.Seed + uint64(j.index)))
				dist, derr := EuropeanSelfFinancingPnL(g, opt, t, premium, cfg.NSims, j.nHedges, rng)
				if derr != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = derr
					}
					mu.Unlock()
				} else {
					mean, std := stat.MeanStdDev(dist, nil)
					results[j.index] = FrequencyResult{
						NHedges: j.nHedges,
						Premium: premium,
						Mean:    mean,
						StdErr:  stat.StdErr(std, float64(len(dist))),
						StdDev:  std,
					}
				}
				if bar != nil {
					bar.Increment()
				}
			}
		}()
	}

	for i, n := range freqs {
		jobs <- job{index: i, nHedges: n}
	}
	close(jobs)
	wg.Wait()
	if progress != nil {
		progress.Wait()
	}

	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}

// cpuLoad decorates the study progress bar with instantaneous CPU usage.
func cpuLoad(decor.Statistics) string {
	percentage, err := cpu.Percent(0, false)
	if err != nil || len(percentage) == 0 {
		return ""
	}
	return fmt.Sprintf("cpu %.0f%%", percentage[0])
}
