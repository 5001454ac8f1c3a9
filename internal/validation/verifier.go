package validation

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"replayrng/domain/core"
	"replayrng/domain/rng"
	"replayrng/internal"
)

// Check names
const (
	CheckDeterminism = "determinism"
	CheckPeek        = "peek_idempotence"
	CheckRestore     = "restore_round_trip"
	CheckSnapshot    = "snapshot_resume"
	CheckReplay      = "replay_consistency"
)

// checkCosts weights each check by the work it does so that restore-heavy
// checks take a larger share of the semaphore.
var checkCosts = map[string]int64{
	CheckDeterminism: 2,
	CheckPeek:        1,
	CheckRestore:     3,
	CheckSnapshot:    1,
	CheckReplay:      2,
}

// Config controls a verification run
type Config struct {
	// Draws per check
	Draws int
	// Capacity is the total semaphore weight available to running checks
	Capacity int64
}

// DefaultConfig is used when no verification size is configured
var DefaultConfig = Config{Draws: 1000, Capacity: 8}

// CheckResult is the outcome of one check for one seed
type CheckResult struct {
	Name     string        `json:"name"`
	Passed   bool          `json:"passed"`
	Detail   string        `json:"detail,omitempty"`
	Duration time.Duration `json:"duration"`
}

// SeedReport collects every check run for a seed
type SeedReport struct {
	Seed   int32         `json:"seed"`
	Checks []CheckResult `json:"checks"`
}

// Passed reports whether every check for the seed passed
func (r SeedReport) Passed() bool {
	for _, c := range r.Checks {
		if !c.Passed {
			return false
		}
	}
	return true
}

// Verifier runs determinism checks over many seeds concurrently. Every
// check builds its own generators, so nothing is shared between goroutines.
type Verifier struct {
	config Config
	sem    *semaphore.Weighted
	logger *internal.Logger
}

// NewVerifier creates a verifier with a weighted capacity limit
func NewVerifier(config Config, logger *internal.Logger) *Verifier {
	if config.Draws <= 0 {
		config.Draws = DefaultConfig.Draws
	}
	if config.Capacity < maxCost() {
		config.Capacity = maxCost()
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Verifier{
		config: config,
		sem:    semaphore.NewWeighted(config.Capacity),
		logger: logger.With("verifier"),
	}
}

// checkFunc runs one check and returns a failure detail, or "" on success.
type checkFunc func(seed int32, draws int) string

type namedCheck struct {
	name string
	fn   checkFunc
}

var allChecks = []namedCheck{
	{CheckDeterminism, checkDeterminism},
	{CheckPeek, checkPeek},
	{CheckRestore, checkRestore},
	{CheckSnapshot, checkSnapshot},
	{CheckReplay, checkReplay},
}

// Run verifies every seed. Check failures are reported in the results; an
// error is returned only when the run itself could not complete, which
// cancels the remaining checks.
func (v *Verifier) Run(ctx context.Context, seeds []int32) ([]SeedReport, error) {
	checks := allChecks
	reports := make([]SeedReport, len(seeds))
	for i, seed := range seeds {
		reports[i] = SeedReport{Seed: seed, Checks: make([]CheckResult, len(checks))}
	}

	g, ctx := errgroup.WithContext(ctx)
	for i := range seeds {
		for j, check := range checks {
			i, j, check := i, j, check
			g.Go(func() error {
				cost := checkCosts[check.name]
				if err := v.sem.Acquire(ctx, cost); err != nil {
					return fmt.Errorf("failed to acquire capacity for %s: %w", check.name, err)
				}
				defer v.sem.Release(cost)

				start := time.Now()
				detail := check.fn(reports[i].Seed, v.config.Draws)
				passed := detail == ""
				reports[i].Checks[j] = CheckResult{
					Name:     check.name,
					Passed:   passed,
					Detail:   detail,
					Duration: time.Since(start),
				}
				if !passed {
					v.logger.Warn("Seed %d failed %s: %s", reports[i].Seed, check.name, detail)
				} else {
					v.logger.Trace("Seed %d passed %s", reports[i].Seed, check.name)
				}
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	failed := 0
	for _, r := range reports {
		if !r.Passed() {
			failed++
		}
	}
	v.logger.Info("Verified %d seeds (%d failed)", len(seeds), failed)
	return reports, nil
}

// Expectation is a single pinned draw
type Expectation struct {
	Seed  int32
	Draw  int
	Value int32
}

// CheckFixture compares pinned draws against fresh generators. Each seed is
// replayed once in draw order. The returned error wraps ErrSeedMismatch on
// the first difference. Draws past maxDraw are refused before any replay.
func CheckFixture(expectations []Expectation, maxDraw int) error {
	bySeed := make(map[int32][]Expectation)
	var order []int32
	for _, e := range expectations {
		if e.Draw < 0 || e.Draw > maxDraw {
			return fmt.Errorf("fixture draw %d for seed %d is outside 0..%d", e.Draw, e.Seed, maxDraw)
		}
		if _, ok := bySeed[e.Seed]; !ok {
			order = append(order, e.Seed)
		}
		bySeed[e.Seed] = append(bySeed[e.Seed], e)
	}

	for _, seed := range order {
		rows := bySeed[seed]
		sort.SliceStable(rows, func(a, b int) bool { return rows[a].Draw < rows[b].Draw })

		gen := rng.New(seed)
		for _, e := range rows {
			for gen.Count() < e.Draw {
				gen.Next()
			}
			if got := gen.Peek(); got != e.Value {
				return core.NewSeedMismatchError(fmt.Sprintf("seed %d", seed), e.Draw, e.Value, got)
			}
		}
	}
	return nil
}

func maxCost() int64 {
	var max int64
	for _, c := range checkCosts {
		if c > max {
			max = c
		}
	}
	return max
}
