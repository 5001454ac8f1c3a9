// Package quality runs statistical checks over generator output. It is an
// audit tool, not a proof of randomness: a passing stream is merely not
// obviously broken.
package quality

import (
	"context"
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat/distuv"

	"replayrng/domain/rng"
)

// Pass thresholds
const (
	MinPValue            = 0.001
	MaxSerialCorrelation = 0.05
)

// Config controls the size of an audit
type Config struct {
	Samples int
	Buckets int
}

// DefaultConfig is used when no audit size is configured
var DefaultConfig = Config{Samples: 100_000, Buckets: 20}

// Summary holds descriptive statistics of draws normalized to [0, 1)
type Summary struct {
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"std_dev"`
	Median   float64 `json:"median"`
	P05      float64 `json:"p05"`
	P95      float64 `json:"p95"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Skewness float64 `json:"skewness"`
}

// Result is the outcome of auditing one seed
type Result struct {
	Seed              int32   `json:"seed"`
	Samples           int     `json:"samples"`
	Buckets           int     `json:"buckets"`
	Summary           Summary `json:"summary"`
	ChiSquare         float64 `json:"chi_square"`
	DegreesOfFreedom  int     `json:"degrees_of_freedom"`
	PValue            float64 `json:"p_value"`
	SerialCorrelation float64 `json:"serial_correlation"`
	Passed            bool    `json:"passed"`
}

// Audit draws cfg.Samples values from a fresh generator for seed and scores
// them.
func Audit(ctx context.Context, seed int32, cfg Config) (*Result, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	gen := rng.New(seed)
	values := make([]int32, cfg.Samples)
	for i := range values {
		if i%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		values[i] = gen.Next()
	}

	return evaluate(seed, values, cfg.Buckets)
}

// AuditSeeds audits every seed with at most workers audits in flight. Results
// are returned in seed order.
func AuditSeeds(ctx context.Context, seeds []int32, cfg Config, workers int) ([]*Result, error) {
	if workers <= 0 {
		workers = 1
	}

	results := make([]*Result, len(seeds))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, seed := range seeds {
		i, seed := i, seed
		g.Go(func() error {
			res, err := Audit(ctx, seed, cfg)
			if err != nil {
				return fmt.Errorf("seed %d: %w", seed, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (c Config) validate() error {
	if c.Samples < 2 {
		return fmt.Errorf("audit needs at least 2 samples, got %d", c.Samples)
	}
	if c.Buckets < 2 {
		return fmt.Errorf("audit needs at least 2 buckets, got %d", c.Buckets)
	}
	return nil
}

// evaluate scores raw draws. Buckets are assigned the way Range(0, buckets)
// maps a raw draw.
func evaluate(seed int32, values []int32, buckets int) (*Result, error) {
	data := make([]float64, len(values))
	counts := make([]float64, buckets)
	for i, v := range values {
		data[i] = float64(v) / float64(rng.MaxValue)
		counts[int(int64(v)*int64(buckets)/int64(rng.MaxValue))]++
	}

	summary, err := summarize(data)
	if err != nil {
		return nil, err
	}

	expected := float64(len(values)) / float64(buckets)
	chi := 0.0
	for _, observed := range counts {
		d := observed - expected
		chi += d * d / expected
	}
	dof := buckets - 1
	pValue := 1 - distuv.ChiSquared{K: float64(dof)}.CDF(chi)

	corr, err := stats.Correlation(data[:len(data)-1], data[1:])
	if err != nil {
		return nil, fmt.Errorf("serial correlation: %w", err)
	}

	return &Result{
		Seed:              seed,
		Samples:           len(values),
		Buckets:           buckets,
		Summary:           summary,
		ChiSquare:         chi,
		DegreesOfFreedom:  dof,
		PValue:            pValue,
		SerialCorrelation: corr,
		Passed:            pValue >= MinPValue && math.Abs(corr) < MaxSerialCorrelation,
	}, nil
}

func summarize(data []float64) (Summary, error) {
	var s Summary
	var err error

	if s.Mean, err = stats.Mean(data); err != nil {
		return s, err
	}
	if s.StdDev, err = stats.StandardDeviation(data); err != nil {
		return s, err
	}
	if s.Median, err = stats.Median(data); err != nil {
		return s, err
	}
	if s.P05, err = stats.Percentile(data, 5); err != nil {
		return s, err
	}
	if s.P95, err = stats.Percentile(data, 95); err != nil {
		return s, err
	}
	if s.Min, err = stats.Min(data); err != nil {
		return s, err
	}
	if s.Max, err = stats.Max(data); err != nil {
		return s, err
	}
	s.Skewness = skewness(data, s.Mean, s.StdDev)
	return s, nil
}

// skewness computes sample skewness using the adjusted Fisher-Pearson coefficient
func skewness(data []float64, mean, stdDev float64) float64 {
	if len(data) < 3 || stdDev == 0 {
		return 0
	}

	n := float64(len(data))
	sum := 0.0
	for _, x := range data {
		d := (x - mean) / stdDev
		sum += d * d * d
	}
	return sum / n * math.Sqrt(n*(n-1)) / (n - 2)
}
