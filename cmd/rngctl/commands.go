package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"replayrng/adapters/excel"
	"replayrng/adapters/stream"
	"replayrng/domain/rng"
	"replayrng/internal"
	"replayrng/internal/config"
	"replayrng/internal/container"
	apperrors "replayrng/internal/errors"
	"replayrng/internal/quality"
	"replayrng/internal/report"
	"replayrng/internal/server"
	"replayrng/internal/validation"
)

// cli carries configuration shared by every command
type cli struct {
	config *config.Config
	logger *internal.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:           "rngctl",
		Short:         "Inspect, replay and audit deterministic random streams",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			c.config = cfg
			c.logger = internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel))
			return nil
		},
	}

	rootCmd.AddCommand(
		c.newSeqCmd(),
		c.newPeekCmd(),
		c.newRangeCmd(),
		c.newRestoreCmd(),
		c.newStreamCmd(),
		c.newExportCmd(),
		c.newVerifyCmd(),
		c.newAuditCmd(),
		c.newSnapshotsCmd(),
		c.newServeCmd(),
	)
	return rootCmd
}

// seed returns the --seed flag, or DEFAULT_SEED when the flag is unset.
func (c *cli) seed(cmd *cobra.Command, seed int32) int32 {
	if cmd.Flags().Changed("seed") {
		return seed
	}
	return c.config.Engine.DefaultSeed
}

// checkDistance refuses replays longer than MAX_RESTORE_DISTANCE.
func (c *cli) checkDistance(count int) error {
	if count > c.config.Engine.MaxRestoreDistance {
		return apperrors.RestoreTooFar(count, c.config.Engine.MaxRestoreDistance)
	}
	return nil
}

func (c *cli) newSeqCmd() *cobra.Command {
	var seed int32
	var count, from int

	cmd := &cobra.Command{
		Use:   "seq",
		Short: "Print raw draws of a seed",
		Long: `Print count raw draws of a seed, starting after from draws.

Example: rngctl seq --seed 12345 --count 5 --from 1000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.checkDistance(from + count); err != nil {
				return err
			}
			gen := rng.New(c.seed(cmd, seed))
			if err := gen.Restore(from); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i := 0; i < count; i++ {
				draw := gen.Count()
				fmt.Fprintf(out, "%d\t%d\n", draw, gen.Next())
			}
			return nil
		},
	}

	cmd.Flags().Int32Var(&seed, "seed", 0, "Generator seed (default DEFAULT_SEED)")
	cmd.Flags().IntVar(&count, "count", 10, "Number of draws to print")
	cmd.Flags().IntVar(&from, "from", 0, "Draws to skip before printing")

	return cmd
}

func (c *cli) newPeekCmd() *cobra.Command {
	var seed int32
	var at int

	cmd := &cobra.Command{
		Use:   "peek",
		Short: "Print the value a seed yields after a number of draws",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.checkDistance(at); err != nil {
				return err
			}
			gen := rng.New(c.seed(cmd, seed))
			if err := gen.Restore(at); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d\n", gen.Peek())
			return nil
		},
	}

	cmd.Flags().Int32Var(&seed, "seed", 0, "Generator seed (default DEFAULT_SEED)")
	cmd.Flags().IntVar(&at, "at", 0, "Draw count to peek at")

	return cmd
}

func (c *cli) newRangeCmd() *cobra.Command {
	var seed int32
	var min, max float64
	var inclusive, float bool
	var count int

	cmd := &cobra.Command{
		Use:   "range",
		Short: "Print draws mapped into [min, max) or [min, max]",
		Long: `Print draws mapped into a range. Integer ranges exclude max unless
--inclusive is set; float ranges include max unless --inclusive=false.

Example: rngctl range --seed 12345 --min 1 --max 6 --inclusive --count 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.checkDistance(count); err != nil {
				return err
			}
			gen := rng.New(c.seed(cmd, seed))
			out := cmd.OutOrStdout()

			if float {
				maxInclusive := inclusive || !cmd.Flags().Changed("inclusive")
				for i := 0; i < count; i++ {
					v, err := gen.RangeFloat(float32(min), float32(max), maxInclusive)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "%g\n", v)
				}
				return nil
			}

			if min != float64(int32(min)) || max != float64(int32(max)) {
				return apperrors.InvalidInput("integer ranges need 32-bit integer bounds")
			}
			for i := 0; i < count; i++ {
				v, err := gen.Range(int32(min), int32(max), inclusive)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%d\n", v)
			}
			return nil
		},
	}

	cmd.Flags().Int32Var(&seed, "seed", 0, "Generator seed (default DEFAULT_SEED)")
	cmd.Flags().Float64Var(&min, "min", 0, "Lower bound (inclusive)")
	cmd.Flags().Float64Var(&max, "max", 100, "Upper bound")
	cmd.Flags().BoolVar(&inclusive, "inclusive", false, "Include the upper bound")
	cmd.Flags().BoolVar(&float, "float", false, "Draw floating point values")
	cmd.Flags().IntVar(&count, "count", 1, "Number of draws")

	return cmd
}

func (c *cli) newRestoreCmd() *cobra.Command {
	var seed int32
	var draw, to int

	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Draw, rewind to an earlier count and show the replayed state",
		Long: `Take --draw draws, restore the generator to --to and print the state
before and after together with the next value. Restoring replays from the
seed, so the result never depends on how far the generator had advanced.

Example: rngctl restore --seed 12345 --draw 1000 --to 1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.checkDistance(draw); err != nil {
				return err
			}
			if err := c.checkDistance(to); err != nil {
				return err
			}
			gen := rng.New(c.seed(cmd, seed))
			for i := 0; i < draw; i++ {
				gen.Next()
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "before: %s\n", gen)

			if err := gen.Restore(to); err != nil {
				return err
			}
			fmt.Fprintf(out, "after:  %s\n", gen)
			fmt.Fprintf(out, "next:   %d\n", gen.Next())
			return nil
		},
	}

	cmd.Flags().Int32Var(&seed, "seed", 0, "Generator seed (default DEFAULT_SEED)")
	cmd.Flags().IntVar(&draw, "draw", 100, "Draws to take before restoring")
	cmd.Flags().IntVar(&to, "to", 0, "Draw count to restore to")

	return cmd
}

func (c *cli) newStreamCmd() *cobra.Command {
	var baseSeed int32
	var run, stage, key string
	var count int

	cmd := &cobra.Command{
		Use:   "stream",
		Short: "Print draws of a named stream derived from a base seed",
		Long: `Derive a child seed from a base seed and run/stage/key labels, then
print its first draws. The same labels always give the same stream.

Example: rngctl stream --base-seed 12345 --run run-1 --stage shuffle --key deck`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.checkDistance(count); err != nil {
				return err
			}
			base := c.config.Engine.DefaultSeed
			if cmd.Flags().Changed("base-seed") {
				base = baseSeed
			}
			gen, err := stream.NewAdapter().Stream(cmd.Context(), run, stage, key, base)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "seed %d\n", gen.Seed())
			for i := 0; i < count; i++ {
				fmt.Fprintf(out, "%d\n", gen.Next())
			}
			return nil
		},
	}

	cmd.Flags().Int32Var(&baseSeed, "base-seed", 0, "Base seed (default DEFAULT_SEED)")
	cmd.Flags().StringVar(&run, "run", "", "Run identifier")
	cmd.Flags().StringVar(&stage, "stage", "", "Stage name")
	cmd.Flags().StringVar(&key, "key", "", "Stream key")
	cmd.Flags().IntVar(&count, "count", 5, "Number of draws")

	return cmd
}

func (c *cli) newExportCmd() *cobra.Command {
	var seed int32
	var count, from int
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write draws to an xlsx workbook usable as a golden fixture",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.checkDistance(from + count); err != nil {
				return err
			}
			return excel.NewSequenceWriter(c.logger).WriteSequence(outPath, c.seed(cmd, seed), from, count)
		},
	}

	cmd.Flags().Int32Var(&seed, "seed", 0, "Generator seed (default DEFAULT_SEED)")
	cmd.Flags().IntVar(&count, "count", 1000, "Number of draws")
	cmd.Flags().IntVar(&from, "from", 0, "Draws to skip before exporting")
	cmd.Flags().StringVar(&outPath, "out", "sequence.xlsx", "Output workbook")

	return cmd
}

func (c *cli) newVerifyCmd() *cobra.Command {
	var fixture string
	var seeds []int32
	var draws int

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check pinned fixtures and determinism properties",
		Long: `Compare a golden fixture (xlsx or csv with seed, draw and value columns)
against fresh generators, and run the determinism checks for --seeds.

Example: rngctl verify --fixture golden.xlsx --seeds 1,2,12345`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if fixture != "" {
				rows, err := excel.NewDataReader(fixture, c.logger).ReadFixture()
				if err != nil {
					return err
				}
				expectations := make([]validation.Expectation, len(rows))
				for i, r := range rows {
					expectations[i] = validation.Expectation{Seed: r.Seed, Draw: r.Draw, Value: r.Value}
				}
				if err := validation.CheckFixture(expectations, c.config.Engine.MaxRestoreDistance); err != nil {
					return err
				}
				fmt.Fprintf(out, "fixture %s: %d draws match\n", fixture, len(rows))
			}

			if len(seeds) == 0 {
				return nil
			}
			v := validation.NewVerifier(validation.Config{Draws: draws, Capacity: int64(c.config.Audit.Workers) * 2}, c.logger)
			reports, err := v.Run(cmd.Context(), seeds)
			if err != nil {
				return err
			}
			failed := 0
			for _, r := range reports {
				for _, check := range r.Checks {
					status := "ok"
					if !check.Passed {
						status = "FAIL " + check.Detail
						failed++
					}
					fmt.Fprintf(out, "seed %d %s: %s\n", r.Seed, check.Name, status)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d checks failed", failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&fixture, "fixture", "", "Golden fixture file (xlsx or csv)")
	cmd.Flags().Int32SliceVar(&seeds, "seeds", nil, "Seeds to run determinism checks for")
	cmd.Flags().IntVar(&draws, "draws", validation.DefaultConfig.Draws, "Draws per check")

	return cmd
}

func (c *cli) newAuditCmd() *cobra.Command {
	var seeds []int32
	var samples, buckets int
	var outPath string

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Run the statistical audit and determinism checks and write a report",
		Long: `Audit the output of each seed (distribution, chi-square uniformity and
lag-1 correlation), run the determinism checks and print a markdown report.
With --html the report is also written as a standalone HTML page.

Example: rngctl audit --seeds 1,42,12345 --samples 100000 --html audit.html`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(seeds) == 0 {
				seeds = []int32{c.config.Engine.DefaultSeed}
			}
			cfg := quality.Config{Samples: c.config.Audit.Samples, Buckets: c.config.Audit.Buckets}
			if cmd.Flags().Changed("samples") {
				cfg.Samples = samples
			}
			if cmd.Flags().Changed("buckets") {
				cfg.Buckets = buckets
			}

			audits, err := quality.AuditSeeds(cmd.Context(), seeds, cfg, c.config.Audit.Workers)
			if err != nil {
				return err
			}
			v := validation.NewVerifier(validation.Config{Capacity: int64(c.config.Audit.Workers) * 2}, c.logger)
			checks, err := v.Run(cmd.Context(), seeds)
			if err != nil {
				return err
			}

			r := report.New("replayrng audit")
			r.Audits = audits
			r.Verification = checks
			cmd.OutOrStdout().Write(r.Markdown())

			if outPath != "" {
				if err := r.WriteFile(outPath); err != nil {
					return err
				}
				c.logger.Info("Report written to %s", outPath)
			}
			if !r.Passed() {
				return fmt.Errorf("audit failed")
			}
			return nil
		},
	}

	cmd.Flags().Int32SliceVar(&seeds, "seeds", nil, "Seeds to audit (default DEFAULT_SEED)")
	cmd.Flags().IntVar(&samples, "samples", 0, "Draws per seed (default AUDIT_SAMPLES)")
	cmd.Flags().IntVar(&buckets, "buckets", 0, "Chi-square buckets (default AUDIT_BUCKETS)")
	cmd.Flags().StringVar(&outPath, "html", "", "Also write the report to this file")

	return cmd
}

func (c *cli) newSnapshotsCmd() *cobra.Command {
	var seed int32
	var limit int

	cmd := &cobra.Command{
		Use:   "snapshots",
		Short: "List persisted snapshots for a seed",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctr, err := container.New(c.config, c.logger)
			if err != nil {
				return err
			}
			if err := ctr.Init(cmd.Context()); err != nil {
				return err
			}
			defer ctr.Shutdown(cmd.Context())

			records, err := ctr.GeneratorService.ListSnapshots(cmd.Context(), c.seed(cmd, seed), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, r := range records {
				fmt.Fprintf(out, "%s\t%s\tcount=%d\t%s\t%s\n", r.ID, r.CreatedAt.Time().Format("2006-01-02T15:04:05Z07:00"), r.Count, r.Fingerprint, r.Label)
			}
			return nil
		},
	}

	cmd.Flags().Int32Var(&seed, "seed", 0, "Generator seed (default DEFAULT_SEED)")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum snapshots to list")

	return cmd
}

func (c *cli) newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the generator session API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return server.Run(ctx, c.config, c.logger)
		},
	}
}
