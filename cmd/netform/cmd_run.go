package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/collabsim/netform/internal/config"
	"github.com/collabsim/netform/internal/experiment"
	"github.com/collabsim/netform/internal/logging"
	"github.com/collabsim/netform/internal/metrics"
	"github.com/collabsim/netform/internal/store"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the configured experiment and store the results",
		Long: `Run the configured experiment and store the results.

Every (variant, motivation) condition is repeated for the configured number
of trials. Trial seeds derive deterministically from the base seed, so a run
is fully reproducible from its stored configuration.

Examples:
  netform run                                  # classic study defaults
  netform run --config study.yaml --trials 50  # fewer trials per condition
  netform run --seed 99 --variants open        # one variant, fresh seed`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := applyRunFlags(cmd, cfg); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			if cpuprofile, _ := cmd.Flags().GetString("cpuprofile"); cpuprofile != "" {
				defer profile.Start(profile.CPUProfile, profile.ProfilePath(cpuprofile)).Stop()
			}

			log := logging.Stderr(cfg.Logging.Level)
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			log.Info("starting experiment",
				"population", cfg.Population,
				"variants", cfg.Variants,
				"motivations", cfg.Motivations,
				"trials", cfg.Trials,
				"seed", cfg.Seed,
			)
			records, err := experiment.Run(ctx, cfg.Plan(), log)
			if err != nil {
				return err
			}

			// Dry runs go through the same store path, just in memory, so
			// the persistence code is exercised without touching disk.
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			var s store.Store
			if dryRun {
				s = store.NewMemoryStore()
			} else {
				dbPath, _ := cmd.Flags().GetString("db")
				sq, err := store.OpenSQLite(dbPath)
				if err != nil {
					return err
				}
				s = sq
			}
			defer s.Close()

			resolved, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("serializing configuration: %w", err)
			}
			runID, err := s.CreateRun(ctx, string(resolved))
			if err != nil {
				return err
			}
			if err := s.AppendTrials(ctx, runID, records); err != nil {
				return err
			}
			if dryRun {
				runID = "(not stored)"
			}

			printSummary(cmd, runID, cfg, records)
			return nil
		},
	}

	cmd.Flags().Int("trials", 0, "Override trials per condition")
	cmd.Flags().Int64("seed", 0, "Override the base seed")
	cmd.Flags().Int("workers", -1, "Override worker count (0 = one per CPU)")
	cmd.Flags().StringSlice("variants", nil, "Override the variant list")
	cmd.Flags().StringSlice("motivations", nil, "Override the motivation list")
	cmd.Flags().Bool("dry-run", false, "Run without writing to the results database")
	cmd.Flags().String("cpuprofile", "", "Write a CPU profile to this directory")
	return cmd
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Logging.Level = level
	}
	return cfg, nil
}

func applyRunFlags(cmd *cobra.Command, cfg *config.Config) error {
	if cmd.Flags().Changed("trials") {
		cfg.Trials, _ = cmd.Flags().GetInt("trials")
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed, _ = cmd.Flags().GetInt64("seed")
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers, _ = cmd.Flags().GetInt("workers")
	}
	if cmd.Flags().Changed("variants") {
		cfg.Variants, _ = cmd.Flags().GetStringSlice("variants")
	}
	if cmd.Flags().Changed("motivations") {
		cfg.Motivations, _ = cmd.Flags().GetStringSlice("motivations")
	}
	return nil
}

// printSummary writes a per-condition digest to stdout.
func printSummary(cmd *cobra.Command, runID string, cfg *config.Config, records []metrics.TrialRecord) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run %s: %d trials across %d conditions\n",
		runID, len(records), len(cfg.Variants)*len(cfg.Motivations))

	type agg struct {
		label      string
		trials     int
		converged  int
		value      float64
		social     float64
		largest    int
		networks   int
		meanRounds float64
	}
	byCondition := make(map[int]*agg)
	var order []int
	for _, rec := range records {
		a, ok := byCondition[rec.Condition]
		if !ok {
			a = &agg{label: rec.Variant + "/" + rec.Motivation}
			byCondition[rec.Condition] = a
			order = append(order, rec.Condition)
		}
		a.trials++
		if rec.Converged {
			a.converged++
		}
		a.value += rec.TotalIndividualValue
		a.social += rec.TotalSocialValue
		a.largest += rec.LargestNetwork
		a.networks += rec.Networks
		a.meanRounds += float64(rec.Rounds)
	}

	for _, c := range order {
		a := byCondition[c]
		n := float64(a.trials)
		fmt.Fprintf(out, "  %-28s converged %d/%d  mean V %.1f  mean S %.1f  mean networks %.1f  mean largest %.1f  mean rounds %.1f\n",
			a.label, a.converged, a.trials, a.value/n, a.social/n,
			float64(a.networks)/n, float64(a.largest)/n, a.meanRounds/n)
	}
}
