package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/collabsim/netform/internal/model"
	"github.com/collabsim/netform/internal/pool"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration and print the resolved pools",
		Long: `Validate the configuration and print the resolved pools.

Checks both the experiment settings and the pool sizing: prevalence ratios
must divide the population and objective totals into exact integer shares,
and every (letter, tier) pair must receive at least one unit. Nothing is
run and nothing is stored.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			pools, err := pool.Build(cfg.PoolSpec())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "configuration valid: %d agents, %d resource types, %d objectives each\n",
				cfg.Population, cfg.Resources, cfg.ObjectivesPerAgent)
			fmt.Fprintf(out, "conditions: %d variants x %d motivations, %d trials each (seed %d)\n",
				len(cfg.Variants), len(cfg.Motivations), cfg.Trials, cfg.Seed)

			fmt.Fprintln(out, "resource pool:")
			for _, letter := range pool.Letters(cfg.Resources) {
				fmt.Fprintf(out, "  %s: %d units\n", letter, pools.ResourceCounts[letter])
			}

			fmt.Fprintln(out, "objective pool:")
			types := make([]model.ObjectiveType, 0, len(pools.ObjectiveCounts))
			for ot := range pools.ObjectiveCounts {
				types = append(types, ot)
			}
			sort.Slice(types, func(i, j int) bool {
				return types[i].String() < types[j].String()
			})
			for _, ot := range types {
				value := cfg.Values.High
				if ot.Tier == model.TierLow {
					value = cfg.Values.Low
				}
				fmt.Fprintf(out, "  %s: %d units (value %g)\n", ot, pools.ObjectiveCounts[ot], value)
			}
			return nil
		},
	}
}
