package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/collabsim/netform/internal/metrics"
)

// ExportCSV writes a run's trial records as CSV. Per-objective-type
// fulfillment fractions become one column per type seen in the run, sorted
// by name, so every row has the same width.
func ExportCSV(ctx context.Context, s Store, runID string, w io.Writer) error {
	records, err := s.Trials(ctx, runID)
	if err != nil {
		return err
	}

	types := fulfillmentColumns(records)
	header := []string{
		"condition", "trial", "variant", "motivation", "seed",
		"converged", "rounds", "meetings", "accepted",
		"num_agents", "num_resources", "objectives_per_agent",
		"resource_ratio", "objective_ratio",
		"high_value", "low_value", "high_social_weight", "low_social_weight",
		"networks", "largest_network", "singletons",
		"total_individual_value", "total_social_value",
		"objectives_held", "objectives_fulfilled",
	}
	for _, name := range types {
		header = append(header, "fulfillment_"+name)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, rec := range records {
		row := []string{
			strconv.Itoa(rec.Condition),
			strconv.Itoa(rec.Trial),
			rec.Variant,
			rec.Motivation,
			strconv.FormatInt(rec.Seed, 10),
			strconv.FormatBool(rec.Converged),
			strconv.Itoa(rec.Rounds),
			strconv.Itoa(rec.Meetings),
			strconv.Itoa(rec.Accepted),
			strconv.Itoa(rec.NumAgents),
			strconv.Itoa(rec.NumResources),
			strconv.Itoa(rec.ObjectivesPerAgent),
			formatFloat(rec.ResourceRatio),
			formatFloat(rec.ObjectiveRatio),
			formatFloat(rec.HighValue),
			formatFloat(rec.LowValue),
			formatFloat(rec.HighSocialWeight),
			formatFloat(rec.LowSocialWeight),
			strconv.Itoa(rec.Networks),
			strconv.Itoa(rec.LargestNetwork),
			strconv.Itoa(rec.Singletons),
			formatFloat(rec.TotalIndividualValue),
			formatFloat(rec.TotalSocialValue),
			strconv.Itoa(rec.ObjectivesHeld),
			strconv.Itoa(rec.ObjectivesFulfilled),
		}
		for _, name := range types {
			frac, ok := rec.Fulfillment[name]
			if !ok {
				row = append(row, "")
				continue
			}
			row = append(row, formatFloat(frac))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func fulfillmentColumns(records []metrics.TrialRecord) []string {
	seen := make(map[string]bool)
	for _, rec := range records {
		for name := range rec.Fulfillment {
			seen[name] = true
		}
	}
	types := make([]string, 0, len(seen))
	for name := range seen {
		types = append(types, name)
	}
	sort.Strings(types)
	return types
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
