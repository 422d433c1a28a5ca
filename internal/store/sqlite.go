package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/collabsim/netform/internal/metrics"
)

// SQLiteStore implements Store on a single SQLite database file.
type SQLiteStore struct {
	mu sync.Mutex
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the results database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("opening results database: %w", err)
	}
	// SQLite works best with a single writer.
	db.SetMaxOpenConns(1)

	if err := InitSchema(context.Background(), db); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// CreateRun registers a new run keyed by a fresh ULID, which sorts by
// creation time.
func (s *SQLiteStore) CreateRun(ctx context.Context, config string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := ulid.Make().String()
	now := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, config) VALUES (?, ?, ?)`, id, now, config); err != nil {
		return "", fmt.Errorf("creating run: %w", err)
	}
	return id, nil
}

// AppendTrials stores the records for a run in one transaction.
func (s *SQLiteStore) AppendTrials(ctx context.Context, runID string, records []metrics.TrialRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	var next int
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq)+1, 0) FROM trials WHERE run_id = ?`, runID).Scan(&next); err != nil {
		return fmt.Errorf("finding next sequence: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO trials (
			run_id, seq, condition, trial, variant, motivation, seed,
			converged, rounds, meetings, accepted,
			num_agents, num_resources, objectives_per_agent,
			resource_ratio, objective_ratio,
			high_value, low_value, high_social_weight, low_social_weight,
			networks, largest_network, singletons,
			total_individual_value, total_social_value,
			objectives_held, objectives_fulfilled, fulfillment
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		fulfillment, err := json.Marshal(rec.Fulfillment)
		if err != nil {
			return fmt.Errorf("encoding fulfillment: %w", err)
		}
		if _, err := stmt.ExecContext(ctx,
			runID, next+i, rec.Condition, rec.Trial, rec.Variant, rec.Motivation, rec.Seed,
			boolToInt(rec.Converged), rec.Rounds, rec.Meetings, rec.Accepted,
			rec.NumAgents, rec.NumResources, rec.ObjectivesPerAgent,
			rec.ResourceRatio, rec.ObjectiveRatio,
			rec.HighValue, rec.LowValue, rec.HighSocialWeight, rec.LowSocialWeight,
			rec.Networks, rec.LargestNetwork, rec.Singletons,
			rec.TotalIndividualValue, rec.TotalSocialValue,
			rec.ObjectivesHeld, rec.ObjectivesFulfilled, string(fulfillment),
		); err != nil {
			return fmt.Errorf("inserting trial %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// ListRuns returns all runs, newest first.
func (s *SQLiteStore) ListRuns(ctx context.Context) ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.created_at, r.config, COUNT(t.run_id)
		FROM runs r LEFT JOIN trials t ON t.run_id = r.id
		GROUP BY r.id ORDER BY r.created_at DESC, r.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var created string
		if err := rows.Scan(&r.ID, &created, &r.Config, &r.Trials); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if r.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("parsing run timestamp: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Trials returns a run's records in stored order.
func (s *SQLiteStore) Trials(ctx context.Context, runID string) ([]metrics.TrialRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var exists int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM runs WHERE id = ?`, runID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("checking run: %w", err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("run %s: %w", runID, ErrRunNotFound)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT condition, trial, variant, motivation, seed,
			converged, rounds, meetings, accepted,
			num_agents, num_resources, objectives_per_agent,
			resource_ratio, objective_ratio,
			high_value, low_value, high_social_weight, low_social_weight,
			networks, largest_network, singletons,
			total_individual_value, total_social_value,
			objectives_held, objectives_fulfilled, fulfillment
		FROM trials WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying trials: %w", err)
	}
	defer rows.Close()

	var records []metrics.TrialRecord
	for rows.Next() {
		var rec metrics.TrialRecord
		var converged int
		var fulfillment string
		if err := rows.Scan(
			&rec.Condition, &rec.Trial, &rec.Variant, &rec.Motivation, &rec.Seed,
			&converged, &rec.Rounds, &rec.Meetings, &rec.Accepted,
			&rec.NumAgents, &rec.NumResources, &rec.ObjectivesPerAgent,
			&rec.ResourceRatio, &rec.ObjectiveRatio,
			&rec.HighValue, &rec.LowValue, &rec.HighSocialWeight, &rec.LowSocialWeight,
			&rec.Networks, &rec.LargestNetwork, &rec.Singletons,
			&rec.TotalIndividualValue, &rec.TotalSocialValue,
			&rec.ObjectivesHeld, &rec.ObjectivesFulfilled, &fulfillment,
		); err != nil {
			return nil, fmt.Errorf("scanning trial: %w", err)
		}
		rec.Converged = converged != 0
		if err := json.Unmarshal([]byte(fulfillment), &rec.Fulfillment); err != nil {
			return nil, fmt.Errorf("decoding fulfillment: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
