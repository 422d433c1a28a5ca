package store

import (
	"context"
	"database/sql"
	"fmt"
)

// SchemaVersion is the current schema version.
const SchemaVersion = 1

const schemaV1 = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    created_at TEXT NOT NULL,
    config TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS trials (
    run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    seq INTEGER NOT NULL,  -- position within the run

    condition INTEGER NOT NULL,
    trial INTEGER NOT NULL,
    variant TEXT NOT NULL,
    motivation TEXT NOT NULL,
    seed INTEGER NOT NULL,

    converged INTEGER NOT NULL,
    rounds INTEGER NOT NULL,
    meetings INTEGER NOT NULL,
    accepted INTEGER NOT NULL,

    num_agents INTEGER NOT NULL,
    num_resources INTEGER NOT NULL,
    objectives_per_agent INTEGER NOT NULL,
    resource_ratio REAL NOT NULL,
    objective_ratio REAL NOT NULL,
    high_value REAL NOT NULL,
    low_value REAL NOT NULL,
    high_social_weight REAL NOT NULL,
    low_social_weight REAL NOT NULL,

    networks INTEGER NOT NULL,
    largest_network INTEGER NOT NULL,
    singletons INTEGER NOT NULL,

    total_individual_value REAL NOT NULL,
    total_social_value REAL NOT NULL,
    objectives_held INTEGER NOT NULL,
    objectives_fulfilled INTEGER NOT NULL,
    fulfillment TEXT NOT NULL,  -- JSON object: objective type -> fraction

    PRIMARY KEY (run_id, seq)
);
CREATE INDEX IF NOT EXISTS idx_trials_condition ON trials(run_id, condition);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY
);
`

// InitSchema creates the schema if needed and records the version.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaV1); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	if _, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO schema_version (version) VALUES (?)`, SchemaVersion); err != nil {
		return fmt.Errorf("recording schema version: %w", err)
	}
	return nil
}
