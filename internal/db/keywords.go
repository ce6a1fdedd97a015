package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/job-match-engine/internal/types"
)

// SaveKeywordSnapshot stores the freshly fetched keyword list so a later
// run can fall back to it when the provider is unreachable.
func (db *DB) SaveKeywordSnapshot(ctx context.Context, entries []types.KeywordEntry) error {
	payload, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal keyword snapshot: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO keyword_snapshots (content) VALUES ($1)`,
		payload,
	)
	if err != nil {
		return fmt.Errorf("failed to save keyword snapshot: %w", err)
	}
	return nil
}

// LoadKeywordSnapshot returns the most recent stored keyword list, or nil
// when none has ever been saved.
func (db *DB) LoadKeywordSnapshot(ctx context.Context) ([]types.KeywordEntry, error) {
	var payload []byte
	err := db.pool.QueryRow(ctx,
		`SELECT content FROM keyword_snapshots ORDER BY created_at DESC LIMIT 1`,
	).Scan(&payload)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load keyword snapshot: %w", err)
	}

	var entries []types.KeywordEntry
	if err := json.Unmarshal(payload, &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal keyword snapshot: %w", err)
	}
	return entries, nil
}
