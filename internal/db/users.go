package db

import (
	"context"
	"fmt"

	"github.com/jonathan/job-match-engine/internal/profile"
)

// LoadSeedRegionCounts reads the legacy "code:count" region seeds still
// carried on user rows. The delimited encoding is parsed into typed maps
// right here and never travels further; malformed fragments are dropped,
// the valid ones kept.
func (db *DB) LoadSeedRegionCounts(ctx context.Context) (map[string]map[string]int, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, seed_region_counts FROM users
		 WHERE seed_region_counts IS NOT NULL AND seed_region_counts <> ''`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load seed region counts: %w", err)
	}
	defer rows.Close()

	seeds := make(map[string]map[string]int)
	for rows.Next() {
		var userID, encoded string
		if err := rows.Scan(&userID, &encoded); err != nil {
			return nil, fmt.Errorf("failed to scan seed row: %w", err)
		}
		counts, parseErr := profile.ParseCountMap(encoded)
		if parseErr != nil {
			fmt.Printf("Warning: Seed counts for user %s: %v\n", userID, parseErr)
		}
		if len(counts) > 0 {
			seeds[userID] = counts
		}
	}
	return seeds, rows.Err()
}
