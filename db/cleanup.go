package db

import (
	"context"
	"fmt"
	"time"
)

// CleanupResult reports what Cleanup removed.
type CleanupResult struct {
	BuildsDeleted int64
	Duration      time.Duration
}

// Cleanup deletes builds that started more than retentionDays ago, with
// their steps and artifacts, and reclaims the space. Zero deletes every
// build.
func (d *Database) Cleanup(ctx context.Context, retentionDays int) (CleanupResult, error) {
	start := time.Now()
	var result CleanupResult

	if retentionDays < 0 {
		return result, fmt.Errorf("retentionDays must be non-negative, got %d", retentionDays)
	}
	conn := d.DB()
	if conn == nil {
		return result, fmt.Errorf("database is closed")
	}

	cutoff := start.AddDate(0, 0, -retentionDays).UnixMilli()
	if retentionDays == 0 {
		cutoff = start.UnixMilli() + 1
	}

	res, err := conn.ExecContext(ctx, `DELETE FROM builds WHERE started_at < ?`, cutoff)
	if err != nil {
		return result, fmt.Errorf("failed to delete builds: %w", err)
	}
	if result.BuildsDeleted, err = res.RowsAffected(); err != nil {
		return result, fmt.Errorf("failed to count deleted builds: %w", err)
	}

	if result.BuildsDeleted > 0 {
		if _, err := conn.ExecContext(ctx, `VACUUM`); err != nil {
			return result, fmt.Errorf("failed to vacuum: %w", err)
		}
	}

	result.Duration = time.Since(start)
	return result, nil
}
