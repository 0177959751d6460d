package postgres

import (
	"context"
	"database/sql"

	"pocketcalendar/internal/domain"
)

// Migrate creates the events table and its date index if they do not exist.
// Dates are stored as epoch days, times of day as milliseconds since local
// midnight, colors as 32-bit ARGB values widened to BIGINT.
func Migrate(ctx context.Context, db *sql.DB) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS events (
			id          BIGSERIAL PRIMARY KEY,
			title       TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			start_time  BIGINT NOT NULL,
			end_time    BIGINT NOT NULL,
			date        BIGINT NOT NULL,
			color       BIGINT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_events_date ON events (date);
	`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return &domain.StorageError{Op: "migrate events table", Err: err}
	}
	return nil
}
