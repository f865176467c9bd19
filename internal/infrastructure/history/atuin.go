package history

import (
	"context"
	"database/sql"
	"net/url"
	"strings"

	_ "modernc.org/sqlite"
)

// readAtuin reads commands from an atuin history.db, oldest first. The
// database is opened read-only so a missing or foreign file is never created
// or altered.
func readAtuin(ctx context.Context, path string) ([]string, error) {
	dsn := (&url.URL{Scheme: "file", Path: path, RawQuery: "mode=ro"}).String()
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT command FROM history ORDER BY timestamp ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []string
	for rows.Next() {
		var command string
		if err := rows.Scan(&command); err != nil {
			return nil, err
		}
		if command = strings.TrimSpace(command); command != "" {
			entries = append(entries, command)
		}
	}
	return entries, rows.Err()
}
