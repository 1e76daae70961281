package config

import (
	"context"
	"fmt"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS link_profiles (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	name             TEXT NOT NULL UNIQUE,
	port_path        TEXT NOT NULL,
	flow_control     TEXT NOT NULL,
	max_payload_size INTEGER NOT NULL,
	is_active        INTEGER NOT NULL DEFAULT 0,
	created_at       TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS handshake_diagnostics (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	profile_id  INTEGER NOT NULL REFERENCES link_profiles(id),
	attempts    INTEGER NOT NULL,
	elapsed_ms  INTEGER NOT NULL,
	reset_code  INTEGER NOT NULL,
	recorded_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// Migrate creates the schema if it does not already exist. Safe to call
// on every startup.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.ExecContext(ctx, schemaDDL); err != nil {
		return fmt.Errorf("config: migrate: %w", err)
	}
	return nil
}

// NeedsBootstrap reports whether no link profile has been configured yet.
func (s *Store) NeedsBootstrap(ctx context.Context) (bool, error) {
	var count int
	row := s.QueryRowContext(ctx, `SELECT COUNT(*) FROM link_profiles`)
	if err := row.Scan(&count); err != nil {
		return false, fmt.Errorf("config: count link profiles: %w", err)
	}
	return count == 0, nil
}
