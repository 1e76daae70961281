package config

import (
	"context"
	"fmt"
	"time"
)

// HandshakeDiagnostics records how long and how many RST attempts the
// most recent connect procedure took (spec.md §4.5 step 3: "Record
// elapsed/attempts for diagnostics").
type HandshakeDiagnostics struct {
	ProfileID  int64
	Attempts   int
	Elapsed    time.Duration
	ResetCode  uint8
	RecordedAt time.Time
}

// RecordHandshake persists a connect-procedure outcome for a profile.
func (s *Store) RecordHandshake(ctx context.Context, profileID int64, attempts int, elapsed time.Duration, resetCode uint8) error {
	_, err := s.ExecContext(ctx, `
		INSERT INTO handshake_diagnostics (profile_id, attempts, elapsed_ms, reset_code)
		VALUES (?, ?, ?, ?)
	`, profileID, attempts, elapsed.Milliseconds(), resetCode)
	if err != nil {
		return fmt.Errorf("config: record handshake diagnostics: %w", err)
	}
	return nil
}

// LatestHandshake returns the most recently recorded handshake outcome
// for a profile, if any.
func (s *Store) LatestHandshake(ctx context.Context, profileID int64) (*HandshakeDiagnostics, error) {
	row := s.QueryRowContext(ctx, `
		SELECT profile_id, attempts, elapsed_ms, reset_code, recorded_at
		FROM handshake_diagnostics
		WHERE profile_id = ?
		ORDER BY recorded_at DESC, id DESC
		LIMIT 1
	`, profileID)

	var d HandshakeDiagnostics
	var elapsedMs int64
	if err := row.Scan(&d.ProfileID, &d.Attempts, &elapsedMs, &d.ResetCode, &d.RecordedAt); err != nil {
		return nil, fmt.Errorf("config: load latest handshake diagnostics: %w", err)
	}
	d.Elapsed = time.Duration(elapsedMs) * time.Millisecond
	return &d, nil
}
