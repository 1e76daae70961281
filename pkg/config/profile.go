package config

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// LinkProfile is a stored serial link configuration: which port to open,
// how to configure flow control, and the DATA payload bound to fragment
// at.
type LinkProfile struct {
	ID             int64
	Name           string
	PortPath       string
	FlowControl    string
	MaxPayloadSize int
	IsActive       bool
	CreatedAt      time.Time
}

// Flow control mode names persisted in link_profiles.flow_control.
const (
	FlowControlRTSCTS  = "rtscts"
	FlowControlXOnXOff = "xonxoff"
)

// Bootstrap inserts a single default link profile marked active, for
// first-run setups where no profile exists yet.
func (s *Store) Bootstrap(ctx context.Context, portPath string) error {
	return s.Tx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO link_profiles (name, port_path, flow_control, max_payload_size, is_active)
			VALUES (?, ?, ?, ?, 1)
		`, "default", portPath, FlowControlRTSCTS, 128)
		if err != nil {
			return fmt.Errorf("config: bootstrap default profile: %w", err)
		}
		return nil
	})
}

// ActiveProfile returns the link profile currently marked active.
func (s *Store) ActiveProfile(ctx context.Context) (*LinkProfile, error) {
	row := s.QueryRowContext(ctx, `
		SELECT id, name, port_path, flow_control, max_payload_size, is_active, created_at
		FROM link_profiles WHERE is_active = 1 LIMIT 1
	`)
	p, err := scanProfile(row)
	if err != nil {
		return nil, fmt.Errorf("config: load active profile: %w", err)
	}
	return p, nil
}

// UpsertProfile inserts or replaces a named profile, without changing
// which profile is active.
func (s *Store) UpsertProfile(ctx context.Context, p LinkProfile) error {
	_, err := s.ExecContext(ctx, `
		INSERT INTO link_profiles (name, port_path, flow_control, max_payload_size, is_active)
		VALUES (?, ?, ?, ?, 0)
		ON CONFLICT(name) DO UPDATE SET
			port_path = excluded.port_path,
			flow_control = excluded.flow_control,
			max_payload_size = excluded.max_payload_size
	`, p.Name, p.PortPath, p.FlowControl, p.MaxPayloadSize)
	if err != nil {
		return fmt.Errorf("config: upsert profile %q: %w", p.Name, err)
	}
	return nil
}

// Activate marks name as the active profile, deactivating all others.
func (s *Store) Activate(ctx context.Context, name string) error {
	return s.Tx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `UPDATE link_profiles SET is_active = 0`); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `UPDATE link_profiles SET is_active = 1 WHERE name = ?`, name)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("config: no such profile %q", name)
		}
		return nil
	})
}

type scannable interface {
	Scan(dest ...any) error
}

func scanProfile(row scannable) (*LinkProfile, error) {
	var p LinkProfile
	var isActive int
	if err := row.Scan(&p.ID, &p.Name, &p.PortPath, &p.FlowControl, &p.MaxPayloadSize, &isActive, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.IsActive = isActive != 0
	return &p, nil
}
