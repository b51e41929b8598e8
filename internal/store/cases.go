// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/pdiddy/cxr-trainer/pkg/types"
)

// PutCase stores an imported or user-created case. With overwrite false
// an existing ID is an error, so a re-imported bundle cannot silently
// clobber edits.
func (s *Store) PutCase(ctx context.Context, c types.Case, source string, overwrite bool) error {
	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding case %s: %w", c.ID, err)
	}

	if !overwrite {
		var exists int
		err := s.db.QueryRowContext(ctx,
			`SELECT count(*) FROM cases WHERE id = ?`, c.ID,
		).Scan(&exists)
		if err != nil {
			return fmt.Errorf("checking case %s: %w", c.ID, err)
		}
		if exists > 0 {
			return fmt.Errorf("case %s: %w", c.ID, types.ErrCaseExists)
		}
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO cases (id, source, payload) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET source=excluded.source, payload=excluded.payload`,
		c.ID, source, string(payload),
	)
	if err != nil {
		return fmt.Errorf("storing case %s: %w", c.ID, err)
	}
	return s.indexCase(ctx, c)
}

// GetCase loads a stored case by ID.
func (s *Store) GetCase(ctx context.Context, id string) (types.Case, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM cases WHERE id = ?`, id,
	).Scan(&payload)
	if err != nil {
		if err == sql.ErrNoRows {
			return types.Case{}, types.ErrCaseNotFound
		}
		return types.Case{}, fmt.Errorf("loading case %s: %w", id, err)
	}

	var c types.Case
	if err := json.Unmarshal([]byte(payload), &c); err != nil {
		return types.Case{}, fmt.Errorf("decoding case %s: %w", id, err)
	}
	return c, nil
}

// ListCases returns all stored cases matching the filter.
func (s *Store) ListCases(ctx context.Context, filter types.CaseFilter) ([]types.Case, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT payload FROM cases ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing cases: %w", err)
	}
	defer rows.Close()

	var out []types.Case
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scanning case row: %w", err)
		}
		var c types.Case
		if err := json.Unmarshal([]byte(payload), &c); err != nil {
			return nil, fmt.Errorf("decoding case: %w", err)
		}
		if filter.Matches(c) {
			out = append(out, c)
		}
	}
	return out, rows.Err()
}
