// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pdiddy/cxr-trainer/pkg/types"
)

// SaveSession inserts or updates a session. The full session is stored
// as a JSON payload; kind, case linkage, and timestamps are broken out
// for listing without decoding.
func (s *Store) SaveSession(ctx context.Context, session *types.ReviewSession) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, kind, case_id, created_at, updated_at, payload)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			kind=excluded.kind, case_id=excluded.case_id,
			updated_at=excluded.updated_at, payload=excluded.payload`,
		session.ID, string(session.Kind), session.CaseID,
		session.CreatedAt.UTC().Format(time.RFC3339Nano),
		session.UpdatedAt.UTC().Format(time.RFC3339Nano),
		string(payload),
	)
	if err != nil {
		return fmt.Errorf("saving session %s: %w", session.ID, err)
	}
	return nil
}

// GetSession loads a session by ID.
func (s *Store) GetSession(ctx context.Context, id string) (*types.ReviewSession, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM sessions WHERE id = ?`, id,
	).Scan(&payload)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.ErrSessionNotFound
		}
		return nil, fmt.Errorf("loading session %s: %w", id, err)
	}

	var session types.ReviewSession
	if err := json.Unmarshal([]byte(payload), &session); err != nil {
		return nil, fmt.Errorf("decoding session %s: %w", id, err)
	}
	return &session, nil
}

// SessionInfo is a listing row: identity and timestamps without the
// decoded payload.
type SessionInfo struct {
	ID        string            `json:"id" yaml:"id"`
	Kind      types.SessionKind `json:"kind" yaml:"kind"`
	CaseID    string            `json:"case_id,omitempty" yaml:"case_id,omitempty"`
	CreatedAt time.Time         `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time         `json:"updated_at" yaml:"updated_at"`
}

// ListSessions returns session metadata, most recently updated first.
func (s *Store) ListSessions(ctx context.Context) ([]SessionInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, case_id, created_at, updated_at
		 FROM sessions ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionInfo
	for rows.Next() {
		var (
			info             SessionInfo
			kind             string
			caseID           sql.NullString
			created, updated string
		)
		if err := rows.Scan(&info.ID, &kind, &caseID, &created, &updated); err != nil {
			return nil, fmt.Errorf("scanning session row: %w", err)
		}
		info.Kind = types.SessionKind(kind)
		if caseID.Valid {
			info.CaseID = caseID.String
		}
		info.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		info.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
		out = append(out, info)
	}
	return out, rows.Err()
}

// DeleteSession removes a session and, via cascade, its attempts.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting session %s: %w", id, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return types.ErrSessionNotFound
	}
	return nil
}

// RecordAttempt stores a submitted case analysis. category is
// denormalized from the case so progress queries need no join against
// library data.
func (s *Store) RecordAttempt(ctx context.Context, attempt types.CaseAttempt, category types.CaseCategory) error {
	correct := 0
	if attempt.Correct {
		correct = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO case_attempts
			(session_id, case_id, category, created_at, submitted_diagnosis, correct, regions_completed)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		attempt.SessionID, attempt.CaseID, string(category),
		attempt.CreatedAt.UTC().Format(time.RFC3339Nano),
		attempt.SubmittedDiagnosis, correct, attempt.RegionsCompleted,
	)
	if err != nil {
		return fmt.Errorf("recording attempt for case %s: %w", attempt.CaseID, err)
	}
	return nil
}

// Progress aggregates stored sessions and attempts into a learning
// summary.
func (s *Store) Progress(ctx context.Context) (types.ProgressSummary, error) {
	summary := types.ProgressSummary{
		ByCategory: make(map[types.CaseCategory]types.CategoryProgress),
		ByRegion:   make(map[types.Region]int),
	}

	if err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM sessions`,
	).Scan(&summary.SessionCount); err != nil {
		return summary, fmt.Errorf("counting sessions: %w", err)
	}

	if err := s.regionCompletion(ctx, summary.ByRegion); err != nil {
		return summary, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT category, count(*), sum(correct) FROM case_attempts GROUP BY category`)
	if err != nil {
		return summary, fmt.Errorf("aggregating attempts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			category  sql.NullString
			attempted int
			correct   sql.NullInt64
		)
		if err := rows.Scan(&category, &attempted, &correct); err != nil {
			return summary, fmt.Errorf("scanning attempt row: %w", err)
		}
		cp := types.CategoryProgress{Attempted: attempted, Correct: int(correct.Int64)}
		summary.ByCategory[types.CaseCategory(category.String)] = cp
		summary.AttemptCount += cp.Attempted
		summary.CorrectCount += cp.Correct
	}
	if err := rows.Err(); err != nil {
		return summary, err
	}

	if summary.AttemptCount > 0 {
		if err := s.db.QueryRowContext(ctx,
			`SELECT avg(regions_completed) FROM case_attempts`,
		).Scan(&summary.AvgRegionsReviewed); err != nil {
			return summary, fmt.Errorf("averaging reviewed regions: %w", err)
		}
	}
	return summary, nil
}

// regionCompletion decodes stored session payloads and counts, per
// review region, how many sessions completed it.
func (s *Store) regionCompletion(ctx context.Context, byRegion map[types.Region]int) error {
	rows, err := s.db.QueryContext(ctx, `SELECT payload FROM sessions`)
	if err != nil {
		return fmt.Errorf("loading session payloads: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return fmt.Errorf("scanning session payload: %w", err)
		}
		var session types.ReviewSession
		if err := json.Unmarshal([]byte(payload), &session); err != nil {
			return fmt.Errorf("decoding session payload: %w", err)
		}
		for _, region := range types.ReviewSequence {
			if entry, ok := session.Regions[region]; ok && entry.Complete() {
				byRegion[region]++
			}
		}
	}
	return rows.Err()
}
