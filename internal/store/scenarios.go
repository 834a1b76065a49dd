package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hargabyte/agentsizer/internal/scenario"
)

// Summary is a scenario listing row.
type Summary struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Mode        string    `json:"mode" yaml:"mode"`
	ContentHash string    `json:"content_hash" yaml:"content_hash"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"updated_at"`
}

// Revision is one committed version of a scenario in a Dolt store.
type Revision struct {
	Commit      string    `json:"commit" yaml:"commit"`
	Committer   string    `json:"committer" yaml:"committer"`
	CommittedAt time.Time `json:"committed_at" yaml:"committed_at"`
	ContentHash string    `json:"content_hash" yaml:"content_hash"`
	Name        string    `json:"name" yaml:"name"`
}

// SaveScenario inserts or replaces a scenario. The creation time of an
// existing row is kept.
func (s *Store) SaveScenario(ctx context.Context, sc scenario.Scenario) error {
	if sc.ID == "" {
		return fmt.Errorf("save scenario: missing id")
	}

	body, err := scenario.CanonicalJSON(sc)
	if err != nil {
		return fmt.Errorf("save scenario %s: %w", sc.ID, err)
	}
	hash, err := scenario.Hash(sc)
	if err != nil {
		return fmt.Errorf("save scenario %s: %w", sc.ID, err)
	}
	now := s.now().Format(time.RFC3339)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var existing string
	err = tx.QueryRowContext(ctx, "SELECT id FROM scenarios WHERE id = ?", sc.ID).Scan(&existing)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = tx.ExecContext(ctx, `
			INSERT INTO scenarios (id, name, mode, content_hash, body, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			sc.ID, sc.Name, string(sc.EffectiveMode()), hash, string(body), now, now)
		if err != nil {
			return fmt.Errorf("insert scenario: %w", err)
		}
	case err != nil:
		return fmt.Errorf("check scenario: %w", err)
	default:
		_, err = tx.ExecContext(ctx, `
			UPDATE scenarios SET name = ?, mode = ?, content_hash = ?, body = ?, updated_at = ?
			WHERE id = ?`,
			sc.Name, string(sc.EffectiveMode()), hash, string(body), now, sc.ID)
		if err != nil {
			return fmt.Errorf("update scenario: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return s.commit(ctx, fmt.Sprintf("save scenario %s (%s)", sc.ID, hash))
}

// GetScenario loads a scenario by ID. A missing scenario yields an error
// wrapping scenario.ErrNotFound.
func (s *Store) GetScenario(ctx context.Context, id string) (scenario.Scenario, error) {
	var body string
	err := s.db.QueryRowContext(ctx, "SELECT body FROM scenarios WHERE id = ?", id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return scenario.Scenario{}, fmt.Errorf("%w: %s", scenario.ErrNotFound, id)
	}
	if err != nil {
		return scenario.Scenario{}, fmt.Errorf("query scenario: %w", err)
	}

	var sc scenario.Scenario
	if err := json.Unmarshal([]byte(body), &sc); err != nil {
		return scenario.Scenario{}, fmt.Errorf("decode scenario %s: %w", id, err)
	}
	return sc, nil
}

// ListScenarios returns all scenarios ordered by most recent update.
func (s *Store) ListScenarios(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, mode, content_hash, created_at, updated_at
		FROM scenarios ORDER BY updated_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list scenarios: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sum Summary
		var created, updated string
		if err := rows.Scan(&sum.ID, &sum.Name, &sum.Mode, &sum.ContentHash, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan scenario: %w", err)
		}
		sum.CreatedAt, _ = time.Parse(time.RFC3339, created)
		sum.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
		out = append(out, sum)
	}
	return out, rows.Err()
}

// DeleteScenario removes a scenario.
func (s *Store) DeleteScenario(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM scenarios WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete scenario: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete scenario: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", scenario.ErrNotFound, id)
	}
	return s.commit(ctx, "delete scenario "+id)
}

// History lists committed versions of a scenario, newest first.
// Only the Dolt backend keeps history.
func (s *Store) History(ctx context.Context, id string) ([]Revision, error) {
	if s.backend != BackendDolt {
		return nil, ErrNotVersioned
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT commit_hash, committer, commit_date, content_hash, name
		FROM dolt_history_scenarios
		WHERE id = ?
		ORDER BY commit_date DESC`, id)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []Revision
	for rows.Next() {
		var r Revision
		if err := rows.Scan(&r.Commit, &r.Committer, &r.CommittedAt, &r.ContentHash, &r.Name); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s", scenario.ErrNotFound, id)
	}
	return out, nil
}

// commit records a Dolt commit. It is a no-op on SQLite.
func (s *Store) commit(ctx context.Context, msg string) error {
	if s.backend != BackendDolt {
		return nil
	}
	if _, err := s.db.ExecContext(ctx, "CALL dolt_commit('-A', '--allow-empty', '-m', ?)", msg); err != nil {
		return fmt.Errorf("dolt commit: %w", err)
	}
	return nil
}
