package pg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/sessiond/internal/domain/repository"
)

// SessionRepository implementa repository.SessionRepository. El contexto
// descriptivo (app, cliente, ubicación) se persiste como JSONB: se escribe
// una vez al crear la sesión y no participa de ningún WHERE.
type SessionRepository struct{ s *Store }

func NewSessionRepository(s *Store) *SessionRepository { return &SessionRepository{s: s} }

var _ repository.SessionRepository = (*SessionRepository)(nil)

const sessionColumns = `id, user_id, is_active, token, app, client, location, created_at, deactivated_at, deactivated_by_session_id`

func scanSession(row pgx.Row) (*repository.Session, error) {
	var (
		sess                   repository.Session
		appRaw, cliRaw, locRaw []byte
	)
	err := row.Scan(
		&sess.ID, &sess.UserID, &sess.IsActive, &sess.Token,
		&appRaw, &cliRaw, &locRaw,
		&sess.CreatedAt, &sess.DeactivatedAt, &sess.DeactivatedBySessionID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan session: %w", err)
	}
	if len(appRaw) > 0 {
		if err := json.Unmarshal(appRaw, &sess.App); err != nil {
			return nil, fmt.Errorf("decode app snapshot: %w", err)
		}
	}
	if len(cliRaw) > 0 {
		if err := json.Unmarshal(cliRaw, &sess.Client); err != nil {
			return nil, fmt.Errorf("decode client info: %w", err)
		}
	}
	if len(locRaw) > 0 {
		if err := json.Unmarshal(locRaw, &sess.Location); err != nil {
			return nil, fmt.Errorf("decode location: %w", err)
		}
	}
	return &sess, nil
}

func (r *SessionRepository) Create(ctx context.Context, input repository.CreateSessionInput) (*repository.Session, error) {
	appRaw, err := json.Marshal(input.App)
	if err != nil {
		return nil, fmt.Errorf("encode app snapshot: %w", err)
	}
	cliRaw, err := json.Marshal(input.Client)
	if err != nil {
		return nil, fmt.Errorf("encode client info: %w", err)
	}
	locRaw, err := json.Marshal(input.Location)
	if err != nil {
		return nil, fmt.Errorf("encode location: %w", err)
	}

	q := `
		INSERT INTO session (id, user_id, is_active, token, app, client, location)
		VALUES ($1, $2, TRUE, $3, $4, $5, $6)
		RETURNING ` + sessionColumns

	sess, err := scanSession(r.s.pool.QueryRow(ctx, q,
		input.ID, input.UserID, input.Token, appRaw, cliRaw, locRaw))
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}
	return sess, nil
}

func (r *SessionRepository) GetByID(ctx context.Context, sessionID string) (*repository.Session, error) {
	q := `SELECT ` + sessionColumns + ` FROM session WHERE id = $1`
	return scanSession(r.s.pool.QueryRow(ctx, q, sessionID))
}

// Deactivate solo toca filas activas: repetir la operación sobre la misma
// sesión retorna ErrNotFound, lo que hace el logout naturalmente idempotente
// a nivel store.
func (r *SessionRepository) Deactivate(ctx context.Context, sessionID, bySessionID string, at time.Time) error {
	q := `
		UPDATE session
		SET is_active = FALSE, deactivated_at = $3, deactivated_by_session_id = NULLIF($2, '')
		WHERE id = $1 AND is_active`

	tag, err := r.s.pool.Exec(ctx, q, sessionID, bySessionID, at)
	if err != nil {
		return fmt.Errorf("deactivate session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *SessionRepository) DeactivateAllByUser(ctx context.Context, userID, bySessionID string, at time.Time) ([]string, error) {
	q := `
		UPDATE session
		SET is_active = FALSE, deactivated_at = $3, deactivated_by_session_id = NULLIF($2, '')
		WHERE user_id = $1 AND is_active
		RETURNING token`

	rows, err := r.s.pool.Query(ctx, q, userID, bySessionID, at)
	if err != nil {
		return nil, fmt.Errorf("deactivate sessions: %w", err)
	}
	defer rows.Close()

	tokens := make([]string, 0, 4)
	for rows.Next() {
		var tok string
		if err := rows.Scan(&tok); err != nil {
			return nil, fmt.Errorf("scan token: %w", err)
		}
		tokens = append(tokens, tok)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return tokens, nil
}

func (r *SessionRepository) ListActiveByUser(ctx context.Context, userID string) ([]repository.Session, error) {
	q := `SELECT ` + sessionColumns + ` FROM session WHERE user_id = $1 AND is_active ORDER BY created_at DESC`

	rows, err := r.s.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	out := make([]repository.Session, 0, 4)
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return out, nil
}
