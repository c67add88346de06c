package pgx

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	collaboracal "github.com/LeanHydra84/CollaboraCal"
)

func (a *Adapter) CreateSession(ctx context.Context, session *collaboracal.Session) error {
	query := `INSERT INTO public.sessions (id, user_id, token_hash, ip_address, user_agent, expires_at, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := a.pool.Exec(ctx, query,
		session.ID, session.UserID, session.TokenHash, session.IPAddress, session.UserAgent,
		session.ExpiresAt, session.CreatedAt, session.UpdatedAt,
	)
	return err
}

func (a *Adapter) GetSessionByHash(ctx context.Context, tokenHash string) (*collaboracal.Session, error) {
	q := `SELECT id, user_id, token_hash, ip_address, user_agent, expires_at, created_at, updated_at
	      FROM public.sessions WHERE token_hash = $1`

	session := &collaboracal.Session{}
	err := a.pool.QueryRow(ctx, q, tokenHash).Scan(
		&session.ID, &session.UserID, &session.TokenHash, &session.IPAddress, &session.UserAgent,
		&session.ExpiresAt, &session.CreatedAt, &session.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, collaboracal.ErrSessionNotFound
		}
		return nil, err
	}
	return session, nil
}

func (a *Adapter) GetUserSessions(ctx context.Context, userID string) ([]*collaboracal.Session, error) {
	q := `SELECT id, user_id, token_hash, ip_address, user_agent, expires_at, created_at, updated_at
	      FROM public.sessions WHERE user_id = $1 ORDER BY created_at`

	rows, err := a.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*collaboracal.Session
	for rows.Next() {
		session := &collaboracal.Session{}
		err := rows.Scan(
			&session.ID, &session.UserID, &session.TokenHash, &session.IPAddress, &session.UserAgent,
			&session.ExpiresAt, &session.CreatedAt, &session.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

func (a *Adapter) DeleteSessionByID(ctx context.Context, id string) error {
	tag, err := a.pool.Exec(ctx, `DELETE FROM public.sessions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return collaboracal.ErrSessionNotFound
	}
	return nil
}

func (a *Adapter) DeleteSessionByHash(ctx context.Context, tokenHash string) error {
	tag, err := a.pool.Exec(ctx, `DELETE FROM public.sessions WHERE token_hash = $1`, tokenHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return collaboracal.ErrSessionNotFound
	}
	return nil
}

func (a *Adapter) DeleteUserSessions(ctx context.Context, userID string) (int, error) {
	tag, err := a.pool.Exec(ctx, `DELETE FROM public.sessions WHERE user_id = $1`, userID)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (a *Adapter) DeleteExpiredSessions(ctx context.Context) (int, error) {
	tag, err := a.pool.Exec(ctx, `DELETE FROM public.sessions WHERE expires_at < $1`, time.Now())
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
