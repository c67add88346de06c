package pgx

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	collaboracal "github.com/LeanHydra84/CollaboraCal"
)

func (a *Adapter) CreateUser(ctx context.Context, user *collaboracal.User) error {
	query := `INSERT INTO public.users (email, name, password_hash) VALUES ($1, $2, $3) RETURNING id, created_at, updated_at`

	var id string
	var createdAt, updatedAt time.Time
	err := a.pool.QueryRow(ctx, query, user.Email, user.Name, user.PasswordHash).Scan(&id, &createdAt, &updatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return collaboracal.ErrUserExists
		}
		return err
	}

	user.ID = id
	user.CreatedAt = createdAt
	user.UpdatedAt = updatedAt
	return nil
}

func (a *Adapter) GetUserByID(ctx context.Context, id string) (*collaboracal.User, error) {
	q := `SELECT id, email, name, password_hash, created_at, updated_at FROM public.users WHERE id = $1`

	user := &collaboracal.User{}
	err := a.pool.QueryRow(ctx, q, id).Scan(&user.ID, &user.Email, &user.Name, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, collaboracal.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (a *Adapter) GetUserByEmail(ctx context.Context, email string) (*collaboracal.User, error) {
	q := `SELECT id, email, name, password_hash, created_at, updated_at FROM public.users WHERE email = $1`

	user := &collaboracal.User{}
	err := a.pool.QueryRow(ctx, q, email).Scan(&user.ID, &user.Email, &user.Name, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, collaboracal.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (a *Adapter) UpdateUser(ctx context.Context, user *collaboracal.User) error {
	q := `UPDATE public.users SET email = $1, name = $2, password_hash = $3, updated_at = now() WHERE id = $4 RETURNING updated_at`

	var updatedAt time.Time
	err := a.pool.QueryRow(ctx, q, user.Email, user.Name, user.PasswordHash, user.ID).Scan(&updatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return collaboracal.ErrUserNotFound
		}
		if isUniqueViolation(err) {
			return collaboracal.ErrUserExists
		}
		return err
	}
	user.UpdatedAt = updatedAt
	return nil
}

func (a *Adapter) DeleteUser(ctx context.Context, id string) error {
	_, err := a.pool.Exec(ctx, `DELETE FROM public.users WHERE id = $1`, id)
	return err
}
