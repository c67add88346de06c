package pgx

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	collaboracal "github.com/LeanHydra84/CollaboraCal"
)

// Adapter implements the full storage boundary on a pgx connection pool.
type Adapter struct {
	pool *pgxpool.Pool
}

var _ collaboracal.Storage = (*Adapter)(nil)

func New(pool *pgxpool.Pool) *Adapter {
	return &Adapter{
		pool: pool,
	}
}

// uniqueViolation is the Postgres error code for a violated unique
// constraint. The users.email constraint is what makes concurrent sign-ups
// for the same address safe.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
