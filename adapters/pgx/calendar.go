package pgx

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	collaboracal "github.com/LeanHydra84/CollaboraCal"
)

func (a *Adapter) CreateCalendar(ctx context.Context, calendar *collaboracal.Calendar) error {
	query := `INSERT INTO public.calendars (owner_id, name, description) VALUES ($1, $2, $3) RETURNING id, created_at, updated_at`

	var id int64
	var createdAt, updatedAt time.Time
	err := a.pool.QueryRow(ctx, query, calendar.OwnerID, calendar.Name, calendar.Description).Scan(&id, &createdAt, &updatedAt)
	if err != nil {
		return err
	}

	calendar.ID = id
	calendar.CreatedAt = createdAt
	calendar.UpdatedAt = updatedAt
	return nil
}

func (a *Adapter) GetCalendarByID(ctx context.Context, id int64) (*collaboracal.Calendar, error) {
	q := `SELECT id, owner_id, name, description, created_at, updated_at FROM public.calendars WHERE id = $1`

	calendar := &collaboracal.Calendar{}
	err := a.pool.QueryRow(ctx, q, id).Scan(
		&calendar.ID, &calendar.OwnerID, &calendar.Name, &calendar.Description, &calendar.CreatedAt, &calendar.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, collaboracal.ErrCalendarNotFound
		}
		return nil, err
	}
	return calendar, nil
}

// ListCalendarsByUser returns calendars the user owns plus calendars shared
// with them, in one pass.
func (a *Adapter) ListCalendarsByUser(ctx context.Context, userID string) ([]*collaboracal.Calendar, error) {
	q := `SELECT c.id, c.owner_id, c.name, c.description, c.created_at, c.updated_at
	      FROM public.calendars c
	      LEFT JOIN public.calendar_shares s ON s.calendar_id = c.id AND s.user_id = $1
	      WHERE c.owner_id = $1 OR s.user_id IS NOT NULL
	      ORDER BY c.id`

	rows, err := a.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var calendars []*collaboracal.Calendar
	for rows.Next() {
		calendar := &collaboracal.Calendar{}
		err := rows.Scan(
			&calendar.ID, &calendar.OwnerID, &calendar.Name, &calendar.Description, &calendar.CreatedAt, &calendar.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		calendars = append(calendars, calendar)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return calendars, nil
}

func (a *Adapter) CreateCalendarShare(ctx context.Context, share *collaboracal.CalendarShare) error {
	query := `INSERT INTO public.calendar_shares (calendar_id, user_id) VALUES ($1, $2) RETURNING created_at`

	var createdAt time.Time
	err := a.pool.QueryRow(ctx, query, share.CalendarID, share.UserID).Scan(&createdAt)
	if err != nil {
		// Sharing the same calendar with the same user twice is a no-op.
		if isUniqueViolation(err) {
			return nil
		}
		return err
	}

	share.CreatedAt = createdAt
	return nil
}

func (a *Adapter) HasCalendarAccess(ctx context.Context, calendarID int64, userID string) (bool, error) {
	q := `SELECT EXISTS (
	        SELECT 1 FROM public.calendars c
	        LEFT JOIN public.calendar_shares s ON s.calendar_id = c.id AND s.user_id = $2
	        WHERE c.id = $1 AND (c.owner_id = $2 OR s.user_id IS NOT NULL)
	      )`

	var ok bool
	if err := a.pool.QueryRow(ctx, q, calendarID, userID).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}
