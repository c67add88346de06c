package pgx

import (
	"context"
	"time"

	collaboracal "github.com/LeanHydra84/CollaboraCal"
)

func (a *Adapter) CreateEvent(ctx context.Context, event *collaboracal.Event) error {
	query := `INSERT INTO public.events (calendar_id, title, description, starts_at, ends_at)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`

	var id int64
	var createdAt time.Time
	err := a.pool.QueryRow(ctx, query,
		event.CalendarID, event.Title, event.Description, event.StartsAt, event.EndsAt,
	).Scan(&id, &createdAt)
	if err != nil {
		return err
	}

	event.ID = id
	event.CreatedAt = createdAt
	return nil
}

// ListEventsByCalendarAndRange returns events overlapping [from, to].
func (a *Adapter) ListEventsByCalendarAndRange(ctx context.Context, calendarID int64, from, to time.Time) ([]*collaboracal.Event, error) {
	q := `SELECT id, calendar_id, title, description, starts_at, ends_at, created_at
	      FROM public.events
	      WHERE calendar_id = $1 AND starts_at <= $3 AND ends_at >= $2
	      ORDER BY starts_at`

	rows, err := a.pool.Query(ctx, q, calendarID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*collaboracal.Event
	for rows.Next() {
		event := &collaboracal.Event{}
		err := rows.Scan(
			&event.ID, &event.CalendarID, &event.Title, &event.Description,
			&event.StartsAt, &event.EndsAt, &event.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}
