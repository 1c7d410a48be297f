package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/unikiala/unikiala-api/internal/model"
)

// EventRepo persists the hosted catalog.
type EventRepo struct{ DB *sql.DB }

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{DB: db} }

// List returns all hosted events ordered by date.
func (r *EventRepo) List(ctx context.Context) ([]model.Event, error) {
	rows, err := r.DB.QueryContext(ctx, `
SELECT id, title, description, category, event_date, location, price, image_url,
       organizer_id, organizer_whatsapp, highlighted, lat, lng
FROM events ORDER BY event_date ASC, created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Event
	for rows.Next() {
		var (
			e        model.Event
			lat, lng sql.NullFloat64
		)
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.Category, &e.Date, &e.Location,
			&e.Price, &e.ImageURL, &e.OrganizerID, &e.OrganizerWhatsapp, &e.Highlighted, &lat, &lng); err != nil {
			return nil, err
		}
		if lat.Valid && lng.Valid {
			e.Coordinates = &model.Coordinates{Lat: lat.Float64, Lng: lng.Float64}
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Insert stores e under a new backend-assigned id and returns the stored row.
func (r *EventRepo) Insert(ctx context.Context, e model.Event) (model.Event, error) {
	e.ID = uuid.NewString()
	var lat, lng sql.NullFloat64
	if e.Coordinates != nil {
		lat = sql.NullFloat64{Float64: e.Coordinates.Lat, Valid: true}
		lng = sql.NullFloat64{Float64: e.Coordinates.Lng, Valid: true}
	}
	_, err := r.DB.ExecContext(ctx, `
INSERT INTO events (id, title, description, category, event_date, location, price, image_url,
                    organizer_id, organizer_whatsapp, highlighted, lat, lng)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		e.ID, e.Title, e.Description, e.Category, e.Date, e.Location, e.Price, e.ImageURL,
		e.OrganizerID, e.OrganizerWhatsapp, e.Highlighted, lat, lng)
	if err != nil {
		return model.Event{}, err
	}
	return e, nil
}

// Delete removes an event. Deleting an unknown id returns ErrNotFound.
func (r *EventRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM events WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
