package db

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"ms-events/internal/database"
	"ms-events/internal/models"
)

// DB holds the event queries. Every method runs against the session it is
// handed, so the caller decides the connection and its lifetime.
type DB struct{}

// GetEvent → fetch one event by primary key, nil when there is no such row
func (DB) GetEvent(ctx context.Context, sess bun.IDB, id int64) (*models.Event, error) {
	var event models.Event
	err := sess.NewSelect().
		Model(&event).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if database.IsNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// GetAllEvents → every event in primary-key order
func (DB) GetAllEvents(ctx context.Context, sess bun.IDB) ([]models.Event, error) {
	events := make([]models.Event, 0)
	err := sess.NewSelect().
		Model(&events).
		Order("id ASC").
		Scan(ctx)
	if err != nil && !database.IsNoRows(err) {
		return nil, err
	}
	return events, nil
}

// CreateEvent → insert and return the row as stored, including id and created_at
func (DB) CreateEvent(ctx context.Context, sess bun.IDB, in models.NewEvent) (*models.Event, error) {
	event := &models.Event{
		Title:       in.Title,
		Description: in.Description,
		Address:     in.Address,
		Date:        in.Date,
		Time:        in.Time,
		AuthorID:    in.AuthorID,
	}
	if _, err := sess.NewInsert().Model(event).Returning("*").Exec(ctx); err != nil {
		return nil, err
	}
	return event, nil
}

// DeleteEvent → remove an event by id, false when nothing matched
func (DB) DeleteEvent(ctx context.Context, sess bun.IDB, id int64) (bool, error) {
	res, err := sess.NewDelete().
		Model((*models.Event)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}
