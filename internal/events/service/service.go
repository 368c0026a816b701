package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"ms-events/internal/database"
	"ms-events/internal/logger"
	"ms-events/internal/models"
)

// ErrAuthorNotFound is returned when a create names an authorID with no user row.
var ErrAuthorNotFound = errors.New("author does not exist")

type EventDBLayer interface {
	GetEvent(ctx context.Context, sess bun.IDB, id int64) (*models.Event, error)
	GetAllEvents(ctx context.Context, sess bun.IDB) ([]models.Event, error)
	CreateEvent(ctx context.Context, sess bun.IDB, in models.NewEvent) (*models.Event, error)
	DeleteEvent(ctx context.Context, sess bun.IDB, id int64) (bool, error)
}

// EventPublisher announces committed changes. Implemented by kafka.Producer.
type EventPublisher interface {
	PublishEventCreated(ctx context.Context, event models.Event) error
	PublishEventDeleted(ctx context.Context, eventID int64) error
}

type EventService struct {
	DB        EventDBLayer
	Publisher EventPublisher
	Logger    *logger.Logger
}

func NewEventService(db EventDBLayer, publisher EventPublisher, log *logger.Logger) *EventService {
	if log == nil {
		log = logger.NewNop()
	}
	return &EventService{DB: db, Publisher: publisher, Logger: log}
}

// GetEvent returns nil, nil when the event does not exist.
func (s *EventService) GetEvent(ctx context.Context, sess bun.IDB, id int64) (*models.Event, error) {
	event, err := s.DB.GetEvent(ctx, sess, id)
	if err != nil {
		return nil, fmt.Errorf("get event %d: %w", id, err)
	}
	return event, nil
}

func (s *EventService) ListEvents(ctx context.Context, sess bun.IDB) ([]models.Event, error) {
	events, err := s.DB.GetAllEvents(ctx, sess)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (s *EventService) CreateEvent(ctx context.Context, sess bun.IDB, in models.NewEvent) (*models.Event, error) {
	event, err := s.DB.CreateEvent(ctx, sess, in)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			s.Logger.Warn("EVENTS", fmt.Sprintf("Rejected event for unknown author %d", in.AuthorID))
			return nil, fmt.Errorf("%w: authorID %d: %w", ErrAuthorNotFound, in.AuthorID, err)
		}
		return nil, fmt.Errorf("create event: %w", err)
	}

	s.Logger.LogDatabase("INSERT", "events", fmt.Sprintf("event %d created by author %d", event.ID, event.AuthorID))

	if s.Publisher != nil {
		if err := s.Publisher.PublishEventCreated(ctx, *event); err != nil {
			s.Logger.Error("KAFKA", fmt.Sprintf("Failed to publish created event %d: %v", event.ID, err))
		}
	}
	return event, nil
}

// DeleteEvent reports false when there was no event with that id.
func (s *EventService) DeleteEvent(ctx context.Context, sess bun.IDB, id int64) (bool, error) {
	deleted, err := s.DB.DeleteEvent(ctx, sess, id)
	if err != nil {
		return false, fmt.Errorf("delete event %d: %w", id, err)
	}
	if !deleted {
		return false, nil
	}

	s.Logger.LogDatabase("DELETE", "events", fmt.Sprintf("event %d deleted", id))

	if s.Publisher != nil {
		if err := s.Publisher.PublishEventDeleted(ctx, id); err != nil {
			s.Logger.Error("KAFKA", fmt.Sprintf("Failed to publish deleted event %d: %v", id, err))
		}
	}
	return true, nil
}
