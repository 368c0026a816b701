package event_api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"

	"ms-events/internal/database"
	"ms-events/internal/events/service"
	"ms-events/internal/logger"
	"ms-events/internal/models"
	"ms-events/internal/utils"
)

const (
	MsgEventNotFound = "Event not found"
	MsgEventDeleted  = "Event deleted successfully"
	MsgInternal      = "Internal server error"
	MsgUnavailable   = "Database unavailable"
)

type EventService interface {
	GetEvent(ctx context.Context, sess bun.IDB, id int64) (*models.Event, error)
	ListEvents(ctx context.Context, sess bun.IDB) ([]models.Event, error)
	CreateEvent(ctx context.Context, sess bun.IDB, in models.NewEvent) (*models.Event, error)
	DeleteEvent(ctx context.Context, sess bun.IDB, id int64) (bool, error)
}

type Handler struct {
	EventService EventService
	Logger       *logger.Logger
	validator    *requestValidator
}

func NewHandler(eventService EventService, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.NewNop()
	}
	return &Handler{
		EventService: eventService,
		Logger:       log,
		validator:    newRequestValidator(),
	}
}

// RegisterRoutes mounts the event routes. The router must already run
// database.SessionMiddleware. Handlers validate the request before they
// ask for the session.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/events", func(r chi.Router) {
		r.Post("/", h.CreateEvent)
		r.Get("/", h.ListEvents)
		r.Get("/{eventID}", h.GetEvent)
		r.Delete("/{eventID}", h.DeleteEvent)
	})
}

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	req, errs := h.validator.decodeEventCreate(r.Body)
	if len(errs) > 0 {
		utils.WriteValidationError(w, errs)
		return
	}

	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	event, err := h.EventService.CreateEvent(r.Context(), sess, req.toNewEvent())
	if errors.Is(err, service.ErrAuthorNotFound) {
		utils.WriteError(w, http.StatusConflict, fmt.Sprintf("Author %d does not exist", *req.AuthorID))
		return
	}
	if err != nil {
		h.internalError(w, "create event", err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/events/%d", event.ID))
	utils.WriteJSON(w, http.StatusOK, req.echo())
}

func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	events, err := h.EventService.ListEvents(r.Context(), sess)
	if err != nil {
		h.internalError(w, "list events", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, events)
}

func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := h.eventID(w, r)
	if !ok {
		return
	}
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	event, err := h.EventService.GetEvent(r.Context(), sess, id)
	if err != nil {
		h.internalError(w, "get event", err)
		return
	}
	if event == nil {
		utils.WriteError(w, http.StatusNotFound, MsgEventNotFound)
		return
	}
	utils.WriteJSON(w, http.StatusOK, event)
}

func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := h.eventID(w, r)
	if !ok {
		return
	}
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	deleted, err := h.EventService.DeleteEvent(r.Context(), sess, id)
	if err != nil {
		h.internalError(w, "delete event", err)
		return
	}
	if !deleted {
		utils.WriteError(w, http.StatusNotFound, MsgEventNotFound)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.MessageResponse{Message: MsgEventDeleted})
}

func (h *Handler) eventID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "eventID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		utils.WriteValidationError(w, []utils.FieldError{{
			Loc:  []string{"path", "event_id"},
			Msg:  "Input should be a valid integer",
			Type: "int_parsing",
		}})
		return 0, false
	}
	return id, true
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (bun.IDB, bool) {
	sess, err := database.SessionFromContext(r.Context())
	switch {
	case errors.Is(err, database.ErrSessionUnavailable):
		h.Logger.Error("SESSION", fmt.Sprintf("Failed to acquire database session: %v", err))
		utils.WriteError(w, http.StatusServiceUnavailable, MsgUnavailable)
		return nil, false
	case err != nil:
		h.Logger.Error("SESSION", fmt.Sprintf("No database session on %s %s: %v", r.Method, r.URL.Path, err))
		utils.WriteError(w, http.StatusInternalServerError, MsgInternal)
		return nil, false
	}
	return sess, true
}

func (h *Handler) internalError(w http.ResponseWriter, op string, err error) {
	h.Logger.Error("EVENTS", fmt.Sprintf("Failed to %s: %v", op, err))
	utils.WriteError(w, http.StatusInternalServerError, MsgInternal)
}
