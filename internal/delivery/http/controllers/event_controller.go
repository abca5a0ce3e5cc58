package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"eventplanner/internal/delivery/http/helpers"
	"eventplanner/internal/delivery/http/middleware"
	"eventplanner/internal/domain"
)

// CreateEventRequest is the request body for POST /events. The authenticated user becomes the organiser.
// Field rules live in the domain constructor so a non-organiser is refused before its input is judged.
type CreateEventRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	// Date is an ISO date-time; without an offset it is read as UTC.
	Date        string `json:"date" example:"2025-06-29T08:05"`
	Location    string `json:"location"`
}

// EventSuccessResponse is the success response envelope for endpoints returning one event.
type EventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// EventListSuccessResponse is the success response envelope for endpoints returning events.
type EventListSuccessResponse struct {
	Data  []*domain.Event   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type EventController struct {
	Logger      *slog.Logger
	Service     domain.EventService
	UserService domain.UserService
}

func NewEventController(logger *slog.Logger, svc domain.EventService, userSvc domain.UserService) *EventController {
	return &EventController{
		Logger:      logger,
		Service:     svc,
		UserService: userSvc,
	}
}

// ListEvents godoc
// @Summary List all events
// @Description Returns every event with its organiser and attendees.
// @Tags events
// @Produce json
// @Success 200 {object} controllers.EventListSuccessResponse "data contains the events"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := c.Service.ListAllEvents(r.Context())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// ListUpcomingEvents godoc
// @Summary List upcoming events
// @Description Returns events whose date is strictly after the current time.
// @Tags events
// @Produce json
// @Success 200 {object} controllers.EventListSuccessResponse "data contains the upcoming events"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/upcoming [get]
func (c *EventController) ListUpcomingEvents(w http.ResponseWriter, r *http.Request) {
	events, err := c.Service.GetUpcomingEvents(r.Context())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// GetEventByID godoc
// @Summary Get an event by ID
// @Tags events
// @Produce json
// @Param eventID path int true "Event ID"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *EventController) GetEventByID(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(w, r, "eventID")
	if !ok {
		return
	}
	event, err := c.Service.GetEventByID(r.Context(), eventID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// ListOrganiserEvents godoc
// @Summary List an organiser's events
// @Description Returns the organiser's events. With ?date=YYYY-MM-DD (or an ISO date-time) only events on that calendar day are returned.
// @Tags events
// @Produce json
// @Param organiserID path int true "Organiser user ID"
// @Param date query string false "Calendar day"
// @Success 200 {object} controllers.EventListSuccessResponse "data contains the events"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or invalid_input"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /organisers/{organiserID}/events [get]
func (c *EventController) ListOrganiserEvents(w http.ResponseWriter, r *http.Request) {
	organiserID, ok := pathID(w, r, "organiserID")
	if !ok {
		return
	}
	var (
		events []*domain.Event
		err    error
	)
	if date, has := r.URL.Query()["date"]; has {
		events, err = c.Service.GetEventsByOrganiserIDOnDateString(r.Context(), organiserID, date[0])
	} else {
		events, err = c.Service.GetEventsByOrganiserID(r.Context(), organiserID)
	}
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// CreateEvent godoc
// @Summary Create a new event
// @Description Publishes an event owned by the authenticated user. The user must be an organiser and may hold at most one event per calendar day.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body CreateEventRequest true "Event data"
// @Success 201 {object} controllers.EventSuccessResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or invalid_input (unparseable date)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not an organiser)"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (event already on that day)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	actor, err := c.UserService.GetUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// token outlived its user
			helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
			return
		}
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	fields := domain.EventFields{
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
	}
	if strings.TrimSpace(req.Date) != "" {
		date, err := domain.ParseDate(req.Date)
		// a client falls through with no date and gets the service's authorization error
		if err != nil && actor.IsOrganiser() {
			helpers.WriteServiceError(w, r, c.Logger, err)
			return
		}
		fields.Date = date
	}
	event, err := c.Service.CreateEvent(r.Context(), fields, actor)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// pathID parses a numeric path value. On failure it writes a 400 and returns false.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}
