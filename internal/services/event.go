package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"eventplanner/internal/clock"
	"eventplanner/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	emailService   domain.EmailService
	clock          clock.Clock
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewEventService returns an EventService. emailService may be nil, in which case no
// notification is sent after an event is created.
func NewEventService(eventRepo domain.EventRepository,
	emailService domain.EmailService,
	clk clock.Clock,
	logger *slog.Logger,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		emailService:   emailService,
		clock:          clk,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *eventService) ListAllEvents(ctx context.Context) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.FindAll(ctx)
	if err != nil {
		return nil, domain.NewStorageError("list events", err)
	}
	return nonNil(events), nil
}

func (s *eventService) GetEventByID(ctx context.Context, id int64) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, eventNotFound(id)
		}
		return nil, domain.NewStorageError("get event", err)
	}
	if event == nil {
		return nil, eventNotFound(id)
	}
	return event, nil
}

func eventNotFound(id int64) error {
	return &domain.NotFoundError{Message: fmt.Sprintf("Event with id: %d does not exist.", id)}
}

func (s *eventService) GetEventsByOrganiserID(ctx context.Context, organiserID int64) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.eventsByOrganiser(ctx, organiserID)
}

func (s *eventService) eventsByOrganiser(ctx context.Context, organiserID int64) ([]*domain.Event, error) {
	events, err := s.eventRepo.FindByOrganiserID(ctx, organiserID)
	if err != nil {
		return nil, domain.NewStorageError("list events by organiser", err)
	}
	return nonNil(events), nil
}

func (s *eventService) GetEventsByOrganiserIDOnDate(ctx context.Context, organiserID int64, date time.Time) ([]*domain.Event, error) {
	day, err := domain.DayOf(date)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.eventsByOrganiserOnDay(ctx, organiserID, day)
}

func (s *eventService) GetEventsByOrganiserIDOnDateString(ctx context.Context, organiserID int64, date string) ([]*domain.Event, error) {
	day, err := domain.ParseDay(date)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.eventsByOrganiserOnDay(ctx, organiserID, day)
}

func (s *eventService) eventsByOrganiserOnDay(ctx context.Context, organiserID int64, day domain.Day) ([]*domain.Event, error) {
	events, err := s.eventsByOrganiser(ctx, organiserID)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Event, 0, len(events))
	for _, e := range events {
		eventDay, err := domain.DayOf(e.Date())
		if err != nil {
			return nil, err
		}
		if eventDay == day {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *eventService) GetUpcomingEvents(ctx context.Context) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.FindAll(ctx)
	if err != nil {
		return nil, domain.NewStorageError("list events", err)
	}
	now := s.clock.Now()
	out := make([]*domain.Event, 0, len(events))
	for _, e := range events {
		if e.IsUpcoming(now) {
			out = append(out, e)
		}
	}
	return out, nil
}

// CreateEvent authorizes actor, rejects a second event on the same day, builds the event
// and persists it. Every failure happens before anything is written.
func (s *eventService) CreateEvent(ctx context.Context, fields domain.EventFields, actor *domain.User) (*domain.Event, error) {
	if actor == nil {
		return nil, &domain.AuthorizationError{Message: "An authenticated organiser is required"}
	}
	if !actor.IsOrganiser() {
		return nil, &domain.AuthorizationError{
			Message: fmt.Sprintf("The user with email=%s, is not an organiser", actor.Email()),
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if fields.Date.IsZero() {
		return nil, &domain.ValidationError{Field: "date", Message: "Date is required"}
	}
	day, err := domain.DayOf(fields.Date)
	if err != nil {
		return nil, err
	}
	existing, err := s.eventsByOrganiserOnDay(ctx, actor.ID(), day)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, dayConflict(actor)
	}

	event, err := domain.NewEvent(domain.EventInput{
		EventFields: fields,
		Organiser:   actor,
		Attendees:   []*domain.User{},
	})
	if err != nil {
		return nil, err
	}

	created, err := s.eventRepo.Create(ctx, event)
	if err != nil {
		// a concurrent create won the slot between the check and the insert
		if errors.Is(err, domain.ErrEventDayTaken) {
			return nil, dayConflict(actor)
		}
		return nil, domain.NewStorageError("create event", err)
	}

	s.notifyCreated(ctx, created)
	return created, nil
}

func dayConflict(organiser *domain.User) error {
	return &domain.ConflictError{
		Message: fmt.Sprintf("There is already an event on the selected day for organiser %s", organiser.FullName()),
	}
}

func (s *eventService) notifyCreated(ctx context.Context, event *domain.Event) {
	if s.emailService == nil {
		return
	}
	organiser := event.Organiser()
	data := &domain.EventCreatedEmailData{
		Email:         organiser.Email(),
		OrganiserName: organiser.FullName(),
		EventID:       event.ID(),
		EventName:     event.Name(),
		Location:      event.Location(),
		Date:          event.Date(),
	}
	if err := s.emailService.SendEventCreated(ctx, data); err != nil {
		s.logger.WarnContext(ctx, "event created notification failed", "event_id", event.ID(), "err", err)
	}
}

func nonNil(events []*domain.Event) []*domain.Event {
	if events == nil {
		return []*domain.Event{}
	}
	return events
}
