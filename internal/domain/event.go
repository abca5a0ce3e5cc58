package domain

import (
	"context"
	"encoding/json"
	"strings"
	"time"
)

// EventFields are the caller-supplied fields of a proposed event.
type EventFields struct {
	Name        string
	Description string
	Date        time.Time
	Location    string
}

// EventInput holds everything an Event is built from. ID is zero until the event is persisted.
type EventInput struct {
	ID int64
	EventFields
	Organiser *User
	Attendees []*User
}

// Event is a dated gathering owned by an organiser. Values are only produced by NewEvent.
// swagger:model Event
type Event struct {
	id          int64
	name        string
	description string
	date        time.Time
	location    string
	organiser   *User
	attendees   []*User
}

// NewEvent validates in and returns an Event.
func NewEvent(in EventInput) (*Event, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, requiredError("name", "Name")
	}
	if strings.TrimSpace(in.Description) == "" {
		return nil, requiredError("description", "Description")
	}
	if in.Date.IsZero() {
		return nil, requiredError("date", "Date")
	}
	if strings.TrimSpace(in.Location) == "" {
		return nil, requiredError("location", "Location")
	}
	if in.Organiser == nil {
		return nil, requiredError("organiser", "Organiser")
	}
	if !in.Organiser.IsOrganiser() {
		return nil, &ValidationError{Field: "organiser", Message: "Organiser must be an organiser"}
	}
	attendees := make([]*User, 0, len(in.Attendees))
	for _, a := range in.Attendees {
		if a != nil {
			attendees = append(attendees, a)
		}
	}
	return &Event{
		id:          in.ID,
		name:        in.Name,
		description: in.Description,
		date:        in.Date,
		location:    in.Location,
		organiser:   in.Organiser,
		attendees:   attendees,
	}, nil
}

func (e *Event) ID() int64           { return e.id }
func (e *Event) Name() string        { return e.name }
func (e *Event) Description() string { return e.description }
func (e *Event) Date() time.Time     { return e.date }
func (e *Event) Location() string    { return e.location }
func (e *Event) Organiser() *User    { return e.organiser }

// Attendees returns a copy of the attendee list.
func (e *Event) Attendees() []*User {
	out := make([]*User, len(e.attendees))
	copy(out, e.attendees)
	return out
}

// IsPersisted reports whether the repository has assigned an id.
func (e *Event) IsPersisted() bool { return e.id != 0 }

// Fields returns the caller-supplied part of the event.
func (e *Event) Fields() EventFields {
	return EventFields{Name: e.name, Description: e.description, Date: e.date, Location: e.location}
}

// IsUpcoming reports whether the event is strictly after now.
func (e *Event) IsUpcoming(now time.Time) bool { return e.date.After(now) }

// Equals compares id, fields, date instant and organiser identity. Attendees are not compared.
func (e *Event) Equals(other *Event) bool {
	if e == nil || other == nil {
		return e == other
	}
	return e.id == other.id &&
		e.name == other.name &&
		e.description == other.description &&
		e.date.Equal(other.date) &&
		e.location == other.location &&
		e.organiser.Equals(other.organiser)
}

type eventJSON struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location"`
	Organiser   *User     `json:"organiser"`
	Attendees   []*User   `json:"attendees"`
}

func (e *Event) MarshalJSON() ([]byte, error) {
	return json.Marshal(eventJSON{
		ID:          e.id,
		Name:        e.name,
		Description: e.description,
		Date:        e.date,
		Location:    e.location,
		Organiser:   e.organiser,
		Attendees:   e.Attendees(),
	})
}

// EventRepository defines the interface for event storage.
// Returned events are fully hydrated with organiser and attendees.
type EventRepository interface {
	FindAll(ctx context.Context) ([]*Event, error)
	// FindByID returns ErrNotFound when no event has the given id.
	FindByID(ctx context.Context, id int64) (*Event, error)
	FindByOrganiserID(ctx context.Context, organiserID int64) ([]*Event, error)
	// Create stores the event with its attendees and returns it with the assigned id.
	// It returns ErrEventDayTaken when the organiser already holds an event on the
	// same calendar day, as DayOf defines it.
	Create(ctx context.Context, event *Event) (*Event, error)
}

// EventService defines the business operations on events.
type EventService interface {
	ListAllEvents(ctx context.Context) ([]*Event, error)
	GetEventByID(ctx context.Context, id int64) (*Event, error)
	GetEventsByOrganiserID(ctx context.Context, organiserID int64) ([]*Event, error)
	GetEventsByOrganiserIDOnDate(ctx context.Context, organiserID int64, date time.Time) ([]*Event, error)
	GetEventsByOrganiserIDOnDateString(ctx context.Context, organiserID int64, date string) ([]*Event, error)
	GetUpcomingEvents(ctx context.Context) ([]*Event, error)
	CreateEvent(ctx context.Context, fields EventFields, actor *User) (*Event, error)
}
