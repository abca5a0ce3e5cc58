package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"eventplanner/internal/clock"
	"eventplanner/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// fakeEventRepo is an in-memory EventRepository for tests.
type fakeEventRepo struct {
	events  []*domain.Event
	nextID  int64
	err     error // if set, every method returns this error
	findErr error // if set, FindByID returns this error
	// createErr is returned by Create instead of storing the event
	createErr error

	findByOrganiserCalls int
	createCalls          int
	lastCreate           *domain.Event
}

func newFakeEventRepo(events ...*domain.Event) *fakeEventRepo {
	return &fakeEventRepo{events: events, nextID: 100}
}

func (f *fakeEventRepo) FindAll(ctx context.Context) ([]*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	return append([]*domain.Event(nil), f.events...), nil
}

func (f *fakeEventRepo) FindByID(ctx context.Context, id int64) (*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, e := range f.events {
		if e.ID() == id {
			return e, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) FindByOrganiserID(ctx context.Context, organiserID int64) ([]*domain.Event, error) {
	f.findByOrganiserCalls++
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.Event
	for _, e := range f.events {
		if e.Organiser().ID() == organiserID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) (*domain.Event, error) {
	f.createCalls++
	f.lastCreate = e
	if f.err != nil {
		return nil, f.err
	}
	if f.createErr != nil {
		return nil, f.createErr
	}
	stored, err := domain.NewEvent(domain.EventInput{
		ID:          f.nextID,
		EventFields: e.Fields(),
		Organiser:   e.Organiser(),
		Attendees:   e.Attendees(),
	})
	if err != nil {
		return nil, err
	}
	f.nextID++
	f.events = append(f.events, stored)
	return stored, nil
}

// fakeEmailService records event-created notifications.
type fakeEmailService struct {
	err          error
	eventCreated []*domain.EventCreatedEmailData
	welcomed     []*domain.WelcomeMessageEmailData
}

func (f *fakeEmailService) SendWelcomeMessage(ctx context.Context, data *domain.WelcomeMessageEmailData) error {
	f.welcomed = append(f.welcomed, data)
	return f.err
}

func (f *fakeEmailService) SendEventCreated(ctx context.Context, data *domain.EventCreatedEmailData) error {
	f.eventCreated = append(f.eventCreated, data)
	return f.err
}

func mustUser(t *testing.T, in domain.UserInput) *domain.User {
	t.Helper()
	u, err := domain.NewUser(in)
	require.NoError(t, err)
	return u
}

func mustEvent(t *testing.T, in domain.EventInput) *domain.Event {
	t.Helper()
	e, err := domain.NewEvent(in)
	require.NoError(t, err)
	return e
}

func testOrganiser(t *testing.T) *domain.User {
	return mustUser(t, domain.UserInput{
		ID:          1,
		FirstName:   "John",
		LastName:    "Doe",
		Email:       "john.doe@ucll.be",
		Password:    "johnd123",
		IsOrganiser: true,
	})
}

func testClient(t *testing.T) *domain.User {
	return mustUser(t, domain.UserInput{
		ID:        2,
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane.doe@ucll.be",
		Password:  "jane123",
	})
}

var beerTastingDate = time.Date(2025, 6, 29, 8, 5, 0, 0, time.UTC)

func beerTastingFields() domain.EventFields {
	return domain.EventFields{
		Name:        "Bierproeverij in Leuven",
		Description: "Proef de beste Belgische bieren....",
		Date:        beerTastingDate,
		Location:    "Leuven",
	}
}

func newTestEventService(repo domain.EventRepository, email domain.EmailService, now time.Time) domain.EventService {
	return NewEventService(repo, email, clock.NewFixed(now), testLogger, 5*time.Second)
}

func TestEventService_GetEventsByOrganiserID(t *testing.T) {
	organiser := testOrganiser(t)
	event := mustEvent(t, domain.EventInput{ID: 1, EventFields: beerTastingFields(), Organiser: organiser})
	repo := newFakeEventRepo(event)
	svc := newTestEventService(repo, nil, time.Now())

	events, err := svc.GetEventsByOrganiserID(context.Background(), organiser.ID())
	require.NoError(t, err)
	assert.Equal(t, 1, repo.findByOrganiserCalls)
	require.Len(t, events, 1)
	assert.True(t, events[0].Equals(event))

	events, err = svc.GetEventsByOrganiserID(context.Background(), 42)
	require.NoError(t, err)
	require.NotNil(t, events)
	assert.Empty(t, events)
}

func TestEventService_GetEventByID(t *testing.T) {
	organiser := testOrganiser(t)
	event := mustEvent(t, domain.EventInput{ID: 7, EventFields: beerTastingFields(), Organiser: organiser})

	t.Run("found", func(t *testing.T) {
		svc := newTestEventService(newFakeEventRepo(event), nil, time.Now())
		got, err := svc.GetEventByID(context.Background(), 7)
		require.NoError(t, err)
		assert.True(t, got.Equals(event))
	})

	t.Run("missing id reports not found", func(t *testing.T) {
		svc := newTestEventService(newFakeEventRepo(), nil, time.Now())
		_, err := svc.GetEventByID(context.Background(), -1)
		require.Error(t, err)
		var nf *domain.NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "Event with id: -1 does not exist.", err.Error())
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("repository failure is a storage error", func(t *testing.T) {
		repo := newFakeEventRepo()
		repo.findErr = errors.New("connection refused")
		svc := newTestEventService(repo, nil, time.Now())
		_, err := svc.GetEventByID(context.Background(), 7)
		var se *domain.StorageError
		require.ErrorAs(t, err, &se)
		assert.NotContains(t, err.Error(), "connection refused")
		assert.Contains(t, se.Cause(), "connection refused")
	})
}

func TestEventService_ListAllEvents(t *testing.T) {
	organiser := testOrganiser(t)
	a := mustEvent(t, domain.EventInput{ID: 1, EventFields: beerTastingFields(), Organiser: organiser})

	svc := newTestEventService(newFakeEventRepo(a), nil, time.Now())
	events, err := svc.ListAllEvents(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)

	empty, err := newTestEventService(newFakeEventRepo(), nil, time.Now()).ListAllEvents(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, empty)

	repo := newFakeEventRepo()
	repo.err = errors.New("db down")
	_, err = newTestEventService(repo, nil, time.Now()).ListAllEvents(context.Background())
	var se *domain.StorageError
	require.ErrorAs(t, err, &se)
}

func TestEventService_GetUpcomingEvents(t *testing.T) {
	organiser := testOrganiser(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	at := func(id int64, d time.Time) *domain.Event {
		f := beerTastingFields()
		f.Date = d
		return mustEvent(t, domain.EventInput{ID: id, EventFields: f, Organiser: organiser})
	}
	past := at(1, now.Add(-time.Hour))
	exactlyNow := at(2, now)
	future := at(3, now.Add(time.Nanosecond))
	later := at(4, now.AddDate(0, 1, 0))

	svc := newTestEventService(newFakeEventRepo(past, exactlyNow, future, later), nil, now)
	events, err := svc.GetUpcomingEvents(context.Background())
	require.NoError(t, err)

	ids := make([]int64, 0, len(events))
	for _, e := range events {
		assert.True(t, e.Date().After(now))
		ids = append(ids, e.ID())
	}
	assert.Equal(t, []int64{3, 4}, ids)
}

func TestEventService_GetEventsByOrganiserIDOnDate(t *testing.T) {
	organiser := testOrganiser(t)
	other := mustUser(t, domain.UserInput{ID: 3, FirstName: "Ann", LastName: "Smith", Email: "ann@ucll.be", Password: "x", IsOrganiser: true})
	morning := beerTastingFields()
	nextDay := beerTastingFields()
	nextDay.Date = beerTastingDate.AddDate(0, 0, 1)

	repo := newFakeEventRepo(
		mustEvent(t, domain.EventInput{ID: 1, EventFields: morning, Organiser: organiser}),
		mustEvent(t, domain.EventInput{ID: 2, EventFields: nextDay, Organiser: organiser}),
		mustEvent(t, domain.EventInput{ID: 3, EventFields: morning, Organiser: other}),
	)
	svc := newTestEventService(repo, nil, time.Now())
	ctx := context.Background()

	tests := []struct {
		name    string
		call    func() ([]*domain.Event, error)
		wantIDs []int64
		wantErr bool
	}{
		{
			name: "same day different time",
			call: func() ([]*domain.Event, error) {
				return svc.GetEventsByOrganiserIDOnDate(ctx, 1, time.Date(2025, 6, 29, 23, 30, 0, 0, time.UTC))
			},
			wantIDs: []int64{1},
		},
		{
			name: "date string",
			call: func() ([]*domain.Event, error) {
				return svc.GetEventsByOrganiserIDOnDateString(ctx, 1, "2025-06-30")
			},
			wantIDs: []int64{2},
		},
		{
			name: "date time string",
			call: func() ([]*domain.Event, error) {
				return svc.GetEventsByOrganiserIDOnDateString(ctx, 1, "2025-06-29T18:00")
			},
			wantIDs: []int64{1},
		},
		{
			name: "no events on day",
			call: func() ([]*domain.Event, error) {
				return svc.GetEventsByOrganiserIDOnDate(ctx, 1, time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC))
			},
			wantIDs: []int64{},
		},
		{
			name: "unparseable string",
			call: func() ([]*domain.Event, error) {
				return svc.GetEventsByOrganiserIDOnDateString(ctx, 1, "not a date")
			},
			wantErr: true,
		},
		{
			name: "zero time",
			call: func() ([]*domain.Event, error) {
				return svc.GetEventsByOrganiserIDOnDate(ctx, 1, time.Time{})
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := tt.call()
			if tt.wantErr {
				var ie *domain.InvalidInputError
				require.ErrorAs(t, err, &ie)
				assert.Equal(t, "Invalid date input", err.Error())
				return
			}
			require.NoError(t, err)
			ids := make([]int64, 0, len(events))
			for _, e := range events {
				ids = append(ids, e.ID())
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestEventService_CreateEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("organiser without events on that day", func(t *testing.T) {
		organiser := testOrganiser(t)
		repo := newFakeEventRepo()
		email := &fakeEmailService{}
		svc := newTestEventService(repo, email, time.Now())

		event, err := svc.CreateEvent(ctx, beerTastingFields(), organiser)
		require.NoError(t, err)

		expected := mustEvent(t, domain.EventInput{EventFields: beerTastingFields(), Organiser: organiser})
		assert.Equal(t, 1, repo.findByOrganiserCalls)
		assert.Equal(t, 1, repo.createCalls)
		assert.True(t, repo.lastCreate.Equals(expected))
		assert.False(t, repo.lastCreate.IsPersisted())

		assert.Equal(t, int64(100), event.ID())
		assert.Equal(t, "Bierproeverij in Leuven", event.Name())
		assert.Equal(t, "Proef de beste Belgische bieren....", event.Description())
		assert.True(t, event.Date().Equal(beerTastingDate))
		assert.Equal(t, "Leuven", event.Location())
		assert.True(t, event.Organiser().Equals(organiser))
		assert.Empty(t, event.Attendees())

		require.Len(t, email.eventCreated, 1)
		assert.Equal(t, "john.doe@ucll.be", email.eventCreated[0].Email)
		assert.Equal(t, int64(100), email.eventCreated[0].EventID)
	})

	t.Run("second event on the same day conflicts", func(t *testing.T) {
		organiser := testOrganiser(t)
		repo := newFakeEventRepo()
		svc := newTestEventService(repo, nil, time.Now())

		_, err := svc.CreateEvent(ctx, beerTastingFields(), organiser)
		require.NoError(t, err)

		evening := beerTastingFields()
		evening.Name = "Avondwandeling"
		evening.Date = time.Date(2025, 6, 29, 21, 0, 0, 0, time.UTC)
		_, err = svc.CreateEvent(ctx, evening, organiser)

		var ce *domain.ConflictError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "There is already an event on the selected day for organiser John Doe", err.Error())
		assert.Equal(t, 1, repo.createCalls)
	})

	t.Run("same day is judged in utc across offsets", func(t *testing.T) {
		organiser := testOrganiser(t)
		repo := newFakeEventRepo()
		svc := newTestEventService(repo, nil, time.Now())
		brussels := time.FixedZone("CEST", 2*60*60)

		late := beerTastingFields()
		late.Date = time.Date(2025, 6, 28, 23, 30, 0, 0, time.UTC)
		_, err := svc.CreateEvent(ctx, late, organiser)
		require.NoError(t, err)

		// 00:30 on the 29th in Brussels is still the 28th in UTC
		early := beerTastingFields()
		early.Name = "Nachtwandeling"
		early.Date = time.Date(2025, 6, 29, 0, 30, 0, 0, brussels)
		_, err = svc.CreateEvent(ctx, early, organiser)
		var ce *domain.ConflictError
		require.ErrorAs(t, err, &ce)

		morning := beerTastingFields()
		morning.Date = time.Date(2025, 6, 29, 8, 0, 0, 0, brussels)
		_, err = svc.CreateEvent(ctx, morning, organiser)
		require.NoError(t, err)
		assert.Equal(t, 2, repo.createCalls)

		onDay, err := svc.GetEventsByOrganiserIDOnDateString(ctx, organiser.ID(), "2025-06-28")
		require.NoError(t, err)
		require.Len(t, onDay, 1)
		assert.True(t, onDay[0].Date().Equal(late.Date))
	})

	t.Run("next day is allowed", func(t *testing.T) {
		organiser := testOrganiser(t)
		repo := newFakeEventRepo()
		svc := newTestEventService(repo, nil, time.Now())

		_, err := svc.CreateEvent(ctx, beerTastingFields(), organiser)
		require.NoError(t, err)
		next := beerTastingFields()
		next.Date = beerTastingDate.AddDate(0, 0, 1)
		_, err = svc.CreateEvent(ctx, next, organiser)
		require.NoError(t, err)
		assert.Equal(t, 2, repo.createCalls)
	})

	t.Run("client user is not authorized", func(t *testing.T) {
		client := testClient(t)
		repo := newFakeEventRepo()
		svc := newTestEventService(repo, nil, time.Now())

		_, err := svc.CreateEvent(ctx, beerTastingFields(), client)
		var ae *domain.AuthorizationError
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, "The user with email=jane.doe@ucll.be, is not an organiser", err.Error())
		assert.Equal(t, 0, repo.findByOrganiserCalls)
		assert.Equal(t, 0, repo.createCalls)
	})

	t.Run("nil actor is not authorized", func(t *testing.T) {
		repo := newFakeEventRepo()
		_, err := newTestEventService(repo, nil, time.Now()).CreateEvent(ctx, beerTastingFields(), nil)
		var ae *domain.AuthorizationError
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, 0, repo.createCalls)
	})

	t.Run("blank name fails validation", func(t *testing.T) {
		repo := newFakeEventRepo()
		fields := beerTastingFields()
		fields.Name = "   "
		_, err := newTestEventService(repo, nil, time.Now()).CreateEvent(ctx, fields, testOrganiser(t))
		var ve *domain.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "name", ve.Field)
		assert.Equal(t, "Name is required", ve.Message)
		assert.Equal(t, 0, repo.createCalls)
	})

	t.Run("missing date fails validation", func(t *testing.T) {
		repo := newFakeEventRepo()
		fields := beerTastingFields()
		fields.Date = time.Time{}
		_, err := newTestEventService(repo, nil, time.Now()).CreateEvent(ctx, fields, testOrganiser(t))
		var ve *domain.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "Date is required", ve.Message)
		assert.Equal(t, 0, repo.findByOrganiserCalls)
		assert.Equal(t, 0, repo.createCalls)
	})

	t.Run("lost race on insert is a conflict", func(t *testing.T) {
		repo := newFakeEventRepo()
		repo.createErr = domain.ErrEventDayTaken
		_, err := newTestEventService(repo, nil, time.Now()).CreateEvent(ctx, beerTastingFields(), testOrganiser(t))
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("insert failure is a storage error", func(t *testing.T) {
		repo := newFakeEventRepo()
		repo.createErr = errors.New("disk full")
		_, err := newTestEventService(repo, nil, time.Now()).CreateEvent(ctx, beerTastingFields(), testOrganiser(t))
		var se *domain.StorageError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, "Database error. See server log for details.", err.Error())
	})

	t.Run("lookup failure stops before insert", func(t *testing.T) {
		repo := newFakeEventRepo()
		repo.err = errors.New("timeout")
		_, err := newTestEventService(repo, nil, time.Now()).CreateEvent(ctx, beerTastingFields(), testOrganiser(t))
		var se *domain.StorageError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, 0, repo.createCalls)
	})

	t.Run("notification failure does not fail creation", func(t *testing.T) {
		repo := newFakeEventRepo()
		email := &fakeEmailService{err: errors.New("ses unavailable")}
		event, err := newTestEventService(repo, email, time.Now()).CreateEvent(ctx, beerTastingFields(), testOrganiser(t))
		require.NoError(t, err)
		assert.True(t, event.IsPersisted())
		assert.Len(t, email.eventCreated, 1)
	})
}
