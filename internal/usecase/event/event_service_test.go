package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"

	sqliterepo "github.com/johnquangdev/caption-relay/internal/adapter/repository/sqlite"
	"github.com/johnquangdev/caption-relay/internal/domain/entities"
	"github.com/johnquangdev/caption-relay/internal/domain/repositories"
	"github.com/johnquangdev/caption-relay/internal/infrastructure/cache"
	"github.com/johnquangdev/caption-relay/internal/infrastructure/database"
	usecaseErrors "github.com/johnquangdev/caption-relay/internal/usecase/errors"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []entities.StreamEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event entities.StreamEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func newService(t *testing.T) (*EventService, *repositories.Store, *recordingPublisher) {
	t.Helper()
	db, err := database.NewSQLiteDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.Migrate(db, database.DialectSQLite); err != nil {
		t.Fatal(err)
	}
	store := sqliterepo.NewStore(db)
	partials := cache.NewMemoryPartialStore(0)
	t.Cleanup(func() { partials.Close() })
	pub := &recordingPublisher{}
	return NewEventService(store, partials, pub, nil), store, pub
}

func TestCreateEvent(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()
	owner := uuid.New()

	event, err := svc.CreateEvent(ctx, CreateEventInput{OwnerID: owner, Title: "  Launch  ", Languages: []string{"FR", "pt_BR"}})
	if err != nil {
		t.Fatal(err)
	}
	if event.Title != "Launch" || len(event.UID) != 12 {
		t.Fatalf("event = %+v", event)
	}

	languages, err := svc.ListLanguages(ctx, event.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(languages) != 2 {
		t.Fatalf("languages = %+v", languages)
	}
	for _, l := range languages {
		if !l.IsActive || (l.LanguageCode != "fr" && l.LanguageCode != "pt-br") {
			t.Errorf("unexpected language %+v", l)
		}
	}

	byUID, err := svc.ResolveEvent(ctx, event.UID)
	if err != nil || byUID.ID != event.ID {
		t.Fatalf("ResolveEvent(uid) = %+v, %v", byUID, err)
	}
	byID, err := svc.ResolveEvent(ctx, event.ID.String())
	if err != nil || byID.ID != event.ID {
		t.Fatalf("ResolveEvent(id) = %+v, %v", byID, err)
	}
}

func TestCreateEvent_Validation(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	if _, err := svc.CreateEvent(ctx, CreateEventInput{OwnerID: uuid.New(), Title: " "}); !errors.Is(err, usecaseErrors.ErrInvalidInput) {
		t.Errorf("empty title err = %v", err)
	}
	if _, err := svc.CreateEvent(ctx, CreateEventInput{OwnerID: uuid.New(), Title: "x", Languages: []string{"klingon!"}}); !errors.Is(err, usecaseErrors.ErrInvalidInput) {
		t.Errorf("bad language err = %v", err)
	}
	if _, err := svc.CreateEvent(ctx, CreateEventInput{Title: "x"}); !errors.Is(err, usecaseErrors.ErrUnauthorized) {
		t.Errorf("anonymous err = %v", err)
	}
}

func TestAuthorizeOwner(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()
	owner := uuid.New()
	event, err := svc.CreateEvent(ctx, CreateEventInput{OwnerID: owner, Title: "Mine"})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		eventID uuid.UUID
		userID  uuid.UUID
		want    error
	}{
		{name: "owner", eventID: event.ID, userID: owner},
		{name: "stranger", eventID: event.ID, userID: uuid.New(), want: usecaseErrors.ErrForbidden},
		{name: "missing event", eventID: uuid.New(), userID: owner, want: usecaseErrors.ErrForbidden},
		{name: "anonymous", eventID: event.ID, userID: uuid.Nil, want: usecaseErrors.ErrUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.AuthorizeOwner(ctx, tt.eventID, tt.userID)
			if tt.want == nil {
				if err != nil || got == nil || got.ID != event.ID {
					t.Fatalf("got %+v, %v", got, err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSetLanguage_Publishes(t *testing.T) {
	svc, store, pub := newService(t)
	ctx := context.Background()
	event, _ := svc.CreateEvent(ctx, CreateEventInput{OwnerID: uuid.New(), Title: "Gated", Languages: []string{"es"}})

	availability, err := svc.SetLanguage(ctx, event.ID, "ES", false)
	if err != nil {
		t.Fatal(err)
	}
	if availability.IsActive || availability.LanguageCode != "es" {
		t.Fatalf("availability = %+v", availability)
	}
	if len(pub.events) != 1 || pub.events[0].Type != entities.StreamAvailabilityChanged {
		t.Fatalf("published %+v", pub.events)
	}

	stored, err := store.Languages.Find(ctx, event.ID, "es")
	if err != nil || stored == nil || stored.IsActive {
		t.Fatalf("stored = %+v, %v", stored, err)
	}
}

func TestListTranslations_StillReadableWhenInactive(t *testing.T) {
	svc, store, _ := newService(t)
	ctx := context.Background()
	event, _ := svc.CreateEvent(ctx, CreateEventInput{OwnerID: uuid.New(), Title: "Readable", Languages: []string{"fr"}})

	seg := entities.NewSegment(event.ID, 1, "hello", nil)
	if err := store.Segments.Append(ctx, seg); err != nil {
		t.Fatal(err)
	}
	if err := store.Translations.InsertBatch(ctx, []entities.Translation{entities.NewTranslation(*seg, "fr", "bonjour")}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.SetLanguage(ctx, event.ID, "fr", false); err != nil {
		t.Fatal(err)
	}

	rows, err := svc.ListTranslations(ctx, event.ID, "FR")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].TranslatedText != "bonjour" {
		t.Fatalf("rows = %+v", rows)
	}

	if _, err := svc.ListTranslations(ctx, event.ID, "none"); !errors.Is(err, usecaseErrors.ErrInvalidInput) {
		t.Fatalf("none err = %v", err)
	}
}

func TestGetEvent_NotFound(t *testing.T) {
	svc, _, _ := newService(t)
	if _, err := svc.GetEvent(context.Background(), uuid.New()); !errors.Is(err, usecaseErrors.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if _, err := svc.ResolveEvent(context.Background(), "abcdef123456"); !errors.Is(err, usecaseErrors.ErrNotFound) {
		t.Fatalf("uid err = %v, want ErrNotFound", err)
	}
}
