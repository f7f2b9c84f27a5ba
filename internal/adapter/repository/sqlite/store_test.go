package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/johnquangdev/caption-relay/internal/domain/entities"
	"github.com/johnquangdev/caption-relay/internal/domain/repositories"
	"github.com/johnquangdev/caption-relay/internal/infrastructure/database"
)

// createTestStore opens an in-memory database with the full schema.
func createTestStore(t *testing.T) (*repositories.Store, *sql.DB) {
	t.Helper()

	db, err := database.NewSQLiteDB(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.Migrate(db, database.DialectSQLite); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewStore(db), db
}

func createEvent(t *testing.T, store *repositories.Store) *entities.Event {
	t.Helper()
	event := entities.NewEvent(uuid.New(), "Keynote", nil)
	if err := store.Events.Create(context.Background(), event); err != nil {
		t.Fatalf("create event: %v", err)
	}
	return event
}

func TestEventRoundTrip(t *testing.T) {
	store, _ := createTestStore(t)
	ctx := context.Background()
	desc := "opening talk"
	event := entities.NewEvent(uuid.New(), "Keynote", &desc)

	if err := store.Events.Create(ctx, event); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := store.Events.FindByUID(ctx, event.UID)
	if err != nil {
		t.Fatalf("FindByUID: %v", err)
	}
	if got == nil || got.ID != event.ID || got.OwnerID != event.OwnerID {
		t.Fatalf("FindByUID = %+v", got)
	}
	if got.Description == nil || *got.Description != desc {
		t.Errorf("description = %v", got.Description)
	}

	missing, err := store.Events.FindByID(ctx, uuid.New())
	if err != nil || missing != nil {
		t.Errorf("FindByID(missing) = %v, %v; want nil, nil", missing, err)
	}
}

func TestSegmentAppendAssignsSequence(t *testing.T) {
	store, _ := createTestStore(t)
	ctx := context.Background()
	event := createEvent(t, store)

	for _, text := range []string{"one", "two", "three"} {
		if err := store.Segments.Append(ctx, entities.NewSegment(event.ID, 0, text, nil)); err != nil {
			t.Fatalf("Append(%s): %v", text, err)
		}
	}

	segments, err := store.Segments.ListFinal(ctx, event.ID)
	if err != nil {
		t.Fatalf("ListFinal: %v", err)
	}
	if len(segments) != 3 {
		t.Fatalf("got %d segments, want 3", len(segments))
	}
	for i, seg := range segments {
		if seg.SequenceNumber != int64(i+1) {
			t.Errorf("segment %d seq = %d", i, seg.SequenceNumber)
		}
	}
	if segments[0].Text != "one" || segments[2].Text != "three" {
		t.Errorf("unexpected order %q..%q", segments[0].Text, segments[2].Text)
	}
}

func TestSegmentDuplicateSequence(t *testing.T) {
	store, _ := createTestStore(t)
	ctx := context.Background()
	event := createEvent(t, store)

	if err := store.Segments.Append(ctx, entities.NewSegment(event.ID, 5, "a", nil)); err != nil {
		t.Fatal(err)
	}
	err := store.Segments.Append(ctx, entities.NewSegment(event.ID, 5, "b", nil))
	if !errors.Is(err, repositories.ErrDuplicate) {
		t.Fatalf("err = %v, want ErrDuplicate", err)
	}

	seg, err := store.Segments.FindBySequence(ctx, event.ID, 5)
	if err != nil || seg == nil || seg.Text != "a" {
		t.Fatalf("FindBySequence = %+v, %v", seg, err)
	}
}

func TestTranslationUniqueConstraint(t *testing.T) {
	store, _ := createTestStore(t)
	ctx := context.Background()
	event := createEvent(t, store)

	s1 := entities.NewSegment(event.ID, 1, "hello", nil)
	s2 := entities.NewSegment(event.ID, 2, "world", nil)
	for _, s := range []*entities.Segment{s1, s2} {
		if err := store.Segments.Append(ctx, s); err != nil {
			t.Fatal(err)
		}
	}

	first := []entities.Translation{entities.NewTranslation(*s1, "fr", "bonjour")}
	if err := store.Translations.InsertBatch(ctx, first); err != nil {
		t.Fatalf("InsertBatch: %v", err)
	}

	// s2 is new but s1 conflicts: the whole batch must be rejected.
	second := []entities.Translation{
		entities.NewTranslation(*s2, "fr", "monde"),
		entities.NewTranslation(*s1, "fr", "salut"),
	}
	err := store.Translations.InsertBatch(ctx, second)
	if !errors.Is(err, repositories.ErrDuplicate) {
		t.Fatalf("err = %v, want ErrDuplicate", err)
	}

	rows, err := store.Translations.ListByLanguage(ctx, event.ID, "fr")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].TranslatedText != "bonjour" {
		t.Fatalf("rows = %+v, want only the first insert", rows)
	}

	// Same segment in another language is a different key.
	if err := store.Translations.InsertBatch(ctx, []entities.Translation{entities.NewTranslation(*s1, "de", "hallo")}); err != nil {
		t.Fatalf("InsertBatch(de): %v", err)
	}

	bySeg, err := store.Translations.ListBySegments(ctx, event.ID, "fr", []uuid.UUID{s1.ID, s2.ID})
	if err != nil {
		t.Fatal(err)
	}
	if len(bySeg) != 1 || bySeg[0].SegmentID != s1.ID || bySeg[0].SequenceNumber != 1 {
		t.Fatalf("ListBySegments = %+v", bySeg)
	}
}

func TestConcurrentInsertSameKey(t *testing.T) {
	store, _ := createTestStore(t)
	ctx := context.Background()
	event := createEvent(t, store)
	seg := entities.NewSegment(event.ID, 1, "hello", nil)
	if err := store.Segments.Append(ctx, seg); err != nil {
		t.Fatal(err)
	}

	const writers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		inserted  int
		conflicts int
	)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := store.Translations.InsertBatch(ctx, []entities.Translation{entities.NewTranslation(*seg, "fr", "bonjour")})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				inserted++
			case errors.Is(err, repositories.ErrDuplicate):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if inserted != 1 || conflicts != writers-1 {
		t.Fatalf("inserted=%d conflicts=%d", inserted, conflicts)
	}
}

func TestLanguageUpsert(t *testing.T) {
	store, _ := createTestStore(t)
	ctx := context.Background()
	event := createEvent(t, store)

	if err := store.Languages.Upsert(ctx, &entities.LanguageAvailability{EventID: event.ID, LanguageCode: "fr", IsActive: true}); err != nil {
		t.Fatal(err)
	}
	if err := store.Languages.Upsert(ctx, &entities.LanguageAvailability{EventID: event.ID, LanguageCode: "fr", IsActive: false}); err != nil {
		t.Fatal(err)
	}

	langs, err := store.Languages.ListByEvent(ctx, event.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(langs) != 1 || langs[0].IsActive {
		t.Fatalf("languages = %+v", langs)
	}

	got, err := store.Languages.Find(ctx, event.ID, "de")
	if err != nil || got != nil {
		t.Fatalf("Find(de) = %v, %v", got, err)
	}
}

func TestDispatchRunAudit(t *testing.T) {
	store, _ := createTestStore(t)
	ctx := context.Background()
	event := createEvent(t, store)

	run := &entities.DispatchRun{
		ID:           uuid.New(),
		EventID:      event.ID,
		LanguageCode: "fr",
		Outcome:      entities.DispatchOutcomeInvalidOutput,
		PendingCount: 2,
	}
	if err := store.DispatchRuns.Create(ctx, run); err != nil {
		t.Fatalf("Create: %v", err)
	}

	runs, err := store.DispatchRuns.ListByEvent(ctx, event.ID, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].Outcome != entities.DispatchOutcomeInvalidOutput || runs[0].PendingCount != 2 {
		t.Fatalf("runs = %+v", runs)
	}
}
