package translation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	sqliterepo "github.com/johnquangdev/caption-relay/internal/adapter/repository/sqlite"
	"github.com/johnquangdev/caption-relay/internal/domain/entities"
	"github.com/johnquangdev/caption-relay/internal/domain/repositories"
	"github.com/johnquangdev/caption-relay/internal/infrastructure/database"
	ucerrors "github.com/johnquangdev/caption-relay/internal/usecase/errors"
	pkgai "github.com/johnquangdev/caption-relay/pkg/ai"
)

// fakeProvider answers with a function of the request and counts calls.
type fakeProvider struct {
	mu       sync.Mutex
	calls    int
	requests []entities.ProviderRequest
	respond  func(req entities.ProviderRequest) (string, error)
}

func (f *fakeProvider) Translate(ctx context.Context, req entities.ProviderRequest) (string, error) {
	f.mu.Lock()
	f.calls++
	f.requests = append(f.requests, req)
	respond := f.respond
	f.mu.Unlock()
	return respond(req)
}

func (f *fakeProvider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// echoTranslations answers every item with "<lang>:<text>".
func echoTranslations(req entities.ProviderRequest) (string, error) {
	out := make([]map[string]string, 0, len(req.Items))
	for _, item := range req.Items {
		out = append(out, map[string]string{"id": item.ID, "translated_text": req.TargetLanguage + ":" + item.Text})
	}
	b, err := json.Marshal(out)
	return string(b), err
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []entities.StreamEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, event entities.StreamEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func newTestStore(t *testing.T) *repositories.Store {
	t.Helper()
	db, err := database.NewSQLiteDB(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.Migrate(db, database.DialectSQLite); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return sqliterepo.NewStore(db)
}

func seedEvent(t *testing.T, store *repositories.Store, texts ...string) (*entities.Event, []*entities.Segment) {
	t.Helper()
	ctx := context.Background()
	event := entities.NewEvent(uuid.New(), "Talk", nil)
	if err := store.Events.Create(ctx, event); err != nil {
		t.Fatalf("create event: %v", err)
	}
	segments := make([]*entities.Segment, 0, len(texts))
	for i, text := range texts {
		seg := entities.NewSegment(event.ID, int64(i+1), text, nil)
		if err := store.Segments.Append(ctx, seg); err != nil {
			t.Fatalf("append segment: %v", err)
		}
		segments = append(segments, seg)
	}
	return event, segments
}

func countRows(t *testing.T, store *repositories.Store, eventID uuid.UUID, lang string) map[uuid.UUID]int {
	t.Helper()
	rows, err := store.Translations.ListByLanguage(context.Background(), eventID, lang)
	if err != nil {
		t.Fatalf("list translations: %v", err)
	}
	counts := make(map[uuid.UUID]int)
	for _, r := range rows {
		counts[r.SegmentID]++
	}
	return counts
}

func TestDispatch_FrenchScenario(t *testing.T) {
	store := newTestStore(t)
	event, segs := seedEvent(t, store, "hello", "world")
	s1, s2 := segs[0], segs[1]

	provider := &fakeProvider{respond: func(req entities.ProviderRequest) (string, error) {
		return fmt.Sprintf(`[{"id":%q,"translated_text":"bonjour"},{"id":%q,"translated_text":"monde"}]`,
			s1.ID.String(), s2.ID.String()), nil
	}}
	pub := &recordingPublisher{}
	svc := NewService(store.Segments, store.Translations, provider, nil,
		WithAudit(store.DispatchRuns), WithPublisher(pub), WithModel("test-model"))

	res, err := svc.Dispatch(context.Background(), DispatchInput{EventID: event.ID, LanguageCode: "fr"})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if len(res.Translated) != 2 {
		t.Fatalf("translated %d rows, want 2", len(res.Translated))
	}
	if res.Translated[0].SegmentID != s1.ID || res.Translated[0].SequenceNumber != 1 || res.Translated[0].TranslatedText != "bonjour" {
		t.Errorf("row 0 = %+v", res.Translated[0])
	}
	if res.Translated[1].SegmentID != s2.ID || res.Translated[1].SequenceNumber != 2 || res.Translated[1].TranslatedText != "monde" {
		t.Errorf("row 1 = %+v", res.Translated[1])
	}
	if res.Debug == nil || res.Debug.PendingCount != 2 || res.Debug.Request.TargetLanguage != "fr" {
		t.Errorf("debug = %+v", res.Debug)
	}
	if len(pub.events) != 2 || pub.events[0].Type != entities.StreamTranslationArrived {
		t.Errorf("published %+v", pub.events)
	}

	again, err := svc.Dispatch(context.Background(), DispatchInput{EventID: event.ID, LanguageCode: "fr"})
	if err != nil {
		t.Fatalf("second Dispatch: %v", err)
	}
	if len(again.Translated) != 0 {
		t.Fatalf("second dispatch translated %d rows, want 0", len(again.Translated))
	}
	if provider.callCount() != 1 {
		t.Fatalf("provider called %d times, want 1", provider.callCount())
	}

	runs, err := store.DispatchRuns.ListByEvent(context.Background(), event.ID, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].Outcome != entities.DispatchOutcomeInserted || runs[0].InsertedCount != 2 {
		t.Fatalf("audit runs = %+v", runs)
	}
}

func TestDispatch_IdempotentSequential(t *testing.T) {
	store := newTestStore(t)
	event, segs := seedEvent(t, store, "a", "b", "c", "d")
	provider := &fakeProvider{respond: echoTranslations}
	svc := NewService(store.Segments, store.Translations, provider, nil)

	for i := 0; i < 5; i++ {
		res, err := svc.Dispatch(context.Background(), DispatchInput{EventID: event.ID, LanguageCode: "de"})
		if err != nil {
			t.Fatalf("Dispatch #%d: %v", i, err)
		}
		if i > 0 && len(res.Translated) != 0 {
			t.Fatalf("Dispatch #%d translated %d rows, want 0", i, len(res.Translated))
		}
	}

	counts := countRows(t, store, event.ID, "de")
	for _, seg := range segs {
		if counts[seg.ID] != 1 {
			t.Errorf("segment %d has %d rows", seg.SequenceNumber, counts[seg.ID])
		}
	}
}

func TestDispatch_OnlyNewSegmentsArePending(t *testing.T) {
	store := newTestStore(t)
	event, _ := seedEvent(t, store, "a", "b")
	provider := &fakeProvider{respond: echoTranslations}
	svc := NewService(store.Segments, store.Translations, provider, nil)
	ctx := context.Background()

	if _, err := svc.Dispatch(ctx, DispatchInput{EventID: event.ID, LanguageCode: "es"}); err != nil {
		t.Fatal(err)
	}
	late := entities.NewSegment(event.ID, 3, "c", nil)
	if err := store.Segments.Append(ctx, late); err != nil {
		t.Fatal(err)
	}

	res, err := svc.Dispatch(ctx, DispatchInput{EventID: event.ID, LanguageCode: "es"})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Translated) != 1 || res.Translated[0].SegmentID != late.ID {
		t.Fatalf("translated = %+v, want only the late segment", res.Translated)
	}
	last := provider.requests[len(provider.requests)-1]
	if len(last.Items) != 1 || last.Items[0].ID != late.ID.String() {
		t.Fatalf("second batch = %+v", last.Items)
	}
}

func TestDispatch_RaceProducesOneRowPerSegment(t *testing.T) {
	store := newTestStore(t)
	event, segs := seedEvent(t, store, "one", "two", "three")

	// Both calls are held at the provider until each has computed its pending
	// set, so their batches overlap completely.
	const callers = 2
	var arrived sync.WaitGroup
	arrived.Add(callers)
	provider := &fakeProvider{respond: func(req entities.ProviderRequest) (string, error) {
		arrived.Done()
		arrived.Wait()
		return echoTranslations(req)
	}}
	svc := NewService(store.Segments, store.Translations, provider, nil)

	results := make([]*DispatchResult, callers)
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.Dispatch(context.Background(), DispatchInput{EventID: event.ID, LanguageCode: "fr"})
		}(i)
	}
	wg.Wait()

	recovered := 0
	for i := 0; i < callers; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d: %v", i, errs[i])
		}
		if len(results[i].Translated) != len(segs) {
			t.Fatalf("caller %d got %d rows, want %d", i, len(results[i].Translated), len(segs))
		}
		if results[i].Debug.Recovered {
			recovered++
		}
	}
	if recovered != 1 {
		t.Fatalf("%d callers recovered from conflict, want 1", recovered)
	}

	// Both callers see the same stored rows for the overlap.
	for j := range segs {
		a, b := results[0].Translated[j], results[1].Translated[j]
		if a.ID != b.ID || a.TranslatedText != b.TranslatedText {
			t.Errorf("segment %d: callers disagree %+v vs %+v", j, a, b)
		}
	}

	counts := countRows(t, store, event.ID, "fr")
	for _, seg := range segs {
		if counts[seg.ID] != 1 {
			t.Errorf("segment %d has %d rows, want 1", seg.SequenceNumber, counts[seg.ID])
		}
	}
}

// A caller whose batch only partly overlaps a racing winner gets back the
// stored rows for the overlap; the rest of its batch stays pending.
func TestDispatch_PartialOverlapLeavesRestPending(t *testing.T) {
	store := newTestStore(t)
	event, segs := seedEvent(t, store, "one")
	ctx := context.Background()

	narrowAt, wideAt := make(chan struct{}), make(chan struct{})
	releaseNarrow, releaseWide := make(chan struct{}), make(chan struct{})
	provider := &fakeProvider{respond: func(req entities.ProviderRequest) (string, error) {
		if len(req.Items) == 1 {
			close(narrowAt)
			<-releaseNarrow
		} else {
			close(wideAt)
			<-releaseWide
		}
		return echoTranslations(req)
	}}
	svc := NewService(store.Segments, store.Translations, provider, nil)

	type outcome struct {
		res *DispatchResult
		err error
	}
	dispatch := func(out chan<- outcome) {
		res, err := svc.Dispatch(ctx, DispatchInput{EventID: event.ID, LanguageCode: "fr"})
		out <- outcome{res, err}
	}

	// narrow caller computes pending = {s1}
	narrowDone := make(chan outcome, 1)
	go dispatch(narrowDone)
	<-narrowAt

	for i, text := range []string{"two", "three"} {
		seg := entities.NewSegment(event.ID, int64(i+2), text, nil)
		if err := store.Segments.Append(ctx, seg); err != nil {
			t.Fatal(err)
		}
		segs = append(segs, seg)
	}

	// wide caller computes pending = {s1, s2, s3}
	wideDone := make(chan outcome, 1)
	go dispatch(wideDone)
	<-wideAt

	close(releaseNarrow)
	narrow := <-narrowDone
	close(releaseWide)
	wide := <-wideDone

	if narrow.err != nil || wide.err != nil {
		t.Fatalf("narrow err = %v, wide err = %v", narrow.err, wide.err)
	}
	if len(narrow.res.Translated) != 1 || narrow.res.Debug.Recovered {
		t.Fatalf("narrow = %+v", narrow.res)
	}
	if !wide.res.Debug.Recovered {
		t.Fatal("wide caller should recover from the conflict")
	}
	if len(wide.res.Translated) != 1 || wide.res.Translated[0].ID != narrow.res.Translated[0].ID {
		t.Fatalf("wide translated = %+v, want only the stored s1 row", wide.res.Translated)
	}

	counts := countRows(t, store, event.ID, "fr")
	if counts[segs[0].ID] != 1 || counts[segs[1].ID] != 0 || counts[segs[2].ID] != 0 {
		t.Fatalf("counts after race = %v", counts)
	}

	// s2 and s3 are picked up by the next dispatch
	next, err := svc.Dispatch(ctx, DispatchInput{EventID: event.ID, LanguageCode: "fr"})
	if err != nil {
		t.Fatal(err)
	}
	if len(next.Translated) != 2 || next.Translated[0].SegmentID != segs[1].ID || next.Translated[1].SegmentID != segs[2].ID {
		t.Fatalf("follow-up translated = %+v", next.Translated)
	}
	counts = countRows(t, store, event.ID, "fr")
	for _, seg := range segs {
		if counts[seg.ID] != 1 {
			t.Errorf("segment %d has %d rows, want 1", seg.SequenceNumber, counts[seg.ID])
		}
	}
}

func TestDispatch_PartialTextIsNeverTranslated(t *testing.T) {
	store := newTestStore(t)
	event, segs := seedEvent(t, store, "finished sentence")
	provider := &fakeProvider{respond: echoTranslations}
	svc := NewService(store.Segments, store.Translations, provider, nil)

	const partial = "still speaking about"
	res, err := svc.Dispatch(context.Background(), DispatchInput{EventID: event.ID, LanguageCode: "it", PartialText: partial})
	if err != nil {
		t.Fatal(err)
	}

	req := provider.requests[0]
	if req.PartialText != partial {
		t.Errorf("partial_text = %q, want it passed as context", req.PartialText)
	}
	for _, item := range req.Items {
		if strings.Contains(item.Text, partial) {
			t.Errorf("partial text sent as an item: %+v", item)
		}
	}
	for _, row := range res.Translated {
		if row.SegmentID != segs[0].ID || strings.Contains(row.TranslatedText, partial) {
			t.Errorf("row not traceable to a finalized segment: %+v", row)
		}
	}
}

func TestDispatch_PartialOnlyWithNothingPending(t *testing.T) {
	store := newTestStore(t)
	event, _ := seedEvent(t, store)
	provider := &fakeProvider{respond: echoTranslations}
	svc := NewService(store.Segments, store.Translations, provider, nil)

	res, err := svc.Dispatch(context.Background(), DispatchInput{EventID: event.ID, LanguageCode: "fr", PartialText: "hello wor"})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Translated) != 0 || provider.callCount() != 0 {
		t.Fatalf("translated=%d calls=%d, want 0 and 0", len(res.Translated), provider.callCount())
	}
}

func TestDispatch_NonArrayOutput(t *testing.T) {
	store := newTestStore(t)
	event, _ := seedEvent(t, store, "hello", "world")
	provider := &fakeProvider{respond: func(entities.ProviderRequest) (string, error) {
		return `{"translations":"nope"}`, nil
	}}
	svc := NewService(store.Segments, store.Translations, provider, nil, WithAudit(store.DispatchRuns))

	_, err := svc.Dispatch(context.Background(), DispatchInput{EventID: event.ID, LanguageCode: "fr"})
	if !errors.Is(err, ucerrors.ErrInvalidProviderOutput) {
		t.Fatalf("err = %v, want ErrInvalidProviderOutput", err)
	}
	var dispatchErr *DispatchError
	if !errors.As(err, &dispatchErr) || dispatchErr.Debug == nil || dispatchErr.Debug.ModelOutputRaw == "" {
		t.Fatalf("expected debug with raw output, got %+v", err)
	}
	if n := len(countRows(t, store, event.ID, "fr")); n != 0 {
		t.Fatalf("%d rows inserted, want 0", n)
	}

	runs, _ := store.DispatchRuns.ListByEvent(context.Background(), event.ID, 10)
	if len(runs) != 1 || runs[0].Outcome != entities.DispatchOutcomeInvalidOutput {
		t.Fatalf("audit runs = %+v", runs)
	}
}

func TestDispatch_UnknownIDIsRejected(t *testing.T) {
	store := newTestStore(t)
	event, segs := seedEvent(t, store, "hello")
	provider := &fakeProvider{respond: func(entities.ProviderRequest) (string, error) {
		return fmt.Sprintf(`[{"id":%q,"translated_text":"bonjour"},{"id":%q,"translated_text":"??"}]`,
			segs[0].ID.String(), uuid.NewString()), nil
	}}
	svc := NewService(store.Segments, store.Translations, provider, nil)

	_, err := svc.Dispatch(context.Background(), DispatchInput{EventID: event.ID, LanguageCode: "fr"})
	if !errors.Is(err, ucerrors.ErrInvalidProviderOutput) {
		t.Fatalf("err = %v, want ErrInvalidProviderOutput", err)
	}
	if n := len(countRows(t, store, event.ID, "fr")); n != 0 {
		t.Fatalf("%d rows inserted, want 0", n)
	}
}

func TestDispatch_ProviderErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "not configured", err: pkgai.ErrNotConfigured, want: ucerrors.ErrProviderMisconfigured},
		{name: "status", err: &pkgai.StatusError{StatusCode: 500, Body: "boom"}, want: ucerrors.ErrProviderUnavailable},
		{name: "timeout", err: context.DeadlineExceeded, want: ucerrors.ErrProviderUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t)
			event, _ := seedEvent(t, store, "hello")
			provider := &fakeProvider{respond: func(entities.ProviderRequest) (string, error) { return "", tt.err }}
			svc := NewService(store.Segments, store.Translations, provider, nil)

			_, err := svc.Dispatch(context.Background(), DispatchInput{EventID: event.ID, LanguageCode: "fr"})
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if !errors.Is(err, tt.err) {
				t.Fatalf("err = %v does not wrap cause %v", err, tt.err)
			}
		})
	}
}

func TestDispatch_InvalidInput(t *testing.T) {
	store := newTestStore(t)
	svc := NewService(store.Segments, store.Translations, &fakeProvider{respond: echoTranslations}, nil)

	for _, in := range []DispatchInput{
		{EventID: uuid.Nil, LanguageCode: "fr"},
		{EventID: uuid.New(), LanguageCode: ""},
		{EventID: uuid.New(), LanguageCode: "none"},
		{EventID: uuid.New(), LanguageCode: "not a language"},
	} {
		if _, err := svc.Dispatch(context.Background(), in); !errors.Is(err, ucerrors.ErrInvalidInput) {
			t.Errorf("Dispatch(%+v) err = %v, want ErrInvalidInput", in, err)
		}
	}
}

// conflictingStore simulates a racer that inserts between our read and write.
type conflictingStore struct {
	repositories.TranslationRepository
	racer func()
	once  sync.Once
}

func (c *conflictingStore) InsertBatch(ctx context.Context, rows []entities.Translation) error {
	c.once.Do(c.racer)
	return c.TranslationRepository.InsertBatch(ctx, rows)
}

func TestDispatch_ConflictRecoveryReturnsStoredRows(t *testing.T) {
	store := newTestStore(t)
	event, segs := seedEvent(t, store, "hello", "world")

	racing := &conflictingStore{TranslationRepository: store.Translations}
	racing.racer = func() {
		winner := []entities.Translation{entities.NewTranslation(*segs[0], "fr", "salut")}
		if err := store.Translations.InsertBatch(context.Background(), winner); err != nil {
			t.Errorf("racer insert: %v", err)
		}
	}
	svc := NewService(store.Segments, racing, &fakeProvider{respond: echoTranslations}, nil)

	res, err := svc.Dispatch(context.Background(), DispatchInput{EventID: event.ID, LanguageCode: "fr"})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if !res.Debug.Recovered {
		t.Fatalf("expected conflict recovery")
	}
	if len(res.Translated) != 1 || res.Translated[0].TranslatedText != "salut" {
		t.Fatalf("translated = %+v, want the racer's row", res.Translated)
	}

	// The segment the racer did not cover is still pending and is picked up next time.
	next, err := svc.Dispatch(context.Background(), DispatchInput{EventID: event.ID, LanguageCode: "fr"})
	if err != nil {
		t.Fatal(err)
	}
	if len(next.Translated) != 1 || next.Translated[0].SegmentID != segs[1].ID {
		t.Fatalf("follow-up translated = %+v", next.Translated)
	}
}

type failingStore struct {
	repositories.TranslationRepository
}

func (failingStore) InsertBatch(context.Context, []entities.Translation) error {
	return errors.New("disk full")
}

func TestDispatch_PersistenceError(t *testing.T) {
	store := newTestStore(t)
	event, _ := seedEvent(t, store, "hello")
	svc := NewService(store.Segments, failingStore{store.Translations}, &fakeProvider{respond: echoTranslations}, nil)

	_, err := svc.Dispatch(context.Background(), DispatchInput{EventID: event.ID, LanguageCode: "fr"})
	if !errors.Is(err, ucerrors.ErrPersistence) {
		t.Fatalf("err = %v, want ErrPersistence", err)
	}
}
