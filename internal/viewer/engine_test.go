package viewer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/johnquangdev/caption-relay/internal/domain/entities"
)

type fakeSource struct {
	mu           sync.Mutex
	snapshot     Snapshot
	failLoads    int
	loads        int
	translations map[string][]entities.Translation
	fetched      []string
}

func (f *fakeSource) LoadSnapshot(context.Context) (Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads++
	if f.loads <= f.failLoads {
		return Snapshot{}, errors.New("backend down")
	}
	return f.snapshot, nil
}

func (f *fakeSource) LoadTranslations(_ context.Context, language string) ([]entities.Translation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetched = append(f.fetched, language)
	return f.translations[language], nil
}

func (f *fakeSource) LoadAvailability(context.Context) ([]entities.LanguageAvailability, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshot.Languages, nil
}

func (f *fakeSource) loadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loads
}

type recordingScoper struct {
	mu        sync.Mutex
	languages []string
}

func (r *recordingScoper) SetLanguage(_ context.Context, language string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.languages = append(r.languages, language)
	return nil
}

func (r *recordingScoper) last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.languages) == 0 {
		return "<unset>"
	}
	return r.languages[len(r.languages)-1]
}

// waitFor polls the engine state until cond holds
func waitFor(t *testing.T, e *Engine, what string, cond func(State) bool) State {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s := e.State(); cond(s) {
			return s
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s; state = %+v", what, e.State())
	return State{}
}

func startEngine(t *testing.T, source Source, initial State, opts ...EngineOption) *Engine {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	engine := NewEngine(source, initial, opts...)
	done := make(chan struct{})
	go func() {
		engine.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return engine
}

func TestEngine_LoadsAndFetchesTarget(t *testing.T) {
	s1 := seg(1, "hello")
	source := &fakeSource{
		snapshot: Snapshot{
			Segments:  []entities.Segment{s1},
			Languages: []entities.LanguageAvailability{lang("fr", true)},
		},
		translations: map[string][]entities.Translation{"fr": {tr(s1, "fr", "bonjour")}},
	}
	scoper := &recordingScoper{}
	engine := startEngine(t, source, NewState("fr", ViewBoth), WithScoper(scoper))

	waitFor(t, engine, "fr translations", func(s State) bool {
		return s.Status == StatusReady && s.Translations[s1.ID] == "bonjour"
	})
	waitFor(t, engine, "scope", func(State) bool { return scoper.last() == "fr" })
}

func TestEngine_LoadFailureThenRetry(t *testing.T) {
	source := &fakeSource{failLoads: 1, snapshot: Snapshot{Segments: []entities.Segment{seg(1, "x")}}}
	engine := startEngine(t, source, NewState("none", ViewOriginal))

	waitFor(t, engine, "load error", func(s State) bool { return s.Status == StatusFailed })
	engine.Send(context.Background(), Retry{})
	s := waitFor(t, engine, "ready", func(s State) bool { return s.Status == StatusReady })
	if len(s.Segments) != 1 {
		t.Fatalf("segments = %+v", s.Segments)
	}
}

func TestEngine_StreamEventsAndReconnect(t *testing.T) {
	s1, s2 := seg(1, "one"), seg(2, "two")
	source := &fakeSource{snapshot: Snapshot{Segments: []entities.Segment{s1}}}
	engine := startEngine(t, source, NewState("none", ViewOriginal))
	ctx := context.Background()
	updates := engine.Watch()

	waitFor(t, engine, "ready", func(s State) bool { return s.Status == StatusReady })

	engine.Send(ctx, StreamLost{Err: errors.New("eof")})
	waitFor(t, engine, "stale", func(s State) bool { return s.Stale })

	// s2 lands while disconnected; the reload after restore picks it up.
	source.mu.Lock()
	source.snapshot.Segments = []entities.Segment{s1, s2}
	source.mu.Unlock()
	engine.Send(ctx, StreamRestored{})

	s := waitFor(t, engine, "fresh", func(s State) bool { return !s.Stale && len(s.Segments) == 2 })
	if s.Segments[1].ID != s2.ID {
		t.Fatalf("segments = %v", sequences(s))
	}
	if source.loadCount() != 2 {
		t.Fatalf("loads = %d, want 2", source.loadCount())
	}

	select {
	case latest := <-updates:
		if latest.Version == 0 {
			t.Fatal("watcher received initial state")
		}
	case <-time.After(time.Second):
		t.Fatal("watcher received nothing")
	}
}

func TestEngine_LanguageSwitchDoesNotReloadSegments(t *testing.T) {
	s1 := seg(1, "hello")
	source := &fakeSource{
		snapshot: Snapshot{
			Segments:  []entities.Segment{s1},
			Languages: []entities.LanguageAvailability{lang("fr", true), lang("de", true)},
		},
		translations: map[string][]entities.Translation{
			"fr": {tr(s1, "fr", "bonjour")},
			"de": {tr(s1, "de", "hallo")},
		},
	}
	scoper := &recordingScoper{}
	engine := startEngine(t, source, NewState("none", ViewBoth), WithScoper(scoper))
	ctx := context.Background()

	waitFor(t, engine, "ready", func(s State) bool { return s.Status == StatusReady })
	engine.Send(ctx, TargetLanguageChanged{Language: "fr"})
	waitFor(t, engine, "fr", func(s State) bool { return s.Translations[s1.ID] == "bonjour" })
	engine.Send(ctx, TargetLanguageChanged{Language: "de"})
	waitFor(t, engine, "de", func(s State) bool { return s.Translations[s1.ID] == "hallo" })
	waitFor(t, engine, "de scope", func(State) bool { return scoper.last() == "de" })

	if source.loadCount() != 1 {
		t.Fatalf("segments loaded %d times, want 1", source.loadCount())
	}
}
