package viewer

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/johnquangdev/caption-relay/internal/domain/entities"
)

// Source performs the reads the reducer asks for
type Source interface {
	LoadSnapshot(ctx context.Context) (Snapshot, error)
	LoadTranslations(ctx context.Context, language string) ([]entities.Translation, error)
	LoadAvailability(ctx context.Context) ([]entities.LanguageAvailability, error)
}

// Scoper narrows the live subscription to one translation language
type Scoper interface {
	SetLanguage(ctx context.Context, language string) error
}

// Engine owns the reconciler state. One goroutine drains the inbox and
// applies Reduce, so transitions never interleave. Effects run on their own
// goroutines and report back through the inbox.
type Engine struct {
	source Source
	scoper Scoper
	inbox  chan Event
	logger *zap.Logger

	mu       sync.RWMutex
	state    State
	watchers []chan State
	wg       sync.WaitGroup

	// scope requests are numbered on the inbox goroutine so a late
	// goroutine never overrides a newer language
	scopeMu      sync.Mutex
	scopeIssued  uint64
	scopeApplied uint64
}

// EngineOption customizes an Engine
type EngineOption func(*Engine)

// WithScoper lets the engine re-scope the live subscription on language changes
func WithScoper(scoper Scoper) EngineOption {
	return func(e *Engine) { e.scoper = scoper }
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) EngineOption {
	return func(e *Engine) { e.logger = logger }
}

// NewEngine creates an engine starting from initial
func NewEngine(source Source, initial State, opts ...EngineOption) *Engine {
	e := &Engine{
		source: source,
		inbox:  make(chan Event, 256),
		state:  initial,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Send queues an event. It blocks while the inbox is full and gives up when
// ctx is done.
func (e *Engine) Send(ctx context.Context, ev Event) bool {
	select {
	case e.inbox <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// State returns the current snapshot
func (e *Engine) State() State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// Watch returns a channel that receives every new state. Slow watchers only
// miss intermediate versions, never the latest one.
func (e *Engine) Watch() <-chan State {
	ch := make(chan State, 1)
	e.mu.Lock()
	e.watchers = append(e.watchers, ch)
	e.mu.Unlock()
	return ch
}

// Run loads the snapshot and applies events until ctx is done
func (e *Engine) Run(ctx context.Context) error {
	defer e.wg.Wait()
	e.execute(ctx, []Effect{LoadSnapshot{}})

	for {
		select {
		case <-ctx.Done():
			e.closeWatchers()
			return ctx.Err()
		case ev := <-e.inbox:
			e.apply(ctx, ev)
		}
	}
}

func (e *Engine) apply(ctx context.Context, ev Event) {
	e.mu.RLock()
	current := e.state
	e.mu.RUnlock()

	next, effects := Reduce(current, ev)
	if next.Version != current.Version {
		e.mu.Lock()
		e.state = next
		watchers := e.watchers
		e.mu.Unlock()
		for _, ch := range watchers {
			publishLatest(ch, next)
		}
	}
	e.execute(ctx, effects)
}

func publishLatest(ch chan State, s State) {
	for {
		select {
		case ch <- s:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

func (e *Engine) closeWatchers() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, ch := range e.watchers {
		close(ch)
	}
	e.watchers = nil
}

func (e *Engine) execute(ctx context.Context, effects []Effect) {
	for _, effect := range effects {
		if scope, ok := effect.(ScopeStream); ok {
			e.scopeIssued++
			seq := e.scopeIssued
			e.wg.Add(1)
			go func() {
				defer e.wg.Done()
				e.applyScope(ctx, seq, scope.Language)
			}()
			continue
		}

		e.wg.Add(1)
		go func() {
			defer e.wg.Done()
			if ev := e.run(ctx, effect); ev != nil {
				e.Send(ctx, ev)
			}
		}()
	}
}

// run performs one effect and returns its completion event, if any
func (e *Engine) run(ctx context.Context, effect Effect) Event {
	switch eff := effect.(type) {
	case LoadSnapshot:
		snap, err := e.source.LoadSnapshot(ctx)
		if err != nil {
			return LoadFailed{Err: err}
		}
		return Loaded{Snapshot: snap}

	case FetchTranslations:
		rows, err := e.source.LoadTranslations(ctx, eff.Language)
		if err != nil {
			return TranslationsLoadFailed{Language: eff.Language, Err: err}
		}
		return TranslationsLoaded{Language: eff.Language, Rows: rows}

	case FetchAvailability:
		languages, err := e.source.LoadAvailability(ctx)
		if err != nil {
			if e.logger != nil {
				e.logger.Warn("⚠️ Availability refresh failed", zap.Error(err))
			}
			return nil
		}
		return AvailabilityLoaded{Languages: languages}
	}
	return nil
}

func (e *Engine) applyScope(ctx context.Context, seq uint64, language string) {
	if e.scoper == nil {
		return
	}
	e.scopeMu.Lock()
	defer e.scopeMu.Unlock()
	if seq <= e.scopeApplied {
		return
	}
	e.scopeApplied = seq

	if err := e.scoper.SetLanguage(ctx, language); err != nil && e.logger != nil {
		e.logger.Warn("⚠️ Failed to scope stream",
			zap.String("language_code", language),
			zap.Error(err),
		)
	}
}
