package translation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/johnquangdev/caption-relay/internal/domain/entities"
	"github.com/johnquangdev/caption-relay/internal/domain/repositories"
	ucerrors "github.com/johnquangdev/caption-relay/internal/usecase/errors"
	pkgai "github.com/johnquangdev/caption-relay/pkg/ai"
	"github.com/johnquangdev/caption-relay/pkg/metrics"
)

// Provider translates one batch and returns the raw model output.
type Provider interface {
	Translate(ctx context.Context, req entities.ProviderRequest) (string, error)
}

// Publisher fans out realtime notifications.
type Publisher interface {
	Publish(ctx context.Context, event entities.StreamEvent) error
}

// DispatchInput is one backfill request for (event, language).
type DispatchInput struct {
	EventID      uuid.UUID
	LanguageCode string
	PartialText  string
}

// DispatchDebug echoes what was sent to the provider. It is for operators and
// carries no correctness meaning.
type DispatchDebug struct {
	Request        entities.ProviderRequest `json:"request"`
	Model          string                   `json:"model,omitempty"`
	ModelOutputRaw string                   `json:"model_output_raw,omitempty"`
	PendingCount   int                      `json:"pending_count"`
	Recovered      bool                     `json:"conflict_recovered,omitempty"`
}

// DispatchResult holds the inserted rows, or the re-read rows after a
// conflict. Debug is nil when nothing was pending.
type DispatchResult struct {
	Translated []entities.Translation
	Debug      *DispatchDebug
}

// DispatchError is a terminal dispatch failure. Kind is one of the usecase
// sentinel errors; Debug is set once a provider request was built.
type DispatchError struct {
	Kind  error
	Err   error
	Debug *DispatchDebug
}

func (e *DispatchError) Error() string {
	if e.Err == nil {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%v: %v", e.Kind, e.Err)
}

func (e *DispatchError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// Service is the translation backfill dispatcher
type Service interface {
	Dispatch(ctx context.Context, in DispatchInput) (*DispatchResult, error)
}

type dispatcher struct {
	segments     repositories.SegmentRepository
	translations repositories.TranslationRepository
	runs         repositories.DispatchRunRepository
	provider     Provider
	publisher    Publisher
	parser       *Parser
	model        string
	timeout      time.Duration
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

// Option customizes the dispatcher.
type Option func(*dispatcher)

// WithProviderTimeout bounds the provider call, the only slow step.
func WithProviderTimeout(d time.Duration) Option {
	return func(s *dispatcher) { s.timeout = d }
}

// WithModel sets the model name recorded in debug output and metrics.
func WithModel(model string) Option {
	return func(s *dispatcher) { s.model = model }
}

// WithAudit records each provider-bound dispatch.
func WithAudit(runs repositories.DispatchRunRepository) Option {
	return func(s *dispatcher) { s.runs = runs }
}

// WithPublisher announces inserted rows to live viewers.
func WithPublisher(p Publisher) Option {
	return func(s *dispatcher) { s.publisher = p }
}

// WithMetrics records dispatch metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *dispatcher) { s.metrics = m }
}

// NewService constructs the dispatcher. It holds no per-call state and is
// safe for concurrent use.
func NewService(
	segments repositories.SegmentRepository,
	translations repositories.TranslationRepository,
	provider Provider,
	logger *zap.Logger,
	opts ...Option,
) Service {
	s := &dispatcher{
		segments:     segments,
		translations: translations,
		provider:     provider,
		parser:       NewParser(),
		logger:       logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dispatch translates every finalized segment that has no row for the
// language yet, with a single provider call.
func (s *dispatcher) Dispatch(ctx context.Context, in DispatchInput) (*DispatchResult, error) {
	lang := entities.NormalizeLanguageCode(in.LanguageCode)
	if in.EventID == uuid.Nil || !entities.IsValidLanguageCode(lang) || lang == entities.LanguageNone {
		return nil, &DispatchError{Kind: ucerrors.ErrInvalidInput, Err: fmt.Errorf("event_id and language_code are required")}
	}

	pending, err := s.pendingSegments(ctx, in.EventID, lang)
	if err != nil {
		s.metrics.RecordDispatch(string(entities.DispatchOutcomePersistenceFail), 0)
		return nil, &DispatchError{Kind: ucerrors.ErrPersistence, Err: err}
	}
	if len(pending) == 0 {
		s.metrics.RecordDispatch("noop", 0)
		return &DispatchResult{Translated: []entities.Translation{}}, nil
	}

	req := entities.ProviderRequest{
		TargetLanguage: lang,
		Items:          make([]entities.ProviderItem, 0, len(pending)),
		PartialText:    in.PartialText,
	}
	byID := make(map[string]entities.Segment, len(pending))
	ids := make(map[string]struct{}, len(pending))
	for _, seg := range pending {
		id := seg.ID.String()
		req.Items = append(req.Items, entities.ProviderItem{ID: id, Text: seg.Text})
		byID[id] = seg
		ids[id] = struct{}{}
	}
	debug := &DispatchDebug{Request: req, Model: s.model, PendingCount: len(pending)}
	started := time.Now()

	raw, err := s.callProvider(ctx, req)
	s.metrics.RecordProviderLatency(s.model, time.Since(started).Seconds())
	if err != nil {
		kind := ucerrors.ErrProviderUnavailable
		if errors.Is(err, pkgai.ErrNotConfigured) {
			kind = ucerrors.ErrProviderMisconfigured
		}
		if s.logger != nil {
			s.logger.Error("❌ Translation provider call failed",
				zap.String("event_id", in.EventID.String()),
				zap.String("language_code", lang),
				zap.Int("pending", len(pending)),
				zap.Any("batch", req.Items),
				zap.Error(err),
			)
		}
		s.audit(ctx, in.EventID, lang, entities.DispatchOutcomeProviderError, debug, 0, err, started)
		s.metrics.RecordDispatch(string(entities.DispatchOutcomeProviderError), len(pending))
		return nil, &DispatchError{Kind: kind, Err: err, Debug: debug}
	}
	debug.ModelOutputRaw = raw

	items, err := s.parser.ParseBatch(raw, ids)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("⚠️ Rejected provider output",
				zap.String("event_id", in.EventID.String()),
				zap.String("language_code", lang),
				zap.String("model_output_raw", raw),
				zap.Error(err),
			)
		}
		s.audit(ctx, in.EventID, lang, entities.DispatchOutcomeInvalidOutput, debug, 0, err, started)
		s.metrics.RecordDispatch(string(entities.DispatchOutcomeInvalidOutput), len(pending))
		return nil, &DispatchError{Kind: ucerrors.ErrInvalidProviderOutput, Err: err, Debug: debug}
	}

	rows := make([]entities.Translation, 0, len(items))
	for _, item := range items {
		rows = append(rows, entities.NewTranslation(byID[item.ID], lang, item.TranslatedText))
	}
	entities.SortTranslations(rows)

	translated, recovered, err := s.store(ctx, in.EventID, lang, rows)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("❌ Failed to store translations",
				zap.String("event_id", in.EventID.String()),
				zap.String("language_code", lang),
				zap.Int("rows", len(rows)),
				zap.Error(err),
			)
		}
		s.audit(ctx, in.EventID, lang, entities.DispatchOutcomePersistenceFail, debug, 0, err, started)
		s.metrics.RecordDispatch(string(entities.DispatchOutcomePersistenceFail), len(pending))
		return nil, &DispatchError{Kind: ucerrors.ErrPersistence, Err: err, Debug: debug}
	}
	debug.Recovered = recovered

	outcome := entities.DispatchOutcomeInserted
	if recovered {
		outcome = entities.DispatchOutcomeRecovered
	} else {
		s.announce(ctx, translated)
	}
	s.audit(ctx, in.EventID, lang, outcome, debug, len(translated), nil, started)
	s.metrics.RecordDispatch(string(outcome), len(pending))

	if s.logger != nil {
		s.logger.Info("✅ Dispatch completed",
			zap.String("event_id", in.EventID.String()),
			zap.String("language_code", lang),
			zap.Int("pending", len(pending)),
			zap.Int("translated", len(translated)),
			zap.Bool("conflict_recovered", recovered),
		)
	}

	return &DispatchResult{Translated: translated, Debug: debug}, nil
}

// pendingSegments returns finalized segments lacking a row for lang, in
// sequence order.
func (s *dispatcher) pendingSegments(ctx context.Context, eventID uuid.UUID, lang string) ([]entities.Segment, error) {
	segments, err := s.segments.ListFinal(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list segments: %w", err)
	}
	existing, err := s.translations.ListByLanguage(ctx, eventID, lang)
	if err != nil {
		return nil, fmt.Errorf("list translations: %w", err)
	}

	done := make(map[uuid.UUID]struct{}, len(existing))
	for _, t := range existing {
		done[t.SegmentID] = struct{}{}
	}

	pending := make([]entities.Segment, 0, len(segments))
	for _, seg := range segments {
		if _, ok := done[seg.ID]; !ok {
			pending = append(pending, seg)
		}
	}
	return pending, nil
}

func (s *dispatcher) callProvider(ctx context.Context, req entities.ProviderRequest) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return s.provider.Translate(ctx, req)
}

// store inserts rows as one batch. A unique violation means a concurrent
// dispatch for the same language won the race; the compensating read returns
// whatever is now stored for the attempted segments.
func (s *dispatcher) store(ctx context.Context, eventID uuid.UUID, lang string, rows []entities.Translation) ([]entities.Translation, bool, error) {
	if len(rows) == 0 {
		return []entities.Translation{}, false, nil
	}

	err := s.translations.InsertBatch(ctx, rows)
	if err == nil {
		s.metrics.RecordTranslationsStored(len(rows))
		return rows, false, nil
	}
	if !errors.Is(err, repositories.ErrDuplicate) {
		return nil, false, err
	}

	existing, err := s.recoverConflict(ctx, eventID, lang, rows)
	if err != nil {
		return nil, false, err
	}
	return existing, true, nil
}

func (s *dispatcher) recoverConflict(ctx context.Context, eventID uuid.UUID, lang string, attempted []entities.Translation) ([]entities.Translation, error) {
	segmentIDs := make([]uuid.UUID, 0, len(attempted))
	for _, row := range attempted {
		segmentIDs = append(segmentIDs, row.SegmentID)
	}

	existing, err := s.translations.ListBySegments(ctx, eventID, lang, segmentIDs)
	if err != nil {
		return nil, fmt.Errorf("compensating read after conflict: %w", err)
	}
	s.metrics.RecordConflictRecovered()

	if s.logger != nil {
		s.logger.Info("🔁 Conflict recovered by re-reading translations",
			zap.String("event_id", eventID.String()),
			zap.String("language_code", lang),
			zap.Int("attempted", len(attempted)),
			zap.Int("found", len(existing)),
		)
	}
	return existing, nil
}

func (s *dispatcher) announce(ctx context.Context, rows []entities.Translation) {
	if s.publisher == nil {
		return
	}
	for i := range rows {
		row := rows[i]
		err := s.publisher.Publish(ctx, entities.StreamEvent{
			Type:        entities.StreamTranslationArrived,
			EventID:     row.EventID,
			Translation: &row,
		})
		if err != nil && s.logger != nil {
			s.logger.Warn("⚠️ Failed to publish translation",
				zap.String("event_id", row.EventID.String()),
				zap.String("segment_id", row.SegmentID.String()),
				zap.Error(err),
			)
		}
	}
}

// audit writes the dispatch run. Failures are logged and never fail the call.
func (s *dispatcher) audit(ctx context.Context, eventID uuid.UUID, lang string, outcome entities.DispatchOutcome, debug *DispatchDebug, inserted int, cause error, started time.Time) {
	if s.runs == nil {
		return
	}
	run := &entities.DispatchRun{
		ID:             uuid.New(),
		EventID:        eventID,
		LanguageCode:   lang,
		Outcome:        outcome,
		PendingCount:   debug.PendingCount,
		InsertedCount:  inserted,
		Request:        datatypes.NewJSONType(debug.Request),
		ModelOutputRaw: debug.ModelOutputRaw,
		DurationMs:     time.Since(started).Milliseconds(),
		CreatedAt:      time.Now().UTC(),
	}
	if cause != nil {
		run.ErrorMessage = cause.Error()
	}
	if err := s.runs.Create(ctx, run); err != nil && s.logger != nil {
		s.logger.Warn("⚠️ Failed to record dispatch run",
			zap.String("event_id", eventID.String()),
			zap.Error(err),
		)
	}
}
