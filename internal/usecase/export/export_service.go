package export

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/caption-relay/internal/domain/entities"
	"github.com/johnquangdev/caption-relay/internal/domain/repositories"
	usecaseErrors "github.com/johnquangdev/caption-relay/internal/usecase/errors"
	"github.com/johnquangdev/caption-relay/internal/viewer"
)

// ExportService renders transcripts with the viewer's Render function
type ExportService struct {
	store    *repositories.Store
	uploader Uploader
	expiry   time.Duration
	logger   *zap.Logger
}

// NewExportService creates a new export service. uploader may be nil.
func NewExportService(store *repositories.Store, uploader Uploader, expiry time.Duration, logger *zap.Logger) *ExportService {
	if expiry <= 0 {
		expiry = time.Hour
	}
	return &ExportService{
		store:    store,
		uploader: uploader,
		expiry:   expiry,
		logger:   logger,
	}
}

// Export renders and optionally archives the transcript
func (s *ExportService) Export(ctx context.Context, input ExportInput) (*ExportResult, error) {
	if input.EventID == uuid.Nil {
		return nil, fmt.Errorf("%w: event_id is required", usecaseErrors.ErrInvalidInput)
	}
	lang := entities.NormalizeLanguageCode(input.Language)
	if lang == "" {
		lang = entities.LanguageNone
	}
	if lang != entities.LanguageNone && !entities.IsValidLanguageCode(lang) {
		return nil, fmt.Errorf("%w: %v %q", usecaseErrors.ErrInvalidInput, entities.ErrInvalidLanguageCode, lang)
	}
	mode := input.Mode
	if mode == "" {
		mode = viewer.ViewBoth
	}

	state, err := s.buildState(ctx, input.EventID, lang, mode)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", usecaseErrors.ErrPersistence, err)
	}

	now := time.Now().UTC()
	result := &ExportResult{
		EventID:     input.EventID,
		Language:    lang,
		Mode:        mode,
		Lines:       len(viewer.Render(state)),
		Text:        viewer.RenderText(state),
		GeneratedAt: now,
	}

	if s.uploader == nil {
		return result, nil
	}

	objectName := fmt.Sprintf("%s%s-%s-%s.txt", exportPrefix(input.EventID), now.Format("20060102T150405Z"), lang, mode)
	if err := s.uploader.UploadText(ctx, objectName, result.Text); err != nil {
		if s.logger != nil {
			s.logger.Error("❌ Failed to upload export",
				zap.String("event_id", input.EventID.String()),
				zap.String("object", objectName),
				zap.Error(err),
			)
		}
		return nil, fmt.Errorf("failed to upload export: %w", err)
	}
	url, err := s.uploader.GetFileURL(ctx, objectName, s.expiry)
	if err != nil {
		return nil, fmt.Errorf("failed to sign export url: %w", err)
	}
	result.ObjectName = objectName
	result.URL = url

	if s.logger != nil {
		s.logger.Info("✅ Transcript exported",
			zap.String("event_id", input.EventID.String()),
			zap.String("language_code", lang),
			zap.String("object", objectName),
			zap.Int("lines", result.Lines),
		)
	}
	return result, nil
}

// ListExports lists archived exports, oldest first
func (s *ExportService) ListExports(ctx context.Context, eventID uuid.UUID) ([]string, error) {
	if s.uploader == nil {
		return nil, usecaseErrors.ErrStorageDisabled
	}
	files, err := s.uploader.ListFiles(ctx, exportPrefix(eventID))
	if err != nil {
		return nil, fmt.Errorf("failed to list exports: %w", err)
	}
	if files == nil {
		files = []string{}
	}
	return files, nil
}

// buildState replays a full load through the reducer so exports match what
// a viewer shows, minus the partial.
func (s *ExportService) buildState(ctx context.Context, eventID uuid.UUID, lang string, mode viewer.ViewMode) (viewer.State, error) {
	segments, err := s.store.Segments.ListFinal(ctx, eventID)
	if err != nil {
		return viewer.State{}, fmt.Errorf("list segments: %w", err)
	}
	languages, err := s.store.Languages.ListByEvent(ctx, eventID)
	if err != nil {
		return viewer.State{}, fmt.Errorf("list languages: %w", err)
	}

	state := viewer.NewState(lang, mode)
	state, _ = viewer.Reduce(state, viewer.Loaded{Snapshot: viewer.Snapshot{
		Segments:  segments,
		Languages: languages,
	}})
	if lang == entities.LanguageNone {
		return state, nil
	}

	rows, err := s.store.Translations.ListByLanguage(ctx, eventID, lang)
	if err != nil {
		return viewer.State{}, fmt.Errorf("list translations: %w", err)
	}
	state, _ = viewer.Reduce(state, viewer.TranslationsLoaded{Language: lang, Rows: rows})
	return state, nil
}

func exportPrefix(eventID uuid.UUID) string {
	return "exports/" + eventID.String() + "/"
}
