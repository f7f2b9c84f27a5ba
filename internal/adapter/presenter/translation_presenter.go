package presenter

import (
	translationdto "github.com/johnquangdev/caption-relay/internal/adapter/dto/translation"
	"github.com/johnquangdev/caption-relay/internal/domain/entities"
	translationUsecase "github.com/johnquangdev/caption-relay/internal/usecase/translation"
)

// ToTranslationResponse converts a Translation entity
func ToTranslationResponse(t *entities.Translation) *translationdto.TranslationResponse {
	if t == nil {
		return nil
	}
	return &translationdto.TranslationResponse{
		ID:             t.ID.String(),
		EventID:        t.EventID.String(),
		SegmentID:      t.SegmentID.String(),
		LanguageCode:   t.LanguageCode,
		TranslatedText: t.TranslatedText,
		SequenceNumber: t.SequenceNumber,
		CreatedAt:      t.CreatedAt,
	}
}

// ToTranslationListResponse never returns nil so the body is always an array
func ToTranslationListResponse(rows []entities.Translation) []*translationdto.TranslationResponse {
	out := make([]*translationdto.TranslationResponse, len(rows))
	for i := range rows {
		out[i] = ToTranslationResponse(&rows[i])
	}
	return out
}

// ToDispatchDebugResponse converts the operator debug block
func ToDispatchDebugResponse(d *translationUsecase.DispatchDebug) *translationdto.DispatchDebugResponse {
	if d == nil {
		return nil
	}
	return &translationdto.DispatchDebugResponse{
		Request:        d.Request,
		Model:          d.Model,
		ModelOutputRaw: d.ModelOutputRaw,
		PendingCount:   d.PendingCount,
		Recovered:      d.Recovered,
	}
}

// ToDispatchResponse converts a dispatch result
func ToDispatchResponse(r *translationUsecase.DispatchResult) *translationdto.DispatchResponse {
	if r == nil {
		return &translationdto.DispatchResponse{Translated: []*translationdto.TranslationResponse{}}
	}
	return &translationdto.DispatchResponse{
		Translated: ToTranslationListResponse(r.Translated),
		Debug:      ToDispatchDebugResponse(r.Debug),
	}
}
