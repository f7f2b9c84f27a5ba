package viewer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/johnquangdev/caption-relay/internal/domain/entities"
)

// ViewMode selects which texts are rendered per segment
type ViewMode string

const (
	ViewOriginal    ViewMode = "original"
	ViewTranslation ViewMode = "translation"
	ViewBoth        ViewMode = "both"
)

// ParseViewMode parses a mode name
func ParseViewMode(s string) (ViewMode, error) {
	switch ViewMode(strings.ToLower(strings.TrimSpace(s))) {
	case ViewOriginal:
		return ViewOriginal, nil
	case ViewTranslation:
		return ViewTranslation, nil
	case ViewBoth, "":
		return ViewBoth, nil
	}
	return "", fmt.Errorf("unknown view mode %q", s)
}

// Next cycles original -> translation -> both
func (m ViewMode) Next() ViewMode {
	switch m {
	case ViewOriginal:
		return ViewTranslation
	case ViewTranslation:
		return ViewBoth
	default:
		return ViewOriginal
	}
}

// LoadStatus is the state of the initial load
type LoadStatus string

const (
	StatusLoading LoadStatus = "loading"
	StatusReady   LoadStatus = "ready"
	StatusFailed  LoadStatus = "failed"
)

// State is an immutable snapshot of one viewer. Reduce never mutates a State
// it was given; collections are copied before they change, so a State can be
// shared with readers freely. Callers must treat the maps and slices as
// read-only.
type State struct {
	Version uint64

	Status    LoadStatus
	LoadError string

	// Stale is set while the live subscription is down or a reconnect reload
	// has not completed.
	Stale bool

	Segments []entities.Segment
	Partial  *entities.PartialUpdate

	TargetLanguage string
	ViewMode       ViewMode

	// Translations holds the rows of TargetLanguage keyed by segment id
	Translations      map[uuid.UUID]string
	TranslationsError string
	LanguageInactive  bool
	Availability      map[string]bool

	// seen keys segment ids present in Segments
	seen map[uuid.UUID]struct{}
	// cache keeps rows of languages viewed before, restored on switch back
	cache map[string]map[uuid.UUID]string
}

// NewState creates the pre-load state
func NewState(targetLanguage string, mode ViewMode) State {
	lang := entities.NormalizeLanguageCode(targetLanguage)
	if lang == "" {
		lang = entities.LanguageNone
	}
	if mode == "" {
		mode = ViewBoth
	}
	return State{
		Status:         StatusLoading,
		TargetLanguage: lang,
		ViewMode:       mode,
		Segments:       []entities.Segment{},
		Translations:   map[uuid.UUID]string{},
		Availability:   map[string]bool{},
		seen:           map[uuid.UUID]struct{}{},
		cache:          map[string]map[uuid.UUID]string{},
	}
}

// HasTarget reports whether a translation language is selected
func (s State) HasTarget() bool {
	return s.TargetLanguage != "" && s.TargetLanguage != entities.LanguageNone
}

// ActiveLanguages returns the languages a viewer may select, sorted
func (s State) ActiveLanguages() []string {
	out := make([]string, 0, len(s.Availability))
	for code, active := range s.Availability {
		if active {
			out = append(out, code)
		}
	}
	sort.Strings(out)
	return out
}

func (s State) isActive(lang string) bool {
	return s.Availability[lang]
}

func copyTranslations(m map[uuid.UUID]string) map[uuid.UUID]string {
	out := make(map[uuid.UUID]string, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyCache(m map[string]map[uuid.UUID]string) map[string]map[uuid.UUID]string {
	out := make(map[string]map[uuid.UUID]string, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}
