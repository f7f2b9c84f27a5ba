package viewer

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/johnquangdev/caption-relay/internal/domain/entities"
)

// Reduce applies one event to s and returns the next state plus the effects
// to run. It is pure: s is never modified. An event that changes nothing
// returns s unchanged, Version included.
func Reduce(s State, ev Event) (State, []Effect) {
	switch e := ev.(type) {
	case SegmentArrived:
		return onSegment(s, e.Segment), nil

	case PartialUpdated:
		next := s.bump()
		if strings.TrimSpace(e.Partial.Text) == "" {
			next.Partial = nil
		} else {
			p := e.Partial
			next.Partial = &p
		}
		return next, nil

	case TranslationArrived:
		if !s.HasTarget() || e.Translation.LanguageCode != s.TargetLanguage {
			return s, nil
		}
		return s.withTranslations(s.TargetLanguage, []entities.Translation{e.Translation}), nil

	case AvailabilityChanged:
		next := s.bump()
		next.Availability = copyAvailability(s.Availability)
		next.Availability[e.Availability.LanguageCode] = e.Availability.IsActive
		next, effects := next.recheckTarget(s)
		return next, append(effects, FetchAvailability{})

	case AvailabilityLoaded:
		next := s.bump()
		next.Availability = availabilityOf(e.Languages)
		return next.recheckTarget(s)

	case Loaded:
		return onLoaded(s, e.Snapshot)

	case LoadFailed:
		next := s.bump()
		if s.Status == StatusReady {
			// A reconnect reload failed; keep what is shown and stay stale.
			next.Stale = true
			return next, nil
		}
		next.Status = StatusFailed
		next.LoadError = errorText(e.Err)
		return next, nil

	case Retry:
		if s.Status == StatusFailed {
			next := s.bump()
			next.Status = StatusLoading
			next.LoadError = ""
			return next, []Effect{LoadSnapshot{}}
		}
		if s.Stale {
			return s, []Effect{LoadSnapshot{}}
		}
		return s, nil

	case TranslationsLoaded:
		if e.Language != s.TargetLanguage {
			return s, nil
		}
		next := s.withTranslations(e.Language, e.Rows)
		if next.TranslationsError != "" {
			if next.Version == s.Version {
				next = next.bump()
			}
			next.TranslationsError = ""
		}
		return next, nil

	case TranslationsLoadFailed:
		if e.Language != s.TargetLanguage {
			return s, nil
		}
		next := s.bump()
		next.TranslationsError = errorText(e.Err)
		return next, nil

	case TargetLanguageChanged:
		return onTargetLanguage(s, e.Language)

	case ViewModeChanged:
		if e.Mode == s.ViewMode || e.Mode == "" {
			return s, nil
		}
		next := s.bump()
		next.ViewMode = e.Mode
		return next, nil

	case StreamLost:
		if s.Stale {
			return s, nil
		}
		next := s.bump()
		next.Stale = true
		return next, nil

	case StreamRestored:
		// Events missed while disconnected are recovered by a reload that
		// merges by id. Stale clears once it lands.
		next := s.bump()
		next.Stale = true
		return next, []Effect{LoadSnapshot{}}
	}

	return s, nil
}

func (s State) bump() State {
	s.Version++
	return s
}

// onSegment inserts at the sequence-ordered position, ignoring redeliveries.
// A finalized segment supersedes the in-flight partial.
func onSegment(s State, seg entities.Segment) State {
	if _, dup := s.seen[seg.ID]; dup {
		return s
	}
	next := s.bump()
	next.Segments = insertSorted(s.Segments, seg)
	next.seen = copySeen(s.seen)
	next.seen[seg.ID] = struct{}{}
	next.Partial = nil
	return next
}

func onLoaded(s State, snap Snapshot) (State, []Effect) {
	next := s.bump()
	next.Status = StatusReady
	next.LoadError = ""
	next.Stale = false

	segments, seen := mergeSegments(s.Segments, s.seen, snap.Segments)
	next.Segments = segments
	next.seen = seen

	next.Availability = availabilityOf(snap.Languages)
	// The snapshot's slot is read after its segments, so it is authoritative:
	// an empty slot means the shown partial was finalized or expired.
	next.Partial = nil
	if snap.Partial != nil && strings.TrimSpace(snap.Partial.Text) != "" {
		p := *snap.Partial
		next.Partial = &p
	}

	effects := []Effect{ScopeStream{Language: next.streamScope()}}
	if !next.HasTarget() {
		next.LanguageInactive = false
		return next, effects
	}
	if !next.isActive(next.TargetLanguage) {
		next.LanguageInactive = true
		return next, effects
	}
	next.LanguageInactive = false
	return next, append(effects, FetchTranslations{Language: next.TargetLanguage})
}

// onTargetLanguage clears the shown rows and, for an active language,
// restores its cached rows immediately. Segments are never re-queried.
func onTargetLanguage(s State, language string) (State, []Effect) {
	lang := entities.NormalizeLanguageCode(language)
	if lang == "" {
		lang = entities.LanguageNone
	}
	if lang == s.TargetLanguage {
		return s, nil
	}

	next := s.bump()
	next.TargetLanguage = lang
	next.TranslationsError = ""
	next.LanguageInactive = false
	next.Translations = map[uuid.UUID]string{}

	if lang == entities.LanguageNone {
		return next, []Effect{ScopeStream{Language: ""}}
	}
	if s.Status != StatusReady {
		// The load completion fetches for whatever is selected then.
		return next, nil
	}
	if !next.isActive(lang) {
		next.LanguageInactive = true
		return next, []Effect{ScopeStream{Language: ""}}
	}
	if cached, ok := s.cache[lang]; ok {
		next.Translations = cached
	}
	return next, []Effect{ScopeStream{Language: lang}, FetchTranslations{Language: lang}}
}

// recheckTarget updates the inactive condition after availability moved from
// prev to s. Loaded translations are kept when a language goes inactive.
func (s State) recheckTarget(prev State) (State, []Effect) {
	if !s.HasTarget() || s.Status != StatusReady {
		return s, nil
	}
	active := s.isActive(s.TargetLanguage)
	switch {
	case !active:
		s.LanguageInactive = true
		return s, nil
	case prev.LanguageInactive:
		s.LanguageInactive = false
		return s, []Effect{ScopeStream{Language: s.TargetLanguage}, FetchTranslations{Language: s.TargetLanguage}}
	}
	s.LanguageInactive = false
	return s, nil
}

func (s State) streamScope() string {
	if !s.HasTarget() || !s.isActive(s.TargetLanguage) {
		return ""
	}
	return s.TargetLanguage
}

// withTranslations upserts rows for lang into Translations and the cache
func (s State) withTranslations(lang string, rows []entities.Translation) State {
	next := s.bump()
	merged := copyTranslations(s.Translations)
	changed := false
	for _, row := range rows {
		if row.LanguageCode != "" && row.LanguageCode != lang {
			continue
		}
		if old, ok := merged[row.SegmentID]; ok && old == row.TranslatedText {
			continue
		}
		merged[row.SegmentID] = row.TranslatedText
		changed = true
	}
	if !changed {
		return s
	}
	next.Translations = merged
	next.cache = copyCache(s.cache)
	next.cache[lang] = merged
	return next
}

func insertSorted(segments []entities.Segment, seg entities.Segment) []entities.Segment {
	i := sort.Search(len(segments), func(i int) bool {
		return seg.Before(segments[i])
	})
	out := make([]entities.Segment, 0, len(segments)+1)
	out = append(out, segments[:i]...)
	out = append(out, seg)
	out = append(out, segments[i:]...)
	return out
}

func mergeSegments(existing []entities.Segment, seen map[uuid.UUID]struct{}, loaded []entities.Segment) ([]entities.Segment, map[uuid.UUID]struct{}) {
	out := make([]entities.Segment, len(existing), len(existing)+len(loaded))
	copy(out, existing)
	nextSeen := copySeen(seen)
	for _, seg := range loaded {
		if _, dup := nextSeen[seg.ID]; dup {
			continue
		}
		nextSeen[seg.ID] = struct{}{}
		out = append(out, seg)
	}
	entities.SortSegments(out)
	return out, nextSeen
}

func availabilityOf(languages []entities.LanguageAvailability) map[string]bool {
	out := make(map[string]bool, len(languages))
	for _, l := range languages {
		out[l.LanguageCode] = l.IsActive
	}
	return out
}

func copyAvailability(m map[string]bool) map[string]bool {
	out := make(map[string]bool, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copySeen(m map[uuid.UUID]struct{}) map[uuid.UUID]struct{} {
	out := make(map[uuid.UUID]struct{}, len(m)+1)
	for k := range m {
		out[k] = struct{}{}
	}
	return out
}

func errorText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
