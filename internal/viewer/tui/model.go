package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/johnquangdev/caption-relay/internal/domain/entities"
	"github.com/johnquangdev/caption-relay/internal/viewer"
)

// Controller is the part of viewer.Engine the TUI drives
type Controller interface {
	Send(ctx context.Context, ev viewer.Event) bool
	State() viewer.State
}

// stateMsg carries a new reconciler state into the bubbletea loop
type stateMsg struct {
	state viewer.State
}

// watchClosedMsg reports the engine stopped
type watchClosedMsg struct{}

// Model is the root bubbletea model of the transcript viewer.
type Model struct {
	ctx     context.Context
	engine  Controller
	updates <-chan viewer.State
	title   string

	state viewer.State

	width  int
	height int
	scroll int
	live   bool
}

// New creates a model rendering engine states received on updates
func New(ctx context.Context, engine Controller, updates <-chan viewer.State, title string) Model {
	return Model{
		ctx:     ctx,
		engine:  engine,
		updates: updates,
		title:   title,
		state:   engine.State(),
		live:    true,
	}
}

// Init starts listening for engine states
func (m Model) Init() tea.Cmd {
	return waitForState(m.updates)
}

func waitForState(updates <-chan viewer.State) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-updates
		if !ok {
			return watchClosedMsg{}
		}
		return stateMsg{state: s}
	}
}

// send hands ev to the engine off the UI goroutine
func (m Model) send(ev viewer.Event) tea.Cmd {
	engine, ctx := m.engine, m.ctx
	return func() tea.Msg {
		engine.Send(ctx, ev)
		return nil
	}
}

// Update processes messages and returns the updated model and any commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.live {
			m.scroll = m.maxScroll()
		}
		return m, nil

	case stateMsg:
		m.state = msg.state
		if m.live {
			m.scroll = m.maxScroll()
		} else if limit := m.maxScroll(); m.scroll > limit {
			m.scroll = limit
		}
		return m, waitForState(m.updates)

	case watchClosedMsg:
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyQuit, KeyCtrlC:
		return m, tea.Quit

	case KeyLanguage:
		return m, m.send(viewer.TargetLanguageChanged{Language: nextLanguage(m.state)})

	case KeyNoneLanguage:
		return m, m.send(viewer.TargetLanguageChanged{Language: entities.LanguageNone})

	case KeyViewMode:
		return m, m.send(viewer.ViewModeChanged{Mode: m.state.ViewMode.Next()})

	case KeyRetry:
		return m, m.send(viewer.Retry{})

	case KeyUp:
		m.live = false
		if m.scroll > 0 {
			m.scroll--
		}
		return m, nil

	case KeyDown:
		m.scroll++
		if limit := m.maxScroll(); m.scroll >= limit {
			m.scroll = limit
			m.live = true
		}
		return m, nil

	case KeyBottom:
		m.live = true
		m.scroll = m.maxScroll()
		return m, nil
	}

	return m, nil
}

// nextLanguage cycles none -> active languages in order -> none
func nextLanguage(s viewer.State) string {
	choices := append([]string{entities.LanguageNone}, s.ActiveLanguages()...)
	for i, code := range choices {
		if code == s.TargetLanguage {
			return choices[(i+1)%len(choices)]
		}
	}
	// an inactive target restarts the cycle
	if len(choices) > 1 {
		return choices[1]
	}
	return entities.LanguageNone
}

func (m Model) visibleLines() int {
	if m.height == 0 {
		return 20
	}
	// header, status, two dividers, footer
	return max(3, m.height-5)
}

func (m Model) maxScroll() int {
	total := len(viewer.Render(m.state))
	if total <= m.visibleLines() {
		return 0
	}
	return total - m.visibleLines()
}

// View renders the full screen.
func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	divider := DividerStyle.Render(strings.Repeat("─", m.width))
	sections := []string{
		m.renderHeader(),
		m.renderStatus(),
		divider,
		m.renderTranscript(),
		divider,
		m.renderFooter(),
	}
	return strings.Join(sections, "\n")
}

func (m Model) renderHeader() string {
	language := m.state.TargetLanguage
	if !m.state.HasTarget() {
		language = "none"
	}
	return TitleStyle.Render(m.title) +
		DimStyle.Render(fmt.Sprintf("  language: %s  view: %s", language, m.state.ViewMode))
}

func (m Model) renderStatus() string {
	s := m.state
	var parts []string

	switch s.Status {
	case viewer.StatusLoading:
		parts = append(parts, WarnStyle.Render("⟳ loading"))
	case viewer.StatusFailed:
		parts = append(parts, ErrorStyle.Render("✗ load failed: "+s.LoadError+" (r to retry)"))
	default:
		if s.Stale {
			parts = append(parts, WarnStyle.Render("⟳ reconnecting, transcript may be stale"))
		} else {
			parts = append(parts, LiveStyle.Render("● LIVE"))
		}
	}

	if s.LanguageInactive {
		parts = append(parts, WarnStyle.Render(fmt.Sprintf("%s is not available, showing originals", s.TargetLanguage)))
	}
	if s.TranslationsError != "" {
		parts = append(parts, ErrorStyle.Render("translations: "+s.TranslationsError))
	}
	return strings.Join(parts, "  ")
}

func (m Model) renderTranscript() string {
	lines := viewer.Render(m.state)
	if len(lines) == 0 {
		return DimStyle.Render("Waiting for the first caption...")
	}

	start := min(m.scroll, len(lines))
	end := min(start+m.visibleLines(), len(lines))
	indent := m.state.ViewMode == viewer.ViewBoth

	out := make([]string, 0, end-start)
	for _, line := range lines[start:end] {
		out = append(out, renderLine(line, indent))
	}
	return strings.Join(out, "\n")
}

func renderLine(line viewer.Line, indent bool) string {
	prefix := ""
	if indent && (line.Kind == viewer.LineTranslation || line.Kind == viewer.LinePending) {
		prefix = "    "
	}

	switch line.Kind {
	case viewer.LineTranslation:
		return prefix + TranslationStyle.Render(line.Text)
	case viewer.LinePending:
		return prefix + PendingStyle.Render(line.Text)
	case viewer.LinePartial:
		return PartialStyle.Render("> " + line.Text)
	}
	return line.Text
}

func (m Model) renderFooter() string {
	keys := []struct{ key, desc string }{
		{KeyLanguage, "language"},
		{KeyNoneLanguage, "no translation"},
		{KeyViewMode, "view"},
		{KeyRetry, "retry"},
		{"↑/↓", "scroll"},
		{KeyQuit, "quit"},
	}
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, FooterKeyStyle.Render(k.key)+" "+FooterDescStyle.Render(k.desc))
	}
	return strings.Join(parts, "  ")
}
