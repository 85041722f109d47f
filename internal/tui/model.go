package tui

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/igusev/cfl/internal/match"
	"github.com/igusev/cfl/internal/model"
	"github.com/igusev/cfl/internal/session"
	"github.com/igusev/cfl/internal/terms"
)

// DefaultDebounce is the pause after the last keystroke before a search runs
const DefaultDebounce = 300 * time.Millisecond

// LoadCompleteMsg is sent when a load or retry finishes
type LoadCompleteMsg struct {
	Err error
}

// searchTickMsg fires after the debounce delay; stale ticks are ignored
type searchTickMsg struct {
	seq int
}

// Options configures the TUI
type Options struct {
	InitialQuery string
	Exact        bool
	Version      string
	Source       string        // Document location (for header display)
	Debounce     time.Duration // 0 searches on every keystroke
	LoadOnStart  bool          // Load the session from Init
}

// Model represents the TUI state
type Model struct {
	textInput   textinput.Model  // Search input field
	styles      Styles           // Pre-configured styles
	colorScheme *ColorScheme     // Adaptive color scheme
	session     *session.Session // Loaded data, cache and search
	results     []model.Company  // Hits for the current input
	termCount   int              // Terms in the current input
	searched    bool             // Whether the current input triggered a search
	cached      bool             // Whether the last result came from the cache
	selected    *model.Company   // Company chosen with enter
	version     string           // Application version
	source      string           // Document location
	status      string           // One-shot status message (cache cleared, ...)
	debounce    time.Duration
	seq         int  // Input revision, used to drop stale debounce ticks
	fuzzy       bool // Fuzzy (true) or exact (false) matching
	loadOnStart bool
	cursor      int  // Current cursor position in results
	width       int  // Terminal width
	height      int  // Terminal height
	quitting    bool // Whether user is quitting
	loading     bool // Whether a load is in progress
	showHelp    bool // Whether to show help text
}

// New creates a new TUI model over sess
func New(sess *session.Session, opts Options) Model {
	colorScheme := NewColorScheme()
	styles := colorScheme.GetStyles()

	ti := textinput.New()
	ti.Placeholder = "Code, name or furigana (comma separated)..."
	ti.Focus()
	ti.CharLimit = 512
	ti.Width = 60
	ti.Prompt = "> "
	ti.PromptStyle = styles.Prompt

	if opts.InitialQuery != "" {
		ti.SetValue(opts.InitialQuery)
	}

	source := opts.Source
	source = strings.TrimPrefix(source, "https://")
	source = strings.TrimPrefix(source, "http://")

	m := Model{
		textInput:   ti,
		styles:      styles,
		colorScheme: colorScheme,
		session:     sess,
		results:     []model.Company{},
		version:     opts.Version,
		source:      source,
		debounce:    opts.Debounce,
		fuzzy:       !opts.Exact,
		loadOnStart: opts.LoadOnStart,
		loading:     opts.LoadOnStart,
	}

	m.search()
	return m
}

// Init initializes the model (required by tea.Model interface)
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.loadOnStart {
		cmds = append(cmds, m.loadCmd(false))
	}
	return tea.Batch(cmds...)
}

// loadCmd loads (or retries) in the background and reports a LoadCompleteMsg
func (m Model) loadCmd(retry bool) tea.Cmd {
	sess := m.session
	return func() tea.Msg {
		ctx := context.Background()
		if retry {
			return LoadCompleteMsg{Err: sess.Retry(ctx)}
		}
		_, err := sess.Load(ctx)
		return LoadCompleteMsg{Err: err}
	}
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			if len(m.results) > 0 && m.cursor < len(m.results) {
				company := m.results[m.cursor]
				m.selected = &company
			}
			m.quitting = true
			return m, tea.Quit

		case "ctrl+e":
			m.fuzzy = !m.fuzzy
			m.search()
			m.cursor = 0

		case "ctrl+l":
			m.session.ClearCache()
			m.status = "cache cleared"

		case "ctrl+r":
			// Only while a failed load still has attempts left
			if !m.loading && m.session.CanRetry() {
				m.loading = true
				m.status = ""
				return m, m.loadCmd(true)
			}

		case "?":
			m.showHelp = !m.showHelp

		case "down", "ctrl+n":
			if m.cursor < len(m.results)-1 {
				m.cursor++
			}

		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}

		default:
			before := m.textInput.Value()
			m.textInput, cmd = m.textInput.Update(msg)
			if m.textInput.Value() == before {
				break
			}

			m.status = ""
			m.seq++
			if m.debounce <= 0 {
				m.search()
				m.cursor = 0
				break
			}
			seq := m.seq
			tick := tea.Tick(m.debounce, func(time.Time) tea.Msg {
				return searchTickMsg{seq: seq}
			})
			return m, tea.Batch(cmd, tick)
		}

	case searchTickMsg:
		// A newer keystroke superseded this tick
		if msg.seq == m.seq {
			m.search()
			m.cursor = 0
		}

	case LoadCompleteMsg:
		m.loading = false
		m.search()
		if m.cursor >= len(m.results) {
			m.cursor = 0
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, cmd
}

// search runs the current input through the session
func (m *Model) search() {
	result, err := m.session.Search(context.Background(), m.textInput.Value(), m.fuzzy)
	if err != nil {
		return
	}

	m.results = result.Companies
	if m.results == nil {
		m.results = []model.Company{}
	}
	m.termCount = result.TermCount
	m.searched = result.Searched
	m.cached = result.Cached
}

// renderCompany renders one result line, highlighting the first term found in it
func renderCompany(c model.Company, style, highlightStyle, metaStyle lipgloss.Style, queryTerms []string) string {
	var result strings.Builder

	result.WriteString(renderHighlight(c.DisplayString(), queryTerms, style, highlightStyle))

	if label := c.FiscalMonthLabel(); label != "" {
		result.WriteString(metaStyle.Render("  " + label + "決算"))
	}
	if c.RegistrationDate != "" {
		result.WriteString(metaStyle.Render("  " + c.RegistrationDate))
	}

	return result.String()
}

// renderHighlight performs case-insensitive substring highlighting on displayStr
func renderHighlight(displayStr string, queryTerms []string, style lipgloss.Style, highlightStyle lipgloss.Style) string {
	lowerDisplay := strings.ToLower(displayStr)
	// Byte offsets are only valid when lowering kept the length
	if len(lowerDisplay) != len(displayStr) {
		return style.Render(displayStr)
	}

	for _, term := range queryTerms {
		lowerTerm := strings.ToLower(term)
		if lowerTerm == "" {
			continue
		}
		idx := strings.Index(lowerDisplay, lowerTerm)
		if idx < 0 {
			continue
		}
		end := idx + len(lowerTerm)
		return style.Render(displayStr[:idx]) + highlightStyle.Render(displayStr[idx:end]) + style.Render(displayStr[end:])
	}

	return style.Render(displayStr)
}

// View renders the TUI
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	errMsg := m.session.Err()

	// Status indicator: ○ idle, ● loading (green) or error (red)
	var statusIndicator string
	if m.loading {
		statusIndicator = m.styles.StatusActive.Render("●")
	} else if errMsg != "" {
		statusIndicator = m.styles.StatusError.Render("●")
	} else {
		statusIndicator = m.styles.StatusIdle.Render("○")
	}

	titleLeft := fmt.Sprintf("%s %s %s",
		m.colorScheme.Wave,
		m.styles.Title.Render("cfl"),
		m.styles.Version.Render(m.version))

	count := formatCount(len(m.results), len(m.session.Companies()), m.searched, m.styles.Count, m.styles.CountActive)
	modeBadge := m.styles.Mode.Render("[" + match.ModeFor(m.fuzzy).String() + "]")
	sourceInfo := ""
	if updated := m.session.UpdateTime(); updated != "" {
		sourceInfo = fmt.Sprintf("[ updated %s ]", updated)
	} else if m.source != "" {
		sourceInfo = fmt.Sprintf("[ %s ]", m.source)
	}
	helpIndicator := m.styles.Help.Render("[?] Help")

	leftWidth := lipgloss.Width(titleLeft)
	minWidth := leftWidth + lipgloss.Width(count) + lipgloss.Width(modeBadge) + lipgloss.Width(statusIndicator) + 4

	var titleRight string
	if m.width < minWidth+20 {
		titleRight = fmt.Sprintf("%s %s %s", count, modeBadge, statusIndicator)
	} else if sourceInfo == "" || m.width < minWidth+lipgloss.Width(sourceInfo)+20 {
		titleRight = fmt.Sprintf("%s %s %s %s", count, modeBadge, helpIndicator, statusIndicator)
	} else {
		titleRight = fmt.Sprintf("%s %s %s %s %s", count, modeBadge, m.styles.SourceInfo.Render(sourceInfo), helpIndicator, statusIndicator)
	}

	rightWidth := lipgloss.Width(titleRight)
	spacing := " "
	if m.width > leftWidth+rightWidth {
		spacing = strings.Repeat(" ", m.width-leftWidth-rightWidth)
	}

	b.WriteString(titleLeft)
	b.WriteString(spacing)
	b.WriteString(titleRight)
	b.WriteString("\n")

	if m.width > 0 {
		b.WriteString(m.styles.Help.Render(strings.Repeat("─", m.width)))
		b.WriteString("\n")
	}

	// Error banner
	usedLines := 6
	if errMsg != "" {
		banner := "✗ " + truncateText(errMsg, max(20, m.width-30))
		if m.session.CanRetry() {
			stats := m.session.Stats()
			banner += fmt.Sprintf(" (ctrl+r to retry, %d left)", stats.MaxRetries-stats.RetryCount)
		} else {
			banner += " (retry limit reached)"
		}
		b.WriteString(m.styles.StatusError.Render(banner))
		b.WriteString("\n")
		usedLines++
	} else if m.loading {
		b.WriteString(m.styles.StatusActive.Render("Loading company list..."))
		b.WriteString("\n")
		usedLines++
	}

	b.WriteString("\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n")

	// Summary line
	var summary string
	switch {
	case m.status != "":
		summary = m.status
	case m.searched:
		summary = fmt.Sprintf("%d terms • %d hits", m.termCount, len(m.results))
		if m.cached {
			summary += " (cached)"
		}
	}
	b.WriteString(m.styles.Count.Render(summary))
	b.WriteString("\n\n")

	if m.showHelp {
		usedLines += 3
	}
	maxAvailableLines := m.height - usedLines - 2
	if maxAvailableLines < 1 {
		maxAvailableLines = 1
	}

	// Keep the cursor inside the window
	start := 0
	if m.cursor >= maxAvailableLines {
		start = m.cursor - maxAvailableLines + 1
	}
	end := start + maxAvailableLines
	if end > len(m.results) {
		end = len(m.results)
	}

	queryTerms := terms.Parse(m.textInput.Value())
	for i := start; i < end; i++ {
		if i == m.cursor {
			b.WriteString(m.styles.Cursor.Render("▌"))
		} else {
			b.WriteString(" ")
		}

		line := " " + renderCompany(m.results[i], lipgloss.NewStyle(), m.styles.Highlight, m.styles.Meta, queryTerms)
		if i == m.cursor {
			b.WriteString(m.styles.Selected.Width(max(0, m.width-2)).Render(line))
		} else {
			b.WriteString(m.styles.Normal.Render(line))
		}
		b.WriteString("\n")
	}

	if m.searched && len(m.results) == 0 && !m.loading {
		b.WriteString(m.styles.Help.Render("  No matching companies"))
		b.WriteString("\n")
	}

	if m.showHelp {
		b.WriteString("\n\n")
		b.WriteString(m.styles.Help.Render("↑/↓: navigate • enter: select • ctrl+e: fuzzy/exact • ctrl+l: clear cache • ctrl+r: retry load • ?: toggle help"))
	}

	return b.String()
}

// Selected returns the company chosen with enter
func (m Model) Selected() (model.Company, bool) {
	if m.selected == nil {
		return model.Company{}, false
	}
	return *m.selected, true
}

// Fuzzy reports whether the model is in fuzzy mode
func (m Model) Fuzzy() bool {
	return m.fuzzy
}

// truncateText truncates text at word boundary respecting UTF-8
func truncateText(text string, maxRunes int) string {
	runes := []rune(text)

	if len(runes) <= maxRunes {
		return text
	}

	truncated := runes[:maxRunes]

	// Find last word boundary (space, comma, colon, ...)
	lastSpace := -1
	for i := len(truncated) - 1; i >= 0; i-- {
		if unicode.IsSpace(truncated[i]) || truncated[i] == ',' || truncated[i] == ':' || truncated[i] == '、' {
			lastSpace = i
			break
		}
	}

	// Use word boundary if found in last 20% to avoid losing too much text
	if lastSpace > int(float64(maxRunes)*0.8) {
		truncated = truncated[:lastSpace]
	}

	return string(truncated) + "..."
}

// formatCount renders "hits/total companies", or just the total before any search
func formatCount(hits, total int, searched bool, countStyle lipgloss.Style, activeStyle lipgloss.Style) string {
	bold := lipgloss.NewStyle().Bold(true).Inherit(countStyle)

	if !searched {
		return countStyle.Render(lipgloss.JoinHorizontal(lipgloss.Left,
			bold.Render(formatNumber(total)),
			" companies"))
	}

	return countStyle.Render(lipgloss.JoinHorizontal(lipgloss.Left,
		activeStyle.Render(formatNumber(hits)),
		"/",
		bold.Render(formatNumber(total)),
		" companies"))
}

// formatNumber groups digits by thousands
func formatNumber(n int) string {
	if n < 0 {
		return "-" + formatNumber(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return formatNumber(n/1000) + fmt.Sprintf(",%03d", n%1000)
}
