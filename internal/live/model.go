// Package live provides an editor that rescores text as it is typed.
package live

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/rs/zerolog"

	"github.com/verte-zerg/readstat/internal/logger"
	"github.com/verte-zerg/readstat/internal/model"
	"github.com/verte-zerg/readstat/internal/readability"
	"github.com/verte-zerg/readstat/internal/stats"
)

// Saver records an analysis. *store.Store implements it.
type Saver interface {
	InsertAnalysis(ctx context.Context, a model.Analysis, words []model.WordStat) (int64, error)
}

const (
	cardWidth  = 18
	sourceName = "live"
)

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#5A5A5A")).
			Padding(0, 1).
			Width(cardWidth)
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	cardBandStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

// Model implements the Bubble Tea live editor.
type Model struct {
	area     textarea.Model
	analyzer *readability.Analyzer
	saver    Saver
	label    string
	log      zerolog.Logger

	text   string
	stats  readability.Stats
	status string
	failed bool

	width  int
	height int
}

// NewModel builds an editor seeded with initial text. saver may be nil,
// in which case saving is disabled.
func NewModel(analyzer *readability.Analyzer, saver Saver, label, initial string) *Model {
	if analyzer == nil {
		analyzer = readability.NewAnalyzer(nil)
	}
	area := textarea.New()
	area.Placeholder = "Start typing..."
	area.ShowLineNumbers = false
	area.CharLimit = 0
	area.SetValue(initial)
	area.Focus()

	m := &Model{
		area:     area,
		analyzer: analyzer,
		saver:    saver,
		label:    label,
		log:      logger.ForComponent("live"),
	}
	m.rescore()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyCtrlS:
			m.save()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.area, cmd = m.area.Update(msg)
	if m.area.Value() != m.text {
		m.rescore()
	}
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	cards := renderCards(m.stats, m.width)
	footer := m.renderFooter()
	return lipgloss.JoinVertical(lipgloss.Left, cards, m.area.View(), footer)
}

// Stats returns the scores of the current text.
func (m *Model) Stats() readability.Stats {
	return m.stats
}

func (m *Model) rescore() {
	m.text = m.area.Value()
	m.stats = m.analyzer.Analyze(m.text)
	m.status = ""
	m.failed = false
}

func (m *Model) resize() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	rows := cardRows(m.width)
	// Each card row is 5 lines tall; one line for the footer.
	areaHeight := max(m.height-rows*5-1, 3)
	m.area.SetWidth(m.width)
	m.area.SetHeight(areaHeight)
}

func (m *Model) save() {
	if m.saver == nil {
		m.setStatus("saving disabled", true)
		return
	}
	if strings.TrimSpace(m.text) == "" {
		m.setStatus("nothing to save", true)
		return
	}
	a, words := model.NewAnalysis(m.analyzer, sourceName, m.label, m.text)
	id, err := m.saver.InsertAnalysis(context.Background(), a, words)
	if err != nil {
		m.log.Error().Err(err).Msg("failed to save analysis")
		m.setStatus("save failed: "+err.Error(), true)
		return
	}
	m.log.Info().Int64("id", id).Msg("saved analysis")
	m.setStatus(fmt.Sprintf("saved #%d", id), false)
}

func (m *Model) setStatus(status string, failed bool) {
	m.status = status
	m.failed = failed
}

type card struct {
	title string
	value string
	band  string
}

func cards(s readability.Stats) []card {
	return []card{
		{title: "Reading ease", value: fmt.Sprintf("%.1f", s.FleschReadingEase), band: stats.EaseBand(s.FleschReadingEase)},
		{title: "Flesch-Kincaid", value: fmt.Sprintf("%.1f", s.FleschKincaidGrade), band: stats.GradeBand(s.FleschKincaidGrade)},
		{title: "Gunning fog", value: fmt.Sprintf("%.1f", s.GunningFog), band: stats.GradeBand(s.GunningFog)},
		{title: "Coleman-Liau", value: fmt.Sprintf("%.1f", s.ColemanLiau), band: stats.GradeBand(s.ColemanLiau)},
		{title: "SMOG", value: fmt.Sprintf("%.1f", s.SMOG), band: stats.GradeBand(s.SMOG)},
		{title: "ARI", value: fmt.Sprintf("%.1f", s.AutomatedReadabilityIndex), band: stats.GradeBand(s.AutomatedReadabilityIndex)},
	}
}

func renderCard(c card) string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		cardTitleStyle.Render(c.title),
		cardValueStyle.Render(c.value),
		cardBandStyle.Render(c.band),
	)
	return cardStyle.Render(body)
}

// cardRows is how many rows the cards wrap into at width. Zero width
// means unknown, so everything goes on one row.
func cardRows(width int) int {
	total := len(cards(readability.Stats{}))
	perRow := total
	if width > 0 {
		perRow = min(max(width/(cardWidth+2), 1), total)
	}
	return (total + perRow - 1) / perRow
}

func renderCards(s readability.Stats, width int) string {
	all := cards(s)
	rows := cardRows(width)
	perRow := (len(all) + rows - 1) / rows
	lines := make([]string, 0, rows)
	for start := 0; start < len(all); start += perRow {
		end := min(start+perRow, len(all))
		rendered := make([]string, 0, end-start)
		for _, c := range all[start:end] {
			rendered = append(rendered, renderCard(c))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *Model) renderFooter() string {
	segments := []string{
		fmt.Sprintf("Words %d", m.stats.Words),
		fmt.Sprintf("Sentences %d", m.stats.Sentences),
		fmt.Sprintf("Syllables %d", m.stats.Syllables),
		fmt.Sprintf("Complex %.1f%%", m.stats.PolysyllablePercent),
	}
	help := "esc quit"
	if m.saver != nil {
		help = "ctrl+s save · " + help
	}
	segments = append(segments, help)
	footer := strings.Join(segments, "  ")
	if m.width > 0 {
		footer = runewidth.Truncate(footer, m.width, "…")
	}
	out := footerStyle.Render(footer)
	if m.status != "" {
		style := footerStyle
		if m.failed {
			style = errorStyle
		}
		out += "  " + style.Render(m.status)
	}
	return out
}
