// Package historyui provides the Bubble Tea history browser.
package historyui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/readstat/internal/model"
	"github.com/verte-zerg/readstat/internal/stats"
	"github.com/verte-zerg/readstat/internal/store"
)

const (
	tabOverview = iota
	tabAnalyses
	tabWords
)

const (
	plotHeight = 10
	topWords   = 50
	dateLayout = "2006-01-02"
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea history UI.
type Model struct {
	store  *store.Store
	filter model.HistoryFilter

	report  stats.History
	errMsg  string
	status  string

	tabs      []string
	activeTab int
	viewports []viewport.Model
	analyses  table.Model

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string

	detail        bool
	detailView    viewport.Model
	confirmDelete int64
}

// NewModel constructs a history UI model.
func NewModel(st *store.Store, filter model.HistoryFilter) *Model {
	if filter.Window < 1 {
		filter.Window = 1
	}
	m := &Model{
		store:  st,
		filter: filter,
		tabs:   []string{"Overview", "Analyses", "Words"},
	}
	m.initInputs()
	m.initViewports()
	m.analyses = buildAnalysesTable(nil, 80, 10)
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || (!m.filterMode && msg.String() == "q") {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		if m.confirmDelete != 0 {
			return m.updateConfirm(msg)
		}
		if m.detail {
			return m.updateDetail(msg)
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "=", "+":
			m.filter.Window = nextWindow(m.filter.Window)
			m.renderTabContents()
			return m, nil
		case "-":
			m.filter.Window = prevWindow(m.filter.Window)
			m.renderTabContents()
			return m, nil
		case "/":
			return m.startFilter()
		case "enter":
			if m.activeTab == tabAnalyses {
				m.openDetail()
			}
			return m, nil
		case "d":
			if m.activeTab == tabAnalyses {
				if a, ok := m.selected(); ok {
					m.confirmDelete = a.ID
				}
			}
			return m, nil
		case "g", "home":
			if m.activeTab == tabAnalyses {
				m.analyses.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabAnalyses {
				m.analyses.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			var cmd tea.Cmd
			if m.activeTab == tabAnalyses {
				m.analyses, cmd = m.analyses.Update(msg)
				return m, cmd
			}
			m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
	m.detailView = viewport.New(0, 0)
}

func (m *Model) initInputs() {
	m.filterInputs = []textinput.Model{
		newFilterInput("Source: "),
		newFilterInput("Label: "),
		newFilterInput("Since (YYYY-MM-DD): "),
		newFilterInput("Last: "),
		newFilterInput("Window: "),
	}
	m.setInputsFromFilter()
}

func newFilterInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) setInputsFromFilter() {
	m.filterInputs[0].SetValue(m.filter.Source)
	m.filterInputs[1].SetValue(m.filter.Label)
	if m.filter.Since != nil {
		m.filterInputs[2].SetValue(m.filter.Since.Format(dateLayout))
	} else {
		m.filterInputs[2].SetValue("")
	}
	if m.filter.Last > 0 {
		m.filterInputs[3].SetValue(strconv.Itoa(m.filter.Last))
	} else {
		m.filterInputs[3].SetValue("")
	}
	m.filterInputs[4].SetValue(strconv.Itoa(m.filter.Window))
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := max(lipgloss.Height(activeNavStyle.Render("X")), 1)
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if !m.filterMode && (m.errMsg != "" || m.status != "") {
		footerHeight++
	}
	bodyHeight = max(m.height-headerHeight-footerHeight, 1)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = bodyHeight
	}
	m.detailView.Width = m.width
	m.detailView.Height = bodyHeight
	m.analyses.SetWidth(m.width)
	m.analyses.SetHeight(max(bodyHeight-1, 1))
	for i := range m.filterInputs {
		promptWidth := lipgloss.Width(m.filterInputs[i].Prompt)
		m.filterInputs[i].Width = max(10, m.width-promptWidth-2)
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	m.activeTab = (m.activeTab + delta + count) % count
	if m.activeTab == tabAnalyses {
		m.analyses.Focus()
	} else {
		m.analyses.Blur()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	filters := padLines(m.renderFilterSummary(), m.width)
	return tabs + "\n" + filters
}

func (m *Model) renderFilterSummary() string {
	source := m.filter.Source
	if source == "" {
		source = "any"
	}
	label := m.filter.Label
	if label == "" {
		label = "any"
	}
	since := "any"
	if m.filter.Since != nil {
		since = m.filter.Since.Format(dateLayout)
	}
	last := "all"
	if m.filter.Last > 0 {
		last = strconv.Itoa(m.filter.Last)
	}
	summary := fmt.Sprintf("Filter: source=%s  label=%s  since=%s  last=%s  window=%d", source, label, since, last, m.filter.Window)
	return headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderHelp() string {
	switch {
	case m.filterMode:
		return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
	case m.confirmDelete != 0:
		return errorStyle.Render(fmt.Sprintf("Delete analysis #%d? y: confirm  any other key: cancel", m.confirmDelete))
	case m.detail:
		return headerStyle.Render("Scroll: up/down/pgup/pgdn  Back: esc  Quit: q")
	case m.activeTab == tabAnalyses:
		return headerStyle.Render("Nav: left/right  Select: up/down  Details: enter  Delete: d  Filter: /  Quit: q")
	default:
		return headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Window: -/=  Filter: /  Quit: q")
	}
}

func (m *Model) renderFooter() string {
	help := m.renderHelp()
	switch {
	case m.filterMode:
		return help
	case m.errMsg != "":
		return help + "\n" + errorStyle.Render(m.errMsg)
	case m.status != "":
		return help + "\n" + headerStyle.Render(m.status)
	}
	return help
}

func (m *Model) renderFilterForm() string {
	lines := []string{"Filter (enter to apply, esc to cancel)"}
	for _, input := range m.filterInputs {
		lines = append(lines, input.View())
	}
	if m.filterError != "" {
		lines = append(lines, errorStyle.Render(m.filterError))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderBody(height int) string {
	switch {
	case m.filterMode:
		return fitLines(m.renderFilterForm(), m.width, height)
	case m.detail:
		return fitLines(m.detailView.View(), m.width, height)
	case m.activeTab == tabAnalyses:
		if len(m.report.Analyses) == 0 {
			return fitLines("No analyses found.", m.width, height)
		}
		return fitLines(tableMutedStyle.Render(m.analyses.View()), m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func (m *Model) refreshReport() {
	report, err := stats.BuildHistory(context.Background(), m.store, m.filter)
	if err != nil {
		m.errMsg = err.Error()
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load history.")
		}
		return
	}
	m.errMsg = ""
	m.report = report
	m.analyses.SetRows(analysisRows(report.Analyses))
	if m.analyses.Cursor() >= len(report.Analyses) {
		m.analyses.SetCursor(max(len(report.Analyses)-1, 0))
	}
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	if m.errMsg != "" {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabOverview].SetContent(renderOverview(m.report.Analyses, m.filter.Window, width))
	m.viewports[tabWords].SetContent(renderWords(m.report.Words))
}

func renderOverview(analyses []model.Analysis, window, width int) string {
	if len(analyses) == 0 {
		return "No analyses found."
	}
	cards := renderSummaryCards(analyses, width)
	var buf bytes.Buffer
	if err := stats.RenderTrends(&buf, analyses, window, width, plotHeight, true); err != nil {
		return fmt.Sprintf("Failed to render trends: %v", err)
	}
	return strings.TrimRight(cards+"\n\n"+buf.String(), "\n")
}

func renderSummaryCards(analyses []model.Analysis, width int) string {
	sum := stats.Summarize(analyses)
	cards := []string{
		metricCard("Analyses", strconv.Itoa(sum.Count)),
		metricCard("Words", strconv.Itoa(sum.Words)),
		metricCard("Avg Ease", fmt.Sprintf("%.1f", sum.AvgEase)),
		metricCard("Avg Grade", fmt.Sprintf("%.1f", sum.AvgGrade)),
		metricCard("Avg Fog", fmt.Sprintf("%.1f", sum.AvgFog)),
		metricCard("Avg SMOG", fmt.Sprintf("%.1f", sum.AvgSMOG)),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[:3]...)
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3:]...)
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func renderWords(aggs []model.WordAggregate) string {
	var buf bytes.Buffer
	if err := stats.RenderWords(&buf, aggs, topWords); err != nil {
		return fmt.Sprintf("Failed to render words: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func analysisColumns() []table.Column {
	return []table.Column{
		{Title: "ID", Width: 5},
		{Title: "Date", Width: 16},
		{Title: "Source", Width: 24},
		{Title: "Label", Width: 12},
		{Title: "Words", Width: 6},
		{Title: "Ease", Width: 6},
		{Title: "FK", Width: 5},
		{Title: "Fog", Width: 5},
		{Title: "SMOG", Width: 5},
	}
}

func analysisRows(analyses []model.Analysis) []table.Row {
	rows := make([]table.Row, 0, len(analyses))
	// Newest first.
	for i := len(analyses) - 1; i >= 0; i-- {
		a := analyses[i]
		rows = append(rows, table.Row{
			strconv.FormatInt(a.ID, 10),
			a.CreatedAt.Local().Format("2006-01-02 15:04"),
			runewidth.Truncate(a.Source, 24, "…"),
			runewidth.Truncate(a.Label, 12, "…"),
			strconv.Itoa(a.Stats.Words),
			fmt.Sprintf("%.1f", a.Stats.FleschReadingEase),
			fmt.Sprintf("%.1f", a.Stats.FleschKincaidGrade),
			fmt.Sprintf("%.1f", a.Stats.GunningFog),
			fmt.Sprintf("%.1f", a.Stats.SMOG),
		})
	}
	return rows
}

func buildAnalysesTable(analyses []model.Analysis, width, height int) table.Model {
	t := table.New(
		table.WithColumns(analysisColumns()),
		table.WithRows(analysisRows(analyses)),
		table.WithHeight(max(1, height-1)),
	)
	t.SetWidth(width)
	t.SetStyles(tableStyles())
	return t
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

// selected returns the analysis under the table cursor.
func (m *Model) selected() (model.Analysis, bool) {
	n := len(m.report.Analyses)
	cursor := m.analyses.Cursor()
	if n == 0 || cursor < 0 || cursor >= n {
		return model.Analysis{}, false
	}
	return m.report.Analyses[n-1-cursor], true
}

func (m *Model) openDetail() {
	a, ok := m.selected()
	if !ok {
		return
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Analysis #%d  %s\n", a.ID, a.CreatedAt.Local().Format("2006-01-02 15:04"))
	fmt.Fprintf(&buf, "Source: %s\n", a.Source)
	if a.Label != "" {
		fmt.Fprintf(&buf, "Label: %s\n", a.Label)
	}
	fmt.Fprintf(&buf, "Hash: %s\n\n", a.Hash)
	if err := stats.RenderStats(&buf, a.Stats, false); err != nil {
		buf.WriteString(err.Error())
	}
	m.detailView.SetContent(strings.TrimRight(buf.String(), "\n"))
	m.detailView.GotoTop()
	m.detail = true
}

func (m *Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEsc || msg.Type == tea.KeyEnter {
		m.detail = false
		return m, nil
	}
	var cmd tea.Cmd
	m.detailView, cmd = m.detailView.Update(msg)
	return m, cmd
}

func (m *Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id := m.confirmDelete
	m.confirmDelete = 0
	if msg.String() != "y" {
		m.status = "Delete canceled."
		return m, nil
	}
	err := m.store.DeleteAnalysis(context.Background(), id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		m.status = fmt.Sprintf("Analysis #%d was already deleted.", id)
	case err != nil:
		m.errMsg = err.Error()
		return m, nil
	default:
		m.status = fmt.Sprintf("Deleted analysis #%d.", id)
	}
	m.refreshReport()
	return m, nil
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.setInputsFromFilter()
	return m, m.setFilterIndex(0)
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case tea.KeyEnter:
		if err := m.applyFilter(); err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.filterMode = false
		m.filterError = ""
		m.status = ""
		m.refreshReport()
		m.updateLayout()
		return m, nil
	case tea.KeyTab:
		return m, m.setFilterIndex(m.filterIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setFilterIndex(m.filterIndex - 1)
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) setFilterIndex(idx int) tea.Cmd {
	count := len(m.filterInputs)
	m.filterIndex = (idx + count) % count
	var cmd tea.Cmd
	for i := range m.filterInputs {
		if i == m.filterIndex {
			cmd = m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) applyFilter() error {
	sinceInput := strings.TrimSpace(m.filterInputs[2].Value())
	var since *time.Time
	if sinceInput != "" {
		parsed, err := time.ParseInLocation(dateLayout, sinceInput, time.Local)
		if err != nil {
			return fmt.Errorf("invalid since date (expected YYYY-MM-DD)")
		}
		since = &parsed
	}

	lastInput := strings.TrimSpace(m.filterInputs[3].Value())
	last := 0
	if lastInput != "" {
		parsed, err := strconv.Atoi(lastInput)
		if err != nil || parsed < 0 {
			return fmt.Errorf("invalid last value (use 0 or positive integer)")
		}
		last = parsed
	}

	window := 1
	if windowInput := strings.TrimSpace(m.filterInputs[4].Value()); windowInput != "" {
		parsed, err := strconv.Atoi(windowInput)
		if err != nil || parsed < 1 {
			return fmt.Errorf("invalid window (use integer >= 1)")
		}
		window = parsed
	}

	m.filter = model.HistoryFilter{
		Source: strings.TrimSpace(m.filterInputs[0].Value()),
		Label:  strings.TrimSpace(m.filterInputs[1].Value()),
		Since:  since,
		Last:   last,
		Window: window,
	}
	return nil
}

func nextWindow(n int) int {
	if n < 5 {
		return 5
	}
	return (n/5 + 1) * 5
}

func prevWindow(n int) int {
	if n <= 5 {
		return 1
	}
	if n%5 == 0 {
		return n - 5
	}
	return (n / 5) * 5
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	return runewidth.Truncate(s, width, "...")
}
