// internal/tui/tui.go
// Package tui provides the interactive terminal dashboard for browsing runs.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mwiater/matchboard/internal/appconfig"
	"github.com/mwiater/matchboard/internal/dashboard"
	"github.com/mwiater/matchboard/internal/logging"
	"github.com/mwiater/matchboard/internal/metrics"
	"github.com/mwiater/matchboard/internal/runs"
	"github.com/mwiater/matchboard/internal/util"
)

// viewState represents the current screen of the dashboard.
type viewState int

const (
	// viewRunSelector lists the successful runs and the aggregate.
	viewRunSelector viewState = iota
	// viewRunDetail shows the cards and charts of the selected run.
	viewRunDetail
)

const (
	cardWidth     = 28
	barWidth      = 30
	keyLabelWidth = 28
	headerHeight  = 3
	footerHeight  = 2
)

var (
	titleStyle  = lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230")).Padding(0, 1)
	cardStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63")).Padding(0, 1).Width(cardWidth)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	valueStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	sectionHead = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).MarginTop(1)
	barStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Padding(1)
)

// item is one entry of the run selector.
type item struct {
	id    string
	title string
}

// Title returns the run label.
func (i item) Title() string { return i.title }

// Description returns the run id, or a note for the aggregate.
func (i item) Description() string {
	if i.id == "" {
		return ""
	}
	if i.id == metrics.AggregateRunID {
		return "Aggregate of every successful run"
	}
	return i.id
}

// FilterValue returns the text used when filtering the list.
func (i item) FilterValue() string { return i.title + " " + i.id }

// model is the Bubble Tea model of the dashboard.
type model struct {
	store         *dashboard.Store
	selection     *dashboard.Selection
	topKeys       int
	state         viewState
	err           error
	runList       list.Model
	viewport      viewport.Model
	current       runs.Record
	width, height int
}

// initialModel builds the selector from store. The selection is owned by the
// caller; when it already names a run the list starts on that entry.
func initialModel(store *dashboard.Store, sel *dashboard.Selection, cfg appconfig.Config) *model {
	if sel == nil {
		sel = &dashboard.Selection{}
	}
	if cfg.DefaultRun != "" && sel.RunID == "" {
		sel.Select(cfg.DefaultRun)
	}
	sel.Ensure(store)

	options := dashboard.Options(store)
	items := make([]list.Item, len(options))
	selected := 0
	for i, opt := range options {
		items[i] = item{id: opt.ID, title: opt.Label}
		if opt.ID == sel.RunID {
			selected = i
		}
	}
	runList := list.New(items, list.NewDefaultDelegate(), 0, 0)
	runList.Title = "Select a Run"
	if len(items) > 0 {
		runList.Select(selected)
	}

	return &model{
		store:     store,
		selection: sel,
		topKeys:   cfg.TopKeysLimit(),
		state:     viewRunSelector,
		runList:   runList,
		viewport:  viewport.New(100, 5),
	}
}

// Init implements tea.Model.
func (m *model) Init() tea.Cmd {
	return nil
}

// Update is the central update function of the dashboard.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		filtering := m.state == viewRunSelector && m.runList.FilterState() == list.Filtering
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "q":
			if !filtering {
				return m, tea.Quit
			}
		case "esc", "tab", "backspace":
			if m.state == viewRunDetail {
				m.state = viewRunSelector
				return m, nil
			}
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.runList.SetSize(msg.Width-2, msg.Height-4)
		m.viewport.Width = msg.Width
		m.viewport.Height = util.Max(1, msg.Height-headerHeight-footerHeight)
		if m.state == viewRunDetail {
			m.viewport.SetContent(renderRun(m.store, m.current, m.topKeys, m.width))
		}
		return m, nil
	}

	switch m.state {
	case viewRunSelector:
		m.runList, cmd = m.runList.Update(msg)
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" && m.runList.FilterState() != list.Filtering {
			if it, ok := m.runList.SelectedItem().(item); ok {
				m.open(it.id)
			}
		}
		return m, cmd

	case viewRunDetail:
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

// open selects id and switches to the detail view when it resolves.
func (m *model) open(id string) {
	m.selection.Select(id)
	rec, ok := m.selection.Current(m.store)
	if !ok {
		m.err = fmt.Errorf("%w: %s", dashboard.ErrRunNotFound, id)
		return
	}
	m.err = nil
	m.current = rec
	m.state = viewRunDetail
	m.viewport.SetContent(renderRun(m.store, rec, m.topKeys, m.width))
	m.viewport.GotoTop()
	logging.LogRunEvent("select", rec.RunID, map[string]any{"source": "dashboard"})
}

// View renders the dashboard for the current state.
func (m *model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	}
	if len(m.runList.Items()) == 0 {
		return lipgloss.NewStyle().Margin(1, 2).Render("No successful runs found.")
	}

	switch m.state {
	case viewRunSelector:
		listView := m.runList.View()
		if !strings.Contains(listView, m.runList.Title) {
			listView = fmt.Sprintf("%s\n\n%s", m.runList.Title, listView)
		}
		return lipgloss.NewStyle().Margin(1, 2).Render(listView)

	case viewRunDetail:
		header := titleStyle.Render(dashboard.Title(m.current))
		footer := helpStyle.Render("esc: back to runs • ↑/↓: scroll • q: quit")
		return fmt.Sprintf("%s\n\n%s\n%s", header, m.viewport.View(), footer)

	default:
		return "Unknown state"
	}
}

// renderRun lays out the cards, distributions and ranked match keys of rec.
func renderRun(store *dashboard.Store, rec runs.Record, topKeys, width int) string {
	var b strings.Builder

	perRow := util.Max(1, (width-2)/(cardWidth+4))
	cards := dashboard.Cards(rec)
	for start := 0; start < len(cards); start += perRow {
		end := start + perRow
		if end > len(cards) {
			end = len(cards)
		}
		rendered := make([]string, 0, end-start)
		for _, c := range cards[start:end] {
			rendered = append(rendered, cardStyle.Render(labelStyle.Render(c.Label)+"\n"+valueStyle.Render(c.Value)))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
		b.WriteString("\n")
	}

	b.WriteString(renderDistribution("Entity Size Distribution", rec.EntitySizeDistribution))
	b.WriteString(renderDistribution("Match Level Distribution", rec.MatchLevelDistribution))

	b.WriteString(sectionHead.Render("Top Match Keys"))
	b.WriteString("\n")
	rows := dashboard.MatchKeyRows(store.TopKeys(rec, topKeys))
	if len(rows) == 0 {
		b.WriteString(labelStyle.Render("  no match keys reported"))
		b.WriteString("\n")
	}
	for _, row := range rows {
		fmt.Fprintf(&b, "%3d. %s %s %s (%.1f%%)\n",
			row.Rank,
			util.PadRunes(row.Label, keyLabelWidth),
			barStyle.Render(util.PadRunes(util.Bar(row.WidthPct, barWidth), barWidth)),
			dashboard.FormatInt(runs.Some(row.Count)),
			row.SharePct,
		)
	}
	return b.String()
}

func renderDistribution(title string, dist runs.Distribution) string {
	var b strings.Builder
	b.WriteString(sectionHead.Render(title))
	b.WriteString("\n")
	bars := dashboard.DistributionBars(dist)
	if len(bars) == 0 {
		b.WriteString(labelStyle.Render("  no data"))
		b.WriteString("\n")
		return b.String()
	}
	maxValue := 0.0
	for _, bar := range bars {
		if bar.Value > maxValue {
			maxValue = bar.Value
		}
	}
	for _, bar := range bars {
		pct := 0.0
		if maxValue > 0 {
			pct = bar.Value / maxValue * 100
		}
		fmt.Fprintf(&b, "  %s %s %s\n",
			util.PadRunes(bar.Key, 8),
			barStyle.Render(util.PadRunes(util.Bar(pct, barWidth), barWidth)),
			dashboard.FormatInt(runs.Some(bar.Value)),
		)
	}
	return b.String()
}

// Start runs the dashboard until the user quits. sel is updated in place so
// the caller can read the last selected run afterwards.
func Start(store *dashboard.Store, sel *dashboard.Selection, cfg appconfig.Config) error {
	m := initialModel(store, sel, cfg)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running dashboard: %w", err)
	}
	return nil
}
