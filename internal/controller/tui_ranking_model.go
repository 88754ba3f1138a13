package controller

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type tickMsg time.Time

// rankDelegate renders one ranked line per row.
type rankDelegate struct {
	offset int
}

func (d rankDelegate) Height() int  { return 1 }
func (d rankDelegate) Spacing() int { return 0 }
func (d rankDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d rankDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	entry, ok := item.(rankItem)
	if !ok {
		return
	}

	isSelected := index == m.Index()

	// rank (5) + score (7) + counts (11) + spacing (6)
	width := m.Width() - 29

	rankStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Width(5).Align(lipgloss.Right)
	countStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Width(11).Align(lipgloss.Right)
	scoreStyle := lipgloss.NewStyle().Width(7).Align(lipgloss.Right).Bold(true)

	if score, ok := entry.entry.Record.Score(); ok {
		scoreStyle = scoreStyle.Foreground(ScoreColor(score))
	}

	var pathStyle lipgloss.Style

	var displayPath string

	if isSelected {
		pathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("6")).
			Bold(true)

		displayPath = animateScroll(entry.location(), width, d.offset)
	} else {
		pathStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
		displayPath = truncateToWidth(entry.location(), width)
	}

	line := fmt.Sprintf("%s  %s  %s  %s",
		rankStyle.Render(fmt.Sprintf("%d", entry.rank)),
		scoreStyle.Render(scoreText(entry.entry.Record)),
		countStyle.Render(fmt.Sprintf("%d✓ %d✗", entry.entry.Record.NumPassedRuns, entry.entry.Record.NumFailedRuns)),
		pathStyle.Render(displayPath),
	)
	_, _ = fmt.Fprint(w, line)
}

func animateScroll(text string, width int, offset int) string {
	if width <= 0 {
		return ""
	}

	textWidth := lipgloss.Width(text)
	if textWidth <= width {
		return text
	}

	gap := "   "

	// Initial pause before scrolling starts (in ticks)
	pause := 5

	if offset < pause {
		return truncateToWidth(text, width)
	}

	effectiveStep := offset - pause

	runes := []rune(text + gap)
	n := len(runes)

	start := effectiveStep % n

	res := make([]rune, 0, width)
	for i := 0; i < width; i++ {
		idx := (start + i) % n
		res = append(res, runes[idx])
	}

	return string(res)
}

func truncateToWidth(text string, width int) string {
	if width <= 0 {
		return ""
	}

	if lipgloss.Width(text) <= width {
		return text
	}

	const ellipsis = "…"

	if width <= 1 {
		return ellipsis
	}

	maxWidth := width - lipgloss.Width(ellipsis)

	currentWidth := 0

	result := make([]rune, 0, len(text))
	for _, r := range text {
		rWidth := lipgloss.Width(string(r))
		if currentWidth+rWidth > maxWidth {
			break
		}

		result = append(result, r)
		currentWidth += rWidth
	}

	return string(result) + ellipsis
}

// rankingModel browses a suspiciousness ranking.
type rankingModel struct {
	width        int
	height       int
	lineList     list.Model
	delegate     rankDelegate
	formula      string
	totalFiles   int
	passed       int
	failed       int
	rendered     bool
	animOffset   int
	lastSelected int
}

func newRankingModel() rankingModel {
	delegate := rankDelegate{}
	lineList := list.New([]list.Item{}, delegate, 80, 20)
	lineList.SetShowPagination(false)
	lineList.SetShowFilter(true)
	lineList.SetShowHelp(false)
	lineList.SetShowTitle(false)
	lineList.SetShowStatusBar(false)
	lineList.FilterInput.Placeholder = "Filter by file…"

	return rankingModel{
		lineList:     lineList,
		delegate:     delegate,
		lastSelected: -1,
	}
}

func (m rankingModel) Init() tea.Cmd {
	return tea.Tick(time.Second/2, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m rankingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.lineList.SetWidth(m.width)

	case tickMsg:
		if m.lineList.FilterState() != list.Filtering && m.rendered {
			m.animOffset++
			m.delegate.offset = m.animOffset
			m.lineList.SetDelegate(m.delegate)

			return m, tea.Tick(time.Millisecond*150, func(t time.Time) tea.Msg {
				return tickMsg(t)
			})
		}

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		default:
			var newList list.Model

			newList, cmd = m.lineList.Update(msg)
			m.lineList = newList

			// Detect selection change to reset animation
			if m.lineList.Index() != m.lastSelected {
				m.lastSelected = m.lineList.Index()
				m.animOffset = 0
				m.delegate.offset = 0
				m.lineList.SetDelegate(m.delegate)
			}

			return m, cmd
		}

	case rankingMsg:
		m = m.handleRankingMsg(msg)
	}

	return m, cmd
}

func (m rankingModel) handleRankingMsg(msg rankingMsg) rankingModel {
	m.formula = msg.report.Formula
	m.totalFiles = len(msg.report.Summaries)
	m.passed, m.failed = 0, 0

	for _, s := range msg.report.Summaries {
		m.passed += s.Passed
		m.failed += s.Failed
	}

	items := make([]list.Item, 0, len(msg.report.Lines))
	for i, entry := range msg.report.Lines {
		items = append(items, rankItem{rank: i + 1, entry: entry})
	}

	m.lineList.SetItems(items)
	m.rendered = true

	if len(items) > 0 && m.lastSelected == -1 {
		m.lastSelected = 0
	}

	return m
}

func (m rankingModel) needsPagination() bool {
	return m.height > 0 && len(m.lineList.Items()) > m.height-9
}

func (m rankingModel) View() string {
	if !m.rendered {
		return "Loading ranking…\n"
	}

	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true).
		Padding(1, 0, 0, 2)

	summaryStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")).
		Padding(0, 0, 1, 2)

	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	title := titleStyle.Render("Suspiciousness Ranking")

	summary := summaryStyle.Render(fmt.Sprintf(
		"Lines: %s   Files: %s   Runs: %s passed / %s failed   Formula: %s",
		accentStyle.Render(fmt.Sprintf("%d", len(m.lineList.Items()))),
		accentStyle.Render(fmt.Sprintf("%d", m.totalFiles)),
		accentStyle.Render(fmt.Sprintf("%d", m.passed)),
		accentStyle.Render(fmt.Sprintf("%d", m.failed)),
		accentStyle.Render(m.formula),
	))

	table := m.renderTable()

	footerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Align(lipgloss.Center).
		Width(m.width)

	footer := footerStyle.Render("↑/k up • ↓/j down • g/G top/bottom • / filter • q quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		summary,
		table,
		footer,
	)
}

func (m rankingModel) renderTable() string {
	// Screen height minus title (2), summary (2), footer (1), border (2)
	// and headers (2).
	listHeight := m.height - 9
	if listHeight < 5 {
		listHeight = 5
	}

	// Window width minus margin, border and padding (2 each).
	listWidth := m.width - 6
	if listWidth < 40 {
		listWidth = 40
	}

	m.lineList.SetHeight(listHeight)
	m.lineList.SetWidth(listWidth)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Bold(true).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("8")).
		Width(listWidth)

	headers := headerStyle.Render(fmt.Sprintf("%5s  %7s  %11s  %s", "Rank", "Score", "Runs", "Location"))

	tableContainer := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("6")).
		Margin(0, 1).
		Padding(0, 1)

	return tableContainer.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			headers,
			m.lineList.View(),
		),
	)
}
