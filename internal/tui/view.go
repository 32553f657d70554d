package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/devlevel/internal/assessment"
)

const resultsTableWidth = 48

var (
	titleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	headerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
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
	cardStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	selectedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	categoryStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#D0D0D0"))
	countStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	controlStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	disabledStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#4A4A4A"))
	sampleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	qualifiedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#135200")).
			Background(lipgloss.Color("#D9F7BE")).
			Padding(0, 1)
	noFitStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

var levelBadgeStyles = map[assessment.Level]lipgloss.Style{
	assessment.LevelJunior: lipgloss.NewStyle().Foreground(lipgloss.Color("#135200")).Background(lipgloss.Color("#D9F7BE")).Padding(0, 1),
	assessment.LevelMid:    lipgloss.NewStyle().Foreground(lipgloss.Color("#003A8C")).Background(lipgloss.Color("#BAE0FF")).Padding(0, 1),
	assessment.LevelSenior: lipgloss.NewStyle().Foreground(lipgloss.Color("#391085")).Background(lipgloss.Color("#EFDBFF")).Padding(0, 1),
}

// View implements tea.Model.
func (m *Model) View() string {
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}
	sections := []string{
		titleStyle.Render("Developer Level Assessment"),
		headerStyle.Render("Answer questions across all levels to determine best fit"),
		m.renderTabs(),
		m.renderLevelCard(width),
		m.renderResults(width),
		m.renderFooter(),
	}
	view := strings.Join(sections, "\n")
	if m.height <= 0 {
		return view
	}
	return fitLines(view, width, m.height)
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.levels))
	for i, level := range m.levels {
		label := level.Title() + " Level"
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(label))
		} else {
			parts = append(parts, inactiveNavStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderLevelCard(width int) string {
	level := m.currentLevel()
	lines := []string{
		titleStyle.Render(level.Title() + " Level Assessment"),
		m.renderLevelScore(level),
		"",
	}
	tallies := m.session.Tallies()[level]
	current, _ := m.currentCategory()
	for _, ct := range tallies {
		lines = append(lines, m.renderCategoryRow(ct, ct.Category == current))
		if ct.Category != current {
			continue
		}
		for _, q := range m.sampleQuestions(level, ct.Category) {
			lines = append(lines, sampleStyle.Render("    • "+truncateLine(q, width-10)))
		}
	}
	return cardStyle.Width(maxInt(20, width-2)).Render(strings.Join(lines, "\n"))
}

func (m *Model) renderLevelScore(level assessment.Level) string {
	line := fmt.Sprintf("Score: %.1f/100", m.result.Score(level))
	if m.result.Qualified(level, m.rubric.Thresholds()) {
		line += " " + qualifiedStyle.Render("Qualified")
	}
	return line
}

func (m *Model) renderCategoryRow(ct assessment.CategoryTally, selected bool) string {
	cursor := "  "
	name := categoryStyle.Render(assessment.FormatCategoryName(ct.Category))
	if selected {
		cursor = selectedStyle.Render("› ")
		name = selectedStyle.Render(assessment.FormatCategoryName(ct.Category))
	}
	minus := controlStyle.Render("[-]")
	if ct.Tally.Yes == 0 {
		minus = disabledStyle.Render("[-]")
	}
	plus := controlStyle.Render("[+]")
	if ct.Tally.Yes == ct.Tally.Total {
		plus = disabledStyle.Render("[+]")
	}
	count := countStyle.Render(fmt.Sprintf("%d/%d", ct.Tally.Yes, ct.Tally.Total))
	bar := m.bar.ViewAs(assessment.CategoryScore(ct.Tally) / 100)
	label := padLine(cursor+name, 32)
	return fmt.Sprintf("%s %s %s %s  %s", label, minus, count, plus, bar)
}

// sampleQuestions returns the first few configured questions for a category.
func (m *Model) sampleQuestions(level assessment.Level, category assessment.Category) []string {
	questions := m.rubric.Questions(level, category)
	if len(questions) > m.samples {
		questions = questions[:m.samples]
	}
	return questions
}

func (m *Model) renderResults(width int) string {
	lines := []string{
		titleStyle.Render("Assessment Results"),
		m.renderBestFit(),
		"",
		m.results.View(),
	}
	return cardStyle.Width(maxInt(20, width-2)).Render(strings.Join(lines, "\n"))
}

func (m *Model) renderBestFit() string {
	if !m.result.HasBestFit {
		return noFitStyle.Render("No level threshold met")
	}
	level := m.result.BestFit
	badge := levelBadgeStyles[level].Render(level.Title() + " Developer")
	return fmt.Sprintf("Best fit: %s (%.1f/100)", badge, m.result.BestScore())
}

func (m *Model) renderFooter() string {
	footer := m.help.View(m.keys)
	if m.errMsg != "" {
		footer += "\n" + errorStyle.Render(m.errMsg)
	}
	return footer
}

func buildResultsTable() table.Model {
	columns := []table.Column{
		{Title: "Level", Width: 8},
		{Title: "Score", Width: 7},
		{Title: "Threshold", Width: 10},
		{Title: "Status", Width: 10},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithHeight(len(assessment.Levels())+1),
	)
	t.SetWidth(resultsTableWidth)
	t.SetStyles(resultsTableStyles())
	t.Blur()
	return t
}

func resultRows(res assessment.Result, thresholds assessment.Thresholds) []table.Row {
	rows := make([]table.Row, 0, len(assessment.Levels()))
	for _, level := range assessment.Levels() {
		status := "-"
		if res.Qualified(level, thresholds) {
			status = "Qualified"
		}
		rows = append(rows, table.Row{
			level.Title(),
			fmt.Sprintf("%.1f", res.Score(level)),
			fmt.Sprintf("%.1f", thresholds[level]),
			status,
		})
	}
	return rows
}

func resultsTableStyles() table.Styles {
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
	styles.Selected = styles.Cell
	return styles
}
