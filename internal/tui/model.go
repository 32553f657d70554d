// Package tui provides the Bubble Tea assessment interface.
package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/verte-zerg/devlevel/internal/assessment"
)

const (
	defaultSamples = 2
	defaultWidth   = 80
	minBarWidth    = 10
	maxBarWidth    = 40
)

// Options configures a Model.
type Options struct {
	StartLevel assessment.Level
	Samples    int
	Logger     *zap.Logger
}

// Model implements the Bubble Tea assessment UI. It only reads computed
// scores and forwards +1/-1 adjustments to the session.
type Model struct {
	session *assessment.Session
	rubric  *assessment.Rubric
	logger  *zap.Logger
	samples int

	levels    []assessment.Level
	activeTab int
	selected  map[assessment.Level]int

	result assessment.Result
	errMsg string

	keys    keyMap
	help    help.Model
	bar     progress.Model
	results table.Model

	width  int
	height int
}

// NewModel constructs an assessment TUI model for a session.
func NewModel(session *assessment.Session, opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	samples := opts.Samples
	if samples < 0 {
		samples = defaultSamples
	}
	m := &Model{
		session:  session,
		rubric:   session.Rubric(),
		logger:   logger,
		samples:  samples,
		levels:   assessment.Levels(),
		selected: map[assessment.Level]int{},
		keys:     defaultKeyMap(),
		help:     help.New(),
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage(), progress.WithWidth(minBarWidth)),
		results:  buildResultsTable(),
	}
	for i, level := range m.levels {
		if level == opts.StartLevel {
			m.activeTab = i
		}
	}
	m.recompute()
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
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.PrevLevel):
			m.moveTab(-1)
		case key.Matches(msg, m.keys.NextLevel):
			m.moveTab(1)
		case key.Matches(msg, m.keys.Junior):
			m.activeTab = 0
		case key.Matches(msg, m.keys.Mid):
			m.activeTab = 1
		case key.Matches(msg, m.keys.Senior):
			m.activeTab = 2
		case key.Matches(msg, m.keys.Up):
			m.moveSelection(-1)
		case key.Matches(msg, m.keys.Down):
			m.moveSelection(1)
		case key.Matches(msg, m.keys.Increment):
			m.adjust(1)
		case key.Matches(msg, m.keys.Decrement):
			m.adjust(-1)
		case key.Matches(msg, m.keys.Reset):
			m.resetLevel()
		case key.Matches(msg, m.keys.ResetAll):
			m.session.Reset()
			m.logger.Debug("all tallies reset")
			m.recompute()
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) currentLevel() assessment.Level {
	return m.levels[m.activeTab]
}

func (m *Model) currentCategory() (assessment.Category, bool) {
	cats := m.rubric.Categories(m.currentLevel())
	if len(cats) == 0 {
		return "", false
	}
	idx := m.selected[m.currentLevel()]
	if idx < 0 || idx >= len(cats) {
		idx = 0
	}
	return cats[idx], true
}

func (m *Model) moveTab(delta int) {
	count := len(m.levels)
	if count == 0 {
		return
	}
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
}

func (m *Model) moveSelection(delta int) {
	level := m.currentLevel()
	count := len(m.rubric.Categories(level))
	if count == 0 {
		return
	}
	next := m.selected[level] + delta
	if next < 0 {
		next = 0
	}
	if next >= count {
		next = count - 1
	}
	m.selected[level] = next
}

func (m *Model) adjust(delta int) {
	level := m.currentLevel()
	category, ok := m.currentCategory()
	if !ok {
		return
	}
	if err := m.session.Adjust(level, category, delta); err != nil {
		m.logger.Error("failed to adjust tally",
			zap.String("level", string(level)),
			zap.String("category", string(category)),
			zap.Int("delta", delta),
			zap.Error(err))
		m.errMsg = err.Error()
		return
	}
	if tally, err := m.session.Tally(level, category); err == nil {
		m.logger.Debug("tally adjusted",
			zap.String("level", string(level)),
			zap.String("category", string(category)),
			zap.Int("yes", tally.Yes),
			zap.Int("total", tally.Total))
	}
	m.recompute()
}

func (m *Model) resetLevel() {
	level := m.currentLevel()
	if err := m.session.ResetLevel(level); err != nil {
		m.logger.Error("failed to reset level", zap.String("level", string(level)), zap.Error(err))
		m.errMsg = err.Error()
		return
	}
	m.logger.Debug("level reset", zap.String("level", string(level)))
	m.recompute()
}

// recompute derives the full result from the current tallies.
func (m *Model) recompute() {
	res, err := m.session.Result()
	if err != nil {
		m.logger.Error("failed to compute scores", zap.Error(err))
		m.errMsg = err.Error()
		return
	}
	m.errMsg = ""
	m.result = res
	m.results.SetRows(resultRows(res, m.rubric.Thresholds()))
	if res.HasBestFit {
		m.logger.Debug("scores computed",
			zap.String("best_fit", string(res.BestFit)),
			zap.Float64("best_score", res.BestScore()))
	}
}

func (m *Model) updateLayout() {
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}
	barWidth := width / 3
	if barWidth < minBarWidth {
		barWidth = minBarWidth
	}
	if barWidth > maxBarWidth {
		barWidth = maxBarWidth
	}
	m.bar.Width = barWidth
	m.help.Width = width
	m.results.SetWidth(minInt(width, resultsTableWidth))
}
