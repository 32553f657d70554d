package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/verte-zerg/devlevel/internal/assessment"
)

func newTestModel(t *testing.T, opts Options) (*Model, *assessment.Session) {
	t.Helper()
	r, err := assessment.DefaultRubric()
	if err != nil {
		t.Fatalf("default rubric: %v", err)
	}
	s := assessment.NewSession(r)
	if opts.Samples == 0 {
		opts.Samples = defaultSamples
	}
	m := NewModel(s, opts)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 0})
	return m, s
}

func press(m *Model, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "ctrl+c":
			msg = tea.KeyMsg{Type: tea.KeyCtrlC}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		_, cmd = m.Update(msg)
	}
	return cmd
}

func tally(t *testing.T, s *assessment.Session, level assessment.Level, category assessment.Category) assessment.Tally {
	t.Helper()
	got, err := s.Tally(level, category)
	if err != nil {
		t.Fatalf("tally: %v", err)
	}
	return got
}

func TestIncrementAndDecrementSelectedCategory(t *testing.T) {
	m, s := newTestModel(t, Options{})
	press(m, "+", "+", "-")
	if got := tally(t, s, assessment.LevelJunior, "learning_growth"); got.Yes != 1 {
		t.Fatalf("expected 1 yes, got %d", got.Yes)
	}
	if m.result.Score(assessment.LevelJunior) != 8.8 {
		t.Fatalf("expected junior 8.8, got %v", m.result.Score(assessment.LevelJunior))
	}
}

func TestAdjustSaturatesWithoutError(t *testing.T) {
	m, s := newTestModel(t, Options{})
	press(m, "down", "down", "down", "down", "down", "down")
	press(m, "-")
	for i := 0; i < 5; i++ {
		press(m, "+")
	}
	got := tally(t, s, assessment.LevelJunior, "professional_mindset")
	if got.Yes != 2 || got.Total != 2 {
		t.Fatalf("expected 2/2, got %d/%d", got.Yes, got.Total)
	}
	if m.errMsg != "" {
		t.Fatalf("saturation should not report an error, got %q", m.errMsg)
	}
}

func TestLevelNavigation(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	press(m, "right")
	if m.currentLevel() != assessment.LevelMid {
		t.Fatalf("expected mid, got %s", m.currentLevel())
	}
	press(m, "left", "left")
	if m.currentLevel() != assessment.LevelSenior {
		t.Fatalf("expected wrap to senior, got %s", m.currentLevel())
	}
	press(m, "1")
	if m.currentLevel() != assessment.LevelJunior {
		t.Fatalf("expected junior, got %s", m.currentLevel())
	}
}

func TestSelectionIsPerLevel(t *testing.T) {
	m, s := newTestModel(t, Options{})
	press(m, "down")
	press(m, "2", "+")
	press(m, "1", "+")
	if got := tally(t, s, assessment.LevelMid, "ownership_autonomy"); got.Yes != 1 {
		t.Fatalf("expected mid ownership_autonomy 1, got %d", got.Yes)
	}
	if got := tally(t, s, assessment.LevelJunior, "problem_solving"); got.Yes != 1 {
		t.Fatalf("expected junior problem_solving 1, got %d", got.Yes)
	}
}

func TestStartLevelOption(t *testing.T) {
	m, _ := newTestModel(t, Options{StartLevel: assessment.LevelSenior})
	if m.currentLevel() != assessment.LevelSenior {
		t.Fatalf("expected senior start, got %s", m.currentLevel())
	}
	if !strings.Contains(m.View(), "Senior Level Assessment") {
		t.Fatalf("expected senior card in view")
	}
}

func TestViewShowsBestFit(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	if !strings.Contains(m.View(), "No level threshold met") {
		t.Fatalf("expected no-fit message before answering")
	}
	for i := 0; i < 5; i++ {
		press(m, "+", "+", "+", "+", "down")
	}
	view := m.View()
	for _, want := range []string{"Score: 100.0/100", "Qualified", "Best fit:", "Junior Developer", "(100.0/100)"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected view to contain %q:\n%s", want, view)
		}
	}
}

func TestResetKeys(t *testing.T) {
	m, s := newTestModel(t, Options{})
	press(m, "+", "2", "+")
	press(m, "r")
	if got := tally(t, s, assessment.LevelMid, "ownership_autonomy"); got.Yes != 0 {
		t.Fatalf("expected mid reset, got %d", got.Yes)
	}
	if got := tally(t, s, assessment.LevelJunior, "learning_growth"); got.Yes != 1 {
		t.Fatalf("expected junior untouched, got %d", got.Yes)
	}
	press(m, "R")
	if got := tally(t, s, assessment.LevelJunior, "learning_growth"); got.Yes != 0 {
		t.Fatalf("expected full reset, got %d", got.Yes)
	}
}

func TestSampleQuestionsLimited(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	view := m.View()
	if !strings.Contains(view, "Do you actively seek feedback on your code from more experienced developers?") {
		t.Fatalf("expected first sample question in view")
	}
	if strings.Contains(view, "Have you ever refactored your own code") {
		t.Fatalf("expected only two sample questions")
	}
}

func TestSampleQuestionsFollowSelection(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	const problemSolving = "When debugging, do you use print statements"
	if strings.Contains(m.View(), problemSolving) {
		t.Fatalf("expected questions only for the selected category")
	}
	press(m, "down")
	view := m.View()
	if !strings.Contains(view, problemSolving) {
		t.Fatalf("expected problem solving questions after moving selection")
	}
	if strings.Contains(view, "Do you actively seek feedback on your code") {
		t.Fatalf("expected learning growth questions hidden after moving selection")
	}
}

func TestHelpToggleAndQuit(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	press(m, "?")
	if !m.help.ShowAll {
		t.Fatalf("expected full help after ?")
	}
	if cmd := press(m, "q"); cmd == nil {
		t.Fatalf("expected quit command")
	}
	if cmd := press(m, "ctrl+c"); cmd == nil {
		t.Fatalf("expected quit command for ctrl+c")
	}
}

func TestAdjustLogsAtDebug(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	m, _ := newTestModel(t, Options{Logger: zap.New(core)})
	press(m, "+")
	entries := logs.FilterMessage("tally adjusted").All()
	if len(entries) != 1 {
		t.Fatalf("expected one log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["category"] != "learning_growth" || fields["yes"] != int64(1) {
		t.Fatalf("unexpected fields: %v", fields)
	}
}

func TestFitLinesPadsAndTruncates(t *testing.T) {
	out := fitLines("a\nb\nc", 3, 2)
	if out != "a  \nb  " {
		t.Fatalf("unexpected output: %q", out)
	}
	if got := truncateLine("abcdefgh", 6); got != "abc..." {
		t.Fatalf("unexpected truncation: %q", got)
	}
}
