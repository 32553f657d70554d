package assessment

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func defaultRubric(t *testing.T) *Rubric {
	t.Helper()
	r, err := DefaultRubric()
	if err != nil {
		t.Fatalf("load default rubric: %v", err)
	}
	return r
}

func TestComputeScoresJuniorFullMarks(t *testing.T) {
	r := defaultRubric(t)
	s := NewSession(r)
	if err := s.Fill(LevelJunior); err != nil {
		t.Fatalf("fill: %v", err)
	}
	res, err := s.Result()
	if err != nil {
		t.Fatalf("result: %v", err)
	}
	if got := res.Score(LevelJunior); got != 100.0 {
		t.Fatalf("expected junior score 100.0, got %v", got)
	}
	if !res.HasBestFit || res.BestFit != LevelJunior {
		t.Fatalf("expected best fit junior, got %+v", res)
	}
}

func TestComputeScoresAllZero(t *testing.T) {
	r := defaultRubric(t)
	res, err := NewSession(r).Result()
	if err != nil {
		t.Fatalf("result: %v", err)
	}
	for _, level := range Levels() {
		if got := res.Score(level); got != 0 {
			t.Fatalf("expected %s score 0, got %v", level, got)
		}
		if res.Qualified(level, r.Thresholds()) {
			t.Fatalf("expected %s not qualified", level)
		}
	}
	if res.HasBestFit {
		t.Fatalf("expected no best fit, got %s", res.BestFit)
	}
	if res.BestScore() != 0 {
		t.Fatalf("expected best score 0, got %v", res.BestScore())
	}
}

func TestComputeScoresTieGoesToEarlierLevel(t *testing.T) {
	r := defaultRubric(t)
	s := NewSession(r)
	for _, level := range []Level{LevelJunior, LevelMid} {
		if err := s.Fill(level); err != nil {
			t.Fatalf("fill %s: %v", level, err)
		}
	}
	res, err := s.Result()
	if err != nil {
		t.Fatalf("result: %v", err)
	}
	if res.Score(LevelJunior) != 100 || res.Score(LevelMid) != 100 {
		t.Fatalf("expected both 100, got %v", res.Scores)
	}
	if res.BestFit != LevelJunior {
		t.Fatalf("expected junior to win tie, got %s", res.BestFit)
	}
}

func TestComputeScoresTieBreakFollowsLevelOrder(t *testing.T) {
	tallies := Tallies{
		LevelSenior: {{Category: "a", Tally: Tally{Yes: 3, Total: 4}}},
		LevelMid:    {{Category: "a", Tally: Tally{Yes: 3, Total: 4}}},
		LevelJunior: {{Category: "a", Tally: Tally{Yes: 1, Total: 4}}},
	}
	weights := Weights{
		LevelJunior: {"a": 1},
		LevelMid:    {"a": 1},
		LevelSenior: {"a": 1},
	}
	thresholds := Thresholds{LevelJunior: 10, LevelMid: 50, LevelSenior: 50}
	for i := 0; i < 20; i++ {
		res, err := ComputeScores(tallies, weights, thresholds)
		if err != nil {
			t.Fatalf("compute: %v", err)
		}
		if res.BestFit != LevelMid {
			t.Fatalf("run %d: expected mid, got %s (%v)", i, res.BestFit, res.Scores)
		}
	}
}

func TestComputeScoresHigherLaterLevelWins(t *testing.T) {
	tallies := Tallies{
		LevelJunior: {{Category: "a", Tally: Tally{Yes: 3, Total: 4}}},
		LevelMid:    {{Category: "a", Tally: Tally{Yes: 4, Total: 4}}},
	}
	weights := Weights{LevelJunior: {"a": 1}, LevelMid: {"a": 1}}
	thresholds := Thresholds{LevelJunior: 60, LevelMid: 70}
	res, err := ComputeScores(tallies, weights, thresholds)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if res.BestFit != LevelMid || res.BestScore() != 100 {
		t.Fatalf("expected mid at 100, got %s at %v", res.BestFit, res.BestScore())
	}
}

func TestComputeScoresSeniorBelowThreshold(t *testing.T) {
	r := defaultRubric(t)
	s := NewSession(r)
	answers := map[Category]int{
		"technical_depth":          4,
		"practical_judgment":       3,
		"communication_leadership": 2,
		"experience_quality":       0,
	}
	for cat, yes := range answers {
		if err := s.Set(LevelSenior, cat, yes); err != nil {
			t.Fatalf("set %s: %v", cat, err)
		}
	}
	res, err := s.Result()
	if err != nil {
		t.Fatalf("result: %v", err)
	}
	if got := res.Score(LevelSenior); got != 63.5 {
		t.Fatalf("expected senior 63.5, got %v", got)
	}
	if res.Qualified(LevelSenior, r.Thresholds()) {
		t.Fatalf("expected senior below threshold 85")
	}
	if res.HasBestFit {
		t.Fatalf("expected no best fit, got %s", res.BestFit)
	}
}

func TestComputeScoresRoundsToOneDecimal(t *testing.T) {
	tallies := Tallies{LevelJunior: {{Category: "a", Tally: Tally{Yes: 2, Total: 3}}}}
	res, err := ComputeScores(tallies, Weights{LevelJunior: {"a": 1}}, Thresholds{LevelJunior: 60})
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if got := res.Score(LevelJunior); got != 66.7 {
		t.Fatalf("expected 66.7, got %v", got)
	}
}

func TestRoundScore(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{66.66666, 66.7},
		{12.25, 12.3},
		{0.04, 0},
		{99.95, 100},
	}
	for _, tc := range cases {
		if got := RoundScore(tc.in); got != tc.want {
			t.Fatalf("RoundScore(%v): expected %v, got %v", tc.in, tc.want, got)
		}
	}
}

func TestComputeScoresIsPure(t *testing.T) {
	r := defaultRubric(t)
	s := NewSession(r)
	_ = s.Set(LevelJunior, "learning_growth", 3)
	_ = s.Set(LevelMid, "technical_leadership", 1)
	_ = s.Set(LevelSenior, "practical_judgment", 4)
	tallies := s.Tallies()
	before := tallies.Clone()

	first, err := ComputeScores(tallies, r.Weights(), r.Thresholds())
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	second, err := ComputeScores(tallies, r.Weights(), r.Thresholds())
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical results, got %+v and %+v", first, second)
	}
	for level, score := range first.Scores {
		if math.Float64bits(score) != math.Float64bits(second.Scores[level]) {
			t.Fatalf("score bits differ for %s", level)
		}
	}
	if !reflect.DeepEqual(tallies, before) {
		t.Fatalf("compute mutated its input tallies")
	}
}

func TestComputeScoresStayInRange(t *testing.T) {
	r := defaultRubric(t)
	weights := r.Weights()
	thresholds := r.Thresholds()
	for _, level := range Levels() {
		base := r.NewTallies()[level]
		checked := 0
		forEachTally(base, 0, func(cats []CategoryTally) {
			for _, ct := range cats {
				cs := CategoryScore(ct.Tally)
				if cs < 0 || cs > 100 {
					t.Fatalf("category score %v out of range for %+v", cs, ct)
				}
			}
			res, err := ComputeScores(Tallies{level: cats}, weights, thresholds)
			if err != nil {
				t.Fatalf("compute: %v", err)
			}
			if s := res.Score(level); s < 0 || s > 100 {
				t.Fatalf("%s score %v out of range for %+v", level, s, cats)
			}
			checked++
		})
		if checked == 0 {
			t.Fatalf("no combinations checked for %s", level)
		}
	}
}

// forEachTally calls fn with every yes combination of cats from index i on.
func forEachTally(cats []CategoryTally, i int, fn func([]CategoryTally)) {
	if i == len(cats) {
		fn(cats)
		return
	}
	for yes := 0; yes <= cats[i].Tally.Total; yes++ {
		cats[i].Tally.Yes = yes
		forEachTally(cats, i+1, fn)
	}
	cats[i].Tally.Yes = 0
}

func TestComputeScoresUnweightedCategoryContributesZero(t *testing.T) {
	tallies := Tallies{LevelJunior: {
		{Category: "weighted", Tally: Tally{Yes: 1, Total: 2}},
		{Category: "unweighted", Tally: Tally{Yes: 2, Total: 2}},
	}}
	res, err := ComputeScores(tallies, Weights{LevelJunior: {"weighted": 1}}, Thresholds{LevelJunior: 60})
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if got := res.Score(LevelJunior); got != 50 {
		t.Fatalf("expected 50, got %v", got)
	}
}

func TestComputeScoresZeroScoreIsNeverBestFit(t *testing.T) {
	zero := []CategoryTally{{Category: "a", Tally: Tally{Yes: 0, Total: 2}}}
	tallies := Tallies{LevelJunior: zero, LevelMid: zero, LevelSenior: zero}
	weights := Weights{LevelJunior: {"a": 1}, LevelMid: {"a": 1}, LevelSenior: {"a": 1}}
	thresholds := Thresholds{LevelJunior: 0, LevelMid: 70, LevelSenior: 85}
	res, err := ComputeScores(tallies, weights, thresholds)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if res.HasBestFit || res.BestFit != "" {
		t.Fatalf("expected no best fit for all-zero scores, got %+v", res)
	}
	if !res.Qualified(LevelJunior, thresholds) {
		t.Fatalf("expected junior to still meet a threshold of 0")
	}
}

func TestComputeScoresZeroThresholdPositiveScoreIsBestFit(t *testing.T) {
	tallies := Tallies{LevelJunior: {{Category: "a", Tally: Tally{Yes: 1, Total: 2}}}}
	res, err := ComputeScores(tallies, Weights{LevelJunior: {"a": 1}}, Thresholds{LevelJunior: 0})
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if !res.HasBestFit || res.BestFit != LevelJunior {
		t.Fatalf("expected junior best fit, got %+v", res)
	}
}

func TestComputeScoresConfigurationErrors(t *testing.T) {
	tally := []CategoryTally{{Category: "a", Tally: Tally{Yes: 1, Total: 2}}}
	cases := []struct {
		name       string
		tallies    Tallies
		weights    Weights
		thresholds Thresholds
	}{
		{
			name:       "level missing from weights",
			tallies:    Tallies{LevelJunior: tally, LevelMid: tally},
			weights:    Weights{LevelJunior: {"a": 1}},
			thresholds: Thresholds{LevelJunior: 60, LevelMid: 70},
		},
		{
			name:       "level with empty weights",
			tallies:    Tallies{LevelJunior: tally},
			weights:    Weights{LevelJunior: {}},
			thresholds: Thresholds{LevelJunior: 60},
		},
		{
			name:       "level missing threshold",
			tallies:    Tallies{LevelJunior: tally},
			weights:    Weights{LevelJunior: {"a": 1}},
			thresholds: Thresholds{},
		},
		{
			name:       "unknown level",
			tallies:    Tallies{"principal": tally},
			weights:    Weights{"principal": {"a": 1}},
			thresholds: Thresholds{"principal": 90},
		},
		{
			name:       "zero total",
			tallies:    Tallies{LevelJunior: {{Category: "a", Tally: Tally{Yes: 0, Total: 0}}}},
			weights:    Weights{LevelJunior: {"a": 1}},
			thresholds: Thresholds{LevelJunior: 60},
		},
		{
			name:       "yes above total",
			tallies:    Tallies{LevelJunior: {{Category: "a", Tally: Tally{Yes: 3, Total: 2}}}},
			weights:    Weights{LevelJunior: {"a": 1}},
			thresholds: Thresholds{LevelJunior: 60},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ComputeScores(tc.tallies, tc.weights, tc.thresholds)
			if !errors.Is(err, ErrInvalidConfiguration) {
				t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
			}
		})
	}
}
