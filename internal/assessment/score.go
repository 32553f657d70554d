package assessment

import (
	"fmt"
	"math"
)

// Tally counts affirmative answers out of the questions in one category.
type Tally struct {
	Yes   int
	Total int
}

// Valid reports whether 0 <= Yes <= Total and Total >= 1.
func (t Tally) Valid() bool {
	return t.Total >= 1 && t.Yes >= 0 && t.Yes <= t.Total
}

// CategoryTally pairs a category with its tally.
type CategoryTally struct {
	Category Category
	Tally    Tally
}

// Tallies holds the per-level tallies in configured category order.
type Tallies map[Level][]CategoryTally

// Clone returns a deep copy.
func (t Tallies) Clone() Tallies {
	out := make(Tallies, len(t))
	for level, cats := range t {
		out[level] = append([]CategoryTally(nil), cats...)
	}
	return out
}

// Weights maps each level's categories to their share of the level score.
type Weights map[Level]map[Category]float64

// Thresholds maps each level to the minimum score required to qualify.
type Thresholds map[Level]float64

// Result is the derived outcome of scoring a set of tallies.
type Result struct {
	Scores     map[Level]float64
	BestFit    Level
	HasBestFit bool
}

// Score returns the rounded score for a level, or 0 when it was not scored.
func (r Result) Score(level Level) float64 {
	return r.Scores[level]
}

// BestScore returns the best-fit level's score, or 0 when no level qualified.
func (r Result) BestScore() float64 {
	if !r.HasBestFit {
		return 0
	}
	return r.Scores[r.BestFit]
}

// Qualified reports whether the level was scored and meets its threshold.
func (r Result) Qualified(level Level, thresholds Thresholds) bool {
	score, ok := r.Scores[level]
	if !ok {
		return false
	}
	threshold, ok := thresholds[level]
	if !ok {
		return false
	}
	return score >= threshold
}

// CategoryScore returns the percentage of affirmative answers, 0-100.
func CategoryScore(t Tally) float64 {
	if t.Total <= 0 {
		return 0
	}
	return float64(t.Yes) / float64(t.Total) * 100
}

// RoundScore rounds to one decimal place, half away from zero.
func RoundScore(v float64) float64 {
	return math.Round(v*10) / 10
}

// ComputeScores scores every level present in tallies and picks the best fit.
//
// A category missing from a level's weights contributes nothing. A level with
// no weights at all, or without a threshold, is a configuration error. The
// best fit is the qualifying level with the strictly highest positive score,
// scanning levels in Levels() order, so ties resolve to the earlier level. A
// score of 0 never becomes the best fit, even against a threshold of 0.
func ComputeScores(tallies Tallies, weights Weights, thresholds Thresholds) (Result, error) {
	for level := range tallies {
		if !level.Valid() {
			return Result{}, fmt.Errorf("%w: unknown level %q in tallies", ErrInvalidConfiguration, level)
		}
	}

	scores := make(map[Level]float64, len(tallies))
	for _, level := range levelOrder {
		cats, ok := tallies[level]
		if !ok {
			continue
		}
		levelWeights := weights[level]
		if len(levelWeights) == 0 {
			return Result{}, fmt.Errorf("%w: no weights configured for level %q", ErrInvalidConfiguration, level)
		}
		if _, ok := thresholds[level]; !ok {
			return Result{}, fmt.Errorf("%w: no threshold configured for level %q", ErrInvalidConfiguration, level)
		}
		weighted := 0.0
		for _, ct := range cats {
			if !ct.Tally.Valid() {
				return Result{}, fmt.Errorf("%w: tally %d/%d for %s.%s", ErrInvalidConfiguration, ct.Tally.Yes, ct.Tally.Total, level, ct.Category)
			}
			weighted += CategoryScore(ct.Tally) * levelWeights[ct.Category]
		}
		scores[level] = RoundScore(weighted)
	}

	result := Result{Scores: scores}
	best := 0.0
	for _, level := range levelOrder {
		score, ok := scores[level]
		if !ok || score < thresholds[level] {
			continue
		}
		if score > best {
			result.BestFit = level
			result.HasBestFit = true
			best = score
		}
	}
	return result, nil
}
