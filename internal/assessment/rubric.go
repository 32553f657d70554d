package assessment

import (
	"bytes"
	"embed"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed builtin/default.toml
var builtinFS embed.FS

const weightSumTolerance = 0.001

// RubricFile is the TOML representation of a rubric.
type RubricFile struct {
	Levels []LevelSpec `toml:"levels"`
}

// LevelSpec configures one level.
type LevelSpec struct {
	Name       string         `toml:"name"`
	Threshold  *float64       `toml:"threshold"`
	Categories []CategorySpec `toml:"categories"`
}

// CategorySpec configures one category. A nil Weight means the category is
// scored but contributes nothing to its level.
type CategorySpec struct {
	Name      string   `toml:"name"`
	Total     int      `toml:"total"`
	Weight    *float64 `toml:"weight"`
	Questions []string `toml:"questions"`
}

// Rubric is the validated, immutable scoring configuration: per-level
// category totals, weights and thresholds.
type Rubric struct {
	levels   map[Level]*levelRubric
	warnings []string
}

type levelRubric struct {
	threshold  float64
	categories []categoryRubric
	index      map[Category]int
}

type categoryRubric struct {
	name      Category
	total     int
	weight    float64
	weighted  bool
	questions []string
}

// DefaultRubric returns the built-in rubric.
func DefaultRubric() (*Rubric, error) {
	data, err := builtinFS.ReadFile("builtin/default.toml")
	if err != nil {
		return nil, fmt.Errorf("failed to read built-in rubric: %w", err)
	}
	return ParseRubric(data)
}

// LoadRubric reads and validates a rubric TOML file.
func LoadRubric(path string) (*Rubric, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rubric: %w", err)
	}
	r, err := ParseRubric(data)
	if err != nil {
		return nil, fmt.Errorf("rubric %s: %w", path, err)
	}
	return r, nil
}

// ParseRubric decodes and validates a rubric from TOML.
func ParseRubric(data []byte) (*Rubric, error) {
	var file RubricFile
	md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&file)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode rubric: %v", ErrInvalidConfiguration, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%w: unknown rubric keys: %s", ErrInvalidConfiguration, strings.Join(keys, ", "))
	}
	return NewRubric(file)
}

// NewRubric validates a rubric definition. Every level must be configured
// exactly once with at least one weighted category.
func NewRubric(file RubricFile) (*Rubric, error) {
	r := &Rubric{levels: make(map[Level]*levelRubric, len(levelOrder))}
	for _, spec := range file.Levels {
		level := Level(strings.ToLower(strings.TrimSpace(spec.Name)))
		if !level.Valid() {
			return nil, fmt.Errorf("%w: unknown level %q", ErrInvalidConfiguration, spec.Name)
		}
		if _, dup := r.levels[level]; dup {
			return nil, fmt.Errorf("%w: duplicate level %q", ErrInvalidConfiguration, level)
		}
		lr, err := buildLevel(level, spec)
		if err != nil {
			return nil, err
		}
		r.levels[level] = lr
	}
	for _, level := range levelOrder {
		if _, ok := r.levels[level]; !ok {
			return nil, fmt.Errorf("%w: level %q is not configured", ErrInvalidConfiguration, level)
		}
	}
	r.warnings = r.collectWarnings()
	return r, nil
}

func buildLevel(level Level, spec LevelSpec) (*levelRubric, error) {
	if spec.Threshold == nil {
		return nil, fmt.Errorf("%w: level %q has no threshold", ErrInvalidConfiguration, level)
	}
	threshold := *spec.Threshold
	if threshold < 0 || threshold > 100 || math.IsNaN(threshold) {
		return nil, fmt.Errorf("%w: level %q threshold %v outside 0-100", ErrInvalidConfiguration, level, threshold)
	}
	if len(spec.Categories) == 0 {
		return nil, fmt.Errorf("%w: level %q has no categories", ErrInvalidConfiguration, level)
	}
	lr := &levelRubric{
		threshold:  threshold,
		categories: make([]categoryRubric, 0, len(spec.Categories)),
		index:      make(map[Category]int, len(spec.Categories)),
	}
	weighted := 0
	for _, cs := range spec.Categories {
		name := Category(strings.TrimSpace(cs.Name))
		if name == "" {
			return nil, fmt.Errorf("%w: level %q has a category without a name", ErrInvalidConfiguration, level)
		}
		if _, dup := lr.index[name]; dup {
			return nil, fmt.Errorf("%w: duplicate category %s.%s", ErrInvalidConfiguration, level, name)
		}
		if cs.Total < 1 {
			return nil, fmt.Errorf("%w: category %s.%s needs at least one question (total=%d)", ErrInvalidConfiguration, level, name, cs.Total)
		}
		cr := categoryRubric{
			name:      name,
			total:     cs.Total,
			questions: append([]string(nil), cs.Questions...),
		}
		if cs.Weight != nil {
			w := *cs.Weight
			if w < 0 || w > 1 || math.IsNaN(w) {
				return nil, fmt.Errorf("%w: category %s.%s weight %v outside 0-1", ErrInvalidConfiguration, level, name, w)
			}
			cr.weight = w
			cr.weighted = true
			weighted++
		}
		lr.index[name] = len(lr.categories)
		lr.categories = append(lr.categories, cr)
	}
	if weighted == 0 {
		return nil, fmt.Errorf("%w: level %q has no weighted categories", ErrInvalidConfiguration, level)
	}
	return lr, nil
}

func (r *Rubric) collectWarnings() []string {
	var warnings []string
	for _, level := range levelOrder {
		lr := r.levels[level]
		sum := 0.0
		for _, c := range lr.categories {
			if !c.weighted {
				warnings = append(warnings, fmt.Sprintf("category %s.%s has no weight and contributes 0", level, c.name))
				continue
			}
			sum += c.weight
		}
		if math.Abs(sum-1.0) > weightSumTolerance {
			warnings = append(warnings, fmt.Sprintf("level %s weights sum to %.4f, scores will not span 0-100", level, sum))
		}
	}
	return warnings
}

// Warnings lists non-fatal configuration problems.
func (r *Rubric) Warnings() []string {
	return append([]string(nil), r.warnings...)
}

// Categories returns the level's categories in configured order.
func (r *Rubric) Categories(level Level) []Category {
	lr, ok := r.levels[level]
	if !ok {
		return nil
	}
	out := make([]Category, len(lr.categories))
	for i, c := range lr.categories {
		out[i] = c.name
	}
	return out
}

// Threshold returns the minimum qualifying score for a level.
func (r *Rubric) Threshold(level Level) float64 {
	lr, ok := r.levels[level]
	if !ok {
		return 0
	}
	return lr.threshold
}

// Total returns the number of questions in a category.
func (r *Rubric) Total(level Level, category Category) (int, error) {
	c, err := r.lookup(level, category)
	if err != nil {
		return 0, err
	}
	return c.total, nil
}

// Weight returns a category's weight and whether one is configured.
func (r *Rubric) Weight(level Level, category Category) (float64, bool) {
	c, err := r.lookup(level, category)
	if err != nil {
		return 0, false
	}
	return c.weight, c.weighted
}

// Questions returns the sample questions for a category.
func (r *Rubric) Questions(level Level, category Category) []string {
	c, err := r.lookup(level, category)
	if err != nil {
		return nil
	}
	return append([]string(nil), c.questions...)
}

// Weights returns a fresh copy of the weight table. Unweighted categories are
// omitted.
func (r *Rubric) Weights() Weights {
	out := make(Weights, len(r.levels))
	for level, lr := range r.levels {
		m := make(map[Category]float64, len(lr.categories))
		for _, c := range lr.categories {
			if c.weighted {
				m[c.name] = c.weight
			}
		}
		out[level] = m
	}
	return out
}

// Thresholds returns a fresh copy of the threshold table.
func (r *Rubric) Thresholds() Thresholds {
	out := make(Thresholds, len(r.levels))
	for level, lr := range r.levels {
		out[level] = lr.threshold
	}
	return out
}

// NewTallies returns zeroed tallies for every configured category.
func (r *Rubric) NewTallies() Tallies {
	out := make(Tallies, len(r.levels))
	for level, lr := range r.levels {
		cats := make([]CategoryTally, len(lr.categories))
		for i, c := range lr.categories {
			cats[i] = CategoryTally{Category: c.name, Tally: Tally{Total: c.total}}
		}
		out[level] = cats
	}
	return out
}

func (r *Rubric) lookup(level Level, category Category) (categoryRubric, error) {
	lr, ok := r.levels[level]
	if !ok {
		return categoryRubric{}, fmt.Errorf("%w: unknown level %q", ErrInvalidCategory, level)
	}
	idx, ok := lr.index[category]
	if !ok {
		return categoryRubric{}, fmt.Errorf("%w: %s.%s", ErrInvalidCategory, level, category)
	}
	return lr.categories[idx], nil
}

func (r *Rubric) categoryIndex(level Level, category Category) (int, error) {
	if _, err := r.lookup(level, category); err != nil {
		return 0, err
	}
	return r.levels[level].index[category], nil
}
