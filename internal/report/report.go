package report

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/verte-zerg/devlevel/internal/assessment"
)

const (
	terminalWidthBackup = 80
	minBarWidth         = 10
	maxBarWidth         = 30
)

// RenderResult prints the level summary, the best fit and a per-level
// category breakdown.
func RenderResult(w io.Writer, r *assessment.Rubric, tallies assessment.Tallies, res assessment.Result, width int) error {
	barWidth := BarWidthFor(width)
	thresholds := r.Thresholds()

	if _, err := fmt.Fprintln(w, "Assessment Results"); err != nil {
		return err
	}
	levels := newTable(levelColumns)
	for _, level := range assessment.Levels() {
		score := res.Score(level)
		status := "-"
		if res.Qualified(level, thresholds) {
			status = "qualified"
		}
		levels.addRow(
			level.Title(),
			fmt.Sprintf("%.1f", score),
			fmt.Sprintf("%.1f", thresholds[level]),
			status,
			Bar(score/100, barWidth),
		)
	}
	if err := levels.write(w); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, BestFitLine(res)); err != nil {
		return err
	}

	for _, level := range assessment.Levels() {
		if err := renderBreakdown(w, r, level, tallies[level], barWidth); err != nil {
			return err
		}
	}
	return nil
}

// BestFitLine describes the best-fit level, or that none qualified.
func BestFitLine(res assessment.Result) string {
	if !res.HasBestFit {
		return "No level threshold met"
	}
	return fmt.Sprintf("Best fit: %s Developer (%.1f/100)", res.BestFit.Title(), res.BestScore())
}

func renderBreakdown(w io.Writer, r *assessment.Rubric, level assessment.Level, cats []assessment.CategoryTally, barWidth int) error {
	if len(cats) == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(w, "\n%s Level\n", level.Title()); err != nil {
		return err
	}
	breakdown := newTable(breakdownColumns)
	for _, ct := range cats {
		catScore := assessment.CategoryScore(ct.Tally)
		weight, ok := r.Weight(level, ct.Category)
		weightLabel := "-"
		if ok {
			weightLabel = fmt.Sprintf("%.2f", weight)
		}
		breakdown.addRow(
			assessment.FormatCategoryName(ct.Category),
			fmt.Sprintf("%d/%d", ct.Tally.Yes, ct.Tally.Total),
			fmt.Sprintf("%.1f%%", catScore),
			weightLabel,
			fmt.Sprintf("%.1f", catScore*weight),
			Bar(catScore/100, barWidth),
		)
	}
	return breakdown.write(w)
}

// RenderRubric prints the configured categories, weights and thresholds.
func RenderRubric(w io.Writer, r *assessment.Rubric) error {
	for i, level := range assessment.Levels() {
		if i > 0 {
			if _, err := fmt.Fprintln(w, ""); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "%s Level (threshold %.1f)\n", level.Title(), r.Threshold(level)); err != nil {
			return err
		}
		categories := newTable(rubricColumns)
		sum := 0.0
		for _, cat := range r.Categories(level) {
			total, err := r.Total(level, cat)
			if err != nil {
				return err
			}
			weightLabel := "-"
			if weight, ok := r.Weight(level, cat); ok {
				weightLabel = fmt.Sprintf("%.2f", weight)
				sum += weight
			}
			categories.addRow(
				string(cat),
				fmt.Sprintf("%d", total),
				weightLabel,
				fmt.Sprintf("%d", len(r.Questions(level, cat))),
			)
		}
		categories.addRow("total", "", fmt.Sprintf("%.2f", sum))
		if err := categories.write(w); err != nil {
			return err
		}
	}
	warnings := r.Warnings()
	if len(warnings) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "\nWarnings"); err != nil {
		return err
	}
	for _, warning := range warnings {
		if _, err := fmt.Fprintf(w, "- %s\n", warning); err != nil {
			return err
		}
	}
	return nil
}

// Bar renders a fraction in [0,1] as a fixed-width text bar.
func Bar(fraction float64, width int) string {
	if width <= 0 {
		return ""
	}
	if math.IsNaN(fraction) || fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	filled := int(math.Round(fraction * float64(width)))
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}

// BarWidthFor sizes bars to a quarter of the available width.
func BarWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		totalWidth = terminalWidthBackup
	}
	width := totalWidth / 4
	if width < minBarWidth {
		width = minBarWidth
	}
	if width > maxBarWidth {
		width = maxBarWidth
	}
	return width
}

// TerminalWidth returns the width of w when it is a terminal, or a fallback.
func TerminalWidth(w io.Writer) int {
	file, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(file.Fd())) {
		return terminalWidthBackup
	}
	width, _, err := term.GetSize(int(file.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}
