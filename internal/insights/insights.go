// Package insights turns aggregation output into a short ranked list of
// human-readable observations.
package insights

import (
	"fmt"
	"time"

	"github.com/sadopc/focusly/internal/analytics"
)

// Kind identifies what an insight talks about.
type Kind string

const (
	KindStreak      Kind = "streak"
	KindPeakDay     Kind = "peak_day"
	KindTopCategory Kind = "top_category"
	KindImprovement Kind = "improvement"
)

type Insight struct {
	Kind    Kind
	Message string
}

// improvementThreshold is the category growth, in percent, above which an
// improvement insight is emitted.
const improvementThreshold = 20.0

// Generate selects up to four insights from a period overview, in fixed
// order: active streak, peak day, top category, notable improvement. Ties are
// broken by input order; an insight whose underlying signal is absent is
// simply skipped.
func Generate(o *analytics.Overview) []Insight {
	var out []Insight

	if o.Streaks.Current > 0 {
		out = append(out, Insight{
			Kind:    KindStreak,
			Message: fmt.Sprintf("You're on a %d-day streak. Keep it going!", o.Streaks.Current),
		})
	}

	if o.PeakDay != "" && o.PeakMinutes > 0 {
		if t, err := time.Parse("2006-01-02", o.PeakDay); err == nil {
			out = append(out, Insight{
				Kind: KindPeakDay,
				Message: fmt.Sprintf("%s was your most focused day with %s tracked.",
					t.Weekday(), formatMinutes(o.PeakMinutes)),
			})
		}
	}

	if top := topCategory(o.Categories); top != nil {
		out = append(out, Insight{
			Kind: KindTopCategory,
			Message: fmt.Sprintf("%s leads with %d completed tasks this period.",
				top.CategoryName, top.TotalTasks),
		})
	}

	for _, c := range o.Categories {
		if c.Growth > improvementThreshold {
			out = append(out, Insight{
				Kind: KindImprovement,
				Message: fmt.Sprintf("%s is up %.0f%% over the previous period.",
					c.CategoryName, c.Growth),
			})
			break
		}
	}

	return out
}

// topCategory returns the first category with the highest non-zero task
// total. The input is already sorted by task totals, so the first counting
// row wins ties.
func topCategory(categories []analytics.CategoryStats) *analytics.CategoryStats {
	for i := range categories {
		if categories[i].TotalTasks > 0 {
			return &categories[i]
		}
	}
	return nil
}

func formatMinutes(m int) string {
	if m < 60 {
		return fmt.Sprintf("%dm", m)
	}
	if m%60 == 0 {
		return fmt.Sprintf("%dh", m/60)
	}
	return fmt.Sprintf("%dh %dm", m/60, m%60)
}
