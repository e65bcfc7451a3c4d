package analytics

// Score is the 0-100 composite productivity score. Each component is
// independently capped; the total is capped again at 100.
type Score struct {
	Consistency    float64 // 0-30
	TaskCompletion float64 // 0-30
	TimeUsage      float64 // 0-25
	Balance        float64 // 0-15
	Total          float64 // 0-100
	Trend          Trend
}

// Trend compares the current period's task count to the previous period's.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// scoreInput carries the raw counts the score is derived from.
type scoreInput struct {
	currentStreak    int
	longestStreak    int
	totalTasks       int
	activeDays       int
	daysWithTime     int
	activeCategories int
	totalCategories  int
}

// computeScore derives the four weighted components. Every ratio guards its
// denominator, so empty inputs yield zeros rather than dividing by zero.
func computeScore(in scoreInput) Score {
	var sc Score

	sc.Consistency = capped(float64(in.currentStreak)/float64(max(in.longestStreak, 1))*30, 30)

	avgTasks := float64(in.totalTasks) / float64(max(in.activeDays, 1))
	sc.TaskCompletion = capped(avgTasks*3, 30)

	if in.activeDays > 0 {
		sc.TimeUsage = capped(float64(in.daysWithTime)/float64(in.activeDays)*25, 25)
	}

	if in.totalCategories > 0 {
		sc.Balance = capped(float64(in.activeCategories)/float64(in.totalCategories)*15, 15)
	}

	sc.Total = capped(sc.Consistency+sc.TaskCompletion+sc.TimeUsage+sc.Balance, 100)
	return sc
}

// Growth returns the percentage change from previous to current: 100 when
// rising from zero, 0 when both are zero.
func Growth(current, previous int) float64 {
	if previous > 0 {
		return float64(current-previous) / float64(previous) * 100
	}
	if current > 0 {
		return 100
	}
	return 0
}

// trendOf classifies growth against a ±5% band.
func trendOf(growth float64) Trend {
	switch {
	case growth > 5:
		return TrendUp
	case growth < -5:
		return TrendDown
	default:
		return TrendStable
	}
}

func capped(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	return v
}
