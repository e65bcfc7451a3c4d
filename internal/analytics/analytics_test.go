package analytics

import (
	"testing"
	"time"

	"github.com/sadopc/focusly/internal/store"
)

func date(s string) time.Time {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

// ============================================================
// Date ranges
// ============================================================

func TestResolveRangeWeek(t *testing.T) {
	// 2024-01-03 is a Wednesday; the week starts Monday 2024-01-01.
	r, err := ResolveRange(PeriodWeek, date("2024-01-03"))
	if err != nil {
		t.Fatal(err)
	}
	if r.StartDate() != "2024-01-01" || r.EndDate() != "2024-01-03" {
		t.Fatalf("unexpected week range: %s..%s", r.StartDate(), r.EndDate())
	}
	if r.Label != "This Week" {
		t.Fatalf("unexpected label %q", r.Label)
	}
}

func TestResolveRangeWeekOnSunday(t *testing.T) {
	// Sunday belongs to the week that started the previous Monday.
	r, _ := ResolveRange(PeriodWeek, date("2024-01-07"))
	if r.StartDate() != "2024-01-01" {
		t.Fatalf("expected Monday 2024-01-01, got %s", r.StartDate())
	}
}

func TestResolveRangeMonth(t *testing.T) {
	r, _ := ResolveRange(PeriodMonth, date("2024-03-31"))
	if r.StartDate() != "2024-03-02" || r.EndDate() != "2024-03-31" {
		t.Fatalf("unexpected month range: %s..%s", r.StartDate(), r.EndDate())
	}
	if r.Days() != 30 {
		t.Fatalf("expected 30 days, got %d", r.Days())
	}
}

func TestResolveRangeAll(t *testing.T) {
	r, _ := ResolveRange(PeriodAll, date("2024-03-31"))
	if r.StartDate() != allTimeFloor {
		t.Fatalf("all-time range should start at the fixed floor, got %s", r.StartDate())
	}
	if r.Label != "All Time" {
		t.Fatalf("unexpected label %q", r.Label)
	}
}

func TestResolveRangeUnknown(t *testing.T) {
	_, err := ResolveRange("quarter", date("2024-03-31"))
	if err == nil {
		t.Fatal("expected error for unknown period")
	}
}

func TestPreviousRange(t *testing.T) {
	r, _ := ResolveRange(PeriodMonth, date("2024-03-31"))
	prev := PreviousRange(r)
	if prev.EndDate() != "2024-03-01" {
		t.Fatalf("previous range should end the day before current starts, got %s", prev.EndDate())
	}
	if prev.Days() != r.Days() {
		t.Fatalf("previous range should have identical length: %d vs %d", prev.Days(), r.Days())
	}
}

// ============================================================
// Streaks
// ============================================================

func TestStreakConsecutive(t *testing.T) {
	// Scenario: three consecutive days ending at the anchor.
	dates := []string{"2024-01-01", "2024-01-02", "2024-01-03"}
	st := ComputeStreaks(dates, date("2024-01-03"))
	if st.Current != 3 {
		t.Fatalf("expected current 3, got %d", st.Current)
	}
	if st.Longest != 3 {
		t.Fatalf("expected longest 3, got %d", st.Longest)
	}
	if !st.Active {
		t.Fatal("streak should be active")
	}
}

func TestStreakWithGap(t *testing.T) {
	// Yesterday is missing, so the current streak is only today.
	dates := []string{"2024-01-01", "2024-01-03"}
	st := ComputeStreaks(dates, date("2024-01-03"))
	if st.Current != 1 {
		t.Fatalf("expected current 1, got %d", st.Current)
	}
	if st.Longest != 1 {
		t.Fatalf("expected longest 1, got %d", st.Longest)
	}
}

func TestStreakAnchoredAtYesterday(t *testing.T) {
	dates := []string{"2024-01-01", "2024-01-02"}
	st := ComputeStreaks(dates, date("2024-01-03"))
	if st.Current != 2 {
		t.Fatalf("expected current 2 (via yesterday), got %d", st.Current)
	}
	if !st.Active {
		t.Fatal("streak anchored at yesterday should be active")
	}
}

func TestStreakBroken(t *testing.T) {
	dates := []string{"2024-01-01", "2024-01-02"}
	st := ComputeStreaks(dates, date("2024-01-05"))
	if st.Current != 0 {
		t.Fatalf("expected current 0, got %d", st.Current)
	}
	if st.Longest != 2 {
		t.Fatalf("longest should survive the break, got %d", st.Longest)
	}
	if st.Active {
		t.Fatal("broken streak should not be active")
	}
}

func TestStreakEmpty(t *testing.T) {
	st := ComputeStreaks(nil, date("2024-01-05"))
	if st.Current != 0 || st.Longest != 0 || st.Active {
		t.Fatalf("empty input should be all zero: %+v", st)
	}
}

func TestLongestRunAcrossGaps(t *testing.T) {
	dates := []string{
		"2024-01-01", "2024-01-02",
		"2024-01-10", "2024-01-11", "2024-01-12", "2024-01-13",
		"2024-02-01",
	}
	st := ComputeStreaks(dates, date("2024-03-01"))
	if st.Longest != 4 {
		t.Fatalf("expected longest 4, got %d", st.Longest)
	}
}

// ============================================================
// Growth & score
// ============================================================

func TestGrowthPercentage(t *testing.T) {
	// 10 → 15 is +50%.
	if g := Growth(15, 10); g != 50 {
		t.Fatalf("expected 50, got %f", g)
	}
	if g := Growth(5, 10); g != -50 {
		t.Fatalf("expected -50, got %f", g)
	}
	if g := Growth(7, 0); g != 100 {
		t.Fatalf("rising from zero should be 100, got %f", g)
	}
	if g := Growth(0, 0); g != 0 {
		t.Fatalf("expected 0, got %f", g)
	}
}

func TestTrendBands(t *testing.T) {
	if tr := trendOf(5.1); tr != TrendUp {
		t.Fatalf("expected up, got %s", tr)
	}
	if tr := trendOf(-5.1); tr != TrendDown {
		t.Fatalf("expected down, got %s", tr)
	}
	for _, g := range []float64{5, -5, 0, 3.2} {
		if tr := trendOf(g); tr != TrendStable {
			t.Fatalf("expected stable for %f, got %s", g, tr)
		}
	}
}

func TestScoreZeroInputs(t *testing.T) {
	// Zero active days and zero tasks must produce zeros, not a panic.
	sc := computeScore(scoreInput{})
	if sc.Total != 0 || sc.TaskCompletion != 0 || sc.TimeUsage != 0 {
		t.Fatalf("expected all-zero score, got %+v", sc)
	}
}

func TestScoreComponentCaps(t *testing.T) {
	sc := computeScore(scoreInput{
		currentStreak:    100,
		longestStreak:    1,
		totalTasks:       10000,
		activeDays:       1,
		daysWithTime:     500,
		activeCategories: 50,
		totalCategories:  1,
	})
	if sc.Consistency > 30 || sc.TaskCompletion > 30 || sc.TimeUsage > 25 || sc.Balance > 15 {
		t.Fatalf("components exceed caps: %+v", sc)
	}
	if sc.Total > 100 {
		t.Fatalf("total exceeds 100: %f", sc.Total)
	}
}

func TestScoreBounded(t *testing.T) {
	inputs := []scoreInput{
		{},
		{currentStreak: 3, longestStreak: 3, totalTasks: 9, activeDays: 3, daysWithTime: 3, activeCategories: 2, totalCategories: 2},
		{currentStreak: 1, longestStreak: 30, totalTasks: 1, activeDays: 30, daysWithTime: 0, activeCategories: 1, totalCategories: 10},
		{currentStreak: 0, longestStreak: 0, totalTasks: 50, activeDays: 0, daysWithTime: 10, activeCategories: 0, totalCategories: 0},
	}
	for i, in := range inputs {
		sc := computeScore(in)
		if sc.Total < 0 || sc.Total > 100 {
			t.Fatalf("input %d: total %f out of [0,100]", i, sc.Total)
		}
	}
}

func TestScoreArithmetic(t *testing.T) {
	sc := computeScore(scoreInput{
		currentStreak:    2,
		longestStreak:    4,
		totalTasks:       12,
		activeDays:       4,
		daysWithTime:     2,
		activeCategories: 1,
		totalCategories:  3,
	})
	if sc.Consistency != 15 { // 2/4 * 30
		t.Fatalf("consistency: expected 15, got %f", sc.Consistency)
	}
	if sc.TaskCompletion != 9 { // (12/4) * 3
		t.Fatalf("task completion: expected 9, got %f", sc.TaskCompletion)
	}
	if sc.TimeUsage != 12.5 { // 2/4 * 25
		t.Fatalf("time usage: expected 12.5, got %f", sc.TimeUsage)
	}
	if sc.Balance != 5 { // 1/3 * 15
		t.Fatalf("balance: expected 5, got %f", sc.Balance)
	}
	if sc.Total != 41.5 {
		t.Fatalf("total: expected 41.5, got %f", sc.Total)
	}
}

// ============================================================
// Smoothing
// ============================================================

func TestSmoothTimeSeries(t *testing.T) {
	points := []store.SeriesPoint{
		{Date: "2024-03-01", Total: 3},
		{Date: "2024-03-02", Total: 9},
		{Date: "2024-03-04", Total: 3}, // gap before this point is preserved
	}
	smoothed := SmoothTimeSeries(points)
	if len(smoothed) != 3 {
		t.Fatalf("smoothing must not add points, got %d", len(smoothed))
	}
	if smoothed[0].Total != 3 || smoothed[2].Total != 3 {
		t.Fatal("edge points should be unchanged")
	}
	if smoothed[1].Total != 5 { // (3+9+3)/3
		t.Fatalf("expected 5, got %d", smoothed[1].Total)
	}
	// Input must not be mutated.
	if points[1].Total != 9 {
		t.Fatal("input slice was mutated")
	}
}

func TestSmoothTimeSeriesShort(t *testing.T) {
	points := []store.SeriesPoint{{Date: "2024-03-01", Total: 7}}
	if got := SmoothTimeSeries(points); len(got) != 1 || got[0].Total != 7 {
		t.Fatalf("short series should pass through: %+v", got)
	}
}

// ============================================================
// Engine over a live store
// ============================================================

func newSeededEngine(t *testing.T) (*Engine, string) {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })

	f, err := s.CreateFocus("Work", "W", "#111")
	if err != nil {
		t.Fatal(err)
	}
	coding, _ := s.CreateCategory(f.ID, "Coding", "", "#222", store.TimeTypeDuration)
	gym, _ := s.CreateCategory(f.ID, "Gym", "", "#333", store.TimeTypeNone)

	// Three consecutive active days ending at the anchor 2024-03-10.
	for i, day := range []string{"2024-03-08", "2024-03-09", "2024-03-10"} {
		e, err := s.CreateEntry(day, coding.ID)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := s.CreateTaskCompletion(e.ID, nil, "Review", 2, nil, true); err != nil {
			t.Fatal(err)
		}
		d := 30 * (i + 1)
		if _, err := s.CreateOrUpdateTimeEntry(e.ID, nil, nil, &d); err != nil {
			t.Fatal(err)
		}
	}
	// Gym only on one day.
	e, _ := s.CreateEntry("2024-03-09", gym.ID)
	s.CreateTaskCompletion(e.ID, nil, "Squats", 1, nil, true)

	// Previous-period activity for growth: 2 tasks in early March.
	prev, _ := s.CreateEntry("2024-03-02", coding.ID)
	s.CreateTaskCompletion(prev.ID, nil, "Review", 2, nil, true)

	return NewEngine(s), f.ID
}

func TestSummarizeAt(t *testing.T) {
	e, focusID := newSeededEngine(t)
	anchor := date("2024-03-10")

	o, err := e.SummarizeAt(focusID, PeriodWeek, anchor)
	if err != nil {
		t.Fatal(err)
	}

	// Week of 2024-03-10 runs Mon 03-04 .. Sun 03-10: 7 tasks on 3 days.
	if o.TotalTasks != 7 {
		t.Fatalf("expected 7 tasks, got %d", o.TotalTasks)
	}
	if o.ActiveDays != 3 {
		t.Fatalf("expected 3 active days, got %d", o.ActiveDays)
	}
	if o.TotalMinutes != 180 {
		t.Fatalf("expected 180 minutes, got %d", o.TotalMinutes)
	}
	if o.Streaks.Current != 3 || o.Streaks.Longest != 3 {
		t.Fatalf("unexpected streaks: %+v", o.Streaks)
	}
	if o.Score.Total <= 0 || o.Score.Total > 100 {
		t.Fatalf("score out of bounds: %f", o.Score.Total)
	}
	if o.PeakDay != "2024-03-10" || o.PeakMinutes != 90 {
		t.Fatalf("unexpected peak day: %s (%d)", o.PeakDay, o.PeakMinutes)
	}
	if len(o.Categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(o.Categories))
	}
	if o.Categories[0].CategoryName != "Coding" {
		t.Fatalf("expected Coding first, got %s", o.Categories[0].CategoryName)
	}
	if len(o.TopTasks) == 0 || o.TopTasks[0].TaskName != "Review" {
		t.Fatalf("unexpected top tasks: %+v", o.TopTasks)
	}
}

func TestCategoryBreakdownShareAndGrowth(t *testing.T) {
	e, focusID := newSeededEngine(t)
	anchor := date("2024-03-10")

	stats, err := e.CategoryBreakdown(focusID, PeriodWeek, anchor)
	if err != nil {
		t.Fatal(err)
	}
	if len(stats) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(stats))
	}

	var shareSum float64
	for _, c := range stats {
		shareSum += c.Share
	}
	if shareSum < 99.9 || shareSum > 100.1 {
		t.Fatalf("shares should sum to 100, got %f", shareSum)
	}

	// Coding: 6 this week vs 2 the week before = +200%.
	if stats[0].CategoryName != "Coding" || stats[0].Growth != 200 {
		t.Fatalf("unexpected coding growth: %+v", stats[0])
	}
	// Gym: 1 vs 0 = +100% by definition.
	if stats[1].Growth != 100 {
		t.Fatalf("unexpected gym growth: %+v", stats[1])
	}
}

func TestTimeSeriesSparseThroughEngine(t *testing.T) {
	e, focusID := newSeededEngine(t)
	points, err := e.TimeSeries(focusID, PeriodMonth, date("2024-03-10"))
	if err != nil {
		t.Fatal(err)
	}
	// Active dates: 03-02, 03-08, 03-09, 03-10 — gaps are not filled.
	if len(points) != 4 {
		t.Fatalf("expected 4 sparse points, got %d", len(points))
	}
}

func TestSummarizeEmptyFocus(t *testing.T) {
	s, err := store.NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	f, _ := s.CreateFocus("Empty", "", "#111")

	o, err := NewEngine(s).SummarizeAt(f.ID, PeriodMonth, date("2024-03-10"))
	if err != nil {
		t.Fatal(err)
	}
	if o.TotalTasks != 0 || o.ActiveDays != 0 || o.Score.Total != 0 {
		t.Fatalf("empty focus should produce zeros: %+v", o)
	}
	if o.Score.Trend != TrendStable {
		t.Fatalf("expected stable trend, got %s", o.Score.Trend)
	}
	if o.PeakDay != "" {
		t.Fatal("no peak day without tracked time")
	}
}
