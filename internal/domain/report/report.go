package report

import (
	"math"
	"sort"

	"github.com/asukabase7/ip-skill-quiz/internal/domain/session"
)

// CategoryStat is the aggregate accuracy for one category.
type CategoryStat struct {
	Category string
	Total    int
	Correct  int
}

// AccuracyPercent is the rounded percentage of correct answers,
// 0 when nothing was answered.
func (s CategoryStat) AccuracyPercent() int {
	if s.Total == 0 {
		return 0
	}
	return int(math.Round(float64(s.Correct) / float64(s.Total) * 100))
}

// ComputeCategoryStats aggregates a session's outcome log into one stat per
// distinct category, ordered lexicographically by category name.
func ComputeCategoryStats(outcomes []session.Outcome) []CategoryStat {
	byCategory := make(map[string]*CategoryStat)
	for _, o := range outcomes {
		stat, ok := byCategory[o.Category]
		if !ok {
			stat = &CategoryStat{Category: o.Category}
			byCategory[o.Category] = stat
		}
		stat.Total++
		if o.Correct {
			stat.Correct++
		}
	}

	stats := make([]CategoryStat, 0, len(byCategory))
	for _, stat := range byCategory {
		stats = append(stats, *stat)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Category < stats[j].Category })
	return stats
}

// Titles awarded for overall session accuracy.
const (
	TitleMaster = "知財の神"
	TitleExpert = "知財エキスパート"
	TitleNovice = "知財の卵"
)

// TitleForAccuracy derives the qualitative session title. A perfect session
// earns the top title, 80% or better the middle one, anything else (including
// an empty session) the base one.
func TitleForAccuracy(correct, total int) string {
	rate := 0.0
	if total > 0 {
		rate = float64(correct) / float64(total)
	}
	switch {
	case rate >= 1.0:
		return TitleMaster
	case rate >= 0.8:
		return TitleExpert
	default:
		return TitleNovice
	}
}

// streakTitles ranks streak titles by threshold, highest first.
var streakTitles = []struct {
	threshold int
	title     string
}{
	{50, "知財の神"},
	{30, "弁理士レベル"},
	{20, "歩く知的財産権法"},
	{10, "特許庁の注目株"},
	{5, "駆け出し知財担当"},
}

// TitleForStreak returns the title earned by a run of consecutive correct
// answers. Streaks below the lowest threshold earn nothing.
func TitleForStreak(streak int) (string, bool) {
	for _, t := range streakTitles {
		if streak >= t.threshold {
			return t.title, true
		}
	}
	return "", false
}
