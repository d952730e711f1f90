// Package stats contains the pure computation engines: habit streaks and
// completion rates, and project/task aggregation. Functions here never touch
// storage and are deterministic over their inputs.
package stats

import (
	"math"
	"time"
)

// DailyLog is one day's completion state for a habit. Days appear only when a
// journal entry exists for them; a day with a journal but no habit log is
// represented with Completed=false.
type DailyLog struct {
	Date      time.Time `json:"-"`
	DateLabel string    `json:"date" example:"2026-08-29"`
	Completed bool      `json:"completed"`
	Notes     string    `json:"notes,omitempty"`
}

// HabitStats summarizes a habit's completion history over a trailing window.
type HabitStats struct {
	CurrentStreak  int `json:"currentStreak"`
	LongestStreak  int `json:"longestStreak"`
	CompletionRate int `json:"completionRate"`
	TotalDays      int `json:"totalDays"`
	CompletedDays  int `json:"completedDays"`
}

// ComputeHabitStats reduces a date-ascending sequence of daily logs into
// streak and completion-rate figures. The input must be pre-sorted oldest
// first; the function does not re-sort.
//
// The current streak is the maximal trailing run of completed days; a
// currently-incomplete newest day breaks it at zero. The longest streak is
// the maximum consecutive run anywhere in the window. The completion rate is
// the rounded percentage of completed days over days present in the window
// (days without a journal entry are excluded from the denominator entirely).
func ComputeHabitStats(logs []DailyLog) HabitStats {
	var s HabitStats
	s.TotalDays = len(logs)
	if len(logs) == 0 {
		return s
	}

	for i := len(logs) - 1; i >= 0; i-- {
		if !logs[i].Completed {
			break
		}
		s.CurrentStreak++
	}

	run := 0
	for _, l := range logs {
		if l.Completed {
			run++
			s.CompletedDays++
			if run > s.LongestStreak {
				s.LongestStreak = run
			}
		} else {
			run = 0
		}
	}

	s.CompletionRate = roundPercent(s.CompletedDays, s.TotalDays)
	return s
}

// roundPercent is round(100 * part / total), 0 when total is 0.
func roundPercent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}
