package stats

import (
	"testing"
)

func logsFromBools(completed ...bool) []DailyLog {
	logs := make([]DailyLog, len(completed))
	for i, c := range completed {
		logs[i] = DailyLog{Completed: c}
	}
	return logs
}

func TestComputeHabitStats(t *testing.T) {
	tests := []struct {
		name string
		logs []DailyLog
		want HabitStats
	}{
		{
			name: "empty window is all zeros",
			logs: nil,
			want: HabitStats{},
		},
		{
			name: "mixed window",
			logs: logsFromBools(true, true, false, true, true, true),
			want: HabitStats{
				CurrentStreak:  3,
				LongestStreak:  3,
				CompletionRate: 83,
				TotalDays:      6,
				CompletedDays:  5,
			},
		},
		{
			name: "incomplete newest day breaks current streak",
			logs: logsFromBools(true, true, true, false),
			want: HabitStats{
				CurrentStreak:  0,
				LongestStreak:  3,
				CompletionRate: 75,
				TotalDays:      4,
				CompletedDays:  3,
			},
		},
		{
			name: "all completed",
			logs: logsFromBools(true, true, true, true, true),
			want: HabitStats{
				CurrentStreak:  5,
				LongestStreak:  5,
				CompletionRate: 100,
				TotalDays:      5,
				CompletedDays:  5,
			},
		},
		{
			name: "all incomplete",
			logs: logsFromBools(false, false, false),
			want: HabitStats{
				CurrentStreak:  0,
				LongestStreak:  0,
				CompletionRate: 0,
				TotalDays:      3,
				CompletedDays:  0,
			},
		},
		{
			name: "single completed day",
			logs: logsFromBools(true),
			want: HabitStats{
				CurrentStreak:  1,
				LongestStreak:  1,
				CompletionRate: 100,
				TotalDays:      1,
				CompletedDays:  1,
			},
		},
		{
			name: "longest run in the middle",
			logs: logsFromBools(false, true, true, true, true, false, true),
			want: HabitStats{
				CurrentStreak:  1,
				LongestStreak:  4,
				CompletionRate: 71,
				TotalDays:      7,
				CompletedDays:  5,
			},
		},
		{
			name: "rate rounds half up",
			logs: logsFromBools(true, false, false, false, false, false, false, false),
			want: HabitStats{
				CurrentStreak:  0,
				LongestStreak:  1,
				CompletionRate: 13, // 12.5 rounds to 13
				TotalDays:      8,
				CompletedDays:  1,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeHabitStats(tt.logs)
			if got != tt.want {
				t.Errorf("ComputeHabitStats() = %+v, want %+v", got, tt.want)
			}
			if got.LongestStreak < got.CurrentStreak {
				t.Errorf("longestStreak %d < currentStreak %d", got.LongestStreak, got.CurrentStreak)
			}
			if got.CompletionRate < 0 || got.CompletionRate > 100 {
				t.Errorf("completionRate %d out of range", got.CompletionRate)
			}
		})
	}
}

func TestComputeHabitStatsTrailingRunProperty(t *testing.T) {
	// The current streak must equal the length of the maximal trailing run of
	// completed days for every window shape, not just the curated cases.
	windows := [][]bool{
		{},
		{true},
		{false},
		{true, false, true, true},
		{false, false, true},
		{true, true, false, false},
		{true, false, true, false, true, true, true},
	}

	for _, w := range windows {
		got := ComputeHabitStats(logsFromBools(w...))

		trailing := 0
		for i := len(w) - 1; i >= 0 && w[i]; i-- {
			trailing++
		}
		if got.CurrentStreak != trailing {
			t.Errorf("window %v: currentStreak = %d, want %d", w, got.CurrentStreak, trailing)
		}
	}
}
