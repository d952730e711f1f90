package stats

import "time"

// Task status and priority enumerations, mirrored by the check constraints on
// the tasks table.
const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// TaskView is the slice of a task the aggregator needs.
type TaskView struct {
	Status   string
	Priority string
	DueDate  *time.Time
}

// TaskStatusCount partitions tasks over the fixed status enumeration.
type TaskStatusCount struct {
	Pending    int `json:"pending"`
	InProgress int `json:"inProgress"`
	Completed  int `json:"completed"`
}

// TaskPriorityCount partitions tasks over the fixed priority enumeration.
type TaskPriorityCount struct {
	Low    int `json:"low"`
	Medium int `json:"medium"`
	High   int `json:"high"`
}

// ProjectStats summarizes a project's task set.
type ProjectStats struct {
	TotalTasks         int               `json:"totalTasks"`
	CompletedTasks     int               `json:"completedTasks"`
	ProgressPercentage int               `json:"progressPercentage"`
	TaskStatusCount    TaskStatusCount   `json:"taskStatusCount"`
	TaskPriorityCount  TaskPriorityCount `json:"taskPriorityCount"`
	UpcomingTasks      int               `json:"upcomingTasks"`
}

// ComputeProjectStats partitions tasks by status and priority and derives a
// progress percentage. Upcoming tasks are non-completed tasks with a due date
// at or after now. Pure and deterministic.
func ComputeProjectStats(tasks []TaskView, now time.Time) ProjectStats {
	var s ProjectStats
	s.TotalTasks = len(tasks)

	for _, t := range tasks {
		switch t.Status {
		case StatusPending:
			s.TaskStatusCount.Pending++
		case StatusInProgress:
			s.TaskStatusCount.InProgress++
		case StatusCompleted:
			s.TaskStatusCount.Completed++
		}

		switch t.Priority {
		case PriorityLow:
			s.TaskPriorityCount.Low++
		case PriorityMedium:
			s.TaskPriorityCount.Medium++
		case PriorityHigh:
			s.TaskPriorityCount.High++
		}

		if t.Status != StatusCompleted && t.DueDate != nil && !t.DueDate.Before(now) {
			s.UpcomingTasks++
		}
	}

	s.CompletedTasks = s.TaskStatusCount.Completed
	s.ProgressPercentage = roundPercent(s.CompletedTasks, s.TotalTasks)
	return s
}
