package timeentry

import (
	"math"
	"time"

	"github.com/google/uuid"
)

type TimeEntry struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	TaskID      string     `json:"task_id" db:"task_id"`
	UserID      string     `json:"user_id" db:"user_id"`
	StartedAt   time.Time  `json:"started_at" db:"started_at"`
	EndedAt     *time.Time `json:"ended_at" db:"ended_at"`
	DurationSec *int64     `json:"duration_sec,omitempty" db:"duration_sec"`
}

func (e *TimeEntry) IsRunning() bool {
	return e.EndedAt == nil
}

// Duration округляет интервал до целых секунд, отрицательные значения дают 0
func Duration(startedAt, endedAt time.Time) int64 {
	sec := math.Round(endedAt.Sub(startedAt).Seconds())
	if sec < 0 {
		return 0
	}
	return int64(sec)
}

// Query - параметры выборки табеля. From/To принимаются, но пока не применяются.
type Query struct {
	UserID string
	From   *time.Time
	To     *time.Time
}

type Timesheet struct {
	Entries  []*TimeEntry `json:"entries"`
	TotalSec int64        `json:"total_sec"`
}

func NewTimesheet(entries []*TimeEntry) Timesheet {
	var total int64
	for _, e := range entries {
		if e.DurationSec != nil {
			total += *e.DurationSec
		}
	}
	if entries == nil {
		entries = []*TimeEntry{}
	}
	return Timesheet{Entries: entries, TotalSec: total}
}
