package task

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Task struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	Title         string     `json:"title" db:"title"`
	Description   string     `json:"description,omitempty" db:"description"`
	Status        string     `json:"status" db:"status"`
	Priority      Priority   `json:"priority" db:"priority"`
	SLALevel      SLALevel   `json:"sla_level,omitempty" db:"sla_level"`
	Discipline    string     `json:"discipline,omitempty" db:"discipline"`
	Phase         string     `json:"phase,omitempty" db:"phase"`
	AssigneeIDs   []string   `json:"assignee_ids" db:"assignee_ids"`
	StartDate     *time.Time `json:"start_date,omitempty" db:"start_date"`
	DueDate       *time.Time `json:"due_date,omitempty" db:"due_date"`
	EstimateHours *float64   `json:"estimate_hours,omitempty" db:"estimate_hours"`
	SpentSeconds  int64      `json:"spent_seconds" db:"spent_seconds"`
	Links         Links      `json:"links" db:"links"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
	Version       int        `json:"version" db:"version"`
}

// Links связывают задачу с другими сущностями CRM.
type Links struct {
	ClientID string `json:"client_id,omitempty"`
	WorkID   string `json:"work_id,omitempty"`
}

type Priority string

const PriorityLow Priority = "low"
const PriorityMedium Priority = "medium"
const PriorityHigh Priority = "high"
const PriorityUrgent Priority = "urgent"

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

type SLALevel string

const SLAStandard SLALevel = "standard"
const SLAPriority SLALevel = "priority"
const SLACritical SLALevel = "critical"

func (l SLALevel) Valid() bool {
	switch l {
	case "", SLAStandard, SLAPriority, SLACritical:
		return true
	}
	return false
}

// HasAssignee проверяет принадлежность пользователя к исполнителям задачи
func (t *Task) HasAssignee(userID string) bool {
	for _, id := range t.AssigneeIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// Filter для выборки задач. Пустые поля не участвуют в фильтрации.
// Query ищет подстроку в названии или описании без учёта регистра.
type Filter struct {
	Status     string
	AssigneeID string
	Priority   Priority
	Query      string
}

func (f Filter) Match(t *Task) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.AssigneeID != "" && !t.HasAssignee(f.AssigneeID) {
		return false
	}
	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		if !strings.Contains(strings.ToLower(t.Title), q) && !strings.Contains(strings.ToLower(t.Description), q) {
			return false
		}
	}
	return true
}
