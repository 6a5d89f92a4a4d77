package task

import (
	"time"
)

// Patch содержит только те поля, которые пришли в запросе на обновление.
// nil означает "не трогать".
type Patch struct {
	Title         *string
	Description   *string
	Status        *string
	Priority      *Priority
	SLALevel      *SLALevel
	Discipline    *string
	Phase         *string
	AssigneeIDs   *[]string
	StartDate     *time.Time
	DueDate       *time.Time
	EstimateHours *float64
	Links         *Links
}

type TaskOption func(*Patch)

func NewPatch(options ...TaskOption) Patch {
	p := Patch{}
	for _, opt := range options {
		if opt != nil {
			opt(&p)
		}
	}
	return p
}

func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil && p.Priority == nil &&
		p.SLALevel == nil && p.Discipline == nil && p.Phase == nil && p.AssigneeIDs == nil && p.StartDate == nil && p.DueDate == nil &&
		p.EstimateHours == nil && p.Links == nil
}

// Apply переносит заданные поля патча в задачу
func (p Patch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.SLALevel != nil {
		t.SLALevel = *p.SLALevel
	}
	if p.Discipline != nil {
		t.Discipline = *p.Discipline
	}
	if p.Phase != nil {
		t.Phase = *p.Phase
	}
	if p.AssigneeIDs != nil {
		t.AssigneeIDs = append([]string{}, (*p.AssigneeIDs)...)
	}
	if p.StartDate != nil {
		d := *p.StartDate
		t.StartDate = &d
	}
	if p.DueDate != nil {
		d := *p.DueDate
		t.DueDate = &d
	}
	if p.EstimateHours != nil {
		h := *p.EstimateHours
		t.EstimateHours = &h
	}
	if p.Links != nil {
		t.Links = *p.Links
	}
}

func WithTitle(title string) TaskOption {
	return func(p *Patch) {
		p.Title = &title
	}
}

func WithDescription(description string) TaskOption {
	return func(p *Patch) {
		p.Description = &description
	}
}

func WithStatus(status string) TaskOption {
	if status == "" {
		return nil
	}
	return func(p *Patch) {
		p.Status = &status
	}
}

func WithPriority(priority Priority) TaskOption {
	if priority == "" {
		return nil
	}
	return func(p *Patch) {
		p.Priority = &priority
	}
}

func WithSLALevel(level SLALevel) TaskOption {
	return func(p *Patch) {
		p.SLALevel = &level
	}
}

func WithDiscipline(discipline string) TaskOption {
	return func(p *Patch) {
		p.Discipline = &discipline
	}
}

func WithPhase(phase string) TaskOption {
	return func(p *Patch) {
		p.Phase = &phase
	}
}

func WithAssignees(ids []string) TaskOption {
	if ids == nil {
		ids = []string{}
	}
	return func(p *Patch) {
		p.AssigneeIDs = &ids
	}
}

func WithStartDate(start time.Time) TaskOption {
	if start.IsZero() {
		return nil
	}
	return func(p *Patch) {
		p.StartDate = &start
	}
}

func WithDueDate(due time.Time) TaskOption {
	if due.IsZero() {
		return nil
	}
	return func(p *Patch) {
		p.DueDate = &due
	}
}

func WithEstimateHours(hours float64) TaskOption {
	return func(p *Patch) {
		p.EstimateHours = &hours
	}
}

func WithLinks(links Links) TaskOption {
	return func(p *Patch) {
		p.Links = &links
	}
}
