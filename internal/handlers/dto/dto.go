package dto

import (
	"crmTracker/internal/mailer"
	"crmTracker/internal/models/client"
	"crmTracker/internal/models/task"
	"crmTracker/internal/models/workorder"
	"crmTracker/internal/service"
	"time"
)

type CreateTaskRequest struct {
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	Status        string        `json:"status"`
	Priority      task.Priority `json:"priority"`
	SLALevel      task.SLALevel `json:"sla_level"`
	Discipline    string        `json:"discipline"`
	Phase         string        `json:"phase"`
	AssigneeIDs   []string      `json:"assignee_ids"`
	StartDate     *time.Time    `json:"start_date"`
	DueDate       *time.Time    `json:"due_date"`
	EstimateHours *float64      `json:"estimate_hours"`
	Links         task.Links    `json:"links"`
}

func (r CreateTaskRequest) ToInput() service.CreateTaskInput {
	return service.CreateTaskInput{
		Title:         r.Title,
		Description:   r.Description,
		Status:        r.Status,
		Priority:      r.Priority,
		SLALevel:      r.SLALevel,
		Discipline:    r.Discipline,
		Phase:         r.Phase,
		AssigneeIDs:   r.AssigneeIDs,
		StartDate:     r.StartDate,
		DueDate:       r.DueDate,
		EstimateHours: r.EstimateHours,
		Links:         r.Links,
	}
}

// UpdateTaskRequest - отсутствующие поля не изменяются.
// Version включает проверку версии, как и заголовок If-Match.
type UpdateTaskRequest struct {
	Title         *string        `json:"title,omitempty"`
	Description   *string        `json:"description,omitempty"`
	Status        *string        `json:"status,omitempty"`
	Priority      *task.Priority `json:"priority,omitempty"`
	SLALevel      *task.SLALevel `json:"sla_level,omitempty"`
	Discipline    *string        `json:"discipline,omitempty"`
	Phase         *string        `json:"phase,omitempty"`
	AssigneeIDs   *[]string      `json:"assignee_ids,omitempty"`
	StartDate     *time.Time     `json:"start_date,omitempty"`
	DueDate       *time.Time     `json:"due_date,omitempty"`
	EstimateHours *float64       `json:"estimate_hours,omitempty"`
	Links         *task.Links    `json:"links,omitempty"`
	Version       *int           `json:"version,omitempty"`
}

func (r UpdateTaskRequest) Options() []task.TaskOption {
	var opts []task.TaskOption
	if r.Title != nil {
		opts = append(opts, task.WithTitle(*r.Title))
	}
	if r.Description != nil {
		opts = append(opts, task.WithDescription(*r.Description))
	}
	if r.Status != nil {
		opts = append(opts, task.WithStatus(*r.Status))
	}
	if r.Priority != nil {
		opts = append(opts, task.WithPriority(*r.Priority))
	}
	if r.SLALevel != nil {
		opts = append(opts, task.WithSLALevel(*r.SLALevel))
	}
	if r.Discipline != nil {
		opts = append(opts, task.WithDiscipline(*r.Discipline))
	}
	if r.Phase != nil {
		opts = append(opts, task.WithPhase(*r.Phase))
	}
	if r.AssigneeIDs != nil {
		opts = append(opts, task.WithAssignees(*r.AssigneeIDs))
	}
	if r.StartDate != nil {
		opts = append(opts, task.WithStartDate(*r.StartDate))
	}
	if r.DueDate != nil {
		opts = append(opts, task.WithDueDate(*r.DueDate))
	}
	if r.EstimateHours != nil {
		opts = append(opts, task.WithEstimateHours(*r.EstimateHours))
	}
	if r.Links != nil {
		opts = append(opts, task.WithLinks(*r.Links))
	}
	return opts
}

type TaskResponse struct {
	*task.Task
	StatusName string `json:"status_name,omitempty"`
	Orphaned   bool   `json:"status_orphaned"`
}

// FromTask дополняет задачу данными статуса из снимка настроек
func FromTask(t *task.Task, settings task.Settings) TaskResponse {
	ref := settings.Resolve(t.Status)
	res := TaskResponse{Task: t, Orphaned: ref.IsOrphaned()}
	if !ref.IsOrphaned() {
		res.StatusName = ref.Def.Name
	}
	return res
}

func FromTaskList(tasks []*task.Task, settings task.Settings) []TaskResponse {
	result := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		result[i] = FromTask(t, settings)
	}
	return result
}

type StartTimeEntryRequest struct {
	UserID string `json:"userId"`
}

type CreateClientRequest struct {
	Name               string                    `json:"name"`
	AcquisitionEntries []AcquisitionEntryRequest `json:"acquisition_entries"`
}

type AcquisitionEntryRequest struct {
	Source client.Source `json:"source"`
	Cost   float64       `json:"cost"`
	Date   *time.Time    `json:"date"`
	Note   string        `json:"note"`
}

func (r AcquisitionEntryRequest) ToInput() service.AcquisitionEntryInput {
	return service.AcquisitionEntryInput{
		Source: r.Source,
		Cost:   r.Cost,
		Date:   r.Date,
		Note:   r.Note,
	}
}

func (r CreateClientRequest) ToInput() service.CreateClientInput {
	entries := make([]service.AcquisitionEntryInput, 0, len(r.AcquisitionEntries))
	for _, e := range r.AcquisitionEntries {
		entries = append(entries, e.ToInput())
	}
	return service.CreateClientInput{Name: r.Name, AcquisitionEntries: entries}
}

type CreateWorkOrderRequest struct {
	Type                   string                   `json:"type"`
	Status                 string                   `json:"status"`
	Client                 string                   `json:"client"`
	Location               string                   `json:"location"`
	IssuedAt               *time.Time               `json:"issued_at"`
	Products               []workorder.Product      `json:"products"`
	OfferDate              *time.Time               `json:"offer_date"`
	OfferAdjustmentPercent *float64                 `json:"offer_adjustment_percent"`
	OfferVATPercent        *float64                 `json:"offer_vat_percent"`
	AcceptedOffer          *workorder.OfferSnapshot `json:"accepted_offer"`
	OfferResponse          *workorder.OfferResponse `json:"offer_response"`
}

func (r CreateWorkOrderRequest) ToInput() service.CreateWorkOrderInput {
	return service.CreateWorkOrderInput{
		Type:                   r.Type,
		Status:                 r.Status,
		Client:                 r.Client,
		Location:               r.Location,
		IssuedAt:               r.IssuedAt,
		Products:               r.Products,
		OfferDate:              r.OfferDate,
		OfferAdjustmentPercent: r.OfferAdjustmentPercent,
		OfferVATPercent:        r.OfferVATPercent,
		AcceptedOffer:          r.AcceptedOffer,
		OfferResponse:          r.OfferResponse,
	}
}

type InviteAttachment struct {
	Filename    string `json:"filename"`
	Content     string `json:"content"`
	Encoding    string `json:"encoding,omitempty"`
	ContentType string `json:"contentType,omitempty"`
}

type InviteRequest struct {
	To          []string           `json:"to"`
	Subject     string             `json:"subject"`
	Content     string             `json:"content"`
	HTML        string             `json:"html"`
	Attachments []InviteAttachment `json:"attachments"`
}

func (r InviteRequest) ToMessage() mailer.Message {
	msg := mailer.Message{
		To:      r.To,
		Subject: r.Subject,
		Text:    r.Content,
		HTML:    r.HTML,
	}
	for _, a := range r.Attachments {
		msg.Attachments = append(msg.Attachments, mailer.Attachment{
			Filename:    a.Filename,
			Content:     a.Content,
			Encoding:    a.Encoding,
			ContentType: a.ContentType,
		})
	}
	return msg
}
