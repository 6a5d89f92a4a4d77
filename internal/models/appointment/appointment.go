package appointment

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

type Appointment struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	ClientID        *string         `json:"client_id" db:"client_id"`
	EventURI        *string         `json:"event_uri" db:"event_uri"`
	InviteeURI      *string         `json:"invitee_uri" db:"invitee_uri"`
	ScheduledAt     *string         `json:"scheduled_at" db:"scheduled_at"`
	Raw             json.RawMessage `json:"raw" db:"raw"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	CreatedByUserID *string         `json:"created_by_user_id" db:"created_by_user_id"`
	CreatedByRole   *string         `json:"created_by_role" db:"created_by_role"`
}

// Capture - тело запроса вебхука планировщика
type Capture struct {
	ClientID        string          `json:"clientId"`
	CreatedByUserID string          `json:"createdByUserId"`
	CreatedByRole   string          `json:"createdByRole"`
	Payload         json.RawMessage `json:"payload"`
}

// FromCapture достаёт из непрозрачного payload ссылки на событие, приглашённого и время начала
func FromCapture(c Capture, id uuid.UUID, now time.Time) *Appointment {
	a := &Appointment{
		ID:              id,
		ClientID:        optional(c.ClientID),
		CreatedAt:       now,
		CreatedByUserID: optional(c.CreatedByUserID),
		CreatedByRole:   optional(c.CreatedByRole),
	}

	if len(c.Payload) == 0 || !gjson.ValidBytes(c.Payload) || string(c.Payload) == "null" {
		return a
	}

	a.Raw = append(json.RawMessage{}, c.Payload...)
	a.EventURI = optional(gjson.GetBytes(c.Payload, "event.uri").String())
	a.InviteeURI = optional(gjson.GetBytes(c.Payload, "invitee.uri").String())
	a.ScheduledAt = optional(gjson.GetBytes(c.Payload, "event.start_time").String())
	return a
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
