package client

import (
	"time"

	"github.com/google/uuid"
)

type Source string

const SourceReferral Source = "recomandare"
const SourceOrganicSEO Source = "organic_seo"
const SourceOrganicSocial Source = "organic_social"
const SourcePaidCampaign Source = "paid_campaign"

// Sources - известные источники в порядке вывода в отчётах
var Sources = []Source{SourceReferral, SourceOrganicSEO, SourceOrganicSocial, SourcePaidCampaign}

func (s Source) Valid() bool {
	for _, known := range Sources {
		if s == known {
			return true
		}
	}
	return false
}

type Client struct {
	ID                 uuid.UUID          `json:"id" db:"id"`
	Name               string             `json:"name" db:"name"`
	CreatedAt          *time.Time         `json:"created_at,omitempty" db:"created_at"`
	UpdatedAt          *time.Time         `json:"updated_at,omitempty" db:"updated_at"`
	AcquisitionEntries []AcquisitionEntry `json:"acquisition_entries" db:"acquisition_entries"`

	// устаревшие плоские поля, остаются для старых записей
	AcquisitionSource *Source  `json:"acquisition_source,omitempty" db:"acquisition_source"`
	CampaignCost      *float64 `json:"campaign_cost,omitempty" db:"campaign_cost"`
}

type AcquisitionEntry struct {
	ID     string     `json:"id"`
	Source Source     `json:"source"`
	Cost   float64    `json:"cost,omitempty"`
	Date   *time.Time `json:"date,omitempty"`
	Note   string     `json:"note,omitempty"`
}

// EntryDate - дата записи с откатом на даты создания/изменения клиента
func (c *Client) EntryDate(e AcquisitionEntry) *time.Time {
	if e.Date != nil {
		return e.Date
	}
	return c.FallbackDate()
}

func (c *Client) FallbackDate() *time.Time {
	if c.CreatedAt != nil {
		return c.CreatedAt
	}
	return c.UpdatedAt
}

func (c *Client) DisplayName() string {
	if c.Name == "" {
		return "Necunoscut"
	}
	return c.Name
}
