package workorder

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

const ResponseAccepted = "accept"

const UnknownType = "Nedefinit"
const UnknownStatus = "Nedefinit"
const UnknownClient = "N/A"
const UnknownLocation = "N/A"

type Product struct {
	Name     string  `json:"name,omitempty"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
}

// OfferSnapshot фиксирует оферту в момент принятия клиентом
type OfferSnapshot struct {
	Products          []Product `json:"products"`
	AdjustmentPercent *float64  `json:"adjustment_percent,omitempty"`
	VATPercent        *float64  `json:"vat_percent,omitempty"`
}

type OfferResponse struct {
	Status string     `json:"status"`
	At     *time.Time `json:"at,omitempty"`
}

type WorkOrder struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	Type      string     `json:"type" db:"type"`
	Status    string     `json:"status" db:"status"`
	Client    string     `json:"client" db:"client"`
	Location  string     `json:"location" db:"location"`
	IssuedAt  *time.Time `json:"issued_at,omitempty" db:"issued_at"`
	Products  []Product  `json:"products" db:"products"`
	OfferDate *time.Time `json:"offer_date,omitempty" db:"offer_date"`

	OfferAdjustmentPercent *float64       `json:"offer_adjustment_percent,omitempty" db:"offer_adjustment_percent"`
	OfferVATPercent        *float64       `json:"offer_vat_percent,omitempty" db:"offer_vat_percent"`
	AcceptedOffer          *OfferSnapshot `json:"accepted_offer,omitempty" db:"accepted_offer"`
	OfferResponse          *OfferResponse `json:"offer_response,omitempty" db:"offer_response"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func (w *WorkOrder) Accepted() bool {
	return w.OfferResponse != nil && strings.ToLower(strings.TrimSpace(w.OfferResponse.Status)) == ResponseAccepted
}

// SaleDate - дата принятия оферты, затем дата оферты, затем последнее изменение
func (w *WorkOrder) SaleDate() time.Time {
	if w.OfferResponse != nil && w.OfferResponse.At != nil {
		return *w.OfferResponse.At
	}
	if w.OfferDate != nil {
		return *w.OfferDate
	}
	return w.UpdatedAt
}

// OfferTotal считает сумму оферты: сначала скидка, затем НДС.
// Товары и проценты берутся из снимка принятой оферты, если на заказе их нет.
func (w *WorkOrder) OfferTotal(includeVAT bool) float64 {
	products := w.Products
	var snapAdj, snapVAT *float64
	if w.AcceptedOffer != nil {
		if w.AcceptedOffer.Products != nil {
			products = w.AcceptedOffer.Products
		}
		snapAdj = w.AcceptedOffer.AdjustmentPercent
		snapVAT = w.AcceptedOffer.VATPercent
	}

	var subtotal float64
	for _, p := range products {
		subtotal += p.Quantity * p.Price
	}

	adj := firstOf(w.OfferAdjustmentPercent, snapAdj)
	total := subtotal * (1 - adj/100)
	if includeVAT {
		total *= 1 + math.Max(firstOf(w.OfferVATPercent, snapVAT), 0)/100
	}
	return total
}

func (w *WorkOrder) TypeLabel() string {
	return labelOr(w.Type, UnknownType)
}

func (w *WorkOrder) StatusLabel() string {
	return labelOr(w.Status, UnknownStatus)
}

func (w *WorkOrder) ClientLabel() string {
	return labelOr(w.Client, UnknownClient)
}

func (w *WorkOrder) LocationLabel() string {
	return labelOr(w.Location, UnknownLocation)
}

func labelOr(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}

func firstOf(values ...*float64) float64 {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return 0
}
