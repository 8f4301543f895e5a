package client

import (
	"time"

	"github.com/shopspring/decimal"

	"tvmanager/internal/domain/client"
)

type CreateClientCommand struct {
	ID                  string // optional
	Name                string          `name:"name" validate:"required"`
	WhatsAppNumber      string          `name:"whatsapp" validate:"required"`
	PanelUsername       string          `name:"user"`
	CycleValue          decimal.Decimal `name:"value" validate:"gte=0"`
	CycleDurationMonths int             `name:"months" validate:"gt=0"`
	StartDate           time.Time       `name:"start_date"`
}

// UpdateClientCommand replaces the editable fields of a client. Nil pointer
// fields are left as they are.
type UpdateClientCommand struct {
	ID                  string          `name:"id" validate:"required"`
	Name                string          `name:"name" validate:"required"`
	WhatsAppNumber      string          `name:"whatsapp" validate:"required"`
	PanelUsername       string          `name:"user"`
	CycleValue          decimal.Decimal `name:"value" validate:"gte=0"`
	CycleDurationMonths int             `name:"months" validate:"gt=0"`
	StartDate           time.Time       `name:"start_date"`
	IsActive            *bool
	LastMessageDate     *time.Time
	RenewalHistory      *[]client.Renewal
}

// RenewClientCommand records a payment. Zero DurationMonths and nil Value
// fall back to the client's current cycle.
type RenewClientCommand struct {
	ID             string           `name:"id" validate:"required"`
	DurationMonths int              `name:"months" validate:"gte=0"`
	Value          *decimal.Decimal `name:"value"`
}

// ListFilter narrows List results. With an empty Search and All unset only
// clients that need attention are returned.
type ListFilter struct {
	Search string
	All    bool
}
