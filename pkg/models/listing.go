package models

import (
	"time"
)

// Listing is the auto-generated donation posting derived from an InventoryItem.
// It carries denormalized copies of the item fields for the charity-facing read
// side; the scheduler keeps them in sync and owns listing existence entirely.
type Listing struct {
	ID             int        `json:"id" db:"id"`
	InventoryID    int        `json:"inventory_id" db:"inventory_id"`
	BakeryID       int        `json:"bakery_id" db:"bakery_id"`
	Name           string     `json:"name" db:"name"`
	Quantity       int        `json:"quantity" db:"quantity"`
	Threshold      int        `json:"threshold" db:"threshold"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty" db:"expiration_date"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}

func (l *Listing) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   l.ID,
		ResourceType: "listing",
	}
}
