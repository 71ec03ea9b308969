package models

import (
	"time"
)

type InventoryStatus string

const (
	InventoryAvailable   InventoryStatus = "available"
	InventoryRequested   InventoryStatus = "requested"
	InventoryDonated     InventoryStatus = "donated"
	InventoryUnavailable InventoryStatus = "unavailable"
)

// InventoryItem is a physical batch of a product held by a bakery. Quantity and
// status are owned by the inventory store; status is always derived, never set
// by callers directly.
type InventoryItem struct {
	ID             int             `json:"id" db:"id"`
	BakeryID       int             `json:"bakery_id" db:"bakery_id"`
	Name           string          `json:"name" db:"name"`
	Quantity       int             `json:"quantity" db:"quantity"`
	Threshold      int             `json:"threshold" db:"threshold"`
	Status         InventoryStatus `json:"status" db:"status"`
	Version        int             `json:"-" db:"version"`
	CreationDate   time.Time       `json:"creation_date" db:"creation_date"`
	ExpirationDate *time.Time      `json:"expiration_date,omitempty" db:"expiration_date"`
}

type InventoryItemRequest struct {
	BakeryID       int        `json:"bakery_id"`
	Name           string     `json:"name" binding:"required"`
	Quantity       int        `json:"quantity"`
	Threshold      int        `json:"threshold"`
	ExpirationDate *time.Time `json:"expiration_date"`
}

// DeriveInventoryStatus is the single projection used to compute an item's
// status. Accepted requests dominate pending ones; an expired item that still
// has stock is unavailable rather than donated.
func DeriveInventoryStatus(quantity int, hasAccepted, hasPending, expired bool) InventoryStatus {
	switch {
	case quantity <= 0:
		return InventoryDonated
	case hasAccepted:
		return InventoryDonated
	case expired:
		return InventoryUnavailable
	case hasPending:
		return InventoryRequested
	default:
		return InventoryAvailable
	}
}

// TriggerDate is the first day the item becomes listable: expiration minus
// threshold days. Items without an expiration date never trigger a listing.
func (i *InventoryItem) TriggerDate() (time.Time, bool) {
	if i.ExpirationDate == nil {
		return time.Time{}, false
	}
	return DateOnly(*i.ExpirationDate).AddDate(0, 0, -i.Threshold), true
}

// Expired reports whether the item's expiration date has passed. An item
// expiring today is still donatable through that day (threshold 0 means
// "list on the expiration day itself"); it expires at the next day boundary.
func (i *InventoryItem) Expired(today time.Time) bool {
	if i.ExpirationDate == nil {
		return false
	}
	return DateOnly(*i.ExpirationDate).Before(DateOnly(today))
}

// DateOnly truncates a timestamp to its calendar day in UTC so threshold
// comparisons are stable regardless of the time of day a sweep runs.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (i *InventoryItem) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   i.ID,
		ResourceType: "inventory_item",
	}
}
