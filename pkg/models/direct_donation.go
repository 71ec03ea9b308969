package models

import (
	"time"
)

// DirectDonation is a bakery-initiated allocation to a chosen charity that
// bypasses the request/accept negotiation. Stock is drawn synchronously at
// creation, so there is no pending state and no cascade.
type DirectDonation struct {
	ID                int            `json:"id" db:"id"`
	InventoryID       int            `json:"inventory_id" db:"inventory_id"`
	BakeryID          int            `json:"bakery_id" db:"bakery_id"`
	CharityID         int            `json:"charity_id" db:"charity_id"`
	Quantity          int            `json:"quantity" db:"quantity"`
	BTrackingStatus   TrackingStatus `json:"btracking_status" db:"btracking_status"`
	FeedbackSubmitted bool           `json:"feedback_submitted" db:"feedback_submitted"`
	CreatedAt         time.Time      `json:"created_at" db:"created_at"`
	CompletedAt       *time.Time     `json:"completed_at,omitempty" db:"completed_at"`
}

type DirectDonationRequest struct {
	InventoryID int `json:"inventory_id" binding:"required"`
	CharityID   int `json:"charity_id" binding:"required"`
	Quantity    int `json:"quantity" binding:"required"`
}

func (d *DirectDonation) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   d.ID,
		ResourceType: "direct_donation",
	}
}
