package models

import (
	"time"
)

type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestAccepted RequestStatus = "accepted"
	RequestCanceled RequestStatus = "canceled"
)

// DonationRequest is a charity's claim against a listing for a requested
// quantity. Multiple pending requests may coexist for the same item; at most
// one is ever accepted per quantity epoch. Once accepted only the tracking
// fields may change.
type DonationRequest struct {
	ID                int            `json:"id" db:"id"`
	ListingID         int            `json:"listing_id" db:"listing_id"`
	InventoryID       int            `json:"inventory_id" db:"inventory_id"`
	CharityID         int            `json:"charity_id" db:"charity_id"`
	BakeryID          int            `json:"bakery_id" db:"bakery_id"`
	Quantity          int            `json:"quantity" db:"quantity"`
	Status            RequestStatus  `json:"status" db:"status"`
	TrackingStatus    TrackingStatus `json:"tracking_status" db:"tracking_status"`
	AcceptedBy        *int           `json:"accepted_by,omitempty" db:"accepted_by"`
	FeedbackSubmitted bool           `json:"feedback_submitted" db:"feedback_submitted"`
	CreatedAt         time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at" db:"updated_at"`
	CompletedAt       *time.Time     `json:"completed_at,omitempty" db:"completed_at"`
}

type DonationRequestCreate struct {
	ListingID int `json:"listing_id" binding:"required"`
	Quantity  int `json:"quantity" binding:"required"`
}

func (r *DonationRequest) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   r.ID,
		ResourceType: "donation_request",
	}
}
