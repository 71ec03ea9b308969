package custom_error

import (
	"errors"
	"net/http"
)

// Kind is the machine-readable failure category returned to API callers.
type Kind string

const (
	KindNotFound                Kind = "not_found"
	KindInvalidState            Kind = "invalid_state"
	KindInsufficientStock       Kind = "insufficient_stock"
	KindDuplicatePendingRequest Kind = "duplicate_pending_request"
	KindInvalidCharity          Kind = "invalid_charity"
	KindConflict                Kind = "conflict"
)

type DomainError struct {
	Kind    Kind
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

var (
	ErrItemNotFound     = &DomainError{Kind: KindNotFound, Message: "inventory item not found"}
	ErrListingNotFound  = &DomainError{Kind: KindNotFound, Message: "listing not found"}
	ErrRequestNotFound  = &DomainError{Kind: KindNotFound, Message: "donation request not found"}
	ErrDonationNotFound = &DomainError{Kind: KindNotFound, Message: "direct donation not found"}
	ErrUserNotFound     = &DomainError{Kind: KindNotFound, Message: "user not found"}

	ErrNotPending       = &DomainError{Kind: KindInvalidState, Message: "donation request is not pending"}
	ErrNotAccepted      = &DomainError{Kind: KindInvalidState, Message: "donation request is not accepted"}
	ErrNotReady         = &DomainError{Kind: KindInvalidState, Message: "tracking status transition not allowed from current state"}
	ErrInvalidTracking  = &DomainError{Kind: KindInvalidState, Message: "unknown tracking status"}
	ErrFeedbackRequired = &DomainError{Kind: KindInvalidState, Message: "completion is only reachable through feedback submission"}

	ErrInvalidQuantity         = &DomainError{Kind: KindInvalidState, Message: "quantity must be at least one unit"}
	ErrInsufficientStock       = &DomainError{Kind: KindInsufficientStock, Message: "requested quantity exceeds remaining stock"}
	ErrDuplicatePendingRequest = &DomainError{Kind: KindDuplicatePendingRequest, Message: "charity already holds a pending request for this item"}
	ErrInvalidCharity          = &DomainError{Kind: KindInvalidCharity, Message: "target user is not a charity"}
	ErrVersionConflict         = &DomainError{Kind: KindConflict, Message: "inventory item was modified concurrently"}
)

// KindOf extracts the failure category from an error chain; empty for
// untyped errors.
func KindOf(err error) Kind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// HTTPStatus maps a domain failure onto the response code handlers return.
// Constraint violations surfacing from postgres count as conflicts.
func HTTPStatus(err error) int {
	var unique *UniqueViolationError
	var foreignKey *ForeignKeyViolationError
	if errors.As(err, &unique) || errors.As(err, &foreignKey) {
		return http.StatusConflict
	}

	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidState, KindConflict, KindInsufficientStock, KindDuplicatePendingRequest:
		return http.StatusConflict
	case KindInvalidCharity:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
