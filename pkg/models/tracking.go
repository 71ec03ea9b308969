package models

import (
	custom_error "github.com/Avanquish/DoughNation-sub000/pkg/errors"
)

// TrackingStatus is the delivery sub-state carried by both donation requests
// and direct donations: preparing -> in_transit -> received -> complete.
type TrackingStatus string

const (
	TrackingPreparing TrackingStatus = "preparing"
	TrackingInTransit TrackingStatus = "in_transit"
	TrackingReceived  TrackingStatus = "received"
	TrackingComplete  TrackingStatus = "complete"
)

func (s TrackingStatus) IsValid() bool {
	switch s {
	case TrackingPreparing, TrackingInTransit, TrackingReceived, TrackingComplete:
		return true
	}
	return false
}

// CanAdvanceTo validates an actor-driven tracking update. Completion is not
// reachable here; it is stamped exclusively by feedback submission.
func (s TrackingStatus) CanAdvanceTo(next TrackingStatus) error {
	if !next.IsValid() {
		return custom_error.ErrInvalidTracking
	}
	if next == TrackingComplete {
		return custom_error.ErrFeedbackRequired
	}
	switch {
	case s == TrackingPreparing && next == TrackingInTransit:
		return nil
	case s == TrackingInTransit && next == TrackingReceived:
		return nil
	}
	return custom_error.ErrNotReady
}
