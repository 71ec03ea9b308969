package models

import (
	"testing"

	"github.com/stretchr/testify/assert"

	custom_error "github.com/Avanquish/DoughNation-sub000/pkg/errors"
)

func TestCanAdvanceTo(t *testing.T) {
	assert.NoError(t, TrackingPreparing.CanAdvanceTo(TrackingInTransit))
	assert.NoError(t, TrackingInTransit.CanAdvanceTo(TrackingReceived))

	// complete is only reachable through feedback submission
	assert.ErrorIs(t, TrackingPreparing.CanAdvanceTo(TrackingComplete), custom_error.ErrFeedbackRequired)
	assert.ErrorIs(t, TrackingReceived.CanAdvanceTo(TrackingComplete), custom_error.ErrFeedbackRequired)

	// no skipping or moving backwards
	assert.ErrorIs(t, TrackingPreparing.CanAdvanceTo(TrackingReceived), custom_error.ErrNotReady)
	assert.ErrorIs(t, TrackingInTransit.CanAdvanceTo(TrackingPreparing), custom_error.ErrNotReady)
	assert.ErrorIs(t, TrackingReceived.CanAdvanceTo(TrackingInTransit), custom_error.ErrNotReady)
	assert.ErrorIs(t, TrackingComplete.CanAdvanceTo(TrackingInTransit), custom_error.ErrNotReady)

	assert.ErrorIs(t, TrackingPreparing.CanAdvanceTo("delivered"), custom_error.ErrInvalidTracking)
}
