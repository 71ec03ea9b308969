package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeriveInventoryStatus(t *testing.T) {
	tests := []struct {
		name        string
		quantity    int
		hasAccepted bool
		hasPending  bool
		expired     bool
		expected    InventoryStatus
	}{
		{"fresh stock, no requests", 10, false, false, false, InventoryAvailable},
		{"pending request", 10, false, true, false, InventoryRequested},
		{"accepted request dominates pending", 10, true, true, false, InventoryDonated},
		{"quantity zero is donated", 0, false, false, false, InventoryDonated},
		{"quantity zero dominates everything", 0, false, true, true, InventoryDonated},
		{"expired with stock is unavailable", 5, false, false, true, InventoryUnavailable},
		{"expired with pending stays unavailable", 5, false, true, true, InventoryUnavailable},
		{"accepted dominates expired", 5, true, false, true, InventoryDonated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := DeriveInventoryStatus(tt.quantity, tt.hasAccepted, tt.hasPending, tt.expired)
			assert.Equal(t, tt.expected, status)
		})
	}
}

func TestTriggerDate(t *testing.T) {
	expiration := time.Date(2026, 9, 10, 15, 30, 0, 0, time.UTC)

	item := &InventoryItem{Threshold: 3, ExpirationDate: &expiration}
	trigger, ok := item.TriggerDate()
	assert.True(t, ok)
	assert.Equal(t, time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC), trigger)

	zeroThreshold := &InventoryItem{Threshold: 0, ExpirationDate: &expiration}
	trigger, ok = zeroThreshold.TriggerDate()
	assert.True(t, ok)
	assert.Equal(t, time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC), trigger)

	noExpiration := &InventoryItem{Threshold: 3}
	_, ok = noExpiration.TriggerDate()
	assert.False(t, ok)
}

func TestExpired(t *testing.T) {
	expiration := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	item := &InventoryItem{ExpirationDate: &expiration}

	assert.False(t, item.Expired(time.Date(2026, 9, 9, 23, 59, 0, 0, time.UTC)))
	// still donatable through the expiration day itself
	assert.False(t, item.Expired(time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)))
	assert.True(t, item.Expired(time.Date(2026, 9, 11, 0, 0, 0, 0, time.UTC)))

	noExpiration := &InventoryItem{}
	assert.False(t, noExpiration.Expired(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)))
}
