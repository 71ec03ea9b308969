package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Notification is a persisted event consumed by the geofence/notification
// collaborator. This core only appends rows; it never reads them back.
type Notification struct {
	ID        int                    `json:"id" db:"id"`
	UUID      string                 `json:"uuid" db:"uuid"`
	CharityID int                    `json:"charity_id" db:"charity_id"`
	Kind      string                 `json:"kind" db:"kind"`
	Message   string                 `json:"message" db:"message"`
	DataRaw   string                 `json:"-" db:"data"`
	Data      map[string]interface{} `json:"data" db:"-"`
	CreatedAt time.Time              `json:"created_at" db:"created_at"`
}

func (n *Notification) LoadFromDB() {
	if n.DataRaw != "" {
		_ = json.Unmarshal([]byte(n.DataRaw), &n.Data)
	}
}

// CascadeCancellation describes why a competing pending request was canceled
// during an accept: the charity asked for more units than remain.
type CascadeCancellation struct {
	RequestID   int    `json:"request_id"`
	InventoryID int    `json:"inventory_id"`
	CharityID   int    `json:"charity_id"`
	ProductName string `json:"product_name"`
	Requested   int    `json:"requested"`
	Remaining   int    `json:"remaining"`
}

func (c CascadeCancellation) Message() string {
	return fmt.Sprintf("requested %d, only %d remain", c.Requested, c.Remaining)
}
