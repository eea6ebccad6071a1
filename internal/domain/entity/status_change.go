package entity

import "time"

// StatusChange registra una transición de estado de un InventoryRecord.
type StatusChange struct {
	ID        string
	RecordID  string
	Previous  RecordStatus
	Next      RecordStatus
	Reason    string
	Actor     string // vacío = sistema
	CreatedAt time.Time
}
