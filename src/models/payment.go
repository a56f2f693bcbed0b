package models

import (
	"buspass/src/types"
	"time"

	"github.com/google/uuid"
)

// Payment rows are append-only: created once per successful pay, never
// updated or deleted.
type Payment struct {
	ID            uuid.UUID `gorm:"primarykey;type:uuid" json:"id"`
	ApplicationID uuid.UUID `gorm:"type:uuid;index" json:"application_id"`
	UserID        uint      `gorm:"index" json:"user_id"`
	Amount        int64     `json:"amount"`
	Currency      string    `json:"currency"`
	Mode          string    `json:"mode"`
	ReferenceID   string    `gorm:"uniqueIndex" json:"reference_id"`
	PaidAt        time.Time `json:"paid_at"`

	Application *Application `gorm:"foreignKey:application_id" json:"application,omitempty"`

	types.Timestamps
}
