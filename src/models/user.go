package models

import (
	"buspass/src/types"
	"time"
)

type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Name         string    `json:"name,omitempty"`
	Email        string    `gorm:"uniqueIndex" json:"email,omitempty"`
	Role         string    `gorm:"default:'student'" json:"role,omitempty"`
	PasswordHash string    `json:"-"`
	LastActive   time.Time `json:"last_active,omitempty"`

	Applications []Application `gorm:"foreignKey:user_id" json:"applications,omitempty"`
	Payments     []Payment     `gorm:"foreignKey:user_id" json:"payments,omitempty"`

	types.Timestamps
}
