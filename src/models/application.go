package models

import (
	"buspass/src/types"

	"github.com/google/uuid"
)

type Application struct {
	ID          uuid.UUID `gorm:"primarykey;type:uuid" json:"id"`
	UserID      uint      `gorm:"index" json:"user_id"`
	StudentName string    `gorm:"size:100" json:"student_name"`
	CollegeName string    `gorm:"size:200" json:"college_name"`
	Department  string    `gorm:"size:100" json:"department"`
	Year        string    `gorm:"size:1" json:"year"`
	RouteFrom   string    `gorm:"size:200" json:"route_from"`
	RouteTo     string    `gorm:"size:200" json:"route_to"`

	Status        types.ApplicationStatus `gorm:"default:'pending'" json:"status"`
	PaymentStatus types.PaymentStatus     `gorm:"default:'unpaid'" json:"payment_status"`

	User     *User     `gorm:"foreignKey:user_id" json:"user,omitempty"`
	Payments []Payment `gorm:"foreignKey:application_id" json:"payments,omitempty"`

	types.Timestamps
}
