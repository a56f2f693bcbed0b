package types

import (
	"database/sql/driver"
	"time"

	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type ApplicationStatus string

const (
	APPLICATION_PENDING  ApplicationStatus = "pending"
	APPLICATION_APPROVED ApplicationStatus = "approved"
	APPLICATION_REJECTED ApplicationStatus = "rejected"
)

func (self *ApplicationStatus) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		*self = ApplicationStatus(v)
	case string:
		*self = ApplicationStatus(v)
	}
	return nil
}

func (self ApplicationStatus) Value() (driver.Value, error) {
	return string(self), nil
}

type PaymentStatus string

const (
	PAYMENT_UNPAID PaymentStatus = "unpaid"
	PAYMENT_PAID   PaymentStatus = "paid"
)

func (self *PaymentStatus) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		*self = PaymentStatus(v)
	case string:
		*self = PaymentStatus(v)
	}
	return nil
}

func (self PaymentStatus) Value() (driver.Value, error) {
	return string(self), nil
}

const (
	ROLE_STUDENT = "student"
	ROLE_ADMIN   = "admin"
)

type RegisterUserRequestBody struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequestBody struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type SubmitApplicationRequestBody struct {
	StudentName string `json:"student_name" binding:"required,max=100"`
	CollegeName string `json:"college_name" binding:"required,max=200"`
	Department  string `json:"department" binding:"required,max=100"`
	Year        string `json:"year" binding:"required,academicyear"`
	RouteFrom   string `json:"route_from" binding:"required,max=200"`
	RouteTo     string `json:"route_to" binding:"required,max=200"`
}

type PayRequestBody struct {
	Mode       string `json:"mode,omitempty"`
	CardNumber string `json:"card_number,omitempty"`
	CardExpiry string `json:"card_expiry,omitempty"`
	CardCvc    string `json:"card_cvc,omitempty"`
}

type SetStatusRequestBody struct {
	Status string `json:"status" binding:"required,oneof=approved rejected"`
}

type ApplicationURIParams struct {
	ID string `uri:"id" binding:"required,uuid"`
}
