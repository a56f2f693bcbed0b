package lifecycle

import (
	"buspass/src/config"
	"buspass/src/models"
	"buspass/src/notify"
	"buspass/src/types"
	"buspass/src/utils"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Actor identifies who is issuing a command. It is always passed explicitly;
// the engine never reads session state on its own.
type Actor struct {
	ID    uint
	Admin bool
}

// ChargeRequest is what the engine hands to the payment gateway.
type ChargeRequest struct {
	ReferenceID string
	Amount      int64
	Currency    string
	Mode        string
	Description string
}

// Gateway models the payment processor round trip. Charge must return
// ctx.Err() when cancelled before completing, in which case no state has
// changed and the whole command can be retried.
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) error
}

type SubmitInput struct {
	StudentName string
	CollegeName string
	Department  string
	Year        string
	RouteFrom   string
	RouteTo     string
}

type PayInput struct {
	Mode string
}

// PassView is a read-only projection of a paid, approved application. It is
// computed on demand and never persisted.
type PassView struct {
	ApplicationID uuid.UUID `json:"application_id"`
	OwnerID       uint      `json:"owner_id"`
	StudentName   string    `json:"student_name"`
	RouteFrom     string    `json:"route_from"`
	RouteTo       string    `json:"route_to"`

	// VerificationToken is a contract with external verifiers: a JSON
	// object carrying at least applicationId and ownerId, suitable for
	// embedding in a scannable code.
	VerificationToken string `json:"verification_token"`
}

// Engine owns the application/payment lifecycle: which transitions are
// legal, who may trigger them, and what records each one produces. All
// reads and writes of applications and payments go through here.
type Engine struct {
	db       *gorm.DB
	gateway  Gateway
	notifier notify.Notifier
	amount   int64
	currency string
}

func NewEngine(db *gorm.DB, gateway Gateway, notifier notify.Notifier) *Engine {
	return &Engine{
		db:       db,
		gateway:  gateway,
		notifier: notifier,
		amount:   config.PassFeeAmount(),
		currency: config.PassFeeCurrency(),
	}
}

func (e *Engine) notify(title string, description string, severity string) {
	if e.notifier == nil {
		return
	}
	e.notifier.Notify(title, description, severity)
}

var yearValues = map[string]bool{"1": true, "2": true, "3": true, "4": true}

func validateSubmitInput(input *SubmitInput) error {
	input.StudentName = strings.TrimSpace(input.StudentName)
	input.CollegeName = strings.TrimSpace(input.CollegeName)
	input.Department = strings.TrimSpace(input.Department)
	input.Year = strings.TrimSpace(input.Year)
	input.RouteFrom = strings.TrimSpace(input.RouteFrom)
	input.RouteTo = strings.TrimSpace(input.RouteTo)

	required := []struct {
		name  string
		value string
		max   int
	}{
		{"student_name", input.StudentName, 100},
		{"college_name", input.CollegeName, 200},
		{"department", input.Department, 100},
		{"route_from", input.RouteFrom, 200},
		{"route_to", input.RouteTo, 200},
	}
	for _, f := range required {
		if f.value == "" {
			return validationError("%s is required", f.name)
		}
		if len(f.value) > f.max {
			return validationError("%s must be at most %d characters", f.name, f.max)
		}
	}
	if input.Year == "" {
		return validationError("year is required")
	}
	if !yearValues[input.Year] {
		return validationError("year must be one of 1, 2, 3, 4")
	}
	return nil
}

// Submit creates a new pending, unpaid application for the actor.
func (e *Engine) Submit(ctx context.Context, actor Actor, input SubmitInput) (*models.Application, error) {
	if err := validateSubmitInput(&input); err != nil {
		return nil, err
	}
	app := models.Application{
		ID:            uuid.New(),
		UserID:        actor.ID,
		StudentName:   input.StudentName,
		CollegeName:   input.CollegeName,
		Department:    input.Department,
		Year:          input.Year,
		RouteFrom:     input.RouteFrom,
		RouteTo:       input.RouteTo,
		Status:        types.APPLICATION_PENDING,
		PaymentStatus: types.PAYMENT_UNPAID,
	}
	if err := e.db.WithContext(ctx).Create(&app).Error; err != nil {
		log.Printf("Error creating Application for user [%d]: %s\n", actor.ID, err.Error())
		return nil, storageError(err)
	}
	e.notify("Application Submitted!", "Your bus pass application is under review.", notify.SEVERITY_SUCCESS)
	return &app, nil
}

// ListForOwner returns the actor's applications, most recent first.
func (e *Engine) ListForOwner(ctx context.Context, actor Actor) ([]models.Application, error) {
	var apps []models.Application
	err := e.db.WithContext(ctx).
		Model(&models.Application{}).
		Where(&models.Application{UserID: actor.ID}).
		Order("created_at desc").
		Find(&apps).
		Error
	if err != nil {
		return nil, storageError(err)
	}
	return apps, nil
}

// ListAll returns every application regardless of owner. Admin only.
func (e *Engine) ListAll(ctx context.Context, actor Actor) ([]models.Application, error) {
	if !actor.Admin {
		return nil, authorizationError("administrative capability required")
	}
	var apps []models.Application
	err := e.db.WithContext(ctx).
		Model(&models.Application{}).
		Order("created_at desc").
		Find(&apps).
		Error
	if err != nil {
		return nil, storageError(err)
	}
	return apps, nil
}

func (e *Engine) getApplication(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Application, error) {
	var app models.Application
	err := tx.WithContext(ctx).
		Model(&models.Application{}).
		Where("id = ?", id).
		First(&app).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFoundError("application %s does not exist", id)
	}
	if err != nil {
		return nil, storageError(err)
	}
	return &app, nil
}

// SetStatus moves an application to approved or rejected. Idempotent when the
// application is already in the target state. Payment status is never touched
// here: rejecting an already-paid application does not reverse the payment.
func (e *Engine) SetStatus(ctx context.Context, actor Actor, id uuid.UUID, status types.ApplicationStatus) (*models.Application, error) {
	if !actor.Admin {
		return nil, authorizationError("administrative capability required")
	}
	if status != types.APPLICATION_APPROVED && status != types.APPLICATION_REJECTED {
		return nil, validationError("status must be approved or rejected")
	}
	var app *models.Application
	err := e.db.Transaction(func(tx *gorm.DB) error {
		var err error
		app, err = e.getApplication(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := tx.WithContext(ctx).
			Model(&models.Application{}).
			Where("id = ?", id).
			Update("status", status).
			Error; err != nil {
			return storageError(err)
		}
		app.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.notify("Updated", fmt.Sprintf("Application %s.", status), notify.SEVERITY_INFO)
	return app, nil
}

// Pay charges the fixed pass fee for an approved, unpaid application owned by
// the actor. The payment record insert and the paid flip happen in one
// database transaction, and the flip is guarded by the unpaid precondition so
// concurrent calls settle to exactly one payment.
func (e *Engine) Pay(ctx context.Context, actor Actor, id uuid.UUID, input PayInput) (*models.Application, *models.Payment, error) {
	app, err := e.getApplication(ctx, e.db, id)
	if err != nil {
		return nil, nil, err
	}
	if app.UserID != actor.ID {
		return nil, nil, authorizationError("application belongs to another user")
	}
	if app.Status != types.APPLICATION_APPROVED {
		return nil, nil, invalidStateError("application must be approved before payment")
	}
	if app.PaymentStatus != types.PAYMENT_UNPAID {
		return nil, nil, invalidStateError("application is already paid")
	}

	mode := strings.TrimSpace(input.Mode)
	if mode == "" {
		mode = "card"
	}
	referenceID := utils.GenerateReferenceID(actor.ID)

	err = e.gateway.Charge(ctx, ChargeRequest{
		ReferenceID: referenceID,
		Amount:      e.amount,
		Currency:    e.currency,
		Mode:        mode,
		Description: fmt.Sprintf("Bus pass fee for application %s", app.ID),
	})
	if err != nil {
		log.Printf("Payment gateway declined charge %s: %s\n", referenceID, err.Error())
		e.notify("Payment failed", err.Error(), notify.SEVERITY_ERROR)
		return nil, nil, fmt.Errorf("%w: payment was not processed: %s", ErrStorage, err.Error())
	}

	payment := models.Payment{
		ID:            uuid.New(),
		ApplicationID: app.ID,
		UserID:        actor.ID,
		Amount:        e.amount,
		Currency:      e.currency,
		Mode:          mode,
		ReferenceID:   referenceID,
		PaidAt:        time.Now(),
	}
	err = e.db.Transaction(func(tx *gorm.DB) error {
		res := tx.WithContext(ctx).
			Model(&models.Application{}).
			Where("id = ? AND status = ? AND payment_status = ?", id, types.APPLICATION_APPROVED, types.PAYMENT_UNPAID).
			Update("payment_status", types.PAYMENT_PAID)
		if res.Error != nil {
			return storageError(res.Error)
		}
		if res.RowsAffected == 0 {
			// Lost a race: someone else paid since the precondition read.
			return invalidStateError("application is no longer awaiting payment")
		}
		if err := tx.WithContext(ctx).Create(&payment).Error; err != nil {
			return storageError(err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	app.PaymentStatus = types.PAYMENT_PAID
	e.notify("Payment successful!", "Your bus pass has been paid.", notify.SEVERITY_SUCCESS)
	return app, &payment, nil
}

// Renew copies an approved application into a brand-new pending, unpaid one.
// The original is left untouched.
func (e *Engine) Renew(ctx context.Context, actor Actor, id uuid.UUID) (*models.Application, error) {
	app, err := e.getApplication(ctx, e.db, id)
	if err != nil {
		return nil, err
	}
	if app.UserID != actor.ID {
		return nil, authorizationError("application belongs to another user")
	}
	if app.Status != types.APPLICATION_APPROVED {
		return nil, invalidStateError("only approved applications can be renewed")
	}
	renewal := models.Application{
		ID:            uuid.New(),
		UserID:        app.UserID,
		StudentName:   app.StudentName,
		CollegeName:   app.CollegeName,
		Department:    app.Department,
		Year:          app.Year,
		RouteFrom:     app.RouteFrom,
		RouteTo:       app.RouteTo,
		Status:        types.APPLICATION_PENDING,
		PaymentStatus: types.PAYMENT_UNPAID,
	}
	if err := e.db.WithContext(ctx).Create(&renewal).Error; err != nil {
		log.Printf("Error renewing Application [%s]: %s\n", id, err.Error())
		return nil, storageError(err)
	}
	e.notify("Application Submitted!", "Your renewal application is under review.", notify.SEVERITY_SUCCESS)
	return &renewal, nil
}

// ListPayments returns the actor's payments, most recent first.
func (e *Engine) ListPayments(ctx context.Context, actor Actor) ([]models.Payment, error) {
	var payments []models.Payment
	err := e.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where(&models.Payment{UserID: actor.ID}).
		Order("paid_at desc").
		Find(&payments).
		Error
	if err != nil {
		return nil, storageError(err)
	}
	return payments, nil
}

// DerivePass projects an approved, paid application into a PassView. Pure
// read; available to the owner and to admins.
func (e *Engine) DerivePass(ctx context.Context, actor Actor, id uuid.UUID) (*PassView, error) {
	app, err := e.getApplication(ctx, e.db, id)
	if err != nil {
		return nil, err
	}
	if app.UserID != actor.ID && !actor.Admin {
		return nil, authorizationError("application belongs to another user")
	}
	if app.Status != types.APPLICATION_APPROVED || app.PaymentStatus != types.PAYMENT_PAID {
		return nil, invalidStateError("pass not available")
	}
	token, err := json.Marshal(map[string]any{
		"applicationId": app.ID,
		"ownerId":       app.UserID,
		"studentName":   app.StudentName,
		"route":         fmt.Sprintf("%s - %s", app.RouteFrom, app.RouteTo),
	})
	if err != nil {
		return nil, storageError(err)
	}
	return &PassView{
		ApplicationID:     app.ID,
		OwnerID:           app.UserID,
		StudentName:       app.StudentName,
		RouteFrom:         app.RouteFrom,
		RouteTo:           app.RouteTo,
		VerificationToken: string(token),
	}, nil
}

// Stats counts applications per status for the admin dashboard.
type Stats struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}

func (e *Engine) GetStats(ctx context.Context, actor Actor) (*Stats, error) {
	if !actor.Admin {
		return nil, authorizationError("administrative capability required")
	}
	var stats Stats
	counts := []struct {
		status types.ApplicationStatus
		dest   *int64
	}{
		{types.APPLICATION_PENDING, &stats.Pending},
		{types.APPLICATION_APPROVED, &stats.Approved},
		{types.APPLICATION_REJECTED, &stats.Rejected},
	}
	if err := e.db.WithContext(ctx).
		Model(&models.Application{}).
		Count(&stats.Total).
		Error; err != nil {
		return nil, storageError(err)
	}
	for _, c := range counts {
		if err := e.db.WithContext(ctx).
			Model(&models.Application{}).
			Where("status = ?", c.status).
			Count(c.dest).
			Error; err != nil {
			return nil, storageError(err)
		}
	}
	return &stats, nil
}
