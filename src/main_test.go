package main

import (
	"buspass/src/db"
	"buspass/src/lib"
	"buspass/src/lifecycle"
	"buspass/src/models"
	"buspass/src/types"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/tidwall/gjson"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type TestSuite struct {
	suite.Suite
	DB     *gorm.DB
	Router *gin.Engine
}

func (s *TestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)

	d, err := gorm.Open(sqlite.Open("file:apitest?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		log.Fatalf("error opening test database: %s", err.Error())
	}
	sqlDB, err := d.DB()
	if err != nil {
		log.Fatalf("error opening test database: %s", err.Error())
	}
	sqlDB.SetMaxOpenConns(1)
	db.NewDB(d)
	s.DB = d

	err = d.AutoMigrate(
		&models.User{},
		&models.Application{},
		&models.Payment{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	hash, _ := bcrypt.GenerateFromPassword([]byte("admin-password"), bcrypt.DefaultCost)
	adminUser := models.User{
		Name:         "Administrator",
		Email:        "admin@example.com",
		Role:         types.ROLE_ADMIN,
		PasswordHash: string(hash),
	}
	if err := d.Create(&adminUser).Error; err != nil {
		log.Fatalf("error seeding admin: %s", err.Error())
	}

	engine := lifecycle.NewEngine(d, lib.NewSimulatedGateway(0), nil)
	s.Router = setupRouter(engine)
}

func (s *TestSuite) request(method string, target string, body any, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.T(), err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	}
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)
	return w
}

func (s *TestSuite) registerStudent(email string) string {
	w := s.request(http.MethodPost, "/api/v1/auth/register", map[string]string{
		"name":     "Alice",
		"email":    email,
		"password": "secret-password",
	}, "")
	require.Equal(s.T(), http.StatusCreated, w.Code)
	return gjson.Get(w.Body.String(), "token").String()
}

func (s *TestSuite) loginAdmin() string {
	w := s.request(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    "admin@example.com",
		"password": "admin-password",
	}, "")
	require.Equal(s.T(), http.StatusOK, w.Code)
	return gjson.Get(w.Body.String(), "token").String()
}

func validApplicationBody() map[string]string {
	return map[string]string{
		"student_name": "Alice",
		"college_name": "MIT",
		"department":   "CS",
		"year":         "2",
		"route_from":   "North Gate",
		"route_to":     "Central Station",
	}
}

func (s *TestSuite) TestApplicationLifecycleScenario() {
	t := s.T()
	studentToken := s.registerStudent("alice@example.com")
	adminToken := s.loginAdmin()

	// Submit
	w := s.request(http.MethodPost, "/api/v1/applications", validApplicationBody(), studentToken)
	require.Equal(t, http.StatusCreated, w.Code)
	body := w.Body.String()
	appID := gjson.Get(body, "data.id").String()
	assert.Equal(t, "pending", gjson.Get(body, "data.status").String())
	assert.Equal(t, "unpaid", gjson.Get(body, "data.payment_status").String())

	// Students cannot reach the admin surface.
	w = s.request(http.MethodGet, "/api/v1/admin/applications", nil, studentToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Paying before approval is rejected.
	w = s.request(http.MethodPost, fmt.Sprintf("/api/v1/applications/%s/pay", appID), map[string]string{}, studentToken)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Admin sees and approves it.
	w = s.request(http.MethodGet, "/api/v1/admin/applications", nil, adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.GreaterOrEqual(t, gjson.Get(w.Body.String(), "count").Int(), int64(1))

	w = s.request(http.MethodPut, fmt.Sprintf("/api/v1/admin/applications/%s/status", appID), map[string]string{
		"status": "approved",
	}, adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "approved", gjson.Get(w.Body.String(), "data.status").String())

	// No pass before payment.
	w = s.request(http.MethodGet, fmt.Sprintf("/api/v1/applications/%s/pass", appID), nil, studentToken)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Pay the fixed fee.
	w = s.request(http.MethodPost, fmt.Sprintf("/api/v1/applications/%s/pay", appID), map[string]string{
		"card_number": "4242 4242 4242 4242",
		"card_expiry": "12/28",
		"card_cvc":    "123",
	}, studentToken)
	require.Equal(t, http.StatusOK, w.Code)
	body = w.Body.String()
	assert.Equal(t, "paid", gjson.Get(body, "data.payment_status").String())
	assert.Equal(t, int64(1500), gjson.Get(body, "payment.amount").Int())
	assert.Equal(t, "card", gjson.Get(body, "payment.mode").String())
	assert.NotEmpty(t, gjson.Get(body, "payment.reference_id").String())

	// Double payment is blocked.
	w = s.request(http.MethodPost, fmt.Sprintf("/api/v1/applications/%s/pay", appID), map[string]string{}, studentToken)
	assert.Equal(t, http.StatusConflict, w.Code)

	// The pass is now derivable and its token carries both ids.
	w = s.request(http.MethodGet, fmt.Sprintf("/api/v1/applications/%s/pass", appID), nil, studentToken)
	require.Equal(t, http.StatusOK, w.Code)
	token := gjson.Get(w.Body.String(), "data.verification_token").String()
	require.True(t, gjson.Valid(token))
	assert.Equal(t, appID, gjson.Get(token, "applicationId").String())
	assert.Positive(t, gjson.Get(token, "ownerId").Int())

	// Renewal yields a fresh pending, unpaid application with the same
	// descriptive fields.
	w = s.request(http.MethodPost, fmt.Sprintf("/api/v1/applications/%s/renew", appID), nil, studentToken)
	require.Equal(t, http.StatusCreated, w.Code)
	body = w.Body.String()
	assert.NotEqual(t, appID, gjson.Get(body, "data.id").String())
	assert.Equal(t, "pending", gjson.Get(body, "data.status").String())
	assert.Equal(t, "unpaid", gjson.Get(body, "data.payment_status").String())
	assert.Equal(t, "Central Station", gjson.Get(body, "data.route_to").String())

	// Payment ledger lists the single payment.
	w = s.request(http.MethodGet, "/api/v1/payments", nil, studentToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), gjson.Get(w.Body.String(), "count").Int())

	// Dashboard stats reflect both applications.
	w = s.request(http.MethodGet, "/api/v1/admin/stats", nil, adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	body = w.Body.String()
	assert.GreaterOrEqual(t, gjson.Get(body, "data.total").Int(), int64(2))
	assert.GreaterOrEqual(t, gjson.Get(body, "data.pending").Int(), int64(1))
}

func (s *TestSuite) TestSubmitValidation() {
	t := s.T()
	token := s.registerStudent("bob@example.com")

	body := validApplicationBody()
	body["year"] = "5"
	w := s.request(http.MethodPost, "/api/v1/applications", body, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	delete(body, "year")
	body["route_from"] = ""
	w = s.request(http.MethodPost, "/api/v1/applications", body, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Whitespace-only fields pass the binding layer but not the engine.
	body = validApplicationBody()
	body["department"] = "   "
	w = s.request(http.MethodPost, "/api/v1/applications", body, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func (s *TestSuite) TestRequestsWithoutTokenAreRejected() {
	t := s.T()
	w := s.request(http.MethodGet, "/api/v1/applications", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.request(http.MethodGet, "/api/v1/admin/applications", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func (s *TestSuite) TestMalformedBearerHeaderIsRejected() {
	t := s.T()
	for _, header := range []string{"Bearer", "Bearer ", "Bearertoken"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/applications", nil)
		req.Header.Set("Authorization", header)
		w := httptest.NewRecorder()
		s.Router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}
}

func TestSuiteRun(t *testing.T) {
	suite.Run(t, new(TestSuite))
}
