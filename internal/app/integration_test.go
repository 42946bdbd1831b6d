package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/FullFarming/v0-invoice-management-system/internal/app/controller"
	"github.com/FullFarming/v0-invoice-management-system/internal/app/repository"
	"github.com/FullFarming/v0-invoice-management-system/internal/app/service"
	"github.com/FullFarming/v0-invoice-management-system/internal/db"
	"github.com/FullFarming/v0-invoice-management-system/internal/middleware"
	"github.com/FullFarming/v0-invoice-management-system/pkg/referral"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type TestServer struct {
	Router      *gin.Engine
	DB          *gorm.DB
	AuthService service.AuthService
}

func setupIntegrationTest(t *testing.T) *TestServer {
	gin.SetMode(gin.TestMode)

	// Setup database
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	// Setup repositories
	userRepo := repository.NewUserRepository(testDB)
	invoiceRepo := repository.NewInvoiceRepository(testDB)
	employeeRepo := repository.NewEmployeeRepository(testDB)
	rateRepo := repository.NewExchangeRateRepository(testDB)

	// Setup services
	authService := service.NewAuthService(
		userRepo,
		"test-secret",
		15*time.Minute,
		7*24*time.Hour,
	)
	notificationService := service.NewNotificationService(nil)
	invoiceService := service.NewInvoiceService(invoiceRepo, employeeRepo, referral.NewBracketPolicy(), notificationService)
	approvalService := service.NewApprovalService(invoiceRepo, rateRepo, notificationService)
	exportService := service.NewExportService(invoiceRepo)

	// Setup controllers
	authController := controller.NewAuthController(authService)
	invoiceController := controller.NewInvoiceController(invoiceService, exportService)
	approvalController := controller.NewApprovalController(approvalService)

	// Setup middleware
	authMiddleware := middleware.NewAuthMiddleware("test-secret")

	// Setup router
	router := gin.New()

	// Auth routes
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.GET("/me", authMiddleware.Authenticate(), authController.GetMe)
	}

	// Invoice routes
	invoices := router.Group("/api/v1/invoices")
	invoices.Use(authMiddleware.Authenticate())
	{
		invoices.POST("", invoiceController.Submit)
		invoices.GET("", invoiceController.ListMine)
		invoices.GET("/:number", invoiceController.GetByNumber)
		invoices.DELETE("/:number", invoiceController.Delete)
		invoices.POST("/:number/approve", approvalController.Approve)
		invoices.POST("/:number/reject", approvalController.Reject)
	}

	// Inbox routes
	inbox := router.Group("/api/v1/inbox")
	inbox.Use(authMiddleware.Authenticate())
	{
		inbox.GET("/pending", approvalController.PendingForMe)
		inbox.GET("/completed", approvalController.CompletedByMe)
	}

	return &TestServer{
		Router:      router,
		DB:          testDB,
		AuthService: authService,
	}
}

func (ts *TestServer) registerUser(t *testing.T, email, name, department string) string {
	_, tokens, err := ts.AuthService.Register(email, "password123", name, department, "과장")
	require.NoError(t, err)
	return tokens.AccessToken
}

func (ts *TestServer) doJSON(method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		b, _ := json.Marshal(payload)
		body = bytes.NewBuffer(b)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	return w
}

func customerInvoicePayload() map[string]interface{} {
	return map[string]interface{}{
		"type":              "customer",
		"project_name":      "강남 오피스 임대차 자문",
		"company_name":      "삼성물산",
		"total_amount":      50000000,
		"currency":          "KRW",
		"contract_attached": true,
		"approvers": []map[string]string{
			{"email": "manager@company.com"},
			{"email": "director@company.com"},
		},
		"fee_shares": []map[string]interface{}{
			{"email": "cskim@company.com", "team": "영업팀", "percentage": 60, "amount": 30000000},
			{"email": "yhlee@company.com", "team": "자문팀", "percentage": 40, "amount": 20000000},
		},
	}
}

func TestCompleteApprovalJourney(t *testing.T) {
	ts := setupIntegrationTest(t)
	defer db.CleanupTestDB(ts.DB)

	// 1. Register the creator and both approvers
	t.Log("Step 1: Register users")
	creatorToken := ts.registerUser(t, "cskim@company.com", "김철수", "영업팀")
	managerToken := ts.registerUser(t, "manager@company.com", "박부장", "영업팀")
	directorToken := ts.registerUser(t, "director@company.com", "이사장", "경영지원팀")

	// 2. Submit a customer invoice
	t.Log("Step 2: Submit invoice")
	w := ts.doJSON("POST", "/api/v1/invoices", creatorToken, customerInvoicePayload())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var submitResp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &submitResp))
	invoice := submitResp["invoice"].(map[string]interface{})
	number := invoice["invoice_number"].(string)
	assert.Contains(t, number, "CI-")
	assert.Equal(t, "pending", invoice["status"])

	// 3. Second approver cannot act before the first
	t.Log("Step 3: Out-of-turn approval is refused")
	w = ts.doJSON("POST", fmt.Sprintf("/api/v1/invoices/%s/approve", number), directorToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "APPROVAL_OUT_OF_TURN")

	// 4. Invoice shows up in the first approver's inbox
	t.Log("Step 4: Pending inbox")
	w = ts.doJSON("GET", "/api/v1/inbox/pending", managerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var inboxResp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &inboxResp))
	assert.Equal(t, float64(1), inboxResp["count"])

	// 5. First approver approves
	t.Log("Step 5: First approval")
	w = ts.doJSON("POST", fmt.Sprintf("/api/v1/invoices/%s/approve", number), managerToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// The invoice moves out of the first approver's queue
	w = ts.doJSON("GET", "/api/v1/inbox/pending", managerToken, nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &inboxResp))
	assert.Equal(t, float64(0), inboxResp["count"])

	// ...and into their completed list
	w = ts.doJSON("GET", "/api/v1/inbox/completed", managerToken, nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &inboxResp))
	assert.Equal(t, float64(1), inboxResp["count"])

	// 6. Second approver finalizes the invoice
	t.Log("Step 6: Final approval")
	w = ts.doJSON("POST", fmt.Sprintf("/api/v1/invoices/%s/approve", number), directorToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var approveResp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &approveResp))
	approved := approveResp["invoice"].(map[string]interface{})
	assert.Equal(t, "approved", approved["status"])

	// 7. Further decisions are refused
	t.Log("Step 7: Terminal invoice refuses decisions")
	w = ts.doJSON("POST", fmt.Sprintf("/api/v1/invoices/%s/approve", number), managerToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "APPROVAL_TERMINAL")

	// 8. The creator sees the final state
	t.Log("Step 8: Invoice detail")
	w = ts.doJSON("GET", fmt.Sprintf("/api/v1/invoices/%s", number), creatorToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var detailResp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detailResp))
	detail := detailResp["invoice"].(map[string]interface{})
	assert.Equal(t, "approved", detail["status"])
}

func TestRejectionJourney(t *testing.T) {
	ts := setupIntegrationTest(t)
	defer db.CleanupTestDB(ts.DB)

	creatorToken := ts.registerUser(t, "cskim@company.com", "김철수", "영업팀")
	managerToken := ts.registerUser(t, "manager@company.com", "박부장", "영업팀")
	ts.registerUser(t, "director@company.com", "이사장", "경영지원팀")

	// Submit
	w := ts.doJSON("POST", "/api/v1/invoices", creatorToken, customerInvoicePayload())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var submitResp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &submitResp))
	number := submitResp["invoice"].(map[string]interface{})["invoice_number"].(string)

	// Rejection without a comment is refused
	w = ts.doJSON("POST", fmt.Sprintf("/api/v1/invoices/%s/reject", number), managerToken, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "APPROVAL_COMMENT_EMPTY")

	// Rejection with a comment terminates the invoice
	w = ts.doJSON("POST", fmt.Sprintf("/api/v1/invoices/%s/reject", number), managerToken, map[string]string{
		"comment": "금액 근거 자료가 부족합니다",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var rejectResp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rejectResp))
	rejected := rejectResp["invoice"].(map[string]interface{})
	assert.Equal(t, "rejected", rejected["status"])

	// A rejected invoice accepts no further decisions
	w = ts.doJSON("POST", fmt.Sprintf("/api/v1/invoices/%s/approve", number), managerToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "APPROVAL_TERMINAL")
}

func TestSubmissionValidationJourney(t *testing.T) {
	ts := setupIntegrationTest(t)
	defer db.CleanupTestDB(ts.DB)

	creatorToken := ts.registerUser(t, "cskim@company.com", "김철수", "영업팀")

	// Customer invoice without the contract confirmation flag
	payload := customerInvoicePayload()
	payload["contract_attached"] = false
	w := ts.doJSON("POST", "/api/v1/invoices", creatorToken, payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVOICE_ATTACHMENT_FLAG")

	// Incomplete fee sharing
	payload = customerInvoicePayload()
	payload["fee_shares"] = []map[string]interface{}{
		{"email": "cskim@company.com", "team": "영업팀", "percentage": 60, "amount": 30000000},
	}
	w = ts.doJSON("POST", "/api/v1/invoices", creatorToken, payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVOICE_SHARES_INCOMPLETE")

	// Unauthenticated submission
	w = ts.doJSON("POST", "/api/v1/invoices", "", customerInvoicePayload())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPlusOneReferralJourney(t *testing.T) {
	ts := setupIntegrationTest(t)
	defer db.CleanupTestDB(ts.DB)

	creatorToken := ts.registerUser(t, "cskim@company.com", "김철수", "영업팀")
	managerToken := ts.registerUser(t, "manager@company.com", "박부장", "영업팀")

	// 10M KRW net revenue falls in the 500k award bracket,
	// split evenly between two beneficiaries.
	payload := map[string]interface{}{
		"type":         "plusone",
		"project_name": "판교 물류센터 소개",
		"company_name": "쿠팡",
		"total_amount": 10000000,
		"currency":     "KRW",
		"approvers": []map[string]string{
			{"email": "manager@company.com"},
		},
		"fee_shares": []map[string]interface{}{
			{"email": "cskim@company.com", "team": "영업팀", "percentage": 100, "amount": 10000000},
		},
		"beneficiaries": []map[string]interface{}{
			{"name": "김철수", "email": "cskim@company.com", "share_percentage": 50},
			{"name": "이영희", "email": "yhlee@company.com", "share_percentage": 50},
		},
	}

	w := ts.doJSON("POST", "/api/v1/invoices", creatorToken, payload)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var submitResp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &submitResp))
	invoice := submitResp["invoice"].(map[string]interface{})
	number := invoice["invoice_number"].(string)
	assert.Contains(t, number, "PO-")
	assert.Equal(t, float64(500000), invoice["referral_amount"])

	// Single approver finalizes in one step
	w = ts.doJSON("POST", fmt.Sprintf("/api/v1/invoices/%s/approve", number), managerToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var approveResp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &approveResp))
	assert.Equal(t, "approved", approveResp["invoice"].(map[string]interface{})["status"])
}
