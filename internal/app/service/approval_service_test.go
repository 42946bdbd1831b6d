package service

import (
	"testing"

	"github.com/FullFarming/v0-invoice-management-system/internal/app/model"
	"github.com/FullFarming/v0-invoice-management-system/internal/app/repository"
	"github.com/FullFarming/v0-invoice-management-system/internal/db"
	"github.com/FullFarming/v0-invoice-management-system/pkg/referral"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupApprovalServiceTest(t *testing.T) (InvoiceService, ApprovalService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	invoiceRepo := repository.NewInvoiceRepository(testDB)
	employeeRepo := repository.NewEmployeeRepository(testDB)
	rateRepo := repository.NewExchangeRateRepository(testDB)
	notifier := NewNotificationService(nil)

	invoiceService := NewInvoiceService(invoiceRepo, employeeRepo, referral.NewBracketPolicy(), notifier)
	approvalService := NewApprovalService(invoiceRepo, rateRepo, notifier)
	return invoiceService, approvalService, testDB
}

func submitPendingInvoice(t *testing.T, invoiceService InvoiceService) *model.Invoice {
	invoice, err := invoiceService.Submit("cskim@company.com", validSubmission())
	require.NoError(t, err)
	return invoice
}

func TestApprovalService_Approve_FirstStep(t *testing.T) {
	invoiceService, approvalService, _ := setupApprovalServiceTest(t)
	invoice := submitPendingInvoice(t, invoiceService)

	updated, err := approvalService.Approve(invoice.InvoiceNumber, "a@company.com")
	require.NoError(t, err)

	assert.Equal(t, model.InvoiceStatusPending, updated.Status)
	assert.Equal(t, 2, updated.CurrentApprovalStep)
	assert.Equal(t, 2, updated.Version)

	// 첫 단계 기록이 승인으로 남는다
	fetched, err := invoiceService.GetByNumber(invoice.InvoiceNumber)
	require.NoError(t, err)
	require.Len(t, fetched.ApprovalSteps, 2)
	assert.Equal(t, model.StepStatusApproved, fetched.ApprovalSteps[0].Status)
	assert.NotNil(t, fetched.ApprovalSteps[0].Timestamp)
	assert.Equal(t, model.StepStatusPending, fetched.ApprovalSteps[1].Status)
}

func TestApprovalService_Approve_OutOfTurn(t *testing.T) {
	invoiceService, approvalService, _ := setupApprovalServiceTest(t)
	invoice := submitPendingInvoice(t, invoiceService)

	// 두 번째 승인자가 첫 번째보다 먼저 시도
	_, err := approvalService.Approve(invoice.InvoiceNumber, "b@company.com")
	assert.ErrorIs(t, err, ErrApprovalOutOfTurn)

	// 승인자가 아닌 사람
	_, err = approvalService.Approve(invoice.InvoiceNumber, "stranger@company.com")
	assert.ErrorIs(t, err, ErrApprovalOutOfTurn)

	// 상태는 그대로
	fetched, err := invoiceService.GetByNumber(invoice.InvoiceNumber)
	require.NoError(t, err)
	assert.Equal(t, 1, fetched.CurrentApprovalStep)
	assert.Equal(t, model.InvoiceStatusPending, fetched.Status)
}

func TestApprovalService_Approve_Completes(t *testing.T) {
	invoiceService, approvalService, _ := setupApprovalServiceTest(t)
	invoice := submitPendingInvoice(t, invoiceService)

	_, err := approvalService.Approve(invoice.InvoiceNumber, "a@company.com")
	require.NoError(t, err)

	updated, err := approvalService.Approve(invoice.InvoiceNumber, "b@company.com")
	require.NoError(t, err)

	assert.Equal(t, model.InvoiceStatusApproved, updated.Status)
	assert.Equal(t, 3, updated.CurrentApprovalStep)

	fetched, err := invoiceService.GetByNumber(invoice.InvoiceNumber)
	require.NoError(t, err)
	for _, step := range fetched.ApprovalSteps {
		assert.Equal(t, model.StepStatusApproved, step.Status)
	}
}

func TestApprovalService_Approve_Terminal(t *testing.T) {
	invoiceService, approvalService, _ := setupApprovalServiceTest(t)
	invoice := submitPendingInvoice(t, invoiceService)

	_, err := approvalService.Approve(invoice.InvoiceNumber, "a@company.com")
	require.NoError(t, err)
	_, err = approvalService.Approve(invoice.InvoiceNumber, "b@company.com")
	require.NoError(t, err)

	// 이미 승인 완료된 인보이스는 더 이상 처리할 수 없다
	_, err = approvalService.Approve(invoice.InvoiceNumber, "b@company.com")
	assert.ErrorIs(t, err, ErrApprovalTerminal)
	_, err = approvalService.Reject(invoice.InvoiceNumber, "b@company.com", "늦은 반려")
	assert.ErrorIs(t, err, ErrApprovalTerminal)
}

func TestApprovalService_Approve_NotFound(t *testing.T) {
	_, approvalService, _ := setupApprovalServiceTest(t)

	_, err := approvalService.Approve("CI-00000000-000", "a@company.com")
	assert.ErrorIs(t, err, ErrInvoiceNotFound)
}

func TestApprovalService_Reject(t *testing.T) {
	invoiceService, approvalService, _ := setupApprovalServiceTest(t)
	invoice := submitPendingInvoice(t, invoiceService)

	_, err := approvalService.Approve(invoice.InvoiceNumber, "a@company.com")
	require.NoError(t, err)

	updated, err := approvalService.Reject(invoice.InvoiceNumber, "b@company.com", "금액 근거 자료가 부족합니다")
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusRejected, updated.Status)

	fetched, err := invoiceService.GetByNumber(invoice.InvoiceNumber)
	require.NoError(t, err)
	require.Len(t, fetched.ApprovalSteps, 2)
	assert.Equal(t, model.StepStatusApproved, fetched.ApprovalSteps[0].Status)
	assert.Equal(t, model.StepStatusRejected, fetched.ApprovalSteps[1].Status)
	assert.Equal(t, "금액 근거 자료가 부족합니다", fetched.ApprovalSteps[1].Comment)
	assert.NotNil(t, fetched.ApprovalSteps[1].Timestamp)

	// 반려는 종결 상태
	_, err = approvalService.Approve(invoice.InvoiceNumber, "b@company.com")
	assert.ErrorIs(t, err, ErrApprovalTerminal)
}

func TestApprovalService_Reject_CommentRequired(t *testing.T) {
	invoiceService, approvalService, _ := setupApprovalServiceTest(t)
	invoice := submitPendingInvoice(t, invoiceService)

	_, err := approvalService.Reject(invoice.InvoiceNumber, "a@company.com", "  ")
	assert.ErrorIs(t, err, ErrCommentRequired)
}

func TestApprovalService_PendingForMe(t *testing.T) {
	invoiceService, approvalService, _ := setupApprovalServiceTest(t)

	first := submitPendingInvoice(t, invoiceService)
	second := submitPendingInvoice(t, invoiceService)

	// 첫 번째 승인자 차례
	pending, err := approvalService.PendingForMe("a@company.com")
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	pending, err = approvalService.PendingForMe("b@company.com")
	require.NoError(t, err)
	assert.Empty(t, pending)

	// 한 건이 다음 단계로 넘어가면 두 번째 승인자 차례가 된다
	_, err = approvalService.Approve(first.InvoiceNumber, "a@company.com")
	require.NoError(t, err)

	pending, err = approvalService.PendingForMe("b@company.com")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, first.InvoiceNumber, pending[0].InvoiceNumber)

	pending, err = approvalService.PendingForMe("a@company.com")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, second.InvoiceNumber, pending[0].InvoiceNumber)

	// 승인 대기함도 같은 기준
	awaiting, err := approvalService.AwaitingApproval("b@company.com")
	require.NoError(t, err)
	assert.Len(t, awaiting, 1)
}

func TestApprovalService_CompletedByMe(t *testing.T) {
	invoiceService, approvalService, _ := setupApprovalServiceTest(t)

	invoice := submitPendingInvoice(t, invoiceService)

	completed, err := approvalService.CompletedByMe("a@company.com")
	require.NoError(t, err)
	assert.Empty(t, completed)

	_, err = approvalService.Approve(invoice.InvoiceNumber, "a@company.com")
	require.NoError(t, err)

	// 내 차례가 지났으면 진행 중이어도 완료함에 나타난다
	completed, err = approvalService.CompletedByMe("a@company.com")
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, invoice.InvoiceNumber, completed[0].InvoiceNumber)

	// 두 번째 승인자는 아직 처리 전
	completed, err = approvalService.CompletedByMe("b@company.com")
	require.NoError(t, err)
	assert.Empty(t, completed)

	_, err = approvalService.Reject(invoice.InvoiceNumber, "b@company.com", "반려합니다")
	require.NoError(t, err)

	completed, err = approvalService.CompletedByMe("b@company.com")
	require.NoError(t, err)
	assert.Len(t, completed, 1)
}

func TestApprovalService_MyAllocations(t *testing.T) {
	invoiceService, approvalService, testDB := setupApprovalServiceTest(t)

	require.NoError(t, testDB.Create(&model.ExchangeRate{Currency: "USD", RateToKRW: 1478.25}).Error)

	// KRW 건: cskim 배분 6천만원
	submitPendingInvoice(t, invoiceService)

	// USD 건: cskim 배분 600달러
	usd := validSubmission()
	usd.Currency = "USD"
	usd.TotalAmount = 1000
	usd.FeeShares = []model.FeeShare{
		{Email: "cskim@company.com", Team: "영업팀", Amount: 600, Percentage: 60},
		{Email: "yhlee@company.com", Team: "재무팀", Amount: 400, Percentage: 40},
	}
	_, err := invoiceService.Submit("cskim@company.com", usd)
	require.NoError(t, err)

	summary, err := approvalService.MyAllocations("cskim@company.com")
	require.NoError(t, err)
	require.Len(t, summary.Rows, 2)
	assert.InDelta(t, 60000000+600*1478.25, summary.TotalKRW, 0.01)

	empty, err := approvalService.MyAllocations("nobody@company.com")
	require.NoError(t, err)
	assert.Empty(t, empty.Rows)
	assert.Zero(t, empty.TotalKRW)
}
