package service

import (
	"testing"
	"time"

	"github.com/FullFarming/v0-invoice-management-system/internal/app/model"
	"github.com/FullFarming/v0-invoice-management-system/internal/app/repository"
	"github.com/FullFarming/v0-invoice-management-system/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupSocServiceTest(t *testing.T) (SocService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	socCompany := &model.Company{
		Name:           "삼성전자",
		BusinessNumber: "124-81-00998",
		Kind:           model.CompanyKindCustomer,
		IsSoc:          true,
		SocInvestment:  "3,800억 원",
		SocPercentage:  "5.2%",
	}
	require.NoError(t, testDB.Create(socCompany).Error)
	require.NoError(t, testDB.Create(&model.Company{
		Name:           "글로벌미디어",
		BusinessNumber: "211-88-12345",
		Kind:           model.CompanyKindSupplier,
	}).Error)

	socRepo := repository.NewSocRepository(testDB)
	companyRepo := repository.NewCompanyRepository(testDB)
	return NewSocService(socRepo, companyRepo), testDB
}

func TestSocService_CheckCompany(t *testing.T) {
	socService, _ := setupSocServiceTest(t)

	// 회사명으로 조회
	result, err := socService.CheckCompany("삼성전자")
	require.NoError(t, err)
	assert.True(t, result.IsSoc)
	assert.Equal(t, "3,800억 원", result.Company.SocInvestment)

	// 사업자등록번호로 조회
	result, err = socService.CheckCompany("211-88-12345")
	require.NoError(t, err)
	assert.False(t, result.IsSoc)
	assert.Equal(t, "글로벌미디어", result.Company.Name)

	// 일치하는 회사 없음
	_, err = socService.CheckCompany("없는회사")
	assert.ErrorIs(t, err, ErrSocCompanyNotFound)

	// 빈 검색어
	_, err = socService.CheckCompany("  ")
	assert.ErrorIs(t, err, ErrSocCompanyRequired)
}

func TestSocService_CreateRequest(t *testing.T) {
	socService, _ := setupSocServiceTest(t)

	request, err := socService.CreateRequest("cskim@company.com", "김철수", "삼성전자", "정부 과제 계약용 SOC 확인 요청")
	require.NoError(t, err)

	assert.Equal(t, model.SocStatusPending, request.Status)
	assert.Equal(t, "cskim@company.com", request.RequesterEmail)
	// 디렉터리에 있는 회사는 SOC 상태가 스냅샷으로 저장된다
	assert.True(t, request.IsSoc)
	assert.Equal(t, "124-81-00998", request.BusinessNumber)
	assert.NotZero(t, request.CompanyID)
}

func TestSocService_CreateRequest_UnknownCompany(t *testing.T) {
	socService, _ := setupSocServiceTest(t)

	// 디렉터리에 없는 회사도 요청은 가능하며 스냅샷 없이 생성된다
	request, err := socService.CreateRequest("cskim@company.com", "김철수", "신규거래처", "신규 거래처 SOC 확인")
	require.NoError(t, err)
	assert.False(t, request.IsSoc)
	assert.Zero(t, request.CompanyID)
}

func TestSocService_CreateRequest_Validation(t *testing.T) {
	socService, _ := setupSocServiceTest(t)

	_, err := socService.CreateRequest("cskim@company.com", "김철수", "", "내용")
	assert.ErrorIs(t, err, ErrSocCompanyRequired)

	_, err = socService.CreateRequest("cskim@company.com", "김철수", "삼성전자", "   ")
	assert.ErrorIs(t, err, ErrSocDetailsRequired)
}

func TestSocService_Approve_IssuesConfirmation(t *testing.T) {
	socService, _ := setupSocServiceTest(t)

	request, err := socService.CreateRequest("cskim@company.com", "김철수", "삼성전자", "정부 과제 계약용")
	require.NoError(t, err)

	approved, err := socService.Approve(request.ID, "admin@company.com")
	require.NoError(t, err)
	assert.Equal(t, model.SocStatusApproved, approved.Status)
	assert.Equal(t, "admin@company.com", approved.DecidedBy)
	require.NotNil(t, approved.DecidedAt)

	// 승인과 함께 1년 유효 확인서가 발급된다
	confirmations, err := socService.Confirmations("삼성전자")
	require.NoError(t, err)
	require.Len(t, confirmations, 1)
	assert.Equal(t, request.ID, confirmations[0].RequestID)
	expectedExpiry := confirmations[0].ConfirmationDate.Add(365 * 24 * time.Hour)
	assert.WithinDuration(t, expectedExpiry, confirmations[0].ExpiryDate, time.Second)
}

func TestSocService_Reject(t *testing.T) {
	socService, _ := setupSocServiceTest(t)

	request, err := socService.CreateRequest("cskim@company.com", "김철수", "삼성전자", "정부 과제 계약용")
	require.NoError(t, err)

	// 사유 없는 반려는 거부
	_, err = socService.Reject(request.ID, "admin@company.com", "  ")
	assert.ErrorIs(t, err, ErrSocReasonRequired)

	rejected, err := socService.Reject(request.ID, "admin@company.com", "제출 자료가 불충분합니다")
	require.NoError(t, err)
	assert.Equal(t, model.SocStatusRejected, rejected.Status)
	assert.Equal(t, "제출 자료가 불충분합니다", rejected.RejectReason)

	// 반려된 요청은 종결 상태
	_, err = socService.Approve(request.ID, "admin@company.com")
	assert.ErrorIs(t, err, ErrSocRequestTerminal)
}

func TestSocService_Approve_Terminal(t *testing.T) {
	socService, _ := setupSocServiceTest(t)

	request, err := socService.CreateRequest("cskim@company.com", "김철수", "삼성전자", "정부 과제 계약용")
	require.NoError(t, err)

	_, err = socService.Approve(request.ID, "admin@company.com")
	require.NoError(t, err)

	_, err = socService.Approve(request.ID, "admin@company.com")
	assert.ErrorIs(t, err, ErrSocRequestTerminal)

	_, err = socService.Reject(request.ID, "admin@company.com", "사유")
	assert.ErrorIs(t, err, ErrSocRequestTerminal)
}

func TestSocService_ListRequests_StatusFilter(t *testing.T) {
	socService, _ := setupSocServiceTest(t)

	first, err := socService.CreateRequest("cskim@company.com", "김철수", "삼성전자", "요청 1")
	require.NoError(t, err)
	_, err = socService.CreateRequest("yhlee@company.com", "이영희", "글로벌미디어", "요청 2")
	require.NoError(t, err)

	_, err = socService.Approve(first.ID, "admin@company.com")
	require.NoError(t, err)

	pending, err := socService.ListRequests(model.SocStatusPending)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	approved, err := socService.ListRequests(model.SocStatusApproved)
	require.NoError(t, err)
	assert.Len(t, approved, 1)

	all, err := socService.ListRequests("")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := socService.MyRequests("cskim@company.com")
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestSocService_GetRequest_NotFound(t *testing.T) {
	socService, _ := setupSocServiceTest(t)

	_, err := socService.GetRequest(9999)
	assert.ErrorIs(t, err, ErrSocRequestNotFound)
}
