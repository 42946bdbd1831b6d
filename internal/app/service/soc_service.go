package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/FullFarming/v0-invoice-management-system/internal/app/model"
	"github.com/FullFarming/v0-invoice-management-system/internal/app/repository"
	"github.com/FullFarming/v0-invoice-management-system/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrSocRequestNotFound = errors.New("soc request not found")
	ErrSocRequestTerminal = errors.New("soc request is already approved or rejected")
	ErrSocReasonRequired  = errors.New("a rejection reason is required")
	ErrSocCompanyNotFound = errors.New("company not found")
	ErrSocCompanyRequired = errors.New("company name is required")
	ErrSocDetailsRequired = errors.New("request details are required")
)

// 확인서 유효기간
const socConfirmationValidity = 365 * 24 * time.Hour

// SocCheckResult 회사 SOC 상태 조회 결과
type SocCheckResult struct {
	Company *model.Company `json:"company"`
	IsSoc   bool           `json:"is_soc"`
}

// SocService 고객사 SOC 상태 조회와 SOC 확인 요청 워크플로.
// 요청은 pending으로 생성되고 관리자가 승인 또는 반려한다.
// 승인 시 1년 유효한 확인서 기록이 발급된다.
type SocService interface {
	CheckCompany(query string) (*SocCheckResult, error)
	CreateRequest(requesterEmail, requesterName, companyName, details string) (*model.SocRequest, error)
	ListRequests(status model.SocRequestStatus) ([]model.SocRequest, error)
	MyRequests(requesterEmail string) ([]model.SocRequest, error)
	GetRequest(id uint) (*model.SocRequest, error)
	Approve(id uint, actorEmail string) (*model.SocRequest, error)
	Reject(id uint, actorEmail, reason string) (*model.SocRequest, error)
	Confirmations(companyName string) ([]model.SocConfirmation, error)
}

type socService struct {
	socRepo     repository.SocRepository
	companyRepo repository.CompanyRepository
}

func NewSocService(socRepo repository.SocRepository, companyRepo repository.CompanyRepository) SocService {
	return &socService{
		socRepo:     socRepo,
		companyRepo: companyRepo,
	}
}

// CheckCompany 회사명 또는 사업자등록번호로 SOC 상태를 조회한다
func (s *socService) CheckCompany(query string) (*SocCheckResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrSocCompanyRequired
	}

	logger.Debug("Checking company SOC status", map[string]interface{}{
		"query": query,
	})

	company, err := s.companyRepo.FindByBusinessNumber(query)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		matches, serr := s.companyRepo.SearchByName(query, "")
		if serr != nil {
			return nil, serr
		}
		if len(matches) == 0 {
			return nil, ErrSocCompanyNotFound
		}
		company = &matches[0]
	}

	logger.Info("Company SOC status checked", map[string]interface{}{
		"company_name": company.Name,
		"is_soc":       company.IsSoc,
	})
	return &SocCheckResult{Company: company, IsSoc: company.IsSoc}, nil
}

// CreateRequest SOC 확인 요청을 생성한다. 회사가 디렉터리에 있으면
// 그 시점의 SOC 상태를 스냅샷으로 보관한다.
func (s *socService) CreateRequest(requesterEmail, requesterName, companyName, details string) (*model.SocRequest, error) {
	companyName = strings.TrimSpace(companyName)
	if companyName == "" {
		return nil, ErrSocCompanyRequired
	}
	if strings.TrimSpace(details) == "" {
		return nil, ErrSocDetailsRequired
	}

	logger.Info("Creating SOC request", map[string]interface{}{
		"company_name":    companyName,
		"requester_email": requesterEmail,
	})

	request := &model.SocRequest{
		CompanyName:    companyName,
		RequesterEmail: requesterEmail,
		RequesterName:  requesterName,
		Details:        details,
		Status:         model.SocStatusPending,
	}

	matches, err := s.companyRepo.SearchByName(companyName, "")
	if err != nil {
		return nil, err
	}
	if len(matches) > 0 {
		request.CompanyID = matches[0].ID
		request.BusinessNumber = matches[0].BusinessNumber
		request.IsSoc = matches[0].IsSoc
	}

	if err := s.socRepo.CreateRequest(request); err != nil {
		return nil, err
	}

	logger.Info("SOC request created", map[string]interface{}{
		"request_id":   request.ID,
		"company_name": request.CompanyName,
	})
	return request, nil
}

func (s *socService) ListRequests(status model.SocRequestStatus) ([]model.SocRequest, error) {
	return s.socRepo.FindRequests(status)
}

func (s *socService) MyRequests(requesterEmail string) ([]model.SocRequest, error) {
	return s.socRepo.FindRequestsByRequester(requesterEmail)
}

func (s *socService) GetRequest(id uint) (*model.SocRequest, error) {
	request, err := s.socRepo.FindRequestByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSocRequestNotFound
		}
		return nil, err
	}
	return request, nil
}

// Approve 대기 중인 SOC 요청을 승인하고 확인서를 발급한다
func (s *socService) Approve(id uint, actorEmail string) (*model.SocRequest, error) {
	request, err := s.loadPending(id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	request.Status = model.SocStatusApproved
	request.DecidedBy = actorEmail
	request.DecidedAt = &now

	if err := s.socRepo.UpdateRequest(request); err != nil {
		return nil, err
	}

	confirmation := &model.SocConfirmation{
		RequestID:        request.ID,
		CompanyName:      request.CompanyName,
		ConfirmationDate: now,
		ExpiryDate:       now.Add(socConfirmationValidity),
		DocumentURL:      fmt.Sprintf("/documents/soc/%d.pdf", request.ID),
	}
	if err := s.socRepo.CreateConfirmation(confirmation); err != nil {
		return nil, err
	}

	logger.Info("SOC request approved", map[string]interface{}{
		"request_id":   request.ID,
		"company_name": request.CompanyName,
		"actor_email":  actorEmail,
		"expiry_date":  confirmation.ExpiryDate,
	})
	return request, nil
}

// Reject 대기 중인 SOC 요청을 반려한다. 사유가 필요하다.
func (s *socService) Reject(id uint, actorEmail, reason string) (*model.SocRequest, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, ErrSocReasonRequired
	}

	request, err := s.loadPending(id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	request.Status = model.SocStatusRejected
	request.DecidedBy = actorEmail
	request.DecidedAt = &now
	request.RejectReason = reason

	if err := s.socRepo.UpdateRequest(request); err != nil {
		return nil, err
	}

	logger.Info("SOC request rejected", map[string]interface{}{
		"request_id":   request.ID,
		"company_name": request.CompanyName,
		"actor_email":  actorEmail,
	})
	return request, nil
}

func (s *socService) Confirmations(companyName string) ([]model.SocConfirmation, error) {
	return s.socRepo.FindConfirmations(companyName)
}

func (s *socService) loadPending(id uint) (*model.SocRequest, error) {
	request, err := s.GetRequest(id)
	if err != nil {
		return nil, err
	}
	if request.IsTerminal() {
		logger.Warn("SOC decision refused: request already finalized", map[string]interface{}{
			"request_id": id,
			"status":     request.Status,
		})
		return nil, ErrSocRequestTerminal
	}
	return request, nil
}
