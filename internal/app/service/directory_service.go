package service

import (
	"errors"
	"strings"

	"github.com/FullFarming/v0-invoice-management-system/internal/app/model"
	"github.com/FullFarming/v0-invoice-management-system/internal/app/repository"
	"github.com/FullFarming/v0-invoice-management-system/pkg/logger"
	"github.com/FullFarming/v0-invoice-management-system/pkg/referral"
	"gorm.io/gorm"
)

var (
	ErrCompanyNameRequired  = errors.New("company name is required")
	ErrCompanyAlreadyExists = errors.New("a company with this business number already exists")
	ErrUnknownCompanyKind   = errors.New("unknown company kind")
)

// DirectoryService 회사/직원 디렉터리 조회 서비스.
// 인보이스 폼의 고객사 선택, 승인자 추천, fee 배분 대상 검색에 쓰인다.
type DirectoryService interface {
	ListCompanies(kind model.CompanyKind) ([]model.Company, error)
	SearchCompanies(query string, kind model.CompanyKind) ([]model.Company, error)
	RegisterCompany(name, businessNumber string, kind model.CompanyKind, contactName, contactEmail, contactPhone string) (*model.Company, error)
	ListEmployees() ([]model.Employee, error)
	EmployeesByDepartment(department string) ([]model.Employee, error)
	SearchEmployees(query string) ([]model.Employee, error)
	DepartmentRates() ([]model.DepartmentReferralRate, error)
	ReferralRates() ([]referral.DepartmentRate, error)
}

type directoryService struct {
	companyRepo  repository.CompanyRepository
	employeeRepo repository.EmployeeRepository
}

func NewDirectoryService(
	companyRepo repository.CompanyRepository,
	employeeRepo repository.EmployeeRepository,
) DirectoryService {
	return &directoryService{
		companyRepo:  companyRepo,
		employeeRepo: employeeRepo,
	}
}

func (s *directoryService) ListCompanies(kind model.CompanyKind) ([]model.Company, error) {
	return s.companyRepo.FindAll(kind)
}

func (s *directoryService) SearchCompanies(query string, kind model.CompanyKind) ([]model.Company, error) {
	if strings.TrimSpace(query) == "" {
		return s.companyRepo.FindAll(kind)
	}
	return s.companyRepo.SearchByName(query, kind)
}

// RegisterCompany 공급사/고객사 신규 등록. 사업자등록번호 중복은 거부한다.
func (s *directoryService) RegisterCompany(
	name, businessNumber string,
	kind model.CompanyKind,
	contactName, contactEmail, contactPhone string,
) (*model.Company, error) {
	logger.Info("Registering company", map[string]interface{}{
		"name":            name,
		"business_number": businessNumber,
		"kind":            kind,
	})

	if strings.TrimSpace(name) == "" {
		return nil, ErrCompanyNameRequired
	}
	if kind != model.CompanyKindCustomer && kind != model.CompanyKindSupplier {
		return nil, ErrUnknownCompanyKind
	}

	if businessNumber != "" {
		existing, err := s.companyRepo.FindByBusinessNumber(businessNumber)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if existing != nil {
			logger.Warn("Company registration failed: business number taken", map[string]interface{}{
				"business_number": businessNumber,
			})
			return nil, ErrCompanyAlreadyExists
		}
	}

	company := &model.Company{
		Name:           name,
		BusinessNumber: businessNumber,
		Kind:           kind,
		ContactName:    contactName,
		ContactEmail:   contactEmail,
		ContactPhone:   contactPhone,
	}
	if err := s.companyRepo.Create(company); err != nil {
		return nil, err
	}

	logger.Info("Company registered successfully", map[string]interface{}{
		"company_id": company.ID,
		"name":       company.Name,
	})
	return company, nil
}

func (s *directoryService) ListEmployees() ([]model.Employee, error) {
	return s.employeeRepo.FindAll()
}

func (s *directoryService) EmployeesByDepartment(department string) ([]model.Employee, error) {
	return s.employeeRepo.FindByDepartment(department)
}

func (s *directoryService) SearchEmployees(query string) ([]model.Employee, error) {
	if strings.TrimSpace(query) == "" {
		return s.employeeRepo.FindAll()
	}
	return s.employeeRepo.SearchByName(query)
}

func (s *directoryService) DepartmentRates() ([]model.DepartmentReferralRate, error) {
	return s.employeeRepo.FindDepartmentRates()
}

// ReferralRates 부서 요율 테이블을 보상 정책 입력 형태로 변환한다
func (s *directoryService) ReferralRates() ([]referral.DepartmentRate, error) {
	rows, err := s.employeeRepo.FindDepartmentRates()
	if err != nil {
		return nil, err
	}

	rates := make([]referral.DepartmentRate, len(rows))
	for i, row := range rows {
		rates[i] = referral.DepartmentRate{
			Department:      row.Department,
			CompetitiveRate: row.CompetitiveRate,
			RevenueRate:     row.RevenueRate,
			Allowed:         row.Allowed,
		}
	}
	return rates, nil
}
