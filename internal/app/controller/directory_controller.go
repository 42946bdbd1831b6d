package controller

import (
	"errors"
	"net/http"

	"github.com/FullFarming/v0-invoice-management-system/internal/app/model"
	"github.com/FullFarming/v0-invoice-management-system/internal/app/service"
	apperrors "github.com/FullFarming/v0-invoice-management-system/internal/errors"
	"github.com/FullFarming/v0-invoice-management-system/internal/middleware"
	"github.com/gin-gonic/gin"
)

type DirectoryController struct {
	directoryService service.DirectoryService
	currencyService  service.CurrencyService
}

func NewDirectoryController(
	directoryService service.DirectoryService,
	currencyService service.CurrencyService,
) *DirectoryController {
	return &DirectoryController{
		directoryService: directoryService,
		currencyService:  currencyService,
	}
}

type RegisterCompanyRequest struct {
	Name           string `json:"name" binding:"required"`
	BusinessNumber string `json:"business_number"`
	Kind           string `json:"kind" binding:"required"`
	ContactName    string `json:"contact_name"`
	ContactEmail   string `json:"contact_email"`
	ContactPhone   string `json:"contact_phone"`
}

// ListCompanies returns companies, optionally filtered by kind or search query
// GET /api/v1/companies?kind=customer&q=
func (ctrl *DirectoryController) ListCompanies(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	kind := model.CompanyKind(c.Query("kind"))
	query := c.Query("q")

	companies, err := ctrl.directoryService.SearchCompanies(query, kind)
	if err != nil {
		log.Error("Failed to list companies", err, map[string]interface{}{
			"kind":  kind,
			"query": query,
		})
		apperrors.InternalError(c, "회사 목록 조회에 실패했습니다")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"companies": companies,
		"count":     len(companies),
	})
}

// RegisterCompany registers a new customer or supplier company
// POST /api/v1/companies
func (ctrl *DirectoryController) RegisterCompany(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RegisterCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid company registration request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	company, err := ctrl.directoryService.RegisterCompany(
		req.Name,
		req.BusinessNumber,
		model.CompanyKind(req.Kind),
		req.ContactName,
		req.ContactEmail,
		req.ContactPhone,
	)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCompanyNameRequired), errors.Is(err, service.ErrUnknownCompanyKind):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "회사 정보가 올바르지 않습니다")
		case errors.Is(err, service.ErrCompanyAlreadyExists):
			apperrors.Conflict(c, apperrors.ResourceAlreadyExists, "이미 등록된 사업자등록번호입니다")
		default:
			log.Error("Failed to register company", err, map[string]interface{}{
				"name": req.Name,
			})
			apperrors.InternalError(c, "회사 등록에 실패했습니다")
		}
		return
	}

	log.Info("Company registered", map[string]interface{}{
		"company_id": company.ID,
		"name":       company.Name,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Company registered successfully",
		"company": company,
	})
}

// ListEmployees returns the employee directory for approver selection
// GET /api/v1/employees?department=&q=
func (ctrl *DirectoryController) ListEmployees(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	department := c.Query("department")
	query := c.Query("q")

	var (
		employees []model.Employee
		err       error
	)
	switch {
	case query != "":
		employees, err = ctrl.directoryService.SearchEmployees(query)
	case department != "":
		employees, err = ctrl.directoryService.EmployeesByDepartment(department)
	default:
		employees, err = ctrl.directoryService.ListEmployees()
	}
	if err != nil {
		log.Error("Failed to list employees", err, map[string]interface{}{
			"department": department,
			"query":      query,
		})
		apperrors.InternalError(c, "직원 목록 조회에 실패했습니다")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"employees": employees,
		"count":     len(employees),
	})
}

// ListDepartmentRates returns the referral rate table per department
// GET /api/v1/referral-rates
func (ctrl *DirectoryController) ListDepartmentRates(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	rates, err := ctrl.directoryService.DepartmentRates()
	if err != nil {
		log.Error("Failed to list department referral rates", err, nil)
		apperrors.InternalError(c, "부서별 보상 요율 조회에 실패했습니다")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rates": rates,
		"count": len(rates),
	})
}

// ListCurrencies returns supported currencies with their KRW rates
// GET /api/v1/currencies
func (ctrl *DirectoryController) ListCurrencies(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	rates, err := ctrl.currencyService.ListRates()
	if err != nil {
		log.Error("Failed to list exchange rates", err, nil)
		apperrors.InternalError(c, "통화 목록 조회에 실패했습니다")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"currencies": rates,
		"count":      len(rates),
	})
}
