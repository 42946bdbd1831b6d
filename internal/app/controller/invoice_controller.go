package controller

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/FullFarming/v0-invoice-management-system/internal/app/model"
	"github.com/FullFarming/v0-invoice-management-system/internal/app/service"
	apperrors "github.com/FullFarming/v0-invoice-management-system/internal/errors"
	"github.com/FullFarming/v0-invoice-management-system/internal/middleware"
	"github.com/FullFarming/v0-invoice-management-system/pkg/logger"
	"github.com/gin-gonic/gin"
)

type InvoiceController struct {
	invoiceService service.InvoiceService
	exportService  service.ExportService
}

func NewInvoiceController(invoiceService service.InvoiceService, exportService service.ExportService) *InvoiceController {
	return &InvoiceController{
		invoiceService: invoiceService,
		exportService:  exportService,
	}
}

type ApproverRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type FeeShareRequest struct {
	Email      string  `json:"email" binding:"required,email"`
	Team       string  `json:"team" binding:"required"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

type CostItemRequest struct {
	Kind     string  `json:"kind" binding:"required"`
	Name     string  `json:"name" binding:"required"`
	Amount   float64 `json:"amount"`
	Included *bool   `json:"included"`
}

type BeneficiaryRequest struct {
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	SharePercentage int    `json:"share_percentage" binding:"required"`
}

type SubmitInvoiceRequest struct {
	Type                 string               `json:"type" binding:"required"`
	ProjectName          string               `json:"project_name" binding:"required"`
	CompanyName          string               `json:"company_name"`
	TotalAmount          float64              `json:"total_amount" binding:"required"`
	Currency             string               `json:"currency"`
	Memo                 string               `json:"memo"`
	ContractAttached     bool                 `json:"contract_attached"`
	RegistrationAttached bool                 `json:"registration_attached"`
	Approvers            []ApproverRequest    `json:"approvers" binding:"required"`
	FeeShares            []FeeShareRequest    `json:"fee_shares"`
	CostItems            []CostItemRequest    `json:"cost_items"`
	Beneficiaries        []BeneficiaryRequest `json:"beneficiaries"`
	ReferralAmount       float64              `json:"referral_amount"`
	IsCompetitiveWin     bool                 `json:"is_competitive_win"`
	Department           string               `json:"department"`
}

// Submit handles invoice submission
// POST /api/v1/invoices
func (ctrl *InvoiceController) Submit(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userEmail, exists := middleware.GetUserEmail(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	var req SubmitInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid invoice submission request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	log.Debug("Processing invoice submission", map[string]interface{}{
		"type":         req.Type,
		"project_name": req.ProjectName,
		"created_by":   userEmail,
	})

	invoice, err := ctrl.invoiceService.Submit(userEmail, buildSubmitInput(req))
	if err != nil {
		respondSubmitError(c, log, err)
		return
	}

	log.Info("Invoice submitted", map[string]interface{}{
		"invoice_number": invoice.InvoiceNumber,
		"created_by":     userEmail,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Invoice submitted successfully",
		"invoice": invoice,
	})
}

func buildSubmitInput(req SubmitInvoiceRequest) service.SubmitInvoiceInput {
	input := service.SubmitInvoiceInput{
		Type:                 model.InvoiceType(req.Type),
		ProjectName:          req.ProjectName,
		CompanyName:          req.CompanyName,
		TotalAmount:          req.TotalAmount,
		Currency:             req.Currency,
		Memo:                 req.Memo,
		ContractAttached:     req.ContractAttached,
		RegistrationAttached: req.RegistrationAttached,
		ReferralAmount:       req.ReferralAmount,
		IsCompetitiveWin:     req.IsCompetitiveWin,
		Department:           req.Department,
	}

	// 승인 순서는 배열 순서를 따른다
	for i, approver := range req.Approvers {
		input.Approvers = append(input.Approvers, model.Approver{
			Email: approver.Email,
			Level: i + 1,
		})
	}
	for _, share := range req.FeeShares {
		input.FeeShares = append(input.FeeShares, model.FeeShare{
			Email:      share.Email,
			Team:       share.Team,
			Amount:     share.Amount,
			Percentage: share.Percentage,
		})
	}
	for _, item := range req.CostItems {
		included := true
		if item.Included != nil {
			included = *item.Included
		}
		input.CostItems = append(input.CostItems, model.CostItem{
			Kind:     model.CostItemKind(item.Kind),
			Name:     item.Name,
			Amount:   item.Amount,
			Included: included,
		})
	}
	for _, beneficiary := range req.Beneficiaries {
		input.Beneficiaries = append(input.Beneficiaries, model.Beneficiary{
			Name:            beneficiary.Name,
			Email:           beneficiary.Email,
			SharePercentage: beneficiary.SharePercentage,
		})
	}

	return input
}

func respondSubmitError(c *gin.Context, log *logger.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInvoiceType):
		apperrors.BadRequest(c, apperrors.InvoiceInvalidType, "잘못된 인보이스 유형입니다")
	case errors.Is(err, service.ErrNoApprovers):
		apperrors.BadRequest(c, apperrors.InvoiceNoApprovers, "승인자를 한 명 이상 지정해야 합니다")
	case errors.Is(err, service.ErrInvalidApproverLevels):
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "승인자 정보가 올바르지 않습니다")
	case errors.Is(err, service.ErrSharesIncomplete):
		apperrors.BadRequest(c, apperrors.InvoiceSharesIncomplete, "Fee sharing 배분이 완성되지 않았습니다")
	case errors.Is(err, service.ErrAttachmentFlagRequired):
		apperrors.BadRequest(c, apperrors.InvoiceAttachmentFlag, "필수 첨부 확인이 누락되었습니다")
	case errors.Is(err, service.ErrNoBeneficiaries):
		apperrors.BadRequest(c, apperrors.PlusOneShareInvalid, "수혜자를 한 명 이상 지정해야 합니다")
	case errors.Is(err, service.ErrBeneficiarySum):
		apperrors.BadRequest(c, apperrors.PlusOneShareSumMismatch, "수혜자 지분 합계가 100%가 아닙니다")
	default:
		log.Error("Invoice submission failed", err, nil)
		apperrors.InternalError(c, "인보이스 제출에 실패했습니다")
	}
}

// ListMine returns invoices created by the current user
// GET /api/v1/invoices
func (ctrl *InvoiceController) ListMine(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userEmail, exists := middleware.GetUserEmail(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	invoices, err := ctrl.invoiceService.ListMine(userEmail)
	if err != nil {
		log.Error("Failed to list invoices", err, map[string]interface{}{
			"email": userEmail,
		})
		apperrors.InternalError(c, "인보이스 목록 조회에 실패했습니다")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"invoices": invoices,
		"count":    len(invoices),
	})
}

// Search searches invoices by number, project or company name
// GET /api/v1/invoices/search?q=
func (ctrl *InvoiceController) Search(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	query := c.Query("q")
	if query == "" {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "검색어를 입력해주세요")
		return
	}

	invoices, err := ctrl.invoiceService.Search(query)
	if err != nil {
		log.Error("Invoice search failed", err, map[string]interface{}{
			"query": query,
		})
		apperrors.InternalError(c, "인보이스 검색에 실패했습니다")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"invoices": invoices,
		"count":    len(invoices),
	})
}

// GetByNumber returns a single invoice with its full detail
// GET /api/v1/invoices/:number
func (ctrl *InvoiceController) GetByNumber(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	number := c.Param("number")

	invoice, err := ctrl.invoiceService.GetByNumber(number)
	if err != nil {
		if errors.Is(err, service.ErrInvoiceNotFound) {
			apperrors.NotFound(c, apperrors.InvoiceNotFound, "인보이스를 찾을 수 없습니다")
			return
		}
		log.Error("Failed to get invoice", err, map[string]interface{}{
			"invoice_number": number,
		})
		apperrors.InternalError(c, "인보이스 조회에 실패했습니다")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"invoice": invoice,
	})
}

// Delete removes a pending invoice (creator only)
// DELETE /api/v1/invoices/:number
func (ctrl *InvoiceController) Delete(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userEmail, exists := middleware.GetUserEmail(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	number := c.Param("number")

	if err := ctrl.invoiceService.Delete(number, userEmail); err != nil {
		switch {
		case errors.Is(err, service.ErrInvoiceNotFound):
			apperrors.NotFound(c, apperrors.InvoiceNotFound, "인보이스를 찾을 수 없습니다")
		case errors.Is(err, service.ErrNotCreator):
			apperrors.Forbidden(c, apperrors.AuthzCreatorOnly, "작성자만 삭제할 수 있습니다")
		case errors.Is(err, service.ErrDeleteApproved):
			apperrors.Conflict(c, apperrors.InvoiceAlreadyApproved, "승인 완료된 인보이스는 삭제할 수 없습니다")
		default:
			log.Error("Failed to delete invoice", err, map[string]interface{}{
				"invoice_number": number,
			})
			apperrors.InternalError(c, "인보이스 삭제에 실패했습니다")
		}
		return
	}

	log.Info("Invoice deleted", map[string]interface{}{
		"invoice_number": number,
		"requester":      userEmail,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Invoice deleted successfully",
	})
}

// ExportLedger streams the approved-invoice ledger as XLSX
// GET /api/v1/invoices/export
func (ctrl *InvoiceController) ExportLedger(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	f, err := ctrl.exportService.BuildApprovedLedger()
	if err != nil {
		log.Error("Failed to build invoice ledger", err, nil)
		apperrors.InternalError(c, "인보이스 대장 생성에 실패했습니다")
		return
	}

	filename := fmt.Sprintf("invoice-ledger-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := f.Write(c.Writer); err != nil {
		log.Error("Failed to stream invoice ledger", err, nil)
		return
	}

	log.Info("Invoice ledger exported", map[string]interface{}{
		"filename": filename,
	})
}
