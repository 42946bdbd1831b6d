package controller

import (
	"errors"
	"net/http"

	"github.com/FullFarming/v0-invoice-management-system/internal/app/service"
	apperrors "github.com/FullFarming/v0-invoice-management-system/internal/errors"
	"github.com/FullFarming/v0-invoice-management-system/internal/middleware"
	"github.com/FullFarming/v0-invoice-management-system/pkg/logger"
	"github.com/gin-gonic/gin"
)

type ApprovalController struct {
	approvalService service.ApprovalService
}

func NewApprovalController(approvalService service.ApprovalService) *ApprovalController {
	return &ApprovalController{
		approvalService: approvalService,
	}
}

type RejectRequest struct {
	Comment string `json:"comment" binding:"required"`
}

// Approve approves the current step of an invoice
// POST /api/v1/invoices/:number/approve
func (ctrl *ApprovalController) Approve(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userEmail, exists := middleware.GetUserEmail(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	number := c.Param("number")

	log.Debug("Processing approval", map[string]interface{}{
		"invoice_number": number,
		"actor_email":    userEmail,
	})

	invoice, err := ctrl.approvalService.Approve(number, userEmail)
	if err != nil {
		respondDecisionError(c, log, number, err)
		return
	}

	log.Info("Invoice step approved", map[string]interface{}{
		"invoice_number": number,
		"actor_email":    userEmail,
		"status":         invoice.Status,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Invoice approved",
		"invoice": invoice,
	})
}

// Reject rejects an invoice with a comment
// POST /api/v1/invoices/:number/reject
func (ctrl *ApprovalController) Reject(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userEmail, exists := middleware.GetUserEmail(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	number := c.Param("number")

	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid reject request", map[string]interface{}{
			"invoice_number": number,
			"error":          err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ApprovalCommentEmpty, "반려 사유를 입력해주세요")
		return
	}

	invoice, err := ctrl.approvalService.Reject(number, userEmail, req.Comment)
	if err != nil {
		if errors.Is(err, service.ErrCommentRequired) {
			apperrors.BadRequest(c, apperrors.ApprovalCommentEmpty, "반려 사유를 입력해주세요")
			return
		}
		respondDecisionError(c, log, number, err)
		return
	}

	log.Info("Invoice rejected", map[string]interface{}{
		"invoice_number": number,
		"actor_email":    userEmail,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Invoice rejected",
		"invoice": invoice,
	})
}

func respondDecisionError(c *gin.Context, log *logger.Logger, number string, err error) {
	switch {
	case errors.Is(err, service.ErrInvoiceNotFound):
		apperrors.NotFound(c, apperrors.InvoiceNotFound, "인보이스를 찾을 수 없습니다")
	case errors.Is(err, service.ErrApprovalOutOfTurn):
		apperrors.Forbidden(c, apperrors.ApprovalOutOfTurn, "현재 승인 차례가 아닙니다")
	case errors.Is(err, service.ErrApprovalTerminal):
		apperrors.Conflict(c, apperrors.ApprovalTerminal, "이미 종결된 인보이스입니다")
	case errors.Is(err, service.ErrVersionConflict):
		apperrors.Conflict(c, apperrors.InvoiceVersionConflict, "다른 사용자가 먼저 처리했습니다. 새로고침 후 다시 시도해주세요")
	default:
		log.Error("Approval decision failed", err, map[string]interface{}{
			"invoice_number": number,
		})
		apperrors.InternalError(c, "승인 처리에 실패했습니다")
	}
}

// PendingForMe returns invoices waiting for my decision
// GET /api/v1/inbox/pending
func (ctrl *ApprovalController) PendingForMe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userEmail, exists := middleware.GetUserEmail(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	invoices, err := ctrl.approvalService.PendingForMe(userEmail)
	if err != nil {
		log.Error("Failed to list pending invoices", err, map[string]interface{}{
			"email": userEmail,
		})
		apperrors.InternalError(c, "승인 대기 목록 조회에 실패했습니다")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"invoices": invoices,
		"count":    len(invoices),
	})
}

// CompletedByMe returns invoices I have already acted on
// GET /api/v1/inbox/completed
func (ctrl *ApprovalController) CompletedByMe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userEmail, exists := middleware.GetUserEmail(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	invoices, err := ctrl.approvalService.CompletedByMe(userEmail)
	if err != nil {
		log.Error("Failed to list completed invoices", err, map[string]interface{}{
			"email": userEmail,
		})
		apperrors.InternalError(c, "처리 완료 목록 조회에 실패했습니다")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"invoices": invoices,
		"count":    len(invoices),
	})
}

// AwaitingApproval returns my approval queue
// GET /api/v1/inbox/awaiting
func (ctrl *ApprovalController) AwaitingApproval(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userEmail, exists := middleware.GetUserEmail(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	invoices, err := ctrl.approvalService.AwaitingApproval(userEmail)
	if err != nil {
		log.Error("Failed to list awaiting invoices", err, map[string]interface{}{
			"email": userEmail,
		})
		apperrors.InternalError(c, "승인 대기함 조회에 실패했습니다")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"invoices": invoices,
		"count":    len(invoices),
	})
}

// MyAllocations returns my fee allocations across invoices
// GET /api/v1/inbox/allocations
func (ctrl *ApprovalController) MyAllocations(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userEmail, exists := middleware.GetUserEmail(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	summary, err := ctrl.approvalService.MyAllocations(userEmail)
	if err != nil {
		log.Error("Failed to summarize allocations", err, map[string]interface{}{
			"email": userEmail,
		})
		apperrors.InternalError(c, "배분 내역 조회에 실패했습니다")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"allocations": summary.Rows,
		"total_krw":   summary.TotalKRW,
		"count":       len(summary.Rows),
	})
}
