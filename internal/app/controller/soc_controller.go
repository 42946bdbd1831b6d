package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/FullFarming/v0-invoice-management-system/internal/app/model"
	"github.com/FullFarming/v0-invoice-management-system/internal/app/service"
	apperrors "github.com/FullFarming/v0-invoice-management-system/internal/errors"
	"github.com/FullFarming/v0-invoice-management-system/internal/middleware"
	"github.com/FullFarming/v0-invoice-management-system/pkg/logger"
	"github.com/gin-gonic/gin"
)

type SocController struct {
	socService service.SocService
}

func NewSocController(socService service.SocService) *SocController {
	return &SocController{
		socService: socService,
	}
}

type CreateSocRequestRequest struct {
	CompanyName   string `json:"company_name" binding:"required"`
	Details       string `json:"details" binding:"required"`
	RequesterName string `json:"requester_name"`
}

type RejectSocRequestRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// CheckCompany returns a company's SOC status
// GET /api/v1/soc/check?q=
func (ctrl *SocController) CheckCompany(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	query := c.Query("q")
	if query == "" {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "회사명 또는 사업자등록번호를 입력해주세요")
		return
	}

	result, err := ctrl.socService.CheckCompany(query)
	if err != nil {
		if errors.Is(err, service.ErrSocCompanyNotFound) {
			apperrors.NotFound(c, apperrors.SocCompanyNotFound, "일치하는 회사를 찾을 수 없습니다")
			return
		}
		log.Error("SOC status check failed", err, map[string]interface{}{
			"query": query,
		})
		apperrors.InternalError(c, "SOC 상태 조회에 실패했습니다")
		return
	}

	c.JSON(http.StatusOK, result)
}

// CreateRequest submits a new SOC confirmation request
// POST /api/v1/soc/requests
func (ctrl *SocController) CreateRequest(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userEmail, exists := middleware.GetUserEmail(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	var req CreateSocRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid SOC request submission", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	request, err := ctrl.socService.CreateRequest(userEmail, req.RequesterName, req.CompanyName, req.Details)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSocCompanyRequired), errors.Is(err, service.ErrSocDetailsRequired):
			apperrors.BadRequest(c, apperrors.ValidationRequired, "회사명과 요청 내용을 입력해주세요")
		default:
			log.Error("Failed to create SOC request", err, map[string]interface{}{
				"company_name": req.CompanyName,
			})
			apperrors.InternalError(c, "SOC 요청 생성에 실패했습니다")
		}
		return
	}

	log.Info("SOC request submitted", map[string]interface{}{
		"request_id":   request.ID,
		"company_name": request.CompanyName,
		"requester":    userEmail,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "SOC request submitted successfully",
		"request": request,
	})
}

// ListRequests lists SOC requests, optionally filtered by status
// GET /api/v1/soc/requests?status=
func (ctrl *SocController) ListRequests(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	status := model.SocRequestStatus(c.Query("status"))

	requests, err := ctrl.socService.ListRequests(status)
	if err != nil {
		log.Error("Failed to list SOC requests", err, map[string]interface{}{
			"status": status,
		})
		apperrors.InternalError(c, "SOC 요청 목록 조회에 실패했습니다")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"requests": requests,
		"count":    len(requests),
	})
}

// MyRequests lists SOC requests created by the current user
// GET /api/v1/soc/requests/mine
func (ctrl *SocController) MyRequests(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userEmail, exists := middleware.GetUserEmail(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	requests, err := ctrl.socService.MyRequests(userEmail)
	if err != nil {
		log.Error("Failed to list my SOC requests", err, map[string]interface{}{
			"email": userEmail,
		})
		apperrors.InternalError(c, "SOC 요청 목록 조회에 실패했습니다")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"requests": requests,
		"count":    len(requests),
	})
}

// GetRequest returns one SOC request
// GET /api/v1/soc/requests/:id
func (ctrl *SocController) GetRequest(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "잘못된 요청 ID입니다")
		return
	}

	request, err := ctrl.socService.GetRequest(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrSocRequestNotFound) {
			apperrors.NotFound(c, apperrors.SocRequestNotFound, "SOC 요청을 찾을 수 없습니다")
			return
		}
		log.Error("Failed to get SOC request", err, map[string]interface{}{
			"request_id": id,
		})
		apperrors.InternalError(c, "SOC 요청 조회에 실패했습니다")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"request": request,
	})
}

// Approve approves a pending SOC request (admin only)
// POST /api/v1/soc/requests/:id/approve
func (ctrl *SocController) Approve(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userEmail, exists := middleware.GetUserEmail(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "잘못된 요청 ID입니다")
		return
	}

	request, err := ctrl.socService.Approve(uint(id), userEmail)
	if err != nil {
		respondSocDecisionError(c, log, uint(id), err)
		return
	}

	log.Info("SOC request approved", map[string]interface{}{
		"request_id":  request.ID,
		"actor_email": userEmail,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "SOC request approved",
		"request": request,
	})
}

// Reject rejects a pending SOC request with a reason (admin only)
// POST /api/v1/soc/requests/:id/reject
func (ctrl *SocController) Reject(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userEmail, exists := middleware.GetUserEmail(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "잘못된 요청 ID입니다")
		return
	}

	var req RejectSocRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.SocReasonEmpty, "반려 사유를 입력해주세요")
		return
	}

	request, err := ctrl.socService.Reject(uint(id), userEmail, req.Reason)
	if err != nil {
		if errors.Is(err, service.ErrSocReasonRequired) {
			apperrors.BadRequest(c, apperrors.SocReasonEmpty, "반려 사유를 입력해주세요")
			return
		}
		respondSocDecisionError(c, log, uint(id), err)
		return
	}

	log.Info("SOC request rejected", map[string]interface{}{
		"request_id":  request.ID,
		"actor_email": userEmail,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "SOC request rejected",
		"request": request,
	})
}

func respondSocDecisionError(c *gin.Context, log *logger.Logger, id uint, err error) {
	switch {
	case errors.Is(err, service.ErrSocRequestNotFound):
		apperrors.NotFound(c, apperrors.SocRequestNotFound, "SOC 요청을 찾을 수 없습니다")
	case errors.Is(err, service.ErrSocRequestTerminal):
		apperrors.Conflict(c, apperrors.SocRequestTerminal, "이미 처리된 SOC 요청입니다")
	default:
		log.Error("SOC decision failed", err, map[string]interface{}{
			"request_id": id,
		})
		apperrors.InternalError(c, "SOC 요청 처리에 실패했습니다")
	}
}

// ListConfirmations lists issued SOC confirmations
// GET /api/v1/soc/confirmations?company=
func (ctrl *SocController) ListConfirmations(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	confirmations, err := ctrl.socService.Confirmations(c.Query("company"))
	if err != nil {
		log.Error("Failed to list SOC confirmations", err, nil)
		apperrors.InternalError(c, "SOC 확인서 목록 조회에 실패했습니다")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"confirmations": confirmations,
		"count":         len(confirmations),
	})
}
