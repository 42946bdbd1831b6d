package service

import (
	"errors"
	"strings"
	"time"

	"github.com/FullFarming/v0-invoice-management-system/internal/app/model"
	"github.com/FullFarming/v0-invoice-management-system/internal/app/repository"
	"github.com/FullFarming/v0-invoice-management-system/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrApprovalOutOfTurn = errors.New("it is not your turn to approve this invoice")
	ErrApprovalTerminal  = errors.New("invoice is already approved or rejected")
	ErrCommentRequired   = errors.New("a rejection comment is required")
	ErrVersionConflict   = repository.ErrVersionConflict
)

// AllocationSummary 내 배분 내역과 원화 환산 합계
type AllocationSummary struct {
	Rows     []repository.AllocationRow `json:"rows"`
	TotalKRW float64                    `json:"total_krw"`
}

type ApprovalService interface {
	Approve(invoiceNumber, actorEmail string) (*model.Invoice, error)
	Reject(invoiceNumber, actorEmail, comment string) (*model.Invoice, error)
	PendingForMe(email string) ([]model.Invoice, error)
	CompletedByMe(email string) ([]model.Invoice, error)
	AwaitingApproval(email string) ([]model.Invoice, error)
	MyAllocations(email string) (*AllocationSummary, error)
	SendReminders() (int, error)
}

type approvalService struct {
	invoiceRepo repository.InvoiceRepository
	rateRepo    repository.ExchangeRateRepository
	notifier    NotificationService
}

func NewApprovalService(
	invoiceRepo repository.InvoiceRepository,
	rateRepo repository.ExchangeRateRepository,
	notifier NotificationService,
) ApprovalService {
	return &approvalService{
		invoiceRepo: invoiceRepo,
		rateRepo:    rateRepo,
		notifier:    notifier,
	}
}

// Approve 현재 순서의 승인자가 자신의 단계를 승인한다.
// 전체 단계가 끝나면 인보이스 상태가 approved로 바뀐다.
func (s *approvalService) Approve(invoiceNumber, actorEmail string) (*model.Invoice, error) {
	logger.Info("Approving invoice step", map[string]interface{}{
		"invoice_number": invoiceNumber,
		"actor_email":    actorEmail,
	})

	invoice, current, err := s.loadForDecision(invoiceNumber, actorEmail)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	step := stepForApprover(invoice, current.ApproverID)
	step.Status = model.StepStatusApproved
	step.Timestamp = &now

	invoice.CurrentApprovalStep++
	fullyApproved := invoice.CurrentApprovalStep > len(invoice.Approvers)
	if fullyApproved {
		invoice.Status = model.InvoiceStatusApproved
	}

	if err := s.invoiceRepo.UpdateWithVersion(invoice, invoice.Version); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			logger.Warn("Approval lost optimistic lock race", map[string]interface{}{
				"invoice_number": invoiceNumber,
				"actor_email":    actorEmail,
			})
		}
		return nil, err
	}

	if fullyApproved {
		s.notifier.NotifyFullyApproved(invoice)
		// 최종 승인 시점: 문서 생성 등 후속 처리가 연결되는 지점
		logger.Info("Invoice fully approved", map[string]interface{}{
			"invoice_number": invoice.InvoiceNumber,
			"step_count":     len(invoice.Approvers),
		})
	} else if next := approverAtLevel(invoice, invoice.CurrentApprovalStep); next != nil {
		s.notifier.NotifyApproved(invoice, actorEmail, next.Email)
	}

	logger.Info("Invoice step approved", map[string]interface{}{
		"invoice_number": invoice.InvoiceNumber,
		"actor_email":    actorEmail,
		"current_step":   invoice.CurrentApprovalStep,
		"status":         invoice.Status,
	})
	return invoice, nil
}

// Reject 현재 순서의 승인자가 반려한다. 반려는 종결 상태이며 사유가 필요하다.
func (s *approvalService) Reject(invoiceNumber, actorEmail, comment string) (*model.Invoice, error) {
	logger.Info("Rejecting invoice", map[string]interface{}{
		"invoice_number": invoiceNumber,
		"actor_email":    actorEmail,
	})

	if strings.TrimSpace(comment) == "" {
		return nil, ErrCommentRequired
	}

	invoice, current, err := s.loadForDecision(invoiceNumber, actorEmail)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	step := stepForApprover(invoice, current.ApproverID)
	step.Status = model.StepStatusRejected
	step.Comment = comment
	step.Timestamp = &now

	invoice.Status = model.InvoiceStatusRejected

	if err := s.invoiceRepo.UpdateWithVersion(invoice, invoice.Version); err != nil {
		return nil, err
	}

	s.notifier.NotifyRejected(invoice, actorEmail, comment)

	logger.Info("Invoice rejected", map[string]interface{}{
		"invoice_number": invoice.InvoiceNumber,
		"actor_email":    actorEmail,
		"step":           current.Level,
	})
	return invoice, nil
}

// loadForDecision 승인/반려 공통 전제 조건 검사: 인보이스가 존재하고,
// 아직 진행 중이며, 요청자가 현재 순서의 승인자여야 한다.
func (s *approvalService) loadForDecision(invoiceNumber, actorEmail string) (*model.Invoice, *model.Approver, error) {
	invoice, err := s.invoiceRepo.FindByNumber(invoiceNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvoiceNotFound
		}
		return nil, nil, err
	}

	if invoice.IsTerminal() {
		logger.Warn("Decision refused: invoice already finalized", map[string]interface{}{
			"invoice_number": invoiceNumber,
			"status":         invoice.Status,
		})
		return nil, nil, ErrApprovalTerminal
	}

	current := approverAtLevel(invoice, invoice.CurrentApprovalStep)
	if current == nil {
		return nil, nil, ErrApprovalTerminal
	}
	if current.Email != actorEmail {
		logger.Warn("Decision refused: not the current approver", map[string]interface{}{
			"invoice_number":   invoiceNumber,
			"actor_email":      actorEmail,
			"current_approver": current.Email,
			"current_step":     invoice.CurrentApprovalStep,
		})
		return nil, nil, ErrApprovalOutOfTurn
	}

	ensureApprovalSteps(invoice)
	return invoice, current, nil
}

// ensureApprovalSteps 단계 기록이 없으면 승인자 목록으로 초기화한다.
// 기록은 승인자 ID 기준으로 매칭되므로 순서 재배열에 안전하다.
func ensureApprovalSteps(invoice *model.Invoice) {
	if len(invoice.ApprovalSteps) > 0 {
		return
	}
	steps := make([]model.ApprovalStep, len(invoice.Approvers))
	for i, approver := range invoice.Approvers {
		steps[i] = model.ApprovalStep{
			ApproverID: approver.ApproverID,
			Email:      approver.Email,
			Level:      approver.Level,
			Status:     model.StepStatusPending,
		}
	}
	invoice.ApprovalSteps = steps
}

// stepForApprover 승인자 ID로 단계 기록을 찾는다 (없으면 추가)
func stepForApprover(invoice *model.Invoice, approverID string) *model.ApprovalStep {
	for i := range invoice.ApprovalSteps {
		if invoice.ApprovalSteps[i].ApproverID == approverID {
			return &invoice.ApprovalSteps[i]
		}
	}
	invoice.ApprovalSteps = append(invoice.ApprovalSteps, model.ApprovalStep{
		ApproverID: approverID,
	})
	return &invoice.ApprovalSteps[len(invoice.ApprovalSteps)-1]
}

// PendingForMe 내가 현재 순서의 승인자인 진행 중 인보이스
func (s *approvalService) PendingForMe(email string) ([]model.Invoice, error) {
	invoices, err := s.invoiceRepo.FindByStatus(model.InvoiceStatusPending)
	if err != nil {
		return nil, err
	}

	pending := make([]model.Invoice, 0)
	for _, invoice := range invoices {
		current := approverAtLevel(&invoice, invoice.CurrentApprovalStep)
		if current != nil && current.Email == email {
			pending = append(pending, invoice)
		}
	}

	logger.Debug("Pending invoices for approver", map[string]interface{}{
		"email": email,
		"count": len(pending),
	})
	return pending, nil
}

// CompletedByMe 내가 승인자로 참여했고 내 차례가 지난 인보이스
func (s *approvalService) CompletedByMe(email string) ([]model.Invoice, error) {
	invoices, err := s.invoiceRepo.FindByApproverEmail(email)
	if err != nil {
		return nil, err
	}

	completed := make([]model.Invoice, 0)
	for _, invoice := range invoices {
		myLevel := 0
		for _, approver := range invoice.Approvers {
			if approver.Email == email {
				myLevel = approver.Level
				break
			}
		}
		if myLevel == 0 {
			continue
		}
		if invoice.Status != model.InvoiceStatusPending || invoice.CurrentApprovalStep > myLevel {
			completed = append(completed, invoice)
		}
	}

	logger.Debug("Completed invoices for approver", map[string]interface{}{
		"email": email,
		"count": len(completed),
	})
	return completed, nil
}

// AwaitingApproval 승인 대기함. 현재 순서 기준은 PendingForMe와 같다.
func (s *approvalService) AwaitingApproval(email string) ([]model.Invoice, error) {
	return s.PendingForMe(email)
}

// MyAllocations 내 fee 배분 내역 + 원화 환산 합계
func (s *approvalService) MyAllocations(email string) (*AllocationSummary, error) {
	rows, err := s.invoiceRepo.FindAllocationsByEmail(email)
	if err != nil {
		return nil, err
	}

	var totalKRW float64
	for _, row := range rows {
		amount, err := s.toKRW(row.Amount, row.Currency)
		if err != nil {
			logger.Warn("Unknown currency in allocation, counted at face value", map[string]interface{}{
				"currency":       row.Currency,
				"invoice_number": row.InvoiceNumber,
			})
			amount = row.Amount
		}
		totalKRW += amount
	}

	logger.Debug("Allocations summarized", map[string]interface{}{
		"email":     email,
		"row_count": len(rows),
		"total_krw": totalKRW,
	})
	return &AllocationSummary{Rows: rows, TotalKRW: totalKRW}, nil
}

// SendReminders 진행 중인 모든 인보이스의 현재 승인자에게 리마인더를 보낸다.
// 보낸 건수를 반환한다.
func (s *approvalService) SendReminders() (int, error) {
	invoices, err := s.invoiceRepo.FindByStatus(model.InvoiceStatusPending)
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range invoices {
		current := approverAtLevel(&invoices[i], invoices[i].CurrentApprovalStep)
		if current == nil {
			continue
		}
		s.notifier.NotifyReminder(&invoices[i], current.Email)
		sent++
	}

	logger.Info("Approval reminders sent", map[string]interface{}{
		"pending_count": len(invoices),
		"sent_count":    sent,
	})
	return sent, nil
}

func (s *approvalService) toKRW(amount float64, currency string) (float64, error) {
	if currency == "" || currency == "KRW" {
		return amount, nil
	}
	rate, err := s.rateRepo.FindByCurrency(currency)
	if err != nil {
		return 0, err
	}
	return amount * rate.RateToKRW, nil
}
