package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/FullFarming/v0-invoice-management-system/internal/app/model"
	"github.com/FullFarming/v0-invoice-management-system/internal/app/repository"
	"github.com/FullFarming/v0-invoice-management-system/pkg/fee"
	"github.com/FullFarming/v0-invoice-management-system/pkg/logger"
	"github.com/FullFarming/v0-invoice-management-system/pkg/referral"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrInvoiceNotFound        = errors.New("invoice not found")
	ErrInvalidInvoiceType     = errors.New("invalid invoice type")
	ErrNoApprovers            = errors.New("at least one approver is required")
	ErrInvalidApproverLevels  = errors.New("approver levels must increase strictly from 1")
	ErrSharesIncomplete       = errors.New("fee shares are incomplete or do not sum to 100")
	ErrBeneficiarySum         = errors.New("beneficiary shares must sum to 100")
	ErrNoBeneficiaries        = errors.New("at least one beneficiary is required")
	ErrAttachmentFlagRequired = errors.New("required attachment flag is missing")
	ErrNotCreator             = errors.New("only the creator may delete an invoice")
	ErrDeleteApproved         = errors.New("approved invoices cannot be deleted")
)

// SubmitInvoiceInput 인보이스 제출 요청
type SubmitInvoiceInput struct {
	Type                 model.InvoiceType
	ProjectName          string
	CompanyName          string
	TotalAmount          float64
	Currency             string
	Memo                 string
	ContractAttached     bool
	RegistrationAttached bool
	Approvers            []model.Approver
	FeeShares            []model.FeeShare
	CostItems            []model.CostItem
	Beneficiaries        []model.Beneficiary
	ReferralAmount       float64
	IsCompetitiveWin     bool
	Department           string
}

type InvoiceService interface {
	Submit(creatorEmail string, input SubmitInvoiceInput) (*model.Invoice, error)
	GetByNumber(number string) (*model.Invoice, error)
	ListMine(creatorEmail string) ([]model.Invoice, error)
	Search(query string) ([]model.Invoice, error)
	Delete(number, requesterEmail string) error
	GenerateInvoiceNumber(invoiceType model.InvoiceType, now time.Time) (string, error)
	EnsureUniqueInvoiceNumber(candidate string) (string, error)
}

type invoiceService struct {
	invoiceRepo    repository.InvoiceRepository
	employeeRepo   repository.EmployeeRepository
	referralPolicy referral.Policy
	notifier       NotificationService
}

func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	employeeRepo repository.EmployeeRepository,
	referralPolicy referral.Policy,
	notifier NotificationService,
) InvoiceService {
	return &invoiceService{
		invoiceRepo:    invoiceRepo,
		employeeRepo:   employeeRepo,
		referralPolicy: referralPolicy,
		notifier:       notifier,
	}
}

// invoiceNumberPrefix 인보이스 유형별 번호 접두사
func invoiceNumberPrefix(t model.InvoiceType) (string, error) {
	switch t {
	case model.InvoiceTypeCustomer:
		return "CI", nil
	case model.InvoiceTypeSupplier:
		return "3P", nil
	case model.InvoiceTypePlusOne:
		return "PO", nil
	default:
		return "", ErrInvalidInvoiceType
	}
}

func (s *invoiceService) Submit(creatorEmail string, input SubmitInvoiceInput) (*model.Invoice, error) {
	logger.Info("Submitting invoice", map[string]interface{}{
		"type":         input.Type,
		"project_name": input.ProjectName,
		"total_amount": input.TotalAmount,
		"created_by":   creatorEmail,
	})

	if err := s.validateSubmission(input); err != nil {
		logger.Warn("Invoice submission validation failed", map[string]interface{}{
			"type":       input.Type,
			"created_by": creatorEmail,
			"error":      err.Error(),
		})
		return nil, err
	}

	currency := input.Currency
	if currency == "" {
		currency = "KRW"
	}

	invoice := &model.Invoice{
		Type:                 input.Type,
		ProjectName:          input.ProjectName,
		CompanyName:          input.CompanyName,
		TotalAmount:          input.TotalAmount,
		Currency:             currency,
		Status:               model.InvoiceStatusPending,
		CurrentApprovalStep:  1,
		Version:              1,
		CreatedBy:            creatorEmail,
		Memo:                 input.Memo,
		ContractAttached:     input.ContractAttached,
		RegistrationAttached: input.RegistrationAttached,
		Approvers:            input.Approvers,
		FeeShares:            input.FeeShares,
		CostItems:            input.CostItems,
		IsCompetitiveWin:     input.IsCompetitiveWin,
		Department:           input.Department,
	}
	assignRowIDs(invoice)

	if input.Type == model.InvoiceTypePlusOne {
		if err := s.applyReferralAward(invoice, input); err != nil {
			return nil, err
		}
	}

	number, err := s.GenerateInvoiceNumber(input.Type, time.Now())
	if err != nil {
		return nil, err
	}
	number, err = s.EnsureUniqueInvoiceNumber(number)
	if err != nil {
		return nil, err
	}
	invoice.InvoiceNumber = number

	if err := s.invoiceRepo.Create(invoice); err != nil {
		// 동시 제출로 번호가 선점된 경우 접미사를 붙여 한 번 더 시도
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			logger.Warn("Invoice number taken concurrently, retrying with suffix", map[string]interface{}{
				"invoice_number": invoice.InvoiceNumber,
			})
			retryNumber, uerr := s.EnsureUniqueInvoiceNumber(invoice.InvoiceNumber)
			if uerr != nil {
				return nil, uerr
			}
			invoice.InvoiceNumber = retryNumber
			if err = s.invoiceRepo.Create(invoice); err != nil {
				return nil, err
			}
		} else {
			return nil, err
		}
	}

	// 첫 번째 승인자에게 알림
	if first := approverAtLevel(invoice, 1); first != nil {
		s.notifier.NotifySubmitted(invoice, first.Email)
	}

	logger.Info("Invoice submitted successfully", map[string]interface{}{
		"invoice_number": invoice.InvoiceNumber,
		"type":           invoice.Type,
		"created_by":     creatorEmail,
		"approver_count": len(invoice.Approvers),
	})
	return invoice, nil
}

func (s *invoiceService) validateSubmission(input SubmitInvoiceInput) error {
	if _, err := invoiceNumberPrefix(input.Type); err != nil {
		return err
	}
	if strings.TrimSpace(input.ProjectName) == "" {
		return errors.New("project name is required")
	}
	if input.TotalAmount < 0 {
		return errors.New("total amount must not be negative")
	}

	// 승인자 순서는 1부터 1씩 증가해야 한다
	if len(input.Approvers) == 0 {
		return ErrNoApprovers
	}
	for i, approver := range input.Approvers {
		if approver.Level != i+1 {
			return ErrInvalidApproverLevels
		}
		if strings.TrimSpace(approver.Email) == "" {
			return ErrInvalidApproverLevels
		}
	}

	// 필수 첨부 표시: 고객 인보이스는 계약서, 공급사 인보이스는 사업자등록증
	switch input.Type {
	case model.InvoiceTypeCustomer:
		if !input.ContractAttached {
			return ErrAttachmentFlagRequired
		}
	case model.InvoiceTypeSupplier:
		if !input.RegistrationAttached {
			return ErrAttachmentFlagRequired
		}
	}

	// Fee sharing은 유형과 무관하게 제출 가능 상태여야 한다
	rows := make([]fee.ShareRow, len(input.FeeShares))
	for i, share := range input.FeeShares {
		rows[i] = fee.ShareRow{
			Email:      share.Email,
			Team:       share.Team,
			Amount:     share.Amount,
			Percentage: share.Percentage,
		}
	}
	if !fee.IsComplete(rows) {
		return ErrSharesIncomplete
	}

	if input.Type == model.InvoiceTypePlusOne {
		if len(input.Beneficiaries) == 0 {
			return ErrNoBeneficiaries
		}
		var sum int
		for _, b := range input.Beneficiaries {
			if strings.TrimSpace(b.Email) == "" || strings.TrimSpace(b.Name) == "" {
				return ErrBeneficiarySum
			}
			sum += b.SharePercentage
		}
		if sum != 100 {
			return ErrBeneficiarySum
		}
	}

	return nil
}

// applyReferralAward 보상 정책으로 보상액을 산정하고 수혜자별 금액을 영속화한다.
// 사용자가 보상액을 직접 수정한 경우(0이 아닌 값) 그 값을 우선한다.
func (s *invoiceService) applyReferralAward(invoice *model.Invoice, input SubmitInvoiceInput) error {
	netRevenue := fee.NetForSharing(invoice.TotalAmount, invoice.ThirdPartyTotal())

	awardAmount := input.ReferralAmount
	if awardAmount == 0 {
		result := s.referralPolicy.Award(referral.AwardInput{
			NetRevenue:       netRevenue,
			Department:       input.Department,
			IsCompetitiveWin: input.IsCompetitiveWin,
		})
		if result.Warning != "" {
			logger.Warn("Referral award policy warning", map[string]interface{}{
				"department": input.Department,
				"warning":    result.Warning,
			})
		}
		awardAmount = result.Amount
	}
	invoice.ReferralAmount = awardAmount

	splitRows := make([]referral.Beneficiary, len(invoice.Beneficiaries))
	for i, b := range invoice.Beneficiaries {
		splitRows[i] = referral.Beneficiary{
			ID:              b.BeneficiaryID,
			Name:            b.Name,
			Email:           b.Email,
			SharePercentage: b.SharePercentage,
		}
	}
	splitRows = referral.ApplyAwards(splitRows, awardAmount)
	for i := range invoice.Beneficiaries {
		invoice.Beneficiaries[i].Award = splitRows[i].Award
	}

	logger.Debug("Referral award applied", map[string]interface{}{
		"net_revenue":       netRevenue,
		"referral_amount":   awardAmount,
		"beneficiary_count": len(invoice.Beneficiaries),
		"policy":            s.referralPolicy.Name(),
	})
	return nil
}

// GenerateInvoiceNumber {PREFIX}-{YYYYMMDD}-{SEQ}: 같은 날짜/접두사의 최대
// 순번 + 1, 3자리 0 채움.
func (s *invoiceService) GenerateInvoiceNumber(invoiceType model.InvoiceType, now time.Time) (string, error) {
	prefix, err := invoiceNumberPrefix(invoiceType)
	if err != nil {
		return "", err
	}

	date := now.Format("20060102")
	pattern := fmt.Sprintf("%s-%s-%%", prefix, date)
	numbers, err := s.invoiceRepo.FindNumbersLike(pattern)
	if err != nil {
		return "", err
	}

	maxSeq := 0
	for _, number := range numbers {
		parts := strings.Split(number, "-")
		if len(parts) < 3 {
			continue
		}
		seq, err := strconv.Atoi(parts[2])
		if err != nil {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}

	return fmt.Sprintf("%s-%s-%03d", prefix, date, maxSeq+1), nil
}

// EnsureUniqueInvoiceNumber 충돌 시 -1, -2, ... 접미사를 붙여 빈 번호를 찾는다.
func (s *invoiceService) EnsureUniqueInvoiceNumber(candidate string) (string, error) {
	exists, err := s.invoiceRepo.ExistsNumber(candidate)
	if err != nil {
		return "", err
	}
	if !exists {
		return candidate, nil
	}

	for suffix := 1; ; suffix++ {
		next := fmt.Sprintf("%s-%d", candidate, suffix)
		exists, err := s.invoiceRepo.ExistsNumber(next)
		if err != nil {
			return "", err
		}
		if !exists {
			logger.Debug("Invoice number collision resolved with suffix", map[string]interface{}{
				"candidate": candidate,
				"unique":    next,
			})
			return next, nil
		}
	}
}

func (s *invoiceService) GetByNumber(number string) (*model.Invoice, error) {
	invoice, err := s.invoiceRepo.FindByNumber(number)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}
	return invoice, nil
}

func (s *invoiceService) ListMine(creatorEmail string) ([]model.Invoice, error) {
	return s.invoiceRepo.FindByCreator(creatorEmail)
}

func (s *invoiceService) Search(query string) ([]model.Invoice, error) {
	return s.invoiceRepo.Search(query)
}

// Delete 작성자 본인만, 승인 완료 전까지만 삭제할 수 있다.
func (s *invoiceService) Delete(number, requesterEmail string) error {
	logger.Info("Deleting invoice", map[string]interface{}{
		"invoice_number": number,
		"requester":      requesterEmail,
	})

	invoice, err := s.invoiceRepo.FindByNumber(number)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvoiceNotFound
		}
		return err
	}

	if invoice.CreatedBy != requesterEmail {
		logger.Warn("Invoice delete refused: not the creator", map[string]interface{}{
			"invoice_number": number,
			"created_by":     invoice.CreatedBy,
			"requester":      requesterEmail,
		})
		return ErrNotCreator
	}
	if invoice.Status == model.InvoiceStatusApproved {
		logger.Warn("Invoice delete refused: already approved", map[string]interface{}{
			"invoice_number": number,
		})
		return ErrDeleteApproved
	}

	if err := s.invoiceRepo.Delete(number); err != nil {
		return err
	}

	logger.Info("Invoice deleted successfully", map[string]interface{}{
		"invoice_number": number,
		"requester":      requesterEmail,
	})
	return nil
}

// assignRowIDs 하위 행의 고유 ID가 비어 있으면 채운다
func assignRowIDs(invoice *model.Invoice) {
	for i := range invoice.Approvers {
		if invoice.Approvers[i].ApproverID == "" {
			invoice.Approvers[i].ApproverID = uuid.New().String()
		}
	}
	for i := range invoice.FeeShares {
		if invoice.FeeShares[i].ShareID == "" {
			invoice.FeeShares[i].ShareID = uuid.New().String()
		}
	}
	for i := range invoice.CostItems {
		if invoice.CostItems[i].ItemID == "" {
			invoice.CostItems[i].ItemID = uuid.New().String()
		}
	}
	for i := range invoice.Beneficiaries {
		if invoice.Beneficiaries[i].BeneficiaryID == "" {
			invoice.Beneficiaries[i].BeneficiaryID = uuid.New().String()
		}
	}
}

// approverAtLevel 해당 순서의 승인자 (없으면 nil)
func approverAtLevel(invoice *model.Invoice, level int) *model.Approver {
	for i := range invoice.Approvers {
		if invoice.Approvers[i].Level == level {
			return &invoice.Approvers[i]
		}
	}
	return nil
}
