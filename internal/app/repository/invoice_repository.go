package repository

import (
	"errors"

	"github.com/FullFarming/v0-invoice-management-system/internal/app/model"
	"github.com/FullFarming/v0-invoice-management-system/pkg/logger"
	"gorm.io/gorm"
)

// ErrVersionConflict 낙관적 동시성 버전 불일치 (동시 승인 충돌)
var ErrVersionConflict = errors.New("invoice was modified by another request")

// AllocationRow 배분 조회 결과 행 (fee share + 인보이스 요약)
type AllocationRow struct {
	ShareID       string              `json:"share_id"`
	Email         string              `json:"email"`
	Team          string              `json:"team"`
	Amount        float64             `json:"amount"`
	Percentage    float64             `json:"percentage"`
	InvoiceNumber string              `json:"invoice_number"`
	ProjectName   string              `json:"project_name"`
	Status        model.InvoiceStatus `json:"status"`
	Currency      string              `json:"currency"`
}

type InvoiceRepository interface {
	Create(invoice *model.Invoice) error
	FindByNumber(number string) (*model.Invoice, error)
	FindByCreator(email string) ([]model.Invoice, error)
	FindByApproverEmail(email string) ([]model.Invoice, error)
	FindByStatus(status model.InvoiceStatus) ([]model.Invoice, error)
	Search(query string) ([]model.Invoice, error)
	FindNumbersLike(pattern string) ([]string, error)
	ExistsNumber(number string) (bool, error)
	FindAllocationsByEmail(email string) ([]AllocationRow, error)
	UpdateWithVersion(invoice *model.Invoice, expectedVersion int) error
	Delete(number string) error
}

type invoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) preloadInvoice() *gorm.DB {
	return r.db.
		Preload("Approvers", func(db *gorm.DB) *gorm.DB {
			return db.Order("level ASC")
		}).
		Preload("ApprovalSteps", func(db *gorm.DB) *gorm.DB {
			return db.Order("level ASC")
		}).
		Preload("FeeShares").
		Preload("CostItems").
		Preload("Beneficiaries")
}

func (r *invoiceRepository) Create(invoice *model.Invoice) error {
	logger.Debug("Creating invoice in database", map[string]interface{}{
		"invoice_number": invoice.InvoiceNumber,
		"type":           invoice.Type,
		"total_amount":   invoice.TotalAmount,
		"created_by":     invoice.CreatedBy,
	})

	if err := r.db.Create(invoice).Error; err != nil {
		logger.Error("Failed to create invoice in database", err, map[string]interface{}{
			"invoice_number": invoice.InvoiceNumber,
			"created_by":     invoice.CreatedBy,
		})
		return err
	}

	logger.Debug("Invoice created in database", map[string]interface{}{
		"invoice_id":     invoice.ID,
		"invoice_number": invoice.InvoiceNumber,
	})
	return nil
}

func (r *invoiceRepository) FindByNumber(number string) (*model.Invoice, error) {
	logger.Debug("Finding invoice by number in database", map[string]interface{}{
		"invoice_number": number,
	})

	var invoice model.Invoice
	if err := r.preloadInvoice().Where("invoice_number = ?", number).First(&invoice).Error; err != nil {
		logger.Error("Failed to find invoice by number in database", err, map[string]interface{}{
			"invoice_number": number,
		})
		return nil, err
	}

	logger.Debug("Invoice found by number in database", map[string]interface{}{
		"invoice_id":     invoice.ID,
		"invoice_number": invoice.InvoiceNumber,
		"status":         invoice.Status,
	})
	return &invoice, nil
}

func (r *invoiceRepository) FindByCreator(email string) ([]model.Invoice, error) {
	logger.Debug("Finding invoices by creator in database", map[string]interface{}{
		"created_by": email,
	})

	var invoices []model.Invoice
	if err := r.preloadInvoice().Where("created_by = ?", email).
		Order("created_at DESC").
		Find(&invoices).Error; err != nil {
		logger.Error("Failed to find invoices by creator in database", err, map[string]interface{}{
			"created_by": email,
		})
		return nil, err
	}

	logger.Debug("Invoices found by creator in database", map[string]interface{}{
		"created_by": email,
		"count":      len(invoices),
	})
	return invoices, nil
}

func (r *invoiceRepository) FindByApproverEmail(email string) ([]model.Invoice, error) {
	logger.Debug("Finding invoices by approver email in database", map[string]interface{}{
		"approver_email": email,
	})

	var invoiceIDs []uint
	if err := r.db.Model(&model.Approver{}).
		Where("email = ?", email).
		Distinct("invoice_id").
		Pluck("invoice_id", &invoiceIDs).Error; err != nil {
		logger.Error("Failed to find invoice IDs by approver email in database", err, map[string]interface{}{
			"approver_email": email,
		})
		return nil, err
	}

	if len(invoiceIDs) == 0 {
		return []model.Invoice{}, nil
	}

	var invoices []model.Invoice
	if err := r.preloadInvoice().Where("id IN ?", invoiceIDs).
		Order("created_at DESC").
		Find(&invoices).Error; err != nil {
		logger.Error("Failed to find invoices by approver email in database", err, map[string]interface{}{
			"approver_email": email,
		})
		return nil, err
	}

	logger.Debug("Invoices found by approver email in database", map[string]interface{}{
		"approver_email": email,
		"count":          len(invoices),
	})
	return invoices, nil
}

func (r *invoiceRepository) FindByStatus(status model.InvoiceStatus) ([]model.Invoice, error) {
	logger.Debug("Finding invoices by status in database", map[string]interface{}{
		"status": status,
	})

	var invoices []model.Invoice
	if err := r.preloadInvoice().Where("status = ?", status).
		Order("created_at DESC").
		Find(&invoices).Error; err != nil {
		logger.Error("Failed to find invoices by status in database", err, map[string]interface{}{
			"status": status,
		})
		return nil, err
	}

	logger.Debug("Invoices found by status in database", map[string]interface{}{
		"status": status,
		"count":  len(invoices),
	})
	return invoices, nil
}

func (r *invoiceRepository) Search(query string) ([]model.Invoice, error) {
	logger.Debug("Searching invoices in database", map[string]interface{}{
		"query": query,
	})

	pattern := "%" + query + "%"
	var invoices []model.Invoice
	if err := r.preloadInvoice().
		Where("invoice_number LIKE ? OR project_name LIKE ? OR company_name LIKE ?", pattern, pattern, pattern).
		Order("created_at DESC").
		Find(&invoices).Error; err != nil {
		logger.Error("Failed to search invoices in database", err, map[string]interface{}{
			"query": query,
		})
		return nil, err
	}

	logger.Debug("Invoices found by search in database", map[string]interface{}{
		"query": query,
		"count": len(invoices),
	})
	return invoices, nil
}

func (r *invoiceRepository) FindNumbersLike(pattern string) ([]string, error) {
	var numbers []string
	if err := r.db.Model(&model.Invoice{}).
		Where("invoice_number LIKE ?", pattern).
		Pluck("invoice_number", &numbers).Error; err != nil {
		logger.Error("Failed to find invoice numbers in database", err, map[string]interface{}{
			"pattern": pattern,
		})
		return nil, err
	}
	return numbers, nil
}

func (r *invoiceRepository) ExistsNumber(number string) (bool, error) {
	var count int64
	if err := r.db.Model(&model.Invoice{}).
		Where("invoice_number = ?", number).
		Count(&count).Error; err != nil {
		logger.Error("Failed to check invoice number existence in database", err, map[string]interface{}{
			"invoice_number": number,
		})
		return false, err
	}
	return count > 0, nil
}

func (r *invoiceRepository) FindAllocationsByEmail(email string) ([]AllocationRow, error) {
	logger.Debug("Finding fee allocations by email in database", map[string]interface{}{
		"email": email,
	})

	var rows []AllocationRow
	if err := r.db.Table("invoice_fee_shares").
		Select("invoice_fee_shares.share_id, invoice_fee_shares.email, invoice_fee_shares.team, invoice_fee_shares.amount, invoice_fee_shares.percentage, invoices.invoice_number, invoices.project_name, invoices.status, invoices.currency").
		Joins("JOIN invoices ON invoices.id = invoice_fee_shares.invoice_id").
		Where("invoice_fee_shares.email = ? AND invoices.deleted_at IS NULL", email).
		Order("invoices.created_at DESC").
		Scan(&rows).Error; err != nil {
		logger.Error("Failed to find fee allocations by email in database", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}

	logger.Debug("Fee allocations found by email in database", map[string]interface{}{
		"email": email,
		"count": len(rows),
	})
	return rows, nil
}

// UpdateWithVersion applies an approval-state mutation as a compare-and-swap
// on the invoice version. A concurrent writer makes the version check fail
// and the whole transaction rolls back with ErrVersionConflict.
func (r *invoiceRepository) UpdateWithVersion(invoice *model.Invoice, expectedVersion int) error {
	logger.Debug("Updating invoice with version check in database", map[string]interface{}{
		"invoice_id":       invoice.ID,
		"invoice_number":   invoice.InvoiceNumber,
		"expected_version": expectedVersion,
		"status":           invoice.Status,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Invoice{}).
			Where("id = ? AND version = ?", invoice.ID, expectedVersion).
			Updates(map[string]interface{}{
				"status":                invoice.Status,
				"current_approval_step": invoice.CurrentApprovalStep,
				"version":               expectedVersion + 1,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrVersionConflict
		}

		// 승인 단계 기록 전체 교체
		if err := tx.Where("invoice_id = ?", invoice.ID).Delete(&model.ApprovalStep{}).Error; err != nil {
			return err
		}
		if len(invoice.ApprovalSteps) > 0 {
			steps := make([]model.ApprovalStep, len(invoice.ApprovalSteps))
			copy(steps, invoice.ApprovalSteps)
			for i := range steps {
				steps[i].ID = 0
				steps[i].InvoiceID = invoice.ID
			}
			if err := tx.Create(&steps).Error; err != nil {
				return err
			}
			invoice.ApprovalSteps = steps
		}

		return nil
	})

	if err != nil {
		if errors.Is(err, ErrVersionConflict) {
			logger.Warn("Invoice version conflict detected", map[string]interface{}{
				"invoice_id":       invoice.ID,
				"invoice_number":   invoice.InvoiceNumber,
				"expected_version": expectedVersion,
			})
		} else {
			logger.Error("Failed to update invoice with version check in database", err, map[string]interface{}{
				"invoice_id":     invoice.ID,
				"invoice_number": invoice.InvoiceNumber,
			})
		}
		return err
	}

	invoice.Version = expectedVersion + 1

	logger.Debug("Invoice updated with version check in database", map[string]interface{}{
		"invoice_id":     invoice.ID,
		"invoice_number": invoice.InvoiceNumber,
		"new_version":    invoice.Version,
	})
	return nil
}

func (r *invoiceRepository) Delete(number string) error {
	logger.Debug("Deleting invoice from database", map[string]interface{}{
		"invoice_number": number,
	})

	if err := r.db.Where("invoice_number = ?", number).Delete(&model.Invoice{}).Error; err != nil {
		logger.Error("Failed to delete invoice from database", err, map[string]interface{}{
			"invoice_number": number,
		})
		return err
	}

	logger.Debug("Invoice deleted from database", map[string]interface{}{
		"invoice_number": number,
	})
	return nil
}
