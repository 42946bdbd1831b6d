package service

import (
	"github.com/FullFarming/v0-invoice-management-system/internal/app/model"
	"github.com/FullFarming/v0-invoice-management-system/internal/app/repository"
	"github.com/FullFarming/v0-invoice-management-system/pkg/logger"
	"github.com/xuri/excelize/v2"
)

// ExportService 승인 완료된 인보이스를 XLSX 대장으로 내보낸다
type ExportService interface {
	BuildApprovedLedger() (*excelize.File, error)
}

type exportService struct {
	invoiceRepo repository.InvoiceRepository
}

func NewExportService(invoiceRepo repository.InvoiceRepository) ExportService {
	return &exportService{invoiceRepo: invoiceRepo}
}

var ledgerHeaders = []string{
	"인보이스 번호", "유형", "프로젝트명", "회사명", "금액", "통화", "작성자", "승인 완료일",
}

var shareHeaders = []string{
	"인보이스 번호", "이메일", "팀", "배분 금액", "배분 비율(%)",
}

func (s *exportService) BuildApprovedLedger() (*excelize.File, error) {
	logger.Info("Building approved invoice ledger")

	invoices, err := s.invoiceRepo.FindByStatus(model.InvoiceStatusApproved)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()

	ledgerSheet := f.GetSheetName(0)
	if err := f.SetSheetName(ledgerSheet, "승인완료"); err != nil {
		return nil, err
	}
	ledgerSheet = "승인완료"

	shareSheet := "Fee배분"
	if _, err := f.NewSheet(shareSheet); err != nil {
		return nil, err
	}

	for col, header := range ledgerHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(ledgerSheet, cell, header); err != nil {
			return nil, err
		}
	}
	for col, header := range shareHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(shareSheet, cell, header); err != nil {
			return nil, err
		}
	}

	shareRow := 2
	for i, invoice := range invoices {
		approvedAt := ""
		for _, step := range invoice.ApprovalSteps {
			if step.Status == model.StepStatusApproved && step.Timestamp != nil {
				approvedAt = step.Timestamp.Format("2006-01-02")
			}
		}

		values := []interface{}{
			invoice.InvoiceNumber,
			string(invoice.Type),
			invoice.ProjectName,
			invoice.CompanyName,
			invoice.TotalAmount,
			invoice.Currency,
			invoice.CreatedBy,
			approvedAt,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(ledgerSheet, cell, value); err != nil {
				return nil, err
			}
		}

		for _, share := range invoice.FeeShares {
			shareValues := []interface{}{
				invoice.InvoiceNumber,
				share.Email,
				share.Team,
				share.Amount,
				share.Percentage,
			}
			for col, value := range shareValues {
				cell, err := excelize.CoordinatesToCellName(col+1, shareRow)
				if err != nil {
					return nil, err
				}
				if err := f.SetCellValue(shareSheet, cell, value); err != nil {
					return nil, err
				}
			}
			shareRow++
		}
	}

	logger.Info("Approved invoice ledger built", map[string]interface{}{
		"invoice_count": len(invoices),
		"share_rows":    shareRow - 2,
	})

	if len(invoices) == 0 {
		logger.Warn("No approved invoices to export")
	}

	return f, nil
}
