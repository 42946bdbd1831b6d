package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/FullFarming/v0-invoice-management-system/config"
	"github.com/FullFarming/v0-invoice-management-system/internal/app/repository"
	"github.com/FullFarming/v0-invoice-management-system/internal/app/service"
	"github.com/FullFarming/v0-invoice-management-system/internal/db"
)

// 승인 완료된 인보이스 대장을 XLSX 파일로 내보내는 CLI.
// 사용법: go run cmd/export/main.go [출력 파일 경로]
func main() {
	outputPath := fmt.Sprintf("invoice-ledger-%s.xlsx", time.Now().Format("20060102"))
	if len(os.Args) > 1 {
		outputPath = os.Args[1]
	}

	// 설정 로드
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// DB 연결
	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	invoiceRepo := repository.NewInvoiceRepository(db.GetDB())
	exportService := service.NewExportService(invoiceRepo)

	fmt.Println("Building approved invoice ledger...")
	f, err := exportService.BuildApprovedLedger()
	if err != nil {
		log.Fatal("Failed to build ledger:", err)
	}

	if err := f.SaveAs(outputPath); err != nil {
		log.Fatal("Failed to save ledger:", err)
	}

	fmt.Printf("Ledger exported to %s\n", outputPath)
}
