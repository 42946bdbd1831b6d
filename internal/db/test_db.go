package db

import (
	"fmt"
	"log"

	"github.com/FullFarming/v0-invoice-management-system/internal/app/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates an in-memory SQLite database for testing
func SetupTestDB() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}

	// Run migrations
	err = db.AutoMigrate(
		&model.User{},
		&model.Invoice{},
		&model.Approver{},
		&model.ApprovalStep{},
		&model.FeeShare{},
		&model.CostItem{},
		&model.Beneficiary{},
		&model.Company{},
		&model.Employee{},
		&model.DepartmentReferralRate{},
		&model.ExchangeRate{},
		&model.SocRequest{},
		&model.SocConfirmation{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate test database: %w", err)
	}

	return db, nil
}

// CleanupTestDB cleans up the test database
func CleanupTestDB(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Failed to get DB instance: %v", err)
		return
	}
	sqlDB.Close()
}

// TruncateAllTables removes all data from tables
func TruncateAllTables(db *gorm.DB) error {
	tables := []string{
		"soc_confirmations",
		"soc_requests",
		"invoice_beneficiaries",
		"invoice_cost_items",
		"invoice_fee_shares",
		"invoice_approval_steps",
		"invoice_approvers",
		"invoices",
		"department_referral_rates",
		"exchange_rates",
		"employees",
		"companies",
		"users",
	}
	for _, table := range tables {
		if err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
			return err
		}
	}
	return nil
}
