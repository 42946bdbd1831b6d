package db

import (
	"github.com/FullFarming/v0-invoice-management-system/internal/app/model"
	"github.com/FullFarming/v0-invoice-management-system/pkg/logger"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
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
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := seedInitialData(); err != nil {
		logger.Error("Failed to seed initial data during migration", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// Seed adds initial data to the database (optional)
func Seed() error {
	return seedInitialData()
}

func seedInitialData() error {
	logger.Info("Seeding initial data...")

	if err := seedCompanies(); err != nil {
		logger.Error("Failed to seed companies", err)
		return err
	}
	if err := seedEmployees(); err != nil {
		logger.Error("Failed to seed employees", err)
		return err
	}
	if err := seedDepartmentRates(); err != nil {
		logger.Error("Failed to seed department referral rates", err)
		return err
	}
	if err := seedExchangeRates(); err != nil {
		logger.Error("Failed to seed exchange rates", err)
		return err
	}

	logger.Info("Initial data seeded successfully")
	return nil
}

// seedCompanies 거래처 디렉토리 초기 데이터
func seedCompanies() error {
	var count int64
	if err := DB.Model(&model.Company{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("Companies already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	logger.Info("Seeding company directory...")

	companies := []model.Company{
		{Name: "삼성전자", BusinessNumber: "124-81-00998", Kind: model.CompanyKindCustomer, ContactName: "김담당", ContactEmail: "contact@samsung.example.com", ContactPhone: "02-1234-5678", IsSoc: true, SocInvestment: "3,800억 원", SocPercentage: "5.2%", SocSince: "2022-04-18", SocNote: "직접 및 반도체 인프라 SOC"},
		{Name: "LG전자", BusinessNumber: "107-86-14075", Kind: model.CompanyKindCustomer, ContactName: "이담당", ContactEmail: "contact@lg.example.com", ContactPhone: "02-2345-6789"},
		{Name: "현대자동차", BusinessNumber: "101-81-09147", Kind: model.CompanyKindCustomer, ContactName: "박담당", ContactEmail: "contact@hyundai.example.com", ContactPhone: "02-3456-7890", IsSoc: true, SocInvestment: "2,500억 원", SocPercentage: "4.8%", SocSince: "2022-08-22", SocNote: "교통 인프라 SOC"},
		{Name: "글로벌미디어", BusinessNumber: "211-88-12345", Kind: model.CompanyKindSupplier, ContactName: "최담당", ContactEmail: "contact@gmedia.example.com", ContactPhone: "02-4567-8901"},
		{Name: "크리에이티브파트너스", BusinessNumber: "220-87-67890", Kind: model.CompanyKindSupplier, ContactName: "정담당", ContactEmail: "contact@cpartners.example.com", ContactPhone: "02-5678-9012"},
	}

	for _, company := range companies {
		if err := DB.Create(&company).Error; err != nil {
			logger.Error("Failed to create company", err, map[string]interface{}{
				"company": company.Name,
			})
			return err
		}
	}

	logger.Info("Companies seeded successfully", map[string]interface{}{
		"total": len(companies),
	})
	return nil
}

// seedEmployees 직원 디렉토리 초기 데이터 (직급 순위는 승인자 추천에 사용)
func seedEmployees() error {
	var count int64
	if err := DB.Model(&model.Employee{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("Employees already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	logger.Info("Seeding employee directory...")

	employees := []model.Employee{
		{Name: "김철수", Email: "cskim@company.com", Department: "영업팀", Position: "사원", PositionLevel: 1},
		{Name: "이영희", Email: "yhlee@company.com", Department: "영업팀", Position: "대리", PositionLevel: 2},
		{Name: "박민수", Email: "mspark@company.com", Department: "영업팀", Position: "과장", PositionLevel: 3},
		{Name: "최지은", Email: "jechoi@company.com", Department: "재무팀", Position: "차장", PositionLevel: 4},
		{Name: "정태호", Email: "thjung@company.com", Department: "재무팀", Position: "부장", PositionLevel: 5},
		{Name: "한상우", Email: "swhan@company.com", Department: "경영지원팀", Position: "이사", PositionLevel: 6},
		{Name: "오서연", Email: "syoh@company.com", Department: "경영지원팀", Position: "대표", PositionLevel: 7},
	}

	for _, employee := range employees {
		if err := DB.Create(&employee).Error; err != nil {
			logger.Error("Failed to create employee", err, map[string]interface{}{
				"employee": employee.Email,
			})
			return err
		}
	}

	logger.Info("Employees seeded successfully", map[string]interface{}{
		"total": len(employees),
	})
	return nil
}

// seedDepartmentRates 부서별 보상 요율 초기 데이터
func seedDepartmentRates() error {
	var count int64
	if err := DB.Model(&model.DepartmentReferralRate{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("Department referral rates already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	logger.Info("Seeding department referral rates...")

	rates := []model.DepartmentReferralRate{
		{Department: "영업팀", CompetitiveRate: 3, RevenueRate: 1.5, Allowed: true},
		{Department: "경영지원팀", CompetitiveRate: 2, RevenueRate: 1, Allowed: true},
		{Department: "재무팀", Allowed: false},
	}

	for _, rate := range rates {
		if err := DB.Create(&rate).Error; err != nil {
			logger.Error("Failed to create department referral rate", err, map[string]interface{}{
				"department": rate.Department,
			})
			return err
		}
	}

	logger.Info("Department referral rates seeded successfully", map[string]interface{}{
		"total": len(rates),
	})
	return nil
}

// seedExchangeRates 표시용 고정 환율 (실시간 시세 아님)
func seedExchangeRates() error {
	var count int64
	if err := DB.Model(&model.ExchangeRate{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("Exchange rates already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	logger.Info("Seeding exchange rates...")

	rates := []model.ExchangeRate{
		{Currency: "KRW", RateToKRW: 1},
		{Currency: "USD", RateToKRW: 1478.25},
		{Currency: "EUR", RateToKRW: 1590.40},
		{Currency: "JPY", RateToKRW: 9.85},
		{Currency: "CNY", RateToKRW: 203.15},
	}

	for _, rate := range rates {
		if err := DB.Create(&rate).Error; err != nil {
			logger.Error("Failed to create exchange rate", err, map[string]interface{}{
				"currency": rate.Currency,
			})
			return err
		}
	}

	logger.Info("Exchange rates seeded successfully", map[string]interface{}{
		"total": len(rates),
	})
	return nil
}
