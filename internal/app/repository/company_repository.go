package repository

import (
	"github.com/FullFarming/v0-invoice-management-system/internal/app/model"
	"github.com/FullFarming/v0-invoice-management-system/pkg/logger"
	"gorm.io/gorm"
)

type CompanyRepository interface {
	FindAll(kind model.CompanyKind) ([]model.Company, error)
	SearchByName(query string, kind model.CompanyKind) ([]model.Company, error)
	FindByBusinessNumber(businessNumber string) (*model.Company, error)
	Create(company *model.Company) error
}

type companyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) CompanyRepository {
	return &companyRepository{db: db}
}

func (r *companyRepository) FindAll(kind model.CompanyKind) ([]model.Company, error) {
	logger.Debug("Finding companies in database", map[string]interface{}{
		"kind": kind,
	})

	query := r.db.Order("name ASC")
	if kind != "" {
		query = query.Where("kind = ?", kind)
	}

	var companies []model.Company
	if err := query.Find(&companies).Error; err != nil {
		logger.Error("Failed to find companies in database", err, map[string]interface{}{
			"kind": kind,
		})
		return nil, err
	}

	logger.Debug("Companies found in database", map[string]interface{}{
		"kind":  kind,
		"count": len(companies),
	})
	return companies, nil
}

func (r *companyRepository) SearchByName(query string, kind model.CompanyKind) ([]model.Company, error) {
	logger.Debug("Searching companies by name in database", map[string]interface{}{
		"query": query,
		"kind":  kind,
	})

	q := r.db.Where("name LIKE ?", "%"+query+"%").Order("name ASC")
	if kind != "" {
		q = q.Where("kind = ?", kind)
	}

	var companies []model.Company
	if err := q.Find(&companies).Error; err != nil {
		logger.Error("Failed to search companies by name in database", err, map[string]interface{}{
			"query": query,
		})
		return nil, err
	}

	logger.Debug("Companies found by name search in database", map[string]interface{}{
		"query": query,
		"count": len(companies),
	})
	return companies, nil
}

func (r *companyRepository) FindByBusinessNumber(businessNumber string) (*model.Company, error) {
	var company model.Company
	if err := r.db.Where("business_number = ?", businessNumber).First(&company).Error; err != nil {
		logger.Error("Failed to find company by business number in database", err, map[string]interface{}{
			"business_number": businessNumber,
		})
		return nil, err
	}
	return &company, nil
}

func (r *companyRepository) Create(company *model.Company) error {
	logger.Debug("Creating company in database", map[string]interface{}{
		"name": company.Name,
		"kind": company.Kind,
	})

	if err := r.db.Create(company).Error; err != nil {
		logger.Error("Failed to create company in database", err, map[string]interface{}{
			"name": company.Name,
		})
		return err
	}

	logger.Debug("Company created in database", map[string]interface{}{
		"company_id": company.ID,
		"name":       company.Name,
	})
	return nil
}
