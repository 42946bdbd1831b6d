package repository

import (
	"github.com/FullFarming/v0-invoice-management-system/internal/app/model"
	"github.com/FullFarming/v0-invoice-management-system/pkg/logger"
	"gorm.io/gorm"
)

type SocRepository interface {
	CreateRequest(request *model.SocRequest) error
	FindRequestByID(id uint) (*model.SocRequest, error)
	FindRequests(status model.SocRequestStatus) ([]model.SocRequest, error)
	FindRequestsByRequester(email string) ([]model.SocRequest, error)
	UpdateRequest(request *model.SocRequest) error
	CreateConfirmation(confirmation *model.SocConfirmation) error
	FindConfirmations(companyName string) ([]model.SocConfirmation, error)
}

type socRepository struct {
	db *gorm.DB
}

func NewSocRepository(db *gorm.DB) SocRepository {
	return &socRepository{db: db}
}

func (r *socRepository) CreateRequest(request *model.SocRequest) error {
	logger.Debug("Creating SOC request in database", map[string]interface{}{
		"company_name":    request.CompanyName,
		"requester_email": request.RequesterEmail,
	})

	if err := r.db.Create(request).Error; err != nil {
		logger.Error("Failed to create SOC request in database", err, map[string]interface{}{
			"company_name": request.CompanyName,
		})
		return err
	}

	logger.Debug("SOC request created in database", map[string]interface{}{
		"request_id": request.ID,
	})
	return nil
}

func (r *socRepository) FindRequestByID(id uint) (*model.SocRequest, error) {
	var request model.SocRequest
	if err := r.db.First(&request, id).Error; err != nil {
		logger.Error("Failed to find SOC request in database", err, map[string]interface{}{
			"request_id": id,
		})
		return nil, err
	}
	return &request, nil
}

func (r *socRepository) FindRequests(status model.SocRequestStatus) ([]model.SocRequest, error) {
	query := r.db.Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var requests []model.SocRequest
	if err := query.Find(&requests).Error; err != nil {
		logger.Error("Failed to list SOC requests in database", err, map[string]interface{}{
			"status": status,
		})
		return nil, err
	}

	logger.Debug("SOC requests found in database", map[string]interface{}{
		"status": status,
		"count":  len(requests),
	})
	return requests, nil
}

func (r *socRepository) FindRequestsByRequester(email string) ([]model.SocRequest, error) {
	var requests []model.SocRequest
	err := r.db.
		Where("requester_email = ?", email).
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		logger.Error("Failed to list SOC requests by requester in database", err, map[string]interface{}{
			"requester_email": email,
		})
		return nil, err
	}
	return requests, nil
}

func (r *socRepository) UpdateRequest(request *model.SocRequest) error {
	logger.Debug("Updating SOC request in database", map[string]interface{}{
		"request_id": request.ID,
		"status":     request.Status,
	})

	if err := r.db.Save(request).Error; err != nil {
		logger.Error("Failed to update SOC request in database", err, map[string]interface{}{
			"request_id": request.ID,
		})
		return err
	}
	return nil
}

func (r *socRepository) CreateConfirmation(confirmation *model.SocConfirmation) error {
	logger.Debug("Creating SOC confirmation in database", map[string]interface{}{
		"request_id":   confirmation.RequestID,
		"company_name": confirmation.CompanyName,
	})

	if err := r.db.Create(confirmation).Error; err != nil {
		logger.Error("Failed to create SOC confirmation in database", err, map[string]interface{}{
			"request_id": confirmation.RequestID,
		})
		return err
	}
	return nil
}

func (r *socRepository) FindConfirmations(companyName string) ([]model.SocConfirmation, error) {
	query := r.db.Order("confirmation_date DESC")
	if companyName != "" {
		query = query.Where("company_name = ?", companyName)
	}

	var confirmations []model.SocConfirmation
	if err := query.Find(&confirmations).Error; err != nil {
		logger.Error("Failed to list SOC confirmations in database", err, map[string]interface{}{
			"company_name": companyName,
		})
		return nil, err
	}
	return confirmations, nil
}
