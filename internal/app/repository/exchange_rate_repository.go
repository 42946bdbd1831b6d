package repository

import (
	"github.com/FullFarming/v0-invoice-management-system/internal/app/model"
	"github.com/FullFarming/v0-invoice-management-system/pkg/logger"
	"gorm.io/gorm"
)

type ExchangeRateRepository interface {
	FindAll() ([]model.ExchangeRate, error)
	FindByCurrency(currency string) (*model.ExchangeRate, error)
}

type exchangeRateRepository struct {
	db *gorm.DB
}

func NewExchangeRateRepository(db *gorm.DB) ExchangeRateRepository {
	return &exchangeRateRepository{db: db}
}

func (r *exchangeRateRepository) FindAll() ([]model.ExchangeRate, error) {
	var rates []model.ExchangeRate
	if err := r.db.Order("currency ASC").Find(&rates).Error; err != nil {
		logger.Error("Failed to find exchange rates in database", err)
		return nil, err
	}
	return rates, nil
}

func (r *exchangeRateRepository) FindByCurrency(currency string) (*model.ExchangeRate, error) {
	var rate model.ExchangeRate
	if err := r.db.Where("currency = ?", currency).First(&rate).Error; err != nil {
		logger.Error("Failed to find exchange rate by currency in database", err, map[string]interface{}{
			"currency": currency,
		})
		return nil, err
	}
	return &rate, nil
}
