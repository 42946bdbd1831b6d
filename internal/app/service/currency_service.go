package service

import (
	"errors"

	"github.com/FullFarming/v0-invoice-management-system/internal/app/model"
	"github.com/FullFarming/v0-invoice-management-system/internal/app/repository"
	"github.com/FullFarming/v0-invoice-management-system/pkg/logger"
	"gorm.io/gorm"
)

var ErrUnknownCurrency = errors.New("unknown currency")

// CurrencyService 통화 목록과 원화 환산
type CurrencyService interface {
	ListRates() ([]model.ExchangeRate, error)
	ConvertToKRW(amount float64, currency string) (float64, error)
}

type currencyService struct {
	rateRepo repository.ExchangeRateRepository
}

func NewCurrencyService(rateRepo repository.ExchangeRateRepository) CurrencyService {
	return &currencyService{rateRepo: rateRepo}
}

func (s *currencyService) ListRates() ([]model.ExchangeRate, error) {
	return s.rateRepo.FindAll()
}

func (s *currencyService) ConvertToKRW(amount float64, currency string) (float64, error) {
	if currency == "" || currency == "KRW" {
		return amount, nil
	}

	rate, err := s.rateRepo.FindByCurrency(currency)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Conversion requested for unknown currency", map[string]interface{}{
				"currency": currency,
			})
			return 0, ErrUnknownCurrency
		}
		return 0, err
	}

	return amount * rate.RateToKRW, nil
}
