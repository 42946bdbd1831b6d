package model

import "time"

// ExchangeRate 통화별 KRW 환산율. 실시간 시세가 아니라 표시용 고정 환율이다.
type ExchangeRate struct {
	ID        uint      `gorm:"primarykey" json:"id"`                              // 행 ID
	Currency  string    `gorm:"type:varchar(10);uniqueIndex;not null" json:"currency"` // 통화 코드 (USD, EUR 등)
	RateToKRW float64   `gorm:"not null" json:"rate_to_krw"`                       // 1 단위당 KRW 환산율
	UpdatedAt time.Time `json:"updated_at"`                                        // 수정 시각
}

func (ExchangeRate) TableName() string {
	return "exchange_rates"
}
