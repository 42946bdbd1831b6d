package model

import (
	"time"

	"gorm.io/gorm"
)

type CompanyKind string // 거래처 구분 코드

const (
	CompanyKindCustomer CompanyKind = "customer" // 고객사
	CompanyKindSupplier CompanyKind = "supplier" // 공급사/벤더
)

// Company 거래처 디렉토리 (제출 폼 자동완성용 조회 테이블)
type Company struct {
	ID             uint           `gorm:"primarykey" json:"id"`                            // 회사 ID
	Name           string         `gorm:"type:varchar(255);not null;index" json:"name"`    // 회사명
	BusinessNumber string         `gorm:"type:varchar(20);uniqueIndex" json:"business_number"` // 사업자등록번호
	Kind           CompanyKind    `gorm:"type:varchar(20);not null" json:"kind"`           // 거래처 구분
	ContactName    string         `gorm:"type:varchar(100)" json:"contact_name"`           // 담당자 이름
	ContactEmail   string         `gorm:"type:varchar(255)" json:"contact_email"`          // 담당자 이메일
	ContactPhone   string         `gorm:"type:varchar(20)" json:"contact_phone"`           // 담당자 연락처
	IsSoc          bool           `gorm:"default:false" json:"is_soc"`                     // SOC 대상 여부
	SocInvestment  string         `gorm:"type:varchar(100)" json:"soc_investment,omitempty"` // SOC 투자 금액 (표기 문자열)
	SocPercentage  string         `gorm:"type:varchar(20)" json:"soc_percentage,omitempty"`  // SOC 투자 지분율
	SocSince       string         `gorm:"type:varchar(20)" json:"soc_since,omitempty"`       // SOC 편입일
	SocNote        string         `gorm:"type:varchar(255)" json:"soc_note,omitempty"`       // SOC 비고
	CreatedAt      time.Time      `json:"created_at"`                                      // 생성 시각
	UpdatedAt      time.Time      `json:"updated_at"`                                      // 수정 시각
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                                  // 삭제 시각(소프트 삭제)
}

func (Company) TableName() string {
	return "companies"
}
