package model

import (
	"time"

	"gorm.io/gorm"
)

// Employee 직원 디렉토리. PositionLevel은 승인자 추천 순서 산정에 쓰인다
// (숫자가 클수록 상위 직급).
type Employee struct {
	ID            uint           `gorm:"primarykey" json:"id"`                         // 직원 ID
	Name          string         `gorm:"type:varchar(100);not null" json:"name"`       // 이름
	Email         string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"` // 이메일
	Department    string         `gorm:"type:varchar(100);index" json:"department"`    // 부서
	Position      string         `gorm:"type:varchar(100)" json:"position"`            // 직급명
	PositionLevel int            `gorm:"default:0;index" json:"position_level"`        // 직급 순위
	CreatedAt     time.Time      `json:"created_at"`                                   // 생성 시각
	UpdatedAt     time.Time      `json:"updated_at"`                                   // 수정 시각
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                               // 삭제 시각(소프트 삭제)
}

func (Employee) TableName() string {
	return "employees"
}

// DepartmentReferralRate 부서별 Plus One 보상 요율 (department 정책용)
type DepartmentReferralRate struct {
	ID              uint      `gorm:"primarykey" json:"id"`                               // 행 ID
	Department      string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"department"` // 부서명
	CompetitiveRate float64   `gorm:"default:0" json:"competitive_rate"`                  // 경쟁 수주 요율 (%)
	RevenueRate     float64   `gorm:"default:0" json:"revenue_rate"`                      // 일반 매출 요율 (%)
	Allowed         bool      `gorm:"default:true" json:"allowed"`                        // 보상 대상 여부
	CreatedAt       time.Time `json:"created_at"`                                         // 생성 시각
	UpdatedAt       time.Time `json:"updated_at"`                                         // 수정 시각
}

func (DepartmentReferralRate) TableName() string {
	return "department_referral_rates"
}
