package model

import (
	"time"

	"gorm.io/gorm"
)

type SocRequestStatus string // SOC 요청 상태 코드

const (
	SocStatusPending  SocRequestStatus = "pending"  // 승인 대기
	SocStatusApproved SocRequestStatus = "approved" // 승인 완료
	SocStatusRejected SocRequestStatus = "rejected" // 반려
)

// SocRequest 고객사 SOC 확인 요청.
// 회사의 SOC 상태는 요청 시점 스냅샷으로 함께 보관한다.
type SocRequest struct {
	ID             uint             `gorm:"primarykey" json:"id"`                            // 요청 ID
	CompanyID      uint             `gorm:"index" json:"company_id"`                         // 대상 회사 ID
	CompanyName    string           `gorm:"type:varchar(255);not null" json:"company_name"`  // 대상 회사명
	BusinessNumber string           `gorm:"type:varchar(20)" json:"business_number"`         // 사업자등록번호
	IsSoc          bool             `gorm:"default:false" json:"is_soc"`                     // 요청 시점 SOC 여부
	RequesterEmail string           `gorm:"type:varchar(255);not null;index" json:"requester_email"` // 요청자 이메일
	RequesterName  string           `gorm:"type:varchar(100)" json:"requester_name"`         // 요청자 이름
	Details        string           `gorm:"type:text;not null" json:"details"`               // 요청 내용
	Status         SocRequestStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"` // 처리 상태
	DecidedBy      string           `gorm:"type:varchar(255)" json:"decided_by,omitempty"`   // 처리자 이메일
	DecidedAt      *time.Time       `json:"decided_at,omitempty"`                            // 처리 시각
	RejectReason   string           `gorm:"type:text" json:"reject_reason,omitempty"`        // 반려 사유
	CreatedAt      time.Time        `json:"created_at"`                                      // 생성 시각
	UpdatedAt      time.Time        `json:"updated_at"`                                      // 수정 시각
	DeletedAt      gorm.DeletedAt   `gorm:"index" json:"-"`                                  // 삭제 시각(소프트 삭제)
}

func (SocRequest) TableName() string {
	return "soc_requests"
}

// IsTerminal 이미 승인 또는 반려된 요청인지
func (r *SocRequest) IsTerminal() bool {
	return r.Status != SocStatusPending
}

// SocConfirmation 승인된 SOC 요청에 대해 발급되는 확인서 기록
type SocConfirmation struct {
	ID               uint           `gorm:"primarykey" json:"id"`                           // 확인서 ID
	RequestID        uint           `gorm:"index;not null" json:"request_id"`               // 원본 요청 ID
	CompanyName      string         `gorm:"type:varchar(255);not null" json:"company_name"` // 대상 회사명
	ConfirmationDate time.Time      `json:"confirmation_date"`                              // 발급일
	ExpiryDate       time.Time      `json:"expiry_date"`                                    // 만료일 (발급일 +1년)
	DocumentURL      string         `gorm:"type:varchar(500)" json:"document_url"`          // 확인서 문서 경로
	CreatedAt        time.Time      `json:"created_at"`                                     // 생성 시각
	UpdatedAt        time.Time      `json:"updated_at"`                                     // 수정 시각
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`                                 // 삭제 시각(소프트 삭제)
}

func (SocConfirmation) TableName() string {
	return "soc_confirmations"
}
