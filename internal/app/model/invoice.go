package model

import (
	"time"

	"gorm.io/gorm"
)

type InvoiceType string   // 인보이스 유형 코드
type InvoiceStatus string // 인보이스 승인 상태 코드
type StepStatus string    // 개별 승인 단계 상태 코드
type CostItemKind string  // 비용 조정 항목 종류

const (
	InvoiceTypeCustomer InvoiceType = "customer" // 고객 인보이스 (CI)
	InvoiceTypeSupplier InvoiceType = "supplier" // 공급사/3rd party 인보이스 (3P)
	InvoiceTypePlusOne  InvoiceType = "plusone"  // Plus One 추천 인보이스 (PO)

	InvoiceStatusPending  InvoiceStatus = "pending"  // 승인 대기
	InvoiceStatusApproved InvoiceStatus = "approved" // 승인 완료
	InvoiceStatusRejected InvoiceStatus = "rejected" // 반려

	StepStatusPending  StepStatus = "pending"  // 단계 대기
	StepStatusApproved StepStatus = "approved" // 단계 승인
	StepStatusRejected StepStatus = "rejected" // 단계 반려

	CostKindThirdParty CostItemKind = "third_party"  // 3rd party vendor 비용 (배분 기준액 차감)
	CostKindCOSS       CostItemKind = "coss"         // COSS 비용 (청구 총액 가산)
	CostKindDFC        CostItemKind = "dfc"          // DFC 비용 (청구 총액 가산)
	CostKindReferral   CostItemKind = "referral_fee" // Referral Fee (청구 총액 차감)
)

type Invoice struct {
	ID                  uint           `gorm:"primarykey" json:"id"`                                  // 인보이스 ID
	InvoiceNumber       string         `gorm:"uniqueIndex;not null" json:"invoice_number"`            // 인보이스 번호 ({PREFIX}-{YYYYMMDD}-{SEQ})
	Type                InvoiceType    `gorm:"type:varchar(20);not null" json:"type"`                 // 인보이스 유형 (생성 후 불변)
	ProjectName         string         `gorm:"type:varchar(255);not null" json:"project_name"`        // 프로젝트명
	CompanyName         string         `gorm:"type:varchar(255)" json:"company_name"`                 // 거래처명
	TotalAmount         float64        `gorm:"not null" json:"total_amount"`                          // 총액 (gross)
	Currency            string         `gorm:"type:varchar(10);default:'KRW'" json:"currency"`        // 통화 코드
	Status              InvoiceStatus  `gorm:"type:varchar(20);default:'pending'" json:"status"`      // 승인 상태
	CurrentApprovalStep int            `gorm:"default:1" json:"current_approval_step"`                // 현재 승인 단계 (1-based, length+1이면 완료)
	Version             int            `gorm:"default:1" json:"version"`                              // 낙관적 동시성 버전
	CreatedBy           string         `gorm:"type:varchar(255);not null;index" json:"created_by"`    // 작성자 이메일 (불변)
	ContractAttached    bool           `gorm:"default:false" json:"contract_attached"`                // 계약서 첨부 여부
	RegistrationAttached bool          `gorm:"default:false" json:"registration_attached"`            // 사업자등록증 첨부 여부
	Memo                string         `gorm:"type:text" json:"memo,omitempty"`                       // 비고

	// Plus One 전용 필드
	ReferralAmount   float64 `gorm:"default:0" json:"referral_amount,omitempty"`        // 추천 보상액
	IsCompetitiveWin bool    `gorm:"default:false" json:"is_competitive_win,omitempty"` // 경쟁 수주 여부
	Department       string  `gorm:"type:varchar(100)" json:"department,omitempty"`     // 추천 부서 (department 정책용)

	CreatedAt time.Time      `json:"created_at"` // 생성 시각
	UpdatedAt time.Time      `json:"updated_at"` // 수정 시각
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"` // 삭제 시각(소프트 삭제)

	Approvers     []Approver     `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"approvers,omitempty"`      // 승인자 목록 (level 오름차순)
	ApprovalSteps []ApprovalStep `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"approval_steps,omitempty"` // 승인 단계 실행 기록
	FeeShares     []FeeShare     `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"fee_shares,omitempty"`     // Net Fee Sharing 배분
	CostItems     []CostItem     `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"cost_items,omitempty"`     // 비용 조정 항목
	Beneficiaries []Beneficiary  `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"beneficiaries,omitempty"`  // Plus One 수혜자
}

func (Invoice) TableName() string {
	return "invoices"
}

// ThirdPartyTotal 배분 기준액 산정에 쓰이는 3rd party vendor 비용 합계
func (i *Invoice) ThirdPartyTotal() float64 {
	var total float64
	for _, item := range i.CostItems {
		if item.Kind == CostKindThirdParty && item.Included {
			total += item.Amount
		}
	}
	return total
}

// IsTerminal 종결 상태(승인 완료/반려) 여부
func (i *Invoice) IsTerminal() bool {
	return i.Status != InvoiceStatusPending
}

// Approver 승인 순서 선언 (워크플로우 참가자)
type Approver struct {
	ID         uint   `gorm:"primarykey" json:"id"`                          // 행 ID
	InvoiceID  uint   `gorm:"not null;index" json:"invoice_id"`              // 인보이스 ID
	ApproverID string `gorm:"type:varchar(36);not null" json:"approver_id"`  // 승인자 고유 ID (단계 기록과의 연결 키)
	Email      string `gorm:"type:varchar(255);not null" json:"email"`       // 승인자 이메일
	Level      int    `gorm:"not null" json:"level"`                         // 승인 순서 (1부터 증가)
}

func (Approver) TableName() string {
	return "invoice_approvers"
}

// ApprovalStep 승인자 한 명의 실행 기록. 배열 위치가 아니라 ApproverID로
// 승인자 선언과 연결된다.
type ApprovalStep struct {
	ID         uint       `gorm:"primarykey" json:"id"`                             // 행 ID
	InvoiceID  uint       `gorm:"not null;index" json:"invoice_id"`                 // 인보이스 ID
	ApproverID string     `gorm:"type:varchar(36);not null" json:"approver_id"`     // 승인자 고유 ID
	Email      string     `gorm:"type:varchar(255);not null" json:"email"`          // 승인자 이메일
	Level      int        `gorm:"not null" json:"level"`                            // 승인 순서
	Status     StepStatus `gorm:"type:varchar(20);default:'pending'" json:"status"` // 단계 상태
	Comment    string     `gorm:"type:text" json:"comment,omitempty"`               // 반려 사유 등 코멘트
	Timestamp  *time.Time `json:"timestamp,omitempty"`                              // 처리 시각
}

func (ApprovalStep) TableName() string {
	return "invoice_approval_steps"
}

// FeeShare Net Fee Sharing 배분 행. 제출 시 비율 합 100(±0.01) 검증.
type FeeShare struct {
	ID         uint    `gorm:"primarykey" json:"id"`                         // 행 ID
	InvoiceID  uint    `gorm:"not null;index" json:"invoice_id"`             // 인보이스 ID
	ShareID    string  `gorm:"type:varchar(36);not null" json:"share_id"`    // 배분 행 고유 ID
	Email      string  `gorm:"type:varchar(255);not null" json:"email"`      // 배분 대상 이메일
	Team       string  `gorm:"type:varchar(100);not null" json:"team"`       // 소속 팀
	Amount     float64 `gorm:"not null" json:"amount"`                       // 배분 금액
	Percentage float64 `gorm:"not null" json:"percentage"`                   // 배분 비율 (%)
}

func (FeeShare) TableName() string {
	return "invoice_fee_shares"
}

// CostItem 비용 조정 항목 (3rd party / COSS / DFC / Referral Fee)
type CostItem struct {
	ID        uint         `gorm:"primarykey" json:"id"`                      // 행 ID
	InvoiceID uint         `gorm:"not null;index" json:"invoice_id"`          // 인보이스 ID
	ItemID    string       `gorm:"type:varchar(36);not null" json:"item_id"`  // 항목 고유 ID
	Kind      CostItemKind `gorm:"type:varchar(20);not null" json:"kind"`     // 항목 종류
	Name      string       `gorm:"type:varchar(255);not null" json:"name"`    // 항목명 (업체명 등)
	Amount    float64      `gorm:"not null" json:"amount"`                    // 금액
	Included  bool         `gorm:"default:true" json:"included"`              // 계산 포함 여부
}

func (CostItem) TableName() string {
	return "invoice_cost_items"
}

// Beneficiary Plus One 보상 수혜자. 지분 합은 항상 100.
type Beneficiary struct {
	ID              uint    `gorm:"primarykey" json:"id"`                             // 행 ID
	InvoiceID       uint    `gorm:"not null;index" json:"invoice_id"`                 // 인보이스 ID
	BeneficiaryID   string  `gorm:"type:varchar(36);not null" json:"beneficiary_id"`  // 수혜자 고유 ID
	Name            string  `gorm:"type:varchar(100);not null" json:"name"`           // 이름
	Email           string  `gorm:"type:varchar(255);not null" json:"email"`          // 이메일
	SharePercentage int     `gorm:"not null" json:"share_percentage"`                 // 지분 (%)
	Award           float64 `gorm:"default:0" json:"award"`                           // 개인별 보상액 (감사용 영속화)
}

func (Beneficiary) TableName() string {
	return "invoice_beneficiaries"
}
