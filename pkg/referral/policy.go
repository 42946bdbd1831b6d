package referral

// 추천 보상 정책: 순매출(gross − 3rd party cost, 0 미만 절사) 기준으로 보상액을 산정한다.

// AwardInput 보상 산정 입력
type AwardInput struct {
	NetRevenue       float64 `json:"net_revenue"`
	Department       string  `json:"department"`
	IsCompetitiveWin bool    `json:"is_competitive_win"`
}

// AwardResult 보상 산정 결과
type AwardResult struct {
	Amount   float64 `json:"amount"`
	Rate     float64 `json:"rate"`     // department 정책에서만 의미 있음
	Eligible bool    `json:"eligible"` // false면 보상 제외
	Warning  string  `json:"warning,omitempty"`
}

// Policy computes a referral award from net revenue and context.
type Policy interface {
	Name() string
	Award(input AwardInput) AwardResult
}

// BracketPolicy 순매출 구간별 고정 보상 테이블
//
//	< 10,000,000          : 제외
//	[10,000,000, 50M)     : 500,000 정액
//	[50M, 1,000,000,000)  : 순매출의 1%
//	>= 1,000,000,000      : 10,000,000 정액
type BracketPolicy struct{}

func NewBracketPolicy() *BracketPolicy {
	return &BracketPolicy{}
}

func (p *BracketPolicy) Name() string {
	return "bracket"
}

func (p *BracketPolicy) Award(input AwardInput) AwardResult {
	net := input.NetRevenue

	switch {
	case net < 10000000:
		return AwardResult{Amount: 0, Eligible: false}
	case net < 50000000:
		return AwardResult{Amount: 500000, Eligible: true}
	case net < 1000000000:
		return AwardResult{Amount: net * 0.01, Eligible: true}
	default:
		return AwardResult{Amount: 10000000, Eligible: true}
	}
}

// DepartmentRate 부서별 보상 요율 (%). Allowed가 false면 해당 부서는 보상 대상이 아니다.
type DepartmentRate struct {
	Department      string  `json:"department"`
	CompetitiveRate float64 `json:"competitive_rate"`
	RevenueRate     float64 `json:"revenue_rate"`
	Allowed         bool    `json:"allowed"`
}

// DepartmentPolicy 부서 요율 테이블 기반 정책. 경쟁 수주 여부에 따라
// competitiveRate 또는 revenueRate를 적용한다.
type DepartmentPolicy struct {
	rates map[string]DepartmentRate
}

func NewDepartmentPolicy(rates []DepartmentRate) *DepartmentPolicy {
	table := make(map[string]DepartmentRate, len(rates))
	for _, r := range rates {
		table[r.Department] = r
	}
	return &DepartmentPolicy{rates: table}
}

func (p *DepartmentPolicy) Name() string {
	return "department"
}

func (p *DepartmentPolicy) Award(input AwardInput) AwardResult {
	rate, ok := p.rates[input.Department]
	if !ok {
		return AwardResult{
			Amount:   0,
			Eligible: false,
			Warning:  "해당 부서의 보상 요율이 등록되어 있지 않습니다",
		}
	}
	if !rate.Allowed {
		return AwardResult{
			Amount:   0,
			Eligible: false,
			Warning:  "해당 부서는 추천 보상 대상이 아닙니다",
		}
	}

	effective := rate.RevenueRate
	if input.IsCompetitiveWin {
		effective = rate.CompetitiveRate
	}

	return AwardResult{
		Amount:   input.NetRevenue * effective / 100,
		Rate:     effective,
		Eligible: true,
	}
}

// Select returns the policy for the configured name, defaulting to bracket.
func Select(name string, rates []DepartmentRate) Policy {
	if name == "department" {
		return NewDepartmentPolicy(rates)
	}
	return NewBracketPolicy()
}
