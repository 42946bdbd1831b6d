package fee

import "math"

// Adjustment 청구 총액 조정 항목 (COSS, DFC, Referral Fee 등)
type Adjustment struct {
	Name     string  `json:"name"`
	Amount   float64 `json:"amount"`
	Sign     int     `json:"sign"` // +1: 비용 가산, -1: 수수료 차감
	Included bool    `json:"included"`
}

// ShareRow Net Fee Sharing 배분 행
type ShareRow struct {
	ID         string  `json:"id"`
	Email      string  `json:"email"`
	Team       string  `json:"team"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

// EditedField 사용자가 마지막으로 수정한 필드
type EditedField string

const (
	FieldAmount     EditedField = "amount"
	FieldPercentage EditedField = "percentage"
)

// NetForSharing returns the amount available for fee sharing.
// Only third-party vendor cost reduces the sharing denominator;
// COSS/DFC/referral adjustments never do.
func NetForSharing(gross, thirdPartyTotal float64) float64 {
	net := gross - thirdPartyTotal
	if net < 0 {
		return 0
	}
	return net
}

// FinalBilledTotal returns the displayed final amount: gross plus every
// included adjustment with its sign applied. Not floored at zero.
func FinalBilledTotal(gross float64, adjustments []Adjustment) float64 {
	total := gross
	for _, adj := range adjustments {
		if !adj.Included {
			continue
		}
		total += float64(adj.Sign) * adj.Amount
	}
	return total
}

// Allocate recomputes the counterpart field of the edited row against net.
// Editing amount sets percentage = amount/net*100 (2 decimal places, 0 when
// net <= 0); editing percentage sets amount = round(pct/100*net).
// Sibling rows are never touched.
func Allocate(net float64, rows []ShareRow, editedIndex int, field EditedField) []ShareRow {
	if editedIndex < 0 || editedIndex >= len(rows) {
		return rows
	}

	result := make([]ShareRow, len(rows))
	copy(result, rows)

	row := &result[editedIndex]
	switch field {
	case FieldAmount:
		if net <= 0 {
			row.Percentage = 0
		} else {
			row.Percentage = math.Round(row.Amount/net*100*100) / 100
		}
	case FieldPercentage:
		row.Amount = math.Round(row.Percentage / 100 * net)
	}

	return result
}

// IsComplete reports whether the share rows may be submitted: at least one
// row, every row carries email and team, and percentages sum to 100 within
// 0.01 tolerance.
func IsComplete(rows []ShareRow) bool {
	if len(rows) == 0 {
		return false
	}

	var sum float64
	for _, row := range rows {
		if row.Email == "" || row.Team == "" {
			return false
		}
		sum += row.Percentage
	}

	return math.Abs(sum-100) < 0.01
}

// TotalPercentage returns the current percentage sum across rows.
func TotalPercentage(rows []ShareRow) float64 {
	var sum float64
	for _, row := range rows {
		sum += row.Percentage
	}
	return sum
}
