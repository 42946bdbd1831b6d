package referral

import "errors"

var (
	ErrShareOutOfRange     = errors.New("share percentage must be between 1 and 100")
	ErrBeneficiaryNotFound = errors.New("beneficiary not found")
)

// Beneficiary Plus One 보상 수혜자. SharePercentage는 정수이며 전체 합은 항상 100이다.
type Beneficiary struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	SharePercentage int     `json:"share_percentage"`
	Award           float64 `json:"award"`
}

// AddBeneficiary appends a new beneficiary and rebalances so shares sum to
// exactly 100. The new row gets floor(100/(n+1)); a single existing row is
// compressed to the same value, several existing rows each get an equal
// floor split of the remainder. Any rounding gap lands on the first row.
func AddBeneficiary(rows []Beneficiary, nb Beneficiary) []Beneficiary {
	if len(rows) == 0 {
		nb.SharePercentage = 100
		return []Beneficiary{nb}
	}

	newShare := 100 / (len(rows) + 1)
	result := make([]Beneficiary, len(rows))
	copy(result, rows)

	if len(result) == 1 {
		result[0].SharePercentage = newShare
	} else {
		remaining := 100 - newShare
		each := remaining / len(result)
		for i := range result {
			result[i].SharePercentage = each
		}
	}

	nb.SharePercentage = newShare
	result = append(result, nb)

	fixRoundingGap(result)
	return result
}

// RemoveBeneficiary deletes the row with the given ID and redistributes its
// share evenly across survivors (floor), remainder to the first survivor.
func RemoveBeneficiary(rows []Beneficiary, id string) ([]Beneficiary, error) {
	idx := indexOf(rows, id)
	if idx < 0 {
		return nil, ErrBeneficiaryNotFound
	}

	removed := rows[idx].SharePercentage
	survivors := make([]Beneficiary, 0, len(rows)-1)
	for i, row := range rows {
		if i != idx {
			survivors = append(survivors, row)
		}
	}

	if len(survivors) == 0 {
		return survivors, nil
	}

	each := removed / len(survivors)
	remainder := removed - each*len(survivors)
	for i := range survivors {
		survivors[i].SharePercentage += each
	}
	survivors[0].SharePercentage += remainder

	return survivors, nil
}

// EditBeneficiaryShare sets one row's share to value and spreads the delta
// across the other rows proportionally to their current shares (floored,
// each clamped at a minimum of 1%). Any leftover after the pass goes to the
// largest other row. Values outside [1,100] are refused and the prior state
// is returned unchanged.
func EditBeneficiaryShare(rows []Beneficiary, id string, value int) ([]Beneficiary, error) {
	if value < 1 || value > 100 {
		return rows, ErrShareOutOfRange
	}

	idx := indexOf(rows, id)
	if idx < 0 {
		return rows, ErrBeneficiaryNotFound
	}

	result := make([]Beneficiary, len(rows))
	copy(result, rows)

	if len(result) == 1 {
		if value != 100 {
			return rows, ErrShareOutOfRange
		}
		result[0].SharePercentage = 100
		return result, nil
	}

	delta := value - result[idx].SharePercentage
	result[idx].SharePercentage = value

	var othersTotal int
	for i := range result {
		if i != idx {
			othersTotal += result[i].SharePercentage
		}
	}

	if othersTotal > 0 {
		for i := range result {
			if i == idx {
				continue
			}
			change := delta * result[i].SharePercentage / othersTotal
			result[i].SharePercentage -= change
			if result[i].SharePercentage < 1 {
				result[i].SharePercentage = 1
			}
		}
	}

	// leftover goes to the largest other share
	var sum int
	for i := range result {
		sum += result[i].SharePercentage
	}
	if leftover := 100 - sum; leftover != 0 {
		largest := -1
		for i := range result {
			if i == idx {
				continue
			}
			if largest < 0 || result[i].SharePercentage > result[largest].SharePercentage {
				largest = i
			}
		}
		if largest >= 0 && result[largest].SharePercentage+leftover >= 1 {
			result[largest].SharePercentage += leftover
		} else {
			return rows, ErrShareOutOfRange
		}
	}

	return result, nil
}

// ApplyAwards persists the per-beneficiary award amount for audit:
// award = referralAmount * share / 100.
func ApplyAwards(rows []Beneficiary, referralAmount float64) []Beneficiary {
	result := make([]Beneficiary, len(rows))
	copy(result, rows)
	for i := range result {
		result[i].Award = referralAmount * float64(result[i].SharePercentage) / 100
	}
	return result
}

// TotalShare returns the current share sum.
func TotalShare(rows []Beneficiary) int {
	var sum int
	for _, row := range rows {
		sum += row.SharePercentage
	}
	return sum
}

func indexOf(rows []Beneficiary, id string) int {
	for i, row := range rows {
		if row.ID == id {
			return i
		}
	}
	return -1
}

func fixRoundingGap(rows []Beneficiary) {
	var sum int
	for _, row := range rows {
		sum += row.SharePercentage
	}
	if gap := 100 - sum; gap != 0 && len(rows) > 0 {
		rows[0].SharePercentage += gap
	}
}
