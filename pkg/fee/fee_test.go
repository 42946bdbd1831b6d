package fee

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNetForSharing(t *testing.T) {
	tests := []struct {
		name            string
		gross           float64
		thirdPartyTotal float64
		want            float64
	}{
		{
			name:            "No third-party cost",
			gross:           100000000,
			thirdPartyTotal: 0,
			want:            100000000,
		},
		{
			name:            "Third-party cost reduces net",
			gross:           100000000,
			thirdPartyTotal: 30000000,
			want:            70000000,
		},
		{
			name:            "Third-party cost exceeds gross floors at zero",
			gross:           10000000,
			thirdPartyTotal: 15000000,
			want:            0,
		},
		{
			name:            "Zero gross",
			gross:           0,
			thirdPartyTotal: 0,
			want:            0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NetForSharing(tt.gross, tt.thirdPartyTotal))
		})
	}
}

func TestFinalBilledTotal(t *testing.T) {
	gross := 100000000.0
	adjustments := []Adjustment{
		{Name: "COSS", Amount: 5000000, Sign: 1, Included: true},
		{Name: "DFC", Amount: 2000000, Sign: 1, Included: true},
		{Name: "Referral Fee", Amount: 3000000, Sign: -1, Included: true},
	}

	total := FinalBilledTotal(gross, adjustments)
	assert.Equal(t, 104000000.0, total)
}

func TestFinalBilledTotal_ExcludedAdjustmentsIgnored(t *testing.T) {
	gross := 50000000.0
	adjustments := []Adjustment{
		{Name: "COSS", Amount: 5000000, Sign: 1, Included: false},
		{Name: "Referral Fee", Amount: 3000000, Sign: -1, Included: true},
	}

	total := FinalBilledTotal(gross, adjustments)
	assert.Equal(t, 47000000.0, total)
}

func TestFinalBilledTotal_NotFloored(t *testing.T) {
	gross := 1000000.0
	adjustments := []Adjustment{
		{Name: "Referral Fee", Amount: 2000000, Sign: -1, Included: true},
	}

	// A negative final billed total is passed through as-is
	total := FinalBilledTotal(gross, adjustments)
	assert.Equal(t, -1000000.0, total)
}

func TestAllocate_EditPercentage(t *testing.T) {
	net := 1000000.0
	rows := []ShareRow{
		{ID: "1", Email: "a@company.com", Team: "Sales", Percentage: 60},
		{ID: "2", Email: "b@company.com", Team: "CS", Percentage: 40},
	}

	result := Allocate(net, rows, 0, FieldPercentage)

	assert.Equal(t, 600000.0, result[0].Amount)
	// Sibling row untouched
	assert.Equal(t, 0.0, result[1].Amount)
	assert.Equal(t, 40.0, result[1].Percentage)
}

func TestAllocate_EditAmount(t *testing.T) {
	net := 1000000.0
	rows := []ShareRow{
		{ID: "1", Email: "a@company.com", Team: "Sales", Amount: 333333},
	}

	result := Allocate(net, rows, 0, FieldAmount)
	assert.InDelta(t, 33.33, result[0].Percentage, 0.001)
}

func TestAllocate_ZeroNetGivesZeroPercentage(t *testing.T) {
	rows := []ShareRow{
		{ID: "1", Email: "a@company.com", Team: "Sales", Amount: 500000},
	}

	result := Allocate(0, rows, 0, FieldAmount)
	assert.Equal(t, 0.0, result[0].Percentage)
}

func TestAllocate_RoundTrip(t *testing.T) {
	net := 1000000.0
	rows := []ShareRow{
		{ID: "1", Email: "a@company.com", Team: "Sales", Percentage: 33.33},
	}

	// percentage -> amount
	result := Allocate(net, rows, 0, FieldPercentage)
	assert.Equal(t, 333300.0, result[0].Amount)

	// amount -> percentage round-trips within tolerance
	back := Allocate(net, result, 0, FieldAmount)
	assert.InDelta(t, 33.33, back[0].Percentage, 0.01)
}

func TestAllocate_InvalidIndexIgnored(t *testing.T) {
	rows := []ShareRow{{ID: "1", Percentage: 100}}
	result := Allocate(1000, rows, 5, FieldPercentage)
	assert.Equal(t, rows, result)
}

func TestIsComplete(t *testing.T) {
	complete := []ShareRow{
		{Email: "a@company.com", Team: "Sales", Percentage: 60},
		{Email: "b@company.com", Team: "CS", Percentage: 30},
		{Email: "c@company.com", Team: "Tech", Percentage: 5},
		{Email: "d@company.com", Team: "Finance", Percentage: 5},
	}
	assert.True(t, IsComplete(complete))
}

func TestIsComplete_SumBelow100(t *testing.T) {
	rows := []ShareRow{
		{Email: "a@company.com", Team: "Sales", Percentage: 60},
		{Email: "b@company.com", Team: "CS", Percentage: 30},
		{Email: "c@company.com", Team: "Tech", Percentage: 5},
	}
	// Sums to 95
	assert.False(t, IsComplete(rows))
}

func TestIsComplete_MissingEmailOrTeam(t *testing.T) {
	missingEmail := []ShareRow{
		{Email: "", Team: "Sales", Percentage: 100},
	}
	assert.False(t, IsComplete(missingEmail))

	missingTeam := []ShareRow{
		{Email: "a@company.com", Team: "", Percentage: 100},
	}
	assert.False(t, IsComplete(missingTeam))
}

func TestIsComplete_EmptyRows(t *testing.T) {
	assert.False(t, IsComplete(nil))
	assert.False(t, IsComplete([]ShareRow{}))
}

func TestIsComplete_Tolerance(t *testing.T) {
	rows := []ShareRow{
		{Email: "a@company.com", Team: "Sales", Percentage: 33.33},
		{Email: "b@company.com", Team: "CS", Percentage: 33.33},
		{Email: "c@company.com", Team: "Tech", Percentage: 33.34},
	}
	assert.True(t, IsComplete(rows))
}
