package referral

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddBeneficiary(t *testing.T) {
	t.Run("First beneficiary gets 100", func(t *testing.T) {
		rows := AddBeneficiary(nil, Beneficiary{ID: "a", Name: "김철수"})
		require.Len(t, rows, 1)
		assert.Equal(t, 100, rows[0].SharePercentage)
	})

	t.Run("Second beneficiary splits 50/50", func(t *testing.T) {
		rows := AddBeneficiary(nil, Beneficiary{ID: "a"})
		rows = AddBeneficiary(rows, Beneficiary{ID: "b"})

		require.Len(t, rows, 2)
		assert.Equal(t, 50, rows[0].SharePercentage)
		assert.Equal(t, 50, rows[1].SharePercentage)
	})

	t.Run("Third beneficiary compresses with gap on first", func(t *testing.T) {
		rows := AddBeneficiary(nil, Beneficiary{ID: "a"})
		rows = AddBeneficiary(rows, Beneficiary{ID: "b"})
		rows = AddBeneficiary(rows, Beneficiary{ID: "c"})

		require.Len(t, rows, 3)
		assert.Equal(t, 34, rows[0].SharePercentage)
		assert.Equal(t, 33, rows[1].SharePercentage)
		assert.Equal(t, 33, rows[2].SharePercentage)
		assert.Equal(t, 100, TotalShare(rows))
	})
}

func TestRemoveBeneficiary(t *testing.T) {
	t.Run("Removed share goes to survivors with remainder to first", func(t *testing.T) {
		rows := []Beneficiary{
			{ID: "a", SharePercentage: 34},
			{ID: "b", SharePercentage: 33},
			{ID: "c", SharePercentage: 33},
		}

		result, err := RemoveBeneficiary(rows, "c")
		require.NoError(t, err)
		require.Len(t, result, 2)

		// 33 split: each +16, remainder 1 to first survivor
		assert.Equal(t, 51, result[0].SharePercentage)
		assert.Equal(t, 49, result[1].SharePercentage)
		assert.Equal(t, 100, TotalShare(result))
	})

	t.Run("Removing the last beneficiary leaves empty set", func(t *testing.T) {
		rows := []Beneficiary{{ID: "a", SharePercentage: 100}}
		result, err := RemoveBeneficiary(rows, "a")
		require.NoError(t, err)
		assert.Empty(t, result)
	})

	t.Run("Unknown ID", func(t *testing.T) {
		rows := []Beneficiary{{ID: "a", SharePercentage: 100}}
		_, err := RemoveBeneficiary(rows, "zzz")
		assert.ErrorIs(t, err, ErrBeneficiaryNotFound)
	})
}

func TestEditBeneficiaryShare(t *testing.T) {
	t.Run("Delta spread proportionally over others", func(t *testing.T) {
		rows := []Beneficiary{
			{ID: "a", SharePercentage: 50},
			{ID: "b", SharePercentage: 50},
		}

		result, err := EditBeneficiaryShare(rows, "a", 70)
		require.NoError(t, err)
		assert.Equal(t, 70, result[0].SharePercentage)
		assert.Equal(t, 30, result[1].SharePercentage)
	})

	t.Run("Leftover lands on largest other share", func(t *testing.T) {
		rows := []Beneficiary{
			{ID: "a", SharePercentage: 34},
			{ID: "b", SharePercentage: 33},
			{ID: "c", SharePercentage: 33},
		}

		result, err := EditBeneficiaryShare(rows, "c", 50)
		require.NoError(t, err)
		assert.Equal(t, 50, result[2].SharePercentage)
		assert.Equal(t, 100, TotalShare(result))
	})

	t.Run("Others clamped at 1 percent", func(t *testing.T) {
		rows := []Beneficiary{
			{ID: "a", SharePercentage: 90},
			{ID: "b", SharePercentage: 5},
			{ID: "c", SharePercentage: 5},
		}

		result, err := EditBeneficiaryShare(rows, "a", 98)
		require.NoError(t, err)
		assert.Equal(t, 98, result[0].SharePercentage)
		assert.Equal(t, 1, result[1].SharePercentage)
		assert.Equal(t, 1, result[2].SharePercentage)
	})

	t.Run("Value above 100 refused, state unchanged", func(t *testing.T) {
		rows := []Beneficiary{
			{ID: "a", SharePercentage: 50},
			{ID: "b", SharePercentage: 50},
		}

		result, err := EditBeneficiaryShare(rows, "a", 101)
		assert.ErrorIs(t, err, ErrShareOutOfRange)
		assert.Equal(t, rows, result)
	})

	t.Run("Value below 1 refused, state unchanged", func(t *testing.T) {
		rows := []Beneficiary{
			{ID: "a", SharePercentage: 50},
			{ID: "b", SharePercentage: 50},
		}

		result, err := EditBeneficiaryShare(rows, "a", 0)
		assert.ErrorIs(t, err, ErrShareOutOfRange)
		assert.Equal(t, rows, result)
	})

	t.Run("Single beneficiary may only hold 100", func(t *testing.T) {
		rows := []Beneficiary{{ID: "a", SharePercentage: 100}}

		_, err := EditBeneficiaryShare(rows, "a", 50)
		assert.ErrorIs(t, err, ErrShareOutOfRange)

		result, err := EditBeneficiaryShare(rows, "a", 100)
		require.NoError(t, err)
		assert.Equal(t, 100, result[0].SharePercentage)
	})

	t.Run("Decreasing a share raises the others", func(t *testing.T) {
		rows := []Beneficiary{
			{ID: "a", SharePercentage: 50},
			{ID: "b", SharePercentage: 50},
		}

		result, err := EditBeneficiaryShare(rows, "a", 20)
		require.NoError(t, err)
		assert.Equal(t, 20, result[0].SharePercentage)
		assert.Equal(t, 80, result[1].SharePercentage)
	})
}

// Shares must sum to exactly 100 after every accepted operation.
func TestShareInvariantAcrossOperations(t *testing.T) {
	var rows []Beneficiary
	ids := []string{"a", "b", "c", "d", "e"}

	for _, id := range ids {
		rows = AddBeneficiary(rows, Beneficiary{ID: id})
		assert.Equal(t, 100, TotalShare(rows), "after add %s", id)
	}

	var err error
	rows, err = EditBeneficiaryShare(rows, "c", 40)
	require.NoError(t, err)
	assert.Equal(t, 100, TotalShare(rows))

	rows, err = RemoveBeneficiary(rows, "b")
	require.NoError(t, err)
	assert.Equal(t, 100, TotalShare(rows))

	rows, err = EditBeneficiaryShare(rows, "e", 7)
	require.NoError(t, err)
	assert.Equal(t, 100, TotalShare(rows))

	rows, err = RemoveBeneficiary(rows, "c")
	require.NoError(t, err)
	assert.Equal(t, 100, TotalShare(rows))
}

func TestApplyAwards(t *testing.T) {
	rows := []Beneficiary{
		{ID: "a", SharePercentage: 60},
		{ID: "b", SharePercentage: 40},
	}

	result := ApplyAwards(rows, 1000000)
	assert.Equal(t, 600000.0, result[0].Award)
	assert.Equal(t, 400000.0, result[1].Award)
	// Input untouched
	assert.Equal(t, 0.0, rows[0].Award)
}
