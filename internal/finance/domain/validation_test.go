package domain

import (
	"strings"
	"testing"

	financeErrors "github.com/sebuszqo/BudgetTracker/internal/finance/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestValidateLength(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		max     int
		want    string
		wantErr string
	}{
		{name: "trims surrounding whitespace", value: "  Food  ", max: 100, want: "Food"},
		{name: "empty", value: "", max: 100, wantErr: "Category name cannot be empty"},
		{name: "only whitespace", value: " \t\n ", max: 100, wantErr: "Category name cannot be empty"},
		{name: "exactly max", value: strings.Repeat("a", 100), max: 100, want: strings.Repeat("a", 100)},
		{name: "over max", value: strings.Repeat("a", 101), max: 100, wantErr: "Category name must be less than 100 characters"},
		{name: "whitespace does not count", value: "  " + strings.Repeat("a", 100) + "  ", max: 100, want: strings.Repeat("a", 100)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateLength(tt.value, "Category name", tt.max)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.True(t, financeErrors.IsValidationError(err))
				assert.Equal(t, tt.wantErr, err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateLength_ReportsField(t *testing.T) {
	_, err := ValidateLength("", "Record name", MaxRecordNameLength)

	var validationErr *financeErrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "Record name", validationErr.Field)
	assert.ErrorIs(t, err, financeErrors.ErrBadInput)
}

func TestValidateAmount(t *testing.T) {
	assert.NoError(t, ValidateAmount(12.5))
	assert.NoError(t, ValidateAmount(-3.75))

	err := ValidateAmount(0)
	require.Error(t, err)
	assert.Equal(t, "Record amount cannot be zero", err.Error())
}

func TestValidateLimit(t *testing.T) {
	got, err := ValidateLimit(nil, DefaultCategoriesLimit, MaxLimit)
	require.NoError(t, err)
	assert.Equal(t, 100, got)

	got, err = ValidateLimit(intPtr(MaxLimit), DefaultCategoriesLimit, MaxLimit)
	require.NoError(t, err)
	assert.Equal(t, MaxLimit, got)

	_, err = ValidateLimit(intPtr(0), DefaultCategoriesLimit, MaxLimit)
	assert.EqualError(t, err, "Limit must be greater than 0")

	_, err = ValidateLimit(intPtr(MaxLimit+1), DefaultCategoriesLimit, MaxLimit)
	assert.EqualError(t, err, "Limit cannot exceed 1000")
}

func TestValidateOffset(t *testing.T) {
	got, err := ValidateOffset(nil, MaxOffset)
	require.NoError(t, err)
	assert.Equal(t, 0, got)

	got, err = ValidateOffset(intPtr(MaxOffset), MaxOffset)
	require.NoError(t, err)
	assert.Equal(t, MaxOffset, got)

	_, err = ValidateOffset(intPtr(MaxOffset+1), MaxOffset)
	assert.EqualError(t, err, "Offset cannot exceed 1000000")
}

func TestRecordPatch(t *testing.T) {
	t.Run("empty patch is rejected", func(t *testing.T) {
		p := RecordPatch{}
		err := p.Normalize()
		assert.ErrorIs(t, err, financeErrors.ErrBadInput)
		assert.Equal(t, "At least one field must be provided for update", err.Error())
	})

	t.Run("zero amount is rejected", func(t *testing.T) {
		zero := 0.0
		p := RecordPatch{Amount: &zero}
		assert.EqualError(t, p.Normalize(), "Record amount cannot be zero")
	})

	t.Run("apply keeps unset fields", func(t *testing.T) {
		amount := 99.0
		p := RecordPatch{Amount: &amount}
		require.NoError(t, p.Normalize())

		before := Record{ID: "r1", Name: "Lunch", Amount: 12.5, CategoryID: "c1", Timestamp: 1700000000}
		after := p.Apply(before)

		assert.Equal(t, before.Name, after.Name)
		assert.Equal(t, before.CategoryID, after.CategoryID)
		assert.Equal(t, before.Timestamp, after.Timestamp)
		assert.Equal(t, 99.0, after.Amount)
	})

	t.Run("name is trimmed", func(t *testing.T) {
		name := "  Dinner "
		p := RecordPatch{Name: &name}
		require.NoError(t, p.Normalize())
		assert.Equal(t, "Dinner", *p.Name)
	})
}
