package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taxlens/ocr-tax-extraction/dto"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeReturnSingleStandardDeduction(t *testing.T) {
	result, err := ComputeReturn(d("60000"), d("0"), dto.FilingSingle, nil)
	require.NoError(t, err)

	assert.True(t, result.TaxableIncome.Equal(d("45400")), "taxable: %s", result.TaxableIncome)
	// 1160 + (45400-11600)*0.12
	assert.True(t, result.TaxLiability.Equal(d("5216")), "liability: %s", result.TaxLiability)
	assert.True(t, result.AmountOwed.Equal(d("5216")))
	assert.True(t, result.RefundAmount.IsZero())
}

func TestComputeReturnRefund(t *testing.T) {
	result, err := ComputeReturn(d("60000"), d("6000"), dto.FilingSingle, nil)
	require.NoError(t, err)

	assert.True(t, result.RefundAmount.Equal(d("784")), "refund: %s", result.RefundAmount)
	assert.True(t, result.AmountOwed.IsZero())
}

func TestComputeReturnItemizedBeatsStandard(t *testing.T) {
	itemized := d("20000")
	result, err := ComputeReturn(d("60000"), d("0"), dto.FilingSingle, &itemized)
	require.NoError(t, err)

	assert.True(t, result.TaxableIncome.Equal(d("40000")))
}

func TestComputeReturnItemizedBelowStandardIgnored(t *testing.T) {
	itemized := d("5000")
	result, err := ComputeReturn(d("60000"), d("0"), dto.FilingSingle, &itemized)
	require.NoError(t, err)

	assert.True(t, result.TaxableIncome.Equal(d("45400")))
}

func TestComputeReturnIncomeBelowDeduction(t *testing.T) {
	result, err := ComputeReturn(d("10000"), d("800"), dto.FilingSingle, nil)
	require.NoError(t, err)

	assert.True(t, result.TaxableIncome.IsZero())
	assert.True(t, result.TaxLiability.IsZero())
	assert.True(t, result.RefundAmount.Equal(d("800")))
}

func TestComputeReturnOtherFilingStatuses(t *testing.T) {
	tests := []struct {
		status  dto.FilingStatus
		income  string
		taxable string
		tax     string
	}{
		// MFJ: 10852 + 0.22*(100000-94300) on taxable 100000
		{dto.FilingMarriedJointly, "129200", "100000", "12106"},
		// HOH: 1655 + 0.12*(50000-16550) on taxable 50000
		{dto.FilingHeadOfHousehold, "71900", "50000", "5669"},
		// MFS diverges from SINGLE above 365600: 55678.50 + 0.35*(300000-243725)
		{dto.FilingMarriedSeparately, "314600", "300000", "75374.75"},
	}

	for _, tc := range tests {
		result, err := ComputeReturn(d(tc.income), d("0"), tc.status, nil)
		require.NoError(t, err, "%s", tc.status)
		assert.True(t, result.TaxableIncome.Equal(d(tc.taxable)), "%s taxable: %s", tc.status, result.TaxableIncome)
		assert.True(t, result.TaxLiability.Equal(d(tc.tax)), "%s liability: %s", tc.status, result.TaxLiability)
	}
}

func TestComputeReturnBracketBoundary(t *testing.T) {
	// Taxable exactly at the top of the 10% bracket.
	result, err := ComputeReturn(d("26200"), d("0"), dto.FilingSingle, nil)
	require.NoError(t, err)

	assert.True(t, result.TaxableIncome.Equal(d("11600")))
	assert.True(t, result.TaxLiability.Equal(d("1160")))
}

func TestComputeReturnTopBracket(t *testing.T) {
	// Taxable 700000: 183647.25 + 0.37*(700000-609350)
	result, err := ComputeReturn(d("714600"), d("0"), dto.FilingSingle, nil)
	require.NoError(t, err)

	assert.True(t, result.TaxLiability.Equal(d("217187.75")), "liability: %s", result.TaxLiability)
}

func TestComputeReturnExactlyOneOfRefundOwed(t *testing.T) {
	incomes := []string{"0", "14600", "30000", "60000", "123456.78", "1000000"}
	withheld := []string{"0", "100", "5216", "50000"}

	for _, inc := range incomes {
		for _, wh := range withheld {
			result, err := ComputeReturn(d(inc), d(wh), dto.FilingSingle, nil)
			require.NoError(t, err)

			assert.False(t, result.RefundAmount.IsNegative())
			assert.False(t, result.AmountOwed.IsNegative())
			assert.False(t, result.RefundAmount.IsPositive() && result.AmountOwed.IsPositive(),
				"income %s withheld %s: both refund and owed positive", inc, wh)
			assert.False(t, result.TaxableIncome.IsNegative())
		}
	}
}

func TestComputeReturnRejectsInvalidInput(t *testing.T) {
	_, err := ComputeReturn(d("-1"), d("0"), dto.FilingSingle, nil)
	assert.Error(t, err)

	_, err = ComputeReturn(d("100"), d("-1"), dto.FilingSingle, nil)
	assert.Error(t, err)

	_, err = ComputeReturn(d("100"), d("0"), dto.FilingStatus("COMMUNAL"), nil)
	assert.Error(t, err)

	negItemized := d("-100")
	_, err = ComputeReturn(d("100"), d("0"), dto.FilingSingle, &negItemized)
	assert.Error(t, err)
}
