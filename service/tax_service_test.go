package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taxlens/ocr-tax-extraction/dto"
)

func TestMapExtractedDataToIncomeEntries(t *testing.T) {
	svc := NewTaxService()

	forms := []dto.ExtractedForm{
		{
			FormType: dto.FormTypeW2,
			Amounts: map[string]decimal.Decimal{
				dto.FieldWages:                    decimal.NewFromInt(52000),
				dto.FieldFederalIncomeTaxWithheld: decimal.NewFromInt(6200),
			},
		},
		{
			FormType: dto.FormType1099NEC,
			Amounts: map[string]decimal.Decimal{
				dto.FieldNonemployeeCompensation:  decimal.NewFromInt(5000),
				dto.FieldFederalIncomeTaxWithheld: decimal.NewFromInt(500),
			},
		},
	}

	result := svc.MapExtractedDataToIncomeEntries(forms)

	require.Len(t, result.LineItems, 2)
	assert.True(t, result.WithheldTax.Equal(decimal.NewFromInt(6700)))
	assert.True(t, svc.TotalIncome(result.LineItems).Equal(decimal.NewFromInt(57000)))
}

func TestCalculateTaxReturn(t *testing.T) {
	svc := NewTaxService()

	result, err := svc.CalculateTaxReturn(dto.CalculateReturnRequest{
		TotalIncome:  decimal.NewFromInt(60000),
		WithheldTax:  decimal.NewFromInt(6000),
		FilingStatus: dto.FilingSingle,
	})
	require.NoError(t, err)

	assert.True(t, result.TaxableIncome.Equal(decimal.NewFromInt(45400)))
	assert.True(t, result.TaxLiability.Equal(decimal.NewFromInt(5216)))
	assert.True(t, result.RefundAmount.Equal(decimal.NewFromInt(784)))
}

func TestCalculateTaxReturnRejectsBadStatus(t *testing.T) {
	svc := NewTaxService()

	_, err := svc.CalculateTaxReturn(dto.CalculateReturnRequest{
		TotalIncome:  decimal.NewFromInt(60000),
		FilingStatus: "COMMUNAL",
	})
	assert.Error(t, err)
}
