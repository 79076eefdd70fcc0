package utils

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/taxlens/ocr-tax-extraction/dto"
)

// 2024 figures. Both tables are versioned by tax year; adding a year means
// adding a new set of constants, never editing these.

var standardDeduction2024 = map[dto.FilingStatus]decimal.Decimal{
	dto.FilingSingle:            decimal.NewFromInt(14_600),
	dto.FilingMarriedSeparately: decimal.NewFromInt(14_600),
	dto.FilingMarriedJointly:    decimal.NewFromInt(29_200),
	dto.FilingHeadOfHousehold:   decimal.NewFromInt(21_900),
}

// bracket is one rung of a progressive schedule: tax owed at the lower bound
// plus the marginal rate applied to income above it. Upper is nil on the top
// rung.
type bracket struct {
	lower decimal.Decimal
	upper *decimal.Decimal
	rate  decimal.Decimal
	base  decimal.Decimal
}

func mkSchedule(rows [][3]string) []bracket {
	schedule := make([]bracket, len(rows))
	lower := decimal.Zero
	for i, row := range rows {
		b := bracket{
			lower: lower,
			rate:  decimal.RequireFromString(row[1]),
			base:  decimal.RequireFromString(row[2]),
		}
		if row[0] != "" {
			upper := decimal.RequireFromString(row[0])
			b.upper = &upper
			lower = upper
		}
		schedule[i] = b
	}
	return schedule
}

// Published 2024 federal schedules (Rev. Proc. 2023-34).
var bracketSchedules2024 = map[dto.FilingStatus][]bracket{
	dto.FilingSingle: mkSchedule([][3]string{
		{"11600", "0.10", "0"},
		{"47150", "0.12", "1160"},
		{"100525", "0.22", "5426"},
		{"191950", "0.24", "17168.50"},
		{"243725", "0.32", "39110.50"},
		{"609350", "0.35", "55678.50"},
		{"", "0.37", "183647.25"},
	}),
	dto.FilingMarriedJointly: mkSchedule([][3]string{
		{"23200", "0.10", "0"},
		{"94300", "0.12", "2320"},
		{"201050", "0.22", "10852"},
		{"383900", "0.24", "34337"},
		{"487450", "0.32", "78221"},
		{"731200", "0.35", "111357"},
		{"", "0.37", "196669.50"},
	}),
	dto.FilingMarriedSeparately: mkSchedule([][3]string{
		{"11600", "0.10", "0"},
		{"47150", "0.12", "1160"},
		{"100525", "0.22", "5426"},
		{"191950", "0.24", "17168.50"},
		{"243725", "0.32", "39110.50"},
		{"365600", "0.35", "55678.50"},
		{"", "0.37", "98334.75"},
	}),
	dto.FilingHeadOfHousehold: mkSchedule([][3]string{
		{"16550", "0.10", "0"},
		{"63100", "0.12", "1655"},
		{"100500", "0.22", "7241"},
		{"191950", "0.24", "15469"},
		{"243700", "0.32", "37417"},
		{"609350", "0.35", "53977"},
		{"", "0.37", "181954.50"},
	}),
}

// bracketTax computes liability for taxable income under a schedule:
// base at the containing bracket's lower bound plus the marginal rate on
// the excess, rounded to cents.
func bracketTax(schedule []bracket, taxable decimal.Decimal) decimal.Decimal {
	for _, b := range schedule {
		if b.upper != nil && taxable.GreaterThan(*b.upper) {
			continue
		}
		excess := taxable.Sub(b.lower)
		return b.base.Add(excess.Mul(b.rate)).Round(2)
	}
	return decimal.Zero
}

// ComputeReturn computes the federal return summary. A wrong tax result is
// worse than none, so invalid input fails fast instead of being clamped.
func ComputeReturn(totalIncome, withheldTax decimal.Decimal, status dto.FilingStatus, itemized *decimal.Decimal) (dto.TaxComputationResult, error) {
	if totalIncome.IsNegative() {
		return dto.TaxComputationResult{}, fmt.Errorf("total income cannot be negative: %s", totalIncome)
	}
	if withheldTax.IsNegative() {
		return dto.TaxComputationResult{}, fmt.Errorf("withheld tax cannot be negative: %s", withheldTax)
	}
	if itemized != nil && itemized.IsNegative() {
		return dto.TaxComputationResult{}, fmt.Errorf("itemized deduction cannot be negative: %s", itemized)
	}

	standard, ok := standardDeduction2024[status]
	if !ok {
		return dto.TaxComputationResult{}, fmt.Errorf("unknown filing status: %q", status)
	}
	schedule := bracketSchedules2024[status]

	deduction := standard
	if itemized != nil && itemized.GreaterThan(standard) {
		deduction = *itemized
	}

	agi := totalIncome
	taxable := agi.Sub(deduction)
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}

	liability := bracketTax(schedule, taxable)
	credits := decimal.Zero

	// Extension point: credits join payments here once credit support lands.
	payments := withheldTax.Add(credits)

	result := dto.TaxComputationResult{
		TotalIncome:         totalIncome,
		AdjustedGrossIncome: agi,
		StandardDeduction:   standard,
		ItemizedDeduction:   itemized,
		TaxableIncome:       taxable,
		TaxLiability:        liability,
		TotalCredits:        credits,
		RefundAmount:        decimal.Zero,
		AmountOwed:          decimal.Zero,
	}

	if payments.GreaterThan(liability) {
		result.RefundAmount = payments.Sub(liability)
	} else {
		result.AmountOwed = liability.Sub(payments)
	}

	return result, nil
}
