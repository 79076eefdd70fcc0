package utils

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/taxlens/ocr-tax-extraction/dto"
)

// AmountRange bounds the values a monetary field can plausibly hold.
// Candidates outside the range are discarded, never clamped.
type AmountRange struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

func rng(min, max int64) AmountRange {
	return AmountRange{Min: decimal.NewFromInt(min), Max: decimal.NewFromInt(max)}
}

// fieldRanges is the plausibility table. It is what keeps control numbers,
// EINs, ZIP codes and other incidental numbers on the form from being
// mistaken for income.
var fieldRanges = map[string]AmountRange{
	dto.FieldWages:                    rng(1_000, 500_000),
	dto.FieldFederalIncomeTaxWithheld: rng(0, 100_000),
	dto.FieldSocialSecurityWages:      rng(1_000, 500_000),
	dto.FieldSocialSecurityTax:        rng(0, 50_000),
	dto.FieldMedicareWages:            rng(1_000, 500_000),
	dto.FieldMedicareTax:              rng(0, 50_000),
	dto.FieldNonemployeeCompensation:  rng(100, 500_000),
	dto.FieldInterestIncome:           rng(0, 1_000_000),
	dto.FieldOrdinaryDividends:        rng(0, 1_000_000),
	dto.FieldQualifiedDividends:       rng(0, 1_000_000),
	dto.FieldRents:                    rng(0, 1_000_000),
	dto.FieldOtherIncome:              rng(0, 1_000_000),
	dto.FieldGrossDistribution:        rng(0, 1_000_000),
	dto.FieldTaxableAmount:            rng(0, 1_000_000),
	dto.FieldUnemploymentCompensation: rng(0, 100_000),
	dto.FieldStateTaxRefund:           rng(0, 100_000),
}

var defaultRange = rng(0, 1_000_000)

// PlausibleRange returns the range for a field, falling back to a broad
// default for fields without a tuned entry.
func PlausibleRange(field string) AmountRange {
	if r, ok := fieldRanges[field]; ok {
		return r
	}
	return defaultRange
}

// IsPlausible reports whether v is an acceptable value for the field.
func IsPlausible(field string, v decimal.Decimal) bool {
	if v.IsNegative() {
		return false
	}
	r := PlausibleRange(field)
	return v.GreaterThanOrEqual(r.Min) && v.LessThanOrEqual(r.Max)
}

var amountCleaner = strings.NewReplacer(",", "", "$", "", "₹", "", " ", "")

// NormalizeAmount strips thousands separators and currency symbols and parses
// the remainder as a decimal. A parse failure means "field not found".
func NormalizeAmount(s string) (decimal.Decimal, bool) {
	cleaned := amountCleaner.Replace(strings.TrimSpace(s))
	if cleaned == "" {
		return decimal.Zero, false
	}
	v, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}
	return v, true
}

var numericTokenRe = regexp.MustCompile(`[0-9][0-9,]*(?:\.[0-9]+)?`)

// NumericTokens returns every numeric-looking token in the text, commas and
// all, in document order.
func NumericTokens(text string) []string {
	return numericTokenRe.FindAllString(text, -1)
}

// LooksLikeIdentifier reports whether a raw token is more likely an account,
// control, or tax identifier than a dollar amount: 7 or more digits with no
// decimal point.
func LooksLikeIdentifier(token string) bool {
	if strings.Contains(token, ".") {
		return false
	}
	digits := 0
	for _, c := range token {
		if c >= '0' && c <= '9' {
			digits++
		}
	}
	return digits >= 7
}
