package utils

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/taxlens/ocr-tax-extraction/dto"
)

var payerSectionLabels = []string{
	"Payer's name, street address",
	"Payer's name",
	"Payer name",
}

var recipientSectionLabels = []string{
	"Recipient's name",
	"Recipient name",
}

var ten99WithheldLabels = []string{
	"Federal income tax withheld",
	"Fed income tax withheld",
}

// amountField describes one box on a 1099 variant. Only the form's primary
// box gets the statistical fallback; secondary boxes would otherwise soak up
// unrelated maxima.
type amountField struct {
	field       string
	labels      []string
	statistical bool
}

var ten99Fields = map[dto.FormType][]amountField{
	dto.FormType1099NEC: {
		{dto.FieldNonemployeeCompensation, []string{"Nonemployee compensation", "Non-employee compensation"}, true},
	},
	dto.FormType1099INT: {
		{dto.FieldInterestIncome, []string{"Interest income"}, true},
	},
	dto.FormType1099DIV: {
		{dto.FieldOrdinaryDividends, []string{"Total ordinary dividends", "Ordinary dividends"}, true},
		{dto.FieldQualifiedDividends, []string{"Qualified dividends"}, false},
	},
	dto.FormType1099MISC: {
		{dto.FieldRents, []string{"Rents"}, false},
		{dto.FieldOtherIncome, []string{"Other income"}, false},
	},
	dto.FormType1099R: {
		{dto.FieldGrossDistribution, []string{"Gross distribution"}, true},
		{dto.FieldTaxableAmount, []string{"Taxable amount"}, false},
	},
	dto.FormType1099G: {
		{dto.FieldUnemploymentCompensation, []string{"Unemployment compensation"}, true},
		{dto.FieldStateTaxRefund, []string{"State or local income tax refunds", "State income tax refund"}, false},
	},
}

// Parse1099 mines any recognized 1099 variant out of raw OCR text.
func Parse1099(formType dto.FormType, text string) dto.ExtractedForm {
	amounts := make(map[string]decimal.Decimal)

	var primary *decimal.Decimal
	for _, af := range ten99Fields[formType] {
		v, ok := ExtractAmountField(text, af.field, af.labels, af.statistical, nil)
		if !ok {
			continue
		}
		amounts[af.field] = v
		if af.statistical && primary == nil {
			primary = &v
		}
	}

	if v, ok := ExtractAmountField(text, dto.FieldFederalIncomeTaxWithheld, ten99WithheldLabels, true, primary); ok {
		amounts[dto.FieldFederalIncomeTaxWithheld] = v
	}

	form := dto.ExtractedForm{
		FormType: formType,
		TaxYear:  ExtractTaxYear(text),
		Amounts:  amounts,
		RawText:  text,
	}
	attachParties(&form, text)
	return form
}

// ParseUnknownForm handles documents no classifier rule matched: every
// plausible amount is kept so the mapper can route it to the other-income
// catch-all instead of dropping it.
func ParseUnknownForm(text string) dto.ExtractedForm {
	amounts := make(map[string]decimal.Decimal)

	if v, ok := ExtractLabeledAmount(text, ten99WithheldLabels); ok && IsPlausible(dto.FieldFederalIncomeTaxWithheld, v) {
		amounts[dto.FieldFederalIncomeTaxWithheld] = v
	}

	seen := make(map[string]bool)
	n := 0
	for _, token := range NumericTokens(text) {
		if LooksLikeIdentifier(token) {
			continue
		}
		v, ok := NormalizeAmount(token)
		if !ok || !v.IsPositive() || !IsPlausible(dto.FieldOtherIncome, v) {
			continue
		}
		if w, withheld := amounts[dto.FieldFederalIncomeTaxWithheld]; withheld && v.Equal(w) {
			continue
		}
		key := v.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		n++
		amounts[fmt.Sprintf("amount%d", n)] = v
		if n == 10 {
			break
		}
	}

	form := dto.ExtractedForm{
		FormType: dto.FormTypeUnknown,
		TaxYear:  ExtractTaxYear(text),
		Amounts:  amounts,
		RawText:  text,
	}
	attachParties(&form, text)
	return form
}

func attachParties(form *dto.ExtractedForm, text string) {
	if name, id := ExtractPartyName(text, payerSectionLabels), ExtractEIN(text); name != "" || id != "" {
		form.Payer = &dto.Party{Name: name, TaxIdentifier: id}
	}
	if name, id := ExtractPartyName(text, recipientSectionLabels), ExtractSSN(text); name != "" || id != "" {
		form.Recipient = &dto.Party{Name: name, TaxIdentifier: id}
	}
}
