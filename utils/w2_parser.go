package utils

import (
	"github.com/shopspring/decimal"
	"github.com/taxlens/ocr-tax-extraction/dto"
)

var w2WageLabels = []string{
	"Wages, tips, other compensation",
	"Wages, tips, other comp",
	"Wages tips other compensation",
}

var w2WithheldLabels = []string{
	"Federal income tax withheld",
	"Fed income tax withheld",
}

var employerSectionLabels = []string{
	"Employer's name, address, and ZIP code",
	"Employer's name",
	"Employer name",
}

var employeeSectionLabels = []string{
	"Employee's first name and initial",
	"Employee's name",
	"Employee name",
}

// ParseW2 mines a W-2 Wage and Tax Statement out of raw OCR text.
func ParseW2(text string) dto.ExtractedForm {
	amounts := make(map[string]decimal.Decimal)

	wages, hasWages := ExtractAmountField(text, dto.FieldWages, w2WageLabels, true, nil)
	if hasWages {
		amounts[dto.FieldWages] = wages
	}

	// Withheld tax must be below the wages it was withheld from; the cap
	// keeps the statistical fallback from re-selecting the wages figure.
	var wageCap *decimal.Decimal
	if hasWages {
		wageCap = &wages
	}
	if v, ok := ExtractAmountField(text, dto.FieldFederalIncomeTaxWithheld, w2WithheldLabels, true, wageCap); ok {
		amounts[dto.FieldFederalIncomeTaxWithheld] = v
	}

	secondary := []struct {
		field  string
		labels []string
	}{
		{dto.FieldSocialSecurityWages, []string{"Social security wages"}},
		{dto.FieldSocialSecurityTax, []string{"Social security tax withheld"}},
		{dto.FieldMedicareWages, []string{"Medicare wages and tips"}},
		{dto.FieldMedicareTax, []string{"Medicare tax withheld"}},
	}
	for _, s := range secondary {
		if v, ok := ExtractAmountField(text, s.field, s.labels, false, nil); ok {
			amounts[s.field] = v
		}
	}

	form := dto.ExtractedForm{
		FormType: dto.FormTypeW2,
		TaxYear:  ExtractTaxYear(text),
		Amounts:  amounts,
		RawText:  text,
	}

	if name, id := ExtractPartyName(text, employerSectionLabels), ExtractEIN(text); name != "" || id != "" {
		form.Payer = &dto.Party{Name: name, TaxIdentifier: id}
	}
	if name, id := ExtractPartyName(text, employeeSectionLabels), ExtractSSN(text); name != "" || id != "" {
		form.Recipient = &dto.Party{Name: name, TaxIdentifier: id}
	}

	return form
}
