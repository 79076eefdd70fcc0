package utils

import (
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/taxlens/ocr-tax-extraction/dto"
)

// incomeRule converts one known form field into a line item.
type incomeRule struct {
	field       string
	incomeType  dto.IncomeType
	description string
	// fallbackField is consulted when field itself is absent (1099-R gross
	// distribution when no taxable amount was reported).
	fallbackField string
}

var incomeRules = map[dto.FormType][]incomeRule{
	dto.FormTypeW2: {
		{field: dto.FieldWages, incomeType: dto.IncomeWages, description: "Wages (W-2)"},
	},
	dto.FormType1099NEC: {
		{field: dto.FieldNonemployeeCompensation, incomeType: dto.IncomeBusinessIncome, description: "Nonemployee compensation (1099-NEC)"},
	},
	dto.FormType1099INT: {
		{field: dto.FieldInterestIncome, incomeType: dto.IncomeInterest, description: "Interest income (1099-INT)"},
	},
	dto.FormType1099DIV: {
		{field: dto.FieldOrdinaryDividends, incomeType: dto.IncomeDividends, description: "Ordinary dividends (1099-DIV)"},
		{field: dto.FieldQualifiedDividends, incomeType: dto.IncomeDividends, description: "Qualified dividends (1099-DIV)"},
	},
	dto.FormType1099MISC: {
		{field: dto.FieldRents, incomeType: dto.IncomeOther, description: "Rents (1099-MISC)"},
		{field: dto.FieldOtherIncome, incomeType: dto.IncomeOther, description: "Miscellaneous income (1099-MISC)"},
	},
	dto.FormType1099R: {
		{field: dto.FieldTaxableAmount, incomeType: dto.IncomeRetirementDistributions, description: "Retirement distribution (1099-R)", fallbackField: dto.FieldGrossDistribution},
	},
	dto.FormType1099G: {
		{field: dto.FieldUnemploymentCompensation, incomeType: dto.IncomeOther, description: "Unemployment compensation (1099-G)"},
		{field: dto.FieldStateTaxRefund, incomeType: dto.IncomeOther, description: "State tax refund (1099-G)"},
	},
}

// MapToLineItems converts all extracted forms of one filing into normalized
// income line items plus the aggregate withheld tax. Withheld tax accumulates
// from every form regardless of which income rule fired. The call is pure:
// mapping the same forms twice yields identical output.
func MapToLineItems(forms []dto.ExtractedForm) dto.MappingResult {
	result := dto.MappingResult{
		LineItems:   []dto.IncomeLineItem{},
		WithheldTax: decimal.Zero,
	}

	yearSeen := false
	for _, form := range forms {
		if rules, ok := incomeRules[form.FormType]; ok {
			for _, rule := range rules {
				amount, present := form.Amount(rule.field)
				if !present && rule.fallbackField != "" {
					amount, present = form.Amount(rule.fallbackField)
				}
				if !present || !amount.IsPositive() {
					continue
				}
				result.LineItems = append(result.LineItems, lineItem(rule.incomeType, rule.description, amount, form.Payer))
			}
		} else {
			// Catch-all: one other-income line per positive field other
			// than withheld tax, so nothing extracted gets dropped.
			for _, field := range sortedAmountFields(form.Amounts) {
				if field == dto.FieldFederalIncomeTaxWithheld {
					continue
				}
				amount := form.Amounts[field]
				if !amount.IsPositive() {
					continue
				}
				desc := fmt.Sprintf("Unclassified income (%s)", field)
				result.LineItems = append(result.LineItems, lineItem(dto.IncomeOther, desc, amount, form.Payer))
			}
		}

		if withheld, ok := form.Amount(dto.FieldFederalIncomeTaxWithheld); ok && withheld.IsPositive() {
			result.WithheldTax = result.WithheldTax.Add(withheld)
		}

		if form.TaxYear != nil {
			if yearSeen && result.TaxYear != *form.TaxYear {
				log.Printf("Warning: forms in one filing report different tax years (%d vs %d); keeping the last", result.TaxYear, *form.TaxYear)
			}
			result.TaxYear = *form.TaxYear
			yearSeen = true
		}
	}

	if !yearSeen {
		result.TaxYear = time.Now().Year() - 1
	}

	return result
}

// sortedAmountFields fixes map iteration order so the catch-all path is
// deterministic across runs.
func sortedAmountFields(amounts map[string]decimal.Decimal) []string {
	fields := make([]string, 0, len(amounts))
	for f := range amounts {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

func lineItem(t dto.IncomeType, desc string, amount decimal.Decimal, payer *dto.Party) dto.IncomeLineItem {
	item := dto.IncomeLineItem{
		IncomeType:  t,
		Description: desc,
		Amount:      amount,
	}
	if payer != nil {
		item.PayerName = payer.Name
		item.PayerTaxID = payer.TaxIdentifier
	}
	return item
}
