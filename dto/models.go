package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FormType identifies which tax form a document was classified as.
type FormType string

const (
	FormTypeW2       FormType = "W2"
	FormType1099NEC  FormType = "1099_NEC"
	FormType1099INT  FormType = "1099_INT"
	FormType1099DIV  FormType = "1099_DIV"
	FormType1099MISC FormType = "1099_MISC"
	FormType1099R    FormType = "1099_R"
	FormType1099G    FormType = "1099_G"
	FormTypeOther    FormType = "OTHER"
	FormTypeUnknown  FormType = "UNKNOWN"
)

// FilingStatus is the taxpayer's legal filing category.
type FilingStatus string

const (
	FilingSingle            FilingStatus = "SINGLE"
	FilingMarriedJointly    FilingStatus = "MARRIED_FILING_JOINTLY"
	FilingMarriedSeparately FilingStatus = "MARRIED_FILING_SEPARATELY"
	FilingHeadOfHousehold   FilingStatus = "HEAD_OF_HOUSEHOLD"
)

// IncomeType categorizes an income line item on the return.
type IncomeType string

const (
	IncomeWages                   IncomeType = "WAGES"
	IncomeInterest                IncomeType = "INTEREST"
	IncomeDividends               IncomeType = "DIVIDENDS"
	IncomeBusinessIncome          IncomeType = "BUSINESS_INCOME"
	IncomeRetirementDistributions IncomeType = "RETIREMENT_DISTRIBUTIONS"
	IncomeOther                   IncomeType = "OTHER_INCOME"
)

// Party is one side of a form: the payer (employer) or the recipient (employee).
type Party struct {
	Name          string `json:"name,omitempty"`
	TaxIdentifier string `json:"tax_identifier,omitempty"`
}

// Entity is one pre-labeled field from a vendor structured-extraction service.
type Entity struct {
	Type            string  `json:"type"`
	MentionText     string  `json:"mention_text"`
	NormalizedValue string  `json:"normalized_value,omitempty"`
	Confidence      float64 `json:"confidence"`
}

// ExtractedForm is the result of parsing one document.
// Amounts holds every recovered monetary field keyed by field name; absent
// fields are missing entries, never zero placeholders.
type ExtractedForm struct {
	DocumentID uuid.UUID                  `json:"document_id"`
	FormType   FormType                   `json:"form_type"`
	TaxYear    *int                       `json:"tax_year,omitempty"`
	Payer      *Party                     `json:"payer,omitempty"`
	Recipient  *Party                     `json:"recipient,omitempty"`
	Amounts    map[string]decimal.Decimal `json:"amounts"`
	// Extras preserves vendor entities that mapped to no known field and
	// could not be read as amounts, keyed by their original type tag.
	Extras     map[string]string `json:"extras,omitempty"`
	RawText    string            `json:"raw_text"`
	Confidence float64           `json:"confidence"`
}

// Amount returns the named amount and whether it was extracted.
func (f *ExtractedForm) Amount(field string) (decimal.Decimal, bool) {
	v, ok := f.Amounts[field]
	return v, ok
}

// IncomeLineItem is one income row contributed to a return.
type IncomeLineItem struct {
	IncomeType  IncomeType      `json:"income_type"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	PayerName   string          `json:"payer_name,omitempty"`
	PayerTaxID  string          `json:"payer_tax_id,omitempty"`
}

// MappingResult aggregates all forms of one filing into line items plus the
// total withheld tax and the resolved tax year.
type MappingResult struct {
	LineItems   []IncomeLineItem `json:"line_items"`
	WithheldTax decimal.Decimal  `json:"withheld_tax"`
	TaxYear     int              `json:"tax_year"`
}

// TaxComputationResult is the federal return summary.
type TaxComputationResult struct {
	TotalIncome         decimal.Decimal  `json:"total_income"`
	AdjustedGrossIncome decimal.Decimal  `json:"adjusted_gross_income"`
	StandardDeduction   decimal.Decimal  `json:"standard_deduction"`
	ItemizedDeduction   *decimal.Decimal `json:"itemized_deduction,omitempty"`
	TaxableIncome       decimal.Decimal  `json:"taxable_income"`
	TaxLiability        decimal.Decimal  `json:"tax_liability"`
	TotalCredits        decimal.Decimal  `json:"total_credits"`
	RefundAmount        decimal.Decimal  `json:"refund_amount"`
	AmountOwed          decimal.Decimal  `json:"amount_owed"`
}
