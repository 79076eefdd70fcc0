package dto

// Canonical amount field names used as keys in ExtractedForm.Amounts.
// Unrecognized vendor entity types keep their original tag as the key.
const (
	FieldWages                    = "wages"
	FieldFederalIncomeTaxWithheld = "federalIncomeTaxWithheld"
	FieldSocialSecurityWages      = "socialSecurityWages"
	FieldSocialSecurityTax        = "socialSecurityTaxWithheld"
	FieldMedicareWages            = "medicareWages"
	FieldMedicareTax              = "medicareTaxWithheld"
	FieldNonemployeeCompensation  = "nonemployeeCompensation"
	FieldInterestIncome           = "interestIncome"
	FieldOrdinaryDividends        = "ordinaryDividends"
	FieldQualifiedDividends       = "qualifiedDividends"
	FieldRents                    = "rents"
	FieldOtherIncome              = "otherIncome"
	FieldGrossDistribution        = "grossDistribution"
	FieldTaxableAmount            = "taxableAmount"
	FieldUnemploymentCompensation = "unemploymentCompensation"
	FieldStateTaxRefund           = "stateTaxRefund"
)
