package utils

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/shopspring/decimal"
	"github.com/taxlens/ocr-tax-extraction/dto"
)

// entityFieldMap translates vendor entity type tags into canonical amount
// field names. Tags are compared after lowercasing and stripping separators,
// so "WagesTipsOtherCompensation" and "wages_tips_other_compensation" both
// land on the same field.
var entityFieldMap = map[string]string{
	"wagestipsothercompensation": dto.FieldWages,
	"wages":                      dto.FieldWages,
	"federalincometaxwithheld":   dto.FieldFederalIncomeTaxWithheld,
	"socialsecuritywages":        dto.FieldSocialSecurityWages,
	"socialsecuritytaxwithheld":  dto.FieldSocialSecurityTax,
	"medicarewagesandtips":       dto.FieldMedicareWages,
	"medicaretaxwithheld":        dto.FieldMedicareTax,
	"nonemployeecompensation":    dto.FieldNonemployeeCompensation,
	"interestincome":             dto.FieldInterestIncome,
	"totalordinarydividends":     dto.FieldOrdinaryDividends,
	"ordinarydividends":          dto.FieldOrdinaryDividends,
	"qualifieddividends":         dto.FieldQualifiedDividends,
	"rents":                      dto.FieldRents,
	"otherincome":                dto.FieldOtherIncome,
	"grossdistribution":          dto.FieldGrossDistribution,
	"taxableamount":              dto.FieldTaxableAmount,
	"unemploymentcompensation":   dto.FieldUnemploymentCompensation,
	"statetaxrefund":             dto.FieldStateTaxRefund,
}

var entityPartyTags = map[string]string{
	"employername":  "payerName",
	"payername":     "payerName",
	"ein":           "payerID",
	"employerein":   "payerID",
	"payertin":      "payerID",
	"employeename":  "recipientName",
	"recipientname": "recipientName",
	"ssn":           "recipientID",
	"recipienttin":  "recipientID",
}

var entityYearTags = map[string]bool{
	"formyear": true,
	"taxyear":  true,
	"year":     true,
}

// EntityMapping is the outcome of the entity-driven extraction regime.
type EntityMapping struct {
	Amounts        map[string]decimal.Decimal
	Extras         map[string]string
	Payer          *dto.Party
	Recipient      *dto.Party
	TaxYear        *int
	BestConfidence float64
	Mapped         int
}

func normalizeTag(tag string) string {
	tag = strings.ToLower(tag)
	tag = strings.NewReplacer("_", "", "-", "", " ", "", "'", "").Replace(tag)
	return tag
}

// entityValue prefers the vendor's normalized value over the raw mention.
func entityValue(e dto.Entity) string {
	if e.NormalizedValue != "" {
		return e.NormalizedValue
	}
	return e.MentionText
}

// moneyImplyingTag guesses whether an unrecognized tag names a monetary
// amount, so its value still gets numeric normalization.
func moneyImplyingTag(tag string) bool {
	for _, hint := range []string{"amount", "income", "compensation", "wages", "tax", "dividend", "distribution", "rent", "refund"} {
		if strings.Contains(tag, hint) {
			return true
		}
	}
	return false
}

// MapEntities maps vendor-labeled entities onto the internal field model.
// Unrecognized entity types are kept verbatim under their original tag so
// no vendor output is silently lost.
func MapEntities(entities []dto.Entity) EntityMapping {
	m := EntityMapping{
		Amounts: make(map[string]decimal.Decimal),
		Extras:  make(map[string]string),
	}

	for _, e := range entities {
		tag := normalizeTag(e.Type)
		value := entityValue(e)

		if field, ok := entityFieldMap[tag]; ok {
			v, parsed := NormalizeAmount(value)
			if !parsed || !IsPlausible(field, v) {
				continue
			}
			m.Amounts[field] = v
			m.Mapped++
			if e.Confidence > m.BestConfidence {
				m.BestConfidence = e.Confidence
			}
			continue
		}

		if slot, ok := entityPartyTags[tag]; ok {
			m.Mapped++
			if e.Confidence > m.BestConfidence {
				m.BestConfidence = e.Confidence
			}
			switch slot {
			case "payerName":
				m.Payer = setPartyName(m.Payer, value)
			case "payerID":
				m.Payer = setPartyID(m.Payer, value)
			case "recipientName":
				m.Recipient = setPartyName(m.Recipient, value)
			case "recipientID":
				m.Recipient = setPartyID(m.Recipient, value)
			}
			continue
		}

		if entityYearTags[tag] {
			if year, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && year >= 2000 && year <= 2099 {
				m.TaxYear = &year
				m.Mapped++
				if e.Confidence > m.BestConfidence {
					m.BestConfidence = e.Confidence
				}
			}
			continue
		}

		// Unrecognized tag: a money-looking value still becomes an amount
		// under its original tag, anything else goes to the extras bag.
		if moneyImplyingTag(tag) {
			if v, parsed := NormalizeAmount(value); parsed && IsPlausible(e.Type, v) {
				m.Amounts[e.Type] = v
				continue
			}
		}
		m.Extras[e.Type] = value
	}

	return m
}

func setPartyName(p *dto.Party, name string) *dto.Party {
	if p == nil {
		p = &dto.Party{}
	}
	p.Name = strings.TrimSpace(name)
	return p
}

func setPartyID(p *dto.Party, id string) *dto.Party {
	if p == nil {
		p = &dto.Party{}
	}
	p.TaxIdentifier = strings.TrimSpace(id)
	return p
}

// NameSimilarity scores how well two names agree, 0.0 to 1.0, using
// normalized Levenshtein distance. Used to sanity-check an entity-provided
// name against the text-mined one.
func NameSimilarity(a, b string) float64 {
	na := normalizeName(a)
	nb := normalizeName(b)
	if na == "" && nb == "" {
		return 1.0
	}
	if na == "" || nb == "" {
		return 0.0
	}
	// ComputeDistance counts runes, so the normalizing length must too.
	dist := levenshtein.ComputeDistance(na, nb)
	maxLen := utf8.RuneCountInString(na)
	if n := utf8.RuneCountInString(nb); n > maxLen {
		maxLen = n
	}
	return 1.0 - float64(dist)/float64(maxLen)
}

func normalizeName(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, ".", "")
	return strings.Join(strings.Fields(s), " ")
}
