package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taxlens/ocr-tax-extraction/dto"
)

func TestMapEntitiesAmounts(t *testing.T) {
	em := MapEntities([]dto.Entity{
		{Type: "WagesTipsOtherCompensation", MentionText: "$52,000.00", Confidence: 0.97},
		{Type: "federal_income_tax_withheld", MentionText: "6,200.00", Confidence: 0.95},
	})

	assert.Equal(t, 2, em.Mapped)
	assert.InDelta(t, 0.97, em.BestConfidence, 1e-9)
	assert.True(t, em.Amounts[dto.FieldWages].Equal(d("52000")))
	assert.True(t, em.Amounts[dto.FieldFederalIncomeTaxWithheld].Equal(d("6200")))
}

func TestMapEntitiesPrefersNormalizedValue(t *testing.T) {
	em := MapEntities([]dto.Entity{
		{Type: "wages", MentionText: "S2,OOO.OO", NormalizedValue: "52000.00", Confidence: 0.9},
	})

	require.Equal(t, 1, em.Mapped)
	assert.True(t, em.Amounts[dto.FieldWages].Equal(d("52000")))
}

func TestMapEntitiesImplausibleAmountDropped(t *testing.T) {
	em := MapEntities([]dto.Entity{
		{Type: "wages", MentionText: "12-3456789", Confidence: 0.9},
	})

	assert.Zero(t, em.Mapped)
	assert.Empty(t, em.Amounts)
}

func TestMapEntitiesParties(t *testing.T) {
	em := MapEntities([]dto.Entity{
		{Type: "EmployerName", MentionText: "Acme Widgets", Confidence: 0.9},
		{Type: "EIN", MentionText: "12-3456789", Confidence: 0.9},
		{Type: "EmployeeName", MentionText: " Jane Doe ", Confidence: 0.9},
		{Type: "SSN", MentionText: "987-65-4321", Confidence: 0.9},
	})

	require.NotNil(t, em.Payer)
	assert.Equal(t, "Acme Widgets", em.Payer.Name)
	assert.Equal(t, "12-3456789", em.Payer.TaxIdentifier)

	require.NotNil(t, em.Recipient)
	assert.Equal(t, "Jane Doe", em.Recipient.Name)
	assert.Equal(t, "987-65-4321", em.Recipient.TaxIdentifier)
}

func TestMapEntitiesTaxYear(t *testing.T) {
	em := MapEntities([]dto.Entity{
		{Type: "TaxYear", MentionText: "2024", Confidence: 0.8},
	})

	require.NotNil(t, em.TaxYear)
	assert.Equal(t, 2024, *em.TaxYear)

	em = MapEntities([]dto.Entity{
		{Type: "TaxYear", MentionText: "banana", Confidence: 0.8},
	})
	assert.Nil(t, em.TaxYear)
}

func TestMapEntitiesUnrecognizedMoneyTag(t *testing.T) {
	em := MapEntities([]dto.Entity{
		{Type: "allocated_tips_amount", MentionText: "250.00", Confidence: 0.7},
	})

	// Mapped stays zero but the value survives under the vendor's tag.
	assert.Zero(t, em.Mapped)
	assert.True(t, em.Amounts["allocated_tips_amount"].Equal(d("250")))
}

func TestMapEntitiesUnrecognizedTagToExtras(t *testing.T) {
	em := MapEntities([]dto.Entity{
		{Type: "employer_state_id", MentionText: "OH-1234567", Confidence: 0.7},
	})

	assert.Zero(t, em.Mapped)
	assert.Equal(t, "OH-1234567", em.Extras["employer_state_id"])
}

func TestNameSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, NameSimilarity("Jane Doe", "jane doe"), 1e-9)
	assert.InDelta(t, 1.0, NameSimilarity("Jane  Doe", "Jane Doe"), 1e-9)
	assert.Greater(t, NameSimilarity("Jane Doe", "Jane Do"), 0.8)
	assert.Less(t, NameSimilarity("Jane Doe", "Globex Consulting"), 0.5)
	assert.InDelta(t, 0.0, NameSimilarity("Jane Doe", ""), 1e-9)
	assert.InDelta(t, 1.0, NameSimilarity("", ""), 1e-9)
}

func TestNameSimilarityMultibyteNames(t *testing.T) {
	// One rune of edit distance over four runes, regardless of how many
	// bytes the accented characters take.
	assert.InDelta(t, 0.75, NameSimilarity("José", "Rosé"), 1e-9)
}
