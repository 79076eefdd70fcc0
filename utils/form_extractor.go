package utils

import (
	"github.com/taxlens/ocr-tax-extraction/dto"
)

const (
	// ConfidenceTextMining is the conservative constant assigned when fields
	// were recovered by regex mining rather than vendor entities.
	ConfidenceTextMining = 0.6

	// ConfidenceEmbeddedText applies when the mined text came from a PDF's
	// own text layer instead of OCR, which removes recognition noise.
	ConfidenceEmbeddedText = 0.9

	// nameAgreementFloor is the similarity below which an entity-provided
	// party name and the text-mined one are considered in conflict.
	nameAgreementFloor = 0.5
)

// ExtractFields recovers typed fields from a classified document. When
// pre-labeled vendor entities are present and at least one maps, the
// entity-driven regime wins and the form carries the best entity confidence;
// otherwise the per-form text-mining strategy chain runs. Field absence is
// never an error.
func ExtractFields(formType dto.FormType, text string, entities []dto.Entity) dto.ExtractedForm {
	mined := mineText(formType, text)

	if len(entities) > 0 {
		if em := MapEntities(entities); em.Mapped > 0 {
			return mergeEntityRegime(formType, text, em, mined)
		}
	}

	mined.Confidence = ConfidenceTextMining
	if emptyForm(&mined) {
		mined.Confidence = 0
	}
	return mined
}

func mineText(formType dto.FormType, text string) dto.ExtractedForm {
	switch formType {
	case dto.FormTypeW2:
		return ParseW2(text)
	case dto.FormType1099NEC, dto.FormType1099INT, dto.FormType1099DIV,
		dto.FormType1099MISC, dto.FormType1099R, dto.FormType1099G:
		return Parse1099(formType, text)
	default:
		form := ParseUnknownForm(text)
		form.FormType = formType
		if formType == "" {
			form.FormType = dto.FormTypeUnknown
		}
		return form
	}
}

// mergeEntityRegime builds the form from entity output, backfilling parties
// and year the vendor did not label from the text-mined result.
func mergeEntityRegime(formType dto.FormType, text string, em EntityMapping, mined dto.ExtractedForm) dto.ExtractedForm {
	form := dto.ExtractedForm{
		FormType:   formType,
		TaxYear:    em.TaxYear,
		Payer:      em.Payer,
		Recipient:  em.Recipient,
		Amounts:    em.Amounts,
		Extras:     em.Extras,
		RawText:    text,
		Confidence: em.BestConfidence,
	}
	if len(form.Extras) == 0 {
		form.Extras = nil
	}

	if form.TaxYear == nil {
		form.TaxYear = mined.TaxYear
	}
	if form.Payer == nil {
		form.Payer = mined.Payer
	} else if form.Payer.TaxIdentifier == "" && mined.Payer != nil {
		form.Payer.TaxIdentifier = mined.Payer.TaxIdentifier
	}
	if form.Recipient == nil {
		form.Recipient = mined.Recipient
	} else if form.Recipient.TaxIdentifier == "" && mined.Recipient != nil {
		form.Recipient.TaxIdentifier = mined.Recipient.TaxIdentifier
	}

	// A vendor name that disagrees hard with the text-mined one usually
	// means the vendor grabbed the wrong box; keep its value but mark the
	// form less trustworthy.
	if disagrees(em.Payer, mined.Payer) || disagrees(em.Recipient, mined.Recipient) {
		form.Confidence *= 0.8
	}

	if emptyForm(&form) {
		form.Confidence = 0
	}
	return form
}

func disagrees(entity, mined *dto.Party) bool {
	if entity == nil || mined == nil || entity.Name == "" || mined.Name == "" {
		return false
	}
	return NameSimilarity(entity.Name, mined.Name) < nameAgreementFloor
}

func emptyForm(f *dto.ExtractedForm) bool {
	return len(f.Amounts) == 0 && f.Payer == nil && f.Recipient == nil && f.TaxYear == nil
}
