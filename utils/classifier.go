package utils

import (
	"strings"

	"github.com/taxlens/ocr-tax-extraction/dto"
)

// filenameHints maps filename substrings to form types. A filename match
// takes precedence over anything found in the body text.
var filenameHints = []struct {
	substr   string
	formType dto.FormType
}{
	{"1099-nec", dto.FormType1099NEC},
	{"1099nec", dto.FormType1099NEC},
	{"1099-int", dto.FormType1099INT},
	{"1099int", dto.FormType1099INT},
	{"1099-div", dto.FormType1099DIV},
	{"1099div", dto.FormType1099DIV},
	{"1099-misc", dto.FormType1099MISC},
	{"1099misc", dto.FormType1099MISC},
	{"1099-r", dto.FormType1099R},
	{"1099r", dto.FormType1099R},
	{"1099-g", dto.FormType1099G},
	{"1099g", dto.FormType1099G},
	{"w-2", dto.FormTypeW2},
	{"w2", dto.FormTypeW2},
}

// contentKeywords is scanned in fixed priority order; the first strong
// keyword wins. Each form's most distinctive field label doubles as a
// keyword because OCR often mangles the form code itself.
var contentKeywords = []struct {
	keywords []string
	formType dto.FormType
}{
	{[]string{"1099-nec", "nonemployee compensation"}, dto.FormType1099NEC},
	{[]string{"1099-int", "interest income"}, dto.FormType1099INT},
	{[]string{"1099-div", "ordinary dividends", "total ordinary dividends"}, dto.FormType1099DIV},
	{[]string{"1099-misc", "miscellaneous information", "miscellaneous income"}, dto.FormType1099MISC},
	{[]string{"1099-r", "distributions from pensions", "gross distribution"}, dto.FormType1099R},
	{[]string{"1099-g", "certain government payments", "unemployment compensation"}, dto.FormType1099G},
	{[]string{"w-2", "wage and tax statement", "wages, tips, other compensation"}, dto.FormTypeW2},
}

// ClassifyForm decides which tax-form parser applies. No match yields
// UNKNOWN; downstream mapping then routes every amount to the catch-all
// other-income bucket instead of discarding it.
func ClassifyForm(text, filenameHint string) dto.FormType {
	if filenameHint != "" {
		name := strings.ToLower(filenameHint)
		for _, h := range filenameHints {
			if strings.Contains(name, h.substr) {
				return h.formType
			}
		}
	}

	body := strings.ToLower(text)
	for _, ck := range contentKeywords {
		for _, kw := range ck.keywords {
			if strings.Contains(body, kw) {
				return ck.formType
			}
		}
	}

	// Recognizably IRS stock (a 1099 variant outside the supported set, or
	// an OMB control number) without a matching rule is OTHER; documents
	// with no tax-form markers at all stay UNKNOWN.
	if strings.Contains(body, "1099") || strings.Contains(body, "omb no") {
		return dto.FormTypeOther
	}

	return dto.FormTypeUnknown
}
