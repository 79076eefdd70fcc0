package utils

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// The extraction engine recovers one field at a time through an ordered chain
// of strategies; the first strategy producing a plausible value wins. Absent
// fields are normal and simply stay absent.

const amountPattern = `\$?[ \t]*([0-9][0-9,]*(?:\.[0-9]+)?)`

// ExtractLabeledAmount looks for a value immediately following one of the
// known field labels on the same line. The separator class deliberately
// excludes newlines; values on following lines belong to the positional
// scan strategy.
func ExtractLabeledAmount(text string, labels []string) (decimal.Decimal, bool) {
	for _, label := range labels {
		re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(label) + `[ \t:.]*` + amountPattern)
		if m := re.FindStringSubmatch(text); len(m) > 1 {
			if v, ok := NormalizeAmount(m[1]); ok {
				return v, true
			}
		}
	}
	return decimal.Zero, false
}

var pureAmountLineRe = regexp.MustCompile(`^\$?\s*[0-9][0-9,]*(?:\.[0-9]+)?$`)

// ExtractAmountNearLabel scans up to three lines following the line that
// contains the label for a token that is purely numeric. OCR frequently
// drops box values onto their own line below the label.
func ExtractAmountNearLabel(text string, labels []string) (decimal.Decimal, bool) {
	lines := strings.Split(text, "\n")
	for _, label := range labels {
		needle := strings.ToLower(label)
		for i, line := range lines {
			if !strings.Contains(strings.ToLower(line), needle) {
				continue
			}
			for j := i + 1; j <= i+3 && j < len(lines); j++ {
				candidate := strings.TrimSpace(lines[j])
				if !pureAmountLineRe.MatchString(candidate) {
					continue
				}
				if v, ok := NormalizeAmount(candidate); ok {
					return v, true
				}
			}
		}
	}
	return decimal.Zero, false
}

// StatisticalAmount is the last-resort strategy for amount fields: collect
// every numeric token in the document, drop identifier lookalikes and values
// outside the field's plausible range, then pick the maximum. When relatedCap
// is set (e.g. withheld tax capped by wages) the candidate must be strictly
// below the cap and at most half of it.
func StatisticalAmount(text, field string, relatedCap *decimal.Decimal) (decimal.Decimal, bool) {
	best := decimal.Zero
	found := false
	for _, token := range NumericTokens(text) {
		if LooksLikeIdentifier(token) {
			continue
		}
		v, ok := NormalizeAmount(token)
		if !ok || !IsPlausible(field, v) {
			continue
		}
		if relatedCap != nil {
			if v.GreaterThanOrEqual(*relatedCap) {
				continue
			}
			half := relatedCap.Div(decimal.NewFromInt(2))
			if v.GreaterThan(half) {
				continue
			}
		}
		if !found || v.GreaterThan(best) {
			best = v
			found = true
		}
	}
	return best, found
}

// ExtractAmountField runs the full ordered strategy chain for one monetary
// field. Every accepted value passes the plausibility filter regardless of
// which strategy produced it.
func ExtractAmountField(text, field string, labels []string, statistical bool, relatedCap *decimal.Decimal) (decimal.Decimal, bool) {
	if v, ok := ExtractLabeledAmount(text, labels); ok && IsPlausible(field, v) {
		return v, true
	}
	if v, ok := ExtractAmountNearLabel(text, labels); ok && IsPlausible(field, v) {
		return v, true
	}
	if statistical {
		if v, ok := StatisticalAmount(text, field, relatedCap); ok {
			return v, true
		}
	}
	return decimal.Zero, false
}

// nameStopWords is form-field vocabulary that never forms part of a person
// or business name.
var nameStopWords = map[string]bool{
	"employee": true, "employer": true, "employees": true, "employers": true,
	"social": true, "security": true, "number": true, "name": true,
	"address": true, "street": true, "city": true, "state": true,
	"federal": true, "income": true, "tax": true, "wages": true,
	"statement": true, "wage": true, "form": true, "copy": true,
	"department": true, "internal": true, "revenue": true, "service": true,
	"payer": true, "payers": true, "recipient": true, "recipients": true,
	"account": true, "control": true, "omb": true, "compensation": true,
	"first": true, "last": true, "initial": true, "code": true, "zip": true,
}

var capitalizedPairRe = regexp.MustCompile(`\b([A-Z][a-zA-Z]+)\s+([A-Z][a-zA-Z]+)\b`)
var singleCapWordRe = regexp.MustCompile(`^[A-Z][a-zA-Z]+$`)

// ExtractPartyName searches a bounded window of text following a labeled
// section header for two consecutive capitalized words, skipping form
// vocabulary. If the window yields nothing it falls back to consecutive
// lines that each hold a single capitalized word.
func ExtractPartyName(text string, sectionLabels []string) string {
	for _, label := range sectionLabels {
		// Locate the label case-insensitively in the original string;
		// lowercasing a copy can change byte offsets for non-ASCII text.
		re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(label))
		loc := re.FindStringIndex(text)
		if loc == nil {
			continue
		}
		window := text[loc[1]:]
		if len(window) > 240 {
			window = window[:240]
		}
		for _, m := range capitalizedPairRe.FindAllStringSubmatch(window, -1) {
			if nameStopWords[strings.ToLower(m[1])] || nameStopWords[strings.ToLower(m[2])] {
				continue
			}
			return m[1] + " " + m[2]
		}
	}

	// Fallback: OCR sometimes splits a name one word per line.
	lines := strings.Split(text, "\n")
	var run []string
	for _, line := range lines {
		word := strings.TrimSpace(line)
		if singleCapWordRe.MatchString(word) && !nameStopWords[strings.ToLower(word)] {
			run = append(run, word)
			if len(run) == 2 {
				return strings.Join(run, " ")
			}
			continue
		}
		run = run[:0]
	}
	return ""
}

var einRe = regexp.MustCompile(`\b([0-9]{2}-[0-9]{7})\b`)
var ssnRe = regexp.MustCompile(`\b([0-9]{3}-[0-9]{2}-[0-9]{4})\b`)

// ExtractEIN recovers an employer identification number (NN-NNNNNNN).
func ExtractEIN(text string) string {
	return einRe.FindString(text)
}

// ExtractSSN recovers an individual taxpayer identifier (NNN-NN-NNNN).
func ExtractSSN(text string) string {
	return ssnRe.FindString(text)
}

var labeledYearRe = regexp.MustCompile(`(?i)(?:tax\s+year|for\s+(?:calendar\s+)?year|form\s+w-?2)\D{0,10}(20[0-9]{2})`)
var standaloneYearRe = regexp.MustCompile(`(?m)^\s*(20[0-9]{2})\s*$`)

// ExtractTaxYear recovers the filing year the form covers: a labeled year
// first, else a year standing alone on its own line (the large year printed
// on W-2 and 1099 stock).
func ExtractTaxYear(text string) *int {
	m := labeledYearRe.FindStringSubmatch(text)
	if m == nil {
		m = standaloneYearRe.FindStringSubmatch(text)
	}
	if m == nil {
		return nil
	}
	year, err := strconv.Atoi(m[1])
	if err != nil || year < 2000 || year > 2099 {
		return nil
	}
	return &year
}
