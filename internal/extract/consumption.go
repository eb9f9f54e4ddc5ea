package extract

import (
	"strings"

	"github.com/shopspring/decimal"
)

// LocateConsumptionKwh finds the current-period consumption reading. Pass 1
// only considers kWh values qualified by a current-period keyword; pass 2
// falls back to any kWh value whose surrounding context does not mention a
// prior period. In both passes the numeric maximum wins, which folds
// OCR-duplicated fragments of the same figure into one value (ties go to
// the first occurrence). The result carries exactly one fractional digit.
func (e *Engine) LocateConsumptionKwh(text string) (string, bool) {
	if v, ok := e.currentPeriodCandidate(text); ok {
		return v.StringFixed(1), true
	}
	if v, ok := e.fallbackCandidate(text); ok {
		return v.StringFixed(1), true
	}
	return "", false
}

// currentPeriodCandidate implements pass 1: numbers directly qualified by a
// keyword like "aktuell" and followed by the kWh unit.
func (e *Engine) currentPeriodCandidate(text string) (decimal.Decimal, bool) {
	var best decimal.Decimal
	found := false
	for _, m := range e.currentRe.FindAllStringSubmatch(text, -1) {
		v, ok := e.normalizeCandidate(m[1])
		if !ok {
			continue
		}
		if !found || v.GreaterThan(best) {
			best = v
			found = true
		}
	}
	return best, found
}

// fallbackCandidate implements pass 2: any kWh value, discarded when the
// surrounding context window names a prior-period reading.
func (e *Engine) fallbackCandidate(text string) (decimal.Decimal, bool) {
	var best decimal.Decimal
	found := false
	for _, idx := range e.fallbackRe.FindAllStringSubmatchIndex(text, -1) {
		if e.nearExclusionKeyword(text, idx[0], idx[1]) {
			continue
		}
		v, ok := e.normalizeCandidate(text[idx[2]:idx[3]])
		if !ok {
			continue
		}
		if !found || v.GreaterThan(best) {
			best = v
			found = true
		}
	}
	return best, found
}

// nearExclusionKeyword reports whether the context window around the match
// span [start, end) contains an exclusion keyword. The window is cut from
// the original text and lowercased afterwards; lowercasing the whole text
// first can change its byte length (ẞ -> ß) and shift the offsets.
func (e *Engine) nearExclusionKeyword(text string, start, end int) bool {
	from := start - e.cfg.ContextWindow
	if from < 0 {
		from = 0
	}
	to := end + e.cfg.ContextWindow
	if to > len(text) {
		to = len(text)
	}
	window := strings.ToLower(text[from:to])
	for _, kw := range e.cfg.ExclusionKeywords {
		if strings.Contains(window, kw) {
			return true
		}
	}
	return false
}

// NormalizeConsumption canonicalizes an externally supplied numeric token
// (e.g. from an LLM response) the same way the locator does: separator
// normalization, plausibility bounds, one fractional digit. Returns false
// for unparsable or implausible values.
func (e *Engine) NormalizeConsumption(raw string) (string, bool) {
	v, ok := e.normalizeCandidate(raw)
	if !ok {
		return "", false
	}
	return v.StringFixed(1), true
}

// normalizeCandidate normalizes a raw numeric token, rounds it to the
// output precision and applies the plausibility bounds. The bounds run on
// the rounded value: a reading like 99999.99 must not slip through the
// check and then round onto the bound in the output.
func (e *Engine) normalizeCandidate(raw string) (decimal.Decimal, bool) {
	v, ok := NormalizeGermanDecimal(raw)
	if !ok {
		return decimal.Decimal{}, false
	}
	v = v.Round(1)
	if !v.GreaterThan(e.cfg.MinConsumptionKwh) || !v.LessThan(e.cfg.MaxConsumptionKwh) {
		return decimal.Decimal{}, false
	}
	return v, true
}

// NormalizeGermanDecimal parses a numeric token that may use German or
// English separator conventions. The separator roles are decided by shape:
//
//   - both "." and ",": the one appearing last is the decimal point, the
//     other a thousands separator ("2.573,1" and "2,573.1" both mean 2573.1)
//   - only ",": a 1-2 digit tail makes it the decimal point, otherwise all
//     commas are thousands separators
//   - only ".": a 1-2 digit tail keeps it as the decimal point, otherwise
//     all dots are thousands separators
//
// The branch order matters; do not reorder.
func NormalizeGermanDecimal(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(raw)
	hasDot := strings.Contains(s, ".")
	hasComma := strings.Contains(s, ",")

	switch {
	case hasDot && hasComma:
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case hasComma:
		i := strings.LastIndex(s, ",")
		if tail := len(s) - i - 1; tail >= 1 && tail <= 2 {
			s = strings.ReplaceAll(s[:i], ",", "") + "." + s[i+1:]
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case hasDot:
		i := strings.LastIndex(s, ".")
		if tail := len(s) - i - 1; tail >= 1 && tail <= 2 {
			s = strings.ReplaceAll(s[:i], ".", "") + "." + s[i+1:]
		} else {
			s = strings.ReplaceAll(s, ".", "")
		}
	}

	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return v, true
}
