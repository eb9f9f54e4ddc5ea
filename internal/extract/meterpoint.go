package extract

import (
	"strings"
	"unicode"
)

// LocateMeterPointID finds a meter-point ID (Zählpunktnummer) in the text.
// Five tiers are tried in order, strongest context first; the first tier
// that yields a candidate wins and later tiers are not consulted. Within a
// tier the first qualifying match in document order is returned. A result
// always has exactly the configured length.
func (e *Engine) LocateMeterPointID(text string) (string, bool) {
	// Tier 1: labeled, country-prefixed, space-grouped.
	for _, m := range e.labeledGroupedRe.FindAllStringSubmatch(text, -1) {
		if id, ok := e.collapseGroups(m[1]); ok {
			return id, true
		}
	}

	// Tier 2: labeled, contiguous.
	if m := e.labeledContiguousRe.FindStringSubmatch(text); m != nil {
		return m[1], true
	}

	// Tier 3: unlabeled, country-prefixed, space-grouped. Requires a letter
	// and a digit to filter out phone numbers and similar runs.
	for _, m := range e.groupedRe.FindAllString(text, -1) {
		if id, ok := e.collapseGroups(m); ok && hasLetterAndDigit(id) {
			return id, true
		}
	}

	// Tier 4: unlabeled, country-prefixed, contiguous.
	for _, m := range e.contiguousRe.FindAllString(text, -1) {
		if hasLetterAndDigit(m) {
			return m, true
		}
	}

	// Tier 5: any contiguous token of the right length with at least one
	// letter. Weakest tier, no country prefix required.
	for _, m := range e.genericRe.FindAllString(text, -1) {
		if hasLetter(m) {
			return m, true
		}
	}

	return "", false
}

// collapseGroups strips the whitespace out of a space-grouped candidate
// ("AT 004000 05020 ...") and accepts it when the collapsed prefix hits the
// configured length exactly. Trailing unrelated words make the run overshoot
// and are thereby rejected.
func (e *Engine) collapseGroups(grouped string) (string, bool) {
	var id strings.Builder
	for _, group := range strings.Fields(grouped) {
		id.WriteString(group)
		if id.Len() == e.cfg.MeterPointIDLength {
			return id.String(), true
		}
		if id.Len() > e.cfg.MeterPointIDLength {
			return "", false
		}
	}
	return "", false
}

func hasLetterAndDigit(s string) bool {
	var letter, digit bool
	for _, r := range s {
		if unicode.IsLetter(r) {
			letter = true
		}
		if unicode.IsDigit(r) {
			digit = true
		}
	}
	return letter && digit
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
