package extract

import (
	"regexp"
	"strings"
	"unicode"
)

// streetSuffixes are the street-type endings recognized in Austrian and
// German addresses. A token ending in "." (e.g. "Hauptstr.") also counts.
var streetSuffixes = []string{
	"straße", "strasse", "platz", "weg", "gasse", "allee", "ring", "str.",
}

var (
	// "1010 Wien", "4600 Wels-Land". Austrian postal codes are 4 digits.
	postalCityRe = regexp.MustCompile(`^\d{4}\s+\p{Lu}[\p{L}]+(?:[ \-][\p{L}]+)*$`)

	// House numbers: "12", "12a", "12/3", "7-9".
	houseNumberRe = regexp.MustCompile(`^\d+[a-zA-Z]?(?:[/\-]\d+[a-zA-Z]?)*$`)

	// Single-line composite: optional "Firstname Lastname", street with
	// house number, postal code with city, separated by commas or spaces.
	compositeRe = regexp.MustCompile(
		`^(?:(\p{Lu}\p{Ll}+\s+\p{Lu}\p{Ll}+)\s*,?\s+)?` +
			`((?:\p{Lu}[\p{L}]*[ \-])*\p{L}*(?:[Ss]traße|[Ss]trasse|[Pp]latz|[Ww]eg|[Gg]asse|[Aa]llee|[Rr]ing|\p{L}+\.)\s+\d+[a-zA-Z]?)` +
			`\s*,?\s+(\d{4}\s+\p{Lu}[\p{L}]+(?:[ \-][\p{L}]+)*)$`)
)

// LocateAddress finds a postal address in the text. OCR output usually
// breaks an address block across one to three physical lines, so three
// progressively less contextual layouts are tried; the first that yields at
// least two address parts wins. A lone postal-code line is never returned.
func (e *Engine) LocateAddress(text string) (string, bool) {
	lines := nonEmptyLines(text)

	if addr, ok := addressAnchoredOnPostalCode(lines); ok {
		return addr, true
	}
	if addr, ok := addressStreetThenPostal(lines); ok {
		return addr, true
	}
	if addr, ok := addressSingleLine(lines); ok {
		return addr, true
	}
	return "", false
}

// addressAnchoredOnPostalCode anchors on the first postal-code line and
// walks upward: line above must be a street, the one above that may be a
// name.
func addressAnchoredOnPostalCode(lines []string) (string, bool) {
	for i, line := range lines {
		if !postalCityRe.MatchString(line) {
			continue
		}
		if i == 0 || !isStreetLine(lines[i-1]) {
			return "", false
		}
		parts := []string{lines[i-1], line}
		if i > 1 && isNameLine(lines[i-2]) {
			parts = append([]string{lines[i-2]}, parts...)
		}
		return strings.Join(parts, ", "), true
	}
	return "", false
}

// addressStreetThenPostal scans adjacent line pairs for street followed by
// postal code, optionally preceded by a name line.
func addressStreetThenPostal(lines []string) (string, bool) {
	for i := 0; i+1 < len(lines); i++ {
		if !isStreetLine(lines[i]) || !postalCityRe.MatchString(lines[i+1]) {
			continue
		}
		parts := []string{lines[i], lines[i+1]}
		if i > 0 && isNameLine(lines[i-1]) {
			parts = append([]string{lines[i-1]}, parts...)
		}
		return strings.Join(parts, ", "), true
	}
	return "", false
}

// addressSingleLine matches a complete address squeezed onto one line.
func addressSingleLine(lines []string) (string, bool) {
	for _, line := range lines {
		m := compositeRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		var parts []string
		for _, part := range m[1:] {
			if part != "" {
				parts = append(parts, strings.TrimSpace(part))
			}
		}
		if len(parts) >= 2 {
			return strings.Join(parts, ", "), true
		}
	}
	return "", false
}

// isStreetLine reports whether the line looks like "<street name> <house
// number>", where the street's last token carries a street-type suffix or
// ends in an abbreviation dot.
func isStreetLine(line string) bool {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return false
	}
	if !houseNumberRe.MatchString(fields[len(fields)-1]) {
		return false
	}
	street := fields[:len(fields)-1]
	if !startsUpper(street[0]) {
		return false
	}
	return hasStreetSuffix(street[len(street)-1])
}

// isNameLine reports whether the line looks like "Firstname Lastname" and
// is not itself a street fragment.
func isNameLine(line string) bool {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return false
	}
	for _, f := range fields {
		if !startsUpper(f) || !allLetters(f) {
			return false
		}
		if hasStreetSuffix(f) {
			return false
		}
	}
	return true
}

func hasStreetSuffix(token string) bool {
	t := strings.ToLower(token)
	for _, suffix := range streetSuffixes {
		if strings.HasSuffix(t, suffix) {
			return true
		}
	}
	// "Hauptstr." style abbreviations
	return len(t) > 1 && strings.HasSuffix(t, ".")
}

func startsUpper(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r)
	}
	return false
}

func allLetters(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return s != ""
}

// nonEmptyLines splits the text into trimmed, non-empty lines in document
// order.
func nonEmptyLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
