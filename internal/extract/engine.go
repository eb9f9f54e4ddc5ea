package extract

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/zaehlio/utility-ocr-service/internal/models"
)

// Engine is the heuristic field-extraction engine. It parses noisy OCR text
// from a utility invoice into a postal address, a meter-point ID and the
// current consumption in kWh. All methods are pure functions of the input
// text; an Engine is safe for concurrent use.
type Engine struct {
	cfg Config

	// meter-point tiers, strongest first
	labeledGroupedRe    *regexp.Regexp
	labeledContiguousRe *regexp.Regexp
	groupedRe           *regexp.Regexp
	contiguousRe        *regexp.Regexp
	genericRe           *regexp.Regexp

	// consumption passes
	currentRe  *regexp.Regexp
	fallbackRe *regexp.Regexp
}

// New compiles an Engine from the given config.
func New(cfg Config) *Engine {
	labels := alternation(cfg.MeterPointLabels)
	prefix := regexp.QuoteMeta(cfg.CountryPrefix)
	idLen := cfg.MeterPointIDLength

	// A numeric token: digits with internal . or , separators.
	const num = `([0-9]+(?:[.,][0-9]+)*)`
	current := alternation(cfg.CurrentKeywords)
	consumption := alternation(cfg.ConsumptionLabels)

	return &Engine{
		cfg: cfg,

		labeledGroupedRe: regexp.MustCompile(
			`(?i)(?:` + labels + `)\s*[:.]?\s*(` + prefix + `(?:[ \t]+[0-9A-Za-z]+)+)`),
		labeledContiguousRe: regexp.MustCompile(
			fmt.Sprintf(`(?i)(?:%s)\s*[:.]?\s*([0-9A-Za-z]{%d})\b`, labels, idLen)),
		groupedRe: regexp.MustCompile(
			`\b` + prefix + `(?:[ \t]+[0-9A-Za-z]+)+`),
		contiguousRe: regexp.MustCompile(
			fmt.Sprintf(`\b%s[0-9A-Za-z]{%d}\b`, prefix, idLen-len(cfg.CountryPrefix))),
		genericRe: regexp.MustCompile(
			fmt.Sprintf(`\b[0-9A-Za-z]{%d}\b`, idLen)),

		currentRe: regexp.MustCompile(
			`(?i)(?:` + current + `)\s*:?\s*` + num + `\s*kwh`),
		fallbackRe: regexp.MustCompile(
			`(?i)(?:(?:` + consumption + `)\s*:?\s*)?` + num + `\s*kwh`),
	}
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Extract runs the three locators over the same text and assembles the
// result record. Fields are independent; a partial record is valid.
func (e *Engine) Extract(text string) models.ExtractedInvoiceData {
	var data models.ExtractedInvoiceData
	if addr, ok := e.LocateAddress(text); ok {
		data.Address = addr
	}
	if id, ok := e.LocateMeterPointID(text); ok {
		data.MeterPointID = id
	}
	if kwh, ok := e.LocateConsumptionKwh(text); ok {
		data.CurrentConsumptionKwh = kwh
	}
	return data
}

// alternation joins the given literals into a regex alternation, longest
// first so that e.g. "zählpunktnummer" wins over "zählpunkt".
func alternation(words []string) string {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	sort.Slice(quoted, func(i, j int) bool { return len(quoted[i]) > len(quoted[j]) })
	return strings.Join(quoted, "|")
}

var defaultEngine = New(DefaultConfig())

// Extract runs the default engine over the given text.
func Extract(text string) models.ExtractedInvoiceData {
	return defaultEngine.Extract(text)
}
