package extract

import (
	"github.com/shopspring/decimal"

	"github.com/zaehlio/utility-ocr-service/internal/models"
)

// Config holds the tunable constants of the extraction engine. The defaults
// target Austrian electricity invoices; other locales can override the ID
// length, country prefix and keyword sets without touching the locators.
type Config struct {
	// MeterPointIDLength is the exact length of a valid meter-point ID
	// (Zählpunktnummer). Austrian IDs are 33 characters.
	MeterPointIDLength int

	// CountryPrefix is the expected two-letter prefix of a meter-point ID.
	CountryPrefix string

	// MeterPointLabels are the label words that may precede a meter-point ID.
	MeterPointLabels []string

	// MinConsumptionKwh and MaxConsumptionKwh bound plausible consumption
	// values (exclusive on both ends). Values outside are discarded as
	// invoice numbers, customer numbers or years.
	MinConsumptionKwh decimal.Decimal
	MaxConsumptionKwh decimal.Decimal

	// CurrentKeywords qualify a kWh value as the current-period reading.
	CurrentKeywords []string

	// ConsumptionLabels may precede an unqualified kWh value.
	ConsumptionLabels []string

	// ExclusionKeywords mark a prior-period reading. A candidate whose
	// surrounding ContextWindow contains one of these is discarded.
	ExclusionKeywords []string

	// ContextWindow is the number of characters inspected on each side of a
	// fallback candidate when applying ExclusionKeywords.
	ContextWindow int
}

// DefaultConfig returns the Austrian/German defaults.
func DefaultConfig() Config {
	return Config{
		MeterPointIDLength: 33,
		CountryPrefix:      "AT",
		MeterPointLabels: []string{
			"zählpunktnummer",
			"zählpunkt",
			"zählernummer",
			"zp-nr",
			"zp nr",
			"metering point",
		},
		MinConsumptionKwh: decimal.NewFromInt(1),
		MaxConsumptionKwh: decimal.NewFromInt(100000),
		CurrentKeywords:   []string{"aktuell", "current"},
		ConsumptionLabels: []string{
			"gesamtverbrauch",
			"energieverbrauch",
			"verbrauch",
			"strom",
		},
		ExclusionKeywords: []string{"vorperiode", "previous"},
		ContextWindow:     50,
	}
}

// ConfigFromService overlays the service-level overrides onto the defaults.
// Zero values keep the Austrian defaults.
func ConfigFromService(sc models.ExtractionConfig) Config {
	cfg := DefaultConfig()
	if sc.MeterPointIDLength > 0 {
		cfg.MeterPointIDLength = sc.MeterPointIDLength
	}
	if sc.CountryPrefix != "" {
		cfg.CountryPrefix = sc.CountryPrefix
	}
	if sc.MinConsumptionKwh > 0 {
		cfg.MinConsumptionKwh = decimal.NewFromFloat(sc.MinConsumptionKwh)
	}
	if sc.MaxConsumptionKwh > 0 {
		cfg.MaxConsumptionKwh = decimal.NewFromFloat(sc.MaxConsumptionKwh)
	}
	if sc.ContextWindow > 0 {
		cfg.ContextWindow = sc.ContextWindow
	}
	return cfg
}
