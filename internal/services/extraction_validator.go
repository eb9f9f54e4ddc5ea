package services

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/zaehlio/utility-ocr-service/internal/extract"
	"github.com/zaehlio/utility-ocr-service/internal/models"
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

// ValidationWarning represents a non-critical issue
type ValidationWarning struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ComputedValues holds values derived from the extracted fields
type ComputedValues struct {
	ConsumptionKwh   float64 `json:"consumption_kwh,omitempty"`
	MeterPointPrefix string  `json:"meter_point_prefix,omitempty"`
	PostalCode       string  `json:"postal_code,omitempty"`
	FieldsFound      int     `json:"fields_found"`
}

// ValidationResult is the response from validation
type ValidationResult struct {
	Valid       bool                `json:"valid"`
	NeedsReview bool                `json:"needs_review"`
	Confidence  float64             `json:"confidence"`
	Errors      []ValidationError   `json:"errors"`
	Warnings    []ValidationWarning `json:"warnings"`
	Computed    ComputedValues      `json:"computed"`
}

var postalCodeRe = regexp.MustCompile(`\b\d{4}\b`)

// ExtractionValidator checks extracted invoice fields against Austrian
// metering conventions.
type ExtractionValidator struct {
	cfg extract.Config
}

// NewExtractionValidator creates a validator using the engine's rules.
func NewExtractionValidator(cfg extract.Config) *ExtractionValidator {
	return &ExtractionValidator{cfg: cfg}
}

// Validate performs all checks on an extraction result. Absent fields
// produce warnings, malformed fields produce errors.
func (v *ExtractionValidator) Validate(data *models.ExtractedInvoiceData) *ValidationResult {
	result := &ValidationResult{
		Valid:       true,
		NeedsReview: false,
		Errors:      []ValidationError{},
		Warnings:    []ValidationWarning{},
	}

	v.validateAddress(data, result)
	v.validateMeterPointID(data, result)
	v.validateConsumption(data, result)

	if data.Address != "" {
		result.Computed.FieldsFound++
	}
	if data.MeterPointID != "" {
		result.Computed.FieldsFound++
	}
	if data.CurrentConsumptionKwh != "" {
		result.Computed.FieldsFound++
	}

	result.Valid = len(result.Errors) == 0
	result.NeedsReview = len(result.Warnings) > 0 || result.Computed.FieldsFound < 3
	result.Confidence = v.calculateConfidence(result)

	return result
}

// validateAddress checks the address contains an Austrian postal code.
func (v *ExtractionValidator) validateAddress(data *models.ExtractedInvoiceData, result *ValidationResult) {
	if data.Address == "" {
		result.Warnings = append(result.Warnings, ValidationWarning{
			Field:   "address",
			Code:    "address_missing",
			Message: "No postal address found",
		})
		return
	}

	postal := postalCodeRe.FindString(data.Address)
	if postal == "" {
		result.Warnings = append(result.Warnings, ValidationWarning{
			Field:   "address",
			Code:    "address_no_postal_code",
			Message: "Address lacks a 4-digit postal code",
		})
		return
	}
	result.Computed.PostalCode = postal
}

// validateMeterPointID checks length, charset and country prefix.
func (v *ExtractionValidator) validateMeterPointID(data *models.ExtractedInvoiceData, result *ValidationResult) {
	id := data.MeterPointID
	if id == "" {
		result.Warnings = append(result.Warnings, ValidationWarning{
			Field:   "meter_point_id",
			Code:    "meter_point_missing",
			Message: "No metering point ID found",
		})
		return
	}

	if len(id) != v.cfg.MeterPointIDLength {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "meter_point_id",
			Code:    "meter_point_bad_length",
			Message: "Metering point ID must be " + strconv.Itoa(v.cfg.MeterPointIDLength) + " characters",
		})
		return
	}

	hasLetter, hasDigit := false, false
	for _, r := range id {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			result.Errors = append(result.Errors, ValidationError{
				Field:   "meter_point_id",
				Code:    "meter_point_bad_charset",
				Message: "Metering point ID must be alphanumeric",
			})
			return
		}
	}
	if !hasLetter || !hasDigit {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "meter_point_id",
			Code:    "meter_point_bad_charset",
			Message: "Metering point ID must mix letters and digits",
		})
		return
	}

	if len(id) >= len(v.cfg.CountryPrefix) {
		result.Computed.MeterPointPrefix = id[:len(v.cfg.CountryPrefix)]
	}
	if !strings.HasPrefix(strings.ToUpper(id), v.cfg.CountryPrefix) {
		result.Warnings = append(result.Warnings, ValidationWarning{
			Field:   "meter_point_id",
			Code:    "meter_point_foreign_prefix",
			Message: "Metering point ID does not start with " + v.cfg.CountryPrefix,
		})
	}
}

// validateConsumption checks the value parses, has one fractional digit
// and falls inside the plausible household range.
func (v *ExtractionValidator) validateConsumption(data *models.ExtractedInvoiceData, result *ValidationResult) {
	raw := data.CurrentConsumptionKwh
	if raw == "" {
		result.Warnings = append(result.Warnings, ValidationWarning{
			Field:   "current_consumption_kwh",
			Code:    "consumption_missing",
			Message: "No current consumption value found",
		})
		return
	}

	val, err := decimal.NewFromString(raw)
	if err != nil {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "current_consumption_kwh",
			Code:    "consumption_not_numeric",
			Message: "Consumption value is not a number",
		})
		return
	}

	dot := strings.Index(raw, ".")
	if dot == -1 || len(raw)-dot-1 != 1 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "current_consumption_kwh",
			Code:    "consumption_bad_precision",
			Message: "Consumption must carry exactly one fractional digit",
		})
		return
	}

	if !val.GreaterThan(v.cfg.MinConsumptionKwh) || !val.LessThan(v.cfg.MaxConsumptionKwh) {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "current_consumption_kwh",
			Code:    "consumption_out_of_range",
			Message: "Consumption outside plausible range",
		})
		return
	}

	f, _ := val.Float64()
	result.Computed.ConsumptionKwh = f
}

// calculateConfidence scores the extraction between 0 and 1. Each found
// field contributes, errors and warnings subtract.
func (v *ExtractionValidator) calculateConfidence(result *ValidationResult) float64 {
	score := float64(result.Computed.FieldsFound) / 3.0
	score -= 0.25 * float64(len(result.Errors))
	score -= 0.05 * float64(len(result.Warnings))

	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
