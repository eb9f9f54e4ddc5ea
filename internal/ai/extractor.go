package ai

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/zaehlio/utility-ocr-service/internal/extract"
	"github.com/zaehlio/utility-ocr-service/internal/models"
)

// Extractor handles LLM-based data extraction from OCR text or images. The
// heuristic engine is the fallback: whenever the provider call fails, the
// response carries no parseable JSON, or no field survives validation, the
// engine's result replaces the LLM result wholesale for that invocation.
type Extractor struct {
	provider Provider
	engine   *extract.Engine
}

// NewExtractor creates a new AI extractor.
func NewExtractor(provider Provider, engine *extract.Engine) *Extractor {
	return &Extractor{
		provider: provider,
		engine:   engine,
	}
}

// Extract processes OCR text or an image and returns the three invoice
// fields plus the elapsed provider time in seconds.
func (e *Extractor) Extract(ocrText string, imageBase64 string) (*models.ExtractionResult, float64, error) {
	startTime := time.Now()

	// Vision mode: image present, no usable OCR text.
	isVisionMode := imageBase64 != "" && strings.TrimSpace(ocrText) == ""

	prompt := e.buildPrompt(ocrText, isVisionMode)

	response, err := e.provider.ExtractData(prompt, imageBase64)
	duration := time.Since(startTime).Seconds()
	if err != nil {
		if isVisionMode {
			return nil, duration, fmt.Errorf("AI extraction failed: %w", err)
		}
		fmt.Printf("[AI] Provider %s failed (%v), falling back to heuristic engine\n", e.provider.Name(), err)
		return e.heuristic(ocrText), duration, nil
	}

	fmt.Printf("[AI Response] Vision mode: %v, Response length: %d\n", isVisionMode, len(response))

	data, err := e.parseResponse(response)
	if err != nil || data.Empty() {
		if isVisionMode {
			if err != nil {
				return nil, duration, fmt.Errorf("failed to parse AI response: %w", err)
			}
			return nil, duration, fmt.Errorf("AI response contained no usable fields")
		}
		fmt.Printf("[AI] Unusable response (%v), falling back to heuristic engine\n", err)
		return e.heuristic(ocrText), duration, nil
	}

	return &models.ExtractionResult{
		Data:        *data,
		Method:      "llm",
		RawText:     ocrText,
		ProcessedAt: time.Now(),
	}, duration, nil
}

func (e *Extractor) heuristic(ocrText string) *models.ExtractionResult {
	return &models.ExtractionResult{
		Data:        e.engine.Extract(ocrText),
		Method:      "heuristic",
		RawText:     ocrText,
		ProcessedAt: time.Now(),
	}
}

// buildPrompt creates the extraction prompt for Austrian utility invoices.
func (e *Extractor) buildPrompt(ocrText string, isVisionMode bool) string {
	cfg := e.engine.Config()

	source := "dem folgenden OCR-Text einer österreichischen Stromrechnung"
	if isVisionMode {
		source = "dem Bild einer österreichischen Stromrechnung"
	}

	prompt := fmt.Sprintf(`Du bist ein Experte für österreichische Energierechnungen. Extrahiere aus %s genau drei Felder.

## FELDER

1. "address": Die Postanschrift des Kunden (Empfänger der Rechnung, nicht der Energieversorger).
   Format: "Name, Straße Hausnummer, PLZ Ort" — Teile mit ", " verbinden, fehlende Teile weglassen.
2. "meterPointId": Die Zählpunktnummer. Exakt %d Zeichen, alphanumerisch, beginnt üblicherweise mit "%s".
   Entferne alle Leerzeichen innerhalb der Nummer.
3. "currentConsumptionKwh": Der AKTUELLE Stromverbrauch in kWh als Zahl.
   NICHT den Wert der Vorperiode. Dezimaltrennzeichen ist der Punkt.

## REGELN

- Antworte NUR mit gültigem JSON, ohne Markdown, ohne Kommentare:
  {"address": "...", "meterPointId": "...", "currentConsumptionKwh": 2573.1}
- Wenn ein Feld nicht sicher lesbar ist, setze null. NIEMALS raten.
- Achte auf OCR-Fehler: Zeilenumbrüche an falschen Stellen, vertauschte Zeichen.
- "aktuell" markiert den aktuellen Verbrauch, "Vorperiode" einen alten Wert.
`, source, cfg.MeterPointIDLength, cfg.CountryPrefix)

	if !isVisionMode {
		prompt += fmt.Sprintf("\n## OCR-TEXT\n\n%s", ocrText)
	}

	return prompt
}

// parseResponse converts the model's JSON response into the record,
// validating each field against the engine's rules. Fields that fail
// validation are dropped, not guessed.
func (e *Extractor) parseResponse(response string) (*models.ExtractedInvoiceData, error) {
	cleaned := cleanJSONResponse(response)
	if cleaned == "" {
		return nil, fmt.Errorf("no JSON object found in response")
	}

	// interface{} for the kWh value: models return numbers or strings.
	var raw struct {
		Address               *string     `json:"address"`
		MeterPointID          *string     `json:"meterPointId"`
		CurrentConsumptionKwh interface{} `json:"currentConsumptionKwh"`
	}
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, fmt.Errorf("JSON parse error: %w", err)
	}

	data := &models.ExtractedInvoiceData{}

	if raw.Address != nil {
		if addr := strings.TrimSpace(*raw.Address); addr != "" {
			data.Address = addr
		}
	}

	if raw.MeterPointID != nil {
		if id, ok := e.validMeterPointID(*raw.MeterPointID); ok {
			data.MeterPointID = id
		}
	}

	if kwh := consumptionToken(raw.CurrentConsumptionKwh); kwh != "" {
		if v, ok := e.engine.NormalizeConsumption(kwh); ok {
			data.CurrentConsumptionKwh = v
		}
	}

	return data, nil
}

// validMeterPointID strips whitespace out of the model's answer and checks
// length and charset against the engine config.
func (e *Extractor) validMeterPointID(raw string) (string, bool) {
	var sb strings.Builder
	for _, r := range raw {
		if unicode.IsSpace(r) {
			continue
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return "", false
		}
		sb.WriteRune(r)
	}
	id := sb.String()
	if len(id) != e.engine.Config().MeterPointIDLength {
		return "", false
	}
	return id, true
}

// consumptionToken renders the flexible JSON value as a string token.
func consumptionToken(v interface{}) string {
	switch val := v.(type) {
	case float64:
		return fmt.Sprintf("%.1f", val)
	case string:
		return strings.TrimSpace(val)
	case json.Number:
		return string(val)
	default:
		return ""
	}
}

// cleanJSONResponse strips markdown fences and trims the response down to
// the outermost JSON object.
func cleanJSONResponse(response string) string {
	text := strings.TrimSpace(response)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return text[start : end+1]
}
