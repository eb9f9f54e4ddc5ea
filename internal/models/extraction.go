package models

import "time"

// ExtractedInvoiceData is the result of one extraction run over a utility
// invoice. All three fields are independently optional; an empty string
// means "no confident match", never a guessed value.
type ExtractedInvoiceData struct {
	// Address is the customer's postal address, up to three logical parts
	// (name, street with house number, postal code with city) joined with
	// ", " in document order.
	Address string `json:"address,omitempty"`

	// MeterPointID is the Zählpunktnummer. When present it is exactly 33
	// alphanumeric characters, conventionally starting with "AT".
	MeterPointID string `json:"meterPointId,omitempty"`

	// CurrentConsumptionKwh is the current-period reading as a canonical
	// decimal string with one fractional digit, e.g. "2573.1".
	CurrentConsumptionKwh string `json:"currentConsumptionKwh,omitempty"`
}

// Empty reports whether no field was extracted.
func (d ExtractedInvoiceData) Empty() bool {
	return d.Address == "" && d.MeterPointID == "" && d.CurrentConsumptionKwh == ""
}

// ExtractionResult wraps the extracted fields with processing metadata.
type ExtractionResult struct {
	Data ExtractedInvoiceData `json:"data"`

	// Method is "heuristic" or "llm", depending on which path produced Data.
	Method string `json:"method"`

	// Confidence is an extraction quality score in [0, 1].
	Confidence float64 `json:"confidence"`

	// RawText is the complete OCR text the extraction ran on.
	RawText string `json:"rawText,omitempty"`

	ProcessedAt time.Time `json:"processedAt"`
}

// ProcessRequest represents the input for invoice processing.
type ProcessRequest struct {
	// Image data (sent as multipart)
	ImageData []byte `json:"-"`

	// Configuration (optional)
	UseVisionModel bool   `json:"useVisionModel"` // Use vision AI directly (skip OCR)
	AIProvider     string `json:"aiProvider"`     // "openai", "gemini", "ollama" or "heuristic"
	Model          string `json:"model"`          // Specific model name
	Language       string `json:"language"`       // OCR language (default: "deu")
}

// ProcessResponse represents the output of invoice processing.
type ProcessResponse struct {
	Success bool              `json:"success"`
	Result  *ExtractionResult `json:"result,omitempty"`
	Error   string            `json:"error,omitempty"`

	// Processing metadata
	OCRDuration   float64 `json:"ocrDuration,omitempty"` // OCR time in seconds
	AIDuration    float64 `json:"aiDuration,omitempty"`  // AI extraction time in seconds
	TotalDuration float64 `json:"totalDuration"`         // Total processing time
}

// Config represents the service configuration.
type Config struct {
	// Server config
	Port int    `yaml:"port"`
	Host string `yaml:"host"`

	// OCR config
	OCR OCRConfig `yaml:"ocr"`

	// AI config
	AI AIConfig `yaml:"ai"`

	// Extraction engine tunables
	Extraction ExtractionConfig `yaml:"extraction"`
}

// OCRConfig represents OCR-specific configuration.
type OCRConfig struct {
	Engine   string `yaml:"engine"`   // "tesseract"
	Language string `yaml:"language"` // OCR language (default: "deu")
}

// ExtractionConfig carries the locale-dependent constants of the heuristic
// engine. Zero values fall back to the Austrian defaults.
type ExtractionConfig struct {
	MeterPointIDLength int     `yaml:"meter_point_id_length"`
	CountryPrefix      string  `yaml:"country_prefix"`
	MinConsumptionKwh  float64 `yaml:"min_consumption_kwh"`
	MaxConsumptionKwh  float64 `yaml:"max_consumption_kwh"`
	ContextWindow      int     `yaml:"context_window"`
}

// AIConfig represents AI provider configuration.
type AIConfig struct {
	// OpenAI
	OpenAI OpenAIConfig `yaml:"openai"`

	// Gemini
	Gemini GeminiConfig `yaml:"gemini"`

	// Ollama (local)
	Ollama OllamaConfig `yaml:"ollama"`

	// Default provider: "openai", "gemini", "ollama" or "heuristic"
	DefaultProvider string `yaml:"default_provider"`
}

// OpenAIConfig for OpenAI/Azure OpenAI
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url,omitempty"` // For custom endpoints
	Model   string `yaml:"model"`              // Default: "gpt-4o"
}

// GeminiConfig for Google Gemini
type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"` // Default: "gemini-1.5-flash"
}

// OllamaConfig for local Ollama
type OllamaConfig struct {
	BaseURL string `yaml:"base_url"` // Default: "http://localhost:11434"
	Model   string `yaml:"model"`    // e.g., "mistral", "llama3"
}
