package ai

// Provider abstracts an LLM backend used for data extraction. Implementations
// receive a ready-built prompt and, for vision-capable models, an optional
// base64 data URL of the invoice image, and return the raw model response.
type Provider interface {
	// ExtractData sends the prompt (and image, when non-empty) to the model
	// and returns its raw text response.
	ExtractData(prompt string, imageBase64 string) (string, error)

	// Name returns the provider identifier ("openai", "gemini", "ollama").
	Name() string
}
