package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zaehlio/utility-ocr-service/api"
	"github.com/zaehlio/utility-ocr-service/internal/auth"
	"github.com/zaehlio/utility-ocr-service/internal/db"
	"github.com/zaehlio/utility-ocr-service/internal/extract"
	"github.com/zaehlio/utility-ocr-service/internal/models"
	"github.com/zaehlio/utility-ocr-service/internal/storage"
)

func main() {
	// Initialize JWT
	if err := auth.Init(); err != nil {
		log.Fatalf("Failed to initialize auth: %v", err)
	}
	log.Println("JWT authentication initialized")

	// Initialize database connection pool
	if err := db.Init(); err != nil {
		log.Printf("Warning: Database not available: %v", err)
		log.Println("Running in extraction-only mode (no persistence)")
	} else {
		defer db.Close()
		log.Println("Database connection pool initialized")
	}

	// Initialize MinIO storage
	if err := storage.Init(); err != nil {
		log.Printf("Warning: MinIO storage not available: %v", err)
		log.Println("Invoice images will not be stored")
	} else {
		log.Println("MinIO storage initialized")
	}

	// Load configuration
	config, err := loadConfig("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Build the heuristic extraction engine
	engine := extract.New(extract.ConfigFromService(config.Extraction))

	// Create API handler
	handler := api.NewHandler(config, engine)
	router := handler.SetupRoutes()

	// Wrap router with JWT middleware (skips /health and /api/login)
	protectedRouter := auth.JWTMiddleware(router)

	// Start server
	addr := fmt.Sprintf("%s:%d", config.Host, config.Port)
	log.Printf("Starting Utility Invoice OCR Service v%s on %s", api.Version, addr)
	log.Printf("OCR Engine: %s (language: %s)", config.OCR.Engine, config.OCR.Language)
	log.Printf("Default AI Provider: %s", config.AI.DefaultProvider)
	log.Printf("Database: %v", db.Pool != nil)
	log.Printf("Storage: %v", storage.Client != nil)
	log.Printf("Endpoints:")
	log.Printf("  POST http://%s/api/login                    - Authenticate", addr)
	log.Printf("  POST http://%s/api/process-invoice          - Process invoice (requires JWT)", addr)
	log.Printf("  GET  http://%s/api/readings                 - Get all readings (requires JWT)", addr)
	log.Printf("  GET  http://%s/api/reading/{id}             - Get single reading (requires JWT)", addr)
	log.Printf("  PUT  http://%s/api/reading/{id}             - Update reading (requires JWT)", addr)
	log.Printf("  DELETE http://%s/api/reading/{id}           - Delete reading (requires JWT)", addr)
	log.Printf("  GET  http://%s/api/reading/{id}/image       - Fetch stored image (requires JWT)", addr)
	log.Printf("  POST http://%s/api/reading/{id}/reprocess   - Re-run extraction (requires JWT)", addr)
	log.Printf("  GET  http://%s/api/stats                    - Get monthly stats (requires JWT)", addr)
	log.Printf("  GET  http://%s/health                       - Health check", addr)

	if err := http.ListenAndServe(addr, protectedRouter); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func loadConfig(path string) (*models.Config, error) {
	// Read config file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML
	var config models.Config
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Override with environment variables if present
	if port := os.Getenv("PORT"); port != "" {
		fmt.Sscanf(port, "%d", &config.Port)
	}
	if host := os.Getenv("HOST"); host != "" {
		config.Host = host
	}
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		config.AI.OpenAI.APIKey = apiKey
	}
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		config.AI.Gemini.APIKey = apiKey
	}
	if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
		config.AI.Ollama.BaseURL = baseURL
	}
	if provider := os.Getenv("AI_PROVIDER"); provider != "" {
		config.AI.DefaultProvider = provider
	}
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		config.AI.OpenAI.BaseURL = baseURL
	}
	if model := os.Getenv("OPENAI_MODEL"); model != "" {
		config.AI.OpenAI.Model = model
	}
	if model := os.Getenv("GEMINI_MODEL"); model != "" {
		config.AI.Gemini.Model = model
	}

	return &config, nil
}
