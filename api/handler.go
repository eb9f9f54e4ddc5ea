package api

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/zaehlio/utility-ocr-service/internal/ai"
	"github.com/zaehlio/utility-ocr-service/internal/auth"
	"github.com/zaehlio/utility-ocr-service/internal/db"
	"github.com/zaehlio/utility-ocr-service/internal/extract"
	"github.com/zaehlio/utility-ocr-service/internal/models"
	"github.com/zaehlio/utility-ocr-service/internal/ocr"
	"github.com/zaehlio/utility-ocr-service/internal/services"
	"github.com/zaehlio/utility-ocr-service/internal/storage"
)

const (
	MaxUploadSize = 10 * 1024 * 1024 // 10MB
	Version       = "1.3.0"
)

// Handler handles HTTP requests for invoice processing
type Handler struct {
	config    *models.Config
	engine    *extract.Engine
	validator *services.ExtractionValidator
}

// NewHandler creates a new API handler
func NewHandler(config *models.Config, engine *extract.Engine) *Handler {
	return &Handler{
		config:    config,
		engine:    engine,
		validator: services.NewExtractionValidator(engine.Config()),
	}
}

// SetupRoutes configures the HTTP routes
func (h *Handler) SetupRoutes() *mux.Router {
	router := mux.NewRouter()

	// Authentication
	router.HandleFunc("/api/login", auth.LoginHandler).Methods("POST")

	// Main endpoint
	router.HandleFunc("/api/process-invoice", h.ProcessInvoice).Methods("POST")

	// Reading CRUD
	router.HandleFunc("/api/readings", h.GetReadings).Methods("GET")
	router.HandleFunc("/api/reading/{id}/image", h.GetReadingImage).Methods("GET")
	router.HandleFunc("/api/reading/{id}/reprocess", h.ReprocessReading).Methods("POST")
	router.HandleFunc("/api/reading/{id}", h.GetReading).Methods("GET")
	router.HandleFunc("/api/reading/{id}", h.UpdateReading).Methods("PUT")
	router.HandleFunc("/api/reading/{id}", h.DeleteReading).Methods("DELETE")

	// Statistics
	router.HandleFunc("/api/stats", h.GetStats).Methods("GET")

	// Health check
	router.HandleFunc("/health", h.Health).Methods("GET")

	return router
}

// HealthResponse represents the health check response structure
type HealthResponse struct {
	Status      string            `json:"status"`
	Version     string            `json:"version"`
	Timestamp   string            `json:"timestamp"`
	Uptime      string            `json:"uptime"`
	Memory      MemoryStats       `json:"memory"`
	Tesseract   ServiceStatus     `json:"tesseract"`
	ImageMagick ServiceStatus     `json:"imageMagick"`
	Database    ServiceStatus     `json:"database"`
	Storage     ServiceStatus     `json:"storage"`
	AI          map[string]string `json:"ai"`
}

// MemoryStats represents memory usage statistics
type MemoryStats struct {
	Allocated string `json:"allocated"`
	Total     string `json:"total"`
	System    string `json:"system"`
}

// ServiceStatus represents the status of a service dependency
type ServiceStatus struct {
	Available bool   `json:"available"`
	Version   string `json:"version,omitempty"`
	Error     string `json:"error,omitempty"`
}

var startTime = time.Now()

// Health endpoint - enhanced for monitoring
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	// Memory statistics
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	tesseractStatus := h.checkTesseract()
	imageMagickStatus := h.checkImageMagick()
	databaseStatus := h.checkDatabase()
	storageStatus := h.checkStorage()

	response := HealthResponse{
		Status:    "healthy",
		Version:   Version,
		Timestamp: time.Now().Format(time.RFC3339),
		Uptime:    time.Since(startTime).String(),
		Memory: MemoryStats{
			Allocated: fmt.Sprintf("%.2f MB", float64(m.Alloc)/1024/1024),
			Total:     fmt.Sprintf("%.2f MB", float64(m.TotalAlloc)/1024/1024),
			System:    fmt.Sprintf("%.2f MB", float64(m.Sys)/1024/1024),
		},
		Tesseract:   tesseractStatus,
		ImageMagick: imageMagickStatus,
		Database:    databaseStatus,
		Storage:     storageStatus,
		AI: map[string]string{
			"defaultProvider": h.config.AI.DefaultProvider,
			"ocrEngine":       h.config.OCR.Engine,
		},
	}

	// The heuristic engine works without any external service, but OCR is
	// mandatory for it, so missing binaries degrade the service.
	if !tesseractStatus.Available || !imageMagickStatus.Available {
		response.Status = "degraded"
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	json.NewEncoder(w).Encode(response)
}

// checkTesseract verifies Tesseract OCR is available
func (h *Handler) checkTesseract() ServiceStatus {
	if !ocr.Available() {
		return ServiceStatus{
			Available: false,
			Error:     "tesseract not found or not executable",
		}
	}

	cmd := exec.Command("tesseract", "--version")
	output, err := cmd.CombinedOutput()

	if err != nil {
		return ServiceStatus{
			Available: false,
			Error:     "tesseract not found or not executable",
		}
	}

	version := "unknown"
	lines := strings.Split(string(output), "\n")
	if len(lines) > 0 {
		version = strings.TrimSpace(lines[0])
	}

	return ServiceStatus{
		Available: true,
		Version:   version,
	}
}

// checkImageMagick verifies ImageMagick is available
func (h *Handler) checkImageMagick() ServiceStatus {
	cmd := exec.Command("convert", "-version")
	output, err := cmd.CombinedOutput()

	if err != nil {
		return ServiceStatus{
			Available: false,
			Error:     "imagemagick not found or not executable",
		}
	}

	version := "unknown"
	lines := strings.Split(string(output), "\n")
	if len(lines) > 0 {
		version = strings.TrimSpace(lines[0])
	}

	return ServiceStatus{
		Available: true,
		Version:   version,
	}
}

// checkDatabase verifies PostgreSQL connection
func (h *Handler) checkDatabase() ServiceStatus {
	if db.Pool == nil {
		return ServiceStatus{
			Available: false,
			Error:     "database pool not initialized",
		}
	}

	return ServiceStatus{
		Available: true,
		Version:   "PostgreSQL via PgBouncer",
	}
}

// checkStorage verifies MinIO connection
func (h *Handler) checkStorage() ServiceStatus {
	if storage.Client == nil {
		return ServiceStatus{
			Available: false,
			Error:     "storage client not initialized",
		}
	}

	return ServiceStatus{
		Available: true,
		Version:   "MinIO S3",
	}
}

// ProcessInvoice handles invoice processing with multi-tenant support
func (h *Handler) ProcessInvoice(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ctx := r.Context()
	requestStart := time.Now()

	claims, err := auth.GetClaimsFromContext(ctx)
	if err != nil {
		h.sendError(w, http.StatusUnauthorized, "unauthorized: "+err.Error())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		h.sendError(w, http.StatusBadRequest, "File too large or invalid form data")
		return
	}

	// Accept both "file" and "image" field names
	file, header, err := r.FormFile("file")
	if err != nil {
		file, header, err = r.FormFile("image")
		if err != nil {
			h.sendError(w, http.StatusBadRequest, "No file provided (use 'file' or 'image' field)")
			return
		}
	}
	defer file.Close()

	imageData, err := io.ReadAll(file)
	if err != nil {
		h.sendError(w, http.StatusInternalServerError, "Failed to read file")
		return
	}

	aiProvider := r.FormValue("aiProvider")
	if aiProvider == "" {
		aiProvider = h.config.AI.DefaultProvider
	}

	// Vision is the default for providers that can read images; the
	// heuristic engine always needs OCR text.
	useVisionModelParam := r.FormValue("useVisionModel")
	useVisionModel := useVisionModelParam == "true" ||
		(useVisionModelParam == "" && (aiProvider == "gemini" || aiProvider == "openai"))
	if aiProvider == "heuristic" {
		useVisionModel = false
	}

	model := r.FormValue("model")
	language := r.FormValue("language")
	if language == "" {
		language = h.config.OCR.Language
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}
	filename := fmt.Sprintf("%s_%s%s",
		time.Now().Format("20060102_150405"),
		uuid.New().String()[:8],
		storage.GetFileExtension(contentType),
	)

	// Upload to MinIO (if configured)
	var imageURL string
	if storage.Client != nil {
		imageReader := bytes.NewReader(imageData)
		imageURL, err = storage.UploadInvoiceImage(
			ctx,
			claims.TenantAlias,
			filename,
			imageReader,
			int64(len(imageData)),
			contentType,
		)
		if err != nil {
			// Log but don't fail - image storage is optional
			fmt.Printf("Warning: failed to upload image to MinIO: %v\n", err)
		}
	}

	result, ocrDuration, aiDuration, err := h.processInvoice(
		imageData,
		useVisionModel,
		aiProvider,
		model,
		language,
	)

	totalDuration := time.Since(requestStart).Seconds()

	if err != nil {
		response := models.ProcessResponse{
			Success:       false,
			Error:         err.Error(),
			TotalDuration: totalDuration,
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(response)
		return
	}

	validation := h.validator.Validate(&result.Data)
	result.Confidence = validation.Confidence

	// Save to meter_readings
	var savedReading *db.MeterReading
	if userID, ok := ownerUUID(claims.UserID); !ok {
		fmt.Printf("Warning: invalid user id %q in token, reading not persisted\n", claims.UserID)
	} else if db.Pool != nil {
		extractionJSON := ""
		if ej, err := json.Marshal(result.Data); err == nil {
			extractionJSON = string(ej)
		}

		var consumption *float64
		if validation.Computed.ConsumptionKwh > 0 {
			c := validation.Computed.ConsumptionKwh
			consumption = &c
		}

		reading := &db.MeterReading{
			Address:        result.Data.Address,
			MeterPointID:   result.Data.MeterPointID,
			ConsumptionKwh: consumption,
			Method:         result.Method,
			Confidence:     result.Confidence,
			ImageURL:       imageURL,
			RawText:        result.RawText,
			ExtractionJSON: extractionJSON,
			Status:         "pending",
			UserID:         userID,
		}

		if err := db.SaveReading(ctx, claims.TenantAlias, reading); err != nil {
			fmt.Printf("Warning: failed to save reading to DB: %v\n", err)
		} else {
			savedReading = reading
		}
	}

	responseData := map[string]interface{}{
		"success":       true,
		"result":        result,
		"validation":    validation,
		"tenant_alias":  claims.TenantAlias,
		"ocrDuration":   ocrDuration,
		"aiDuration":    aiDuration,
		"totalDuration": totalDuration,
	}

	if savedReading != nil {
		responseData["reading_id"] = savedReading.ID
		// Proxy URL so clients never touch MinIO directly
		responseData["image_url"] = fmt.Sprintf("/api/reading/%s/image", savedReading.ID)
		responseData["saved_to_db"] = true
	} else {
		responseData["saved_to_db"] = false
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(responseData)
}

// GetReadings returns readings for the authenticated user's tenant
func (h *Handler) GetReadings(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ctx := r.Context()

	claims, err := auth.GetClaimsFromContext(ctx)
	if err != nil {
		h.sendError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if db.Pool == nil {
		h.sendError(w, http.StatusServiceUnavailable, "database not available")
		return
	}

	readings, err := db.GetReadings(ctx, claims.TenantAlias, 100)
	if err != nil {
		h.sendError(w, http.StatusInternalServerError, fmt.Sprintf("failed to get readings: %v", err))
		return
	}

	// Generate presigned URLs for images
	for i := range readings {
		if readings[i].ImageURL != "" && storage.Client != nil {
			if presignedURL, err := storage.GetPresignedURL(ctx, readings[i].ImageURL); err == nil {
				readings[i].ImageURL = presignedURL
			}
		}
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":      true,
		"readings":     readings,
		"count":        len(readings),
		"tenant_alias": claims.TenantAlias,
	})
}

// GetReading returns a single reading
func (h *Handler) GetReading(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ctx := r.Context()
	claims, err := auth.GetClaimsFromContext(ctx)
	if err != nil {
		h.sendError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if db.Pool == nil {
		h.sendError(w, http.StatusServiceUnavailable, "database not available")
		return
	}

	vars := mux.Vars(r)
	readingID := vars["id"]

	reading, err := db.GetReadingByID(ctx, claims.TenantAlias, readingID)
	if err != nil {
		fmt.Printf("GetReadingByID error: %v (tenant=%s, id=%s)\n", err, claims.TenantAlias, readingID)
		h.sendError(w, http.StatusNotFound, fmt.Sprintf("reading not found: %v", err))
		return
	}

	if reading.ImageURL != "" && storage.Client != nil {
		if presignedURL, err := storage.GetPresignedURL(ctx, reading.ImageURL); err == nil {
			reading.ImageURL = presignedURL
		}
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":      true,
		"reading":      reading,
		"tenant_alias": claims.TenantAlias,
	})
}

// UpdateReading updates reading data after manual review
func (h *Handler) UpdateReading(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ctx := r.Context()
	claims, err := auth.GetClaimsFromContext(ctx)
	if err != nil {
		h.sendError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if db.Pool == nil {
		h.sendError(w, http.StatusServiceUnavailable, "database not available")
		return
	}

	vars := mux.Vars(r)
	readingID := vars["id"]

	var updates map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Only allow certain fields to be updated
	allowed := map[string]bool{
		"address":         true,
		"meter_point_id":  true,
		"consumption_kwh": true,
		"status":          true,
	}
	filtered := make(map[string]interface{})
	for k, v := range updates {
		if allowed[k] {
			filtered[k] = v
		}
	}

	if len(filtered) == 0 {
		h.sendError(w, http.StatusBadRequest, "no valid fields to update")
		return
	}

	if err := db.UpdateReading(ctx, claims.TenantAlias, readingID, filtered); err != nil {
		h.sendError(w, http.StatusInternalServerError, "failed to update reading")
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "reading updated",
	})
}

// DeleteReading removes a reading
func (h *Handler) DeleteReading(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ctx := r.Context()
	claims, err := auth.GetClaimsFromContext(ctx)
	if err != nil {
		h.sendError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if db.Pool == nil {
		h.sendError(w, http.StatusServiceUnavailable, "database not available")
		return
	}

	vars := mux.Vars(r)
	readingID := vars["id"]

	// Delete the stored image as well (ignore errors)
	if storage.Client != nil {
		reading, err := db.GetReadingByID(ctx, claims.TenantAlias, readingID)
		if err == nil && reading.ImageURL != "" {
			_ = storage.DeleteImage(ctx, reading.ImageURL)
		}
	}

	if err := db.DeleteReading(ctx, claims.TenantAlias, readingID); err != nil {
		h.sendError(w, http.StatusInternalServerError, "failed to delete reading")
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "reading deleted",
	})
}

// GetStats returns monthly statistics
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ctx := r.Context()
	claims, err := auth.GetClaimsFromContext(ctx)
	if err != nil {
		h.sendError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if db.Pool == nil {
		h.sendError(w, http.StatusServiceUnavailable, "database not available")
		return
	}

	stats, err := db.GetMonthlyStats(ctx, claims.TenantAlias)
	if err != nil {
		h.sendError(w, http.StatusInternalServerError, "failed to get stats")
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":      true,
		"stats":        stats,
		"tenant_alias": claims.TenantAlias,
	})
}

// GetReadingImage streams the stored invoice image through the service
func (h *Handler) GetReadingImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims, err := auth.GetClaimsFromContext(ctx)
	if err != nil {
		h.sendError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if db.Pool == nil || storage.Client == nil {
		h.sendError(w, http.StatusServiceUnavailable, "storage not available")
		return
	}

	vars := mux.Vars(r)
	readingID := vars["id"]

	reading, err := db.GetReadingByID(ctx, claims.TenantAlias, readingID)
	if err != nil {
		h.sendError(w, http.StatusNotFound, "reading not found")
		return
	}
	if reading.ImageURL == "" {
		h.sendError(w, http.StatusNotFound, "reading has no stored image")
		return
	}

	obj, err := storage.GetImage(ctx, reading.ImageURL)
	if err != nil {
		h.sendError(w, http.StatusInternalServerError, "failed to fetch image")
		return
	}
	defer obj.Close()

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "private, max-age=3600")
	io.Copy(w, obj)
}

// ReprocessReading re-runs extraction on the stored OCR text of a reading
func (h *Handler) ReprocessReading(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ctx := r.Context()
	claims, err := auth.GetClaimsFromContext(ctx)
	if err != nil {
		h.sendError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if db.Pool == nil {
		h.sendError(w, http.StatusServiceUnavailable, "database not available")
		return
	}

	vars := mux.Vars(r)
	readingID := vars["id"]

	reading, err := db.GetReadingByID(ctx, claims.TenantAlias, readingID)
	if err != nil {
		h.sendError(w, http.StatusNotFound, "reading not found")
		return
	}

	aiProvider := r.FormValue("aiProvider")
	if aiProvider == "" {
		aiProvider = h.config.AI.DefaultProvider
	}
	model := r.FormValue("model")

	// Prefer the stored image: a reprocess is usually requested because the
	// first OCR pass was bad. Fall back to the stored text when the image is
	// gone.
	var result *models.ExtractionResult
	var ocrDuration, aiDuration float64
	if storage.Client != nil && reading.ImageURL != "" {
		obj, err := storage.GetImage(ctx, reading.ImageURL)
		if err != nil {
			h.sendError(w, http.StatusInternalServerError, "failed to fetch stored image")
			return
		}
		imageData, err := io.ReadAll(obj)
		obj.Close()
		if err != nil {
			h.sendError(w, http.StatusInternalServerError, "failed to read stored image")
			return
		}

		useVisionModel := aiProvider == "gemini" || aiProvider == "openai"
		result, ocrDuration, aiDuration, err = h.processInvoice(
			imageData, useVisionModel, aiProvider, model, h.config.OCR.Language)
		if err != nil {
			h.sendError(w, http.StatusInternalServerError, fmt.Sprintf("reprocessing failed: %v", err))
			return
		}
	} else if reading.RawText != "" {
		result, aiDuration, err = h.extractFromText(reading.RawText, aiProvider, model)
		if err != nil {
			h.sendError(w, http.StatusInternalServerError, fmt.Sprintf("reprocessing failed: %v", err))
			return
		}
	} else {
		h.sendError(w, http.StatusBadRequest, "reading has neither a stored image nor OCR text")
		return
	}

	validation := h.validator.Validate(&result.Data)
	result.Confidence = validation.Confidence

	extractionJSON := ""
	if ej, err := json.Marshal(result.Data); err == nil {
		extractionJSON = string(ej)
	}

	updates := map[string]interface{}{
		"address":         result.Data.Address,
		"meter_point_id":  result.Data.MeterPointID,
		"method":          result.Method,
		"confidence":      result.Confidence,
		"extraction_json": extractionJSON,
		"status":          "pending",
	}
	if validation.Computed.ConsumptionKwh > 0 {
		updates["consumption_kwh"] = validation.Computed.ConsumptionKwh
	}
	if result.RawText != "" {
		updates["raw_text"] = result.RawText
	}

	if err := db.UpdateReading(ctx, claims.TenantAlias, readingID, updates); err != nil {
		h.sendError(w, http.StatusInternalServerError, "failed to store reprocessed reading")
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":     true,
		"result":      result,
		"validation":  validation,
		"ocrDuration": ocrDuration,
		"aiDuration":  aiDuration,
	})
}

// processInvoice runs the OCR and extraction pipeline on raw image bytes
func (h *Handler) processInvoice(
	imageData []byte,
	useVisionModel bool,
	providerName string,
	modelName string,
	language string,
) (*models.ExtractionResult, float64, float64, error) {
	var ocrText string
	var ocrDuration float64
	var imageBase64 string

	if useVisionModel {
		// Vision models read the original color capture better than the
		// grayscale preprocessed version.
		imageBase64 = "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(imageData)
		fmt.Printf("[Process] Using original image for vision model (%d bytes)\n", len(imageData))
	} else {
		preprocessor := ocr.NewPreprocessor()
		processedImage, err := preprocessor.PreprocessImageFromBytes(imageData)
		if err != nil {
			return nil, 0, 0, fmt.Errorf("image preprocessing failed: %w", err)
		}
		tesseract := ocr.NewTesseractOCR(language)
		text, duration, err := tesseract.ExtractText(processedImage)
		if err != nil {
			return nil, 0, 0, fmt.Errorf("OCR failed: %w", err)
		}
		ocrText = text
		ocrDuration = duration
	}

	// Heuristic-only mode skips the AI provider entirely.
	if providerName == "heuristic" {
		result := &models.ExtractionResult{
			Data:        h.engine.Extract(ocrText),
			Method:      "heuristic",
			RawText:     ocrText,
			ProcessedAt: time.Now(),
		}
		return result, ocrDuration, 0, nil
	}

	provider, err := h.createProvider(providerName, modelName)
	if err != nil {
		return nil, ocrDuration, 0, err
	}

	extractor := ai.NewExtractor(provider, h.engine)
	result, aiDuration, err := extractor.Extract(ocrText, imageBase64)
	if err != nil {
		return nil, ocrDuration, aiDuration, fmt.Errorf("AI extraction failed: %w", err)
	}

	return result, ocrDuration, aiDuration, nil
}

// extractFromText re-runs extraction on already-OCRed text
func (h *Handler) extractFromText(ocrText, providerName, modelName string) (*models.ExtractionResult, float64, error) {
	if providerName == "heuristic" {
		return &models.ExtractionResult{
			Data:        h.engine.Extract(ocrText),
			Method:      "heuristic",
			RawText:     ocrText,
			ProcessedAt: time.Now(),
		}, 0, nil
	}

	provider, err := h.createProvider(providerName, modelName)
	if err != nil {
		return nil, 0, err
	}

	extractor := ai.NewExtractor(provider, h.engine)
	return extractor.Extract(ocrText, "")
}

// createProvider creates the appropriate AI provider
func (h *Handler) createProvider(providerName, modelName string) (ai.Provider, error) {
	switch providerName {
	case "openai":
		model := modelName
		if model == "" {
			model = h.config.AI.OpenAI.Model
		}
		return ai.NewOpenAIProvider(
			h.config.AI.OpenAI.APIKey,
			h.config.AI.OpenAI.BaseURL,
			model,
		), nil

	case "gemini":
		model := modelName
		if model == "" {
			model = h.config.AI.Gemini.Model
		}
		return ai.NewGeminiProvider(
			h.config.AI.Gemini.APIKey,
			model,
		), nil

	case "ollama":
		model := modelName
		if model == "" {
			model = h.config.AI.Ollama.Model
		}
		return ai.NewOllamaProvider(
			h.config.AI.Ollama.BaseURL,
			model,
		), nil

	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", providerName)
	}
}

// ownerUUID parses the user-ID claim of the token. Tokens are signed by
// this service, but a malformed claim must not silently become a zero-UUID
// owner in the database.
func ownerUUID(claim string) (uuid.UUID, bool) {
	id, err := uuid.Parse(claim)
	if err != nil {
		return uuid.UUID{}, false
	}
	return id, true
}

// sendError sends an error response
func (h *Handler) sendError(w http.ResponseWriter, statusCode int, message string) {
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}
