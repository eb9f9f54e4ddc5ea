package ocr

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// TesseractOCR shells out to the tesseract binary. Utility invoices are
// German-language documents, so the default language is "deu".
type TesseractOCR struct {
	language string
}

// NewTesseractOCR creates a new Tesseract OCR instance.
func NewTesseractOCR(language string) *TesseractOCR {
	if language == "" {
		language = "deu"
	}
	return &TesseractOCR{
		language: language,
	}
}

// ExtractText performs OCR on preprocessed image bytes and returns the
// recognized text and the elapsed time in seconds.
func (t *TesseractOCR) ExtractText(imageBytes []byte) (string, float64, error) {
	startTime := time.Now()

	tmpDir := os.TempDir()
	inputFile := filepath.Join(tmpDir, fmt.Sprintf("ocr_input_%d.jpg", os.Getpid()))
	if err := os.WriteFile(inputFile, imageBytes, 0644); err != nil {
		return "", 0, fmt.Errorf("failed to write temp image: %w", err)
	}
	defer os.Remove(inputFile)

	// PSM 6: assume a uniform block of text. Invoices are printed pages,
	// not sparse scene text.
	cmd := exec.Command("tesseract", inputFile, "stdout", "-l", t.language, "--psm", "6")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", time.Since(startTime).Seconds(), fmt.Errorf("tesseract failed: %w - %s", err, stderr.String())
	}

	text := strings.TrimSpace(stdout.String())
	return text, time.Since(startTime).Seconds(), nil
}

// Available reports whether the tesseract binary can be executed.
func Available() bool {
	_, err := exec.LookPath("tesseract")
	return err == nil
}
