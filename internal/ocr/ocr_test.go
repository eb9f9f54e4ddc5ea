package ocr

import (
	"os/exec"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestOCR(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "OCR Suite")
}

var _ = Describe("Available", func() {
	It("mirrors the presence of the tesseract binary", func() {
		_, err := exec.LookPath("tesseract")
		Expect(Available()).To(Equal(err == nil))
	})
})

var _ = Describe("NewTesseractOCR", func() {
	It("defaults to German", func() {
		Expect(NewTesseractOCR("").language).To(Equal("deu"))
	})

	It("keeps an explicit language", func() {
		Expect(NewTesseractOCR("eng").language).To(Equal("eng"))
	})
})

var _ = Describe("Preprocessor", func() {
	It("falls back to the original bytes on unprocessable input", func() {
		input := []byte("not an image")
		out, err := NewPreprocessor().PreprocessImageFromBytes(input)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal(input))
	})
})
