package ai

import (
	"errors"
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zaehlio/utility-ocr-service/internal/extract"
	"github.com/zaehlio/utility-ocr-service/internal/models"
)

func TestAI(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "AI Suite")
}

type stubProvider struct {
	response string
	err      error
}

func (s *stubProvider) ExtractData(prompt, imageBase64 string) (string, error) {
	return s.response, s.err
}

func (s *stubProvider) Name() string { return "stub" }

var _ = Describe("Extractor.Extract", func() {
	var (
		provider  *stubProvider
		extractor *Extractor
		ocrText   string
		imageB64  string
		result    *models.ExtractionResult
		err       error
	)

	validID := "AT" + strings.Repeat("0", 24) + "1234567"

	BeforeEach(func() {
		provider = &stubProvider{}
		extractor = NewExtractor(provider, extract.New(extract.DefaultConfig()))
		ocrText = "Verbrauch aktuell: 2.573,1 kWh"
		imageB64 = ""
	})

	JustBeforeEach(func() {
		result, _, err = extractor.Extract(ocrText, imageB64)
	})

	When("the provider returns clean JSON", func() {
		BeforeEach(func() {
			provider.response = `{"address": "Max Mustermann, Hauptstraße 12, 1010 Wien", ` +
				`"meterPointId": "` + validID + `", "currentConsumptionKwh": 2573.1}`
		})

		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("marks the result as LLM-produced", func() {
			Expect(result.Method).To(Equal("llm"))
		})

		It("carries all three fields", func() {
			Expect(result.Data.Address).To(Equal("Max Mustermann, Hauptstraße 12, 1010 Wien"))
			Expect(result.Data.MeterPointID).To(Equal(validID))
			Expect(result.Data.CurrentConsumptionKwh).To(Equal("2573.1"))
		})
	})

	When("the provider wraps the JSON in markdown fences", func() {
		BeforeEach(func() {
			provider.response = "```json\n{\"address\": \"Hauptstraße 12, 1010 Wien\"}\n```"
		})

		It("strips the fences and parses", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Method).To(Equal("llm"))
			Expect(result.Data.Address).To(Equal("Hauptstraße 12, 1010 Wien"))
		})
	})

	When("the meter-point ID comes back space-grouped", func() {
		BeforeEach(func() {
			provider.response = `{"address": "Hauptstraße 12, 1010 Wien", ` +
				`"meterPointId": "AT 000000 000000 000000 000000 1234567"}`
		})

		It("strips the whitespace", func() {
			Expect(result.Data.MeterPointID).To(Equal(validID))
		})
	})

	When("the meter-point ID has the wrong length", func() {
		BeforeEach(func() {
			provider.response = `{"address": "Hauptstraße 12, 1010 Wien", "meterPointId": "AT123"}`
		})

		It("drops the field instead of guessing", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Data.MeterPointID).To(BeEmpty())
			Expect(result.Data.Address).NotTo(BeEmpty())
		})
	})

	When("the consumption comes back as a German-formatted string", func() {
		BeforeEach(func() {
			provider.response = `{"address": "Hauptstraße 12, 1010 Wien", "currentConsumptionKwh": "2.573,1"}`
		})

		It("normalizes it", func() {
			Expect(result.Data.CurrentConsumptionKwh).To(Equal("2573.1"))
		})
	})

	When("the consumption is implausibly large", func() {
		BeforeEach(func() {
			provider.response = `{"address": "Hauptstraße 12, 1010 Wien", "currentConsumptionKwh": 9999999}`
		})

		It("drops the field", func() {
			Expect(result.Data.CurrentConsumptionKwh).To(BeEmpty())
		})
	})

	When("the provider fails in text mode", func() {
		BeforeEach(func() {
			provider.err = errors.New("model unavailable")
		})

		It("falls back to the heuristic engine", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Method).To(Equal("heuristic"))
			Expect(result.Data.CurrentConsumptionKwh).To(Equal("2573.1"))
		})
	})

	When("the response carries no JSON in text mode", func() {
		BeforeEach(func() {
			provider.response = "I am sorry, I cannot read this document."
		})

		It("falls back to the heuristic engine", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Method).To(Equal("heuristic"))
			Expect(result.Data.CurrentConsumptionKwh).To(Equal("2573.1"))
		})
	})

	When("the provider fails in vision mode", func() {
		BeforeEach(func() {
			ocrText = ""
			imageB64 = "data:image/jpeg;base64,AAAA"
			provider.err = errors.New("model unavailable")
		})

		It("returns the error, there is no text to fall back on", func() {
			Expect(err).To(HaveOccurred())
			Expect(result).To(BeNil())
		})
	})
})
