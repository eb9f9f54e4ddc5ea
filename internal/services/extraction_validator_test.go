package services

import (
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zaehlio/utility-ocr-service/internal/extract"
	"github.com/zaehlio/utility-ocr-service/internal/models"
)

func TestServices(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Services Suite")
}

var _ = Describe("ExtractionValidator", func() {
	var (
		validator *ExtractionValidator
		data      *models.ExtractedInvoiceData
		result    *ValidationResult
	)

	validID := "AT" + strings.Repeat("0", 24) + "1234567"

	BeforeEach(func() {
		validator = NewExtractionValidator(extract.DefaultConfig())
		data = &models.ExtractedInvoiceData{}
	})

	JustBeforeEach(func() {
		result = validator.Validate(data)
	})

	When("all fields are present and well-formed", func() {
		BeforeEach(func() {
			data.Address = "Max Mustermann, Hauptstraße 12, 1010 Wien"
			data.MeterPointID = validID
			data.CurrentConsumptionKwh = "2573.1"
		})

		It("is valid without review", func() {
			Expect(result.Valid).To(BeTrue())
			Expect(result.NeedsReview).To(BeFalse())
			Expect(result.Errors).To(BeEmpty())
			Expect(result.Warnings).To(BeEmpty())
		})

		It("scores full confidence", func() {
			Expect(result.Confidence).To(Equal(1.0))
		})

		It("derives the computed values", func() {
			Expect(result.Computed.FieldsFound).To(Equal(3))
			Expect(result.Computed.PostalCode).To(Equal("1010"))
			Expect(result.Computed.MeterPointPrefix).To(Equal("AT"))
			Expect(result.Computed.ConsumptionKwh).To(Equal(2573.1))
		})
	})

	When("no field was extracted", func() {
		It("stays valid but needs review", func() {
			Expect(result.Valid).To(BeTrue())
			Expect(result.NeedsReview).To(BeTrue())
			Expect(result.Warnings).To(HaveLen(3))
			Expect(result.Computed.FieldsFound).To(Equal(0))
		})

		It("scores zero confidence", func() {
			Expect(result.Confidence).To(Equal(0.0))
		})
	})

	When("the meter-point ID has the wrong length", func() {
		BeforeEach(func() {
			data.MeterPointID = "AT123"
		})

		It("is invalid", func() {
			Expect(result.Valid).To(BeFalse())
			Expect(result.Errors).To(ContainElement(HaveField("Code", "meter_point_bad_length")))
		})
	})

	When("the meter-point ID is all digits", func() {
		BeforeEach(func() {
			data.MeterPointID = strings.Repeat("1", 33)
		})

		It("flags the missing letters", func() {
			Expect(result.Valid).To(BeFalse())
			Expect(result.Errors).To(ContainElement(HaveField("Code", "meter_point_bad_charset")))
		})
	})

	When("the meter-point ID carries a foreign prefix", func() {
		BeforeEach(func() {
			data.MeterPointID = "DE" + strings.Repeat("0", 24) + "1234567"
		})

		It("warns but stays valid", func() {
			Expect(result.Valid).To(BeTrue())
			Expect(result.Warnings).To(ContainElement(HaveField("Code", "meter_point_foreign_prefix")))
		})
	})

	When("the consumption lacks the fractional digit", func() {
		BeforeEach(func() {
			data.CurrentConsumptionKwh = "2573"
		})

		It("is invalid", func() {
			Expect(result.Valid).To(BeFalse())
			Expect(result.Errors).To(ContainElement(HaveField("Code", "consumption_bad_precision")))
		})
	})

	When("the consumption lies outside the plausible range", func() {
		BeforeEach(func() {
			data.CurrentConsumptionKwh = "123456.0"
		})

		It("is invalid", func() {
			Expect(result.Valid).To(BeFalse())
			Expect(result.Errors).To(ContainElement(HaveField("Code", "consumption_out_of_range")))
		})
	})

	When("the address lacks a postal code", func() {
		BeforeEach(func() {
			data.Address = "Hauptstraße 12"
		})

		It("warns but stays valid", func() {
			Expect(result.Valid).To(BeTrue())
			Expect(result.Warnings).To(ContainElement(HaveField("Code", "address_no_postal_code")))
		})
	})
})
