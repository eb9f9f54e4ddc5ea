package extract

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("LocateMeterPointID", func() {
	var (
		engine *Engine
		text   string
		id     string
		found  bool
	)

	// AT + 24 zeros + 7 digits = 33 characters
	validID := "AT" + strings.Repeat("0", 24) + "1234567"
	groupedID := "AT 000000 000000 000000 000000 1234567"

	BeforeEach(func() {
		engine = New(DefaultConfig())
	})

	JustBeforeEach(func() {
		id, found = engine.LocateMeterPointID(text)
	})

	When("a labeled, space-grouped ID is present", func() {
		BeforeEach(func() {
			text = "Zählpunktnummer: " + groupedID + "\nweitere Angaben"
		})

		It("collapses the groups", func() {
			Expect(found).To(BeTrue())
			Expect(id).To(Equal(validID))
			Expect(id).To(HaveLen(33))
		})
	})

	When("a labeled, contiguous ID is present", func() {
		BeforeEach(func() {
			text = "Zählpunkt " + validID
		})

		It("returns it unchanged", func() {
			Expect(found).To(BeTrue())
			Expect(id).To(Equal(validID))
		})
	})

	When("an unlabeled, space-grouped ID is present", func() {
		BeforeEach(func() {
			text = "Lieferstelle\n" + groupedID + "\n"
		})

		It("collapses the groups", func() {
			Expect(found).To(BeTrue())
			Expect(id).To(Equal(validID))
		})
	})

	When("an unlabeled, contiguous ID sits mid-sentence", func() {
		BeforeEach(func() {
			text = "Referenz " + validID + " Ende"
		})

		It("finds it by the country prefix", func() {
			Expect(found).To(BeTrue())
			Expect(id).To(Equal(validID))
		})
	})

	When("the ID lacks the country prefix", func() {
		genericID := "X" + strings.Repeat("0", 25) + "1234567"

		BeforeEach(func() {
			text = "Code " + genericID
		})

		It("still matches a token of the right length", func() {
			Expect(found).To(BeTrue())
			Expect(id).To(Equal(genericID))
		})
	})

	When("both a labeled and a bare candidate exist", func() {
		otherID := "AT" + strings.Repeat("0", 24) + "7654321"

		BeforeEach(func() {
			text = "X" + strings.Repeat("0", 25) + "1234567" + "\n" +
				"Zählpunktnummer: " + otherID
		})

		It("prefers the labeled one regardless of position", func() {
			Expect(found).To(BeTrue())
			Expect(id).To(Equal(otherID))
		})
	})

	When("a grouped run overshoots the expected length", func() {
		BeforeEach(func() {
			text = "AT 000000 000000 000000 000000 12345678"
		})

		It("rejects it", func() {
			Expect(found).To(BeFalse())
		})
	})

	When("a token of the right length is all digits", func() {
		BeforeEach(func() {
			text = "Nr " + strings.Repeat("1", 33)
		})

		It("rejects it for lack of a letter", func() {
			Expect(found).To(BeFalse())
		})
	})

	When("no candidate exists", func() {
		BeforeEach(func() {
			text = "Kundennummer 12345\nRechnungsbetrag 120,50 EUR"
		})

		It("reports no match", func() {
			Expect(found).To(BeFalse())
		})
	})
})
