package extract

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("LocateAddress", func() {
	var (
		engine *Engine
		text   string
		addr   string
		found  bool
	)

	BeforeEach(func() {
		engine = New(DefaultConfig())
	})

	JustBeforeEach(func() {
		addr, found = engine.LocateAddress(text)
	})

	When("the address spans three lines with a name", func() {
		BeforeEach(func() {
			text = "Max Mustermann\nHauptstraße 12\n1010 Wien\n"
		})

		It("finds the address", func() {
			Expect(found).To(BeTrue())
		})

		It("joins the parts with comma and space", func() {
			Expect(addr).To(Equal("Max Mustermann, Hauptstraße 12, 1010 Wien"))
		})
	})

	When("the address has no name line", func() {
		BeforeEach(func() {
			text = "Rechnung 2024\nHauptstraße 12\n1010 Wien\n"
		})

		It("returns street and city only", func() {
			Expect(found).To(BeTrue())
			Expect(addr).To(Equal("Hauptstraße 12, 1010 Wien"))
		})
	})

	When("an earlier postal line belongs to the supplier", func() {
		BeforeEach(func() {
			text = "Energie AG\n4020 Linz\nMax Mustermann\nHauptstraße 12\n1010 Wien\n"
		})

		It("skips it and finds the customer address", func() {
			Expect(found).To(BeTrue())
			Expect(addr).To(Equal("Max Mustermann, Hauptstraße 12, 1010 Wien"))
		})
	})

	When("the address sits on one line", func() {
		BeforeEach(func() {
			text = "Max Mustermann, Hauptstraße 12, 1010 Wien\n"
		})

		It("matches the composite layout", func() {
			Expect(found).To(BeTrue())
			Expect(addr).To(Equal("Max Mustermann, Hauptstraße 12, 1010 Wien"))
		})
	})

	When("the street uses an abbreviated suffix", func() {
		BeforeEach(func() {
			text = "Hauptstr. 7-9\n5020 Salzburg\n"
		})

		It("recognizes the abbreviation", func() {
			Expect(found).To(BeTrue())
			Expect(addr).To(Equal("Hauptstr. 7-9, 5020 Salzburg"))
		})
	})

	When("only a postal-code line exists", func() {
		BeforeEach(func() {
			text = "Guten Tag\n1010 Wien\nIhre Rechnung liegt bei\n"
		})

		It("does not return it alone", func() {
			Expect(found).To(BeFalse())
			Expect(addr).To(BeEmpty())
		})
	})

	When("the text contains no address at all", func() {
		BeforeEach(func() {
			text = "Kundennummer 12345\nVielen Dank\n"
		})

		It("reports no match", func() {
			Expect(found).To(BeFalse())
		})
	})
})
