package extract

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("LocateConsumptionKwh", func() {
	var (
		engine *Engine
		text   string
		value  string
		found  bool
	)

	BeforeEach(func() {
		engine = New(DefaultConfig())
	})

	JustBeforeEach(func() {
		value, found = engine.LocateConsumptionKwh(text)
	})

	When("a current-period keyword qualifies the value", func() {
		BeforeEach(func() {
			text = "Verbrauch aktuell: 2.573,1 kWh"
		})

		It("returns the normalized value", func() {
			Expect(found).To(BeTrue())
			Expect(value).To(Equal("2573.1"))
		})
	})

	When("both a current and a prior-period value are present", func() {
		BeforeEach(func() {
			text = "Verbrauch Vorperiode: 3.000,0 kWh\nVerbrauch aktuell: 2.573,1 kWh"
		})

		It("prefers the current-period value even when smaller", func() {
			Expect(found).To(BeTrue())
			Expect(value).To(Equal("2573.1"))
		})
	})

	When("only an unqualified labeled value is present", func() {
		BeforeEach(func() {
			text = "Gesamtverbrauch: 1.234,5 kWh"
		})

		It("falls back to it", func() {
			Expect(found).To(BeTrue())
			Expect(value).To(Equal("1234.5"))
		})
	})

	When("several fallback values are present", func() {
		BeforeEach(func() {
			text = "Strom 350,5 kWh Grundpreis\nGesamtverbrauch 1.200,0 kWh"
		})

		It("takes the numeric maximum", func() {
			Expect(found).To(BeTrue())
			Expect(value).To(Equal("1200.0"))
		})
	})

	When("the only value sits next to a prior-period marker", func() {
		BeforeEach(func() {
			text = "Verbrauch Vorperiode: 3.000,0 kWh"
		})

		It("discards it", func() {
			Expect(found).To(BeFalse())
			Expect(value).To(BeEmpty())
		})
	})

	When("the value lies outside the plausible range", func() {
		BeforeEach(func() {
			text = "Zählerstand 123456 kWh"
		})

		It("discards it", func() {
			Expect(found).To(BeFalse())
		})
	})

	When("the value would round onto the upper bound", func() {
		BeforeEach(func() {
			text = "Verbrauch aktuell: 99999,99 kWh"
		})

		It("discards it", func() {
			Expect(found).To(BeFalse())
			Expect(value).To(BeEmpty())
		})
	})

	When("the value would round down onto the lower bound", func() {
		BeforeEach(func() {
			text = "Verbrauch aktuell: 1,04 kWh"
		})

		It("discards it", func() {
			Expect(found).To(BeFalse())
			Expect(value).To(BeEmpty())
		})
	})

	When("the value rounds to just inside the upper bound", func() {
		BeforeEach(func() {
			text = "Verbrauch aktuell: 99999,94 kWh"
		})

		It("keeps it", func() {
			Expect(found).To(BeTrue())
			Expect(value).To(Equal("99999.9"))
		})
	})

	When("the value rounds to just inside the lower bound", func() {
		BeforeEach(func() {
			text = "Verbrauch aktuell: 1,05 kWh"
		})

		It("keeps it", func() {
			Expect(found).To(BeTrue())
			Expect(value).To(Equal("1.1"))
		})
	})

	When("uppercase sharp s characters precede an excluded value", func() {
		BeforeEach(func() {
			text = "MEẞERGEBNIS VORPERIODE: 3.000,0 kWh"
		})

		It("still applies the exclusion window", func() {
			Expect(found).To(BeFalse())
		})
	})

	When("the value is an integer", func() {
		BeforeEach(func() {
			text = "Verbrauch aktuell: 2573 kWh"
		})

		It("pads to one fractional digit", func() {
			Expect(found).To(BeTrue())
			Expect(value).To(Equal("2573.0"))
		})
	})

	When("no kWh value exists", func() {
		BeforeEach(func() {
			text = "Ihre Rechnung über 120,50 EUR"
		})

		It("reports no match", func() {
			Expect(found).To(BeFalse())
		})
	})
})

var _ = Describe("NormalizeGermanDecimal", func() {
	DescribeTable("separator normalization",
		func(raw, want string) {
			v, ok := NormalizeGermanDecimal(raw)
			Expect(ok).To(BeTrue())
			Expect(v.String()).To(Equal(want))
		},
		Entry("plain English decimal", "2573.1", "2573.1"),
		Entry("German thousands and decimal", "2.573,1", "2573.1"),
		Entry("English thousands and decimal", "2,573.1", "2573.1"),
		Entry("dot-only thousands separator", "1.234", "1234"),
		Entry("comma decimal", "1,5", "1.5"),
		Entry("comma-only thousands separator", "12,345", "12345"),
		Entry("multiple German thousands groups", "1.234.567,8", "1234567.8"),
		Entry("bare integer", "42", "42"),
	)

	It("rejects non-numeric input", func() {
		_, ok := NormalizeGermanDecimal("abc")
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("NormalizeConsumption", func() {
	var engine *Engine

	BeforeEach(func() {
		engine = New(DefaultConfig())
	})

	It("canonicalizes an in-range token", func() {
		v, ok := engine.NormalizeConsumption("2.573,1")
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal("2573.1"))
	})

	It("rejects a token that would round onto the upper bound", func() {
		_, ok := engine.NormalizeConsumption("99999.99")
		Expect(ok).To(BeFalse())
	})

	It("rejects a token that would round down onto the lower bound", func() {
		_, ok := engine.NormalizeConsumption("1.04")
		Expect(ok).To(BeFalse())
	})
})
