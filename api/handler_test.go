package api

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestAPI(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "API Suite")
}

var _ = Describe("ownerUUID", func() {
	It("parses a well-formed claim", func() {
		id, ok := ownerUUID("5f9c2e94-7b6a-4a6e-9c1d-2f8a3b4c5d6e")
		Expect(ok).To(BeTrue())
		Expect(id.String()).To(Equal("5f9c2e94-7b6a-4a6e-9c1d-2f8a3b4c5d6e"))
	})

	It("rejects a malformed claim instead of yielding the zero UUID", func() {
		_, ok := ownerUUID("not-a-uuid")
		Expect(ok).To(BeFalse())
	})

	It("rejects an empty claim", func() {
		_, ok := ownerUUID("")
		Expect(ok).To(BeFalse())
	})
})
