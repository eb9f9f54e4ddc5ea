package db

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestDB(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "DB Suite")
}

var _ = Describe("GetSchemaForTenant", func() {
	It("maps an empty alias to the public schema", func() {
		Expect(GetSchemaForTenant("")).To(Equal("public"))
	})

	It("prefixes tenant aliases", func() {
		Expect(GetSchemaForTenant("wels")).To(Equal("tnt_wels"))
	})
})
