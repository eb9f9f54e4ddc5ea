package auth

import (
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestAuth(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Suite")
}

var _ = Describe("JWT tokens", func() {
	BeforeEach(func() {
		os.Setenv("JWT_SECRET", "test-secret-that-is-long-enough-0123456789")
		Expect(Init()).To(Succeed())
	})

	It("round-trips claims through a signed token", func() {
		token, err := GenerateToken("user-1", "max@example.at", "wels", "Stadtwerke Wels", "admin")
		Expect(err).NotTo(HaveOccurred())

		claims, err := ValidateToken(token)
		Expect(err).NotTo(HaveOccurred())
		Expect(claims.UserID).To(Equal("user-1"))
		Expect(claims.Email).To(Equal("max@example.at"))
		Expect(claims.TenantAlias).To(Equal("wels"))
		Expect(claims.TenantName).To(Equal("Stadtwerke Wels"))
		Expect(claims.Role).To(Equal("admin"))
	})

	It("rejects a tampered token", func() {
		token, err := GenerateToken("user-1", "max@example.at", "wels", "Stadtwerke Wels", "admin")
		Expect(err).NotTo(HaveOccurred())

		_, err = ValidateToken(token + "x")
		Expect(err).To(HaveOccurred())
	})

	It("rejects a token signed with a different secret", func() {
		token, err := GenerateToken("user-1", "max@example.at", "wels", "Stadtwerke Wels", "admin")
		Expect(err).NotTo(HaveOccurred())

		os.Setenv("JWT_SECRET", "another-secret-that-is-also-long-enough-xyz")
		Expect(Init()).To(Succeed())

		_, err = ValidateToken(token)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Init", func() {
	It("fails without a secret", func() {
		os.Unsetenv("JWT_SECRET")
		Expect(Init()).NotTo(Succeed())
	})
})
