package session_test

import (
	"net/http/httptest"
	"riskreg/session"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("SecurityContext", func() {
	Describe("SaveSecurityContext and FindSecurityContext", func() {
		It("should round-trip a security context through the gin context", func() {
			ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
			secCtx := &session.Context{Token: "a-token", Identity: session.Identity{ID: 100, Name: "ana"}}

			session.SaveSecurityContext(ctx, secCtx)
			Expect(session.FindSecurityContext(ctx)).To(Equal(secCtx))
		})

		It("should find nothing when no context was saved", func() {
			ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
			Expect(session.FindSecurityContext(ctx)).To(BeNil())
		})

		It("should refuse to save or find a context without a token", func() {
			ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
			session.SaveSecurityContext(ctx, &session.Context{Identity: session.Identity{ID: 100}})
			Expect(session.FindSecurityContext(ctx)).To(BeNil())

			session.SaveSecurityContext(ctx, nil)
			Expect(session.FindSecurityContext(ctx)).To(BeNil())
		})
	})

	Describe("Identity", func() {
		It("should prefer the nickname as display name", func() {
			Expect(session.Identity{Name: "ana", Nickname: "Ana"}.DisplayName()).To(Equal("Ana"))
			Expect(session.Identity{Name: "ana"}.DisplayName()).To(Equal("ana"))
		})
	})
})
