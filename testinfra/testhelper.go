package testinfra

import (
	"riskreg/authority"
	"riskreg/session"

	"github.com/fundwit/go-commons/types"
)

// BuildSecCtx build a security context carrying the given role codes
func BuildSecCtx(uid types.ID, orgPrefix string, perms ...string) *session.Context {
	return &session.Context{
		Token:     "test-token",
		Identity:  session.Identity{ID: uid},
		Perms:     authority.Permissions(perms),
		OrgPrefix: orgPrefix,
	}
}

// BuildNamedSecCtx build a security context with a full identity
func BuildNamedSecCtx(uid types.ID, name, nik, orgPrefix string, perms ...string) *session.Context {
	sec := BuildSecCtx(uid, orgPrefix, perms...)
	sec.Identity.Name = name
	sec.Identity.Nik = nik
	return sec
}
