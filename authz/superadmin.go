package authz

import (
	"riskreg/authority"
	"riskreg/common"
	"riskreg/session"
	"strings"
	"unicode"

	"github.com/sirupsen/logrus"
)

// IsSuperadmin reports whether the identity matches any of the three
// independent superadmin allowlists: name keyword, user id, or NIK.
// Each match is logged with the mechanism that fired.
func IsSuperadmin(identity *session.Identity, cfg *authority.Config) bool {
	if identity == nil {
		return false
	}

	name := strings.ToLower(identity.Name)
	for _, keyword := range cfg.SuperadminNameKeywords {
		if keyword != "" && strings.Contains(name, strings.ToLower(keyword)) {
			logSuperadminMatch(identity, "name-keyword", keyword)
			return true
		}
	}

	for _, id := range cfg.SuperadminIDs {
		if id != 0 && id == identity.ID {
			logSuperadminMatch(identity, "user-id", id.String())
			return true
		}
	}

	nik := digitsOnly(identity.Nik)
	if nik != "" {
		for _, allowed := range cfg.SuperadminNiks {
			if digitsOnly(allowed) == nik {
				logSuperadminMatch(identity, "nik", allowed)
				return true
			}
		}
	}

	return false
}

func logSuperadminMatch(identity *session.Identity, mechanism, entry string) {
	common.Log.WithFields(logrus.Fields{
		"userId":    identity.ID,
		"userName":  identity.Name,
		"mechanism": mechanism,
		"entry":     entry,
	}).Info("superadmin allowlist matched")
}

func digitsOnly(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
