package session

import (
	"riskreg/authority"
	"time"

	"github.com/fundwit/go-commons/types"
)

type Context struct {
	Token    string                `json:"token"`
	Identity Identity              `json:"identity"`
	Perms    authority.Permissions `json:"perms"`

	// OrgPrefix is the organizational unit of the user's role assignment,
	// blank when the user has no org-bound assignment.
	OrgPrefix string `json:"orgPrefix"`

	SigningTime time.Time `json:"-"`
}

type Identity struct {
	ID       types.ID `json:"id"`
	Name     string   `json:"name"`
	Nickname string   `json:"nickname"`
	Nik      string   `json:"nik"`
}

func (i Identity) DisplayName() string {
	if i.Nickname != "" {
		return i.Nickname
	}
	return i.Name
}
