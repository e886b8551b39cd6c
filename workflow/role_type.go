package workflow

import (
	"riskreg/authority"
)

// RoleType is the derived organizational classification of a user. It is
// computed on every evaluation and never persisted.
type RoleType string

const (
	RoleTypeAdminGRC    RoleType = "admin_grc"
	RoleTypeApprovalGRC RoleType = "approval_grc"
	RoleTypeGRC         RoleType = "grc"
	RoleTypeRiskOfficer RoleType = "risk_officer"
	// RoleTypeOfficer is the legacy alias of risk_officer still carried by
	// older role assignments.
	RoleTypeOfficer  RoleType = "officer"
	RoleTypeKadiv    RoleType = "kadiv"
	RoleTypeRSAEntry RoleType = "rsa_entry"
	RoleTypeUnknown  RoleType = ""
)

// classification precedence: the widest role a user holds wins.
var roleTypeByCode = []struct {
	code     string
	roleType RoleType
}{
	{authority.RoleAdminGRC, RoleTypeAdminGRC},
	{authority.RoleApprovalGRC, RoleTypeApprovalGRC},
	{authority.RoleGRC, RoleTypeGRC},
	{authority.RoleRiskOfficer, RoleTypeRiskOfficer},
	{authority.RoleOfficer, RoleTypeOfficer},
	{authority.RoleKadiv, RoleTypeKadiv},
	{authority.RoleRSAEntry, RoleTypeRSAEntry},
}

// Classify derives the role type from the user's role codes.
func Classify(perms authority.Permissions) RoleType {
	for _, entry := range roleTypeByCode {
		if perms.HasRole(entry.code) {
			return entry.roleType
		}
	}
	return RoleTypeUnknown
}

// IsGRCFamily reports whether the role type sees the full register,
// unrestricted by organization.
func (t RoleType) IsGRCFamily() bool {
	switch t {
	case RoleTypeAdminGRC, RoleTypeApprovalGRC, RoleTypeGRC:
		return true
	}
	return false
}

// IsOrgScoped reports whether the role type only sees rows of its own
// organizational unit.
func (t RoleType) IsOrgScoped() bool {
	switch t {
	case RoleTypeRiskOfficer, RoleTypeOfficer, RoleTypeKadiv:
		return true
	}
	return false
}
