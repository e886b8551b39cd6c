package authority

import (
	"strings"

	"github.com/fundwit/go-commons/types"
)

// well-known role codes, seeded by account.DefaultSecurityConfiguration
const (
	RoleSuperadmin  = "superadmin"
	RoleAdminGRC    = "admin-grc"
	RoleApprovalGRC = "approval-grc"
	RoleGRC         = "grc"
	RoleRiskOfficer = "risk-officer"
	RoleOfficer     = "officer"
	RoleKadiv       = "kadiv"
	RoleRSAEntry    = "rsa-entry"
)

// well-known menu codes
const (
	MenuRiskRegister = "risk-register"
	MenuRiskApproval = "risk-approval"
	MenuLossEvent    = "loss-event"
	MenuMitigation   = "mitigation"
	MenuRealization  = "realization"
	MenuUsers        = "users"
	MenuRoles        = "roles"
)

// Menu is an addressable resource. A menu is resolvable by its canonical
// code or by either of its display labels.
type Menu struct {
	ID         types.ID `json:"id" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`
	Code       string   `json:"code" gorm:"unique_index:menu_code_idx"`
	NavLabel   string   `json:"navLabel"`
	ModelLabel string   `json:"modelLabel"`
}

func (m Menu) Matches(identifier string) bool {
	return strings.EqualFold(m.Code, identifier) ||
		strings.EqualFold(m.NavLabel, identifier) ||
		strings.EqualFold(m.ModelLabel, identifier)
}

type Role struct {
	ID     types.ID `json:"id" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`
	Code   string   `json:"code" gorm:"unique_index:role_code_idx"`
	Title  string   `json:"title"`
	Active bool     `json:"active"`
}

// RoleMenu maps a role to the action mask it holds on a menu.
type RoleMenu struct {
	RoleID types.ID `json:"roleId" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`
	MenuID types.ID `json:"menuId" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`
	Action Action   `json:"action"`
}

// RoleAssignment binds a user to one role within an organizational unit.
type RoleAssignment struct {
	ID        types.ID `json:"id" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`
	UserID    types.ID `json:"userId" gorm:"index:assignment_user_idx" sql:"type:BIGINT UNSIGNED NOT NULL"`
	RoleID    types.ID `json:"roleId" sql:"type:BIGINT UNSIGNED NOT NULL"`
	OrgPrefix string   `json:"orgPrefix" gorm:"column:c_org"`
}

type Permissions []string

func (c Permissions) HasRole(role string) bool {
	for _, v := range c {
		if strings.EqualFold(v, role) {
			return true
		}
	}
	return false
}
