package authz

import (
	"riskreg/authority"
	"riskreg/persistence"
	"riskreg/session"

	"github.com/jinzhu/gorm"
)

var (
	CanFunc           = Can
	CanCrudFunc       = CanCrud
	ActionForMenuFunc = ActionForMenu
)

// IsSuperuser reports whether the acting user bypasses role-menu mappings
// entirely: either a superadmin, or listed in the superuser id allowlist.
func IsSuperuser(sec *session.Context) bool {
	if sec == nil {
		return false
	}
	cfg := authority.ActiveConfig
	if IsSuperadmin(&sec.Identity, cfg) {
		return true
	}
	for _, id := range cfg.SuperuserIDs {
		if id != 0 && id == sec.Identity.ID {
			return true
		}
	}
	return false
}

// Can resolves the acting user's effective action mask over the first
// resolvable menu identifier and tests the requested action against it.
// Absence of a mapping is a deny, never an error.
func Can(menuIdentifiers []string, action authority.Action, sec *session.Context) bool {
	if sec == nil {
		return false
	}
	if IsSuperuser(sec) {
		return authority.ActiveConfig.SuperuserActionMask.Has(action)
	}
	return aggregateMask(menuIdentifiers, sec).Has(action)
}

// CanCrud is the single-identifier variant used by CRUD screens.
func CanCrud(menuIdentifier string, action authority.Action, sec *session.Context) bool {
	return Can([]string{menuIdentifier}, action, sec)
}

// ActionForMenu returns the resolved mask for one menu identifier,
// ActionNone when the menu or the user's roles are unknown.
func ActionForMenu(menuIdentifier string, sec *session.Context) authority.Action {
	if sec == nil {
		return authority.ActionNone
	}
	if IsSuperuser(sec) {
		return authority.ActiveConfig.SuperuserActionMask
	}
	return aggregateMask([]string{menuIdentifier}, sec)
}

// aggregateMask ORs the masks of all the user's active role assignments.
// For each role, identifier aliases are probed in order until one of them
// resolves to a stored role-menu mapping.
func aggregateMask(menuIdentifiers []string, sec *session.Context) authority.Action {
	if len(menuIdentifiers) == 0 || len(sec.Perms) == 0 {
		return authority.ActionNone
	}

	db := persistence.ActiveDataSourceManager.GormDB()

	var roles []authority.Role
	if err := db.Where("code IN (?) AND active = ?", []string(sec.Perms), true).Find(&roles).Error; err != nil {
		return authority.ActionNone
	}

	mask := authority.ActionNone
	for _, role := range roles {
		for _, identifier := range menuIdentifiers {
			menu, found := resolveMenu(db, identifier)
			if !found {
				continue
			}
			var mapping authority.RoleMenu
			err := db.Where("role_id = ? AND menu_id = ?", role.ID, menu.ID).First(&mapping).Error
			if err != nil {
				if gorm.IsRecordNotFoundError(err) {
					continue
				}
				return authority.ActionNone
			}
			mask |= mapping.Action
			break
		}
	}
	return mask
}

// resolveMenu looks a menu up by canonical code first, then by its labels,
// so every alias of a resource lands on the same permission record.
func resolveMenu(db *gorm.DB, identifier string) (*authority.Menu, bool) {
	if identifier == "" {
		return nil, false
	}
	var menu authority.Menu
	err := db.Where("code = ? OR nav_label = ? OR model_label = ?", identifier, identifier, identifier).
		First(&menu).Error
	if err != nil {
		return nil, false
	}
	return &menu, true
}
