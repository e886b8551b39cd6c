package authz

import (
	"riskreg/authority"
	"riskreg/bizerror"
	"riskreg/common"
	"riskreg/persistence"
	"riskreg/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

var roleIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

type RoleCreation struct {
	Code  string `json:"code" binding:"required,lte=32"`
	Title string `json:"title" binding:"required,lte=64"`
}

type RoleMenuUpdating struct {
	MenuCode string           `json:"menuCode" binding:"required"`
	Action   authority.Action `json:"action" binding:"gte=0,lte=31"`
}

type RoleAssigning struct {
	UserID    types.ID `json:"userId" binding:"required"`
	RoleCode  string   `json:"roleCode" binding:"required"`
	OrgPrefix string   `json:"orgPrefix"`
}

func CreateRole(c *RoleCreation, sec *session.Context) (*authority.Role, error) {
	if !IsSuperuser(sec) && !sec.Perms.HasRole(authority.RoleSuperadmin) {
		return nil, bizerror.ErrForbidden
	}
	role := authority.Role{ID: common.NextId(roleIdWorker), Code: c.Code, Title: c.Title, Active: true}
	if err := persistence.ActiveDataSourceManager.GormDB().Create(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// SetRoleMenu stores the action mask a role holds on a menu, replacing any
// previous mapping.
func SetRoleMenu(roleCode string, u *RoleMenuUpdating, sec *session.Context) error {
	if !IsSuperuser(sec) && !sec.Perms.HasRole(authority.RoleSuperadmin) {
		return bizerror.ErrForbidden
	}

	return persistence.ActiveDataSourceManager.GormDB().Transaction(func(tx *gorm.DB) error {
		var role authority.Role
		if err := tx.Where("code = ?", roleCode).First(&role).Error; err != nil {
			return err
		}
		var menu authority.Menu
		if err := tx.Where("code = ?", u.MenuCode).First(&menu).Error; err != nil {
			return err
		}
		if err := tx.Where("role_id = ? AND menu_id = ?", role.ID, menu.ID).Delete(&authority.RoleMenu{}).Error; err != nil {
			return err
		}
		return tx.Create(&authority.RoleMenu{RoleID: role.ID, MenuID: menu.ID, Action: u.Action}).Error
	})
}

func AssignRole(c *RoleAssigning, sec *session.Context) (*authority.RoleAssignment, error) {
	if !IsSuperuser(sec) && !sec.Perms.HasRole(authority.RoleSuperadmin) {
		return nil, bizerror.ErrForbidden
	}

	var assignment authority.RoleAssignment
	err := persistence.ActiveDataSourceManager.GormDB().Transaction(func(tx *gorm.DB) error {
		var role authority.Role
		if err := tx.Where("code = ?", c.RoleCode).First(&role).Error; err != nil {
			return err
		}
		assignment = authority.RoleAssignment{ID: common.NextId(roleIdWorker), UserID: c.UserID, RoleID: role.ID, OrgPrefix: c.OrgPrefix}
		return tx.Create(&assignment).Error
	})
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}
