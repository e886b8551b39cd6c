package account

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"riskreg/authority"
	"riskreg/bizerror"
	"riskreg/common"
	"riskreg/persistence"
	"riskreg/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

var (
	userIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	LoadPermFunc = loadPerms
)

func LoadPermFuncReset() {
	LoadPermFunc = loadPerms
}

func HashSha256(raw string) string {
	h := sha256.New()
	h.Write([]byte(raw))
	sum := h.Sum(nil)
	return hex.EncodeToString(sum)
}

// loadPerms resolves the role codes of the user's active assignments and
// the org prefix of the first org-bound assignment.
func loadPerms(uid types.ID) (authority.Permissions, string) {
	db := persistence.ActiveDataSourceManager.GormDB()

	var assignments []authority.RoleAssignment
	if err := db.Where(&authority.RoleAssignment{UserID: uid}).Find(&assignments).Error; err != nil {
		panic(err)
	}
	if len(assignments) == 0 {
		return authority.Permissions{}, ""
	}

	roleIds := make([]types.ID, 0, len(assignments))
	orgPrefix := ""
	for _, assignment := range assignments {
		roleIds = append(roleIds, assignment.RoleID)
		if orgPrefix == "" {
			orgPrefix = assignment.OrgPrefix
		}
	}

	var roles []authority.Role
	if err := db.Where("id IN (?) AND active = ?", roleIds, true).Find(&roles).Error; err != nil {
		panic(err)
	}

	perms := authority.Permissions{}
	for _, role := range roles {
		perms = append(perms, role.Code)
	}
	return perms, orgPrefix
}

func QueryUsers(sec *session.Context) (*[]UserInfo, error) {
	if !sec.Perms.HasRole(authority.RoleSuperadmin) {
		return nil, bizerror.ErrForbidden
	}
	var users []UserInfo
	if err := persistence.ActiveDataSourceManager.GormDB().Model(&User{}).Scan(&users).Error; err != nil {
		return nil, err
	}
	return &users, nil
}

func CreateUser(c *UserCreation, sec *session.Context) (*UserInfo, error) {
	if !sec.Perms.HasRole(authority.RoleSuperadmin) {
		return nil, bizerror.ErrForbidden
	}

	user := User{ID: common.NextId(userIdWorker), Name: c.Name, Nickname: c.Nickname, Nik: c.Nik, Secret: HashSha256(c.Secret)}
	if err := persistence.ActiveDataSourceManager.GormDB().Save(&user).Error; err != nil {
		return nil, err
	}
	return &UserInfo{ID: user.ID, Name: user.Name, Nickname: user.Nickname, Nik: user.Nik}, nil
}

func UpdateBasicAuthSecret(u *BasicAuthUpdating, sec *session.Context) error {
	user := User{}
	if err := persistence.ActiveDataSourceManager.GormDB().Model(&User{}).
		Where(&User{ID: sec.Identity.ID, Secret: HashSha256(u.OriginalSecret)}).Scan(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return bizerror.ErrInvalidPassword
		}
		return err
	}

	return persistence.ActiveDataSourceManager.GormDB().Model(&User{}).
		Where(&User{ID: sec.Identity.ID, Secret: HashSha256(u.OriginalSecret)}).
		Update(&User{Secret: HashSha256(u.NewSecret)}).Error
}

func QueryAccountNames(ids []types.ID) (map[types.ID]string, error) {
	if len(ids) == 0 {
		return map[types.ID]string{}, nil
	}
	db := persistence.ActiveDataSourceManager.GormDB()
	var records []UserInfo
	if err := db.Model(&User{}).Where("id IN (?)", ids).Scan(&records).Error; err != nil {
		return nil, err
	}
	result := map[types.ID]string{}
	for _, r := range records {
		result[r.ID] = r.DisplayName()
	}
	return result, nil
}

// DefaultSecurityConfiguration seeds the well-known roles and menus and
// makes sure an initial admin exists with the superadmin role. Seeding is
// create-if-missing only: operator changes to existing rows (deactivating a
// role, renaming a menu) survive restarts.
func DefaultSecurityConfiguration() error {
	db := persistence.ActiveDataSourceManager.GormDB()

	roles := []authority.Role{
		{ID: 1, Code: authority.RoleSuperadmin, Title: "Superadmin", Active: true},
		{ID: 2, Code: authority.RoleAdminGRC, Title: "GRC Administrator", Active: true},
		{ID: 3, Code: authority.RoleApprovalGRC, Title: "GRC Approver", Active: true},
		{ID: 4, Code: authority.RoleGRC, Title: "GRC Staff", Active: true},
		{ID: 5, Code: authority.RoleRiskOfficer, Title: "Risk Officer", Active: true},
		{ID: 6, Code: authority.RoleKadiv, Title: "Division Head", Active: true},
		{ID: 7, Code: authority.RoleRSAEntry, Title: "RSA Entry", Active: true},
	}
	for i := range roles {
		if err := createIfMissing(db, &authority.Role{}, roles[i].ID, &roles[i]); err != nil {
			return err
		}
	}

	menus := []authority.Menu{
		{ID: 1, Code: authority.MenuRiskRegister, NavLabel: "Risk Register", ModelLabel: "Risk"},
		{ID: 2, Code: authority.MenuRiskApproval, NavLabel: "Risk Approval", ModelLabel: "Risk Approval"},
		{ID: 3, Code: authority.MenuLossEvent, NavLabel: "Loss Events", ModelLabel: "Loss Event"},
		{ID: 4, Code: authority.MenuMitigation, NavLabel: "Mitigations", ModelLabel: "Mitigation"},
		{ID: 5, Code: authority.MenuRealization, NavLabel: "Realizations", ModelLabel: "Realization"},
		{ID: 6, Code: authority.MenuUsers, NavLabel: "Users", ModelLabel: "User"},
		{ID: 7, Code: authority.MenuRoles, NavLabel: "Roles", ModelLabel: "Role"},
	}
	for i := range menus {
		if err := createIfMissing(db, &authority.Menu{}, menus[i].ID, &menus[i]); err != nil {
			return err
		}
	}

	return db.Transaction(func(tx *gorm.DB) error {
		admin := User{}
		err := tx.Model(&User{}).Where(&User{ID: 1}).First(&admin).Error
		if err != nil && errors.Is(err, gorm.ErrRecordNotFound) {
			initialAdminPassword := os.ExpandEnv("${INITIAL_ADMIN_PASSWORD}")
			if initialAdminPassword == "" {
				initialAdminPassword = "admin123"
			}
			if err := tx.Create(&User{ID: 1, Name: "admin", Secret: HashSha256(initialAdminPassword)}).Error; err != nil {
				return err
			}
		}
		return createIfMissing(tx, &authority.RoleAssignment{}, 1, &authority.RoleAssignment{ID: 1, UserID: 1, RoleID: 1})
	})
}

func createIfMissing(db *gorm.DB, model interface{}, id types.ID, record interface{}) error {
	err := db.Model(model).Where("id = ?", id).First(model).Error
	if gorm.IsRecordNotFoundError(err) {
		return db.Create(record).Error
	}
	return err
}
