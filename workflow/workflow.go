package workflow

import (
	"riskreg/authority"
	"riskreg/authz"
	"riskreg/domain"
	"riskreg/persistence"
	"riskreg/session"
	"strings"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
)

// Context is the evaluated workflow view of the acting user.
type Context struct {
	RoleType   RoleType `json:"roleType"`
	Superadmin bool     `json:"superadmin"`
	UserID     types.ID `json:"userId"`
	OrgPrefix  string   `json:"orgPrefix"`
}

var ContextOfFunc = ContextOf

// ContextOf classifies the acting user. Superadmin combines the identity
// allowlists with the role-code-driven superadmin.
func ContextOf(sec *session.Context) Context {
	if sec == nil {
		return Context{RoleType: RoleTypeUnknown}
	}
	return Context{
		RoleType:   Classify(sec.Perms),
		Superadmin: authz.IsSuperadmin(&sec.Identity, authority.ActiveConfig) || sec.Perms.HasRole(authority.RoleSuperadmin),
		UserID:     sec.Identity.ID,
		OrgPrefix:  sec.OrgPrefix,
	}
}

// ApplyRiskRegisterScope narrows a query over rows carrying c_org_owner and
// i_entry according to the acting user's role type. The narrowing happens at
// query construction: callers never see unscoped rows.
func ApplyRiskRegisterScope(q *gorm.DB, sec *session.Context) *gorm.DB {
	return applyRowScope(q, ContextOfFunc(sec))
}

// ApplyApprovalListScope narrows the approval list query. The rules mirror
// the register scope; kept separate so the two lists can diverge.
func ApplyApprovalListScope(q *gorm.DB, sec *session.Context) *gorm.DB {
	return applyRowScope(q, ContextOfFunc(sec))
}

func applyRowScope(q *gorm.DB, ctx Context) *gorm.DB {
	if ctx.Superadmin {
		return q
	}
	switch ctx.RoleType {
	case RoleTypeAdminGRC, RoleTypeApprovalGRC, RoleTypeGRC:
		return q
	case RoleTypeRiskOfficer, RoleTypeOfficer, RoleTypeKadiv:
		org := strings.ToLower(strings.TrimSpace(ctx.OrgPrefix))
		if org == "" {
			// a missing org must never widen to the full register
			return q.Where("1 = 0")
		}
		return q.Where("LOWER(TRIM(c_org_owner)) = ?", org)
	case RoleTypeRSAEntry:
		if ctx.UserID == 0 {
			return q.Where("1 = 0")
		}
		return q.Where("i_entry = ?", ctx.UserID)
	case RoleTypeUnknown:
		return q.Where("1 = 0")
	}
	return q.Where("1 = 0")
}

// CanApprove tests the Approve bit on the given menu, with the superadmin
// short-circuit.
func CanApprove(menuIdentifier string, sec *session.Context) bool {
	if ContextOfFunc(sec).Superadmin {
		return true
	}
	return authz.CanCrudFunc(menuIdentifier, authority.ActionApprove, sec)
}

// AccessDecision names the authorization path a record view was granted by.
type AccessDecision int

const (
	AccessDenied AccessDecision = iota
	AccessDirect
	AccessViaApproval
)

var ResolveRiskAccessFunc = ResolveRiskAccess

// ResolveRiskAccess decides how the acting user may view one risk record.
// The approval path only opens when the caller asked for it, the approval
// list grants read access, and the row is inside the approval-scoped query.
func ResolveRiskAccess(riskID types.ID, fromApproval bool, sec *session.Context) (AccessDecision, error) {
	if authz.CanCrudFunc(authority.MenuRiskRegister, authority.ActionRead, sec) {
		return AccessDirect, nil
	}
	if !fromApproval {
		return AccessDenied, nil
	}
	if !authz.CanCrudFunc(authority.MenuRiskApproval, authority.ActionRead, sec) {
		return AccessDenied, nil
	}

	// membership must match what the approval list actually shows: scoped
	// rows still awaiting a decision
	q := persistence.ActiveDataSourceManager.GormDB().Model(&domain.Risk{}).Where("id = ?", riskID).
		Where("i_status in (?)", []domain.RiskStatus{domain.StatusSubmitted, domain.StatusReviewed})
	var count int
	if err := ApplyApprovalListScope(q, sec).Count(&count).Error; err != nil {
		return AccessDenied, err
	}
	if count > 0 {
		return AccessViaApproval, nil
	}
	return AccessDenied, nil
}
