package risks

import (
	"riskreg/audit"
	"riskreg/authority"
	"riskreg/authz"
	"riskreg/bizerror"
	"riskreg/common"
	"riskreg/domain"
	"riskreg/numbering"
	"riskreg/persistence"
	"riskreg/session"
	"riskreg/workflow"
	"strings"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sirupsen/logrus"
	"github.com/sony/sonyflake"
)

var (
	riskIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	CreateRiskFunc        = CreateRisk
	QueryRisksFunc        = QueryRisks
	QueryApprovalListFunc = QueryApprovalList
	DetailRiskFunc        = DetailRisk
	UpdateRiskFunc        = UpdateRisk
	UpdateRiskStatusFunc  = UpdateRiskStatus
	DeleteRiskFunc        = DeleteRisk
)

func CreateRisk(c *domain.RiskCreation, sec *session.Context) (*domain.Risk, error) {
	if !authz.CanCrudFunc(authority.MenuRiskRegister, authority.ActionCreate, sec) {
		return nil, bizerror.ErrForbidden
	}

	ctx := workflow.ContextOfFunc(sec)
	orgOwner := ctx.OrgPrefix
	if ctx.Superadmin || ctx.RoleType.IsGRCFamily() {
		if c.OrgOwner != "" {
			orgOwner = c.OrgOwner
		}
	} else if strings.TrimSpace(orgOwner) == "" && ctx.RoleType != workflow.RoleTypeRSAEntry {
		return nil, bizerror.ErrForbidden
	}

	risk := domain.Risk{
		ID:          common.NextId(riskIdWorker),
		Name:        c.Name,
		Description: c.Description,
		OrgOwner:    orgOwner,
		Status:      domain.StatusDraft,
	}

	db := audit.WithActor(persistence.ActiveDataSourceManager.GormDB(), sec.Identity.ID)
	if err := db.Create(&risk).Error; err != nil {
		return nil, err
	}
	return &risk, nil
}

func QueryRisks(query *domain.RiskQuery, sec *session.Context) (*[]domain.Risk, error) {
	if !authz.CanCrudFunc(authority.MenuRiskRegister, authority.ActionRead, sec) {
		return nil, bizerror.ErrForbidden
	}

	db := persistence.ActiveDataSourceManager.GormDB()
	q := db.Model(&domain.Risk{})
	if query.Name != "" {
		q = q.Where("name like ?", "%"+query.Name+"%")
	}
	if len(query.Statuses) > 0 {
		q = q.Where("i_status in (?)", query.Statuses)
	}
	q = workflow.ApplyRiskRegisterScope(q, sec)

	var risks []domain.Risk
	if err := q.Order("id ASC").Find(&risks).Error; err != nil {
		return nil, err
	}
	return &risks, nil
}

// QueryApprovalList lists the risks awaiting a decision within the acting
// user's approval scope.
func QueryApprovalList(sec *session.Context) (*[]domain.Risk, error) {
	if !authz.CanCrudFunc(authority.MenuRiskApproval, authority.ActionRead, sec) {
		return nil, bizerror.ErrForbidden
	}

	db := persistence.ActiveDataSourceManager.GormDB()
	q := db.Model(&domain.Risk{}).Where("i_status in (?)", []domain.RiskStatus{domain.StatusSubmitted, domain.StatusReviewed})
	q = workflow.ApplyApprovalListScope(q, sec)

	var risks []domain.Risk
	if err := q.Order("id ASC").Find(&risks).Error; err != nil {
		return nil, err
	}
	return &risks, nil
}

// DetailRisk loads one risk through either the direct path or the approval
// cross-navigation path; both paths stay inside their mandatory scope.
func DetailRisk(id types.ID, fromApproval bool, sec *session.Context) (*domain.Risk, error) {
	decision, err := workflow.ResolveRiskAccessFunc(id, fromApproval, sec)
	if err != nil {
		return nil, err
	}

	db := persistence.ActiveDataSourceManager.GormDB()
	var q *gorm.DB
	switch decision {
	case workflow.AccessDirect:
		q = workflow.ApplyRiskRegisterScope(db.Where("id = ?", id), sec)
	case workflow.AccessViaApproval:
		q = workflow.ApplyApprovalListScope(db.Where("id = ?", id), sec)
	default:
		return nil, bizerror.ErrForbidden
	}

	var risk domain.Risk
	if err := q.First(&risk).Error; err != nil {
		return nil, err
	}
	return &risk, nil
}

func UpdateRisk(id types.ID, u *domain.RiskUpdating, sec *session.Context) (*domain.Risk, error) {
	if !authz.CanCrudFunc(authority.MenuRiskRegister, authority.ActionUpdate, sec) {
		return nil, bizerror.ErrForbidden
	}

	db := audit.WithActor(persistence.ActiveDataSourceManager.GormDB(), sec.Identity.ID)
	err := db.Transaction(func(tx *gorm.DB) error {
		var risk domain.Risk
		if err := workflow.ApplyRiskRegisterScope(tx.Where("id = ?", id), sec).First(&risk).Error; err != nil {
			return err
		}
		return tx.Model(&domain.Risk{}).Where("id = ?", id).
			Updates(map[string]interface{}{"name": u.Name, "description": u.Description}).Error
	})
	if err != nil {
		return nil, err
	}

	var risk domain.Risk
	if err := db.Where("id = ?", id).First(&risk).Error; err != nil {
		return nil, err
	}
	return &risk, nil
}

// UpdateRiskStatus is the status transition handler. Reaching the approved
// status triggers the one-time permanent number assignment; a numbering
// failure is surfaced to operators but never rolls the transition back.
func UpdateRiskStatus(id types.ID, newStatus domain.RiskStatus, sec *session.Context) (*domain.Risk, error) {
	if !newStatus.IsValid() {
		return nil, bizerror.ErrUnknownStatus
	}

	decisionStatuses := newStatus == domain.StatusApproved || newStatus == domain.StatusRejected

	db := audit.WithActor(persistence.ActiveDataSourceManager.GormDB(), sec.Identity.ID)
	var prior domain.Risk
	err := db.Transaction(func(tx *gorm.DB) error {
		var q *gorm.DB
		if decisionStatuses {
			if !workflow.CanApprove(authority.MenuRiskApproval, sec) {
				return bizerror.ErrForbidden
			}
			q = workflow.ApplyApprovalListScope(tx.Where("id = ?", id), sec)
		} else {
			if !authz.CanCrudFunc(authority.MenuRiskRegister, authority.ActionUpdate, sec) {
				return bizerror.ErrForbidden
			}
			q = workflow.ApplyRiskRegisterScope(tx.Where("id = ?", id), sec)
		}

		if err := q.First(&prior).Error; err != nil {
			return err
		}
		if prior.Status == newStatus {
			return bizerror.ErrStatusNotChanged
		}
		return tx.Model(&domain.Risk{}).Where("id = ?", id).Update("i_status", newStatus).Error
	})
	if err != nil {
		return nil, err
	}

	// number assignment fires only on a real transition into approved, and
	// only when no permanent code exists yet
	if newStatus == domain.StatusApproved && prior.Status != domain.StatusApproved && !numbering.CodeAssigned(prior.Code) {
		if _, err := numbering.AssignRiskCodeFunc(db, id); err != nil {
			common.Log.WithFields(logrus.Fields{"riskId": id}).
				Error("risk approved without a permanent number: ", err)
		}
	}

	var risk domain.Risk
	if err := db.Where("id = ?", id).First(&risk).Error; err != nil {
		return nil, err
	}
	return &risk, nil
}

func DeleteRisk(id types.ID, sec *session.Context) error {
	if !authz.CanCrudFunc(authority.MenuRiskRegister, authority.ActionDelete, sec) {
		return bizerror.ErrForbidden
	}

	db := audit.WithActor(persistence.ActiveDataSourceManager.GormDB(), sec.Identity.ID)
	return db.Transaction(func(tx *gorm.DB) error {
		var risk domain.Risk
		if err := workflow.ApplyRiskRegisterScope(tx.Where("id = ?", id), sec).First(&risk).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Risk{}, "id = ?", id).Error
	})
}
