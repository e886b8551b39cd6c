package lossevents

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

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sirupsen/logrus"
	"github.com/sony/sonyflake"
)

var (
	lossEventIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	CreateLossEventFunc       = CreateLossEvent
	QueryLossEventsFunc       = QueryLossEvents
	UpdateLossEventStatusFunc = UpdateLossEventStatus
	DeleteLossEventFunc       = DeleteLossEvent
)

func CreateLossEvent(c *domain.LossEventCreation, sec *session.Context) (*domain.LossEvent, error) {
	if !authz.CanCrudFunc(authority.MenuLossEvent, authority.ActionCreate, sec) {
		return nil, bizerror.ErrForbidden
	}

	ctx := workflow.ContextOfFunc(sec)
	orgOwner := ctx.OrgPrefix
	if (ctx.Superadmin || ctx.RoleType.IsGRCFamily()) && c.OrgOwner != "" {
		orgOwner = c.OrgOwner
	}

	event := domain.LossEvent{
		ID:        common.NextId(lossEventIdWorker),
		Name:      c.Name,
		Amount:    c.Amount,
		EventTime: c.EventTime,
		OrgOwner:  orgOwner,
		Status:    domain.StatusDraft,
	}

	db := audit.WithActor(persistence.ActiveDataSourceManager.GormDB(), sec.Identity.ID)
	if err := db.Create(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func QueryLossEvents(query *domain.LossEventQuery, sec *session.Context) (*[]domain.LossEvent, error) {
	if !authz.CanCrudFunc(authority.MenuLossEvent, authority.ActionRead, sec) {
		return nil, bizerror.ErrForbidden
	}

	db := persistence.ActiveDataSourceManager.GormDB()
	q := db.Model(&domain.LossEvent{})
	if query.Name != "" {
		q = q.Where("name like ?", "%"+query.Name+"%")
	}
	if len(query.Statuses) > 0 {
		q = q.Where("i_status in (?)", query.Statuses)
	}
	q = workflow.ApplyRiskRegisterScope(q, sec)

	var events []domain.LossEvent
	if err := q.Order("id ASC").Find(&events).Error; err != nil {
		return nil, err
	}
	return &events, nil
}

func UpdateLossEventStatus(id types.ID, newStatus domain.RiskStatus, sec *session.Context) (*domain.LossEvent, error) {
	if !newStatus.IsValid() {
		return nil, bizerror.ErrUnknownStatus
	}

	decisionStatuses := newStatus == domain.StatusApproved || newStatus == domain.StatusRejected

	db := audit.WithActor(persistence.ActiveDataSourceManager.GormDB(), sec.Identity.ID)
	var prior domain.LossEvent
	err := db.Transaction(func(tx *gorm.DB) error {
		var q *gorm.DB
		if decisionStatuses {
			if !workflow.CanApprove(authority.MenuLossEvent, sec) {
				return bizerror.ErrForbidden
			}
			q = workflow.ApplyApprovalListScope(tx.Where("id = ?", id), sec)
		} else {
			if !authz.CanCrudFunc(authority.MenuLossEvent, authority.ActionUpdate, sec) {
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
		return tx.Model(&domain.LossEvent{}).Where("id = ?", id).Update("i_status", newStatus).Error
	})
	if err != nil {
		return nil, err
	}

	if newStatus == domain.StatusApproved && prior.Status != domain.StatusApproved && !numbering.CodeAssigned(prior.Code) {
		if _, err := numbering.AssignLossEventCodeFunc(db, id); err != nil {
			common.Log.WithFields(logrus.Fields{"lossEventId": id}).
				Error("loss event approved without a permanent number: ", err)
		}
	}

	var event domain.LossEvent
	if err := db.Where("id = ?", id).First(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func DeleteLossEvent(id types.ID, sec *session.Context) error {
	if !authz.CanCrudFunc(authority.MenuLossEvent, authority.ActionDelete, sec) {
		return bizerror.ErrForbidden
	}

	db := audit.WithActor(persistence.ActiveDataSourceManager.GormDB(), sec.Identity.ID)
	return db.Transaction(func(tx *gorm.DB) error {
		var event domain.LossEvent
		if err := workflow.ApplyRiskRegisterScope(tx.Where("id = ?", id), sec).First(&event).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.LossEvent{}, "id = ?", id).Error
	})
}
