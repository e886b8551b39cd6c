package mitigations

import (
	"riskreg/audit"
	"riskreg/authority"
	"riskreg/authz"
	"riskreg/bizerror"
	"riskreg/common"
	"riskreg/domain"
	"riskreg/persistence"
	"riskreg/session"
	"riskreg/workflow"

	"github.com/fundwit/go-commons/types"
	"github.com/sony/sonyflake"
)

var (
	recordIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	CreateAssessmentFunc  = CreateAssessment
	CreateMitigationFunc  = CreateMitigation
	CreateRealizationFunc = CreateRealization
	QueryMitigationsFunc  = QueryMitigations
	QueryRealizationsFunc = QueryRealizations
)

type AssessmentCreation struct {
	RiskID     types.ID `json:"riskId" binding:"required"`
	Likelihood int      `json:"likelihood" binding:"required,gte=1,lte=5"`
	Impact     int      `json:"impact" binding:"required,gte=1,lte=5"`
}

type MitigationCreation struct {
	AssessmentID types.ID        `json:"assessmentId" binding:"required"`
	Plan         string          `json:"plan" binding:"required"`
	Deadline     types.Timestamp `json:"deadline"`
}

type RealizationCreation struct {
	MitigationID types.ID `json:"mitigationId" binding:"required"`
	Progress     int      `json:"progress" binding:"gte=0,lte=100"`
	Note         string   `json:"note"`
}

// CreateAssessment attaches an inherent assessment to a risk the acting
// user can see; the child inherits the parent's owner organization.
func CreateAssessment(c *AssessmentCreation, sec *session.Context) (*domain.InherentAssessment, error) {
	if !authz.CanCrudFunc(authority.MenuRiskRegister, authority.ActionUpdate, sec) {
		return nil, bizerror.ErrForbidden
	}

	db := persistence.ActiveDataSourceManager.GormDB()
	var risk domain.Risk
	if err := workflow.ApplyRiskRegisterScope(db.Where("id = ?", c.RiskID), sec).First(&risk).Error; err != nil {
		return nil, err
	}

	record := domain.InherentAssessment{
		ID:         common.NextId(recordIdWorker),
		RiskID:     risk.ID,
		Likelihood: c.Likelihood,
		Impact:     c.Impact,
		OrgOwner:   risk.OrgOwner,
	}
	if err := audit.WithActor(db, sec.Identity.ID).Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func CreateMitigation(c *MitigationCreation, sec *session.Context) (*domain.Mitigation, error) {
	if !authz.CanCrudFunc(authority.MenuMitigation, authority.ActionCreate, sec) {
		return nil, bizerror.ErrForbidden
	}

	db := persistence.ActiveDataSourceManager.GormDB()
	var assessment domain.InherentAssessment
	if err := workflow.ApplyRiskRegisterScope(db.Where("id = ?", c.AssessmentID), sec).First(&assessment).Error; err != nil {
		return nil, err
	}

	record := domain.Mitigation{
		ID:           common.NextId(recordIdWorker),
		AssessmentID: assessment.ID,
		Plan:         c.Plan,
		Deadline:     c.Deadline,
		OrgOwner:     assessment.OrgOwner,
	}
	if err := audit.WithActor(db, sec.Identity.ID).Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func CreateRealization(c *RealizationCreation, sec *session.Context) (*domain.Realization, error) {
	if !authz.CanCrudFunc(authority.MenuRealization, authority.ActionCreate, sec) {
		return nil, bizerror.ErrForbidden
	}

	db := persistence.ActiveDataSourceManager.GormDB()
	var mitigation domain.Mitigation
	if err := workflow.ApplyRiskRegisterScope(db.Where("id = ?", c.MitigationID), sec).First(&mitigation).Error; err != nil {
		return nil, err
	}

	record := domain.Realization{
		ID:           common.NextId(recordIdWorker),
		MitigationID: mitigation.ID,
		Progress:     c.Progress,
		Note:         c.Note,
		OrgOwner:     mitigation.OrgOwner,
	}
	if err := audit.WithActor(db, sec.Identity.ID).Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func QueryMitigations(sec *session.Context) (*[]domain.Mitigation, error) {
	if !authz.CanCrudFunc(authority.MenuMitigation, authority.ActionRead, sec) {
		return nil, bizerror.ErrForbidden
	}
	db := persistence.ActiveDataSourceManager.GormDB()
	var records []domain.Mitigation
	if err := workflow.ApplyRiskRegisterScope(db.Model(&domain.Mitigation{}), sec).Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return &records, nil
}

func QueryRealizations(sec *session.Context) (*[]domain.Realization, error) {
	if !authz.CanCrudFunc(authority.MenuRealization, authority.ActionRead, sec) {
		return nil, bizerror.ErrForbidden
	}
	db := persistence.ActiveDataSourceManager.GormDB()
	var records []domain.Realization
	if err := workflow.ApplyRiskRegisterScope(db.Model(&domain.Realization{}), sec).Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return &records, nil
}
