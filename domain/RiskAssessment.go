package domain

import (
	"github.com/fundwit/go-commons/types"
)

// InherentAssessment scores a risk before mitigation.
type InherentAssessment struct {
	ID     types.ID `json:"id" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`
	RiskID types.ID `json:"riskId" gorm:"index:assessment_risk_idx" sql:"type:BIGINT UNSIGNED NOT NULL"`

	Likelihood int    `json:"likelihood"`
	Impact     int    `json:"impact"`
	OrgOwner   string `json:"orgOwner" gorm:"column:c_org_owner"`

	Provenance
}

type Mitigation struct {
	ID           types.ID `json:"id" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`
	AssessmentID types.ID `json:"assessmentId" gorm:"index:mitigation_assessment_idx" sql:"type:BIGINT UNSIGNED NOT NULL"`

	Plan     string          `json:"plan"`
	Deadline types.Timestamp `json:"deadline" sql:"type:DATETIME(6)"`
	OrgOwner string          `json:"orgOwner" gorm:"column:c_org_owner"`

	Provenance
}

type Realization struct {
	ID           types.ID `json:"id" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`
	MitigationID types.ID `json:"mitigationId" gorm:"index:realization_mitigation_idx" sql:"type:BIGINT UNSIGNED NOT NULL"`

	Progress int    `json:"progress"`
	Note     string `json:"note"`
	OrgOwner string `json:"orgOwner" gorm:"column:c_org_owner"`

	Provenance
}
