package domain

import (
	"github.com/fundwit/go-commons/types"
)

type RiskStatus int

const (
	StatusDraft     RiskStatus = 1
	StatusSubmitted RiskStatus = 2
	StatusReviewed  RiskStatus = 3
	StatusApproved  RiskStatus = 4
	StatusRejected  RiskStatus = 5
)

func (s RiskStatus) IsValid() bool {
	return s >= StatusDraft && s <= StatusRejected
}

type Risk struct {
	ID types.ID `json:"id" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`

	// Code is the permanent risk number, assigned once on approval.
	Code string `json:"code" gorm:"column:c_code"`

	Name        string     `json:"name"`
	Description string     `json:"description"`
	OrgOwner    string     `json:"orgOwner" gorm:"column:c_org_owner;index:risk_org_idx"`
	Status      RiskStatus `json:"status" gorm:"column:i_status"`

	Provenance
}

type RiskCreation struct {
	Name        string `json:"name" binding:"required,lte=255"`
	Description string `json:"description"`
	// OrgOwner is only honored for GRC-family and superadmin actors;
	// org-scoped actors always register risks under their own unit.
	OrgOwner string `json:"orgOwner" binding:"omitempty,lte=16"`
}

type RiskUpdating struct {
	Name        string `json:"name" binding:"required,lte=255"`
	Description string `json:"description"`
}

type RiskQuery struct {
	Name     string       `form:"name"`
	Statuses []RiskStatus `form:"status"`
}
