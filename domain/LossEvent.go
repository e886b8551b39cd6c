package domain

import (
	"github.com/fundwit/go-commons/types"
)

type LossEvent struct {
	ID types.ID `json:"id" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`

	Code string `json:"code" gorm:"column:c_code"`

	Name      string          `json:"name"`
	Amount    int64           `json:"amount"`
	EventTime types.Timestamp `json:"eventTime" sql:"type:DATETIME(6)"`
	OrgOwner  string          `json:"orgOwner" gorm:"column:c_org_owner;index:loss_event_org_idx"`
	Status    RiskStatus      `json:"status" gorm:"column:i_status"`

	Provenance
}

type LossEventCreation struct {
	Name      string          `json:"name" binding:"required,lte=255"`
	Amount    int64           `json:"amount" binding:"gte=0"`
	EventTime types.Timestamp `json:"eventTime"`
	OrgOwner  string          `json:"orgOwner" binding:"omitempty,lte=16"`
}

type LossEventQuery struct {
	Name     string       `form:"name"`
	Statuses []RiskStatus `form:"status"`
}
