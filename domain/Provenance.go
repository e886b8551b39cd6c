package domain

import (
	"github.com/fundwit/go-commons/types"
)

// Provenance carries the entry/update stamps every mutable record holds.
// The columns are filled by the audit callbacks, never by managers.
type Provenance struct {
	EntryUserID  types.ID        `json:"entryUserId" gorm:"column:i_entry" sql:"type:BIGINT UNSIGNED NOT NULL"`
	EntryTime    types.Timestamp `json:"entryTime" gorm:"column:d_entry" sql:"type:DATETIME(6)"`
	UpdateUserID types.ID        `json:"updateUserId" gorm:"column:i_update" sql:"type:BIGINT UNSIGNED NOT NULL"`
	UpdateTime   types.Timestamp `json:"updateTime" gorm:"column:d_update" sql:"type:DATETIME(6)"`
}
