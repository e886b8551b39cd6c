package numbering

import (
	"fmt"
	"riskreg/bizerror"
	"riskreg/common"
	"strings"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

const (
	ScopeRisk      = "risk"
	ScopeLossEvent = "loss-event"
)

const maxAllocateAttempts = 50

var sequenceIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

// Sequence holds the next free number of one (scope, org, year) series.
type Sequence struct {
	ID types.ID `json:"id" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`

	Scope      string `json:"scope" gorm:"unique_index:sequence_series_idx"`
	OrgPrefix  string `json:"orgPrefix" gorm:"column:c_org;unique_index:sequence_series_idx"`
	Year       int    `json:"year" gorm:"unique_index:sequence_series_idx"`
	NextNumber int    `json:"nextNumber"`
}

// NextNumber allocates the smallest unused number of the series. Concurrent
// allocations race on the optimistic update and retry; the losing side never
// sees a duplicate. The series row is read FOR UPDATE: inside a REPEATABLE
// READ transaction a plain read would keep returning the snapshot value after
// a competing transaction commits, so the retry loop could never catch up.
func NextNumber(tx *gorm.DB, scope, orgPrefix string, year int) (int, error) {
	orgPrefix = normalizeOrg(orgPrefix)

	for attempt := 0; attempt < maxAllocateAttempts; attempt++ {
		var seq Sequence
		err := tx.Set("gorm:query_option", "FOR UPDATE").
			Where("scope = ? AND c_org = ? AND year = ?", scope, orgPrefix, year).First(&seq).Error
		if gorm.IsRecordNotFoundError(err) {
			seq = Sequence{ID: common.NextId(sequenceIdWorker), Scope: scope, OrgPrefix: orgPrefix, Year: year, NextNumber: 2}
			if createErr := tx.Create(&seq).Error; createErr != nil {
				// lost the race on the unique series index
				continue
			}
			return 1, nil
		}
		if err != nil {
			return 0, err
		}

		db := tx.Model(&Sequence{}).Where("id = ? AND next_number = ?", seq.ID, seq.NextNumber).
			Update("next_number", seq.NextNumber+1)
		if db.Error != nil {
			return 0, db.Error
		}
		if db.RowsAffected == 1 {
			return seq.NextNumber, nil
		}
	}
	return 0, bizerror.ErrCodeConflict
}

// FormatCode builds the permanent record number: {ORG}{YEAR}{SEQ}.
func FormatCode(orgPrefix string, year, number int) string {
	return fmt.Sprintf("%s%d%03d", normalizeOrg(orgPrefix), year, number)
}

// CodeAssigned reports whether a code column already carries a permanent
// number. Legacy rows store the literal string "null" for absent codes.
func CodeAssigned(code string) bool {
	return code != "" && !strings.EqualFold(code, "null")
}

func normalizeOrg(orgPrefix string) string {
	return strings.ToUpper(strings.TrimSpace(orgPrefix))
}
