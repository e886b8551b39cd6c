package numbering

import (
	"riskreg/common"
	"riskreg/domain"
	"time"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sirupsen/logrus"
)

var (
	AssignRiskCodeFunc      = AssignRiskCode
	AssignLossEventCodeFunc = AssignLossEventCode

	// ReportFailureFunc is the error-reporting sink for allocation failures.
	// The approval that triggered the allocation is never rolled back; the
	// failure must still reach operators.
	ReportFailureFunc = reportFailure

	nowFunc = time.Now
)

type AllocationFailure struct {
	Scope     string
	RecordID  types.ID
	OrgPrefix string
	Year      int
	PriorCode string
	Err       error
}

// AssignRiskCode gives an approved risk its permanent number. Idempotent:
// an already-coded risk keeps its code.
func AssignRiskCode(db *gorm.DB, riskID types.ID) (string, error) {
	var code string
	err := db.Transaction(func(tx *gorm.DB) error {
		var risk domain.Risk
		if err := tx.Where("id = ?", riskID).First(&risk).Error; err != nil {
			return err
		}
		if CodeAssigned(risk.Code) {
			code = risk.Code
			return nil
		}

		year := nowFunc().Year()
		number, err := NextNumber(tx, ScopeRisk, risk.OrgOwner, year)
		if err != nil {
			reportAllocationFailure(ScopeRisk, risk.ID, risk.OrgOwner, year, risk.Code, err)
			return err
		}
		code = FormatCode(risk.OrgOwner, year, number)
		return tx.Model(&domain.Risk{}).Where("id = ?", riskID).Update("c_code", code).Error
	})
	if err != nil {
		return "", err
	}
	return code, nil
}

// AssignLossEventCode numbers an approved loss event from its own series.
func AssignLossEventCode(db *gorm.DB, eventID types.ID) (string, error) {
	var code string
	err := db.Transaction(func(tx *gorm.DB) error {
		var event domain.LossEvent
		if err := tx.Where("id = ?", eventID).First(&event).Error; err != nil {
			return err
		}
		if CodeAssigned(event.Code) {
			code = event.Code
			return nil
		}

		year := nowFunc().Year()
		number, err := NextNumber(tx, ScopeLossEvent, event.OrgOwner, year)
		if err != nil {
			reportAllocationFailure(ScopeLossEvent, event.ID, event.OrgOwner, year, event.Code, err)
			return err
		}
		code = FormatCode(event.OrgOwner, year, number)
		return tx.Model(&domain.LossEvent{}).Where("id = ?", eventID).Update("c_code", code).Error
	})
	if err != nil {
		return "", err
	}
	return code, nil
}

func reportAllocationFailure(scope string, recordID types.ID, orgPrefix string, year int, priorCode string, err error) {
	common.Log.WithFields(logrus.Fields{
		"scope":     scope,
		"recordId":  recordID,
		"orgPrefix": orgPrefix,
		"year":      year,
		"priorCode": priorCode,
	}).Error("permanent number allocation failed: ", err)

	ReportFailureFunc(AllocationFailure{Scope: scope, RecordID: recordID, OrgPrefix: orgPrefix, Year: year, PriorCode: priorCode, Err: err})
}

func reportFailure(failure AllocationFailure) {
	common.Log.WithFields(logrus.Fields{
		"scope":    failure.Scope,
		"recordId": failure.RecordID,
	}).Warn("number allocation queued for manual remediation")
}
