package mitigations_test

import (
	"riskreg/authority"
	"riskreg/authz"
	"riskreg/bizerror"
	"riskreg/domain"
	"riskreg/mitigations"
	"riskreg/persistence"
	"riskreg/session"
	"riskreg/testinfra"
	"testing"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	. "github.com/onsi/gomega"
)

var menuGrants map[string]authority.Action

func mitigationTestSetup(t *testing.T, testDatabase **testinfra.TestDatabase) {
	db := testinfra.StartMysqlTestDatabase("riskreg")
	*testDatabase = db
	err := db.DS.GormDB().AutoMigrate(&domain.Risk{}, &domain.InherentAssessment{},
		&domain.Mitigation{}, &domain.Realization{}).Error
	if err != nil {
		t.Fatal(err)
	}
	persistence.ActiveDataSourceManager = db.DS

	menuGrants = map[string]authority.Action{}
	authz.CanCrudFunc = func(identifier string, action authority.Action, sec *session.Context) bool {
		return menuGrants[identifier].Has(action)
	}
}

func mitigationTestTeardown(t *testing.T, testDatabase *testinfra.TestDatabase) {
	testinfra.StopMysqlTestDatabase(testDatabase)
}

func TestMitigationChain(t *testing.T) {
	RegisterTestingT(t)

	var testDatabase *testinfra.TestDatabase
	originCanCrud := authz.CanCrudFunc
	defer func() { authz.CanCrudFunc = originCanCrud }()
	mitigationTestSetup(t, &testDatabase)
	defer mitigationTestTeardown(t, testDatabase)

	db := testDatabase.DS.GormDB()
	seeds := []domain.Risk{
		{ID: 401, Name: "in scope", OrgOwner: "AB", Status: domain.StatusApproved},
		{ID: 402, Name: "foreign", OrgOwner: "CD", Status: domain.StatusApproved},
	}
	for i := range seeds {
		Expect(db.Create(&seeds[i]).Error).To(BeNil())
	}

	officer := testinfra.BuildSecCtx(200, "AB", authority.RoleRiskOfficer)
	allMenus := map[string]authority.Action{
		authority.MenuRiskRegister: authority.ActionAll,
		authority.MenuMitigation:   authority.ActionAll,
		authority.MenuRealization:  authority.ActionAll,
	}

	t.Run("the chain inherits the owner organization from the risk", func(t *testing.T) {
		menuGrants = allMenus

		assessment, err := mitigations.CreateAssessment(&mitigations.AssessmentCreation{
			RiskID: 401, Likelihood: 4, Impact: 3}, officer)
		Expect(err).To(BeNil())
		Expect(assessment.RiskID).To(Equal(types.ID(401)))
		Expect(assessment.OrgOwner).To(Equal("AB"))

		mitigation, err := mitigations.CreateMitigation(&mitigations.MitigationCreation{
			AssessmentID: assessment.ID, Plan: "quarterly access review"}, officer)
		Expect(err).To(BeNil())
		Expect(mitigation.AssessmentID).To(Equal(assessment.ID))
		Expect(mitigation.OrgOwner).To(Equal("AB"))

		realization, err := mitigations.CreateRealization(&mitigations.RealizationCreation{
			MitigationID: mitigation.ID, Progress: 40, Note: "first review done"}, officer)
		Expect(err).To(BeNil())
		Expect(realization.MitigationID).To(Equal(mitigation.ID))
		Expect(realization.OrgOwner).To(Equal("AB"))

		var saved domain.InherentAssessment
		Expect(db.Where("id = ?", assessment.ID).First(&saved).Error).To(BeNil())
		Expect(saved.EntryUserID).To(Equal(types.ID(200)))
	})

	t.Run("a parent outside the actor's scope blocks the chain", func(t *testing.T) {
		menuGrants = allMenus
		_, err := mitigations.CreateAssessment(&mitigations.AssessmentCreation{
			RiskID: 402, Likelihood: 2, Impact: 2}, officer)
		Expect(gorm.IsRecordNotFoundError(err)).To(BeTrue())
	})

	t.Run("each step carries its own permission gate", func(t *testing.T) {
		menuGrants = map[string]authority.Action{}
		_, err := mitigations.CreateAssessment(&mitigations.AssessmentCreation{RiskID: 401, Likelihood: 1, Impact: 1}, officer)
		Expect(err).To(Equal(bizerror.ErrForbidden))
		_, err = mitigations.CreateMitigation(&mitigations.MitigationCreation{AssessmentID: 1, Plan: "p"}, officer)
		Expect(err).To(Equal(bizerror.ErrForbidden))
		_, err = mitigations.CreateRealization(&mitigations.RealizationCreation{MitigationID: 1}, officer)
		Expect(err).To(Equal(bizerror.ErrForbidden))
	})

	t.Run("listing stays inside the actor's scope", func(t *testing.T) {
		menuGrants = allMenus
		Expect(db.Create(&domain.Mitigation{ID: 888, AssessmentID: 777, Plan: "foreign plan", OrgOwner: "CD"}).Error).To(BeNil())

		records, err := mitigations.QueryMitigations(officer)
		Expect(err).To(BeNil())
		Expect(len(*records)).To(Equal(1))
		Expect((*records)[0].OrgOwner).To(Equal("AB"))

		realizations, err := mitigations.QueryRealizations(officer)
		Expect(err).To(BeNil())
		Expect(len(*realizations)).To(Equal(1))
	})
}
