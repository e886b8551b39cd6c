package lossevents_test

import (
	"riskreg/authority"
	"riskreg/authz"
	"riskreg/bizerror"
	"riskreg/domain"
	"riskreg/lossevents"
	"riskreg/numbering"
	"riskreg/persistence"
	"riskreg/session"
	"riskreg/testinfra"
	"testing"
	"time"

	"github.com/fundwit/go-commons/types"
	. "github.com/onsi/gomega"
)

var menuGrants map[string]authority.Action

func lossEventTestSetup(t *testing.T, testDatabase **testinfra.TestDatabase) {
	db := testinfra.StartMysqlTestDatabase("riskreg")
	*testDatabase = db
	err := db.DS.GormDB().AutoMigrate(&domain.LossEvent{}, &numbering.Sequence{}).Error
	if err != nil {
		t.Fatal(err)
	}
	persistence.ActiveDataSourceManager = db.DS

	menuGrants = map[string]authority.Action{}
	authz.CanCrudFunc = func(identifier string, action authority.Action, sec *session.Context) bool {
		return menuGrants[identifier].Has(action)
	}
}

func lossEventTestTeardown(t *testing.T, testDatabase *testinfra.TestDatabase) {
	testinfra.StopMysqlTestDatabase(testDatabase)
}

func TestCreateLossEvent(t *testing.T) {
	RegisterTestingT(t)

	var testDatabase *testinfra.TestDatabase
	originCanCrud := authz.CanCrudFunc
	defer func() { authz.CanCrudFunc = originCanCrud }()
	lossEventTestSetup(t, &testDatabase)
	defer lossEventTestTeardown(t, testDatabase)

	t.Run("without the create bit the recording rejects", func(t *testing.T) {
		menuGrants = map[string]authority.Action{}
		sec := testinfra.BuildSecCtx(200, "AB", authority.RoleOfficer)
		_, err := lossevents.CreateLossEvent(&domain.LossEventCreation{Name: "denied"}, sec)
		Expect(err).To(Equal(bizerror.ErrForbidden))
	})

	t.Run("org-scoped actors record under their own unit", func(t *testing.T) {
		menuGrants = map[string]authority.Action{authority.MenuLossEvent: authority.ActionAll}
		sec := testinfra.BuildSecCtx(200, "AB", authority.RoleOfficer)

		event, err := lossevents.CreateLossEvent(&domain.LossEventCreation{
			Name: "wire transfer fraud", Amount: 125000, OrgOwner: "ZZ"}, sec)
		Expect(err).To(BeNil())
		Expect(event.OrgOwner).To(Equal("AB"))
		Expect(event.Amount).To(Equal(int64(125000)))
		Expect(event.Status).To(Equal(domain.StatusDraft))

		var saved domain.LossEvent
		Expect(testDatabase.DS.GormDB().Where("id = ?", event.ID).First(&saved).Error).To(BeNil())
		Expect(saved.EntryUserID).To(Equal(types.ID(200)))
	})

	t.Run("the grc family may record on behalf of any unit", func(t *testing.T) {
		menuGrants = map[string]authority.Action{authority.MenuLossEvent: authority.ActionAll}
		sec := testinfra.BuildSecCtx(201, "AB", authority.RoleGRC)
		event, err := lossevents.CreateLossEvent(&domain.LossEventCreation{Name: "atm skimming", OrgOwner: "CD"}, sec)
		Expect(err).To(BeNil())
		Expect(event.OrgOwner).To(Equal("CD"))
	})
}

func TestUpdateLossEventStatus(t *testing.T) {
	RegisterTestingT(t)

	var testDatabase *testinfra.TestDatabase
	originCanCrud := authz.CanCrudFunc
	defer func() { authz.CanCrudFunc = originCanCrud }()
	lossEventTestSetup(t, &testDatabase)
	defer lossEventTestTeardown(t, testDatabase)

	db := testDatabase.DS.GormDB()
	Expect(db.Create(&domain.LossEvent{ID: 901, Name: "outage loss", OrgOwner: "AB", Status: domain.StatusSubmitted}).Error).To(BeNil())

	approver := testinfra.BuildSecCtx(300, "", authority.RoleApprovalGRC)
	year := time.Now().Year()

	t.Run("loss events number from their own series", func(t *testing.T) {
		// burn the first risk number so a shared series would show up
		n, err := numbering.NextNumber(db, numbering.ScopeRisk, "AB", year)
		Expect(err).To(BeNil())
		Expect(n).To(Equal(1))

		menuGrants = map[string]authority.Action{authority.MenuLossEvent: authority.ActionApprove}
		event, err := lossevents.UpdateLossEventStatus(901, domain.StatusApproved, approver)
		Expect(err).To(BeNil())
		Expect(event.Status).To(Equal(domain.StatusApproved))
		Expect(event.Code).To(Equal(numbering.FormatCode("AB", year, 1)))
	})

	t.Run("repeating the decision changes nothing", func(t *testing.T) {
		menuGrants = map[string]authority.Action{authority.MenuLossEvent: authority.ActionApprove}
		_, err := lossevents.UpdateLossEventStatus(901, domain.StatusApproved, approver)
		Expect(err).To(Equal(bizerror.ErrStatusNotChanged))

		var saved domain.LossEvent
		Expect(db.Where("id = ?", 901).First(&saved).Error).To(BeNil())
		Expect(saved.Code).To(Equal(numbering.FormatCode("AB", year, 1)))
	})

	t.Run("decisions without the approve bit are forbidden", func(t *testing.T) {
		menuGrants = map[string]authority.Action{authority.MenuLossEvent: authority.ActionRead | authority.ActionUpdate}
		_, err := lossevents.UpdateLossEventStatus(901, domain.StatusRejected, approver)
		Expect(err).To(Equal(bizerror.ErrForbidden))
	})
}
