package audit_test

import (
	"riskreg/audit"
	"riskreg/domain"
	"riskreg/persistence"
	"riskreg/testinfra"
	"testing"

	"github.com/fundwit/go-commons/types"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
)

func auditTestSetup(t *testing.T, testDatabase **testinfra.TestDatabase) {
	db := testinfra.StartMysqlTestDatabase("riskreg")
	*testDatabase = db
	assert.Nil(t, db.DS.GormDB().AutoMigrate(&domain.Risk{}).Error)
	persistence.ActiveDataSourceManager = db.DS
}

func auditTestTeardown(t *testing.T, testDatabase *testinfra.TestDatabase) {
	testinfra.StopMysqlTestDatabase(testDatabase)
}

func TestProvenanceStamping(t *testing.T) {
	RegisterTestingT(t)

	var testDatabase *testinfra.TestDatabase
	auditTestSetup(t, &testDatabase)
	defer auditTestTeardown(t, testDatabase)

	t.Run("create stamps the actor and the entry time", func(t *testing.T) {
		db := audit.WithActor(testDatabase.DS.GormDB(), 55)
		risk := domain.Risk{ID: 101, Name: "stamped", OrgOwner: "AB", Status: domain.StatusDraft}
		Expect(db.Create(&risk).Error).To(BeNil())

		var saved domain.Risk
		Expect(testDatabase.DS.GormDB().Where("id = ?", risk.ID).First(&saved).Error).To(BeNil())
		Expect(saved.EntryUserID).To(Equal(types.ID(55)))
		Expect(saved.EntryTime).ToNot(Equal(types.Timestamp{}))
		Expect(saved.UpdateUserID).To(Equal(types.ID(0)))
		Expect(saved.UpdateTime).To(Equal(types.Timestamp{}))
	})

	t.Run("create without an actor stamps zero", func(t *testing.T) {
		db := testDatabase.DS.GormDB()
		risk := domain.Risk{ID: 102, Name: "anonymous", OrgOwner: "AB", Status: domain.StatusDraft}
		Expect(db.Create(&risk).Error).To(BeNil())

		var saved domain.Risk
		Expect(db.Where("id = ?", risk.ID).First(&saved).Error).To(BeNil())
		Expect(saved.EntryUserID).To(Equal(types.ID(0)))
		Expect(saved.EntryTime).ToNot(Equal(types.Timestamp{}))
	})

	t.Run("create keeps a pre-filled entry user but clears update stamps", func(t *testing.T) {
		db := audit.WithActor(testDatabase.DS.GormDB(), 55)
		risk := domain.Risk{ID: 103, Name: "imported", OrgOwner: "AB", Status: domain.StatusDraft,
			Provenance: domain.Provenance{EntryUserID: 77, UpdateUserID: 88, UpdateTime: types.CurrentTimestamp()}}
		Expect(db.Create(&risk).Error).To(BeNil())

		var saved domain.Risk
		Expect(testDatabase.DS.GormDB().Where("id = ?", risk.ID).First(&saved).Error).To(BeNil())
		Expect(saved.EntryUserID).To(Equal(types.ID(77)))
		Expect(saved.UpdateUserID).To(Equal(types.ID(0)))
		Expect(saved.UpdateTime).To(Equal(types.Timestamp{}))
	})

	t.Run("update stamps the actor and leaves the entry stamps alone", func(t *testing.T) {
		db := audit.WithActor(testDatabase.DS.GormDB(), 77)
		Expect(db.Model(&domain.Risk{}).Where("id = ?", 101).Update("name", "renamed").Error).To(BeNil())

		var saved domain.Risk
		Expect(testDatabase.DS.GormDB().Where("id = ?", 101).First(&saved).Error).To(BeNil())
		Expect(saved.Name).To(Equal("renamed"))
		Expect(saved.EntryUserID).To(Equal(types.ID(55)))
		Expect(saved.UpdateUserID).To(Equal(types.ID(77)))
		Expect(saved.UpdateTime).ToNot(Equal(types.Timestamp{}))
	})
}
