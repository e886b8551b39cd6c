package workflow_test

import (
	"riskreg/authority"
	"riskreg/authz"
	"riskreg/domain"
	"riskreg/persistence"
	"riskreg/session"
	"riskreg/testinfra"
	"riskreg/workflow"
	"testing"

	. "github.com/onsi/gomega"
)

func workflowTestSetup(t *testing.T, testDatabase **testinfra.TestDatabase) {
	db := testinfra.StartMysqlTestDatabase("riskreg")
	*testDatabase = db
	if err := db.DS.GormDB().AutoMigrate(&domain.Risk{}).Error; err != nil {
		t.Fatal(err)
	}
	persistence.ActiveDataSourceManager = db.DS

	gormDB := db.DS.GormDB()
	risks := []domain.Risk{
		{ID: 1001, Name: "r-ab-1", OrgOwner: "AB", Status: domain.StatusSubmitted,
			Provenance: domain.Provenance{EntryUserID: 55}},
		{ID: 1002, Name: "r-ab-2", OrgOwner: " ab ", Status: domain.StatusDraft,
			Provenance: domain.Provenance{EntryUserID: 77}},
		{ID: 1003, Name: "r-cd-1", OrgOwner: "CD", Status: domain.StatusSubmitted,
			Provenance: domain.Provenance{EntryUserID: 55}},
	}
	for i := range risks {
		Expect(gormDB.Create(&risks[i]).Error).To(BeNil())
	}
}

func workflowTestTeardown(t *testing.T, testDatabase *testinfra.TestDatabase) {
	testinfra.StopMysqlTestDatabase(testDatabase)
}

func scopedNames(sec *session.Context) []string {
	q := persistence.ActiveDataSourceManager.GormDB().Model(&domain.Risk{})
	var risks []domain.Risk
	Expect(workflow.ApplyRiskRegisterScope(q, sec).Order("id ASC").Find(&risks).Error).To(BeNil())
	names := make([]string, 0, len(risks))
	for _, r := range risks {
		names = append(names, r.Name)
	}
	return names
}

func TestApplyRiskRegisterScope(t *testing.T) {
	RegisterTestingT(t)

	var testDatabase *testinfra.TestDatabase
	workflowTestSetup(t, &testDatabase)
	defer workflowTestTeardown(t, testDatabase)

	t.Run("superadmin and the grc family see the whole register", func(t *testing.T) {
		Expect(scopedNames(testinfra.BuildSecCtx(300, "", authority.RoleSuperadmin))).
			To(Equal([]string{"r-ab-1", "r-ab-2", "r-cd-1"}))
		Expect(scopedNames(testinfra.BuildSecCtx(300, "", authority.RoleGRC))).
			To(Equal([]string{"r-ab-1", "r-ab-2", "r-cd-1"}))
		Expect(scopedNames(testinfra.BuildSecCtx(300, "", authority.RoleAdminGRC))).
			To(Equal([]string{"r-ab-1", "r-ab-2", "r-cd-1"}))
	})

	t.Run("org-scoped roles only see their own unit, matched case- and space-insensitively", func(t *testing.T) {
		Expect(scopedNames(testinfra.BuildSecCtx(300, "Ab ", authority.RoleRiskOfficer))).
			To(Equal([]string{"r-ab-1", "r-ab-2"}))
		Expect(scopedNames(testinfra.BuildSecCtx(300, "cd", authority.RoleKadiv))).
			To(Equal([]string{"r-cd-1"}))
	})

	t.Run("an org-scoped role with a blank org sees nothing", func(t *testing.T) {
		Expect(scopedNames(testinfra.BuildSecCtx(300, "", authority.RoleOfficer))).To(BeEmpty())
		Expect(scopedNames(testinfra.BuildSecCtx(300, "   ", authority.RoleRiskOfficer))).To(BeEmpty())
	})

	t.Run("rsa-entry only sees rows it entered", func(t *testing.T) {
		Expect(scopedNames(testinfra.BuildSecCtx(55, "", authority.RoleRSAEntry))).
			To(Equal([]string{"r-ab-1", "r-cd-1"}))
		Expect(scopedNames(testinfra.BuildSecCtx(77, "", authority.RoleRSAEntry))).
			To(Equal([]string{"r-ab-2"}))
		Expect(scopedNames(testinfra.BuildSecCtx(0, "", authority.RoleRSAEntry))).To(BeEmpty())
	})

	t.Run("unknown roles see nothing", func(t *testing.T) {
		Expect(scopedNames(testinfra.BuildSecCtx(300, "AB", "auditor"))).To(BeEmpty())
		Expect(scopedNames(testinfra.BuildSecCtx(300, "AB"))).To(BeEmpty())
		Expect(scopedNames(nil)).To(BeEmpty())
	})
}

func TestCanApprove(t *testing.T) {
	RegisterTestingT(t)

	originCanCrud := authz.CanCrudFunc
	defer func() { authz.CanCrudFunc = originCanCrud }()

	t.Run("superadmin approves without consulting the menu mask", func(t *testing.T) {
		authz.CanCrudFunc = func(identifier string, action authority.Action, sec *session.Context) bool {
			t.Error("menu mask consulted for a superadmin")
			return false
		}
		sec := testinfra.BuildSecCtx(300, "", authority.RoleSuperadmin)
		Expect(workflow.CanApprove(authority.MenuRiskApproval, sec)).To(BeTrue())
	})

	t.Run("other actors need the approve bit", func(t *testing.T) {
		granted := false
		authz.CanCrudFunc = func(identifier string, action authority.Action, sec *session.Context) bool {
			Expect(identifier).To(Equal(authority.MenuRiskApproval))
			Expect(action).To(Equal(authority.ActionApprove))
			return granted
		}
		sec := testinfra.BuildSecCtx(300, "AB", authority.RoleApprovalGRC)
		Expect(workflow.CanApprove(authority.MenuRiskApproval, sec)).To(BeFalse())
		granted = true
		Expect(workflow.CanApprove(authority.MenuRiskApproval, sec)).To(BeTrue())
	})
}

func TestResolveRiskAccess(t *testing.T) {
	RegisterTestingT(t)

	var testDatabase *testinfra.TestDatabase
	workflowTestSetup(t, &testDatabase)
	defer workflowTestTeardown(t, testDatabase)

	originCanCrud := authz.CanCrudFunc
	defer func() { authz.CanCrudFunc = originCanCrud }()

	grant := func(menus ...string) {
		authz.CanCrudFunc = func(identifier string, action authority.Action, sec *session.Context) bool {
			Expect(action).To(Equal(authority.ActionRead))
			for _, m := range menus {
				if m == identifier {
					return true
				}
			}
			return false
		}
	}

	t.Run("a direct register read wins regardless of the approval flag", func(t *testing.T) {
		grant(authority.MenuRiskRegister)
		sec := testinfra.BuildSecCtx(300, "", authority.RoleGRC)
		decision, err := workflow.ResolveRiskAccess(1001, false, sec)
		Expect(err).To(BeNil())
		Expect(decision).To(Equal(workflow.AccessDirect))
		decision, err = workflow.ResolveRiskAccess(1001, true, sec)
		Expect(err).To(BeNil())
		Expect(decision).To(Equal(workflow.AccessDirect))
	})

	t.Run("without the flag the approval path never opens", func(t *testing.T) {
		grant(authority.MenuRiskApproval)
		sec := testinfra.BuildSecCtx(300, "", authority.RoleApprovalGRC)
		decision, err := workflow.ResolveRiskAccess(1001, false, sec)
		Expect(err).To(BeNil())
		Expect(decision).To(Equal(workflow.AccessDenied))
	})

	t.Run("approval readers reach rows inside their approval scope", func(t *testing.T) {
		grant(authority.MenuRiskApproval)
		sec := testinfra.BuildSecCtx(300, "", authority.RoleApprovalGRC)
		decision, err := workflow.ResolveRiskAccess(1001, true, sec)
		Expect(err).To(BeNil())
		Expect(decision).To(Equal(workflow.AccessViaApproval))

		// a row outside the scope stays invisible through this path too
		scoped := testinfra.BuildSecCtx(300, "zz", authority.RoleKadiv)
		decision, err = workflow.ResolveRiskAccess(1001, true, scoped)
		Expect(err).To(BeNil())
		Expect(decision).To(Equal(workflow.AccessDenied))

		decision, err = workflow.ResolveRiskAccess(99999, true, sec)
		Expect(err).To(BeNil())
		Expect(decision).To(Equal(workflow.AccessDenied))
	})

	t.Run("rows no approval list shows stay closed to the approval path", func(t *testing.T) {
		grant(authority.MenuRiskApproval)
		sec := testinfra.BuildSecCtx(300, "", authority.RoleApprovalGRC)

		// draft rows are in scope but not awaiting a decision
		decision, err := workflow.ResolveRiskAccess(1002, true, sec)
		Expect(err).To(BeNil())
		Expect(decision).To(Equal(workflow.AccessDenied))

		db := persistence.ActiveDataSourceManager.GormDB()
		Expect(db.Model(&domain.Risk{}).Where("id = ?", 1003).Update("i_status", domain.StatusApproved).Error).To(BeNil())
		decision, err = workflow.ResolveRiskAccess(1003, true, sec)
		Expect(err).To(BeNil())
		Expect(decision).To(Equal(workflow.AccessDenied))
	})

	t.Run("no read permission anywhere means no access", func(t *testing.T) {
		grant()
		sec := testinfra.BuildSecCtx(300, "AB", authority.RoleRiskOfficer)
		decision, err := workflow.ResolveRiskAccess(1001, true, sec)
		Expect(err).To(BeNil())
		Expect(decision).To(Equal(workflow.AccessDenied))
	})
}
