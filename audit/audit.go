package audit

import (
	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
)

const actorKey = "audit:actor_id"

// WithActor binds the acting user to a db handle so the callbacks can
// stamp provenance on every create and update issued through it.
func WithActor(db *gorm.DB, actorID types.ID) *gorm.DB {
	return db.Set(actorKey, actorID)
}

// RegisterAuditCallbacks installs the provenance stamping hooks once per
// connection. Entities opt in by carrying the domain.Provenance columns.
func RegisterAuditCallbacks(db *gorm.DB) {
	db.Callback().Create().Before("gorm:create").Replace("riskreg:audit_entry", stampEntry)
	db.Callback().Update().Before("gorm:update").Replace("riskreg:audit_update", stampUpdate)
}

func actorOf(scope *gorm.Scope) types.ID {
	value, ok := scope.Get(actorKey)
	if !ok {
		return 0
	}
	actorID, ok := value.(types.ID)
	if !ok {
		return 0
	}
	return actorID
}

func stampEntry(scope *gorm.Scope) {
	entryUser, ok := scope.FieldByName("EntryUserID")
	if !ok {
		return
	}
	if entryUser.IsBlank {
		scope.SetColumn("EntryUserID", actorOf(scope))
	}
	if entryTime, ok := scope.FieldByName("EntryTime"); ok && entryTime.IsBlank {
		scope.SetColumn("EntryTime", types.CurrentTimestamp())
	}
	if _, ok := scope.FieldByName("UpdateUserID"); ok {
		scope.SetColumn("UpdateUserID", types.ID(0))
	}
	if _, ok := scope.FieldByName("UpdateTime"); ok {
		scope.SetColumn("UpdateTime", types.Timestamp{})
	}
}

func stampUpdate(scope *gorm.Scope) {
	if _, ok := scope.FieldByName("UpdateUserID"); !ok {
		return
	}
	scope.SetColumn("UpdateUserID", actorOf(scope))
	scope.SetColumn("UpdateTime", types.CurrentTimestamp())
}
