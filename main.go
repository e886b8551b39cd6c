package main

import (
	"log"
	"net/http"
	"riskreg/account"
	"riskreg/audit"
	"riskreg/authority"
	"riskreg/authz"
	"riskreg/bizerror"
	"riskreg/domain"
	"riskreg/infra/tracing"
	"riskreg/lossevents"
	"riskreg/mitigations"
	"riskreg/numbering"
	"riskreg/persistence"
	"riskreg/risks"
	"riskreg/session"
	"riskreg/sessions"

	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("service start")

	dbConfig, err := persistence.ParseDatabaseConfigFromEnv()
	if err != nil {
		log.Fatalf("parse database config failed %v\n", err)
	}

	// create database (no conflict)
	if dbConfig.DriverType == "mysql" {
		if err := persistence.PrepareMysqlDatabase(dbConfig.DriverArgs); err != nil {
			log.Fatalf("failed to prepare database %v\n", err)
		}
	}

	// connect database
	ds := &persistence.DataSourceManager{DatabaseConfig: dbConfig}
	if err := ds.Start(); err != nil {
		log.Fatalf("database connection failed %v\n", err)
	}
	defer ds.Stop()
	persistence.ActiveDataSourceManager = ds
	audit.RegisterAuditCallbacks(ds.GormDB())

	// database migration (race condition)
	err = ds.GormDB().AutoMigrate(
		&account.User{},
		&authority.Menu{}, &authority.Role{}, &authority.RoleMenu{}, &authority.RoleAssignment{},
		&domain.Risk{}, &domain.InherentAssessment{}, &domain.Mitigation{}, &domain.Realization{},
		&domain.LossEvent{},
		&numbering.Sequence{},
	).Error
	if err != nil {
		log.Fatalf("database migration failed %v\n", err)
	}

	authority.ActiveConfig = authority.ParseConfigFromEnv()
	if err := account.DefaultSecurityConfiguration(); err != nil {
		log.Fatalf("failed to apply default security configuration %v\n", err)
	}

	engine := gin.New()
	engine.Use(gin.Logger(), bizerror.ErrorHandling(), tracing.TracingIngress())
	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "riskreg")
	})

	sessions.RegisterSessionsHandler(engine)
	sessions.RegisterSessionHandler(engine, session.SimpleAuthFilter())
	account.RegisterUsersRestAPI(engine, session.SimpleAuthFilter())
	authz.RegisterRolesRestAPI(engine, session.SimpleAuthFilter())
	risks.RegisterRisksRestAPI(engine, session.SimpleAuthFilter())
	lossevents.RegisterLossEventsRestAPI(engine, session.SimpleAuthFilter())
	mitigations.RegisterMitigationsRestAPI(engine, session.SimpleAuthFilter())

	if err := engine.Run(":80"); err != nil {
		panic(err)
	}
}
