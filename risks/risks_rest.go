package risks

import (
	"net/http"
	"riskreg/bizerror"
	"riskreg/domain"
	"riskreg/session"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

var (
	PathRisks         = "/v1/risks"
	PathRiskApprovals = "/v1/risk-approvals"
)

type RiskStatusUpdating struct {
	Status domain.RiskStatus `json:"status" binding:"required"`
}

func RegisterRisksRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathRisks, middleWares...)
	g.POST("", handleCreateRisk)
	g.GET("", handleQueryRisks)
	g.GET("/:id", handleDetailRisk)
	g.PUT("/:id", handleUpdateRisk)
	g.PUT("/:id/status", handleUpdateRiskStatus)
	g.DELETE("/:id", handleDeleteRisk)

	a := r.Group(PathRiskApprovals, middleWares...)
	a.GET("", handleQueryApprovalList)
}

func handleCreateRisk(c *gin.Context) {
	creation := domain.RiskCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := CreateRiskFunc(&creation, session.FindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleQueryRisks(c *gin.Context) {
	query := domain.RiskQuery{}
	if err := c.MustBindWith(&query, binding.Query); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	records, err := QueryRisksFunc(&query, session.FindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, records)
}

func handleQueryApprovalList(c *gin.Context) {
	records, err := QueryApprovalListFunc(session.FindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, records)
}

func handleDetailRisk(c *gin.Context) {
	id, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	// cross-navigation from the approval list is a distinct, named
	// authorization path; the parameter only selects it, both of its
	// preconditions are verified server-side
	fromApproval := c.Query("from") == "approval"
	record, err := DetailRiskFunc(id, fromApproval, session.FindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleUpdateRisk(c *gin.Context) {
	id, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	updating := domain.RiskUpdating{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := UpdateRiskFunc(id, &updating, session.FindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleUpdateRiskStatus(c *gin.Context) {
	id, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	updating := RiskStatusUpdating{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := UpdateRiskStatusFunc(id, updating.Status, session.FindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleDeleteRisk(c *gin.Context) {
	id, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err := DeleteRiskFunc(id, session.FindSecurityContext(c)); err != nil {
		panic(err)
	}
	c.AbortWithStatus(http.StatusNoContent)
}
