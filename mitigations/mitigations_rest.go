package mitigations

import (
	"net/http"
	"riskreg/bizerror"
	"riskreg/session"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

var (
	PathAssessments  = "/v1/assessments"
	PathMitigations  = "/v1/mitigations"
	PathRealizations = "/v1/realizations"
)

func RegisterMitigationsRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	r.Group(PathAssessments, middleWares...).POST("", handleCreateAssessment)

	m := r.Group(PathMitigations, middleWares...)
	m.POST("", handleCreateMitigation)
	m.GET("", handleQueryMitigations)

	re := r.Group(PathRealizations, middleWares...)
	re.POST("", handleCreateRealization)
	re.GET("", handleQueryRealizations)
}

func handleCreateAssessment(c *gin.Context) {
	creation := AssessmentCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := CreateAssessmentFunc(&creation, session.FindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleCreateMitigation(c *gin.Context) {
	creation := MitigationCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := CreateMitigationFunc(&creation, session.FindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleCreateRealization(c *gin.Context) {
	creation := RealizationCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := CreateRealizationFunc(&creation, session.FindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleQueryMitigations(c *gin.Context) {
	records, err := QueryMitigationsFunc(session.FindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, records)
}

func handleQueryRealizations(c *gin.Context) {
	records, err := QueryRealizationsFunc(session.FindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, records)
}
