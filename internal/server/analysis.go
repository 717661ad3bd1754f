package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	obscontext "github.com/smallbiznis/arbiter/internal/observability/context"
)

// @Summary      Run Case Analysis
// @Description  Evaluate eligibility, classification, and remedy options for a case
// @Tags         analysis
// @Accept       json
// @Produce      json
// @Param        caseId  path      string  true  "Case Reference"
// @Success      200  {object}  domain.Result
// @Router       /analysis/{caseId} [post]
func (s *Server) RunAnalysis(c *gin.Context) {
	caseRef := strings.TrimSpace(c.Param("caseId"))
	if caseRef == "" {
		AbortWithError(c, newValidationError("caseId", "missing_case_id", "case id is required"))
		return
	}

	ctx := obscontext.WithCaseRef(c.Request.Context(), caseRef)
	result, err := s.analysisSvc.Analyze(ctx, caseRef)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// @Summary      Get Case Analysis
// @Description  Return the most recent persisted analysis for a case
// @Tags         analysis
// @Produce      json
// @Param        caseId  path      string  true  "Case Reference"
// @Success      200  {object}  domain.Result
// @Router       /analysis/{caseId} [get]
func (s *Server) GetAnalysis(c *gin.Context) {
	caseRef := strings.TrimSpace(c.Param("caseId"))
	if caseRef == "" {
		AbortWithError(c, newValidationError("caseId", "missing_case_id", "case id is required"))
		return
	}

	result, err := s.analysisSvc.LastResult(c.Request.Context(), caseRef)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
