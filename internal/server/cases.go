package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/smallbiznis/arbiter/internal/audit/domain"
	auditservice "github.com/smallbiznis/arbiter/internal/audit/service"
	"github.com/smallbiznis/arbiter/internal/auditcontext"
	"github.com/smallbiznis/arbiter/internal/authorization"
)

// staffContext reads the staff identity headers and stores the actor on the
// request context for authorization and audit.
func (s *Server) staffContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if userID := strings.TrimSpace(c.GetHeader("X-Staff-User-Id")); userID != "" {
			ctx = auditcontext.WithActor(ctx, string(auditdomain.ActorTypeUser), userID)
		}
		ctx = auditcontext.WithIPAddress(ctx, c.ClientIP())
		ctx = auditcontext.WithUserAgent(ctx, c.Request.UserAgent())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// staffActor returns the "user:<id>" actor from the request context. HTTP
// callers must carry a staff identity; the "system" actor is reserved for
// internal jobs and never granted to a request.
func staffActor(c *gin.Context) (string, error) {
	actorType, actorID := auditcontext.ActorFromContext(c.Request.Context())
	if actorType != string(auditdomain.ActorTypeUser) || strings.TrimSpace(actorID) == "" {
		return "", authorization.ErrInvalidActor
	}
	return "user:" + actorID, nil
}

// @Summary      Escalate Case
// @Description  Move a case to staff review ahead of its deadlines
// @Tags         cases
// @Produce      json
// @Param        caseId  path      string  true  "Case Reference"
// @Success      200  {object}  map[string]any
// @Router       /cases/{caseId}/escalate [post]
func (s *Server) EscalateCase(c *gin.Context) {
	caseRef := strings.TrimSpace(c.Param("caseId"))
	if caseRef == "" {
		AbortWithError(c, newValidationError("caseId", "missing_case_id", "case id is required"))
		return
	}

	ctx := c.Request.Context()
	actor, err := staffActor(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.authzSvc.Authorize(ctx, actor, authorization.ObjectCase, authorization.ActionCaseEscalate); err != nil {
		AbortWithError(c, err)
		return
	}

	updated, err := s.lifecycleSvc.Escalate(ctx, caseRef)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		_ = s.auditSvc.Record(ctx, auditservice.RecordInput{
			CaseRef:    caseRef,
			Action:     auditdomain.ActionCaseEscalated,
			TargetType: "case",
			TargetID:   caseRef,
			Metadata: map[string]any{
				"status": string(updated.Status),
				"manual": true,
			},
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"caseRef":     updated.Ref,
		"status":      updated.Status,
		"escalatedAt": updated.EscalatedAt,
	}})
}

// @Summary      Resolve Case
// @Description  Close an escalated case with a staff decision
// @Tags         cases
// @Produce      json
// @Param        caseId  path      string  true  "Case Reference"
// @Success      200  {object}  map[string]any
// @Router       /cases/{caseId}/resolve [post]
func (s *Server) ResolveCase(c *gin.Context) {
	caseRef := strings.TrimSpace(c.Param("caseId"))
	if caseRef == "" {
		AbortWithError(c, newValidationError("caseId", "missing_case_id", "case id is required"))
		return
	}

	ctx := c.Request.Context()
	actor, err := staffActor(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.authzSvc.Authorize(ctx, actor, authorization.ObjectCase, authorization.ActionCaseResolve); err != nil {
		AbortWithError(c, err)
		return
	}

	updated, err := s.lifecycleSvc.Resolve(ctx, caseRef)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		_ = s.auditSvc.Record(ctx, auditservice.RecordInput{
			CaseRef:    caseRef,
			Action:     auditdomain.ActionCaseResolved,
			TargetType: "case",
			TargetID:   caseRef,
			Metadata: map[string]any{
				"status": string(updated.Status),
			},
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"caseRef":    updated.Ref,
		"status":     updated.Status,
		"resolvedAt": updated.ResolvedAt,
	}})
}
