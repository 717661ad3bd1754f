package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	analysisdomain "github.com/smallbiznis/arbiter/internal/analysis/domain"
	"github.com/smallbiznis/arbiter/internal/authorization"
	casefiledomain "github.com/smallbiznis/arbiter/internal/casefile/domain"
	"github.com/smallbiznis/arbiter/internal/lifecycle"
	"github.com/smallbiznis/arbiter/internal/policy"
)

// apiError carries an HTTP status with a stable machine-readable code.
type apiError struct {
	status  int
	code    string
	message string
}

func (e *apiError) Error() string { return e.code }

func newValidationError(field, code, message string) error {
	if strings.TrimSpace(code) == "" {
		code = "invalid_" + field
	}
	return &apiError{
		status:  http.StatusBadRequest,
		code:    code,
		message: message,
	}
}

// AbortWithError maps an error to a response of the form {"error": code}.
// Unknown errors become opaque 500s so internals never leak to callers.
func AbortWithError(c *gin.Context, err error) {
	status, code := classifyError(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": code})
}

func classifyError(err error) (int, string) {
	var api *apiError
	if errors.As(err, &api) {
		return api.status, api.code
	}

	// Wire codes come from the bare sentinels. The error itself may wrap a
	// sentinel with case details, so err.Error() is never used as a code.
	switch {
	case errors.Is(err, casefiledomain.ErrCaseNotFound):
		return http.StatusNotFound, casefiledomain.ErrCaseNotFound.Error()
	case errors.Is(err, analysisdomain.ErrNoAnalysis):
		return http.StatusNotFound, analysisdomain.ErrNoAnalysis.Error()
	case errors.Is(err, policy.ErrUnknownLanguage),
		errors.Is(err, policy.ErrUnknownAnchor):
		return http.StatusNotFound, "policy_not_found"
	case errors.Is(err, casefiledomain.ErrIncompleteContext):
		return http.StatusUnprocessableEntity, casefiledomain.ErrIncompleteContext.Error()
	case errors.Is(err, lifecycle.ErrInvalidTransition):
		return http.StatusConflict, "invalid_status_transition"
	case errors.Is(err, authorization.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, authorization.ErrInvalidActor):
		return http.StatusUnauthorized, "invalid_actor"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
