package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	analysisdomain "github.com/smallbiznis/arbiter/internal/analysis/domain"
	casefiledomain "github.com/smallbiznis/arbiter/internal/casefile/domain"
)

func TestClassifyErrorStableCodes(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{
			name:   "wrapped incomplete context keeps the bare code",
			err:    fmt.Errorf("%w: case TW-10567", casefiledomain.ErrIncompleteContext),
			status: http.StatusUnprocessableEntity,
			code:   "incomplete_case_context",
		},
		{
			name:   "wrapped case not found keeps the bare code",
			err:    fmt.Errorf("load case: %w", casefiledomain.ErrCaseNotFound),
			status: http.StatusNotFound,
			code:   "case_not_found",
		},
		{
			name:   "missing analysis",
			err:    analysisdomain.ErrNoAnalysis,
			status: http.StatusNotFound,
			code:   "analysis_not_found",
		},
		{
			name:   "unknown errors stay opaque",
			err:    errors.New("pq: connection reset"),
			status: http.StatusInternalServerError,
			code:   "internal_error",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status, code := classifyError(tc.err)
			if status != tc.status {
				t.Fatalf("expected status %d, got %d", tc.status, status)
			}
			if code != tc.code {
				t.Fatalf("expected code %q, got %q", tc.code, code)
			}
		})
	}
}
