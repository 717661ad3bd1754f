package domain

import (
	"context"
	"errors"
)

// Service assembles the full evaluation context for a case.
type Service interface {
	Build(ctx context.Context, caseRef string) (*CaseContext, error)
}

var (
	ErrCaseNotFound      = errors.New("case_not_found")
	ErrIncompleteContext = errors.New("incomplete_case_context")
)
