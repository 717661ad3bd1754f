package authorization

import "context"

// Service answers whether an actor may perform an action on an object.
// Actors are "user:<id>" for staff members or "system" for internal jobs.
type Service interface {
	Authorize(ctx context.Context, actor string, object string, action string) error
}

const (
	ObjectCase = "case"

	ActionCaseEscalate = "case:escalate"
	ActionCaseResolve  = "case:resolve"
	ActionCaseRead     = "case:read"
)
