package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Repository loads the stored pieces of a dispute case.
type Repository interface {
	FindCaseByRef(ctx context.Context, ref string) (*DisputeCase, error)
	FindListing(ctx context.Context, caseID snowflake.ID) (*ListingSnapshot, error)
	FindOrder(ctx context.Context, caseID snowflake.ID) (*OrderContext, error)
	FindComplaint(ctx context.Context, caseID snowflake.ID) (*ComplaintRecord, error)
	ListChat(ctx context.Context, caseID snowflake.ID) ([]ChatMessage, error)
	ListPendingResponse(ctx context.Context, tx *gorm.DB, limit int) ([]DisputeCase, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, update StatusUpdate) error
}

// StatusUpdate moves a case to a new lifecycle status.
type StatusUpdate struct {
	CaseID      snowflake.ID
	Status      CaseStatus
	RespondBy   *time.Time
	EscalatedAt *time.Time
	ResolvedAt  *time.Time
}
