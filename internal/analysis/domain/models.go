package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Eligibility is the admissibility section of the analysis response. Field
// names are part of the wire contract.
type Eligibility struct {
	R1    bool   `json:"r1"`
	R2    bool   `json:"r2"`
	R3    bool   `json:"r3"`
	Notes string `json:"notes,omitempty"`
}

// Eligible reports whether all three admissibility rules passed.
func (e Eligibility) Eligible() bool { return e.R1 && e.R2 && e.R3 }

// SnadResult is the classification section of the analysis response.
type SnadResult struct {
	Label         string   `json:"label"`
	Reason        string   `json:"reason"`
	PolicyAnchors []string `json:"policyAnchors,omitempty"`
}

// Option is one remedy option as presented to the parties.
type Option struct {
	Label   string `json:"label"`
	Details string `json:"details"`
}

// Recommendation carries the ranked remedy options.
type Recommendation struct {
	PrimaryOption     Option  `json:"primaryOption"`
	AlternativeOption *Option `json:"alternativeOption,omitempty"`
}

// Result is the full analysis response for one case.
type Result struct {
	Eligibility       Eligibility    `json:"eligibility"`
	SnadResult        SnadResult     `json:"snadResult"`
	Recommendation    Recommendation `json:"recommendation"`
	CaseSummary       string         `json:"caseSummary"`
	EvidenceChecklist []string       `json:"evidenceChecklist,omitempty"`
	NegotiationScript string         `json:"negotiationScript,omitempty"`
}

// AnalysisRecord persists one analysis run. The latest row per case is the
// authoritative result; earlier rows remain for audit.
type AnalysisRecord struct {
	ID        snowflake.ID   `gorm:"primaryKey"`
	CaseID    snowflake.ID   `gorm:"not null;index"`
	CaseRef   string         `gorm:"type:text;not null;index"`
	Result    datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `gorm:"not null"`
}

func (AnalysisRecord) TableName() string { return "analysis_results" }

// Service runs and replays case analyses.
type Service interface {
	// Analyze evaluates the case end to end and persists the result.
	Analyze(ctx context.Context, caseRef string) (*Result, error)
	// LastResult returns the most recent persisted result for the case.
	LastResult(ctx context.Context, caseRef string) (*Result, error)
}

var ErrNoAnalysis = errors.New("analysis_not_found")
