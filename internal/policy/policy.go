package policy

import "errors"

// Category groups policy clauses by the role they play in a decision.
type Category string

const (
	CategoryDefinition      Category = "definition"
	CategoryRole            Category = "role"
	CategoryEligibility     Category = "eligibility"
	CategoryProcess         Category = "process"
	CategorySnadCriterion   Category = "snad_criterion"
	CategoryEvidence        Category = "evidence"
	CategoryOutcome         Category = "outcome"
	CategoryFee             Category = "fee"
	CategoryProhibition     Category = "prohibition"
	CategoryCopilotGuidance Category = "copilot_guidance"
)

// Language selects one of the two parallel policy documents.
type Language string

const (
	LanguageZH Language = "zh"
	LanguageEN Language = "en"
)

// Clause is a single anchor-coded policy statement. Clauses are immutable
// once loaded; a policy revision produces a whole new Snapshot.
type Clause struct {
	Anchor   string
	Category Category
	Text     string
	Language Language
}

var (
	ErrUnknownAnchor   = errors.New("unknown_policy_anchor")
	ErrUnknownLanguage = errors.New("unknown_policy_language")
	ErrUnknownCategory = errors.New("unknown_anchor_category")
)

// categoryByPrefix maps the anchor code prefix to its clause category.
var categoryByPrefix = map[string]Category{
	"DEF": CategoryDefinition,
	"ROL": CategoryRole,
	"ELI": CategoryEligibility,
	"PRC": CategoryProcess,
	"TW":  CategoryProcess,
	"SND": CategorySnadCriterion,
	"EVD": CategoryEvidence,
	"OUT": CategoryOutcome,
	"SUG": CategoryOutcome,
	"FEE": CategoryFee,
	"BAN": CategoryProhibition,
	"COP": CategoryCopilotGuidance,
}
