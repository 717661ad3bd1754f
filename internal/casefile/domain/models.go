package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Channel is the payment/delivery channel of an order. Only the first two
// are covered by platform protection.
type Channel string

const (
	ChannelInAppEscrow     Channel = "in_app_escrow"
	ChannelCODPartnerStore Channel = "cod_partner_store"
	ChannelOffPlatform     Channel = "off_platform"
)

// CaseStatus tracks the dispute lifecycle. Transitions are guarded by the
// lifecycle package.
type CaseStatus string

const (
	CaseStatusOpened                CaseStatus = "opened"
	CaseStatusPendingSellerResponse CaseStatus = "pending_seller_response"
	CaseStatusAccepted              CaseStatus = "accepted"
	CaseStatusDeclined              CaseStatus = "declined"
	CaseStatusCounterOffered        CaseStatus = "counter_offered"
	CaseStatusPendingBuyerResponse  CaseStatus = "pending_buyer_response"
	CaseStatusAgreed                CaseStatus = "agreed"
	CaseStatusEscalated             CaseStatus = "escalated"
	CaseStatusResolved              CaseStatus = "resolved"
	CaseStatusResolvedByStaff       CaseStatus = "resolved_by_staff"
)

// Sender identifies who wrote a chat message.
type Sender string

const (
	SenderBuyer     Sender = "buyer"
	SenderSeller    Sender = "seller"
	SenderAssistant Sender = "assistant"
)

// EvidenceKind classifies a submitted evidence item.
type EvidenceKind string

const (
	EvidencePhoto            EvidenceKind = "photo"
	EvidenceChatExcerpt      EvidenceKind = "chat_excerpt"
	EvidenceLogisticsReceipt EvidenceKind = "logistics_receipt"
)

// DisputeCase is the root record of a dispute. Ref is the external case
// identifier used in API paths.
type DisputeCase struct {
	ID          snowflake.ID `gorm:"primaryKey"`
	Ref         string       `gorm:"type:text;not null;uniqueIndex"`
	Status      CaseStatus   `gorm:"type:text;not null"`
	OpenedAt    time.Time    `gorm:"not null"`
	RespondBy   *time.Time
	EscalatedAt *time.Time
	ResolvedAt  *time.Time
}

func (DisputeCase) TableName() string { return "dispute_cases" }

// Photo is one listing photo with its display label.
type Photo struct {
	URL   string `json:"url"`
	Label string `json:"label"`
}

// ListingSnapshot freezes the listing as it stood when the case opened.
// A changed listing is a new case, never a mutation of this row.
type ListingSnapshot struct {
	ID             snowflake.ID                `gorm:"primaryKey"`
	CaseID         snowflake.ID                `gorm:"not null;uniqueIndex"`
	Title          string                      `gorm:"type:text;not null"`
	PriceMinor     int64                       `gorm:"not null"`
	ConditionTag   string                      `gorm:"type:text"`
	DisclosedFlaws datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	Attributes     datatypes.JSONMap           `gorm:"type:jsonb"`
	Photos         datatypes.JSONSlice[Photo]  `gorm:"type:jsonb"`
	CreatedAt      time.Time                   `gorm:"not null"`
}

func (ListingSnapshot) TableName() string { return "listing_snapshots" }

// HasDisclosedFlaw reports whether any disclosed flaw contains the keyword.
func (l ListingSnapshot) HasDisclosedFlaw(keyword string) bool {
	for _, flaw := range l.DisclosedFlaws {
		if containsFold(flaw, keyword) {
			return true
		}
	}
	return false
}

// OrderContext carries the order facts the eligibility gate consumes.
// CompletedAt transitions once from nil to a timestamp and is terminal.
type OrderContext struct {
	ID                 snowflake.ID `gorm:"primaryKey"`
	CaseID             snowflake.ID `gorm:"not null;uniqueIndex"`
	OrderNumber        string       `gorm:"type:text;not null"`
	Channel            Channel      `gorm:"type:text;not null"`
	CreatedAt          time.Time    `gorm:"not null"`
	PickupOrDeliveryAt *time.Time
	CompletedAt        *time.Time
	FeeMinor           int64
}

func (OrderContext) TableName() string { return "order_contexts" }

// ComplaintRecord is the buyer's complaint with its evidence items.
type ComplaintRecord struct {
	ID            snowflake.ID   `gorm:"primaryKey"`
	CaseID        snowflake.ID   `gorm:"not null;uniqueIndex"`
	RaisedAt      time.Time      `gorm:"not null"`
	ComplaintText string         `gorm:"type:text;not null"`
	Evidence      []EvidenceItem `gorm:"-"`
}

func (ComplaintRecord) TableName() string { return "complaints" }

// EvidenceItem is one piece of submitted evidence. ExtractedClaims holds
// pre-processed structured facts (upstream OCR/tagging output); the engine
// never derives claims itself.
type EvidenceItem struct {
	ID              snowflake.ID                `gorm:"primaryKey"`
	ComplaintID     snowflake.ID                `gorm:"not null;index"`
	Kind            EvidenceKind                `gorm:"type:text;not null"`
	Content         string                      `gorm:"type:text"`
	ExtractedClaims datatypes.JSONSlice[string] `gorm:"type:jsonb"`
}

func (EvidenceItem) TableName() string { return "evidence_items" }

// ChatMessage is one in-app negotiation message.
type ChatMessage struct {
	ID     snowflake.ID `gorm:"primaryKey"`
	CaseID snowflake.ID `gorm:"not null;index"`
	Sender Sender       `gorm:"type:text;not null"`
	SentAt time.Time    `gorm:"not null"`
	Text   string       `gorm:"type:text;not null"`
}

func (ChatMessage) TableName() string { return "chat_messages" }

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// CaseContext bundles everything one evaluation needs. It is assembled once
// per evaluation and treated as read-only downstream.
type CaseContext struct {
	Case      DisputeCase
	Listing   ListingSnapshot
	Order     OrderContext
	Complaint ComplaintRecord
	Chat      []ChatMessage
}
