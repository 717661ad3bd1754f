package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	casefiledomain "github.com/smallbiznis/arbiter/internal/casefile/domain"
	"github.com/smallbiznis/arbiter/internal/config"
	"github.com/smallbiznis/arbiter/internal/events"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// demoCase is one seeded dispute fixture. The fixtures exercise every rule
// of the classification chain, so a fresh dev database demos the full range
// of outcomes.
type demoCase struct {
	ref            string
	status         casefiledomain.CaseStatus
	openedAgo      time.Duration
	pickupAgo      time.Duration
	channel        casefiledomain.Channel
	title          string
	priceMinor     int64
	condition      string
	disclosedFlaws []string
	complaint      string
	evidence       []demoEvidence
	chat           []demoChat
}

type demoEvidence struct {
	kind    casefiledomain.EvidenceKind
	content string
	claims  []string
}

type demoChat struct {
	sender casefiledomain.Sender
	text   string
}

func demoCases() []demoCase {
	return []demoCase{
		{
			ref:        "TW-10567",
			status:     casefiledomain.CaseStatusPendingSellerResponse,
			openedAgo:  15 * time.Hour,
			pickupAgo:  16 * time.Hour,
			channel:    casefiledomain.ChannelCODPartnerStore,
			title:      "iPhone 13 128G, lightly used",
			priceMinor: 1550000,
			condition:  "like_new",
			complaint:  "Diagnostic report shows the display was replaced; the listing said no repairs.",
			evidence: []demoEvidence{
				{kind: casefiledomain.EvidenceLogisticsReceipt, content: "official diagnostic report", claims: []string{"display-replaced-detected"}},
			},
			chat: []demoChat{
				{sender: casefiledomain.SenderBuyer, text: "Has this phone ever been repaired?"},
				{sender: casefiledomain.SenderSeller, text: "No major repairs, everything original."},
			},
		},
		{
			ref:        "TW-11021",
			status:     casefiledomain.CaseStatusPendingSellerResponse,
			openedAgo:  10 * time.Hour,
			pickupAgo:  12 * time.Hour,
			channel:    casefiledomain.ChannelInAppEscrow,
			title:      "Running shoes EU42, worn twice",
			priceMinor: 480000,
			condition:  "good",
			complaint:  "The shoes feel much smaller than the labelled size.",
			evidence: []demoEvidence{
				{kind: casefiledomain.EvidencePhoto, content: "size label photo", claims: []string{"size-label-matches", "known-runs-small"}},
			},
			chat: []demoChat{
				{sender: casefiledomain.SenderBuyer, text: "These fit like a size smaller."},
			},
		},
		{
			ref:        "TW-12033",
			status:     casefiledomain.CaseStatusPendingSellerResponse,
			openedAgo:  8 * time.Hour,
			pickupAgo:  9 * time.Hour,
			channel:    casefiledomain.ChannelInAppEscrow,
			title:      "Camera body, boxed",
			priceMinor: 2100000,
			condition:  "good",
			complaint:  "The strap and spare battery were missing from the box.",
			evidence: []demoEvidence{
				{kind: casefiledomain.EvidenceChatExcerpt, content: "listing text excerpt", claims: []string{"ambiguous-accessory-expectation"}},
			},
		},
		{
			ref:        "TW-13058",
			status:     casefiledomain.CaseStatusPendingSellerResponse,
			openedAgo:  12 * time.Hour,
			pickupAgo:  14 * time.Hour,
			channel:    casefiledomain.ChannelCODPartnerStore,
			title:      "Ceramic vase, handmade",
			priceMinor: 150000,
			condition:  "new",
			complaint:  "Arrived cracked even though the box looked fine.",
			evidence: []demoEvidence{
				{kind: casefiledomain.EvidencePhoto, content: "packaging and crack photos", claims: []string{"shipping-damage-despite-packaging"}},
			},
		},
		{
			ref:        "TW-14012",
			status:     casefiledomain.CaseStatusPendingSellerResponse,
			openedAgo:  6 * time.Hour,
			pickupAgo:  7 * time.Hour,
			channel:    casefiledomain.ChannelInAppEscrow,
			title:      "Wool coat, size M",
			priceMinor: 320000,
			condition:  "like_new",
			complaint:  "The coat works fine, I just changed my mind about the color.",
			evidence: []demoEvidence{
				{kind: casefiledomain.EvidencePhoto, content: "coat as received", claims: []string{"item-condition-confirmed"}},
			},
		},
		{
			ref:        "TW-15011",
			status:     casefiledomain.CaseStatusPendingSellerResponse,
			openedAgo:  9 * time.Hour,
			pickupAgo:  11 * time.Hour,
			channel:    casefiledomain.ChannelInAppEscrow,
			title:      "Emerald green dress",
			priceMinor: 260000,
			condition:  "new",
			complaint:  "The color is nothing like the photos, far darker in person.",
			evidence: []demoEvidence{
				{kind: casefiledomain.EvidencePhoto, content: "side-by-side color comparison", claims: []string{"color-mismatch-detected"}},
			},
			chat: []demoChat{
				{sender: casefiledomain.SenderSeller, text: "Color as pictured, photos untouched."},
			},
		},
		{
			ref:        "TW-19802",
			status:     casefiledomain.CaseStatusPendingSellerResponse,
			openedAgo:  13 * time.Hour,
			pickupAgo:  15 * time.Hour,
			channel:    casefiledomain.ChannelInAppEscrow,
			title:      "Cordless vacuum",
			priceMinor: 890000,
			condition:  "good",
			complaint:  "Battery barely lasts twenty minutes, listing claimed forty.",
			evidence: []demoEvidence{
				{kind: casefiledomain.EvidenceChatExcerpt, content: "runtime complaint", claims: []string{"runtime-measured-informally"}},
			},
		},
		{
			ref:        "TW-16852",
			status:     casefiledomain.CaseStatusEscalated,
			openedAgo:  36 * time.Hour,
			pickupAgo:  38 * time.Hour,
			channel:    casefiledomain.ChannelInAppEscrow,
			title:      "AirPods Pro 2",
			priceMinor: 620000,
			condition:  "like_new",
			complaint:  "Serial number does not match the listing and ANC behaves strangely.",
			evidence: []demoEvidence{
				{kind: casefiledomain.EvidencePhoto, content: "serial number photos", claims: []string{"serial-mismatch"}},
			},
		},
	}
}

// EnsureDemoCases seeds the demo dispute fixtures. Idempotent: a case whose
// ref already exists is skipped.
func EnsureDemoCases(ctx context.Context, db *gorm.DB, node *snowflake.Node) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	now := time.Now().UTC()
	outbox := events.NewOutbox(db, node)
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, fixture := range demoCases() {
			exists, err := caseExists(ctx, tx, fixture.ref)
			if err != nil {
				return err
			}
			if exists {
				continue
			}
			if err := insertCase(ctx, tx, node, outbox, fixture, now); err != nil {
				return err
			}
		}
		return nil
	})
}

func caseExists(ctx context.Context, tx *gorm.DB, ref string) (bool, error) {
	var count int64
	err := tx.WithContext(ctx).
		Model(&casefiledomain.DisputeCase{}).
		Where("ref = ?", ref).
		Count(&count).Error
	return count > 0, err
}

func insertCase(ctx context.Context, tx *gorm.DB, node *snowflake.Node, outbox *events.Outbox, fixture demoCase, now time.Time) error {
	openedAt := now.Add(-fixture.openedAgo)
	pickupAt := now.Add(-fixture.pickupAgo)
	respondBy := openedAt.Add(24 * time.Hour)

	c := casefiledomain.DisputeCase{
		ID:        node.Generate(),
		Ref:       fixture.ref,
		Status:    fixture.status,
		OpenedAt:  openedAt,
		RespondBy: &respondBy,
	}
	if fixture.status == casefiledomain.CaseStatusEscalated {
		escalatedAt := now.Add(-time.Hour)
		c.EscalatedAt = &escalatedAt
		c.RespondBy = nil
	}
	if err := tx.WithContext(ctx).Create(&c).Error; err != nil {
		return err
	}

	listing := casefiledomain.ListingSnapshot{
		ID:             node.Generate(),
		CaseID:         c.ID,
		Title:          fixture.title,
		PriceMinor:     fixture.priceMinor,
		ConditionTag:   fixture.condition,
		DisclosedFlaws: datatypes.NewJSONSlice(fixture.disclosedFlaws),
		CreatedAt:      openedAt,
	}
	if err := tx.WithContext(ctx).Create(&listing).Error; err != nil {
		return err
	}

	order := casefiledomain.OrderContext{
		ID:                 node.Generate(),
		CaseID:             c.ID,
		OrderNumber:        fixture.ref,
		Channel:            fixture.channel,
		CreatedAt:          pickupAt.Add(-24 * time.Hour),
		PickupOrDeliveryAt: &pickupAt,
	}
	if err := tx.WithContext(ctx).Create(&order).Error; err != nil {
		return err
	}

	complaint := casefiledomain.ComplaintRecord{
		ID:            node.Generate(),
		CaseID:        c.ID,
		RaisedAt:      openedAt,
		ComplaintText: fixture.complaint,
	}
	if err := tx.WithContext(ctx).Create(&complaint).Error; err != nil {
		return err
	}

	for _, item := range fixture.evidence {
		record := casefiledomain.EvidenceItem{
			ID:              node.Generate(),
			ComplaintID:     complaint.ID,
			Kind:            item.kind,
			Content:         item.content,
			ExtractedClaims: datatypes.NewJSONSlice(item.claims),
		}
		if err := tx.WithContext(ctx).Create(&record).Error; err != nil {
			return err
		}
	}

	sentAt := openedAt
	for _, msg := range fixture.chat {
		sentAt = sentAt.Add(time.Minute)
		record := casefiledomain.ChatMessage{
			ID:     node.Generate(),
			CaseID: c.ID,
			Sender: msg.sender,
			SentAt: sentAt,
			Text:   msg.text,
		}
		if err := tx.WithContext(ctx).Create(&record).Error; err != nil {
			return err
		}
	}

	// Record the opened event the ingest pipeline would have written, so
	// downstream consumers see seeded cases like any other.
	return outbox.PublishTx(ctx, tx, events.Event{
		CaseID:    c.ID,
		Type:      events.EventDisputeOpened,
		Payload:   map[string]any{"case_ref": c.Ref},
		DedupeKey: fmt.Sprintf("open:%d", c.ID),
	})
}

var Module = fx.Module("seed",
	fx.Invoke(func(lc fx.Lifecycle, cfg config.Config, db *gorm.DB, node *snowflake.Node, log *zap.Logger) {
		if !cfg.Bootstrap.SeedDemoCases {
			return
		}
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				if err := EnsureDemoCases(ctx, db, node); err != nil {
					return err
				}
				log.Info("demo cases seeded")
				return nil
			},
		})
	}),
)
