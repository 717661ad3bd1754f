package eligibility

import (
	"fmt"
	"strings"
	"time"

	casefiledomain "github.com/smallbiznis/arbiter/internal/casefile/domain"
)

// Config carries the policy-tunable dispute window. The gate never hardcodes
// the window; ops can widen it up to the lenient ceiling without a deploy.
type Config struct {
	DisputeWindow time.Duration
}

func DefaultConfig() Config {
	return Config{DisputeWindow: 24 * time.Hour}
}

func (c Config) withDefaults() Config {
	if c.DisputeWindow <= 0 {
		c.DisputeWindow = DefaultConfig().DisputeWindow
	}
	return c
}

// Verdict is the R1/R2/R3 admissibility result. It is recomputed from the
// order facts and the wall clock on every evaluation, never stored as truth.
type Verdict struct {
	R1ProtectedChannel bool
	R2WithinWindow     bool
	R3NotComplete      bool
	Notes              string
}

// Eligible reports whether all three rules passed.
func (v Verdict) Eligible() bool {
	return v.R1ProtectedChannel && v.R2WithinWindow && v.R3NotComplete
}

// Gate evaluates dispute admissibility. Pure and total: every input yields a
// verdict, and absent timestamps fail the corresponding rule (fail-closed).
type Gate struct {
	cfg Config
}

func NewGate(cfg Config) *Gate {
	return &Gate{cfg: cfg.withDefaults()}
}

// Evaluate applies the three admissibility rules to the order at the given
// instant. No side effects.
func (g *Gate) Evaluate(order casefiledomain.OrderContext, now time.Time) Verdict {
	v := Verdict{
		R1ProtectedChannel: protectedChannel(order.Channel),
		R3NotComplete:      order.CompletedAt == nil,
	}

	if order.PickupOrDeliveryAt != nil {
		elapsed := now.Sub(*order.PickupOrDeliveryAt)
		v.R2WithinWindow = elapsed >= 0 && elapsed <= g.cfg.DisputeWindow
	}

	v.Notes = g.buildNotes(order, now, v)
	return v
}

func protectedChannel(channel casefiledomain.Channel) bool {
	switch channel {
	case casefiledomain.ChannelInAppEscrow, casefiledomain.ChannelCODPartnerStore:
		return true
	default:
		return false
	}
}

func (g *Gate) buildNotes(order casefiledomain.OrderContext, now time.Time, v Verdict) string {
	var notes []string

	if v.R1ProtectedChannel {
		notes = append(notes, fmt.Sprintf("protected channel (%s)", order.Channel))
	} else {
		notes = append(notes, fmt.Sprintf("unprotected channel (%s)", order.Channel))
	}

	switch {
	case order.PickupOrDeliveryAt == nil:
		notes = append(notes, "no pickup/delivery time on record")
	case v.R2WithinWindow:
		notes = append(notes, fmt.Sprintf("opened ~%dh after pickup (window %s)",
			int(now.Sub(*order.PickupOrDeliveryAt).Hours()), g.cfg.DisputeWindow))
	default:
		notes = append(notes, fmt.Sprintf("opened ~%dh after pickup, outside the %s window",
			int(now.Sub(*order.PickupOrDeliveryAt).Hours()), g.cfg.DisputeWindow))
	}

	if !v.R3NotComplete {
		notes = append(notes, "order already completed")
	}

	return strings.Join(notes, "; ")
}
