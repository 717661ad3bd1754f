package recommend

import "github.com/smallbiznis/arbiter/internal/config"

func provideConfig(cfg config.Config) Config {
	out := Config{
		SnadPartial:     PercentRange{Min: cfg.Refunds.SnadPartialMin, Max: cfg.Refunds.SnadPartialMax},
		NeutralGoodwill: PercentRange{Min: cfg.Refunds.GoodwillMin, Max: cfg.Refunds.GoodwillMax},
		SizingGoodwill:  PercentRange{Min: cfg.Refunds.SizingGoodwill, Max: cfg.Refunds.SizingGoodwill},
		NotSnadPartial:  PercentRange{Min: cfg.Refunds.NegotiatedMin, Max: cfg.Refunds.NegotiatedMax},
		ReturnFeeMinor:  cfg.Refunds.ReturnFeeMinorCOD,
	}
	defaults := DefaultConfig()
	if out.SnadPartial.Max <= 0 {
		out.SnadPartial = defaults.SnadPartial
	}
	if out.NeutralGoodwill.Max <= 0 {
		out.NeutralGoodwill = defaults.NeutralGoodwill
	}
	if out.SizingGoodwill.Max <= 0 {
		out.SizingGoodwill = defaults.SizingGoodwill
	}
	if out.NotSnadPartial.Max <= 0 {
		out.NotSnadPartial = defaults.NotSnadPartial
	}
	if out.ReturnFeeMinor <= 0 {
		out.ReturnFeeMinor = defaults.ReturnFeeMinor
	}
	return out
}
