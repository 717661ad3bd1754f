package snad

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Classifier runs the ordered rule chain over a case. It holds no mutable
// state; one instance serves all cases concurrently.
type Classifier struct {
	log   *zap.Logger
	rules []Rule
}

type ClassifierParam struct {
	fx.In

	Log *zap.Logger
}

func NewClassifier(p ClassifierParam) *Classifier {
	return &Classifier{
		log:   p.Log.Named("snad.classifier"),
		rules: DefaultRules(),
	}
}

// Classify applies the rule chain and returns the first matching verdict.
// The final rule always matches, so a verdict is always produced.
func (c *Classifier) Classify(in Input) Verdict {
	for _, rule := range c.rules {
		verdict, ok := rule.Apply(in)
		if !ok {
			continue
		}
		c.log.Debug("classified",
			zap.String("rule", rule.Name),
			zap.String("label", string(verdict.Label)),
			zap.String("tag", string(verdict.Tag)),
			zap.Strings("anchors", verdict.Anchors),
		)
		return verdict
	}

	// Unreachable: default_neutral always applies.
	verdict, _ := applyDefaultNeutral(in)
	return verdict
}

var Module = fx.Module("snad",
	fx.Provide(NewClassifier),
)
