package policy

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("policy",
	fx.Provide(Load),
	fx.Invoke(func(snapshot *Snapshot, log *zap.Logger) error {
		if err := snapshot.Validate(Required()); err != nil {
			return err
		}
		log.Named("policy").Info("policy catalog loaded",
			zap.Int("required_anchors", len(Required())),
			zap.Int("languages", len(snapshot.Languages())),
		)
		return nil
	}),
)
