package clock

import "go.uber.org/fx"

// Module binds the wall clock. Tests substitute Fixed instants instead.
var Module = fx.Module("clock",
	fx.Provide(func() Clock {
		return SystemClock{}
	}),
)
