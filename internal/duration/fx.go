package duration

import "go.uber.org/fx"

var Module = fx.Module("duration",
	fx.Provide(New),
)
