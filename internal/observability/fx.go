package observability

import (
	"github.com/smallbiznis/priceterm/internal/observability/metrics"
	"go.uber.org/fx"
)

var Module = fx.Module("observability",
	fx.Provide(
		metrics.ConfigFrom,
		metrics.NewProvider,
		metrics.New,
	),
)
