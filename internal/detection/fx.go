package detection

import (
	"github.com/smallbiznis/revlens/internal/detection/service"
	"go.uber.org/fx"
)

var Module = fx.Module("detection.service",
	fx.Provide(service.NewService),
)
