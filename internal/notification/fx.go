package notification

import (
	"github.com/smallbiznis/quizhub/internal/notification/repository"
	"github.com/smallbiznis/quizhub/internal/notification/service"
	"go.uber.org/fx"
)

var Module = fx.Module("notification.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
