package company

import (
	"github.com/smallbiznis/quizhub/internal/company/repository"
	"github.com/smallbiznis/quizhub/internal/company/service"
	"go.uber.org/fx"
)

var Module = fx.Module("company.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
