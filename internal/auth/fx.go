package auth

import (
	"github.com/smallbiznis/quizhub/internal/auth/repository"
	"github.com/smallbiznis/quizhub/internal/auth/service"
	"github.com/smallbiznis/quizhub/internal/auth/session"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
	fx.Provide(session.NewManager),
)
