package quiz

import (
	"github.com/smallbiznis/quizhub/internal/quiz/repository"
	"github.com/smallbiznis/quizhub/internal/quiz/service"
	"go.uber.org/fx"
)

var Module = fx.Module("quiz.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
