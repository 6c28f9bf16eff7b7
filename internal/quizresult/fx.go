package quizresult

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/quizhub/internal/clock"
	companydomain "github.com/smallbiznis/quizhub/internal/company/domain"
	"github.com/smallbiznis/quizhub/internal/config"
	membershipdomain "github.com/smallbiznis/quizhub/internal/membership/domain"
	quizdomain "github.com/smallbiznis/quizhub/internal/quiz/domain"
	"github.com/smallbiznis/quizhub/internal/quizresult/cache"
	"github.com/smallbiznis/quizhub/internal/quizresult/domain"
	"github.com/smallbiznis/quizhub/internal/quizresult/repository"
	"github.com/smallbiznis/quizhub/internal/quizresult/service"
	userdomain "github.com/smallbiznis/quizhub/internal/user/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func newService(
	repo domain.Repository,
	resultCache *cache.Cache,
	quizzes quizdomain.Repository,
	companies companydomain.Repository,
	users userdomain.Repository,
	memberships membershipdomain.Repository,
	cfg config.Config,
	genID *snowflake.Node,
	clk clock.Clock,
	log *zap.Logger,
) domain.Service {
	return service.NewService(service.Params{
		Repo:        repo,
		Cache:       resultCache,
		Quizzes:     quizzes,
		Companies:   companies,
		Users:       users,
		Memberships: memberships,
		ExportDir:   cfg.ExportDir,
	}, genID, clk, log)
}

var Module = fx.Module("quizresult.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(cache.New),
	fx.Provide(newService),
)
