package redis

import (
	"context"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/smallbiznis/quizhub/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// New builds the shared redis client and verifies connectivity on start.
func New(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: strings.TrimSpace(cfg.RedisPassword),
		DB:       cfg.RedisDB,
	})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				log.Warn("redis unreachable, result cache disabled until it recovers",
					zap.String("addr", cfg.RedisAddr),
					zap.Error(err),
				)
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})

	return client
}

var Module = fx.Module("redis",
	fx.Provide(New),
)
