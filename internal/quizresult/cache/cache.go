// Package cache keeps a 48 hour window of denormalized quiz results
// in redis so the latest-results and export views avoid scanning the
// durable store. Redis is a rebuildable accelerator here, never the
// source of truth.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/smallbiznis/quizhub/internal/config"
	"github.com/smallbiznis/quizhub/internal/quizresult/domain"
	"go.uber.org/zap"
)

const keyPrefix = "quiz_result"

// Cache wraps the shared redis client for result storage.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func New(client *redis.Client, cfg config.Config, log *zap.Logger) *Cache {
	return &Cache{
		client: client,
		ttl:    cfg.ResultCacheTTL,
		log:    log.Named("quizresult.cache"),
	}
}

// Store writes one result under
// quiz_result:<user_id>:<company_id>:<quiz_id>:<unix>.
func (c *Cache) Store(ctx context.Context, result domain.ResultDetails) error {
	value, err := json.Marshal(result)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("%s:%s:%s:%s:%d",
		keyPrefix, result.UserID, result.CompanyID, result.QuizID, result.Time.Unix())
	return c.client.SetEx(ctx, key, value, c.ttl).Err()
}

// ByUserAndCompany returns cached results for one user in one company.
func (c *Cache) ByUserAndCompany(ctx context.Context, userID, companyID string) ([]domain.ResultDetails, error) {
	return c.scan(ctx, fmt.Sprintf("%s:%s:%s:*", keyPrefix, userID, companyID))
}

// ByUser returns cached results for one user across companies.
func (c *Cache) ByUser(ctx context.Context, userID string) ([]domain.ResultDetails, error) {
	return c.scan(ctx, fmt.Sprintf("%s:%s:*", keyPrefix, userID))
}

// ByCompany returns cached results for one company across users.
func (c *Cache) ByCompany(ctx context.Context, companyID string) ([]domain.ResultDetails, error) {
	return c.scan(ctx, fmt.Sprintf("%s:*:%s:*", keyPrefix, companyID))
}

// ByQuiz returns cached results for one quiz.
func (c *Cache) ByQuiz(ctx context.Context, quizID string) ([]domain.ResultDetails, error) {
	return c.scan(ctx, fmt.Sprintf("%s:*:*:%s:*", keyPrefix, quizID))
}

func (c *Cache) scan(ctx context.Context, pattern string) ([]domain.ResultDetails, error) {
	var results []domain.ResultDetails

	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		data, err := c.client.Get(ctx, iter.Val()).Bytes()
		if err != nil {
			// Expired between SCAN and GET.
			if err == redis.Nil {
				continue
			}
			return nil, err
		}

		var result domain.ResultDetails
		if err := json.Unmarshal(data, &result); err != nil {
			c.log.Warn("dropping undecodable cache entry", zap.String("key", iter.Val()), zap.Error(err))
			continue
		}
		results = append(results, result)
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
