package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"credit-predictor/domain"
)

const redisKeyPrefix = "credit-predictor:job:"

type RedisJobRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisJobRepository(addr, password string, db int, ttl time.Duration) *RedisJobRepository {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisJobRepository{
		client: rdb,
		ttl:    ttl,
	}
}

func (r *RedisJobRepository) Save(ctx context.Context, job domain.PredictionJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	if err := r.client.Set(ctx, redisKeyPrefix+job.ID, payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("save job %s: %w", job.ID, err)
	}
	return nil
}

func (r *RedisJobRepository) Get(ctx context.Context, id string) (domain.PredictionJob, error) {
	val, err := r.client.Get(ctx, redisKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.PredictionJob{}, ErrJobNotFound
	}
	if err != nil {
		return domain.PredictionJob{}, fmt.Errorf("get job %s: %w", id, err)
	}

	var job domain.PredictionJob
	if err := json.Unmarshal(val, &job); err != nil {
		return domain.PredictionJob{}, fmt.Errorf("unmarshal job %s: %w", id, err)
	}
	return job, nil
}

// Probe checks the connection; used by the health endpoint.
func (r *RedisJobRepository) Probe(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisJobRepository) Close() error {
	return r.client.Close()
}
