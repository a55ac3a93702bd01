package database

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/ds124wfegd/sizefit/internal/entity"
	"github.com/redis/go-redis/v9"
)

const jobKeyPrefix = "job:"

func NewRedisJobRepository(client *redis.Client, ttl time.Duration) JobRepository {
	return &redisJobRepository{client: client, ttl: ttl}
}

func (r *redisJobRepository) Save(ctx context.Context, report *entity.JobReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return err
	}

	return r.client.Set(ctx, jobKeyPrefix+report.ID, data, r.ttl).Err()
}

func (r *redisJobRepository) FindByID(ctx context.Context, id string) (*entity.JobReport, error) {
	data, err := r.client.Get(ctx, jobKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, entity.ErrJobNotFound
		}
		return nil, err
	}

	var report entity.JobReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, err
	}

	return &report, nil
}

func (r *redisJobRepository) Delete(ctx context.Context, id string) error {
	n, err := r.client.Del(ctx, jobKeyPrefix+id).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return entity.ErrJobNotFound
	}
	return nil
}
