package database

import (
	"context"
	"time"

	"github.com/ds124wfegd/sizefit/internal/entity"
	"github.com/ds124wfegd/sizefit/internal/pkg/storage"
	"github.com/redis/go-redis/v9"
)

// JobRepository stores compression reports. FindByID returns
// entity.ErrJobNotFound for unknown ids.
type JobRepository interface {
	Save(ctx context.Context, report *entity.JobReport) error
	FindByID(ctx context.Context, id string) (*entity.JobReport, error)
	Delete(ctx context.Context, id string) error
}

type fileJobRepository struct {
	storage storage.FileStorage
}

type redisJobRepository struct {
	client *redis.Client
	ttl    time.Duration
}
