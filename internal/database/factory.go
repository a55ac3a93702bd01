package database

import (
	"context"
	"time"

	"github.com/ds124wfegd/sizefit/config"
	"github.com/ds124wfegd/sizefit/internal/pkg/storage"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// NewJobRepositoryFromConfig picks redis when it is enabled and answers a
// ping, and the file repository under the storage root otherwise. The
// returned func releases the redis connection.
func NewJobRepositoryFromConfig(ctx context.Context, cfg config.RedisConfig, fs storage.FileStorage) (JobRepository, func()) {
	if !cfg.Enabled {
		return NewJobRepository(fs), func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	log := logrus.WithField("addr", cfg.Addr)
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.WithError(err).Warn("redis unavailable, storing job reports on disk")
		_ = client.Close()
		return NewJobRepository(fs), func() {}
	}

	log.Info("storing job reports in redis")
	return NewRedisJobRepository(client, cfg.JobTTL), func() {
		if err := client.Close(); err != nil {
			logrus.WithError(err).Warn("error closing redis client")
		}
	}
}
