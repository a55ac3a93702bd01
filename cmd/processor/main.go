// compression event consumer: persists every published report
package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/ds124wfegd/sizefit/config"
	"github.com/ds124wfegd/sizefit/internal/database"
	"github.com/ds124wfegd/sizefit/internal/entity"
	"github.com/ds124wfegd/sizefit/internal/pkg/kafka"
	"github.com/ds124wfegd/sizefit/internal/pkg/storage"
	"github.com/sirupsen/logrus"
)

func main() {
	logrus.SetFormatter(new(logrus.JSONFormatter))
	if level, err := logrus.ParseLevel(config.GetEnv("LOG_LEVEL", "info")); err == nil {
		logrus.SetLevel(level)
	}

	viperInstance, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Cannot load config. Error: {%s}", err.Error())
	}

	cfg, err := config.ParseConfig(viperInstance)
	if err != nil {
		logrus.Fatalf("Cannot parse config. Error: {%s}", err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, closeRepo := database.NewJobRepositoryFromConfig(ctx, cfg.Redis, storage.NewFileStorage(cfg.Storage.Root))
	defer closeRepo()

	err = kafka.Consume(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.GroupID,
		func(ctx context.Context, event entity.CompressionEvent) error {
			report := event.Report
			logrus.WithFields(logrus.Fields{
				"job_id":    report.ID,
				"status":    report.Status,
				"quality":   report.QualityLevel,
				"target_kb": report.TargetKB,
				"output_kb": report.OutputKB,
				"batch":     event.Batch,
			}).Info("compression event received")

			return repo.Save(ctx, &report)
		})
	if err != nil {
		logrus.Fatalf("consumer stopped: %s", err.Error())
	}

	logrus.Print("Processor Shutting Down")
}
