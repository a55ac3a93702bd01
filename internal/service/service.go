package service

import (
	"context"

	"github.com/ds124wfegd/sizefit/internal/compress"
	"github.com/ds124wfegd/sizefit/internal/database"
	"github.com/ds124wfegd/sizefit/internal/entity"
	"github.com/ds124wfegd/sizefit/internal/pkg/kafka"
	"github.com/ds124wfegd/sizefit/internal/pkg/processor"
	"github.com/ds124wfegd/sizefit/internal/pkg/storage"
)

type CompressionService interface {
	// Compress returns either a finished file or, when the quality gate
	// blocks, a warning that tells the caller how to force the result.
	Compress(ctx context.Context, upload entity.Upload) (*entity.Output, *entity.QualityWarning, error)
	CompressBatch(ctx context.Context, batch entity.BatchUpload) (*entity.Output, error)
	GetJob(ctx context.Context, id string) (*entity.JobReport, error)
}

type compressionService struct {
	storage   storage.FileStorage
	repo      database.JobRepository
	producer  kafka.Producer
	processor processor.ImageProcessor
	gate      compress.Gate
}

func NewCompressionService(storage storage.FileStorage, repo database.JobRepository, producer kafka.Producer,
	processor processor.ImageProcessor, gate compress.Gate) CompressionService {
	return &compressionService{
		storage:   storage,
		repo:      repo,
		producer:  producer,
		processor: processor,
		gate:      gate,
	}
}
