package database

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/ds124wfegd/sizefit/internal/entity"
	"github.com/ds124wfegd/sizefit/internal/pkg/storage"
)

func NewJobRepository(storage storage.FileStorage) JobRepository {
	return &fileJobRepository{storage: storage}
}

func (r *fileJobRepository) Save(_ context.Context, report *entity.JobReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return err
	}

	_, err = r.storage.Save(r.metadataPath(report.ID), bytes.NewReader(data))
	return err
}

func (r *fileJobRepository) FindByID(_ context.Context, id string) (*entity.JobReport, error) {
	reader, err := r.storage.Get(r.metadataPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, entity.ErrJobNotFound
		}
		return nil, err
	}
	defer reader.Close()

	var report entity.JobReport
	if err := json.NewDecoder(reader).Decode(&report); err != nil {
		return nil, err
	}

	return &report, nil
}

func (r *fileJobRepository) Delete(_ context.Context, id string) error {
	if err := r.storage.Delete(r.metadataPath(id)); err != nil {
		if os.IsNotExist(err) {
			return entity.ErrJobNotFound
		}
		return err
	}
	return nil
}

func (r *fileJobRepository) metadataPath(id string) string {
	return filepath.Join("metadata", filepath.Base(id)+".json")
}
