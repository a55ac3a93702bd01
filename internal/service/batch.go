package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ds124wfegd/sizefit/internal/compress"
	"github.com/ds124wfegd/sizefit/internal/entity"
	"github.com/ds124wfegd/sizefit/internal/prompt"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// CompressBatch fits every upload to the same target as a padded JPEG and
// packs the results into one archive. Files that fail any step are skipped.
func (s *compressionService) CompressBatch(ctx context.Context, batch entity.BatchUpload) (*entity.Output, error) {
	req := prompt.Parse(batch.Prompt)
	if !req.HasSize() {
		return nil, entity.ErrNoTargetSize
	}
	if len(batch.Files) == 0 {
		return nil, entity.ErrNoImageProvided
	}

	batchID := uuid.New().String()
	log := logrus.WithFields(logrus.Fields{
		"job_id":    batchID,
		"target_kb": req.TargetSizeKB,
		"files":     len(batch.Files),
	})
	targetKB := float64(req.TargetSizeKB)

	var (
		members     []archiveMember
		skipped     []string
		used        = make(map[string]int)
		lowest      = compress.MaxQuality
		originalKB  float64
		paddedBytes int
	)
	for i, up := range batch.Files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		fileID := fmt.Sprintf("%s-%d", batchID, i)
		fit, err := s.fitUpload(ctx, fileID, up, req.TargetSizeKB)
		if err == nil && !s.gate.Allow(fit.result.Quality, batch.Force) {
			err = fmt.Errorf("quality level %d is below %d", fit.result.Quality, s.gate.Threshold)
		}
		if err != nil {
			log.WithError(err).WithField("filename", up.Filename).Warn("skipping batch file")
			skipped = append(skipped, filepath.Base(up.Filename))
			continue
		}

		name := uniqueName(used, memberName(baseName(up.Filename), entity.FormatJPEG))
		members = append(members, archiveMember{name: name, data: compress.Pad(fit.result.Bytes, targetKB)})

		originalKB += fit.originalKB
		paddedBytes += compress.PaddedBytes(len(fit.result.Bytes), targetKB)
		if fit.result.Quality < lowest {
			lowest = fit.result.Quality
		}
	}

	if len(members) == 0 {
		return nil, fmt.Errorf("%w: skipped %s", entity.ErrNothingToPack, strings.Join(skipped, ", "))
	}

	data, err := writeArchive(members)
	if err != nil {
		return nil, err
	}

	out := &entity.Output{
		JobID:       batchID,
		Filename:    "compressed_files.zip",
		ContentType: "application/zip",
		Data:        data,
		Warning:     s.warning(nil, lowest),
		Skipped:     skipped,
	}

	status := entity.JobStatusCompleted
	if len(skipped) > 0 {
		status = entity.JobStatusWarning
	}
	s.record(ctx, &entity.JobReport{
		ID:           batchID,
		Filename:     out.Filename,
		MIME:         out.ContentType,
		OriginalKB:   originalKB,
		TargetKB:     req.TargetSizeKB,
		Formats:      []entity.Format{entity.FormatJPEG},
		QualityLevel: lowest,
		OutputKB:     compress.SizeKB(len(data)),
		PaddedBytes:  paddedBytes,
		Warning:      out.Warning,
		Status:       status,
		CreatedAt:    time.Now().UTC(),
	}, true)

	log.WithFields(logrus.Fields{
		"packed":  len(members),
		"skipped": len(skipped),
	}).Info("batch compression finished")

	return out, nil
}

// uniqueName suffixes repeated archive names so no entry shadows another.
func uniqueName(used map[string]int, name string) string {
	n := used[name]
	used[name] = n + 1
	if n == 0 {
		return name
	}
	ext := filepath.Ext(name)
	return fmt.Sprintf("%s_%d%s", strings.TrimSuffix(name, ext), n+1, ext)
}
