package service

import (
	"context"
	"fmt"
	"image/png"
	"path/filepath"
	"strings"
	"time"

	"github.com/ds124wfegd/sizefit/internal/compress"
	"github.com/ds124wfegd/sizefit/internal/entity"
	"github.com/ds124wfegd/sizefit/internal/pkg/processor"
	"github.com/ds124wfegd/sizefit/internal/prompt"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Members of a multi format archive further than this from the target get a warning.
const archiveToleranceKB = 5

type fitted struct {
	mime       string
	originalKB float64
	result     compress.Result
}

func (s *compressionService) Compress(ctx context.Context, up entity.Upload) (*entity.Output, *entity.QualityWarning, error) {
	req := prompt.Parse(up.Prompt)
	if !req.HasSize() {
		return nil, nil, entity.ErrNoTargetSize
	}

	jobID := uuid.New().String()
	log := logrus.WithFields(logrus.Fields{
		"job_id":    jobID,
		"target_kb": req.TargetSizeKB,
		"formats":   req.Formats,
	})

	fit, err := s.fitUpload(ctx, jobID, up, req.TargetSizeKB)
	if err != nil {
		return nil, nil, err
	}

	report := &entity.JobReport{
		ID:           jobID,
		Filename:     filepath.Base(up.Filename),
		MIME:         fit.mime,
		OriginalKB:   fit.originalKB,
		TargetKB:     req.TargetSizeKB,
		Formats:      req.Formats,
		QualityLevel: fit.result.Quality,
		CreatedAt:    time.Now().UTC(),
	}

	if !s.gate.Allow(fit.result.Quality, up.Force) {
		log.WithField("quality", fit.result.Quality).Info("quality gate blocked the result")

		report.Status = entity.JobStatusWarning
		report.Warning = s.gate.Message(fit.result.Quality)
		s.record(ctx, report, false)

		return nil, &entity.QualityWarning{
			Status:       "warning",
			Message:      report.Warning,
			QualityLevel: fit.result.Quality,
		}, nil
	}

	out, err := s.render(baseName(up.Filename), req, fit.result)
	if err != nil {
		return nil, nil, err
	}
	out.JobID = jobID

	report.Status = entity.JobStatusCompleted
	report.OutputKB = compress.SizeKB(len(out.Data))
	report.PaddedBytes = compress.PaddedBytes(len(fit.result.Bytes), float64(req.TargetSizeKB))
	report.Warning = out.Warning
	s.record(ctx, report, false)

	log.WithFields(logrus.Fields{
		"quality":   fit.result.Quality,
		"fit_kb":    fit.result.SizeKB(),
		"output_kb": report.OutputKB,
	}).Info("compression finished")

	return out, nil, nil
}

// fitUpload stages the upload under the job id, checks the size window,
// decodes it and runs the quality search. The staged file is always removed.
func (s *compressionService) fitUpload(ctx context.Context, jobID string, up entity.Upload, targetKB int) (*fitted, error) {
	staged := filepath.Join("uploads", jobID)
	defer s.cleanup(staged)

	size, err := s.stage(staged, up)
	if err != nil {
		return nil, err
	}

	if err := compress.NewBounds(size).Check(targetKB); err != nil {
		return nil, err
	}

	fullPath := s.storage.FullPath(staged)
	mime, err := s.processor.DetectMIME(fullPath)
	if err != nil {
		return nil, err
	}

	img, err := s.processor.Load(fullPath, mime)
	if err != nil {
		return nil, err
	}

	originalKB := compress.SizeKB(int(size))

	var result compress.Result
	if float64(targetKB) > originalKB {
		result, err = compress.Single(s.processor, img)
	} else {
		result, err = compress.Fit(ctx, s.processor, img, float64(targetKB))
	}
	if err != nil {
		return nil, err
	}

	return &fitted{mime: mime, originalKB: originalKB, result: result}, nil
}

func (s *compressionService) stage(path string, up entity.Upload) (int64, error) {
	if up.Open == nil {
		return 0, entity.ErrNoImageProvided
	}

	src, err := up.Open()
	if err != nil {
		return 0, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	n, err := s.storage.Save(path, src)
	if err != nil {
		return 0, fmt.Errorf("store upload: %w", err)
	}
	return n, nil
}

func (s *compressionService) cleanup(path string) {
	if !s.storage.Exists(path) {
		return
	}
	if err := s.storage.Delete(path); err != nil {
		logrus.WithError(err).WithField("path", path).Warn("could not clean up staged upload")
		return
	}
	logrus.WithField("path", path).Debug("cleaned up staged upload")
}

func (s *compressionService) render(base string, req entity.SizeRequest, fit compress.Result) (*entity.Output, error) {
	targetKB := float64(req.TargetSizeKB)

	var warnings []string

	if len(req.Formats) > 1 {
		data, archiveWarnings, err := s.archive(base, req, fit)
		if err != nil {
			return nil, err
		}
		warnings = append(warnings, archiveWarnings...)
		return &entity.Output{
			Filename:    "compressed_files.zip",
			ContentType: "application/zip",
			Data:        data,
			Warning:     s.warning(warnings, fit.Quality),
		}, nil
	}

	format := req.Formats[0]
	data, err := s.encodeMember(format, fit, targetKB, true)
	if err != nil {
		return nil, err
	}
	if compress.SizeKB(len(data)) > targetKB {
		warnings = append(warnings, sizeWarning(format, len(data), req.TargetSizeKB))
	}

	return &entity.Output{
		Filename:    memberName(base, format),
		ContentType: format.ContentType(),
		Data:        data,
		Warning:     s.warning(warnings, fit.Quality),
	}, nil
}

// encodeMember turns the fitted JPEG into the requested format. Only the JPEG
// is padded; PNG and PDF are re-encoded from the fitted pixels.
func (s *compressionService) encodeMember(format entity.Format, fit compress.Result, targetKB float64, ladder bool) ([]byte, error) {
	switch format {
	case entity.FormatJPEG:
		return compress.Pad(fit.Bytes, targetKB), nil
	case entity.FormatPDF:
		return s.processor.EncodePDF(fit.Bytes)
	case entity.FormatPNG:
		img, err := s.processor.Decode(fit.Bytes)
		if err != nil {
			return nil, err
		}
		if !ladder {
			return s.processor.EncodePNG(img, png.DefaultCompression)
		}
		var data []byte
		for _, level := range processor.PNGLevels {
			data, err = s.processor.EncodePNG(img, level)
			if err != nil {
				return nil, err
			}
			if compress.SizeKB(len(data)) <= targetKB {
				break
			}
		}
		return data, nil
	default:
		return nil, fmt.Errorf("%w: output format %q", entity.ErrUnsupportedFile, format)
	}
}

func (s *compressionService) warning(warnings []string, quality int) string {
	if s.gate.Low(quality) {
		warnings = append(warnings, fmt.Sprintf("(Low quality: %d)", quality))
	}
	return strings.Join(warnings, " ")
}

func (s *compressionService) record(ctx context.Context, report *entity.JobReport, batch bool) {
	log := logrus.WithField("job_id", report.ID)

	if err := s.repo.Save(ctx, report); err != nil {
		log.WithError(err).Error("could not save job report")
	}
	if err := s.producer.Publish(ctx, entity.CompressionEvent{Report: *report, Batch: batch}); err != nil {
		log.WithError(err).Error("could not publish compression event")
	}
}

func (s *compressionService) GetJob(ctx context.Context, id string) (*entity.JobReport, error) {
	return s.repo.FindByID(ctx, id)
}

func sizeWarning(format entity.Format, size int, targetKB int) string {
	return fmt.Sprintf("Warning: %s output size is %.2fKB, which may not match requested %dKB due to format limitations.",
		format.Upper(), compress.SizeKB(size), targetKB)
}

func memberName(base string, format entity.Format) string {
	return fmt.Sprintf("compressed_%s.%s", base, format)
}

// baseName strips directories and the extension from a client supplied name.
func baseName(filename string) string {
	name := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if name == "" || name == "." || name == "/" {
		return "image"
	}
	return name
}
