package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/ds124wfegd/sizefit/internal/entity"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readArchive(t *testing.T, data []byte) map[string]int {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	sizes := make(map[string]int, len(zr.File))
	for _, f := range zr.File {
		sizes[f.Name] = int(f.UncompressedSize64)
	}
	return sizes
}

func TestCompressBatch(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.svc.CompressBatch(context.Background(), entity.BatchUpload{
		Prompt: "500kb",
		Files: []entity.Upload{
			upload("a.png", kb1000, "", false),
			upload("tiny.png", []byte("0123456789"), "", false),
			upload("b.png", kb1000, "", false),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "compressed_files.zip", out.Filename)
	assert.Equal(t, "application/zip", out.ContentType)
	assert.Equal(t, []string{"tiny.png"}, out.Skipped)
	assert.Empty(t, out.Warning)
	assert.Equal(t, map[string]int{
		"compressed_a.jpeg": 500 * 1024,
		"compressed_b.jpeg": 500 * 1024,
	}, readArchive(t, out.Data))

	require.Len(t, env.producer.events, 1)
	event := env.producer.events[0]
	assert.True(t, event.Batch)
	assert.Equal(t, out.JobID, event.Report.ID)
	assert.Equal(t, entity.JobStatusWarning, event.Report.Status)
	assert.Equal(t, 50, event.Report.QualityLevel)

	env.assertNoStagedFiles(t)
}

func TestCompressBatchQualityGate(t *testing.T) {
	env := newTestEnv(t)
	files := []entity.Upload{upload("a.png", kb1000, "", false)}

	_, err := env.svc.CompressBatch(context.Background(), entity.BatchUpload{Prompt: "200kb", Files: files})
	require.ErrorIs(t, err, entity.ErrNothingToPack)
	assert.True(t, entity.IsValidation(err))
	assert.Contains(t, err.Error(), "a.png")

	out, err := env.svc.CompressBatch(context.Background(), entity.BatchUpload{Prompt: "200kb", Files: files, Force: true})
	require.NoError(t, err)
	assert.Equal(t, "(Low quality: 20)", out.Warning)
	assert.Empty(t, out.Skipped)
}

func TestCompressBatchDuplicateNames(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.svc.CompressBatch(context.Background(), entity.BatchUpload{
		Prompt: "500kb",
		Files: []entity.Upload{
			upload("a.png", kb1000, "", false),
			upload("a.png", kb1000, "", false),
		},
	})
	require.NoError(t, err)

	sizes := readArchive(t, out.Data)
	assert.Contains(t, sizes, "compressed_a.jpeg")
	assert.Contains(t, sizes, "compressed_a_2.jpeg")
}

func TestCompressBatchValidation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.CompressBatch(context.Background(), entity.BatchUpload{
		Prompt: "smaller please",
		Files:  []entity.Upload{upload("a.png", kb1000, "", false)},
	})
	assert.ErrorIs(t, err, entity.ErrNoTargetSize)

	_, err = env.svc.CompressBatch(context.Background(), entity.BatchUpload{Prompt: "500kb"})
	assert.ErrorIs(t, err, entity.ErrNoImageProvided)
}

func TestUniqueName(t *testing.T) {
	used := make(map[string]int)

	assert.Equal(t, "compressed_a.jpeg", uniqueName(used, "compressed_a.jpeg"))
	assert.Equal(t, "compressed_a_2.jpeg", uniqueName(used, "compressed_a.jpeg"))
	assert.Equal(t, "compressed_a_3.jpeg", uniqueName(used, "compressed_a.jpeg"))
	assert.Equal(t, "compressed_b.jpeg", uniqueName(used, "compressed_b.jpeg"))
}
