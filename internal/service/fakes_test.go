package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"sync"

	"github.com/ds124wfegd/sizefit/internal/entity"
)

// fakeProcessor makes encoded sizes a pure function of quality so search
// results can be asserted exactly.
type fakeProcessor struct {
	mime     string
	mimeErr  error
	loadErr  error
	jpegKB   func(quality int) int
	pngKB    map[png.CompressionLevel]int
	encoded  []int
	pngCalls []png.CompressionLevel
}

func newFakeProcessor() *fakeProcessor {
	return &fakeProcessor{
		mime:   "image/png",
		jpegKB: func(q int) int { return q * 10 },
		pngKB: map[png.CompressionLevel]int{
			png.NoCompression:      900,
			png.BestSpeed:          600,
			png.DefaultCompression: 480,
			png.BestCompression:    450,
		},
	}
}

func (f *fakeProcessor) DetectMIME(path string) (string, error) {
	if f.mimeErr != nil {
		return "", f.mimeErr
	}
	return f.mime, nil
}

func (f *fakeProcessor) Load(path string, mime string) (image.Image, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return image.NewNRGBA(image.Rect(0, 0, 4, 4)), nil
}

func (f *fakeProcessor) Decode(data []byte) (image.Image, error) {
	return image.NewNRGBA(image.Rect(0, 0, 4, 4)), nil
}

func (f *fakeProcessor) EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	f.encoded = append(f.encoded, quality)
	data := make([]byte, f.jpegKB(quality)*1024)
	copy(data, []byte{0xFF, 0xD8})
	return data, nil
}

func (f *fakeProcessor) EncodePNG(img image.Image, level png.CompressionLevel) ([]byte, error) {
	f.pngCalls = append(f.pngCalls, level)
	return make([]byte, f.pngKB[level]*1024), nil
}

func (f *fakeProcessor) EncodePDF(jpegData []byte) ([]byte, error) {
	return append([]byte("%PDF-"), jpegData...), nil
}

type memoryRepository struct {
	mu      sync.Mutex
	reports map[string]*entity.JobReport
	err     error
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{reports: make(map[string]*entity.JobReport)}
}

func (r *memoryRepository) Save(ctx context.Context, report *entity.JobReport) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *report
	r.reports[report.ID] = &cp
	return nil
}

func (r *memoryRepository) FindByID(ctx context.Context, id string) (*entity.JobReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	report, ok := r.reports[id]
	if !ok {
		return nil, entity.ErrJobNotFound
	}
	return report, nil
}

func (r *memoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.reports, id)
	return nil
}

type recordingProducer struct {
	mu     sync.Mutex
	events []entity.CompressionEvent
	err    error
}

func (p *recordingProducer) Publish(ctx context.Context, event entity.CompressionEvent) error {
	if p.err != nil {
		return p.err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingProducer) Close() error { return nil }

func upload(name string, data []byte, prompt string, force bool) entity.Upload {
	return entity.Upload{
		Filename: name,
		Size:     int64(len(data)),
		Prompt:   prompt,
		Force:    force,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

var errBroken = errors.New("broken")
