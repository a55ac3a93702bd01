package processor

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/ds124wfegd/sizefit/internal/entity"
	"github.com/gabriel-vasile/mimetype"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/sirupsen/logrus"
	_ "golang.org/x/image/webp"
)

const (
	MIMEPDF = "application/pdf"

	maxImageDimension = 32768
	maxImagePixels    = 64 * 1024 * 1024
)

// PNGLevels is the order PNG compression levels are tried in, largest output first.
var PNGLevels = []png.CompressionLevel{
	png.NoCompression,
	png.BestSpeed,
	png.DefaultCompression,
	png.BestCompression,
}

type ImageProcessor interface {
	DetectMIME(path string) (string, error)
	// Load reads the file at path as an image, or as a PDF whose first
	// embedded image on page 1 is used. The result is always opaque.
	Load(path string, mime string) (image.Image, error)
	Decode(data []byte) (image.Image, error)
	EncodeJPEG(img image.Image, quality int) ([]byte, error)
	EncodePNG(img image.Image, level png.CompressionLevel) ([]byte, error)
	EncodePDF(jpegData []byte) ([]byte, error)
}

type imageProcessor struct {
	pdfConf *model.Configuration
}

func NewImageProcessor() ImageProcessor {
	api.DisableConfigDir()
	return &imageProcessor{pdfConf: model.NewDefaultConfiguration()}
}

func (p *imageProcessor) DetectMIME(path string) (string, error) {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return "", fmt.Errorf("detect mime type: %w", err)
	}

	switch {
	case mtype.Is(MIMEPDF):
		return MIMEPDF, nil
	case strings.HasPrefix(mtype.String(), "image/"):
		return mtype.String(), nil
	default:
		return "", fmt.Errorf("%w: %s", entity.ErrUnsupportedFile, mtype.String())
	}
}

func (p *imageProcessor) Load(path string, mime string) (image.Image, error) {
	var (
		img image.Image
		err error
	)

	switch {
	case mime == MIMEPDF:
		img, err = p.extractFromPDF(path)
	case strings.HasPrefix(mime, "image/"):
		img, err = p.loadImage(path)
	default:
		return nil, fmt.Errorf("%w: %s", entity.ErrUnsupportedFile, mime)
	}
	if err != nil {
		return nil, err
	}

	return Normalize(img), nil
}

func (p *imageProcessor) loadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	cfg, format, err := image.DecodeConfig(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read image header: %w", err)
	}
	if err := validateBounds(cfg.Width, cfg.Height); err != nil {
		return nil, err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	img, err := imaging.Decode(file, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s image: %w", format, err)
	}
	return img, nil
}

func (p *imageProcessor) extractFromPDF(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	pages, err := api.ExtractImagesRaw(file, []string{"1"}, p.pdfConf)
	if err != nil {
		return nil, fmt.Errorf("failed to read pdf: %w", err)
	}

	// Object numbers grow in file order, the smallest is the first image.
	var (
		first model.Image
		found bool
	)
	for _, page := range pages {
		for objNr, img := range page {
			if !found || objNr < first.ObjNr {
				first, found = img, true
			}
		}
	}
	if !found {
		return nil, entity.ErrNoImageInPDF
	}

	// Raw extraction leaves Width and Height unset, the header has them.
	data, err := io.ReadAll(first)
	if err != nil {
		return nil, fmt.Errorf("failed to read pdf image: %w", err)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: pdf image of type %s: %v", entity.ErrUnsupportedFile, first.FileType, err)
	}

	logrus.WithFields(logrus.Fields{
		"obj_nr":    first.ObjNr,
		"file_type": first.FileType,
		"format":    format,
		"width":     cfg.Width,
		"height":    cfg.Height,
	}).Debug("extracted image from pdf")

	if err := validateBounds(cfg.Width, cfg.Height); err != nil {
		return nil, err
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(false))
	if err != nil {
		return nil, fmt.Errorf("failed to decode pdf image: %w", err)
	}
	return img, nil
}

func (p *imageProcessor) Decode(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

func (p *imageProcessor) EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (p *imageProcessor) EncodePNG(img image.Image, level png.CompressionLevel) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG, imaging.PNGCompressionLevel(level)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodePDF wraps an already encoded JPEG into a single page PDF.
func (p *imageProcessor) EncodePDF(jpegData []byte) ([]byte, error) {
	var buf bytes.Buffer
	imp := pdfcpu.DefaultImportConfig()
	if err := api.ImportImages(nil, &buf, []io.Reader{bytes.NewReader(jpegData)}, imp, p.pdfConf); err != nil {
		return nil, fmt.Errorf("failed to build pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// Normalize drops transparency and palettes: opaque images are copied as
// NRGBA, anything with alpha is flattened onto white.
func Normalize(img image.Image) image.Image {
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return imaging.Clone(img)
	}

	b := img.Bounds()
	bg := imaging.New(b.Dx(), b.Dy(), color.White)
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
}

func validateBounds(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("image bounds invalid (%d x %d)", width, height)
	}
	if width > maxImageDimension || height > maxImageDimension {
		return fmt.Errorf("image dimension exceeds limit (%d x %d)", width, height)
	}
	if pixels := int64(width) * int64(height); pixels > maxImagePixels {
		return fmt.Errorf("image pixel count %d exceeds limit %d", pixels, maxImagePixels)
	}
	return nil
}
