// Package imaging normalizes uploaded images and writes thumbnails next to
// them using github.com/disintegration/imaging.
package imaging

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"io"
	"log/slog"

	"github.com/disintegration/imaging"
	"github.com/tendant/simple-cms/pkg/simplecms"
	"github.com/tendant/simple-cms/pkg/simplecms/objectkey"
)

// Defaults for Processor fields left zero.
const (
	DefaultMaxDimension  = 2048
	DefaultThumbnailSize = 300
	DefaultQuality       = 85
)

var formatMimeTypes = map[imaging.Format]string{
	imaging.JPEG: "image/jpeg",
	imaging.PNG:  "image/png",
	imaging.GIF:  "image/gif",
	imaging.TIFF: "image/tiff",
	imaging.BMP:  "image/bmp",
}

var _ simplecms.ImageProcessor = (*Processor)(nil)

// Processor implements simplecms.ImageProcessor.
type Processor struct {
	MaxDimension  int
	ThumbnailSize int
	Quality       int
	Logger        *slog.Logger
}

// New creates a processor with the default limits
func New(logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		MaxDimension:  DefaultMaxDimension,
		ThumbnailSize: DefaultThumbnailSize,
		Quality:       DefaultQuality,
		Logger:        logger,
	}
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// Process rewrites the original at locator flattened onto white, bounded to
// MaxDimension on both sides and re-encoded in its own format, then stores a
// square thumbnail at objectkey.ThumbnailKey(locator). A failed thumbnail is
// logged and leaves Thumbnail nil.
func (p *Processor) Process(ctx context.Context, store simplecms.BlobStore, locator string) (*simplecms.ImageResult, error) {
	format, err := imaging.FormatFromFilename(locator)
	if err != nil {
		return nil, fmt.Errorf("unsupported image format for %s: %w", locator, err)
	}

	img, err := p.load(ctx, store, locator)
	if err != nil {
		return nil, err
	}

	maxDim := orDefault(p.MaxDimension, DefaultMaxDimension)
	normalized := flatten(img)
	if b := normalized.Bounds(); b.Dx() > maxDim || b.Dy() > maxDim {
		normalized = imaging.Fit(normalized, maxDim, maxDim, imaging.Lanczos)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	_, size, err := p.store(ctx, store, locator, normalized, format)
	if err != nil {
		return nil, fmt.Errorf("failed to store normalized image: %w", err)
	}

	result := &simplecms.ImageResult{
		Width:  normalized.Bounds().Dx(),
		Height: normalized.Bounds().Dy(),
		Size:   size,
	}

	thumb, err := p.thumbnail(ctx, store, locator, normalized, format)
	if err != nil {
		p.logger().WarnContext(ctx, "thumbnail generation failed", "path", locator, "err", err)
		return result, nil
	}
	result.Thumbnail = thumb
	return result, nil
}

func (p *Processor) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.Default()
	}
	return p.Logger
}

func (p *Processor) load(ctx context.Context, store simplecms.BlobStore, locator string) (image.Image, error) {
	rc, err := store.Open(ctx, locator)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer rc.Close()

	img, err := imaging.Decode(rc, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

func (p *Processor) thumbnail(ctx context.Context, store simplecms.BlobStore, locator string, img image.Image, format imaging.Format) (*simplecms.Derivative, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	size := orDefault(p.ThumbnailSize, DefaultThumbnailSize)
	thumb := imaging.Fill(img, size, size, imaging.Center, imaging.Lanczos)

	thumbKey := objectkey.ThumbnailKey(locator)
	url, _, err := p.store(ctx, store, thumbKey, thumb, format)
	if err != nil {
		return nil, err
	}
	return &simplecms.Derivative{
		Locator: thumbKey,
		URL:     url,
		Width:   thumb.Bounds().Dx(),
		Height:  thumb.Bounds().Dy(),
	}, nil
}

// store encodes img and writes it at locator, returning its URL and size.
func (p *Processor) store(ctx context.Context, store simplecms.BlobStore, locator string, img image.Image, format imaging.Format) (string, int64, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format, imaging.JPEGQuality(orDefault(p.Quality, DefaultQuality))); err != nil {
		return "", 0, fmt.Errorf("failed to encode image: %w", err)
	}
	size := int64(buf.Len())
	url, err := store.Put(ctx, locator, io.Reader(&buf), formatMimeTypes[format])
	return url, size, err
}

// flatten composites img onto an opaque white canvas, dropping alpha.
func flatten(img image.Image) *image.NRGBA {
	b := img.Bounds()
	canvas := imaging.New(b.Dx(), b.Dy(), color.White)
	return imaging.Overlay(canvas, img, image.Pt(0, 0), 1.0)
}
