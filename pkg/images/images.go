package images

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"math"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"

	"github.com/st3ffan/hack-the-stackathon/pkg/api/logger"
)

const (
	DataURIPrefix = "data:image/jpeg;base64,"

	// MaxPixels is the largest image Voyage accepts without rejecting the input.
	MaxPixels = 16_000_000

	jpegQuality = 90
	maxParallel = 4
)

// Image is a loaded local image file.
type Image struct {
	Filename string
	Data     []byte
}

func (i Image) DataURI() string {
	return DataURI(i.Data)
}

func DataURI(data []byte) string {
	return DataURIPrefix + base64.StdEncoding.EncodeToString(data)
}

// Names returns the fixed file names 1.jpg..count.jpg.
func Names(count int) []string {
	return lo.Times(count, func(i int) string {
		return fmt.Sprintf("%d.jpg", i+1)
	})
}

type Store struct {
	fs        afero.Fs
	dir       string
	log       logger.Logger
	maxPixels int
}

type Option func(s *Store)

func WithMaxPixels(maxPixels int) Option {
	return func(s *Store) {
		s.maxPixels = maxPixels
	}
}

func NewStore(fs afero.Fs, dir string, log logger.Logger, opts ...Option) *Store {
	s := &Store{
		fs:        fs,
		dir:       dir,
		log:       log,
		maxPixels: MaxPixels,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) Read(name string) ([]byte, error) {
	path := filepath.Join(s.dir, name)
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read image %s", path)
	}
	return data, nil
}

// LoadAll reads 1.jpg..count.jpg in name order. Missing files are skipped with a
// warning; images over the pixel budget are downscaled for upload.
func (s *Store) LoadAll(ctx context.Context, count int) ([]Image, error) {
	names := Names(count)
	loaded := make([]*Image, len(names))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)
	for idx, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := afero.ReadFile(s.fs, filepath.Join(s.dir, name))
			if errors.Is(err, os.ErrNotExist) {
				s.log.Warn(ctx, "image not found, skipping: %s", name)
				return nil
			}
			if err != nil {
				return errors.Wrapf(err, "failed to read image %s", name)
			}
			prepared, resized, err := Prepare(data, s.maxPixels)
			if err != nil {
				return errors.Wrapf(err, "failed to prepare image %s", name)
			}
			if resized {
				s.log.Debug(ctx, "downscaled %s to fit %d pixels", name, s.maxPixels)
			}
			loaded[idx] = &Image{Filename: name, Data: prepared}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return lo.FilterMap(loaded, func(img *Image, _ int) (Image, bool) {
		if img == nil {
			return Image{}, false
		}
		return *img, true
	}), nil
}

// Prepare downscales images larger than maxPixels and re-encodes them as JPEG.
// Data that is within budget, or that cannot be decoded, is returned unchanged.
func Prepare(data []byte, maxPixels int) ([]byte, bool, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || maxPixels <= 0 || cfg.Width*cfg.Height <= maxPixels {
		return data, false, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, false, errors.Wrapf(err, "failed to decode image")
	}

	ratio := math.Sqrt(float64(maxPixels) / float64(cfg.Width*cfg.Height))
	width := max(1, int(float64(cfg.Width)*ratio))
	height := max(1, int(float64(cfg.Height)*ratio))

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, false, errors.Wrapf(err, "failed to encode image")
	}
	return buf.Bytes(), true, nil
}
