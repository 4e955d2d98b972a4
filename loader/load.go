// Package loader decodes files and directories into animation sources.
package loader

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/richinsley/goframeview/animation"
	"golang.org/x/sync/errgroup"
)

// ErrUnsupportedFormat is returned for paths whose extension no decoder handles.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Options control decoding. A zero Options is usable.
type Options struct {
	// MaxFrames caps the number of frames read from videos, PDFs and
	// image directories. Zero reads everything.
	MaxFrames int
	// FFmpegPath overrides the ffmpeg binary used for video input.
	FFmpegPath string
	// PDFDPI is the page rasterisation resolution.
	PDFDPI float64
	// Workers bounds parallel decoding. Zero means runtime.NumCPU().
	Workers int
	// SkipMemoryCheck disables the available-memory guard.
	SkipMemoryCheck bool
}

const defaultPDFDPI = 96

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.NumCPU()
}

func (o Options) dpi() float64 {
	if o.PDFDPI > 0 {
		return o.PDFDPI
	}
	return defaultPDFDPI
}

func (o Options) limit(n int) int {
	if o.MaxFrames > 0 && n > o.MaxFrames {
		return o.MaxFrames
	}
	return n
}

var (
	videoExts = map[string]bool{".mp4": true, ".avi": true, ".mov": true, ".mkv": true, ".webm": true, ".m4v": true}
	imageExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".bmp": true, ".tif": true, ".tiff": true, ".webp": true, ".gif": true}
	hdrExts   = map[string]bool{".hdr": true, ".pic": true}
)

// Load decodes one path into one or more sources. The returned frame rate
// is the native rate of a video input and zero for everything else.
func Load(ctx context.Context, path string, opts Options) ([]*animation.Source, float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, 0, err
	}
	name := stem(path)
	if info.IsDir() {
		src, err := loadImageDir(ctx, path, opts)
		if err != nil {
			return nil, 0, err
		}
		return []*animation.Source{src}, 0, nil
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case videoExts[ext]:
		src, fps, err := loadVideo(ctx, path, opts)
		if err != nil {
			return nil, 0, err
		}
		return []*animation.Source{src}, fps, nil
	case imageExts[ext]:
		src, err := loadImage(name, path)
		if err != nil {
			return nil, 0, err
		}
		return []*animation.Source{src}, 0, nil
	case hdrExts[ext]:
		src, err := loadHDR(name, path)
		if err != nil {
			return nil, 0, err
		}
		return []*animation.Source{src}, 0, nil
	case ext == ".pdf":
		src, err := loadPDF(ctx, path, opts)
		if err != nil {
			return nil, 0, err
		}
		return []*animation.Source{src}, 0, nil
	case ext == ".npy":
		src, err := loadNPY(name, path, opts)
		if err != nil {
			return nil, 0, err
		}
		return []*animation.Source{src}, 0, nil
	case ext == ".npz":
		srcs, err := loadNPZ(path, opts)
		if err != nil {
			return nil, 0, err
		}
		return srcs, 0, nil
	}
	return nil, 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// LoadAll decodes every path in parallel and returns the sources in path
// order. Colliding names get _2, _3, ... suffixes. The frame rate is the
// first non-zero native rate among the inputs.
func LoadAll(ctx context.Context, paths []string, opts Options) ([]*animation.Source, float64, error) {
	type result struct {
		sources []*animation.Source
		fps     float64
	}
	results := make([]result, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers())
	for i, p := range paths {
		g.Go(func() error {
			srcs, fps, err := Load(gctx, p, opts)
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", p, err)
			}
			results[i] = result{srcs, fps}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	var sources []*animation.Source
	var fps float64
	for i, r := range results {
		for _, s := range r.sources {
			log.Printf("Loaded %s from %s: %dx%dx%d, %d frames, %s", s.Name, paths[i], s.Width, s.Height, s.Channels, s.Frames, s.Format)
		}
		sources = append(sources, r.sources...)
		if fps == 0 {
			fps = r.fps
		}
	}
	UniqueNames(sources)
	return sources, fps, nil
}

// UniqueNames renames sources in place so that no two share a name.
func UniqueNames(sources []*animation.Source) {
	seen := make(map[string]int)
	for _, s := range sources {
		if s.Name == "" {
			s.Name = "source"
		}
		base := s.Name
		seen[base]++
		if seen[base] == 1 {
			continue
		}
		for n := seen[base]; ; n++ {
			candidate := base + "_" + strconv.Itoa(n)
			if seen[candidate] == 0 {
				s.Name = candidate
				seen[candidate] = 1
				seen[base] = n
				break
			}
		}
	}
}

func stem(path string) string {
	base := filepath.Base(filepath.Clean(path))
	return strings.TrimSuffix(base, filepath.Ext(base))
}
