package loader

import (
	"context"
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"
	"github.com/richinsley/goframeview/animation"
	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"
)

// loadPDF rasterises each page as one RGB frame. Pages whose size differs
// from the first page are resampled to it.
func loadPDF(ctx context.Context, path string, opts Options) (*animation.Source, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	pages := opts.limit(doc.NumPage())
	if pages == 0 {
		doc.Close()
		return nil, fmt.Errorf("%s has no pages", path)
	}
	first, err := doc.ImageDPI(0, opts.dpi())
	doc.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to render page 1 of %s: %w", path, err)
	}
	b := first.Bounds()
	width, height := b.Dx(), b.Dy()
	frameLen := width * height * 3
	if err := checkMemory(uint64(frameLen)*uint64(pages), opts); err != nil {
		return nil, err
	}
	data := make([]uint8, frameLen*pages)
	samples(first, 3, data[:frameLen])

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers())
	for i := 1; i < pages; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// fitz documents are not safe for concurrent use
			workerDoc, err := fitz.New(path)
			if err != nil {
				return err
			}
			defer workerDoc.Close()
			img, err := workerDoc.ImageDPI(i, opts.dpi())
			if err != nil {
				return fmt.Errorf("failed to render page %d of %s: %w", i+1, path, err)
			}
			samples(fitPage(img, width, height), 3, data[i*frameLen:(i+1)*frameLen])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return animation.NewUint8Source(stem(path), pages, height, width, 3, data)
}

func fitPage(img image.Image, width, height int) image.Image {
	b := img.Bounds()
	if b.Dx() == width && b.Dy() == height {
		return img
	}
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
