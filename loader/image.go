package loader

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/richinsley/goframeview/animation"
	"github.com/rwcarlsen/goexif/exif"
	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

func loadImage(name, path string) (*animation.Source, error) {
	img, err := decodeImage(path)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	channels := channelsOf(img)
	data := make([]uint8, b.Dx()*b.Dy()*channels)
	samples(img, channels, data)
	return animation.NewUint8Source(name, 1, b.Dy(), b.Dx(), channels, data)
}

// decodeImage decodes path and applies its EXIF orientation, if any.
func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	if _, err := f.Seek(0, io.SeekStart); err == nil {
		img = orient(img, orientation(f))
	}
	return img, nil
}

// orientation reads the EXIF orientation tag, defaulting to 1 (upright).
func orientation(f *os.File) int {
	ex, err := exif.Decode(f)
	if err != nil {
		return 1
	}
	tag, err := ex.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	o, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return o
}

// orient returns src transformed so that an EXIF orientation o displays upright.
func orient(src image.Image, o int) image.Image {
	if o <= 1 || o > 8 {
		return src
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dw, dh := w, h
	if o >= 5 {
		dw, dh = h, w
	}
	dst := image.NewNRGBA(image.Rect(0, 0, dw, dh))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var dx, dy int
			switch o {
			case 2:
				dx, dy = w-1-x, y
			case 3:
				dx, dy = w-1-x, h-1-y
			case 4:
				dx, dy = x, h-1-y
			case 5:
				dx, dy = y, x
			case 6:
				dx, dy = h-1-y, x
			case 7:
				dx, dy = h-1-y, w-1-x
			case 8:
				dx, dy = y, w-1-x
			}
			dst.Set(dx, dy, src.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return dst
}

// channelsOf picks 1 for grayscale, 3 for opaque and 4 for translucent images.
func channelsOf(img image.Image) int {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return 1
	}
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return 3
	}
	return 4
}

// samples writes img into dst as rows of non-premultiplied 8-bit samples
// with the given channel count.
func samples(img image.Image, channels int, dst []uint8) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if g, ok := img.(*image.Gray); ok && channels == 1 {
		for y := 0; y < h; y++ {
			copy(dst[y*w:(y+1)*w], g.Pix[g.PixOffset(b.Min.X, b.Min.Y+y):])
		}
		return
	}
	n, ok := img.(*image.NRGBA)
	if !ok {
		n = image.NewNRGBA(image.Rect(0, 0, w, h))
		draw.Draw(n, n.Bounds(), img, b.Min, draw.Src)
	}
	for y := 0; y < h; y++ {
		row := n.Pix[n.PixOffset(n.Rect.Min.X, n.Rect.Min.Y+y):]
		for x := 0; x < w; x++ {
			p := row[x*4 : x*4+4]
			o := (y*w + x) * channels
			switch channels {
			case 1:
				dst[o] = uint8((299*int(p[0]) + 587*int(p[1]) + 114*int(p[2]) + 500) / 1000)
			default:
				copy(dst[o:o+channels], p[:channels])
			}
		}
	}
}

// loadImageDir reads every decodable image in dir, in name order, as the
// frames of one source. All images must share the first image's size.
func loadImageDir(ctx context.Context, dir string, opts Options) (*animation.Source, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !imageExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no images found in %s", dir)
	}
	sort.Strings(files)
	files = files[:opts.limit(len(files))]

	first, err := decodeImage(files[0])
	if err != nil {
		return nil, err
	}
	b := first.Bounds()
	width, height := b.Dx(), b.Dy()
	channels := channelsOf(first)
	frameLen := width * height * channels
	if err := checkMemory(uint64(frameLen)*uint64(len(files)), opts); err != nil {
		return nil, err
	}
	data := make([]uint8, frameLen*len(files))
	samples(first, channels, data[:frameLen])

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers())
	for i := 1; i < len(files); i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			img, err := decodeImage(files[i])
			if err != nil {
				return err
			}
			if r := img.Bounds(); r.Dx() != width || r.Dy() != height {
				return fmt.Errorf("%s is %dx%d, expected %dx%d like %s", files[i], r.Dx(), r.Dy(), width, height, files[0])
			}
			samples(img, channels, data[i*frameLen:(i+1)*frameLen])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return animation.NewUint8Source(stem(dir), len(files), height, width, channels, data)
}
