// Package export delivers selections to the clipboard and to disk.
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/fogleman/gg"
	"github.com/richinsley/goframeview/animation"
	"github.com/richinsley/goframeview/npyio"
	imgclip "golang.design/x/clipboard"
)

// System writes text and images to the system clipboard and crop arrays
// into Dir.
type System struct {
	Dir string
	// Preview also writes the first cropped frame next to each array:
	// a PNG for uint8 sources and a Radiance HDR file for float sources.
	Preview bool

	writeText  func(string) error
	writeImage func([]byte) error

	imageOnce sync.Once
	imageErr  error
}

// New returns a System saving into dir (the working directory when empty).
func New(dir string, preview bool) *System {
	s := &System{Dir: dir, Preview: preview}
	s.writeText = clipboard.WriteAll
	s.writeImage = s.clipboardImage
	return s
}

func (s *System) clipboardImage(pngData []byte) error {
	s.imageOnce.Do(func() {
		if err := imgclip.Init(); err != nil {
			s.imageErr = fmt.Errorf("failed to initialize image clipboard: %w", err)
		}
	})
	if s.imageErr != nil {
		return s.imageErr
	}
	imgclip.Write(imgclip.FmtImage, pngData)
	return nil
}

// CopyText places text on the clipboard.
func (s *System) CopyText(text string) error {
	if err := s.writeText(text); err != nil {
		return fmt.Errorf("failed to copy text: %w", err)
	}
	return nil
}

// CopyImage places img on the clipboard as PNG.
func (s *System) CopyImage(img *image.RGBA) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}
	if err := s.writeImage(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to copy image: %w", err)
	}
	return nil
}

// SaveArray writes src as a (frames, height, width, channels) .npy file.
func (s *System) SaveArray(name string, src *animation.Source) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	shape := src.Shape()
	if src.Format == animation.Uint8 {
		err = npyio.WriteFile(path, shape[:], src.U8, nil)
	} else {
		err = npyio.WriteFile(path, shape[:], nil, src.F32)
	}
	if err != nil {
		return err
	}
	if s.Preview {
		if p, err := s.writePreview(path, src); err != nil {
			log.Printf("Writing preview for %s failed: %v", path, err)
		} else {
			log.Printf("Wrote preview %s", p)
		}
	}
	return nil
}

func (s *System) path(name string) (string, error) {
	if s.Dir == "" {
		return name, nil
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	return filepath.Join(s.Dir, name), nil
}

func (s *System) writePreview(arrayPath string, src *animation.Source) (string, error) {
	base := strings.TrimSuffix(arrayPath, filepath.Ext(arrayPath))
	if src.Format == animation.Float32 {
		p := base + ".hdr"
		return p, writeHDR(p, src, 0)
	}
	p := base + ".png"
	dc := gg.NewContextForImage(animation.DisplayPixels(src, 0, 1, 1))
	return p, dc.SavePNG(p)
}
