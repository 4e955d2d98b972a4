package export

import (
	"bufio"
	"image"
	"image/color"
	"os"

	"github.com/mdouchement/hdr/codec/rgbe"
	"github.com/mdouchement/hdr/hdrcolor"
	"github.com/richinsley/goframeview/animation"
)

// frameImage exposes one frame of a float source as an hdr.Image.
type frameImage struct {
	src   *animation.Source
	frame int
}

func (f frameImage) ColorModel() color.Model { return hdrcolor.RGBModel }
func (f frameImage) Bounds() image.Rectangle { return image.Rect(0, 0, f.src.Width, f.src.Height) }
func (f frameImage) At(x, y int) color.Color { return f.HDRAt(x, y) }
func (f frameImage) Size() int               { return f.src.Width * f.src.Height }

func (f frameImage) HDRAt(x, y int) hdrcolor.Color {
	s, t := f.src, f.frame
	switch s.Channels {
	case 1:
		v := s.Sample(t, y, x, 0)
		return hdrcolor.RGB{R: v, G: v, B: v}
	case 2:
		return hdrcolor.RGB{R: s.Sample(t, y, x, 0), G: s.Sample(t, y, x, 1)}
	}
	return hdrcolor.RGB{R: s.Sample(t, y, x, 0), G: s.Sample(t, y, x, 1), B: s.Sample(t, y, x, 2)}
}

func writeHDR(path string, src *animation.Source, frame int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := rgbe.Encode(w, frameImage{src, frame}); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
