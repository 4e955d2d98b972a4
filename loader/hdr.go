package loader

import (
	"bufio"
	"fmt"
	"os"

	"github.com/mdouchement/hdr"
	"github.com/mdouchement/hdr/codec/rgbe"
	"github.com/richinsley/goframeview/animation"
)

// loadHDR decodes a Radiance RGBE image into a linear float32 RGB source.
func loadHDR(name, path string) (*animation.Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, err := rgbe.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	m, ok := img.(hdr.Image)
	if !ok {
		return nil, fmt.Errorf("%s did not decode to an HDR image", path)
	}
	b := m.Bounds()
	w, h := b.Dx(), b.Dy()
	data := make([]float32, w*h*3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bl, _ := m.HDRAt(b.Min.X+x, b.Min.Y+y).HDRRGBA()
			i := (y*w + x) * 3
			data[i], data[i+1], data[i+2] = float32(r), float32(g), float32(bl)
		}
	}
	return animation.NewFloat32Source(name, 1, h, w, 3, data)
}
