// Package hud draws the status line and timeline slider shown along the
// bottom of the viewer window.
package hud

import (
	"image"
	"image/draw"
	"log"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/richinsley/goframeview/graphics"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

// Height is the height of the HUD strip in framebuffer pixels.
const Height = 56

const (
	fontSize  = 13
	statusRow = 14 // text baseline center, pixels from the top of the strip
)

var (
	faceOnce sync.Once
	face     font.Face
)

func fontFace() font.Face {
	faceOnce.Do(func() {
		f, err := truetype.Parse(gomono.TTF)
		if err != nil {
			log.Printf("Failed to parse HUD font: %v", err)
			return
		}
		face = truetype.NewFace(f, &truetype.Options{
			Size:    fontSize,
			DPI:     72,
			Hinting: font.HintingFull,
		})
	})
	return face
}

// Key captures everything that changes the HUD image, so callers can skip
// redrawing when it is unchanged.
type Key struct {
	Width       int
	Status      string
	HasTimeline bool
	Timeline    graphics.Timeline
}

func KeyOf(width int, o graphics.Overlay) Key {
	k := Key{Width: width, Status: o.Status}
	if o.Timeline != nil {
		k.HasTimeline = true
		k.Timeline = *o.Timeline
	}
	return k
}

// Draw renders the strip for a window width pixels wide. The result has
// premultiplied alpha, rows top to bottom.
func Draw(width int, o graphics.Overlay) *image.RGBA {
	if width < 1 {
		width = 1
	}
	dc := gg.NewContext(width, Height)
	dc.SetRGBA(0, 0, 0, 0.55)
	dc.DrawRectangle(0, 0, float64(width), Height)
	dc.Fill()

	if tl := o.Timeline; tl != nil {
		// slider coordinates have a bottom-left origin
		y := Height - tl.Y
		dc.SetLineCapRound()
		dc.SetLineWidth(tl.Stroke / 2)
		dc.SetRGBA(0.7, 0.7, 0.7, 1)
		dc.DrawLine(tl.X, y, tl.X+tl.Length, y)
		dc.Stroke()

		knob := tl.X + tl.Position*tl.Length
		dc.SetRGB(1, 1, 1)
		dc.DrawCircle(knob, y, tl.Stroke)
		dc.Fill()
	}

	if o.Status != "" {
		if f := fontFace(); f != nil {
			dc.SetFontFace(f)
		}
		dc.SetRGB(1, 1, 1)
		dc.DrawStringAnchored(o.Status, 8, statusRow, 0, 0.5)
	}

	if img, ok := dc.Image().(*image.RGBA); ok {
		return img
	}
	img := image.NewRGBA(image.Rect(0, 0, width, Height))
	draw.Draw(img, img.Rect, dc.Image(), image.Point{}, draw.Src)
	return img
}
