package session

import (
	"fmt"
	"image"
	"log"

	"github.com/richinsley/goframeview/crop"
	"github.com/richinsley/goframeview/inputs"
)

const nothingSelected = "nothing to do: no selection"

// region converts the current selection into bounds over frames
// [frame, frame+frames) of the active source.
func (s *Session) region(frames int) (crop.Region, bool) {
	c, ok := s.sel.Corners()
	if !ok {
		return crop.Region{}, false
	}
	return crop.NewRegion(c, s.anim.FrameIndex(), frames, s.anim.Width(), s.anim.Height(), s.anim.FrameCount()), true
}

func (s *Session) copyCoordinates() Mutation {
	const a = inputs.CopyCoordinates
	r, ok := s.region(1)
	if !ok {
		return Mutation{Kind: NoOp, Action: a, Detail: nothingSelected}
	}
	text := crop.CoordinatesText(s.anim.ActiveSource().Name, r)
	if err := s.export(func(e Exporter) error { return e.CopyText(text) }); err != nil {
		log.Printf("Copying selection coordinates failed: %v", err)
		return Mutation{Kind: ExportFailed, Action: a, Detail: err.Error()}
	}
	log.Printf("Copied selection coordinates: %s", text)
	return Mutation{Kind: Exported, Action: a, Detail: text}
}

func (s *Session) copyPixels() Mutation {
	const a = inputs.CopyPixels
	r, ok := s.region(1)
	if !ok || s.sel.Area() == 0 || r.Empty() {
		return Mutation{Kind: NoOp, Action: a, Detail: nothingSelected}
	}
	frame := s.anim.FrameAsDisplayPixels(s.anim.FrameIndex())
	img := cropRGBA(frame, image.Rect(r.X0, r.Y0, r.X1, r.Y1))
	if err := s.export(func(e Exporter) error { return e.CopyImage(img) }); err != nil {
		log.Printf("Copying selection pixels failed: %v", err)
		return Mutation{Kind: ExportFailed, Action: a, Detail: err.Error()}
	}
	detail := fmt.Sprintf("%dx%d pixels", img.Rect.Dx(), img.Rect.Dy())
	log.Printf("Copied %s to the clipboard", detail)
	return Mutation{Kind: Exported, Action: a, Detail: detail}
}

func (s *Session) saveCrop() Mutation {
	const a = inputs.SaveCrop
	r, ok := s.region(crop.MaxExportFrames)
	if !ok || s.sel.Area() == 0 || r.Empty() {
		return Mutation{Kind: NoOp, Action: a, Detail: nothingSelected}
	}
	src := s.anim.ActiveSource()
	cropped, err := src.Crop(r.T0, r.T1, r.X0, r.X1, r.Y0, r.Y1)
	if err != nil {
		log.Printf("Saving crop failed: %v", err)
		return Mutation{Kind: ExportFailed, Action: a, Detail: err.Error()}
	}
	name := crop.Filename(src.Name, r, s.ArrayExt)
	if err := s.export(func(e Exporter) error { return e.SaveArray(name, cropped) }); err != nil {
		log.Printf("Saving crop to %s failed: %v", name, err)
		return Mutation{Kind: ExportFailed, Action: a, Detail: err.Error()}
	}
	log.Printf("Saved crop to %s", name)
	return Mutation{Kind: Exported, Action: a, Detail: name}
}

func (s *Session) export(fn func(Exporter) error) error {
	if s.exporter == nil {
		return fmt.Errorf("no exporter configured")
	}
	return fn(s.exporter)
}

// cropRGBA copies r out of img into a new image with a zero origin.
func cropRGBA(img *image.RGBA, r image.Rectangle) *image.RGBA {
	r = r.Intersect(img.Rect)
	out := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	for y := 0; y < r.Dy(); y++ {
		src := img.Pix[img.PixOffset(r.Min.X, r.Min.Y+y):]
		copy(out.Pix[y*out.Stride:(y+1)*out.Stride], src[:r.Dx()*4])
	}
	return out
}
