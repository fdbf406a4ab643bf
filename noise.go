package asciicaptcha

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"math/rand"

	"github.com/fogleman/gg"

	"github.com/wbrown/asciicaptcha/imageutil"
)

// Stage is one perturbation pass. Stages take and return the canvas so a
// pass may either mutate it in place or replace the whole buffer, as the
// global blur does.
type Stage func(img *imageutil.RGBAImage, rng *rand.Rand) *imageutil.RGBAImage

// Stages returns the perturbation passes for p in their fixed order: noise
// lines, the shape overlay (blur shapes plus extra shapes), pixel speckle,
// and the optional whole-canvas blur. Disabled passes are no-ops.
func (p RenderParams) Stages() []Stage {
	return []Stage{
		p.noiseLineStage(),
		p.shapeStage(),
		p.speckleStage(),
		p.globalBlurStage(),
	}
}

// clampCount treats negative pass counts as disabled.
func clampCount(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// spanStart picks a coordinate in [0, limit], where limit is the canvas
// extent minus the shape's maximum reach, floored at zero.
func spanStart(rng *rand.Rand, limit int) int {
	if limit < 0 {
		limit = 0
	}
	return rng.Intn(limit + 1)
}

// noiseLineStage draws straight gray strokes with random endpoints, tone
// and width across the whole canvas.
func (p RenderParams) noiseLineStage() Stage {
	count := clampCount(p.NoiseLines)
	return func(img *imageutil.RGBAImage, rng *rand.Rand) *imageutil.RGBAImage {
		if count == 0 {
			return img
		}
		w, h := img.Width(), img.Height()
		dc := gg.NewContextForRGBA(img.RGBA)
		for i := 0; i < count; i++ {
			x1, y1 := rng.Intn(w+1), rng.Intn(h+1)
			x2, y2 := rng.Intn(w+1), rng.Intn(h+1)
			g := 100 + rng.Intn(81)
			t := 1 + rng.Intn(2)
			dc.SetRGBA255(g, g, g, 255)
			dc.SetLineWidth(float64(t))
			dc.DrawLine(float64(x1), float64(y1), float64(x2), float64(y2))
			dc.Stroke()
		}
		return img
	}
}

// shapeStage draws the translucent shape overlay: BlurShapes ellipses and
// rectangles, each softened by a localized blur of its padded bounding box,
// then ExtraNoiseShapes arcs, chords, triangles and circles left sharp. The
// overlay is composited over the canvas in one pass.
func (p RenderParams) shapeStage() Stage {
	blurShapes := clampCount(p.BlurShapes)
	extraShapes := clampCount(p.ExtraNoiseShapes)
	radius := p.ShapeBlurRadius
	return func(img *imageutil.RGBAImage, rng *rand.Rand) *imageutil.RGBAImage {
		if blurShapes == 0 && extraShapes == 0 {
			return img
		}
		w, h := img.Width(), img.Height()
		overlay := imageutil.NewRGBAImage(w, h)
		dc := gg.NewContextForRGBA(overlay.RGBA)

		boxes := make([]image.Rectangle, 0, blurShapes)
		for i := 0; i < blurShapes; i++ {
			x1 := spanStart(rng, w-30)
			y1 := spanStart(rng, h-30)
			x2 := x1 + 15 + rng.Intn(36)
			y2 := y1 + 15 + rng.Intn(36)
			g := 90 + rng.Intn(71)
			a := 60 + rng.Intn(61)
			dc.SetRGBA255(g, g, g, a)
			if rng.Float64() < 0.5 {
				dc.DrawEllipse(float64(x1+x2)/2, float64(y1+y2)/2,
					float64(x2-x1)/2, float64(y2-y1)/2)
			} else {
				dc.DrawRectangle(float64(x1), float64(y1),
					float64(x2-x1), float64(y2-y1))
			}
			dc.Fill()
			boxes = append(boxes, image.Rect(x1, y1, x2, y2))
		}

		if radius > 0 {
			pad := int(math.Ceil(radius * 2))
			for _, b := range boxes {
				imageutil.GaussianBlurRegion(overlay, b.Inset(-pad), radius)
			}
		}

		for i := 0; i < extraShapes; i++ {
			x1 := spanStart(rng, w-50)
			y1 := spanStart(rng, h-50)
			x2 := x1 + 10 + rng.Intn(41)
			y2 := y1 + 10 + rng.Intn(41)
			g := 60 + rng.Intn(121)
			a := 40 + rng.Intn(61)
			drawExtraShape(dc, rng, x1, y1, x2, y2, g, a)
		}

		draw.Draw(img.RGBA, img.Bounds(), overlay.RGBA, image.Point{}, draw.Over)
		return img
	}
}

// drawExtraShape draws one of the four small shape kinds into the box
// (x1,y1)-(x2,y2): an open arc stroke, a filled chord, a triangle, or a
// circle anchored at the box origin.
func drawExtraShape(dc *gg.Context, rng *rand.Rand, x1, y1, x2, y2, g, a int) {
	cx, cy := float64(x1+x2)/2, float64(y1+y2)/2
	rx, ry := float64(x2-x1)/2, float64(y2-y1)/2

	switch rng.Intn(4) {
	case 0: // arc
		s, e := rng.Intn(361), rng.Intn(361)
		dc.SetRGBA255(g, g, g, 255)
		dc.SetLineWidth(1)
		dc.DrawEllipticalArc(cx, cy, rx, ry,
			gg.Radians(float64(s)), gg.Radians(float64(e)))
		dc.Stroke()
	case 1: // chord
		s, e := rng.Intn(361), rng.Intn(361)
		dc.SetRGBA255(g, g, g, a)
		dc.DrawEllipticalArc(cx, cy, rx, ry,
			gg.Radians(float64(s)), gg.Radians(float64(e)))
		dc.ClosePath()
		dc.Fill()
	case 2: // triangle
		dc.SetRGBA255(g, g, g, a)
		dc.MoveTo(float64(x1), float64(y1))
		dc.LineTo(float64(x2), float64(y1))
		dc.LineTo(float64(x1+x2)/2, float64(y2))
		dc.ClosePath()
		dc.Fill()
	default: // circle
		r := float64(x2-x1) / 2
		dc.SetRGBA255(g, g, g, a)
		dc.DrawCircle(float64(x1)+r, float64(y1)+r, r)
		dc.Fill()
	}
}

// speckleStage flips a PixelNoiseDensity fraction of canvas pixels to random
// gray values.
func (p RenderParams) speckleStage() Stage {
	density := p.PixelNoiseDensity
	return func(img *imageutil.RGBAImage, rng *rand.Rand) *imageutil.RGBAImage {
		if density <= 0 {
			return img
		}
		w, h := img.Width(), img.Height()
		count := int(float64(w*h) * density)
		for i := 0; i < count; i++ {
			x, y := rng.Intn(w), rng.Intn(h)
			v := uint8(rng.Intn(256))
			img.SetRGBA(x, y, color.RGBA{R: v, G: v, B: v, A: 255})
		}
		return img
	}
}

// globalBlurStage applies the final whole-canvas Gaussian blur when enabled.
func (p RenderParams) globalBlurStage() Stage {
	enabled := p.ApplyBlur && p.GaussianBlurRadius > 0
	radius := p.GaussianBlurRadius
	return func(img *imageutil.RGBAImage, rng *rand.Rand) *imageutil.RGBAImage {
		if !enabled {
			return img
		}
		return imageutil.GaussianBlur(img, radius)
	}
}
