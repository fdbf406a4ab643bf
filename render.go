package asciicaptcha

import (
	"math/rand"

	"github.com/fogleman/gg"

	"github.com/wbrown/asciicaptcha/imageutil"
)

// randJitter draws a uniform offset in [-j, j]. A single value is consumed
// even when j is zero, so seeded replays stay aligned across jitter
// settings.
func randJitter(rng *rand.Rand, j int) int {
	if j < 0 {
		j = 0
	}
	return rng.Intn(2*j+1) - j
}

// RenderLines composites the given text lines onto a fresh canvas and runs
// the noise stages over it. The canvas is owned exclusively by this call;
// nothing is shared with concurrent renders.
//
// Canvas geometry follows the line grid: each cell is FontSize/2+Spacing
// wide and FontSize+2 tall. Empty input produces a 2x2 white canvas.
func RenderLines(lines []string, p RenderParams, lf *LoadedFont, rng *rand.Rand) (*imageutil.RGBAImage, error) {
	maxLen := 0
	for _, line := range lines {
		if n := len([]rune(line)); n > maxLen {
			maxLen = n
		}
	}
	if len(lines) == 0 || maxLen == 0 {
		img := imageutil.NewRGBAImage(2, 2)
		for i := range img.Pix {
			img.Pix[i] = 255
		}
		return img, nil
	}

	charW := p.FontSize/2 + p.Spacing
	if charW < 1 {
		charW = 1
	}
	charH := p.FontSize + 2
	width := charW * maxLen
	height := charH * len(lines)

	img := imageutil.NewRGBAImage(width, height)
	dc := gg.NewContextForRGBA(img.RGBA)
	dc.SetRGB255(255, 255, 255)
	dc.Clear()

	face := lf.Face(float64(p.FontSize))
	defer face.Close()
	dc.SetFontFace(face)
	ascent := face.Metrics().Ascent.Ceil()

	dc.SetRGB255(0, 0, 0)
	for r, line := range lines {
		// Center the line's measured advance inside the cell grid.
		xOff := 0
		if lw, _ := lf.Measure(line, float64(p.FontSize)); lw < width {
			xOff = (width - lw) / 2
		}
		for c, ch := range []rune(line) {
			x := xOff + c*charW + randJitter(rng, p.Jitter)
			y := r*charH + randJitter(rng, p.Jitter)
			if ch == ' ' {
				continue
			}
			dc.DrawString(string(ch), float64(x), float64(y+ascent))
		}
	}

	for _, stage := range p.Stages() {
		img = stage(img, rng)
	}
	return img, nil
}
