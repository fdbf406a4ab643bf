package asciicaptcha

import (
	"image"
	"strings"

	"github.com/golang/freetype"
	"golang.org/x/image/font"

	"github.com/wbrown/asciicaptcha/imageutil"
)

// glyphMargin is the pen offset from the canvas origin when rasterizing a
// source glyph. Keeps antialiased edges away from the clip border.
const glyphMargin = 10

// rampIndex buckets a normalized luminance in [0, 1] into one of n
// equal-width bins. Luminance exactly 1.0 lands in the last bin rather than
// off the end.
func rampIndex(lum float64, n int) int {
	idx := int(lum * float64(n))
	if idx >= n {
		idx = n - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}

// rasterizeGlyph draws a single character onto a white grayscale canvas of
// side size*2 and returns it.
func rasterizeGlyph(lf *LoadedFont, r rune, size int) (*imageutil.GrayImage, error) {
	side := size * 2
	img := imageutil.NewGrayImage(side, side)
	for i := range img.Pix {
		img.Pix[i] = 255
	}

	face := lf.Face(float64(size))
	ascent := face.Metrics().Ascent.Ceil()
	face.Close()

	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(lf.Font)
	ctx.SetFontSize(float64(size))
	ctx.SetClip(img.Bounds())
	ctx.SetDst(img.Gray)
	ctx.SetSrc(image.Black)
	ctx.SetHinting(font.HintingFull)

	if _, err := ctx.DrawString(string(r), freetype.Pt(glyphMargin, glyphMargin+ascent)); err != nil {
		return nil, &RenderError{Op: "rasterize glyph", Err: err}
	}
	return img, nil
}

// mapCells partitions a glyph bitmap into scale-sized cells, averages each
// cell's luminance, and maps it onto the ramp. Darkest cells take the first
// ramp character, lightest the last.
func mapCells(glyph *imageutil.GrayImage, ramp []rune, scale int) []string {
	cols := glyph.Width() / scale
	if cols < 1 {
		cols = 1
	}
	rows := glyph.Height() / scale
	if rows < 1 {
		rows = 1
	}

	lines := make([]string, rows)
	var sb strings.Builder
	for cy := 0; cy < rows; cy++ {
		sb.Reset()
		for cx := 0; cx < cols; cx++ {
			sum, count := 0, 0
			for y := cy * scale; y < (cy+1)*scale && y < glyph.Height(); y++ {
				for x := cx * scale; x < (cx+1)*scale && x < glyph.Width(); x++ {
					sum += int(glyph.GetGray(x, y))
					count++
				}
			}
			lum := float64(sum) / float64(count) / 255
			sb.WriteRune(ramp[rampIndex(lum, len(ramp))])
		}
		lines[cy] = sb.String()
	}
	return lines
}

// TextToASCII renders each character of text at the configured size,
// partitions the bitmap into density cells, and maps cell luminance onto the
// dark-to-light ramp. Per-character blocks are joined row-wise with a
// three-space gutter. The result is deterministic for identical inputs; no
// randomness is involved.
func TextToASCII(text, ramp string, lf *LoadedFont, p TextToASCIIParams) ([]string, error) {
	if ramp == "" {
		return nil, &ConfigError{Field: "ascii_chars", Reason: "ramp must not be empty"}
	}
	text = strings.ReplaceAll(text, " ", "")
	if text == "" {
		return nil, nil
	}
	scale := p.Scale
	if scale < 1 {
		scale = 1
	}
	rampRunes := []rune(ramp)

	blocks := make([][]string, 0, len(text))
	for _, r := range text {
		glyph, err := rasterizeGlyph(lf, r, p.FontSize)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, mapCells(glyph, rampRunes, scale))
	}

	rows := len(blocks[0])
	combined := make([]string, 0, rows)
	parts := make([]string, len(blocks))
	for r := 0; r < rows; r++ {
		for i, b := range blocks {
			parts[i] = b[r]
		}
		combined = append(combined, strings.Join(parts, "   "))
	}
	return combined, nil
}

// ImageToASCII converts an arbitrary raster image into ramp art, width
// columns wide. Rows are halved to compensate for character cells being
// roughly twice as tall as they are wide.
func ImageToASCII(img image.Image, ramp string, width int) ([]string, error) {
	if ramp == "" {
		return nil, &ConfigError{Field: "ramp", Reason: "must not be empty"}
	}
	if width <= 0 {
		return nil, &ConfigError{Field: "width", Reason: "must be positive"}
	}

	gray := imageutil.ToGrayscale(imageutil.RGBAImageFromImage(img))
	if gray.Width() == 0 || gray.Height() == 0 {
		return nil, nil
	}
	height := width * gray.Height() / gray.Width() / 2
	if height < 1 {
		height = 1
	}
	small := imageutil.ResizeGray(gray, width, height, imageutil.InterpolationArea)

	rampRunes := []rune(ramp)
	lines := make([]string, height)
	var sb strings.Builder
	for y := 0; y < height; y++ {
		sb.Reset()
		for x := 0; x < width; x++ {
			lum := float64(small.GetGray(x, y)) / 255
			sb.WriteRune(rampRunes[rampIndex(lum, len(rampRunes))])
		}
		lines[y] = sb.String()
	}
	return lines, nil
}
