package imageutil

import (
	"bytes"
	"image"
	"image/color"
	"math"
	"testing"
)

func TestGaussianKernelNormalized(t *testing.T) {
	t.Parallel()

	for _, radius := range []float64{0.5, 1.0, 1.1, 2.0, 3.7} {
		k := GaussianKernel(radius)
		if len(k)%2 == 0 {
			t.Errorf("radius %v: kernel length %d is even", radius, len(k))
		}
		sum := 0.0
		for _, v := range k {
			sum += v
		}
		if math.Abs(sum-1.0) > 1e-9 {
			t.Errorf("radius %v: kernel sums to %v", radius, sum)
		}
		for i := 0; i < len(k)/2; i++ {
			if math.Abs(k[i]-k[len(k)-1-i]) > 1e-12 {
				t.Errorf("radius %v: kernel not symmetric at %d", radius, i)
			}
		}
	}
}

func TestGaussianKernelZeroRadius(t *testing.T) {
	t.Parallel()

	k := GaussianKernel(0)
	if len(k) != 1 || k[0] != 1 {
		t.Errorf("GaussianKernel(0) = %v, want identity", k)
	}
}

// edgeImage builds a white canvas whose left half is black.
func edgeImage(w, h int) *RGBAImage {
	img := NewRGBAImage(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(255)
			if x < w/2 {
				v = 0
			}
			img.SetRGB(x, y, RGB{v, v, v})
		}
	}
	return img
}

func TestGaussianBlurUniform(t *testing.T) {
	t.Parallel()

	img := NewRGBAImage(20, 20)
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			img.SetRGB(x, y, RGB{128, 128, 128})
		}
	}
	out := GaussianBlur(img, 2.0)
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			c := out.GetRGB(x, y)
			if int(c.R) < 127 || int(c.R) > 129 {
				t.Fatalf("uniform image changed at (%d,%d): %v", x, y, c)
			}
		}
	}
}

func TestGaussianBlurSoftensEdge(t *testing.T) {
	t.Parallel()

	img := edgeImage(40, 20)
	out := GaussianBlur(img, 1.5)

	if out.Width() != 40 || out.Height() != 20 {
		t.Fatalf("blur changed dimensions to %dx%d", out.Width(), out.Height())
	}
	c := out.GetRGB(20, 10)
	if c.R == 0 || c.R == 255 {
		t.Errorf("edge pixel = %v, want intermediate gray", c)
	}
}

func TestGaussianBlurZeroRadiusIsCopy(t *testing.T) {
	t.Parallel()

	img := edgeImage(10, 10)
	out := GaussianBlur(img, 0)
	if !bytes.Equal(img.Pix, out.Pix) {
		t.Fatal("zero radius altered pixels")
	}
	out.SetRGB(0, 0, RGB{9, 9, 9})
	if img.GetRGB(0, 0) == (RGB{9, 9, 9}) {
		t.Error("zero-radius blur aliased the source buffer")
	}
}

func TestGaussianBlurRegion(t *testing.T) {
	t.Parallel()

	img := edgeImage(40, 40)
	before := append([]uint8(nil), img.Pix...)
	rect := image.Rect(10, 10, 30, 30)

	GaussianBlurRegion(img, rect, 2.0)

	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			i := img.PixOffset(x, y)
			inside := image.Pt(x, y).In(rect)
			same := img.Pix[i] == before[i] &&
				img.Pix[i+1] == before[i+1] &&
				img.Pix[i+2] == before[i+2]
			if !inside && !same {
				t.Fatalf("pixel outside region changed at (%d,%d)", x, y)
			}
		}
	}

	// The vertical black/white edge crosses the region; it must be softened.
	c := img.GetRGB(20, 20)
	if c.R == 0 || c.R == 255 {
		t.Errorf("region edge pixel = %v, want intermediate gray", c)
	}
}

func TestGaussianBlurRegionDegenerate(t *testing.T) {
	t.Parallel()

	img := edgeImage(10, 10)
	before := append([]uint8(nil), img.Pix...)

	GaussianBlurRegion(img, image.Rect(-5, -5, 0, 0), 2.0)
	GaussianBlurRegion(img, image.Rect(2, 2, 8, 8), 0)

	if !bytes.Equal(img.Pix, before) {
		t.Error("degenerate region blur changed pixels")
	}
}

func TestGaussianBlurPreservesAlphaLayer(t *testing.T) {
	t.Parallel()

	// Fully transparent canvas stays transparent through the blur.
	img := NewRGBAImage(12, 12)
	out := GaussianBlur(img, 1.0)
	for i := 3; i < len(out.Pix); i += 4 {
		if out.Pix[i] != 0 {
			t.Fatal("blur manufactured alpha on a transparent layer")
		}
	}

	// A translucent dot spreads its alpha outward.
	img.SetRGBA(6, 6, color.RGBA{R: 100, G: 100, B: 100, A: 100})
	out = GaussianBlur(img, 1.0)
	if out.RGBAAt(7, 6).A == 0 {
		t.Error("blur did not spread alpha from the dot")
	}
}
