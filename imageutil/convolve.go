package imageutil

import (
	"image"
	"image/color"
	"math"
)

// Kernel1D is a normalized one-dimensional convolution kernel, applied
// separably along x and then y.
type Kernel1D []float64

// GaussianKernel builds a normalized 1D Gaussian kernel for the given
// radius (sigma). The kernel extends three sigma to each side, which keeps
// better than 99.7% of the distribution's weight.
func GaussianKernel(radius float64) Kernel1D {
	if radius <= 0 {
		return Kernel1D{1}
	}
	half := int(math.Ceil(radius * 3))
	kernel := make(Kernel1D, 2*half+1)
	sum := 0.0
	for i := -half; i <= half; i++ {
		v := math.Exp(-float64(i*i) / (2 * radius * radius))
		kernel[i+half] = v
		sum += v
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

// GaussianBlur returns a blurred copy of img. All four channels are
// convolved; image.RGBA stores alpha-premultiplied values, so translucent
// layers stay correct through the blur. Border pixels replicate edge values.
func GaussianBlur(img *RGBAImage, radius float64) *RGBAImage {
	if radius <= 0 {
		return img.Clone()
	}
	kernel := GaussianKernel(radius)
	tmp := convolvePass(img, kernel, true)
	return convolvePass(tmp, kernel, false)
}

// convolvePass applies kernel along one axis with edge replication.
func convolvePass(img *RGBAImage, kernel Kernel1D, horizontal bool) *RGBAImage {
	width, height := img.Width(), img.Height()
	dst := NewRGBAImage(width, height)
	half := len(kernel) / 2

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var sumR, sumG, sumB, sumA float64
			for i, k := range kernel {
				sx, sy := x, y
				if horizontal {
					sx = clampInt(x+i-half, 0, width-1)
				} else {
					sy = clampInt(y+i-half, 0, height-1)
				}
				c := img.RGBAAt(sx, sy)
				sumR += float64(c.R) * k
				sumG += float64(c.G) * k
				sumB += float64(c.B) * k
				sumA += float64(c.A) * k
			}
			dst.SetRGBA(x, y, color.RGBA{
				R: clampUint8(sumR),
				G: clampUint8(sumG),
				B: clampUint8(sumB),
				A: clampUint8(sumA),
			})
		}
	}
	return dst
}

// GaussianBlurRegion blurs only the pixels inside rect, in place. Pixels
// outside rect are left untouched; reads past the rect edge sample the
// original unblurred pixels, so adjacent regions blend instead of seaming.
func GaussianBlurRegion(img *RGBAImage, rect image.Rectangle, radius float64) {
	rect = rect.Intersect(img.Bounds())
	if radius <= 0 || rect.Empty() {
		return
	}
	kernel := GaussianKernel(radius)
	half := len(kernel) / 2
	src := img.Clone()
	width, height := img.Width(), img.Height()

	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			var sumR, sumG, sumB, sumA float64
			for ky, kyv := range kernel {
				sy := clampInt(y+ky-half, 0, height-1)
				for kx, kxv := range kernel {
					sx := clampInt(x+kx-half, 0, width-1)
					w := kyv * kxv
					c := src.RGBAAt(sx, sy)
					sumR += float64(c.R) * w
					sumG += float64(c.G) * w
					sumB += float64(c.B) * w
					sumA += float64(c.A) * w
				}
			}
			img.SetRGBA(x, y, color.RGBA{
				R: clampUint8(sumR),
				G: clampUint8(sumG),
				B: clampUint8(sumB),
				A: clampUint8(sumA),
			})
		}
	}
}

// clampInt clamps an integer to the given range.
func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// clampUint8 clamps a float64 to [0, 255] and converts to uint8.
func clampUint8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(math.Round(v))
}
