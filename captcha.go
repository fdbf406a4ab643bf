// Package asciicaptcha renders short alphanumeric challenge codes into
// deliberately degraded bitmap images. The code is translated into
// ASCII-density art (or drawn directly), composited at small size with
// per-character jitter, and perturbed by ordered noise stages: gray strokes,
// blurred translucent shapes, extra sharp shapes, pixel speckle, and an
// optional whole-canvas blur.
//
// This is not an adversarially robust CAPTCHA. What it guarantees is
// tunable difficulty through the noise parameters and bit-identical output
// for a fixed seed and configuration.
package asciicaptcha

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"
	"math/rand"
	"time"

	"github.com/wbrown/asciicaptcha/imageutil"
)

// Generate runs the full pipeline for one challenge: validate the
// configuration, build the per-call random source, produce the code,
// translate it to art lines per the configured style, composite and perturb
// the canvas. The returned buffer and code belong to the caller; no state
// survives the call.
func Generate(cfg Config) (*imageutil.RGBAImage, string, error) {
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	rng := newRNG(cfg.RandomSeed)

	code := cfg.FixedCode
	if code == "" {
		var err error
		code, err = GenerateCode(cfg.CodeLength, Alphabet, rng)
		if err != nil {
			return nil, "", err
		}
	}

	var lines []string
	switch cfg.Style {
	case StyleDirect:
		lines = []string{code}
	default:
		src, err := LoadFont(cfg.TextToASCII.FontPath)
		if err != nil {
			return nil, "", err
		}
		lines, err = TextToASCII(code, cfg.ASCIIChars, src, cfg.TextToASCII)
		if err != nil {
			return nil, "", err
		}
	}

	renderFont, err := LoadFont(cfg.Render.FontPath)
	if err != nil {
		return nil, "", err
	}
	img, err := RenderLines(lines, cfg.Render, renderFont, rng)
	if err != nil {
		return nil, "", err
	}
	return img, code, nil
}

// newRNG builds the per-call random source. Seeded calls replay
// bit-identically; unseeded calls still get their own instance so concurrent
// generations never contend on shared state.
func newRNG(seed *int64) *rand.Rand {
	if seed != nil {
		return rand.New(rand.NewSource(*seed))
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// ToDataURL encodes img as a PNG wrapped in a data:image/png;base64 URI.
func ToDataURL(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
