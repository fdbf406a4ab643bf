package asciicaptcha

import (
	"bytes"
	"encoding/base64"
	"errors"
	"strings"
	"sync"
	"testing"
)

// quietConfig returns a seeded configuration with every noise pass disabled.
func quietConfig(seed int64) Config {
	cfg := DefaultConfig()
	cfg.RandomSeed = &seed
	cfg.Render.NoiseLines = 0
	cfg.Render.BlurShapes = 0
	cfg.Render.ExtraNoiseShapes = 0
	cfg.Render.PixelNoiseDensity = 0
	cfg.Render.Jitter = 0
	cfg.Render.ApplyBlur = false
	return cfg
}

func TestGenerateEndToEnd(t *testing.T) {
	t.Parallel()

	cfg := quietConfig(1)
	cfg.CodeLength = 4
	cfg.ASCIIChars = "#@ "

	img1, code1, err := Generate(cfg)
	if err != nil {
		t.Fatal(err)
	}
	img2, code2, err := Generate(cfg)
	if err != nil {
		t.Fatal(err)
	}

	if len(code1) != 4 {
		t.Errorf("code %q has length %d, want 4", code1, len(code1))
	}
	if code1 != code2 {
		t.Errorf("codes differ: %q vs %q", code1, code2)
	}
	if !bytes.Equal(img1.Pix, img2.Pix) {
		t.Error("same seed produced different pixel buffers")
	}
}

func TestGenerateSeededWithFullNoise(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	seed := int64(123)
	cfg.RandomSeed = &seed

	img1, code1, err := Generate(cfg)
	if err != nil {
		t.Fatal(err)
	}
	img2, code2, err := Generate(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if code1 != code2 {
		t.Errorf("codes differ: %q vs %q", code1, code2)
	}
	if !bytes.Equal(img1.Pix, img2.Pix) {
		t.Error("full noise stack broke seed determinism")
	}
}

func TestGenerateDisabledNoiseIsClean(t *testing.T) {
	t.Parallel()

	img, _, err := Generate(quietConfig(2))
	if err != nil {
		t.Fatal(err)
	}

	// With every pass off the corners are untouched background.
	for _, pt := range [][2]int{{0, 0}, {img.Width() - 1, 0}, {0, img.Height() - 1}} {
		c := img.RGBAAt(pt[0], pt[1])
		if c.R != 255 || c.G != 255 || c.B != 255 {
			t.Errorf("corner (%d,%d) = %v, want white", pt[0], pt[1], c)
		}
	}
}

func TestGenerateFixedCode(t *testing.T) {
	t.Parallel()

	cfg := quietConfig(3)
	cfg.FixedCode = "AB12"
	cfg.CodeLength = 9

	_, code, err := Generate(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if code != "AB12" {
		t.Errorf("code = %q, want AB12", code)
	}
}

func TestGenerateDirectStyle(t *testing.T) {
	t.Parallel()

	cfg := quietConfig(4)
	cfg.Style = StyleDirect
	cfg.Render.FontSize = 24
	cfg.CodeLength = 5

	img1, code, err := Generate(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(code) != 5 {
		t.Errorf("code length = %d, want 5", len(code))
	}

	// One line of 5 characters at charW = 24/2+1.
	if want := (24/2 + 1) * 5; img1.Width() != want {
		t.Errorf("width = %d, want %d", img1.Width(), want)
	}
	if want := 24 + 2; img1.Height() != want {
		t.Errorf("height = %d, want %d", img1.Height(), want)
	}

	img2, _, err := Generate(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(img1.Pix, img2.Pix) {
		t.Error("direct style broke seed determinism")
	}
}

func TestGenerateConfigErrors(t *testing.T) {
	t.Parallel()

	var cfgErr *ConfigError

	cfg := DefaultConfig()
	cfg.CodeLength = 0
	if _, _, err := Generate(cfg); !errors.As(err, &cfgErr) {
		t.Errorf("zero code length: got %v, want ConfigError", err)
	}

	cfg = DefaultConfig()
	cfg.ASCIIChars = ""
	if _, _, err := Generate(cfg); !errors.As(err, &cfgErr) {
		t.Errorf("empty ramp: got %v, want ConfigError", err)
	}
}

func TestGenerateConcurrent(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	seed := int64(77)
	cfg.RandomSeed = &seed

	ref, refCode, err := Generate(cfg)
	if err != nil {
		t.Fatal(err)
	}

	const workers = 8
	var wg sync.WaitGroup
	results := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			img, code, err := Generate(cfg)
			if err != nil {
				results[i] = err
				return
			}
			if code != refCode || !bytes.Equal(img.Pix, ref.Pix) {
				results[i] = errors.New("concurrent call diverged from reference")
			}
		}(i)
	}
	wg.Wait()
	for i, err := range results {
		if err != nil {
			t.Errorf("worker %d: %v", i, err)
		}
	}
}

func TestToDataURL(t *testing.T) {
	t.Parallel()

	img, _, err := Generate(quietConfig(5))
	if err != nil {
		t.Fatal(err)
	}

	url, err := ToDataURL(img)
	if err != nil {
		t.Fatal(err)
	}
	const prefix = "data:image/png;base64,"
	if !strings.HasPrefix(url, prefix) {
		t.Fatalf("url %q missing prefix %q", url[:min(len(url), 40)], prefix)
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, prefix))
	if err != nil {
		t.Fatalf("payload is not valid base64: %v", err)
	}
	if !bytes.HasPrefix(raw, []byte("\x89PNG")) {
		t.Error("payload is not a PNG stream")
	}
}
