package asciicaptcha

import "fmt"

// DefaultRamp is the dark-to-light character ramp used when the
// configuration does not override it.
const DefaultRamp = "$@B%8&WM# "

// Style selects how the challenge code reaches the canvas.
type Style string

const (
	// StyleASCII translates the code into ASCII-density art and draws the
	// art's characters at small size. This is the default.
	StyleASCII Style = "ascii"

	// StyleDirect draws the code's characters themselves as a single line
	// at the render font size, skipping the density translation.
	StyleDirect Style = "direct"
)

// TextToASCIIParams controls the density translation of the code text.
type TextToASCIIParams struct {
	// FontPath is the preferred TTF file for rasterizing source glyphs.
	// When empty or unreadable the loader walks a candidate chain and
	// finally falls back to the embedded Go Mono face.
	FontPath string `json:"font_path"`

	// FontSize is the rasterization size in pixels. Each glyph is drawn on
	// a FontSize*2 square canvas before downsampling.
	FontSize int `json:"font_size"`

	// Scale is the cell size of the density grid. Larger values produce
	// coarser, smaller art blocks.
	Scale int `json:"scale"`
}

// RenderParams controls the compositor and the noise stages.
type RenderParams struct {
	FontPath string `json:"font_path"`

	// FontSize is the size the art characters are drawn at. Sizes much
	// above 20 defeat the point of the degradation.
	FontSize int `json:"font_size"`

	// Spacing is added to the horizontal advance of each drawn character.
	Spacing int `json:"spacing"`

	// NoiseLines is the number of random gray strokes drawn across the
	// canvas. Negative counts are treated as zero.
	NoiseLines int `json:"noise_lines"`

	// BlurShapes is the number of translucent ellipses/rectangles drawn on
	// the overlay layer and blurred with ShapeBlurRadius.
	BlurShapes int `json:"blur_shapes"`

	// ExtraNoiseShapes is the number of additional arcs, chords, triangles
	// and circles drawn on the overlay without a blur pass of their own.
	ExtraNoiseShapes int `json:"extra_noise_shapes"`

	// PixelNoiseDensity is the fraction of canvas pixels replaced with
	// random gray speckle.
	PixelNoiseDensity float64 `json:"pixel_noise_density"`

	// Jitter bounds the random per-character placement offset in pixels,
	// in both axes.
	Jitter int `json:"jitter"`

	// ApplyBlur enables the final whole-canvas Gaussian blur.
	ApplyBlur bool `json:"apply_blur"`

	GaussianBlurRadius float64 `json:"gaussian_blur_radius"`
	ShapeBlurRadius    float64 `json:"shape_blur_radius"`
}

// Config is the immutable parameter bundle for one generation call.
type Config struct {
	// CodeLength is the number of characters drawn from the alphabet when
	// FixedCode is unset.
	CodeLength int `json:"code_length"`

	// RandomSeed, when non-nil, seeds the per-call random source and makes
	// the whole pipeline bit-reproducible.
	RandomSeed *int64 `json:"random_seed"`

	// FixedCode bypasses code generation entirely. Debugging aid.
	FixedCode string `json:"fixed_code"`

	Style Style `json:"style"`

	// ASCIIChars is the dark-to-light ramp used by the density mapper.
	ASCIIChars string `json:"ascii_chars"`

	TextToASCII TextToASCIIParams `json:"text_to_ascii"`
	Render      RenderParams      `json:"render"`
}

// DefaultConfig returns the stock configuration: a six-character code
// rendered as ASCII art with the full noise stack enabled.
func DefaultConfig() Config {
	return Config{
		CodeLength: 6,
		Style:      StyleASCII,
		ASCIIChars: DefaultRamp,
		TextToASCII: TextToASCIIParams{
			FontSize: 40,
			Scale:    2,
		},
		Render: RenderParams{
			FontSize:           9,
			Spacing:            1,
			NoiseLines:         24,
			BlurShapes:         40,
			ExtraNoiseShapes:   30,
			PixelNoiseDensity:  0.04,
			Jitter:             1,
			ApplyBlur:          true,
			GaussianBlurRadius: 1.1,
			ShapeBlurRadius:    2.0,
		},
	}
}

// Validate checks the configuration for conditions that would make the
// generation call meaningless. Zero noise counts and a missing font path are
// not errors; they disable their pass or trigger the fallback chain.
func (c *Config) Validate() error {
	if c.FixedCode == "" && c.CodeLength <= 0 {
		return &ConfigError{Field: "code_length", Reason: "must be positive when fixed_code is unset"}
	}
	switch c.Style {
	case "", StyleASCII:
		if c.ASCIIChars == "" {
			return &ConfigError{Field: "ascii_chars", Reason: "ramp must not be empty"}
		}
		if c.TextToASCII.FontSize <= 0 {
			return &ConfigError{Field: "text_to_ascii.font_size", Reason: "must be positive"}
		}
		if c.TextToASCII.Scale <= 0 {
			return &ConfigError{Field: "text_to_ascii.scale", Reason: "must be positive"}
		}
	case StyleDirect:
	default:
		return &ConfigError{Field: "style", Reason: fmt.Sprintf("unknown style %q", c.Style)}
	}
	if c.Render.FontSize <= 0 {
		return &ConfigError{Field: "render.font_size", Reason: "must be positive"}
	}
	if c.Render.PixelNoiseDensity < 0 {
		return &ConfigError{Field: "render.pixel_noise_density", Reason: "must not be negative"}
	}
	if c.Render.GaussianBlurRadius < 0 {
		return &ConfigError{Field: "render.gaussian_blur_radius", Reason: "must not be negative"}
	}
	if c.Render.ShapeBlurRadius < 0 {
		return &ConfigError{Field: "render.shape_blur_radius", Reason: "must not be negative"}
	}
	return nil
}
