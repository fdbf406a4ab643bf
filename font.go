package asciicaptcha

import (
	"os"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

// FontOrigin records which branch of the load chain produced a font.
type FontOrigin int

const (
	// FontFromPath means a font file (the preferred path or one of the
	// well-known candidates) was parsed successfully.
	FontFromPath FontOrigin = iota

	// FontFallback means no usable file was found and the embedded Go Mono
	// face is in use.
	FontFallback
)

// LoadedFont is the tagged result of a font load. Callers that care whether
// their requested font was honored can inspect Origin instead of relying on
// error control flow.
type LoadedFont struct {
	Font   *truetype.Font
	Origin FontOrigin
	Path   string // file actually loaded; empty for the embedded fallback
}

// fontCandidates are common monospace install locations tried after the
// preferred path.
var fontCandidates = []string{
	"consola.ttf",
	"DejaVuSansMono.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSansMono.ttf",
	"Menlo.ttf",
	"Courier New.ttf",
}

// LoadFont parses the preferred font file, walking the candidate chain on
// failure and ending at the embedded Go Mono face. An unreadable or corrupt
// file is a soft condition; the only error case is the embedded face itself
// failing to parse, which surfaces as a RenderError.
func LoadFont(preferred string) (*LoadedFont, error) {
	candidates := make([]string, 0, len(fontCandidates)+1)
	if preferred != "" {
		candidates = append(candidates, preferred)
	}
	candidates = append(candidates, fontCandidates...)

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		f, err := truetype.Parse(data)
		if err != nil {
			continue
		}
		return &LoadedFont{Font: f, Origin: FontFromPath, Path: path}, nil
	}

	f, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, &RenderError{Op: "parse embedded font", Err: err}
	}
	return &LoadedFont{Font: f, Origin: FontFallback}, nil
}

// Face builds a font.Face at the given pixel size. The caller owns the face
// and should Close it when done.
func (lf *LoadedFont) Face(size float64) font.Face {
	return truetype.NewFace(lf.Font, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// Measure returns the advance width and line height of text at the given
// pixel size, for callers that center or space strings before drawing.
func (lf *LoadedFont) Measure(text string, size float64) (w, h int) {
	face := lf.Face(size)
	defer face.Close()
	m := face.Metrics()
	return font.MeasureString(face, text).Ceil(), (m.Ascent + m.Descent).Ceil()
}
