package printer

import (
	"fmt"
	"sync"

	"github.com/jung-kurt/gofpdf"
	"github.com/xelth-com/jobintake/internal/render"
	"golang.org/x/text/encoding/charmap"
)

// Measurer wraps text using the core font metrics of gofpdf.
// The core fonts are cp1252; text is encoded before measuring and lines are
// decoded back to UTF-8 so the Document keeps plain strings.
type Measurer struct {
	mu  sync.Mutex // gofpdf keeps the current font as state
	pdf *gofpdf.Fpdf
}

// NewMeasurer prepares a gofpdf instance used only for metrics
func NewMeasurer() (*Measurer, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont(render.ValueFont.Family, render.ValueFont.Style, render.ValueFont.Size)
	if pdf.Err() {
		return nil, fmt.Errorf("%w: %v", render.ErrRenderBackendUnavailable, pdf.Error())
	}
	return &Measurer{pdf: pdf}, nil
}

// WrapText splits text at the positions gofpdf would break it within width
func (m *Measurer) WrapText(text string, font render.Font, width float64) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pdf.SetFont(font.Family, font.Style, font.Size)
	raw := m.pdf.SplitLines(encode(text), width)

	lines := make([]string, len(raw))
	for i, l := range raw {
		lines[i] = decode(l)
	}
	return lines
}

// StringWidth returns the width of s in millimetres when set in font
func (m *Measurer) StringWidth(s string, font render.Font) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pdf.SetFont(font.Family, font.Style, font.Size)
	return m.pdf.GetStringWidth(string(encode(s)))
}

// encode maps UTF-8 to cp1252, substituting '?' for unsupported runes
func encode(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		b, ok := charmap.Windows1252.EncodeRune(r)
		if !ok {
			b = '?'
		}
		out = append(out, b)
	}
	return out
}

func decode(b []byte) string {
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = charmap.Windows1252.DecodeByte(c)
	}
	return string(runes)
}
