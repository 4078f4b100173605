package render

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/skip2/go-qrcode"
	"github.com/xelth-com/jobintake/internal/models"
)

// ErrRenderBackendUnavailable means the document backend could not be set up.
// Nothing has been written when it is returned.
var ErrRenderBackendUnavailable = errors.New("render backend unavailable")

// Measurer is the text measurement capability layout depends on.
// WrapText splits text into lines no wider than width when set in font.
type Measurer interface {
	WrapText(text string, font Font, width float64) []string
}

// Options carries the per-call inputs that are not part of the record
type Options struct {
	// GeneratedAt is printed in the header (and footer when FooterTimestamp
	// is set). Zero omits it, which keeps output independent of the clock.
	GeneratedAt     time.Time
	FooterTimestamp bool
	// RecordURL, when set, is encoded as a QR code in the header band
	RecordURL string
}

// Renderer maps a JobRecord to a paginated Document
type Renderer struct {
	measurer Measurer
}

// New returns a renderer backed by the given measurer
func New(m Measurer) (*Renderer, error) {
	if m == nil {
		return nil, ErrRenderBackendUnavailable
	}
	return &Renderer{measurer: m}, nil
}

// Render lays out rec. The record is taken by value and never modified.
func (r *Renderer) Render(rec models.JobRecord, opts Options) (*Document, error) {
	if r == nil || r.measurer == nil {
		return nil, ErrRenderBackendUnavailable
	}

	var qr []byte
	if opts.RecordURL != "" {
		png, err := qrcode.Encode(opts.RecordURL, qrcode.Medium, 256)
		if err != nil {
			return nil, fmt.Errorf("render: qr code: %w", err)
		}
		qr = png
	}

	b := &builder{measurer: r.measurer, opts: opts, doc: &Document{}}
	b.cursor = NewCursor(FirstPageTop, TopMargin, BottomLimit, b.startPage)

	b.header(rec, qr)
	for _, s := range bodySections {
		if s.when != nil && !s.when(rec) {
			continue
		}
		b.section(s, rec)
	}
	b.footers()

	return b.doc, nil
}

type builder struct {
	measurer Measurer
	opts     Options
	doc      *Document
	cursor   *Cursor
}

type column struct {
	x     float64
	field Field
}

func (b *builder) startPage(n int) {
	b.doc.Pages = append(b.doc.Pages, Page{Number: n})
}

func (b *builder) emit(op Op) {
	p := &b.doc.Pages[len(b.doc.Pages)-1]
	p.Ops = append(p.Ops, op)
}

func (b *builder) text(x, y float64, s string, font Font, color RGB, align Align) {
	b.emit(Op{Kind: OpText, X: x, Y: y, Text: s, Font: font, Color: color, Align: align})
}

func (b *builder) header(rec models.JobRecord, qr []byte) {
	b.emit(Op{Kind: OpRect, X: 0, Y: 0, W: PageWidth, H: HeaderBandHeight, Color: primaryColor})
	b.text(PageWidth/2, 20, HeaderTitle, TitleFont, white, AlignCenter)
	b.text(PageWidth/2, 30, jobSubtitle(rec), SubtitleFont, headerMutedColor, AlignCenter)

	if !b.opts.GeneratedAt.IsZero() {
		date := "Date: " + b.opts.GeneratedAt.Format("Jan 2, 2006")
		b.text(PageWidth-MarginRight, 32, date, DateFont, headerMutedColor, AlignRight)
	}
	if qr != nil {
		b.emit(Op{Kind: OpImage, X: 5, Y: (HeaderBandHeight - qrSize) / 2, W: qrSize, H: qrSize, Image: qr})
	}

	b.doc.Sections = append(b.doc.Sections, Section{Title: HeaderTitle, Page: 1})
}

func (b *builder) section(s sectionSpec, rec models.JobRecord) {
	// keep the header together with the first line of its first field
	b.cursor.EnsureRoom(SectionHeight + LabelGap + LineHeight)

	y := b.cursor.Y()
	b.emit(Op{
		Kind:   OpRoundedRect,
		X:      sectionBoxX,
		Y:      y - sectionBoxHeight/2,
		W:      sectionBoxWidth,
		H:      sectionBoxHeight,
		Radius: sectionBoxRadius,
		Color:  sectionFillColor,
	})
	b.text(MarginLeft, y+1, s.title, SectionFont, primaryColor, AlignLeft)

	out := Section{Title: s.title, Page: b.cursor.Page()}
	b.cursor.Advance(SectionHeight)

	for _, row := range s.rows {
		out.Fields = append(out.Fields, b.row(row, rec)...)
	}
	b.cursor.Advance(SectionGap)

	b.doc.Sections = append(b.doc.Sections, out)
}

func (b *builder) row(row rowSpec, rec models.JobRecord) []Field {
	width := ContentWidth
	if len(row) > 1 {
		width = ColumnWidth
	}

	cols := make([]column, len(row))
	lines := 0
	for i, spec := range row {
		x := MarginLeft
		if i == 1 {
			x = RightColumnX
		}
		f := b.field(spec, rec, width)
		cols[i] = column{x: x, field: f}
		if len(f.Lines) > lines {
			lines = len(f.Lines)
		}
	}

	b.cursor.EnsureRoom(LabelGap + LineHeight)
	y := b.cursor.Y()
	for _, c := range cols {
		b.text(c.x, y, c.field.Label, LabelFont, labelColor, AlignLeft)
	}
	b.cursor.Advance(LabelGap)

	for i := 0; i < lines; i++ {
		b.cursor.EnsureRoom(LineHeight)
		y := b.cursor.Y()
		for _, c := range cols {
			if i >= len(c.field.Lines) {
				continue
			}
			color := textColor
			if c.field.Placeholder {
				color = placeholderColor
			}
			b.text(c.x, y, c.field.Lines[i], ValueFont, color, AlignLeft)
		}
		b.cursor.Advance(LineHeight)
	}
	b.cursor.Advance(RowGap)

	fields := make([]Field, len(cols))
	for i, c := range cols {
		fields[i] = c.field
	}
	return fields
}

func (b *builder) field(spec fieldSpec, rec models.JobRecord, width float64) Field {
	f := Field{Key: spec.key, Label: spec.label}

	value := spec.value(rec)
	if strings.TrimSpace(value) != "" {
		f.Lines = b.measurer.WrapText(value, ValueFont, width)
	}
	if len(f.Lines) == 0 {
		f.Lines = []string{Placeholder}
		f.Placeholder = true
	}
	return f
}

// footers is the second pass: the page count is only known once layout is done
func (b *builder) footers() {
	total := len(b.doc.Pages)
	for i := range b.doc.Pages {
		text := fmt.Sprintf("Page %d of %d", i+1, total)
		if b.opts.FooterTimestamp && !b.opts.GeneratedAt.IsZero() {
			text += " | Generated on " + b.opts.GeneratedAt.Format("01/02/2006")
		}
		p := &b.doc.Pages[i]
		p.Ops = append(p.Ops, Op{
			Kind:      OpLine,
			X:         MarginLeft,
			Y:         FooterY - 5,
			X2:        PageWidth - MarginRight,
			Y2:        FooterY - 5,
			Color:     sectionFillColor,
			LineWidth: 0.3,
		}, Op{
			Kind:  OpText,
			X:     PageWidth / 2,
			Y:     FooterY,
			Text:  text,
			Font:  FooterFont,
			Color: footerColor,
			Align: AlignCenter,
		})
	}
}
