package render

// OpKind identifies a draw instruction
type OpKind int

const (
	OpText OpKind = iota
	OpRect
	OpRoundedRect
	OpLine
	OpImage
)

// Align is the horizontal anchoring of a text op relative to its X
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Font describes a core font selection. Size is in points.
type Font struct {
	Family string
	Style  string // "", "B", "I" or "BI"
	Size   float64
}

// RGB is a 0-255 color triple
type RGB struct {
	R, G, B int
}

// Op is a single draw instruction. Coordinates are in millimetres from the
// top-left corner of the page; text Y is the baseline.
type Op struct {
	Kind OpKind

	X, Y   float64
	W, H   float64
	X2, Y2 float64 // line end
	Radius float64

	Text  string
	Align Align
	Font  Font

	Color     RGB // text, fill or stroke color depending on Kind
	LineWidth float64

	Image []byte // PNG
}

// Page holds the ordered instructions of one page
type Page struct {
	Number int
	Ops    []Op
}

// Texts returns the text of every text op on the page, in draw order
func (p Page) Texts() []string {
	var out []string
	for _, op := range p.Ops {
		if op.Kind == OpText {
			out = append(out, op.Text)
		}
	}
	return out
}

// Field is one rendered label/value pair
type Field struct {
	Key         string
	Label       string
	Lines       []string
	Placeholder bool
}

// Section is a titled group of fields, as laid out
type Section struct {
	Title  string
	Page   int // page the section header landed on
	Fields []Field
}

// Document is the output of one render call
type Document struct {
	Pages    []Page
	Sections []Section
}

// PageCount returns the number of pages produced
func (d *Document) PageCount() int {
	return len(d.Pages)
}

// Field finds a rendered field by key
func (d *Document) Field(key string) (Field, bool) {
	for _, s := range d.Sections {
		for _, f := range s.Fields {
			if f.Key == key {
				return f, true
			}
		}
	}
	return Field{}, false
}

// HasSection reports whether a section with the given title was rendered
func (d *Document) HasSection(title string) bool {
	for _, s := range d.Sections {
		if s.Title == title {
			return true
		}
	}
	return false
}
