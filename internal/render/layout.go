package render

// A4 portrait, millimetres
const (
	PageWidth  = 210.0
	PageHeight = 297.0

	MarginLeft   = 20.0
	MarginRight  = 20.0
	ContentWidth = PageWidth - MarginLeft - MarginRight

	ColumnGutter = 10.0
	ColumnWidth  = (ContentWidth - ColumnGutter) / 2
	RightColumnX = MarginLeft + ColumnWidth + ColumnGutter

	HeaderBandHeight = 40.0
	FirstPageTop     = 55.0
	TopMargin        = 20.0
	BottomLimit      = 270.0
	FooterY          = 290.0

	LineHeight    = 5.0
	LabelGap      = 6.0 // label baseline to first value baseline
	RowGap        = 4.0
	SectionHeight = 15.0
	SectionGap    = 5.0

	sectionBoxX      = 15.0
	sectionBoxWidth  = PageWidth - 2*sectionBoxX
	sectionBoxHeight = 10.0
	sectionBoxRadius = 2.0
	qrSize           = 30.0
)

// Placeholder stands in for every empty value
const Placeholder = "-"

// MissingJobNumber is shown in the header subtitle when the record has no number
const MissingJobNumber = "N/A"

const fontFamily = "Helvetica"

var (
	TitleFont    = Font{Family: fontFamily, Style: "B", Size: 24}
	SubtitleFont = Font{Family: fontFamily, Size: 12}
	DateFont     = Font{Family: fontFamily, Size: 10}
	SectionFont  = Font{Family: fontFamily, Style: "B", Size: 12}
	LabelFont    = Font{Family: fontFamily, Style: "B", Size: 10}
	ValueFont    = Font{Family: fontFamily, Size: 11}
	FooterFont   = Font{Family: fontFamily, Size: 8}
)

var (
	primaryColor     = RGB{36, 32, 77}
	sectionFillColor = RGB{240, 240, 245}
	labelColor       = RGB{100, 100, 100}
	textColor        = RGB{60, 60, 60}
	placeholderColor = RGB{150, 150, 150}
	footerColor      = RGB{150, 150, 150}
	headerMutedColor = RGB{200, 200, 200}
	white            = RGB{255, 255, 255}
)
