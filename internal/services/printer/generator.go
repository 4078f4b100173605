package printer

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xelth-com/jobintake/internal/render"
)

// documentEpoch is stamped as the creation date so equal Documents give equal bytes
var documentEpoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// RenderPDF serializes a laid-out Document to PDF bytes
func RenderPDF(doc *render.Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(doc, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write replays every draw instruction of doc onto a fresh A4 PDF
func Write(doc *render.Document, w io.Writer) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreationDate(documentEpoch)
	pdf.SetCatalogSort(true)
	if pdf.Err() {
		return fmt.Errorf("%w: %v", render.ErrRenderBackendUnavailable, pdf.Error())
	}

	for _, page := range doc.Pages {
		pdf.AddPage()
		for i, op := range page.Ops {
			draw(pdf, op, fmt.Sprintf("img_%d_%d", page.Number, i))
		}
	}

	if pdf.Err() {
		return fmt.Errorf("failed to build PDF: %w", pdf.Error())
	}
	return pdf.Output(w)
}

func draw(pdf *gofpdf.Fpdf, op render.Op, imgName string) {
	switch op.Kind {
	case render.OpText:
		pdf.SetFont(op.Font.Family, op.Font.Style, op.Font.Size)
		pdf.SetTextColor(op.Color.R, op.Color.G, op.Color.B)
		txt := string(encode(op.Text))
		x := op.X
		switch op.Align {
		case render.AlignCenter:
			x -= pdf.GetStringWidth(txt) / 2
		case render.AlignRight:
			x -= pdf.GetStringWidth(txt)
		}
		pdf.Text(x, op.Y, txt)

	case render.OpRect:
		pdf.SetFillColor(op.Color.R, op.Color.G, op.Color.B)
		pdf.Rect(op.X, op.Y, op.W, op.H, "F")

	case render.OpRoundedRect:
		pdf.SetFillColor(op.Color.R, op.Color.G, op.Color.B)
		pdf.RoundedRect(op.X, op.Y, op.W, op.H, op.Radius, "1234", "F")

	case render.OpLine:
		pdf.SetDrawColor(op.Color.R, op.Color.G, op.Color.B)
		pdf.SetLineWidth(op.LineWidth)
		pdf.Line(op.X, op.Y, op.X2, op.Y2)

	case render.OpImage:
		imgOptions := gofpdf.ImageOptions{
			ImageType: "PNG",
			ReadDpi:   true,
		}
		pdf.RegisterImageOptionsReader(imgName, imgOptions, bytes.NewReader(op.Image))
		pdf.ImageOptions(imgName, op.X, op.Y, op.W, op.H, false, imgOptions, 0, "")
	}
}
