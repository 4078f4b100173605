package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/xelth-com/jobintake/internal/models"
	"github.com/xelth-com/jobintake/internal/render"
	"github.com/xelth-com/jobintake/internal/services/printer"
)

// renderPDF lays out rec and serializes it
func (r *Router) renderPDF(rec models.JobRecord, recordURL string) ([]byte, error) {
	doc, err := r.renderer.Render(rec, render.Options{
		GeneratedAt:     r.now(),
		FooterTimestamp: r.cfg.PDF.FooterTimestamp,
		RecordURL:       recordURL,
	})
	if err != nil {
		return nil, err
	}
	r.log.Debug("Document laid out", "jobNumber", rec.JobNumber, "pages", doc.PageCount())
	return printer.RenderPDF(doc)
}

// recordURL links a PDF back to the detail page, when the public address is known
func (r *Router) recordURL(id string) string {
	if r.cfg.PublicBaseURL == "" || id == "" {
		return ""
	}
	return r.cfg.PublicBaseURL + "/details.html?id=" + url.QueryEscape(id)
}

func writePDF(w http.ResponseWriter, filename string, pdfBytes []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdfBytes)))
	w.Write(pdfBytes)
}

// formPDF renders the form as currently filled in, without saving it
func (r *Router) formPDF(w http.ResponseWriter, req *http.Request) {
	rec, err := decodeRecord(req)
	if errors.Is(err, errInvalidPayload) {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err != nil {
		r.respondRecordError(w, err)
		return
	}

	pdfBytes, err := r.renderPDF(rec, "")
	if err != nil {
		r.respondRecordError(w, err)
		return
	}

	suffix := strconv.FormatInt(r.now().UnixMilli(), 10)
	writePDF(w, render.FileName(rec.JobNumber, suffix), pdfBytes)
}

// recordPDF renders a stored record from the detail page
func (r *Router) recordPDF(w http.ResponseWriter, req *http.Request) {
	id, ok := recordID(w, req)
	if !ok {
		return
	}

	type result struct {
		name  string
		bytes []byte
	}
	// the render is shared by every waiting caller, so it must outlive any one of them
	ctx := context.WithoutCancel(req.Context())
	v, err, shared := r.downloads.Do(id, func() (interface{}, error) {
		rec, err := r.records.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		pdfBytes, err := r.renderPDF(rec, r.recordURL(rec.ID))
		if err != nil {
			return nil, err
		}
		return result{name: render.FileName(rec.JobNumber, ""), bytes: pdfBytes}, nil
	})
	if err != nil {
		r.respondRecordError(w, err)
		return
	}
	if shared {
		r.log.Debug("PDF download shared", "id", id)
	}

	res := v.(result)
	writePDF(w, res.name, res.bytes)
}
