package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/xelth-com/jobintake/internal/middleware"
	"github.com/xelth-com/jobintake/internal/models"
	"github.com/xelth-com/jobintake/internal/render"
	"github.com/xelth-com/jobintake/internal/services/records"
)

const maxListLimit = 500

// respondRecordError maps record, validation and render failures to HTTP responses
func (r *Router) respondRecordError(w http.ResponseWriter, err error) {
	var validationErr *models.ValidationError
	var storeErr *records.StoreError

	switch {
	case errors.As(err, &validationErr):
		respondJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":  "Please fill in all required fields",
			"fields": validationErr.Fields,
		})
	case errors.Is(err, records.ErrNotFound):
		respondError(w, http.StatusNotFound, "Record not found")
	case errors.Is(err, render.ErrRenderBackendUnavailable):
		r.log.Error("PDF backend unavailable", "error", err)
		respondError(w, http.StatusServiceUnavailable, "PDF generation is currently unavailable")
	case errors.As(err, &storeErr):
		respondError(w, http.StatusInternalServerError, storeErr.Error())
	default:
		r.log.Error("Request failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// recordID reads and checks the {id} path variable
func recordID(w http.ResponseWriter, req *http.Request) (string, bool) {
	id := mux.Vars(req)["id"]
	if _, err := uuid.Parse(id); err != nil {
		respondError(w, http.StatusNotFound, "Record not found")
		return "", false
	}
	return id, true
}

// decodeRecord reads the form payload and validates it
func decodeRecord(req *http.Request) (models.JobRecord, error) {
	var in models.RecordInput
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		return models.JobRecord{}, errInvalidPayload
	}
	return in.ToRecord()
}

var errInvalidPayload = errors.New("invalid request payload")

// listOptions parses ?q= and ?limit=
func listOptions(req *http.Request) (records.ListOptions, error) {
	opts := records.ListOptions{Query: req.URL.Query().Get("q")}
	if raw := req.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return opts, errors.New("limit must be a non-negative integer")
		}
		if n > maxListLimit {
			n = maxListLimit
		}
		opts.Limit = n
	}
	return opts, nil
}

// listRecords handles the list page, with optional search
func (r *Router) listRecords(w http.ResponseWriter, req *http.Request) {
	opts, err := listOptions(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	list, err := r.records.List(req.Context(), opts)
	if err != nil {
		r.respondRecordError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

// createRecord handles the intake form submission
func (r *Router) createRecord(w http.ResponseWriter, req *http.Request) {
	rec, err := decodeRecord(req)
	if errors.Is(err, errInvalidPayload) {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err != nil {
		r.respondRecordError(w, err)
		return
	}

	if claims, ok := middleware.ClaimsFromContext(req.Context()); ok {
		rec.CreatedBy, _ = claims["id"].(string)
	}

	created, err := r.records.Create(req.Context(), rec)
	if err != nil {
		r.respondRecordError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// getRecord handles the detail page
func (r *Router) getRecord(w http.ResponseWriter, req *http.Request) {
	id, ok := recordID(w, req)
	if !ok {
		return
	}

	rec, err := r.records.Get(req.Context(), id)
	if err != nil {
		r.respondRecordError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

// updateRecord handles the edit form
func (r *Router) updateRecord(w http.ResponseWriter, req *http.Request) {
	id, ok := recordID(w, req)
	if !ok {
		return
	}

	rec, err := decodeRecord(req)
	if errors.Is(err, errInvalidPayload) {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err != nil {
		r.respondRecordError(w, err)
		return
	}

	updated, err := r.records.Update(req.Context(), id, rec)
	if err != nil {
		r.respondRecordError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// deleteRecord removes a record permanently
func (r *Router) deleteRecord(w http.ResponseWriter, req *http.Request) {
	id, ok := recordID(w, req)
	if !ok {
		return
	}

	if err := r.records.Delete(req.Context(), id); err != nil {
		r.respondRecordError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Record deleted"})
}

// exportRecords downloads the (optionally filtered) list as a spreadsheet
func (r *Router) exportRecords(w http.ResponseWriter, req *http.Request) {
	opts, err := listOptions(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	list, err := r.records.List(req.Context(), opts)
	if err != nil {
		r.respondRecordError(w, err)
		return
	}

	buf, err := records.ExportXLSX(list)
	if err != nil {
		r.respondRecordError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="Job_Intake_Records.xlsx"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Write(buf.Bytes())
}
