package records

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xelth-com/jobintake/internal/database"
	"github.com/xelth-com/jobintake/internal/logger"
	"github.com/xelth-com/jobintake/internal/models"
	"gorm.io/gorm"
)

// ErrNotFound is returned when no record has the requested id
var ErrNotFound = errors.New("record not found")

// StoreError wraps any other failure of a store call
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("records %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// ListOptions controls List
type ListOptions struct {
	Query     string // case-insensitive substring over job name, number and location
	Ascending bool   // oldest first; the default is newest first
	Limit     int
}

// searchColumns are matched by Search
var searchColumns = []string{"job_name", "job_number", "location"}

// Service is the record store adapter
type Service struct {
	db  *database.DB
	log *logger.Logger
}

// NewService creates a new record service
func NewService(db *database.DB, log *logger.Logger) *Service {
	return &Service{
		db:  db,
		log: log.With("service", "records"),
	}
}

// Create stores a new record; the store assigns id and created_at
func (s *Service) Create(ctx context.Context, rec models.JobRecord) (models.JobRecord, error) {
	rec.ID = ""
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		s.log.Error("Failed to create record", "jobNumber", rec.JobNumber, "error", err)
		return models.JobRecord{}, &StoreError{Op: "create", Err: err}
	}
	s.log.Info("Record created", "id", rec.ID, "jobNumber", rec.JobNumber)
	return rec, nil
}

// Get loads one record by id
func (s *Service) Get(ctx context.Context, id string) (models.JobRecord, error) {
	var rec models.JobRecord
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.JobRecord{}, ErrNotFound
	}
	if err != nil {
		return models.JobRecord{}, &StoreError{Op: "get", Err: err}
	}
	return rec, nil
}

// Update overwrites the editable fields of a record. Last write wins.
// A record deleted in the meantime stays deleted.
func (s *Service) Update(ctx context.Context, id string, rec models.JobRecord) (models.JobRecord, error) {
	res := s.db.WithContext(ctx).
		Model(&models.JobRecord{ID: id}).
		Select("*").
		Omit("id", "created_at", "created_by").
		Updates(&rec)
	if res.Error != nil {
		s.log.Error("Failed to update record", "id", id, "error", res.Error)
		return models.JobRecord{}, &StoreError{Op: "update", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return models.JobRecord{}, ErrNotFound
	}
	s.log.Info("Record updated", "id", id)
	return s.Get(ctx, id)
}

// List returns records ordered by creation time, optionally filtered
func (s *Service) List(ctx context.Context, opts ListOptions) ([]models.JobRecord, error) {
	order := "created_at DESC"
	if opts.Ascending {
		order = "created_at ASC"
	}

	q := s.db.WithContext(ctx).Order(order)
	if text := strings.TrimSpace(opts.Query); text != "" {
		pattern := "%" + escapeLike(strings.ToLower(text)) + "%"
		clauses := make([]string, len(searchColumns))
		args := make([]interface{}, len(searchColumns))
		for i, col := range searchColumns {
			clauses[i] = fmt.Sprintf("LOWER(%s) LIKE ? ESCAPE '!'", col)
			args[i] = pattern
		}
		q = q.Where(strings.Join(clauses, " OR "), args...)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}

	records := []models.JobRecord{}
	if err := q.Find(&records).Error; err != nil {
		return nil, &StoreError{Op: "list", Err: err}
	}
	return records, nil
}

// Search matches text case-insensitively as a substring of the job name,
// job number or location, newest first
func (s *Service) Search(ctx context.Context, text string) ([]models.JobRecord, error) {
	return s.List(ctx, ListOptions{Query: text})
}

// Delete removes a record permanently
func (s *Service) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.JobRecord{})
	if res.Error != nil {
		s.log.Error("Failed to delete record", "id", id, "error", res.Error)
		return &StoreError{Op: "delete", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	s.log.Info("Record deleted", "id", id)
	return nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return r.Replace(s)
}
