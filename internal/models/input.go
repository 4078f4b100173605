package models

import (
	"fmt"
	"net/mail"
	"sort"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// DateLayout is the wire format of job_start_date in form payloads
const DateLayout = "2006-01-02"

// RecordInput is the intake form payload
type RecordInput struct {
	JobName             string `json:"job_name"`
	JobNumber           string `json:"job_number"`
	Location            string `json:"location"`
	JobStartDate        string `json:"job_start_date"`
	PM                  string `json:"pm"`
	Superintendent      string `json:"superintendent"`
	Sub                 string `json:"sub"`
	Trade               string `json:"trade"`
	Submittal           string `json:"submittal"`
	ScopeOfWork         string `json:"scope_of_work"`
	SpecialRequirements string `json:"special_requirements"`
	ContactName         string `json:"contact_name"`
	ContactPhone        string `json:"contact_phone"`
	ContactEmail        string `json:"contact_email"`
	Notes               string `json:"notes"`
}

// RequiredFields must be non-blank for a submission to be accepted
var RequiredFields = []string{"job_name", "job_number"}

// ValidationError lists the offending fields and why
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("validation failed: %s", strings.Join(keys, ", "))
}

// Validate checks required fields and formats
func (in RecordInput) Validate() error {
	fields := make(map[string]string)

	values := map[string]string{
		"job_name":   in.JobName,
		"job_number": in.JobNumber,
	}
	for _, key := range RequiredFields {
		if strings.TrimSpace(values[key]) == "" {
			fields[key] = "This field is required"
		}
	}

	if d := strings.TrimSpace(in.JobStartDate); d != "" {
		if _, err := time.Parse(DateLayout, d); err != nil {
			fields["job_start_date"] = "Use the YYYY-MM-DD format"
		}
	}

	if e := strings.TrimSpace(in.ContactEmail); e != "" {
		if _, err := mail.ParseAddress(e); err != nil {
			fields["contact_email"] = "Enter a valid email address"
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// ToRecord validates the payload and converts it into a JobRecord without an id
func (in RecordInput) ToRecord() (JobRecord, error) {
	if err := in.Validate(); err != nil {
		return JobRecord{}, err
	}

	rec := JobRecord{
		JobName:             strings.TrimSpace(in.JobName),
		JobNumber:           strings.TrimSpace(in.JobNumber),
		Location:            strings.TrimSpace(in.Location),
		PM:                  strings.TrimSpace(in.PM),
		Superintendent:      strings.TrimSpace(in.Superintendent),
		Sub:                 strings.TrimSpace(in.Sub),
		Trade:               strings.TrimSpace(in.Trade),
		Submittal:           strings.TrimSpace(in.Submittal),
		ScopeOfWork:         in.ScopeOfWork,
		SpecialRequirements: in.SpecialRequirements,
		ContactName:         strings.TrimSpace(in.ContactName),
		ContactPhone:        strings.TrimSpace(in.ContactPhone),
		ContactEmail:        strings.TrimSpace(in.ContactEmail),
		Notes:               in.Notes,
	}

	if d := strings.TrimSpace(in.JobStartDate); d != "" {
		t, _ := time.Parse(DateLayout, d)
		date := datatypes.Date(t)
		rec.JobStartDate = &date
	}

	return rec, nil
}
