package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// JobRecord is one job intake entry.
// Columns and JSON keys share the snake_case names the intake form posts.
type JobRecord struct {
	ID string `gorm:"primaryKey;type:uuid" json:"id"`

	// Project
	JobName      string          `gorm:"column:job_name;index" json:"job_name"`
	JobNumber    string          `gorm:"column:job_number;index" json:"job_number"`
	Location     string          `gorm:"column:location" json:"location"`
	JobStartDate *datatypes.Date `gorm:"column:job_start_date" json:"job_start_date"`

	// Personnel
	PM             string `gorm:"column:pm" json:"pm"`
	Superintendent string `gorm:"column:superintendent" json:"superintendent"`
	Sub            string `gorm:"column:sub" json:"sub"`
	Trade          string `gorm:"column:trade" json:"trade"`

	// Scope
	Submittal           string `gorm:"column:submittal" json:"submittal"`
	ScopeOfWork         string `gorm:"column:scope_of_work;type:text" json:"scope_of_work"`
	SpecialRequirements string `gorm:"column:special_requirements;type:text" json:"special_requirements"`

	// Contact
	ContactName  string `gorm:"column:contact_name" json:"contact_name"`
	ContactPhone string `gorm:"column:contact_phone" json:"contact_phone"`
	ContactEmail string `gorm:"column:contact_email" json:"contact_email"`

	Notes string `gorm:"column:notes;type:text" json:"notes"`

	CreatedBy string    `gorm:"column:created_by;index" json:"created_by,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName specifies the table name
func (JobRecord) TableName() string {
	return "jobs"
}

// BeforeCreate assigns the record id; ids are never reused
func (r *JobRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// StartDate returns the job start date, if set
func (r JobRecord) StartDate() (time.Time, bool) {
	if r.JobStartDate == nil {
		return time.Time{}, false
	}
	return time.Time(*r.JobStartDate), true
}
