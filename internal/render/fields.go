package render

import (
	"strings"

	"github.com/xelth-com/jobintake/internal/models"
)

// Section titles in render order
const (
	HeaderTitle          = "JOB INTAKE FORM"
	ProjectDetailsTitle  = "PROJECT DETAILS"
	PersonnelTitle       = "PERSONNEL"
	ScopeTitle           = "SCOPE & REQUIREMENTS"
	ContactTitle         = "CONTACT INFORMATION"
	AdditionalNotesTitle = "ADDITIONAL NOTES"
)

const startDateLayout = "January 2, 2006"

type fieldSpec struct {
	key   string
	label string
	value func(models.JobRecord) string
}

// a row holds one full-width field or two side-by-side fields
type rowSpec []fieldSpec

type sectionSpec struct {
	title string
	rows  []rowSpec
	when  func(models.JobRecord) bool
}

var (
	jobNameField   = fieldSpec{"job_name", "Job Name", func(r models.JobRecord) string { return r.JobName }}
	jobNumberField = fieldSpec{"job_number", "Job Number", func(r models.JobRecord) string { return r.JobNumber }}
	locationField  = fieldSpec{"location", "Location", func(r models.JobRecord) string { return r.Location }}
	startDateField = fieldSpec{"job_start_date", "Start Date", formatStartDate}

	pmField             = fieldSpec{"pm", "Project Manager", func(r models.JobRecord) string { return r.PM }}
	superintendentField = fieldSpec{"superintendent", "Superintendent", func(r models.JobRecord) string { return r.Superintendent }}
	subField            = fieldSpec{"sub", "Subcontractor", func(r models.JobRecord) string { return r.Sub }}
	tradeField          = fieldSpec{"trade", "Trade", func(r models.JobRecord) string { return r.Trade }}

	submittalField   = fieldSpec{"submittal", "Submittal", func(r models.JobRecord) string { return r.Submittal }}
	scopeField       = fieldSpec{"scope_of_work", "Scope of Work", func(r models.JobRecord) string { return r.ScopeOfWork }}
	specialReqsField = fieldSpec{"special_requirements", "Special Requirements", func(r models.JobRecord) string { return r.SpecialRequirements }}

	contactNameField  = fieldSpec{"contact_name", "Contact Name", func(r models.JobRecord) string { return r.ContactName }}
	contactPhoneField = fieldSpec{"contact_phone", "Phone", func(r models.JobRecord) string { return r.ContactPhone }}
	contactEmailField = fieldSpec{"contact_email", "Email", func(r models.JobRecord) string { return r.ContactEmail }}

	notesField = fieldSpec{"notes", "Notes", func(r models.JobRecord) string { return r.Notes }}
)

var bodySections = []sectionSpec{
	{
		title: ProjectDetailsTitle,
		rows: []rowSpec{
			{jobNameField, jobNumberField},
			{locationField, startDateField},
		},
	},
	{
		title: PersonnelTitle,
		rows: []rowSpec{
			{pmField, superintendentField},
			{subField, tradeField},
		},
	},
	{
		title: ScopeTitle,
		rows: []rowSpec{
			{submittalField},
			{scopeField},
			{specialReqsField},
		},
	},
	{
		title: ContactTitle,
		rows: []rowSpec{
			{contactNameField, contactPhoneField},
			{contactEmailField},
		},
	},
	{
		title: AdditionalNotesTitle,
		rows:  []rowSpec{{notesField}},
		when:  HasNotes,
	},
}

// FieldKeys lists every record field the renderer prints, in order
func FieldKeys() []string {
	var keys []string
	for _, s := range bodySections {
		for _, row := range s.rows {
			for _, f := range row {
				keys = append(keys, f.key)
			}
		}
	}
	return keys
}

// HasNotes decides whether the Additional Notes section is emitted
func HasNotes(r models.JobRecord) bool {
	return strings.TrimSpace(r.Notes) != ""
}

func formatStartDate(r models.JobRecord) string {
	t, ok := r.StartDate()
	if !ok {
		return ""
	}
	return t.Format(startDateLayout)
}

// jobSubtitle is the header line under the title
func jobSubtitle(r models.JobRecord) string {
	number := strings.TrimSpace(r.JobNumber)
	if number == "" {
		number = MissingJobNumber
	}
	return "Job #" + number
}
