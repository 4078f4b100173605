package render

import "strings"

// FallbackName replaces a missing job number in file names
const FallbackName = "Record"

// FileName builds Job_Intake_<job number>[_<suffix>].pdf
func FileName(jobNumber, suffix string) string {
	name := sanitize(strings.TrimSpace(jobNumber))
	if name == "" {
		name = FallbackName
	}
	if suffix != "" {
		name += "_" + sanitize(suffix)
	}
	return "Job_Intake_" + name + ".pdf"
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-', r == '_', r == '.':
			return r
		}
		return '_'
	}, s)
}
