package notify

import (
	"strings"

	"jobwatch/internal/scrape"
)

// renderField is one line of the announcement: the display label, the detail
// keys consulted in order, and the text used when none of them is set.
type renderField struct {
	label    string
	keys     []string
	fallback string
}

// Display order and fallbacks. "Company" prefers an explicitly labeled
// Company field and falls back to the company-website link text captured
// under "Company Name".
var renderFields = []renderField{
	{label: "Company", keys: []string{"Company", "Company Name"}, fallback: "Not specified"},
	{label: "Job Role", keys: []string{"Job Role"}, fallback: "Not specified"},
	{label: "Job Location", keys: []string{"Job Location"}, fallback: "Multiple Locations"},
	{label: "Qualifications", keys: []string{"Qualifications"}, fallback: "Any Graduate"},
	{label: "Batch", keys: []string{"Batch"}, fallback: "Not specified"},
	{label: "Experience", keys: []string{"Experience"}, fallback: "Freshers"},
	{label: "Salary", keys: []string{"Salary"}, fallback: "Competitive"},
}

// Render formats a posting as the announcement message. Deterministic and
// purely a function of the posting: title first, then the known fields with
// their fallbacks, then the apply link (no fallback, possibly empty).
func Render(p scrape.Posting) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(p.Title))
	b.WriteString("\n\nJob Details:\n")

	for _, f := range renderFields {
		b.WriteString("\n")
		b.WriteString(f.label)
		b.WriteString(": ")
		b.WriteString(lookup(p.Details, f.keys, f.fallback))
	}

	b.WriteString("\n\nApply Link: ")
	b.WriteString(strings.TrimSpace(p.Details[scrape.FieldApplyLink]))
	return b.String()
}

// lookup returns the first non-empty value among keys; empty strings count
// as absent (the extractor sets absent targeted keys to "").
func lookup(d scrape.Fields, keys []string, fallback string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(d[k]); v != "" {
			return v
		}
	}
	return fallback
}
