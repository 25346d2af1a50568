package scrape

// Fields maps heuristically derived labels (e.g. "Company Name", "Batch") to
// free-text values. Partial by nature: consumers must apply defaults.
type Fields map[string]string

// Posting is one scraped job record. URL is the canonical key: two postings
// with the same canonical URL are the same real-world event regardless of
// title or detail drift.
type Posting struct {
	Title   string
	URL     string
	Details Fields
}

// Field keys set by the targeted extraction passes.
const (
	FieldApplyLink   = "Apply Link"
	FieldCompanyName = "Company Name"
)
