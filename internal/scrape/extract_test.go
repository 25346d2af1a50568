package scrape

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func parseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse test html: %v", err)
	}
	return doc
}

func TestExtractLabeledBlocks(t *testing.T) {
	doc := parseDoc(t, `<html><body>
		<p><strong>Batch:</strong> 2023</p>
		<p><strong>Salary:</strong>  5 LPA </p>
		<p>no label here</p>
	</body></html>`)

	fields := LabelExtractor{}.Extract(doc)

	if got := fields["Batch"]; got != "2023" {
		t.Fatalf("Batch = %q, want %q", got, "2023")
	}
	if got := fields["Salary"]; got != "5 LPA" {
		t.Fatalf("Salary = %q, want %q", got, "5 LPA")
	}
	// Only the two labeled blocks plus the two targeted keys.
	if len(fields) != 4 {
		t.Fatalf("unexpected keys in %v", fields)
	}
}

func TestExtractLastOccurrenceWins(t *testing.T) {
	doc := parseDoc(t, `<html><body>
		<p><strong>Batch:</strong> 2022</p>
		<p><strong>Batch:</strong> 2023</p>
	</body></html>`)

	fields := LabelExtractor{}.Extract(doc)
	if got := fields["Batch"]; got != "2023" {
		t.Fatalf("Batch = %q, want the later block to win", got)
	}
}

func TestExtractCollapsesLabelWhitespace(t *testing.T) {
	doc := parseDoc(t, `<html><body>
		<p><strong>Job   Role :</strong> Engineer</p>
	</body></html>`)

	fields := LabelExtractor{}.Extract(doc)
	if _, ok := fields["Job Role :"]; ok {
		t.Fatalf("raw label leaked into fields: %v", fields)
	}
	if got := fields["Job Role"]; got != "Engineer" {
		t.Fatalf("Job Role = %q, want %q", got, "Engineer")
	}
}

func TestExtractTargetedPassWinsEvenWhenAbsent(t *testing.T) {
	// A generic "Company Name" block without a company-website link: the
	// targeted pass still owns the key and resets it to empty.
	doc := parseDoc(t, `<html><body>
		<p><strong>Company Name:</strong> Acme</p>
	</body></html>`)

	fields := LabelExtractor{}.Extract(doc)
	if got := fields[FieldCompanyName]; got != "" {
		t.Fatalf("Company Name = %q, want the targeted pass to reset it", got)
	}
}

func TestExtractApplyLinkOverridesGenericValue(t *testing.T) {
	doc := parseDoc(t, `<html><body>
		<p><strong>Apply Link:</strong> see below</p>
		<p><strong>Apply Link Here:</strong> <a href="https://x/apply">Click Here</a></p>
	</body></html>`)

	fields := LabelExtractor{}.Extract(doc)
	if got := fields[FieldApplyLink]; got != "https://x/apply" {
		t.Fatalf("Apply Link = %q, want the targeted href to win", got)
	}
}

func TestExtractCompanyWebsiteLinkText(t *testing.T) {
	doc := parseDoc(t, `<html><body>
		<p><strong>Company Website:</strong> <a href="https://acme.example">Acme Corp</a></p>
	</body></html>`)

	fields := LabelExtractor{}.Extract(doc)
	if got := fields[FieldCompanyName]; got != "Acme Corp" {
		t.Fatalf("Company Name = %q, want %q", got, "Acme Corp")
	}
}

func TestExtractAbsentTargetsSetEmptyKeys(t *testing.T) {
	doc := parseDoc(t, `<html><body>
		<p><strong>Batch:</strong> 2023</p>
	</body></html>`)

	fields := LabelExtractor{}.Extract(doc)
	for _, k := range []string{FieldApplyLink, FieldCompanyName} {
		v, ok := fields[k]
		if !ok {
			t.Fatalf("key %q missing; want present and empty", k)
		}
		if v != "" {
			t.Fatalf("key %q = %q, want empty", k, v)
		}
	}
}

func TestExtractCaseInsensitiveTargetLabels(t *testing.T) {
	doc := parseDoc(t, `<html><body>
		<p><b>APPLY LINK here:</b> <a href="https://x/go">go</a></p>
	</body></html>`)

	fields := LabelExtractor{}.Extract(doc)
	if got := fields[FieldApplyLink]; got != "https://x/go" {
		t.Fatalf("Apply Link = %q, want %q", got, "https://x/go")
	}
}
