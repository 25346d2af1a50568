package notify

import (
	"strings"
	"testing"

	"jobwatch/internal/scrape"
)

func TestRenderFullPosting(t *testing.T) {
	p := scrape.Posting{
		Title: "Acme Hiring Software Engineer",
		URL:   "https://jobs.example.com/acme-swe",
		Details: scrape.Fields{
			"Company Name":   "Acme Corp",
			"Job Role":       "Software Engineer",
			"Job Location":   "Bangalore",
			"Qualifications": "B.E/B.Tech",
			"Batch":          "2023/2024",
			"Experience":     "0-1 Years",
			"Salary":         "6 LPA",
			"Apply Link":     "https://careers.acme.example/apply",
		},
	}

	got := Render(p)
	want := "Acme Hiring Software Engineer\n\nJob Details:\n" +
		"\nCompany: Acme Corp" +
		"\nJob Role: Software Engineer" +
		"\nJob Location: Bangalore" +
		"\nQualifications: B.E/B.Tech" +
		"\nBatch: 2023/2024" +
		"\nExperience: 0-1 Years" +
		"\nSalary: 6 LPA" +
		"\n\nApply Link: https://careers.acme.example/apply"
	if got != want {
		t.Fatalf("Render mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderEmptyDetailsUsesFallbacks(t *testing.T) {
	got := Render(scrape.Posting{Title: "Mystery Job", Details: scrape.Fields{}})

	for _, line := range []string{
		"Company: Not specified",
		"Job Role: Not specified",
		"Job Location: Multiple Locations",
		"Qualifications: Any Graduate",
		"Batch: Not specified",
		"Experience: Freshers",
		"Salary: Competitive",
	} {
		if !strings.Contains(got, line) {
			t.Errorf("missing fallback line %q in:\n%s", line, got)
		}
	}
	if !strings.HasSuffix(got, "Apply Link: ") {
		t.Errorf("apply link should render empty, no fallback:\n%s", got)
	}
}

func TestRenderCompanyPrefersExplicitField(t *testing.T) {
	got := Render(scrape.Posting{
		Title: "X",
		Details: scrape.Fields{
			"Company":      "Explicit Ltd",
			"Company Name": "Link Text Inc",
		},
	})
	if !strings.Contains(got, "Company: Explicit Ltd") {
		t.Fatalf("Company should prefer the labeled field:\n%s", got)
	}
}

func TestRenderEmptyValueFallsBack(t *testing.T) {
	// The extractor sets absent targeted keys to ""; rendering treats that
	// the same as missing.
	got := Render(scrape.Posting{
		Title:   "X",
		Details: scrape.Fields{"Company Name": "", "Salary": "   "},
	})
	if !strings.Contains(got, "Company: Not specified") {
		t.Fatalf("empty Company Name should fall back:\n%s", got)
	}
	if !strings.Contains(got, "Salary: Competitive") {
		t.Fatalf("blank Salary should fall back:\n%s", got)
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	p := scrape.Posting{
		Title:   "Repeat",
		Details: scrape.Fields{"Job Role": "QA", "Apply Link": "https://x"},
	}
	a, b := Render(p), Render(p)
	if a != b {
		t.Fatalf("Render not deterministic:\n%s\nvs\n%s", a, b)
	}
}
