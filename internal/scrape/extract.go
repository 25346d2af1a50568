package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Extractor turns a detail-page document into labeled fields. It is a
// strategy interface so another site template can supply its own heuristics
// without touching the scraper.
type Extractor interface {
	Extract(doc *goquery.Document) Fields
}

// LabelExtractor is the default strategy, tuned to paragraph blocks whose
// first bold element is the field label ("Batch: 2023" style markup).
type LabelExtractor struct{}

// Extract runs the generic label/value pass over every paragraph block in
// document order, then two targeted passes for the apply link and the
// company name. The targeted passes deliberately overwrite generic values
// for the same keys: label text drifts across site template revisions, so
// both passes exist for robustness, and the targeted one wins. Absent
// targets still set their key (to "") rather than omit it.
func (LabelExtractor) Extract(doc *goquery.Document) Fields {
	fields := Fields{}

	doc.Find("p").Each(func(_ int, p *goquery.Selection) {
		label, value, ok := splitLabeledBlock(p)
		if !ok {
			return
		}
		// Later blocks overwrite earlier ones.
		fields[label] = value
	})

	applyLink := ""
	companyName := ""
	doc.Find("p").Each(func(_ int, p *goquery.Selection) {
		label, ok := blockLabel(p)
		if !ok {
			return
		}
		low := strings.ToLower(label)
		if strings.Contains(low, "apply link") {
			if href, ok := p.Find("a").First().Attr("href"); ok {
				applyLink = strings.TrimSpace(href)
			}
		}
		if strings.Contains(low, "company website") {
			companyName = cleanText(p.Find("a").First().Text())
		}
	})
	fields[FieldApplyLink] = applyLink
	fields[FieldCompanyName] = companyName

	return fields
}

// blockLabel returns the paragraph's label: the text of its first emphasized
// element, trailing colon stripped, whitespace collapsed.
func blockLabel(p *goquery.Selection) (string, bool) {
	em := p.Find("strong, b").First()
	if em.Length() == 0 {
		return "", false
	}
	label := cleanText(strings.TrimSuffix(strings.TrimSpace(em.Text()), ":"))
	return label, label != ""
}

// splitLabeledBlock qualifies a paragraph as a field block: its first
// emphasized child is the label, the remaining text is the value. Both must
// be non-empty.
func splitLabeledBlock(p *goquery.Selection) (label, value string, ok bool) {
	label, ok = blockLabel(p)
	if !ok {
		return "", "", false
	}

	em := p.Find("strong, b").First()

	// Value: the block's text minus the label element's text.
	full := p.Text()
	emText := em.Text()
	if i := strings.Index(full, emText); i >= 0 {
		full = full[:i] + full[i+len(emText):]
	}
	value = cleanText(strings.TrimPrefix(strings.TrimSpace(full), ":"))
	if value == "" {
		return "", "", false
	}
	return label, value, true
}

// cleanText collapses runs of whitespace (incl. nbsp) to single spaces.
func cleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}
