package scrape

import "strings"

// Normalize reduces a raw posting URL to its canonical dedup key:
// the query string, fragment and one trailing slash are dropped, so raw
// forms that differ only by tracking parameters or an anchor collapse to
// the same key. Empty input yields "". Idempotent.
func Normalize(raw string) string {
	u := raw
	if i := strings.IndexByte(u, '?'); i >= 0 {
		u = u[:i]
	}
	if i := strings.IndexByte(u, '#'); i >= 0 {
		u = u[:i]
	}
	u = strings.TrimSuffix(u, "/")
	return u
}
