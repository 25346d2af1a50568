package scrape

import "testing"

func TestNormalizeStripsQueryFragmentAndSlash(t *testing.T) {
	want := "https://x.com/a"
	for _, raw := range []string{
		"https://x.com/a/?ref=1#frag",
		"https://x.com/a/",
		"https://x.com/a",
		"https://x.com/a#frag",
		"https://x.com/a?utm_source=feed",
	} {
		if got := Normalize(raw); got != want {
			t.Fatalf("Normalize(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	for _, raw := range []string{
		"https://x.com/a/?ref=1#frag",
		"https://x.com/a//",
		"",
		"not a url",
	} {
		once := Normalize(raw)
		if twice := Normalize(once); twice != once {
			t.Fatalf("Normalize not idempotent for %q: %q != %q", raw, once, twice)
		}
	}
}

func TestNormalizeEmpty(t *testing.T) {
	if got := Normalize(""); got != "" {
		t.Fatalf("Normalize(\"\") = %q, want \"\"", got)
	}
}

func TestNormalizeStripsOnlyOneTrailingSlash(t *testing.T) {
	if got := Normalize("https://x.com/a//"); got != "https://x.com/a/" {
		t.Fatalf("got %q, want one slash kept", got)
	}
}
