package scrape

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"jobwatch/pkg/logx"
)

type Config struct {
	IndexURL string

	// LinkSelector locates posting links on the index page, newest first.
	LinkSelector string

	UserAgent    string
	FetchTimeout time.Duration
}

// Scraper enumerates postings on the index page and hydrates each one from
// its detail page through the configured Extractor.
type Scraper struct {
	cfg Config
	hc  *http.Client
	ex  Extractor
	log logx.Logger
}

func New(cfg Config, ex Extractor, log logx.Logger) *Scraper {
	timeout := cfg.FetchTimeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	if cfg.LinkSelector == "" {
		cfg.LinkSelector = ".entry-title > a"
	}
	if ex == nil {
		ex = LabelExtractor{}
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Scraper{
		cfg: cfg,
		hc:  &http.Client{Timeout: timeout},
		ex:  ex,
		log: log,
	}
}

// ref is one posting link as found on the index page.
type ref struct {
	title string
	href  string // raw, used for the detail fetch
	key   string // canonical
}

// Latest returns the newest posting, hydrated from its detail page.
// Returns (nil, nil) when the index has no postings; extraction failure for
// the newest posting also yields (nil, nil) since the result would be
// unusable either way (logged, not fatal).
func (s *Scraper) Latest(ctx context.Context) (*Posting, error) {
	refs, err := s.index(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		return nil, nil
	}
	p, err := s.hydrate(ctx, refs[0])
	if err != nil {
		s.log.Warn("detail extraction failed", logx.String("url", refs[0].key), logx.Err(err))
		return nil, nil
	}
	return p, nil
}

// Recent returns up to limit postings in index order. Detail pages are
// fetched strictly sequentially (politeness toward the source site); a
// posting whose extraction fails is skipped, not reported.
func (s *Scraper) Recent(ctx context.Context, limit int) ([]Posting, error) {
	if limit <= 0 {
		return nil, nil
	}
	refs, err := s.index(ctx, limit)
	if err != nil {
		return nil, err
	}

	out := make([]Posting, 0, len(refs))
	for _, r := range refs {
		p, err := s.hydrate(ctx, r)
		if err != nil {
			s.log.Warn("detail extraction failed; skipping posting", logx.String("url", r.key), logx.Err(err))
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

// index fetches the listing page once and collects the first limit posting
// references in document order.
func (s *Scraper) index(ctx context.Context, limit int) ([]ref, error) {
	doc, err := s.fetch(ctx, s.cfg.IndexURL)
	if err != nil {
		return nil, fmt.Errorf("index fetch: %w", err)
	}

	base, err := url.Parse(s.cfg.IndexURL)
	if err != nil {
		return nil, fmt.Errorf("index url: %w", err)
	}

	var refs []ref
	doc.Find(s.cfg.LinkSelector).EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, ok := a.Attr("href")
		href = strings.TrimSpace(href)
		if !ok || href == "" {
			return true
		}
		// Relative links resolve against the index page.
		if u, err := base.Parse(href); err == nil {
			href = u.String()
		}
		refs = append(refs, ref{
			title: cleanText(a.Text()),
			href:  href,
			key:   Normalize(href),
		})
		return len(refs) < limit
	})
	return refs, nil
}

func (s *Scraper) hydrate(ctx context.Context, r ref) (*Posting, error) {
	doc, err := s.fetch(ctx, r.href)
	if err != nil {
		return nil, err
	}
	return &Posting{
		Title:   r.title,
		URL:     r.key,
		Details: s.ex.Extract(doc),
	}, nil
}

func (s *Scraper) fetch(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	ua := s.cfg.UserAgent
	if ua == "" {
		ua = "jobwatch/1.0 (+https://github.com/jobwatch)"
	}
	req.Header.Set("User-Agent", ua)

	res, err := s.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("get %s: status %d", url, res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}
	return doc, nil
}
