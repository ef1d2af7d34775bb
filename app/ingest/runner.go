package ingest

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/asare-dev/newsforge/app/database"
)

const (
	// Per-fetch timeout; a stalled host never holds a run hostage.
	fetchTimeout = 10 * time.Second
	// RSS: newest items considered per source.
	maxFeedItems = 15
	// Scrape: candidate links discovered from a homepage, and how many of
	// them are actually visited.
	maxDiscoveredLinks = 10
	maxVisitedLinks    = 5
	// Courtesy delays between item fetches within one source.
	rssItemDelay    = 500 * time.Millisecond
	scrapeItemDelay = time.Second
	// Ceiling on slug suffix probing. The contract is unbounded probing;
	// past this the item fails instead of hanging the run.
	maxSlugProbes = 1000
)

// articlePathRe recognizes likely article URLs: a date segment or a known
// section path.
var articlePathRe = regexp.MustCompile(`(?i)/\d{4}/|/(news|article|story|post)/`)

// Runner drives one ingestion run per source type: fetch, extract,
// classify, dedup, rewrite, persist, watermark.
type Runner struct {
	articles  database.ArticleRepository
	sources   database.SourceRepository
	extractor *Extractor
	rewriter  *Rewriter
	parser    *gofeed.Parser

	rssDelay    time.Duration
	scrapeDelay time.Duration
}

func NewRunner(articles database.ArticleRepository, sources database.SourceRepository,
	extractor *Extractor, rewriter *Rewriter) *Runner {
	return &Runner{
		articles:    articles,
		sources:     sources,
		extractor:   extractor,
		rewriter:    rewriter,
		parser:      gofeed.NewParser(),
		rssDelay:    rssItemDelay,
		scrapeDelay: scrapeItemDelay,
	}
}

// RunRSS ingests all active RSS sources sequentially. Source and item
// failures only move counters; the returned error is reserved for a broken
// source store.
func (r *Runner) RunRSS(ctx context.Context) (Result, error) {
	var res Result

	sources, err := r.sources.GetActiveSources(database.SourceTypeRSS)
	if err != nil {
		return res, fmt.Errorf("failed to load RSS sources: %w", err)
	}

	for _, source := range sources {
		if ctx.Err() != nil {
			break
		}

		data, err := r.fetchWithTimeout(ctx, source.URL)
		if err != nil {
			slog.Warn("Feed fetch failed", "source", source.Name, "url", source.URL, "error", err)
			res.Failed++
			continue
		}

		feed, err := r.parser.Parse(bytes.NewReader(data))
		if err != nil {
			slog.Warn("Feed parse failed", "source", source.Name, "url", source.URL, "error", err)
			res.Failed++
			continue
		}

		items := feed.Items
		if len(items) > maxFeedItems {
			items = items[:maxFeedItems]
		}

		for _, item := range items {
			if ctx.Err() != nil {
				break
			}
			if r.ingestFeedItem(ctx, item, source, &res) {
				sleepCtx(ctx, r.rssDelay)
			}
		}

		if err := r.sources.UpdateWatermark(database.SourceTypeRSS, source.ID); err != nil {
			slog.Error("Failed to update source watermark", "source", source.Name, "error", err)
		}

		slog.Info("Source processed", "type", "rss", "source", source.Name, "items", len(items))
	}

	return res, nil
}

// RunScrape ingests all active scrape sources sequentially: discover
// article links on each homepage, then visit a handful of them.
func (r *Runner) RunScrape(ctx context.Context) (Result, error) {
	var res Result

	sources, err := r.sources.GetActiveSources(database.SourceTypeScrape)
	if err != nil {
		return res, fmt.Errorf("failed to load scrape sources: %w", err)
	}

	for _, source := range sources {
		if ctx.Err() != nil {
			break
		}

		data, err := r.fetchWithTimeout(ctx, source.URL)
		if err != nil {
			slog.Warn("Homepage fetch failed", "source", source.Name, "url", source.URL, "error", err)
			res.Failed++
			continue
		}

		links, err := discoverArticleLinks(data, source.URL)
		if err != nil {
			slog.Warn("Link discovery failed", "source", source.Name, "error", err)
			res.Failed++
			continue
		}

		if len(links) > maxVisitedLinks {
			links = links[:maxVisitedLinks]
		}

		for _, link := range links {
			if ctx.Err() != nil {
				break
			}
			if r.ingestScrapedPage(ctx, link, source, &res) {
				sleepCtx(ctx, r.scrapeDelay)
			}
		}

		if err := r.sources.UpdateWatermark(database.SourceTypeScrape, source.ID); err != nil {
			slog.Error("Failed to update source watermark", "source", source.Name, "error", err)
		}

		slog.Info("Source processed", "type", "scrape", "source", source.Name, "links", len(links))
	}

	return res, nil
}

// ingestFeedItem reports whether the item made it past the duplicate
// check into extraction; only those items cost network work and pay the
// courtesy delay.
func (r *Runner) ingestFeedItem(ctx context.Context, item *gofeed.Item, source database.Source, res *Result) bool {
	link := strings.TrimSpace(item.Link)
	if strings.TrimSpace(item.Title) == "" || link == "" {
		res.Failed++
		return false
	}

	// Check-then-insert on source_url is deliberately non-atomic;
	// overlapping runs can both pass this check for the same URL.
	dup, err := r.articles.ExistsBySourceURL(link)
	if err != nil {
		slog.Error("Duplicate check failed", "url", link, "error", err)
		res.Failed++
		return false
	}
	if dup {
		return false
	}

	itemCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	extracted, err := r.extractor.ExtractFeedItem(itemCtx, item, source.Name, source.Category)
	cancel()
	if err != nil {
		slog.Debug("Feed item rejected", "source", source.Name, "url", link, "error", err)
		res.Failed++
		return true
	}

	r.persist(ctx, extracted, res)
	return true
}

// ingestScrapedPage reports whether the page was actually fetched, same
// contract as ingestFeedItem.
func (r *Runner) ingestScrapedPage(ctx context.Context, link string, source database.Source, res *Result) bool {
	dup, err := r.articles.ExistsBySourceURL(link)
	if err != nil {
		slog.Error("Duplicate check failed", "url", link, "error", err)
		res.Failed++
		return false
	}
	if dup {
		return false
	}

	pageCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	extracted, err := r.extractor.ExtractPage(pageCtx, link, source.Name)
	cancel()
	if err != nil {
		slog.Debug("Page rejected", "source", source.Name, "url", link, "error", err)
		res.Failed++
		return true
	}

	r.persist(ctx, extracted, res)
	return true
}

// persist runs rewrite, slug assignment and the insert for one candidate.
func (r *Runner) persist(ctx context.Context, extracted *Extracted, res *Result) {
	rewriteCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	content, aiRewritten := r.rewriter.Run(rewriteCtx, extracted)
	cancel()

	slug, err := r.assignSlug(extracted.Title)
	if err != nil {
		slog.Error("Slug assignment failed", "title", extracted.Title, "error", err)
		res.Failed++
		return
	}

	now := time.Now().UTC()
	createdAt := now
	if extracted.PublishedAt != nil {
		createdAt = extracted.PublishedAt.UTC()
	}

	article := &database.Article{
		Title:         extracted.Title,
		Slug:          slug,
		Content:       content,
		Excerpt:       Excerpt(content),
		Category:      extracted.Category,
		Source:        extracted.Source,
		SourceURL:     extracted.SourceURL,
		ImageURL:      extracted.ImageURL,
		Status:        "published",
		IsScraped:     true,
		IsAIRewritten: aiRewritten,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}

	if err := r.articles.Insert(article); err != nil {
		slog.Error("Article insert failed", "slug", slug, "url", extracted.SourceURL, "error", err)
		res.Failed++
		return
	}

	res.Added++
	slog.Debug("Article ingested", "slug", slug, "category", article.Category, "ai_rewritten", aiRewritten)
}

// assignSlug probes slug, slug-1, slug-2, ... until an unused one is found.
func (r *Runner) assignSlug(title string) (string, error) {
	base := Slugify(title)

	for counter := 0; counter < maxSlugProbes; counter++ {
		candidate := base
		if counter > 0 {
			candidate = fmt.Sprintf("%s-%d", base, counter)
		}

		exists, err := r.articles.ExistsBySlug(candidate)
		if err != nil {
			return "", fmt.Errorf("failed to probe slug: %w", err)
		}
		if !exists {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("no free slug for %q after %d probes", base, maxSlugProbes)
}

func (r *Runner) fetchWithTimeout(ctx context.Context, url string) ([]byte, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()
	return r.extractor.Fetch(fetchCtx, url)
}

// discoverArticleLinks collects same-origin links from a homepage that look
// like article URLs, capped and deduplicated in document order.
func discoverArticleLinks(homepage []byte, sourceURL string) ([]string, error) {
	base, err := url.Parse(sourceURL)
	if err != nil {
		return nil, fmt.Errorf("invalid source URL: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(homepage))
	if err != nil {
		return nil, fmt.Errorf("failed to parse homepage: %w", err)
	}

	seen := make(map[string]bool)
	var links []string

	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, ok := s.Attr("href")
		if !ok || href == "" {
			return true
		}

		ref, err := url.Parse(href)
		if err != nil {
			return true
		}
		full := base.ResolveReference(ref)

		if full.Hostname() != base.Hostname() {
			return true
		}
		if !articlePathRe.MatchString(full.String()) {
			return true
		}

		u := full.String()
		if seen[u] {
			return true
		}
		seen[u] = true
		links = append(links, u)

		return len(links) < maxDiscoveredLinks
	})

	return links, nil
}

func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
