package ingest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

const (
	minTitleLength = 10
	// Quality gates for the HTML-page path.
	minPageContentChars = 100
	minPageContentWords = 100
	maxContentLength    = 8000
	// A content selector candidate wins once its text exceeds this.
	selectorContentThreshold = 200
	// Paragraphs shorter than this are noise in the fallback pass.
	minParagraphLength = 50
	// Quality gate for the feed-item path.
	minFeedContentChars = 50
	// Feed items below this word count get the page-scrape fallback.
	feedScrapeThresholdWords = 150
)

// noiseSelector matches elements stripped from the parse tree before any
// extraction strategy runs.
const noiseSelector = "script, style, nav, header, footer, .ad, .advertisement, .social-share, .related-posts, aside, .sidebar"

// contentSelectors is the ordered strategy list for locating the article
// body, from most specific to least. First candidate over the length
// threshold wins.
var contentSelectors = []string{
	"article .content", "article .body", ".article-content", ".article-body",
	".post-content", ".entry-content", ".story-content", ".news-content",
	"article p", ".content p", "main p",
}

var imgSrcRe = regexp.MustCompile(`(?i)<img[^>]+src=["']([^"']+)["']`)

// Extractor turns raw HTML pages and parsed feed items into candidate
// article records.
type Extractor struct {
	client    *http.Client
	userAgent string
}

func NewExtractor(client *http.Client, userAgent string) *Extractor {
	if client == nil {
		client = &http.Client{}
	}
	return &Extractor{client: client, userAgent: userAgent}
}

// Fetch retrieves a URL with the identifying user agent. Callers bound the
// context; a non-2xx status is an error.
func (e *Extractor) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", e.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

// ExtractPage fetches an article page and extracts title, body text and a
// representative image using the ordered strategy lists. Pages failing the
// quality gates are rejected with an error.
func (e *Extractor) ExtractPage(ctx context.Context, pageURL, sourceName string) (*Extracted, error) {
	data, err := e.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find(noiseSelector).Remove()

	title := e.extractTitle(doc)
	if len(title) < minTitleLength {
		return nil, fmt.Errorf("title too short: %q", title)
	}

	imageURL := e.extractImage(doc)

	content := e.extractContent(doc)
	if len(content) < minPageContentChars {
		return nil, fmt.Errorf("content too short: %d chars", len(content))
	}
	if words := len(strings.Fields(content)); words < minPageContentWords {
		return nil, fmt.Errorf("content too short: %d words", words)
	}

	content = truncate(content, maxContentLength)

	keywords := doc.Find(`meta[name="keywords"]`).AttrOr("content", "")
	category := Classify(pageURL + " " + title + " " + keywords)

	return &Extracted{
		Title:     title,
		Content:   content,
		Excerpt:   Excerpt(content),
		ImageURL:  imageURL,
		SourceURL: pageURL,
		Source:    sourceName,
		Category:  category,
	}, nil
}

// ExtractFeedItem builds a candidate from a parsed feed item, falling back
// to scraping the linked page when the feed content is thin.
func (e *Extractor) ExtractFeedItem(ctx context.Context, item *gofeed.Item, sourceName, sourceCategory string) (*Extracted, error) {
	title := strings.TrimSpace(item.Title)
	link := strings.TrimSpace(item.Link)
	if title == "" || link == "" {
		return nil, fmt.Errorf("feed item missing title or link")
	}

	raw := richestContent(item)
	content := StripMarkup(raw)
	imageURL := feedItemImage(item, raw)

	if len(strings.Fields(content)) < feedScrapeThresholdWords {
		if scraped, err := e.ExtractPage(ctx, link, sourceName); err == nil {
			if len(scraped.Content) > len(content) {
				content = scraped.Content
			}
			if imageURL == "" {
				imageURL = scraped.ImageURL
			}
		}
	}

	if len(content) < minFeedContentChars {
		return nil, fmt.Errorf("content too short: %d chars", len(content))
	}

	return &Extracted{
		Title:       title,
		Content:     content,
		Excerpt:     Excerpt(content),
		ImageURL:    imageURL,
		SourceURL:   link,
		Source:      sourceName,
		Category:    Classify(title + " " + sourceCategory),
		PublishedAt: item.PublishedParsed,
	}, nil
}

func (e *Extractor) extractTitle(doc *goquery.Document) string {
	if t := strings.TrimSpace(doc.Find("h1").First().Text()); t != "" {
		return t
	}
	if t := strings.TrimSpace(doc.Find(`meta[property="og:title"]`).AttrOr("content", "")); t != "" {
		return t
	}
	return strings.TrimSpace(doc.Find("title").Text())
}

func (e *Extractor) extractImage(doc *goquery.Document) string {
	if src := strings.TrimSpace(doc.Find(`meta[property="og:image"]`).AttrOr("content", "")); src != "" {
		return src
	}
	if src := strings.TrimSpace(doc.Find("article img").First().AttrOr("src", "")); src != "" {
		return src
	}
	return strings.TrimSpace(doc.Find(".article-image img, .featured-image img, .post-image img").First().AttrOr("src", ""))
}

func (e *Extractor) extractContent(doc *goquery.Document) string {
	for _, selector := range contentSelectors {
		text := StripMarkup(doc.Find(selector).Text())
		if len(text) > selectorContentThreshold {
			return text
		}
	}

	// Fallback: every meaningful paragraph on the page.
	var paragraphs []string
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		text := StripMarkup(s.Text())
		if len(text) > minParagraphLength {
			paragraphs = append(paragraphs, text)
		}
	})

	return strings.Join(paragraphs, "\n\n")
}

// richestContent picks the fullest text field a feed item offers.
func richestContent(item *gofeed.Item) string {
	if item.Content != "" {
		return item.Content
	}
	return item.Description
}

func feedItemImage(item *gofeed.Item, rawContent string) string {
	if media, ok := item.Extensions["media"]; ok {
		for _, key := range []string{"content", "thumbnail"} {
			for _, ext := range media[key] {
				if url := ext.Attrs["url"]; url != "" {
					return url
				}
			}
		}
	}

	for _, enc := range item.Enclosures {
		if enc != nil && enc.URL != "" {
			return enc.URL
		}
	}

	if m := imgSrcRe.FindStringSubmatch(rawContent); m != nil {
		return m[1]
	}

	return ""
}
