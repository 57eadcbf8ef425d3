package feed

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mchmarny/aipulse/pkg/score"
)

const (
	rssEndpointDefault     = "https://www.bing.com/news/search"
	newsAPIEndpointDefault = "https://newsapi.org/v2/everything"

	requestTimeout = 30 * time.Second
	pageSizeMax    = 100

	rssSourceName = "Bing RSS"
)

// Fetcher pulls recent news items from public providers. One request
// per call, no retries, no parallel feed walking; the engine downstream
// expects a single flattened batch.
type Fetcher struct {
	client *http.Client

	// Endpoints are overridable for tests.
	RSSEndpoint     string
	NewsAPIEndpoint string
}

// New wires an HTTP client, defaulting to a 30s-timeout client.
func New(client *http.Client) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: requestTimeout}
	}
	return &Fetcher{
		client:          client,
		RSSEndpoint:     rssEndpointDefault,
		NewsAPIEndpoint: newsAPIEndpointDefault,
	}
}

type rssFeed struct {
	Items []rssItem `xml:"channel>item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	PubDate     string `xml:"pubDate"`
	Description string `xml:"description"`
}

// FetchRSS queries the news RSS endpoint (no API key required) sorted
// by date for the given query.
func (f *Fetcher) FetchRSS(ctx context.Context, query string) ([]score.Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.RSSEndpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating rss request: %w", err)
	}

	q := req.URL.Query()
	q.Set("q", query)
	q.Set("qft", `sortbydate="1"`)
	q.Set("format", "rss")
	req.URL.RawQuery = q.Encode()

	res, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching rss feed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rss feed returned %s", res.Status)
	}

	b, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("reading rss body: %w", err)
	}

	var parsed rssFeed
	if err := xml.Unmarshal(b, &parsed); err != nil {
		return nil, fmt.Errorf("parsing rss feed: %w", err)
	}

	now := time.Now().UTC()
	items := make([]score.Item, 0, len(parsed.Items))
	for _, it := range parsed.Items {
		link := strings.TrimSpace(it.Link)
		items = append(items, score.Item{
			ID:          sha16(link),
			Title:       normalizeText(it.Title),
			URL:         link,
			Source:      rssSourceName,
			PublishedAt: rssDateToISO(it.PubDate, now),
			Summary:     StripHTML(it.Description),
		})
	}
	return items, nil
}

type newsAPIResponse struct {
	Articles []struct {
		Title       string `json:"title"`
		URL         string `json:"url"`
		Description string `json:"description"`
		PublishedAt string `json:"publishedAt"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

// FetchNewsAPI queries the NewsAPI "everything" endpoint for articles
// published inside the window. Requires an API key.
func (f *Fetcher) FetchNewsAPI(ctx context.Context, query string, windowDays int, apiKey string) ([]score.Item, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key is required for the newsapi provider")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.NewsAPIEndpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating newsapi request: %w", err)
	}

	from := time.Now().UTC().AddDate(0, 0, -windowDays).Format("2006-01-02")
	q := req.URL.Query()
	q.Set("q", query)
	q.Set("from", from)
	q.Set("language", "en")
	q.Set("sortBy", "publishedAt")
	q.Set("pageSize", fmt.Sprintf("%d", pageSizeMax))
	req.URL.RawQuery = q.Encode()
	req.Header.Set("X-Api-Key", apiKey)

	res, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching newsapi: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("newsapi returned %s", res.Status)
	}

	var parsed newsAPIResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding newsapi response: %w", err)
	}

	items := make([]score.Item, 0, len(parsed.Articles))
	for _, a := range parsed.Articles {
		items = append(items, score.Item{
			ID:          sha16(a.URL),
			Title:       normalizeText(a.Title),
			URL:         a.URL,
			Source:      a.Source.Name,
			PublishedAt: a.PublishedAt,
			Summary:     normalizeText(a.Description),
		})
	}
	return items, nil
}

// Select scores every item (recency decay times source weight), orders
// best first, and keeps the top n. The returned order is the contract
// the aggregator's first-wins semantics rely on.
func Select(items []score.Item, windowDays, n int, now time.Time) []score.Item {
	scored := make([]score.Item, len(items))
	copy(scored, items)

	for i := range scored {
		s := Recency(scored[i].PublishedAt, windowDays, now) * SourceWeight(scored[i].Source)
		scored[i].Score = roundTo(s, 4)
	}

	sortByScoreDesc(scored)

	if n > 0 && len(scored) > n {
		scored = scored[:n]
	}
	return scored
}

// sha16 derives a stable 16-char identity from a URL.
func sha16(s string) string {
	h := sha1.Sum([]byte(s))
	return hex.EncodeToString(h[:])[:16]
}

var whitespaceRE = regexp.MustCompile(`\s+`)

func normalizeText(s string) string {
	return strings.TrimSpace(whitespaceRE.ReplaceAllString(s, " "))
}

// StripHTML extracts plain text from feed descriptions that embed
// markup.
func StripHTML(s string) string {
	if !strings.Contains(s, "<") {
		return normalizeText(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return normalizeText(s)
	}
	return normalizeText(doc.Text())
}

// rssDateToISO converts an RFC1123-style pubDate to the document's ISO
// layout, substituting now when the date does not parse.
func rssDateToISO(pubDate string, now time.Time) string {
	for _, layout := range []string{time.RFC1123Z, time.RFC1123, time.RFC822Z, time.RFC822} {
		if t, err := time.Parse(layout, strings.TrimSpace(pubDate)); err == nil {
			return t.UTC().Format(score.GeneratedAtFormat)
		}
	}
	return now.Format(score.GeneratedAtFormat)
}
