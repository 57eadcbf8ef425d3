package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>news</title>
    <item>
      <title>OpenAI launches GPT-4o</title>
      <link>https://example.com/a</link>
      <pubDate>Sun, 23 Aug 2026 10:00:00 GMT</pubDate>
      <description>&lt;p&gt;Strong &lt;b&gt;benchmark&lt;/b&gt; results&lt;/p&gt;</description>
    </item>
    <item>
      <title>  Anthropic   ships Claude update </title>
      <link>https://example.com/b</link>
      <pubDate>not a date</pubDate>
      <description></description>
    </item>
  </channel>
</rss>`

func TestFetchRSS(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "rss", r.URL.Query().Get("format"))
		assert.Equal(t, "AI news", r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(testRSS))
	}))
	defer srv.Close()

	f := New(srv.Client())
	f.RSSEndpoint = srv.URL

	items, err := f.FetchRSS(context.Background(), "AI news")
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "OpenAI launches GPT-4o", items[0].Title)
	assert.Equal(t, "https://example.com/a", items[0].URL)
	assert.Equal(t, "Bing RSS", items[0].Source)
	assert.Equal(t, "2026-08-23T10:00:00Z", items[0].PublishedAt)
	assert.Equal(t, "Strong benchmark results", items[0].Summary, "markup stripped")
	assert.Len(t, items[0].ID, 16)

	assert.Equal(t, "Anthropic ships Claude update", items[1].Title, "whitespace collapsed")
	assert.NotEmpty(t, items[1].PublishedAt, "bad pubDate substituted, never fatal")
}

func TestFetchRSS_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := New(srv.Client())
	f.RSSEndpoint = srv.URL

	_, err := f.FetchRSS(context.Background(), "AI")
	assert.Error(t, err)
}

func TestFetchNewsAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		assert.Equal(t, "en", r.URL.Query().Get("language"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"articles":[{
			"title":"Gemini update",
			"url":"https://example.com/g",
			"description":"new release",
			"publishedAt":"2026-08-23T09:00:00Z",
			"source":{"name":"Google Blog"}
		}]}`))
	}))
	defer srv.Close()

	f := New(srv.Client())
	f.NewsAPIEndpoint = srv.URL

	items, err := f.FetchNewsAPI(context.Background(), "AI", 2, "test-key")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Gemini update", items[0].Title)
	assert.Equal(t, "Google Blog", items[0].Source)
	assert.Len(t, items[0].ID, 16)
}

func TestFetchNewsAPI_MissingKey(t *testing.T) {
	f := New(nil)
	_, err := f.FetchNewsAPI(context.Background(), "AI", 2, "")
	assert.Error(t, err)
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text untouched", "no markup here", "no markup here"},
		{"tags removed", "<p>hello <b>world</b></p>", "hello world"},
		{"nested whitespace", "<div>\n  spaced\n  <span>out</span>\n</div>", "spaced out"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripHTML(tt.in))
		})
	}
}

func TestSha16_Stable(t *testing.T) {
	a := sha16("https://example.com/a")
	b := sha16("https://example.com/a")
	c := sha16("https://example.com/b")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 16)
}
