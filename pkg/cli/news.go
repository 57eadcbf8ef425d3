package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/mchmarny/aipulse/pkg/config"
	"github.com/mchmarny/aipulse/pkg/data"
	"github.com/mchmarny/aipulse/pkg/feed"
	"github.com/mchmarny/aipulse/pkg/score"
	urfave "github.com/urfave/cli/v2"
)

const topNewsDefault = 5

var (
	newsQueryFlag = &urfave.StringFlag{
		Name:  "query",
		Usage: "News search query (overrides config and NEWS_QUERY)",
	}

	newsWindowFlag = &urfave.IntFlag{
		Name:  "window",
		Usage: "Fetch window in days",
	}

	newsTopFlag = &urfave.IntFlag{
		Name:  "top",
		Usage: "Number of items kept in top_news",
		Value: topNewsDefault,
	}

	newsCmd = &urfave.Command{
		Name:            "news",
		HideHelpCommand: true,
		Usage:           "Fetch recent AI news and refresh the dashboard top_news list",
		Flags: []urfave.Flag{
			newsQueryFlag,
			newsWindowFlag,
			newsTopFlag,
		},
		Action: cmdUpdateNews,
	}
)

// NewsResult summarizes a fetch for CLI output.
type NewsResult struct {
	Fetched int    `json:"fetched" yaml:"fetched"`
	Kept    int    `json:"kept" yaml:"kept"`
	Path    string `json:"path" yaml:"path"`
}

func cmdUpdateNews(c *urfave.Context) error {
	cfg := getConfig(c)

	query := c.String(newsQueryFlag.Name)
	if query == "" {
		query = cfg.Conf.Query
	}
	window := c.Int(newsWindowFlag.Name)
	if window <= 0 {
		window = cfg.Conf.WindowDays
	}
	topN := c.Int(newsTopFlag.Name)
	if topN <= 0 {
		topN = topNewsDefault
	}

	f := feed.New(nil)

	var (
		items []score.Item
		err   error
	)
	if cfg.Conf.Provider == config.ProviderNewsAPI {
		key := getNewsAPIKey()
		if key == "" {
			slog.Warn("newsapi provider configured but no key found, using rss")
			items, err = f.FetchRSS(c.Context, query)
		} else {
			items, err = f.FetchNewsAPI(c.Context, query, window, key)
		}
	} else {
		items, err = f.FetchRSS(c.Context, query)
	}
	if err != nil {
		return fmt.Errorf("fetching news: %w", err)
	}

	now := time.Now().UTC()
	top := feed.Select(items, window, topN, now)

	// Rewrite only the fields this command owns; the leaderboard and any
	// unknown document fields pass through untouched.
	doc := data.ReadDocument(cfg.DataPath)
	if err := data.SetTopNews(doc, top); err != nil {
		return fmt.Errorf("updating top news: %w", err)
	}
	if _, ok := doc[score.DocFieldLeaderboard]; !ok {
		doc[score.DocFieldLeaderboard] = []byte(`{}`)
	}

	if err := data.WriteDocument(cfg.DataPath, doc); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}

	if _, err := data.SaveItems(cfg.DB, top, now); err != nil {
		return fmt.Errorf("saving news history: %w", err)
	}

	slog.Info("top news updated", "fetched", len(items), "kept", len(top), "path", cfg.DataPath)

	return encode(NewsResult{
		Fetched: len(items),
		Kept:    len(top),
		Path:    cfg.DataPath,
	})
}
