package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/mchmarny/aipulse/pkg/data"
	"github.com/mchmarny/aipulse/pkg/score"
	urfave "github.com/urfave/cli/v2"
)

var (
	updateTopFlag = &urfave.IntFlag{
		Name:  "top",
		Usage: "Rows kept per bucket (overrides config and TOP_PER_BUCKET)",
	}

	updateCmd = &urfave.Command{
		Name:            "update",
		HideHelpCommand: true,
		Usage:           "Recompute the leaderboard from the dashboard top_news list",
		Flags:           []urfave.Flag{updateTopFlag},
		Action:          cmdUpdateLeaderboard,
	}
)

// UpdateResult summarizes one leaderboard recomputation.
type UpdateResult struct {
	RunID       int64  `json:"run_id" yaml:"runId"`
	Items       int    `json:"items" yaml:"items"`
	Buckets     int    `json:"buckets" yaml:"buckets"`
	GeneratedAt string `json:"generated_at" yaml:"generatedAt"`
	Path        string `json:"path" yaml:"path"`
}

func cmdUpdateLeaderboard(c *urfave.Context) error {
	cfg := getConfig(c)

	topK := c.Int(updateTopFlag.Name)
	if topK <= 0 {
		topK = cfg.Conf.TopPerBucket
	}

	vocab, err := cfg.Conf.CompiledVocabulary()
	if err != nil {
		return fmt.Errorf("compiling vocabulary: %w", err)
	}

	doc := data.ReadDocument(cfg.DataPath)
	items := data.TopNews(doc)

	engine := score.NewEngine(vocab, score.Weights(cfg.Conf.Weights), topK)
	lb, err := engine.Leaderboard(items)
	if err != nil {
		return fmt.Errorf("computing leaderboard: %w", err)
	}

	now := time.Now().UTC()
	out, err := score.Assemble(lb, doc, now)
	if err != nil {
		return fmt.Errorf("assembling document: %w", err)
	}

	if err := data.WriteDocument(cfg.DataPath, out); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}

	runID, err := data.SaveRun(cfg.DB, now, len(items), lb)
	if err != nil {
		return fmt.Errorf("recording run: %w", err)
	}

	slog.Info("leaderboard updated", "run", runID, "items", len(items), "path", cfg.DataPath)

	return encode(UpdateResult{
		RunID:       runID,
		Items:       len(items),
		Buckets:     len(lb),
		GeneratedAt: now.Format(score.GeneratedAtFormat),
		Path:        cfg.DataPath,
	})
}
