package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/mchmarny/aipulse/pkg/data"
	"github.com/mchmarny/aipulse/pkg/score"
	urfave "github.com/urfave/cli/v2"
)

const (
	labelColWidth = 24
	scoreColWidth = 8
)

var (
	bucketStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			MarginTop(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("8"))

	rowStyle = lipgloss.NewStyle()

	emptyStyle = lipgloss.NewStyle().
			Faint(true).
			Italic(true)

	viewCmd = &urfave.Command{
		Name:            "view",
		HideHelpCommand: true,
		Usage:           "Render the current leaderboard as a terminal table",
		Action:          cmdView,
	}
)

func cmdView(c *urfave.Context) error {
	cfg := getConfig(c)

	doc := data.ReadDocument(cfg.DataPath)
	raw, ok := doc[score.DocFieldLeaderboard]
	if !ok {
		fmt.Println("No leaderboard yet, run `aipulse update` first")
		return nil
	}

	var lb score.Leaderboard
	if err := json.Unmarshal(raw, &lb); err != nil {
		return fmt.Errorf("parsing leaderboard: %w", err)
	}

	var generatedAt string
	if ts, ok := doc[score.DocFieldGeneratedAt]; ok {
		json.Unmarshal(ts, &generatedAt) //nolint:errcheck
	}

	fmt.Fprint(os.Stdout, renderLeaderboard(lb, generatedAt))
	return nil
}

// renderLeaderboard formats all buckets in vocabulary order so output
// is stable run to run.
func renderLeaderboard(lb score.Leaderboard, generatedAt string) string {
	var b strings.Builder

	if generatedAt != "" {
		b.WriteString(headerStyle.Render("generated: "+generatedAt) + "\n")
	}

	for _, bucket := range score.DefaultVocabulary().BucketNames() {
		rows, ok := lb[bucket]
		if !ok {
			continue
		}
		b.WriteString(bucketStyle.Render(bucket) + "\n")
		b.WriteString(renderBucket(rows))
	}

	// Buckets from a custom vocabulary that the default order misses.
	for bucket, rows := range lb {
		if isDefaultBucket(bucket) {
			continue
		}
		b.WriteString(bucketStyle.Render(bucket) + "\n")
		b.WriteString(renderBucket(rows))
	}

	return b.String()
}

func renderBucket(rows []score.Row) string {
	if len(rows) == 0 {
		return emptyStyle.Render("  (no signals)") + "\n"
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(
		"  "+pad("LABEL", labelColWidth)+pad("SCORE", scoreColWidth)+"WHAT'S NEW") + "\n")

	for _, row := range rows {
		line := "  " +
			pad(row.Label, labelColWidth) +
			pad(fmt.Sprintf("%.4f", row.ScoreTotal), scoreColWidth) +
			deref(row.WhatsNew)
		b.WriteString(rowStyle.Render(line) + "\n")
	}
	return b.String()
}

// pad right-pads by display width so wide runes in vendor names keep
// the columns aligned.
func pad(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return runewidth.Truncate(s, width-1, "…") + " "
	}
	return s + strings.Repeat(" ", width-w)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func isDefaultBucket(name string) bool {
	for _, b := range score.DefaultVocabulary().BucketNames() {
		if b == name {
			return true
		}
	}
	return false
}
