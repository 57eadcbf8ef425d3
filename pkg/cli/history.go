package cli

import (
	"fmt"

	"github.com/mchmarny/aipulse/pkg/data"
	urfave "github.com/urfave/cli/v2"
)

const historyLimitDefault = 50

var (
	historyBucketFlag = &urfave.StringFlag{
		Name:  "bucket",
		Usage: "Filter rows to a single bucket",
	}

	historyLabelFlag = &urfave.StringFlag{
		Name:  "label",
		Usage: "Filter rows to a single vendor label",
	}

	historyLimitFlag = &urfave.IntFlag{
		Name:  "limit",
		Usage: "Max number of rows returned",
		Value: historyLimitDefault,
	}

	historyCmd = &urfave.Command{
		Name:            "history",
		HideHelpCommand: true,
		Usage:           "Query recorded leaderboard runs, newest first",
		Flags: []urfave.Flag{
			historyBucketFlag,
			historyLabelFlag,
			historyLimitFlag,
		},
		Action: cmdHistory,
	}
)

func cmdHistory(c *urfave.Context) error {
	cfg := getConfig(c)

	rows, err := data.QueryRuns(cfg.DB,
		optional(c.String(historyBucketFlag.Name)),
		optional(c.String(historyLabelFlag.Name)),
		c.Int(historyLimitFlag.Name))
	if err != nil {
		return fmt.Errorf("querying runs: %w", err)
	}

	return encode(rows)
}
