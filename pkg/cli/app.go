package cli

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/mchmarny/aipulse/pkg/config"
	"github.com/mchmarny/aipulse/pkg/data"
	"github.com/mchmarny/aipulse/pkg/logging"
	urfave "github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

const (
	dirMode      = 0700
	appConfigKey = "app-config"
	homeDirName  = ".aipulse"

	formatJSON = "json"
	formatYAML = "yaml"
)

var (
	version = "v0.0.1-default"
	commit  = ""
	date    = ""

	outputFormat = formatJSON

	debugFlag = &urfave.BoolFlag{
		Name:  "debug",
		Usage: "Prints verbose logs (optional, default: false)",
	}

	dbFilePathFlag = &urfave.StringFlag{
		Name:  "db",
		Usage: "Path to the Sqlite history database file",
	}

	dataFilePathFlag = &urfave.StringFlag{
		Name:  "data",
		Usage: "Path to the dashboard JSON document (or OUTPUT_JSON env var)",
	}

	configFilePathFlag = &urfave.StringFlag{
		Name:  "config",
		Usage: "Path to the optional YAML config file",
	}

	formatFlag = &urfave.StringFlag{
		Name:  "format",
		Usage: "Output format [json, yaml]",
		Value: formatJSON,
	}
)

// Execute creates and runs the CLI application.
func Execute() {
	logging.SetDefaultCLILogger("info")

	app := newApp()
	if err := app.Run(os.Args); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

type appConfig struct {
	DBPath   string
	DataPath string
	Debug    bool
	DB       *sql.DB
	Conf     *config.Config
}

func getConfig(c *urfave.Context) *appConfig {
	return c.App.Metadata[appConfigKey].(*appConfig)
}

func newApp() *urfave.App {
	return &urfave.App{
		Name:                 "aipulse",
		Version:              fmt.Sprintf("%s (%s - %s)", version, commit, date),
		Compiled:             time.Now(),
		EnableBashCompletion: true,
		HideHelpCommand:      true,
		Usage:                "CLI for tracking AI tool/vendor momentum from news signals",
		Flags: []urfave.Flag{
			debugFlag,
			dbFilePathFlag,
			dataFilePathFlag,
			configFilePathFlag,
			formatFlag,
		},
		Commands: []*urfave.Command{
			authCmd,
			newsCmd,
			updateCmd,
			viewCmd,
			historyCmd,
			serverCmd,
		},
		Before: func(c *urfave.Context) error {
			if c.Bool(debugFlag.Name) {
				logging.SetDefaultCLILogger("debug")
			}

			f := c.String(formatFlag.Name)
			if f == formatYAML || f == "yml" {
				outputFormat = formatYAML
			}

			confPath := c.String(configFilePathFlag.Name)
			if confPath == "" {
				confPath = path.Join(getHomeDir(), config.ConfigFileName)
			}
			conf, err := config.Load(confPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			dataPath := c.String(dataFilePathFlag.Name)
			if dataPath == "" {
				dataPath = conf.Output
			}
			if dataPath == "" {
				dataPath = path.Join(getHomeDir(), data.DashboardFileName)
			}

			dbPath := c.String(dbFilePathFlag.Name)
			if dbPath == "" {
				dbPath = path.Join(getHomeDir(), data.DataFileName)
			}

			if err := data.Init(dbPath); err != nil {
				return fmt.Errorf("initializing database: %w", err)
			}

			db, err := data.GetDB(dbPath)
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}

			c.App.Metadata[appConfigKey] = &appConfig{
				DBPath:   dbPath,
				DataPath: dataPath,
				Debug:    c.Bool(debugFlag.Name),
				DB:       db,
				Conf:     conf,
			}
			return nil
		},
		After: func(c *urfave.Context) error {
			if cfg, ok := c.App.Metadata[appConfigKey].(*appConfig); ok && cfg.DB != nil {
				cfg.DB.Close()
			}
			return nil
		},
	}
}

func getHomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		slog.Debug("error getting home dir, using current dir instead", "error", err)
		return "."
	}

	dirPath := filepath.Join(home, homeDirName)
	if _, err := os.Stat(dirPath); errors.Is(err, os.ErrNotExist) {
		slog.Debug("creating dir", "path", dirPath)
		if err := os.Mkdir(dirPath, dirMode); err != nil {
			slog.Debug("error creating dir", "path", dirPath, "error", err)
			return home
		}
	}
	return dirPath
}

func encode(v any) error {
	if outputFormat == formatYAML {
		return yaml.NewEncoder(os.Stdout).Encode(v)
	}
	e := json.NewEncoder(os.Stdout)
	e.SetIndent("", "  ")
	return e.Encode(v)
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
