package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mchmarny/aipulse/pkg/data"
	"github.com/mchmarny/aipulse/pkg/score"
	urfave "github.com/urfave/cli/v2"
)

const (
	serverPortDefault = 8080

	serverReadTimeout  = 10 * time.Second
	serverWriteTimeout = 10 * time.Second
)

var (
	serverPortFlag = &urfave.IntFlag{
		Name:  "port",
		Usage: "Port for the read-only JSON API",
		Value: serverPortDefault,
	}

	serverCmd = &urfave.Command{
		Name:            "server",
		HideHelpCommand: true,
		Usage:           "Serve the dashboard document over a read-only JSON API",
		Flags:           []urfave.Flag{serverPortFlag},
		Action:          cmdServer,
	}
)

func cmdServer(c *urfave.Context) error {
	cfg := getConfig(c)
	port := c.Int(serverPortFlag.Name)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/dashboard", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, data.ReadDocument(cfg.DataPath))
	})
	mux.HandleFunc("/api/leaderboard", func(w http.ResponseWriter, r *http.Request) {
		handleDocumentField(w, cfg.DataPath, score.DocFieldLeaderboard)
	})
	mux.HandleFunc("/api/news", func(w http.ResponseWriter, r *http.Request) {
		handleDocumentField(w, cfg.DataPath, score.DocFieldTopNews)
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  serverReadTimeout,
		WriteTimeout: serverWriteTimeout,
	}

	slog.Info("serving dashboard", "port", port, "path", cfg.DataPath)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// handleDocumentField serves a single top-level document field. The
// document is re-read per request so a concurrent `news` or `update`
// run is picked up without a restart.
func handleDocumentField(w http.ResponseWriter, path, field string) {
	doc := data.ReadDocument(path)
	raw, ok := doc[field]
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("field not available: %s", field))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(raw) //nolint:errcheck
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("error encoding response", "error", err)
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg}) //nolint:errcheck
}
