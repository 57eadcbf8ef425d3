package data

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mchmarny/aipulse/pkg/score"
	"github.com/pkg/errors"
)

const (
	dirMode  = 0700
	fileMode = 0600
)

// DashboardFileName is the default dashboard document file name.
const DashboardFileName = "dashboard.json"

// ReadDocument loads the persisted dashboard document. A missing or
// corrupt file yields an empty document, never an error: the engine
// rebuilds the fields it owns and the rest starts fresh.
func ReadDocument(path string) score.Document {
	b, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Warn("dashboard document unreadable, starting empty", "path", path, "error", err)
		}
		return score.Document{}
	}

	var doc score.Document
	if err := json.Unmarshal(b, &doc); err != nil {
		slog.Warn("dashboard document corrupt, starting empty", "path", path, "error", err)
		return score.Document{}
	}
	return doc
}

// WriteDocument persists the document with stable formatting (sorted
// keys, 2-space indent) so diffs between runs stay readable.
func WriteDocument(path string, doc score.Document) error {
	if path == "" {
		return errors.New("document path not specified")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, dirMode); err != nil {
			return errors.Wrapf(err, "failed to create dir: %s", dir)
		}
	}

	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal document")
	}

	if err := os.WriteFile(path, b, fileMode); err != nil {
		return errors.Wrapf(err, "failed to write document: %s", path)
	}
	return nil
}

// TopNews decodes the externally maintained news list from the
// document. Absent or malformed content yields an empty batch.
func TopNews(doc score.Document) []score.Item {
	raw, ok := doc[score.DocFieldTopNews]
	if !ok {
		return nil
	}

	var items []score.Item
	if err := json.Unmarshal(raw, &items); err != nil {
		slog.Warn("top_news list malformed, treating as empty", "error", err)
		return nil
	}
	return items
}

// SetTopNews replaces the news list on the document in place.
func SetTopNews(doc score.Document, items []score.Item) error {
	b, err := json.Marshal(items)
	if err != nil {
		return errors.Wrap(err, "failed to marshal top news")
	}
	doc[score.DocFieldTopNews] = b
	return nil
}
