package score

import (
	"encoding/json"
	"fmt"
	"time"
)

// Document is the persisted dashboard payload. The engine owns only the
// "leaderboard" and "generated_at" fields; every other top-level field
// (such as the separately maintained "top_news" list) is carried
// through untouched when the document is rewritten.
type Document map[string]json.RawMessage

// Engine-owned document fields.
const (
	DocFieldLeaderboard = "leaderboard"
	DocFieldGeneratedAt = "generated_at"
	DocFieldTopNews     = "top_news"
)

// GeneratedAtFormat is the second-precision UTC timestamp layout used
// across the document and the run history.
const GeneratedAtFormat = "2006-01-02T15:04:05Z"

// Assemble merges a freshly computed leaderboard into the prior
// document: last-writer-wins for the engine-owned fields, pass-through
// for everything else. The prior document is not mutated.
func Assemble(lb Leaderboard, prior Document, now time.Time) (Document, error) {
	out := make(Document, len(prior)+2)
	for k, v := range prior {
		out[k] = v
	}

	b, err := json.Marshal(lb)
	if err != nil {
		return nil, fmt.Errorf("marshaling leaderboard: %w", err)
	}
	out[DocFieldLeaderboard] = b

	ts, err := json.Marshal(now.UTC().Format(GeneratedAtFormat))
	if err != nil {
		return nil, fmt.Errorf("marshaling timestamp: %w", err)
	}
	out[DocFieldGeneratedAt] = ts

	return out, nil
}
