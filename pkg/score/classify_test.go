package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifier_Buckets(t *testing.T) {
	c := NewClassifier(nil)

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"llm keyword", "OpenAI launches GPT-4o with strong benchmark results", []string{BucketLLM}},
		{"image keyword", "New diffusion model improves image quality", []string{BucketImage}},
		{"video keyword", "Sora generates one minute of video", []string{BucketVideo}},
		{"audio keyword", "Voice cloning and TTS advances", []string{BucketAudio}},
		{"agentic keyword", "Agent orchestration framework released", []string{BucketMultiModal}},
		{"multiple buckets", "Multimodal model handles image and video", []string{BucketImage, BucketVideo, BucketMultiModal}},
		{"no match falls back", "quarterly earnings report", []string{BucketLLM}},
		{"empty text falls back", "", []string{BucketLLM}},
		{"whitespace falls back", "   ", []string{BucketLLM}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Buckets(tt.text))
		})
	}
}

func TestClassifier_BucketsNeverEmpty(t *testing.T) {
	c := NewClassifier(nil)
	got := c.Buckets("nothing relevant here")
	require.NotEmpty(t, got)
	assert.Equal(t, []string{BucketLLM}, got)
}

func TestClassifier_Vendor(t *testing.T) {
	c := NewClassifier(nil)

	tests := []struct {
		name string
		text string
		want string
	}{
		{"title cased", "OpenAI launches GPT-4o", "Openai"},
		{"case insensitive", "ANTHROPIC ships a new model", "Anthropic"},
		{"substring match", "powered by mistral weights", "Mistral"},
		{"first hint wins", "openai and anthropic announce a partnership", "Openai"},
		{"no hint", "a startup you never heard of", VendorOther},
		{"empty text", "", VendorOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Vendor(tt.text))
		})
	}
}

func TestClassifier_VendorOrderIsDeterministic(t *testing.T) {
	// google precedes deepmind in the hint list, so text mentioning both
	// always attributes to Google.
	c := NewClassifier(nil)
	for i := 0; i < 20; i++ {
		assert.Equal(t, "Google", c.Vendor("Google DeepMind publishes results"))
	}
}

func TestClassifier_CustomVocabulary(t *testing.T) {
	v := &Vocabulary{
		Buckets: []BucketRule{
			{Name: "Tools", Patterns: compile(`\btool\b`)},
		},
		Fallback: "Tools",
		Vendors:  []string{"acme"},
		BestFor:  map[string]string{"Tools": "testing"},
	}
	c := NewClassifier(v)

	assert.Equal(t, []string{"Tools"}, c.Buckets("a tool appeared"))
	assert.Equal(t, "Acme", c.Vendor("ACME ships a tool"))
	assert.Equal(t, VendorOther, c.Vendor("openai ships a tool"))
}
