package score

import "regexp"

// Signal keys scored for every news item.
const (
	SignalPopularity  = "popularity"
	SignalPerformance = "performance"
	SignalCost        = "cost"
	SignalPrivacy     = "privacy"
	SignalInnovation  = "innovation"
)

// Bucket names used by the default vocabulary.
const (
	BucketLLM        = "LLM/Text"
	BucketImage      = "Image/Vision"
	BucketVideo      = "Video/Motion"
	BucketAudio      = "Audio/Music"
	BucketMultiModal = "Multi-Modal/Agentic"
)

// VendorOther is the sentinel label for items with no vendor hint match.
const VendorOther = "Other"

// BucketRule selects a category when any of its patterns match.
type BucketRule struct {
	Name     string
	Patterns []*regexp.Regexp
}

// SignalRule holds the keyword patterns behind one signal key.
type SignalRule struct {
	Key      string
	Patterns []*regexp.Regexp
}

// Vocabulary is the keyword configuration driving classification and
// scoring. All rule slices are ordered and that order is part of the
// contract: vendor detection is first-hint-wins and bucket output
// follows rule order.
type Vocabulary struct {
	Buckets  []BucketRule
	Fallback string
	Vendors  []string
	Signals  []SignalRule
	BestFor  map[string]string
}

// SignalKeys returns the configured signal keys in rule order.
func (v *Vocabulary) SignalKeys() []string {
	keys := make([]string, 0, len(v.Signals))
	for _, r := range v.Signals {
		keys = append(keys, r.Key)
	}
	return keys
}

// BucketNames returns the configured bucket names in rule order.
func (v *Vocabulary) BucketNames() []string {
	names := make([]string, 0, len(v.Buckets))
	for _, r := range v.Buckets {
		names = append(names, r.Name)
	}
	return names
}

// DefaultVocabulary returns the built-in keyword tables. Tests and the
// config layer can substitute their own.
func DefaultVocabulary() *Vocabulary {
	return &Vocabulary{
		Buckets: []BucketRule{
			{Name: BucketLLM, Patterns: compile(
				`\b(GPT|Claude|Gemini|Llama|Mistral|command|text|RAG|token)\b`,
			)},
			{Name: BucketImage, Patterns: compile(
				`\b(image|vision|diffusion|sdxl|stability|midjourney|segmentation|detection)\b`,
			)},
			{Name: BucketVideo, Patterns: compile(
				`\b(video|Sora|Veo|motion|frame|temporal|UHD)\b`,
			)},
			{Name: BucketAudio, Patterns: compile(
				`\b(audio|music|voice|TTS|ASR|Whisper|chorus|suno)\b`,
			)},
			{Name: BucketMultiModal, Patterns: compile(
				`\b(multimodal|agent|tool[- ]?use|orchestration|workflow|planner)\b`,
			)},
		},
		Fallback: BucketLLM,
		Vendors: []string{
			"openai", "google", "deepmind", "microsoft", "meta", "anthropic", "amazon", "xai",
			"stability", "midjourney", "runway", "pika", "elevenlabs", "coqui", "suno", "mistral",
			"databricks", "snowflake", "perplexity", "reka", "nvidia", "intel", "amd", "apple",
		},
		Signals: []SignalRule{
			{Key: SignalPopularity, Patterns: compile(
				`\b(launch|release|now available|partnership|users?|adoption|daily active)\b`,
			)},
			{Key: SignalPerformance, Patterns: compile(
				`\b(benchmark|leaderboard|MMLU|reasoning|accuracy|SOTA|realism|fidelity)\b`,
			)},
			{Key: SignalCost, Patterns: compile(
				`\b(cost|cheap|affordab|pricing|tokens?|throughput|latency|efficien|serverless)\b`,
			)},
			{Key: SignalPrivacy, Patterns: compile(
				`\b(privacy|copyright|likeness|opt[- ]?out|consent|watermark|safety|on[- ]?device)\b`,
			)},
			{Key: SignalInnovation, Patterns: compile(
				`\b(multimodal|agents?|tool[- ]?use|ecosystem|plugins|extensions|vision|audio|video)\b`,
			)},
		},
		BestFor: map[string]string{
			BucketLLM:        "Reasoning, chat, knowledge tasks",
			BucketImage:      "Image generation & perception",
			BucketVideo:      "Video synthesis & motion effects",
			BucketAudio:      "Voice, TTS, music generation",
			BucketMultiModal: "Orchestration & tool-use",
		},
	}
}

// compile builds case-insensitive patterns from raw expressions.
func compile(exprs ...string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(exprs))
	for _, e := range exprs {
		patterns = append(patterns, regexp.MustCompile(`(?i)`+e))
	}
	return patterns
}
