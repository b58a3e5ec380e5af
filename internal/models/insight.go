// internal/models/insight.go
package models

// Urgency levels the LLM is allowed to assign.
const (
	UrgencyHigh   = "High"
	UrgencyMedium = "Medium"
	UrgencyLow    = "Low"
)

// TokenUsage records LLM token consumption for one call. All zero when
// the provider reports no usage metadata.
type TokenUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// InsightCandidate is one untrusted product request as returned by the
// LLM, before its tweet IDs have been reconciled.
type InsightCandidate struct {
	Category       string   `json:"category"`
	Description    string   `json:"description"`
	PainPoint      string   `json:"pain_point"`
	TargetAudience string   `json:"target_audience"`
	UrgencyLevel   string   `json:"urgency_level"`
	TweetIDs       []string `json:"tweet_ids"`
}

// Insight is a trusted product request: the candidate's fields plus the
// resolved posts, in the order the LLM listed them. Tweets may be empty
// when no referenced ID resolved; such insights are kept.
type Insight struct {
	Category       string           `json:"category"`
	Description    string           `json:"description"`
	PainPoint      string           `json:"pain_point"`
	TargetAudience string           `json:"target_audience"`
	UrgencyLevel   string           `json:"urgency_level"`
	Tweets         []NormalizedPost `json:"tweets"`
}
