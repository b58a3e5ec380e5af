// internal/models/analysis.go
package models

// AnalysisRun is the in-memory outcome of one daily analysis.
type AnalysisRun struct {
	TotalPostsAnalyzed int
	Insights           []Insight
	TokenUsage         TokenUsage
}

// AnalysisSummary is the persisted summary block of an analysis file.
type AnalysisSummary struct {
	TotalTweetsAnalyzed  int        `json:"total_tweets_analyzed"`
	ProductRequestsFound int        `json:"product_requests_found"`
	TokenUsage           TokenUsage `json:"token_usage"`
}

// AnalysisDocument is the persisted shape of DDMMYY_analysis.json, read
// back verbatim by the dashboard.
type AnalysisDocument struct {
	Summary         AnalysisSummary `json:"summary"`
	ProductRequests []Insight       `json:"product_requests"`
}
