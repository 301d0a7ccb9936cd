package model

import "time"

// ContentType selects how a request's content is interpreted
type ContentType string

const (
	TypeText       ContentType = "text"
	TypeURL        ContentType = "url"
	TypeReddit     ContentType = "reddit"
	TypeSocialPost ContentType = "social-post" // alias of reddit
)

// AnalysisResult is the complete credibility analysis of one piece of content
type AnalysisResult struct {
	Source    string         `json:"source"` // First 100 characters of the analysed content
	Type      ContentType    `json:"type"`
	Score     int            `json:"score"` // Credibility score (0-100)
	Status    Status         `json:"status"`
	Summary   string         `json:"summary"`
	Details   []ClaimDetail  `json:"details"`
	Sources   []SourceRecord `json:"sources"`
	Timestamp time.Time      `json:"timestamp"`

	URLMetadata       *URLMetadata `json:"urlMetadata,omitempty"`
	DomainCredibility *int         `json:"domainCredibility,omitempty"`

	RedditMetrics   *SocialMetrics  `json:"redditMetrics,omitempty"`
	CommentAnalysis *AnalysisResult `json:"commentAnalysis,omitempty"`

	Narrative *Narrative `json:"narrative,omitempty"` // Optional LLM narrative (never affects score)
}

// Synthesis is the document-level fold of all claim details
type Synthesis struct {
	Score   int    `json:"score"`
	Status  Status `json:"status"`
	Summary string `json:"summary"`
}

// Narrative contains an optional LLM-generated explanation
// It is produced after scoring and never feeds back into it
type Narrative struct {
	Provider string   `json:"provider,omitempty"`
	Model    string   `json:"model,omitempty"`
	Text     string   `json:"text"`
	Warnings []string `json:"warnings,omitempty"`
}

// Request is the input to a content analysis
type Request struct {
	Content  string      `json:"content"`
	Type     ContentType `json:"type"`
	PostData *PostData   `json:"redditData,omitempty"`
	Options  Options     `json:"options"`
}

// Options tunes a single analysis
type Options struct {
	IncludeComments bool `json:"includeComments"` // Also analyse the top 10 comments of a social post
}

// SourceExcerpt shortens content to the 100-character preview stored in a result
func SourceExcerpt(content string) string {
	runes := []rune(content)
	if len(runes) <= 100 {
		return content
	}
	return string(runes[:100]) + "..."
}
