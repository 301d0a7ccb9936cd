package model

import "time"

// SourceRecord is a supplementary source attached to an analysis result
type SourceRecord struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Credibility int       `json:"credibility"`
	Date        time.Time `json:"date"`
	Excerpt     string    `json:"excerpt,omitempty"`
	Origin      string    `json:"origin,omitempty"` // news, factcheck, academic, default
}

// URLMetadata describes a fetched web page
type URLMetadata struct {
	Title       string     `json:"title"`
	Domain      string     `json:"domain"`
	PublishDate *time.Time `json:"publishDate,omitempty"`
	Author      string     `json:"author,omitempty"`
}

// WebContent is the output of the page-fetch collaborator
type WebContent struct {
	Title       string
	Text        string
	Author      string
	PublishDate *time.Time
	FinalURL    string
}

// PostData is a structured social post (Reddit-shaped)
type PostData struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Subreddit string    `json:"subreddit"`
	Author    string    `json:"author"`
	Score     int       `json:"score"`
	Created   time.Time `json:"created"`
	Comments  []Comment `json:"comments"`
}

// Comment is a single comment on a social post
type Comment struct {
	ID      string    `json:"id"`
	Content string    `json:"content"`
	Author  string    `json:"author"`
	Score   int       `json:"score"`
	Created time.Time `json:"created"`
}

// SocialMetrics carries engagement metadata for social posts
type SocialMetrics struct {
	Subreddit             string   `json:"subreddit"`
	Score                 int      `json:"score"`
	CommentCount          int      `json:"commentCount"`
	CredibilityIndicators []string `json:"credibilityIndicators"`
}
