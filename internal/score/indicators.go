package score

import (
	"github.com/ppiankov/credence/internal/credibility"
	"github.com/ppiankov/credence/internal/model"
)

// Engagement thresholds for social posts
const (
	highEngagementScore = 100
	activeDiscussion    = 50
)

// Indicators returns categorical credibility indicators for a social post
func Indicators(post *model.PostData) []string {
	indicators := []string{}
	if post == nil {
		return indicators
	}

	if post.Score > highEngagementScore {
		indicators = append(indicators, "High community engagement")
	}
	if credibility.IsModeratedCommunity(post.Subreddit) {
		indicators = append(indicators, "Posted in moderated subreddit")
	}
	if len(post.Comments) > activeDiscussion {
		indicators = append(indicators, "Active discussion with many comments")
	}

	return indicators
}

// SocialMetrics summarises a post's engagement
func SocialMetrics(post *model.PostData) *model.SocialMetrics {
	if post == nil {
		return nil
	}
	return &model.SocialMetrics{
		Subreddit:             post.Subreddit,
		Score:                 post.Score,
		CommentCount:          len(post.Comments),
		CredibilityIndicators: Indicators(post),
	}
}
