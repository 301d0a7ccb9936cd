package llm

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/ppiankov/credence/internal/model"
)

// Narrator turns a finished analysis into a short plain-language explanation.
// Every URL the model cites must come from the analysis itself.
type Narrator struct {
	provider Provider
	logger   *slog.Logger
}

// NewNarrator wraps provider. A nil provider yields a disabled narrator.
func NewNarrator(provider Provider, logger *slog.Logger) *Narrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Narrator{provider: provider, logger: logger}
}

// Enabled reports whether a provider is configured
func (n *Narrator) Enabled() bool {
	return n != nil && n.provider != nil
}

// Narrate explains result. It returns (nil, nil) when disabled.
func (n *Narrator) Narrate(ctx context.Context, result *model.AnalysisResult) (*model.Narrative, error) {
	if !n.Enabled() || result == nil {
		return nil, nil
	}

	allowed := AllowedURLs(result)

	resp, err := n.provider.Complete(ctx, CompletionRequest{
		System: systemPrompt,
		Prompt: BuildPrompt(result, allowed),
	})
	if err != nil {
		return nil, fmt.Errorf("%s narrative: %w", n.provider.Name(), err)
	}

	allowedSet := make(map[string]bool, len(allowed))
	for _, u := range allowed {
		allowedSet[u] = true
	}
	for _, cited := range extractURLs(resp.Text) {
		if !allowedSet[cited] {
			return nil, fmt.Errorf("%s narrative cites URL not present in analysis: %s", n.provider.Name(), cited)
		}
	}

	narrative := &model.Narrative{
		Provider: n.provider.Name(),
		Model:    resp.Model,
		Text:     resp.Text,
	}
	if len(allowed) == 0 {
		narrative.Warnings = append(narrative.Warnings, "no sources available to cite")
	}

	n.logger.Debug("narrative generated",
		"provider", narrative.Provider,
		"model", narrative.Model,
		"tokens", resp.TokensUsed)

	return narrative, nil
}

// AllowedURLs lists the URLs a narrative may cite, in result order without duplicates
func AllowedURLs(result *model.AnalysisResult) []string {
	var urls []string
	seen := make(map[string]bool)
	add := func(u string) {
		if u != "" && !seen[u] {
			seen[u] = true
			urls = append(urls, u)
		}
	}
	for _, s := range result.Sources {
		add(s.URL)
	}
	if result.CommentAnalysis != nil {
		for _, s := range result.CommentAnalysis.Sources {
			add(s.URL)
		}
	}
	return urls
}

// BuildPrompt renders the analysis as the user prompt
func BuildPrompt(result *model.AnalysisResult, urls []string) string {
	var b strings.Builder

	b.WriteString("Explain this credibility analysis in 3-5 sentences for a general reader.\n\n")
	fmt.Fprintf(&b, "Content type: %s\n", result.Type)
	fmt.Fprintf(&b, "Content: %s\n", result.Source)
	fmt.Fprintf(&b, "Credibility score: %d/100 (%s)\n", result.Score, result.Status)
	if result.DomainCredibility != nil {
		fmt.Fprintf(&b, "Domain credibility: %d/100\n", *result.DomainCredibility)
	}

	if len(result.Details) > 0 {
		b.WriteString("\nClaims:\n")
		for i, d := range result.Details {
			fmt.Fprintf(&b, "%d. %q: %s (confidence %d%%). %s\n", i+1, d.Claim, d.Verdict, d.Confidence, d.Explanation)
		}
	} else {
		b.WriteString("\nNo checkable claims were found.\n")
	}

	if result.RedditMetrics != nil && len(result.RedditMetrics.CredibilityIndicators) > 0 {
		fmt.Fprintf(&b, "\nCommunity indicators: %s\n", strings.Join(result.RedditMetrics.CredibilityIndicators, ", "))
	}

	b.WriteString("\nRules:\n")
	b.WriteString("- Do not change or dispute the score.\n")
	if len(urls) > 0 {
		b.WriteString("- You may cite only these URLs:\n")
		for _, u := range urls {
			fmt.Fprintf(&b, "  %s\n", u)
		}
	} else {
		b.WriteString("- Do not cite any URLs.\n")
	}

	return b.String()
}

var urlPattern = regexp.MustCompile(`https?://[^\s<>"'\])]+`)

// extractURLs finds http(s) URLs in text, trimming trailing sentence punctuation
func extractURLs(text string) []string {
	matches := urlPattern.FindAllString(text, -1)
	urls := make([]string, 0, len(matches))
	for _, m := range matches {
		urls = append(urls, strings.TrimRight(m, ".,;:!?"))
	}
	return urls
}
