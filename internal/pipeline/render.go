package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ppiankov/credence/internal/model"
)

// Renderer writes analysis results as JSON, Markdown or a terminal summary
type Renderer struct{}

// NewRenderer creates a renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderJSON writes result as indented JSON to path
func (r *Renderer) RenderJSON(result *model.AnalysisResult, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// RenderMarkdown writes result as a Markdown report to path
func (r *Renderer) RenderMarkdown(result *model.AnalysisResult, path string) error {
	if err := os.WriteFile(path, []byte(Markdown(result)), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Markdown renders result as a Markdown document
func Markdown(result *model.AnalysisResult) string {
	var b strings.Builder

	b.WriteString("# Credibility Report\n\n")
	fmt.Fprintf(&b, "**Source:** %s\n\n", result.Source)
	fmt.Fprintf(&b, "**Type:** %s  \n", result.Type)
	fmt.Fprintf(&b, "**Score:** %d/100 (%s)  \n", result.Score, result.Status)
	fmt.Fprintf(&b, "**Analysed:** %s\n\n", result.Timestamp.Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "%s\n\n", result.Summary)

	if m := result.URLMetadata; m != nil {
		b.WriteString("## Page\n\n")
		if m.Title != "" {
			fmt.Fprintf(&b, "- Title: %s\n", m.Title)
		}
		fmt.Fprintf(&b, "- Domain: %s\n", m.Domain)
		if result.DomainCredibility != nil {
			fmt.Fprintf(&b, "- Domain credibility: %d/100\n", *result.DomainCredibility)
		}
		if m.Author != "" {
			fmt.Fprintf(&b, "- Author: %s\n", m.Author)
		}
		if m.PublishDate != nil {
			fmt.Fprintf(&b, "- Published: %s\n", m.PublishDate.Format("2006-01-02"))
		}
		b.WriteString("\n")
	}

	if m := result.RedditMetrics; m != nil {
		b.WriteString("## Community\n\n")
		fmt.Fprintf(&b, "- Subreddit: r/%s\n", m.Subreddit)
		fmt.Fprintf(&b, "- Score: %d\n", m.Score)
		fmt.Fprintf(&b, "- Comments: %d\n", m.CommentCount)
		for _, ind := range m.CredibilityIndicators {
			fmt.Fprintf(&b, "- %s\n", ind)
		}
		b.WriteString("\n")
	}

	writeClaimsTable(&b, "Claims", result.Details)

	if c := result.CommentAnalysis; c != nil {
		fmt.Fprintf(&b, "## Comment Analysis\n\n**Score:** %d/100 (%s)\n\n", c.Score, c.Status)
		writeClaimsTable(&b, "Comment Claims", c.Details)
	}

	if len(result.Sources) > 0 {
		b.WriteString("## Sources\n\n")
		for _, s := range result.Sources {
			fmt.Fprintf(&b, "- [%s](%s) (credibility %d)\n", s.Title, s.URL, s.Credibility)
		}
		b.WriteString("\n")
	}

	if n := result.Narrative; n != nil {
		fmt.Fprintf(&b, "## Narrative\n\n_Generated by %s", n.Provider)
		if n.Model != "" {
			fmt.Fprintf(&b, "/%s", n.Model)
		}
		b.WriteString(". Does not affect the score._\n\n")
		fmt.Fprintf(&b, "%s\n\n", n.Text)
	}

	return b.String()
}

func writeClaimsTable(b *strings.Builder, heading string, details []model.ClaimDetail) {
	fmt.Fprintf(b, "## %s\n\n", heading)
	if len(details) == 0 {
		b.WriteString("No checkable claims found.\n\n")
		return
	}
	b.WriteString("| # | Claim | Verdict | Confidence | Explanation |\n")
	b.WriteString("|---|-------|---------|------------|-------------|\n")
	for i, d := range details {
		fmt.Fprintf(b, "| %d | %s | %s | %d%% | %s |\n",
			i+1, escapeCell(d.Claim), d.Verdict, d.Confidence, escapeCell(d.Explanation))
	}
	b.WriteString("\n")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "|", "\\|"), "\n", " ")
}

// RenderSummary prints a short human-readable summary
func (r *Renderer) RenderSummary(w io.Writer, result *model.AnalysisResult) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════════")
	fmt.Fprintf(w, "  Credibility: %d/100 (%s)\n", result.Score, strings.ToUpper(string(result.Status)))
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════════")
	fmt.Fprintf(w, "  %s\n\n", result.Summary)

	for i, d := range result.Details {
		fmt.Fprintf(w, "  %d. [%s %d%%] %s\n", i+1, d.Verdict, d.Confidence, d.Claim)
	}
	if len(result.Details) > 0 {
		fmt.Fprintln(w)
	}

	if result.DomainCredibility != nil {
		fmt.Fprintf(w, "  Domain credibility: %d/100\n", *result.DomainCredibility)
	}
	if c := result.CommentAnalysis; c != nil {
		fmt.Fprintf(w, "  Comments: %d/100 (%s)\n", c.Score, c.Status)
	}
	for _, s := range result.Sources {
		fmt.Fprintf(w, "  • %s <%s>\n", s.Title, s.URL)
	}
	fmt.Fprintln(w)
}
