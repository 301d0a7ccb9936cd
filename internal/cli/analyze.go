package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/pipeline"
)

var (
	contentType     string
	includeComments bool
	outJSON         string
	outMD           string
	timeout         time.Duration
	noCache         bool
	llmProvider     string
	llmModel        string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <content>",
	Short: "Score the credibility of text, a web page or a Reddit post",
	Long: `Analyze extracts up to five candidate claims from the content, checks
each claim against the configured probes in parallel and prints a
credibility score with per-claim verdicts.

Probes without credentials are skipped. Set GOOGLE_API_KEY, GOOGLE_CSE_ID
and NEWS_API_KEY to enable them, or use --probe-mode mock for offline runs.

Example:
  credence analyze "The Earth is round and the sky was blue in 1990."
  credence analyze https://www.bbc.com/news/science --type url --md report.md
  credence analyze https://www.reddit.com/r/science/comments/abc/ --type reddit --include-comments
  credence analyze "..." --llm openai --llm-model gpt-4o-mini`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Input flags
	analyzeCmd.Flags().StringVarP(&contentType, "type", "t", string(model.TypeText), "content type (text, url, reddit)")
	analyzeCmd.Flags().BoolVar(&includeComments, "include-comments", false, "also analyse the top 10 comments of a reddit post")

	// Output flags
	analyzeCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")
	analyzeCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")

	// Execution flags
	analyzeCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall analysis timeout")
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the probe verdict cache")
	analyzeCmd.Flags().String("probe-mode", model.ProbeModeLive, "probe mode (live, mock)")
	_ = viper.BindPFlag("probes.mode", analyzeCmd.Flags().Lookup("probe-mode"))

	// LLM flags
	analyzeCmd.Flags().StringVar(&llmProvider, "llm", "", "generate a narrative with this LLM provider (openai, anthropic, ollama)")
	analyzeCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	content := args[0]

	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if err := applyLLMFlags(cfg, llmProvider, llmModel); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if verbose {
		fmt.Fprintf(os.Stderr, "Analyzing (%s): %s\n", contentType, model.SourceExcerpt(content))
		fmt.Fprintf(os.Stderr, "Probe mode: %s\n", cfg.Probes.Mode)
		fmt.Fprintf(os.Stderr, "Timeout: %v\n", timeout)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	p := pipeline.NewPipeline(cfg)

	result, err := p.Analyze(ctx, model.Request{
		Content: content,
		Type:    model.ContentType(contentType),
		Options: model.Options{IncludeComments: includeComments},
	})
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	renderer := pipeline.NewRenderer()
	if outJSON != "" {
		if err := renderer.RenderJSON(result, outJSON); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", outJSON)
		}
	}
	if outMD != "" {
		if err := renderer.RenderMarkdown(result, outMD); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote Markdown: %s\n", outMD)
		}
	}

	renderer.RenderSummary(os.Stdout, result)

	if result.Narrative != nil {
		fmt.Printf("%s\n\n", result.Narrative.Text)
	}

	return nil
}

// applyLLMFlags overrides the configured provider and checks its credentials
func applyLLMFlags(cfg *model.Config, provider, modelName string) error {
	if provider != "" {
		cfg.LLM.Provider = provider
		cfg.LLM.APIKey = ""
		applyLLMEnv(cfg)
	}
	if modelName != "" {
		cfg.LLM.Model = modelName
	}

	switch cfg.LLM.Provider {
	case "openai":
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	}
	return nil
}
