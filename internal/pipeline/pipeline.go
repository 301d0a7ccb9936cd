// Package pipeline turns a {content, type} request into a scored analysis result.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/ppiankov/credence/internal/aggregate"
	"github.com/ppiankov/credence/internal/cache"
	"github.com/ppiankov/credence/internal/credibility"
	"github.com/ppiankov/credence/internal/extract"
	"github.com/ppiankov/credence/internal/llm"
	"github.com/ppiankov/credence/internal/metrics"
	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/probe"
	"github.com/ppiankov/credence/internal/score"
	"github.com/ppiankov/credence/internal/search"
	"github.com/ppiankov/credence/internal/sources"
	"github.com/ppiankov/credence/internal/worker"
)

// maxComments is how many comments feed the comment analysis
const maxComments = 10

// Verifier produces the fused verdict for one claim
type Verifier interface {
	Aggregate(ctx context.Context, claim string) model.SourceVerdict
}

// SourceFinder attaches supplementary sources to a result
type SourceFinder interface {
	Find(ctx context.Context, content string) []model.SourceRecord
}

// Pipeline orchestrates extraction, verification, scoring and enrichment
type Pipeline struct {
	claims   *extract.ClaimExtractor
	verifier Verifier
	scorer   *score.Scorer
	finder   SourceFinder
	pages    PageSource
	posts    PostSource
	table    *credibility.Table
	narrator *llm.Narrator // Optional (nil or disabled)
	metrics  *metrics.Metrics
	logger   *slog.Logger
	now      func() time.Time
}

// Option overrides a collaborator built from config
type Option func(*Pipeline)

// WithVerifier replaces the probe aggregator
func WithVerifier(v Verifier) Option { return func(p *Pipeline) { p.verifier = v } }

// WithSourceFinder replaces the source finder
func WithSourceFinder(f SourceFinder) Option { return func(p *Pipeline) { p.finder = f } }

// WithPageSource replaces the page fetcher
func WithPageSource(s PageSource) Option { return func(p *Pipeline) { p.pages = s } }

// WithPostSource replaces the social post fetcher
func WithPostSource(s PostSource) Option { return func(p *Pipeline) { p.posts = s } }

// WithNarrator sets the narrative generator
func WithNarrator(n *llm.Narrator) Option { return func(p *Pipeline) { p.narrator = n } }

// WithMetrics records analyses and probe outcomes
func WithMetrics(m *metrics.Metrics) Option { return func(p *Pipeline) { p.metrics = m } }

// WithLogger sets the structured logger
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithClock fixes the result timestamp source
func WithClock(now func() time.Time) Option { return func(p *Pipeline) { p.now = now } }

// NewPipeline creates a pipeline with the given configuration. Collaborators
// not supplied through options are built from cfg and share one rate limiter.
func NewPipeline(cfg *model.Config, opts ...Option) *Pipeline {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}

	p := &Pipeline{
		claims: extract.NewClaimExtractor(),
		scorer: score.NewScorer(),
		table:  credibility.Default(),
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}

	limiter := worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)
	client := search.Client{
		HTTP:      newHTTPClient(cfg.HTTP),
		Limiter:   limiter,
		UserAgent: cfg.HTTP.UserAgent,
	}

	if p.verifier == nil {
		set := probe.FromConfig(cfg, client, p.table, cache.New(cfg.Cache), p.metrics)
		p.logger.Debug("probes configured", "mode", cfg.Probes.Mode, "probes", set.Enabled())
		p.verifier = aggregate.New(set,
			aggregate.WithTimeout(cfg.Probes.Timeout),
			aggregate.WithLogger(p.logger),
			aggregate.WithMetrics(p.metrics))
	}
	if p.finder == nil {
		p.finder = sources.FromConfig(cfg, client, p.table, p.logger)
	}
	if p.pages == nil {
		p.pages = NewPageFetcher(cfg.HTTP, limiter)
	}
	if p.posts == nil {
		p.posts = NewRedditFetcher(cfg.HTTP, limiter)
	}
	if p.narrator == nil && cfg.LLM.Provider != "" {
		provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM, cfg.HTTP))
		if err != nil {
			// Narratives are optional; analysis continues without them
			p.logger.Warn("LLM provider unavailable", "provider", cfg.LLM.Provider, "error", err)
		} else {
			p.narrator = llm.NewNarrator(provider, p.logger)
		}
	}

	return p
}

// Analyze validates req, dispatches on its type and returns the scored result.
// Errors are model.ErrValidation, model.ErrUnsupportedType (wrapped) or *model.FetchError.
func (p *Pipeline) Analyze(ctx context.Context, req model.Request) (*model.AnalysisResult, error) {
	start := time.Now()

	result, err := p.analyze(ctx, req)

	status := "error"
	if err == nil {
		status = string(result.Status)
	}
	p.metrics.ObserveAnalysis(analysisType(req.Type, err), status, time.Since(start))

	if err != nil {
		return nil, err
	}

	p.narrate(ctx, result)
	return result, nil
}

// analysisType maps a request type to one of a fixed set of metric labels
func analysisType(t model.ContentType, err error) string {
	switch {
	case errors.Is(err, model.ErrValidation):
		return "invalid"
	case errors.Is(err, model.ErrUnsupportedType):
		return "unsupported"
	case t == model.TypeSocialPost:
		return string(model.TypeReddit)
	}
	return string(t)
}

func (p *Pipeline) analyze(ctx context.Context, req model.Request) (*model.AnalysisResult, error) {
	if req.Content == "" || req.Type == "" {
		return nil, model.ErrValidation
	}

	switch req.Type {
	case model.TypeText:
		return p.analyzeText(ctx, req.Content)
	case model.TypeURL:
		return p.analyzeURL(ctx, req.Content)
	case model.TypeReddit, model.TypeSocialPost:
		return p.analyzeSocial(ctx, req)
	default:
		return nil, fmt.Errorf("%w: %s", model.ErrUnsupportedType, req.Type)
	}
}

// analyzeText extracts claims, verifies them one after another and scores the details
func (p *Pipeline) analyzeText(ctx context.Context, content string) (*model.AnalysisResult, error) {
	claims := p.claims.Extract(content)

	details := make([]model.ClaimDetail, 0, len(claims))
	for _, c := range claims {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		verdict := p.verifier.Aggregate(ctx, c.Text)
		details = append(details, model.DetailFromVerdict(c.Text, verdict))
	}

	synthesis := p.scorer.Synthesize(details)

	return &model.AnalysisResult{
		Source:    model.SourceExcerpt(content),
		Type:      model.TypeText,
		Score:     synthesis.Score,
		Status:    synthesis.Status,
		Summary:   synthesis.Summary,
		Details:   details,
		Sources:   p.finder.Find(ctx, content),
		Timestamp: p.now().UTC(),
	}, nil
}

func (p *Pipeline) analyzeURL(ctx context.Context, target string) (*model.AnalysisResult, error) {
	page, err := p.pages.Fetch(ctx, target)
	if err != nil {
		return nil, &model.FetchError{Kind: model.TypeURL, Target: target, Err: err}
	}

	result, err := p.analyzeText(ctx, page.Text)
	if err != nil {
		return nil, err
	}

	domain := ""
	if parsed, err := url.Parse(target); err == nil {
		domain = parsed.Hostname()
	}
	domainScore := p.table.Score(target)

	result.Type = model.TypeURL
	result.URLMetadata = &model.URLMetadata{
		Title:       page.Title,
		Domain:      domain,
		PublishDate: page.PublishDate,
		Author:      page.Author,
	}
	result.DomainCredibility = &domainScore
	return result, nil
}

func (p *Pipeline) analyzeSocial(ctx context.Context, req model.Request) (*model.AnalysisResult, error) {
	post := req.PostData
	if post == nil {
		fetched, err := p.posts.Fetch(ctx, req.Content)
		if err != nil {
			return nil, &model.FetchError{Kind: model.TypeReddit, Target: req.Content, Err: err}
		}
		post = fetched
	}

	result, err := p.analyzeText(ctx, post.Title+" "+post.Content)
	if err != nil {
		return nil, err
	}
	result.Type = model.TypeReddit
	result.RedditMetrics = score.SocialMetrics(post)

	if req.Options.IncludeComments && len(post.Comments) > 0 {
		comments := post.Comments
		if len(comments) > maxComments {
			comments = comments[:maxComments]
		}
		bodies := make([]string, len(comments))
		for i, c := range comments {
			bodies[i] = c.Content
		}

		commentAnalysis, err := p.analyzeText(ctx, strings.Join(bodies, " "))
		if err != nil {
			return nil, err
		}
		result.CommentAnalysis = commentAnalysis
	}

	return result, nil
}

// narrate attaches an LLM narrative after scoring. Failures only warn.
func (p *Pipeline) narrate(ctx context.Context, result *model.AnalysisResult) {
	if !p.narrator.Enabled() {
		return
	}
	narrative, err := p.narrator.Narrate(ctx, result)
	if err != nil {
		p.logger.Warn("narrative generation failed", "error", err)
		return
	}
	result.Narrative = narrative
}
