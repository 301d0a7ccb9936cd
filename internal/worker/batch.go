package worker

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ppiankov/credence/internal/model"
)

// Analyzer analyzes one request
type Analyzer interface {
	Analyze(ctx context.Context, req model.Request) (*model.AnalysisResult, error)
}

// AnalysisJob analyzes a single request
type AnalysisJob struct {
	Request  model.Request
	Analyzer Analyzer
}

// Execute runs the analysis
func (j *AnalysisJob) Execute(ctx context.Context) Result {
	result, err := j.Analyzer.Analyze(ctx, j.Request)
	return &AnalysisOutcome{
		Request: j.Request,
		Result:  result,
		Error:   err,
	}
}

// AnalysisOutcome is the result of an analysis job
type AnalysisOutcome struct {
	Request model.Request
	Result  *model.AnalysisResult
	Error   error
}

// GetError returns the error from the analysis
func (r *AnalysisOutcome) GetError() error {
	return r.Error
}

// BatchProcessor analyzes multiple requests concurrently
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(analyzer Analyzer, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
	}
}

// Process analyzes requests concurrently and returns outcomes in input order
func (b *BatchProcessor) Process(ctx context.Context, requests []model.Request) []*AnalysisOutcome {
	if len(requests) == 0 {
		return []*AnalysisOutcome{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for _, req := range requests {
		pool.Submit(&AnalysisJob{
			Request:  req,
			Analyzer: b.analyzer,
		})
	}

	results := pool.Wait()

	outcomes := make([]*AnalysisOutcome, len(requests))
	for i := range outcomes {
		if i < len(results) && results[i] != nil {
			outcomes[i] = results[i].(*AnalysisOutcome)
			continue
		}
		// Job never ran because the context was cancelled
		err := ctx.Err()
		if err == nil {
			err = context.Canceled
		}
		outcomes[i] = &AnalysisOutcome{Request: requests[i], Error: err}
	}

	return outcomes
}

// ProcessFile reads requests from a file and analyzes them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*AnalysisOutcome, error) {
	requests, err := ReadRequestsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read requests: %w", err)
	}

	return b.Process(ctx, requests), nil
}

// ReadRequestsFromFile reads one request per line, see ParseRequests
func ReadRequestsFromFile(filePath string) ([]model.Request, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return ParseRequests(file)
}

// ParseRequests reads lines of the form "type<TAB>content" or bare content.
// Bare content is typed by shape: reddit post links are reddit, other http(s)
// links are url, anything else is text. Blank lines, comments and duplicates are skipped.
func ParseRequests(r io.Reader) ([]model.Request, error) {
	var requests []model.Request
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		req := parseLine(line)
		if req.Content == "" {
			continue
		}

		key := string(req.Type) + "\t" + req.Content
		if seen[key] {
			continue
		}
		seen[key] = true
		requests = append(requests, req)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return requests, nil
}

func parseLine(line string) model.Request {
	if kind, content, ok := strings.Cut(line, "\t"); ok {
		return model.Request{
			Type:    model.ContentType(strings.ToLower(strings.TrimSpace(kind))),
			Content: strings.TrimSpace(content),
		}
	}

	return model.Request{Type: inferType(line), Content: line}
}

func inferType(content string) model.ContentType {
	lower := strings.ToLower(content)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return model.TypeText
	}
	if strings.Contains(lower, "reddit.com/r/") && strings.Contains(lower, "/comments/") {
		return model.TypeReddit
	}
	return model.TypeURL
}
