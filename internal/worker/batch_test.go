package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/credence/internal/model"
)

type mockAnalyzer struct {
	shouldError bool
}

func (m *mockAnalyzer) Analyze(ctx context.Context, req model.Request) (*model.AnalysisResult, error) {
	time.Sleep(10 * time.Millisecond)
	if m.shouldError {
		return nil, errors.New("analysis error")
	}
	return &model.AnalysisResult{
		Source: model.SourceExcerpt(req.Content),
		Type:   req.Type,
		Score:  50,
		Status: model.StatusDisputed,
	}, nil
}

func TestBatchProcessor_Process(t *testing.T) {
	processor := NewBatchProcessor(&mockAnalyzer{}, 2)

	requests := []model.Request{
		{Type: model.TypeText, Content: "The study found 40% fewer cases."},
		{Type: model.TypeURL, Content: "https://example.com/article"},
		{Type: model.TypeText, Content: "Water boils at 100 degrees at sea level."},
	}

	outcomes := processor.Process(context.Background(), requests)

	if len(outcomes) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(outcomes))
	}

	for i, out := range outcomes {
		if out.Error != nil {
			t.Errorf("unexpected error for %q: %v", out.Request.Content, out.Error)
			continue
		}
		if out.Result == nil {
			t.Error("expected result for successful analysis")
			continue
		}
		if out.Request.Content != requests[i].Content {
			t.Errorf("outcome %d out of order: %q", i, out.Request.Content)
		}
		if out.Result.Type != requests[i].Type {
			t.Errorf("expected type %s, got %s", requests[i].Type, out.Result.Type)
		}
	}
}

func TestBatchProcessor_Process_Error(t *testing.T) {
	processor := NewBatchProcessor(&mockAnalyzer{shouldError: true}, 2)

	outcomes := processor.Process(context.Background(), []model.Request{{Type: model.TypeText, Content: "x"}})

	if len(outcomes) != 1 {
		t.Fatalf("expected 1 outcome, got %d", len(outcomes))
	}
	if outcomes[0].Error == nil {
		t.Error("expected error, got nil")
	}
	if outcomes[0].Result != nil {
		t.Error("expected nil result on error")
	}
}

func TestBatchProcessor_Process_Empty(t *testing.T) {
	processor := NewBatchProcessor(&mockAnalyzer{}, 2)

	if outcomes := processor.Process(context.Background(), nil); len(outcomes) != 0 {
		t.Errorf("expected 0 outcomes, got %d", len(outcomes))
	}
}

func TestBatchProcessor_Process_Cancelled(t *testing.T) {
	processor := NewBatchProcessor(&mockAnalyzer{}, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcomes := processor.Process(ctx, []model.Request{
		{Type: model.TypeText, Content: "a"},
		{Type: model.TypeText, Content: "b"},
	})

	if len(outcomes) != 2 {
		t.Fatalf("expected an outcome per request, got %d", len(outcomes))
	}
	for _, out := range outcomes {
		if out == nil {
			t.Fatal("expected non-nil outcome")
		}
	}
}

func TestAnalysisOutcome_GetError(t *testing.T) {
	r1 := &AnalysisOutcome{}
	if r1.GetError() != nil {
		t.Errorf("expected nil error, got %v", r1.GetError())
	}

	expected := errors.New("analysis failed")
	r2 := &AnalysisOutcome{Error: expected}
	if r2.GetError() != expected {
		t.Errorf("expected %v, got %v", expected, r2.GetError())
	}
}

func TestParseRequests(t *testing.T) {
	input := strings.Join([]string{
		"# claims to check",
		"text\tThe Eiffel Tower is 330 metres tall.",
		"URL\thttps://example.com/a",
		"https://www.reddit.com/r/science/comments/abc123/some_title/",
		"https://example.com/b",
		"",
		"Vaccines were tested on 40000 people.",
		"Vaccines were tested on 40000 people.",
	}, "\n")

	requests, err := ParseRequests(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseRequests failed: %v", err)
	}

	expected := []model.Request{
		{Type: model.TypeText, Content: "The Eiffel Tower is 330 metres tall."},
		{Type: model.TypeURL, Content: "https://example.com/a"},
		{Type: model.TypeReddit, Content: "https://www.reddit.com/r/science/comments/abc123/some_title/"},
		{Type: model.TypeURL, Content: "https://example.com/b"},
		{Type: model.TypeText, Content: "Vaccines were tested on 40000 people."},
	}

	if len(requests) != len(expected) {
		t.Fatalf("expected %d requests, got %d: %+v", len(expected), len(requests), requests)
	}
	for i := range expected {
		if requests[i].Type != expected[i].Type || requests[i].Content != expected[i].Content {
			t.Errorf("request %d: expected %+v, got %+v", i, expected[i], requests[i])
		}
	}
}

func TestBatchProcessor_ProcessFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.txt")
	content := "text\tone claim is here\n# comment\n\nhttps://example.com\nanother claim was made\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	processor := NewBatchProcessor(&mockAnalyzer{}, 2)

	outcomes, err := processor.ProcessFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if len(outcomes) != 3 {
		t.Errorf("expected 3 outcomes, got %d", len(outcomes))
	}
}

func TestBatchProcessor_ProcessFile_NonExistent(t *testing.T) {
	processor := NewBatchProcessor(&mockAnalyzer{}, 2)

	if _, err := processor.ProcessFile(context.Background(), "no_such_file.txt"); err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}
