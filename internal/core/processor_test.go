package core

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ajibade-k/budgetwise/internal/entity"
	"github.com/ajibade-k/budgetwise/internal/extract"
	"github.com/ajibade-k/budgetwise/internal/llm"
	"github.com/ajibade-k/budgetwise/internal/repository"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeExtractor struct {
	text string
	err  error
}

func (f *fakeExtractor) Extract(ctx context.Context, path, declaredName string) (extract.ExtractionResult, error) {
	if f.err != nil {
		return extract.ExtractionResult{}, f.err
	}
	return extract.ExtractionResult{Text: f.text, Format: "PDF", Pages: 1}, nil
}

type fakeCompleter struct {
	response   string
	err        error
	lastPrompt string
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	f.lastPrompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

// fakeAnalyses records terminal transitions. Create/GetByID/ListByUser exist
// only to satisfy the interface; the processor never calls them.
type fakeAnalyses struct {
	completed     []uuid.UUID
	failed        []uuid.UUID
	failedMessage string
	lastResult    llm.ExpenseAnalysis
	completeErr   error
}

func (f *fakeAnalyses) Create(ctx context.Context, req repository.CreateAnalysisRequest) (*entity.BudgetAnalysis, error) {
	return nil, errors.New("not used")
}

func (f *fakeAnalyses) GetByID(ctx context.Context, id uuid.UUID) (*entity.BudgetAnalysis, error) {
	return nil, errors.New("not used")
}

func (f *fakeAnalyses) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.BudgetAnalysis, error) {
	return nil, errors.New("not used")
}

func (f *fakeAnalyses) MarkCompleted(ctx context.Context, id uuid.UUID, result llm.ExpenseAnalysis) error {
	if f.completeErr != nil {
		return f.completeErr
	}
	f.completed = append(f.completed, id)
	f.lastResult = result
	return nil
}

func (f *fakeAnalyses) MarkFailed(ctx context.Context, id uuid.UUID, message string) error {
	f.failed = append(f.failed, id)
	f.failedMessage = message
	return nil
}

// tempUpload drops a throwaway file so cleanup has something to delete.
func tempUpload(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "user-123.pdf")
	if err := os.WriteFile(path, []byte("pdf bytes"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func newJob(path string) AnalysisJob {
	return AnalysisJob{
		AnalysisID:    uuid.New(),
		FilePath:      path,
		FileName:      filepath.Base(path),
		MonthlyIncome: decimal.NewFromInt(5000),
	}
}

func TestRun_Success(t *testing.T) {
	path := tempUpload(t)
	analyses := &fakeAnalyses{}
	completer := &fakeCompleter{response: `{
		"summary": {"50%": 2000, "30%": 900, "20%": 500, "undefined": 0},
		"expenses": [{"description": "Rent", "amount": -1500, "category": "50%", "subcategory": "Housing"}],
		"recommendations": "Looks healthy."
	}`}

	p := NewProcessor(testLogger(), &fakeExtractor{text: "statement text"}, completer, analyses)
	job := newJob(path)

	if err := p.Run(context.Background(), job); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(analyses.completed) != 1 || analyses.completed[0] != job.AnalysisID {
		t.Errorf("completed = %v, want exactly the job id", analyses.completed)
	}
	if len(analyses.failed) != 0 {
		t.Errorf("failed = %v, want none", analyses.failed)
	}
	if analyses.lastResult.Needs != 2000 {
		t.Errorf("persisted needs = %v, want 2000", analyses.lastResult.Needs)
	}
	if len(analyses.lastResult.Expenses) != 1 {
		t.Errorf("persisted expenses = %d, want 1", len(analyses.lastResult.Expenses))
	}

	// the prompt must carry the extracted statement
	if want := "Bank Statement Content:\nstatement text"; !strings.Contains(completer.lastPrompt, want) {
		t.Errorf("prompt missing %q", want)
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("uploaded file not cleaned up: %v", err)
	}
}

func TestRun_ExtractionFailure(t *testing.T) {
	path := tempUpload(t)
	analyses := &fakeAnalyses{}
	completer := &fakeCompleter{response: "unused"}

	p := NewProcessor(testLogger(), &fakeExtractor{err: errors.New("bad pdf")}, completer, analyses)
	job := newJob(path)

	if err := p.Run(context.Background(), job); err == nil {
		t.Fatal("Run must propagate the extraction error")
	}

	if len(analyses.failed) != 1 || analyses.failed[0] != job.AnalysisID {
		t.Errorf("failed = %v, want the job id", analyses.failed)
	}
	if analyses.failedMessage != AnalysisFailedMessage {
		t.Errorf("failure message = %q, want the generic one", analyses.failedMessage)
	}
	if len(analyses.completed) != 0 {
		t.Errorf("completed = %v, want none", analyses.completed)
	}
	if completer.lastPrompt != "" {
		t.Error("completer called after extraction failed")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("uploaded file must be removed on failure too")
	}
}

func TestRun_CompletionFailure(t *testing.T) {
	path := tempUpload(t)
	analyses := &fakeAnalyses{}

	p := NewProcessor(testLogger(), &fakeExtractor{text: "text"},
		&fakeCompleter{err: errors.New("upstream down")}, analyses)
	job := newJob(path)

	if err := p.Run(context.Background(), job); err == nil {
		t.Fatal("Run must propagate the completion error")
	}
	if len(analyses.failed) != 1 {
		t.Errorf("failed = %v, want one entry", analyses.failed)
	}
	if len(analyses.completed) != 0 {
		t.Errorf("completed = %v, want none", analyses.completed)
	}
}

func TestRun_GarbageModelOutputStillCompletes(t *testing.T) {
	path := tempUpload(t)
	analyses := &fakeAnalyses{}

	p := NewProcessor(testLogger(), &fakeExtractor{text: "text"},
		&fakeCompleter{response: "I cannot produce JSON today."}, analyses)
	job := newJob(path)

	if err := p.Run(context.Background(), job); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(analyses.completed) != 1 {
		t.Fatalf("completed = %v, want one entry", analyses.completed)
	}
	if analyses.lastResult.Recommendations != llm.FallbackRecommendations {
		t.Errorf("recommendations = %q, want fallback", analyses.lastResult.Recommendations)
	}
}

func TestRun_PersistFailure(t *testing.T) {
	path := tempUpload(t)
	analyses := &fakeAnalyses{completeErr: errors.New("numeric field overflow")}

	p := NewProcessor(testLogger(), &fakeExtractor{text: "text"},
		&fakeCompleter{response: `{"summary":{}}`}, analyses)
	job := newJob(path)

	if err := p.Run(context.Background(), job); err == nil {
		t.Fatal("Run must surface the persist error")
	}

	// the record still reaches a terminal status
	if len(analyses.completed) != 0 {
		t.Errorf("completed = %v, want none", analyses.completed)
	}
	if len(analyses.failed) != 1 || analyses.failed[0] != job.AnalysisID {
		t.Fatalf("failed = %v, want exactly the job id", analyses.failed)
	}
	if analyses.failedMessage != AnalysisFailedMessage {
		t.Errorf("failure message = %q, want the generic one", analyses.failedMessage)
	}
}
