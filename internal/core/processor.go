package core

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ajibade-k/budgetwise/internal/extract"
	"github.com/ajibade-k/budgetwise/internal/llm"
	"github.com/ajibade-k/budgetwise/internal/repository"
)

// AnalysisFailedMessage is the only failure text a client ever sees; the
// technical cause stays in server logs.
const AnalysisFailedMessage = "Analysis failed. Please try uploading your file again or contact support if the issue persists."

// TextExtractor is what the processor needs from the extractor.
type TextExtractor interface {
	Extract(ctx context.Context, path, declaredName string) (extract.ExtractionResult, error)
}

// AnalysisJob is one pipeline run: a pending budget_analyses row plus the
// uploaded file it should consume.
type AnalysisJob struct {
	AnalysisID    uuid.UUID
	FilePath      string
	FileName      string
	MonthlyIncome decimal.Decimal
	SubmittedAt   time.Time
}

// Processor drives extract → prompt → complete → parse → persist for one
// uploaded document. Each run touches only its own file and its own row, so
// runs never share mutable state.
type Processor struct {
	logger    *slog.Logger
	extractor TextExtractor
	completer llm.Completer
	analyses  repository.AnalysisRepository
}

func NewProcessor(
	logger *slog.Logger,
	extractor TextExtractor,
	completer llm.Completer,
	analyses repository.AnalysisRepository,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		logger:    logger,
		extractor: extractor,
		completer: completer,
		analyses:  analyses,
	}
}

// Run takes the analysis to a terminal status. Extraction or completion
// failure marks the row failed with the generic message; once both succeed
// the run is guaranteed to complete, because parsing absorbs malformed model
// output instead of surfacing it. The uploaded file is removed in every path.
func (p *Processor) Run(ctx context.Context, job AnalysisJob) error {
	p.logger.Info("analysis.run.start",
		"analysis_id", job.AnalysisID, "file", job.FileName)
	defer p.cleanup(job)

	res, err := p.extractor.Extract(ctx, job.FilePath, job.FileName)
	if err != nil {
		p.logger.Error("analysis.extract.failed",
			"analysis_id", job.AnalysisID, "file", job.FileName, "err", err)
		p.markFailed(ctx, job.AnalysisID)
		return err
	}
	p.logger.Debug("analysis.extract.ok",
		"analysis_id", job.AnalysisID, "format", res.Format, "text_bytes", len(res.Text))

	prompt := llm.BuildAnalysisPrompt(res.Text, job.MonthlyIncome)

	rawText, err := p.completer.Complete(ctx, prompt)
	if err != nil {
		p.logger.Error("analysis.complete.failed",
			"analysis_id", job.AnalysisID, "err", err)
		p.markFailed(ctx, job.AnalysisID)
		return err
	}

	// Never fails; degrades to the fallback result on malformed output.
	result := llm.ParseAnalysisResponse(rawText, p.logger)

	if err := p.analyses.MarkCompleted(ctx, job.AnalysisID, result); err != nil {
		p.logger.Error("analysis.persist.failed",
			"analysis_id", job.AnalysisID, "err", err)
		// The row must still reach a terminal status; a completed-write
		// failure (for example a figure overflowing the numeric column)
		// degrades to failed rather than stranding the record in pending.
		p.markFailed(ctx, job.AnalysisID)
		return err
	}

	p.logger.Info("analysis.run.completed",
		"analysis_id", job.AnalysisID,
		"needs", result.Needs, "wants", result.Wants,
		"savings", result.Savings, "undefined", result.Undefined,
		"expenses", len(result.Expenses),
	)
	return nil
}

// markFailed writes the terminal failed status. A storage error here is
// logged and dropped; there is nowhere left to report it.
func (p *Processor) markFailed(ctx context.Context, analysisID uuid.UUID) {
	if err := p.analyses.MarkFailed(ctx, analysisID, AnalysisFailedMessage); err != nil {
		p.logger.Error("analysis.mark_failed.error", "analysis_id", analysisID, "err", err)
	}
}

// cleanup deletes the uploaded temp file. Deletion failures never escalate.
func (p *Processor) cleanup(job AnalysisJob) {
	if job.FilePath == "" {
		return
	}
	if err := os.Remove(job.FilePath); err != nil && !os.IsNotExist(err) {
		p.logger.Warn("analysis.cleanup.failed",
			"analysis_id", job.AnalysisID, "path", job.FilePath, "err", err)
	}
}
