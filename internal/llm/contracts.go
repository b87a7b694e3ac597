package llm

import (
	"context"

	"github.com/ajibade-k/budgetwise/internal/entity"
)

// ExpenseAnalysis is the normalized shape we want out of the model: the four
// actual totals, the categorized transactions, and free-text advice.
type ExpenseAnalysis struct {
	Needs           float64              `json:"needs"`
	Wants           float64              `json:"wants"`
	Savings         float64              `json:"savings"`
	Undefined       float64              `json:"undefined"`
	Expenses        []entity.ExpenseItem `json:"expenses"`
	Recommendations string               `json:"recommendations"`
}

// Completer is the interface the pipeline depends on. One implementation per
// completion backend; each normalizes its own response envelope down to the
// flat generated text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
