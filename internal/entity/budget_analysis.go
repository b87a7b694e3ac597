package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ajibade-k/budgetwise/constants"
)

// ExpenseItem is one categorized transaction from the uploaded statement.
// Amount is signed: negative for expenses, positive for income or transfers
// to savings.
type ExpenseItem struct {
	Description string             `json:"description"`
	Amount      float64            `json:"amount"`
	Category    constants.Category `json:"category"`
	Subcategory string             `json:"subcategory,omitempty"`
}

// BudgetAnalysis is the tracked record for one uploaded statement.
//
// The recommended figures are computed once at creation from the income
// (50/30/20). The actual figures, expenses and recommendations start nil and
// are written exactly once when the pipeline reaches a terminal status.
type BudgetAnalysis struct {
	ID                 uuid.UUID                `json:"id"`
	UserID             uuid.UUID                `json:"userId"`
	FileName           string                   `json:"fileName"`
	OriginalFileName   string                   `json:"originalFileName"`
	UploadDate         time.Time                `json:"uploadDate"`
	MonthlyIncome      decimal.Decimal          `json:"monthlyIncome"`
	RecommendedNeeds   decimal.Decimal          `json:"recommendedNeeds"`
	RecommendedWants   decimal.Decimal          `json:"recommendedWants"`
	RecommendedSavings decimal.Decimal          `json:"recommendedSavings"`
	ActualNeeds        *decimal.Decimal         `json:"actualNeeds"`
	ActualWants        *decimal.Decimal         `json:"actualWants"`
	ActualSavings      *decimal.Decimal         `json:"actualSavings"`
	ActualUndefined    *decimal.Decimal         `json:"actualUndefined"`
	Expenses           []ExpenseItem            `json:"expenses"`
	Recommendations    *string                  `json:"recommendations"`
	AnalysisStatus     constants.AnalysisStatus `json:"analysisStatus"`
}
