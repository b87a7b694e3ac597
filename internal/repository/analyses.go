package repository

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ajibade-k/budgetwise/constants"
	"github.com/ajibade-k/budgetwise/internal/common"
	"github.com/ajibade-k/budgetwise/internal/entity"
	"github.com/ajibade-k/budgetwise/internal/llm"
)

// CreateAnalysisRequest carries what the upload endpoint knows at accept
// time. The recommended 50/30/20 figures are derived here, not passed in.
type CreateAnalysisRequest struct {
	UserID           uuid.UUID
	FileName         string
	OriginalFileName string
	MonthlyIncome    decimal.Decimal
}

// AnalysisRepository persists budget_analyses rows. The pipeline calls
// exactly one of MarkCompleted/MarkFailed per run; the repository itself does
// not police the single-write rule (last write wins at the UPDATE level).
type AnalysisRepository interface {
	Create(ctx context.Context, req CreateAnalysisRequest) (*entity.BudgetAnalysis, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.BudgetAnalysis, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.BudgetAnalysis, error)
	MarkCompleted(ctx context.Context, id uuid.UUID, result llm.ExpenseAnalysis) error
	MarkFailed(ctx context.Context, id uuid.UUID, message string) error
}

type analysisRepo struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewAnalysisRepository(pool *pgxpool.Pool, log *slog.Logger) AnalysisRepository {
	return &analysisRepo{pool: pool, log: log}
}

const analysisColumns = `id, user_id, file_name, original_file_name, upload_date,
	monthly_income, recommended_needs, recommended_wants, recommended_savings,
	actual_needs, actual_wants, actual_savings, actual_undefined,
	expenses, recommendations, analysis_status`

func (r *analysisRepo) Create(ctx context.Context, req CreateAnalysisRequest) (*entity.BudgetAnalysis, error) {
	income := req.MonthlyIncome
	row := r.pool.QueryRow(ctx, `
		INSERT INTO budget_analyses
			(user_id, file_name, original_file_name, monthly_income,
			 recommended_needs, recommended_wants, recommended_savings)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+analysisColumns,
		req.UserID, req.FileName, req.OriginalFileName, income,
		income.Mul(decimal.NewFromFloat(0.5)).Round(2),
		income.Mul(decimal.NewFromFloat(0.3)).Round(2),
		income.Mul(decimal.NewFromFloat(0.2)).Round(2),
	)

	a, err := scanAnalysis(row)
	if err != nil {
		r.log.Error("analysis create failed", "user_id", req.UserID, "err", err)
		return nil, err
	}
	r.log.Info("analysis created", "analysis_id", a.ID, "user_id", a.UserID, "status", a.AnalysisStatus)
	return a, nil
}

func (r *analysisRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.BudgetAnalysis, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+analysisColumns+` FROM budget_analyses WHERE id = $1`, id)
	a, err := scanAnalysis(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	return a, err
}

func (r *analysisRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.BudgetAnalysis, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+analysisColumns+` FROM budget_analyses
		WHERE user_id = $1 ORDER BY upload_date DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.BudgetAnalysis
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *analysisRepo) MarkCompleted(ctx context.Context, id uuid.UUID, result llm.ExpenseAnalysis) error {
	expenses := result.Expenses
	if expenses == nil {
		expenses = []entity.ExpenseItem{}
	}
	expensesJSON, err := json.Marshal(expenses)
	if err != nil {
		return common.WrapError(err, "encode expenses")
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE budget_analyses SET
			actual_needs = $2, actual_wants = $3, actual_savings = $4, actual_undefined = $5,
			expenses = $6, recommendations = $7, analysis_status = $8
		WHERE id = $1`,
		id,
		decimal.NewFromFloat(result.Needs).Round(2),
		decimal.NewFromFloat(result.Wants).Round(2),
		decimal.NewFromFloat(result.Savings).Round(2),
		decimal.NewFromFloat(result.Undefined).Round(2),
		expensesJSON,
		result.Recommendations,
		constants.AnalysisCompleted,
	)
	if err != nil {
		r.log.Error("analysis finish(completed) failed", "analysis_id", id, "err", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	r.log.Info("analysis finished (completed)", "analysis_id", id, "expenses", len(expenses))
	return nil
}

func (r *analysisRepo) MarkFailed(ctx context.Context, id uuid.UUID, message string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE budget_analyses SET analysis_status = $2, recommendations = $3
		WHERE id = $1`,
		id, constants.AnalysisFailed, message)
	if err != nil {
		r.log.Error("analysis finish(failed) failed", "analysis_id", id, "err", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	r.log.Warn("analysis finished (failed)", "analysis_id", id, "message", message)
	return nil
}

func scanAnalysis(row rowScanner) (*entity.BudgetAnalysis, error) {
	var (
		a            entity.BudgetAnalysis
		actualNeeds  decimal.NullDecimal
		actualWants  decimal.NullDecimal
		actualSaves  decimal.NullDecimal
		actualUndef  decimal.NullDecimal
		expensesJSON []byte
		status       string
	)
	if err := row.Scan(
		&a.ID, &a.UserID, &a.FileName, &a.OriginalFileName, &a.UploadDate,
		&a.MonthlyIncome, &a.RecommendedNeeds, &a.RecommendedWants, &a.RecommendedSavings,
		&actualNeeds, &actualWants, &actualSaves, &actualUndef,
		&expensesJSON, &a.Recommendations, &status,
	); err != nil {
		return nil, err
	}

	if actualNeeds.Valid {
		a.ActualNeeds = &actualNeeds.Decimal
	}
	if actualWants.Valid {
		a.ActualWants = &actualWants.Decimal
	}
	if actualSaves.Valid {
		a.ActualSavings = &actualSaves.Decimal
	}
	if actualUndef.Valid {
		a.ActualUndefined = &actualUndef.Decimal
	}
	if len(expensesJSON) > 0 {
		if err := json.Unmarshal(expensesJSON, &a.Expenses); err != nil {
			return nil, common.WrapError(err, "decode expenses")
		}
	}
	a.AnalysisStatus = constants.AnalysisStatus(status)
	return &a, nil
}
