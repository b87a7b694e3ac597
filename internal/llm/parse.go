package llm

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ajibade-k/budgetwise/constants"
	"github.com/ajibade-k/budgetwise/internal/entity"
)

// Fixed user-facing strings. FallbackRecommendations is what the record
// carries when the model output could not be parsed at all.
const (
	FallbackRecommendations = "Unable to analyze expenses automatically. Please review your transactions manually and categorize them according to the 50/30/20 rule."
	NoRecommendations       = "No specific recommendations available."
	UnlabeledExpense        = "(unlabeled)"
)

// ParseAnalysisResponse turns a raw completion into an ExpenseAnalysis. It
// never fails: the model's free-form output cannot be trusted, and the
// pipeline must always reach a terminal state, so every malformed input
// degrades to a deterministic fallback instead of an error.
//
// The candidate JSON is the greedy span from the first '{' to the last '}'.
// Decoding goes through a loose map and every field is mapped explicitly with
// a default, never trusting upstream structure beyond "this is valid JSON".
func ParseAnalysisResponse(raw string, logger *slog.Logger) ExpenseAnalysis {
	if logger == nil {
		logger = slog.Default()
	}

	candidate, ok := jsonCandidate(raw)
	if !ok {
		logger.Warn("llm.parse.no_json_span", "raw_bytes", len(raw))
		return fallbackAnalysis()
	}

	var doc map[string]any
	if err := json.Unmarshal([]byte(candidate), &doc); err != nil {
		logger.Warn("llm.parse.decode_failed", "error", err, "candidate_bytes", len(candidate))
		return fallbackAnalysis()
	}

	// Advisory only: a shape mismatch is logged, the field-by-field mapping
	// below recovers whatever it can.
	if err := ValidateJSONAgainstSchema(BuildAnalysisJSONSchema(), []byte(candidate)); err != nil {
		logger.Warn("llm.parse.schema_mismatch", "error", err)
	}

	summary, _ := doc["summary"].(map[string]any)

	out := ExpenseAnalysis{
		Needs:           numberOrZero(summary["50%"]),
		Wants:           numberOrZero(summary["30%"]),
		Savings:         numberOrZero(summary["20%"]),
		Undefined:       numberOrZero(summary["undefined"]),
		Expenses:        parseExpenses(doc["expenses"], logger),
		Recommendations: stringOrDefault(doc["recommendations"], NoRecommendations),
	}

	logger.Debug("llm.parse.ok",
		"needs", out.Needs, "wants", out.Wants,
		"savings", out.Savings, "undefined", out.Undefined,
		"expenses", len(out.Expenses),
	)
	return out
}

// jsonCandidate returns the greedy outer-brace span of s.
func jsonCandidate(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return s[start : end+1], true
}

func fallbackAnalysis() ExpenseAnalysis {
	return ExpenseAnalysis{
		Expenses:        []entity.ExpenseItem{},
		Recommendations: FallbackRecommendations,
	}
}

// parseExpenses coerces each entry rather than dropping it: an expense with a
// garbled amount or category is still worth showing to the user.
func parseExpenses(v any, logger *slog.Logger) []entity.ExpenseItem {
	list, ok := v.([]any)
	if !ok {
		return []entity.ExpenseItem{}
	}

	items := make([]entity.ExpenseItem, 0, len(list))
	for i, raw := range list {
		m, ok := raw.(map[string]any)
		if !ok {
			logger.Warn("llm.parse.expense_not_object", "index", i)
			continue
		}

		category, known := constants.Canonicalize(stringOrDefault(m["category"], ""))
		if !known {
			logger.Debug("llm.parse.expense_category_coerced", "index", i, "label", m["category"])
		}

		items = append(items, entity.ExpenseItem{
			Description: stringOrDefault(m["description"], UnlabeledExpense),
			Amount:      numberOrZero(m["amount"]),
			Category:    category,
			Subcategory: stringOrDefault(m["subcategory"], ""),
		})
	}
	return items
}

// numberOrZero accepts JSON numbers and numeric strings; anything else is 0.
func numberOrZero(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return f
		}
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return f
		}
	}
	return 0
}

func stringOrDefault(v any, def string) string {
	if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
		return s
	}
	return def
}
