package llm

import (
	"io"
	"log/slog"
	"testing"

	"github.com/ajibade-k/budgetwise/constants"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParseAnalysisResponse_WellFormed(t *testing.T) {
	raw := `Here is the analysis you asked for:
{
  "summary": {"50%": 1200.50, "30%": 640, "20%": 400, "undefined": 59.49},
  "expenses": [
    {"description": "Rent payment", "amount": -950, "category": "50%", "subcategory": "Housing"},
    {"description": "Netflix", "amount": -15.99, "category": "30%", "subcategory": "Entertainment"},
    {"description": "Transfer to savings", "amount": 400, "category": "20%"}
  ],
  "recommendations": "Cut subscriptions and move the surplus to savings."
}
Hope this helps!`

	got := ParseAnalysisResponse(raw, discardLogger())

	if got.Needs != 1200.50 || got.Wants != 640 || got.Savings != 400 || got.Undefined != 59.49 {
		t.Errorf("summary = %v/%v/%v/%v, want 1200.50/640/400/59.49",
			got.Needs, got.Wants, got.Savings, got.Undefined)
	}
	if len(got.Expenses) != 3 {
		t.Fatalf("expenses = %d, want 3", len(got.Expenses))
	}
	if got.Expenses[0].Category != constants.Needs {
		t.Errorf("expense[0] category = %q, want needs", got.Expenses[0].Category)
	}
	if got.Expenses[1].Amount != -15.99 {
		t.Errorf("expense[1] amount = %v, want -15.99", got.Expenses[1].Amount)
	}
	if got.Expenses[2].Subcategory != "" {
		t.Errorf("expense[2] subcategory = %q, want empty", got.Expenses[2].Subcategory)
	}
	if got.Recommendations != "Cut subscriptions and move the surplus to savings." {
		t.Errorf("recommendations = %q", got.Recommendations)
	}
}

func TestParseAnalysisResponse_BareObject(t *testing.T) {
	raw := `{"summary":{"50%":120.5,"30%":60,"20%":40,"undefined":0},"expenses":[],"recommendations":"ok"}`

	got := ParseAnalysisResponse(raw, discardLogger())

	if got.Needs != 120.5 || got.Wants != 60 || got.Savings != 40 || got.Undefined != 0 {
		t.Errorf("summary = %v/%v/%v/%v", got.Needs, got.Wants, got.Savings, got.Undefined)
	}
	if len(got.Expenses) != 0 {
		t.Errorf("expenses = %v, want empty", got.Expenses)
	}
	if got.Recommendations != "ok" {
		t.Errorf("recommendations = %q, want ok", got.Recommendations)
	}
}

func TestParseAnalysisResponse_NoJSONSpan(t *testing.T) {
	got := ParseAnalysisResponse("no json here", discardLogger())

	if got.Needs != 0 || got.Wants != 0 || got.Savings != 0 || got.Undefined != 0 {
		t.Errorf("fallback summary must be all zero, got %+v", got)
	}
	if got.Expenses == nil || len(got.Expenses) != 0 {
		t.Errorf("fallback expenses must be an empty slice, got %v", got.Expenses)
	}
	if got.Recommendations != FallbackRecommendations {
		t.Errorf("recommendations = %q, want fallback", got.Recommendations)
	}
}

func TestParseAnalysisResponse_InvalidJSONInSpan(t *testing.T) {
	got := ParseAnalysisResponse("prefix { this is not json } suffix", discardLogger())
	if got.Recommendations != FallbackRecommendations {
		t.Errorf("recommendations = %q, want fallback", got.Recommendations)
	}
	if len(got.Expenses) != 0 {
		t.Errorf("expenses = %v, want empty", got.Expenses)
	}
}

func TestParseAnalysisResponse_CoercesEntries(t *testing.T) {
	raw := `{
  "summary": {"50%": "1000.25", "30%": null},
  "expenses": [
    {"description": "Mystery charge", "amount": "-42.10", "category": "groceries?"},
    {"amount": -10, "category": "30%"},
    "not an object",
    {"description": "Bad amount", "amount": {"x": 1}, "category": "20%"}
  ]
}`

	got := ParseAnalysisResponse(raw, discardLogger())

	if got.Needs != 1000.25 {
		t.Errorf("needs = %v, want 1000.25 (numeric string)", got.Needs)
	}
	if got.Wants != 0 {
		t.Errorf("wants = %v, want 0 (null)", got.Wants)
	}
	if len(got.Expenses) != 3 {
		t.Fatalf("expenses = %d, want 3 (non-object entry skipped)", len(got.Expenses))
	}

	if got.Expenses[0].Amount != -42.10 {
		t.Errorf("string amount = %v, want -42.10", got.Expenses[0].Amount)
	}
	if got.Expenses[0].Category != constants.Undefined {
		t.Errorf("unknown label must coerce to undefined, got %q", got.Expenses[0].Category)
	}
	if got.Expenses[1].Description != UnlabeledExpense {
		t.Errorf("missing description = %q, want %q", got.Expenses[1].Description, UnlabeledExpense)
	}
	if got.Expenses[2].Amount != 0 {
		t.Errorf("non-numeric amount = %v, want 0", got.Expenses[2].Amount)
	}
	if got.Recommendations != NoRecommendations {
		t.Errorf("missing recommendations = %q, want %q", got.Recommendations, NoRecommendations)
	}
}

func TestParseAnalysisResponse_CategorySynonyms(t *testing.T) {
	tests := []struct {
		label string
		want  constants.Category
	}{
		{"50%", constants.Needs},
		{"needs", constants.Needs},
		{"NEEDS", constants.Needs},
		{"30%", constants.Wants},
		{"wants", constants.Wants},
		{"20%", constants.Savings},
		{"savings", constants.Savings},
	}

	for _, tt := range tests {
		got, _ := constants.Canonicalize(tt.label)
		if got != tt.want {
			t.Errorf("Canonicalize(%q) = %q, want %q", tt.label, got, tt.want)
		}
	}
}

func TestJSONCandidate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"bare object", `{"a":1}`, `{"a":1}`, true},
		{"surrounded", `text {"a":1} more`, `{"a":1}`, true},
		{"greedy span", `{"a":1} and {"b":2}`, `{"a":1} and {"b":2}`, true},
		{"no braces", "nothing", "", false},
		{"reversed braces", "} {", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := jsonCandidate(tt.in)
			if ok != tt.ok || got != tt.want {
				t.Errorf("jsonCandidate(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestNumberOrZero(t *testing.T) {
	tests := []struct {
		in   any
		want float64
	}{
		{float64(3.5), 3.5},
		{"2.25", 2.25},
		{" -7 ", -7},
		{"abc", 0},
		{nil, 0},
		{true, 0},
	}
	for _, tt := range tests {
		if got := numberOrZero(tt.in); got != tt.want {
			t.Errorf("numberOrZero(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
