package llm

import (
	"strings"

	"github.com/shopspring/decimal"
)

// BuildAnalysisPrompt renders the 50/30/20 instruction for one statement.
// Pure function of its inputs; the wording is the contract with the model and
// is pinned by tests, so edits here are breaking changes.
func BuildAnalysisPrompt(textContent string, monthlyIncome decimal.Decimal) string {
	needs := monthlyIncome.Mul(decimal.NewFromFloat(0.5)).StringFixed(2)
	wants := monthlyIncome.Mul(decimal.NewFromFloat(0.3)).StringFixed(2)
	savings := monthlyIncome.Mul(decimal.NewFromFloat(0.2)).StringFixed(2)

	var b strings.Builder
	b.WriteString("You are a financial advisor analyzing bank statement data. Please categorize each expense according to the 50/30/20 budgeting rule:\n\n")
	b.WriteString("- 50% for NEEDS: Essential expenses like rent, groceries, utilities, minimum debt payments, insurance, transportation to work\n")
	b.WriteString("- 30% for WANTS: Non-essential expenses like entertainment, dining out, hobbies, subscriptions, shopping\n")
	b.WriteString("- 20% for SAVINGS: Money saved, invested, or put toward debt payments above minimums\n\n")

	b.WriteString("Monthly Income: $")
	b.WriteString(monthlyIncome.StringFixed(2))
	b.WriteString("\nRecommended breakdown:\n")
	b.WriteString("- Needs: $")
	b.WriteString(needs)
	b.WriteString("\n- Wants: $")
	b.WriteString(wants)
	b.WriteString("\n- Savings: $")
	b.WriteString(savings)
	b.WriteString("\n\nBank Statement Content:\n")
	b.WriteString(textContent)

	b.WriteString("\n\nPlease analyze the transactions and provide your response in the following JSON format:\n\n")
	b.WriteString(`{
  "summary": {
    "50%": [total amount for needs],
    "30%": [total amount for wants],
    "20%": [total amount for savings],
    "undefined": [total amount for unclear categorization]
  },
  "expenses": [
    {
      "description": "[transaction description]",
      "amount": [amount as number, negative for expenses, positive for income/savings],
      "category": "[50%, 30%, 20%, or undefined]",
      "subcategory": "[specific category like Housing, Food, Entertainment, etc.]"
    }
  ],
  "recommendations": "[Detailed recommendations for improving their budget based on the 50/30/20 rule. Provide specific actionable advice.]"
}`)

	b.WriteString("\n\nImportant:\n")
	b.WriteString("- Respond with a single JSON object and nothing else\n")
	b.WriteString("- Be conservative with categorization - when unsure, use \"undefined\"\n")
	b.WriteString("- Negative amounts are expenses, positive amounts are income or transfers to savings\n")
	b.WriteString("- Focus on providing actionable, specific recommendations\n")
	b.WriteString("- Consider their actual spending vs recommended percentages\n")

	return b.String()
}
