package constants

// AnalysisStatus is the canonical status for rows in budget_analyses.
type AnalysisStatus string

// Stable values (store these exact strings in DB).
const (
	AnalysisPending   AnalysisStatus = "pending"   // created with the upload, pipeline not finished
	AnalysisCompleted AnalysisStatus = "completed" // terminal: actual figures populated
	AnalysisFailed    AnalysisStatus = "failed"    // terminal: user-facing message in recommendations
)

// IsTerminal reports whether a status will never change again.
func IsTerminal(s AnalysisStatus) bool {
	return s == AnalysisCompleted || s == AnalysisFailed
}
