package constants

import "testing"

func TestMapExtToFormat(t *testing.T) {
	tests := []struct {
		ext  string
		want string
	}{
		{"pdf", "PDF"},
		{".pdf", "PDF"},
		{"PDF", "PDF"},
		{"xlsx", "SPREADSHEET"},
		{"xls", "SPREADSHEET"},
		{".XLSX", "SPREADSHEET"},
		{"docx", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := MapExtToFormat(tt.ext); got != tt.want {
			t.Errorf("MapExtToFormat(%q) = %q, want %q", tt.ext, got, tt.want)
		}
	}
}

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		in    string
		want  Category
		known bool
	}{
		{"50%", Needs, true},
		{"30%", Wants, true},
		{"20%", Savings, true},
		{"needs", Needs, true},
		{"  WANTS  ", Wants, true},
		{"saving", Savings, true},
		{"undefined", Undefined, true},
		{"unclear", Undefined, true},
		{"groceries", Undefined, false},
		{"", Undefined, false},
	}
	for _, tt := range tests {
		got, known := Canonicalize(tt.in)
		if got != tt.want || known != tt.known {
			t.Errorf("Canonicalize(%q) = (%q, %v), want (%q, %v)", tt.in, got, known, tt.want, tt.known)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	if IsTerminal(AnalysisPending) {
		t.Error("pending must not be terminal")
	}
	if !IsTerminal(AnalysisCompleted) || !IsTerminal(AnalysisFailed) {
		t.Error("completed and failed must be terminal")
	}
}
