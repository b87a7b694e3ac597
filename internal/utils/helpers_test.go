package utils

import (
	"regexp"
	"strings"
	"testing"
)

func TestGenerateFileName(t *testing.T) {
	got := GenerateFileName("jo.doe@example.com", "January Statement.PDF")

	if !strings.HasPrefix(got, "jo.doe-") {
		t.Errorf("name = %q, want jo.doe- prefix", got)
	}
	if !strings.HasSuffix(got, ".pdf") {
		t.Errorf("name = %q, want lowercased .pdf suffix", got)
	}
	if ok, _ := regexp.MatchString(`^jo\.doe-\d+\.pdf$`, got); !ok {
		t.Errorf("name = %q, want <local>-<millis>.pdf", got)
	}
}

func TestGenerateFileName_Sanitizes(t *testing.T) {
	got := GenerateFileName("weird+user/name@example.com", "stmt.xlsx")
	if strings.ContainsAny(got, "+/") {
		t.Errorf("name = %q contains unsafe characters", got)
	}
	if !strings.HasSuffix(got, ".xlsx") {
		t.Errorf("name = %q, want .xlsx suffix", got)
	}
}

func TestGenerateFileName_EmptyLocalPart(t *testing.T) {
	got := GenerateFileName("@example.com", "a.pdf")
	if !strings.HasPrefix(got, "upload-") && !strings.HasPrefix(got, "_") {
		// "@example.com" has no local part; the sanitized fallback kicks in
		t.Errorf("name = %q, want a usable prefix", got)
	}
}
