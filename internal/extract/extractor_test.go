package extract

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/ajibade-k/budgetwise/internal/common"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// writeWorkbook builds a small two-sheet xlsx on disk for the tests.
func writeWorkbook(t *testing.T) string {
	t.Helper()

	wb := excelize.NewFile()
	defer func() { _ = wb.Close() }()

	// default sheet
	_ = wb.SetCellValue("Sheet1", "A1", "Date")
	_ = wb.SetCellValue("Sheet1", "B1", "Description")
	_ = wb.SetCellValue("Sheet1", "C1", "Amount")
	_ = wb.SetCellValue("Sheet1", "A2", "2024-01-02")
	_ = wb.SetCellValue("Sheet1", "B2", "Rent")
	_ = wb.SetCellValue("Sheet1", "C2", "-950.00")
	// row 3 left blank on purpose
	_ = wb.SetCellValue("Sheet1", "A4", "2024-01-05")
	_ = wb.SetCellValue("Sheet1", "B4", "Groceries")
	_ = wb.SetCellValue("Sheet1", "C4", "-120.40")

	if _, err := wb.NewSheet("Savings"); err != nil {
		t.Fatalf("NewSheet: %v", err)
	}
	_ = wb.SetCellValue("Savings", "A1", "Transfer")
	_ = wb.SetCellValue("Savings", "B1", "400.00")

	path := filepath.Join(t.TempDir(), "statement.xlsx")
	if err := wb.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	return path
}

func TestExtract_Spreadsheet(t *testing.T) {
	path := writeWorkbook(t)

	e := NewExtractor(testLogger())
	res, err := e.Extract(context.Background(), path, "statement.xlsx")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if res.Format != "SPREADSHEET" {
		t.Errorf("format = %q, want SPREADSHEET", res.Format)
	}
	if res.Sheets != 2 {
		t.Errorf("sheets = %d, want 2", res.Sheets)
	}

	for _, want := range []string{
		"=== Sheet: Sheet1 ===",
		"=== Sheet: Savings ===",
		"Date\tDescription\tAmount",
		"2024-01-02\tRent\t-950.00",
		"Transfer\t400.00",
	} {
		if !strings.Contains(res.Text, want) {
			t.Errorf("text missing %q\ntext:\n%s", want, res.Text)
		}
	}

	// the fully blank row must not survive as an empty tab line
	if strings.Contains(res.Text, "\n\t") {
		t.Errorf("blank row leaked into output:\n%s", res.Text)
	}
}

func TestExtract_UnsupportedExtension(t *testing.T) {
	e := NewExtractor(testLogger())
	_, err := e.Extract(context.Background(), "whatever.docx", "statement.docx")
	if !errors.Is(err, common.ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestExtract_MissingPDF(t *testing.T) {
	e := NewExtractor(testLogger())
	_, err := e.Extract(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"), "missing.pdf")
	if !errors.Is(err, common.ErrExtractionFailure) {
		t.Errorf("err = %v, want ErrExtractionFailure", err)
	}
}

func TestExtract_CorruptSpreadsheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.xlsx")
	if err := os.WriteFile(path, []byte("this is not a zip archive"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	e := NewExtractor(testLogger())
	_, err := e.Extract(context.Background(), path, "broken.xlsx")
	if !errors.Is(err, common.ErrExtractionFailure) {
		t.Errorf("err = %v, want ErrExtractionFailure", err)
	}
}

func TestExtract_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := NewExtractor(testLogger())
	_, err := e.Extract(ctx, "statement.pdf", "statement.pdf")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
