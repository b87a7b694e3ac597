package extract

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"

	"github.com/ajibade-k/budgetwise/constants"
	"github.com/ajibade-k/budgetwise/internal/common"
)

// ExtractionResult is the flattened text of one document.
type ExtractionResult struct {
	Text   string
	Format string // PDF | SPREADSHEET
	Sheets int    // spreadsheet only
	Pages  int    // pdf only
}

// Extractor turns an uploaded binary into plain text. It is stateless; one
// instance serves all pipeline runs.
type Extractor struct {
	logger *slog.Logger
}

func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// Extract dispatches on the declared file name's extension. Unknown
// extensions fail with ErrUnsupportedFormat; decode problems are wrapped as
// ErrExtractionFailure. There are no retries here: a failure is terminal for
// the pipeline run that asked.
func (e *Extractor) Extract(ctx context.Context, path, declaredName string) (ExtractionResult, error) {
	if err := ctx.Err(); err != nil {
		return ExtractionResult{}, err
	}

	ext := constants.NormalizeExt(filepath.Ext(declaredName))
	format := constants.MapExtToFormat(ext)

	e.logger.Debug("extract.start", "path", path, "ext", ext, "format", format)

	switch format {
	case "PDF":
		return e.extractPDF(path)
	case "SPREADSHEET":
		return e.extractSpreadsheet(path)
	default:
		return ExtractionResult{}, fmt.Errorf("%w: .%s", common.ErrUnsupportedFormat, ext)
	}
}

func (e *Extractor) extractPDF(path string) (ExtractionResult, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		e.logger.Error("extract.pdf.open_failed", "path", path, "error", err)
		return ExtractionResult{}, fmt.Errorf("%w: %v", common.ErrExtractionFailure, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			e.logger.Warn("extract.pdf.close_failed", "path", path, "error", cerr)
		}
	}()

	plain, err := reader.GetPlainText()
	if err != nil {
		e.logger.Error("extract.pdf.text_failed", "path", path, "error", err)
		return ExtractionResult{}, fmt.Errorf("%w: %v", common.ErrExtractionFailure, err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return ExtractionResult{}, fmt.Errorf("%w: %v", common.ErrExtractionFailure, err)
	}

	res := ExtractionResult{Text: buf.String(), Format: "PDF", Pages: reader.NumPage()}
	e.logger.Debug("extract.pdf.ok", "path", path, "pages", res.Pages, "bytes", len(res.Text))
	return res, nil
}

// extractSpreadsheet flattens every sheet in workbook order: a header line
// naming the sheet, then each row with at least one non-empty cell joined by
// tabs. Fully blank rows are dropped.
func (e *Extractor) extractSpreadsheet(path string) (ExtractionResult, error) {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		e.logger.Error("extract.sheet.open_failed", "path", path, "error", err)
		return ExtractionResult{}, fmt.Errorf("%w: %v", common.ErrExtractionFailure, err)
	}
	defer func() {
		if cerr := wb.Close(); cerr != nil {
			e.logger.Warn("extract.sheet.close_failed", "path", path, "error", cerr)
		}
	}()

	var b strings.Builder
	sheets := wb.GetSheetList()
	for _, name := range sheets {
		rows, err := wb.GetRows(name)
		if err != nil {
			e.logger.Error("extract.sheet.rows_failed", "path", path, "sheet", name, "error", err)
			return ExtractionResult{}, fmt.Errorf("%w: %v", common.ErrExtractionFailure, err)
		}

		b.WriteString("\n=== Sheet: ")
		b.WriteString(name)
		b.WriteString(" ===\n")

		for _, row := range rows {
			if !rowHasContent(row) {
				continue
			}
			b.WriteString(strings.Join(row, "\t"))
			b.WriteString("\n")
		}
	}

	res := ExtractionResult{Text: b.String(), Format: "SPREADSHEET", Sheets: len(sheets)}
	e.logger.Debug("extract.sheet.ok", "path", path, "sheets", res.Sheets, "bytes", len(res.Text))
	return res, nil
}

func rowHasContent(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return true
		}
	}
	return false
}
