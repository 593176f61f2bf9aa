package usecase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"lms-dashboard/internal/domain"

	"github.com/xuri/excelize/v2"
)

const (
	exportSheet   = "Export"
	maxImportRows = 1000
)

// writeWorkbook renders header plus rows as a single sheet workbook.
func writeWorkbook(header []string, rows [][]interface{}) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}
	headerRow := make([]interface{}, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(exportSheet, "A1", &headerRow); err != nil {
		return nil, err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, err
		}
	}
	return f.WriteToBuffer()
}

// sheetRecord is one data row of an uploaded workbook keyed by lower-case
// header name. Row is the 1-based sheet row number.
type sheetRecord struct {
	Row    int
	Values map[string]string
}

// readWorkbook reads the first sheet of an uploaded workbook. The first row
// is the header; every name in required must be present. Blank rows are
// skipped.
func readWorkbook(r io.Reader, required ...string) ([]sheetRecord, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, domain.NewValidationError(domain.FieldError{Field: "file", Message: "is not a readable xlsx workbook"})
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, domain.NewValidationError(domain.FieldError{Field: "file", Message: "workbook has no sheets"})
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, domain.NewValidationError(domain.FieldError{Field: "file", Message: "sheet is empty"})
	}

	columns := make(map[int]string, len(rows[0]))
	present := make(map[string]bool, len(rows[0]))
	for i, h := range rows[0] {
		name := strings.ToLower(strings.TrimSpace(h))
		columns[i] = name
		present[name] = true
	}
	var missing []domain.FieldError
	for _, name := range required {
		if !present[name] {
			missing = append(missing, domain.FieldError{Field: name, Message: "column is missing"})
		}
	}
	if len(missing) > 0 {
		return nil, domain.NewValidationError(missing...)
	}

	records := make([]sheetRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		values := make(map[string]string, len(columns))
		blank := true
		for j, cell := range row {
			cell = strings.TrimSpace(cell)
			if cell != "" {
				blank = false
			}
			if name := columns[j]; name != "" {
				values[name] = cell
			}
		}
		if blank {
			continue
		}
		records = append(records, sheetRecord{Row: i + 2, Values: values})
	}
	if len(records) > maxImportRows {
		return nil, domain.NewValidationError(domain.FieldError{Field: "file", Message: fmt.Sprintf("at most %d rows can be imported at once", maxImportRows)})
	}
	return records, nil
}

// storeExport saves a rendered workbook and returns its metadata.
func storeExport(ctx context.Context, repo domain.ExportRepository, s *domain.Session, kind string, rows int, content *bytes.Buffer, now time.Time) (*domain.ExportFile, error) {
	if repo == nil {
		return nil, domain.ErrBackendUnavailable
	}
	meta := domain.ExportFile{
		Filename:  fmt.Sprintf("%s-%s.xlsx", kind, now.UTC().Format("20060102-150405")),
		Kind:      kind,
		Rows:      rows,
		CreatedBy: s.UserID,
	}
	return repo.Save(ctx, meta, content)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
