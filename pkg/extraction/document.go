// Package extraction turns workout program documents into structured weekly
// programs using a language model.
package extraction

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "github.com/ripixel/fitglue-importer/pkg/errors"
)

// ReadDocument loads a program document from disk and renders it as text
// for the model.
func ReadDocument(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", apperrors.ErrDocumentRead.WithCause(err).WithMetadata("path", path)
	}
	defer f.Close()
	return RenderDocument(f, filepath.Base(path))
}

// RenderDocument renders r according to the extension of name. Spreadsheets
// become one markdown table per sheet, CSV becomes a single table and
// anything else is passed through as text.
func RenderDocument(r io.Reader, name string) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".xlsx", ".xlsm":
		return renderWorkbook(r, name)
	case ".csv":
		return renderCSV(r, name)
	case ".pdf", ".xls", ".doc", ".docx":
		return "", apperrors.ErrDocumentUnsupported.
			WithMessage(fmt.Sprintf("%s documents are not supported", ext)).
			WithMetadata("document", name)
	default:
		data, err := io.ReadAll(r)
		if err != nil {
			return "", apperrors.ErrDocumentRead.WithCause(err).WithMetadata("document", name)
		}
		return string(data), nil
	}
}

func renderWorkbook(r io.Reader, name string) (string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return "", apperrors.ErrDocumentRead.WithCause(err).WithMetadata("document", name)
	}
	defer f.Close()

	var b strings.Builder
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", apperrors.ErrDocumentRead.WithCause(err).
				WithMetadata("document", name).WithMetadata("sheet", sheet)
		}
		fmt.Fprintf(&b, "Sheet: %s\n", sheet)
		b.WriteString(markdownTable(rows))
		b.WriteString("\n\n")
	}

	slog.Debug("Rendered workbook", "component", "extraction", "document", name, "sheets", len(f.GetSheetList()))
	return b.String(), nil
}

func renderCSV(r io.Reader, name string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", apperrors.ErrDocumentRead.WithCause(err).WithMetadata("document", name)
	}
	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	rows, err := cr.ReadAll()
	if err != nil {
		return "", apperrors.ErrDocumentRead.WithCause(err).WithMetadata("document", name)
	}
	return markdownTable(rows) + "\n", nil
}

// markdownTable renders rows as a pipe table using the first row as the
// header. Short rows are padded and fully empty rows are dropped.
func markdownTable(rows [][]string) string {
	var kept [][]string
	width := 0
	for _, row := range rows {
		if isBlank(row) {
			continue
		}
		kept = append(kept, row)
		width = max(width, len(row))
	}
	if len(kept) == 0 {
		return ""
	}

	var b strings.Builder
	writeRow := func(row []string) {
		b.WriteString("|")
		for i := 0; i < width; i++ {
			cell := ""
			if i < len(row) {
				cell = cleanCell(row[i])
			}
			b.WriteString(" " + cell + " |")
		}
		b.WriteString("\n")
	}

	writeRow(kept[0])
	b.WriteString("|")
	for i := 0; i < width; i++ {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")
	for _, row := range kept[1:] {
		writeRow(row)
	}
	return strings.TrimRight(b.String(), "\n")
}

func cleanCell(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.TrimSpace(s)
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
