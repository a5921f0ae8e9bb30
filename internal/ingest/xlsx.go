package ingest

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// ErrUnreadable marca um arquivo que abriu mas não é uma planilha válida.
var ErrUnreadable = errors.New("unreadable workbook")

// XLSXParser streams rows from the first sheet of a workbook.
type XLSXParser struct {
	f      *excelize.File
	rows   *excelize.Rows
	layout Layout
	line   int
}

func NewXLSXParser(r io.Reader) (*XLSXParser, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: opening workbook: %w", ErrUnreadable, err)
	}

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		f.Close()
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrUnreadable)
	}

	rows, err := f.Rows(sheets[0])
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: reading sheet %q: %w", ErrUnreadable, sheets[0], err)
	}

	return &XLSXParser{f: f, rows: rows}, nil
}

func (s *XLSXParser) Next() (RawRow, error) {
	for s.rows.Next() {
		s.line++
		cols, err := s.rows.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return RawRow{}, &RowError{Line: s.line, Reason: err.Error()}
		}
		if s.line == 1 {
			s.layout = LayoutFromHeader(cols)
			continue
		}

		row := s.layout.extract(s.line, cols)
		row.Date = serialToDate(row.Date)
		return row, nil
	}
	if err := s.rows.Error(); err != nil {
		return RawRow{}, fmt.Errorf("reading rows: %w", err)
	}
	return RawRow{}, io.EOF
}

func (s *XLSXParser) Close() error {
	if err := s.rows.Close(); err != nil {
		s.f.Close()
		return err
	}
	return s.f.Close()
}

// Date cells come back as Excel serial numbers when raw values are requested.
func serialToDate(v string) string {
	serial, err := strconv.ParseFloat(v, 64)
	if err != nil || serial <= 0 {
		return v
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return v
	}
	return t.Format("02-01-2006")
}
