package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// CSVParser reads sales rows from comma separated text. The first record is
// always treated as the header.
type CSVParser struct {
	r       *csv.Reader
	layout  Layout
	started bool
}

func NewCSVParser(r io.Reader) *CSVParser {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	return &CSVParser{r: cr}
}

func (s *CSVParser) Next() (RawRow, error) {
	if !s.started {
		s.started = true
		header, err := s.r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return RawRow{}, io.EOF
			}
			return RawRow{}, fmt.Errorf("reading header: %w", err)
		}
		s.layout = LayoutFromHeader(header)
	}

	record, err := s.r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return RawRow{}, io.EOF
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			return RawRow{}, &RowError{Line: parseErr.StartLine, Reason: parseErr.Err.Error()}
		}
		return RawRow{}, fmt.Errorf("reading csv: %w", err)
	}

	line, _ := s.r.FieldPos(0)
	return s.layout.extract(line, record), nil
}

func (s *CSVParser) Close() error { return nil }
