package moneypuck

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/albapepper/nhl-ingest/internal/provider"
)

// row is one CSV record keyed by header name.
type row struct {
	line   int
	fields map[string]string
}

func (r row) has(key string) bool {
	_, ok := r.fields[key]
	return ok
}

func (r row) text(key string) string { return strings.TrimSpace(r.fields[key]) }

func (r row) count(key string) int { return provider.SafeInt(r.fields[key]) }

func (r row) number(key string) *float64 { return provider.SafeFloat(r.fields[key]) }

func (r row) numberOr(key string, def float64) float64 {
	return provider.SafeFloatOr(r.fields[key], def)
}

func (r row) raw() json.RawMessage {
	b, err := json.Marshal(r.fields)
	if err != nil {
		return nil
	}
	return b
}

// readTable parses header-keyed CSV text. Malformed records are reported
// through onBad and skipped; a missing or unreadable header fails the table.
func readTable(text string, onBad func(line int, err error)) ([]row, error) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = false

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				onBad(parseErr.Line, err)
				continue
			}
			return rows, err
		}
		line, _ := reader.FieldPos(0)

		fields := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(record) {
				fields[name] = record[i]
			}
		}
		rows = append(rows, row{line: line, fields: fields})
	}
	return rows, nil
}
