package ingestion

import (
	"strings"

	"github.com/sentimentiq/backend/internal/models"
)

// ParseStats describes what the parser did with the input.
type ParseStats struct {
	Columns  []string
	Accepted int
	Dropped  int
}

// ParseCSV turns review CSV text into header-keyed records. Rows whose field
// count differs from the header are dropped, never repaired; a blank line is
// a row with one empty field. Input with fewer than two lines yields no records.
func ParseCSV(text string) []models.RawRecord {
	records, _ := ParseCSVStats(text)
	return records
}

func ParseCSVStats(text string) ([]models.RawRecord, ParseStats) {
	var stats ParseStats

	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) < 2 {
		return nil, stats
	}

	header := splitRow(lines[0])
	for i, h := range header {
		header[i] = strings.ToLower(unquote(h))
	}
	stats.Columns = header

	records := make([]models.RawRecord, 0, len(lines)-1)
	for _, line := range lines[1:] {
		fields := splitRow(line)
		if len(fields) != len(header) {
			stats.Dropped++
			continue
		}

		record := make(models.RawRecord, len(header))
		for i, key := range header {
			record[key] = fields[i]
		}
		records = append(records, record)
	}

	stats.Accepted = len(records)
	return records, stats
}

// splitRow splits one line on commas outside double quotes. Every quote
// toggles the quoted state and is dropped from the value; there is no escape
// sequence for a literal quote.
func splitRow(line string) []string {
	line = strings.TrimSuffix(line, "\r")

	var fields []string
	var current strings.Builder
	inQuotes := false

	for _, ch := range line {
		switch {
		case ch == '"':
			inQuotes = !inQuotes
		case ch == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}
	fields = append(fields, strings.TrimSpace(current.String()))

	return fields
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1]
	}
	return s
}
