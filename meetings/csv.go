package meetings

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"time"
)

// CSVSource reads meeting dates from per-currency CSV files with a "date"
// column holding YYYY-MM-DD values.
type CSVSource struct {
	files map[string]string // currency -> path
}

// NewCSVSource builds a source over the given currency->path mapping.
func NewCSVSource(files map[string]string) *CSVSource {
	return &CSVSource{files: files}
}

// MeetingDates implements Source.
func (s *CSVSource) MeetingDates(currency string) ([]time.Time, error) {
	path, ok := s.files[currency]
	if !ok {
		return nil, fmt.Errorf("meetings: no CSV file configured for %q: %w", currency, ErrUnsupportedCurrency)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("meetings: open %q: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("meetings: read %q: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("meetings: %q is empty, expected a header with a 'date' column", path)
	}

	dateCol := -1
	for i, name := range records[0] {
		if strings.EqualFold(strings.TrimSpace(name), "date") {
			dateCol = i
			break
		}
	}
	if dateCol < 0 {
		return nil, fmt.Errorf("meetings: %q has no 'date' column (found: %v)", path, records[0])
	}

	dates := make([]time.Time, 0, len(records)-1)
	for _, rec := range records[1:] {
		if dateCol >= len(rec) {
			continue
		}
		raw := strings.TrimSpace(rec[dateCol])
		if raw == "" {
			continue
		}
		d, err := time.Parse(storedDateLayout, raw)
		if err != nil {
			return nil, fmt.Errorf("meetings: %q: bad date %q (want YYYY-MM-DD): %w", path, raw, err)
		}
		dates = append(dates, d)
	}
	return dates, nil
}
