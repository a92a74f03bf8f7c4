package salesreport

import (
	"errors"
	"fmt"
	"time"

	"github.com/odyssey-erp/salesdesk/internal/backend"
)

const dateLayout = "2006-01-02"

// defaultSpan is the look-back used when no start date is given.
const defaultSpan = 30 * 24 * time.Hour

// ErrInvalidPeriod is returned for malformed or reversed date ranges.
var ErrInvalidPeriod = errors.New("salesreport: invalid period")

// Period is an inclusive calendar date range.
type Period struct {
	Start time.Time
	End   time.Time
}

// ParsePeriod reads YYYY-MM-DD bounds. A blank end means today, a blank
// start means thirty days before the end.
func ParsePeriod(start, end string, now time.Time) (Period, error) {
	var p Period
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	p.End = today
	if end != "" {
		t, err := time.Parse(dateLayout, end)
		if err != nil {
			return Period{}, fmt.Errorf("%w: end_date %q", ErrInvalidPeriod, end)
		}
		p.End = t
	}
	p.Start = p.End.Add(-defaultSpan)
	if start != "" {
		t, err := time.Parse(dateLayout, start)
		if err != nil {
			return Period{}, fmt.Errorf("%w: start_date %q", ErrInvalidPeriod, start)
		}
		p.Start = t
	}
	if p.Start.After(p.End) {
		return Period{}, fmt.Errorf("%w: start_date after end_date", ErrInvalidPeriod)
	}
	return p, nil
}

// StartLabel renders the start date as YYYY-MM-DD.
func (p Period) StartLabel() string {
	return p.Start.Format(dateLayout)
}

// EndLabel renders the end date as YYYY-MM-DD.
func (p Period) EndLabel() string {
	return p.End.Format(dateLayout)
}

// Range converts the period into backend query bounds.
func (p Period) Range() backend.ReportRange {
	return backend.ReportRange{Start: p.StartLabel(), End: p.EndLabel()}
}
