package stats

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"gorm.io/gorm"
)

const DateLayout = "2006-01-02"

// Filter narrows a proposal query. Zero-valued fields are ignored; the rest
// are combined with AND.
type Filter struct {
	StartDate     *time.Time
	EndDate       *time.Time
	SalesDirector string
	Country       string
}

// ParseFilter reads start_date, end_date, sales_director and country.
func ParseFilter(values url.Values) (Filter, error) {
	var f Filter

	start, err := parseDate(values.Get("start_date"))
	if err != nil {
		return f, fmt.Errorf("start_date: %w", err)
	}
	end, err := parseDate(values.Get("end_date"))
	if err != nil {
		return f, fmt.Errorf("end_date: %w", err)
	}

	f.StartDate = start
	f.EndDate = end
	f.SalesDirector = strings.TrimSpace(values.Get("sales_director"))
	f.Country = strings.TrimSpace(values.Get("country"))
	return f, nil
}

func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("expected YYYY-MM-DD, got %q", s)
	}
	return &t, nil
}

// Apply adds the filter predicates to a proposal query that already joins projects.
func (f Filter) Apply(q *gorm.DB) *gorm.DB {
	if f.StartDate != nil {
		q = q.Where("proposals.submission_date >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		q = q.Where("proposals.submission_date <= ?", *f.EndDate)
	}
	if f.SalesDirector != "" {
		q = q.Where("proposals.sales_director = ?", f.SalesDirector)
	}
	if f.Country != "" {
		q = q.Where("projects.country = ?", f.Country)
	}
	return q
}

// Values is the inverse of ParseFilter, used to carry the filter into links.
func (f Filter) Values() url.Values {
	v := url.Values{}
	if f.StartDate != nil {
		v.Set("start_date", f.StartDate.Format(DateLayout))
	}
	if f.EndDate != nil {
		v.Set("end_date", f.EndDate.Format(DateLayout))
	}
	if f.SalesDirector != "" {
		v.Set("sales_director", f.SalesDirector)
	}
	if f.Country != "" {
		v.Set("country", f.Country)
	}
	return v
}
