// Package stats computes the proposal pipeline figures shown on the dashboard.
package stats

import (
	"encoding/json"
	"fmt"
	"html/template"
	"strings"

	"presales-tracker/internal/access"
	"presales-tracker/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TopCountries bounds the country breakdown.
const TopCountries = 10

const joinProjects = "JOIN projects ON projects.id = proposals.project_id AND projects.deleted_at IS NULL"

// statusSums counts rows per status; comparison ignores case.
var statusSums = fmt.Sprintf(
	"COUNT(*) AS total, "+
		"COALESCE(SUM(CASE WHEN LOWER(proposals.status) = '%s' THEN 1 ELSE 0 END), 0) AS ongoing, "+
		"COALESCE(SUM(CASE WHEN LOWER(proposals.status) = '%s' THEN 1 ELSE 0 END), 0) AS blocked, "+
		"COALESCE(SUM(CASE WHEN LOWER(proposals.status) = '%s' THEN 1 ELSE 0 END), 0) AS closed",
	lower(models.StatusOngoing), lower(models.StatusBlocked), lower(models.StatusClosed),
)

type Dataset struct {
	Label           string  `json:"label"`
	Data            []int64 `json:"data"`
	BackgroundColor string  `json:"backgroundColor"`
}

// Chart holds category labels and, per status, counts aligned by index to them.
type Chart struct {
	Labels   []string  `json:"labels"`
	Totals   []int64   `json:"totals"`
	Datasets []Dataset `json:"datasets"`
}

type StatusDistribution struct {
	Labels []string `json:"labels"`
	Values []int64  `json:"values"`
}

type Summary struct {
	Total      int64
	Ongoing    int64
	Blocked    int64
	Closed     int64
	TotalValue decimal.Decimal

	StatusDistribution       StatusDistribution
	CountryDistribution      Chart
	SalesDirectorPerformance Chart

	// filter choices
	SalesDirectors []string
	Countries      []string
}

type counts struct {
	Total      int64
	Ongoing    int64
	Blocked    int64
	Closed     int64
	TotalValue decimal.NullDecimal
}

type groupRow struct {
	GroupKey string
	Total    int64
	Ongoing  int64
	Blocked  int64
	Closed   int64
}

type palette struct {
	blocked, ongoing, closed string
}

var (
	countryColors  = palette{blocked: "#ff6384", ongoing: "#36a2eb", closed: "#4bc0c0"}
	directorColors = palette{blocked: "#ff6384", ongoing: "#ffcd56", closed: "#4bc0c0"}
)

// Compute aggregates the proposals visible to user that match f.
func Compute(db *gorm.DB, user *models.User, f Filter) (*Summary, error) {
	proposals := func() *gorm.DB {
		return Proposals(db, user, f)
	}

	var c counts
	err := proposals().
		Select(statusSums + ", COALESCE(SUM(proposals.commercial_value), 0) AS total_value").
		Scan(&c).Error
	if err != nil {
		return nil, fmt.Errorf("count proposals: %w", err)
	}

	s := &Summary{
		Total:   c.Total,
		Ongoing: c.Ongoing,
		Blocked: c.Blocked,
		Closed:  c.Closed,
	}
	if c.TotalValue.Valid {
		// sqlite sums NUMERIC columns as floats
		s.TotalValue = c.TotalValue.Decimal.Round(2)
	}
	s.StatusDistribution = StatusDistribution{
		Labels: []string{models.StatusBlocked.Label(), models.StatusOngoing.Label(), models.StatusClosed.Label()},
		Values: []int64{s.Blocked, s.Ongoing, s.Closed},
	}

	var byCountry []groupRow
	err = proposals().
		Select("projects.country AS group_key, "+statusSums).
		Where("projects.country IS NOT NULL AND projects.country <> ''").
		Group("projects.country").
		Order("total DESC, group_key ASC").
		Limit(TopCountries).
		Scan(&byCountry).Error
	if err != nil {
		return nil, fmt.Errorf("group by country: %w", err)
	}
	s.CountryDistribution = buildChart(byCountry, countryColors)

	var byDirector []groupRow
	err = proposals().
		Select("proposals.sales_director AS group_key, "+statusSums).
		Where("proposals.sales_director IS NOT NULL AND proposals.sales_director <> ''").
		Group("proposals.sales_director").
		Order("closed DESC, group_key ASC").
		Scan(&byDirector).Error
	if err != nil {
		return nil, fmt.Errorf("group by sales director: %w", err)
	}
	s.SalesDirectorPerformance = buildChart(byDirector, directorColors)

	err = proposals().
		Where("proposals.sales_director <> ''").
		Distinct().
		Order("proposals.sales_director").
		Pluck("proposals.sales_director", &s.SalesDirectors).Error
	if err != nil {
		return nil, fmt.Errorf("list sales directors: %w", err)
	}

	err = db.Model(&models.Project{}).
		Where("country <> ''").
		Distinct().
		Order("country").
		Pluck("country", &s.Countries).Error
	if err != nil {
		return nil, fmt.Errorf("list countries: %w", err)
	}

	return s, nil
}

// Proposals returns the proposals visible to user matching f, joined with
// their projects.
func Proposals(db *gorm.DB, user *models.User, f Filter) *gorm.DB {
	return f.Apply(access.Scope(db, access.EntityProposal, user).Joins(joinProjects))
}

func buildChart(rows []groupRow, colors palette) Chart {
	ch := Chart{
		Labels: make([]string, 0, len(rows)),
		Totals: make([]int64, 0, len(rows)),
	}
	blocked := make([]int64, 0, len(rows))
	ongoing := make([]int64, 0, len(rows))
	closed := make([]int64, 0, len(rows))

	for _, r := range rows {
		if r.GroupKey == "" {
			continue
		}
		ch.Labels = append(ch.Labels, r.GroupKey)
		ch.Totals = append(ch.Totals, r.Total)
		blocked = append(blocked, r.Blocked)
		ongoing = append(ongoing, r.Ongoing)
		closed = append(closed, r.Closed)
	}

	ch.Datasets = []Dataset{
		{Label: models.StatusBlocked.Label(), Data: blocked, BackgroundColor: colors.blocked},
		{Label: models.StatusOngoing.Label(), Data: ongoing, BackgroundColor: colors.ongoing},
		{Label: models.StatusClosed.Label(), Data: closed, BackgroundColor: colors.closed},
	}
	return ch
}

// JSON renders v for embedding in a page script.
func JSON(v any) (template.JS, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return template.JS(b), nil
}

func lower(s models.ProposalStatus) string {
	return strings.ToLower(string(s))
}
