package stats

import (
	"fmt"
	"net/url"
	"testing"
	"time"

	"presales-tracker/internal/database"
	"presales-tracker/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type dashboardSuite struct {
	suite.Suite
	db       *gorm.DB
	admin    *models.User
	sales    *models.User
	projects map[string]*models.Project
}

func TestDashboardSuite(t *testing.T) {
	suite.Run(t, new(dashboardSuite))
}

func (s *dashboardSuite) SetupTest() {
	db, err := database.OpenMemory()
	s.Require().NoError(err)
	s.db = db

	s.admin = &models.User{Username: "admin", PasswordHash: "x", Role: models.RoleAdmin, IsActive: true}
	s.sales = &models.User{Username: "sales", PasswordHash: "x", Role: models.RoleSales, IsActive: true}
	s.Require().NoError(db.Create(s.admin).Error)
	s.Require().NoError(db.Create(s.sales).Error)

	customer := models.Customer{Name: "ACME", ContactDetails: "acme@example.com"}
	s.Require().NoError(db.Create(&customer).Error)

	s.projects = map[string]*models.Project{}
	for _, country := range []string{"Kenya", "Nigeria", ""} {
		p := &models.Project{ProjectName: "Project " + country, CustomerID: customer.ID, Country: country, Link: "https://example.com"}
		s.Require().NoError(db.Create(p).Error)
		s.projects[country] = p
	}
}

func (s *dashboardSuite) add(owner *models.User, country, director string, status models.ProposalStatus, day int, value string) {
	p := models.Proposal{
		ProjectID:       s.projects[country].ID,
		Priority:        models.PriorityP1,
		Bandwidth:       models.DefaultBandwidth,
		Gateway:         models.GatewaySUB,
		TerminalCount:   2,
		TerminalType:    models.Terminal1m8,
		SalesDirector:   director,
		SubmissionDate:  time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC),
		CommercialValue: decimal.RequireFromString(value),
		Status:          status,
		CreatedByID:     owner.ID,
	}
	s.Require().NoError(s.db.Create(&p).Error)
}

func (s *dashboardSuite) TestStatusCounts() {
	s.add(s.admin, "Kenya", "John Smith", models.StatusOngoing, 1, "100.00")
	s.add(s.admin, "Kenya", "John Smith", models.StatusBlocked, 2, "200.50")
	s.add(s.admin, "Nigeria", "Emily Johnson", models.StatusBlocked, 3, "0")

	sum, err := Compute(s.db, s.admin, Filter{})
	s.Require().NoError(err)

	s.Equal(int64(3), sum.Total)
	s.Equal(int64(1), sum.Ongoing)
	s.Equal(int64(2), sum.Blocked)
	s.Equal(int64(0), sum.Closed)
	s.True(decimal.RequireFromString("300.50").Equal(sum.TotalValue), sum.TotalValue.String())

	s.Equal([]string{"Blocked", "Ongoing", "Closed"}, sum.StatusDistribution.Labels)
	s.Equal([]int64{2, 1, 0}, sum.StatusDistribution.Values)
}

func (s *dashboardSuite) TestTotalValueHasNoFloatNoise() {
	s.add(s.admin, "Kenya", "John Smith", models.StatusOngoing, 1, "0.10")
	s.add(s.admin, "Kenya", "John Smith", models.StatusOngoing, 2, "0.20")

	sum, err := Compute(s.db, s.admin, Filter{})
	s.Require().NoError(err)
	s.Equal("0.3", sum.TotalValue.String())
}

func (s *dashboardSuite) TestStatusComparisonIgnoresCase() {
	s.add(s.admin, "Kenya", "John Smith", models.StatusBlocked, 1, "10")
	s.add(s.admin, "Kenya", "John Smith", models.StatusClosed, 2, "10")
	s.Require().NoError(s.db.Model(&models.Proposal{}).
		Where("status = ?", models.StatusBlocked).
		Update("status", "blocked").Error)

	sum, err := Compute(s.db, s.admin, Filter{})
	s.Require().NoError(err)
	s.Equal(int64(1), sum.Blocked)
	s.Equal(int64(1), sum.Closed)
}

func (s *dashboardSuite) TestEmptyGroupKeysExcludedButCounted() {
	s.add(s.admin, "Kenya", "John Smith", models.StatusOngoing, 1, "1")
	s.add(s.admin, "", "John Smith", models.StatusClosed, 2, "1")
	s.add(s.admin, "Nigeria", "", models.StatusBlocked, 3, "1")

	sum, err := Compute(s.db, s.admin, Filter{})
	s.Require().NoError(err)

	s.Equal(int64(3), sum.Total)
	s.Equal([]string{"Kenya", "Nigeria"}, sum.CountryDistribution.Labels)
	s.Equal([]string{"John Smith"}, sum.SalesDirectorPerformance.Labels)
	s.Equal([]int64{2}, sum.SalesDirectorPerformance.Totals)
	s.Equal([]string{"Kenya", "Nigeria"}, sum.Countries)
	s.Equal([]string{"John Smith"}, sum.SalesDirectors)
}

func (s *dashboardSuite) TestChartsAlignedByIndex() {
	s.add(s.admin, "Nigeria", "Emily Johnson", models.StatusOngoing, 1, "1")
	s.add(s.admin, "Kenya", "John Smith", models.StatusClosed, 2, "1")
	s.add(s.admin, "Kenya", "John Smith", models.StatusClosed, 3, "1")
	s.add(s.admin, "Kenya", "Emily Johnson", models.StatusBlocked, 4, "1")

	sum, err := Compute(s.db, s.admin, Filter{})
	s.Require().NoError(err)

	countries := sum.CountryDistribution
	s.Equal([]string{"Kenya", "Nigeria"}, countries.Labels)
	s.Equal([]int64{3, 1}, countries.Totals)
	s.Require().Len(countries.Datasets, 3)
	s.Equal("Blocked", countries.Datasets[0].Label)
	s.Equal([]int64{1, 0}, countries.Datasets[0].Data)
	s.Equal("Ongoing", countries.Datasets[1].Label)
	s.Equal([]int64{0, 1}, countries.Datasets[1].Data)
	s.Equal("Closed", countries.Datasets[2].Label)
	s.Equal([]int64{2, 0}, countries.Datasets[2].Data)

	// directors are ranked by closed proposals
	directors := sum.SalesDirectorPerformance
	s.Equal([]string{"John Smith", "Emily Johnson"}, directors.Labels)
	s.Equal([]int64{2, 0}, directors.Datasets[2].Data)
}

func (s *dashboardSuite) TestCountryBreakdownKeepsTopTen() {
	customer := models.Customer{Name: "Initech", ContactDetails: "n/a"}
	s.Require().NoError(s.db.Create(&customer).Error)

	for i := 0; i < TopCountries+2; i++ {
		country := fmt.Sprintf("Country %02d", i)
		p := &models.Project{ProjectName: country, CustomerID: customer.ID, Country: country, Link: "https://example.com"}
		s.Require().NoError(s.db.Create(p).Error)
		s.projects[country] = p
		for j := 0; j <= i; j++ {
			s.add(s.admin, country, "John Smith", models.StatusOngoing, 1, "1")
		}
	}

	sum, err := Compute(s.db, s.admin, Filter{})
	s.Require().NoError(err)
	s.Require().Len(sum.CountryDistribution.Labels, TopCountries)
	s.Equal("Country 11", sum.CountryDistribution.Labels[0])
	s.Equal(int64(12), sum.CountryDistribution.Totals[0])
}

func (s *dashboardSuite) TestFiltersAreConjunctive() {
	s.add(s.admin, "Kenya", "John Smith", models.StatusOngoing, 1, "10")
	s.add(s.admin, "Kenya", "John Smith", models.StatusBlocked, 10, "20")
	s.add(s.admin, "Kenya", "Emily Johnson", models.StatusClosed, 10, "30")
	s.add(s.admin, "Nigeria", "John Smith", models.StatusClosed, 20, "40")

	start := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		filter Filter
		total  int64
		value  string
	}{
		{"none", Filter{}, 4, "100"},
		{"start", Filter{StartDate: &start}, 3, "90"},
		{"end inclusive", Filter{EndDate: &end}, 4, "100"},
		{"range", Filter{StartDate: &start, EndDate: &start}, 0, "0"},
		{"director", Filter{SalesDirector: "John Smith"}, 3, "70"},
		{"country", Filter{Country: "Kenya"}, 3, "60"},
		{"all", Filter{StartDate: &start, EndDate: &end, SalesDirector: "John Smith", Country: "Kenya"}, 1, "20"},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			sum, err := Compute(s.db, s.admin, tc.filter)
			s.Require().NoError(err)
			s.Equal(tc.total, sum.Total)
			s.Equal(sum.Total, sum.Ongoing+sum.Blocked+sum.Closed)
			s.True(decimal.RequireFromString(tc.value).Equal(sum.TotalValue), sum.TotalValue.String())
		})
	}
}

func (s *dashboardSuite) TestNonAdminSeesOwnProposalsOnly() {
	s.add(s.admin, "Kenya", "John Smith", models.StatusOngoing, 1, "10")
	s.add(s.sales, "Kenya", "John Smith", models.StatusClosed, 2, "5")

	sum, err := Compute(s.db, s.sales, Filter{})
	s.Require().NoError(err)
	s.Equal(int64(1), sum.Total)
	s.Equal(int64(1), sum.Closed)
	s.True(decimal.NewFromInt(5).Equal(sum.TotalValue))
}

func (s *dashboardSuite) TestDeletedProposalsIgnored() {
	s.add(s.admin, "Kenya", "John Smith", models.StatusOngoing, 1, "10")
	s.add(s.admin, "Kenya", "John Smith", models.StatusOngoing, 2, "10")
	s.Require().NoError(s.db.Delete(s.projects["Kenya"]).Error)

	sum, err := Compute(s.db, s.admin, Filter{})
	s.Require().NoError(err)
	s.Zero(sum.Total)
	s.True(sum.TotalValue.IsZero())
	s.Empty(sum.CountryDistribution.Labels)
}

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter(url.Values{
		"start_date":     {"2024-01-01"},
		"end_date":       {""},
		"sales_director": {" John Smith "},
		"country":        {"Kenya"},
	})
	require.NoError(t, err)
	require.NotNil(t, f.StartDate)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *f.StartDate)
	assert.Nil(t, f.EndDate)
	assert.Equal(t, "John Smith", f.SalesDirector)
	assert.Equal(t, "Kenya", f.Country)
	assert.Equal(t, "country=Kenya&sales_director=John+Smith&start_date=2024-01-01", f.Values().Encode())

	_, err = ParseFilter(url.Values{"end_date": {"01/02/2024"}})
	assert.ErrorContains(t, err, "end_date")
}

func TestJSON(t *testing.T) {
	js, err := JSON(StatusDistribution{Labels: []string{"Blocked"}, Values: []int64{2}})
	require.NoError(t, err)
	assert.Equal(t, `{"labels":["Blocked"],"values":[2]}`, string(js))
}
