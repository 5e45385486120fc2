// Package seed fills a database with random demo data.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"presales-tracker/internal/database"
	"presales-tracker/internal/models"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var SalesDirectors = []string{
	"John Smith", "Emily Johnson", "Michael Brown", "Sarah Davis", "David Wilson",
	"Jessica Martinez", "Daniel Anderson", "Laura Taylor", "James Thomas", "Karen Garcia",
}

var (
	companyPrefixes = []string{"Blue", "North", "Summit", "Vertex", "Harbor", "Prime", "Atlas", "Silver"}
	companySuffixes = []string{"Networks", "Telecom", "Logistics", "Energy", "Maritime", "Holdings"}
	countries       = []string{
		"Indonesia", "Malaysia", "Philippines", "Vietnam", "Thailand",
		"Pakistan", "Bangladesh", "Australia", "Singapore", "Japan", "India",
	}
	bandwidths = []int{100, 200, 500}
)

type Options struct {
	Customers int
	Rand      *rand.Rand
	Now       time.Time
}

type Result struct {
	Customers int
	Projects  int
	Proposals int
}

// Run makes sure the demo accounts exist, then creates Customers customers
// with two to four projects each and two or three proposals per project.
func Run(db *gorm.DB, opts Options) (Result, error) {
	var res Result
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	r := opts.Rand

	database.SeedDemoUsers(db)

	var owners []models.User
	if err := db.Where("is_active = ?", true).Order("id asc").Find(&owners).Error; err != nil {
		return res, fmt.Errorf("load demo users: %w", err)
	}
	if len(owners) == 0 {
		return res, fmt.Errorf("no active users to own demo data")
	}
	presalesEmail := models.DefaultPresalesOwner
	for _, u := range owners {
		if u.Role == models.RolePresales && u.Email != "" {
			presalesEmail = u.Email
		}
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		for i := 0; i < opts.Customers; i++ {
			owner := owners[r.Intn(len(owners))]
			remarks := "Generated demo customer"
			customer := models.Customer{
				Name:           fmt.Sprintf("%s %s %d", pick(r, companyPrefixes), pick(r, companySuffixes), i+1),
				ContactDetails: fmt.Sprintf("contact%d@example.com", i+1),
				Remarks:        &remarks,
				CreatedByID:    &owner.ID,
			}
			if err := tx.Create(&customer).Error; err != nil {
				return fmt.Errorf("create customer: %w", err)
			}
			res.Customers++

			for j := 0; j < 2+r.Intn(3); j++ {
				project := models.Project{
					ProjectName: fmt.Sprintf("%s Project %d", customer.Name, j+1),
					CustomerID:  customer.ID,
					Country:     pick(r, countries),
					Link:        fmt.Sprintf("https://example.com/projects/%d/%d", customer.ID, j+1),
					CreatedByID: &owner.ID,
				}
				if err := tx.Create(&project).Error; err != nil {
					return fmt.Errorf("create project: %w", err)
				}
				res.Projects++

				for k := 0; k < 2+r.Intn(2); k++ {
					p := randomProposal(r, opts.Now, project.ID, presalesEmail, owners[r.Intn(len(owners))].ID)
					if err := tx.Create(&p).Error; err != nil {
						return fmt.Errorf("create proposal: %w", err)
					}
					res.Proposals++
				}
			}
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	logrus.WithFields(logrus.Fields{
		"customers": res.Customers,
		"projects":  res.Projects,
		"proposals": res.Proposals,
	}).Info("demo data created")
	return res, nil
}

func randomProposal(r *rand.Rand, now time.Time, projectID uint, presalesEmail string, ownerID uint) models.Proposal {
	remarks := "Generated demo proposal"
	day := now.AddDate(0, 0, 1+r.Intn(90))
	cents := 1_000_000 + r.Int63n(49_000_000)
	return models.Proposal{
		ProjectID:       projectID,
		Priority:        models.Priorities[r.Intn(len(models.Priorities))],
		Bandwidth:       fmt.Sprintf("%dMbps", bandwidths[r.Intn(len(bandwidths))]),
		Gateway:         models.Gateways[r.Intn(len(models.Gateways))],
		TerminalCount:   uint(1 + r.Intn(20)),
		TerminalType:    models.TerminalTypes[r.Intn(len(models.TerminalTypes))],
		SalesDirector:   pick(r, SalesDirectors),
		PresalesOwner:   presalesEmail,
		SubmissionDate:  time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC),
		ProposalLink:    fmt.Sprintf("https://example.com/proposals/%d", r.Int63n(1_000_000)),
		CommercialValue: decimal.New(cents, -2),
		Status:          models.Statuses[r.Intn(len(models.Statuses))],
		Remarks:         &remarks,
		CreatedByID:     ownerID,
	}
}

func pick(r *rand.Rand, from []string) string {
	return from[r.Intn(len(from))]
}
