package access

import (
	"testing"
	"time"

	"presales-tracker/internal/database"
	"presales-tracker/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db       *gorm.DB
	admin    *models.User
	sales    *models.User
	presales *models.User
	viewer   *models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := database.OpenMemory()
	require.NoError(t, err)

	f := &fixture{db: db}
	f.admin = createUser(t, db, "admin", models.RoleAdmin)
	f.sales = createUser(t, db, "sales", models.RoleSales)
	f.presales = createUser(t, db, "presales", models.RolePresales)
	f.viewer = createUser(t, db, "viewer", models.RoleViewer)

	customer := models.Customer{Name: "ACME", ContactDetails: "acme@example.com"}
	require.NoError(t, db.Create(&customer).Error)
	other := models.Customer{Name: "Globex", ContactDetails: "+1 555 0100", CreatedByID: &f.admin.ID}
	require.NoError(t, db.Create(&other).Error)

	project := models.Project{ProjectName: "Backbone", CustomerID: customer.ID, Country: "Kenya", Link: "https://example.com/p"}
	require.NoError(t, db.Create(&project).Error)

	require.NoError(t, db.Create(&models.Product{Item: "Modem", Description: "MDM2510", Links: "https://example.com/m"}).Error)

	owners := []*models.User{f.sales, f.sales, f.presales, f.viewer, f.admin}
	for i, owner := range owners {
		p := models.Proposal{
			ProjectID:       project.ID,
			Priority:        models.PriorityP2,
			Bandwidth:       models.DefaultBandwidth,
			Gateway:         models.GatewayJAV,
			TerminalCount:   1,
			TerminalType:    models.Terminal1m2,
			SalesDirector:   "John Smith",
			SubmissionDate:  time.Date(2024, 1, i+1, 0, 0, 0, 0, time.UTC),
			CommercialValue: decimal.NewFromInt(1000),
			Status:          models.StatusOngoing,
			CreatedByID:     owner.ID,
		}
		require.NoError(t, db.Create(&p).Error)
	}

	return f
}

func createUser(t *testing.T, db *gorm.DB, name string, role models.UserRole) *models.User {
	t.Helper()
	u := &models.User{Username: name, PasswordHash: "x", Role: role, IsActive: true}
	require.NoError(t, db.Create(u).Error)
	return u
}

func TestScopeProposalsAdminSeesAll(t *testing.T) {
	f := newFixture(t)

	var proposals []models.Proposal
	require.NoError(t, Scope(f.db, EntityProposal, f.admin).Find(&proposals).Error)
	assert.Len(t, proposals, 5)
}

func TestScopeProposalsNonAdminSeesOwn(t *testing.T) {
	f := newFixture(t)

	cases := []struct {
		user *models.User
		want int
	}{
		{f.sales, 2},
		{f.presales, 1},
		{f.viewer, 1},
	}
	for _, tc := range cases {
		t.Run(string(tc.user.Role), func(t *testing.T) {
			var proposals []models.Proposal
			require.NoError(t, Scope(f.db, EntityProposal, tc.user).Find(&proposals).Error)
			require.Len(t, proposals, tc.want)
			for _, p := range proposals {
				assert.Equal(t, tc.user.ID, p.CreatedByID)
			}
		})
	}
}

func TestScopeUnknownRoleIsNotAdmin(t *testing.T) {
	f := newFixture(t)
	odd := createUser(t, f.db, "odd", models.UserRole("admin"))

	var count int64
	require.NoError(t, Scope(f.db, EntityProposal, odd).Count(&count).Error)
	assert.Zero(t, count)

	require.NoError(t, Scope(f.db, EntityProposal, nil).Count(&count).Error)
	assert.Zero(t, count)
}

func TestScopeOtherEntitiesUnfiltered(t *testing.T) {
	f := newFixture(t)

	for _, u := range []*models.User{f.admin, f.sales, f.presales, f.viewer, nil} {
		var customers []models.Customer
		require.NoError(t, Scope(f.db, EntityCustomer, u).Find(&customers).Error)
		assert.Len(t, customers, 2)

		var projects []models.Project
		require.NoError(t, Scope(f.db, EntityProject, u).Find(&projects).Error)
		assert.Len(t, projects, 1)

		var products []models.Product
		require.NoError(t, Scope(f.db, EntityProduct, u).Find(&products).Error)
		assert.Len(t, products, 1)
	}
}

func TestCanModify(t *testing.T) {
	admin := &models.User{Role: models.RoleAdmin}
	admin.ID = 1
	sales := &models.User{Role: models.RoleSales}
	sales.ID = 2

	one, two := uint(1), uint(2)

	assert.True(t, CanModify(admin, &two))
	assert.True(t, CanModify(admin, nil))
	assert.True(t, CanModify(sales, &two))
	assert.False(t, CanModify(sales, &one))
	assert.False(t, CanModify(sales, nil))
	assert.False(t, CanModify(nil, &two))
}

func TestCanWrite(t *testing.T) {
	assert.True(t, CanWrite(&models.User{Role: models.RoleAdmin}))
	assert.True(t, CanWrite(&models.User{Role: models.RoleSales}))
	assert.True(t, CanWrite(&models.User{Role: models.RolePresales}))
	assert.False(t, CanWrite(&models.User{Role: models.RoleViewer}))
	assert.False(t, CanWrite(nil))
}
