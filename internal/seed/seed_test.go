package seed_test

import (
	"math/rand"
	"testing"
	"time"

	"presales-tracker/internal/database"
	"presales-tracker/internal/models"
	"presales-tracker/internal/seed"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	db, err := database.OpenMemory()
	require.NoError(t, err)
	require.NoError(t, database.CreateDefaultAdmin(db, "admin", "admin"))

	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	res, err := seed.Run(db, seed.Options{Customers: 3, Rand: rand.New(rand.NewSource(42)), Now: now})
	require.NoError(t, err)

	assert.Equal(t, 3, res.Customers)
	assert.GreaterOrEqual(t, res.Projects, 6)
	assert.LessOrEqual(t, res.Projects, 12)
	assert.GreaterOrEqual(t, res.Proposals, 2*res.Projects)
	assert.LessOrEqual(t, res.Proposals, 3*res.Projects)

	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.EqualValues(t, 3, users)

	var proposals []models.Proposal
	require.NoError(t, db.Find(&proposals).Error)
	require.Len(t, proposals, res.Proposals)
	for _, p := range proposals {
		assert.True(t, p.Status.Valid())
		assert.GreaterOrEqual(t, p.TerminalCount, uint(1))
		assert.False(t, p.CommercialValue.IsNegative())
		assert.True(t, p.SubmissionDate.After(now))
		assert.Contains(t, seed.SalesDirectors, p.SalesDirector)
	}
}

func TestRunWithoutUsersStillCreatesDemoAccounts(t *testing.T) {
	db, err := database.OpenMemory()
	require.NoError(t, err)

	res, err := seed.Run(db, seed.Options{Customers: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Customers)
}
