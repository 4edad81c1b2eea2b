package report

import (
	"testing"
	"time"

	"expense_tracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to open test db")
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Expense{}), "failed to migrate test db")
	return db
}

func createUser(t *testing.T, db *gorm.DB, name string, premium bool) domain.User {
	t.Helper()
	user := domain.User{Name: name, Email: name + "@example.com", Password: "x", IsPremium: premium}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createEntry(t *testing.T, db *gorm.DB, userID uint, amount float64, kind, desc string, at time.Time) {
	t.Helper()
	entry := domain.Expense{UserID: userID, Amount: amount, Type: kind, Description: desc, CreatedAt: at}
	require.NoError(t, db.Create(&entry).Error)
}

func TestStartOfPeriod(t *testing.T) {
	now := time.Date(2024, time.June, 15, 14, 30, 45, 123, time.Local)

	daily, err := StartOfPeriod(PeriodDaily, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.June, 15, 0, 0, 0, 0, time.Local), daily)

	monthly, err := StartOfPeriod(PeriodMonthly, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.Local), monthly)

	yearly, err := StartOfPeriod(PeriodYearly, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.Local), yearly)

	_, err = StartOfPeriod("weekly", now)
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestGenerateRequiresPremium(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	user := createUser(t, db, "free", false)

	_, err := svc.Generate(user.ID, PeriodMonthly)
	assert.ErrorIs(t, err, ErrNotPremium)

	_, err = svc.Generate(9999, PeriodMonthly)
	assert.ErrorIs(t, err, ErrNoSuchUser)
}

func TestGenerateMonthlySummary(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	user := createUser(t, db, "prem", true)

	now := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.Local)
	createEntry(t, db, user.ID, 500, domain.KindExpense, "Groceries", now.Add(-48*time.Hour))
	createEntry(t, db, user.ID, 2000, domain.KindIncome, "Salary", now.Add(-24*time.Hour))
	createEntry(t, db, user.ID, 300, domain.KindExpense, "Bus pass", now.Add(-time.Hour))
	// Last month's entry stays outside the window
	createEntry(t, db, user.ID, 999, domain.KindExpense, "Old rent", now.AddDate(0, -1, 0))

	rep, err := svc.generateAt(user.ID, PeriodMonthly, now)
	require.NoError(t, err)
	require.Len(t, rep.Entries, 3)
	assert.Equal(t, "Bus pass", rep.Entries[0].Description, "entries come newest first")
	assert.EqualValues(t, 2000, rep.Summary.TotalIncome)
	assert.EqualValues(t, 800, rep.Summary.TotalExpense)
	assert.EqualValues(t, 1200, rep.Summary.Savings)
}

func TestGenerateMonthlyBoundaryInclusive(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	user := createUser(t, db, "edge", true)

	now := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.Local)
	boundary := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.Local)
	createEntry(t, db, user.ID, 10, domain.KindExpense, "at boundary", boundary)
	createEntry(t, db, user.ID, 20, domain.KindExpense, "just before", boundary.Add(-time.Millisecond))

	rep, err := svc.generateAt(user.ID, PeriodMonthly, now)
	require.NoError(t, err)
	require.Len(t, rep.Entries, 1)
	assert.Equal(t, "at boundary", rep.Entries[0].Description)
	assert.EqualValues(t, 10, rep.Summary.TotalExpense)
}

func TestGenerateNegativeSavings(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	user := createUser(t, db, "broke", true)

	now := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.Local)
	createEntry(t, db, user.ID, 100, domain.KindIncome, "Allowance", now.Add(-time.Hour))
	createEntry(t, db, user.ID, 250, domain.KindExpense, "Concert", now.Add(-2*time.Hour))

	rep, err := svc.generateAt(user.ID, PeriodDaily, now)
	require.NoError(t, err)
	assert.EqualValues(t, -150, rep.Summary.Savings)
}
