package ledger

import (
	"math/rand"
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

func createUser(t *testing.T, db *gorm.DB, name string) domain.User {
	t.Helper()
	user := domain.User{Name: name, Email: name + "@example.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func totalOf(t *testing.T, db *gorm.DB, userID uint) float64 {
	t.Helper()
	var user domain.User
	require.NoError(t, db.First(&user, userID).Error)
	return user.TotalExpenses
}

// sumExpenseRows recomputes the total straight from the rows, bypassing the
// denormalized column, to check the two never disagree
func sumExpenseRows(t *testing.T, db *gorm.DB, userID uint) float64 {
	t.Helper()
	var sum float64
	require.NoError(t, db.Model(&domain.Expense{}).
		Where("user_id = ? AND type = ?", userID, domain.KindExpense).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error)
	return sum
}

func TestAddValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	user := createUser(t, db, "val")

	_, err := svc.Add(user.ID, 0, domain.KindExpense, "zero", "misc")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.Add(user.ID, -5, domain.KindExpense, "negative", "misc")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.Add(user.ID, 10, "transfer", "bad kind", "misc")
	assert.ErrorIs(t, err, ErrInvalidKind)

	_, err = svc.Add(user.ID, 10, domain.KindExpense, "", "misc")
	assert.ErrorIs(t, err, ErrEmptyDesc)

	// Nothing persisted by any of the rejected calls
	var count int64
	require.NoError(t, db.Model(&domain.Expense{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
	assert.EqualValues(t, 0, totalOf(t, db, user.ID))
}

func TestAddMaintainsAggregate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	user := createUser(t, db, "agg")

	_, err := svc.Add(user.ID, 500, domain.KindExpense, "Groceries", "Food")
	require.NoError(t, err)
	assert.EqualValues(t, 500, totalOf(t, db, user.ID))

	// Income never touches the total
	_, err = svc.Add(user.ID, 2000, domain.KindIncome, "Salary", "Salary")
	require.NoError(t, err)
	assert.EqualValues(t, 500, totalOf(t, db, user.ID))

	_, err = svc.Add(user.ID, 300, domain.KindExpense, "Bus pass", "Transport")
	require.NoError(t, err)
	assert.EqualValues(t, 800, totalOf(t, db, user.ID))
}

func TestDeleteMaintainsAggregate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	user := createUser(t, db, "del")

	_, err := svc.Add(user.ID, 500, domain.KindExpense, "Groceries", "Food")
	require.NoError(t, err)
	_, err = svc.Add(user.ID, 2000, domain.KindIncome, "Salary", "Salary")
	require.NoError(t, err)
	transport, err := svc.Add(user.ID, 300, domain.KindExpense, "Bus pass", "Transport")
	require.NoError(t, err)
	require.EqualValues(t, 800, totalOf(t, db, user.ID))

	require.NoError(t, svc.Delete(user.ID, transport.ID))
	assert.EqualValues(t, 500, totalOf(t, db, user.ID))

	// Deleting an income entry leaves the expense total alone
	var income domain.Expense
	require.NoError(t, db.Where("type = ?", domain.KindIncome).First(&income).Error)
	require.NoError(t, svc.Delete(user.ID, income.ID))
	assert.EqualValues(t, 500, totalOf(t, db, user.ID))
}

func TestDeleteOwnershipIsolation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	entry, err := svc.Add(alice.ID, 100, domain.KindExpense, "Lunch", "Food")
	require.NoError(t, err)

	// Bob cannot delete Alice's entry
	err = svc.Delete(bob.ID, entry.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// The entry is intact and Alice's aggregate unchanged
	var kept domain.Expense
	assert.NoError(t, db.First(&kept, entry.ID).Error)
	assert.EqualValues(t, 100, totalOf(t, db, alice.ID))
}

func TestDeleteUnknownID(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	user := createUser(t, db, "ghost")

	assert.ErrorIs(t, svc.Delete(user.ID, 9999), ErrNotFound)
}

func TestListNewestFirstAndWindow(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	user := createUser(t, db, "lister")

	base := time.Date(2024, 6, 10, 12, 0, 0, 0, time.Local)
	for i, desc := range []string{"oldest", "middle", "newest"} {
		entry := domain.Expense{
			UserID:      user.ID,
			Amount:      float64(10 * (i + 1)),
			Type:        domain.KindExpense,
			Description: desc,
			CreatedAt:   base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, db.Create(&entry).Error)
	}

	entries, err := svc.List(user.ID, nil)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "newest", entries[0].Description)
	assert.Equal(t, "oldest", entries[2].Description)

	// Window boundary is inclusive
	since := base.Add(time.Hour)
	windowed, err := svc.List(user.ID, &since)
	require.NoError(t, err)
	require.Len(t, windowed, 2)
	assert.Equal(t, "middle", windowed[1].Description)
}

func TestListPage(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	user := createUser(t, db, "pager")

	base := time.Date(2024, 6, 10, 12, 0, 0, 0, time.Local)
	for i := 0; i < 5; i++ {
		entry := domain.Expense{
			UserID:      user.ID,
			Amount:      1,
			Type:        domain.KindExpense,
			Description: "entry",
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(&entry).Error)
	}

	first, total, err := svc.ListPage(user.ID, 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	require.Len(t, first, 2)

	last, _, err := svc.ListPage(user.ID, 3, 2)
	require.NoError(t, err)
	assert.Len(t, last, 1)
}

func TestRecalculateIdempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	user := createUser(t, db, "idem")

	_, err := svc.Add(user.ID, 42.5, domain.KindExpense, "Dinner", "Food")
	require.NoError(t, err)

	require.NoError(t, svc.Recalculate(user.ID))
	first := totalOf(t, db, user.ID)
	require.NoError(t, svc.Recalculate(user.ID))
	assert.Equal(t, first, totalOf(t, db, user.ID))
	assert.EqualValues(t, 42.5, first)
}

// TestAggregateInvariantUnderRandomSequences hammers one user with random
// adds and deletes and checks the denormalized total equals the live row sum
// after every mutation.
func TestAggregateInvariantUnderRandomSequences(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	user := createUser(t, db, "fuzz")
	rng := rand.New(rand.NewSource(1))

	var ids []uint
	for i := 0; i < 200; i++ {
		if len(ids) > 0 && rng.Intn(3) == 0 {
			// Delete a random existing entry
			idx := rng.Intn(len(ids))
			require.NoError(t, svc.Delete(user.ID, ids[idx]))
			ids = append(ids[:idx], ids[idx+1:]...)
		} else {
			kind := domain.KindExpense
			if rng.Intn(2) == 0 {
				kind = domain.KindIncome
			}
			amount := float64(rng.Intn(1000) + 1)
			entry, err := svc.Add(user.ID, amount, kind, "fuzz entry", "misc")
			require.NoError(t, err)
			ids = append(ids, entry.ID)
		}
		assert.Equal(t, sumExpenseRows(t, db, user.ID), totalOf(t, db, user.ID),
			"aggregate drifted from source rows at step %d", i)
	}
}
