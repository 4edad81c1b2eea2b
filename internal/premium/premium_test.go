package premium

import (
	"testing"

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
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Order{}), "failed to migrate test db")
	return db
}

func createUser(t *testing.T, db *gorm.DB, name string, total float64) domain.User {
	t.Helper()
	user := domain.User{Name: name, Email: name + "@example.com", Password: "x", TotalExpenses: total}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func TestRecordOrderStartsPending(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	user := createUser(t, db, "buyer", 0)

	order, err := svc.RecordOrder(user.ID, "order_abc")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderPending, order.Status)

	// Creating an order transitions nothing by itself
	isPremium, err := svc.Status(user.ID)
	require.NoError(t, err)
	assert.False(t, isPremium)
}

func TestSuccessfulStatusUpgrades(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	user := createUser(t, db, "buyer", 0)

	_, err := svc.RecordOrder(user.ID, "order_abc")
	require.NoError(t, err)

	isPremium, err := svc.UpdateStatus(user.ID, "order_abc", "pay_123", domain.OrderSuccessful)
	require.NoError(t, err)
	assert.True(t, isPremium)

	// Order row and entitlement agree
	var order domain.Order
	require.NoError(t, db.Where("order_id = ?", "order_abc").First(&order).Error)
	assert.Equal(t, domain.OrderSuccessful, order.Status)
	assert.Equal(t, "pay_123", order.PaymentID)

	isPremium, err = svc.Status(user.ID)
	require.NoError(t, err)
	assert.True(t, isPremium)
}

func TestFailedStatusLeavesEntitlement(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	user := createUser(t, db, "buyer", 0)

	_, err := svc.RecordOrder(user.ID, "order_abc")
	require.NoError(t, err)

	isPremium, err := svc.UpdateStatus(user.ID, "order_abc", "pay_123", domain.OrderFailed)
	require.NoError(t, err)
	assert.False(t, isPremium)

	var order domain.Order
	require.NoError(t, db.Where("order_id = ?", "order_abc").First(&order).Error)
	assert.Equal(t, domain.OrderFailed, order.Status)
}

// TestEntitlementMonotonic checks that no sequence of later status updates
// ever drops a granted entitlement back to free.
func TestEntitlementMonotonic(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	user := createUser(t, db, "buyer", 0)

	_, err := svc.RecordOrder(user.ID, "order_one")
	require.NoError(t, err)
	_, err = svc.UpdateStatus(user.ID, "order_one", "pay_1", domain.OrderSuccessful)
	require.NoError(t, err)

	// A later failed attempt on a second order changes nothing
	_, err = svc.RecordOrder(user.ID, "order_two")
	require.NoError(t, err)
	isPremium, err := svc.UpdateStatus(user.ID, "order_two", "pay_2", domain.OrderFailed)
	require.NoError(t, err)
	assert.True(t, isPremium, "premium survives later failed orders")

	isPremium, err = svc.Status(user.ID)
	require.NoError(t, err)
	assert.True(t, isPremium)
}

func TestUpdateStatusOwnershipScoped(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	alice := createUser(t, db, "alice", 0)
	bob := createUser(t, db, "bob", 0)

	_, err := svc.RecordOrder(alice.ID, "order_abc")
	require.NoError(t, err)

	// Bob cannot complete Alice's order
	_, err = svc.UpdateStatus(bob.ID, "order_abc", "pay_123", domain.OrderSuccessful)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	isPremium, err := svc.Status(alice.ID)
	require.NoError(t, err)
	assert.False(t, isPremium)
}

func TestLeaderboardOrdering(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	createUser(t, db, "A", 800)
	createUser(t, db, "B", 1500)
	createUser(t, db, "C", 0)

	rows, err := svc.Leaderboard()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "B", rows[0].Name)
	assert.Equal(t, "A", rows[1].Name)
	assert.Equal(t, "C", rows[2].Name)
	assert.EqualValues(t, 1500, rows[0].TotalExpenses)
}

func TestLeaderboardStableTies(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	first := createUser(t, db, "first", 100)
	second := createUser(t, db, "second", 100)

	rows, err := svc.Leaderboard()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	// Equal totals keep insertion order
	assert.Equal(t, first.Name, rows[0].Name)
	assert.Equal(t, second.Name, rows[1].Name)
}
