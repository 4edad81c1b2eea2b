package report

import (
	"errors" // Sentinel errors
	"time"   // Period boundaries

	"expense_tracker/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// Sentinel errors returned by the report service
var (
	ErrNotPremium    = errors.New("premium feature only")  // Caller is not entitled to reports
	ErrInvalidPeriod = errors.New("unknown report period") // Period token not daily/monthly/yearly
	ErrNoSuchUser    = errors.New("user not found")        // Unknown owner
)

// Report periods
const (
	PeriodDaily   = "daily"
	PeriodMonthly = "monthly"
	PeriodYearly  = "yearly"
)

// Summary holds the aggregate figures for one report window
type Summary struct {
	TotalIncome  float64 `json:"totalIncome"`  // Sum of income-kind amounts in the window
	TotalExpense float64 `json:"totalExpense"` // Sum of expense-kind amounts in the window
	Savings      float64 `json:"savings"`      // Income minus expense, may be negative
}

// Report is one generated time-bucketed report
type Report struct {
	Entries []domain.Expense `json:"transactions"` // Entries in the window, newest first
	Summary Summary          `json:"summary"`      // Aggregate figures
}

// Service generates time-bucketed income/expense reports for premium users.
type Service struct {
	db *gorm.DB // Database handle
}

// NewService returns a report service backed by db
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// StartOfPeriod maps a period token to its start boundary relative to now.
// Boundaries are computed in the server's local timezone (now.Location()),
// matching the calendar the server runs on: daily is midnight today, monthly
// is the first instant of the current month, yearly the first instant of the
// current year. An entry created at exactly the boundary instant falls inside
// the window.
func StartOfPeriod(period string, now time.Time) (time.Time, error) {
	switch period {
	case PeriodDaily:
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), nil
	case PeriodMonthly:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), nil
	case PeriodYearly:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location()), nil
	default:
		return time.Time{}, ErrInvalidPeriod
	}
}

// Generate produces the report for one owner and period. The premium check
// runs against the user row before any ledger query: a non-premium caller is
// rejected with ErrNotPremium even if a stale token claimed otherwise.
func (s *Service) Generate(userID uint, period string) (Report, error) {
	return s.generateAt(userID, period, time.Now())
}

// generateAt is Generate with an injectable clock for boundary tests
func (s *Service) generateAt(userID uint, period string, now time.Time) (Report, error) {
	start, err := StartOfPeriod(period, now)
	if err != nil {
		return Report{}, err
	}
	var user domain.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Report{}, ErrNoSuchUser
		}
		return Report{}, err
	}
	// Gate before querying the ledger
	if !user.IsPremium {
		return Report{}, ErrNotPremium
	}
	var entries []domain.Expense
	if err := s.db.Where("user_id = ? AND created_at >= ?", userID, start).
		Order("created_at desc, id desc").
		Find(&entries).Error; err != nil {
		return Report{}, err
	}
	// Fold the window into the summary
	var sum Summary
	for _, e := range entries {
		if e.Type == domain.KindIncome {
			sum.TotalIncome += e.Amount
		} else {
			sum.TotalExpense += e.Amount
		}
	}
	sum.Savings = sum.TotalIncome - sum.TotalExpense
	return Report{Entries: entries, Summary: sum}, nil
}
