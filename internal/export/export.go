package export

import (
	"bytes"        // CSV buffer
	"context"      // Store calls
	"encoding/csv" // CSV assembly
	"errors"       // Sentinel errors
	"fmt"          // Key formatting
	"strconv"      // Amount formatting
	"time"         // Timestamps

	"expense_tracker/internal/domain"  // Importing domain models
	"expense_tracker/internal/gateway" // Object store port

	"gorm.io/gorm" // GORM ORM library
)

// ErrNoEntries is returned when the user has nothing to export
var ErrNoEntries = errors.New("no expenses found")

// Service exports a user's full ledger as CSV to the object store and keeps
// an append-only history of generated files.
type Service struct {
	db    *gorm.DB            // Database handle
	store gateway.ObjectStore // Export file destination
}

// NewService returns an export service backed by db and store
func NewService(db *gorm.DB, store gateway.ObjectStore) *Service {
	return &Service{db: db, store: store}
}

// Export writes the user's entire ledger to the object store as CSV, records
// the file in DownloadHistory and returns its URL.
func (s *Service) Export(ctx context.Context, userID uint) (string, error) {
	var entries []domain.Expense
	if err := s.db.Where("user_id = ?", userID).Order("created_at desc, id desc").Find(&entries).Error; err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", ErrNoEntries
	}
	body, err := buildCSV(entries)
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("expenses/user_%d_%d.csv", userID, time.Now().UnixMilli())
	url, err := s.store.Put(ctx, key, "text/csv", body)
	if err != nil {
		return "", fmt.Errorf("object store: %w", err)
	}
	// Append-only history of generated files
	record := domain.DownloadHistory{UserID: userID, FileURL: url}
	if err := s.db.Create(&record).Error; err != nil {
		return "", err
	}
	return url, nil
}

// History returns the user's export records, newest first
func (s *Service) History(userID uint) ([]domain.DownloadHistory, error) {
	var history []domain.DownloadHistory
	if err := s.db.Where("user_id = ?", userID).Order("downloaded_at desc").Find(&history).Error; err != nil {
		return nil, err
	}
	return history, nil
}

// buildCSV renders the entries with a header row; encoding/csv handles the
// quoting of commas and quotes inside descriptions
func buildCSV(entries []domain.Expense) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"Amount", "Description", "Category", "Type", "Date"}); err != nil {
		return nil, err
	}
	for _, e := range entries {
		record := []string{
			strconv.FormatFloat(e.Amount, 'f', -1, 64),
			e.Description,
			e.Category,
			e.Type,
			e.CreatedAt.Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
