package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"country-cache/feature/countries/models"

	"gorm.io/gorm"
)

// DefaultBatchSize is used when the configured batch size is not positive.
const DefaultBatchSize = 100

// Sort is a listing order.
type Sort string

const (
	SortNone           Sort = ""
	SortGDPDesc        Sort = "gdp_desc"
	SortGDPAsc         Sort = "gdp_asc"
	SortPopulationDesc Sort = "population_desc"
	SortPopulationAsc  Sort = "population_asc"
)

// ParseSort validates a sort query value. The empty string and "none" mean no
// order.
func ParseSort(s string) (Sort, error) {
	if s == "none" {
		return SortNone, nil
	}
	switch Sort(s) {
	case SortNone, SortGDPDesc, SortGDPAsc, SortPopulationDesc, SortPopulationAsc:
		return Sort(s), nil
	}
	return SortNone, fmt.Errorf("invalid sort %q", s)
}

func (s Sort) orderClause() string {
	switch s {
	case SortGDPDesc:
		return "estimated_gdp DESC"
	case SortGDPAsc:
		return "estimated_gdp ASC"
	case SortPopulationDesc:
		return "population DESC"
	case SortPopulationAsc:
		return "population ASC"
	}
	return ""
}

// Filter narrows a listing. Empty fields match everything.
type Filter struct {
	Region   string
	Currency string
}

// Store is the persistent table of country rows.
type Store struct {
	db        *gorm.DB
	batchSize int
}

// New creates a store over db.
func New(db *gorm.DB, batchSize int) *Store {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Store{db: db, batchSize: batchSize}
}

// AutoMigrate creates or updates the countries table and its unique index.
func (s *Store) AutoMigrate() error {
	if err := s.db.AutoMigrate(&models.Country{}); err != nil {
		return fmt.Errorf("failed to migrate countries: %w", err)
	}
	return nil
}

// Begin opens a transaction. Writes made through it stay invisible to other
// readers until Commit.
func (s *Store) Begin(ctx context.Context) (*Tx, error) {
	// The session skips GORM's implicit per-statement transactions and savepoints;
	// this handle owns the transaction boundary.
	tx := s.db.WithContext(ctx).
		Session(&gorm.Session{SkipDefaultTransaction: true}).
		Begin(&sql.TxOptions{})
	if tx.Error != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	return &Tx{db: tx, state: TxOpen, batchSize: s.batchSize}, nil
}

// FindByName returns the row whose name matches case-insensitively, or nil.
func (s *Store) FindByName(ctx context.Context, name string) (*models.Country, error) {
	var country models.Country
	err := s.db.WithContext(ctx).
		Where("name_key = ?", models.Key(name)).
		First(&country).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find country %q: %w", name, err)
	}
	return &country, nil
}

// List returns rows matching filter in the given order. A non-positive limit
// means no limit.
func (s *Store) List(ctx context.Context, filter Filter, sort Sort, offset, limit int) ([]models.Country, error) {
	q := s.db.WithContext(ctx).Model(&models.Country{})

	if filter.Region != "" {
		q = q.Where("LOWER(region) = LOWER(?)", filter.Region)
	}
	if filter.Currency != "" {
		q = q.Where("UPPER(currency_code) = UPPER(?)", filter.Currency)
	}
	if order := sort.orderClause(); order != "" {
		// id breaks ties so pages are stable.
		q = q.Order(order).Order("id ASC")
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	countries := make([]models.Country, 0)
	if err := q.Find(&countries).Error; err != nil {
		return nil, fmt.Errorf("failed to list countries: %w", err)
	}
	return countries, nil
}

// DeleteByName removes the row matching name case-insensitively and reports
// whether one existed.
func (s *Store) DeleteByName(ctx context.Context, name string) (bool, error) {
	result := s.db.WithContext(ctx).
		Where("name_key = ?", models.Key(name)).
		Delete(&models.Country{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete country %q: %w", name, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Count returns the number of rows.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Country{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count countries: %w", err)
	}
	return total, nil
}

// TopByGDP returns the n rows with the highest estimated GDP.
func (s *Store) TopByGDP(ctx context.Context, n int) ([]models.Country, error) {
	return s.List(ctx, Filter{}, SortGDPDesc, 0, n)
}

// Status returns the row count and the most recent refresh time.
func (s *Store) Status(ctx context.Context) (models.Status, error) {
	total, err := s.Count(ctx)
	if err != nil {
		return models.Status{}, err
	}
	if total == 0 {
		return models.Status{TotalCountries: 0}, nil
	}

	// MAX() comes back as text on sqlite, so read the newest row instead of the aggregate.
	var latest models.Country
	err = s.db.WithContext(ctx).
		Select("last_refreshed_at").
		Order("last_refreshed_at DESC").
		Limit(1).
		Take(&latest).Error
	if err != nil {
		return models.Status{}, fmt.Errorf("failed to read last refresh time: %w", err)
	}

	at := latest.LastRefreshedAt.UTC()
	return models.Status{TotalCountries: total, LastRefreshedAt: &at}, nil
}
