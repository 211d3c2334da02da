package countries

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"country-cache/core/artifact"
	"country-cache/feature/countries/models"
	"country-cache/feature/countries/refresh"
	"country-cache/feature/countries/store"

	"go.uber.org/zap"
)

const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// ErrInvalidQuery marks a listing request with unusable parameters.
var ErrInvalidQuery = errors.New("invalid query")

// ListQuery is the parsed form of GET /countries parameters.
type ListQuery struct {
	Region   string
	Currency string
	Sort     store.Sort
	Page     int
	Limit    int
}

// Service handles country operations.
type Service struct {
	sync      *refresh.Synchronizer
	store     *store.Store
	artifacts artifact.Store
	key       string
	logger    *zap.Logger
}

// NewService creates a new countries service. key is the artifact base name.
func NewService(sync *refresh.Synchronizer, st *store.Store, artifacts artifact.Store, key string, logger *zap.Logger) *Service {
	if key == "" {
		key = "summary"
	}
	return &Service{
		sync:      sync,
		store:     st,
		artifacts: artifacts,
		key:       key,
		logger:    logger,
	}
}

// Refresh runs the refresh pipeline once.
func (s *Service) Refresh(ctx context.Context) (*refresh.Result, error) {
	return s.sync.Run(ctx)
}

// NewListQuery validates raw listing parameters and fills defaults. Empty
// page and limit take their defaults.
func NewListQuery(region, currency, sort, page, limit string) (ListQuery, error) {
	parsed, err := store.ParseSort(sort)
	if err != nil {
		return ListQuery{}, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}

	p, err := positiveInt(page, 1)
	if err != nil {
		return ListQuery{}, fmt.Errorf("%w: page must be a positive integer", ErrInvalidQuery)
	}
	l, err := positiveInt(limit, DefaultLimit)
	if err != nil || l > MaxLimit {
		return ListQuery{}, fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidQuery, MaxLimit)
	}

	return ListQuery{
		Region:   strings.TrimSpace(region),
		Currency: strings.TrimSpace(currency),
		Sort:     parsed,
		Page:     p,
		Limit:    l,
	}, nil
}

func positiveInt(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, fmt.Errorf("%d is not positive", n)
	}
	return n, nil
}

// List returns one page of countries.
func (s *Service) List(ctx context.Context, q ListQuery) ([]models.Country, error) {
	offset := (q.Page - 1) * q.Limit
	return s.store.List(ctx, store.Filter{Region: q.Region, Currency: q.Currency}, q.Sort, offset, q.Limit)
}

// Get returns a country by case-insensitive name, or nil.
func (s *Service) Get(ctx context.Context, name string) (*models.Country, error) {
	return s.store.FindByName(ctx, name)
}

// Delete removes a country by case-insensitive name.
func (s *Service) Delete(ctx context.Context, name string) (bool, error) {
	return s.store.DeleteByName(ctx, name)
}

// OpenArtifact opens the published summary file with the given extension.
func (s *Service) OpenArtifact(ctx context.Context, ext string) (io.ReadCloser, artifact.Info, error) {
	return s.artifacts.Open(ctx, s.key+"."+ext)
}
