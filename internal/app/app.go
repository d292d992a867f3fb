// Package app wires the sweep pipeline: postcode resolution, store
// enumeration with write-through caching, batched stock lookups, and
// report output.
package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/pharmscan/internal/common"
	"github.com/ternarybob/pharmscan/internal/models"
	"github.com/ternarybob/pharmscan/internal/pharmacy"
	"github.com/ternarybob/pharmscan/internal/report"
	"github.com/ternarybob/pharmscan/internal/storage"
)

// StockChecker is the retailer API surface the sweep needs.
type StockChecker interface {
	ResolvePostcode(ctx context.Context, postcode string) (models.Coordinate, error)
	SearchStores(ctx context.Context, center models.Coordinate, radiusMiles int) ([]models.Store, error)
	FetchStock(ctx context.Context, medicationID string, storeIDs []int) ([]models.StockRecord, int, error)
}

// StoreCache persists store lists between runs.
type StoreCache interface {
	Load(key storage.CacheKey) ([]models.Store, bool)
	Save(key storage.CacheKey, stores []models.Store) error
}

// ReportWriter persists the final report.
type ReportWriter interface {
	Write(results []models.StoreStock, postcode string, radiusMiles int) (string, error)
}

// App runs one stock sweep per invocation.
type App struct {
	config *common.Config
	logger arbor.ILogger
	client StockChecker
	cache  StoreCache
	writer ReportWriter
}

// New creates an App with the standard components.
func New(config *common.Config, logger arbor.ILogger) *App {
	return &App{
		config: config,
		logger: logger,
		client: pharmacy.NewClient(&config.API, pharmacy.WithLogger(logger)),
		cache:  storage.NewFileStoreCache(config.Search.DataDir, logger),
		writer: report.NewWriter(config.Search.DataDir, logger),
	}
}

// NewWithComponents creates an App with injected components.
func NewWithComponents(config *common.Config, logger arbor.ILogger, client StockChecker, cache StoreCache, writer ReportWriter) *App {
	return &App{
		config: config,
		logger: logger,
		client: client,
		cache:  cache,
		writer: writer,
	}
}

// SweepResult summarizes one completed sweep.
type SweepResult struct {
	RunID         string
	Stores        int
	FromCache     bool
	FailedBatches int
	Results       []models.StoreStock
	InStock       []models.StoreStock
	Unmatched     []string
	ReportPath    string
}

// Run performs one stock sweep for the given postcode and medication.
// Geocoding and store enumeration failures abort the run with no report
// written; batch failures and join misses degrade the report instead.
func (a *App) Run(ctx context.Context, postcode, medicationID string) (*SweepResult, error) {
	runID := uuid.NewString()
	radius := a.config.Search.RadiusMiles
	postcode = common.NormalizePostcode(postcode)

	a.logger.Info().
		Str("run_id", runID).
		Str("postcode", postcode).
		Int("radius_miles", radius).
		Str("medication_id", medicationID).
		Msg("Starting stock sweep")

	stores, fromCache, err := a.loadStores(ctx, postcode, radius)
	if err != nil {
		return nil, err
	}

	storeIDs := make([]int, len(stores))
	for i, store := range stores {
		storeIDs[i] = store.StoreID
	}

	stockRecords, failedBatches, err := a.client.FetchStock(ctx, medicationID, storeIDs)
	if err != nil {
		return nil, fmt.Errorf("stock fetch aborted: %w", err)
	}

	results, unmatched := report.Aggregate(stockRecords, stores)
	if len(unmatched) > 0 {
		a.logger.Warn().
			Strs("store_ids", unmatched).
			Msg("Stock records for unknown stores, skipped (stale cache?)")
	}

	inStock := report.InStock(results)
	if len(inStock) > 0 {
		a.logger.Info().Int("locations", len(inStock)).Msg("Found stock")
		for _, s := range inStock {
			a.logger.Info().
				Str("store", s.StoreName).
				Str("postcode", s.StorePostcode).
				Str("phone", s.StorePhoneNumber).
				Msg("In stock")
		}
	} else {
		a.logger.Warn().Msg("No stock found at any location")
	}

	path, err := a.writer.Write(results, postcode, radius)
	if err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}

	a.logger.Info().Str("run_id", runID).Str("report", path).Msg("Stock sweep complete")

	return &SweepResult{
		RunID:         runID,
		Stores:        len(stores),
		FromCache:     fromCache,
		FailedBatches: failedBatches,
		Results:       results,
		InStock:       inStock,
		Unmatched:     unmatched,
		ReportPath:    path,
	}, nil
}

// loadStores returns the store list for the sweep, from cache when
// available, otherwise by geocoding the postcode and enumerating stores
// around it. Fresh results are written through to the cache; a cache
// write failure degrades the next run, not this one.
func (a *App) loadStores(ctx context.Context, postcode string, radius int) ([]models.Store, bool, error) {
	key := storage.NewCacheKey(postcode, radius)

	if stores, ok := a.cache.Load(key); ok {
		return stores, true, nil
	}

	a.logger.Info().
		Int("radius_miles", radius).
		Msg("No cached store data for this postcode, fetching stores (this may take a few minutes)")

	center, err := a.client.ResolvePostcode(ctx, postcode)
	if err != nil {
		return nil, false, fmt.Errorf("postcode resolution failed: %w", err)
	}

	stores, err := a.client.SearchStores(ctx, center, radius)
	if err != nil {
		return nil, false, fmt.Errorf("store enumeration failed: %w", err)
	}

	if err := a.cache.Save(key, stores); err != nil {
		a.logger.Warn().Err(err).Msg("Failed to cache store data")
	}

	return stores, false, nil
}
