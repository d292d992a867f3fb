// Package report joins stock records back to store metadata and
// persists the final sweep report.
package report

import (
	"strconv"

	"github.com/ternarybob/pharmscan/internal/models"
)

// Aggregate joins each stock record to its store by id and shapes the
// final per-store results. The stock endpoint returns ids as strings
// while store ids are numeric, so ids are normalized before comparing.
//
// A stock record whose store id is unknown is returned in the unmatched
// list instead of aborting the sweep; the queried ids should always be
// a subset of the enumerated stores, so unmatched entries point at a
// stale cache or a server-side inconsistency.
func Aggregate(stockRecords []models.StockRecord, stores []models.Store) (results []models.StoreStock, unmatched []string) {
	storesByID := make(map[int]models.Store, len(stores))
	for _, store := range stores {
		storesByID[store.StoreID] = store
	}

	for _, record := range stockRecords {
		id, err := strconv.Atoi(record.StoreID)
		if err != nil {
			unmatched = append(unmatched, record.StoreID)
			continue
		}

		store, ok := storesByID[id]
		if !ok {
			unmatched = append(unmatched, record.StoreID)
			continue
		}

		results = append(results, models.StoreStock{
			StoreName:        store.DisplayName,
			StorePostcode:    store.Postcode,
			StorePhoneNumber: store.PhoneNumber,
			StockStatus:      record.StockLevel,
		})
	}

	return results, unmatched
}

// InStock filters results down to stores reporting available stock.
func InStock(results []models.StoreStock) []models.StoreStock {
	var inStock []models.StoreStock
	for _, result := range results {
		if result.StockStatus == models.StockLevelInStock {
			inStock = append(inStock, result)
		}
	}
	return inStock
}
