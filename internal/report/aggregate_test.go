package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/pharmscan/internal/models"
)

func TestAggregate_JoinNormalizesIDTypes(t *testing.T) {
	stores := []models.Store{
		{StoreID: 100, DisplayName: "High Street Pharmacy", Postcode: "SW1A 1AA", PhoneNumber: "02071234567"},
	}
	stock := []models.StockRecord{
		{StoreID: "100", StockLevel: "G"},
	}

	results, unmatched := Aggregate(stock, stores)
	require.Len(t, results, 1)
	assert.Empty(t, unmatched)

	assert.Equal(t, "High Street Pharmacy", results[0].StoreName)
	assert.Equal(t, "SW1A 1AA", results[0].StorePostcode)
	assert.Equal(t, "02071234567", results[0].StorePhoneNumber)
	assert.Equal(t, "G", results[0].StockStatus)

	inStock := InStock(results)
	require.Len(t, inStock, 1)
	assert.Equal(t, "High Street Pharmacy", inStock[0].StoreName)
}

func TestAggregate_UnmatchedCollectedNotFatal(t *testing.T) {
	stores := []models.Store{
		{StoreID: 100, DisplayName: "High Street Pharmacy"},
	}
	stock := []models.StockRecord{
		{StoreID: "100", StockLevel: "G"},
		{StoreID: "999", StockLevel: "G"},    // unknown store
		{StoreID: "not-an-id", StockLevel: "R"}, // unparseable id
		{StoreID: "100", StockLevel: "R"},
	}

	results, unmatched := Aggregate(stock, stores)

	assert.Len(t, results, 2)
	assert.Equal(t, []string{"999", "not-an-id"}, unmatched)
}

func TestAggregate_Empty(t *testing.T) {
	results, unmatched := Aggregate(nil, nil)
	assert.Empty(t, results)
	assert.Empty(t, unmatched)
}

func TestInStock(t *testing.T) {
	results := []models.StoreStock{
		{StoreName: "A", StockStatus: "G"},
		{StoreName: "B", StockStatus: "R"},
		{StoreName: "C", StockStatus: "G"},
		{StoreName: "D", StockStatus: "unknown"},
	}

	inStock := InStock(results)
	require.Len(t, inStock, 2)
	assert.Equal(t, "A", inStock[0].StoreName)
	assert.Equal(t, "C", inStock[1].StoreName)
}
