// Package pharmacy provides a client for the retailer's undocumented
// stock-checker web API: postcode geocoding, store search, and per-store
// stock lookups. The endpoints carry no version guarantees, so every
// response is decoded into an explicit schema and checked before use.
package pharmacy

import (
	"fmt"

	"github.com/ternarybob/pharmscan/internal/models"
)

// geocodeResponse is the geocoder endpoint schema.
type geocodeResponse struct {
	Results []geocodeResult `json:"results"`
}

type geocodeResult struct {
	Geometry struct {
		Location models.Coordinate `json:"location"`
	} `json:"geometry"`
}

// storeSearchResponse is one page of the store-search endpoint.
// Results is a pointer so a response missing the field entirely can be
// told apart from an empty page.
type storeSearchResponse struct {
	Size    int                  `json:"size"`
	Total   int                  `json:"total"`
	Results *[]storeSearchResult `json:"results"`
}

type storeSearchResult struct {
	Location struct {
		ID          int    `json:"id"`
		DisplayName string `json:"displayname"`
		Address     *struct {
			Postcode string `json:"postcode"`
		} `json:"Address"`
		ContactDetails *struct {
			Phone string `json:"phone"`
		} `json:"contactDetails"`
	} `json:"Location"`
}

// stockRequest is the stock endpoint POST body.
type stockRequest struct {
	ProductIDList []string `json:"productIdList"`
	StoreIDList   []int    `json:"storeIdList"`
}

// stockResponse is the stock endpoint schema.
type stockResponse struct {
	StockLevels *[]models.StockRecord `json:"stockLevels"`
}

// GeocodeError indicates the postcode could not be resolved to a
// coordinate. Fatal: nothing downstream can proceed without one.
type GeocodeError struct {
	StatusCode int
	Postcode   string
	Message    string
}

func (e *GeocodeError) Error() string {
	return fmt.Sprintf("geocode failed for postcode %s: %s (status: %d)", e.Postcode, e.Message, e.StatusCode)
}

// StoreSearchError indicates a store-search page was unsuccessful or
// malformed. Fatal: pages collected so far are discarded rather than
// passed off as a complete store list.
type StoreSearchError struct {
	StatusCode int
	Offset     int
	Message    string
}

func (e *StoreSearchError) Error() string {
	return fmt.Sprintf("store search failed at offset %d: %s (status: %d)", e.Offset, e.Message, e.StatusCode)
}

// StockBatchError indicates a single stock batch failed. Recoverable:
// the batch's stores are omitted and the sweep continues.
type StockBatchError struct {
	StatusCode int
	Batch      int
	Message    string
}

func (e *StockBatchError) Error() string {
	return fmt.Sprintf("stock lookup failed for batch %d: %s (status: %d)", e.Batch, e.Message, e.StatusCode)
}
