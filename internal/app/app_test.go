package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/pharmscan/internal/common"
	"github.com/ternarybob/pharmscan/internal/pharmacy"
	"github.com/ternarybob/pharmscan/internal/report"
	"github.com/ternarybob/pharmscan/internal/storage"
)

// sweepFixture is a fake retailer serving 23 stores over three pages
// and "G" stock for even store ids.
type sweepFixture struct {
	server          *httptest.Server
	geocodeRequests int
	searchRequests  int
	stockRequests   int
}

func newSweepFixture(t *testing.T) *sweepFixture {
	t.Helper()
	f := &sweepFixture{}
	const total = 23

	mux := http.NewServeMux()
	mux.HandleFunc("/geocoder/postalcode", func(w http.ResponseWriter, r *http.Request) {
		f.geocodeRequests++
		assert.Equal(t, "SW1A1AA", r.URL.Query().Get("postalcode"))
		fmt.Fprint(w, `{"results":[{"geometry":{"location":{"lat":51.5,"lng":-0.14}}}]}`)
	})
	mux.HandleFunc("/search/store", func(w http.ResponseWriter, r *http.Request) {
		f.searchRequests++
		from, err := strconv.Atoi(r.URL.Query().Get("from"))
		require.NoError(t, err)

		size := 10
		if from+size > total {
			size = total - from
		}
		results := make([]map[string]interface{}, 0, size)
		for i := 0; i < size; i++ {
			id := from + i + 1
			results = append(results, map[string]interface{}{
				"Location": map[string]interface{}{
					"id":          id,
					"displayname": fmt.Sprintf("Store %d", id),
					"Address":     map[string]interface{}{"postcode": fmt.Sprintf("PC%d", id)},
				},
			})
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"size": size, "total": total, "results": results,
		})
	})
	mux.HandleFunc("/itemStock", func(w http.ResponseWriter, r *http.Request) {
		f.stockRequests++
		var req struct {
			StoreIDList []int `json:"storeIdList"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		levels := make([]map[string]string, 0, len(req.StoreIDList))
		for _, id := range req.StoreIDList {
			level := "R"
			if id%2 == 0 {
				level = "G"
			}
			levels = append(levels, map[string]string{
				"storeId":    strconv.Itoa(id),
				"stockLevel": level,
			})
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"stockLevels": levels})
	})

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func newTestApp(t *testing.T, f *sweepFixture, dataDir string) *App {
	t.Helper()
	config := common.NewDefaultConfig()
	config.API.GeocoderURL = f.server.URL + "/geocoder/postalcode"
	config.API.StoreSearchURL = f.server.URL + "/search/store"
	config.API.StockURL = f.server.URL + "/itemStock"
	config.API.RequestInterval = 0
	config.Search.DataDir = dataDir

	logger := common.GetLogger()
	return NewWithComponents(config, logger,
		pharmacy.NewClient(&config.API, pharmacy.WithLogger(logger)),
		storage.NewFileStoreCache(dataDir, logger),
		report.NewWriter(dataDir, logger),
	)
}

func TestRun_FreshSweepThenCacheHit(t *testing.T) {
	f := newSweepFixture(t)
	dataDir := t.TempDir()
	application := newTestApp(t, f, dataDir)

	// First run: geocode once, three store pages, stores cached
	result, err := application.Run(context.Background(), "SW1A 1AA", "42013311000001109")
	require.NoError(t, err)

	assert.Equal(t, 1, f.geocodeRequests)
	assert.Equal(t, 3, f.searchRequests)
	assert.False(t, result.FromCache)
	assert.Equal(t, 23, result.Stores)
	assert.Len(t, result.Results, 23)
	assert.Len(t, result.InStock, 11) // even ids 2..22
	assert.Empty(t, result.Unmatched)
	assert.Equal(t, 0, result.FailedBatches)
	assert.FileExists(t, result.ReportPath)
	assert.NotEmpty(t, result.RunID)

	// Second run with identical inputs: no geocode, no store search
	second, err := application.Run(context.Background(), "SW1A 1AA", "42013311000001109")
	require.NoError(t, err)

	assert.Equal(t, 1, f.geocodeRequests)
	assert.Equal(t, 3, f.searchRequests)
	assert.True(t, second.FromCache)
	assert.Equal(t, 23, second.Stores)
	assert.Len(t, second.Results, 23)
}

func TestRun_GeocodeFailureAbortsWithoutReport(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/geocoder/postalcode", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results":[]}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	f := &sweepFixture{server: server}
	dataDir := t.TempDir()
	application := newTestApp(t, f, dataDir)

	_, err := application.Run(context.Background(), "ZZ99 9ZZ", "42013311000001109")

	var geoErr *pharmacy.GeocodeError
	require.ErrorAs(t, err, &geoErr)

	// Fatal failure writes nothing, not even an empty report
	entries, readErr := filesIn(dataDir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestRun_StoreSearchFailureAbortsWithoutCache(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/geocoder/postalcode", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results":[{"geometry":{"location":{"lat":51.5,"lng":-0.14}}}]}`)
	})
	mux.HandleFunc("/search/store", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	f := &sweepFixture{server: server}
	dataDir := t.TempDir()
	application := newTestApp(t, f, dataDir)

	_, err := application.Run(context.Background(), "SW1A 1AA", "42013311000001109")

	var searchErr *pharmacy.StoreSearchError
	require.ErrorAs(t, err, &searchErr)

	entries, readErr := filesIn(dataDir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func filesIn(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names, nil
}
