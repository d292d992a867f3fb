package pharmacy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ternarybob/pharmscan/internal/models"
)

// FetchStock queries stock levels for one medication across the given
// store ids, batchSize ids per request. A failed batch is logged and
// skipped so the remaining batches still run; its stores are simply
// absent from the result. The returned count is the number of batches
// that failed.
//
// By default a trailing partial batch is queried like any other. With
// DropTrailingBatch set the final len(storeIDs) mod batchSize ids are
// never queried, matching the tool's historical behavior.
func (c *Client) FetchStock(ctx context.Context, medicationID string, storeIDs []int) ([]models.StockRecord, int, error) {
	numBatches := len(storeIDs) / c.batchSize
	if !c.dropTrailingBatch && len(storeIDs)%c.batchSize != 0 {
		numBatches++
	}

	if c.logger != nil {
		c.logger.Info().
			Str("medication_id", medicationID).
			Int("stores", len(storeIDs)).
			Int("batches", numBatches).
			Msg("Fetching stock levels")
	}

	var records []models.StockRecord
	failed := 0

	for batch := 0; batch < numBatches; batch++ {
		start := batch * c.batchSize
		end := start + c.batchSize
		if end > len(storeIDs) {
			end = len(storeIDs)
		}

		if c.logger != nil {
			c.logger.Debug().
				Int("batch", batch+1).
				Int("batches", numBatches).
				Int("from", start+1).
				Int("to", end).
				Msg("Fetching stock batch")
		}

		levels, err := c.fetchStockBatch(ctx, medicationID, storeIDs[start:end], batch+1)
		if err != nil {
			if ctx.Err() != nil {
				return records, failed, ctx.Err()
			}
			failed++
			if c.logger != nil {
				c.logger.Warn().Err(err).Int("batch", batch+1).Msg("Stock batch failed, skipping")
			}
			continue
		}

		records = append(records, levels...)
	}

	if c.logger != nil {
		c.logger.Info().
			Int("records", len(records)).
			Int("failed_batches", failed).
			Msg("Stock fetch complete")
	}

	return records, failed, nil
}

// fetchStockBatch issues one stock lookup POST for a batch of store ids.
func (c *Client) fetchStockBatch(ctx context.Context, medicationID string, storeIDs []int, batch int) ([]models.StockRecord, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	body, err := json.Marshal(stockRequest{
		ProductIDList: []string{medicationID},
		StoreIDList:   storeIDs,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.stockURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute stock request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, &StockBatchError{
			StatusCode: resp.StatusCode,
			Batch:      batch,
			Message:    string(respBody),
		}
	}

	var result stockResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &StockBatchError{
			StatusCode: resp.StatusCode,
			Batch:      batch,
			Message:    fmt.Sprintf("failed to decode response: %v", err),
		}
	}

	if result.StockLevels == nil {
		return nil, &StockBatchError{
			StatusCode: resp.StatusCode,
			Batch:      batch,
			Message:    "response missing stockLevels field",
		}
	}

	return *result.StockLevels, nil
}
