// File: cmd/server/sync.go
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"local_services_backend/internal/provider"
	"local_services_backend/internal/provider/esutil"
	platformElasticsearch "local_services_backend/internal/platform/elasticsearch"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"
)

// providerSource pages through every stored listing.
type providerSource interface {
	FindAllForSync(ctx context.Context, offset, limit int) ([]provider.Provider, error)
}

type bulkResponse struct {
	Errors bool `json:"errors"`
	Items  []map[string]struct {
		ID     string                 `json:"_id"`
		Status int                    `json:"status"`
		Error  map[string]interface{} `json:"error,omitempty"`
	} `json:"items"`
}

type deleteByQueryResponse struct {
	Deleted int `json:"deleted"`
}

// runProviderSync upserts every stored provider into the search index in
// batches, then deletes indexed documents whose provider no longer exists.
func runProviderSync(
	ctx context.Context,
	source providerSource,
	esClient *platformElasticsearch.ESClientWrapper,
	logger *zap.Logger,
	batchSize int,
	esRefresh string,
) error {
	if batchSize <= 0 {
		return fmt.Errorf("batch size must be positive, got %d", batchSize)
	}
	logger.Info("Starting provider synchronization to Elasticsearch...",
		zap.Int("batchSize", batchSize),
		zap.String("esRefreshPolicy", esRefresh),
	)

	offset := 0
	totalSynced := 0
	totalFailed := 0
	batchNumber := 1
	var seen []string

	for {
		providers, err := source.FindAllForSync(ctx, offset, batchSize)
		if err != nil {
			return fmt.Errorf("failed to fetch batch %d: %w", batchNumber, err)
		}
		if len(providers) == 0 {
			logger.Info("No more providers to sync.")
			break
		}

		var body strings.Builder
		docCount := 0
		for i := range providers {
			p := &providers[i]
			seen = append(seen, p.ID)
			doc, err := esutil.ProviderToElasticsearchDoc(p)
			if err != nil {
				logger.Error("Failed to convert provider to Elasticsearch document", zap.String("providerID", p.ID), zap.Error(err))
				totalFailed++
				continue
			}
			fmt.Fprintf(&body, `{ "index" : { "_index" : %q, "_id" : %q } }`+"\n", platformElasticsearch.ProvidersIndexName, p.ID)
			body.WriteString(doc)
			body.WriteString("\n")
			docCount++
		}

		if docCount > 0 {
			synced, failed := sendBulk(ctx, esClient, logger, body.String(), esRefresh, docCount, batchNumber)
			totalSynced += synced
			totalFailed += failed
		}

		offset += len(providers)
		batchNumber++
	}

	pruned, err := pruneStale(ctx, esClient, seen, esRefresh != "false")
	if err != nil {
		return fmt.Errorf("failed to prune stale documents: %w", err)
	}

	logger.Info("Provider synchronization finished.",
		zap.Int("totalSynced", totalSynced),
		zap.Int("totalFailed", totalFailed),
		zap.Int("totalPruned", pruned),
	)
	if totalFailed > 0 {
		return fmt.Errorf("%d providers failed to sync", totalFailed)
	}
	return nil
}

func sendBulk(
	ctx context.Context,
	esClient *platformElasticsearch.ESClientWrapper,
	logger *zap.Logger,
	body, refresh string,
	docCount, batchNumber int,
) (synced, failed int) {
	req := esapi.BulkRequest{
		Body:    strings.NewReader(body),
		Refresh: refresh,
	}
	res, err := req.Do(ctx, esClient)
	if err != nil {
		logger.Error("Failed to send bulk request to Elasticsearch", zap.Error(err), zap.Int("batchNumber", batchNumber))
		return 0, docCount
	}
	defer res.Body.Close()

	if res.IsError() {
		logger.Error("Elasticsearch bulk request returned an error", zap.String("status", res.Status()), zap.Int("batchNumber", batchNumber))
		return 0, docCount
	}

	var parsed bulkResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		logger.Error("Failed to parse Elasticsearch bulk response body", zap.Error(err), zap.Int("batchNumber", batchNumber))
		return 0, docCount
	}
	for _, item := range parsed.Items {
		for _, result := range item {
			if result.Error != nil {
				logger.Error("Failed to index document in bulk batch",
					zap.String("providerID", result.ID),
					zap.Any("error", result.Error),
					zap.Int("status", result.Status),
				)
				failed++
			} else {
				synced++
			}
		}
	}
	logger.Info("Batch processed.",
		zap.Int("batchNumber", batchNumber),
		zap.Int("syncedInBatch", synced),
		zap.Int("failedInBatch", failed),
	)
	return synced, failed
}

// pruneStale removes indexed documents whose id is not in keep.
func pruneStale(ctx context.Context, esClient *platformElasticsearch.ESClientWrapper, keep []string, refresh bool) (int, error) {
	if keep == nil {
		keep = []string{}
	}
	query := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must_not": []interface{}{
					map[string]interface{}{"ids": map[string]interface{}{"values": keep}},
				},
			},
		},
	}
	body, err := json.Marshal(query)
	if err != nil {
		return 0, err
	}

	req := esapi.DeleteByQueryRequest{
		Index:     []string{platformElasticsearch.ProvidersIndexName},
		Body:      bytes.NewReader(body),
		Conflicts: "proceed",
		Refresh:   &refresh,
	}
	res, err := req.Do(ctx, esClient)
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return 0, nil
	}
	if res.IsError() {
		return 0, fmt.Errorf("delete by query returned %s", res.Status())
	}

	var parsed deleteByQueryResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return 0, err
	}
	return parsed.Deleted, nil
}
