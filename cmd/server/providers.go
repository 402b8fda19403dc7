// File: cmd/server/providers.go
package main

import (
	"context"
	"time"

	platformElasticsearch "local_services_backend/internal/platform/elasticsearch"
	"local_services_backend/internal/provider/esutil"

	"go.uber.org/zap"
)

// provideSearchIndexer makes sure the providers index exists before the
// indexer starts writing to it. A failure leaves the database authoritative.
func provideSearchIndexer(client *platformElasticsearch.ESClientWrapper, logger *zap.Logger) *esutil.Indexer {
	if client == nil {
		logger.Info("Elasticsearch client not initialized, skipping index creation.")
		return esutil.NewIndexer(nil, logger)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := platformElasticsearch.CreateProvidersIndexIfNotExists(ctx, client, logger); err != nil {
		logger.Error("Failed to create Elasticsearch providers index", zap.Error(err))
	}
	return esutil.NewIndexer(client, logger)
}
