// File: internal/provider/esutil/util.go
package esutil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"local_services_backend/internal/category"
	"local_services_backend/internal/platform/elasticsearch"
	"local_services_backend/internal/provider"

	"go.uber.org/zap"
)

// ProviderToElasticsearchDoc converts a provider to its search document.
func ProviderToElasticsearchDoc(p *provider.Provider) (string, error) {
	if p == nil {
		return "", errors.New("provider cannot be nil")
	}

	doc := map[string]interface{}{
		"name":        p.Name,
		"tagline":     p.Tagline,
		"description": p.Description,
		"services":    []string(p.Services),
		"category":    p.Category,
		"location":    p.Location,
		"address":     p.Address,
		"user_id":     p.UserID,
		"created_at":  p.CreatedAt,
		"updated_at":  p.UpdatedAt,
	}
	if c, ok := category.ByName(p.Category); ok {
		doc["category_id"] = c.ID
	}
	if doc["services"] == nil {
		doc["services"] = []string{}
	}

	docBytes, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("error marshalling provider to JSON for ES: %w", err)
	}
	return string(docBytes), nil
}

// Indexer mirrors provider writes into the providers index. With a nil client
// every call is a no-op.
type Indexer struct {
	client *elasticsearch.ESClientWrapper
	logger *zap.Logger
}

// NewIndexer creates an Indexer.
func NewIndexer(client *elasticsearch.ESClientWrapper, logger *zap.Logger) *Indexer {
	return &Indexer{client: client, logger: logger.Named("provider_indexer")}
}

// Enabled reports whether documents are actually sent anywhere.
func (i *Indexer) Enabled() bool {
	return i != nil && i.client != nil
}

func (i *Indexer) Index(ctx context.Context, p *provider.Provider) error {
	if !i.Enabled() {
		return nil
	}
	body, err := ProviderToElasticsearchDoc(p)
	if err != nil {
		return err
	}
	return elasticsearch.IndexDocument(ctx, i.client, elasticsearch.ProvidersIndexName, p.ID, body)
}

func (i *Indexer) Delete(ctx context.Context, id string) error {
	if !i.Enabled() {
		return nil
	}
	return elasticsearch.DeleteDocument(ctx, i.client, elasticsearch.ProvidersIndexName, id)
}
