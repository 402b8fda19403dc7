// File: internal/platform/elasticsearch/index.go
package elasticsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"
)

const ProvidersIndexName = "providers"

// keywordSubfield lets text fields also be filtered and sorted exactly.
var keywordSubfield = map[string]interface{}{
	"keyword": map[string]interface{}{"type": "keyword", "ignore_above": 256},
}

func defineProvidersMapping() (string, error) {
	mapping := map[string]interface{}{
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"name":        map[string]interface{}{"type": "text", "fields": keywordSubfield},
				"tagline":     map[string]interface{}{"type": "text"},
				"description": map[string]interface{}{"type": "text"},
				"services":    map[string]interface{}{"type": "text", "fields": keywordSubfield},
				"category":    map[string]interface{}{"type": "keyword"},
				"category_id": map[string]interface{}{"type": "keyword"},
				"location":    map[string]interface{}{"type": "text", "fields": keywordSubfield},
				"address":     map[string]interface{}{"type": "text"},
				"user_id":     map[string]interface{}{"type": "keyword"},
				"created_at":  map[string]interface{}{"type": "date"},
				"updated_at":  map[string]interface{}{"type": "date"},
			},
		},
	}
	b, err := json.Marshal(mapping)
	if err != nil {
		return "", fmt.Errorf("error marshalling providers mapping to JSON: %w", err)
	}
	return string(b), nil
}

// CreateProvidersIndexIfNotExists creates the providers index with its mapping.
func CreateProvidersIndexIfNotExists(ctx context.Context, client *ESClientWrapper, logger *zap.Logger) error {
	log := logger.Named("elasticsearch_index_setup")

	res, err := esapi.IndicesExistsRequest{Index: []string{ProvidersIndexName}}.Do(ctx, client.Client)
	if err != nil {
		return fmt.Errorf("error checking if providers index exists: %w", err)
	}
	res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		log.Info("Providers index already exists", zap.String("index_name", ProvidersIndexName))
		return nil
	case http.StatusNotFound:
	default:
		return fmt.Errorf("error checking if providers index exists: status %s", res.Status())
	}

	mappingJSON, err := defineProvidersMapping()
	if err != nil {
		return err
	}

	createRes, err := esapi.IndicesCreateRequest{
		Index: ProvidersIndexName,
		Body:  strings.NewReader(mappingJSON),
	}.Do(ctx, client.Client)
	if err != nil {
		return fmt.Errorf("error creating providers index: %w", err)
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		log.Error("Failed to create providers index",
			zap.String("status", createRes.Status()),
			zap.Any("error_details", decodeErrorBody(createRes)),
		)
		return fmt.Errorf("failed to create providers index: status %s", createRes.Status())
	}

	log.Info("Providers index created successfully", zap.String("index_name", ProvidersIndexName))
	return nil
}

// IndexDocument upserts one document by id.
func IndexDocument(ctx context.Context, client *ESClientWrapper, index, id, body string) error {
	res, err := esapi.IndexRequest{
		Index:      index,
		DocumentID: id,
		Body:       strings.NewReader(body),
	}.Do(ctx, client.Client)
	if err != nil {
		return fmt.Errorf("index %s/%s: %w", index, id, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index %s/%s: status %s", index, id, res.Status())
	}
	return nil
}

// DeleteDocument removes one document by id. A missing document is not an error.
func DeleteDocument(ctx context.Context, client *ESClientWrapper, index, id string) error {
	res, err := esapi.DeleteRequest{Index: index, DocumentID: id}.Do(ctx, client.Client)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", index, id, err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("delete %s/%s: status %s", index, id, res.Status())
	}
	return nil
}
