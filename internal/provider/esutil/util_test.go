package esutil

import (
	"context"
	"encoding/json"
	"testing"

	"local_services_backend/internal/provider"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

func TestProviderToElasticsearchDoc(t *testing.T) {
	p := &provider.Provider{
		ID:       "u1",
		UserID:   "u1",
		Name:     "Sparkle Cleaners",
		Category: "Home Services",
		Location: "Brooklyn, NY",
		Services: datatypes.JSONSlice[string]{"Deep clean", "Windows"},
	}

	raw, err := ProviderToElasticsearchDoc(p)
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	assert.Equal(t, "Sparkle Cleaners", doc["name"])
	assert.Equal(t, "home-services", doc["category_id"])
	assert.Equal(t, []interface{}{"Deep clean", "Windows"}, doc["services"])

	_, err = ProviderToElasticsearchDoc(nil)
	assert.Error(t, err)
}

func TestIndexer_DisabledIsNoop(t *testing.T) {
	idx := NewIndexer(nil, zap.NewNop())
	assert.False(t, idx.Enabled())
	assert.NoError(t, idx.Index(context.Background(), &provider.Provider{ID: "p1"}))
	assert.NoError(t, idx.Delete(context.Background(), "p1"))
}
