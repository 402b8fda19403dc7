package redis

import (
	"testing"

	"local_services_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewClient_DisabledWithoutAddr(t *testing.T) {
	c, cleanup, err := NewClient(&config.Config{}, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, c)
	require.NotNil(t, cleanup)
	cleanup()
}
