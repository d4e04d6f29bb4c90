package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCmd_Use(t *testing.T) {
	assert.Equal(t, "status", statusCmd.Use)
}

func TestStatusCmd_EmptyIndex(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "healthy")
	assert.Contains(t, out, "Indexed chunks: 0")
	assert.Contains(t, out, "empty")
}

func TestStatusCmd_PopulatedIndex(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	seedIndex(t)

	out, err := execute(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Indexed chunks: 2")
}

func TestStatusCmd_NoService(t *testing.T) {
	SetServices(nil, nil)
	_, err := execute(t, "status")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
