package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResetCmd_Use(t *testing.T) {
	assert.Equal(t, "reset", resetCmd.Use)
}

func TestResetCmd_RemovesChunks(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	seedIndex(t)

	out, err := execute(t, "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "2 chunks removed")

	out, err = execute(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Indexed chunks: 0")
}

func TestResetCmd_EmptyIndex(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "0 chunks removed")
}
