package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedCmd_Use(t *testing.T) {
	assert.Equal(t, "seed", seedCmd.Use)
}

func TestSeedCmd_IngestsSampleCorpus(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "Seeded")
	assert.Contains(t, out, "12 sample sources")

	out, err = execute(t, "sources")
	require.NoError(t, err)
	assert.Contains(t, out, "market_trends_2023")
	assert.Contains(t, out, "service_efficiency_benchmark")
}

func TestSeedCmd_NoService(t *testing.T) {
	SetServices(nil, nil)
	_, err := execute(t, "seed")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
