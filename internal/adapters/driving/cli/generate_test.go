package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCmd_Use(t *testing.T) {
	assert.Equal(t, "generate [query]", generateCmd.Use)
}

func TestGenerateCmd_RequiresExactlyOneArg(t *testing.T) {
	_, err := execute(t, "generate")
	assert.Error(t, err)
}

func TestGenerateCmd_DefaultSections(t *testing.T) {
	flag := generateCmd.Flags().Lookup("section")
	require.NotNil(t, flag, "section flag should exist")
	assert.Equal(t, "[Executive Summary,Key Findings,Recommendations]", flag.DefValue)
}

func TestGenerateCmd_HasTopKFlag(t *testing.T) {
	flag := generateCmd.Flags().Lookup("top-k")
	require.NotNil(t, flag, "top-k flag should exist")
	assert.Equal(t, "k", flag.Shorthand)
	assert.Equal(t, "0", flag.DefValue)
}

func TestGenerateCmd_PrintsReportID(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	seedIndex(t)

	out, err := execute(t, "generate", "AI adoption")
	require.NoError(t, err)
	assert.Contains(t, out, "Report ID:")
	assert.Contains(t, out, "reportsmith preview")
}

func TestGenerateCmd_JSONOutput(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer func() { generateJSON = false }()
	seedIndex(t)

	out, err := execute(t, "generate", "--json", "AI adoption")
	require.NoError(t, err)

	var result map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.NotEmpty(t, result["report_id"])
}

func TestGenerateCmd_EmptyIndex(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "generate", "AI adoption")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no documents in index")
}

func TestGenerateCmd_NoService(t *testing.T) {
	SetServices(nil, nil)
	_, err := execute(t, "generate", "AI adoption")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
