package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngestCmd_Use(t *testing.T) {
	assert.Equal(t, "ingest [files...]", ingestCmd.Use)
}

func TestIngestCmd_RequiresAtLeastOneArg(t *testing.T) {
	_, err := execute(t, "ingest")
	assert.Error(t, err)
}

func TestIngestCmd_HasSourceFlag(t *testing.T) {
	flag := ingestCmd.Flags().Lookup("source")
	require.NotNil(t, flag, "source flag should exist")
	assert.Equal(t, "s", flag.Shorthand)
}

func TestIngestCmd_IngestsFile(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	path := filepath.Join(t.TempDir(), "quarterly report.txt")
	require.NoError(t, os.WriteFile(path, []byte("AI improves diagnostics. AI reduces cost."), 0o600))

	out, err := execute(t, "ingest", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Ingested")
	assert.Contains(t, out, `"quarterly_report"`, "source ID defaults to the sanitised base name")
}

func TestIngestCmd_ExplicitSource(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer func() { ingestSource = "" }()

	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("AI improves diagnostics."), 0o600))

	out, err := execute(t, "ingest", "--source", "doc7", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"doc7"`)
}

func TestIngestCmd_MissingFile(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "ingest", filepath.Join(t.TempDir(), "absent.txt"))
	assert.Error(t, err)
}

func TestIngestCmd_NoService(t *testing.T) {
	SetServices(nil, nil)
	_, err := execute(t, "ingest", "somefile.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestSourceIDFromPath(t *testing.T) {
	assert.Equal(t, "annual_report", sourceIDFromPath("/data/annual report.txt"))
	assert.Equal(t, "notes", sourceIDFromPath("notes.md"))
	assert.Equal(t, "plain", sourceIDFromPath("plain"))
}
