// Package sqlite provides a persistent chunk index backed by SQLite.
//
// Chunk text and metadata live in a single table; embeddings are stored
// as little-endian float32 blobs. Nearest-neighbour queries scan the
// candidate rows and rank by cosine distance in process, which is exact
// and fast enough for the corpus sizes a single report pipeline sees.
// The database survives process restarts; WAL mode keeps concurrent
// ingestion and retrieval safe.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/reportsmith/internal/adapters/driven/index/sqlite/migrations"
	"github.com/custodia-labs/reportsmith/internal/core/domain"
	"github.com/custodia-labs/reportsmith/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.ChunkIndex = (*Index)(nil)

// Index is a SQLite-backed implementation of driven.ChunkIndex.
type Index struct {
	db   *sql.DB
	path string
}

// New creates a chunk index at the specified data directory.
// If dataDir is empty, defaults to ~/.reportsmith/data.
func New(dataDir string) (*Index, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".reportsmith", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "index.db")

	// WAL mode for concurrent ingestion and retrieval
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	idx := &Index{db: db, path: dbPath}

	if err := idx.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return idx, nil
}

// Close closes the database connection.
func (x *Index) Close() error {
	return x.db.Close()
}

// Path returns the database file path.
func (x *Index) Path() string {
	return x.path
}

// migrate applies any pending .up.sql migrations from the embedded FS.
func (x *Index) migrate(fsys embed.FS) error {
	_, err := x.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := x.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}
		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := x.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := x.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// Upsert stores a chunk, overwriting any chunk with the same ID.
func (x *Index) Upsert(ctx context.Context, chunk domain.Chunk) error {
	if chunk.ID == "" {
		return fmt.Errorf("upsert chunk: %w: empty id", domain.ErrInvalidInput)
	}
	if len(chunk.Embedding) == 0 {
		return fmt.Errorf("upsert chunk %s: %w: empty embedding", chunk.ID, domain.ErrInvalidInput)
	}

	_, err := x.db.ExecContext(ctx, `
		INSERT INTO chunks (id, source_id, page, text, embedding)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source_id = excluded.source_id,
			page = excluded.page,
			text = excluded.text,
			embedding = excluded.embedding
	`, chunk.ID, chunk.SourceID, chunk.Page, chunk.Text, float32SliceToBytes(chunk.Embedding))
	if err != nil {
		return fmt.Errorf("upsert chunk %s: %w", chunk.ID, err)
	}
	return nil
}

// Query scans the candidate rows and returns up to k chunks ranked by
// ascending cosine distance. Source filtering is applied natively via
// the WHERE clause, so a filtered query never silently under-returns.
func (x *Index) Query(
	ctx context.Context, embedding []float32, k int, filter *driven.QueryFilter,
) ([]driven.ChunkHit, error) {
	if k <= 0 {
		return nil, nil
	}

	query := "SELECT id, source_id, page, text, embedding FROM chunks"
	var args []any
	if filter != nil && filter.SourceID != "" {
		query += " WHERE source_id = ?"
		args = append(args, filter.SourceID)
	}

	rows, err := x.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query chunks: %w", err)
	}
	defer rows.Close()

	var hits []driven.ChunkHit
	for rows.Next() {
		chunk, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		hits = append(hits, driven.ChunkHit{
			Chunk:    chunk,
			Distance: cosineDistance(embedding, chunk.Embedding),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chunks: %w", err)
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Count returns the number of chunks currently indexed.
func (x *Index) Count(ctx context.Context) (int, error) {
	var count int
	row := x.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks")
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count chunks: %w", err)
	}
	return count, nil
}

// GetBySource returns all chunks for one source, ordered by page.
func (x *Index) GetBySource(ctx context.Context, sourceID string) ([]domain.Chunk, error) {
	rows, err := x.db.QueryContext(ctx, `
		SELECT id, source_id, page, text, embedding
		FROM chunks WHERE source_id = ? ORDER BY page
	`, sourceID)
	if err != nil {
		return nil, fmt.Errorf("get chunks for source %s: %w", sourceID, err)
	}
	defer rows.Close()

	var chunks []domain.Chunk
	for rows.Next() {
		chunk, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, chunk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chunks: %w", err)
	}
	return chunks, nil
}

// Sources returns the distinct source IDs with their chunk counts.
func (x *Index) Sources(ctx context.Context) (map[string]int, error) {
	rows, err := x.db.QueryContext(ctx, "SELECT source_id, COUNT(*) FROM chunks GROUP BY source_id")
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	defer rows.Close()

	sources := make(map[string]int)
	for rows.Next() {
		var sourceID string
		var count int
		if err := rows.Scan(&sourceID, &count); err != nil {
			return nil, fmt.Errorf("scan source row: %w", err)
		}
		sources[sourceID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sources: %w", err)
	}
	return sources, nil
}

// DeleteAll removes every chunk and reports how many were removed.
func (x *Index) DeleteAll(ctx context.Context) (int, error) {
	result, err := x.db.ExecContext(ctx, "DELETE FROM chunks")
	if err != nil {
		return 0, fmt.Errorf("delete all chunks: %w", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count removed chunks: %w", err)
	}
	return int(removed), nil
}

// Recreate drops the chunks table and reapplies the schema. This is the
// recovery path for corrupted persisted state: the index comes back
// empty but usable.
func (x *Index) Recreate(ctx context.Context) error {
	if _, err := x.db.ExecContext(ctx, "DROP TABLE IF EXISTS chunks"); err != nil {
		return fmt.Errorf("drop chunks table: %w", err)
	}
	if _, err := x.db.ExecContext(ctx, "DELETE FROM schema_migrations"); err != nil {
		return fmt.Errorf("reset migration state: %w", err)
	}
	if err := x.migrate(migrations.FS); err != nil {
		return fmt.Errorf("recreate index: %w", err)
	}
	return nil
}

// scanChunk reads one chunk row.
func scanChunk(rows *sql.Rows) (domain.Chunk, error) {
	var chunk domain.Chunk
	var embeddingBlob []byte
	if err := rows.Scan(&chunk.ID, &chunk.SourceID, &chunk.Page, &chunk.Text, &embeddingBlob); err != nil {
		return domain.Chunk{}, fmt.Errorf("scan chunk row: %w", err)
	}
	chunk.Embedding = bytesToFloat32Slice(embeddingBlob)
	return chunk, nil
}

// float32SliceToBytes converts a []float32 to a little-endian byte slice.
func float32SliceToBytes(floats []float32) []byte {
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

// cosineDistance returns 1 - cosine similarity. Mismatched or
// zero-magnitude vectors rank last.
func cosineDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 2
	}
	var dot, na2, nb2 float64
	for i := range a {
		va := float64(a[i])
		vb := float64(b[i])
		dot += va * vb
		na2 += va * va
		nb2 += vb * vb
	}
	if na2 == 0 || nb2 == 0 {
		return 2
	}
	return 1 - dot/(math.Sqrt(na2)*math.Sqrt(nb2))
}
