package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/shopmatch-labs/shopmatch-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/shopmatch-labs/shopmatch-cli/internal/core/domain"
	"github.com/shopmatch-labs/shopmatch-cli/internal/core/ports/driven"
	"github.com/shopmatch-labs/shopmatch-cli/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.ProductStore = (*Store)(nil)

// Store is the SQLite-backed product store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.shopmatch/data/products.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".shopmatch", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "products.db")

	// WAL mode so a watch-triggered index pass doesn't block match reads
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
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

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(
			"INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// AddChunks stores a batch of chunks in one transaction.
func (s *Store) AddChunks(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, product_id, chunk_type, content, position, embedding, domain, indexed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			product_id = excluded.product_id,
			chunk_type = excluded.chunk_type,
			content = excluded.content,
			position = excluded.position,
			embedding = excluded.embedding,
			domain = excluded.domain,
			indexed_at = excluded.indexed_at
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	// Bulk inserts are best-effort: one bad record is logged and skipped,
	// the rest of the batch still lands.
	for _, chunk := range chunks {
		embeddingBlob := float32SliceToBytes(chunk.Embedding)
		if _, err := stmt.ExecContext(ctx, chunk.ID, chunk.ProductID, string(chunk.Type),
			chunk.Content, chunk.Position, embeddingBlob, chunk.Domain, chunk.IndexedAt); err != nil {
			logger.Warn("Skipping chunk %s for product %s: %v", chunk.ID, chunk.ProductID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// AddMetadata stores a batch of product metadata records.
func (s *Store) AddMetadata(ctx context.Context, records []domain.ProductMetadata) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO product_metadata
			(product_id, title, brand, price, link_url, image_url, element, domain, raw_text, indexed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	// Best-effort, as with chunks: a bad record never sinks the batch.
	for _, rec := range records {
		elementJSON, err := json.Marshal(rec.Element)
		if err != nil {
			logger.Warn("Skipping metadata for product %s: %v", rec.ProductID, err)
			continue
		}

		if _, err := stmt.ExecContext(ctx, rec.ProductID, rec.Title, rec.Brand, rec.Price,
			rec.LinkURL, rec.ImageURL, string(elementJSON), rec.Domain, rec.RawText,
			rec.IndexedAt); err != nil {
			logger.Warn("Skipping metadata for product %s: %v", rec.ProductID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// AllChunks returns every stored chunk.
func (s *Store) AllChunks(ctx context.Context) ([]domain.Chunk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, product_id, chunk_type, content, position, embedding, domain, indexed_at
		FROM chunks
		ORDER BY product_id, chunk_type, position
	`)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		var chunk domain.Chunk
		var chunkType string
		var embeddingBlob []byte
		var indexedAt sql.NullTime
		if err := rows.Scan(&chunk.ID, &chunk.ProductID, &chunkType, &chunk.Content,
			&chunk.Position, &embeddingBlob, &chunk.Domain, &indexedAt); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		chunk.Type = domain.ChunkType(chunkType)
		chunk.Embedding = bytesToFloat32Slice(embeddingBlob)
		if indexedAt.Valid {
			chunk.IndexedAt = indexedAt.Time
		}
		chunks = append(chunks, chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	return chunks, nil
}

// MetadataByProductID looks up metadata by product id. When re-indexing
// produced multiple rows for the same product, the newest wins.
func (s *Store) MetadataByProductID(ctx context.Context, productID string) (*domain.ProductMetadata, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT product_id, title, brand, price, link_url, image_url, element, domain, raw_text, indexed_at
		FROM product_metadata
		WHERE product_id = ?
		ORDER BY rowid_pk DESC
		LIMIT 1
	`, productID)

	meta, err := scanMetadataRow(row)
	if err != nil {
		return nil, err
	}
	return meta, nil
}

// AllMetadata returns every stored metadata record.
func (s *Store) AllMetadata(ctx context.Context) ([]domain.ProductMetadata, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT product_id, title, brand, price, link_url, image_url, element, domain, raw_text, indexed_at
		FROM product_metadata
		ORDER BY rowid_pk
	`)
	if err != nil {
		return nil, fmt.Errorf("querying metadata: %w", err)
	}
	defer rows.Close()

	var records []domain.ProductMetadata //nolint:prealloc // size unknown from query
	for rows.Next() {
		var rec domain.ProductMetadata
		var elementJSON string
		var indexedAt sql.NullTime
		if err := rows.Scan(&rec.ProductID, &rec.Title, &rec.Brand, &rec.Price,
			&rec.LinkURL, &rec.ImageURL, &elementJSON, &rec.Domain, &rec.RawText,
			&indexedAt); err != nil {
			return nil, fmt.Errorf("scanning metadata: %w", err)
		}
		if elementJSON != "" {
			if err := json.Unmarshal([]byte(elementJSON), &rec.Element); err != nil {
				return nil, fmt.Errorf("unmarshaling element info: %w", err)
			}
		}
		if indexedAt.Valid {
			rec.IndexedAt = indexedAt.Time
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating metadata: %w", err)
	}

	return records, nil
}

// RecordQuery appends a query to the query history.
func (s *Store) RecordQuery(ctx context.Context, query string, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO query_history (query, asked_at) VALUES (?, ?)", query, at)
	if err != nil {
		return fmt.Errorf("recording query: %w", err)
	}
	return nil
}

// RecentQueries returns the most recent entries of the query history,
// newest first.
func (s *Store) RecentQueries(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT query FROM query_history ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var queries []string //nolint:prealloc // size unknown from query
	for rows.Next() {
		var q string
		if err := rows.Scan(&q); err != nil {
			return nil, fmt.Errorf("scanning history: %w", err)
		}
		queries = append(queries, q)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating history: %w", err)
	}

	return queries, nil
}

// Clear removes all chunks, metadata and query history in one transaction.
func (s *Store) Clear(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, table := range []string{"chunks", "product_metadata", "query_history"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// scanMetadataRow scans a single metadata row.
func scanMetadataRow(row *sql.Row) (*domain.ProductMetadata, error) {
	var rec domain.ProductMetadata
	var elementJSON string
	var indexedAt sql.NullTime

	if err := row.Scan(&rec.ProductID, &rec.Title, &rec.Brand, &rec.Price,
		&rec.LinkURL, &rec.ImageURL, &elementJSON, &rec.Domain, &rec.RawText,
		&indexedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning metadata: %w", err)
	}

	if elementJSON != "" {
		if err := json.Unmarshal([]byte(elementJSON), &rec.Element); err != nil {
			return nil, fmt.Errorf("unmarshaling element info: %w", err)
		}
	}
	if indexedAt.Valid {
		rec.IndexedAt = indexedAt.Time
	}

	return &rec, nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
