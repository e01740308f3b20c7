// Package store persists artists, their source documents and style guides.
// Metadata, extracted text and chunks live in SQLite; original uploads are
// kept as files under <root>/documents/<artist-slug>/<filename>.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sant0-9/copywriter/internal/document"
	"github.com/sant0-9/copywriter/internal/pipeline"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrArtistExists   = errors.New("artist already exists")
	ErrDocumentExists = errors.New("document already exists")
	ErrInvalidName    = errors.New("invalid name")
)

const (
	dbFile  = "copywriter.db"
	blobDir = "documents"
)

var _ pipeline.Uploader = (*Store)(nil)

// Artist is a gallery artist
type Artist struct {
	ID            string
	Slug          string
	Name          string
	CreatedAt     time.Time
	HasStyleGuide bool
}

// Document is the stored metadata for an uploaded source document
type Document struct {
	ID          string
	ArtistID    string
	Filename    string
	StoragePath string
	DocType     document.DocType
	WordCount   int
	FileSize    int64
	CreatedAt   time.Time
}

// Store is the persistence layer
type Store struct {
	db     *sql.DB
	root   string
	logger *slog.Logger
	now    func() time.Time
}

// Open opens or creates a store rooted at dir
func Open(dir string) (*Store, error) {
	db, err := openDB(filepath.Join(dir, dbFile))
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Join(dir, blobDir), 0o755); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: mkdir: %w", err)
	}
	return &Store{
		db:     db,
		root:   dir,
		logger: slog.Default(),
		now:    time.Now,
	}, nil
}

// SetLogger sets the logger
func (s *Store) SetLogger(l *slog.Logger) {
	s.logger = l
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Slug derives the artist slug: lowercase with spaces replaced by hyphens
func Slug(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// CreateArtist adds an artist. Names that slug to an existing artist are rejected.
func (s *Store) CreateArtist(ctx context.Context, name string) (*Artist, error) {
	name = strings.TrimSpace(name)
	slug := Slug(name)
	if slug == "" || strings.ContainsAny(slug, `/\`) || slug == "." || slug == ".." {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	if _, err := s.ArtistBySlug(ctx, slug); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrArtistExists, slug)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	a := &Artist{ID: newID(), Slug: slug, Name: name, CreatedAt: s.now().UTC()}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO artists (id, slug, name, created_at) VALUES (?, ?, ?, ?)`,
		a.ID, a.Slug, a.Name, a.CreatedAt.UnixNano())
	if err != nil {
		return nil, fmt.Errorf("insert artist: %w", err)
	}
	s.logger.Info("artist created", "artist_id", a.ID, "slug", a.Slug)
	return a, nil
}

const artistColumns = `a.id, a.slug, a.name, a.created_at,
	EXISTS (SELECT 1 FROM style_guides g WHERE g.artist_id = a.id)`

func scanArtist(row interface{ Scan(...any) error }) (*Artist, error) {
	var a Artist
	var created int64
	if err := row.Scan(&a.ID, &a.Slug, &a.Name, &created, &a.HasStyleGuide); err != nil {
		return nil, err
	}
	a.CreatedAt = time.Unix(0, created).UTC()
	return &a, nil
}

// ListArtists returns all artists sorted by name
func (s *Store) ListArtists(ctx context.Context) ([]*Artist, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+artistColumns+` FROM artists a ORDER BY a.name`)
	if err != nil {
		return nil, fmt.Errorf("list artists: %w", err)
	}
	defer rows.Close()

	var artists []*Artist
	for rows.Next() {
		a, err := scanArtist(rows)
		if err != nil {
			return nil, fmt.Errorf("scan artist: %w", err)
		}
		artists = append(artists, a)
	}
	return artists, rows.Err()
}

// ArtistBySlug returns the artist with the given slug
func (s *Store) ArtistBySlug(ctx context.Context, slug string) (*Artist, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+artistColumns+` FROM artists a WHERE a.slug = ?`, slug)
	a, err := scanArtist(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("artist %q: %w", slug, ErrNotFound)
	}
	return a, err
}

// Artist returns the artist with the given ID
func (s *Store) Artist(ctx context.Context, id string) (*Artist, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+artistColumns+` FROM artists a WHERE a.id = ?`, id)
	a, err := scanArtist(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("artist %s: %w", id, ErrNotFound)
	}
	return a, err
}

// StyleGuide returns the saved style guide for an artist, or "" when none exists
func (s *Store) StyleGuide(ctx context.Context, artistID string) (string, error) {
	var content string
	err := s.db.QueryRowContext(ctx,
		`SELECT content FROM style_guides WHERE artist_id = ?`, artistID).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get style guide: %w", err)
	}
	return content, nil
}

// SaveStyleGuide inserts or replaces the artist's style guide
func (s *Store) SaveStyleGuide(ctx context.Context, artistID, content string) error {
	now := s.now().UnixNano()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO style_guides (artist_id, content, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (artist_id) DO UPDATE SET content = excluded.content, updated_at = excluded.updated_at`,
		artistID, content, now, now)
	if err != nil {
		return fmt.Errorf("save style guide: %w", err)
	}
	s.logger.Info("style guide saved", "artist_id", artistID, "chars", len(content))
	return nil
}

// ListDocuments returns an artist's documents in upload order
func (s *Store) ListDocuments(ctx context.Context, artistID string) ([]*Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, artist_id, filename, storage_path, doc_type, word_count, file_size, created_at
		FROM documents WHERE artist_id = ? ORDER BY created_at, rowid`, artistID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []*Document
	for rows.Next() {
		var d Document
		var created int64
		if err := rows.Scan(&d.ID, &d.ArtistID, &d.Filename, &d.StoragePath, &d.DocType,
			&d.WordCount, &d.FileSize, &created); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		d.CreatedAt = time.Unix(0, created).UTC()
		docs = append(docs, &d)
	}
	return docs, rows.Err()
}

// DocumentTexts returns the extracted text of every document for an artist
// in upload order, keyed by filename for the style analysis corpus
func (s *Store) DocumentTexts(ctx context.Context, artistID string) ([]*document.NormalizedDocument, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT filename, extracted_text FROM documents
		WHERE artist_id = ? ORDER BY created_at, rowid`, artistID)
	if err != nil {
		return nil, fmt.Errorf("document texts: %w", err)
	}
	defer rows.Close()

	var docs []*document.NormalizedDocument
	for rows.Next() {
		var filename, text string
		if err := rows.Scan(&filename, &text); err != nil {
			return nil, fmt.Errorf("scan document text: %w", err)
		}
		docs = append(docs, document.Normalize(filename, text))
	}
	return docs, rows.Err()
}

// Chunks returns the stored chunks of a document
func (s *Store) Chunks(ctx context.Context, documentID string) ([]pipeline.Chunk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT idx, text, start_rune, end_rune FROM chunks
		WHERE document_id = ? ORDER BY idx`, documentID)
	if err != nil {
		return nil, fmt.Errorf("list chunks: %w", err)
	}
	defer rows.Close()

	var chunks []pipeline.Chunk
	for rows.Next() {
		var c pipeline.Chunk
		if err := rows.Scan(&c.Index, &c.Text, &c.Start, &c.End); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		chunks = append(chunks, c)
	}
	return chunks, rows.Err()
}

// ReadOriginal loads the file a document was uploaded from
func (s *Store) ReadOriginal(ctx context.Context, documentID string) (document.RawDocument, error) {
	var filename, storagePath string
	err := s.db.QueryRowContext(ctx,
		`SELECT filename, storage_path FROM documents WHERE id = ?`, documentID).Scan(&filename, &storagePath)
	if errors.Is(err, sql.ErrNoRows) {
		return document.RawDocument{}, fmt.Errorf("document %s: %w", documentID, ErrNotFound)
	}
	if err != nil {
		return document.RawDocument{}, fmt.Errorf("get document: %w", err)
	}
	data, err := os.ReadFile(s.blobPath(storagePath))
	if err != nil {
		return document.RawDocument{}, fmt.Errorf("read %s: %w", storagePath, err)
	}
	return document.RawDocument{Filename: filename, Data: data}, nil
}

// UpdateExtraction replaces a stored document's extracted text, type and
// chunks. The original file is left untouched.
func (s *Store) UpdateExtraction(ctx context.Context, documentID string, doc *document.NormalizedDocument, chunks []pipeline.Chunk) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE documents SET doc_type = ?, extracted_text = ?, word_count = ? WHERE id = ?`,
		string(doc.DocType), doc.FullText, doc.WordCount, documentID)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("document %s: %w", documentID, ErrNotFound)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM chunks WHERE document_id = ?`, documentID); err != nil {
		return fmt.Errorf("delete chunks: %w", err)
	}
	if err := insertChunks(ctx, tx, documentID, chunks); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.logger.Info("extraction replaced", "document_id", documentID, "chunks", len(chunks))
	return nil
}

func (s *Store) blobPath(storagePath string) string {
	return filepath.Join(s.root, blobDir, filepath.FromSlash(storagePath))
}

// UploadDocument stores the original file under <slug>/<filename> and
// records its metadata, extracted text and chunks. It returns the new
// document ID.
func (s *Store) UploadDocument(ctx context.Context, artistID string, raw document.RawDocument, doc *document.NormalizedDocument, chunks []pipeline.Chunk) (string, error) {
	artist, err := s.Artist(ctx, artistID)
	if err != nil {
		return "", err
	}

	filename := filepath.Base(raw.Filename)
	if filename == "." || filename == ".." || filename == string(filepath.Separator) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, raw.Filename)
	}
	storagePath := artist.Slug + "/" + filename
	path := s.blobPath(storagePath)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("%w: %s", ErrDocumentExists, storagePath)
		}
		return "", err
	}
	_, writeErr := f.Write(raw.Data)
	if err := errors.Join(writeErr, f.Close()); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write %s: %w", storagePath, err)
	}

	id := newID()
	if err := s.insertDocument(ctx, id, artistID, filename, storagePath, int64(len(raw.Data)), doc, chunks); err != nil {
		os.Remove(path)
		return "", err
	}

	s.logger.Info("document stored", "artist_id", artistID, "document_id", id,
		"path", storagePath, "chunks", len(chunks))
	return id, nil
}

func (s *Store) insertDocument(ctx context.Context, id, artistID, filename, storagePath string, size int64, doc *document.NormalizedDocument, chunks []pipeline.Chunk) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO documents (id, artist_id, filename, storage_path, doc_type, extracted_text, word_count, file_size, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, artistID, filename, storagePath, string(doc.DocType), doc.FullText, doc.WordCount, size, s.now().UnixNano())
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}

	if err := insertChunks(ctx, tx, id, chunks); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func insertChunks(ctx context.Context, tx *sql.Tx, documentID string, chunks []pipeline.Chunk) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO chunks (document_id, idx, text, start_rune, end_rune) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare chunks: %w", err)
	}
	defer stmt.Close()

	for _, c := range chunks {
		if _, err := stmt.ExecContext(ctx, documentID, c.Index, c.Text, c.Start, c.End); err != nil {
			return fmt.Errorf("insert chunk %d: %w", c.Index, err)
		}
	}
	return nil
}

// DeleteDocument removes a document's record, chunks and stored file. A
// file that is already gone is not an error.
func (s *Store) DeleteDocument(ctx context.Context, documentID string) error {
	var storagePath string
	err := s.db.QueryRowContext(ctx,
		`SELECT storage_path FROM documents WHERE id = ?`, documentID).Scan(&storagePath)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("document %s: %w", documentID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("get document: %w", err)
	}

	if err := os.Remove(s.blobPath(storagePath)); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("failed to remove stored file", "path", storagePath, "error", err)
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, documentID); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	s.logger.Info("document deleted", "document_id", documentID, "path", storagePath)
	return nil
}
