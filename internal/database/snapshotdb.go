package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/wulab/labsite/internal/model"
	_ "modernc.org/sqlite" // SQLite driver
)

// FileName is the database file name inside the database directory.
const FileName = "labsite.db"

// timestampLayout is fixed-width so stored values sort chronologically.
const timestampLayout = "2006-01-02 15:04:05.000000000"

// snapshotColumns are selected for full snapshot reads.
var snapshotColumns = []string{"id", "source", "taken_at", "hash", "publications_json"}

// SnapshotDB stores publication snapshots.
type SnapshotDB struct {
	db     *sql.DB
	dbPath string
}

// Options configures SnapshotDB behavior.
type Options struct {
	// CreateIfNotExists creates the directory and database file if missing.
	CreateIfNotExists bool

	// EnableWAL enables write-ahead logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the snapshot database in dbDir.
func Open(dbDir string, opts Options) (*SnapshotDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (run 'labsite sync' first)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else if err := os.MkdirAll(dbDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite has a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	sdb := &SnapshotDB{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := sdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return sdb, nil
}

// Path returns the database file path.
func (s *SnapshotDB) Path() string {
	return s.dbPath
}

// Close closes the database connection.
func (s *SnapshotDB) Close() error {
	return s.db.Close()
}

func (s *SnapshotDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source TEXT NOT NULL,
		taken_at TEXT NOT NULL,
		hash TEXT NOT NULL,
		publication_count INTEGER NOT NULL,
		publications_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_taken_at ON snapshots(taken_at);
	CREATE INDEX IF NOT EXISTS idx_snapshots_hash ON snapshots(hash);
	`

	_, err := s.db.ExecContext(context.Background(), schema)
	return err
}

// SaveSnapshot stores snap unless its records equal those of the latest
// snapshot. It fills in snap.Hash, and snap.ID with either the new row id or
// the id of the identical latest snapshot. It reports whether a row was added.
func (s *SnapshotDB) SaveSnapshot(ctx context.Context, snap *model.Snapshot) (bool, error) {
	hash, err := HashPublications(snap.Publications)
	if err != nil {
		return false, err
	}
	snap.Hash = hash

	latest, err := s.Latest(ctx)
	if err != nil {
		return false, err
	}
	if latest != nil && latest.Hash == hash {
		snap.ID = latest.ID
		return false, nil
	}

	if snap.TakenAt.IsZero() {
		snap.TakenAt = time.Now()
	}
	pubsJSON, err := json.Marshal(snap.Publications)
	if err != nil {
		return false, fmt.Errorf("failed to serialize publications: %w", err)
	}

	query, args, err := sq.Insert("snapshots").
		Columns("source", "taken_at", "hash", "publication_count", "publications_json").
		Values(snap.Source, snap.TakenAt.UTC().Format(timestampLayout), hash, len(snap.Publications), string(pubsJSON)).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build insert: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to save snapshot: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return false, fmt.Errorf("failed to read snapshot id: %w", err)
	}
	snap.ID = id
	return true, nil
}

// Latest returns the most recent snapshot, or nil when there is none.
func (s *SnapshotDB) Latest(ctx context.Context) (*model.Snapshot, error) {
	snaps, err := s.LatestSnapshots(ctx, 1)
	if err != nil || len(snaps) == 0 {
		return nil, err
	}
	return snaps[0], nil
}

// LatestSnapshots returns up to n snapshots, newest first.
func (s *SnapshotDB) LatestSnapshots(ctx context.Context, n int) ([]*model.Snapshot, error) {
	if n <= 0 {
		return []*model.Snapshot{}, nil
	}
	query, args, err := sq.Select(snapshotColumns...).
		From("snapshots").
		OrderBy("id DESC").
		Limit(uint64(n)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	snaps := make([]*model.Snapshot, 0, n)
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

// SnapshotByID returns the snapshot with id, or nil when there is none.
func (s *SnapshotDB) SnapshotByID(ctx context.Context, id int64) (*model.Snapshot, error) {
	query, args, err := sq.Select(snapshotColumns...).
		From("snapshots").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	snap, err := scanSnapshot(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// SnapshotMetadata summarizes a snapshot without its records.
type SnapshotMetadata struct {
	ID               int64     `json:"id"`
	Source           string    `json:"source"`
	TakenAt          time.Time `json:"taken_at"`
	Hash             string    `json:"hash"`
	PublicationCount int       `json:"publication_count"`
}

// History returns snapshot metadata, newest first.
// A non-positive limit returns every snapshot.
func (s *SnapshotDB) History(ctx context.Context, limit int) ([]SnapshotMetadata, error) {
	builder := sq.Select("id", "source", "taken_at", "hash", "publication_count").
		From("snapshots").
		OrderBy("id DESC")
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot history: %w", err)
	}
	defer rows.Close()

	results := make([]SnapshotMetadata, 0)
	for rows.Next() {
		var meta SnapshotMetadata
		var takenAt string
		if err := rows.Scan(&meta.ID, &meta.Source, &takenAt, &meta.Hash, &meta.PublicationCount); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}
		meta.TakenAt = parseTimestamp(takenAt)
		results = append(results, meta)
	}
	return results, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row rowScanner) (*model.Snapshot, error) {
	var (
		snap     model.Snapshot
		takenAt  string
		pubsJSON string
	)
	if err := row.Scan(&snap.ID, &snap.Source, &takenAt, &snap.Hash, &pubsJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan snapshot: %w", err)
	}
	snap.TakenAt = parseTimestamp(takenAt)
	if err := json.Unmarshal([]byte(pubsJSON), &snap.Publications); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot %d: %w", snap.ID, err)
	}
	if snap.Publications == nil {
		snap.Publications = []model.Publication{}
	}
	return &snap, nil
}

// timestampFormats are tried in order when reading taken_at.
var timestampFormats = []string{
	timestampLayout,
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
	time.RFC3339,
}

// parseTimestamp parses a stored UTC timestamp, returning the zero time
// when no format matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
