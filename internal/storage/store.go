package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"ledgerpro/internal/core"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Dialect names a supported SQL backend. Its value is also the directory
// holding the dialect's migrations.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

func (d Dialect) driverName() string {
	if d == Postgres {
		return "pgx"
	}
	return "sqlite"
}

// Store is the persistence gateway for ledgers, categories and records.
// Queries are written with ? placeholders and rebound per dialect.
type Store struct {
	db      *sql.DB
	dialect Dialect
	dsn     string
}

// NewSQLiteStore opens (creating if needed) the database file at dbPath.
func NewSQLiteStore(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	s, err := open(SQLite, dbPath)
	if err != nil {
		return nil, err
	}
	// A single connection serialises writers; SQLite allows one at a time.
	s.db.SetMaxOpenConns(1)
	return s, nil
}

// NewPostgresStore connects to the database at url.
func NewPostgresStore(url string) (*Store, error) {
	return open(Postgres, url)
}

func open(dialect Dialect, dsn string) (*Store, error) {
	db, err := sql.Open(dialect.driverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", dialect, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: db, dialect: dialect, dsn: dsn}, nil
}

func (s *Store) Dialect() Dialect { return s.dialect }

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// rebind rewrites ? placeholders into $n for postgres.
func (s *Store) rebind(query string) string {
	if s.dialect != Postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Init applies pending migrations and seeds the default ledger with its
// categories when no ledger exists yet. Safe to call on every start.
func (s *Store) Init(ctx context.Context) error {
	if err := RunMigrations(s.dialect, s.dsn); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM ledgers").Scan(&count); err != nil {
		return fmt.Errorf("count ledgers: %w", err)
	}
	if count > 0 {
		return nil
	}

	id, ok, err := s.insertLedger(ctx, tx, core.DefaultLedgerName, core.DefaultCategories)
	if err != nil {
		return fmt.Errorf("seed default ledger: %w", err)
	}
	if !ok {
		return nil
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}

	slog.InfoContext(ctx, "Seeded default ledger", "ledger_id", id, "categories", len(core.DefaultCategories))
	return nil
}

// insertLedger adds a ledger and its seed categories inside tx.
// ok is false when the name is already taken.
func (s *Store) insertLedger(ctx context.Context, tx *sql.Tx, name string, categories []string) (int64, bool, error) {
	var id int64
	err := tx.QueryRowContext(ctx,
		s.rebind("INSERT INTO ledgers (name) VALUES (?) ON CONFLICT DO NOTHING RETURNING id"),
		name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("insert ledger: %w", err)
	}

	q := s.rebind("INSERT INTO categories (ledger_id, name) VALUES (?, ?) ON CONFLICT DO NOTHING")
	for _, c := range categories {
		if _, err := tx.ExecContext(ctx, q, id, c); err != nil {
			return 0, false, fmt.Errorf("insert category %s: %w", c, err)
		}
	}
	return id, true, nil
}

func (s *Store) ListLedgers(ctx context.Context) ([]core.Ledger, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name FROM ledgers ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list ledgers: %w", err)
	}
	defer rows.Close()

	ledgers := []core.Ledger{}
	for rows.Next() {
		var l core.Ledger
		if err := rows.Scan(&l.ID, &l.Name); err != nil {
			return nil, fmt.Errorf("scan ledger: %w", err)
		}
		ledgers = append(ledgers, l)
	}
	return ledgers, rows.Err()
}

// AddLedger creates a ledger seeded with the new-ledger category subset.
// It returns false without error when the name already exists.
func (s *Store) AddLedger(ctx context.Context, name string) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	id, ok, err := s.insertLedger(ctx, tx, name, core.NewLedgerCategories)
	if err != nil || !ok {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit ledger: %w", err)
	}

	slog.InfoContext(ctx, "Ledger created", "ledger_id", id, "name", name)
	return true, nil
}

// DeleteLedger removes a ledger with all its records and categories and
// returns the ids of the removed records. The last-ledger check runs in the
// same transaction as the deletes, so two concurrent calls cannot both pass it.
func (s *Store) DeleteLedger(ctx context.Context, id int64) ([]int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if s.dialect == Postgres {
		if _, err := tx.ExecContext(ctx, "LOCK TABLE ledgers IN SHARE ROW EXCLUSIVE MODE"); err != nil {
			return nil, fmt.Errorf("lock ledgers: %w", err)
		}
	}

	var count int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM ledgers").Scan(&count); err != nil {
		return nil, fmt.Errorf("count ledgers: %w", err)
	}
	if count <= 1 {
		return nil, core.ErrLastLedger
	}

	removed, err := recordIDs(ctx, tx, s.rebind("SELECT id FROM records WHERE ledger_id = ? ORDER BY id"), id)
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, s.rebind("DELETE FROM records WHERE ledger_id = ?"), id); err != nil {
		return nil, fmt.Errorf("delete ledger records: %w", err)
	}
	if _, err := tx.ExecContext(ctx, s.rebind("DELETE FROM categories WHERE ledger_id = ?"), id); err != nil {
		return nil, fmt.Errorf("delete ledger categories: %w", err)
	}
	res, err := tx.ExecContext(ctx, s.rebind("DELETE FROM ledgers WHERE id = ?"), id)
	if err != nil {
		return nil, fmt.Errorf("delete ledger: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, core.ErrLedgerNotFound
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit ledger delete: %w", err)
	}
	return removed, nil
}

func recordIDs(ctx context.Context, tx *sql.Tx, query string, args ...any) ([]int64, error) {
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list ledger record ids: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan record id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *Store) ListCategories(ctx context.Context, ledgerID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		s.rebind("SELECT name FROM categories WHERE ledger_id = ? ORDER BY id"), ledgerID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// AddCategory returns false without error when the ledger already has name.
func (s *Store) AddCategory(ctx context.Context, ledgerID int64, name string) (bool, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		s.rebind("INSERT INTO categories (ledger_id, name) VALUES (?, ?) ON CONFLICT DO NOTHING RETURNING id"),
		ledgerID, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("insert category: %w", err)
	}
	return true, nil
}

// DeleteCategory is a no-op when the category does not exist. Records keep
// their copy of the name.
func (s *Store) DeleteCategory(ctx context.Context, ledgerID int64, name string) error {
	if _, err := s.db.ExecContext(ctx,
		s.rebind("DELETE FROM categories WHERE ledger_id = ? AND name = ?"), ledgerID, name); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// SaveRecord inserts r as is and returns the new id. Validation is the
// caller's job.
func (s *Store) SaveRecord(ctx context.Context, r core.Record) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		s.rebind(`INSERT INTO records (ledger_id, date, type, category, amount, note)
			VALUES (?, ?, ?, ?, ?, ?) RETURNING id`),
		r.LedgerID, r.Date.String(), string(r.Direction), r.Category, r.Amount.InexactFloat64(), r.Note,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert record: %w", err)
	}

	slog.DebugContext(ctx, "Record saved",
		"id", id,
		"ledger_id", r.LedgerID,
		"type", r.Direction,
		"amount", r.Amount.String())
	return id, nil
}

const recordColumns = "id, ledger_id, date, type, category, amount, COALESCE(note, '')"

func (s *Store) ListRecords(ctx context.Context, ledgerID int64) ([]core.Record, error) {
	return s.queryRecords(ctx,
		"SELECT "+recordColumns+" FROM records WHERE ledger_id = ? ORDER BY date DESC, id DESC",
		ledgerID)
}

// ListRecordsInRange returns records dated within [start, end], newest first.
func (s *Store) ListRecordsInRange(ctx context.Context, ledgerID int64, start, end civil.Date) ([]core.Record, error) {
	return s.queryRecords(ctx,
		"SELECT "+recordColumns+" FROM records WHERE ledger_id = ? AND date >= ? AND date <= ? ORDER BY date DESC, id DESC",
		ledgerID, start.String(), end.String())
}

func (s *Store) GetRecord(ctx context.Context, id int64) (core.Record, error) {
	records, err := s.queryRecords(ctx, "SELECT "+recordColumns+" FROM records WHERE id = ?", id)
	if err != nil {
		return core.Record{}, err
	}
	if len(records) == 0 {
		return core.Record{}, core.ErrRecordNotFound
	}
	return records[0], nil
}

// DeleteRecord removes the record with id and reports the ledger it
// belonged to. deleted is false when no such record exists.
func (s *Store) DeleteRecord(ctx context.Context, id int64) (ledgerID int64, deleted bool, err error) {
	err = s.db.QueryRowContext(ctx,
		s.rebind("DELETE FROM records WHERE id = ? RETURNING ledger_id"), id).Scan(&ledgerID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("delete record: %w", err)
	}
	return ledgerID, true, nil
}

func (s *Store) queryRecords(ctx context.Context, query string, args ...any) ([]core.Record, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	records := []core.Record{}
	for rows.Next() {
		var (
			r      core.Record
			date   string
			typ    string
			amount float64
		)
		if err := rows.Scan(&r.ID, &r.LedgerID, &date, &typ, &r.Category, &amount, &r.Note); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		if r.Date, err = civil.ParseDate(date); err != nil {
			return nil, fmt.Errorf("parse record %d date %q: %w", r.ID, date, err)
		}
		// Rows written before the type column was normalised may still hold
		// a localized literal.
		if r.Direction, err = core.ParseDirection(typ); err != nil {
			return nil, fmt.Errorf("parse record %d type %q: %w", r.ID, typ, err)
		}
		r.Amount = decimal.NewFromFloat(amount).Round(2)
		records = append(records, r)
	}
	return records, rows.Err()
}
