// Package sqlite implements the storage interface over a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/carlos-ecn/sprint-12-trending-youtube/internal/logging"
	"github.com/carlos-ecn/sprint-12-trending-youtube/internal/storage"
	"github.com/carlos-ecn/sprint-12-trending-youtube/internal/table"

	// Import SQLite driver
	_ "modernc.org/sqlite"
)

// TableName is the single persisted table all operations target.
const TableName = "trending_by_time"

var integerPattern = regexp.MustCompile(`^-?\d+$`)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

var _ storage.Store = (*SQLiteStore)(nil)

// New opens (creating if necessary) the database at path. The parent
// directory is created when missing. Any failure here is unrecoverable for
// the pipeline; callers treat it as fatal.
func New(path string) (*SQLiteStore, error) {
	// ":memory:" gives each pooled connection its own database; the
	// shared-cache URL keeps them on one.
	dbPath := path
	if path == ":memory:" {
		dbPath = "file::memory:?cache=shared"
	}

	if !strings.Contains(dbPath, ":memory:") {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	connStr := dbPath
	if strings.Contains(dbPath, "?") {
		connStr += "&_pragma=journal_mode(WAL)&_pragma=busy_timeout(30000)"
	} else {
		connStr += "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(30000)"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}
	logging.Infof("connected to database %s", absPath)

	return &SQLiteStore{db: db, dbPath: absPath}, nil
}

// Path returns the database file location.
func (s *SQLiteStore) Path() string {
	return s.dbPath
}

// Close releases the database connection pool.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ExistsForYear reports whether any row's trending_date starts with
// "<year>-". The LIMIT 1 keeps this an O(1)-ish ledger probe rather than a
// scan of the whole year.
func (s *SQLiteStore) ExistsForYear(ctx context.Context, year int) (bool, error) {
	if year <= 0 {
		logging.Warnf("no usable year for existence check; assuming data not ingested")
		return false, nil
	}

	query := fmt.Sprintf(`SELECT 1 FROM %s WHERE trending_date LIKE ? LIMIT 1`, TableName)
	var one int
	err := s.db.QueryRowContext(ctx, query, fmt.Sprintf("%d-%%", year)).Scan(&one)
	switch {
	case err == sql.ErrNoRows:
		return false, nil
	case isNoSuchTable(err):
		logging.Infof("table %q does not exist yet; no data for year %d", TableName, year)
		return false, nil
	case err != nil:
		return false, fmt.Errorf("existence check for year %d: %w", year, err)
	}
	logging.Infof("data for year %d already present in table %q", year, TableName)
	return true, nil
}

// Append writes all rows of tbl inside one transaction, creating the table
// with an inferred schema on first use. Later appends insert only the
// columns shared with the existing schema; incoming columns the table does
// not have are dropped, and existing columns the table has but the input
// lacks go NULL.
func (s *SQLiteStore) Append(ctx context.Context, tbl *table.Table) (int, error) {
	if tbl == nil || tbl.Empty() {
		logging.Warnf("empty table passed to append; nothing to persist")
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin append transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := createTableIfMissing(ctx, tx, tbl); err != nil {
		return 0, err
	}

	colTypes, colOrder, err := persistedColumns(ctx, tx)
	if err != nil {
		return 0, err
	}

	shared := make([]string, 0, len(tbl.Columns))
	for _, c := range colOrder {
		if tbl.HasColumn(c) {
			shared = append(shared, c)
		}
	}
	if len(shared) == 0 {
		return 0, fmt.Errorf("no overlap between incoming columns and table %q schema", TableName)
	}
	if len(shared) < len(tbl.Columns) {
		logging.Warnf("%d incoming column(s) not present in table %q; dropping them", len(tbl.Columns)-len(shared), TableName)
	}

	quoted := make([]string, len(shared))
	for i, c := range shared {
		quoted[i] = strconv.Quote(c)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(shared)), ",")
	insert := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`, TableName, strings.Join(quoted, ","), placeholders)

	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, row := range tbl.Rows {
		args := make([]interface{}, len(shared))
		for i, c := range shared {
			args[i] = bindValue(row[c], colTypes[c])
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return 0, fmt.Errorf("insert row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit append: %w", err)
	}
	logging.Infof("%d row(s) appended to table %q", tbl.Len(), TableName)
	return tbl.Len(), nil
}

// ScanAll reads the entire persisted table back. Table absence is reported
// as an empty result, distinguished in the log from real failures.
func (s *SQLiteStore) ScanAll(ctx context.Context) (*table.Table, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`SELECT * FROM %s`, TableName))
	if err != nil {
		if isNoSuchTable(err) {
			logging.Infof("table %q does not exist; nothing to scan", TableName)
			return table.New(nil), nil
		}
		return nil, fmt.Errorf("scan table %q: %w", TableName, err)
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read result columns: %w", err)
	}

	t := table.New(cols)
	vals := make([]interface{}, len(cols))
	ptrs := make([]interface{}, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		row := make(table.Row, len(cols))
		for i, c := range cols {
			row[c] = cellString(vals[i])
		}
		t.AddRow(row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return t, nil
}

// CountByDate groups the persisted table by trending_date in ascending
// order. An absent table yields an empty report.
func (s *SQLiteStore) CountByDate(ctx context.Context) ([]storage.DateCount, error) {
	query := fmt.Sprintf(`SELECT trending_date, COUNT(*) FROM %s GROUP BY trending_date ORDER BY trending_date`, TableName)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		if isNoSuchTable(err) {
			logging.Infof("table %q does not exist; no data to group", TableName)
			return nil, nil
		}
		return nil, fmt.Errorf("group by trending_date: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []storage.DateCount
	for rows.Next() {
		var dc storage.DateCount
		if err := rows.Scan(&dc.Date, &dc.Count); err != nil {
			return nil, fmt.Errorf("scan date group: %w", err)
		}
		out = append(out, dc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate date groups: %w", err)
	}
	return out, nil
}

// createTableIfMissing creates the persisted table with column types
// inferred from the incoming data: INTEGER when every non-empty cell of a
// column is an optionally-signed decimal, TEXT otherwise.
func createTableIfMissing(ctx context.Context, tx *sql.Tx, tbl *table.Table) error {
	defs := make([]string, 0, len(tbl.Columns))
	for _, c := range tbl.Columns {
		defs = append(defs, fmt.Sprintf("%s %s", strconv.Quote(c), inferColumnType(tbl, c)))
	}
	create := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (%s)`, TableName, strings.Join(defs, ", "))
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("create table %q: %w", TableName, err)
	}
	return nil
}

func inferColumnType(tbl *table.Table, col string) string {
	sawValue := false
	for _, row := range tbl.Rows {
		v := strings.TrimSpace(row[col])
		if v == "" {
			continue
		}
		sawValue = true
		if !integerPattern.MatchString(v) {
			return "TEXT"
		}
	}
	if !sawValue {
		return "TEXT"
	}
	return "INTEGER"
}

// persistedColumns returns the declared type per column and the column
// order of the existing table.
func persistedColumns(ctx context.Context, tx *sql.Tx) (map[string]string, []string, error) {
	rows, err := tx.QueryContext(ctx, fmt.Sprintf(`PRAGMA table_info(%s)`, TableName))
	if err != nil {
		return nil, nil, fmt.Errorf("read table schema: %w", err)
	}
	defer func() { _ = rows.Close() }()

	types := make(map[string]string)
	var order []string
	for rows.Next() {
		var cid, notnull, pk int
		var name, typ string
		var dflt *string
		if err := rows.Scan(&cid, &name, &typ, &notnull, &dflt, &pk); err != nil {
			return nil, nil, fmt.Errorf("scan column info: %w", err)
		}
		types[name] = strings.ToUpper(typ)
		order = append(order, name)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate column info: %w", err)
	}
	return types, order, nil
}

// bindValue picks the driver value for a cell. Cells destined for INTEGER
// columns bind as int64 when they parse; empty cells bind NULL.
func bindValue(cell, declaredType string) interface{} {
	v := strings.TrimSpace(cell)
	if v == "" {
		return nil
	}
	if declaredType == "INTEGER" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return cell
}

func cellString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

func isNoSuchTable(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "no such table")
}
