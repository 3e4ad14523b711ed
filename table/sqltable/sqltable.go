// Package sqltable is a database/sql row source. Conflict lookup and
// predicate search run as SQL on the server; only row keys are kept in
// memory.
//
// Row indices are positions in ascending key order, fixed when the table is
// opened (or refreshed). Values are compared as byte strings, matching the
// in-memory predicate semantics; NULL reads as the empty string.
//
// Drivers: modernc.org/sqlite ("sqlite") and github.com/go-sql-driver/mysql
// ("mysql") are registered by this package.
package sqltable

import (
	"database/sql"
	"iter"
	"sort"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/katalvlaran/conflictcover/predicate"
	"github.com/katalvlaran/conflictcover/table"
)

var (
	// ErrNoKey indicates no ordering column was given for a dialect without a default.
	ErrNoKey = errors.New("sqltable: key column required")

	// ErrUnknownDriver indicates a driver name without a known dialect.
	ErrUnknownDriver = errors.New("sqltable: unknown driver")

	// ErrStaleSnapshot indicates a key that was not present when the table was opened.
	ErrStaleSnapshot = errors.New("sqltable: row key not in snapshot")
)

// Config names the table and the columns it is read through.
type Config struct {
	Table        string
	Key          string // integer ordering column; SQLite defaults to rowid
	Dialect      Dialect
	Dependencies []table.FunctionalDependency
}

// Table is a row source over one SQL table.
type Table struct {
	db      *sql.DB
	owned   bool
	cfg     Config
	name    string // quoted table name
	key     string // quoted key column
	columns []string
	keys    []int64 // ascending; index i <-> keys[i]
}

// Open opens dsn with driver and wraps cfg.Table. The dialect follows the
// driver name. Close releases the connection.
func Open(driver, dsn string, cfg Config) (*Table, error) {
	d, ok := DialectFor(driver)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownDriver, "%q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "sqltable: open %s", driver)
	}
	cfg.Dialect = d
	t, err := New(db, cfg)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	t.owned = true

	return t, nil
}

// New wraps an open database. The caller keeps ownership of db.
func New(db *sql.DB, cfg Config) (*Table, error) {
	if cfg.Key == "" {
		cfg.Key = cfg.Dialect.defaultKey()
	}
	if cfg.Key == "" {
		return nil, ErrNoKey
	}
	t := &Table{
		db:   db,
		cfg:  cfg,
		name: cfg.Dialect.quote(cfg.Table),
		key:  cfg.Dialect.quote(cfg.Key),
	}
	if err := t.loadColumns(); err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(t.columns))
	for _, c := range t.columns {
		known[c] = true
	}
	for _, fd := range cfg.Dependencies {
		if err := fd.Validate(); err != nil {
			return nil, err
		}
		for _, a := range fd.Attributes() {
			if !known[a] {
				return nil, errors.Wrapf(table.ErrInvalidDependency, "%s: unknown column %q", fd, a)
			}
		}
	}
	if err := t.Refresh(); err != nil {
		return nil, err
	}

	return t, nil
}

func (t *Table) loadColumns() error {
	rows, err := t.db.Query("SELECT * FROM " + t.name + " LIMIT 0")
	if err != nil {
		return errors.Wrapf(err, "sqltable: describe %s", t.cfg.Table)
	}
	defer rows.Close()
	cols, err := rows.Columns()
	if err != nil {
		return errors.Wrapf(err, "sqltable: columns of %s", t.cfg.Table)
	}
	t.columns = cols

	return nil
}

// Refresh reloads the key snapshot that defines row indices.
func (t *Table) Refresh() error {
	rows, err := t.db.Query("SELECT " + t.key + " FROM " + t.name + " ORDER BY " + t.key)
	if err != nil {
		return errors.Wrapf(err, "sqltable: list keys of %s", t.cfg.Table)
	}
	defer rows.Close()
	var keys []int64
	for rows.Next() {
		var k int64
		if err = rows.Scan(&k); err != nil {
			return errors.Wrap(err, "sqltable: scan key")
		}
		keys = append(keys, k)
	}
	if err = rows.Err(); err != nil {
		return errors.Wrap(err, "sqltable: list keys")
	}
	t.keys = keys

	return nil
}

// Close closes the database if the Table opened it.
func (t *Table) Close() error {
	if !t.owned {
		return nil
	}

	return t.db.Close()
}

// Columns returns the column names of the table.
func (t *Table) Columns() []string { return append([]string(nil), t.columns...) }

// TotalRowCount returns the size of the key snapshot.
func (t *Table) TotalRowCount() (int, error) { return len(t.keys), nil }

// Rows streams all rows in key order. Each call runs a fresh query.
func (t *Table) Rows() iter.Seq2[table.Row, error] {
	return func(yield func(table.Row, error) bool) {
		cols := make([]string, len(t.columns))
		for i, c := range t.columns {
			cols[i] = t.cfg.Dialect.quote(c)
		}
		q := "SELECT " + t.key + ", " + strings.Join(cols, ", ") + " FROM " + t.name + " ORDER BY " + t.key
		rows, err := t.db.Query(q)
		if err != nil {
			yield(nil, errors.Wrapf(err, "sqltable: scan %s", t.cfg.Table))
			return
		}
		defer rows.Close()

		var (
			key  int64
			vals = make([]sql.NullString, len(t.columns))
			dest = make([]any, len(t.columns)+1)
		)
		dest[0] = &key
		for i := range vals {
			dest[i+1] = &vals[i]
		}
		for rows.Next() {
			if err = rows.Scan(dest...); err != nil {
				yield(nil, errors.Wrap(err, "sqltable: scan row"))
				return
			}
			idx, ok := t.indexOf(key)
			if !ok {
				yield(nil, errors.Wrapf(ErrStaleSnapshot, "key %d", key))
				return
			}
			fields := make(map[string]string, len(t.columns))
			for i, c := range t.columns {
				fields[c] = vals[i].String
			}
			if !yield(table.NewRecord(idx, fields), nil) {
				return
			}
		}
		if err = rows.Err(); err != nil {
			yield(nil, errors.Wrap(err, "sqltable: scan rows"))
		}
	}
}

// FindConflicts returns, ascending, the rows that violate a dependency
// together with row. One query per dependency:
//
//	SELECT key FROM t WHERE lhs_1 = ? AND ... AND (rhs_1 <> ? OR ...)
func (t *Table) FindConflicts(row table.Row) ([]int, error) {
	seen := make(map[int]struct{})
	for _, fd := range t.cfg.Dependencies {
		var (
			where []string
			diff  []string
			args  []any
		)
		for _, a := range fd.LHS {
			v, err := row.Field(a)
			if err != nil {
				return nil, err
			}
			where = append(where, t.cfg.Dialect.text(a)+" = ?")
			args = append(args, v)
		}
		for _, a := range fd.RHS {
			v, err := row.Field(a)
			if err != nil {
				return nil, err
			}
			diff = append(diff, t.cfg.Dialect.text(a)+" <> ?")
			args = append(args, v)
		}
		where = append(where, "("+strings.Join(diff, " OR ")+")")
		ids, err := t.queryIDs(strings.Join(where, " AND "), args)
		if err != nil {
			return nil, errors.Wrapf(err, "sqltable: conflicts of row %d under %s", row.Index(), fd)
		}
		for _, id := range ids {
			if id != row.Index() {
				seen[id] = struct{}{}
			}
		}
	}
	out := make([]int, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Ints(out)

	return out, nil
}

// Search returns the ascending ids of the rows satisfying p, evaluated in SQL.
func (t *Table) Search(p *predicate.Predicate) ([]int, error) {
	known := make(map[string]bool, len(t.columns))
	for _, c := range t.columns {
		known[c] = true
	}
	for _, a := range p.Attributes() {
		if !known[a] {
			return nil, errors.Wrapf(table.ErrMissingField, "sqltable: column %q", a)
		}
	}
	w := predicate.Fold[whereClause](p, whereRenderer{d: t.cfg.Dialect})
	ids, err := t.queryIDs(w.sql, w.args)
	if err != nil {
		return nil, errors.Wrapf(err, "sqltable: search %q", p.String())
	}

	return ids, nil
}

func (t *Table) queryIDs(where string, args []any) ([]int, error) {
	rows, err := t.db.Query("SELECT "+t.key+" FROM "+t.name+" WHERE "+where+" ORDER BY "+t.key, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []int
	for rows.Next() {
		var k int64
		if err = rows.Scan(&k); err != nil {
			return nil, err
		}
		idx, ok := t.indexOf(k)
		if !ok {
			return nil, errors.Wrapf(ErrStaleSnapshot, "key %d", k)
		}
		out = append(out, idx)
	}

	return out, rows.Err()
}

func (t *Table) indexOf(key int64) (int, bool) {
	i := sort.Search(len(t.keys), func(i int) bool { return t.keys[i] >= key })

	return i, i < len(t.keys) && t.keys[i] == key
}

// whereClause is a rendered SQL condition with its positional arguments.
type whereClause struct {
	sql  string
	args []any
}

// whereRenderer folds a predicate into a parameterised WHERE clause.
type whereRenderer struct{ d Dialect }

func (whereRenderer) True() whereClause { return whereClause{sql: "1 = 1"} }

func (r whereRenderer) Compare(attr string, op predicate.Op, value string) whereClause {
	sqlOp := op.String()
	if op == predicate.NE {
		sqlOp = "<>"
	}

	return whereClause{sql: r.d.text(attr) + " " + sqlOp + " ?", args: []any{value}}
}

func (whereRenderer) Combine(c predicate.Conj, l, r whereClause) whereClause {
	word := "AND"
	if c == predicate.Or {
		word = "OR"
	}

	return whereClause{
		sql:  "(" + l.sql + " " + word + " " + r.sql + ")",
		args: append(append([]any(nil), l.args...), r.args...),
	}
}
