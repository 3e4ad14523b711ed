// Package memtable is an in-memory row source. Rows are indexed by the
// left-hand side of every functional dependency, so FindConflicts only
// compares a row against rows sharing its LHS values.
package memtable

import (
	"encoding/csv"
	"io"
	"iter"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/katalvlaran/conflictcover/predicate"
	"github.com/katalvlaran/conflictcover/table"
)

// ErrNoColumns indicates a table without columns (for CSV: an empty header).
var ErrNoColumns = errors.New("memtable: no columns")

// Table holds rows in insertion order; row i has index i.
// Reads are safe for concurrent use once loading is finished.
type Table struct {
	columns []string
	rows    []table.Record
	fds     []table.FunctionalDependency
	index   []map[string][]int // per FD: LHS key -> row ids, ascending
}

// New returns an empty table with the given columns and dependencies. Every
// dependency attribute must be a column.
func New(columns []string, fds []table.FunctionalDependency) (*Table, error) {
	if len(columns) == 0 {
		return nil, ErrNoColumns
	}
	known := make(map[string]bool, len(columns))
	for _, c := range columns {
		known[c] = true
	}
	t := &Table{
		columns: append([]string(nil), columns...),
		fds:     append([]table.FunctionalDependency(nil), fds...),
		index:   make([]map[string][]int, len(fds)),
	}
	for i, fd := range fds {
		if err := fd.Validate(); err != nil {
			return nil, err
		}
		for _, a := range fd.Attributes() {
			if !known[a] {
				return nil, errors.Wrapf(table.ErrInvalidDependency, "%s: unknown column %q", fd, a)
			}
		}
		t.index[i] = make(map[string][]int)
	}

	return t, nil
}

// Append adds a row and returns its index. Every column must be present.
func (t *Table) Append(fields map[string]string) (int, error) {
	idx := len(t.rows)
	for _, c := range t.columns {
		if _, ok := fields[c]; !ok {
			return 0, &table.MissingFieldError{Field: c, Row: idx}
		}
	}
	rec := table.NewRecord(idx, fields)
	for i, fd := range t.fds {
		key, err := lhsKey(fd, rec)
		if err != nil {
			return 0, err
		}
		t.index[i][key] = append(t.index[i][key], idx)
	}
	t.rows = append(t.rows, rec)

	return idx, nil
}

// Columns returns the column names in declaration order.
func (t *Table) Columns() []string { return append([]string(nil), t.columns...) }

// Dependencies returns the functional dependencies the table is indexed by.
func (t *Table) Dependencies() []table.FunctionalDependency {
	return append([]table.FunctionalDependency(nil), t.fds...)
}

// Row returns row i.
func (t *Table) Row(i int) (table.Record, bool) {
	if i < 0 || i >= len(t.rows) {
		return table.Record{}, false
	}

	return t.rows[i], true
}

// TotalRowCount returns the number of rows.
func (t *Table) TotalRowCount() (int, error) { return len(t.rows), nil }

// Rows yields all rows in index order.
func (t *Table) Rows() iter.Seq2[table.Row, error] {
	return func(yield func(table.Row, error) bool) {
		for _, r := range t.rows {
			if !yield(r, nil) {
				return
			}
		}
	}
}

// FindConflicts returns, ascending and without duplicates, the rows that
// violate at least one dependency together with row. row itself is excluded.
//
// Complexity: O(F·B), F = dependencies, B = size of the LHS bucket.
func (t *Table) FindConflicts(row table.Row) ([]int, error) {
	seen := make(map[int]struct{})
	for i, fd := range t.fds {
		key, err := lhsKey(fd, row)
		if err != nil {
			return nil, err
		}
		for _, c := range t.index[i][key] {
			if c == row.Index() {
				continue
			}
			if _, dup := seen[c]; dup {
				continue
			}
			bad, err := fd.IsConflict(row, t.rows[c])
			if err != nil {
				return nil, err
			}
			if bad {
				seen[c] = struct{}{}
			}
		}
	}
	out := make([]int, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Ints(out)

	return out, nil
}

// Search returns the ascending ids of the rows satisfying p.
//
// Complexity: O(n·|p|).
func (t *Table) Search(p *predicate.Predicate) ([]int, error) {
	var out []int
	for _, r := range t.rows {
		ok, err := p.Satisfy(r)
		if err != nil {
			return nil, errors.Wrapf(err, "memtable: search %q", p.String())
		}
		if ok {
			out = append(out, r.Index())
		}
	}

	return out, nil
}

// lhsKey encodes the LHS values of r as a length-prefixed string, which is
// unambiguous for arbitrary values.
func lhsKey(fd table.FunctionalDependency, r table.Row) (string, error) {
	var b strings.Builder
	for _, a := range fd.LHS {
		v, err := r.Field(a)
		if err != nil {
			return "", err
		}
		b.WriteString(strconv.Itoa(len(v)))
		b.WriteByte(':')
		b.WriteString(v)
	}

	return b.String(), nil
}

// LoadCSV reads a table whose first record is the header.
func LoadCSV(r io.Reader, fds []table.FunctionalDependency) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrNoColumns
	}
	if err != nil {
		return nil, errors.Wrap(err, "memtable: read header")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	t, err := New(header, fds)
	if err != nil {
		return nil, err
	}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return t, nil
		}
		if err != nil {
			return nil, errors.Wrapf(err, "memtable: read row %d", len(t.rows))
		}
		fields := make(map[string]string, len(header))
		for i, c := range header {
			fields[c] = rec[i]
		}
		if _, err = t.Append(fields); err != nil {
			return nil, err
		}
	}
}

// LoadCSVFile is LoadCSV on the named file.
func LoadCSVFile(path string, fds []table.FunctionalDependency) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "memtable: open csv")
	}
	defer f.Close()

	t, err := LoadCSV(f, fds)
	if err != nil {
		return nil, errors.Wrapf(err, "memtable: load %s", path)
	}

	return t, nil
}
