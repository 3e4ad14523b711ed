package sqltable

import "strings"

// Dialect renders identifiers and text comparisons for one SQL engine.
type Dialect uint8

// Supported dialects.
const (
	SQLite Dialect = iota
	MySQL
)

// DialectFor maps a database/sql driver name to its dialect.
func DialectFor(driver string) (Dialect, bool) {
	switch driver {
	case "sqlite", "sqlite3":
		return SQLite, true
	case "mysql":
		return MySQL, true
	}

	return 0, false
}

// String returns the driver name of d.
func (d Dialect) String() string {
	if d == MySQL {
		return "mysql"
	}

	return "sqlite"
}

// quote returns name as a quoted identifier.
func (d Dialect) quote(name string) string {
	if d == MySQL {
		return "`" + strings.ReplaceAll(name, "`", "``") + "`"
	}

	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// text returns an expression comparing column name byte-wise as a string,
// with NULL read as the empty string.
func (d Dialect) text(name string) string {
	if d == MySQL {
		return "COALESCE(CAST(" + d.quote(name) + " AS BINARY), '')"
	}

	return "COALESCE(CAST(" + d.quote(name) + " AS TEXT), '')"
}

// defaultKey is the ordering column used when Config.Key is empty.
func (d Dialect) defaultKey() string {
	if d == SQLite {
		return "rowid"
	}

	return ""
}
