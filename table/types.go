package table

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrMissingField indicates a row does not carry the requested attribute.
	ErrMissingField = errors.New("table: missing field")

	// ErrInvalidDependency indicates a functional dependency with an empty side
	// or an empty attribute name.
	ErrInvalidDependency = errors.New("table: invalid functional dependency")
)

// MissingFieldError reports the attribute and row that failed a lookup.
// It unwraps to ErrMissingField.
type MissingFieldError struct {
	Field string
	Row   int
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("table: row %d has no field %q", e.Row, e.Field)
}

// Unwrap exposes ErrMissingField to errors.Is.
func (e *MissingFieldError) Unwrap() error { return ErrMissingField }

// Row is a single tuple of a row source.
//
// Index is the stable dense row index in [0, TotalRowCount).
// Field returns the attribute value; an absent attribute is an error,
// never an empty string.
type Row interface {
	Index() int
	Field(name string) (string, error)
}

// Record is a map-backed Row. The zero value is an empty row with index 0.
type Record struct {
	index  int
	fields map[string]string
}

// NewRecord returns a Record with the given index. The fields map is copied.
func NewRecord(index int, fields map[string]string) Record {
	cp := make(map[string]string, len(fields))
	for k, v := range fields {
		cp[k] = v
	}

	return Record{index: index, fields: cp}
}

// Index returns the dense row index.
func (r Record) Index() int { return r.index }

// Field returns the value of attribute name or a *MissingFieldError.
func (r Record) Field(name string) (string, error) {
	v, ok := r.fields[name]
	if !ok {
		return "", &MissingFieldError{Field: name, Row: r.index}
	}

	return v, nil
}

// Attributes returns the attribute names of r in ascending order.
func (r Record) Attributes() []string {
	names := make([]string, 0, len(r.fields))
	for k := range r.fields {
		names = append(names, k)
	}
	sort.Strings(names)

	return names
}

// Values returns the values of attrs in order, failing on the first missing one.
//
// Complexity: O(len(attrs)).
func Values(r Row, attrs []string) ([]string, error) {
	out := make([]string, len(attrs))
	var (
		i   int
		err error
	)
	for i = range attrs {
		if out[i], err = r.Field(attrs[i]); err != nil {
			return nil, err
		}
	}

	return out, nil
}
