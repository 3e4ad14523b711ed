package table_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/conflictcover/table"
)

func TestRecord_FieldAndMissing(t *testing.T) {
	src := map[string]string{"city": "Kyiv", "zip": "01001"}
	r := table.NewRecord(7, src)
	src["city"] = "mutated" // the record owns a copy

	v, err := r.Field("city")
	require.NoError(t, err)
	assert.Equal(t, "Kyiv", v)
	assert.Equal(t, 7, r.Index())
	assert.Equal(t, []string{"city", "zip"}, r.Attributes())

	_, err = r.Field("country")
	require.Error(t, err)
	assert.ErrorIs(t, err, table.ErrMissingField)
	var mf *table.MissingFieldError
	require.True(t, errors.As(err, &mf))
	assert.Equal(t, "country", mf.Field)
	assert.Equal(t, 7, mf.Row)
}

func TestValues(t *testing.T) {
	r := table.NewRecord(0, map[string]string{"a": "1", "b": "2"})
	vals, err := table.Values(r, []string{"b", "a"})
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "1"}, vals)

	_, err = table.Values(r, []string{"a", "c"})
	assert.ErrorIs(t, err, table.ErrMissingField)
}

func TestFunctionalDependency_IsConflict(t *testing.T) {
	fd, err := table.NewFunctionalDependency([]string{"zip"}, []string{"city"})
	require.NoError(t, err)
	assert.Equal(t, "zip -> city", fd.String())

	a := table.NewRecord(0, map[string]string{"zip": "01001", "city": "Kyiv"})
	b := table.NewRecord(1, map[string]string{"zip": "01001", "city": "Lviv"})
	c := table.NewRecord(2, map[string]string{"zip": "79000", "city": "Lviv"})
	d := table.NewRecord(3, map[string]string{"zip": "01001", "city": "Kyiv"})

	cases := []struct {
		name string
		x, y table.Row
		want bool
	}{
		{"same lhs different rhs", a, b, true},
		{"different lhs", b, c, false},
		{"identical", a, d, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := fd.IsConflict(tc.x, tc.y)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err = fd.IsConflict(a, table.NewRecord(4, map[string]string{"zip": "01001"}))
	assert.ErrorIs(t, err, table.ErrMissingField)
}

func TestFunctionalDependency_Validate(t *testing.T) {
	_, err := table.NewFunctionalDependency(nil, []string{"b"})
	assert.ErrorIs(t, err, table.ErrInvalidDependency)
	_, err = table.NewFunctionalDependency([]string{"a"}, []string{" "})
	assert.ErrorIs(t, err, table.ErrInvalidDependency)

	fd, err := table.NewFunctionalDependency([]string{"a", "b"}, []string{"c"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, fd.Attributes())
}
