package table

import (
	"fmt"
	"strings"
)

// FunctionalDependency is LHS → RHS over attribute names.
type FunctionalDependency struct {
	LHS []string `yaml:"lhs"`
	RHS []string `yaml:"rhs"`
}

// NewFunctionalDependency validates and returns lhs → rhs.
func NewFunctionalDependency(lhs, rhs []string) (FunctionalDependency, error) {
	fd := FunctionalDependency{
		LHS: append([]string(nil), lhs...),
		RHS: append([]string(nil), rhs...),
	}
	if err := fd.Validate(); err != nil {
		return FunctionalDependency{}, err
	}

	return fd, nil
}

// Validate checks that both sides are non-empty and carry no empty names.
func (fd FunctionalDependency) Validate() error {
	if len(fd.LHS) == 0 || len(fd.RHS) == 0 {
		return fmt.Errorf("%w: %s", ErrInvalidDependency, fd)
	}
	for _, a := range fd.LHS {
		if strings.TrimSpace(a) == "" {
			return fmt.Errorf("%w: empty lhs attribute", ErrInvalidDependency)
		}
	}
	for _, a := range fd.RHS {
		if strings.TrimSpace(a) == "" {
			return fmt.Errorf("%w: empty rhs attribute", ErrInvalidDependency)
		}
	}

	return nil
}

// IsConflict reports whether a and b violate fd: equal on every LHS attribute
// and different on at least one RHS attribute.
//
// Complexity: O(|LHS| + |RHS|).
func (fd FunctionalDependency) IsConflict(a, b Row) (bool, error) {
	var (
		av, bv string
		err    error
	)
	for _, attr := range fd.LHS {
		if av, err = a.Field(attr); err != nil {
			return false, err
		}
		if bv, err = b.Field(attr); err != nil {
			return false, err
		}
		if av != bv {
			return false, nil
		}
	}
	for _, attr := range fd.RHS {
		if av, err = a.Field(attr); err != nil {
			return false, err
		}
		if bv, err = b.Field(attr); err != nil {
			return false, err
		}
		if av != bv {
			return true, nil
		}
	}

	return false, nil
}

// Attributes returns LHS followed by RHS.
func (fd FunctionalDependency) Attributes() []string {
	out := make([]string, 0, len(fd.LHS)+len(fd.RHS))
	out = append(out, fd.LHS...)

	return append(out, fd.RHS...)
}

// String renders fd as "a,b -> c".
func (fd FunctionalDependency) String() string {
	return strings.Join(fd.LHS, ",") + " -> " + strings.Join(fd.RHS, ",")
}
