package num

import (
	"fmt"
	"strconv"
	"strings"
)

// Num - an RCS revision numeral, e.g. "1.2" or "1.3.1.4".
// An even number of components names a revision, an odd number names a
// branch ("1.3.1" is the first branch off "1.3"). The empty string is the
// absent marker used for an unborn head and for the next field of the
// trunk tail.
type Num string

// ErrInvalid is returned when arithmetic operands have incompatible shapes.
type ErrInvalid struct {
	A  Num
	B  Num
	Op string
}

func (e *ErrInvalid) Error() string {
	return fmt.Sprintf("invalid revision number in %s: '%s', '%s'", e.Op, e.A, e.B)
}

// Components splits a Num into its integer components.
// The absent marker yields a nil slice.
func (n Num) Components() ([]int, error) {
	if n == "" {
		return nil, nil
	}
	parts := strings.Split(string(n), ".")
	result := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 || p == "" {
			return nil, &ErrInvalid{A: n, Op: "parse"}
		}
		result = append(result, v)
	}
	return result, nil
}

func join(c []int) Num {
	parts := make([]string, 0, len(c))
	for _, v := range c {
		parts = append(parts, strconv.Itoa(v))
	}
	return Num(strings.Join(parts, "."))
}

// IsRevision reports whether n has an even number of components.
func (n Num) IsRevision() bool {
	if n == "" {
		return false
	}
	return strings.Count(string(n), ".")%2 == 1
}

// IsBranch reports whether n has an odd number of components.
func (n Num) IsBranch() bool {
	if n == "" {
		return false
	}
	return strings.Count(string(n), ".")%2 == 0
}

// HasPrefix reports whether prefix is a leading component sequence of n,
// e.g. "1.3.1.2" has prefixes "1.3" and "1.3.1".
func (n Num) HasPrefix(prefix Num) bool {
	if prefix == "" {
		return true
	}
	s, p := string(n), string(prefix)
	return s == p || (len(s) > len(p) && s[:len(p)] == p && s[len(p)] == '.')
}

// Compare orders two numerals component by component, numerically.
// A prefix sorts before any extension of itself. Returns -1, 0 or 1.
func Compare(a, b Num) (int, error) {
	ca, err := a.Components()
	if err != nil {
		return 0, err
	}
	cb, err := b.Components()
	if err != nil {
		return 0, err
	}
	for i := 0; i < len(ca) && i < len(cb); i++ {
		if ca[i] != cb[i] {
			if ca[i] < cb[i] {
				return -1, nil
			}
			return 1, nil
		}
	}
	switch {
	case len(ca) < len(cb):
		return -1, nil
	case len(ca) > len(cb):
		return 1, nil
	}
	return 0, nil
}

// Increment adds delta to n positionally. Components of n beyond the
// length of delta are copied through: Increment("1.4.2.3", "0.1") is
// "1.5.2.3". A delta longer than n is an error.
func Increment(n, delta Num) (Num, error) {
	cn, err := n.Components()
	if err != nil {
		return "", err
	}
	cd, err := delta.Components()
	if err != nil {
		return "", err
	}
	if len(cd) > len(cn) {
		return "", &ErrInvalid{A: n, B: delta, Op: "increment"}
	}
	result := make([]int, len(cn))
	copy(result, cn)
	for i, v := range cd {
		result[i] += v
	}
	return join(result), nil
}

// Decrement subtracts b from a positionally, producing the additive
// offset between two revisions on the same branch. Zero components are
// legal in the result; a negative component or a longer b is an error.
func Decrement(a, b Num) (Num, error) {
	ca, err := a.Components()
	if err != nil {
		return "", err
	}
	cb, err := b.Components()
	if err != nil {
		return "", err
	}
	if len(cb) > len(ca) {
		return "", &ErrInvalid{A: a, B: b, Op: "decrement"}
	}
	result := make([]int, len(ca))
	copy(result, ca)
	for i, v := range cb {
		result[i] -= v
		if result[i] < 0 {
			return "", &ErrInvalid{A: a, B: b, Op: "decrement"}
		}
	}
	return join(result), nil
}
