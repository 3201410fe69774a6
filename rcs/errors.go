package rcs

import (
	"fmt"

	"github.com/ben-cohen/editrcs/num"
)

// ErrLex - malformed token or unterminated @-string. Offset is the byte
// offset of the offending token (for an unterminated string, its opening
// '@').
type ErrLex struct {
	Offset int
	Msg    string
}

func (e *ErrLex) Error() string {
	return fmt.Sprintf("lex error at offset %d: %s", e.Offset, e.Msg)
}

// ErrParse - grammar violation at Offset; Expected describes what the
// parser was looking for.
type ErrParse struct {
	Offset   int
	Expected string
}

func (e *ErrParse) Error() string {
	return fmt.Sprintf("parse error at offset %d: expected %s", e.Offset, e.Expected)
}

// ErrUnknownRevision - a reference to a revision absent from the delta map.
type ErrUnknownRevision struct {
	Num num.Num
}

func (e *ErrUnknownRevision) Error() string {
	return fmt.Sprintf("unknown revision %s", e.Num)
}

// ErrDuplicateRevision - AddDelta over an existing key.
type ErrDuplicateRevision struct {
	Num num.Num
}

func (e *ErrDuplicateRevision) Error() string {
	return fmt.Sprintf("duplicate revision %s", e.Num)
}

// ErrInvariant - a setter refused a value that would break a file
// invariant.
type ErrInvariant struct {
	Field string
	Msg   string
}

func (e *ErrInvariant) Error() string {
	return fmt.Sprintf("invariant violation on %s: %s", e.Field, e.Msg)
}
