package rcs

import (
	"strings"
	"testing"

	"github.com/ben-cohen/editrcs/num"
	"github.com/stretchr/testify/assert"
)

// sample2 is in the emitter's canonical form, so it round-trips
// byte for byte.
const sample2 = `head	1.2;
access;
symbols
	release:1.2;
locks; strict;
comment	@# @;


1.2
date	24.01.10.12.00.00;	author ben;	state Exp;
branches;
next	1.1;

1.1
date	24.01.09.12.00.00;	author ben;	state Exp;
branches;
next	;


desc
@@


1.2
log
@second
@
text
@one
two
@


1.1
log
@first
@
text
@d2 1
@
`

func TestParseAdmin(t *testing.T) {
	r, err := Parse([]byte(sample2))
	assert.NoError(t, err)
	assert.Equal(t, num.Num("1.2"), r.Head())
	assert.Equal(t, num.Num(""), r.Branch())
	assert.Empty(t, r.Access())
	assert.Equal(t, []Symbol{{Name: "release", Num: "1.2"}}, r.Symbols())
	assert.Empty(t, r.Locks())
	assert.True(t, r.Strict())
	comment, ok := r.Comment()
	assert.True(t, ok)
	assert.Equal(t, "# ", comment)
	_, ok = r.Expand()
	assert.False(t, ok)
	assert.Equal(t, "", r.Desc())
}

func TestParseDeltas(t *testing.T) {
	r, err := Parse([]byte(sample2))
	assert.NoError(t, err)
	assert.Equal(t, 2, r.NumDeltas())
	assert.Equal(t, []num.Num{"1.2", "1.1"}, r.Revisions())

	head, err := r.Delta("1.2")
	assert.NoError(t, err)
	assert.Equal(t, "24.01.10.12.00.00", head.Date)
	assert.Equal(t, "ben", head.Author)
	assert.Equal(t, "Exp", head.State)
	assert.Equal(t, num.Num("1.1"), head.Next)
	assert.False(t, head.IsDiff)
	assert.Equal(t, "second\n", head.Log)
	assert.Equal(t, "one\ntwo\n", head.Text)

	tail, err := r.Delta("1.1")
	assert.NoError(t, err)
	assert.Equal(t, num.Num(""), tail.Next)
	assert.True(t, tail.IsDiff)
	assert.Equal(t, "d2 1\n", tail.Text)
}

func TestByteRoundTrip(t *testing.T) {
	r, err := Parse([]byte(sample2))
	assert.NoError(t, err)
	assert.Equal(t, sample2, r.String())
}

func TestSemanticRoundTrip(t *testing.T) {
	r, err := Parse([]byte(sample2))
	assert.NoError(t, err)
	r2, err := Parse([]byte(r.String()))
	assert.NoError(t, err)
	assert.Equal(t, r.String(), r2.String())
	assert.Equal(t, r.Head(), r2.Head())
	assert.Equal(t, r.Revisions(), r2.Revisions())
}

func TestParseQuoting(t *testing.T) {
	input := strings.Replace(sample2, "@second\n@", "@user@@host wrote this\n@", 1)
	r, err := Parse([]byte(input))
	assert.NoError(t, err)
	d, err := r.Delta("1.2")
	assert.NoError(t, err)
	assert.Equal(t, "user@host wrote this\n", d.Log)
	// Quoting is restored on the way out
	assert.Contains(t, r.String(), "@user@@host wrote this\n@")
}

func TestParseNewphrases(t *testing.T) {
	input := strings.Replace(sample2, "comment	@# @;\n",
		"comment	@# @;\nowner ben;\n", 1)
	input = strings.Replace(input, "next	1.1;\n",
		"next	1.1;\ncommitid 10abcd;\n", 1)
	r, err := Parse([]byte(input))
	assert.NoError(t, err)
	assert.Equal(t, []Phrase{{Name: "owner", Values: []string{"ben"}}}, r.Phrases())
	d, err := r.Delta("1.2")
	assert.NoError(t, err)
	assert.Equal(t, []Phrase{{Name: "commitid", Values: []string{"10abcd"}}}, d.Phrases)
	// preserved on re-emit
	out := r.String()
	assert.Contains(t, out, "owner ben;\n")
	assert.Contains(t, out, "commitid 10abcd;\n")
	_, err = Parse([]byte(out))
	assert.NoError(t, err)
}

func TestParseBranchSymbol(t *testing.T) {
	// Magic-branch and branch symbols don't need a matching delta
	input := strings.Replace(sample2, "	release:1.2;", "	release:1.2\n	stable:1.2.0.2\n	devel:1.2.1;", 1)
	r, err := Parse([]byte(input))
	assert.NoError(t, err)
	assert.Equal(t, 3, len(r.Symbols()))
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte("garbage"))
	var parseErr *ErrParse
	assert.ErrorAs(t, err, &parseErr)

	_, err = Parse([]byte(""))
	assert.Error(t, err)

	// head referencing a missing delta
	input := strings.Replace(sample2, "head	1.2;", "head	9.9;", 1)
	_, err = Parse([]byte(input))
	assert.Error(t, err)

	// symbol referencing a missing revision
	input = strings.Replace(sample2, "release:1.2", "release:9.9", 1)
	_, err = Parse([]byte(input))
	var unknown *ErrUnknownRevision
	assert.ErrorAs(t, err, &unknown)
	assert.Equal(t, num.Num("9.9"), unknown.Num)

	// deltatext for an unknown revision
	input = strings.Replace(sample2, "\n\n1.1\nlog\n@first\n@", "\n\n7.7\nlog\n@first\n@", 1)
	_, err = Parse([]byte(input))
	assert.ErrorAs(t, err, &parseErr)
}

// A duplicate deltatext record is rejected at the second occurrence.
func TestParseDuplicateDeltaText(t *testing.T) {
	dup := "\n\n1.2\nlog\n@again\n@\ntext\n@x\n@\n"
	input := sample2 + dup
	_, err := Parse([]byte(input))
	var parseErr *ErrParse
	assert.ErrorAs(t, err, &parseErr)
	assert.Equal(t, len(sample2)+2, parseErr.Offset)
}

// An input ending inside an @-string fails with the opening @'s offset.
func TestLexUnterminatedString(t *testing.T) {
	cut := strings.LastIndex(sample2, "@d2 1")
	input := sample2[:cut+3]
	_, err := Parse([]byte(input))
	var lexErr *ErrLex
	assert.ErrorAs(t, err, &lexErr)
	assert.Equal(t, cut, lexErr.Offset)
}

func TestParseEmptyArchive(t *testing.T) {
	// What rcs -i writes: an unborn head and no deltas.
	input := "head\t;\naccess;\nsymbols;\nlocks; strict;\ncomment\t@# @;\n\n\ndesc\n@new file\n@\n"
	r, err := Parse([]byte(input))
	assert.NoError(t, err)
	assert.Equal(t, num.Num(""), r.Head())
	assert.Equal(t, 0, r.NumDeltas())
	assert.Equal(t, "new file\n", r.Desc())
	_, err = Parse([]byte(r.String()))
	assert.NoError(t, err)
}

func TestParseBranchAndLocks(t *testing.T) {
	input := strings.Replace(sample2, "head	1.2;\n", "head	1.2;\nbranch	1.2.1;\n", 1)
	input = strings.Replace(input, "locks; strict;", "locks\n	ben:1.2; strict;", 1)
	r, err := Parse([]byte(input))
	assert.NoError(t, err)
	assert.Equal(t, num.Num("1.2.1"), r.Branch())
	assert.Equal(t, []Lock{{User: "ben", Num: "1.2"}}, r.Locks())
	// canonical form round-trips
	assert.Equal(t, input, r.String())
}
