package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyDelete(t *testing.T) {
	out, err := Apply("one\ntwo\nthree\n", "d2 1\n")
	assert.NoError(t, err)
	assert.Equal(t, "one\nthree\n", out)

	out, err = Apply("one\ntwo\nthree\n", "d1 3\n")
	assert.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestApplyAppend(t *testing.T) {
	out, err := Apply("one\nthree\n", "a1 1\ntwo\n")
	assert.NoError(t, err)
	assert.Equal(t, "one\ntwo\nthree\n", out)

	// append after the last line is legal
	out, err = Apply("one\n", "a1 1\ntwo\n")
	assert.NoError(t, err)
	assert.Equal(t, "one\ntwo\n", out)

	// append at line 0 prepends
	out, err = Apply("two\n", "a0 1\none\n")
	assert.NoError(t, err)
	assert.Equal(t, "one\ntwo\n", out)
}

func TestApplyMixed(t *testing.T) {
	// commands are indexed against the original source
	out, err := Apply("one\ntwo\nthree\nfour\n", "d1 1\na2 1\ntwo-and-a-half\nd4 1\n")
	assert.NoError(t, err)
	assert.Equal(t, "two\ntwo-and-a-half\nthree\n", out)
}

func TestApplyIdentity(t *testing.T) {
	assert.Equal(t, "", mustApply(t, "", ""))
	assert.Equal(t, "one\ntwo\n", mustApply(t, "one\ntwo\n", ""))
	assert.Equal(t, "no newline", mustApply(t, "no newline", ""))
}

func mustApply(t *testing.T, source, script string) string {
	out, err := Apply(source, script)
	assert.NoError(t, err)
	return out
}

func TestApplyMalformed(t *testing.T) {
	cases := []struct {
		script string
		line   int
	}{
		{"d4 1\n", 1},                // delete past end
		{"d1 5\n", 1},                // delete too many
		{"a9 1\nx\n", 1},             // append past end
		{"a1 3\nx\n", 1},             // truncated payload
		{"x1 1\n", 1},                // unknown command
		{"d1 1\nd9 1\n", 2},          // second command bad
		{"a1 1\nx\nnonsense here\n", 3}, // junk where a command should be
	}
	for _, tc := range cases {
		_, err := Apply("one\ntwo\nthree\n", tc.script)
		assert.Error(t, err, "script %q", tc.script)
		var malformed *ErrMalformed
		if assert.ErrorAs(t, err, &malformed, "script %q", tc.script) {
			assert.Equal(t, tc.line, malformed.Line, "script %q", tc.script)
		}
	}
}

// Apply(b, Diff(a, b)) == a for all line-structured a and b.
func TestDiffRoundTrip(t *testing.T) {
	cases := [][2]string{
		{"one\ntwo\nthree\n", "one\nthree\n"},
		{"one\nthree\n", "one\ntwo\nthree\n"},
		{"", "one\ntwo\n"},
		{"one\ntwo\n", ""},
		{"a\nb\nc\nd\ne\n", "a\nx\nc\ny\ne\nf\n"},
		{"same\n", "same\n"},
		{"partial last", "partial last\n"},
		{"one\npartial", "one\n"},
		{"", ""},
	}
	for _, tc := range cases {
		a, b := tc[0], tc[1]
		script := Diff(a, b)
		out, err := Apply(b, script)
		assert.NoError(t, err, "Diff(%q, %q) = %q", a, b, script)
		assert.Equal(t, a, out, "Diff(%q, %q) = %q", a, b, script)
	}
}

func TestDiffIdentityIsEmpty(t *testing.T) {
	assert.Equal(t, "", Diff("one\ntwo\n", "one\ntwo\n"))
	assert.Equal(t, "", Diff("", ""))
}

func TestSplitLines(t *testing.T) {
	assert.Equal(t, []string{}, SplitLines(""))
	assert.Equal(t, []string{"a\n"}, SplitLines("a\n"))
	assert.Equal(t, []string{"a\n", "b"}, SplitLines("a\nb"))
}
