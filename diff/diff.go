// Package diff applies and generates the ed-style scripts RCS stores in
// non-head deltas. A script is a sequence of "a<line> <count>" and
// "d<line> <count>" commands, line numbers counted against the original
// source text, with the payload lines of each "a" command following it.
package diff

import (
	"fmt"
	"strconv"
	"strings"

	difflib "github.com/pmezard/go-difflib/difflib"
)

// ErrMalformed - an ed-script command is unparseable or out of bounds.
// Line is the 1-based line of the command within the script.
type ErrMalformed struct {
	Line int
	Msg  string
}

func (e *ErrMalformed) Error() string {
	return fmt.Sprintf("malformed diff at script line %d: %s", e.Line, e.Msg)
}

// SplitLines splits into lines keeping the trailing "\n" on each, so a
// final partial line without "\n" is preserved verbatim.
func SplitLines(s string) []string {
	if s == "" {
		return []string{}
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// parseCmd parses "a3 2" / "d1 4" returning the command byte, start line
// and count.
func parseCmd(line string, lineNo int) (byte, int, int, error) {
	if len(line) < 2 || (line[0] != 'a' && line[0] != 'd') {
		return 0, 0, 0, &ErrMalformed{Line: lineNo, Msg: fmt.Sprintf("unknown command '%s'", strings.TrimSuffix(line, "\n"))}
	}
	fields := strings.Fields(line[1:])
	if len(fields) != 2 {
		return 0, 0, 0, &ErrMalformed{Line: lineNo, Msg: fmt.Sprintf("expected two numbers in '%s'", strings.TrimSuffix(line, "\n"))}
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil || n < 0 {
		return 0, 0, 0, &ErrMalformed{Line: lineNo, Msg: fmt.Sprintf("bad line number '%s'", fields[0])}
	}
	c, err := strconv.Atoi(fields[1])
	if err != nil || c < 1 {
		return 0, 0, 0, &ErrMalformed{Line: lineNo, Msg: fmt.Sprintf("bad count '%s'", fields[1])}
	}
	return line[0], n, c, nil
}

// Apply runs an ed script over source and returns the resulting text.
// This is TextFromDiff: walking a delta chain from the head, each step's
// stored script applied to the newer text yields the older one.
func Apply(source, script string) (string, error) {
	if script == "" {
		return source, nil
	}
	src := SplitLines(source)
	lines := SplitLines(script)
	var out strings.Builder
	srcIdx := 0 // next source line not yet copied, 0-based
	i := 0
	for i < len(lines) {
		cmd, n, c, err := parseCmd(lines[i], i+1)
		if err != nil {
			return "", err
		}
		cmdLine := i + 1
		i++
		switch cmd {
		case 'd':
			// delete c lines starting at source line n
			if n < 1 || n-1 < srcIdx || n-1+c > len(src) {
				return "", &ErrMalformed{Line: cmdLine, Msg: fmt.Sprintf("delete %d,%d out of bounds", n, c)}
			}
			for ; srcIdx < n-1; srcIdx++ {
				out.WriteString(src[srcIdx])
			}
			srcIdx += c
		case 'a':
			// append c lines after source line n (n may equal len(src))
			if n < srcIdx || n > len(src) {
				return "", &ErrMalformed{Line: cmdLine, Msg: fmt.Sprintf("append after %d out of bounds", n)}
			}
			for ; srcIdx < n; srcIdx++ {
				out.WriteString(src[srcIdx])
			}
			if i+c > len(lines) {
				return "", &ErrMalformed{Line: cmdLine, Msg: fmt.Sprintf("append of %d lines truncated", c)}
			}
			for j := 0; j < c; j++ {
				out.WriteString(lines[i])
				i++
			}
		}
	}
	for ; srcIdx < len(src); srcIdx++ {
		out.WriteString(src[srcIdx])
	}
	return out.String(), nil
}

// Diff computes the ed script that regenerates a from b, i.e.
// Apply(b, Diff(a, b)) == a. Equal texts give the empty script.
// The script is minimal per difflib's matcher.
func Diff(a, b string) string {
	alines := SplitLines(a)
	blines := SplitLines(b)
	m := difflib.NewMatcher(blines, alines)
	var out strings.Builder
	for _, op := range m.GetOpCodes() {
		switch op.Tag {
		case 'e':
			continue
		case 'd':
			fmt.Fprintf(&out, "d%d %d\n", op.I1+1, op.I2-op.I1)
		case 'i':
			fmt.Fprintf(&out, "a%d %d\n", op.I1, op.J2-op.J1)
			writeLines(&out, alines[op.J1:op.J2])
		case 'r':
			fmt.Fprintf(&out, "d%d %d\n", op.I1+1, op.I2-op.I1)
			fmt.Fprintf(&out, "a%d %d\n", op.I2, op.J2-op.J1)
			writeLines(&out, alines[op.J1:op.J2])
		}
	}
	return out.String()
}

// writeLines copies payload lines verbatim. A partial line without "\n"
// can only be the target's last line, so it is always the script's final
// payload line and never runs into a following command.
func writeLines(out *strings.Builder, lines []string) {
	for _, l := range lines {
		out.WriteString(l)
	}
}
