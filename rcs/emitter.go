package rcs

import (
	"io"
	"strings"
)

func quote(s string) string {
	return "@" + strings.ReplaceAll(s, "@", "@@") + "@"
}

func writePhrases(b *strings.Builder, phrases []Phrase) {
	for _, p := range phrases {
		b.WriteString(p.Name)
		for _, v := range p.Values {
			b.WriteString(" ")
			b.WriteString(v)
		}
		b.WriteString(";\n")
	}
}

// String serializes the file back to ,v form: admin section in canonical
// order, delta headers and deltatexts in insertion order, all strings
// @-quoted with '@' doubled.
func (r *Rcs) String() string {
	var b strings.Builder

	b.WriteString("head\t")
	b.WriteString(string(r.head))
	b.WriteString(";\n")
	if r.branch != "" {
		b.WriteString("branch\t")
		b.WriteString(string(r.branch))
		b.WriteString(";\n")
	}

	b.WriteString("access")
	for _, a := range r.access {
		b.WriteString("\n\t")
		b.WriteString(a)
	}
	b.WriteString(";\n")

	b.WriteString("symbols")
	for _, s := range r.symbols {
		b.WriteString("\n\t")
		b.WriteString(s.Name)
		b.WriteString(":")
		b.WriteString(string(s.Num))
	}
	b.WriteString(";\n")

	b.WriteString("locks")
	for _, l := range r.locks {
		b.WriteString("\n\t")
		b.WriteString(l.User)
		b.WriteString(":")
		b.WriteString(string(l.Num))
	}
	b.WriteString(";")
	if r.strict {
		b.WriteString(" strict;")
	}
	b.WriteString("\n")

	if r.hasComment {
		b.WriteString("comment\t")
		b.WriteString(quote(r.comment))
		b.WriteString(";\n")
	}
	if r.hasExpand {
		b.WriteString("expand\t")
		b.WriteString(quote(r.expand))
		b.WriteString(";\n")
	}
	writePhrases(&b, r.phrases)

	b.WriteString("\n")
	for _, n := range r.order {
		d := r.deltas[n]
		b.WriteString("\n")
		b.WriteString(string(d.Revision))
		b.WriteString("\n")
		b.WriteString("date\t")
		b.WriteString(d.Date)
		b.WriteString(";\tauthor ")
		b.WriteString(d.Author)
		b.WriteString(";\tstate ")
		b.WriteString(d.State)
		b.WriteString(";\n")
		b.WriteString("branches")
		for _, br := range d.Branches {
			b.WriteString("\n\t")
			b.WriteString(string(br))
		}
		b.WriteString(";\n")
		b.WriteString("next\t")
		b.WriteString(string(d.Next))
		b.WriteString(";\n")
		writePhrases(&b, d.Phrases)
	}

	b.WriteString("\n\ndesc\n")
	b.WriteString(quote(r.desc))
	b.WriteString("\n")

	for _, n := range r.order {
		d := r.deltas[n]
		b.WriteString("\n\n")
		b.WriteString(string(d.Revision))
		b.WriteString("\nlog\n")
		b.WriteString(quote(d.Log))
		b.WriteString("\n")
		writePhrases(&b, d.TextPhrases)
		b.WriteString("text\n")
		b.WriteString(quote(d.Text))
		b.WriteString("\n")
	}
	return b.String()
}

// WriteTo writes the serialized file to w.
func (r *Rcs) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, r.String())
	return int64(n), err
}
