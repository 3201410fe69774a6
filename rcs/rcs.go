// Package rcs provides an in-memory model of an RCS ,v file - the admin
// section plus the per-revision deltas - with a parser, an emitter and
// history-editing operations the stock RCS tools cannot perform.
package rcs

import (
	"github.com/ben-cohen/editrcs/diff"
	"github.com/ben-cohen/editrcs/num"
)

// Phrase - a newphrase captured verbatim for round-tripping: a name plus
// the raw source text of each value token.
type Phrase struct {
	Name   string
	Values []string
}

// Symbol - one symbols entry. Insertion order is preserved.
type Symbol struct {
	Name string
	Num  num.Num
}

// Lock - one locks entry. Insertion order is preserved.
type Lock struct {
	User string
	Num  num.Num
}

// Delta - one revision's record: metadata plus either a full snapshot of
// the file text (the head) or an ed script against the successor in the
// chain walk from the head.
type Delta struct {
	Revision    num.Num
	Date        string // dotted RCS date, stored verbatim
	Author      string
	State       string
	Branches    []num.Num
	Next        num.Num
	Log         string
	Text        string
	IsDiff      bool
	Phrases     []Phrase // delta-header newphrases
	TextPhrases []Phrase // deltatext newphrases, between log and text
}

// Clone takes the deep copy needed when a delta moves between files.
func (d *Delta) Clone() *Delta {
	c := *d
	c.Branches = append([]num.Num(nil), d.Branches...)
	c.Phrases = clonePhrases(d.Phrases)
	c.TextPhrases = clonePhrases(d.TextPhrases)
	return &c
}

func clonePhrases(ps []Phrase) []Phrase {
	if ps == nil {
		return nil
	}
	out := make([]Phrase, len(ps))
	for i, p := range ps {
		out[i] = Phrase{Name: p.Name, Values: append([]string(nil), p.Values...)}
	}
	return out
}

// TextToDiff replaces the receiver's text with the ed script that
// regenerates it from other's text, marking it as a diff. Both texts must
// be in full-snapshot form when called. Demoting a former head against an
// identical text stores the empty script.
func (d *Delta) TextToDiff(other *Delta) {
	d.Text = diff.Diff(d.Text, other.Text)
	d.IsDiff = true
}

// Rcs - the file-level admin section plus the delta store. Deltas,
// symbols, locks and access iterate in insertion order because the
// emitter reproduces that order.
type Rcs struct {
	head       num.Num
	branch     num.Num
	access     []string
	symbols    []Symbol
	locks      []Lock
	strict     bool
	comment    string
	hasComment bool
	expand     string
	hasExpand  bool
	phrases    []Phrase
	desc       string

	order  []num.Num
	deltas map[num.Num]*Delta
}

// New returns an empty Rcs with an unborn head.
func New() *Rcs {
	return &Rcs{deltas: make(map[num.Num]*Delta), strict: true}
}

func (r *Rcs) Head() num.Num { return r.head }

// SetHead validates that the new head exists (an empty head is legal for
// a file with no deltas).
func (r *Rcs) SetHead(n num.Num) error {
	if n != "" {
		if _, ok := r.deltas[n]; !ok {
			return &ErrInvariant{Field: "head", Msg: string("no such revision " + n)}
		}
	}
	r.head = n
	return nil
}

func (r *Rcs) Branch() num.Num      { return r.branch }
func (r *Rcs) SetBranch(n num.Num)  { r.branch = n }
func (r *Rcs) Access() []string     { return r.access }
func (r *Rcs) SetAccess(a []string) { r.access = a }
func (r *Rcs) Symbols() []Symbol    { return r.symbols }
func (r *Rcs) Locks() []Lock        { return r.locks }
func (r *Rcs) Strict() bool         { return r.strict }
func (r *Rcs) SetStrict(s bool)     { r.strict = s }
func (r *Rcs) Desc() string         { return r.desc }
func (r *Rcs) SetDesc(d string)     { r.desc = d }
func (r *Rcs) Phrases() []Phrase    { return r.phrases }

func (r *Rcs) Comment() (string, bool) { return r.comment, r.hasComment }

func (r *Rcs) SetComment(c string) {
	r.comment = c
	r.hasComment = true
}

func (r *Rcs) Expand() (string, bool) { return r.expand, r.hasExpand }

func (r *Rcs) SetExpand(e string) {
	r.expand = e
	r.hasExpand = true
}

// SetSymbols validates that every revision-shaped value resolves; branch
// symbols (odd length, or the x.y.0.z magic-branch form) are legal tags
// for unborn branches and are not checked.
func (r *Rcs) SetSymbols(syms []Symbol) error {
	for _, s := range syms {
		if err := r.checkRevisionRef("symbols", s.Num); err != nil {
			return err
		}
	}
	r.symbols = syms
	return nil
}

// AddSymbol appends one entry, validating like SetSymbols.
func (r *Rcs) AddSymbol(name string, n num.Num) error {
	if err := r.checkRevisionRef("symbols", n); err != nil {
		return err
	}
	r.symbols = append(r.symbols, Symbol{Name: name, Num: n})
	return nil
}

// SetLocks validates that every locked revision exists.
func (r *Rcs) SetLocks(locks []Lock) error {
	for _, l := range locks {
		if _, ok := r.deltas[l.Num]; !ok {
			return &ErrInvariant{Field: "locks", Msg: string("no such revision " + l.Num)}
		}
	}
	r.locks = locks
	return nil
}

// checkRevisionRef rejects revision-shaped numerals that don't resolve.
func (r *Rcs) checkRevisionRef(field string, n num.Num) error {
	if !n.IsRevision() {
		return nil
	}
	if c, err := n.Components(); err == nil {
		for _, v := range c {
			if v == 0 {
				return nil // magic branch form, e.g. 1.4.0.2
			}
		}
	}
	if _, ok := r.deltas[n]; !ok {
		return &ErrInvariant{Field: field, Msg: string("no such revision " + n)}
	}
	return nil
}

// Delta returns the delta for a revision.
func (r *Rcs) Delta(n num.Num) (*Delta, error) {
	d, ok := r.deltas[n]
	if !ok {
		return nil, &ErrUnknownRevision{Num: n}
	}
	return d, nil
}

// HasDelta reports whether a revision exists.
func (r *Rcs) HasDelta(n num.Num) bool {
	_, ok := r.deltas[n]
	return ok
}

// AddDelta inserts a delta keyed by its revision, failing on a duplicate.
func (r *Rcs) AddDelta(d *Delta) error {
	if _, ok := r.deltas[d.Revision]; ok {
		return &ErrDuplicateRevision{Num: d.Revision}
	}
	r.deltas[d.Revision] = d
	r.order = append(r.order, d.Revision)
	return nil
}

// RemoveDelta deletes a revision from the store.
func (r *Rcs) RemoveDelta(n num.Num) error {
	if _, ok := r.deltas[n]; !ok {
		return &ErrUnknownRevision{Num: n}
	}
	delete(r.deltas, n)
	for i, o := range r.order {
		if o == n {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// NumDeltas returns the number of revisions in the file.
func (r *Rcs) NumDeltas() int { return len(r.deltas) }

// Revisions returns the revisions in insertion order (file order after a
// parse).
func (r *Rcs) Revisions() []num.Num {
	return append([]num.Num(nil), r.order...)
}

// MapDeltas applies fn to every delta in insertion order. The callback
// may rewrite Revision fields; the store is re-indexed afterwards into a
// fresh map rather than mutating keys under iteration. A duplicate
// resulting key fails the whole sweep.
func (r *Rcs) MapDeltas(fn func(d *Delta) error) error {
	snapshot := append([]num.Num(nil), r.order...)
	for _, n := range snapshot {
		if err := fn(r.deltas[n]); err != nil {
			return err
		}
	}
	deltas := make(map[num.Num]*Delta, len(snapshot))
	order := make([]num.Num, 0, len(snapshot))
	for _, n := range snapshot {
		d := r.deltas[n]
		if _, ok := deltas[d.Revision]; ok {
			return &ErrDuplicateRevision{Num: d.Revision}
		}
		deltas[d.Revision] = d
		order = append(order, d.Revision)
	}
	if r.head != "" {
		if d, ok := r.deltas[r.head]; ok {
			r.head = d.Revision
		}
	}
	r.deltas = deltas
	r.order = order
	return nil
}

// setOrder replaces the iteration order. Used by operations that rebuild
// the chain so the new head's deltas lead the emitted file.
func (r *Rcs) setOrder(order []num.Num) {
	r.order = order
}
