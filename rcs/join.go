package rcs

import (
	"fmt"

	"github.com/ben-cohen/editrcs/num"
)

// Join appends other's history on top of the receiver's. The receiver's
// head text must equal other's start-revision text: that shared revision
// becomes the seam. Every other revision of other is copied in shifted by
// the offset between the two numbers, the receiver's head is demoted from
// snapshot to diff, and other's shifted head becomes the new head.
// other is not modified; deltas are copied on insertion.
func (r *Rcs) Join(other *Rcs) error {
	if r.head == "" || other.Head() == "" {
		return &ErrInvariant{Field: "head", Msg: "join requires both files to have revisions"}
	}
	start := other.Start()
	startDelta, err := other.Delta(start)
	if err != nil {
		return err
	}
	headText, err := r.Checkout(r.head)
	if err != nil {
		return err
	}
	startText, err := other.Checkout(start)
	if err != nil {
		return err
	}
	if headText != startText {
		return &ErrInvariant{Field: "text",
			Msg: fmt.Sprintf("revision %s of the joined file does not match revision %s", start, r.head)}
	}
	seam := r.head
	offset, err := num.Decrement(seam, start)
	if err != nil {
		return err
	}

	shift := func(n num.Num) (num.Num, error) {
		if n == "" {
			return "", nil
		}
		if n == start {
			return seam, nil
		}
		return num.Increment(n, offset)
	}

	// Copy every delta but the seam, renumbering as we go.
	oldHead, err := r.Delta(r.head)
	if err != nil {
		return err
	}
	var newOrder []num.Num
	for _, n := range other.Revisions() {
		if n == start {
			continue
		}
		src, err := other.Delta(n)
		if err != nil {
			return err
		}
		d := src.Clone()
		if d.Revision, err = shift(d.Revision); err != nil {
			return err
		}
		if d.Next, err = shift(d.Next); err != nil {
			return err
		}
		for i, b := range d.Branches {
			if d.Branches[i], err = shift(b); err != nil {
				return err
			}
		}
		if err := r.AddDelta(d); err != nil {
			return err
		}
		newOrder = append(newOrder, d.Revision)
	}

	// The seam keeps the receiver's metadata. Its stored script must
	// regenerate its text from its new predecessor in the walk; that is
	// exactly the script the dropped start revision carried. When the
	// joined file had only the seam revision there is nothing above the
	// head and it stays a snapshot.
	if start != other.Head() {
		oldHead.Text = startDelta.Text
		oldHead.IsDiff = true
		newHead, err := num.Increment(other.Head(), offset)
		if err != nil {
			return err
		}
		if err := r.SetHead(newHead); err != nil {
			return err
		}
	}

	// Union in other's symbols, locks and access, shifted. The receiver's
	// entries win on a name clash.
	for _, s := range other.Symbols() {
		if hasSymbol(r.symbols, s.Name) {
			continue
		}
		n, err := shift(s.Num)
		if err != nil {
			return err
		}
		r.symbols = append(r.symbols, Symbol{Name: s.Name, Num: n})
	}
	for _, l := range other.Locks() {
		n, err := shift(l.Num)
		if err != nil {
			return err
		}
		r.locks = append(r.locks, Lock{User: l.User, Num: n})
	}
	for _, a := range other.Access() {
		if !hasAccess(r.access, a) {
			r.access = append(r.access, a)
		}
	}

	// Emit the new head's chain first, in the conventional order.
	r.setOrder(append(newOrder, trimRevisions(r.order, newOrder)...))
	return nil
}

func hasSymbol(syms []Symbol, name string) bool {
	for _, s := range syms {
		if s.Name == name {
			return true
		}
	}
	return false
}

func hasAccess(access []string, name string) bool {
	for _, a := range access {
		if a == name {
			return true
		}
	}
	return false
}

// trimRevisions returns order with the members of drop removed.
func trimRevisions(order, drop []num.Num) []num.Num {
	dropSet := make(map[num.Num]bool, len(drop))
	for _, n := range drop {
		dropSet[n] = true
	}
	var out []num.Num
	for _, n := range order {
		if !dropSet[n] {
			out = append(out, n)
		}
	}
	return out
}

// RenameUser rewrites the author of every delta committed by old,
// returning how many were changed.
func (r *Rcs) RenameUser(old, new string) int {
	count := 0
	r.MapDeltas(func(d *Delta) error {
		if d.Author == old {
			d.Author = new
			count++
		}
		return nil
	})
	return count
}
