package rcs

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ben-cohen/editrcs/diff"
	"github.com/ben-cohen/editrcs/num"
)

// Pivot swaps a first-level branch with the trunk. The branch chain
// becomes the continuation of the trunk above its branch point and its
// tip becomes the new head; any trunk revisions that were above the
// branch point are re-homed as a branch at that point under the vacated
// branch numeral. Revision numbers are rewritten (sub-branches by prefix)
// so that every original revision's reconstructed text is preserved.
func (r *Rcs) Pivot(branch num.Num) error {
	comps := strings.Split(string(branch), ".")
	if !branch.IsBranch() || len(comps) != 3 {
		return &ErrInvariant{Field: "branch",
			Msg: fmt.Sprintf("'%s' is not a first-level branch numeral", branch)}
	}
	stem := num.Num(comps[0] + "." + comps[1])
	stemDelta, err := r.Delta(stem)
	if err != nil {
		return err
	}

	// The branch chain, branch point outward to the tip.
	var first num.Num
	for _, b := range stemDelta.Branches {
		if b.HasPrefix(branch) {
			first = b
			break
		}
	}
	if first == "" {
		return &ErrUnknownRevision{Num: branch}
	}
	var chain []*Delta
	for cur := first; cur != ""; {
		d, err := r.Delta(cur)
		if err != nil {
			return err
		}
		chain = append(chain, d)
		cur = d.Next
	}

	// Trunk revisions above the branch point, closest to it first.
	var uppers []*Delta
	for cur := r.head; cur != stem; {
		d, err := r.Delta(cur)
		if err != nil {
			return err
		}
		uppers = append([]*Delta{d}, uppers...)
		cur = d.Next
	}

	// Full texts before any rewiring, keyed by record.
	texts := make(map[*Delta]string, len(chain)+len(uppers)+1)
	for _, d := range append(append([]*Delta{stemDelta}, chain...), uppers...) {
		t, err := r.Checkout(d.Revision)
		if err != nil {
			return err
		}
		texts[d] = t
	}

	// New numbers: the branch chain extends the trunk, the uppers take
	// over the vacated branch numeral.
	remap := make(map[num.Num]num.Num, len(chain)+len(uppers))
	for i, d := range chain {
		n, err := num.Increment(stem, num.Num("0."+strconv.Itoa(i+1)))
		if err != nil {
			return err
		}
		remap[d.Revision] = n
	}
	for i, d := range uppers {
		remap[d.Revision] = branch + num.Num("."+strconv.Itoa(i+1))
	}
	mapNum := func(n num.Num) num.Num {
		if n == "" {
			return n
		}
		for old, new := range remap {
			if n == old {
				return new
			}
			if n.HasPrefix(old) {
				return new + n[len(old):]
			}
		}
		return n
	}

	// Renumber every delta (sub-branches ride along by prefix), then
	// re-index the store.
	if err := r.MapDeltas(func(d *Delta) error {
		d.Revision = mapNum(d.Revision)
		d.Next = mapNum(d.Next)
		for i, b := range d.Branches {
			d.Branches[i] = mapNum(b)
		}
		return nil
	}); err != nil {
		return err
	}

	// Rewire the chains: trunk tip' -> ... -> first' -> stem -> old lower
	// trunk; uppers become a branch running outward from the stem.
	for i, d := range chain {
		if i == 0 {
			d.Next = stem
		} else {
			d.Next = chain[i-1].Revision
		}
	}
	for i, d := range uppers {
		if i == len(uppers)-1 {
			d.Next = ""
		} else {
			d.Next = uppers[i+1].Revision
		}
	}
	for i, b := range stemDelta.Branches {
		if b == chain[0].Revision { // the pivoted branch, already renumbered
			if len(uppers) > 0 {
				stemDelta.Branches[i] = uppers[0].Revision
			} else {
				stemDelta.Branches = append(stemDelta.Branches[:i], stemDelta.Branches[i+1:]...)
			}
			break
		}
	}

	// Recompute the stored scripts along both rewritten chains.
	tip := chain[len(chain)-1]
	tip.Text = texts[tip]
	tip.IsDiff = false
	for i := len(chain) - 2; i >= 0; i-- {
		chain[i].Text = diff.Diff(texts[chain[i]], texts[chain[i+1]])
		chain[i].IsDiff = true
	}
	stemDelta.Text = diff.Diff(texts[stemDelta], texts[chain[0]])
	stemDelta.IsDiff = true
	for i, d := range uppers {
		parent := texts[stemDelta]
		if i > 0 {
			parent = texts[uppers[i-1]]
		}
		d.Text = diff.Diff(texts[d], parent)
		d.IsDiff = true
	}

	if err := r.SetHead(tip.Revision); err != nil {
		return err
	}

	// Symbols and locks follow their revisions.
	for i := range r.symbols {
		r.symbols[i].Num = mapNum(r.symbols[i].Num)
	}
	for i := range r.locks {
		r.locks[i].Num = mapNum(r.locks[i].Num)
	}

	// Lead the emitted file with the new trunk chain.
	var trunkOrder []num.Num
	for cur := r.head; cur != ""; {
		trunkOrder = append(trunkOrder, cur)
		d, err := r.Delta(cur)
		if err != nil {
			return err
		}
		cur = d.Next
	}
	r.setOrder(append(trunkOrder, trimRevisions(r.order, trunkOrder)...))
	return nil
}
