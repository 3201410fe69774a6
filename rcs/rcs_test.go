package rcs

import (
	"testing"

	"github.com/ben-cohen/editrcs/num"
	"github.com/stretchr/testify/assert"
)

func twoRevFile(t *testing.T) *Rcs {
	r, err := Parse([]byte(sample2))
	assert.NoError(t, err)
	return r
}

func TestSetHead(t *testing.T) {
	r := twoRevFile(t)
	assert.NoError(t, r.SetHead("1.1"))
	assert.Equal(t, num.Num("1.1"), r.Head())

	err := r.SetHead("3.1")
	var inv *ErrInvariant
	assert.ErrorAs(t, err, &inv)
	assert.Equal(t, "head", inv.Field)
	assert.Equal(t, num.Num("1.1"), r.Head())
}

func TestAddRemoveDelta(t *testing.T) {
	r := twoRevFile(t)
	d := &Delta{Revision: "1.3", Date: "24.01.11.09.00.00", Author: "sam", State: "Exp", Next: "1.2", IsDiff: true}
	assert.NoError(t, r.AddDelta(d))
	assert.Equal(t, []num.Num{"1.2", "1.1", "1.3"}, r.Revisions())

	err := r.AddDelta(&Delta{Revision: "1.3"})
	var dup *ErrDuplicateRevision
	assert.ErrorAs(t, err, &dup)
	assert.Equal(t, num.Num("1.3"), dup.Num)

	assert.NoError(t, r.RemoveDelta("1.3"))
	var unknown *ErrUnknownRevision
	assert.ErrorAs(t, r.RemoveDelta("1.3"), &unknown)
	assert.Equal(t, []num.Num{"1.2", "1.1"}, r.Revisions())
}

func TestSetSymbolsLocks(t *testing.T) {
	r := twoRevFile(t)
	assert.NoError(t, r.SetSymbols([]Symbol{{Name: "v1", Num: "1.1"}, {Name: "devel", Num: "1.2.0.1"}}))
	err := r.SetSymbols([]Symbol{{Name: "bad", Num: "4.2"}})
	assert.Error(t, err)
	// failed setter leaves the previous value
	assert.Equal(t, 2, len(r.Symbols()))

	assert.NoError(t, r.SetLocks([]Lock{{User: "ben", Num: "1.2"}}))
	assert.Error(t, r.SetLocks([]Lock{{User: "ben", Num: "4.2"}}))
	assert.Equal(t, []Lock{{User: "ben", Num: "1.2"}}, r.Locks())
}

func TestAdminSetters(t *testing.T) {
	r := twoRevFile(t)
	r.SetBranch("1.2.1")
	assert.Equal(t, num.Num("1.2.1"), r.Branch())
	r.SetAccess([]string{"ben", "sam"})
	assert.Equal(t, []string{"ben", "sam"}, r.Access())
	r.SetDesc("a test file\n")
	assert.Equal(t, "a test file\n", r.Desc())
	r.SetExpand("b")
	e, ok := r.Expand()
	assert.True(t, ok)
	assert.Equal(t, "b", e)
	r.SetStrict(false)
	assert.False(t, r.Strict())
}

// A renumbering callback re-indexes the store without losing order.
func TestMapDeltasRenumber(t *testing.T) {
	r := twoRevFile(t)
	err := r.MapDeltas(func(d *Delta) error {
		var err error
		d.Revision, err = num.Increment(d.Revision, "1.0")
		if err != nil {
			return err
		}
		if d.Next != "" {
			if d.Next, err = num.Increment(d.Next, "1.0"); err != nil {
				return err
			}
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, []num.Num{"2.2", "2.1"}, r.Revisions())
	assert.Equal(t, num.Num("2.2"), r.Head())
	d, err := r.Delta("2.2")
	assert.NoError(t, err)
	assert.Equal(t, num.Num("2.1"), d.Next)
}

func TestMapDeltasDuplicate(t *testing.T) {
	r := twoRevFile(t)
	err := r.MapDeltas(func(d *Delta) error {
		d.Revision = "1.9"
		return nil
	})
	var dup *ErrDuplicateRevision
	assert.ErrorAs(t, err, &dup)
}

func TestCloneIsolation(t *testing.T) {
	r := twoRevFile(t)
	d, err := r.Delta("1.2")
	assert.NoError(t, err)
	d.Branches = []num.Num{"1.2.1.1"}
	c := d.Clone()
	c.Branches[0] = "1.2.2.1"
	c.Author = "other"
	assert.Equal(t, num.Num("1.2.1.1"), d.Branches[0])
	assert.Equal(t, "ben", d.Author)
}

func TestTextToDiffIdentity(t *testing.T) {
	d := &Delta{Revision: "1.4", Text: "one\ntwo\n"}
	other := &Delta{Revision: "1.5", Text: "one\ntwo\n"}
	d.TextToDiff(other)
	assert.True(t, d.IsDiff)
	assert.Equal(t, "", d.Text)
}

func TestTextToDiff(t *testing.T) {
	d := &Delta{Revision: "1.4", Text: "one\ntwo\n"}
	other := &Delta{Revision: "1.5", Text: "one\ntwo\nthree\n"}
	d.TextToDiff(other)
	assert.True(t, d.IsDiff)
	assert.Equal(t, "d3 1\n", d.Text)
}
