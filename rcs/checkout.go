package rcs

import (
	"strings"

	"github.com/ben-cohen/editrcs/diff"
	"github.com/ben-cohen/editrcs/num"
)

// Start returns the earliest trunk revision, reached by walking next
// links from the head. Empty for a file with no deltas.
func (r *Rcs) Start() num.Num {
	cur := r.head
	for cur != "" {
		d, ok := r.deltas[cur]
		if !ok || d.Next == "" {
			return cur
		}
		cur = d.Next
	}
	return ""
}

// trunkPath walks next links from the head to target, collecting the
// deltas visited (head first, target last).
func (r *Rcs) trunkPath(target num.Num) ([]*Delta, error) {
	var path []*Delta
	cur := r.head
	for cur != "" {
		d, ok := r.deltas[cur]
		if !ok {
			return nil, &ErrUnknownRevision{Num: cur}
		}
		path = append(path, d)
		if cur == target {
			return path, nil
		}
		cur = d.Next
	}
	return nil, &ErrUnknownRevision{Num: target}
}

// branchStem returns the trunk revision a branch revision hangs off,
// e.g. "1.3" for "1.3.1.2" or "1.3.1.2.2.1".
func branchStem(n num.Num) num.Num {
	parts := strings.SplitN(string(n), ".", 3)
	return num.Num(parts[0] + "." + parts[1])
}

// path returns the delta chain from the head to target: the trunk walk,
// then a branch chain per two extra components of target.
func (r *Rcs) path(target num.Num) ([]*Delta, error) {
	if _, ok := r.deltas[target]; !ok {
		return nil, &ErrUnknownRevision{Num: target}
	}
	comps := strings.Split(string(target), ".")
	if len(comps) == 2 {
		return r.trunkPath(target)
	}
	path, err := r.trunkPath(branchStem(target))
	if err != nil {
		return nil, err
	}
	for depth := 2; depth < len(comps); depth += 2 {
		branchID := num.Num(strings.Join(comps[:depth+1], "."))
		stop := num.Num(strings.Join(comps[:depth+2], "."))
		at := path[len(path)-1]
		var cur num.Num
		for _, b := range at.Branches {
			if b.HasPrefix(branchID) {
				cur = b
				break
			}
		}
		if cur == "" {
			return nil, &ErrUnknownRevision{Num: stop}
		}
		found := false
		for cur != "" {
			d, ok := r.deltas[cur]
			if !ok {
				return nil, &ErrUnknownRevision{Num: cur}
			}
			path = append(path, d)
			if cur == stop {
				found = true
				break
			}
			cur = d.Next
		}
		if !found {
			return nil, &ErrUnknownRevision{Num: stop}
		}
	}
	return path, nil
}

// Checkout reconstructs the full text of a revision by walking from the
// head snapshot and applying each delta's stored script in turn. Nothing
// is cached; every call walks the chain.
func (r *Rcs) Checkout(rev num.Num) (string, error) {
	path, err := r.path(rev)
	if err != nil {
		return "", err
	}
	head := path[0]
	if head.IsDiff {
		return "", &ErrInvariant{Field: "head", Msg: "head delta does not hold a snapshot"}
	}
	text := head.Text
	for _, d := range path[1:] {
		text, err = diff.Apply(text, d.Text)
		if err != nil {
			return "", err
		}
	}
	return text, nil
}
