package rcs

import (
	"github.com/ben-cohen/editrcs/num"
)

// admin keywords that terminate a newphrase scan.
var adminKeywords = map[string]bool{
	"head": true, "branch": true, "access": true, "symbols": true,
	"locks": true, "strict": true, "comment": true, "expand": true,
	"desc": true,
}

type parser struct {
	lex    *lexer
	tok    token
	peeked bool
}

// Parse builds an Rcs from the raw bytes of a ,v file, validating the
// cross references the model depends on. Lexical and grammar errors carry
// byte offsets; a cross reference that does not resolve is reported as
// ErrUnknownRevision, without an offset.
func Parse(data []byte) (*Rcs, error) {
	p := &parser{lex: newLexer(data)}
	return p.parse()
}

func (p *parser) next() (token, error) {
	if p.peeked {
		p.peeked = false
		return p.tok, nil
	}
	return p.lex.next()
}

func (p *parser) peek() (token, error) {
	if !p.peeked {
		t, err := p.lex.next()
		if err != nil {
			return token{}, err
		}
		p.tok = t
		p.peeked = true
	}
	return p.tok, nil
}

func (p *parser) expect(kind tokenKind, what string) (token, error) {
	t, err := p.next()
	if err != nil {
		return token{}, err
	}
	if t.kind != kind {
		return token{}, &ErrParse{Offset: t.off, Expected: what}
	}
	return t, nil
}

func (p *parser) expectKeyword(kw string) (token, error) {
	t, err := p.next()
	if err != nil {
		return token{}, err
	}
	if t.kind != tokWord || t.val != kw {
		return token{}, &ErrParse{Offset: t.off, Expected: "'" + kw + "'"}
	}
	return t, nil
}

// optionalNum consumes a num token if one is next, else returns "".
func (p *parser) optionalNum() (num.Num, error) {
	t, err := p.peek()
	if err != nil {
		return "", err
	}
	if t.kind != tokNum {
		return "", nil
	}
	p.peeked = false
	return num.Num(t.val), nil
}

func (p *parser) semi(what string) error {
	_, err := p.expect(tokSemi, "';' after "+what)
	return err
}

func (p *parser) parse() (*Rcs, error) {
	r := New()
	r.strict = false
	if err := p.parseAdmin(r); err != nil {
		return nil, err
	}
	if err := p.parseDeltas(r); err != nil {
		return nil, err
	}
	if err := p.parseDesc(r); err != nil {
		return nil, err
	}
	if err := p.parseDeltaTexts(r); err != nil {
		return nil, err
	}
	if err := p.validate(r); err != nil {
		return nil, err
	}
	return r, nil
}

func (p *parser) parseAdmin(r *Rcs) error {
	if _, err := p.expectKeyword("head"); err != nil {
		return err
	}
	h, err := p.optionalNum()
	if err != nil {
		return err
	}
	r.head = h
	if err := p.semi("head"); err != nil {
		return err
	}

	t, err := p.peek()
	if err != nil {
		return err
	}
	if t.kind == tokWord && t.val == "branch" {
		p.peeked = false
		b, err := p.optionalNum()
		if err != nil {
			return err
		}
		r.branch = b
		if err := p.semi("branch"); err != nil {
			return err
		}
	}

	if _, err := p.expectKeyword("access"); err != nil {
		return err
	}
	for {
		t, err := p.next()
		if err != nil {
			return err
		}
		if t.kind == tokSemi {
			break
		}
		if t.kind != tokWord {
			return &ErrParse{Offset: t.off, Expected: "id or ';' in access list"}
		}
		r.access = append(r.access, t.val)
	}

	if _, err := p.expectKeyword("symbols"); err != nil {
		return err
	}
	for {
		t, err := p.next()
		if err != nil {
			return err
		}
		if t.kind == tokSemi {
			break
		}
		if t.kind != tokWord && t.kind != tokNum {
			return &ErrParse{Offset: t.off, Expected: "symbol or ';' in symbols list"}
		}
		if _, err := p.expect(tokColon, "':' after symbol name"); err != nil {
			return err
		}
		n, err := p.expect(tokNum, "revision after symbol name")
		if err != nil {
			return err
		}
		r.symbols = append(r.symbols, Symbol{Name: t.val, Num: num.Num(n.val)})
	}

	if _, err := p.expectKeyword("locks"); err != nil {
		return err
	}
	for {
		t, err := p.next()
		if err != nil {
			return err
		}
		if t.kind == tokSemi {
			break
		}
		if t.kind != tokWord {
			return &ErrParse{Offset: t.off, Expected: "id or ';' in locks list"}
		}
		if _, err := p.expect(tokColon, "':' after lock user"); err != nil {
			return err
		}
		n, err := p.expect(tokNum, "revision after lock user")
		if err != nil {
			return err
		}
		r.locks = append(r.locks, Lock{User: t.val, Num: num.Num(n.val)})
	}

	t, err = p.peek()
	if err != nil {
		return err
	}
	if t.kind == tokWord && t.val == "strict" {
		p.peeked = false
		r.strict = true
		if err := p.semi("strict"); err != nil {
			return err
		}
	}

	t, err = p.peek()
	if err != nil {
		return err
	}
	if t.kind == tokWord && t.val == "comment" {
		p.peeked = false
		s, err := p.expect(tokString, "string after 'comment'")
		if err != nil {
			return err
		}
		r.SetComment(s.val)
		if err := p.semi("comment"); err != nil {
			return err
		}
		t, err = p.peek()
		if err != nil {
			return err
		}
	}
	if t.kind == tokWord && t.val == "expand" {
		p.peeked = false
		s, err := p.expect(tokString, "string after 'expand'")
		if err != nil {
			return err
		}
		r.SetExpand(s.val)
		if err := p.semi("expand"); err != nil {
			return err
		}
	}

	// Unknown admin newphrases, captured verbatim until the delta section
	// (a num) or desc.
	phrases, err := p.parsePhrases(nil)
	if err != nil {
		return err
	}
	r.phrases = phrases
	return nil
}

// parsePhrases captures newphrases: an id followed by any words, nums,
// strings or colons up to ';'. Scanning stops at a num in command
// position, at 'desc', or at any keyword in stop.
func (p *parser) parsePhrases(stop map[string]bool) ([]Phrase, error) {
	var phrases []Phrase
	for {
		t, err := p.peek()
		if err != nil {
			return nil, err
		}
		if t.kind != tokWord || t.val == "desc" || adminKeywords[t.val] || (stop != nil && stop[t.val]) {
			return phrases, nil
		}
		p.peeked = false
		ph := Phrase{Name: t.val}
		for {
			v, err := p.next()
			if err != nil {
				return nil, err
			}
			if v.kind == tokSemi {
				break
			}
			if v.kind == tokEOF {
				return nil, &ErrParse{Offset: v.off, Expected: "';' terminating phrase '" + ph.Name + "'"}
			}
			ph.Values = append(ph.Values, v.raw)
		}
		phrases = append(phrases, ph)
	}
}

var deltaKeywords = map[string]bool{
	"date": true, "author": true, "state": true, "branches": true,
	"next": true, "log": true, "text": true,
}

func (p *parser) parseDeltas(r *Rcs) error {
	for {
		t, err := p.peek()
		if err != nil {
			return err
		}
		if t.kind != tokNum {
			return nil
		}
		p.peeked = false
		rev := num.Num(t.val)
		if r.HasDelta(rev) {
			return &ErrParse{Offset: t.off, Expected: "unique revision (duplicate delta " + t.val + ")"}
		}
		d := &Delta{Revision: rev, IsDiff: rev != r.head}

		if _, err := p.expectKeyword("date"); err != nil {
			return err
		}
		dt, err := p.expect(tokNum, "date numeral")
		if err != nil {
			return err
		}
		d.Date = dt.val
		if err := p.semi("date"); err != nil {
			return err
		}

		if _, err := p.expectKeyword("author"); err != nil {
			return err
		}
		au, err := p.expect(tokWord, "author id")
		if err != nil {
			return err
		}
		d.Author = au.val
		if err := p.semi("author"); err != nil {
			return err
		}

		if _, err := p.expectKeyword("state"); err != nil {
			return err
		}
		st, err := p.peek()
		if err != nil {
			return err
		}
		if st.kind == tokWord {
			p.peeked = false
			d.State = st.val
		}
		if err := p.semi("state"); err != nil {
			return err
		}

		if _, err := p.expectKeyword("branches"); err != nil {
			return err
		}
		for {
			b, err := p.next()
			if err != nil {
				return err
			}
			if b.kind == tokSemi {
				break
			}
			if b.kind != tokNum {
				return &ErrParse{Offset: b.off, Expected: "revision or ';' in branches list"}
			}
			d.Branches = append(d.Branches, num.Num(b.val))
		}

		if _, err := p.expectKeyword("next"); err != nil {
			return err
		}
		nx, err := p.optionalNum()
		if err != nil {
			return err
		}
		d.Next = nx
		if err := p.semi("next"); err != nil {
			return err
		}

		phrases, err := p.parsePhrases(deltaKeywords)
		if err != nil {
			return err
		}
		d.Phrases = phrases
		if err := r.AddDelta(d); err != nil {
			return err
		}
	}
}

func (p *parser) parseDesc(r *Rcs) error {
	if _, err := p.expectKeyword("desc"); err != nil {
		return err
	}
	s, err := p.expect(tokString, "string after 'desc'")
	if err != nil {
		return err
	}
	r.desc = s.val
	return nil
}

func (p *parser) parseDeltaTexts(r *Rcs) error {
	seen := make(map[num.Num]bool)
	for {
		t, err := p.next()
		if err != nil {
			return err
		}
		if t.kind == tokEOF {
			// Every delta header needs its text counterpart.
			for _, n := range r.order {
				if !seen[n] {
					return &ErrParse{Offset: t.off, Expected: "deltatext for revision " + string(n)}
				}
			}
			return nil
		}
		if t.kind != tokNum {
			return &ErrParse{Offset: t.off, Expected: "revision starting a deltatext"}
		}
		rev := num.Num(t.val)
		d, ok := r.deltas[rev]
		if !ok {
			return &ErrParse{Offset: t.off, Expected: "deltatext for a known revision (got " + t.val + ")"}
		}
		if seen[rev] {
			return &ErrParse{Offset: t.off, Expected: "unique deltatext (duplicate for " + t.val + ")"}
		}
		seen[rev] = true

		if _, err := p.expectKeyword("log"); err != nil {
			return err
		}
		lg, err := p.expect(tokString, "string after 'log'")
		if err != nil {
			return err
		}
		d.Log = lg.val

		phrases, err := p.parsePhrases(deltaKeywords)
		if err != nil {
			return err
		}
		d.TextPhrases = phrases

		if _, err := p.expectKeyword("text"); err != nil {
			return err
		}
		tx, err := p.expect(tokString, "string after 'text'")
		if err != nil {
			return err
		}
		d.Text = tx.val
	}
}

// validate checks the cross references the model guarantees: head and all
// next/branches links resolve, and locks (plus revision-shaped symbols)
// name existing deltas.
func (p *parser) validate(r *Rcs) error {
	if r.head == "" {
		if len(r.deltas) > 0 {
			return &ErrInvariant{Field: "head", Msg: "empty head with deltas present"}
		}
		return nil
	}
	if _, ok := r.deltas[r.head]; !ok {
		return &ErrUnknownRevision{Num: r.head}
	}
	for _, n := range r.order {
		d := r.deltas[n]
		if d.Next != "" {
			if _, ok := r.deltas[d.Next]; !ok {
				return &ErrUnknownRevision{Num: d.Next}
			}
		}
		for _, b := range d.Branches {
			if _, ok := r.deltas[b]; !ok {
				return &ErrUnknownRevision{Num: b}
			}
		}
	}
	for _, l := range r.locks {
		if _, ok := r.deltas[l.Num]; !ok {
			return &ErrUnknownRevision{Num: l.Num}
		}
	}
	for _, s := range r.symbols {
		if err := r.checkRevisionRef("symbols", s.Num); err != nil {
			return &ErrUnknownRevision{Num: s.Num}
		}
	}
	return nil
}
