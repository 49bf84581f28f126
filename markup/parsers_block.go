package markup

import "fmt"

// TokenEater is a one-shot parser state that requires the very next token
// to satisfy want, pops itself, and then invokes onMatch — the control
// channel ListParser uses to consume the single space after a list marker
// before bumping indentation, and the mechanism UrlParser/section
// parsers use to wait for a terminating Blank line.
type TokenEater struct {
	Want    func(HighToken) bool
	OnMatch func(ctl *Controller, tok HighToken) error
	Expect  string
}

func (p *TokenEater) Grok(ctl *Controller, tok HighToken) error {
	if !p.Want(tok) {
		return ctl.Errorf(tok, "expected %s", p.Expect)
	}
	ctl.PopParser()
	return p.OnMatch(ctl, tok)
}

func wantChar(ch rune) func(HighToken) bool {
	return func(tok HighToken) bool { return tok.IsChar(ch) }
}

func wantKind(k HighKind) func(HighToken) bool {
	return func(tok HighToken) bool { return tok.Kind == k }
}

// redeliver feeds tokens to whatever parser is on top of the stack one at a
// time, re-reading the top before each token — necessary whenever a state
// hands off a buffered lookahead, since an earlier token in the batch may
// itself push a new parser that must receive the later tokens instead of
// the one that redelivered them.
func redeliver(ctl *Controller, tokens []HighToken) error {
	for _, t := range tokens {
		p := ctl.CurrentParser()
		if p == nil {
			return &SyntaxError{Filename: ctl.Filename, Pos: t.Pos, Msg: "token redelivered with no active parser"}
		}
		if err := p.Grok(ctl, t); err != nil {
			return err
		}
	}
	return nil
}

var escapableSigils = map[rune]bool{
	'\\': true, '{': true, '}': true, '*': true, '-': true,
	'#': true, '[': true, ']': true, '<': true, '|': true, '%': true,
}

// commonBlockOpen handles the block-start dispatch shared by DocumentParser,
// IndentedElementParser, and DefinitionDefinitionParser: everything except
// Blank/Newline handling, CloseBlockquote handling, and the paragraph
// fallback, each of which differs by caller (document vs. indented body).
func commonBlockOpen(ctl *Controller, tok HighToken, nestedSection bool) (bool, error) {
	switch {
	case tok.IsChar('*'):
		ctl.PushParser(&HeaderParser{Level: 1})
		return true, nil
	case tok.IsChar('-'):
		ctl.PushParser(&PossibleModelineParser{Buffered: []HighToken{tok}})
		return true, nil
	case tok.Kind == TokOpenBlockquote:
		ctl.PushParser(&BlockquoteOrListParser{})
		return true, nil
	case tok.Kind == TokOpenVerbatim:
		pre := ctl.OpenElement("pre")
		ctl.PushParser(&VerbatimParser{Element: pre})
		return true, nil
	case tok.IsChar('['):
		wrapper := ctl.OpenElement("")
		ctl.PushParser(&AmbiguousLinkParser{Wrapper: wrapper})
		ctl.PushParser(NewLinkParser(ctl))
		return true, nil
	case tok.IsChar('#'):
		ctl.PushParser(&SectionStartParser{Nested: nestedSection})
		return true, nil
	}
	return false, nil
}

// DocumentParser is the top-level (and subdocument/nested-section) block
// dispatcher. brace_is_eof marks a subdocument body opened by \name{...},
// where a bare '}' closes the owning element instead of being literal text.
type DocumentParser struct {
	BraceIsEOF      bool
	IsNestedSection bool
}

func (p *DocumentParser) Grok(ctl *Controller, tok HighToken) error {
	if handled, err := commonBlockOpen(ctl, tok, p.IsNestedSection); handled || err != nil {
		return err
	}
	switch {
	case tok.Kind == TokBlank || tok.Kind == TokNewline:
		return nil
	case tok.Kind == TokCloseBlockquote:
		return ctl.Errorf(tok, "unexpected dedent at document level")
	case tok.IsChar('}') && p.BraceIsEOF:
		if err := ctl.CloseElement(ctl.CurrentElement(), tok.Pos); err != nil {
			return err
		}
		ctl.PopParser()
		return nil
	default:
		para := ctl.OpenElement("p")
		pp := &ParagraphParser{Element: para, BraceIsEOF: p.BraceIsEOF}
		ctl.PushParser(pp)
		return pp.Grok(ctl, tok)
	}
}

// ParagraphParser accumulates inline text and inline markup for one
// paragraph, closing on a blank line or (inside a subdocument) on the
// owning brace.
type ParagraphParser struct {
	Element      *Element
	BraceIsEOF   bool
	pendingSpace bool
}

// flushPendingSpace inserts the space a wrapped-line join owes, but only
// once it's clear more text is actually coming — never before the
// paragraph closes, so closing never leaves a trailing space.
func (p *ParagraphParser) flushPendingSpace() {
	if p.pendingSpace {
		p.Element.AppendText(" ")
		p.pendingSpace = false
	}
}

func (p *ParagraphParser) Grok(ctl *Controller, tok HighToken) error {
	switch {
	case tok.Kind == TokBlank:
		if err := ctl.CloseElement(p.Element, tok.Pos); err != nil {
			return err
		}
		ctl.PopParser()
		return nil
	case tok.Kind == TokNewline:
		p.pendingSpace = true
		return nil
	case tok.IsChar('\\'):
		p.flushPendingSpace()
		ctl.PushParser(&SlashParser{})
		return nil
	case tok.IsChar('['):
		p.flushPendingSpace()
		ctl.PushParser(NewLinkParser(ctl))
		return nil
	case tok.IsChar('}') && p.BraceIsEOF:
		if err := ctl.CloseElement(p.Element, tok.Pos); err != nil {
			return err
		}
		ctl.PopParser()
		return ctl.CurrentParser().Grok(ctl, tok)
	case tok.Kind == TokOpenBlockquote, tok.Kind == TokOpenVerbatim,
		tok.Kind == TokCloseBlockquote, tok.Kind == TokCloseVerbatim:
		// Paragraphs don't own an indentation level; close and let the
		// enclosing body (which does) react to the same token.
		if err := ctl.CloseElement(p.Element, tok.Pos); err != nil {
			return err
		}
		ctl.PopParser()
		return ctl.CurrentParser().Grok(ctl, tok)
	case tok.Kind == TokChar:
		p.flushPendingSpace()
		p.Element.AppendText(string(tok.Ch))
		return nil
	}
	return ctl.Errorf(tok, "unexpected token in paragraph")
}

// HeaderParser counts leading '*' to determine header level, then hands
// off to a ParagraphParser scoped to the new h{level} element.
type HeaderParser struct {
	Level int
}

func (p *HeaderParser) Grok(ctl *Controller, tok HighToken) error {
	if tok.IsChar('*') {
		p.Level++
		return nil
	}
	if tok.IsChar(' ') {
		h := ctl.OpenElement(fmt.Sprintf("h%d", p.Level))
		ctl.SwapParser(&ParagraphParser{Element: h})
		return nil
	}
	return ctl.Errorf(tok, "malformed header marker")
}

// BlockquoteOrListParser examines the first token after an OpenBlockquote
// to decide whether the indented body is an ordered list, unordered list,
// definition list, or plain blockquote.
type BlockquoteOrListParser struct{}

func (p *BlockquoteOrListParser) Grok(ctl *Controller, tok HighToken) error {
	switch {
	case tok.IsChar('#'):
		list := ctl.OpenElement("ol")
		lp := &ListParser{Marker: '#', Element: list}
		ctl.SwapParser(lp)
		return lp.Grok(ctl, tok)
	case tok.IsChar('-'):
		list := ctl.OpenElement("ul")
		lp := &ListParser{Marker: '-', Element: list}
		ctl.SwapParser(lp)
		return lp.Grok(ctl, tok)
	case tok.IsChar('%'):
		dl := ctl.OpenElement("dl")
		dlp := &DefinitionListParser{Element: dl}
		ctl.SwapParser(dlp)
		return dlp.Grok(ctl, tok)
	default:
		ctl.OpenElement("blockquote")
		iep := &IndentedElementParser{}
		ctl.SwapParser(iep)
		return iep.Grok(ctl, tok)
	}
}

// IndentedElementParser dispatches block-level content inside a blockquote
// body, list item, or definition body; it closes whatever element is
// currently open when the enclosing indentation ends.
type IndentedElementParser struct{}

func (p *IndentedElementParser) Grok(ctl *Controller, tok HighToken) error {
	if handled, err := commonBlockOpen(ctl, tok, true); handled || err != nil {
		return err
	}
	switch {
	case tok.Kind == TokBlank:
		return ctl.Errorf(tok, "unexpected blank line at start of indented block")
	case tok.Kind == TokNewline:
		return ctl.Errorf(tok, "unexpected newline at start of indented block")
	case tok.Kind == TokCloseBlockquote:
		if err := ctl.CloseElement(ctl.CurrentElement(), tok.Pos); err != nil {
			return err
		}
		ctl.PopParser()
		return nil
	default:
		para := ctl.OpenElement("p")
		pp := &ParagraphParser{Element: para}
		ctl.PushParser(pp)
		return pp.Grok(ctl, tok)
	}
}

// VerbatimParser passes characters through literally, preserving interior
// blank lines, until the matching CloseVerbatim.
type VerbatimParser struct {
	Element *Element
	blanks  int
}

func (p *VerbatimParser) Grok(ctl *Controller, tok HighToken) error {
	switch {
	case tok.Kind == TokBlank:
		p.blanks++
		return nil
	case tok.Kind == TokNewline:
		p.Element.AppendText("\n")
		return nil
	case tok.Kind == TokCloseVerbatim:
		if err := ctl.CloseElement(p.Element, tok.Pos); err != nil {
			return err
		}
		ctl.PopParser()
		return nil
	case tok.Kind == TokChar:
		if p.blanks > 0 {
			for i := 0; i < p.blanks+1; i++ {
				p.Element.AppendText("\n")
			}
			p.blanks = 0
		}
		p.Element.AppendText(string(tok.Ch))
		return nil
	}
	return ctl.Errorf(tok, "unexpected token in verbatim block")
}

// ListParser owns an ol/ul element. Every occurrence of its marker opens a
// new list item whose body is indented two spaces further; a CloseBlockquote
// at the list's own indentation level closes the list.
type ListParser struct {
	Marker  rune
	Element *Element
}

func (p *ListParser) Grok(ctl *Controller, tok HighToken) error {
	switch {
	case tok.IsChar(p.Marker):
		ctl.PushParser(&TokenEater{
			Want:   wantChar(' '),
			Expect: "space after list marker",
			OnMatch: func(ctl *Controller, _ HighToken) error {
				ctl.AddIndentation(2)
				ctl.OpenElement("li")
				ctl.PushParser(&IndentedElementParser{})
				return nil
			},
		})
		return nil
	case tok.Kind == TokCloseBlockquote:
		if err := ctl.CloseElement(p.Element, tok.Pos); err != nil {
			return err
		}
		ctl.PopParser()
		return nil
	case tok.Kind == TokBlank, tok.Kind == TokNewline:
		return nil
	}
	return ctl.Errorf(tok, "unexpected token in list")
}

// DefinitionListParser owns a dl element; '%' starts each term/definition
// pair and CloseBlockquote closes the list.
type DefinitionListParser struct {
	Element *Element
}

func (p *DefinitionListParser) Grok(ctl *Controller, tok HighToken) error {
	switch {
	case tok.IsChar('%'):
		ctl.PushParser(&TokenEater{
			Want:   wantChar(' '),
			Expect: "space after definition marker",
			OnMatch: func(ctl *Controller, _ HighToken) error {
				dt := ctl.OpenElement("dt")
				ctl.PushParser(&DefinitionTermParser{Element: dt})
				return nil
			},
		})
		return nil
	case tok.Kind == TokCloseBlockquote:
		if err := ctl.CloseElement(p.Element, tok.Pos); err != nil {
			return err
		}
		ctl.PopParser()
		return nil
	case tok.Kind == TokBlank, tok.Kind == TokNewline:
		return nil
	}
	return ctl.Errorf(tok, "unexpected token in definition list")
}

// DefinitionTermParser reads term text up to the terminating newline, then
// hands off to the definition body.
type DefinitionTermParser struct {
	Element *Element
}

func (p *DefinitionTermParser) Grok(ctl *Controller, tok HighToken) error {
	if tok.Kind == TokNewline {
		if err := ctl.CloseElement(p.Element, tok.Pos); err != nil {
			return err
		}
		// Bump expected indentation before the body appears, exactly like
		// ListParser does after a marker+space — otherwise the body's own
		// (deeper) indentation reads as a fresh blockquote instead of the
		// plain indented body it actually is.
		ctl.AddIndentation(2)
		dd := ctl.OpenElement("dd")
		ctl.SwapParser(&DefinitionDefinitionParser{Element: dd})
		return nil
	}
	if tok.Kind == TokChar {
		p.Element.AppendText(string(tok.Ch))
		return nil
	}
	return ctl.Errorf(tok, "unexpected token in definition term")
}

// DefinitionDefinitionParser dispatches the definition body like any other
// indented element body, closing the dd (not the enclosing dl) on dedent.
type DefinitionDefinitionParser struct {
	Element *Element
}

func (p *DefinitionDefinitionParser) Grok(ctl *Controller, tok HighToken) error {
	if handled, err := commonBlockOpen(ctl, tok, true); handled || err != nil {
		return err
	}
	switch {
	case tok.Kind == TokBlank, tok.Kind == TokNewline:
		return nil
	case tok.Kind == TokCloseBlockquote:
		if err := ctl.CloseElement(p.Element, tok.Pos); err != nil {
			return err
		}
		ctl.PopParser()
		return nil
	default:
		para := ctl.OpenElement("p")
		pp := &ParagraphParser{Element: para}
		ctl.PushParser(pp)
		return pp.Grok(ctl, tok)
	}
}

// PossibleModelineParser buffers the first tokens of a line starting with
// '-' to recognize an Emacs modeline ("-*- ... -*-"), which is silently
// discarded. If the pattern doesn't match, it reverts — and since a line
// starting "- " is also how an unordered list item begins, the revert path
// disambiguates that case into a list instead of unconditionally falling
// back to a paragraph.
type PossibleModelineParser struct {
	Buffered []HighToken
	matched  bool
}

func (p *PossibleModelineParser) Grok(ctl *Controller, tok HighToken) error {
	if !p.matched {
		if tok.IsChar('*') {
			p.matched = true
			return nil
		}
		return p.revert(ctl, tok)
	}
	// Matched "-*"; discard the rest of the line.
	if tok.Kind == TokNewline || tok.Kind == TokBlank {
		ctl.PopParser()
		return nil
	}
	return nil
}

func (p *PossibleModelineParser) revert(ctl *Controller, tok HighToken) error {
	all := append(append([]HighToken{}, p.Buffered...), tok)

	if len(p.Buffered) == 1 && p.Buffered[0].IsChar('-') && tok.IsChar(' ') {
		list := ctl.OpenElement("ul")
		lp := &ListParser{Marker: '-', Element: list}
		ctl.SwapParser(lp)
		return redeliver(ctl, all)
	}

	para := ctl.OpenElement("p")
	pp := &ParagraphParser{Element: para}
	ctl.SwapParser(pp)
	return redeliver(ctl, all)
}

// SectionStartParser matches the second '#' of a section marker, then
// dispatches to either a close wait (if '.' follows, and we're nested) or
// SectionNameParser (if a space follows, beginning a new named section).
type SectionStartParser struct {
	Nested    bool
	sawSecond bool
}

func (p *SectionStartParser) Grok(ctl *Controller, tok HighToken) error {
	if !p.sawSecond {
		if tok.IsChar('#') {
			p.sawSecond = true
			return nil
		}
		return ctl.Errorf(tok, "expected second '#' in section marker")
	}
	switch {
	case tok.IsChar('.'):
		if !p.Nested {
			return ctl.Errorf(tok, "section close marker outside nested section")
		}
		ctl.SwapParser(&TokenEater{
			Want:   wantKind(TokBlank),
			Expect: "blank line after section close marker",
			OnMatch: func(ctl *Controller, tok HighToken) error {
				if err := ctl.CloseElement(ctl.CurrentElement(), tok.Pos); err != nil {
					return err
				}
				ctl.PopParser() // pop the nested DocumentParser
				return nil
			},
		})
		return nil
	case tok.IsChar(' '):
		ctl.SwapParser(&SectionNameParser{})
		return nil
	}
	return ctl.Errorf(tok, "malformed section marker")
}

// SectionNameParser accumulates a section's name up to the blank line that
// terminates the header, then opens the section element and a nested
// DocumentParser for its body.
type SectionNameParser struct {
	name []rune
}

func (p *SectionNameParser) Grok(ctl *Controller, tok HighToken) error {
	switch {
	case tok.Kind == TokBlank:
		ctl.PopParser()
		section := ctl.OpenElement("section")
		nameChild := NewElement("name")
		nameChild.AppendText(string(p.name))
		section.AppendChild(nameChild)
		ctl.PushParser(&DocumentParser{IsNestedSection: true})
		return nil
	case tok.Kind == TokChar:
		p.name = append(p.name, tok.Ch)
		return nil
	case tok.Kind == TokNewline:
		return nil
	}
	return ctl.Errorf(tok, "unexpected token in section name")
}
