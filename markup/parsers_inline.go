package markup

// SlashParser decides, after a '\', whether the next character is a literal
// escaped sigil or the start of a named brace-delimited tag.
type SlashParser struct{}

func (p *SlashParser) Grok(ctl *Controller, tok HighToken) error {
	if tok.Kind == TokChar && escapableSigils[tok.Ch] {
		ctl.CurrentElement().AppendText(string(tok.Ch))
		ctl.PopParser()
		return nil
	}
	ctl.PopParser()
	np := &NameParser{}
	ctl.PushParser(np)
	return np.Grok(ctl, tok)
}

// NameParser accumulates a tag name until '{'. If the name was registered
// as a subdocument tag it runs nested block parsing inside the braces;
// otherwise the braces run inline rules only.
type NameParser struct {
	name []rune
}

func (p *NameParser) Grok(ctl *Controller, tok HighToken) error {
	if tok.IsChar('{') {
		name := string(p.name)
		ctl.PopParser()
		ctl.OpenElement(name)
		if ctl.IsSubdoc(name) {
			ctl.PushParser(&DocumentParser{BraceIsEOF: true})
		} else {
			ctl.PushParser(&BraceDelimitedParser{})
		}
		return nil
	}
	if tok.Kind == TokChar {
		p.name = append(p.name, tok.Ch)
		return nil
	}
	return ctl.Errorf(tok, "unexpected token reading tag name")
}

// BraceDelimitedParser runs inline-only rules (escapes, links, text) inside
// a non-subdocument \name{...} tag until the matching '}'.
type BraceDelimitedParser struct{}

func (p *BraceDelimitedParser) Grok(ctl *Controller, tok HighToken) error {
	switch {
	case tok.IsChar('}'):
		if err := ctl.CloseElement(ctl.CurrentElement(), tok.Pos); err != nil {
			return err
		}
		ctl.PopParser()
		return nil
	case tok.IsChar('\\'):
		ctl.PushParser(&SlashParser{})
		return nil
	case tok.IsChar('['):
		ctl.PushParser(NewLinkParser(ctl))
		return nil
	case tok.Kind == TokNewline, tok.Kind == TokBlank:
		ctl.CurrentElement().AppendText(" ")
		return nil
	case tok.Kind == TokChar:
		ctl.CurrentElement().AppendText(string(tok.Ch))
		return nil
	}
	return ctl.Errorf(tok, "unexpected token inside brace-delimited tag")
}

// LinkParser opens a link element and reads its text and optional key
// (after '|') until the closing ']'.
type LinkParser struct {
	Element *Element
	Key     *Element
	inKey   bool
}

// NewLinkParser opens the link element immediately, since this parser is
// always pushed in response to a '[' its caller has already consumed.
func NewLinkParser(ctl *Controller) *LinkParser {
	return &LinkParser{Element: ctl.OpenElement("link")}
}

func (p *LinkParser) Grok(ctl *Controller, tok HighToken) error {
	switch {
	case tok.IsChar('|'):
		p.Key = ctl.OpenElement("key")
		p.inKey = true
		return nil
	case tok.IsChar(']'):
		if p.inKey {
			if err := ctl.CloseElement(p.Key, tok.Pos); err != nil {
				return err
			}
		}
		if err := ctl.CloseElement(p.Element, tok.Pos); err != nil {
			return err
		}
		ctl.PopParser()
		return nil
	case tok.Kind == TokNewline:
		ctl.CurrentElement().AppendText(" ")
		return nil
	case tok.Kind == TokChar:
		ctl.CurrentElement().AppendText(string(tok.Ch))
		return nil
	}
	return ctl.Errorf(tok, "unexpected token inside link")
}

// AmbiguousLinkParser is pushed beneath a LinkParser at block-start
// position. Once the link closes, the next one or two tokens disambiguate
// between a link definition (space then '<') and a paragraph that merely
// starts with a link.
type AmbiguousLinkParser struct {
	Wrapper  *Element
	gotSpace bool
	spaceTok HighToken
}

func (p *AmbiguousLinkParser) Grok(ctl *Controller, tok HighToken) error {
	if !p.gotSpace {
		if tok.IsChar(' ') {
			p.gotSpace = true
			p.spaceTok = tok
			return nil
		}
		return p.revertToParagraph(ctl, []HighToken{tok})
	}
	if tok.IsChar('<') {
		p.Wrapper.Tag = "link_def"
		ctl.SwapParser(&LinkdefParser{Wrapper: p.Wrapper})
		return ctl.CurrentParser().Grok(ctl, tok)
	}
	return p.revertToParagraph(ctl, []HighToken{p.spaceTok, tok})
}

func (p *AmbiguousLinkParser) revertToParagraph(ctl *Controller, tokens []HighToken) error {
	p.Wrapper.Tag = "p"
	pp := &ParagraphParser{Element: p.Wrapper}
	ctl.SwapParser(pp)
	return redeliver(ctl, tokens)
}

// LinkdefParser expects '<' to open the URL element of a link definition.
type LinkdefParser struct {
	Wrapper *Element
}

func (p *LinkdefParser) Grok(ctl *Controller, tok HighToken) error {
	if tok.IsChar('<') {
		url := ctl.OpenElement("url")
		ctl.SwapParser(&UrlParser{Element: url, Wrapper: p.Wrapper})
		return nil
	}
	return ctl.Errorf(tok, "expected '<' opening link definition url")
}

// UrlParser accumulates URL text until '>', then waits for the blank line
// that terminates the link definition.
type UrlParser struct {
	Element *Element
	Wrapper *Element
}

func (p *UrlParser) Grok(ctl *Controller, tok HighToken) error {
	switch {
	case tok.IsChar('>'):
		if err := ctl.CloseElement(p.Element, tok.Pos); err != nil {
			return err
		}
		wrapper := p.Wrapper
		ctl.SwapParser(&TokenEater{
			Want:   wantKind(TokBlank),
			Expect: "blank line after link definition",
			OnMatch: func(ctl *Controller, tok HighToken) error {
				return ctl.CloseElement(wrapper, tok.Pos)
			},
		})
		return nil
	case tok.Kind == TokChar:
		p.Element.AppendText(string(tok.Ch))
		return nil
	}
	return ctl.Errorf(tok, "unexpected token inside link definition url")
}
