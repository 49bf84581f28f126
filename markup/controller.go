package markup

import (
	"fmt"

	"github.com/emirpasic/gods/stacks/arraystack"
)

// Parser is the single-method interface every parser state implements —
// the idiomatic Go rendition of a tagged variant dispatched by the driver:
// Go has no sum types, so each state is its own small struct and the
// driver dispatches via this interface rather than a closed pattern match.
type Parser interface {
	Grok(ctl *Controller, tok HighToken) error
}

// Controller is the Markup controller: it owns the parser stack and the
// element stack, and exposes the operations individual parser states use
// to mutate both. One Controller is created fresh per parse; it is never
// reused or shared across goroutines.
type Controller struct {
	tok *Tokenizer

	parsers  *arraystack.Stack
	elements *arraystack.Stack

	subdocs map[string]bool

	Filename string
}

// NewController returns a Controller wrapping the given tokenizer, with doc
// as the single, already-open root element and subdocs naming the tags
// that run nested block parsing when opened via \name{...}.
func NewController(tok *Tokenizer, doc *Element, subdocs map[string]bool) *Controller {
	c := &Controller{
		tok:      tok,
		parsers:  arraystack.New(),
		elements: arraystack.New(),
		subdocs:  subdocs,
	}
	c.elements.Push(doc)
	return c
}

// PushParser makes p the parser that receives the next token.
func (c *Controller) PushParser(p Parser) {
	c.parsers.Push(p)
}

// PopParser discards the top-of-stack parser, returning control to whatever
// parser is beneath it.
func (c *Controller) PopParser() {
	c.parsers.Pop()
}

// SwapParser pops the current top parser and pushes p in its place — used
// by states that hand off to a child state for the same element (e.g.
// HeaderParser swapping itself for a ParagraphParser).
func (c *Controller) SwapParser(p Parser) {
	c.parsers.Pop()
	c.parsers.Push(p)
}

// CurrentParser returns the top-of-stack parser.
func (c *Controller) CurrentParser() Parser {
	v, ok := c.parsers.Peek()
	if !ok {
		return nil
	}
	return v.(Parser)
}

// OpenElement appends a new child element with the given tag to the
// current element, pushes it onto the element stack, and returns it.
func (c *Controller) OpenElement(tag string) *Element {
	e := NewElement(tag)
	c.CurrentElement().AppendChild(e)
	c.elements.Push(e)
	return e
}

// PushExistingElement pushes an already-constructed element onto the
// element stack without appending it anywhere. No parser state in this
// package calls it: AmbiguousLinkParser retags its wrapper in place while
// the wrapper is still on the stack from OpenElement.
func (c *Controller) PushExistingElement(e *Element) {
	c.elements.Push(e)
}

// CloseElement closes e, which must be exactly the top-of-stack element;
// any mismatch is a structural SyntaxError.
func (c *Controller) CloseElement(e *Element, pos Position) error {
	top := c.CurrentElement()
	if top != e {
		return &SyntaxError{
			Filename: c.Filename,
			Pos:      pos,
			Msg:      "close of element not at top of element stack",
		}
	}
	e.closed = true
	c.elements.Pop()
	return nil
}

// CurrentElement returns the top-of-stack element — the element that
// subsequent text/children append to.
func (c *Controller) CurrentElement() *Element {
	v, ok := c.elements.Peek()
	if !ok {
		return nil
	}
	return v.(*Element)
}

// IsSubdoc reports whether name was registered as a subdocument tag.
func (c *Controller) IsSubdoc(name string) bool {
	return c.subdocs[name]
}

// AddIndentation forwards to the tokenizer's control channel.
func (c *Controller) AddIndentation(n int) {
	c.tok.AddIndentation(n)
}

// Errorf builds a *SyntaxError positioned at tok for the current filename.
func (c *Controller) Errorf(tok HighToken, format string, args ...any) error {
	return &SyntaxError{Filename: c.Filename, Pos: tok.Pos, Msg: fmt.Sprintf(format, args...)}
}
