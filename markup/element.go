package markup

import "strings"

// Element is an interior node of the parsed tree: a tag and an ordered list
// of children, each either a string (leaf text) or another *Element.
//
// Adjacent string children are always coalesced: AppendText extends the
// last child in place when it is already a string, rather than appending a
// new one, so a tree never carries two consecutive string children.
type Element struct {
	Tag      string
	Children []any

	closed bool
}

// NewElement returns an empty, open element with the given tag.
func NewElement(tag string) *Element {
	return &Element{Tag: tag}
}

// AppendText appends text to e, coalescing with a trailing string child.
func (e *Element) AppendText(s string) {
	if s == "" {
		return
	}
	if n := len(e.Children); n > 0 {
		if last, ok := e.Children[n-1].(string); ok {
			e.Children[n-1] = last + s
			return
		}
	}
	e.Children = append(e.Children, s)
}

// AppendChild appends a child element to e.
func (e *Element) AppendChild(c *Element) {
	e.Children = append(e.Children, c)
}

// Text concatenates all string children (and recursively all descendant
// text) in document order; used to compute a link's default key from its
// own text when no explicit key child is present.
func (e *Element) Text() string {
	var b strings.Builder
	for _, c := range e.Children {
		switch v := c.(type) {
		case string:
			b.WriteString(v)
		case *Element:
			b.WriteString(v.Text())
		}
	}
	return b.String()
}

// ChildElements returns the *Element children of e, skipping string
// children, in document order.
func (e *Element) ChildElements() []*Element {
	var out []*Element
	for _, c := range e.Children {
		if el, ok := c.(*Element); ok {
			out = append(out, el)
		}
	}
	return out
}

// ToArray renders e as an s-expression-like list: [tag, child, child, ...]
// where each child is either a string or such a list, represented here as
// []any for round-trip equality checks in tests.
func (e *Element) ToArray() []any {
	out := make([]any, 0, len(e.Children)+1)
	out = append(out, e.Tag)
	for _, c := range e.Children {
		switch v := c.(type) {
		case string:
			out = append(out, v)
		case *Element:
			out = append(out, v.ToArray())
		}
	}
	return out
}

// ElementFromArray is the inverse of ToArray, used to exercise the
// round-trip invariant in tests.
func ElementFromArray(a []any) *Element {
	if len(a) == 0 {
		return nil
	}
	tag, _ := a[0].(string)
	e := NewElement(tag)
	for _, item := range a[1:] {
		switch v := item.(type) {
		case string:
			e.AppendText(v)
		case []any:
			e.AppendChild(ElementFromArray(v))
		}
	}
	return e
}
