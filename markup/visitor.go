package markup

// Visitor receives a pre-order walk of an element tree. Renderers implement
// Visitor to decide, per tag, whether it is block or inline, whether it is
// rewritten as a div/span with a class attribute, and how a link's href
// attribute is derived — none of that policy lives in the markup package.
type Visitor interface {
	OpenTag(tag string, attrs map[string]string)
	Text(s string)
	CloseTag(tag string)
}

// reservedAttrTags are the metadata child tags attrs.go and linkdef.go use
// to carry a value alongside an element (a link's href, a link_def's url,
// an explicit link key, a section's name, a verbatim block's class) rather
// than a new attribute map on Element. Walk folds these into the attrs
// passed to OpenTag instead of walking them as ordinary child nodes.
var reservedAttrTags = map[string]bool{
	"href":  true,
	"url":   true,
	"key":   true,
	"name":  true,
	"class": true,
}

// Walk performs a pre-order traversal of e: call OpenTag with e's reserved
// metadata children folded into attrs, recurse into the remaining children
// in order (strings invoke Text), then call CloseTag. A metadata child is
// exposed only through attrs, never as a separate OpenTag/Text/CloseTag of
// its own.
func Walk(e *Element, v Visitor) {
	var attrs map[string]string
	content := make([]any, 0, len(e.Children))
	for _, c := range e.Children {
		if el, ok := c.(*Element); ok && reservedAttrTags[el.Tag] {
			if attrs == nil {
				attrs = make(map[string]string)
			}
			attrs[el.Tag] = el.Text()
			continue
		}
		content = append(content, c)
	}

	v.OpenTag(e.Tag, attrs)
	for _, c := range content {
		switch val := c.(type) {
		case string:
			v.Text(val)
		case *Element:
			Walk(val, v)
		}
	}
	v.CloseTag(e.Tag)
}
