package markup

// LinkDefs walks doc's direct children, collecting every link_def element
// into a mapping from key text to URL text, without modifying doc.
func LinkDefs(doc *Element) map[string]string {
	defs := map[string]string{}
	for _, c := range doc.ChildElements() {
		if c.Tag != "link_def" {
			continue
		}
		key, url := linkDefKeyURL(c)
		defs[key] = url
	}
	return defs
}

// LinkDefsDestructive behaves like LinkDefs but also removes the resolved
// link_def children from doc, returning the mapping it built.
func LinkDefsDestructive(doc *Element) map[string]string {
	defs := map[string]string{}
	kept := make([]any, 0, len(doc.Children))
	for _, c := range doc.Children {
		el, ok := c.(*Element)
		if !ok || el.Tag != "link_def" {
			kept = append(kept, c)
			continue
		}
		key, url := linkDefKeyURL(el)
		defs[key] = url
	}
	doc.Children = kept
	return defs
}

// linkDefKeyURL reads a link_def's key and URL from its "link" and "url"
// children respectively — not def.Text(), which would concatenate both. An
// explicit key child is read in place, not removed.
func linkDefKeyURL(def *Element) (key, url string) {
	for _, c := range def.ChildElements() {
		switch c.Tag {
		case "link":
			key = c.Text()
			for _, k := range c.ChildElements() {
				if k.Tag == "key" {
					key = k.Text()
				}
			}
		case "url":
			url = c.Text()
		}
	}
	return key, url
}

// LinkKey extracts link's lookup key: the text of an explicit key child if
// present (removing that child from link's children), else the link's own
// full concatenated text.
func LinkKey(link *Element) string {
	for i, c := range link.Children {
		el, ok := c.(*Element)
		if !ok || el.Tag != "key" {
			continue
		}
		key := el.Text()
		link.Children = append(link.Children[:i:i], link.Children[i+1:]...)
		return key
	}
	return link.Text()
}

// ResolveLinks is the link-resolution post-pass: it extracts link_def
// children from doc (destructively) and rewrites every descendant link
// element it finds into the caller's representation by calling resolve
// with the link's key and looked-up URL (empty string if the key is
// undefined). It does not descend into link_def elements' own text, since
// those have already been removed by the time resolution of ordinary links
// runs.
func ResolveLinks(doc *Element, resolve func(link *Element, key, url string)) {
	defs := LinkDefsDestructive(doc)
	var walk func(e *Element)
	walk = func(e *Element) {
		for _, child := range e.ChildElements() {
			if child.Tag == "link" {
				key := LinkKey(child)
				resolve(child, key, defs[key])
			}
			walk(child)
		}
	}
	walk(doc)
}
