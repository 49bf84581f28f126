package markup

// SetLinkHref attaches a resolved URL to link, stored as a reserved "href"
// child ahead of link's own content — the same convention link_def uses for
// its "url" child, so the renderer can find it without a separate
// attributes side table.
func SetLinkHref(link *Element, url string) {
	href := NewElement("href")
	href.AppendText(url)
	link.Children = append([]any{href}, link.Children...)
}

// LinkHref reads back the href set by SetLinkHref, if any.
func LinkHref(link *Element) (url string, ok bool) {
	for _, c := range link.ChildElements() {
		if c.Tag == "href" {
			return c.Text(), true
		}
	}
	return "", false
}

// SetVerbatimClass attaches a language hint to pre, stored as a reserved
// "class" child ahead of pre's own content, the same convention SetLinkHref
// uses for "href". A renderer can use the class to pick a syntax lexer
// instead of guessing from the content.
func SetVerbatimClass(pre *Element, class string) {
	c := NewElement("class")
	c.AppendText(class)
	pre.Children = append([]any{c}, pre.Children...)
}

// VerbatimClass reads back the class set by SetVerbatimClass, if any.
func VerbatimClass(pre *Element) (class string, ok bool) {
	for _, c := range pre.ChildElements() {
		if c.Tag == "class" {
			return c.Text(), true
		}
	}
	return "", false
}
