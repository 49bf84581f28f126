// Package htmlrender turns a parsed markly document into HTML: block tags
// get their own rendering branch, configured tags rewrite to a generic
// div/span with a class, and verbatim text is syntax highlighted with
// chroma.
package htmlrender

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	hlhtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"go.uber.org/zap"

	"github.com/markly-lang/markly/internal/config"
	"github.com/markly-lang/markly/markup"
)

// Renderer walks a markly element tree and writes HTML, with tag policy
// driven by the options in cfg.
type Renderer struct {
	Config *config.Config
	Logger *zap.SugaredLogger
}

// NewRenderer builds a Renderer; a nil logger is replaced by a no-op one so
// callers that don't care about diagnostics don't have to provide one.
func NewRenderer(cfg *config.Config, logger *zap.SugaredLogger) *Renderer {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if cfg == nil {
		cfg = &config.Config{}
	}
	return &Renderer{Config: cfg, Logger: logger}
}

// Render writes doc's HTML rendering to w.
func (r *Renderer) Render(doc *markup.Element, w io.Writer) error {
	sb := &strings.Builder{}
	if err := r.renderChildren(doc, sb, nil); err != nil {
		return err
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// RenderString is a convenience wrapper around Render for callers that want
// the whole document in memory.
func (r *Renderer) RenderString(doc *markup.Element) (string, error) {
	var sb strings.Builder
	if err := r.Render(doc, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// sectionNumber renders a dotted sibling-position path, e.g. [1, 2] -> "1.2.".
func sectionNumber(path []int) string {
	var sb strings.Builder
	for _, n := range path {
		fmt.Fprintf(&sb, "%d.", n)
	}
	return sb.String()
}

var asides = map[string]string{"note": "NOTE: ", "warning": "WARNING! "}

func (r *Renderer) renderElement(e *markup.Element, w *strings.Builder, path []int) error {
	switch e.Tag {

	case "href", "name", "key", "url", "class", "link_def":
		// Reserved metadata tags: consumed by their owning tag's rendering,
		// never rendered as an HTML element of their own.
		return nil

	case "p":
		w.WriteString("<p>")
		if err := r.renderChildren(e, w, path); err != nil {
			return err
		}
		w.WriteString("</p>\n")

	case "h1", "h2", "h3", "h4", "h5", "h6":
		fmt.Fprintf(w, "<%s>", e.Tag)
		if err := r.renderChildren(e, w, path); err != nil {
			return err
		}
		fmt.Fprintf(w, "</%s>\n", e.Tag)

	case "ul", "ol":
		fmt.Fprintf(w, "<%s>\n", e.Tag)
		if err := r.renderChildren(e, w, path); err != nil {
			return err
		}
		fmt.Fprintf(w, "</%s>\n", e.Tag)

	case "li":
		w.WriteString("<li>")
		if err := r.renderChildren(e, w, path); err != nil {
			return err
		}
		w.WriteString("</li>\n")

	case "dl":
		w.WriteString("<dl>\n")
		if err := r.renderChildren(e, w, path); err != nil {
			return err
		}
		w.WriteString("</dl>\n")

	case "dt":
		w.WriteString("<dt>")
		if err := r.renderChildren(e, w, path); err != nil {
			return err
		}
		w.WriteString("</dt>\n")

	case "dd":
		w.WriteString("<dd>")
		if err := r.renderChildren(e, w, path); err != nil {
			return err
		}
		w.WriteString("</dd>\n")

	case "blockquote":
		w.WriteString("<blockquote>\n")
		if err := r.renderChildren(e, w, path); err != nil {
			return err
		}
		w.WriteString("</blockquote>\n")

	case "pre":
		return r.renderVerbatim(e, w)

	case "link":
		url, _ := markup.LinkHref(e)
		fmt.Fprintf(w, `<a href="%s">`, html.EscapeString(url))
		if err := r.renderChildren(e, w, path); err != nil {
			return err
		}
		w.WriteString("</a>")

	case "section":
		name := sectionName(e)
		w.WriteString("<section>")
		if name != "" {
			fmt.Fprintf(w, "<h2>%s %s</h2>\n", sectionNumber(path), html.EscapeString(name))
		}
		if err := r.renderChildren(e, w, path); err != nil {
			return err
		}
		w.WriteString("</section>\n")

	case "note", "warning":
		prefix, ok := asides[e.Tag]
		if !ok {
			prefix = ""
		}
		fmt.Fprintf(w, `<aside class="%s">`, e.Tag)
		if prefix != "" {
			w.WriteString(prefix)
		}
		if err := r.renderChildren(e, w, path); err != nil {
			return err
		}
		w.WriteString("</aside>\n")

	default:
		return r.renderGeneric(e, w, path)
	}
	return nil
}

func (r *Renderer) renderGeneric(e *markup.Element, w *strings.Builder, path []int) error {
	tag, class := e.Tag, ""
	switch {
	case contains(r.Config.Divs, e.Tag):
		tag, class = "div", e.Tag
	case contains(r.Config.Spans, e.Tag):
		tag, class = "span", e.Tag
	default:
		r.Logger.Debugw("rendering tag with default pass-through policy", "tag", e.Tag)
	}
	if class != "" {
		fmt.Fprintf(w, `<%s class="%s">`, tag, class)
	} else {
		fmt.Fprintf(w, "<%s>", tag)
	}
	if contains(r.Config.BlockElements, e.Tag) {
		w.WriteString("\n")
	}
	if err := r.renderChildren(e, w, path); err != nil {
		return err
	}
	fmt.Fprintf(w, "</%s>", tag)
	if contains(r.Config.BlockElements, e.Tag) {
		w.WriteString("\n")
	}
	return nil
}

// renderChildren renders e's children in order, numbering any "section"
// children as siblings at this nesting level (path + their 1-based position
// among section siblings here) and skipping the reserved "name" metadata
// child sections carry.
func (r *Renderer) renderChildren(e *markup.Element, w *strings.Builder, path []int) error {
	sectionsSeen := 0
	for _, c := range e.Children {
		switch v := c.(type) {
		case string:
			w.WriteString(html.EscapeString(v))
		case *markup.Element:
			if v.Tag == "name" {
				continue
			}
			childPath := path
			if v.Tag == "section" {
				sectionsSeen++
				childPath = append(append([]int{}, path...), sectionsSeen)
			}
			if err := r.renderElement(v, w, childPath); err != nil {
				return err
			}
		}
	}
	return nil
}

// renderVerbatim syntax-highlights a pre block's text with chroma. A class
// set via SetVerbatimClass picks the lexer directly; otherwise it falls
// back to lexers.Analyse and then the plain-text lexer.
func (r *Renderer) renderVerbatim(e *markup.Element, w *strings.Builder) error {
	content := verbatimContent(e)

	var l chroma.Lexer
	if class, ok := markup.VerbatimClass(e); ok {
		l = lexers.Get(class)
	}
	if l == nil {
		l = lexers.Analyse(content)
	}
	if l == nil {
		l = lexers.Fallback
		r.Logger.Debugw("could not detect a lexer for verbatim block, using fallback")
	}
	l = chroma.Coalesce(l)

	styleName := "github"
	if r.Config != nil {
		styleName = r.Config.StyleName()
	}
	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}

	formatter := hlhtml.New(hlhtml.Standalone(false), hlhtml.PreventSurroundingPre(true))

	it, err := l.Tokenise(nil, content)
	if err != nil {
		return fmt.Errorf("htmlrender: tokenising verbatim block: %w", err)
	}

	w.WriteString("<pre><code>")
	if err := formatter.Format(w, style, it); err != nil {
		return fmt.Errorf("htmlrender: formatting verbatim block: %w", err)
	}
	w.WriteString("</code></pre>\n")
	return nil
}

// verbatimContent returns a pre block's text, skipping the reserved "class"
// child SetVerbatimClass may have prepended.
func verbatimContent(e *markup.Element) string {
	var sb strings.Builder
	for _, c := range e.Children {
		switch v := c.(type) {
		case string:
			sb.WriteString(v)
		case *markup.Element:
			if v.Tag == "class" {
				continue
			}
			sb.WriteString(v.Text())
		}
	}
	return sb.String()
}

func sectionName(e *markup.Element) string {
	for _, c := range e.ChildElements() {
		if c.Tag == "name" {
			return c.Text()
		}
	}
	return ""
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
