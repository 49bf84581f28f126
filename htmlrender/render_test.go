package htmlrender

import (
	"strings"
	"testing"

	"github.com/markly-lang/markly/internal/config"
	"github.com/markly-lang/markly/markup"
)

func render(t *testing.T, doc *markup.Element, cfg *config.Config) string {
	t.Helper()
	if cfg == nil {
		c, _, err := config.Load(strings.NewReader(""))
		if err != nil {
			t.Fatalf("config.Load: %v", err)
		}
		cfg = c
	}
	out, err := NewRenderer(cfg, nil).RenderString(doc)
	if err != nil {
		t.Fatalf("RenderString: %v", err)
	}
	return out
}

func mustParse(t *testing.T, input string, opts markup.Options) *markup.Element {
	t.Helper()
	doc, err := markup.Parse(strings.NewReader(input), opts)
	if err != nil {
		t.Fatalf("Parse(%q): %v", input, err)
	}
	return doc
}

func TestRenderParagraph(t *testing.T) {
	doc := mustParse(t, "abc\n\nefg", markup.Options{})
	got := render(t, doc, nil)
	want := "<p>abc</p>\n<p>efg</p>\n"
	if got != want {
		t.Errorf("render = %q, want %q", got, want)
	}
}

func TestRenderHeader(t *testing.T) {
	doc := mustParse(t, "* Title\n\nBody.\n", markup.Options{})
	got := render(t, doc, nil)
	want := "<h1>Title</h1>\n<p>Body.</p>\n"
	if got != want {
		t.Errorf("render = %q, want %q", got, want)
	}
}

func TestRenderList(t *testing.T) {
	doc := mustParse(t, "- one\n- two\n", markup.Options{})
	got := render(t, doc, nil)
	if !strings.Contains(got, "<ul>") || !strings.Contains(got, "<li><p>one</p>\n</li>") {
		t.Errorf("render = %q, want a ul containing li/p for %q", got, "one")
	}
}

func TestRenderLinkAfterResolution(t *testing.T) {
	doc := mustParse(t, "[Foo|foo]\n\n[foo] <http://x>\n\n", markup.Options{})
	markup.ResolveLinks(doc, func(link *markup.Element, key, url string) {
		markup.SetLinkHref(link, url)
	})
	got := render(t, doc, nil)
	want := `<p><a href="http://x">Foo</a></p>` + "\n"
	if got != want {
		t.Errorf("render = %q, want %q", got, want)
	}
}

func TestRenderDivsAndSpansPolicy(t *testing.T) {
	doc := mustParse(t, `a \bold{strong} b`+"\n", markup.Options{})
	c, _, err := config.Load(strings.NewReader(""))
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	c.Spans = []string{"bold"}
	got := render(t, doc, c)
	want := `<p>a <span class="bold">strong</span> b</p>` + "\n"
	if got != want {
		t.Errorf("render = %q, want %q", got, want)
	}
}

func TestRenderNestedSections(t *testing.T) {
	doc := mustParse(t, "## outer\n\n## inner\n\nBody.\n\n##.\n\n##.\n\n", markup.Options{})
	got := render(t, doc, nil)
	if !strings.Contains(got, "<h2>1. outer</h2>") {
		t.Errorf("render = %q, want numbered outer section heading", got)
	}
	if !strings.Contains(got, "<h2>1.1. inner</h2>") {
		t.Errorf("render = %q, want numbered inner section heading", got)
	}
}

func TestRenderVerbatimHighlighted(t *testing.T) {
	doc := mustParse(t, "   package main\n", markup.Options{})
	got := render(t, doc, nil)
	if !strings.Contains(got, "<pre><code>") || !strings.Contains(got, "</code></pre>") {
		t.Errorf("render = %q, want a highlighted pre/code block", got)
	}
}

func TestRenderVerbatimWithExplicitClass(t *testing.T) {
	doc := mustParse(t, "\tfn main() {}\n", markup.Options{Tabwidth: 4})
	for _, pre := range doc.ChildElements() {
		markup.SetVerbatimClass(pre, "rust")
	}
	got := render(t, doc, nil)
	if !strings.Contains(got, "<pre><code>") {
		t.Errorf("render = %q, want a pre/code block", got)
	}
	if strings.Contains(got, "rust") {
		t.Errorf("render = %q, class leaked into rendered content", got)
	}
	if !strings.Contains(got, "main") {
		t.Errorf("render = %q, want the verbatim content preserved", got)
	}
}
