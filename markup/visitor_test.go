package markup

import (
	"reflect"
	"testing"
)

// recordingVisitor records OpenTag/Text/CloseTag calls as a flat trace for
// assertions, attrs included.
type recordingVisitor struct {
	events []string
}

func (r *recordingVisitor) OpenTag(tag string, attrs map[string]string) {
	if len(attrs) == 0 {
		r.events = append(r.events, "open "+tag)
		return
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	// Deterministic order isn't required by Visitor, but the tests below
	// only ever populate a single key, so this is safe.
	for _, k := range keys {
		r.events = append(r.events, "open "+tag+" "+k+"="+attrs[k])
	}
}

func (r *recordingVisitor) Text(s string) {
	r.events = append(r.events, "text "+s)
}

func (r *recordingVisitor) CloseTag(tag string) {
	r.events = append(r.events, "close "+tag)
}

func TestWalkPlainTree(t *testing.T) {
	p := NewElement("p")
	p.AppendText("hello")

	var rv recordingVisitor
	Walk(p, &rv)

	want := []string{"open p", "text hello", "close p"}
	if !reflect.DeepEqual(rv.events, want) {
		t.Errorf("events = %v, want %v", rv.events, want)
	}
}

func TestWalkFoldsResolvedLinkHrefIntoAttrs(t *testing.T) {
	link := NewElement("link")
	link.AppendText("Foo")
	SetLinkHref(link, "http://x")

	var rv recordingVisitor
	Walk(link, &rv)

	want := []string{"open link href=http://x", "text Foo", "close link"}
	if !reflect.DeepEqual(rv.events, want) {
		t.Errorf("events = %v, want %v", rv.events, want)
	}
}

func TestWalkFoldsSectionNameIntoAttrs(t *testing.T) {
	section := NewElement("section")
	name := NewElement("name")
	name.AppendText("Introduction")
	section.AppendChild(name)
	body := NewElement("p")
	body.AppendText("text")
	section.AppendChild(body)

	var rv recordingVisitor
	Walk(section, &rv)

	want := []string{
		"open section name=Introduction",
		"open p", "text text", "close p",
		"close section",
	}
	if !reflect.DeepEqual(rv.events, want) {
		t.Errorf("events = %v, want %v", rv.events, want)
	}
}

func TestWalkFoldsVerbatimClassIntoAttrs(t *testing.T) {
	pre := NewElement("pre")
	pre.AppendText("func main() {}")
	SetVerbatimClass(pre, "go")

	var rv recordingVisitor
	Walk(pre, &rv)

	want := []string{"open pre class=go", "text func main() {}", "close pre"}
	if !reflect.DeepEqual(rv.events, want) {
		t.Errorf("events = %v, want %v", rv.events, want)
	}
}
