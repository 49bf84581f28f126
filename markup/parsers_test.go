package markup

import (
	"reflect"
	"strings"
	"testing"
)

func parseString(t *testing.T, input string, opts Options) *Element {
	t.Helper()
	doc, err := Parse(strings.NewReader(input), opts)
	if err != nil {
		t.Fatalf("Parse(%q): %v", input, err)
	}
	return doc
}

func TestScenarioOneTwoParagraphs(t *testing.T) {
	doc := parseString(t, "abc\n\nefg", Options{})
	want := []any{"body", []any{"p", "abc"}, []any{"p", "efg"}}
	if got := doc.ToArray(); !deepEqualArray(got, want) {
		t.Errorf("ToArray = %v, want %v", got, want)
	}
}

func TestScenarioTwoVerbatimInteriorSpace(t *testing.T) {
	doc := parseString(t, "\tabc", Options{Tabwidth: 4})
	// A tab at tabwidth 4 opens verbatim with its first 3 expanded spaces
	// and forwards the 4th as a literal leading space inside the block;
	// see DESIGN.md for the reasoning behind that one extra space.
	want := []any{"body", []any{"pre", " abc"}}
	if got := doc.ToArray(); !deepEqualArray(got, want) {
		t.Errorf("ToArray = %v, want %v", got, want)
	}
}

func TestScenarioThreeUnorderedList(t *testing.T) {
	doc := parseString(t, "- one\n- two\n", Options{})
	want := []any{"body", []any{"ul",
		[]any{"li", []any{"p", "one"}},
		[]any{"li", []any{"p", "two"}},
	}}
	if got := doc.ToArray(); !deepEqualArray(got, want) {
		t.Errorf("ToArray = %v, want %v", got, want)
	}
}

func TestScenarioFourHeaderAndParagraph(t *testing.T) {
	doc := parseString(t, "* Title\n\nBody.\n", Options{})
	want := []any{"body", []any{"h1", "Title"}, []any{"p", "Body."}}
	if got := doc.ToArray(); !deepEqualArray(got, want) {
		t.Errorf("ToArray = %v, want %v", got, want)
	}
}

func TestScenarioSixCRLFNormalization(t *testing.T) {
	doc := parseString(t, "abc\r\n\r\nefg", Options{})
	want := []any{"body", []any{"p", "abc"}, []any{"p", "efg"}}
	if got := doc.ToArray(); !deepEqualArray(got, want) {
		t.Errorf("ToArray = %v, want %v", got, want)
	}
}

func TestScenarioDefinitionList(t *testing.T) {
	doc := parseString(t, "  % term\n    definition\n", Options{})
	want := []any{"body", []any{"dl",
		[]any{"dt", "term"},
		[]any{"dd", []any{"p", "definition"}},
	}}
	if got := doc.ToArray(); !deepEqualArray(got, want) {
		t.Errorf("ToArray = %v, want %v", got, want)
	}
}

func TestCloseElementRejectsNonTopElement(t *testing.T) {
	root := NewElement("body")
	ctl := NewController(NewTokenizer(NewCleaner(strings.NewReader(""), 8)), root, nil)
	inner := ctl.OpenElement("p")
	outer := ctl.OpenElement("span")
	_ = outer

	err := ctl.CloseElement(inner, Position{})
	if err == nil {
		t.Fatal("expected error closing a non-top element, got nil")
	}
	var se *SyntaxError
	if !asSyntaxError(err, &se) {
		t.Fatalf("expected *SyntaxError, got %T", err)
	}
}

func asSyntaxError(err error, target **SyntaxError) bool {
	se, ok := err.(*SyntaxError)
	if !ok {
		return false
	}
	*target = se
	return true
}

func TestBlockquoteNesting(t *testing.T) {
	doc := parseString(t, "a\n\n  b\n", Options{})
	got := doc.ToArray()
	want := []any{"body", []any{"p", "a"}, []any{"blockquote", []any{"p", "b"}}}
	if !deepEqualArray(got, want) {
		t.Errorf("ToArray = %v, want %v", got, want)
	}
}

func TestBraceDelimitedInlineTag(t *testing.T) {
	doc := parseString(t, `a \bold{strong} b`+"\n", Options{})
	got := doc.ToArray()
	// Single paragraph containing text, an inline "bold" tag, and trailing text.
	if len(got) != 2 {
		t.Fatalf("ToArray = %v, want a single paragraph child", got)
	}
	p, ok := got[1].([]any)
	if !ok || p[0] != "p" {
		t.Fatalf("expected a p element, got %v", got[1])
	}
	foundBold := false
	for _, c := range p[1:] {
		if arr, ok := c.([]any); ok && arr[0] == "bold" {
			foundBold = true
			if !reflect.DeepEqual(arr[1], "strong") {
				t.Errorf("bold content = %v, want %v", arr[1], "strong")
			}
		}
	}
	if !foundBold {
		t.Errorf("expected a bold inline tag in %v", p)
	}
}

func TestEscapedSigilIsLiteral(t *testing.T) {
	doc := parseString(t, `\* not a header`+"\n", Options{})
	got := doc.ToArray()
	want := []any{"body", []any{"p", "* not a header"}}
	if !deepEqualArray(got, want) {
		t.Errorf("ToArray = %v, want %v", got, want)
	}
}

func TestSubdocumentTagRunsBlockParsing(t *testing.T) {
	doc := parseString(t, "a \\aside{\n\nBody.\n}\n", Options{Subdocs: map[string]bool{"aside": true}})
	got := doc.ToArray()
	p, ok := got[1].([]any)
	if !ok || p[0] != "p" {
		t.Fatalf("expected leading paragraph, got %v", got)
	}
	var aside []any
	for _, c := range p[1:] {
		if arr, ok := c.([]any); ok && arr[0] == "aside" {
			aside = arr
		}
	}
	if aside == nil {
		t.Fatalf("expected an aside element in %v", p)
	}
	innerP, ok := aside[1].([]any)
	if !ok || innerP[0] != "p" || innerP[1] != "Body." {
		t.Errorf("aside body = %v, want a p containing %q", aside[1:], "Body.")
	}
}
