package markup

import (
	"reflect"
	"strings"
	"testing"
)

func collectChars(t *testing.T, input string, tabwidth int) []CharToken {
	t.Helper()
	c := NewCleaner(strings.NewReader(input), tabwidth)
	var out []CharToken
	for {
		tok, ok, err := c.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if !ok {
			break
		}
		out = append(out, tok)
	}
	return out
}

func charString(toks []CharToken) string {
	var b strings.Builder
	for _, t := range toks {
		b.WriteRune(t.Ch)
	}
	return b.String()
}

func TestCleanerLineEndingNormalization(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lf only", "abc\n\nefg", "abc\n\nefg"},
		{"crlf", "abc\r\n\r\nefg", "abc\n\nefg"},
		{"bare cr", "abc\r\refg", "abc\n\nefg"},
		{"trailing bare cr at eof", "abc\r", "abc\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := charString(collectChars(t, tt.input, 8))
			if got != tt.want {
				t.Errorf("charString = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCleanerTrailingWhitespaceTrimmed(t *testing.T) {
	got := charString(collectChars(t, "abc   \ndef\t\t\n", 4))
	want := "abc\ndef\n"
	if got != want {
		t.Errorf("charString = %q, want %q", got, want)
	}
}

func TestCleanerTabExpansion(t *testing.T) {
	toks := collectChars(t, "\tabc", 4)
	got := charString(toks)
	want := "    abc"
	if got != want {
		t.Errorf("charString = %q, want %q", got, want)
	}
	// All four tab-derived spaces carry the tab character's own column (0).
	for i := 0; i < 4; i++ {
		if toks[i].Pos.Column != 0 {
			t.Errorf("tab-derived space %d: column = %d, want 0", i, toks[i].Pos.Column)
		}
	}
	// 'a' follows the four buffered spaces, so it must land at column 4, not 1.
	wantCols := []int{0, 0, 0, 0, 4, 5, 6}
	for i, want := range wantCols {
		if toks[i].Pos.Column != want {
			t.Errorf("token %d (%q): column = %d, want %d", i, toks[i].Ch, toks[i].Pos.Column, want)
		}
	}
}

func TestCleanerInvalidUTF8ReturnsInputError(t *testing.T) {
	c := NewCleaner(strings.NewReader("ab\xffcd"), 8)
	var err error
	for {
		var ok bool
		_, ok, err = c.Next()
		if err != nil || !ok {
			break
		}
	}
	if err == nil {
		t.Fatal("expected an error for invalid UTF-8 input, got nil")
	}
	if _, ok := err.(*InputError); !ok {
		t.Fatalf("expected *InputError, got %T: %v", err, err)
	}
}

func TestCleanerLiteralSpacesAdvanceColumn(t *testing.T) {
	toks := collectChars(t, "   x", 8)
	wantCols := []int{0, 1, 2, 3}
	if len(toks) != len(wantCols) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(wantCols))
	}
	for i, want := range wantCols {
		if toks[i].Pos.Column != want {
			t.Errorf("token %d: column = %d, want %d", i, toks[i].Pos.Column, want)
		}
	}
}

func TestCleanerLineColumnTracking(t *testing.T) {
	toks := collectChars(t, "ab\ncd", 8)
	want := []Position{
		{Line: 0, Column: 0},
		{Line: 0, Column: 1},
		{Line: 0, Column: 2},
		{Line: 1, Column: 0},
		{Line: 1, Column: 1},
	}
	got := make([]Position, len(toks))
	for i, tok := range toks {
		got[i] = tok.Pos
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("positions = %v, want %v", got, want)
	}
}
