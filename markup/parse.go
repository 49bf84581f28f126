package markup

import "io"

// Options configures a single Parse call. Subdocs names the tags that,
// when opened via \name{...}, run nested block parsing instead of the
// default inline-only brace rules. Tabwidth controls tab expansion in the
// cleaning stage; zero or negative means the default of 8.
type Options struct {
	Subdocs  map[string]bool
	Tabwidth int
	Filename string
}

// Parse runs the full pipeline — cleaner, tokenizer, parser driver — over
// r and returns the resulting element tree rooted at a "body" element. A
// fresh Controller, Cleaner, and Tokenizer are created per call; nothing
// is shared across invocations.
func Parse(r io.Reader, opts Options) (*Element, error) {
	tabwidth := opts.Tabwidth
	if tabwidth <= 0 {
		tabwidth = 8
	}
	subdocs := opts.Subdocs
	if subdocs == nil {
		subdocs = map[string]bool{}
	}

	cleaner := NewCleaner(r, tabwidth)
	tok := NewTokenizer(cleaner)
	root := NewElement("body")
	ctl := NewController(tok, root, subdocs)
	ctl.Filename = opts.Filename
	ctl.PushParser(&DocumentParser{})

	for {
		t, ok, err := tok.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		cur := ctl.CurrentParser()
		if cur == nil {
			return nil, &SyntaxError{Filename: ctl.Filename, Pos: t.Pos, Msg: "token delivered with no active parser"}
		}
		if err := cur.Grok(ctl, t); err != nil {
			return nil, err
		}
	}
	return root, nil
}
