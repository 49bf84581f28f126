package markup

// notAtLineStart is the leadingSpaces value (-1) used when the tokenizer is not at the start of a line (mid-line
// forwarding), and the count of leading spaces seen so far otherwise. This
// mirrors spec's "false/None when not at line start, else a numeric count".
const notAtLineStart = -1

// Tokenizer is the second pipeline stage: it turns CharTokens into
// HighTokens, tracking nesting-level indentation and exposing AddIndentation
// as the control channel ListParser uses to bump expected indentation after
// consuming a list marker.
type Tokenizer struct {
	src *Cleaner

	currentIndentation int
	inVerbatim         bool

	pendingNewlines int
	pendingPos      Position
	leadingSpaces   int // notAtLineStart, or a non-negative count

	queue []HighToken

	srcDone bool
	eofDone bool
	err     error
}

// NewTokenizer returns a Tokenizer consuming tokens from c.
func NewTokenizer(c *Cleaner) *Tokenizer {
	return &Tokenizer{
		src:           c,
		leadingSpaces: 0, // the start of input is the start of its first line
	}
}

// AddIndentation bumps the expected indentation by n. Called synchronously
// by ListParser's one-shot continuation after it consumes a list marker and
// its following space, and by DefinitionTermParser when a term's line ends;
// this is the only mutation of tokenizer state that
// originates outside the tokenizer itself.
func (t *Tokenizer) AddIndentation(n int) {
	t.currentIndentation += n
}

// Next returns the next HighToken. ok is false once the stream (including
// the synthetic end-of-input closing sequence) is exhausted.
func (t *Tokenizer) Next() (HighToken, bool, error) {
	for len(t.queue) == 0 {
		if t.err != nil {
			return HighToken{}, false, t.err
		}
		if t.eofDone {
			return HighToken{}, false, nil
		}
		if t.srcDone {
			t.drainEOF()
			continue
		}
		if err := t.step(); err != nil {
			t.err = err
			return HighToken{}, false, t.err
		}
	}
	tok := t.queue[0]
	t.queue = t.queue[1:]
	return tok, true, nil
}

func (t *Tokenizer) step() error {
	ct, ok, err := t.src.Next()
	if err != nil {
		return err
	}
	if !ok {
		t.srcDone = true
		return nil
	}

	if ct.Kind == CharNewline {
		if t.pendingNewlines == 0 {
			t.pendingPos = ct.Pos
		}
		t.pendingNewlines++
		return nil
	}

	t.flushNewlines()

	if t.leadingSpaces != notAtLineStart {
		if ct.Kind == CharSpace {
			t.leadingSpaces++
			return nil
		}
		t.reconcileIndentation(ct)
		t.leadingSpaces = notAtLineStart
		t.queue = append(t.queue, HighToken{Kind: TokChar, Ch: ct.Ch, Pos: ct.Pos})
		return nil
	}

	t.queue = append(t.queue, HighToken{Kind: TokChar, Ch: ct.Ch, Pos: ct.Pos})
	return nil
}

// flushNewlines converts any accumulated LFs into Newline/Blank tokens. It
// is a no-op when no newline is pending — it must NOT reset leadingSpaces
// in that case, since that would spuriously re-trigger line-start logic
// mid-line for a character that isn't actually starting a new line.
func (t *Tokenizer) flushNewlines() {
	if t.pendingNewlines == 0 {
		return
	}
	switch {
	case t.pendingNewlines == 1:
		t.queue = append(t.queue, HighToken{Kind: TokNewline, Pos: t.pendingPos})
	default:
		for i := 0; i < t.pendingNewlines-1; i++ {
			t.queue = append(t.queue, HighToken{Kind: TokBlank, Pos: t.pendingPos})
		}
	}
	t.pendingNewlines = 0
	t.leadingSpaces = 0
}

// reconcileIndentation implements spec's indentation-delta rules when the
// first non-space character of a line appears at indent s.
func (t *Tokenizer) reconcileIndentation(ct CharToken) {
	s := t.leadingSpaces
	pos := ct.Pos

	switch {
	case s < t.currentIndentation:
		if t.inVerbatim {
			t.queue = append(t.queue, HighToken{Kind: TokCloseVerbatim, Pos: pos})
			t.currentIndentation -= 3
			t.inVerbatim = false
		}
		for s < t.currentIndentation {
			t.queue = append(t.queue, HighToken{Kind: TokCloseBlockquote, Pos: pos})
			t.currentIndentation -= 2
		}
	case s > t.currentIndentation:
		d := s - t.currentIndentation
		switch {
		case t.inVerbatim:
			for i := 0; i < d; i++ {
				t.queue = append(t.queue, HighToken{Kind: TokChar, Ch: ' ', Pos: pos})
			}
		case d == 2:
			t.queue = append(t.queue, HighToken{Kind: TokOpenBlockquote, Pos: pos})
			t.currentIndentation += 2
		case d == 1:
			// Surprising by design (spec design note): one more space than
			// a blockquote body exits the blockquote and enters verbatim.
			t.queue = append(t.queue, HighToken{Kind: TokCloseBlockquote, Pos: pos})
			t.queue = append(t.queue, HighToken{Kind: TokOpenVerbatim, Pos: pos})
			t.currentIndentation += 1
			t.inVerbatim = true
		default: // d >= 3
			t.queue = append(t.queue, HighToken{Kind: TokOpenVerbatim, Pos: pos})
			for i := 0; i < d-3; i++ {
				t.queue = append(t.queue, HighToken{Kind: TokChar, Ch: ' ', Pos: pos})
			}
			t.currentIndentation += 3
			t.inVerbatim = true
		}
	}
}

// drainEOF emits the end-of-input Blank and closes any still-open indented
// contexts, then marks the tokenizer permanently exhausted.
func (t *Tokenizer) drainEOF() {
	t.flushNewlines()
	pos := t.pendingPos
	t.queue = append(t.queue, HighToken{Kind: TokBlank, Pos: pos})
	for t.currentIndentation > 0 {
		if t.inVerbatim {
			t.queue = append(t.queue, HighToken{Kind: TokCloseVerbatim, Pos: pos})
			t.currentIndentation -= 3
			t.inVerbatim = false
			continue
		}
		t.queue = append(t.queue, HighToken{Kind: TokCloseBlockquote, Pos: pos})
		t.currentIndentation -= 2
	}
	t.eofDone = true
}
