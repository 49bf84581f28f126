package markup

import (
	"bufio"
	"io"
	"unicode/utf8"
)

// whitespaceEntry is one buffered tab- or space-derived column, kept
// separately from the rune so the cleaner can reproduce the quirk that a
// tab's expanded spaces all carry the tab's own column while literal
// spaces advance their column one at a time.
type whitespaceEntry struct {
	ch  rune
	col int
}

// Cleaner is the first pipeline stage: it turns a stream of Unicode
// scalars into position-tagged CharTokens, expanding tabs, normalizing
// line endings to LF, and trimming trailing whitespace per line.
//
// Cleaner is a pull iterator: call Next repeatedly until ok is false.
type Cleaner struct {
	r        *bufio.Reader
	tabwidth int

	line int
	col  int

	pendingCR bool
	wsBuf     []whitespaceEntry

	queue []CharToken
	err   error
	done  bool
}

// NewCleaner returns a Cleaner reading from r, expanding tabs to tabwidth
// spaces. tabwidth must be positive; callers validate this via Options.
func NewCleaner(r io.Reader, tabwidth int) *Cleaner {
	return &Cleaner{
		r:        bufio.NewReader(r),
		tabwidth: tabwidth,
		line:     0,
		col:      0,
	}
}

// Next returns the next CharToken. ok is false once the stream is
// exhausted; err is non-nil only on a genuine read/decode failure.
func (c *Cleaner) Next() (CharToken, bool, error) {
	for len(c.queue) == 0 {
		if c.err != nil {
			return CharToken{}, false, c.err
		}
		if c.done {
			return CharToken{}, false, nil
		}
		c.step()
	}
	tok := c.queue[0]
	c.queue = c.queue[1:]
	return tok, true, nil
}

// flushWhitespace turns the buffered whitespace run into Space CharTokens
// and clears the buffer. Used when a non-whitespace character follows a
// run of spaces/tabs — trailing runs are instead discarded by the LF and
// EOF paths without ever calling this.
func (c *Cleaner) flushWhitespace() {
	for _, e := range c.wsBuf {
		c.queue = append(c.queue, CharToken{
			Kind: CharSpace,
			Ch:   ' ',
			Pos:  Position{Line: c.line, Column: e.col},
		})
	}
	c.wsBuf = c.wsBuf[:0]
}

func (c *Cleaner) emitLF() {
	pos := Position{Line: c.line, Column: c.col}
	c.queue = append(c.queue, CharToken{Kind: CharNewline, Ch: '\n', Pos: pos})
	c.line++
	c.col = 0
}

// step advances the underlying reader by exactly one rune of input (or
// drains pending state at EOF) and appends zero or more CharTokens to the
// queue.
func (c *Cleaner) step() {
	ch, size, err := c.r.ReadRune()
	if err != nil {
		if err != io.EOF {
			c.err = &InputError{Msg: "reading input", Err: err}
			return
		}
		c.atEOF()
		return
	}
	if ch == utf8.RuneError && size == 1 {
		c.err = &InputError{Msg: "invalid UTF-8 byte sequence"}
		return
	}

	if c.pendingCR {
		c.pendingCR = false
		if ch == '\n' {
			// CRLF: the CR already advanced col conceptually as a
			// trailing-whitespace-discarding LF; column is wherever the
			// whitespace run left off.
			c.wsBuf = c.wsBuf[:0]
			c.emitLF()
			return
		}
		// Bare CR not followed by LF: emit LF for the CR, then process
		// ch normally on the next (fresh) line.
		c.wsBuf = c.wsBuf[:0]
		c.emitLF()
	}

	switch ch {
	case '\r':
		c.pendingCR = true
		return
	case '\n':
		c.wsBuf = c.wsBuf[:0]
		c.emitLF()
		return
	case '\t':
		for i := 0; i < c.tabwidth; i++ {
			c.wsBuf = append(c.wsBuf, whitespaceEntry{ch: ' ', col: c.col})
		}
		c.col += c.tabwidth
		return
	case ' ':
		c.wsBuf = append(c.wsBuf, whitespaceEntry{ch: ' ', col: c.col})
		c.col++
		return
	default:
		c.flushWhitespace()
		c.queue = append(c.queue, CharToken{
			Kind: CharPrintable,
			Ch:   ch,
			Pos:  Position{Line: c.line, Column: c.col},
		})
		c.col++
		return
	}
}

func (c *Cleaner) atEOF() {
	if c.pendingCR {
		c.pendingCR = false
		c.wsBuf = c.wsBuf[:0]
		c.emitLF()
	}
	// Trailing whitespace buffer is discarded, not flushed: trailing trim.
	c.wsBuf = c.wsBuf[:0]
	c.done = true
}
