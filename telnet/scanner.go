package telnet

import (
	"bytes"

	gerr "gotel/internal/errors"
)

// promptScanner accumulates filtered bytes and detects when one of the
// configured prompts appears at the tail of the stream.  A hit yields
// everything received since the last hit, prompt included, and resets
// the buffer so no block is ever returned twice.
type promptScanner struct {
	buf []byte
	max int // hard ceiling; 0 means unlimited
}

func newPromptScanner(max int) *promptScanner {
	return &promptScanner{max: max}
}

// write appends filtered bytes to the pending block.  It fails with
// ErrBufferLimit once the ceiling is exceeded: the remote is emitting
// output with no prompt in sight and the caller should give up rather
// than grow without bound.
func (s *promptScanner) write(p []byte) error {
	if s.max > 0 && len(s.buf)+len(p) > s.max {
		return gerr.ErrBufferLimit
	}
	s.buf = append(s.buf, p...)
	return nil
}

// match checks whether the buffer currently ends with any of the
// prompts.  Matching is an exact, case-sensitive byte comparison
// against the tail.  On a hit it returns the completed block and the
// prompt that matched, and clears the buffer for the next block.
func (s *promptScanner) match(prompts []string) (block []byte, prompt string, ok bool) {
	for _, p := range prompts {
		if p == "" {
			continue
		}
		if bytes.HasSuffix(s.buf, []byte(p)) {
			block = s.buf
			s.buf = nil
			return block, p, true
		}
	}
	return nil, "", false
}

// pending returns how many unconsumed bytes are buffered.
func (s *promptScanner) pending() int { return len(s.buf) }

// reset discards any unconsumed bytes, e.g. after a failed wait left
// the stream in an unknown position.
func (s *promptScanner) reset() { s.buf = nil }
