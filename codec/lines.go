package codec

import "strings"

// lineScanner hands out the lines of a document one at a time and keeps
// the 1-based number of the line most recently returned.
type lineScanner struct {
	lines      []string
	pos        int
	terminated bool
}

func newLineScanner(data []byte) *lineScanner {
	text := strings.TrimPrefix(string(data), "\ufeff")
	s := &lineScanner{terminated: strings.HasSuffix(text, "\n")}
	if text == "" {
		return s
	}
	if s.terminated {
		text = text[:len(text)-1]
	}
	s.lines = strings.Split(text, "\n")
	for i, l := range s.lines {
		s.lines[i] = strings.TrimSuffix(l, "\r")
	}
	return s
}

// next returns the next raw line. ok is false at end of input.
func (s *lineScanner) next() (line string, ok bool) {
	if s.pos >= len(s.lines) {
		return "", false
	}
	s.pos++
	return s.lines[s.pos-1], true
}

// peek returns the next raw line without consuming it.
func (s *lineScanner) peek() (string, bool) {
	if s.pos >= len(s.lines) {
		return "", false
	}
	return s.lines[s.pos], true
}

// line returns the number of the line last returned by next.
func (s *lineScanner) line() int {
	return s.pos
}

// cut reports whether the line last returned by next is the final line of
// the input and has no terminating newline, i.e. the input may have been
// cut inside it.
func (s *lineScanner) cut() bool {
	return s.pos == len(s.lines) && !s.terminated
}
