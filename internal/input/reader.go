// Package input reads interactive answers from the operator, with a
// scripted reader for tests.
package input

import (
	"bufio"
	"io"
	"os"
)

// Reader yields one answer per ReadString call
type Reader interface {
	ReadString(delim byte) (string, error)
}

// StdinReader reads buffered answers from standard input
type StdinReader struct {
	buf *bufio.Reader
}

// NewStdinReader creates a reader over os.Stdin
func NewStdinReader() *StdinReader {
	return &StdinReader{buf: bufio.NewReader(os.Stdin)}
}

// ReadString reads up to and including the delimiter
func (r *StdinReader) ReadString(delim byte) (string, error) {
	return r.buf.ReadString(delim)
}

// StringReader replays canned answers in order. Each answer must
// already carry the delimiter the caller will ask for ("yes\n" when
// reading lines); the delim argument is not inspected.
type StringReader struct {
	answers []string
	next    int
}

// NewStringReader creates a reader over the given answers
func NewStringReader(answers ...string) *StringReader {
	return &StringReader{answers: answers}
}

// ReadString returns the next canned answer, or io.EOF when all
// answers are consumed
func (r *StringReader) ReadString(delim byte) (string, error) {
	if r.next >= len(r.answers) {
		return "", io.EOF
	}
	answer := r.answers[r.next]
	r.next++
	return answer, nil
}
