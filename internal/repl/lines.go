package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// MaxLineLength is the longest input line accepted, in bytes, not counting the
// line ending.
const MaxLineLength = 1 << 20

// ErrLineTooLong matches the error for an input line longer than
// MaxLineLength.
var ErrLineTooLong = errors.New("line too long")

// LineReader splits input into lines. Unlike bufio.Scanner, an over-long line
// is skipped and reported without ending the input.
type LineReader struct {
	r   *bufio.Reader
	max int
}

// NewLineReader creates a LineReader reading from r.
func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{r: bufio.NewReader(r), max: MaxLineLength}
}

// Next returns the next line without its line ending. A line longer than
// MaxLineLength is consumed and reported with an error matching
// ErrLineTooLong; the following call continues with the next line. At the end
// of input, Next returns io.EOF.
func (l *LineReader) Next() (string, error) {
	var buf []byte
	long := false
	for {
		frag, more, err := l.r.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) && (buf != nil || long) {
				// The final line filled the buffer exactly.
				break
			}
			return "", err
		}
		if !long {
			if len(buf)+len(frag) > l.max {
				long = true
				buf = nil
			} else {
				buf = append(buf, frag...)
			}
		}
		if !more {
			break
		}
	}
	if long {
		return "", fmt.Errorf("%w: more than %d bytes", ErrLineTooLong, l.max)
	}
	return string(buf), nil
}
