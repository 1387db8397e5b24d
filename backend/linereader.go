package backend

import (
	"bufio"
	"io"
)

// lineReader only hands out entire newline-delimited lines. A dataset file
// that is being rewritten when it is reloaded is therefore never parsed
// with half a row; the unterminated tail is held back until its newline
// arrives.
type lineReader struct {
	r *bufio.Reader
	// partial is the unterminated tail read so far.
	partial []byte
	// lines holds complete lines that did not fit the caller's buffer.
	lines []byte
}

var _ io.Reader = (*lineReader)(nil)

func NewLineReader(r io.Reader) io.Reader {
	return &lineReader{
		r: bufio.NewReader(r),
	}
}

func (l *lineReader) Read(b []byte) (int, error) {
	if len(l.lines) == 0 {
		data, err := l.r.ReadBytes('\n')
		l.partial = append(l.partial, data...)
		if err == io.EOF {
			return 0, io.EOF
		} else if err != nil {
			return 0, err
		}
		l.lines, l.partial = l.partial, nil
	}
	n := copy(b, l.lines)
	l.lines = l.lines[n:]
	return n, nil
}
