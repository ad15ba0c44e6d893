package source

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
)

// lineReader splits r into newline-terminated lines. A trailing piece without
// a newline is held back across EOF so a line written in several parts is
// delivered once, whole.
type lineReader struct {
	r       *bufio.Reader
	partial []byte
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{r: bufio.NewReaderSize(r, initialLineBuffer)}
}

// next returns the next complete line without its line ending.
// At the end of the data currently available it returns io.EOF.
func (lr *lineReader) next() (string, error) {
	for {
		chunk, err := lr.r.ReadSlice('\n')
		lr.partial = append(lr.partial, chunk...)

		switch {
		case err == nil:
			line := trimEOL(lr.partial)
			lr.partial = lr.partial[:0]
			return line, nil
		case errors.Is(err, bufio.ErrBufferFull):
			if len(lr.partial) > maxLineSize {
				lr.partial = lr.partial[:0]
				return "", fmt.Errorf("line longer than %d bytes: %w", maxLineSize, bufio.ErrTooLong)
			}
		default:
			return "", err
		}
	}
}

// rest returns the held-back piece, if any, and forgets it.
func (lr *lineReader) rest() (string, bool) {
	if len(lr.partial) == 0 {
		return "", false
	}
	line := trimEOL(lr.partial)
	lr.partial = lr.partial[:0]
	return line, true
}

func trimEOL(b []byte) string {
	b = bytes.TrimSuffix(b, []byte("\n"))
	b = bytes.TrimSuffix(b, []byte("\r"))
	return string(b)
}
