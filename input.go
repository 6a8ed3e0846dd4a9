package rtcsync

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync"
)

// LineReader hands out lines of an input stream to successive callers.
// A single goroutine owns the underlying reader, so a ReadLine abandoned on
// cancellation leaves its line to the next caller instead of racing it.
type LineReader struct {
	r     *bufio.Reader
	once  sync.Once
	lines chan lineResult
}

type lineResult struct {
	line string
	err  error
}

// NewLineReader returns a LineReader over r. Nothing is read until the
// first call to ReadLine.
func NewLineReader(r io.Reader) *LineReader {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &LineReader{r: br, lines: make(chan lineResult)}
}

// ReadLine returns the next line without its line ending, or ctx's error if
// it is cancelled first. After the stream ends every call returns io.EOF.
func (lr *LineReader) ReadLine(ctx context.Context) (string, error) {
	lr.once.Do(func() { go lr.run() })

	select {
	case res, ok := <-lr.lines:
		if !ok {
			return "", io.EOF
		}
		return res.line, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (lr *LineReader) run() {
	defer close(lr.lines)
	for {
		line, err := readLine(lr.r)
		lr.lines <- lineResult{line: line, err: err}
		if err != nil {
			return
		}
	}
}

// readLine reads up to and excluding the next newline. A final line without
// a newline is returned as is; io.EOF is only reported when nothing was read.
func readLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err != nil && !(err == io.EOF && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
