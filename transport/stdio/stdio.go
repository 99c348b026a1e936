// Package stdio provides a Transport implementation over standard
// input/output: newline-delimited JSON messages, UTF-8 text, one message per
// line.
package stdio

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/alpsio/alps-mcp/logx"
	"github.com/alpsio/alps-mcp/types"
)

// Transport implements types.Transport using a reader/writer pair. It reads
// messages from stdin and writes messages to stdout in production; tests
// substitute in-memory pipes.
type Transport struct {
	reader *bufio.Reader
	writer io.Writer

	writeMu sync.Mutex
	logger  types.Logger

	closeMu sync.Mutex
	closed  bool

	rawReader io.Reader
	rawWriter io.Writer
}

// Option configures a Transport.
type Option func(*Transport)

// WithLogger sets the transport logger.
func WithLogger(logger types.Logger) Option {
	return func(t *Transport) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// New creates a Transport over os.Stdin and os.Stdout.
func New(opts ...Option) *Transport {
	return NewWithReadWriter(os.Stdin, os.Stdout, opts...)
}

// NewWithReadWriter creates a Transport over the provided reader and writer.
func NewWithReadWriter(reader io.Reader, writer io.Writer, opts ...Option) *Transport {
	t := &Transport{
		reader:    bufio.NewReader(reader),
		writer:    writer,
		logger:    logx.NewDiscard(),
		rawReader: reader,
		rawWriter: writer,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Send writes a message to the underlying writer as exactly one line and
// flushes it.
func (t *Transport) Send(data []byte) error {
	t.closeMu.Lock()
	if t.closed {
		t.closeMu.Unlock()
		return errors.New("transport is closed")
	}
	t.closeMu.Unlock()

	if len(data) == 0 {
		return errors.New("cannot send empty message")
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	data = bytes.TrimRight(data, "\n")
	data = append(data, '\n')

	t.logger.Debug("stdio send: %s", string(data))

	if _, err := t.writer.Write(data); err != nil {
		if errors.Is(err, io.ErrClosedPipe) || strings.Contains(err.Error(), "pipe closed") {
			t.logger.Warn("stdio: write to closed pipe: %v", err)
			_ = t.Close()
			return err
		}
		return fmt.Errorf("failed to write message: %w", err)
	}

	if flusher, ok := t.writer.(interface{ Flush() error }); ok {
		if err := flusher.Flush(); err != nil {
			t.logger.Warn("stdio: failed to flush writer: %v", err)
		}
	} else if f, ok := t.writer.(*os.File); ok && (f == os.Stdout || f == os.Stderr) {
		if err := f.Sync(); err != nil {
			t.logger.Warn("stdio: failed to sync %s: %v", f.Name(), err)
		}
	}
	return nil
}

// ReadLine blocks until the next newline-delimited message is available and
// returns it without the trailing delimiter. A partial line at end of stream
// is returned once, followed by io.EOF on the next call.
func (t *Transport) ReadLine() ([]byte, error) {
	t.closeMu.Lock()
	if t.closed {
		t.closeMu.Unlock()
		return nil, errors.New("transport is closed")
	}
	t.closeMu.Unlock()

	line, err := t.reader.ReadBytes('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			if len(line) > 0 {
				t.logger.Warn("stdio: partial line at EOF")
				return bytes.TrimRight(line, "\r\n"), nil
			}
			return nil, io.EOF
		}
		return nil, fmt.Errorf("failed to read message line: %w", err)
	}
	return bytes.TrimRight(line, "\r\n"), nil
}

// Close closes the underlying reader and writer if they implement io.Closer.
func (t *Transport) Close() error {
	t.closeMu.Lock()
	defer t.closeMu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true

	var firstErr error
	for _, stream := range []interface{}{t.rawWriter, t.rawReader} {
		if closer, ok := stream.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				if errors.Is(err, io.ErrClosedPipe) || strings.Contains(err.Error(), "pipe closed") {
					continue
				}
				if firstErr == nil {
					firstErr = err
				}
			}
		}
	}
	return firstErr
}

var _ types.Transport = (*Transport)(nil)
