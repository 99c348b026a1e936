package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/alpsio/alps-mcp/logx"
	"github.com/alpsio/alps-mcp/protocol"
	"github.com/alpsio/alps-mcp/transport/stdio"
	"github.com/alpsio/alps-mcp/types"
)

// DefaultKeepaliveInterval is how long the serve loop waits for input before
// emitting a keepalive ping.
const DefaultKeepaliveInterval = 30 * time.Second

// StdioServer drives the read/dispatch/write cycle over a stdio transport.
// Processing is strictly sequential: one message is read, dispatched to
// completion, and its response (if any) flushed before the next read. The
// keepalive counter is the only state that survives across iterations.
type StdioServer struct {
	server    *Server
	transport types.Transport
	logger    types.Logger

	keepaliveInterval time.Duration
	pingCounter       uint64
	sessionID         string
}

// StdioOption configures a StdioServer.
type StdioOption func(*StdioServer)

// WithTransport substitutes the transport; tests use in-memory pipes.
func WithTransport(t types.Transport) StdioOption {
	return func(s *StdioServer) {
		if t != nil {
			s.transport = t
		}
	}
}

// WithKeepaliveInterval overrides the idle timeout.
func WithKeepaliveInterval(d time.Duration) StdioOption {
	return func(s *StdioServer) {
		if d > 0 {
			s.keepaliveInterval = d
		}
	}
}

// WithStdioLogger sets the serve loop logger.
func WithStdioLogger(logger types.Logger) StdioOption {
	return func(s *StdioServer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStdioServer wraps a Server with a stdio transport loop.
func NewStdioServer(srv *Server, opts ...StdioOption) *StdioServer {
	s := &StdioServer{
		server:            srv,
		logger:            logx.NewDiscard(),
		keepaliveInterval: DefaultKeepaliveInterval,
		sessionID:         "stdio-" + uuid.NewString(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.transport == nil {
		s.transport = stdio.New(stdio.WithLogger(s.logger))
	}
	return s
}

// ServeStdio runs the serve loop over os.Stdin/os.Stdout until the input
// stream closes or an unrecoverable I/O failure occurs.
func ServeStdio(srv *Server, opts ...StdioOption) error {
	return NewStdioServer(srv, opts...).Run(context.Background())
}

type readResult struct {
	line []byte
	err  error
}

// Run drives the loop until end-of-stream (nil), context cancellation, or a
// fatal I/O error. Parse failures and unknown methods never end the loop.
func (s *StdioServer) Run(ctx context.Context) error {
	s.logger.Info("session %s: serve loop starting", s.sessionID)

	lines := make(chan readResult)
	go func() {
		defer close(lines)
		for {
			line, err := s.transport.ReadLine()
			select {
			case lines <- readResult{line: line, err: err}:
			case <-ctx.Done():
				return
			}
			if err != nil {
				return
			}
		}
	}()

	idle := time.NewTimer(s.keepaliveInterval)
	defer idle.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("session %s: context canceled", s.sessionID)
			return ctx.Err()

		case res, ok := <-lines:
			if !ok {
				return nil
			}
			if res.err != nil {
				if errors.Is(res.err, io.EOF) {
					s.logger.Info("session %s: input closed, shutting down", s.sessionID)
					return nil
				}
				s.logger.Error("session %s: read failed: %v", s.sessionID, res.err)
				return res.err
			}
			if err := s.processLine(ctx, res.line); err != nil {
				return err
			}
			resetTimer(idle, s.keepaliveInterval)

		case <-idle.C:
			if err := s.sendKeepalive(); err != nil {
				return err
			}
			idle.Reset(s.keepaliveInterval)
		}
	}
}

// processLine dispatches one inbound line and writes the owed response, if
// any. Only write failures are returned; everything else is absorbed.
func (s *StdioServer) processLine(ctx context.Context, line []byte) error {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return nil
	}

	response := s.server.HandleMessage(ctx, line)
	if response == nil {
		return nil
	}

	data, err := json.Marshal(response)
	if err != nil {
		s.logger.Error("session %s: failed to marshal response for id %v: %v", s.sessionID, response.ID, err)
		return nil
	}
	if err := s.transport.Send(data); err != nil {
		s.logger.Error("session %s: failed to write response: %v", s.sessionID, err)
		return err
	}
	return nil
}

// sendKeepalive emits one server-initiated ping. The id space is disjoint
// from client-assigned ids; any reply comes back through the normal dispatch
// path as a fresh inbound message.
func (s *StdioServer) sendKeepalive() error {
	s.pingCounter++
	id := fmt.Sprintf("server-ping-%d", s.pingCounter)
	req := protocol.NewRequest(id, protocol.MethodPing, nil)

	data, err := json.Marshal(req)
	if err != nil {
		s.logger.Error("session %s: failed to marshal keepalive: %v", s.sessionID, err)
		return nil
	}
	if err := s.transport.Send(data); err != nil {
		s.logger.Error("session %s: failed to write keepalive: %v", s.sessionID, err)
		return err
	}
	s.logger.Debug("session %s: sent keepalive %s", s.sessionID, id)
	return nil
}

// resetTimer restarts an idle timer, draining a pending tick so the next
// keepalive measures idleness from the last processed message.
func resetTimer(t *time.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
}
