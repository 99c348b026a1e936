package types

// Transport defines the interface for the wire between an MCP client and the
// alps-mcp server. It abstracts the underlying byte stream (stdio in
// production, in-memory pipes in tests) and owns message framing.
type Transport interface {
	// Send transmits a single message over the transport, framed as one line.
	// It returns an error if the message could not be written and flushed.
	Send(data []byte) error

	// ReadLine blocks until the next newline-delimited message is available.
	// It returns io.EOF when the input stream is closed.
	ReadLine() ([]byte, error)

	// Close terminates the transport. After Close the transport must not be used.
	Close() error
}
