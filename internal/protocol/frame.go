package protocol

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Framing errors. ErrUnknownOperation and ErrMissingRoutingKey are protocol
// errors in the taxonomy sense: the request is rejected before any
// downstream call is made.
var (
	ErrUnknownOperation  = errors.New("unknown operation")
	ErrMissingRoutingKey = errors.New("missing routing key")
	ErrTruncatedRequest  = errors.New("truncated request")
)

// Request is one framed request as it travels on the wire. Payload is kept
// raw so the coordinator can relay it to a worker verbatim.
type Request struct {
	Op         string
	RoutingKey string
	Payload    []byte
}

// ReadRequest reads the two request lines from r. The first line is parsed
// into operation token and optional routing key; the payload line is
// returned untouched.
func ReadRequest(r *bufio.Reader) (Request, error) {
	header, err := readLine(r)
	if err != nil {
		return Request{}, fmt.Errorf("read request header: %w", err)
	}

	op, key, _ := strings.Cut(strings.TrimSpace(header), ":")
	op = strings.ToUpper(op)
	if !KnownOp(op) {
		return Request{}, fmt.Errorf("%w: %q", ErrUnknownOperation, op)
	}

	payload, err := readLine(r)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Request{}, fmt.Errorf("%w: no payload line for %s", ErrTruncatedRequest, op)
		}
		return Request{}, fmt.Errorf("read request payload: %w", err)
	}

	return Request{Op: op, RoutingKey: key, Payload: []byte(payload)}, nil
}

// Validate checks routing-key presence for operations that need one.
func (req Request) Validate() error {
	if RequiresRoutingKey(req.Op) && strings.TrimSpace(req.RoutingKey) == "" {
		return fmt.Errorf("%w: %s requires OPERATION:storeName on the first line", ErrMissingRoutingKey, req.Op)
	}
	return nil
}

// WriteRequest writes req as two lines. The routing key and payload must
// each fit on their line; an embedded newline would desynchronize the
// stream, so it is rejected here rather than corrupting the peer.
func WriteRequest(w io.Writer, req Request) error {
	if strings.ContainsRune(req.RoutingKey, '\n') {
		return fmt.Errorf("routing key for %s contains a newline", req.Op)
	}
	if bytes.ContainsRune(req.Payload, '\n') {
		return fmt.Errorf("payload for %s contains a newline", req.Op)
	}
	header := req.Op
	if req.RoutingKey != "" {
		header += ":" + req.RoutingKey
	}
	_, err := fmt.Fprintf(w, "%s\n%s\n", header, req.Payload)
	return err
}

// ReadResponse reads the single response line.
func ReadResponse(r *bufio.Reader) ([]byte, error) {
	line, err := readLine(r)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return []byte(line), nil
}

// WriteResponse writes the single response line.
func WriteResponse(w io.Writer, payload []byte) error {
	if bytes.ContainsRune(payload, '\n') {
		return errors.New("response payload contains a newline")
	}
	_, err := fmt.Fprintf(w, "%s\n", payload)
	return err
}

// readLine returns one line without its terminator. A final unterminated
// line is accepted: some clients close the socket right after the last
// byte instead of sending a trailing newline.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
