// Package lan is a small LAN client/server pair. The server advertises its
// address over UDP broadcast; clients discover it, connect over TCP and
// exchange newline-delimited JSON frames. Frames received on the network
// goroutines are queued in an inbox that the game drains on its main
// thread.
package lan

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Frame headers used by the protocol. Any other header is a user frame.
const (
	HeaderBroadcastIP   = "broadcast_ip"
	HeaderNewID         = "new_id"
	HeaderExit          = "exit"
	HeaderDisconnection = "disconnection"
	HeaderNewPhase      = "new_phase"
)

// ServerID is the sender id of frames built by the server.
const ServerID = 0

// DefaultMaxLength bounds an encoded frame when no limit is configured.
const DefaultMaxLength = 2048

var (
	// ErrFrameTooLong is returned for frames over the configured length.
	ErrFrameTooLong = errors.New("lan: frame too long")
	// ErrClosed is returned when sending on a closed connection.
	ErrClosed = errors.New("lan: connection closed")
)

// Frame is one protocol message.
type Frame struct {
	ID        int             `json:"id"`
	Header    string          `json:"header"`
	Content   json.RawMessage `json:"content,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// NewFrame builds a frame from sender id, header and content marshaled to
// JSON. A nil content is omitted.
func NewFrame(id int, header string, content any) (Frame, error) {
	f := Frame{ID: id, Header: header, Timestamp: time.Now().UnixMilli()}
	if content != nil {
		raw, err := json.Marshal(content)
		if err != nil {
			return Frame{}, fmt.Errorf("lan: encode %s content: %w", header, err)
		}
		f.Content = raw
	}
	return f, nil
}

// Decode unmarshals the frame content into v.
func (f Frame) Decode(v any) error {
	if len(f.Content) == 0 {
		return fmt.Errorf("lan: %s frame has no content", f.Header)
	}
	return json.Unmarshal(f.Content, v)
}

// encodeFrame renders f as one line, newline included.
func encodeFrame(f Frame, maxLen int) ([]byte, error) {
	b, err := json.Marshal(f)
	if err != nil {
		return nil, err
	}
	if maxLen > 0 && len(b) > maxLen {
		return nil, fmt.Errorf("%w: %d > %d bytes", ErrFrameTooLong, len(b), maxLen)
	}
	return append(b, '\n'), nil
}

// decodeFrame parses one line.
func decodeFrame(line []byte) (Frame, error) {
	var f Frame
	dec := json.NewDecoder(bytes.NewReader(line))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return Frame{}, fmt.Errorf("lan: decode frame: %w", err)
	}
	if f.Header == "" {
		return Frame{}, errors.New("lan: decode frame: missing header")
	}
	return f, nil
}
