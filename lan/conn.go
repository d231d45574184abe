package lan

import (
	"bufio"
	"net"
	"sync"
)

// inboxSize is the number of frames buffered before senders block.
const inboxSize = 256

// peer wraps a TCP connection with a frame reader and a serialized writer.
type peer struct {
	conn    net.Conn
	scanner *bufio.Scanner
	maxLen  int

	mu     sync.Mutex
	closed bool
}

func newPeer(conn net.Conn, maxLen int) *peer {
	if maxLen <= 0 {
		maxLen = DefaultMaxLength
	}
	sc := bufio.NewScanner(conn)
	// One extra byte for the newline.
	sc.Buffer(make([]byte, 0, min(maxLen+1, 4096)), maxLen+1)
	return &peer{conn: conn, scanner: sc, maxLen: maxLen}
}

// read blocks for the next frame. Oversized or undecodable input is an
// error; the caller closes the peer.
func (p *peer) read() (Frame, error) {
	if !p.scanner.Scan() {
		err := p.scanner.Err()
		if err == bufio.ErrTooLong {
			err = ErrFrameTooLong
		}
		if err == nil {
			err = ErrClosed
		}
		return Frame{}, err
	}
	return decodeFrame(p.scanner.Bytes())
}

func (p *peer) write(f Frame) error {
	b, err := encodeFrame(f, p.maxLen)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	_, err = p.conn.Write(b)
	return err
}

func (p *peer) close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	return p.conn.Close()
}

// drain empties an inbox without blocking.
func drain(inbox <-chan Frame) []Frame {
	var out []Frame
	for {
		select {
		case f := <-inbox:
			out = append(out, f)
		default:
			return out
		}
	}
}
