package lan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"sync"
)

// ClientConfig configures a Client.
type ClientConfig struct {
	// MaxLength bounds an encoded frame in bytes.
	MaxLength int
	Logger    *slog.Logger
}

// Client is a connection to a Server. Frames from the server are queued in
// the inbox; when the connection fails an exit frame is queued last.
type Client struct {
	peer   *peer
	id     int
	logger *slog.Logger
	inbox  chan Frame

	once sync.Once
	done chan struct{}
}

// Discover waits for a server advertisement on the UDP discovery port and
// returns the advertised TCP address.
func Discover(ctx context.Context, discoveryPort int) (string, error) {
	if discoveryPort == 0 {
		discoveryPort = DiscoveryPort
	}
	var lc net.ListenConfig
	pc, err := lc.ListenPacket(ctx, "udp4", net.JoinHostPort("", strconv.Itoa(discoveryPort)))
	if err != nil {
		return "", err
	}
	defer pc.Close()
	stop := context.AfterFunc(ctx, func() { pc.Close() })
	defer stop()

	buf := make([]byte, 64*1024)
	for {
		n, _, err := pc.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			return "", err
		}
		f, err := decodeFrame(trimNewline(buf[:n]))
		if err != nil || f.Header != HeaderBroadcastIP {
			continue
		}
		var c BroadcastContent
		if err := f.Decode(&c); err == nil && c.Address != "" {
			return c.Address, nil
		}
	}
}

func trimNewline(b []byte) []byte {
	if n := len(b); n > 0 && b[n-1] == '\n' {
		return b[:n-1]
	}
	return b
}

// Dial connects to the server at addr and waits for the id it assigns.
func Dial(ctx context.Context, addr string, cfg ClientConfig) (*Client, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	p := newPeer(conn, cfg.MaxLength)
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	first, err := p.read()
	if !stop() {
		return nil, ctx.Err()
	}
	if err != nil {
		p.close()
		return nil, fmt.Errorf("lan: handshake: %w", err)
	}
	var id int
	if first.Header != HeaderNewID || first.Decode(&id) != nil {
		p.close()
		return nil, fmt.Errorf("lan: handshake: unexpected %q frame", first.Header)
	}

	c := &Client{
		peer:   p,
		id:     id,
		logger: cfg.Logger,
		inbox:  make(chan Frame, inboxSize),
		done:   make(chan struct{}),
	}
	go c.readLoop()
	cfg.Logger.Info("lan connected", slog.String("addr", addr), slog.Int("id", id))
	return c, nil
}

// ID returns the id the server assigned.
func (c *Client) ID() int { return c.id }

func (c *Client) readLoop() {
	defer close(c.done)
	for {
		f, err := c.peer.read()
		if err != nil {
			if !errors.Is(err, ErrClosed) && !errors.Is(err, net.ErrClosed) {
				c.logger.Warn("lan connection lost", slog.Any("error", err))
			}
			c.peer.close()
			exit, _ := NewFrame(ServerID, HeaderExit, nil)
			c.push(exit)
			return
		}
		c.push(f)
		if f.Header == HeaderExit {
			c.peer.close()
			return
		}
	}
}

func (c *Client) push(f Frame) {
	select {
	case c.inbox <- f:
	default:
		c.logger.Warn("lan inbox full, frame dropped", slog.String("header", f.Header))
	}
}

// Send sends a frame with the given header and content.
func (c *Client) Send(header string, content any) error {
	f, err := NewFrame(c.id, header, content)
	if err != nil {
		return err
	}
	return c.peer.write(f)
}

// Inbox delivers server frames.
func (c *Client) Inbox() <-chan Frame { return c.inbox }

// Drain returns the queued frames without blocking.
func (c *Client) Drain() []Frame { return drain(c.inbox) }

// Done is closed once the connection has ended.
func (c *Client) Done() <-chan struct{} { return c.done }

// Close says goodbye to the server and closes the connection.
func (c *Client) Close() error {
	var err error
	c.once.Do(func() {
		if f, ferr := NewFrame(c.id, HeaderExit, nil); ferr == nil {
			if werr := c.peer.write(f); werr != nil {
				c.logger.Debug("lan goodbye not sent", slog.Any("error", werr))
			}
		}
		err = c.peer.close()
		<-c.done
	})
	return err
}
