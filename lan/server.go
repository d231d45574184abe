package lan

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"slices"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Discovery defaults.
const (
	DiscoveryPort            = 50506
	DefaultBroadcastInterval = time.Second
	DefaultBroadcastAddr     = "255.255.255.255"
)

// ServerConfig configures a Server. Zero values take the defaults.
type ServerConfig struct {
	// Port is the TCP port clients connect to; 0 picks a free one.
	Port int
	// DiscoveryPort receives the UDP advertisements.
	DiscoveryPort int
	// BroadcastAddr is the address advertisements are sent to.
	BroadcastAddr string
	// BroadcastInterval separates advertisements.
	BroadcastInterval time.Duration
	// AdvertiseHost is the host put in advertisements. Empty uses the
	// first non-loopback IPv4 address.
	AdvertiseHost string
	// MaxLength bounds an encoded frame in bytes.
	MaxLength int
	Logger    *slog.Logger
}

// BroadcastContent is the content of a broadcast_ip frame.
type BroadcastContent struct {
	Address string `json:"address"`
}

// Server accepts clients, assigns their ids and relays frames between them.
// Every frame a client sends is also queued in the server inbox.
type Server struct {
	cfg ServerConfig
	ln  net.Listener

	mu      sync.Mutex
	clients map[int]*peer
	nextID  int

	inbox chan Frame
}

// NewServer creates a server. Call Listen or Serve to start it.
func NewServer(cfg ServerConfig) *Server {
	if cfg.DiscoveryPort == 0 {
		cfg.DiscoveryPort = DiscoveryPort
	}
	if cfg.BroadcastAddr == "" {
		cfg.BroadcastAddr = DefaultBroadcastAddr
	}
	if cfg.BroadcastInterval <= 0 {
		cfg.BroadcastInterval = DefaultBroadcastInterval
	}
	if cfg.MaxLength <= 0 {
		cfg.MaxLength = DefaultMaxLength
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		cfg:     cfg,
		clients: make(map[int]*peer),
		nextID:  ServerID + 1,
		inbox:   make(chan Frame, inboxSize),
	}
}

// Listen opens the TCP listener.
func (s *Server) Listen() error {
	if s.ln != nil {
		return nil
	}
	ln, err := net.Listen("tcp", net.JoinHostPort("", strconv.Itoa(s.cfg.Port)))
	if err != nil {
		return err
	}
	s.ln = ln
	s.cfg.Logger.Info("lan server listening", slog.String("addr", ln.Addr().String()))
	return nil
}

// Addr returns the listener address, nil before Listen.
func (s *Server) Addr() net.Addr {
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Serve runs the accept loop, the advertiser and one reader per client
// until ctx is canceled. It then disconnects every client.
func (s *Server) Serve(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-gctx.Done()
		s.ln.Close()
		s.closeAll()
		return nil
	})
	g.Go(func() error { return s.advertise(gctx) })
	g.Go(func() error {
		for {
			conn, err := s.ln.Accept()
			if err != nil {
				if gctx.Err() != nil {
					return nil
				}
				return err
			}
			p := newPeer(conn, s.cfg.MaxLength)
			id := s.add(p)
			g.Go(func() error {
				s.serveClient(id, p)
				return nil
			})
		}
	})
	err := g.Wait()
	if errors.Is(err, net.ErrClosed) {
		err = nil
	}
	return err
}

func (s *Server) add(p *peer) int {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.clients[id] = p
	s.mu.Unlock()

	f, _ := NewFrame(ServerID, HeaderNewID, id)
	if err := p.write(f); err != nil {
		s.cfg.Logger.Warn("lan send new_id", slog.Int("client", id), slog.Any("error", err))
	}
	s.cfg.Logger.Info("lan client connected", slog.Int("client", id), slog.String("remote", p.conn.RemoteAddr().String()))
	return id
}

// serveClient reads frames from client id until it exits or fails.
func (s *Server) serveClient(id int, p *peer) {
	defer s.disconnect(id)
	for {
		f, err := p.read()
		if err != nil {
			if !errors.Is(err, ErrClosed) && !errors.Is(err, net.ErrClosed) {
				s.cfg.Logger.Warn("lan client dropped", slog.Int("client", id), slog.Any("error", err))
			}
			return
		}
		f.ID = id
		if f.Header == HeaderExit {
			return
		}
		s.push(f)
		s.relay(id, f)
	}
}

// disconnect closes client id and tells the others.
func (s *Server) disconnect(id int) {
	s.mu.Lock()
	p, ok := s.clients[id]
	delete(s.clients, id)
	s.mu.Unlock()
	if !ok {
		return
	}
	p.close()
	s.cfg.Logger.Info("lan client disconnected", slog.Int("client", id))
	f, _ := NewFrame(id, HeaderDisconnection, nil)
	s.push(f)
	s.relay(id, f)
}

func (s *Server) push(f Frame) {
	select {
	case s.inbox <- f:
	default:
		s.cfg.Logger.Warn("lan inbox full, frame dropped", slog.String("header", f.Header))
	}
}

// relay sends f to every client but from.
func (s *Server) relay(from int, f Frame) {
	for _, id := range s.Clients() {
		if id != from {
			s.Send(id, f)
		}
	}
}

func (s *Server) closeAll() {
	s.mu.Lock()
	peers := make([]*peer, 0, len(s.clients))
	for _, p := range s.clients {
		peers = append(peers, p)
	}
	s.mu.Unlock()
	for _, p := range peers {
		if f, err := NewFrame(ServerID, HeaderExit, nil); err == nil {
			p.write(f)
		}
		p.close()
	}
}

// Clients returns the ids of the connected clients, ascending.
func (s *Server) Clients() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int, 0, len(s.clients))
	for id := range s.clients {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Send writes f to client id.
func (s *Server) Send(id int, f Frame) error {
	s.mu.Lock()
	p, ok := s.clients[id]
	s.mu.Unlock()
	if !ok {
		return ErrClosed
	}
	if err := p.write(f); err != nil {
		s.cfg.Logger.Warn("lan send", slog.Int("client", id), slog.Any("error", err))
		return err
	}
	return nil
}

// Broadcast sends a server frame to every client.
func (s *Server) Broadcast(header string, content any) error {
	f, err := NewFrame(ServerID, header, content)
	if err != nil {
		return err
	}
	var errs []error
	for _, id := range s.Clients() {
		if err := s.Send(id, f); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewPhase tells every client the server moved to phase.
func (s *Server) NewPhase(phase string) error { return s.Broadcast(HeaderNewPhase, phase) }

// Inbox delivers client frames, including disconnections.
func (s *Server) Inbox() <-chan Frame { return s.inbox }

// Drain returns the queued frames without blocking.
func (s *Server) Drain() []Frame { return drain(s.inbox) }

// advertise sends a broadcast_ip frame every interval until ctx ends.
func (s *Server) advertise(ctx context.Context) error {
	dst, err := net.ResolveUDPAddr("udp4", net.JoinHostPort(s.cfg.BroadcastAddr, strconv.Itoa(s.cfg.DiscoveryPort)))
	if err != nil {
		return err
	}
	conn, err := net.DialUDP("udp4", nil, dst)
	if err != nil {
		return err
	}
	defer conn.Close()

	host := s.cfg.AdvertiseHost
	if host == "" {
		host = localIPv4()
	}
	_, port, _ := net.SplitHostPort(s.ln.Addr().String())
	f, err := NewFrame(ServerID, HeaderBroadcastIP, BroadcastContent{Address: net.JoinHostPort(host, port)})
	if err != nil {
		return err
	}
	msg, err := encodeFrame(f, s.cfg.MaxLength)
	if err != nil {
		return err
	}

	ticker := time.NewTicker(s.cfg.BroadcastInterval)
	defer ticker.Stop()
	for {
		if _, err := conn.Write(msg); err != nil {
			s.cfg.Logger.Debug("lan advertise", slog.Any("error", err))
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// localIPv4 returns the first non-loopback IPv4 address, or 127.0.0.1.
func localIPv4() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "127.0.0.1"
	}
	for _, a := range addrs {
		if ipn, ok := a.(*net.IPNet); ok && !ipn.IP.IsLoopback() {
			if ip4 := ipn.IP.To4(); ip4 != nil {
				return ip4.String()
			}
		}
	}
	return "127.0.0.1"
}
