package httpd

import (
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/muurk/slhttpd/internal/firmware"
	"github.com/muurk/slhttpd/internal/logging"
	"github.com/muurk/slhttpd/internal/registry"
)

// Server is the application's handle on the processor's HTTP server. There
// is one per process, matching the single network processor.
type Server struct {
	driver firmware.Driver
	get    *registry.Registry[GetHandler]
	post   *registry.Registry[PostHandler]

	mu     sync.Mutex
	active bool

	// closed is read without mu so a callback registering tokens during
	// Close is refused instead of blocking.
	closed atomic.Bool
}

// New creates a Server and attaches it to the driver's event notification.
func New(driver firmware.Driver) *Server {
	s := &Server{
		driver: driver,
		get:    registry.New[GetHandler](),
		post:   registry.New[PostHandler](),
	}
	driver.SetEventHandler(s)
	return s
}

// Begin starts the processor's HTTP server.
func (s *Server) Begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return fmt.Errorf("begin: %w", errClosed)
	}
	if err := s.driver.StartHTTPServer(); err != nil {
		return err
	}
	s.active = true
	logging.Info("HTTP server enabled")
	return nil
}

// End stops the processor's HTTP server. Registered tokens are kept.
func (s *Server) End() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.endLocked()
}

func (s *Server) endLocked() error {
	if !s.active {
		return nil
	}
	if err := s.driver.StopHTTPServer(); err != nil {
		return err
	}
	s.active = false
	logging.Info("HTTP server disabled")
	return nil
}

// Active reports whether Begin has succeeded without a later End.
func (s *Server) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Close stops the server, detaches from the driver and releases every
// registered token. Statistics remain readable.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Swap(true) {
		return nil
	}
	err := s.endLocked()
	s.driver.SetEventHandler(nil)
	s.get.Close()
	s.post.Close()
	return err
}

// Port returns the configured HTTP port.
func (s *Server) Port() (uint16, error) {
	return s.driver.Port()
}

// SetPort changes the HTTP port.
func (s *Server) SetPort(p uint16) error {
	if err := s.driver.SetPort(p); err != nil {
		return err
	}
	logging.Info("HTTP port set", zap.Uint16("port", p))
	return nil
}

// SetHostname changes the device hostname.
func (s *Server) SetHostname(name string) error {
	if err := s.driver.SetHostname(name); err != nil {
		return err
	}
	logging.Info("Hostname set", zap.String("hostname", name))
	return nil
}

// SetHostnameBytes is SetHostname for raw or NUL-terminated bytes.
func (s *Server) SetHostnameBytes(name []byte) error {
	return s.SetHostname(cString(name))
}

// Hostname returns the device hostname.
func (s *Server) Hostname() (string, error) {
	return s.driver.Hostname()
}

// ReadHostname copies the hostname into buf and NUL-terminates it. buf must
// hold the name plus the terminator.
func (s *Server) ReadHostname(buf []byte) (int, error) {
	name, err := s.driver.Hostname()
	if err != nil {
		return 0, err
	}
	if len(buf) < len(name)+1 {
		return 0, fmt.Errorf("read hostname: %w: need %d bytes, have %d",
			ErrInvalidArgument, len(name)+1, len(buf))
	}
	n := copy(buf, name)
	buf[n] = 0
	return n, nil
}

// UseROMPages switches lookup of the processor's built-in pages on or off.
func (s *Server) UseROMPages(enabled bool) error {
	if err := s.driver.SetROMPages(enabled); err != nil {
		return err
	}
	logging.Info("ROM page lookup set", zap.Bool("enabled", enabled))
	return nil
}

// UseMDNS switches the processor's mDNS responder on or off.
func (s *Server) UseMDNS(enabled bool) error {
	if err := s.driver.SetMDNS(enabled); err != nil {
		return err
	}
	logging.Info("mDNS set", zap.Bool("enabled", enabled))
	return nil
}

func cString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
