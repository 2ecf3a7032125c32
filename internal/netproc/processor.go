package netproc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/slhttpd/internal/firmware"
	"github.com/muurk/slhttpd/internal/logging"
)

// Settings is the emulated processor's HTTP server configuration.
type Settings struct {
	Host     string // listen address, empty = all interfaces
	Port     uint16
	Hostname string
	PageDir  string // user file system root, empty = none
	ROMPages bool
	MDNS     bool
	Monitor  bool
}

// DefaultSettings returns the processor's factory settings.
func DefaultSettings() Settings {
	return Settings{
		Port:     firmware.DefaultPort,
		Hostname: "slhttpd",
		ROMPages: true,
	}
}

// shutdownTimeout bounds how long StopHTTPServer waits for open requests.
const shutdownTimeout = 5 * time.Second

// Processor is an emulated network processor. Configuration changes made
// while the server runs apply on the next start, as on the real device.
type Processor struct {
	mu       sync.Mutex
	settings Settings
	handler  firmware.EventHandler

	running  bool
	srv      *http.Server
	listener net.Listener
	mdns     advertiser
	monitor  *Monitor

	indexGet  []string
	indexPost []string

	// newAdvertiser is swapped out in tests
	newAdvertiser func(s Settings, port int) (advertiser, error)
}

var _ firmware.Driver = (*Processor)(nil)

// New creates a stopped processor with the given settings.
func New(settings Settings) *Processor {
	return &Processor{
		settings:      settings,
		monitor:       NewMonitor(),
		newAdvertiser: advertise,
	}
}

// Settings returns a copy of the current settings.
func (p *Processor) Settings() Settings {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.settings
}

// Monitor returns the token event monitor.
func (p *Processor) Monitor() *Monitor {
	return p.monitor
}

// Addr returns the listener address while running.
func (p *Processor) Addr() net.Addr {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.listener == nil {
		return nil
	}
	return p.listener.Addr()
}

// StartHTTPServer starts listening with the current settings. Starting a
// running server is a no-op.
func (p *Processor) StartHTTPServer() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return nil
	}

	addr := net.JoinHostPort(p.settings.Host, fmt.Sprint(p.settings.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		logging.Error("Failed to listen", zap.String("addr", addr), zap.Error(err))
		return firmware.StatusGeneric
	}

	p.srv = &http.Server{
		Handler:           p.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	p.listener = ln
	p.running = true

	go func(srv *http.Server, ln net.Listener) {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("HTTP server stopped", zap.Error(err))
		}
	}(p.srv, ln)

	logging.Info("Emulated HTTP server listening",
		zap.String("addr", ln.Addr().String()),
		zap.String("hostname", p.settings.Hostname),
		zap.Bool("rom_pages", p.settings.ROMPages),
		zap.Bool("mdns", p.settings.MDNS),
	)

	if p.settings.MDNS {
		port := ln.Addr().(*net.TCPAddr).Port
		adv, err := p.newAdvertiser(p.settings, port)
		if err != nil {
			// The HTTP server stays up without mDNS, like the device does
			logging.Warn("mDNS advertisement failed", zap.Error(err))
		} else {
			p.mdns = adv
		}
	}

	return nil
}

// StopHTTPServer stops the server and the mDNS advertisement.
func (p *Processor) StopHTTPServer() error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	srv, adv := p.srv, p.mdns
	p.srv = nil
	p.listener = nil
	p.mdns = nil
	p.running = false
	p.mu.Unlock()

	if adv != nil {
		adv.Shutdown()
	}

	// In-flight requests still raise events, which takes p.mu.
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("HTTP server shutdown timeout, forcing close", zap.Error(err))
		_ = srv.Close()
	}
	p.monitor.Disconnect()

	logging.Info("Emulated HTTP server stopped")
	return nil
}

// Running reports whether the HTTP server is up.
func (p *Processor) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// Port returns the configured port.
func (p *Processor) Port() (uint16, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.settings.Port, nil
}

// SetPort sets the port used by the next start.
func (p *Processor) SetPort(port uint16) error {
	if port == 0 {
		return firmware.StatusInvalidParam
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.settings.Port = port
	return nil
}

// Hostname returns the configured hostname.
func (p *Processor) Hostname() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.settings.Hostname, nil
}

// SetHostname sets the device hostname.
func (p *Processor) SetHostname(name string) error {
	if err := ValidateHostname(name); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.settings.Hostname = name
	return nil
}

// SetROMPages switches the built-in pages on or off.
func (p *Processor) SetROMPages(enabled bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.settings.ROMPages = enabled
	return nil
}

// SetMDNS switches mDNS advertisement on or off.
func (p *Processor) SetMDNS(enabled bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.settings.MDNS = enabled
	return nil
}

// SetEventHandler installs the HTTP server event receiver.
func (p *Processor) SetEventHandler(h firmware.EventHandler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handler = h
}

// ValidateHostname checks a hostname against the processor's limits.
func ValidateHostname(name string) error {
	if name == "" || len(name) > firmware.MaxHostnameLen {
		return firmware.StatusInvalidParam
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-':
		default:
			return firmware.StatusInvalidParam
		}
	}
	return nil
}

// raise delivers ev to the event handler outside the processor lock and
// publishes the outcome to the monitor.
func (p *Processor) raise(ev *firmware.Event) firmware.Response {
	p.mu.Lock()
	h := p.handler
	p.mu.Unlock()

	var resp firmware.Response
	if h != nil {
		h.HandleEvent(ev, &resp)
	}
	p.monitor.Publish(newMonitorEvent(ev, &resp))
	return resp
}
