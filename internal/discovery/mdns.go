package discovery

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/slhttpd/internal/firmware"
	"github.com/muurk/slhttpd/internal/logging"
)

const (
	// ServiceDomain is the mDNS domain
	ServiceDomain = "local."

	// DefaultScanTimeout is the default time spent collecting answers
	DefaultScanTimeout = 5 * time.Second

	// DefaultPort is used when an entry carries no port
	DefaultPort = 80
)

// Scanner browses for HTTP services
type Scanner struct {
	// Timeout is the maximum time to wait for answers
	Timeout time.Duration

	// Service is the service type to browse for
	Service string

	// Filter, when set, drops devices for which it returns false
	Filter func(*Device) bool
}

// NewScanner creates a scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
		Service: firmware.DefaultServiceType,
	}
}

// ScanForDevices collects every device that answers within the timeout.
// Devices answering on several interfaces are reported once.
func (s *Scanner) ScanForDevices(ctx context.Context) ([]*Device, error) {
	var devices []*Device
	seen := make(map[string]bool)

	err := s.browse(ctx, func(d *Device) bool {
		key := net.JoinHostPort(d.IP, strconv.Itoa(d.Port))
		if !seen[key] {
			seen[key] = true
			devices = append(devices, d)
			logging.Debug("Device discovered", zap.Stringer("device", d))
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return devices, nil
}

// FindDevice waits for the device advertising instance (case-insensitive).
func (s *Scanner) FindDevice(ctx context.Context, instance string) (*Device, error) {
	var found *Device
	err := s.browse(ctx, func(d *Device) bool {
		if strings.EqualFold(d.Instance, instance) {
			found = d
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, fmt.Errorf("device %q not found within %s", instance, s.Timeout)
	}
	return found, nil
}

// browse feeds parsed devices to visit, one at a time, until the timeout
// expires or visit returns false.
func (s *Scanner) browse(ctx context.Context, visit func(*Device) bool) error {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	done := make(chan struct{})
	go func() {
		defer close(done)
		stopped := false
		// Keep draining after a stop so the resolver never blocks on send.
		for entry := range entries {
			if stopped {
				continue
			}
			if d := s.parseServiceEntry(entry); d != nil && !visit(d) {
				stopped = true
				cancel()
			}
		}
	}()

	if err := resolver.Browse(ctx, s.Service, ServiceDomain, entries); err != nil {
		return fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	// The resolver closes entries once ctx ends, which ends the goroutine.
	<-done
	return nil
}

// parseServiceEntry converts a zeroconf entry to a Device.
// Returns nil for entries without an address or rejected by the filter.
func (s *Scanner) parseServiceEntry(entry *zeroconf.ServiceEntry) *Device {
	if entry == nil {
		return nil
	}

	var ip string
	if len(entry.AddrIPv4) > 0 {
		ip = entry.AddrIPv4[0].String()
	} else if len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		key, value, _ := strings.Cut(txt, "=")
		metadata[key] = value
	}

	device := &Device{
		Instance:     entry.Instance,
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         port,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}

	if s.Filter != nil && !s.Filter(device) {
		return nil
	}
	return device
}

// ScanForDevices scans with the default scanner and the given timeout
func ScanForDevices(timeout time.Duration) ([]*Device, error) {
	scanner := NewScanner()
	scanner.Timeout = timeout
	return scanner.ScanForDevices(context.Background())
}
