package discovery

import (
	"fmt"
	"time"
)

// Device is an HTTP server found through mDNS
type Device struct {
	// Instance is the advertised service instance, normally the hostname
	// configured on the device (e.g., "slhttpd")
	Instance string

	// Hostname is the mDNS host name (e.g., "slhttpd.local.")
	Hostname string

	// IP is the first IPv4 address, or IPv6 if none
	IP string

	// Port is the HTTP port
	Port int

	// Metadata holds the TXT records, e.g. "path" and "srcvers"
	Metadata map[string]string

	DiscoveredAt time.Time
}

func (d *Device) String() string {
	return fmt.Sprintf("%s (%s) at %s:%d", d.Instance, d.Hostname, d.IP, d.Port)
}

// BaseURL returns the HTTP base URL for the device
func (d *Device) BaseURL() string {
	return fmt.Sprintf("http://%s:%d", d.IP, d.Port)
}

// IsEmulated reports whether the device is an slhttpd emulator
func (d *Device) IsEmulated() bool {
	return d.GetMetadata("srcvers") == "slhttpd"
}

// GetMetadata retrieves a TXT value by key, or "" if absent
func (d *Device) GetMetadata(key string) string {
	if d.Metadata == nil {
		return ""
	}
	return d.Metadata[key]
}
