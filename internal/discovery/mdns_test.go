package discovery

import (
	"net"
	"testing"
	"time"

	"github.com/grandcat/zeroconf"
)

func newEntry(instance, host string, port int, v4, v6 []net.IP, txt ...string) *zeroconf.ServiceEntry {
	entry := zeroconf.NewServiceEntry(instance, "_http._tcp", "local.")
	entry.HostName = host
	entry.Port = port
	entry.AddrIPv4 = v4
	entry.AddrIPv6 = v6
	entry.Text = txt
	return entry
}

func TestScanner_parseServiceEntry(t *testing.T) {
	scanner := NewScanner()

	tests := []struct {
		name     string
		entry    *zeroconf.ServiceEntry
		wantNil  bool
		wantIP   string
		wantPort int
	}{
		{
			name:     "IPv4 device",
			entry:    newEntry("sensor", "sensor.local.", 80, []net.IP{net.ParseIP("192.168.4.16")}, nil),
			wantIP:   "192.168.4.16",
			wantPort: 80,
		},
		{
			name:     "custom port",
			entry:    newEntry("sensor", "sensor.local.", 8080, []net.IP{net.ParseIP("10.0.0.5")}, nil),
			wantIP:   "10.0.0.5",
			wantPort: 8080,
		},
		{
			name:     "no port defaults to 80",
			entry:    newEntry("sensor", "sensor.local.", 0, []net.IP{net.ParseIP("172.16.0.1")}, nil),
			wantIP:   "172.16.0.1",
			wantPort: 80,
		},
		{
			name:    "no address",
			entry:   newEntry("sensor", "sensor.local.", 80, nil, nil),
			wantNil: true,
		},
		{
			name:     "IPv6 only",
			entry:    newEntry("sensor", "sensor.local.", 80, nil, []net.IP{net.ParseIP("fe80::1")}),
			wantIP:   "fe80::1",
			wantPort: 80,
		},
		{
			name:     "prefers IPv4",
			entry:    newEntry("sensor", "sensor.local.", 80, []net.IP{net.ParseIP("192.168.1.50")}, []net.IP{net.ParseIP("fe80::2")}),
			wantIP:   "192.168.1.50",
			wantPort: 80,
		},
		{
			name:    "nil entry",
			entry:   nil,
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			device := scanner.parseServiceEntry(tt.entry)

			if tt.wantNil {
				if device != nil {
					t.Errorf("parseServiceEntry() = %v, want nil", device)
				}
				return
			}

			if device == nil {
				t.Fatal("parseServiceEntry() = nil, want device")
			}
			if device.Instance != "sensor" {
				t.Errorf("device.Instance = %v, want sensor", device.Instance)
			}
			if device.IP != tt.wantIP {
				t.Errorf("device.IP = %v, want %v", device.IP, tt.wantIP)
			}
			if device.Port != tt.wantPort {
				t.Errorf("device.Port = %v, want %v", device.Port, tt.wantPort)
			}
			if device.Hostname != tt.entry.HostName {
				t.Errorf("device.Hostname = %v, want %v", device.Hostname, tt.entry.HostName)
			}
			if time.Since(device.DiscoveredAt) > time.Second {
				t.Errorf("device.DiscoveredAt is not recent: %v", device.DiscoveredAt)
			}
		})
	}
}

func TestScanner_parseServiceEntry_Metadata(t *testing.T) {
	scanner := NewScanner()

	entry := newEntry("sensor", "sensor.local.", 80, []net.IP{net.ParseIP("192.168.4.16")}, nil,
		"path=/", "srcvers=slhttpd", "flag", "rom=true")

	device := scanner.parseServiceEntry(entry)
	if device == nil {
		t.Fatal("parseServiceEntry() = nil, want device")
	}

	expected := map[string]string{
		"path":    "/",
		"srcvers": "slhttpd",
		"flag":    "",
		"rom":     "true",
	}

	if len(device.Metadata) != len(expected) {
		t.Errorf("device.Metadata has %d entries, want %d", len(device.Metadata), len(expected))
	}
	for key, want := range expected {
		if got, ok := device.Metadata[key]; !ok {
			t.Errorf("device.Metadata missing key %q", key)
		} else if got != want {
			t.Errorf("device.Metadata[%q] = %q, want %q", key, got, want)
		}
	}

	if !device.IsEmulated() {
		t.Error("IsEmulated() = false, want true for srcvers=slhttpd")
	}
}

func TestScanner_Filter(t *testing.T) {
	scanner := NewScanner()
	scanner.Filter = (*Device).IsEmulated

	chip := newEntry("cc3200", "cc3200.local.", 80, []net.IP{net.ParseIP("192.168.4.20")}, nil, "path=/")
	if scanner.parseServiceEntry(chip) != nil {
		t.Error("filter should drop devices without srcvers=slhttpd")
	}

	emu := newEntry("sensor", "sensor.local.", 80, []net.IP{net.ParseIP("192.168.4.21")}, nil, "srcvers=slhttpd")
	if scanner.parseServiceEntry(emu) == nil {
		t.Error("filter should keep emulated devices")
	}
}

func TestNewScanner(t *testing.T) {
	scanner := NewScanner()

	if scanner.Timeout != DefaultScanTimeout {
		t.Errorf("scanner.Timeout = %v, want %v", scanner.Timeout, DefaultScanTimeout)
	}
	if scanner.Service != "_http._tcp" {
		t.Errorf("scanner.Service = %v, want _http._tcp", scanner.Service)
	}
}
