package firmware

// Server settings limits.
const (
	DefaultPort        uint16 = 80
	MaxHostnameLen            = 32
	DefaultServiceType        = "_http._tcp"
)

// Driver is the network processor's HTTP server control surface. Every
// method maps onto one firmware call; errors are Status values.
type Driver interface {
	StartHTTPServer() error
	StopHTTPServer() error

	Port() (uint16, error)
	SetPort(port uint16) error

	Hostname() (string, error)
	SetHostname(name string) error

	SetROMPages(enabled bool) error
	SetMDNS(enabled bool) error

	// SetEventHandler installs the receiver of HTTP server events. A nil
	// handler detaches the current one.
	SetEventHandler(h EventHandler)
}
