// Package discovery finds SimpleLink HTTP servers on the local network.
//
// SimpleLink devices with mDNS enabled advertise their on-chip HTTP server as
// an "_http._tcp" service named after the device hostname. The emulated
// processor in internal/netproc does the same and adds a "srcvers=slhttpd"
// TXT record.
//
// # Usage Example
//
//	devices, err := discovery.ScanForDevices(5 * time.Second)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, d := range devices {
//	    fmt.Println(d)
//	}
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Devices must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
package discovery
