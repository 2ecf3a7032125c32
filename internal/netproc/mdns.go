package netproc

import (
	"fmt"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/slhttpd/internal/firmware"
	"github.com/muurk/slhttpd/internal/logging"
)

// ServiceDomain is the mDNS domain the processor advertises in.
const ServiceDomain = "local."

// advertiser is a running mDNS advertisement.
type advertiser interface {
	Shutdown()
}

// TXTRecords returns the TXT records advertised for s.
func TXTRecords(s Settings) []string {
	return []string{
		"path=/",
		"srcvers=slhttpd",
		fmt.Sprintf("rom=%t", s.ROMPages),
	}
}

func advertise(s Settings, port int) (advertiser, error) {
	srv, err := zeroconf.Register(s.Hostname, firmware.DefaultServiceType, ServiceDomain, port, TXTRecords(s), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register mDNS service: %w", err)
	}

	logging.Info("mDNS service registered",
		zap.String("instance", s.Hostname),
		zap.String("service", firmware.DefaultServiceType),
		zap.Int("port", port),
	)
	return srv, nil
}
