package registry

import (
	"context"
	"fmt"
	"time"

	"github.com/grandcat/zeroconf"
)

const serviceType = "_transport-link._tcp"

// Advertise publishes every entry in r via mDNS so LAN tooling can discover
// configured boards without a shared config file. port is the service port
// to advertise alongside each entry (typically the transport-cli's own
// diagnostic port, not the serial device itself).
func (r *Registry) Advertise(ctx context.Context, port int) (func(), error) {
	servers := make([]*zeroconf.Server, 0, len(r.entries))
	for name, e := range r.entries {
		meta := []string{
			"device_path=" + e.DevicePath,
			fmt.Sprintf("baud_rate=%d", e.BaudRate),
		}
		srv, err := zeroconf.Register(name, serviceType, "local.", port, meta, nil)
		if err != nil {
			for _, s := range servers {
				s.Shutdown()
			}
			return nil, fmt.Errorf("registry: mdns register %q: %w", name, err)
		}
		servers = append(servers, srv)
	}

	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		for _, s := range servers {
			s.Shutdown()
		}
	}()

	return func() {
		close(done)
		time.Sleep(50 * time.Millisecond)
	}, nil
}
