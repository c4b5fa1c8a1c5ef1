// Package status advertises a running modem instance over mDNS for
// operator discovery on the LAN, and names session log files.
// Strictly diagnostic, never part of the acoustic protocol itself;
// disabled by default. Grounded on src/dns_sd.go's
// dnssd.Config/NewService/NewResponder shape, here repurposed from
// advertising a KISS-over-TCP port to advertising modem state, and on
// src/xmit.go / src/tq.go's strftime.Format usage for timestamp
// formatting, here applied to log file names instead of received-frame
// timestamp prefixes.
package status

import (
	"context"
	"fmt"
	"time"

	"github.com/brutella/dnssd"
	"github.com/lestrrat-go/strftime"
)

// ServiceType is the mDNS service type this beacon advertises under.
const ServiceType = "_soundmodem._tcp"

// Beacon advertises a running modem instance's preset, sample rate,
// and current controller state as TXT records, refreshed on every
// state transition.
type Beacon struct {
	responder dnssd.Responder
	service   dnssd.Service
	handle    dnssd.ServiceHandle
	name      string
	port      int

	cancel context.CancelFunc
}

// Info is the set of fields advertised in the beacon's TXT records.
type Info struct {
	Preset     string
	SampleRate int
	State      string
}

// New builds and starts advertising a Beacon named name on port
// (a nominal port; the modem itself doesn't listen on it, but dnssd
// requires one). Call Update on every controller state transition and
// Close on shutdown.
func New(name string, port int, info Info) (*Beacon, error) {
	b := &Beacon{name: name, port: port}

	cfg := dnssd.Config{
		Name: name,
		Type: ServiceType,
		Port: port,
		Text: info.txtRecord(),
	}
	sv, err := dnssd.NewService(cfg)
	if err != nil {
		return nil, fmt.Errorf("status: creating service: %w", err)
	}
	b.service = sv

	rp, err := dnssd.NewResponder()
	if err != nil {
		return nil, fmt.Errorf("status: creating responder: %w", err)
	}
	b.responder = rp

	handle, err := rp.Add(sv)
	if err != nil {
		return nil, fmt.Errorf("status: adding service: %w", err)
	}
	b.handle = handle

	ctx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel
	go rp.Respond(ctx) //nolint:errcheck

	return b, nil
}

// Update republishes TXT records reflecting the modem's current state.
func (b *Beacon) Update(info Info) error {
	b.responder.Remove(b.handle)
	cfg := dnssd.Config{
		Name: b.name,
		Type: ServiceType,
		Port: b.port,
		Text: info.txtRecord(),
	}
	sv, err := dnssd.NewService(cfg)
	if err != nil {
		return fmt.Errorf("status: rebuilding service: %w", err)
	}
	handle, err := b.responder.Add(sv)
	if err != nil {
		return fmt.Errorf("status: re-adding service: %w", err)
	}
	b.service = sv
	b.handle = handle
	return nil
}

// Close stops advertising.
func (b *Beacon) Close() error {
	if b.cancel != nil {
		b.cancel()
	}
	b.responder.Remove(b.handle)
	return nil
}

func (i Info) txtRecord() map[string]string {
	return map[string]string{
		"preset":      i.Preset,
		"sample_rate": fmt.Sprintf("%d", i.SampleRate),
		"state":       i.State,
	}
}

// LogFileName formats a session log file name from a strftime pattern
// (e.g. "%Y%m%d-%H%M%S.log") at time t, so operators can correlate a
// beacon sighting with a log file. Callers pass time.Now() in
// production and a fixed time in tests.
func LogFileName(pattern string, t time.Time) (string, error) {
	return strftime.Format(pattern, t)
}
