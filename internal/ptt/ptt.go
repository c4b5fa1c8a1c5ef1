// Package ptt keys and unkeys an external transmitter around a burst,
// the acoustic-modem analogue of src/ptt.go's serial RTS/DTR, GPIO,
// and hamlib rig-control PTT backends. Non-goals still exclude any
// protocol-level multi-radio addressing; a Keyer is a dumb on/off line.
package ptt

import "context"

// Kind selects which Keyer backend a Policy configures.
type Kind int

const (
	// None keys nothing; the modem relies on VOX or a
	// permanently-keyed PA. Default.
	None Kind = iota
	// GPIO drives a single GPIO line via go-gpiocdev.
	GPIO
	// Hamlib issues rig PTT-on/PTT-off commands via goHamlib.
	Hamlib
)

// Policy is the PTT configuration read from internal/config or the
// CLI flags. New turns it into a Keyer, which takes effect as soon as
// it is installed with the controller's SetKeyer; Reinit does not
// touch it.
type Policy struct {
	Kind Kind

	GPIOChip string
	GPIOLine int

	RigModel  int
	RigDevice string
}

// Keyer keys an external transmitter immediately before a burst is
// synthesized and unkeys it immediately after the burst is pushed to
// the playback sink (§5: keying brackets the burst, never the whole
// session).
type Keyer interface {
	Key(ctx context.Context) error
	Unkey(ctx context.Context) error
	Close() error
}

// New builds the Keyer a Policy selects. A failure to open the
// backend (e.g. the GPIO chip or rig device isn't present) is returned
// as an error with a nil Keyer; New itself does not fall back.
// cmd/soundmodem logs that error and continues with a None-policy
// (no-op) Keyer.
func New(p Policy) (Keyer, error) {
	switch p.Kind {
	case GPIO:
		return newGPIOKeyer(p.GPIOChip, p.GPIOLine)
	case Hamlib:
		return newHamlibKeyer(p.RigModel, p.RigDevice)
	default:
		return noopKeyer{}, nil
	}
}

type noopKeyer struct{}

func (noopKeyer) Key(ctx context.Context) error   { return nil }
func (noopKeyer) Unkey(ctx context.Context) error { return nil }
func (noopKeyer) Close() error                    { return nil }
