package modem

import (
	"context"
	"errors"
	"sync"
	"time"
)

// captureSuppressWindow is how long capture stays paused after a
// transmission finishes, so the modem doesn't decode its own echo
// (§5: "suppresses self-reception").
const captureSuppressWindow = 500 * time.Millisecond

// Keyer is the subset of a PTT backend the controller needs: key
// immediately before a transmit burst, unkey immediately after.
// internal/ptt.Keyer satisfies this interface structurally, so the
// core modem package never imports the PTT backend package.
type Keyer interface {
	Key(ctx context.Context) error
	Unkey(ctx context.Context) error
}

// PresenceSource reports capture/playback device presence.
// internal/device.Watcher satisfies this interface structurally.
type PresenceSource interface {
	Presence() (capture, playback bool)
}

// PlaybackSink is the external collaborator a transmission burst is
// written to atomically (§6: "The modem writes whole transmissions
// atomically").
type PlaybackSink interface {
	Write(pcm []int16) error
}

// errNoKeyer is never returned to callers. Key/Unkey failures are
// ignored by SetText and are not logged; the transmission proceeds.
var errNoKeyer = errors.New("modem: no keyer configured")

// Controller is the single owner of all modem state: parameters, the
// active preset, tx mode, the Reed-Solomon codecs (via buildEncodedBuffer),
// and the receiver's IDLE/RECORDING/ANALYZING state. It exposes the §6
// control surface as methods. No shared mutable state with the audio
// I/O side other than the byte streams passed through PlaybackSink and
// PushCapture; a single mutex serializes access, per §5's allowance
// for real-thread implementations.
type Controller struct {
	mu sync.Mutex

	params     Parameters
	pending    Parameters
	needUpdate bool
	preset     Preset

	receiver *Receiver

	keyer    Keyer
	presence PresenceSource

	lastRxPayload []byte
	txFinishedAt  time.Time
	hasTransmitted bool

	loopDurations []time.Duration
	loopDurIdx    int
}

// NewController builds a Controller for the given starting parameters.
func NewController(p Parameters) (*Controller, error) {
	c := &Controller{params: p, pending: p}
	if err := c.reinitLocked(); err != nil {
		return nil, err
	}
	return c, nil
}

// SetKeyer installs the PTT backend used to bracket transmit bursts.
// Passing nil disables keying (equivalent to ptt.Policy{Kind: ptt.None}).
func (c *Controller) SetKeyer(k Keyer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.keyer = k
}

// SetPresenceSource installs the device-presence watcher backing
// DevicePresence.
func (c *Controller) SetPresenceSource(p PresenceSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.presence = p
}

// SetParameters stages a parameter change, applied at the next Reinit
// (§6: "deferred until next init"). The ecc_reserved argument is kept
// for signature parity with the control surface of §6 but only takes
// effect in FixedLength mode (VariableLength derives its ecc length
// from the payload length, per §3).
func (c *Controller) SetParameters(freqDeltaBins, freqStartBin, framesPerTx, bytesPerTx, eccReserved, volume int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending.FreqDeltaBins = freqDeltaBins
	c.pending.FreqStartBin = freqStartBin
	c.pending.FramesPerTx = framesPerTx
	c.pending.BytesPerTx = bytesPerTx
	c.pending.EccBytesPerTx = eccReserved
	c.pending.Volume = volume
	c.needUpdate = true
}

// SetTxMode stages a transmission-layout change, applied at the next
// Reinit.
func (c *Controller) SetTxMode(mode TxMode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending.TxMode = mode
	c.needUpdate = true
}

// SetPreset stages a full preset swap, applied at the next Reinit.
func (c *Controller) SetPreset(preset Preset) {
	c.mu.Lock()
	defer c.mu.Unlock()
	row := PresetParameters(preset)
	c.pending.FreqStartBin = row.FreqStartBin
	c.pending.FreqDeltaBins = row.FreqDeltaBins
	c.pending.FramesPerTx = row.FramesPerTx
	c.pending.BytesPerTx = row.BytesPerTx
	c.pending.Volume = row.Volume
	c.preset = preset
	c.needUpdate = true
}

// Reinit applies any staged parameter change: rebuilds the receiver's
// tone tables and resets state to IDLE. A pending transmission always
// completes first; SetText is synchronous, so there is never a
// transmission in flight when Reinit runs.
func (c *Controller) Reinit() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reinitLocked()
}

func (c *Controller) reinitLocked() error {
	c.params = c.pending
	rx, err := NewReceiver(c.params)
	if err != nil {
		return err
	}
	c.receiver = rx
	c.needUpdate = false
	return nil
}

// SetText submits payload for transmission: keys PTT, synthesizes the
// full burst, writes it to sink atomically, then unkeys. An empty
// payload reinitializes the controller for receive-only operation
// instead of transmitting (§6).
func (c *Controller) SetText(ctx context.Context, payload []byte, sink PlaybackSink) (truncated bool, err error) {
	c.mu.Lock()
	if len(payload) == 0 {
		err := c.reinitLocked()
		c.mu.Unlock()
		return false, err
	}
	params := c.params
	keyer := c.keyer
	c.mu.Unlock()

	if keyer != nil {
		if kerr := keyer.Key(ctx); kerr != nil {
			// PTTKeyFailed (§7): never fatal; the error is dropped here and
			// does not reach the caller.
			_ = kerr
		}
	}

	result, txErr := Transmit(payload, params)
	if txErr != nil && !errors.Is(txErr, ErrPayloadTruncated) {
		if keyer != nil {
			_ = keyer.Unkey(ctx)
		}
		return false, txErr
	}

	writeErr := sink.Write(result.PCM)

	if keyer != nil {
		_ = keyer.Unkey(ctx)
	}

	c.mu.Lock()
	c.txFinishedAt = time.Now()
	c.hasTransmitted = true
	c.mu.Unlock()

	if writeErr != nil {
		return result.Truncated, writeErr
	}
	return result.Truncated, nil
}

// CaptureAllowed reports whether the capture side should currently be
// drained into PushCapture: the playback queue must be drained and at
// least 500ms must have elapsed since the last transmission (§5, §4.6).
func (c *Controller) CaptureAllowed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.hasTransmitted {
		return true
	}
	return time.Since(c.txFinishedAt) >= captureSuppressWindow
}

// PushCapture feeds one capture frame through the receiver state
// machine, recording the elapsed wall-clock time for
// AverageReceiveLoopTime. Returns a zero Event without processing if
// capture is currently suppressed (CaptureAllowed() == false).
func (c *Controller) PushCapture(frame []float64) (Event, error) {
	c.mu.Lock()
	if !c.captureAllowedLocked() {
		c.mu.Unlock()
		return Event{}, nil
	}
	rx := c.receiver
	c.mu.Unlock()

	start := time.Now()
	ev, err := rx.PushFrame(frame)
	elapsed := time.Since(start)

	c.mu.Lock()
	c.recordLoopDuration(elapsed)
	if ev.Status == StatusDecoded {
		c.lastRxPayload = ev.Payload
	}
	c.mu.Unlock()

	return ev, err
}

func (c *Controller) captureAllowedLocked() bool {
	if !c.hasTransmitted {
		return true
	}
	return time.Since(c.txFinishedAt) >= captureSuppressWindow
}

func (c *Controller) recordLoopDuration(d time.Duration) {
	const window = 64
	if c.loopDurations == nil {
		c.loopDurations = make([]time.Duration, 0, window)
	}
	if len(c.loopDurations) < window {
		c.loopDurations = append(c.loopDurations, d)
	} else {
		c.loopDurations[c.loopDurIdx%window] = d
	}
	c.loopDurIdx++
}

// GetRxData returns the most recently decoded payload, or nil if
// nothing has been decoded yet.
func (c *Controller) GetRxData() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastRxPayload
}

// SampleRate returns the capture-side sample rate in effect.
func (c *Controller) SampleRate() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.params.SampleRateIn
}

// AverageReceiveLoopTime returns the mean wall-clock time the last
// (up to 64) PushCapture calls that actually ran the state machine
// took.
func (c *Controller) AverageReceiveLoopTime() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.loopDurations) == 0 {
		return 0
	}
	var total time.Duration
	for _, d := range c.loopDurations {
		total += d
	}
	return total / time.Duration(len(c.loopDurations))
}

// FramesRemaining returns how many more capture frames the receiver
// needs before it leaves RECORDING, or 0 outside that state.
func (c *Controller) FramesRemaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.receiver == nil || c.receiver.state != StateRecording {
		return 0
	}
	return c.receiver.recordFramesRemaining
}

// State returns the receiver's current IDLE/RECORDING/ANALYZING phase.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.receiver == nil {
		return StateIdle
	}
	return c.receiver.state
}

// DevicePresence reports capture/playback device presence via the
// installed PresenceSource, or (true, true) if none is installed.
func (c *Controller) DevicePresence() (capture, playback bool) {
	c.mu.Lock()
	src := c.presence
	c.mu.Unlock()
	if src == nil {
		return true, true
	}
	return src.Presence()
}

// Params returns a copy of the currently active (not staged) parameters.
func (c *Controller) Params() Parameters {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.params
}
