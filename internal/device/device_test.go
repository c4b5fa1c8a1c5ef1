package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestHandleEventTracksSoundSubsystem covers §8: "device presence
// reflects watcher state" without requiring a real udev netlink socket
// (unavailable in a test sandbox) by driving handleEvent directly with
// synthetic add/remove events, the same events New's background
// goroutine would otherwise forward from DeviceChan.
func TestHandleEventTracksSoundSubsystem(t *testing.T) {
	w := &Watcher{}

	w.handleEvent("add", "/devices/pci0000:00/0000:00:1f.3/sound/card0")
	capture, playback := w.Presence()
	assert.True(t, capture)
	assert.True(t, playback)

	w.handleEvent("remove", "/devices/pci0000:00/0000:00:1f.3/sound/card0")
	capture, playback = w.Presence()
	assert.False(t, capture)
	assert.False(t, playback)
}

// TestHandleEventIgnoresNonSoundSubsystem covers the syspath filter: an
// event from an unrelated subsystem never touches presence state.
func TestHandleEventIgnoresNonSoundSubsystem(t *testing.T) {
	w := &Watcher{capturePresent: true, playbackPresent: true}

	w.handleEvent("remove", "/devices/pci0000:00/0000:00:1d.0/usb1")
	capture, playback := w.Presence()
	assert.True(t, capture)
	assert.True(t, playback)
}

// TestCloseWithoutNewIsSafe covers a Watcher built without a
// background monitor (e.g. in a test), which leaves cancel nil.
func TestCloseWithoutNewIsSafe(t *testing.T) {
	w := &Watcher{}
	assert.NoError(t, w.Close())
}
