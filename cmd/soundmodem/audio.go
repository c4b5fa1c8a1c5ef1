package main

import (
	"fmt"

	"github.com/gordonklaus/portaudio"

	"github.com/n7mf/soundmodem/internal/modem"
)

// audioIO is the concrete external collaborator spec.md §1 calls out
// of core scope: two mono PCM byte streams bound to PortAudio's
// callback-free blocking Read/Write, matching §6's audio I/O
// contracts (int16 out at SampleRateOut, float32 in at SampleRateIn).
type audioIO struct {
	out    *portaudio.Stream
	outBuf []int16

	in    *portaudio.Stream
	inBuf []float32
}

func openAudioIO(p modem.Parameters, captureIdx, playbackIdx int) (*audioIO, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("enumerating audio devices: %w", err)
	}

	outDev, err := pickDevice(devices, playbackIdx, true)
	if err != nil {
		return nil, err
	}
	inDev, err := pickDevice(devices, captureIdx, false)
	if err != nil {
		return nil, err
	}

	a := &audioIO{
		outBuf: make([]int16, p.SamplesPerFrameOut()),
		inBuf:  make([]float32, p.SamplesPerFrame),
	}

	outParams := portaudio.StreamParameters{
		Output: portaudio.StreamDeviceParameters{
			Device:   outDev,
			Channels: 1,
			Latency:  outDev.DefaultLowOutputLatency,
		},
		SampleRate:      p.SampleRateOut,
		FramesPerBuffer: len(a.outBuf),
	}
	outStream, err := portaudio.OpenStream(outParams, &a.outBuf)
	if err != nil {
		return nil, fmt.Errorf("opening playback stream: %w", err)
	}
	a.out = outStream

	inParams := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   inDev,
			Channels: 1,
			Latency:  inDev.DefaultLowInputLatency,
		},
		SampleRate:      p.SampleRateIn,
		FramesPerBuffer: len(a.inBuf),
	}
	inStream, err := portaudio.OpenStream(inParams, &a.inBuf)
	if err != nil {
		outStream.Close()
		return nil, fmt.Errorf("opening capture stream: %w", err)
	}
	a.in = inStream

	if err := a.out.Start(); err != nil {
		a.Close()
		return nil, fmt.Errorf("starting playback stream: %w", err)
	}
	if err := a.in.Start(); err != nil {
		a.Close()
		return nil, fmt.Errorf("starting capture stream: %w", err)
	}

	return a, nil
}

func pickDevice(devices []*portaudio.DeviceInfo, idx int, output bool) (*portaudio.DeviceInfo, error) {
	if idx >= 0 {
		if idx >= len(devices) {
			return nil, fmt.Errorf("device index %d out of range", idx)
		}
		return devices[idx], nil
	}
	if output {
		return portaudio.DefaultOutputDevice()
	}
	return portaudio.DefaultInputDevice()
}

// Write pushes a whole transmission burst to the playback sink,
// chunked into FramesPerBuffer-sized writes (§6: "writes whole
// transmissions atomically" from the modem's perspective — capture is
// paused for the whole call via Controller.CaptureAllowed).
func (a *audioIO) Write(pcm []int16) error {
	for off := 0; off < len(pcm); off += len(a.outBuf) {
		end := off + len(a.outBuf)
		if end > len(pcm) {
			end = len(pcm)
		}
		n := copy(a.outBuf, pcm[off:end])
		for i := n; i < len(a.outBuf); i++ {
			a.outBuf[i] = 0
		}
		if err := a.out.Write(); err != nil {
			return fmt.Errorf("writing playback buffer: %w", err)
		}
	}
	return nil
}

// ReadCapture blocks for one capture frame and copies it into dst,
// which must be exactly SamplesPerFrame long.
func (a *audioIO) ReadCapture(dst []float32) (int, error) {
	if err := a.in.Read(); err != nil {
		return 0, fmt.Errorf("reading capture buffer: %w", err)
	}
	return copy(dst, a.inBuf), nil
}

func (a *audioIO) Close() error {
	if a.out != nil {
		a.out.Close()
	}
	if a.in != nil {
		a.in.Close()
	}
	return nil
}
