// Command soundmodem is the CLI host that wires the acoustic modem
// core (internal/modem) to a real PortAudio capture/playback pair, an
// optional PTT backend, device-presence watching, and an optional mDNS
// status beacon. It implements the control surface and preset table
// of spec.md §6.
//
// Flag parsing follows the teacher's atest.go/kissserial.go use of
// github.com/spf13/pflag; raw-mode interactive console input follows
// src/serial_port.go's github.com/pkg/term.Open(name, term.RawMode)
// pattern, applied here to the controlling terminal instead of a
// serial device.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gordonklaus/portaudio"
	"github.com/pkg/term"
	"github.com/spf13/pflag"

	"github.com/n7mf/soundmodem/internal/config"
	"github.com/n7mf/soundmodem/internal/device"
	"github.com/n7mf/soundmodem/internal/logx"
	"github.com/n7mf/soundmodem/internal/modem"
	"github.com/n7mf/soundmodem/internal/ptt"
	"github.com/n7mf/soundmodem/internal/status"
)

func main() {
	var (
		captureDevice  = pflag.IntP("capture", "c", -1, "Capture device index (-1 = system default).")
		playbackDevice = pflag.IntP("playback", "p", -1, "Playback device index (-1 = system default).")
		presetFlag     = pflag.IntP("preset", "t", 1, "Preset: 0=Normal, 1=Fast, 2=Fastest, 3=Ultrasonic.")
		configPath     = pflag.StringP("config", "b", "", "Optional YAML config file (defaults embedded).")
		variableMode   = pflag.Bool("variable", false, "Use VariableLength framing instead of FixedLength.")
		pttPolicy      = pflag.String("ptt", "none", "PTT backend: none, gpio, hamlib.")
		pttGPIOChip    = pflag.String("ptt-gpio-chip", "gpiochip0", "GPIO chip for --ptt=gpio.")
		pttGPIOLine    = pflag.Int("ptt-gpio-line", 17, "GPIO line offset for --ptt=gpio.")
		pttRigModel    = pflag.Int("ptt-rig-model", 1, "Hamlib rig model number for --ptt=hamlib.")
		pttRigDevice   = pflag.String("ptt-rig-device", "/dev/ttyUSB0", "Rig control device for --ptt=hamlib.")
		beacon         = pflag.Bool("beacon", false, "Enable the mDNS status beacon.")
		logLevel       = pflag.String("log-level", "info", "Log level: debug, info, warn, error.")
		sendText       = pflag.StringP("send", "s", "", "Send this text once, then exit.")
	)
	pflag.Parse()

	log := logx.New(logx.ParseLevel(*logLevel))

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Error("config load failed", "err", err)
		os.Exit(1)
	}

	preset := modem.ParsePreset(*presetFlag)
	params := cfg.Parameters(preset.String())
	if *variableMode {
		params.TxMode = modem.VariableLength
	}

	controller, err := modem.NewController(params)
	if err != nil {
		log.Error("modem init failed", "err", err)
		os.Exit(1)
	}

	pttCfg := cfg.PTTPolicy()
	if *pttPolicy != "none" {
		pttCfg = ptt.Policy{
			Kind:      pttKindOf(*pttPolicy),
			GPIOChip:  *pttGPIOChip,
			GPIOLine:  *pttGPIOLine,
			RigModel:  *pttRigModel,
			RigDevice: *pttRigDevice,
		}
	}
	keyer, err := ptt.New(pttCfg)
	if err != nil {
		log.Warn("ptt backend unavailable, continuing unkeyed", "err", err)
		keyer, _ = ptt.New(ptt.Policy{Kind: ptt.None})
	}
	controller.SetKeyer(keyer)
	defer keyer.Close()

	if watcher, err := device.New(); err != nil {
		log.Warn("device watcher unavailable", "err", err)
	} else {
		controller.SetPresenceSource(watcher)
		defer watcher.Close()
	}

	var beaconHandle *status.Beacon
	if *beacon {
		beaconHandle, err = status.New("soundmodem", 0, status.Info{
			Preset:     preset.String(),
			SampleRate: int(params.SampleRateIn),
			State:      "idle",
		})
		if err != nil {
			log.Warn("status beacon unavailable", "err", err)
		} else {
			defer beaconHandle.Close()
		}
	}

	if err := portaudio.Initialize(); err != nil {
		log.Error("audio device open failed", "err", err)
		os.Exit(1)
	}
	defer portaudio.Terminate()

	io, err := openAudioIO(params, *captureDevice, *playbackDevice)
	if err != nil {
		log.Error("audio device open failed", "err", err)
		os.Exit(1)
	}
	defer io.Close()

	log.Info("soundmodem ready", "preset", preset.String(), "tx_mode", txModeName(params.TxMode))

	if *sendText != "" {
		truncated, err := controller.SetText(context.Background(), []byte(*sendText), io)
		if err != nil {
			log.Error("transmit failed", "err", err)
			os.Exit(1)
		}
		if truncated {
			log.Warn("payload truncated to 140 bytes")
		}
		return
	}

	runInteractive(controller, io, log, beaconHandle, preset.String(), int(params.SampleRateIn))
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default()
	}
	return config.Load(path)
}

func pttKindOf(s string) ptt.Kind {
	switch s {
	case "gpio":
		return ptt.GPIO
	case "hamlib":
		return ptt.Hamlib
	default:
		return ptt.None
	}
}

func txModeName(m modem.TxMode) string {
	if m == modem.VariableLength {
		return "variable"
	}
	return "fixed"
}

// runInteractive puts the console in raw mode so a line can be
// submitted without waiting on newline buffering, and otherwise drains
// the capture stream into the controller, printing decoded payloads as
// they arrive (§4.6: 'A'/'O' single-byte payloads are acknowledgements
// in FixedLength mode). When beaconHandle is non-nil, its TXT records
// are refreshed whenever the receiver state read after a capture frame
// differs from the previous one (§4.12). ANALYZING begins and ends
// inside a single PushCapture call, so only IDLE and RECORDING are
// ever published.
func runInteractive(c *modem.Controller, io *audioIO, log *logx.Logger, beaconHandle *status.Beacon, preset string, sampleRate int) {
	tty, err := term.Open("/dev/tty", term.RawMode)
	if err != nil {
		log.Warn("raw console mode unavailable, line entry disabled", "err", err)
	} else {
		defer tty.Close()
	}

	frame := make([]float32, c.Params().SamplesPerFrame)
	line := make([]byte, 0, modem.MaxPayloadLength)
	lastState := c.State()

	for {
		if tty != nil {
			readLineNonBlocking(tty, &line, func(text []byte) {
				truncated, err := c.SetText(context.Background(), text, io)
				if err != nil {
					log.Error("transmit failed", "err", err)
					return
				}
				if truncated {
					log.Warn("payload truncated to 140 bytes")
				}
			})
		}

		if !c.CaptureAllowed() {
			time.Sleep(10 * time.Millisecond)
			continue
		}

		n, err := io.ReadCapture(frame)
		if err != nil {
			log.Error("capture read failed", "err", err)
			return
		}
		if n == 0 {
			continue
		}

		floatFrame := make([]float64, len(frame))
		for i, v := range frame {
			floatFrame[i] = float64(v)
		}

		ev, err := c.PushCapture(floatFrame)
		if err != nil {
			log.Debug("capture frame error", "err", err)
			continue
		}
		reportEvent(ev, c.Params(), log)

		if cur := c.State(); beaconHandle != nil && cur != lastState {
			lastState = cur
			info := status.Info{Preset: preset, SampleRate: sampleRate, State: stateName(cur)}
			if uerr := beaconHandle.Update(info); uerr != nil {
				log.Debug("beacon update failed", "err", uerr)
			}
		}
	}
}

// stateName renders a receiver State for the beacon's TXT records.
func stateName(s modem.State) string {
	switch s {
	case modem.StateRecording:
		return "recording"
	case modem.StateAnalyzing:
		return "analyzing"
	default:
		return "idle"
	}
}

func reportEvent(ev modem.Event, p modem.Parameters, log *logx.Logger) {
	switch ev.Status {
	case modem.StatusRecordingStarted:
		log.Debug("start marker detected, recording")
	case modem.StatusAllOffsetsFailed:
		log.Warn("please try again")
	case modem.StatusDecoded:
		printDecoded(ev.Payload, p, log)
	}
}

// printDecoded renders a decoded payload per §4.6: in FixedLength
// mode, single-byte 'A'/'O' payloads are acknowledgements; otherwise
// the text is printed as-is. VariableLength payloads arrive already
// truncated to decoded_length.
func printDecoded(payload []byte, p modem.Parameters, log *logx.Logger) {
	if p.TxMode == modem.FixedLength && len(payload) >= 1 {
		trimmed := trimTrailingZeros(payload)
		if len(trimmed) == 1 {
			switch trimmed[0] {
			case 'A':
				fmt.Println("[ANSWER] Received sound data successfully!")
				return
			case 'O':
				fmt.Println("[OFFER] Received sound data successfully!")
				return
			}
		}
		fmt.Printf("%s\n", trimmed)
		return
	}
	fmt.Printf("%s\n", payload)
}

func trimTrailingZeros(b []byte) []byte {
	i := len(b)
	for i > 0 && b[i-1] == 0 {
		i--
	}
	return b[:i]
}

// readLineNonBlocking accumulates raw bytes from tty into line and
// invokes onLine with the completed text once a carriage return or
// newline is seen. It performs a single non-blocking-ish read attempt
// per call so the caller's capture loop isn't starved.
func readLineNonBlocking(tty *term.Term, line *[]byte, onLine func([]byte)) {
	buf := make([]byte, 64)
	n, err := tty.Read(buf)
	if err != nil || n == 0 {
		return
	}
	for _, b := range buf[:n] {
		switch b {
		case '\r', '\n':
			if len(*line) > 0 {
				onLine(*line)
				*line = (*line)[:0]
			}
		default:
			*line = append(*line, b)
		}
	}
}
