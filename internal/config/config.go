// Package config loads modem parameters, the preset table, and PTT
// policy settings from an optional YAML file, falling back to an
// embedded default. Grounded on src/deviceid.go's tocalls.yaml
// loading pattern (yaml.Unmarshal over a struct with yaml tags);
// repurposed here from APRS device-identifier tables to modem
// parameter/preset configuration.
package config

import (
	"embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/n7mf/soundmodem/internal/modem"
	"github.com/n7mf/soundmodem/internal/ptt"
)

//go:embed default.yaml
var embeddedFS embed.FS

// PresetConfig is the YAML-shaped form of one row of the §6 preset
// table, keyed by name so operators can add presets without
// recompiling.
type PresetConfig struct {
	Name          string `yaml:"name"`
	FreqDeltaBins int    `yaml:"freq_delta_bins"`
	FreqStartBin  int    `yaml:"freq_start_bin"`
	FramesPerTx   int    `yaml:"frames_per_tx"`
	BytesPerTx    int    `yaml:"bytes_per_tx"`
	Volume        int    `yaml:"volume"`
}

// PTTConfig is the YAML form of the deferred-apply PTT policy.
type PTTConfig struct {
	Policy    string `yaml:"policy"` // "none", "gpio", "hamlib"
	GPIOChip  string `yaml:"gpio_chip"`
	GPIOLine  int    `yaml:"gpio_line"`
	RigModel  int    `yaml:"rig_model"`
	RigDevice string `yaml:"rig_device"`
}

// Config is the full loaded configuration: default modem parameters,
// the named preset table, the default tx mode, and PTT settings.
type Config struct {
	SampleRateIn    float64        `yaml:"sample_rate_in"`
	SampleRateOut   float64        `yaml:"sample_rate_out"`
	SamplesPerFrame int            `yaml:"samples_per_frame"`
	EccBytesPerTx   int            `yaml:"ecc_bytes_per_tx"`
	TxMode          string         `yaml:"tx_mode"` // "fixed" or "variable"
	DefaultPreset   string         `yaml:"default_preset"`
	Presets         []PresetConfig `yaml:"presets"`
	PTT             PTTConfig      `yaml:"ptt"`
}

// Default returns the embedded default configuration, matching the §6
// preset table exactly.
func Default() (Config, error) {
	data, err := embeddedFS.ReadFile("default.yaml")
	if err != nil {
		return Config{}, fmt.Errorf("config: reading embedded default: %w", err)
	}
	return parse(data)
}

// Load reads a YAML config file from disk. A malformed file is
// ConfigLoadFailed territory (§7): fatal at startup, same tier as
// AudioDeviceOpenFailed.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	return parse(data)
}

func parse(data []byte) (Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("config: parsing YAML: %w", err)
	}
	return c, nil
}

// Preset looks up a named preset row, falling back to the built-in
// Fast preset (matching modem.ParsePreset's out-of-range default) if
// the name is absent.
func (c Config) Preset(name string) PresetConfig {
	for _, p := range c.Presets {
		if p.Name == name {
			return p
		}
	}
	for _, p := range c.Presets {
		if p.Name == "fast" {
			return p
		}
	}
	return PresetConfig{FreqDeltaBins: 1, FreqStartBin: 40, FramesPerTx: 6, BytesPerTx: 3, Volume: 50}
}

// Parameters builds a modem.Parameters from the config's defaults and
// a selected preset name.
func (c Config) Parameters(presetName string) modem.Parameters {
	row := c.Preset(presetName)
	mode := modem.FixedLength
	if c.TxMode == "variable" {
		mode = modem.VariableLength
	}
	return modem.Parameters{
		SampleRateIn:    c.SampleRateIn,
		SampleRateOut:   c.SampleRateOut,
		SamplesPerFrame: c.SamplesPerFrame,
		FreqStartBin:    row.FreqStartBin,
		FreqDeltaBins:   row.FreqDeltaBins,
		FramesPerTx:     row.FramesPerTx,
		BytesPerTx:      row.BytesPerTx,
		EccBytesPerTx:   c.EccBytesPerTx,
		Volume:          row.Volume,
		TxMode:          mode,
	}
}

// PTTPolicy builds a ptt.Policy from the config's PTT section.
func (c Config) PTTPolicy() ptt.Policy {
	switch c.PTT.Policy {
	case "gpio":
		return ptt.Policy{
			Kind:     ptt.GPIO,
			GPIOChip: c.PTT.GPIOChip,
			GPIOLine: c.PTT.GPIOLine,
		}
	case "hamlib":
		return ptt.Policy{
			Kind:      ptt.Hamlib,
			RigModel:  c.PTT.RigModel,
			RigDevice: c.PTT.RigDevice,
		}
	default:
		return ptt.Policy{Kind: ptt.None}
	}
}
