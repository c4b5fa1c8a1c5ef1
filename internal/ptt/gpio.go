package ptt

import (
	"context"
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// gpioKeyer drives a single GPIO line high to key and low to unkey,
// the Go-native equivalent of src/ptt.go's sysfs/gpiod line toggling
// (see its "new 'gpio' group" era handling), here via the
// character-device gpiocdev API instead of the legacy sysfs one.
type gpioKeyer struct {
	line *gpiocdev.Line
}

func newGPIOKeyer(chip string, offset int) (Keyer, error) {
	if chip == "" {
		chip = "gpiochip0"
	}
	line, err := gpiocdev.RequestLine(chip, offset, gpiocdev.AsOutput(0))
	if err != nil {
		return nil, fmt.Errorf("ptt: opening gpio line %s:%d: %w", chip, offset, err)
	}
	return &gpioKeyer{line: line}, nil
}

func (k *gpioKeyer) Key(ctx context.Context) error {
	return k.line.SetValue(1)
}

func (k *gpioKeyer) Unkey(ctx context.Context) error {
	return k.line.SetValue(0)
}

func (k *gpioKeyer) Close() error {
	return k.line.Close()
}
