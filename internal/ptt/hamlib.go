package ptt

import (
	"context"
	"fmt"

	"github.com/xylo04/goHamlib"
)

// hamlibKeyer issues rig PTT-on/PTT-off commands, the Go-native
// equivalent of src/ptt.go's cgo hamlib section (rig_open, rig_set_ptt
// against a hamlib_port_t), minus the "mid-stage porting" disablement
// the teacher left in place — this is the real feature get its home.
type hamlibKeyer struct {
	rig *goHamlib.Rig
}

func newHamlibKeyer(model int, device string) (Keyer, error) {
	rig := &goHamlib.Rig{}
	if err := rig.Init(model); err != nil {
		return nil, fmt.Errorf("ptt: hamlib init model %d: %w", model, err)
	}
	rig.SetConf("rig_pathname", device)
	if err := rig.Open(); err != nil {
		return nil, fmt.Errorf("ptt: hamlib open %s: %w", device, err)
	}
	return &hamlibKeyer{rig: rig}, nil
}

func (k *hamlibKeyer) Key(ctx context.Context) error {
	return k.rig.SetPTT(goHamlib.RIG_VFO_CURR, goHamlib.RIG_PTT_ON)
}

func (k *hamlibKeyer) Unkey(ctx context.Context) error {
	return k.rig.SetPTT(goHamlib.RIG_VFO_CURR, goHamlib.RIG_PTT_OFF)
}

func (k *hamlibKeyer) Close() error {
	return k.rig.Close()
}
