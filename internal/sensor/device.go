package sensor

import (
	"fmt"
	"log/slog"
	"time"
)

// Tuning holds the sensor calibration values applied at startup.
type Tuning struct {
	// NoiseFloor is the noise floor level, 0-7.
	NoiseFloor byte
	// WatchdogThreshold is the signal verification threshold, 0-15.
	WatchdogThreshold byte
	// SpikeRejection, if non-nil, is written to the spike rejection register.
	SpikeRejection *byte
	// FrequencyDivision, if non-nil, is written to the antenna frequency
	// division register.
	FrequencyDivision *byte
	// ResetDelay is the pause after the preset-reset command before further
	// register writes.
	ResetDelay time.Duration
}

// Device wraps a Bus with typed AS3935 operations.
type Device struct {
	bus  Bus
	regs Registers

	// sleep is injectable so Setup can be tested without real delays.
	sleep func(time.Duration)
}

// NewDevice creates a Device using the given bus and register map.
func NewDevice(bus Bus, regs Registers) *Device {
	return &Device{bus: bus, regs: regs, sleep: time.Sleep}
}

// Setup resets the sensor to factory presets and applies the tuning values.
// Mirrors the vendor-documented init sequence: preset reset, settle, then
// read-modify-write of the shared tuning registers.
func (d *Device) Setup(t Tuning) error {
	if err := d.bus.WriteRegister(d.regs.Reset, d.regs.ResetCmd); err != nil {
		return fmt.Errorf("sensor reset: %w", err)
	}
	if t.ResetDelay > 0 {
		d.sleep(t.ResetDelay)
	}

	// Noise floor lives in the low 3 bits; preserve the rest of the register.
	nf := t.NoiseFloor & 0x07
	reg, err := d.bus.ReadRegister(d.regs.NoiseFloor)
	if err != nil {
		return fmt.Errorf("read noise floor register: %w", err)
	}
	if err := d.bus.WriteRegister(d.regs.NoiseFloor, (reg&0xF8)|nf); err != nil {
		return fmt.Errorf("set noise floor: %w", err)
	}

	// Watchdog threshold lives in the high nibble.
	wd := t.WatchdogThreshold & 0x0F
	reg, err = d.bus.ReadRegister(d.regs.Watchdog)
	if err != nil {
		return fmt.Errorf("read watchdog register: %w", err)
	}
	if err := d.bus.WriteRegister(d.regs.Watchdog, (reg&0x0F)|(wd<<4)); err != nil {
		return fmt.Errorf("set watchdog threshold: %w", err)
	}

	if t.FrequencyDivision != nil {
		if err := d.bus.WriteRegister(d.regs.FrequencyDivision, *t.FrequencyDivision); err != nil {
			return fmt.Errorf("set frequency division: %w", err)
		}
	}
	if t.SpikeRejection != nil {
		if err := d.bus.WriteRegister(d.regs.SpikeRejection, *t.SpikeRejection); err != nil {
			return fmt.Errorf("set spike rejection: %w", err)
		}
	}

	slog.Info("sensor initialized",
		"noise_floor", nf, "watchdog_threshold", wd)
	return nil
}

// ReadStatus returns the interrupt status register.
func (d *Device) ReadStatus() (byte, error) {
	v, err := d.bus.ReadRegister(d.regs.Interrupt)
	if err != nil {
		return 0, fmt.Errorf("read interrupt register: %w", err)
	}
	return v, nil
}

// ReadDistance returns the raw distance estimation register.
func (d *Device) ReadDistance() (byte, error) {
	v, err := d.bus.ReadRegister(d.regs.Distance)
	if err != nil {
		return 0, fmt.Errorf("read distance register: %w", err)
	}
	return v, nil
}

// Close releases the underlying bus.
func (d *Device) Close() error {
	return d.bus.Close()
}
