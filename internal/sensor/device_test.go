package sensor

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDevice(bus *FakeBus) *Device {
	d := NewDevice(bus, DefaultRegisters())
	d.sleep = func(time.Duration) {} // no real delays in tests
	return d
}

func TestSetupSequence(t *testing.T) {
	bus := NewFakeBus(map[byte]byte{
		0x01: 0xA4, // pre-existing noise floor / watchdog register content
	})
	dev := newTestDevice(bus)

	err := dev.Setup(Tuning{
		NoiseFloor:        2,
		WatchdogThreshold: 3,
		ResetDelay:        100 * time.Millisecond,
	})
	require.NoError(t, err)

	require.Len(t, bus.Writes, 3)

	// Preset reset first.
	assert.Equal(t, RegisterWrite{Reg: 0x3C, Value: 0x96}, bus.Writes[0])

	// Noise floor merged into low 3 bits: 0xA4 & 0xF8 | 2 = 0xA2.
	assert.Equal(t, RegisterWrite{Reg: 0x01, Value: 0xA2}, bus.Writes[1])

	// Watchdog merged into high nibble of the updated register:
	// 0xA2 & 0x0F | 3<<4 = 0x32.
	assert.Equal(t, RegisterWrite{Reg: 0x01, Value: 0x32}, bus.Writes[2])
}

func TestSetupClampsTuningValues(t *testing.T) {
	bus := NewFakeBus(nil)
	dev := newTestDevice(bus)

	// Out-of-range values are masked to field width, matching the hardware.
	err := dev.Setup(Tuning{NoiseFloor: 0xFF, WatchdogThreshold: 0xFF})
	require.NoError(t, err)

	assert.Equal(t, byte(0x07), bus.Writes[1].Value&0x07)
	assert.Equal(t, byte(0xF0), bus.Writes[2].Value&0xF0)
}

func TestSetupOptionalRegisters(t *testing.T) {
	bus := NewFakeBus(nil)
	dev := newTestDevice(bus)

	spike := byte(0x02)
	freq := byte(0x40)
	err := dev.Setup(Tuning{
		NoiseFloor:        2,
		WatchdogThreshold: 2,
		SpikeRejection:    &spike,
		FrequencyDivision: &freq,
	})
	require.NoError(t, err)

	last := bus.Writes[len(bus.Writes)-1]
	assert.Equal(t, RegisterWrite{Reg: 0x02, Value: 0x02}, last)
}

func TestSetupBusError(t *testing.T) {
	bus := NewFakeBus(nil)
	bus.WriteError = errors.New("i2c: remote I/O error")
	dev := newTestDevice(bus)

	err := dev.Setup(Tuning{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sensor reset")
}

func TestReadStatusAndDistance(t *testing.T) {
	bus := NewFakeBus(map[byte]byte{
		0x03: 0x08, // lightning bit
		0x07: 0x0A, // 10 km
	})
	dev := newTestDevice(bus)

	status, err := dev.ReadStatus()
	require.NoError(t, err)
	assert.Equal(t, byte(0x08), status)

	distance, err := dev.ReadDistance()
	require.NoError(t, err)
	assert.Equal(t, byte(0x0A), distance)
}

func TestReadErrorWrapped(t *testing.T) {
	bus := NewFakeBus(nil)
	readErr := errors.New("i2c: timeout")
	bus.ReadError = readErr
	dev := newTestDevice(bus)

	_, err := dev.ReadStatus()
	require.Error(t, err)
	assert.ErrorIs(t, err, readErr)
}

func TestCloseReleasesBus(t *testing.T) {
	bus := NewFakeBus(nil)
	dev := newTestDevice(bus)

	require.NoError(t, dev.Close())
	assert.True(t, bus.Closed)
}
