// Package sensor provides register-level access to the AS3935 lightning
// sensor with hardware abstraction. The real implementation uses the Linux
// I2C character device; the fake allows testing without hardware.
package sensor

// Bus performs raw register transactions with the sensor.
type Bus interface {
	// ReadRegister returns the value of one 8-bit register.
	ReadRegister(reg byte) (byte, error)

	// WriteRegister sets one 8-bit register.
	WriteRegister(reg, value byte) error

	// Close releases the bus.
	Close() error
}

// Registers is the AS3935 register map. Configurable because breakout boards
// occasionally remap, but the defaults match the datasheet.
type Registers struct {
	Reset             byte // direct command register: write ResetCmd to restore presets
	ResetCmd          byte
	NoiseFloor        byte // low 3 bits of this register
	Watchdog          byte // high nibble of this register
	Interrupt         byte
	Distance          byte
	SpikeRejection    byte
	FrequencyDivision byte
}

// DefaultRegisters returns the datasheet register map.
func DefaultRegisters() Registers {
	return Registers{
		Reset:             0x3C,
		ResetCmd:          0x96,
		NoiseFloor:        0x01,
		Watchdog:          0x01,
		Interrupt:         0x03,
		Distance:          0x07,
		SpikeRejection:    0x02,
		FrequencyDivision: 0x02,
	}
}

// DefaultAddress is the usual I2C address of AS3935 breakout boards.
const DefaultAddress = 0x03
