package sensor

// RegisterWrite records one WriteRegister call.
type RegisterWrite struct {
	Reg   byte
	Value byte
}

// FakeBus is a test double that serves register values from a map and
// records writes.
type FakeBus struct {
	// Registers maps register address to current value. Writes update it,
	// so read-modify-write sequences behave like hardware.
	Registers map[byte]byte

	// Writes records every WriteRegister call in order.
	Writes []RegisterWrite

	// ReadError, if set, is returned by ReadRegister.
	ReadError error

	// WriteError, if set, is returned by WriteRegister.
	WriteError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeBus creates a FakeBus with the given initial register values.
func NewFakeBus(registers map[byte]byte) *FakeBus {
	if registers == nil {
		registers = map[byte]byte{}
	}
	return &FakeBus{Registers: registers}
}

// ReadRegister returns the scripted value for reg (zero if unset).
func (f *FakeBus) ReadRegister(reg byte) (byte, error) {
	if f.ReadError != nil {
		return 0, f.ReadError
	}
	return f.Registers[reg], nil
}

// WriteRegister records the write and updates the register map.
func (f *FakeBus) WriteRegister(reg, value byte) error {
	if f.WriteError != nil {
		return f.WriteError
	}
	f.Writes = append(f.Writes, RegisterWrite{Reg: reg, Value: value})
	f.Registers[reg] = value
	return nil
}

// Close marks the bus as closed.
func (f *FakeBus) Close() error {
	f.Closed = true
	return nil
}
