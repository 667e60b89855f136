//go:build !linux

package sensor

import "errors"

// I2CBus is not available on non-Linux platforms.
type I2CBus struct{}

// OpenI2C returns an error on non-Linux platforms.
func OpenI2C(busNum int, addr byte) (*I2CBus, error) {
	return nil, errors.New("i2c: not supported on this platform (requires Linux)")
}

// ReadRegister is not implemented on non-Linux platforms.
func (b *I2CBus) ReadRegister(reg byte) (byte, error) {
	return 0, errors.New("i2c: not supported")
}

// WriteRegister is not implemented on non-Linux platforms.
func (b *I2CBus) WriteRegister(reg, value byte) error {
	return errors.New("i2c: not supported")
}

// Close is not implemented on non-Linux platforms.
func (b *I2CBus) Close() error {
	return nil
}
