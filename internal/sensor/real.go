//go:build linux

package sensor

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// I2C_SLAVE ioctl from linux/i2c-dev.h; x/sys/unix does not define it.
const i2cSlave = 0x0703

// I2CBus talks to the sensor over the Linux I2C character device.
type I2CBus struct {
	f *os.File
}

// OpenI2C opens /dev/i2c-<busNum> and binds it to the sensor address.
func OpenI2C(busNum int, addr byte) (*I2CBus, error) {
	path := fmt.Sprintf("/dev/i2c-%d", busNum)
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if err := unix.IoctlSetInt(int(f.Fd()), i2cSlave, int(addr)); err != nil {
		f.Close()
		return nil, fmt.Errorf("bind i2c address 0x%02X: %w", addr, err)
	}
	return &I2CBus{f: f}, nil
}

// ReadRegister writes the register pointer then reads one byte back.
func (b *I2CBus) ReadRegister(reg byte) (byte, error) {
	if _, err := b.f.Write([]byte{reg}); err != nil {
		return 0, fmt.Errorf("select register 0x%02X: %w", reg, err)
	}
	buf := make([]byte, 1)
	if _, err := b.f.Read(buf); err != nil {
		return 0, fmt.Errorf("read register 0x%02X: %w", reg, err)
	}
	return buf[0], nil
}

// WriteRegister writes the register pointer and value in one transaction.
func (b *I2CBus) WriteRegister(reg, value byte) error {
	if _, err := b.f.Write([]byte{reg, value}); err != nil {
		return fmt.Errorf("write register 0x%02X: %w", reg, err)
	}
	return nil
}

// Close releases the bus file descriptor.
func (b *I2CBus) Close() error {
	return b.f.Close()
}
