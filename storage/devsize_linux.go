//go:build linux

package storage

import (
	"fmt"
	"os"

	"github.com/sdkit/fdisk"
	"golang.org/x/sys/unix"
)

// deviceSize returns the size of a file or block device in bytes. Seeking to
// the end doesn't work reliably on block devices, so those are asked through
// ioctls instead.
func deviceSize(file *os.File) (int64, error) {
	info, err := file.Stat()
	if err != nil {
		return 0, err
	}
	if info.Mode()&os.ModeDevice == 0 {
		return seekSize(file)
	}

	fd := int(file.Fd())

	logicalSectorSize, err := unix.IoctlGetInt(fd, unix.BLKSSZGET)
	if err != nil {
		return 0, fmt.Errorf("unable to get logical sector size of %s: %w", file.Name(), err)
	}
	if logicalSectorSize != fdisk.SectorSize {
		return 0, fmt.Errorf(
			"%s has %d-byte logical sectors; only %d is supported",
			file.Name(),
			logicalSectorSize,
			fdisk.SectorSize,
		)
	}

	size, err := unix.IoctlGetInt(fd, unix.BLKGETSIZE64)
	if err != nil {
		return 0, fmt.Errorf("unable to get size of block device %s: %w", file.Name(), err)
	}
	return int64(size), nil
}
