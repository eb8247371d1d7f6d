package storage

import (
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/sdkit/fdisk"
)

// FileDevice is a [StreamDevice] over an image file or block device that was
// opened by this package. It must be closed when no longer needed.
type FileDevice struct {
	*StreamDevice
	file *os.File
}

// OpenFile opens an existing image file or block device for formatting. Block
// devices must use 512-byte logical sectors.
func OpenFile(path string) (*FileDevice, error) {
	file, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fdisk.ErrDeviceUnavailable.Wrap(err)
	}

	size, err := deviceSize(file)
	if err != nil {
		file.Close()
		return nil, fdisk.ErrDeviceUnavailable.Wrap(err)
	}

	totalSectors, err := SectorsInBytes(size)
	if err != nil {
		file.Close()
		return nil, err
	}

	return &FileDevice{
		StreamDevice: NewStreamDevice(file, totalSectors),
		file:         file,
	}, nil
}

// CreateImage creates a zero-filled image file of `totalSectors` sectors at
// `path`, replacing any existing file, and opens it.
func CreateImage(path string, totalSectors uint32) (*FileDevice, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fdisk.ErrDeviceUnavailable.Wrap(err)
	}

	err = file.Truncate(int64(totalSectors) * fdisk.SectorSize)
	if err != nil {
		file.Close()
		return nil, fdisk.ErrDeviceUnavailable.Wrap(err)
	}

	return &FileDevice{
		StreamDevice: NewStreamDevice(file, totalSectors),
		file:         file,
	}, nil
}

// Name returns the path the device was opened with.
func (device *FileDevice) Name() string {
	return device.file.Name()
}

// Close flushes pending writes to stable storage and closes the file. Both
// steps are always attempted, and the errors from either are returned.
func (device *FileDevice) Close() error {
	var result *multierror.Error

	err := device.file.Sync()
	if err != nil {
		result = multierror.Append(result, fdisk.ErrWriteFailed.Wrap(err))
	}

	err = device.file.Close()
	if err != nil {
		result = multierror.Append(result, fdisk.ErrDeviceUnavailable.Wrap(err))
	}
	return result.ErrorOrNil()
}

// seekSize determines the size of a file by seeking to its end, then rewinds.
func seekSize(file *os.File) (int64, error) {
	size, err := file.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, fmt.Errorf("can't seek to end of %s: %w", file.Name(), err)
	}

	_, err = file.Seek(0, io.SeekStart)
	if err != nil {
		return 0, fmt.Errorf("can't rewind %s: %w", file.Name(), err)
	}
	return size, nil
}
