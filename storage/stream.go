// Package storage provides [fdisk.Device] implementations: one over any
// seekable stream (image files and block devices), and one held entirely in
// memory for tests and dry runs.
package storage

import (
	"fmt"
	"io"
	"math"

	"github.com/sdkit/fdisk"
)

// eraseChunkSectors is how many zeroed sectors are written per call when
// erasing a range: 1 MiB at a time.
const eraseChunkSectors = 2048

// StreamDevice makes a seekable byte stream look like a device made of 512-byte
// sectors. Sector 0 is at offset 0 of the stream.
type StreamDevice struct {
	stream       io.ReadWriteSeeker
	totalSectors uint32
	buffer       [fdisk.SectorSize]byte
	zeroes       []byte
}

// NewStreamDevice wraps `stream`, which is assumed to hold `totalSectors`
// sectors. The stream isn't checked or resized.
func NewStreamDevice(stream io.ReadWriteSeeker, totalSectors uint32) *StreamDevice {
	return &StreamDevice{
		stream:       stream,
		totalSectors: totalSectors,
	}
}

// WrapStream creates a [StreamDevice] sized to the current length of `stream`.
// A trailing partial sector is ignored.
func WrapStream(stream io.ReadWriteSeeker) (*StreamDevice, error) {
	size, err := stream.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fdisk.ErrDeviceUnavailable.Wrap(err)
	}

	totalSectors, err := SectorsInBytes(size)
	if err != nil {
		return nil, err
	}
	return NewStreamDevice(stream, totalSectors), nil
}

// SectorsInBytes gives the number of whole sectors in `size` bytes. It fails
// with [fdisk.ErrDeviceUnavailable] if that doesn't fit in 32 bits, since no
// FAT32 layout can address it.
func SectorsInBytes(size int64) (uint32, error) {
	if size < 0 {
		return 0, fdisk.ErrDeviceUnavailable.WithMessage(
			fmt.Sprintf("device reported a negative size: %d", size))
	}

	sectors := size / fdisk.SectorSize
	if sectors > math.MaxUint32 {
		return 0, fdisk.ErrDeviceUnavailable.WithMessage(
			fmt.Sprintf(
				"device has %d sectors, more than the %d a 32-bit sector number can address",
				sectors,
				uint32(math.MaxUint32),
			),
		)
	}
	return uint32(sectors), nil
}

func (device *StreamDevice) SectorCount() (uint32, error) {
	return device.totalSectors, nil
}

// SectorBuffer returns the device's staging buffer. Sectors can be built in
// it and passed straight to [StreamDevice.WriteSector].
func (device *StreamDevice) SectorBuffer() []byte {
	return device.buffer[:]
}

// checkBounds verifies that sectors [first, first + count) all exist.
func (device *StreamDevice) checkBounds(first uint32, count uint64) error {
	if uint64(first)+count > uint64(device.totalSectors) {
		return fdisk.ErrOutOfRange.WithMessage(
			fmt.Sprintf(
				"sectors %d through %d not in range [0, %d)",
				first,
				uint64(first)+count-1,
				device.totalSectors,
			),
		)
	}
	return nil
}

// seekToSector positions the stream at the first byte of a sector.
func (device *StreamDevice) seekToSector(index uint32) error {
	_, err := device.stream.Seek(int64(index)*fdisk.SectorSize, io.SeekStart)
	return err
}

// ReadSector fills `buffer` with the contents of the sector at `index`.
func (device *StreamDevice) ReadSector(index uint32, buffer []byte) error {
	if len(buffer) != fdisk.SectorSize {
		return fdisk.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("buffer must be %d bytes, got %d", fdisk.SectorSize, len(buffer)))
	}

	err := device.checkBounds(index, 1)
	if err != nil {
		return err
	}

	err = device.seekToSector(index)
	if err != nil {
		return err
	}

	_, err = io.ReadFull(device.stream, buffer)
	return err
}

func (device *StreamDevice) WriteSector(index uint32, image []byte) error {
	if len(image) != fdisk.SectorSize {
		return fdisk.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("sector image must be %d bytes, got %d", fdisk.SectorSize, len(image)))
	}

	err := device.checkBounds(index, 1)
	if err != nil {
		return err
	}

	err = device.seekToSector(index)
	if err != nil {
		return err
	}

	_, err = device.stream.Write(image)
	return err
}

// EraseSectors zero-fills the sectors in the range. Large ranges are written a
// megabyte at a time.
func (device *StreamDevice) EraseSectors(first, lastInclusive uint32) error {
	if first > lastInclusive {
		return nil
	}

	count := uint64(lastInclusive) - uint64(first) + 1
	err := device.checkBounds(first, count)
	if err != nil {
		return err
	}

	err = device.seekToSector(first)
	if err != nil {
		return err
	}

	if device.zeroes == nil {
		device.zeroes = make([]byte, eraseChunkSectors*fdisk.SectorSize)
	}

	for count > 0 {
		chunk := min(count, eraseChunkSectors)
		_, err = device.stream.Write(device.zeroes[:chunk*fdisk.SectorSize])
		if err != nil {
			return err
		}
		count -= chunk
	}
	return nil
}
