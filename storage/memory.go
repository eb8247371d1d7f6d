package storage

import (
	"fmt"

	"github.com/boljen/go-bitmap"
	"github.com/sdkit/fdisk"
)

// maxTrackedSectors limits how many sectors a tracking-only [MemoryDevice]
// keeps bitmaps for. Every structural sector of a FAT32 volume on a 32-bit
// device lies below this.
const maxTrackedSectors = 1 << 24

// MemoryDevice is a [fdisk.Device] held in memory. Besides the data, it keeps
// a bitmap of which sectors were last written with data and which were last
// erased, so tests can check what a format touched.
//
// A tracking-only device (see [NewTrackingDevice]) has no data at all and can
// simulate devices of any size.
type MemoryDevice struct {
	totalSectors   uint32
	trackedSectors uint32
	data           []byte
	written        bitmap.Bitmap
	erased         bitmap.Bitmap

	sectorsWritten uint64
	sectorsErased  uint64
}

// NewMemoryDevice creates a zero-filled device of `totalSectors` sectors.
func NewMemoryDevice(totalSectors uint32) *MemoryDevice {
	device := newTracker(totalSectors, totalSectors)
	device.data = make([]byte, int(totalSectors)*fdisk.SectorSize)
	return device
}

// NewMemoryDeviceFromImage creates a device backed by `image`, which is used
// directly, not copied. Its length must be a multiple of the sector size.
func NewMemoryDeviceFromImage(image []byte) (*MemoryDevice, error) {
	if len(image)%fdisk.SectorSize != 0 {
		return nil, fdisk.ErrInvalidArgument.WithMessage(
			fmt.Sprintf(
				"image size must be a multiple of %d, got %d (remainder %d)",
				fdisk.SectorSize,
				len(image),
				len(image)%fdisk.SectorSize,
			),
		)
	}

	totalSectors, err := SectorsInBytes(int64(len(image)))
	if err != nil {
		return nil, err
	}

	device := newTracker(totalSectors, totalSectors)
	device.data = image
	return device, nil
}

// NewTrackingDevice creates a device that reports `totalSectors` sectors and
// accepts writes and erases anywhere in that range, but doesn't store any
// data. Only the first 16Mi sectors are tracked in the bitmaps.
func NewTrackingDevice(totalSectors uint32) *MemoryDevice {
	return newTracker(totalSectors, min(totalSectors, maxTrackedSectors))
}

func newTracker(totalSectors, trackedSectors uint32) *MemoryDevice {
	return &MemoryDevice{
		totalSectors:   totalSectors,
		trackedSectors: trackedSectors,
		written:        bitmap.NewSlice(int(trackedSectors)),
		erased:         bitmap.NewSlice(int(trackedSectors)),
	}
}

func (device *MemoryDevice) SectorCount() (uint32, error) {
	return device.totalSectors, nil
}

func (device *MemoryDevice) checkBounds(first, lastInclusive uint32) error {
	if lastInclusive >= device.totalSectors {
		return fdisk.ErrOutOfRange.WithMessage(
			fmt.Sprintf(
				"sectors %d through %d not in range [0, %d)",
				first,
				lastInclusive,
				device.totalSectors,
			),
		)
	}
	return nil
}

func (device *MemoryDevice) WriteSector(index uint32, image []byte) error {
	if len(image) != fdisk.SectorSize {
		return fdisk.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("sector image must be %d bytes, got %d", fdisk.SectorSize, len(image)))
	}

	err := device.checkBounds(index, index)
	if err != nil {
		return err
	}

	if device.data != nil {
		offset := int(index) * fdisk.SectorSize
		copy(device.data[offset:offset+fdisk.SectorSize], image)
	}
	device.mark(index, index, true)
	device.sectorsWritten++
	return nil
}

func (device *MemoryDevice) EraseSectors(first, lastInclusive uint32) error {
	if first > lastInclusive {
		return nil
	}

	err := device.checkBounds(first, lastInclusive)
	if err != nil {
		return err
	}

	if device.data != nil {
		start := int(first) * fdisk.SectorSize
		end := (int(lastInclusive) + 1) * fdisk.SectorSize
		clear(device.data[start:end])
	}
	device.mark(first, lastInclusive, false)
	device.sectorsErased += uint64(lastInclusive) - uint64(first) + 1
	return nil
}

// mark records the last operation on each tracked sector in the range.
func (device *MemoryDevice) mark(first, lastInclusive uint32, written bool) {
	if first >= device.trackedSectors {
		return
	}

	last := min(lastInclusive, device.trackedSectors-1)
	for i := int(first); i <= int(last); i++ {
		device.written.Set(i, written)
		device.erased.Set(i, !written)
	}
}

// Sector returns a copy of the sector at `index`. Tracking-only devices always
// return zeroes.
func (device *MemoryDevice) Sector(index uint32) ([]byte, error) {
	err := device.checkBounds(index, index)
	if err != nil {
		return nil, err
	}

	sector := make([]byte, fdisk.SectorSize)
	if device.data != nil {
		offset := int(index) * fdisk.SectorSize
		copy(sector, device.data[offset:offset+fdisk.SectorSize])
	}
	return sector, nil
}

// Image returns the device's backing storage, or nil for a tracking-only
// device.
func (device *MemoryDevice) Image() []byte {
	return device.data
}

// WasWritten reports whether the last operation on the sector wrote data to
// it. Sectors past the tracked range always report false.
func (device *MemoryDevice) WasWritten(index uint32) bool {
	if index >= device.trackedSectors {
		return false
	}
	return device.written.Get(int(index))
}

// WasErased reports whether the last operation on the sector erased it.
// Sectors past the tracked range always report false.
func (device *MemoryDevice) WasErased(index uint32) bool {
	if index >= device.trackedSectors {
		return false
	}
	return device.erased.Get(int(index))
}

// SectorsWritten gives the number of WriteSector calls that succeeded.
func (device *MemoryDevice) SectorsWritten() uint64 {
	return device.sectorsWritten
}

// SectorsErased gives the total number of sectors erased, counting a sector
// once per erase that covered it.
func (device *MemoryDevice) SectorsErased() uint64 {
	return device.sectorsErased
}
