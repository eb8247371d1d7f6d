// Package fdisk partitions a block device with a single FAT32 partition and
// writes an empty file system into it.
//
// The work is split into a pure core and collaborators. The geometry package
// fits a layout to the device size, the sectors package builds the byte image
// of each structural sector, and the format package sequences the writes.
// Everything that touches hardware or the user goes through the small
// interfaces declared here (and [format.Confirmer]), so the core can be driven
// entirely from memory in tests.
package fdisk

// SectorSize is the size of every sector this module reads or writes, in
// bytes. Devices with other logical sector sizes are not supported.
const SectorSize = 512

// PartitionStart is the absolute sector where the FAT32 partition begins. This
// puts it at the 1 MiB boundary, which is what most flash media expect.
const PartitionStart = 2048

// SectorCounter reports the size of a device.
type SectorCounter interface {
	// SectorCount returns the total number of addressable sectors. It must
	// fail with an error matching [ErrDeviceUnavailable] if the size can't be
	// determined.
	SectorCount() (uint32, error)
}

// SectorWriter writes single sectors.
type SectorWriter interface {
	// WriteSector writes exactly [SectorSize] bytes at an absolute sector
	// index. Implementations must not retain `image` after returning, since
	// callers reuse the buffer for the next sector.
	WriteSector(index uint32, image []byte) error
}

// SectorEraser zero-fills sector ranges.
type SectorEraser interface {
	// EraseSectors zero-fills sectors `first` through `lastInclusive`. If
	// `first > lastInclusive` the range is empty, and the call must succeed
	// without touching the device.
	EraseSectors(first, lastInclusive uint32) error
}

// Device is everything the formatter needs from storage. All operations are
// synchronous: when a call returns, the data has been handed to the device and
// the next call may depend on it.
type Device interface {
	SectorCounter
	SectorWriter
	SectorEraser
}

// SectorBufferProvider is implemented by devices that own a sector-sized
// staging buffer. The formatter builds sectors directly in that buffer instead
// of its own, and passes it back to [SectorWriter.WriteSector].
type SectorBufferProvider interface {
	SectorBuffer() []byte
}
