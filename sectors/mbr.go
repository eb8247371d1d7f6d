package sectors

import (
	"encoding/binary"
	"fmt"

	"github.com/sdkit/fdisk"
)

// Byte offsets of the fields we set in the master boot record.
const (
	mbrDiskSignatureOffset = 0x1b8
	mbrPartitionEntry      = 0x1be
	mbrPartitionTypeOffset = mbrPartitionEntry + 4
	mbrLBAStartOffset      = mbrPartitionEntry + 8
	mbrLBASizeOffset       = mbrPartitionEntry + 12
	bootSignatureOffset    = 510
)

// PartitionTypeFAT32LBA is the MBR partition type for FAT32 addressed by LBA.
const PartitionTypeFAT32LBA = 0x0c

// mbrDiskSignature is written verbatim; it's fixed rather than random so that
// formatting the same device twice gives identical results.
var mbrDiskSignature = [4]byte{0x83, 0x7d, 0xcb, 0xa6}

// bootSignature ends the MBR, boot sectors, and FS information sectors.
var bootSignature = [2]byte{0x55, 0xaa}

// BuildMBR builds a master boot record with one non-bootable FAT32 partition
// starting at [fdisk.PartitionStart] and spanning `partitionSectors` sectors.
//
// The CHS start and end addresses are left as zeroes. Everything reading this
// table is expected to use the LBA fields.
func BuildMBR(canvas Canvas, partitionSectors uint32) {
	canvas.Clear()
	sector := canvas.Bytes()

	copy(sector[mbrDiskSignatureOffset:], mbrDiskSignature[:])

	// Boot flag (0x1be) and CHS start (0x1bf-0x1c1) stay zero.
	sector[mbrPartitionTypeOffset] = PartitionTypeFAT32LBA
	// CHS end (0x1c3-0x1c5) stays zero.
	writeField(canvas, mbrLBAStartOffset, uint32(fdisk.PartitionStart))
	writeField(canvas, mbrLBASizeOffset, partitionSectors)

	copy(sector[bootSignatureOffset:], bootSignature[:])
}

// writeField writes a fixed-size value in little-endian order at `offset`
// bytes into the canvas. The offsets are all constants, so a failure here is
// a programming error.
func writeField(canvas Canvas, offset int, value any) {
	err := binary.Write(fieldAt(canvas, offset), binary.LittleEndian, value)
	if err != nil {
		panic(fmt.Errorf("field at offset %#x doesn't fit in a sector: %w", offset, err))
	}
}
