package sectors

// Directory entry attribute flags.
const (
	AttrVolumeID = 0x08
)

// Offsets of the fields of a directory entry.
const (
	direntAttributesOffset = 11
	direntCreateTimeOffset = 14
	direntCreateDateOffset = 16
	direntAccessDateOffset = 18
	direntModifyTimeOffset = 22
	direntModifyDateOffset = 24
	DirectoryEntrySize     = 32
)

// BuildRootDirectory builds the first sector of the root directory. It holds a
// single entry, the volume label, stamped with [VolumeTimestamp]. The rest of
// the sector is zero, which marks the end of the directory.
func BuildRootDirectory(canvas Canvas, label VolumeLabel) {
	canvas.Clear()
	sector := canvas.Bytes()

	copy(sector, label[:])
	sector[direntAttributesOffset] = AttrVolumeID

	date := EncodeDate(VolumeTimestamp)
	timeOfDay := EncodeTime(VolumeTimestamp)
	writeField(canvas, direntCreateTimeOffset, timeOfDay)
	writeField(canvas, direntCreateDateOffset, date)
	writeField(canvas, direntAccessDateOffset, date)
	writeField(canvas, direntModifyTimeOffset, timeOfDay)
	writeField(canvas, direntModifyDateOffset, date)
}
