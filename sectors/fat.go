package sectors

// Values of the first three FAT entries on a fresh volume.
const (
	// fatMediaEntry is entry 0: the media descriptor in the low byte, all other
	// bits set.
	fatMediaEntry uint32 = 0x0ffffff8
	// fatReservedEntry is entry 1, which some drivers use for dirty flags.
	fatReservedEntry uint32 = 0x0fffffff
	// FATEndOfChain marks the last cluster of a chain. The root directory is a
	// one-cluster chain, so entry 2 holds this.
	FATEndOfChain uint32 = 0x0ffffff8
)

// BuildEmptyFAT builds the first sector of an empty FAT: the two reserved
// entries followed by a one-cluster chain for the root directory. Every other
// sector of the FAT is zero, meaning free.
func BuildEmptyFAT(canvas Canvas) {
	canvas.Clear()
	writeField(canvas, 0, [3]uint32{fatMediaEntry, fatReservedEntry, FATEndOfChain})
}
