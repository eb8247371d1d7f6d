package sectors

// Offsets of the fields patched into the boot sector template.
const (
	bootTotalSectorsOffset  = 0x20
	bootSectorsPerFATOffset = 0x24
)

// bootSectorTemplate is the start of every boot sector we write. Only the total
// sector count and the FAT size are changed; everything else, including the
// volume ID and label, is fixed.
var bootSectorTemplate = [...]byte{
	// Jump over the BPB to the boot code
	0xeb, 0x58, 0x90,

	// OEM name: "MEGA65r1"
	0x4d, 0x45, 0x47, 0x41, 0x36, 0x35, 0x72, 0x31,

	// BIOS parameter block
	/* 0x0b */ 0x00, 0x02, // Bytes per sector (512)
	/* 0x0d */ 0x08, // Sectors per cluster
	/* 0x0e */ 0x38, 0x02, // Reserved sectors (568)
	/* 0x10 */ 0x02, // Number of FATs
	/* 0x11 */ 0x00, 0x00, // Root directory entries (0 for FAT32)
	/* 0x13 */ 0x00, 0x00, // 16-bit total sectors (0 for FAT32)
	/* 0x15 */ 0xf8, // Media descriptor: fixed disk
	/* 0x16 */ 0x00, 0x00, // 16-bit sectors per FAT (0 for FAT32)
	/* 0x18 */ 0x00, 0x00, // Sectors per track (0, LBA only)
	/* 0x1a */ 0x00, 0x00, // Number of heads (0, LBA only)
	/* 0x1c */ 0x00, 0x00, 0x00, 0x00, // Hidden sectors

	/* 0x20 */ 0x00, 0xe8, 0x0f, 0x00, // 32-bit total sectors (patched)
	/* 0x24 */ 0xf8, 0x03, 0x00, 0x00, // 32-bit sectors per FAT (patched)
	/* 0x28 */ 0x00, 0x00, // Mirroring flags
	/* 0x2a */ 0x00, 0x00, // Version 0.0
	/* 0x2c */ 0x02, 0x00, 0x00, 0x00, // Root directory cluster
	/* 0x30 */ 0x01, 0x00, // FS information sector, relative to partition
	/* 0x32 */ 0x06, 0x00, // Backup boot sector, relative to partition
	/* 0x34 */ 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	/* 0x40 */ 0x80, // Physical drive number
	/* 0x41 */ 0x00,
	/* 0x42 */ 0x29, // Extended boot signature
	/* 0x43 */ 0x6d, 0x66, 0x62, 0x61, // Volume ID: "mfba"
	/* 0x47 */ 0x4d, 0x2e, 0x45, 0x2e, 0x47, 0x2e, // Volume label: "M.E.G.A. 65"
	0x41, 0x2e, 0x20, 0x36, 0x35,
	/* 0x52 */ 0x46, 0x41, 0x54, 0x33, 0x32, 0x20, 0x20, 0x20, // "FAT32   "

	// Boot code: print the message below, wait for a key, and reboot.
	/* 0x5a */ 0x0e, 0x1f, 0xbe, 0x77, 0x7c, 0xac,
	0x22, 0xc0, 0x74, 0x0b, 0x56, 0xb4, 0x0e, 0xbb,
	0x07, 0x00, 0xcd, 0x10, 0x5e, 0xeb, 0xf0, 0x32,
	0xe4, 0xcd, 0x16, 0xcd, 0x19, 0xeb, 0xfe,

	// "MEGA65 KICKSTART V00.11\r\n\r?NO 45GS02, 4510, 65[ce]02, 6510 OR 8510
	// PROCESSOR  ERROR\r\nINSERT DISK IN REAL COMPUTER AND TRY AGAIN.\n\nREADY.\r\n"
	/* 0x77 */ 0x4d, 0x45, 0x47, 0x41, 0x36, 0x35, 0x20, 0x4b,
	0x49, 0x43, 0x4b, 0x53, 0x54, 0x41, 0x52, 0x54,
	0x20, 0x56, 0x30, 0x30, 0x2e, 0x31, 0x31,
	0x0d, 0x0a, 0x0d, 0x3f, 0x4e, 0x4f, 0x20, 0x34,
	0x35, 0x47, 0x53, 0x30, 0x32, 0x2c, 0x20, 0x34,
	0x35, 0x31, 0x30, 0x2c, 0x20, 0x36, 0x35, 0x5b,
	0x63, 0x65, 0x5d, 0x30, 0x32, 0x2c, 0x20, 0x36,
	0x35, 0x31, 0x30, 0x20, 0x4f, 0x52, 0x20, 0x38,
	0x35, 0x31, 0x30, 0x20, 0x50, 0x52, 0x4f, 0x43,
	0x45, 0x53, 0x53, 0x4f, 0x52, 0x20, 0x20, 0x45,
	0x52, 0x52, 0x4f, 0x52, 0x0d, 0x0a, 0x49, 0x4e, 0x53,
	0x45, 0x52, 0x54, 0x20, 0x44, 0x49, 0x53, 0x4b,
	0x20, 0x49, 0x4e, 0x20, 0x52, 0x45, 0x41, 0x4c,
	0x20, 0x43, 0x4f, 0x4d, 0x50, 0x55, 0x54, 0x45,
	0x52, 0x20, 0x41, 0x4e, 0x44, 0x20, 0x54, 0x52,
	0x59, 0x20, 0x41, 0x47, 0x41, 0x49, 0x4e, 0x2e,
	0x0a, 0x0a, 0x52, 0x45, 0x41, 0x44, 0x59, 0x2e,
	0x0d, 0x0a,
}

// BootSectorTemplateSize is the number of bytes of the boot sector that come
// from the fixed template.
const BootSectorTemplateSize = len(bootSectorTemplate)

// BuildBootSector builds the FAT32 boot sector (volume boot record).
//
// `totalSectors` is the number of sectors in the file system, i.e. the whole
// partition. `fatSectors` is the size of one copy of the FAT.
//
// The volume ID and volume label in the BPB are left at their template values;
// the label shown by most systems comes from the root directory instead (see
// [BuildRootDirectory]).
func BuildBootSector(canvas Canvas, totalSectors, fatSectors uint32) {
	canvas.Clear()
	sector := canvas.Bytes()

	copy(sector, bootSectorTemplate[:])
	writeField(canvas, bootTotalSectorsOffset, totalSectors)
	writeField(canvas, bootSectorsPerFATOffset, fatSectors)
	copy(sector[bootSignatureOffset:], bootSignature[:])
}
