package sectors

// Offsets within the FS information sector.
const (
	fsInfoLeadSignatureOffset   = 0x000
	fsInfoStructSignatureOffset = 0x1e4
	fsInfoFreeClustersOffset    = 0x1e8
	fsInfoNextFreeOffset        = 0x1ec
)

var (
	fsInfoLeadSignature   = [4]byte{'R', 'R', 'a', 'A'}
	fsInfoStructSignature = [4]byte{'r', 'r', 'A', 'a'}
)

// FirstFreeClusterHint is the cluster where allocation should start on a fresh
// volume. Clusters 0 and 1 are reserved and cluster 2 holds the root directory.
const FirstFreeClusterHint = 3

// BuildFSInformationSector builds the FAT32 FS information sector for a volume
// with `clusterCount` clusters, all free except the root directory's.
//
// The free count is clusterCount - 3: the two reserved FAT entries aren't real
// clusters, and one cluster is taken by the root directory.
func BuildFSInformationSector(canvas Canvas, clusterCount uint32) {
	canvas.Clear()
	sector := canvas.Bytes()

	copy(sector[fsInfoLeadSignatureOffset:], fsInfoLeadSignature[:])
	copy(sector[fsInfoStructSignatureOffset:], fsInfoStructSignature[:])
	writeField(canvas, fsInfoFreeClustersOffset, clusterCount-3)
	writeField(canvas, fsInfoNextFreeOffset, uint32(FirstFreeClusterHint))
	copy(sector[bootSignatureOffset:], bootSignature[:])
}
