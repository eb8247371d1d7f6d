package geometry

// Region is a named, inclusive range of absolute sectors.
type Region struct {
	Name  string `csv:"region"`
	First uint32 `csv:"first_sector"`
	Last  uint32 `csv:"last_sector"`
}

// Sectors gives the number of sectors in the region.
func (r Region) Sectors() uint32 {
	return r.Last - r.First + 1
}

// Regions describes the whole device, from the MBR to the last sector, in
// ascending order. Regions never overlap. Sectors past the end of the last
// cluster are reported as "unused" if there are any.
func (fs *Filesystem) Regions() []Region {
	regions := []Region{
		{"mbr", 0, 0},
		{"pre-partition gap", 1, fs.PartitionStart - 1},
		{"boot sector", fs.BootSector, fs.BootSector},
		{"fs information sector", fs.FSInfoSector, fs.FSInfoSector},
		{"reserved", fs.FSInfoSector + 1, fs.BootSectorBackup - 1},
		{"boot sector backup", fs.BootSectorBackup, fs.BootSectorBackup},
		{"fs information backup", fs.FSInfoBackup, fs.FSInfoBackup},
		{"reserved", fs.FSInfoBackup + 1, fs.FAT1 - 1},
		{"fat #1", fs.FAT1, fs.FAT2 - 1},
		{"fat #2", fs.FAT2, fs.RootDirectory - 1},
	}

	// The root directory occupies cluster 2; everything after it is free space.
	// Cluster 2 always exists because the planner requires at least three
	// clusters.
	rootCluster, _ := fs.ClusterToSector(2)
	firstFree := rootCluster + fs.SectorsPerCluster
	endOfData := fs.RootDirectory + (fs.ClusterCount-2)*fs.SectorsPerCluster

	regions = append(regions, Region{"root directory cluster", rootCluster, firstFree - 1})
	if firstFree < endOfData {
		regions = append(regions, Region{"data clusters", firstFree, endOfData - 1})
	}
	if endOfData < fs.TotalSectors {
		regions = append(regions, Region{"unused", endOfData, fs.TotalSectors - 1})
	}
	return regions
}
