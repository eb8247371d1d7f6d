package geometry

import (
	"fmt"

	"github.com/sdkit/fdisk"
)

// maxFitIterations bounds the fitting loop. Each iteration removes at least one
// cluster and therefore at least SectorsPerCluster sectors of excess, so for
// any 32-bit device the loop finishes in well under a hundred steps; hitting
// this limit means the arithmetic is broken.
const maxFitIterations = 4096

// minClusters is the smallest cluster count that leaves room for the root
// directory cluster and one free cluster, so that the FS information sector's
// free count (ClusterCount - 3) can't go negative.
const minClusters = 3

// Plan computes the FAT32 layout for a device of `totalSectors` sectors using
// [DefaultPolicy]. It's deterministic and has no side effects.
func Plan(totalSectors uint32) (Filesystem, error) {
	return PlanWithPolicy(totalSectors, DefaultPolicy)
}

// PlanWithPolicy computes the FAT32 layout for a device of `totalSectors`
// sectors using the given layout constants.
//
// The cluster count and FAT size depend on each other: more clusters need a
// bigger FAT, and a bigger FAT leaves less room for clusters. The planner
// starts from the upper bound (all available sectors as clusters) and walks
// the count down until both FATs and the data clusters fit.
//
// Errors:
//
//   - [fdisk.ErrDeviceTooSmall]: the device has no sectors left after the
//     partition offset and reserved sectors, or too few to hold the root
//     directory cluster and the first data cluster.
//   - [fdisk.ErrGeometryInfeasible]: the fitting loop didn't converge.
//   - [fdisk.ErrInvalidArgument]: the policy has a zero cluster size or too
//     few reserved sectors for the boot and FS information sector copies.
func PlanWithPolicy(totalSectors uint32, policy Policy) (Filesystem, error) {
	if policy.SectorsPerCluster == 0 {
		return Filesystem{}, fdisk.ErrInvalidArgument.WithMessage(
			"sectors per cluster must be nonzero")
	}
	if policy.ReservedSectors <= fsInfoBackupOffset {
		return Filesystem{}, fdisk.ErrInvalidArgument.WithMessage(
			fmt.Sprintf(
				"%d reserved sectors can't hold the backup FS information sector at offset %d",
				policy.ReservedSectors,
				fsInfoBackupOffset,
			),
		)
	}

	// Checked in 64 bits so that a device smaller than the partition offset
	// doesn't wrap around to a huge partition.
	overhead := uint64(policy.PartitionStart) + uint64(policy.ReservedSectors)
	if uint64(totalSectors) <= overhead {
		return Filesystem{}, fdisk.ErrDeviceTooSmall.WithMessage(
			fmt.Sprintf(
				"need more than %d sectors (partition offset %d + %d reserved), got %d",
				overhead,
				policy.PartitionStart,
				policy.ReservedSectors,
				totalSectors,
			),
		)
	}

	partitionSectors := totalSectors - policy.PartitionStart
	available := int64(partitionSectors - policy.ReservedSectors)
	spc := int64(policy.SectorsPerCluster)

	clusterCount := available / spc
	fatSectors := fatSectorsFor(clusterCount)
	required := requiredSectors(clusterCount, fatSectors, spc)

	var fitting []FitStep
	for required > available {
		if len(fitting) >= maxFitIterations {
			return Filesystem{}, fdisk.ErrGeometryInfeasible.WithMessage(
				fmt.Sprintf(
					"cluster count didn't converge after %d iterations for %d sectors",
					maxFitIterations,
					totalSectors,
				),
			)
		}

		excess := required - available
		fitting = append(
			fitting,
			FitStep{
				ClusterCount: uint32(clusterCount),
				FATSectors:   uint32(fatSectors),
				Excess:       uint32(excess),
			},
		)

		// Removing one cluster saves `spc` data sectors plus a fraction of a FAT
		// sector in each of the two FATs, so (1 + spc) sectors per cluster is a
		// conservative step. Close to the fit this degrades to one cluster at a
		// time.
		delta := excess / (1 + spc)
		if delta < 1 {
			delta = 1
		}
		clusterCount -= delta
		fatSectors = fatSectorsFor(clusterCount)
		required = requiredSectors(clusterCount, fatSectors, spc)
	}

	if clusterCount < minClusters {
		return Filesystem{}, fdisk.ErrDeviceTooSmall.WithMessage(
			fmt.Sprintf(
				"only %d clusters fit in %d available sectors, need at least %d",
				clusterCount,
				available,
				minClusters,
			),
		)
	}

	partitionStart := policy.PartitionStart
	fat1 := partitionStart + policy.ReservedSectors
	fat2 := fat1 + uint32(fatSectors)
	rootDirectory := fat2 + uint32(fatSectors)

	fs := Filesystem{
		Device: Device{
			TotalSectors:     totalSectors,
			PartitionStart:   partitionStart,
			PartitionSectors: partitionSectors,
		},
		SectorsPerCluster: policy.SectorsPerCluster,
		ReservedSectors:   policy.ReservedSectors,
		ClusterCount:      uint32(clusterCount),
		FATSectors:        uint32(fatSectors),
		BootSector:        partitionStart + bootSectorOffset,
		FSInfoSector:      partitionStart + fsInfoOffset,
		BootSectorBackup:  partitionStart + bootSectorBackupOffset,
		FSInfoBackup:      partitionStart + fsInfoBackupOffset,
		FAT1:              fat1,
		FAT2:              fat2,
		RootDirectory:     rootDirectory,
		FirstDataSector:   rootDirectory + 1,
		Fitting:           fitting,
	}

	// The formatter clears one full cluster starting at FirstDataSector, which
	// reaches one sector past the root directory's cluster. On the smallest
	// devices that can fall off the end.
	lastCleared := uint64(fs.FirstDataSector) + uint64(fs.SectorsPerCluster) - 1
	if lastCleared >= uint64(totalSectors) {
		return Filesystem{}, fdisk.ErrDeviceTooSmall.WithMessage(
			fmt.Sprintf(
				"first data cluster ends at sector %d, past the end of the device (%d sectors)",
				lastCleared,
				totalSectors,
			),
		)
	}
	return fs, nil
}

// fatSectorsFor gives the number of sectors one FAT needs to hold an entry for
// each of `clusterCount` clusters, rounded up.
func fatSectorsFor(clusterCount int64) int64 {
	return (clusterCount + EntriesPerFATSector - 1) / EntriesPerFATSector
}

// requiredSectors gives the number of sectors both FATs plus all data clusters
// occupy. The first two cluster numbers are reserved and take no space.
func requiredSectors(clusterCount, fatSectors, sectorsPerCluster int64) int64 {
	return 2*fatSectors + (clusterCount-2)*sectorsPerCluster
}
