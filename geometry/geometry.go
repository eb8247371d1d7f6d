// Package geometry fits a FAT32 layout to a device of a given size.
//
// All sector numbers in this package are absolute, i.e. counted from the
// beginning of the device and not from the beginning of the partition.
package geometry

import (
	"fmt"

	"github.com/sdkit/fdisk"
)

// EntriesPerFATSector is the number of 4-byte FAT32 entries in one sector.
const EntriesPerFATSector = fdisk.SectorSize / 4

// Offsets of the boot sector copies and FS information sectors, relative to the
// beginning of the partition. These are fixed by the boot sector template.
const (
	bootSectorOffset       = 0
	fsInfoOffset           = 1
	bootSectorBackupOffset = 6
	fsInfoBackupOffset     = 7
)

// Policy holds the fixed layout constants the planner works with.
type Policy struct {
	PartitionStart    uint32
	ReservedSectors   uint32
	SectorsPerCluster uint32
}

// DefaultPolicy is the only layout the sector builders emit a matching BIOS
// parameter block for: a partition at 1 MiB, 568 reserved sectors and 4 KiB
// clusters.
var DefaultPolicy = Policy{
	PartitionStart:    fdisk.PartitionStart,
	ReservedSectors:   568,
	SectorsPerCluster: 8,
}

// Device describes the whole storage device and the single partition on it.
type Device struct {
	TotalSectors     uint32
	PartitionStart   uint32
	PartitionSectors uint32
}

// FitStep records one iteration of the cluster fitting loop. It's kept for
// diagnostics only.
type FitStep struct {
	ClusterCount uint32
	FATSectors   uint32
	// Excess is the number of sectors by which this cluster count overflowed
	// the available space.
	Excess uint32
}

// Filesystem is a complete, self-consistent FAT32 layout. Once returned by
// [Plan] it's never modified.
type Filesystem struct {
	Device

	SectorsPerCluster uint32
	ReservedSectors   uint32
	ClusterCount      uint32
	// FATSectors is the size of ONE copy of the FAT, in sectors.
	FATSectors uint32

	BootSector       uint32
	FSInfoSector     uint32
	BootSectorBackup uint32
	FSInfoBackup     uint32
	FAT1             uint32
	FAT2             uint32
	RootDirectory    uint32
	FirstDataSector  uint32

	// Fitting lists every cluster count the planner rejected before settling
	// on ClusterCount. It's empty if the first estimate fit.
	Fitting []FitStep
}

// AvailableSectors gives the number of sectors in the partition after the
// reserved sectors, i.e. the space shared by both FATs and the data region.
func (fs *Filesystem) AvailableSectors() uint32 {
	return fs.PartitionSectors - fs.ReservedSectors
}

// RequiredSectors gives the number of sectors the FATs and data clusters need.
// It never exceeds [Filesystem.AvailableSectors].
func (fs *Filesystem) RequiredSectors() uint32 {
	return 2*fs.FATSectors + (fs.ClusterCount-2)*fs.SectorsPerCluster
}

// ClusterSize returns the size of a single cluster, in bytes.
func (fs *Filesystem) ClusterSize() uint32 {
	return fs.SectorsPerCluster * fdisk.SectorSize
}

// DataBytes returns the total size of the data region, in bytes. The first two
// cluster numbers are reserved and have no storage behind them.
func (fs *Filesystem) DataBytes() uint64 {
	return uint64(fs.ClusterCount-2) * uint64(fs.ClusterSize())
}

// ClusterToSector takes a cluster number and returns the absolute sector where
// that cluster begins. The data region starts right after the second FAT, and
// its first cluster (number 2) holds the root directory.
func (fs *Filesystem) ClusterToSector(cluster uint32) (uint32, error) {
	if cluster < 2 || cluster >= fs.ClusterCount {
		return 0, fdisk.ErrOutOfRange.WithMessage(
			fmt.Sprintf(
				"invalid cluster %d: not in range [2, %d)", cluster, fs.ClusterCount))
	}
	return fs.RootDirectory + (cluster-2)*fs.SectorsPerCluster, nil
}
