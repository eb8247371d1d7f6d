package format

import (
	"io"

	"github.com/gocarina/gocsv"
	"github.com/sdkit/fdisk/geometry"
	"github.com/sdkit/fdisk/sectors"
)

// Action is what a [Step] does to the device.
type Action string

const (
	ActionWrite Action = "write"
	ActionErase Action = "erase"
)

// Step is one device operation of a format. Write steps cover exactly one
// sector (First == Last). Erase steps may be empty (First > Last), in which
// case the erase is still issued and the device treats it as a no-op.
type Step struct {
	Action Action `csv:"action"`
	Phase  string `csv:"phase"`
	First  uint32 `csv:"first_sector"`
	Last   uint32 `csv:"last_sector"`

	build func(canvas sectors.Canvas) `csv:"-"`
}

// Sectors gives the number of sectors the step touches.
func (s Step) Sectors() uint64 {
	if s.First > s.Last {
		return 0
	}
	return uint64(s.Last) - uint64(s.First) + 1
}

// Layout returns the exact sequence of writes and erases that formats a device
// with geometry `fs`, in the order they're performed.
//
// The erases after the structural writes cover only sectors that weren't
// written, so nothing written earlier is clobbered.
func Layout(fs geometry.Filesystem, label sectors.VolumeLabel) []Step {
	write := func(phase string, sector uint32, build func(sectors.Canvas)) Step {
		return Step{
			Action: ActionWrite,
			Phase:  phase,
			First:  sector,
			Last:   sector,
			build:  build,
		}
	}
	erase := func(phase string, first, last uint32) Step {
		return Step{Action: ActionErase, Phase: phase, First: first, Last: last}
	}

	buildMBR := func(c sectors.Canvas) { sectors.BuildMBR(c, fs.PartitionSectors) }
	buildBoot := func(c sectors.Canvas) {
		sectors.BuildBootSector(c, fs.PartitionSectors, fs.FATSectors)
	}
	buildFSInfo := func(c sectors.Canvas) { sectors.BuildFSInformationSector(c, fs.ClusterCount) }
	buildRoot := func(c sectors.Canvas) { sectors.BuildRootDirectory(c, label) }

	return []Step{
		write("mbr", 0, buildMBR),
		erase("pre-partition gap", 1, fs.PartitionStart-1),
		write("boot sector", fs.BootSector, buildBoot),
		write("boot sector backup", fs.BootSectorBackup, buildBoot),
		write("fs information sector", fs.FSInfoSector, buildFSInfo),
		write("fs information backup", fs.FSInfoBackup, buildFSInfo),
		write("fat #1", fs.FAT1, sectors.BuildEmptyFAT),
		write("fat #2", fs.FAT2, sectors.BuildEmptyFAT),
		write("root directory", fs.RootDirectory, buildRoot),
		erase("reserved", fs.FSInfoSector+1, fs.BootSectorBackup-1),
		erase("reserved", fs.FSInfoBackup+1, fs.FAT1-1),
		erase("fat #1", fs.FAT1+1, fs.FAT2-1),
		erase("fat #2", fs.FAT2+1, fs.RootDirectory-1),
		erase(
			"first data cluster",
			fs.FirstDataSector,
			fs.FirstDataSector+fs.SectorsPerCluster-1,
		),
	}
}

// WriteStepsCSV writes `steps` as CSV with a header row.
func WriteStepsCSV(output io.Writer, steps []Step) error {
	return gocsv.Marshal(steps, output)
}

// WriteRegionsCSV writes the regions of `fs` as CSV with a header row.
func WriteRegionsCSV(output io.Writer, fs geometry.Filesystem) error {
	return gocsv.Marshal(fs.Regions(), output)
}
