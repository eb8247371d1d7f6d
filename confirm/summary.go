// Package confirm asks the user for permission before a device is formatted.
//
// All confirmers implement [format.Confirmer]. [Phrase] works on any pair of
// streams, [Screen] takes over the terminal, and [Bypass] never asks.
package confirm

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/sdkit/fdisk"
	"github.com/sdkit/fdisk/geometry"
)

// ConfirmationPhrase is what the user has to type, exactly, to go ahead.
const ConfirmationPhrase = "DELETE EVERYTHING"

// Messages shown around the prompt.
const (
	PromptMessage   = "Type " + ConfirmationPhrase + " to continue:"
	MismatchMessage = "Entered text does not match. Try again."
)

// SummaryLines describes the planned layout in a few lines of text.
func SummaryLines(fs geometry.Filesystem) []string {
	return []string{
		fmt.Sprintf(
			"Partition has %d sectors (%d available) on a device of %s.",
			fs.PartitionSectors,
			fs.AvailableSectors(),
			humanize.IBytes(uint64(fs.TotalSectors)*fdisk.SectorSize),
		),
		fmt.Sprintf(
			"Creating file system with %d (%#x) clusters, %d sectors per FAT, %d reserved sectors.",
			fs.ClusterCount,
			fs.ClusterCount,
			fs.FATSectors,
			fs.ReservedSectors,
		),
		fmt.Sprintf(
			"Usable space: %s in %s clusters.",
			humanize.IBytes(fs.DataBytes()),
			humanize.IBytes(uint64(fs.ClusterSize())),
		),
	}
}

// WriteSummary writes [SummaryLines] to `output`, one per line.
func WriteSummary(output io.Writer, fs geometry.Filesystem) error {
	for _, line := range SummaryLines(fs) {
		_, err := fmt.Fprintln(output, line)
		if err != nil {
			return err
		}
	}
	return nil
}

// Bypass confirms everything without asking. It's for scripted use, where the
// caller has already made sure the right device is being formatted.
type Bypass struct{}

func (Bypass) Confirm(geometry.Filesystem) error {
	return nil
}
