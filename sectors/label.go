package sectors

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/sdkit/fdisk"
)

// VolumeLabelLength is the size of the volume label field, in bytes.
const VolumeLabelLength = 11

// VolumeLabel is the on-disk form of a volume name: uppercase ASCII, padded
// with spaces to exactly eleven bytes.
type VolumeLabel [VolumeLabelLength]byte

// DefaultVolumeLabel is used when no label is given.
var DefaultVolumeLabel = VolumeLabel{'M', '.', 'E', '.', 'G', '.', 'A', '.', '6', '5', '!'}

// NewVolumeLabel converts a string to its on-disk representation. The name is
// normalized to uppercase, and an empty name becomes "NO NAME", the
// conventional label for unnamed FAT volumes. It's an error for the name to be
// longer than eleven bytes or to contain anything but printable ASCII.
func NewVolumeLabel(name string) (VolumeLabel, error) {
	var label VolumeLabel

	if name == "" {
		name = "NO NAME"
	}
	if len(name) > VolumeLabelLength {
		return label, fdisk.ErrInvalidArgument.WithMessage(
			fmt.Sprintf(
				"volume label can be at most %d characters: %q",
				VolumeLabelLength,
				name,
			),
		)
	}

	for i := 0; i < len(name); i++ {
		if name[i] < 0x20 || name[i] > 0x7e {
			return label, fdisk.ErrInvalidArgument.WithMessage(
				fmt.Sprintf(
					"volume label must be printable ASCII, got %#02x at index %d",
					name[i],
					i,
				),
			)
		}
	}

	copy(label[:], fmt.Sprintf("%-11s", strings.ToUpper(name)))
	return label, nil
}

// String returns the label without its padding.
func (l VolumeLabel) String() string {
	return string(bytes.TrimRight(l[:], " "))
}
