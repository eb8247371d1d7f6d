// Package format writes a single-partition FAT32 layout to a device.
//
// [Formatter.Format] reads the device size, plans the geometry, asks for
// confirmation, and then runs the steps from [Layout] in order. It stops at
// the first failed write or erase and doesn't retry; the device may then be
// left partially formatted.
package format

import (
	"errors"
	"fmt"

	"github.com/sdkit/fdisk"
	"github.com/sdkit/fdisk/geometry"
	"github.com/sdkit/fdisk/sectors"
	"github.com/sirupsen/logrus"
)

// Confirmer is asked for permission before anything is written. Returning any
// error refuses; the formatter then fails with [fdisk.ErrNotConfirmed] without
// having written anything.
type Confirmer interface {
	Confirm(fs geometry.Filesystem) error
}

// Formatter formats one device. Only Device is required.
type Formatter struct {
	Device fdisk.Device
	// Confirmer is consulted after the geometry is known. If nil, the format
	// goes ahead unconditionally.
	Confirmer Confirmer
	// Canvas is the buffer sectors are built in. If nil, the device's own
	// buffer is used if it has one (see [fdisk.SectorBufferProvider]),
	// otherwise a new one is allocated.
	Canvas sectors.Canvas
	// Label is written to the root directory. The zero value means
	// [sectors.DefaultVolumeLabel].
	Label  sectors.VolumeLabel
	Logger logrus.FieldLogger
}

// Result summarizes a completed format.
type Result struct {
	Geometry       geometry.Filesystem
	SectorsWritten uint64
	SectorsErased  uint64
	Steps          int
}

// Format formats the device. See the package documentation for the sequence
// of operations.
func (f *Formatter) Format() (Result, error) {
	if f.Device == nil {
		return Result{}, fdisk.ErrInvalidArgument.WithMessage("no device to format")
	}
	log := f.logger()

	totalSectors, err := f.Device.SectorCount()
	if err != nil {
		if errors.Is(err, fdisk.ErrDeviceUnavailable) {
			return Result{}, err
		}
		return Result{}, fdisk.ErrDeviceUnavailable.Wrap(err)
	}
	log.WithField("sectors", totalSectors).Debug("read device size")

	fs, err := geometry.Plan(totalSectors)
	if err != nil {
		return Result{}, err
	}
	logGeometry(log, fs)

	if f.Confirmer != nil {
		err = f.Confirmer.Confirm(fs)
		if err != nil {
			if errors.Is(err, fdisk.ErrNotConfirmed) {
				return Result{}, err
			}
			return Result{}, fdisk.ErrNotConfirmed.Wrap(err)
		}
	}

	canvas, err := f.canvas()
	if err != nil {
		return Result{}, err
	}

	label := f.Label
	if label == (sectors.VolumeLabel{}) {
		label = sectors.DefaultVolumeLabel
	}

	steps := Layout(fs, label)
	result := Result{Geometry: fs, Steps: len(steps)}

	for _, step := range steps {
		stepLog := log.WithField("phase", step.Phase)

		switch step.Action {
		case ActionWrite:
			step.build(canvas)
			stepLog.WithField("sector", step.First).Info("writing " + step.Phase)
			if step.Phase == "fat #1" || step.Phase == "fat #2" {
				stepLog.Debugf(
					"%s at byte offset %#x", step.Phase, uint64(step.First)*fdisk.SectorSize)
			}

			err = f.Device.WriteSector(step.First, canvas.Bytes())
			if err != nil {
				return result, fdisk.ErrWriteFailed.Wrap(err).WithMessage(
					fmt.Sprintf("%s at sector %d", step.Phase, step.First))
			}
			result.SectorsWritten++

		case ActionErase:
			stepLog.WithFields(logrus.Fields{
				"first": step.First,
				"last":  step.Last,
			}).Debug("erasing " + step.Phase)

			err = f.Device.EraseSectors(step.First, step.Last)
			if err != nil {
				return result, fdisk.ErrEraseFailed.Wrap(err).WithMessage(
					fmt.Sprintf("%s, sectors %d-%d", step.Phase, step.First, step.Last))
			}
			result.SectorsErased += step.Sectors()
		}
	}

	log.WithFields(logrus.Fields{
		"written": result.SectorsWritten,
		"erased":  result.SectorsErased,
	}).Info("format complete")
	return result, nil
}

func (f *Formatter) logger() logrus.FieldLogger {
	if f.Logger != nil {
		return f.Logger
	}
	return logrus.StandardLogger()
}

func (f *Formatter) canvas() (sectors.Canvas, error) {
	if f.Canvas != nil {
		return f.Canvas, nil
	}
	if provider, ok := f.Device.(fdisk.SectorBufferProvider); ok {
		return sectors.NewMappedCanvas(provider.SectorBuffer())
	}
	return sectors.NewHeapCanvas(), nil
}

func logGeometry(log logrus.FieldLogger, fs geometry.Filesystem) {
	for _, step := range fs.Fitting {
		log.Debugf(
			"%d clusters would take %d too many sectors", step.ClusterCount, step.Excess)
	}

	log.WithFields(logrus.Fields{
		"clusters":          fs.ClusterCount,
		"fat_sectors":       fs.FATSectors,
		"reserved_sectors":  fs.ReservedSectors,
		"partition_sectors": fs.PartitionSectors,
		"fat1":              fs.FAT1,
		"fat2":              fs.FAT2,
		"root_directory":    fs.RootDirectory,
	}).Info("planned FAT32 layout")
}
