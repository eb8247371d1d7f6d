package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-multierror"
	"github.com/sdkit/fdisk"
	"github.com/sdkit/fdisk/confirm"
	"github.com/sdkit/fdisk/format"
	"github.com/sdkit/fdisk/geometry"
	"github.com/sdkit/fdisk/media"
	"github.com/sdkit/fdisk/sectors"
	"github.com/sdkit/fdisk/snapshot"
	"github.com/sdkit/fdisk/storage"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// sizeFromFlags determines the device size from the --media and --sectors
// flags. It returns false if neither was given.
func sizeFromFlags(context *cli.Context) (uint32, bool, error) {
	if slug := context.String("media"); slug != "" {
		if context.IsSet("sectors") {
			return 0, false, fdisk.ErrInvalidArgument.WithMessage(
				"--media and --sectors can't be used together")
		}
		preset, err := media.Lookup(slug)
		if err != nil {
			return 0, false, err
		}
		return preset.TotalSectors, true, nil
	}

	if context.IsSet("sectors") {
		sectorCount := context.Uint64("sectors")
		if sectorCount > math.MaxUint32 {
			return 0, false, fdisk.ErrInvalidArgument.WithMessage(
				fmt.Sprintf("%d sectors is more than a 32-bit sector number can address", sectorCount))
		}
		return uint32(sectorCount), true, nil
	}
	return 0, false, nil
}

func planLayout(context *cli.Context) error {
	totalSectors, ok, err := sizeFromFlags(context)
	if err != nil {
		return err
	}

	if !ok {
		path := context.Args().First()
		if path == "" {
			return fdisk.ErrInvalidArgument.WithMessage(
				"give a device, --media, or --sectors to plan for")
		}

		device, err := storage.OpenFile(path)
		if err != nil {
			return err
		}
		totalSectors, err = device.SectorCount()
		closeErr := device.Close()
		if err != nil || closeErr != nil {
			return multierror.Append(err, closeErr).ErrorOrNil()
		}
	}

	fs, err := geometry.Plan(totalSectors)
	if err != nil {
		return err
	}

	output := context.App.Writer
	if context.Bool("steps") {
		steps := format.Layout(fs, sectors.DefaultVolumeLabel)
		if context.Bool("csv") {
			return format.WriteStepsCSV(output, steps)
		}
		return printSteps(output, steps)
	}

	if context.Bool("csv") {
		return format.WriteRegionsCSV(output, fs)
	}

	err = confirm.WriteSummary(output, fs)
	if err != nil {
		return err
	}
	fmt.Fprintln(output)
	return printRegions(output, fs)
}

func printRegions(output io.Writer, fs geometry.Filesystem) error {
	tw := tabwriter.NewWriter(output, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "REGION\tFIRST\tLAST\tSIZE")
	for _, region := range fs.Regions() {
		fmt.Fprintf(
			tw,
			"%s\t%d\t%d\t%s\n",
			region.Name,
			region.First,
			region.Last,
			humanize.IBytes(uint64(region.Sectors())*fdisk.SectorSize),
		)
	}
	return tw.Flush()
}

func printSteps(output io.Writer, steps []format.Step) error {
	tw := tabwriter.NewWriter(output, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "ACTION\tPHASE\tFIRST\tLAST\tSECTORS")
	for _, step := range steps {
		fmt.Fprintf(
			tw,
			"%s\t%s\t%d\t%d\t%d\n",
			step.Action,
			step.Phase,
			step.First,
			step.Last,
			step.Sectors(),
		)
	}
	return tw.Flush()
}

func labelFromFlags(context *cli.Context) (sectors.VolumeLabel, error) {
	if !context.IsSet("label") {
		return sectors.DefaultVolumeLabel, nil
	}
	return sectors.NewVolumeLabel(context.String("label"))
}

func formatDevice(context *cli.Context) (err error) {
	path := context.Args().First()
	if path == "" {
		path = context.String("device")
	}
	if path == "" {
		return fdisk.ErrInvalidArgument.WithMessage("no device given")
	}

	label, err := labelFromFlags(context)
	if err != nil {
		return err
	}

	fileDevice, err := storage.OpenFile(path)
	if err != nil {
		return err
	}
	defer func() {
		closeErr := fileDevice.Close()
		if closeErr != nil {
			err = multierror.Append(err, closeErr)
		}
	}()

	var device fdisk.Device = fileDevice
	if context.Bool("dry-run") {
		totalSectors, err := fileDevice.SectorCount()
		if err != nil {
			return err
		}
		device = storage.NewTrackingDevice(totalSectors)
		logrus.Warn("dry run: nothing will be written to ", path)
	}

	formatter := format.Formatter{
		Device: device,
		Label:  label,
		Logger: logrus.WithField("device", path),
	}

	switch {
	case context.Bool("yes"):
		formatter.Confirmer = confirm.Bypass{}
	case context.Bool("screen"):
		formatter.Confirmer = confirm.NewScreen()
	default:
		fmt.Fprintf(context.App.Writer, "About to format %s.\n", path)
		formatter.Confirmer = confirm.NewPhrase(os.Stdin, context.App.Writer)
	}

	result, err := formatter.Format()
	if err != nil {
		return err
	}

	fmt.Fprintf(
		context.App.Writer,
		"Formatted %s: %s usable in %d clusters, label %q.\n",
		path,
		humanize.IBytes(result.Geometry.DataBytes()),
		result.Geometry.ClusterCount,
		label.String(),
	)
	return nil
}

func createImage(context *cli.Context) (err error) {
	outputPath := context.Args().First()
	if outputPath == "" {
		return fdisk.ErrInvalidArgument.WithMessage("no output file given")
	}

	totalSectors, ok, err := sizeFromFlags(context)
	if err != nil {
		return err
	}
	if !ok {
		return fdisk.ErrInvalidArgument.WithMessage("give the image size with --media or --sectors")
	}

	label, err := labelFromFlags(context)
	if err != nil {
		return err
	}

	imagePath := outputPath
	if context.Bool("compress") {
		scratch, err := os.CreateTemp("", "fdisk-*.img")
		if err != nil {
			return err
		}
		imagePath = scratch.Name()
		scratch.Close()
		defer os.Remove(imagePath)
	}

	err = writeFormattedImage(imagePath, totalSectors, label)
	if err != nil {
		return err
	}

	if context.Bool("compress") {
		err = compressImage(imagePath, outputPath)
		if err != nil {
			return err
		}
	}

	logrus.WithFields(logrus.Fields{
		"path":    outputPath,
		"sectors": totalSectors,
	}).Info("created image")
	return nil
}

func writeFormattedImage(path string, totalSectors uint32, label sectors.VolumeLabel) (err error) {
	device, err := storage.CreateImage(path, totalSectors)
	if err != nil {
		return err
	}
	defer func() {
		closeErr := device.Close()
		if closeErr != nil {
			err = multierror.Append(err, closeErr)
		}
	}()

	formatter := format.Formatter{
		Device: device,
		Label:  label,
		Logger: logrus.WithField("image", path),
	}
	_, err = formatter.Format()
	return err
}

func compressImage(rawPath, outputPath string) (err error) {
	input, err := os.Open(rawPath)
	if err != nil {
		return err
	}
	defer input.Close()

	output, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer func() {
		closeErr := output.Close()
		if closeErr != nil {
			err = multierror.Append(err, closeErr)
		}
	}()

	return snapshot.Save(input, output)
}

func unpackImage(context *cli.Context) (err error) {
	if context.NArg() != 2 {
		return fdisk.ErrInvalidArgument.WithMessage("expected a snapshot and an output file")
	}
	sourcePath := context.Args().Get(0)
	outputPath := context.Args().Get(1)

	input, err := os.Open(sourcePath)
	if err != nil {
		return err
	}
	defer input.Close()

	output, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer func() {
		closeErr := output.Close()
		if closeErr != nil {
			err = multierror.Append(err, closeErr)
		}
	}()

	size, err := snapshot.Load(input, output)
	if err != nil {
		return err
	}

	fmt.Fprintf(
		context.App.Writer,
		"Expanded %s to %s (%s).\n",
		sourcePath,
		outputPath,
		humanize.IBytes(uint64(size)),
	)
	return nil
}

func listMedia(context *cli.Context) error {
	tw := tabwriter.NewWriter(context.App.Writer, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "SLUG\tNAME\tSECTORS\tSIZE\tNOTES")
	for _, preset := range media.All() {
		fmt.Fprintf(
			tw,
			"%s\t%s\t%d\t%s\t%s\n",
			preset.Slug,
			preset.Name,
			preset.TotalSectors,
			preset.HumanSize(),
			preset.Notes,
		)
	}
	return tw.Flush()
}
