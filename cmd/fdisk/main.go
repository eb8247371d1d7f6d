package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func newApp() *cli.App {
	return &cli.App{
		Name:  "fdisk",
		Usage: "Partition and format SD cards and disk images as a single FAT32 volume",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log every sector written or erased",
			},
		},
		Before: func(context *cli.Context) error {
			if context.Bool("verbose") {
				logrus.SetLevel(logrus.DebugLevel)
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "plan",
				Usage:     "Show the FAT32 layout for a device without writing anything",
				ArgsUsage: "[DEVICE]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "media",
						Usage: "plan for a media preset instead of a device (see `fdisk media`)",
					},
					&cli.Uint64Flag{
						Name:  "sectors",
						Usage: "plan for a device with this many 512-byte sectors",
					},
					&cli.BoolFlag{
						Name:  "steps",
						Usage: "list every write and erase instead of the regions",
					},
					&cli.BoolFlag{
						Name:  "csv",
						Usage: "print the regions (or steps) as CSV",
					},
				},
				Action: planLayout,
			},
			{
				Name:      "format",
				Usage:     "Partition and format a device or image file",
				ArgsUsage: "DEVICE",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "device",
						Usage:   "device or image file to format, if not given as an argument",
						EnvVars: []string{"FDISK_DEVICE"},
					},
					&cli.StringFlag{
						Name:    "label",
						Usage:   "volume label, up to 11 characters",
						EnvVars: []string{"FDISK_LABEL"},
					},
					&cli.BoolFlag{
						Name:    "yes",
						Usage:   "don't ask for confirmation",
						EnvVars: []string{"FDISK_YES"},
					},
					&cli.BoolFlag{
						Name:  "screen",
						Usage: "ask for confirmation in a full-screen prompt",
					},
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "go through the whole format without writing to the device",
					},
				},
				Action: formatDevice,
			},
			{
				Name:      "image",
				Usage:     "Create a freshly formatted image file",
				ArgsUsage: "OUTPUT",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "media",
						Usage: "size the image after a media preset",
					},
					&cli.Uint64Flag{
						Name:  "sectors",
						Usage: "size of the image in 512-byte sectors",
					},
					&cli.StringFlag{
						Name:    "label",
						Usage:   "volume label, up to 11 characters",
						EnvVars: []string{"FDISK_LABEL"},
					},
					&cli.BoolFlag{
						Name:  "compress",
						Usage: "write a compressed snapshot instead of a raw image",
					},
				},
				Action: createImage,
			},
			{
				Name:      "unpack",
				Usage:     "Expand a compressed snapshot into a raw image",
				ArgsUsage: "SNAPSHOT OUTPUT",
				Action:    unpackImage,
			},
			{
				Name:   "media",
				Usage:  "List the media presets",
				Action: listMedia,
			},
		},
	}
}

func main() {
	err := newApp().Run(os.Args)
	if err != nil {
		logrus.Fatalf("fatal error: %s", err.Error())
	}
}
