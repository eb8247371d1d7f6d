// Package media lists the sizes of common storage media, so layouts can be
// planned without the device at hand.
package media

import (
	_ "embed"
	"encoding/csv"
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gocarina/gocsv"
	"github.com/sdkit/fdisk"
)

// Preset is a named device size.
type Preset struct {
	Slug         string `csv:"slug"`
	Name         string `csv:"name"`
	TotalSectors uint32 `csv:"total_sectors"`
	Notes        string `csv:"notes"`
}

// SizeBytes gives the size of the device in bytes.
func (p Preset) SizeBytes() uint64 {
	return uint64(p.TotalSectors) * fdisk.SectorSize
}

// HumanSize gives the size of the device in binary units, e.g. "7.5 GiB".
func (p Preset) HumanSize() string {
	return humanize.IBytes(p.SizeBytes())
}

//go:embed media.csv
var presetsRawCSV string
var presets map[string]Preset
var presetsBySize []Preset

// Lookup returns the preset with the given slug.
func Lookup(slug string) (Preset, error) {
	preset, ok := presets[slug]
	if ok {
		return preset, nil
	}
	return Preset{}, fdisk.ErrInvalidArgument.WithMessage(
		fmt.Sprintf("no media preset exists with slug %q", slug))
}

// All returns every preset, smallest first.
func All() []Preset {
	return append([]Preset(nil), presetsBySize...)
}

func init() {
	csvReader := csv.NewReader(strings.NewReader(presetsRawCSV))
	csvReader.Comma = '|'

	var rows []Preset
	err := gocsv.UnmarshalCSV(csvReader, &rows)
	if err != nil {
		panic(fmt.Errorf("failed to decode media presets: %w", err))
	}

	presets = make(map[string]Preset, len(rows))
	for i, row := range rows {
		_, exists := presets[row.Slug]
		if exists {
			panic(fmt.Errorf("duplicate definition for media %q found on row %d", row.Slug, i+1))
		}
		presets[row.Slug] = row
	}

	presetsBySize = rows
	sort.SliceStable(presetsBySize, func(i, j int) bool {
		return presetsBySize[i].TotalSectors < presetsBySize[j].TotalSectors
	})
}
