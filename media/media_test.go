package media_test

import (
	"testing"

	"github.com/sdkit/fdisk"
	"github.com/sdkit/fdisk/geometry"
	"github.com/sdkit/fdisk/media"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	preset, err := media.Lookup("image-32m")
	require.NoError(t, err)
	assert.EqualValues(t, 65536, preset.TotalSectors)
	assert.EqualValues(t, 32<<20, preset.SizeBytes())
	assert.Equal(t, "32 MiB", preset.HumanSize())

	preset, err = media.Lookup("max-32bit")
	require.NoError(t, err)
	assert.EqualValues(t, uint32(1<<32-1), preset.TotalSectors)
}

func TestLookup__SDHC8G(t *testing.T) {
	preset, err := media.Lookup("sdhc-8g")
	require.NoError(t, err)
	assert.EqualValues(t, 15625000, preset.TotalSectors)

	_, err = media.Lookup("sd-8g")
	assert.ErrorIs(t, err, fdisk.ErrInvalidArgument)
}

func TestLookup__Missing(t *testing.T) {
	_, err := media.Lookup("floppy-1440k")
	assert.ErrorIs(t, err, fdisk.ErrInvalidArgument)
}

func TestAll__SortedAndComplete(t *testing.T) {
	all := media.All()
	require.NotEmpty(t, all)

	seen := map[string]bool{}
	for i, preset := range all {
		assert.NotEmpty(t, preset.Slug)
		assert.NotEmpty(t, preset.Name)
		assert.Falsef(t, seen[preset.Slug], "duplicate slug %q", preset.Slug)
		seen[preset.Slug] = true

		if i > 0 {
			assert.LessOrEqual(t, all[i-1].TotalSectors, preset.TotalSectors, "presets aren't sorted")
		}
	}
}

// Callers can't modify the table through the slice they get back.
func TestAll__ReturnsCopy(t *testing.T) {
	first := media.All()
	first[0].TotalSectors = 1

	second := media.All()
	assert.NotEqualValues(t, 1, second[0].TotalSectors)
}

// Every preset must be formattable.
func TestAll__Plannable(t *testing.T) {
	for _, preset := range media.All() {
		_, err := geometry.Plan(preset.TotalSectors)
		assert.NoErrorf(t, err, "can't plan a layout for %s", preset.Slug)
	}
}
