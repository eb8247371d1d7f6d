package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sdkit/fdisk"
	"github.com/sdkit/fdisk/internal/fdisktest"
	"github.com/sdkit/fdisk/snapshot"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the CLI with the given arguments and returns what it printed.
func run(t *testing.T, args ...string) (string, error) {
	logger := logrus.StandardLogger()
	previous := logger.Out
	logger.SetOutput(io.Discard)
	t.Cleanup(func() { logger.SetOutput(previous) })

	var output bytes.Buffer
	app := newApp()
	app.Writer = &output
	app.ErrWriter = &output

	err := app.Run(append([]string{"fdisk"}, args...))
	return output.String(), err
}

func loadGolden(t *testing.T, name string) []byte {
	file, err := os.Open(filepath.Join("..", "..", "format", "testdata", name))
	require.NoError(t, err)
	defer file.Close()

	image, err := snapshot.LoadBytes(file)
	require.NoError(t, err)
	return image
}

func TestPlan__RegionsCSV(t *testing.T) {
	output, err := run(t, "plan", "--sectors", "65536", "--csv")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(output), "\n")
	assert.Equal(t, "region,first_sector,last_sector", lines[0])
	assert.Contains(t, lines, "mbr,0,0")
	assert.Contains(t, lines, "fat #1,2616,2677")
	assert.Contains(t, lines, "fat #2,2678,2739")
}

func TestPlan__Media(t *testing.T) {
	output, err := run(t, "plan", "--media", "image-32m")
	require.NoError(t, err)

	assert.Contains(t, output, "7851 (0x1eab) clusters, 62 sectors per FAT, 568 reserved sectors")
	assert.Contains(t, output, "REGION")
	assert.Contains(t, output, "root directory cluster")
}

func TestPlan__Steps(t *testing.T) {
	output, err := run(t, "plan", "--sectors", "65536", "--steps", "--csv")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(output), "\n")
	require.Len(t, lines, 15)
	assert.Equal(t, "write,mbr,0,0", lines[1])
	assert.Equal(t, "write,root directory,2740,2740", lines[9])
}

func TestPlan__ConflictingSizes(t *testing.T) {
	_, err := run(t, "plan", "--media", "image-32m", "--sectors", "65536")
	assert.ErrorIs(t, err, fdisk.ErrInvalidArgument)
}

func TestPlan__NoSize(t *testing.T) {
	_, err := run(t, "plan")
	assert.ErrorIs(t, err, fdisk.ErrInvalidArgument)
}

func TestPlan__TooSmall(t *testing.T) {
	_, err := run(t, "plan", "--sectors", "2616")
	assert.ErrorIs(t, err, fdisk.ErrDeviceTooSmall)
}

func TestPlan__UnknownMedia(t *testing.T) {
	_, err := run(t, "plan", "--media", "floppy")
	assert.ErrorIs(t, err, fdisk.ErrInvalidArgument)
}

func TestFormat__ImageFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "card.img")
	require.NoError(t, os.WriteFile(path, fdisktest.CreateRandomImage(t, 2640), 0o644))

	output, err := run(t, "format", "--yes", path)
	require.NoError(t, err)
	assert.Contains(t, output, `label "M.E.G.A.65!"`)

	image, err := os.ReadFile(path)
	require.NoError(t, err)

	// Only the structural sectors are defined; everything else keeps its
	// random contents, so compare the sectors the golden image says are set.
	golden := loadGolden(t, "fat32-2640.img.gz")
	for _, sector := range []int{0, 2048, 2049, 2054, 2055, 2616, 2617, 2618, 2619} {
		offset := sector * fdisk.SectorSize
		assert.Equalf(
			t,
			golden[offset:offset+fdisk.SectorSize],
			image[offset:offset+fdisk.SectorSize],
			"sector %d differs",
			sector,
		)
	}
}

func TestFormat__DryRunWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "card.img")
	original := fdisktest.CreateRandomImage(t, 2640)
	require.NoError(t, os.WriteFile(path, original, 0o644))

	_, err := run(t, "format", "--yes", "--dry-run", path)
	require.NoError(t, err)

	image, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(original, image), "dry run modified the image")
}

func TestFormat__BadLabel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "card.img")
	require.NoError(t, os.WriteFile(path, make([]byte, 2640*fdisk.SectorSize), 0o644))

	_, err := run(t, "format", "--yes", "--label", "much too long for fat", path)
	assert.ErrorIs(t, err, fdisk.ErrInvalidArgument)
}

func TestFormat__NoDevice(t *testing.T) {
	_, err := run(t, "format", "--yes")
	assert.ErrorIs(t, err, fdisk.ErrInvalidArgument)
}

func TestImage__Raw(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fresh.img")

	_, err := run(t, "image", "--media", "image-32m", path)
	require.NoError(t, err)

	image, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, loadGolden(t, "fat32-65536.img.gz"), image)
}

func TestImage__CompressedThenUnpacked(t *testing.T) {
	dir := t.TempDir()
	snapshotPath := filepath.Join(dir, "fresh.img.gz")
	rawPath := filepath.Join(dir, "fresh.img")

	_, err := run(t, "image", "--sectors", "2640", "--compress", snapshotPath)
	require.NoError(t, err)

	output, err := run(t, "unpack", snapshotPath, rawPath)
	require.NoError(t, err)
	assert.Contains(t, output, "1.3 MiB")

	image, err := os.ReadFile(rawPath)
	require.NoError(t, err)
	assert.Equal(t, loadGolden(t, "fat32-2640.img.gz"), image)
}

func TestUnpack__WrongArgumentCount(t *testing.T) {
	_, err := run(t, "unpack", "only-one")
	assert.ErrorIs(t, err, fdisk.ErrInvalidArgument)
}

func TestMedia(t *testing.T) {
	output, err := run(t, "media")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(output), "\n")
	assert.True(t, strings.HasPrefix(lines[0], "SLUG"))
	assert.True(t, strings.HasPrefix(lines[1], "image-32m"))
	assert.Contains(t, output, "sdhc-32g")
}
