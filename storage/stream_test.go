package storage_test

import (
	"bytes"
	"testing"

	"github.com/sdkit/fdisk"
	"github.com/sdkit/fdisk/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/bytesextra"
)

func newStreamDevice(t *testing.T, totalSectors uint32, fill byte) (*storage.StreamDevice, []byte) {
	image := bytes.Repeat([]byte{fill}, int(totalSectors)*fdisk.SectorSize)
	device, err := storage.WrapStream(bytesextra.NewReadWriteSeeker(image))
	require.NoError(t, err)
	return device, image
}

func TestStreamDevice__SectorCount(t *testing.T) {
	device, _ := newStreamDevice(t, 37, 0)
	count, err := device.SectorCount()
	require.NoError(t, err)
	assert.EqualValues(t, 37, count)
}

// A trailing partial sector isn't addressable.
func TestStreamDevice__PartialSectorIgnored(t *testing.T) {
	image := make([]byte, 10*fdisk.SectorSize+100)
	device, err := storage.WrapStream(bytesextra.NewReadWriteSeeker(image))
	require.NoError(t, err)

	count, err := device.SectorCount()
	require.NoError(t, err)
	assert.EqualValues(t, 10, count)
}

func TestStreamDevice__WriteThenRead(t *testing.T) {
	device, image := newStreamDevice(t, 16, 0)

	sector := bytes.Repeat([]byte{0x5a}, fdisk.SectorSize)
	require.NoError(t, device.WriteSector(3, sector))

	readBack := make([]byte, fdisk.SectorSize)
	require.NoError(t, device.ReadSector(3, readBack))
	assert.Equal(t, sector, readBack)

	assert.Equal(t, sector, image[3*512:4*512], "write didn't reach the stream")
	assert.Equal(t, make([]byte, 512), image[2*512:3*512], "previous sector modified")
	assert.Equal(t, make([]byte, 512), image[4*512:5*512], "next sector modified")
}

func TestStreamDevice__WriteFromSectorBuffer(t *testing.T) {
	device, image := newStreamDevice(t, 4, 0)

	buffer := device.SectorBuffer()
	require.Len(t, buffer, fdisk.SectorSize)
	buffer[0] = 0xeb
	buffer[511] = 0xaa

	require.NoError(t, device.WriteSector(1, buffer))
	assert.EqualValues(t, 0xeb, image[512])
	assert.EqualValues(t, 0xaa, image[1023])
}

func TestStreamDevice__WriteOutOfRange(t *testing.T) {
	device, _ := newStreamDevice(t, 16, 0)
	sector := make([]byte, fdisk.SectorSize)

	assert.NoError(t, device.WriteSector(15, sector))
	assert.ErrorIs(t, device.WriteSector(16, sector), fdisk.ErrOutOfRange)
	assert.ErrorIs(t, device.ReadSector(16, sector), fdisk.ErrOutOfRange)
}

func TestStreamDevice__WrongImageSize(t *testing.T) {
	device, _ := newStreamDevice(t, 16, 0)
	assert.ErrorIs(t, device.WriteSector(0, make([]byte, 511)), fdisk.ErrInvalidArgument)
	assert.ErrorIs(t, device.ReadSector(0, make([]byte, 513)), fdisk.ErrInvalidArgument)
}

func TestStreamDevice__Erase(t *testing.T) {
	device, image := newStreamDevice(t, 16, 0xff)

	require.NoError(t, device.EraseSectors(2, 5))

	assert.Equal(t, bytes.Repeat([]byte{0xff}, 2*512), image[:2*512])
	assert.Equal(t, make([]byte, 4*512), image[2*512:6*512])
	assert.Equal(t, bytes.Repeat([]byte{0xff}, 10*512), image[6*512:])
}

// Erasing more than one chunk at a time must cover the whole range.
func TestStreamDevice__EraseAcrossChunks(t *testing.T) {
	device, image := newStreamDevice(t, 5000, 0xff)

	require.NoError(t, device.EraseSectors(1, 4998))

	assert.EqualValues(t, 0xff, image[511])
	assert.Equal(t, make([]byte, 4998*512), image[512:4999*512])
	assert.EqualValues(t, 0xff, image[4999*512])
}

func TestStreamDevice__EraseEmptyRangeIsNoOp(t *testing.T) {
	device, image := newStreamDevice(t, 16, 0xff)

	assert.NoError(t, device.EraseSectors(9, 8))
	// Even an empty range with bogus bounds is fine.
	assert.NoError(t, device.EraseSectors(1000, 999))
	assert.Equal(t, bytes.Repeat([]byte{0xff}, 16*512), image)
}

func TestStreamDevice__EraseOutOfRange(t *testing.T) {
	device, image := newStreamDevice(t, 16, 0xff)

	assert.ErrorIs(t, device.EraseSectors(10, 16), fdisk.ErrOutOfRange)
	assert.Equal(t, bytes.Repeat([]byte{0xff}, 16*512), image, "failed erase touched the image")
}

func TestSectorsInBytes(t *testing.T) {
	count, err := storage.SectorsInBytes(1 << 30)
	require.NoError(t, err)
	assert.EqualValues(t, 2097152, count)

	count, err = storage.SectorsInBytes((1<<32 - 1) * 512)
	require.NoError(t, err)
	assert.EqualValues(t, uint32(1<<32-1), count)

	_, err = storage.SectorsInBytes(1 << 32 * 512)
	assert.ErrorIs(t, err, fdisk.ErrDeviceUnavailable)

	_, err = storage.SectorsInBytes(-1)
	assert.ErrorIs(t, err, fdisk.ErrDeviceUnavailable)
}
