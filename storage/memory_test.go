package storage_test

import (
	"bytes"
	"testing"

	"github.com/sdkit/fdisk"
	"github.com/sdkit/fdisk/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryDevice__WriteAndErase(t *testing.T) {
	device := storage.NewMemoryDevice(32)

	sector := bytes.Repeat([]byte{0x42}, fdisk.SectorSize)
	require.NoError(t, device.WriteSector(4, sector))
	require.NoError(t, device.WriteSector(5, sector))

	readBack, err := device.Sector(4)
	require.NoError(t, err)
	assert.Equal(t, sector, readBack)

	assert.True(t, device.WasWritten(4))
	assert.True(t, device.WasWritten(5))
	assert.False(t, device.WasErased(4))
	assert.False(t, device.WasWritten(6))

	require.NoError(t, device.EraseSectors(5, 9))
	assert.True(t, device.WasWritten(4))
	assert.False(t, device.WasWritten(5), "erased sector still marked as written")
	assert.True(t, device.WasErased(5))
	assert.True(t, device.WasErased(9))
	assert.False(t, device.WasErased(10))

	readBack, err = device.Sector(5)
	require.NoError(t, err)
	assert.Equal(t, make([]byte, fdisk.SectorSize), readBack)

	assert.EqualValues(t, 2, device.SectorsWritten())
	assert.EqualValues(t, 5, device.SectorsErased())
}

func TestMemoryDevice__SectorIsACopy(t *testing.T) {
	device := storage.NewMemoryDevice(2)
	sector, err := device.Sector(1)
	require.NoError(t, err)

	sector[0] = 0xff
	assert.EqualValues(t, 0, device.Image()[512])
}

func TestMemoryDevice__OutOfRange(t *testing.T) {
	device := storage.NewMemoryDevice(8)
	sector := make([]byte, fdisk.SectorSize)

	assert.ErrorIs(t, device.WriteSector(8, sector), fdisk.ErrOutOfRange)
	assert.ErrorIs(t, device.EraseSectors(4, 8), fdisk.ErrOutOfRange)
	_, err := device.Sector(8)
	assert.ErrorIs(t, err, fdisk.ErrOutOfRange)

	assert.EqualValues(t, 0, device.SectorsWritten())
	assert.EqualValues(t, 0, device.SectorsErased())
}

func TestMemoryDevice__EraseEmptyRangeIsNoOp(t *testing.T) {
	device := storage.NewMemoryDevice(8)
	assert.NoError(t, device.EraseSectors(5, 4))
	assert.EqualValues(t, 0, device.SectorsErased())
	for i := uint32(0); i < 8; i++ {
		assert.False(t, device.WasErased(i))
	}
}

func TestMemoryDevice__FromImage(t *testing.T) {
	image := bytes.Repeat([]byte{0xee}, 4*fdisk.SectorSize)
	device, err := storage.NewMemoryDeviceFromImage(image)
	require.NoError(t, err)

	count, err := device.SectorCount()
	require.NoError(t, err)
	assert.EqualValues(t, 4, count)

	require.NoError(t, device.EraseSectors(1, 1))
	assert.Equal(t, make([]byte, fdisk.SectorSize), image[512:1024], "image wasn't used directly")

	_, err = storage.NewMemoryDeviceFromImage(make([]byte, 1000))
	assert.ErrorIs(t, err, fdisk.ErrInvalidArgument)
}

// A tracking device can pretend to be far bigger than memory allows.
func TestTrackingDevice__Huge(t *testing.T) {
	device := storage.NewTrackingDevice(1<<32 - 1)

	count, err := device.SectorCount()
	require.NoError(t, err)
	assert.EqualValues(t, uint32(1<<32-1), count)
	assert.Nil(t, device.Image())

	sector := bytes.Repeat([]byte{1}, fdisk.SectorSize)
	require.NoError(t, device.WriteSector(2048, sector))
	require.NoError(t, device.WriteSector(1<<32-2, sector))
	require.NoError(t, device.EraseSectors(1, 2047))

	assert.True(t, device.WasWritten(2048))
	assert.True(t, device.WasErased(2047))
	assert.False(t, device.WasWritten(1<<32-2), "sectors past the tracked range aren't tracked")
	assert.EqualValues(t, 2, device.SectorsWritten())
	assert.EqualValues(t, 2047, device.SectorsErased())

	readBack, err := device.Sector(2048)
	require.NoError(t, err)
	assert.Equal(t, make([]byte, fdisk.SectorSize), readBack)
}
