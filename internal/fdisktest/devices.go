// Package fdisktest provides test doubles and helpers shared by the tests of
// the other packages.
package fdisktest

import (
	"crypto/rand"
	"errors"
	"fmt"
	"testing"

	"github.com/sdkit/fdisk"
	"github.com/stretchr/testify/require"
)

// ErrInjected is returned by [FailingDevice] when it's told to fail.
var ErrInjected = errors.New("injected I/O failure")

// Operation is one call made to a [RecordingDevice]. For writes, First and
// Last are both the sector index.
type Operation struct {
	Write bool
	First uint32
	Last  uint32
}

func (op Operation) String() string {
	if op.Write {
		return fmt.Sprintf("write %d", op.First)
	}
	return fmt.Sprintf("erase %d-%d", op.First, op.Last)
}

// Contains reports whether `sector` is in the operation's range.
func (op Operation) Contains(sector uint32) bool {
	return sector >= op.First && sector <= op.Last
}

// RecordingDevice passes every call through to another device and keeps a log
// of the ones that succeeded, in order.
type RecordingDevice struct {
	fdisk.Device
	Operations []Operation
	// SizeQueries counts the calls to SectorCount.
	SizeQueries int
}

func NewRecordingDevice(device fdisk.Device) *RecordingDevice {
	return &RecordingDevice{Device: device}
}

func (d *RecordingDevice) SectorCount() (uint32, error) {
	d.SizeQueries++
	return d.Device.SectorCount()
}

func (d *RecordingDevice) WriteSector(index uint32, image []byte) error {
	err := d.Device.WriteSector(index, image)
	if err == nil {
		d.Operations = append(d.Operations, Operation{Write: true, First: index, Last: index})
	}
	return err
}

func (d *RecordingDevice) EraseSectors(first, lastInclusive uint32) error {
	err := d.Device.EraseSectors(first, lastInclusive)
	if err == nil {
		d.Operations = append(d.Operations, Operation{First: first, Last: lastInclusive})
	}
	return err
}

// Writes returns the indices of all sectors written, in order.
func (d *RecordingDevice) Writes() []uint32 {
	var writes []uint32
	for _, op := range d.Operations {
		if op.Write {
			writes = append(writes, op.First)
		}
	}
	return writes
}

// FailingDevice wraps a device and fails the Nth write or erase call (counting
// from 0) with [ErrInjected]. Calls before it go through normally.
type FailingDevice struct {
	fdisk.Device
	FailAt int
	// SizeErr, if set, is returned from SectorCount instead of the size.
	SizeErr error
	calls   int
}

func (d *FailingDevice) SectorCount() (uint32, error) {
	if d.SizeErr != nil {
		return 0, d.SizeErr
	}
	return d.Device.SectorCount()
}

func (d *FailingDevice) shouldFail() bool {
	fail := d.calls == d.FailAt
	d.calls++
	return fail
}

func (d *FailingDevice) WriteSector(index uint32, image []byte) error {
	if d.shouldFail() {
		return ErrInjected
	}
	return d.Device.WriteSector(index, image)
}

func (d *FailingDevice) EraseSectors(first, lastInclusive uint32) error {
	if d.shouldFail() {
		return ErrInjected
	}
	return d.Device.EraseSectors(first, lastInclusive)
}

// CreateRandomImage returns `totalSectors` sectors of random bytes. It's
// guaranteed to either return a valid slice or fail the test and abort.
func CreateRandomImage(t *testing.T, totalSectors uint32) []byte {
	image := make([]byte, int(totalSectors)*fdisk.SectorSize)
	_, err := rand.Read(image)
	require.NoErrorf(t, err, "failed to fill %d sectors with random bytes", totalSectors)
	return image
}
