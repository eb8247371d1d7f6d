// Package sectors builds the byte images of the structural sectors of a
// single-partition FAT32 disk.
//
// Every builder writes into a [Canvas], a single reusable sector-sized buffer,
// clearing it first so nothing from the previous sector leaks through. The
// builders do no I/O; callers hand [Canvas.Bytes] to the device afterwards.
package sectors

import (
	"fmt"
	"io"

	"github.com/noxer/bytewriter"
	"github.com/sdkit/fdisk"
)

// Canvas is the buffer holding the next sector to be written.
type Canvas interface {
	// Bytes returns the canvas' storage. It's always exactly [fdisk.SectorSize]
	// bytes, and the same slice is returned on every call.
	Bytes() []byte
	// Clear sets every byte of the canvas to zero.
	Clear()
}

// HeapCanvas is a [Canvas] that owns its buffer.
type HeapCanvas struct {
	buffer [fdisk.SectorSize]byte
}

func NewHeapCanvas() *HeapCanvas {
	return &HeapCanvas{}
}

func (c *HeapCanvas) Bytes() []byte {
	return c.buffer[:]
}

func (c *HeapCanvas) Clear() {
	clear(c.buffer[:])
}

// MappedCanvas is a [Canvas] over a buffer owned by someone else, typically a
// device's own sector buffer (see [fdisk.SectorBufferProvider]). Building a
// sector then writes straight into the device's memory and no copy is needed
// when the sector is written out.
type MappedCanvas struct {
	window []byte
}

// NewMappedCanvas wraps `window`, which must be exactly one sector long. The
// canvas aliases `window`; it doesn't copy it.
func NewMappedCanvas(window []byte) (*MappedCanvas, error) {
	if len(window) != fdisk.SectorSize {
		return nil, fdisk.ErrInvalidArgument.WithMessage(
			fmt.Sprintf(
				"mapped sector buffer must be %d bytes, got %d",
				fdisk.SectorSize,
				len(window),
			),
		)
	}
	return &MappedCanvas{window: window}, nil
}

func (c *MappedCanvas) Bytes() []byte {
	return c.window
}

func (c *MappedCanvas) Clear() {
	clear(c.window)
}

// fieldAt returns a writer positioned at `offset` bytes into the canvas.
// Writing past the end of the sector fails instead of growing the buffer.
func fieldAt(canvas Canvas, offset int) io.Writer {
	return bytewriter.New(canvas.Bytes()[offset:])
}
