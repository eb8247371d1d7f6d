package snapshot

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// maxRunLength is the longest run one RLE8 group can describe.
const maxRunLength = 257

// RLE8Writer run-length encodes everything written to it. [RLE8Writer.Close]
// must be called to flush the final run; it doesn't close the underlying
// writer.
type RLE8Writer struct {
	output       io.Writer
	runByte      byte
	runLength    int
	bytesWritten int64
}

func NewRLE8Writer(output io.Writer) *RLE8Writer {
	return &RLE8Writer{output: output}
}

func (w *RLE8Writer) Write(data []byte) (int, error) {
	for i, b := range data {
		if w.runLength > 0 && b == w.runByte {
			w.runLength++
			continue
		}

		err := w.flushRun()
		if err != nil {
			return i, err
		}
		w.runByte = b
		w.runLength = 1
	}
	return len(data), nil
}

// Close writes out the pending run.
func (w *RLE8Writer) Close() error {
	return w.flushRun()
}

// BytesWritten gives the number of encoded bytes written to the output so far.
func (w *RLE8Writer) BytesWritten() int64 {
	return w.bytesWritten
}

func (w *RLE8Writer) flushRun() error {
	for w.runLength >= 2 {
		groupLength := min(w.runLength, maxRunLength)
		err := w.emit(w.runByte, w.runByte, byte(groupLength-2))
		if err != nil {
			return err
		}
		w.runLength -= groupLength
	}

	if w.runLength == 1 {
		w.runLength = 0
		return w.emit(w.runByte)
	}
	return nil
}

func (w *RLE8Writer) emit(group ...byte) error {
	n, err := w.output.Write(group)
	w.bytesWritten += int64(n)
	return err
}

// CompressRLE8 encodes everything from `input` into `output` and returns the
// number of encoded bytes written.
func CompressRLE8(input io.Reader, output io.Writer) (int64, error) {
	writer := NewRLE8Writer(output)
	_, err := io.Copy(writer, input)
	if err != nil {
		return writer.BytesWritten(), err
	}

	err = writer.Close()
	return writer.BytesWritten(), err
}

// DecompressRLE8 decodes RLE8 data from `input` until it's exhausted and
// writes the result to `output`. It returns the number of decoded bytes
// written. Input that ends in the middle of a group fails with an error
// wrapping [io.ErrUnexpectedEOF].
func DecompressRLE8(input io.Reader, output io.Writer) (int64, error) {
	source := bufio.NewReader(input)
	sink := bufio.NewWriter(output)
	total := int64(0)

	// previous is the last literal byte, or -1 right after a complete group.
	previous := -1

	for {
		current, err := source.ReadByte()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return total, fmt.Errorf("error reading input: %w", err)
		}

		if int(current) != previous {
			err = sink.WriteByte(current)
			if err != nil {
				return total, err
			}
			total++
			previous = int(current)
			continue
		}

		// Second copy of the byte. The next byte says how many more follow.
		extra, err := source.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return total, fmt.Errorf("missing repeat count after two %#02x bytes: %w", current, err)
		}

		for i := 0; i < int(extra)+1; i++ {
			err = sink.WriteByte(current)
			if err != nil {
				return total, err
			}
		}
		total += int64(extra) + 1
		previous = -1
	}

	return total, sink.Flush()
}
