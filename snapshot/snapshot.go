package snapshot

import (
	"bytes"
	"compress/gzip"
	"io"

	"github.com/hashicorp/go-multierror"
)

// Save compresses the image read from `image` and writes the snapshot to
// `output`.
func Save(image io.Reader, output io.Writer) error {
	gzWriter, err := gzip.NewWriterLevel(output, gzip.BestCompression)
	if err != nil {
		return err
	}

	_, err = CompressRLE8(image, gzWriter)
	closeErr := gzWriter.Close()
	if err != nil || closeErr != nil {
		return multierror.Append(err, closeErr).ErrorOrNil()
	}
	return nil
}

// Load decompresses a snapshot from `input` into `output`, returning the size
// of the image.
func Load(input io.Reader, output io.Writer) (int64, error) {
	gzReader, err := gzip.NewReader(input)
	if err != nil {
		return 0, err
	}
	defer gzReader.Close()

	return DecompressRLE8(gzReader, output)
}

// LoadBytes decompresses a snapshot into memory.
func LoadBytes(input io.Reader) ([]byte, error) {
	var image bytes.Buffer
	_, err := Load(input, &image)
	if err != nil {
		return nil, err
	}
	return image.Bytes(), nil
}
