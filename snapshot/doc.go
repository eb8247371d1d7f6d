// Package snapshot stores whole device images in a compact form.
//
// A freshly formatted device is almost entirely zeroes: a 32 GiB card holds
// only a few megabytes of FATs and a handful of other sectors. Snapshots
// run-length encode the raw image and gzip the result, which shrinks such an
// image to a few hundred bytes. This is used for test fixtures and for
// shipping pre-formatted images.
//
// The run-length encoding is RLE8, the scheme used by BMP files: a byte B that
// occurs N >= 2 times in a row is written as B B (N-2), and a byte that occurs
// once is written as itself. Runs longer than 257 bytes are split, so
//
//	W XXXXXXXXXXXXXXX Y ZZ
//
// encodes as
//
//	W X X 13 Y Z Z 0
package snapshot
