//go:build !linux

package storage

import "os"

func deviceSize(file *os.File) (int64, error) {
	return seekSize(file)
}
