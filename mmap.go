package heif

import (
	"os"

	"github.com/edsrzf/mmap-go"
)

// mmapFile memory-maps path read-only and returns its bytes plus a closer
// that unmaps and closes the underlying file handle, grounded on
// saferwall-pe's file.go (opens *os.File, mmap.Map(f, mmap.RDONLY, 0)).
func mmapFile(path string) ([]byte, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	closer := func() error {
		unmapErr := m.Unmap()
		closeErr := f.Close()
		if unmapErr != nil {
			return unmapErr
		}
		return closeErr
	}
	return []byte(m), closer, nil
}
