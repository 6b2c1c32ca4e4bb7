//go:build !windows
// +build !windows

package mmapstream

import (
	"os"

	"golang.org/x/sys/unix"
)

type unixMapping struct {
	data []byte
}

func (m *unixMapping) bytes() []byte { return m.data }

func (m *unixMapping) close() error {
	return unix.Munmap(m.data)
}

func mapFile(f *os.File, capacity int) (mapping, error) {
	data, err := unix.Mmap(int(f.Fd()), 0, capacity, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, err
	}
	return &unixMapping{data: data}, nil
}
