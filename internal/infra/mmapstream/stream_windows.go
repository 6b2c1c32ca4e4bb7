//go:build windows
// +build windows

package mmapstream

import (
	"os"
	"unsafe"

	"golang.org/x/sys/windows"
)

type windowsMapping struct {
	handle windows.Handle
	addr   uintptr
	data   []byte
}

func (m *windowsMapping) bytes() []byte { return m.data }

func (m *windowsMapping) close() error {
	if err := windows.UnmapViewOfFile(m.addr); err != nil {
		return err
	}
	return windows.CloseHandle(m.handle)
}

func mapFile(f *os.File, capacity int) (mapping, error) {
	handle, err := windows.CreateFileMapping(windows.Handle(f.Fd()), nil, windows.PAGE_READWRITE, 0, uint32(capacity), nil)
	if err != nil {
		return nil, err
	}

	addr, err := windows.MapViewOfFile(handle, windows.FILE_MAP_WRITE, 0, 0, uintptr(capacity))
	if err != nil {
		windows.CloseHandle(handle)
		return nil, err
	}

	data := unsafe.Slice((*byte)(unsafe.Pointer(addr)), capacity)
	return &windowsMapping{handle: handle, addr: addr, data: data}, nil
}
