//go:build unix

// Package mmfile provides platform-specific helpers for memory-mapping
// arena regions.
package mmfile

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// MapAnon creates a private anonymous read-write mapping of size bytes for
// use as an arena region. When locked is true the pages are pinned resident
// with mlock so allocation paths never take a page fault.
func MapAnon(size int, locked bool) ([]byte, func() error, error) {
	if size <= 0 {
		return nil, nil, fmt.Errorf("mmfile: invalid mapping size %d", size)
	}
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, nil, err
	}
	if locked {
		if err := unix.Mlock(data); err != nil {
			_ = unix.Munmap(data)
			return nil, nil, fmt.Errorf("mmfile: mlock: %w", err)
		}
	}
	return data, unmapper(data, locked), nil
}

// Map maps the file or shm object at path read-write and shared, so stores
// through the returned bytes land in the underlying pages. This is the
// backing for regions placed onto externally provided memory.
func Map(path string) ([]byte, func() error, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close() // safe before return; mapping keeps pages alive

	info, err := f.Stat()
	if err != nil {
		return nil, nil, err
	}
	size := info.Size()
	if size == 0 {
		return []byte{}, func() error { return nil }, nil
	}
	if size > int64(^uint(0)>>1) {
		return nil, nil, fmt.Errorf("mmfile: file too large to map (%d bytes)", size)
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, nil, err
	}
	return data, unmapper(data, false), nil
}

func unmapper(data []byte, locked bool) func() error {
	unmapped := false
	return func() error {
		if unmapped || data == nil {
			return nil
		}
		unmapped = true
		if locked {
			_ = unix.Munlock(data)
		}
		err := unix.Munmap(data)
		if errors.Is(err, unix.EINVAL) {
			// Treat double-unmap as no-op for callers.
			return nil
		}
		return err
	}
}
