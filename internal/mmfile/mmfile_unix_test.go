//go:build unix

package mmfile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMapAnon(t *testing.T) {
	data, cleanup, err := MapAnon(4096, false)
	if err != nil {
		t.Fatalf("MapAnon: %v", err)
	}
	if len(data) != 4096 {
		t.Fatalf("len mismatch: got %d want 4096", len(data))
	}
	// Anonymous mappings start zeroed and must be writable.
	for i, b := range data {
		if b != 0 {
			t.Fatalf("byte %d not zeroed: 0x%x", i, b)
		}
	}
	data[0], data[4095] = 0xa5, 0x5a
	if data[0] != 0xa5 || data[4095] != 0x5a {
		t.Fatalf("mapping not writable")
	}
	if err := cleanup(); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if err := cleanup(); err != nil {
		t.Fatalf("second cleanup should be a no-op: %v", err)
	}
}

func TestMapAnonRejectsBadSize(t *testing.T) {
	if _, _, err := MapAnon(0, false); err == nil {
		t.Fatalf("expected error for zero size")
	}
	if _, _, err := MapAnon(-1, false); err == nil {
		t.Fatalf("expected error for negative size")
	}
}

func TestMapReadWriteUnix(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping mmap test in short mode")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "region.bin")
	if err := os.WriteFile(path, make([]byte, 4096), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	data, cleanup, err := Map(path)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	if len(data) != 4096 {
		t.Fatalf("len mismatch: got %d want 4096", len(data))
	}

	// Stores through the mapping must reach the underlying file.
	copy(data, []byte{0xde, 0xad, 0xbe, 0xef})
	if err := cleanup(); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	for i, b := range []byte{0xde, 0xad, 0xbe, 0xef} {
		if got[i] != b {
			t.Fatalf("byte %d mismatch after unmap: got 0x%x want 0x%x", i, got[i], b)
		}
	}
}

func TestMapZeroLengthUnix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.bin")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	data, cleanup, err := Map(path)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	if len(data) != 0 {
		t.Fatalf("expected zero-length mapping, got %d", len(data))
	}
	if cleanup == nil {
		t.Fatalf("expected cleanup function")
	}
	if cleanupErr := cleanup(); cleanupErr != nil {
		t.Fatalf("cleanup: %v", cleanupErr)
	}
}
