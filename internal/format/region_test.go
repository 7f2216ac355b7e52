package format

import (
	"errors"
	"testing"
)

func TestHeaderRoundTrip(t *testing.T) {
	buf := make([]byte, MinRegionSize)
	want := Header{Head: RegionHeaderSize, Capacity: uint64(len(buf) - RegionHeaderSize)}
	if err := WriteHeader(buf, want); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}

	got, err := ParseHeader(buf)
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if got != want {
		t.Fatalf("header mismatch: got %+v want %+v", got, want)
	}
}

func TestParseHeaderErrors(t *testing.T) {
	if _, err := ParseHeader(make([]byte, RegionHeaderSize-1)); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected truncated error, got %v", err)
	}

	buf := make([]byte, MinRegionSize)
	if _, err := ParseHeader(buf); !errors.Is(err, ErrSignatureMismatch) {
		t.Fatalf("expected signature error, got %v", err)
	}

	if err := WriteHeader(buf, Header{Head: RegionHeaderSize, Capacity: 32}); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}
	buf[RegionCapacityOffset]++ // clobber a sealed field
	if _, err := ParseHeader(buf); !errors.Is(err, ErrChecksum) {
		t.Fatalf("expected checksum error, got %v", err)
	}
}

func TestParseHeaderRejectsOversizedCapacity(t *testing.T) {
	buf := make([]byte, MinRegionSize)
	if err := WriteHeader(buf, Header{Head: RegionHeaderSize, Capacity: uint64(len(buf))}); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}
	if _, err := ParseHeader(buf); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected truncated error for capacity past region end, got %v", err)
	}
}
