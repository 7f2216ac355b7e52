// Package strbuf implements byte strings over pluggable storage.
//
// # Overview
//
// Two implementations carry the same Buffer capability. String draws its
// storage from a mem.Allocator and grows by reallocating, so a string can
// live in ordinary heap memory or inside an arena region. Fixed wraps a
// caller-supplied buffer and never grows past it, for memory that was
// placed rather than allocated.
//
// Comparison follows length-first ordering: a shorter string sorts before
// every longer one and only equal-length strings are compared byte by
// byte.
//
// # Transcoding
//
// The codec functions convert between UTF-8 and the two encodings legacy
// byte strings commonly arrive in: Latin-1 for single-byte text and
// UTF-16LE for two-byte text.
//
// # Related Packages
//
//   - mem: the Allocator capability String draws storage from
//   - mem/arena: an allocator that places string storage into a region
package strbuf
