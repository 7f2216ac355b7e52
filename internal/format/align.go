package format

// Alignment utilities for the region layout. The region base, the usable
// capacity, and every payload size must sit on 8-byte boundaries.

// Align8 returns n aligned up to the next 8-byte boundary.
// Used for payload sizes and other quantities that must be 8-byte aligned.
//
// Example:
//
//	Align8(1)  = 8
//	Align8(8)  = 8
//	Align8(9)  = 16
//	Align8(16) = 16
func Align8(n int) int {
	return (n + AlignmentMask) & ^AlignmentMask
}

// Align8Down returns n aligned down to the previous 8-byte boundary.
// The usable capacity of an attached region is truncated this way before
// formatting so the block chain never extends past an aligned end.
//
// Example:
//
//	Align8Down(7)  = 0
//	Align8Down(8)  = 8
//	Align8Down(15) = 8
func Align8Down(n int) int {
	return n & ^AlignmentMask
}

// Aligned8 reports whether n sits on an 8-byte boundary.
func Aligned8(n int) bool {
	return n&AlignmentMask == 0
}
