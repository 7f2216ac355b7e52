package arena

import "fmt"

// The self-test writes the whole region and reads it back four times before
// any metadata is placed on it. Each pass targets a different fault class:
// an ascending counter exposes address aliasing, the alternating bit patterns
// 0x55 and 0xAA expose stuck and coupled bits, and the final zero pass leaves
// the region cleared for formatting.

func selfTest(data []byte) error {
	if err := testCounter(data); err != nil {
		return err
	}
	for _, pattern := range []byte{0x55, 0xAA, 0x00} {
		if err := testFill(data, pattern); err != nil {
			return err
		}
	}
	return nil
}

// testCounter writes the low byte of each offset and verifies it. Neighboring
// cells always differ, so two addresses decoding to the same cell read back
// the wrong counter value.
func testCounter(data []byte) error {
	for i := range data {
		data[i] = byte(i)
	}
	for i := range data {
		if data[i] != byte(i) {
			return fmt.Errorf("counter pattern at offset %d: got %#02x, want %#02x: %w",
				i, data[i], byte(i), ErrSelfTest)
		}
	}
	return nil
}

// testFill writes pattern into every cell and verifies it.
func testFill(data []byte, pattern byte) error {
	for i := range data {
		data[i] = pattern
	}
	for i := range data {
		if data[i] != pattern {
			return fmt.Errorf("pattern %#02x at offset %d: got %#02x: %w",
				pattern, i, data[i], ErrSelfTest)
		}
	}
	return nil
}
