// Package endian provides the byte-order engines used by internal/bin's
// primitive reads.
//
// It combines binary.ByteOrder and binary.AppendByteOrder into a single
// EndianEngine interface so a Reader can hold one value and reach either
// kind of method on it, instead of threading two interfaces (or a bool
// flag) through every call site. MDX fields are always read in a specific
// declared order — big-endian for directory widths and lengths,
// little-endian for UTF-16LE text and the obfuscation key material — so
// callers pick the engine that matches the field being read, never the
// host machine's native order.
package endian

import "encoding/binary"

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary
// into one interface. binary.LittleEndian and binary.BigEndian both satisfy
// it already.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}
