package elf

// The format uses exactly two byte-order conventions. The magic number is
// compared as the big-endian reading of its four bytes; every other
// multi-byte field is little-endian. Keep these separate.

// DecodeMagic interprets four raw bytes big-endian, first byte most
// significant. It is only used for the identification magic.
func DecodeMagic(b []byte) uint32 {
	_ = b[3]
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

// DecodeLE16 interprets two bytes as a little-endian unsigned integer
func DecodeLE16(b []byte) uint16 {
	_ = b[1]
	return uint16(b[0]) | uint16(b[1])<<8
}

// DecodeLE32 interprets four bytes as a little-endian unsigned integer
func DecodeLE32(b []byte) uint32 {
	_ = b[3]
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
