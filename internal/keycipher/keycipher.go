// Package keycipher implements the RIPEMD-128-keyed XOR+nibble-swap stream
// cipher that wraps the compressed key-block-info section in MDX's v2 wire
// format (spec component C3). The construction is a format obfuscation, not
// a security measure — callers should never surface it as "decryption".
package keycipher

import (
	"encoding/binary"

	"github.com/mdxlib/mdx/internal/ripemd128"
)

// key derives the 16-byte RIPEMD-128 key from the 4-byte little-endian info
// checksum, per the fixed construction: S = checksum_le || 0x3695_le.
func key(infoChecksum uint32) [ripemd128.Size]byte {
	var seed [8]byte
	binary.LittleEndian.PutUint32(seed[0:4], infoChecksum)
	binary.LittleEndian.PutUint32(seed[4:8], 0x3695)

	return ripemd128.Sum128(seed[:])
}

// Deobfuscate reverses the byte-shuffle-and-XOR stream applied to the v2
// key-block-info ciphertext, returning the plaintext zlib stream. It does
// not itself inflate the result; callers pass the output to a zlib reader.
//
// The cipher, for each byte c at position i:
//
//	x    := nibbleSwap(c)
//	p[i] := x XOR prev XOR (i & 0xFF) XOR key[i % 16]
//	prev := c   // next iteration's prev is this byte's CIPHERTEXT, not p[i]
//
// prev is seeded to 0x36. This detail — feeding back ciphertext rather than
// plaintext — is deliberate and verified against fixture S1-S3; some ports
// of this format swap to plaintext feedback, which produces different
// output on any file with more than one byte of info.
func Deobfuscate(ciphertext []byte, infoChecksum uint32) []byte {
	k := key(infoChecksum)
	plain := make([]byte, len(ciphertext))

	var prev byte = 0x36
	for i, c := range ciphertext {
		x := (c>>4 | c<<4) & 0xFF
		plain[i] = x ^ prev ^ byte(i&0xFF) ^ k[i%len(k)]
		prev = c
	}

	return plain
}

// Obfuscate applies the forward cipher, producing the ciphertext that
// Deobfuscate would reverse. Production decoding never calls this — MDX
// files are read-only inputs here — but the test fixture builder
// (testdata) needs it to construct synthetic v2 dictionaries.
func Obfuscate(plaintext []byte, infoChecksum uint32) []byte {
	k := key(infoChecksum)
	cipher := make([]byte, len(plaintext))

	var prev byte = 0x36
	for i, p := range plaintext {
		swapped := p ^ prev ^ byte(i&0xFF) ^ k[i%len(k)]
		c := (swapped>>4 | swapped<<4) & 0xFF
		cipher[i] = c
		prev = c
	}

	return cipher
}
