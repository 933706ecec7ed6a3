// Package ripemd128 implements the RIPEMD-128 hash algorithm, following the
// same hash.Hash shape as the standard library's crypto/md5 and
// golang.org/x/crypto/ripemd160.
//
// No third-party Go module implements RIPEMD-128 (only the related
// RIPEMD-160 is available in the wider ecosystem); this package exists
// solely to key the MDX key-block-info deobfuscation cipher, which mandates
// RIPEMD-128 specifically. It is not exposed outside this module.
package ripemd128

import "hash"

// Size is the size, in bytes, of a RIPEMD-128 checksum.
const Size = 16

// BlockSize is the block size, in bytes, of the RIPEMD-128 hash function.
const BlockSize = 64

const (
	h0init = 0x67452301
	h1init = 0xefcdab89
	h2init = 0x98badcfe
	h3init = 0x10325476
)

type digest struct {
	s   [4]uint32
	x   [BlockSize]byte
	nx  int
	len uint64
}

// New returns a new hash.Hash computing the RIPEMD-128 checksum.
func New() hash.Hash {
	d := new(digest)
	d.Reset()

	return d
}

func (d *digest) Reset() {
	d.s[0], d.s[1], d.s[2], d.s[3] = h0init, h1init, h2init, h3init
	d.nx = 0
	d.len = 0
}

func (d *digest) Size() int { return Size }

func (d *digest) BlockSize() int { return BlockSize }

func (d *digest) Write(p []byte) (nn int, err error) {
	nn = len(p)
	d.len += uint64(nn)

	if d.nx > 0 {
		n := copy(d.x[d.nx:], p)
		d.nx += n
		if d.nx == BlockSize {
			block(d, d.x[:])
			d.nx = 0
		}
		p = p[n:]
	}

	for len(p) >= BlockSize {
		block(d, p[:BlockSize])
		p = p[BlockSize:]
	}

	if len(p) > 0 {
		d.nx = copy(d.x[:], p)
	}

	return nn, nil
}

func (d *digest) Sum(in []byte) []byte {
	d0 := *d
	hash := d0.checkSum()

	return append(in, hash[:]...)
}

func (d *digest) checkSum() [Size]byte {
	len := d.len

	var tmp [64]byte
	tmp[0] = 0x80
	if len%64 < 56 {
		d.Write(tmp[0 : 56-len%64])
	} else {
		d.Write(tmp[0 : 64+56-len%64])
	}

	len <<= 3
	for i := uint(0); i < 8; i++ {
		tmp[i] = byte(len >> (8 * i))
	}
	d.Write(tmp[0:8])

	if d.nx != 0 {
		panic("d.nx != 0")
	}

	var digest [Size]byte
	for i, s := range d.s {
		digest[i*4] = byte(s)
		digest[i*4+1] = byte(s >> 8)
		digest[i*4+2] = byte(s >> 16)
		digest[i*4+3] = byte(s >> 24)
	}

	return digest
}

// Sum128 returns the RIPEMD-128 checksum of data.
func Sum128(data []byte) [Size]byte {
	var d digest
	d.Reset()
	d.Write(data)

	return d.checkSum()
}
