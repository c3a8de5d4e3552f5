package bitconv

import (
	"errors"
	"fmt"

	"github.com/yyyoichi/bitstream-go"
)

var ErrMalformedBitCount = errors.New("bit count is not a multiple of 8")

// Bits is a materialized bit sequence, MSB first within each byte.
type Bits struct {
	r *bitstream.BitReader[uint64]
}

// Pack expands message into 8 bits per byte, MSB first, in byte order.
func Pack(message []byte) Bits {
	w := bitstream.NewBitWriter[uint64](0, 0)
	for _, v := range message {
		w.Write8(0, 8, v)
	}
	return FromWords(w.Data(), w.Bits())
}

// FromWords wraps the first n bits of data.
func FromWords(data []uint64, n int) Bits {
	r := bitstream.NewBitReader(data, 0, 0)
	r.SetBits(n)
	return Bits{r: r}
}

// Len returns the number of bits.
func (b Bits) Len() int {
	if b.r == nil {
		return 0
	}
	return b.r.Bits()
}

// At returns the bit at i as 0 or 1.
func (b Bits) At(i int) uint8 {
	return b.r.Read8R(1, i) & 0x01
}

// Words returns the backing words, padded with zero bits after Len.
func (b Bits) Words() []uint64 {
	if b.r == nil {
		return nil
	}
	return b.r.Data()
}

// Unpack groups bits into bytes, MSB first. Each element of bits is 0 or 1;
// higher bits of an element are ignored.
func Unpack(bits []uint8) ([]byte, error) {
	if len(bits)%8 != 0 {
		return nil, fmt.Errorf("%w: got %d bits", ErrMalformedBitCount, len(bits))
	}
	out := make([]byte, len(bits)/8)
	for i := range out {
		var v byte
		for j, bit := range bits[i*8 : (i+1)*8] {
			v |= (bit & 0x01) << uint(7-j)
		}
		out[i] = v
	}
	return out, nil
}

// Clone returns an independent reader over the same bits, for use from
// another goroutine.
func (b Bits) Clone() Bits {
	if b.r == nil {
		return b
	}
	return FromWords(b.Words(), b.Len())
}
