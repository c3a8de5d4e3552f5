package ecc

import (
	"github.com/yyyoichi/bitstream-go"
	"github.com/yyyoichi/golay"
	"github.com/yyyoichi/stego_zero/internal/bitconv"
)

// Codec protects a message bitstream before it is written to carrier LSBs.
// Decoding is block-wise so that the reader can stop as soon as the
// terminator shows up, without knowing the message length in advance.
type Codec interface {
	// EncodedLen returns the number of carrier bits needed for n message bits.
	EncodedLen(n int) int
	Encode(bits bitconv.Bits) bitconv.Bits
	// BlockLen returns the number of carrier bits DecodeBlock expects.
	BlockLen() int
	DecodeBlock(block []uint8) []uint8
}

var _ Codec = (*Plain)(nil)

// Plain writes the message bits as they are.
type Plain struct{}

func (Plain) EncodedLen(n int) int                  { return n }
func (Plain) Encode(bits bitconv.Bits) bitconv.Bits { return bits }
func (Plain) BlockLen() int                         { return 1 }
func (Plain) DecodeBlock(block []uint8) []uint8     { return block }

var _ Codec = (*Golay)(nil)

const (
	golayDataBits = 12
	golayCodeBits = 23
)

// Golay applies the binary Golay(23,12) code. Every 12 message bits become
// one 23 bit codeword, and up to 3 flipped bits per codeword are corrected
// on decode.
type Golay struct{}

func (Golay) EncodedLen(n int) int {
	if n == 0 {
		return 0
	}
	return golay.EncodedBits(n)
}

func (Golay) Encode(bits bitconv.Bits) bitconv.Bits {
	if bits.Len() == 0 {
		return bits
	}
	var encoded []uint64
	enc := golay.NewEncoder(&encoded)
	_ = enc.Encode(bits.Words(), bits.Len())
	return bitconv.FromWords(encoded, enc.Bits())
}

func (Golay) BlockLen() int { return golayCodeBits }

func (Golay) DecodeBlock(block []uint8) []uint8 {
	w := bitstream.NewBitWriter[uint64](0, 0)
	for _, v := range block {
		w.WriteBool(v&0x01 == 1)
	}
	var decoded []uint64
	dec := golay.NewDecoder(w.Data(), w.Bits())
	_ = dec.Decode(&decoded)

	r := bitstream.NewBitReader(decoded, 0, 0)
	out := make([]uint8, golayDataBits)
	for i := range out {
		if bit, _ := r.ReadBitAt(i); bit {
			out[i] = 1
		}
	}
	return out
}
