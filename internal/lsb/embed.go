package lsb

import (
	"errors"
	"sync"

	"github.com/yyyoichi/stego_zero/internal/bitconv"
)

var ErrEmptyImageSet = errors.New("no images to hide the message in")

// Embedded is a carrier that received at least one message bit.
type Embedded struct {
	// Index is the position of the carrier in the input set.
	Index int
	Pix   []byte
}

// Embed substitutes the LSB of each carrier byte with the next bit, in
// carrier order, until bits is exhausted. Carriers are not modified; the
// touched ones are returned as fresh copies. Carriers after the one holding
// the last bit are left out of the result.
//
// Each touched carrier owns a precomputed, non-overlapping range of bits, so
// carriers are written concurrently.
func Embed(carriers [][]byte, bits bitconv.Bits) ([]Embedded, error) {
	if len(carriers) == 0 {
		return nil, ErrEmptyImageSet
	}

	var (
		plan   []Embedded
		starts []int
		offset int
		total  = bits.Len()
	)
	for i, c := range carriers {
		if offset >= total {
			break
		}
		if len(c) == 0 {
			continue
		}
		plan = append(plan, Embedded{Index: i})
		starts = append(starts, offset)
		offset += len(c)
	}

	var wg sync.WaitGroup
	wg.Add(len(plan))
	for i := range plan {
		go func(i int, bits bitconv.Bits) {
			defer wg.Done()
			plan[i].Pix = embedRange(carriers[plan[i].Index], bits, starts[i])
		}(i, bits.Clone())
	}
	wg.Wait()
	return plan, nil
}

// embedRange writes bits[start:] into a copy of src.
func embedRange(src []byte, bits bitconv.Bits, start int) []byte {
	dst := make([]byte, len(src))
	copy(dst, src)
	n := min(len(dst), bits.Len()-start)
	for i := range n {
		dst[i] = dst[i]&0xFE | bits.At(start+i)
	}
	return dst
}
