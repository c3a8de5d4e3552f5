package lsb

import (
	"bytes"
	"errors"

	"github.com/yyyoichi/stego_zero/internal/bitconv"
	"github.com/yyyoichi/stego_zero/internal/ecc"
)

var (
	ErrSentinelNotFound = errors.New("end of message not found in images")
	ErrEmptySentinel    = errors.New("sentinel must not be empty")
)

// Accumulator collects decoded bytes and watches for the sentinel at the
// tail. The check only sees the trailing window, so a payload that contains
// the sentinel ends there.
type Accumulator struct {
	buf      []byte
	sentinel []byte
}

func NewAccumulator(sentinel []byte) *Accumulator {
	return &Accumulator{sentinel: sentinel}
}

func (a *Accumulator) AppendByte(b byte) {
	a.buf = append(a.buf, b)
}

func (a *Accumulator) EndsWithSentinel() bool {
	n := len(a.sentinel)
	return n > 0 && len(a.buf) >= n && bytes.Equal(a.buf[len(a.buf)-n:], a.sentinel)
}

// Message returns the bytes before the sentinel. Valid only once
// EndsWithSentinel reports true.
func (a *Accumulator) Message() []byte {
	return a.buf[:len(a.buf)-len(a.sentinel)]
}

func (a *Accumulator) Len() int {
	return len(a.buf)
}

// Extract reads carrier LSBs in order, decodes them with codec and returns
// everything before the first occurrence of sentinel at the tail of the
// decoded bytes. Carriers are never modified.
func Extract(carriers [][]byte, sentinel []byte, codec ecc.Codec) ([]byte, error) {
	if len(sentinel) == 0 {
		return nil, ErrEmptySentinel
	}
	var (
		acc   = NewAccumulator(sentinel)
		block = make([]uint8, 0, codec.BlockLen())
		bits  = make([]uint8, 0, 8)
	)
	for _, c := range carriers {
		for _, b := range c {
			block = append(block, b&0x01)
			if len(block) < codec.BlockLen() {
				continue
			}
			for _, bit := range codec.DecodeBlock(block) {
				bits = append(bits, bit)
				if len(bits) < 8 {
					continue
				}
				v, err := bitconv.Unpack(bits)
				if err != nil {
					return nil, err
				}
				bits = bits[:0]
				acc.AppendByte(v[0])
				if acc.EndsWithSentinel() {
					return acc.Message(), nil
				}
			}
			block = block[:0]
		}
	}
	return nil, ErrSentinelNotFound
}
